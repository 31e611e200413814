package rest

import (
	"context"
	"net/http"

	docs "github.com/Gthulhu/erp/docs/manager"
	"github.com/Gthulhu/erp/manager/domain"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
)

func (h *Handler) SetupRoutes(engine *echo.Echo) {
	engine.GET("/health", h.echoHandler(h.HealthCheck))
	engine.GET("/version", h.echoHandler(h.Version))
	engine.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	docs.SwaggerInfo.BasePath = "/"
	engine.GET("/swagger/*", echoSwagger.WrapHandler)

	api := engine.Group("/api", echo.WrapMiddleware(LoggerMiddleware))
	// v1 routes
	{
		apiV1 := api.Group("/v1")
		// auth routes
		apiV1.POST("/auth/login", h.echoHandler(h.Login))
		apiV1.POST("/auth/logout", h.echoHandler(h.Logout), echo.WrapMiddleware(h.GetAuthMiddleware()))

		// users routes
		apiV1.GET("/users/self", h.echoHandler(h.GetSelfUser), echo.WrapMiddleware(h.GetAuthMiddleware()))
		apiV1.GET("/users", h.echoHandler(h.ListUsers), echo.WrapMiddleware(h.GetAuthMiddleware(domain.UsersView)))
		apiV1.POST("/users", h.echoHandler(h.CreateUser), echo.WrapMiddleware(h.GetAuthMiddleware(domain.UsersCreate)))
		apiV1.PUT("/users/role", h.echoHandler(h.UpdateUserRole), echo.WrapMiddleware(h.GetAuthMiddleware(domain.UsersEdit)))
		apiV1.DELETE("/users", h.echoHandler(h.DeleteUser), echo.WrapMiddleware(h.GetAuthMiddleware(domain.UsersDelete)))

		// role routes
		apiV1.GET("/roles", h.echoHandler(h.ListRoles), echo.WrapMiddleware(h.GetAuthMiddleware(domain.UsersView)))
		apiV1.GET("/roles/compare", h.echoHandler(h.CompareRoles), echo.WrapMiddleware(h.GetAuthMiddleware(domain.UsersView)))
		apiV1.GET("/roles/:role", h.echoHandlerWithParams(h.GetRole), echo.WrapMiddleware(h.GetAuthMiddleware(domain.UsersView)))
		apiV1.GET("/permissions", h.echoHandler(h.ListPermissions), echo.WrapMiddleware(h.GetAuthMiddleware(domain.SettingsView)))

		// access routes
		apiV1.POST("/access/check", h.echoHandler(h.CheckAccess), echo.WrapMiddleware(h.GetAuthMiddleware()))
		apiV1.GET("/audit", h.echoHandler(h.ListAuditLogs), echo.WrapMiddleware(h.GetAuthMiddleware(domain.SettingsEdit)))
	}
}

func (h *Handler) echoHandler(handlerFunc func(w http.ResponseWriter, r *http.Request)) echo.HandlerFunc {
	return echo.WrapHandler(http.HandlerFunc(handlerFunc))
}

// echoHandlerWithParams wraps a handler function and injects path parameters into request context
func (h *Handler) echoHandlerWithParams(handlerFunc func(w http.ResponseWriter, r *http.Request)) echo.HandlerFunc {
	return func(c echo.Context) error {
		r := c.Request()
		for _, name := range c.ParamNames() {
			r = r.WithContext(context.WithValue(r.Context(), pathParamKey(name), c.Param(name)))
		}
		handlerFunc(c.Response().Writer, r)
		return nil
	}
}

type pathParamKey string

// GetPathParam retrieves a path parameter from request context
func (h *Handler) GetPathParam(r *http.Request, name string) string {
	if val, ok := r.Context().Value(pathParamKey(name)).(string); ok {
		return val
	}
	return ""
}
