package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Gthulhu/erp/manager/domain"
	"github.com/Gthulhu/erp/manager/errs"
	"github.com/Gthulhu/erp/pkg/logger"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const (
	serviceName    = "ERP Access Manager"
	serviceVersion = "1.0.0"
)

// ErrorResponse represents error response structure
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// SuccessResponse represents the success response structure
type SuccessResponse[T any] struct {
	Success   bool   `json:"success"`
	Data      *T     `json:"data,omitempty"`
	Timestamp string `json:"timestamp"`
}

type EmptyResponse struct{}

func NewSuccessResponse[T any](data *T) SuccessResponse[T] {
	return SuccessResponse[T]{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

type Params struct {
	fx.In
	Svc domain.Service
}

func NewHandler(params Params) (*Handler, error) {
	return &Handler{
		Svc: params.Svc,
	}, nil
}

type Handler struct {
	Svc domain.Service
}

func (h *Handler) JSONResponse(ctx context.Context, w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(data)
	if err != nil {
		logger.Logger(ctx).Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (h *Handler) JSONBind(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	return decoder.Decode(dst)
}

func (h *Handler) ErrorResponse(ctx context.Context, w http.ResponseWriter, status int, errMsg string, err error) {
	if err != nil {
		logger.Logger(ctx).Debug().Err(err).Int("status_code", status).Msg(errMsg)
	}
	resp := ErrorResponse{
		Success: false,
		Error:   errMsg,
	}
	h.JSONResponse(ctx, w, status, resp)
}

// HandleError maps service errors onto responses. Unclassified errors are
// reported as 500 without leaking their text.
func (h *Handler) HandleError(ctx context.Context, w http.ResponseWriter, err error) {
	if httpErr, ok := errs.IsHTTPStatusError(err); ok {
		h.ErrorResponse(ctx, w, httpErr.StatusCode, httpErr.Message, err)
		return
	}
	switch {
	case errors.Is(err, domain.ErrNotFound):
		h.ErrorResponse(ctx, w, http.StatusNotFound, "Not found", err)
	case errors.Is(err, domain.ErrUnknownRole), errors.Is(err, domain.ErrUnknownPermission):
		h.ErrorResponse(ctx, w, http.StatusBadRequest, err.Error(), err)
	default:
		logger.Logger(ctx).Error().Err(err).Msg("unhandled error")
		h.ErrorResponse(ctx, w, http.StatusInternalServerError, "Internal server error", nil)
	}
}

type VersionResponse struct {
	Message string `json:"message"`
	Version string `json:"version"`
}

// Version godoc
// @Summary Service version
// @Tags System
// @Produce json
// @Success 200 {object} VersionResponse
// @Router /version [get]
func (h *Handler) Version(w http.ResponseWriter, r *http.Request) {
	response := VersionResponse{
		Message: serviceName,
		Version: serviceVersion,
	}
	h.JSONResponse(r.Context(), w, http.StatusOK, response)
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Service   string `json:"service"`
}

// HealthCheck godoc
// @Summary Liveness probe
// @Tags System
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Service:   serviceName,
	}
	h.JSONResponse(r.Context(), w, http.StatusOK, response)
}

type ctxKey int

const (
	claimsCtxKey ctxKey = iota
	requestIDCtxKey
)

func (h *Handler) SetClaimsInContext(ctx context.Context, claims domain.Claims) context.Context {
	return context.WithValue(ctx, claimsCtxKey, claims)
}

func (h *Handler) GetClaimsFromContext(ctx context.Context) (domain.Claims, bool) {
	claims, ok := ctx.Value(claimsCtxKey).(domain.Claims)
	return claims, ok
}

func requestIDFromContext(ctx context.Context) string {
	reqID, _ := ctx.Value(requestIDCtxKey).(string)
	return reqID
}

// requestMeta describes r for the audit log.
func (h *Handler) requestMeta(r *http.Request) domain.RequestMeta {
	return domain.RequestMeta{
		RequestID: requestIDFromContext(r.Context()),
		IP:        clientIP(r),
		Action:    r.Method + " " + r.URL.Path,
	}
}
