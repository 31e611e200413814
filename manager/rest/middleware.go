package rest

import (
	"bytes"
	"context"
	"net"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/Gthulhu/erp/manager/domain"
	"github.com/Gthulhu/erp/pkg/logger"
	"github.com/rs/xid"
	"github.com/rs/zerolog"
)

const (
	headerAuthorization = "Authorization"
	headerRequestID     = "X-Request-ID"
	bearerScheme        = "Bearer "
)

// GetAuthMiddleware authenticates the bearer token and requires the caller's
// current role to hold every permission in perms. With no perms any
// authenticated user passes.
func (h *Handler) GetAuthMiddleware(perms ...domain.Permission) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			token, msg := bearerToken(r)
			if msg != "" {
				h.ErrorResponse(ctx, w, http.StatusUnauthorized, msg, nil)
				return
			}

			claims, err := h.Svc.VerifyJWTToken(ctx, token, h.requestMeta(r), perms...)
			if err != nil {
				h.HandleError(ctx, w, err)
				return
			}

			ctx = logger.Logger(ctx).With().
				Str("uid", claims.UID).
				Str("role", claims.Role.String()).
				Logger().WithContext(ctx)
			ctx = h.SetClaimsInContext(ctx, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts the token from the Authorization header. A non-empty
// msg describes why the header was rejected.
func bearerToken(r *http.Request) (token string, msg string) {
	header := r.Header.Get(headerAuthorization)
	if header == "" {
		return "", "Missing Authorization header"
	}
	token, ok := strings.CutPrefix(header, bearerScheme)
	if !ok || strings.TrimSpace(token) == "" {
		return "", "Invalid Authorization header format"
	}
	return strings.TrimSpace(token), ""
}

// LoggerMiddleware tags every request with a request id, attaches a request
// scoped logger to the context and logs the outcome once the handler returns.
func LoggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(headerRequestID)
		if reqID == "" {
			reqID = xid.New().String()
		}
		w.Header().Set(headerRequestID, reqID)

		start := time.Now()
		log := logger.Logger(r.Context()).With().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("req_id", reqID).
			Str("ip", clientIP(r)).
			Logger()

		rec := newStatusRecorder(w)
		defer func() {
			if p := recover(); p != nil {
				log.Error().Interface("panic", p).Bytes("stack", debug.Stack()).Msg("handler panicked")
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}
		}()

		ctx := context.WithValue(log.WithContext(r.Context()), requestIDCtxKey, reqID)
		next.ServeHTTP(rec, r.WithContext(ctx))
		logCompletion(log, rec, time.Since(start))
	})
}

func logCompletion(log zerolog.Logger, rec *statusRecorder, cost time.Duration) {
	var event *zerolog.Event
	switch {
	case rec.status >= http.StatusInternalServerError:
		event = log.Error().Str("response_body", rec.body.String())
	case rec.status >= http.StatusBadRequest:
		event = log.Warn().Str("response_body", rec.body.String())
	default:
		event = log.Info()
	}
	event.Int("status_code", rec.status).
		Int64("cost_msec", cost.Milliseconds()).
		Msg("request completed")
}

// clientIP prefers the first X-Forwarded-For hop.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// statusRecorder keeps the status code and, for failed requests, the body so
// it can be logged.
type statusRecorder struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func newStatusRecorder(w http.ResponseWriter) *statusRecorder {
	return &statusRecorder{ResponseWriter: w, status: http.StatusOK}
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *statusRecorder) Write(b []byte) (int, error) {
	if rec.status >= http.StatusBadRequest {
		rec.body.Write(b)
	}
	return rec.ResponseWriter.Write(b)
}
