// Package middleware provides the HTTP middleware chain of the API server:
// request ids, request scoped loggers and access logging.
package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nucleus/starwars-api/internal/logging"
)

// HeaderRequestID carries the request id in and out of the server.
const HeaderRequestID = "X-Request-Id"

type contextKey string

const (
	contextKeyRequestID contextKey = "request_id"
)

// RequestIDFromContext returns the id assigned to the current request.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(contextKeyRequestID).(string); ok {
		return id
	}
	return ""
}

// UnmatchedRoute labels requests that no registered route handled.
const UnmatchedRoute = "unmatched"

// RequestObserver records served requests, e.g. into Prometheus. route is
// the matched mux pattern, never the raw request path.
type RequestObserver interface {
	ObserveRequest(route string, code int, d time.Duration)
}

// Chain applies middleware so that the first argument is the outermost.
func Chain(h http.Handler, mw ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	return h
}

// RequestID assigns every request an id, reusing the caller's X-Request-Id
// when present, and attaches a logger tagged with it.
func RequestID(base *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(HeaderRequestID)
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set(HeaderRequestID, id)

			ctx := context.WithValue(r.Context(), contextKeyRequestID, id)
			ctx = logging.WithContext(ctx, base.With(zap.String("request_id", id)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// AccessLog logs one line per request and reports it to obs when set.
func AccessLog(obs RequestObserver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			elapsed := time.Since(start)

			logging.FromContext(r.Context()).Debug("request served",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rec.status),
				zap.Duration("duration", elapsed),
			)
			if obs != nil {
				obs.ObserveRequest(routeOf(r), rec.status, elapsed)
			}
		})
	}
}

// routeOf returns the path part of the pattern the ServeMux matched for r,
// which the mux records on the request it was handed.
func routeOf(r *http.Request) string {
	if r.Pattern == "" {
		return UnmatchedRoute
	}
	route := r.Pattern
	if _, path, ok := strings.Cut(route, " "); ok {
		route = path
	}
	return strings.TrimSuffix(route, "{$}")
}
