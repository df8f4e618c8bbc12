package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// responseWriter wraps http.ResponseWriter to capture status and size.
type responseWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (w *responseWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *responseWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.size += n
	return n, err
}

// authInfo is seeded into the context by RequestLog and filled in by JWT
// once the token verifies. Context values only flow inward, so the log
// line needs a slot it can read back after the handler returns.
type authInfo struct {
	userID int
	authed bool
}

const authInfoKey key = "auth_info"

// RequestLog logs each request with request_id, method, path, status, duration,
// size, and the authenticated user id when a token verified further down the
// chain. Use after RequestID middleware so the ID is available.
func RequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		info := &authInfo{}
		r = r.WithContext(context.WithValue(r.Context(), authInfoKey, info))
		wrap := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrap, r)
		dur := time.Since(start)
		attrs := []any{
			"request_id", chimw.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrap.status,
			"duration_ms", dur.Milliseconds(),
			"size", wrap.size,
		}
		if info.authed {
			attrs = append(attrs, "user_id", info.userID)
		}
		slog.Info("request", attrs...)
	})
}
