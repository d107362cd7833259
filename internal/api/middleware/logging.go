package middleware

import (
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/streakd/streakd/internal/logger"
)

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Logging middleware logs request method, path, status, and duration.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		keyvals := []interface{}{
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.statusCode,
			"duration", time.Since(start),
		}
		if reqID := chimiddleware.GetReqID(r.Context()); reqID != "" {
			keyvals = append(keyvals, "request_id", reqID)
		}
		if userID := GetUserID(r.Context()); userID != "" {
			keyvals = append(keyvals, "user_id", userID)
		}

		if wrapped.statusCode >= http.StatusInternalServerError {
			logger.Warn("request", keyvals...)
			return
		}
		logger.Info("request", keyvals...)
	})
}
