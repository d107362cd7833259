package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/streakd/streakd/internal/api/response"
	"github.com/streakd/streakd/internal/domain"
	"github.com/streakd/streakd/internal/logger"
)

// Recovery middleware catches panics and returns a 500 error.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				if err == http.ErrAbortHandler {
					panic(err)
				}
				logger.Error("panic recovered", "panic", err, "path", r.URL.Path, "stack", string(debug.Stack()))
				response.Error(w, domain.NewInternalError(nil))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
