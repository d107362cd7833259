package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/streakd/streakd/internal/api/response"
	"github.com/streakd/streakd/internal/domain"
)

type contextKey string

const (
	// UserIDKey is the context key for the authenticated user ID.
	UserIDKey contextKey = "userID"
	// UserHeader carries the authenticated user ID, set by the fronting auth layer.
	UserHeader = "X-Streakd-User"
)

// UserID middleware extracts the X-Streakd-User header and adds it to context.
func UserID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := strings.TrimSpace(r.Header.Get(UserHeader))
		if userID == "" {
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireUser rejects requests without a user identity with 401.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetUserID(r.Context()) == "" {
			response.Error(w, domain.NewUnauthenticatedError())
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetUserID retrieves the user ID from context, or "" when absent.
func GetUserID(ctx context.Context) string {
	if userID, ok := ctx.Value(UserIDKey).(string); ok {
		return userID
	}
	return ""
}
