package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/daylansit/social-blog/internal/auth"
)

type key string

const userIDKey key = "user_id"

// GetUserID returns the authenticated user's id placed in the context by JWT.
func GetUserID(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(userIDKey).(int)
	return id, ok
}

// WithUserID returns a context carrying the given user id. Exported for tests
// that call protected handlers directly.
func WithUserID(ctx context.Context, id int) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

// JWT guards a route group: it reads the Authorization header, verifies the
// token (second whitespace-delimited segment; scheme not enforced) and puts
// the caller's user id on the request context. Every failure is a 401.
func JWT(tokens *auth.Tokens) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				unauthorized(w)
				return
			}

			parts := strings.Fields(authHeader)
			if len(parts) < 2 {
				unauthorized(w)
				return
			}

			claims, err := tokens.Verify(parts[1])
			if err != nil {
				unauthorized(w)
				return
			}

			ctx := WithUserID(r.Context(), claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"message":"not authenticated"}`))
}
