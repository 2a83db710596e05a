package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/videotube/backend/internal/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AccessTokenValidator validates access tokens and returns the user id they carry
type AccessTokenValidator interface {
	ValidateAccessToken(token string) (string, error)
}

// AuthMiddleware validates the JWT access token and puts the user id into the request context
func AuthMiddleware(validator AccessTokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				writeError(w, http.StatusUnauthorized, "unauthorized access")
				return
			}

			rawID, err := validator.ValidateAccessToken(token)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid or expired access token")
				return
			}

			userID, err := primitive.ObjectIDFromHex(rawID)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid or expired access token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// extractToken reads the token from the Authorization header, then from the access token cookie
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			if token := strings.TrimSpace(parts[1]); token != "" {
				return token
			}
		}
	}

	if cookie, err := r.Cookie(auth.AccessTokenCookie); err == nil {
		return cookie.Value
	}
	return ""
}

// WithUserID stores the authenticated user id in ctx
func WithUserID(ctx context.Context, userID primitive.ObjectID) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// GetUserID retrieves the authenticated user id from context
func GetUserID(ctx context.Context) (primitive.ObjectID, bool) {
	userID, ok := ctx.Value(userIDKey).(primitive.ObjectID)
	return userID, ok
}
