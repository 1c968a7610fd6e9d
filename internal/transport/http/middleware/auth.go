package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/school-api/internal/domain"
	jwtinfra "github.com/school-api/internal/infrastructure/jwt"
	"github.com/school-api/internal/pkg/logger"
	"go.uber.org/zap"
)

type contextKey string

const ClaimsKey contextKey = "claims"

// TokenVerifier validates a bearer token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*jwtinfra.Claims, error)
}

// Auth returns middleware that validates the Bearer JWT and injects claims into context.
// The request logger is tagged with the caller's user and school.
func Auth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				writeJSONError(w, http.StatusUnauthorized, "missing or invalid authorization header")
				return
			}
			tokenStr := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
			claims, err := verifier.Verify(tokenStr)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}
			ctx := context.WithValue(r.Context(), ClaimsKey, claims)
			fields := []zap.Field{zap.Uint("user_id", claims.UserID)}
			if claims.SchoolID != nil {
				fields = append(fields, zap.Uint("school_id", *claims.SchoolID))
			}
			ctx = logger.WithContext(ctx, logger.FromContext(ctx).With(fields...))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext extracts JWT claims from the request context.
func ClaimsFromContext(ctx context.Context) (*jwtinfra.Claims, bool) {
	c, ok := ctx.Value(ClaimsKey).(*jwtinfra.Claims)
	return c, ok
}

// CallerFromContext builds the caller identity from the JWT claims.
func CallerFromContext(ctx context.Context) (domain.Caller, bool) {
	c, ok := ClaimsFromContext(ctx)
	if !ok || c == nil {
		return domain.Caller{}, false
	}
	return c.Caller(), true
}
