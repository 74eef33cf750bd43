package middleware

import (
	"context"
	"net/http"
	"strings"

	"freshtrack/internal/auth"
	"freshtrack/internal/model"
	"freshtrack/internal/repository"

	"github.com/rs/zerolog"
)

type contextKey string

const claimsKey contextKey = "claims"

// ClaimsFromContext returns the authenticated claims attached by JWTAuth.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*auth.Claims)
	return claims, ok
}

// WithClaims returns a context carrying the given claims. Exposed for handler
// tests.
func WithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// publicPaths require no token.
var publicPaths = map[string]bool{
	"/health":            true,
	"/api/auth/login":    true,
	"/api/auth/register": true,
}

// JWTAuth validates the bearer token, rejects revoked or disabled sessions,
// and attaches the claims to the request context.
func JWTAuth(secret string, revoker auth.TokenRevoker, users repository.UserRepository, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if publicPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				logger.Warn().Str("path", r.URL.Path).Msg("missing bearer token")
				unauthorised(w, "missing bearer token")
				return
			}

			claims, err := auth.ValidateToken(secret, token)
			if err != nil {
				logger.Warn().Str("path", r.URL.Path).Err(err).Msg("invalid token")
				unauthorised(w, "invalid or expired token")
				return
			}

			revoked, err := revoker.IsRevoked(r.Context(), claims.ID)
			if err != nil {
				logger.Error().Err(err).Msg("revocation check failed")
				unauthorised(w, "invalid or expired token")
				return
			}
			if revoked {
				unauthorised(w, "session has been logged out")
				return
			}

			// Deactivation takes effect on the next request, not at the
			// token's expiry.
			user, err := users.GetByID(r.Context(), claims.UserID)
			if err != nil {
				logger.Error().Err(err).Int64("user_id", claims.UserID).Msg("user lookup failed")
				unauthorised(w, "invalid or expired token")
				return
			}
			if user == nil || !user.IsActive {
				unauthorised(w, "account is disabled")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// RequireRole rejects requests whose authenticated role is not in roles.
func RequireRole(logger zerolog.Logger, roles ...model.Role) func(http.Handler) http.Handler {
	allowed := make(map[model.Role]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				unauthorised(w, "missing bearer token")
				return
			}
			if !allowed[claims.Role] {
				logger.Warn().
					Str("path", r.URL.Path).
					Str("role", string(claims.Role)).
					Msg("insufficient role")
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				w.Write([]byte(`{"error": "insufficient permissions", "code": "FORBIDDEN"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func unauthorised(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error": "` + message + `", "code": "UNAUTHORIZED"}`))
}
