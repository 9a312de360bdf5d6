package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"starforge/internal/auth"
	"starforge/internal/shared/errors"
	"starforge/internal/shared/response"
)

type contextKey string

const UserContextKey contextKey = "user"

// JWT authenticates requests with a bearer token, falling back to the auth
// cookie for browser clients.
type JWT struct {
	verifier   *auth.Verifier
	cookieName string
}

func NewJWT(verifier *auth.Verifier, cookieName string) *JWT {
	return &JWT{verifier: verifier, cookieName: cookieName}
}

func (m *JWT) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := slog.With(
			"middleware", "jwt",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
		)
		logger.Debug("Processing JWT authentication")

		token := m.token(r)
		if token == "" {
			response.Error(w, r, logger, errors.Unauthorized("authentication required"))
			return
		}

		claims, err := m.verifier.Validate(token)
		if err != nil {
			response.Error(w, r, logger, errors.Unauthorized("invalid token"))
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, claims)
		logger.Debug("JWT authentication successful", "subject", claims.Subject)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *JWT) token(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if rest, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(rest)
		}
		return ""
	}
	if m.cookieName == "" {
		return ""
	}
	cookie, err := r.Cookie(m.cookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// GetUserFromContext returns the claims stored by the JWT middleware.
func GetUserFromContext(r *http.Request) *auth.Claims {
	if claims, ok := r.Context().Value(UserContextKey).(*auth.Claims); ok {
		return claims
	}
	return nil
}
