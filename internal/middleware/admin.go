package middleware

import (
	"log/slog"
	"net/http"

	"starforge/internal/auth"
	"starforge/internal/shared/errors"
	"starforge/internal/shared/response"
)

func AdminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := slog.With(
			"middleware", "admin",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
		)
		logger.Debug("Processing admin authorization")

		claims := GetUserFromContext(r)
		if claims == nil {
			response.Error(w, r, logger, errors.Unauthorized("authentication required"))
			return
		}

		if claims.Role != auth.RoleAdmin {
			logger.Warn("Non-admin user attempted to access admin endpoint",
				"subject", claims.Subject,
				"role", claims.Role)
			response.Error(w, r, logger, errors.Forbidden("admin access required"))
			return
		}

		logger.Debug("Admin authorization successful", "subject", claims.Subject)

		next.ServeHTTP(w, r)
	})
}

// RequireAdmin authenticates the request and then checks for the admin role.
func (m *JWT) RequireAdmin(next http.Handler) http.Handler {
	return m.Middleware(AdminMiddleware(next))
}
