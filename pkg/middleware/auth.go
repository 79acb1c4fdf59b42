package middleware

import (
	"net/http"
	"strings"

	"cinema-reservations/pkg/utils"

	"go.uber.org/zap"
)

// Auth validates the bearer identity token and puts the caller's DNI and
// role on the request context. Tokens are issued elsewhere; this service
// only verifies them.
func Auth(jwtSecret string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				utils.ResponseUnauthorized(w, "Missing authorization token")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				utils.ResponseUnauthorized(w, "Invalid token format. Use: Bearer <token>")
				return
			}

			identity, err := utils.ParseIdentityToken(jwtSecret, parts[1])
			if err != nil {
				logger.Warn("Invalid identity token", zap.String("path", r.URL.Path))
				utils.ResponseUnauthorized(w, "Invalid or expired token")
				return
			}

			ctx := utils.SetIdentityContext(r.Context(), identity.DNI, identity.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Staff restricts a route to callers whose token carries the staff role.
// Showtime management and the door scanner sit behind this.
func Staff(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := utils.GetRoleFromContext(r.Context())
			if !ok {
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			if role != "staff" {
				logger.Warn("Staff check: non-staff access attempt",
					zap.String("role", role),
					zap.String("path", r.URL.Path))
				utils.ResponseForbidden(w, "Staff access required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
