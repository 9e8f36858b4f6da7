package auth

import (
	"net/http"

	"github.com/frahmantamala/task-gamification/internal"
	"github.com/frahmantamala/task-gamification/internal/transport"
	"github.com/frahmantamala/task-gamification/pkg/logger"
)

// RequireRole lets the request through only when the session carries one of
// roles. It must run after RequireSession.
func RequireRole(roles ...Role) func(http.Handler) http.Handler {
	base := transport.NewBaseHandler(nil)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, ok := SessionFromContext(r.Context())
			if !ok {
				base.WriteAppError(w, r, internal.ErrAuthenticationRequired)
				return
			}

			if !HasAnyRole(s, roles...) {
				logger.From(r.Context()).Warn("access denied: role required",
					"user_id", s.UserID,
					"role", s.Role,
					"required", roles)
				base.WriteAppError(w, r, internal.ErrRoleRequired)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func RequireManager() func(http.Handler) http.Handler {
	return RequireRole(RoleManager)
}

func RequireAdmin() func(http.Handler) http.Handler {
	return RequireRole(RoleAdmin)
}
