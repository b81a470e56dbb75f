package middleware

import (
	"net/http"
)

// Scorer roles, least to most privileged.
const (
	RoleViewer = "viewer"
	RoleScorer = "scorer"
	RoleAdmin  = "admin"
)

// RoleAuthMiddleware checks that the authenticated scorer holds one of
// the allowed roles. Must run after JWTAuthMiddleware.
func RoleAuthMiddleware(allowedRoles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := GetRoleFromContext(r.Context())
			if !ok || role == "" {
				sendUnauthorized(w, "User role not found")
				return
			}

			for _, allowed := range allowedRoles {
				if role == allowed {
					next.ServeHTTP(w, r)
					return
				}
			}

			sendForbidden(w, "Insufficient permissions")
		})
	}
}

// RequireAdmin requires the admin role.
func RequireAdmin(next http.Handler) http.Handler {
	return RoleAuthMiddleware(RoleAdmin)(next)
}

// RequireScorer requires a role allowed to record game actions.
func RequireScorer(next http.Handler) http.Handler {
	return RoleAuthMiddleware(RoleScorer, RoleAdmin)(next)
}

// RequireViewer allows any authenticated scorer account.
func RequireViewer(next http.Handler) http.Handler {
	return RoleAuthMiddleware(RoleViewer, RoleScorer, RoleAdmin)(next)
}

func sendForbidden(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	w.Write([]byte(`{"success": false, "error": {"code": "FORBIDDEN", "message": "` + message + `"}}`))
}
