package middleware

import (
	"net/http"

	"motoparts-backend/internal/domain"
	"motoparts-backend/pkg/utils"
)

// AdminMiddleware lets only admin principals through. MUST be used after AuthMiddleware.
func AdminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := domain.PrincipalFrom(r.Context())
		if !ok {
			utils.WriteError(w, http.StatusUnauthorized, "unauthorized: no user in context")
			return
		}
		if !p.IsAdmin() {
			utils.WriteError(w, http.StatusForbidden, "forbidden: admins only")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin chains AuthMiddleware and AdminMiddleware around h.
func RequireAdmin(h http.HandlerFunc) http.Handler {
	return AuthMiddleware(AdminMiddleware(h))
}
