package middleware

import (
	"net/http"

	"motoparts-backend/internal/domain"
	"motoparts-backend/pkg/utils"
)

// AuthMiddleware resolves the caller from the bearer token or accessToken cookie.
// The principal is built from the claims alone, without a database lookup.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := utils.TokenFromRequest(r)
		if tokenString == "" {
			utils.WriteError(w, http.StatusUnauthorized, "unauthorized: no token provided")
			return
		}

		claims, err := utils.ValidateJWT(tokenString)
		if err != nil {
			utils.WriteError(w, http.StatusUnauthorized, "unauthorized: invalid token")
			return
		}

		ctx := domain.WithPrincipal(r.Context(), &domain.Principal{
			ID:    claims.UserID,
			Email: claims.Email,
			Role:  claims.Role,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
