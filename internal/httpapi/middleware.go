package httpapi

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"devicehub/internal/auth"
	"devicehub/internal/logs"
	"devicehub/internal/models"
)

// BearerAuth проверяет Authorization: Bearer <jwt> через Validator.
// Любой отказ валидации — 401 problem+json, без деталей подписи наружу.
func BearerAuth(v *auth.Validator) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const p = "Bearer "
			h := r.Header.Get("Authorization")
			if !strings.HasPrefix(h, p) {
				models.WriteProblem(w, http.StatusUnauthorized, "Unauthorized", "missing bearer token", nil)
				return
			}
			claims, err := v.Validate(r.Context(), strings.TrimPrefix(h, p))
			if err != nil {
				logs.Logger.Warnf("token rejected: %v", err)
				models.WriteProblem(w, http.StatusUnauthorized, "Unauthorized", err.Error(), nil)
				return
			}
			_ = claims // субъект пока не нужен обработчикам
			next.ServeHTTP(w, r)
		})
	}
}
