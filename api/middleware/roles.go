package middleware

import (
	"net/http"

	"github.com/hisobly/hisobly-backend/api/responses"
	"github.com/hisobly/hisobly-backend/pkg/enums"
	pkgerrors "github.com/hisobly/hisobly-backend/pkg/errors"
	"github.com/hisobly/hisobly-backend/pkg/logger"
)

// RequireRole rejects requests whose token carries none of the allowed
// member roles.
func RequireRole(logg *logger.Logger, roles ...enums.MemberRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			current := RoleFromContext(r.Context())
			for _, role := range roles {
				if current == string(role) {
					next.ServeHTTP(w, r)
					return
				}
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "role required"))
		})
	}
}
