package middleware

import (
	"net/http"

	"github.com/Ani07-05/brickdash/api/responses"
	"github.com/Ani07-05/brickdash/pkg/enums"
	pkgerrors "github.com/Ani07-05/brickdash/pkg/errors"
	"github.com/Ani07-05/brickdash/pkg/logger"
)

// RequireRole gates a route tree behind a minimum role. Manager passes
// everything, Supervisor passes Supervisor and Employee gates, Employee
// only its own.
func RequireRole(minimum enums.UserRole, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := enums.UserRole(RoleFromContext(r.Context()))
			if !role.Valid() || !role.AtLeast(minimum) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "insufficient role"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
