package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/authuser/accounts/internal/core/domain"
)

// RBAC enforces role-based access control against the roles captured in the
// current session. It must run after Session. Denials surface as
// domain.ErrForbidden for the error handler to render.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			s := CurrentSession(c)
			if s == nil || !s.HasAnyRole(allowedRoles...) {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
