package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/hotelcore/reservations/internal/core/domain"
	"github.com/hotelcore/reservations/internal/core/ports"
)

// RBAC lets the request through only when the authenticated caller's role is
// a member of allowed. It must run after Auth.
func RBAC(authz ports.Authorizer, allowed domain.RoleSet) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := authz.RequireRole(IdentityFrom(c), allowed); err != nil {
				return err
			}
			return next(c)
		}
	}
}
