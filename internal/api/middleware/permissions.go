package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"backoffice/internal/authz"
)

// RequireRoles allows the request through when the principal holds at least
// one of the given roles. No roles means any authenticated principal. Must
// run after AuthMiddleware; a request without a principal is a 401, an
// insufficient one a 403.
func RequireRoles(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, ok := PrincipalFrom(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing authentication token")
			}
			if !authz.Authorize(principal, roles) {
				return echo.NewHTTPError(http.StatusForbidden, "Insufficient role")
			}
			return next(c)
		}
	}
}
