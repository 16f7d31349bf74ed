package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wastemap/platform-api/internal/core/domain"
)

// Authorize enforces the authorization policy for an action. Handlers behind
// it never re-derive role comparisons; the policy table is the single source
// of truth.
func Authorize(action domain.Action) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, ok := Actor(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
			}
			if !domain.Allowed(actor.Role, action) {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "access denied"})
			}
			return next(c)
		}
	}
}
