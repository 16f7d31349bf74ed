package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wastemap/platform-api/internal/api/middleware"
	"github.com/wastemap/platform-api/internal/core/domain"
)

// ctxActor extracts the account injected by the Auth middleware. Absence means
// the route was wired without the middleware or the token check was bypassed;
// fail closed with 401 rather than proceeding unauthenticated.
func ctxActor(c echo.Context) (*domain.Account, error) {
	actor, ok := middleware.Actor(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return actor, nil
}
