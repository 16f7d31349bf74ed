package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/wastemap/platform-api/internal/core/domain"
	"github.com/wastemap/platform-api/internal/core/ports"
)

// ActorKey is the echo context key the access gate stores the authenticated
// account under.
const ActorKey = "actor"

// Auth is the access gate: it resolves the bearer token to a live account and
// attaches it to the request context. Every failure branch is a uniform 401;
// the response never says whether the token was missing, malformed, expired,
// or pointed at a deleted account.
func Auth(tokens ports.TokenService, users ports.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			accountID, err := tokens.Verify(parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			// The account is fetched fresh so role changes and deletions take
			// effect immediately, not at token expiry.
			account, err := users.FindByID(c.Request().Context(), accountID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(ActorKey, account)
			return next(c)
		}
	}
}

// Actor extracts the account attached by Auth.
func Actor(c echo.Context) (*domain.Account, bool) {
	account, ok := c.Get(ActorKey).(*domain.Account)
	return account, ok && account != nil
}

// RequirePasswordCurrent blocks accounts stuck behind a forced password reset
// from everything except the auth endpoints needed to complete the change.
func RequirePasswordCurrent() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, ok := Actor(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
			}
			if actor.MustChangePassword() {
				return domain.ErrPasswordChangeRequired
			}
			return next(c)
		}
	}
}
