package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/wastemap/platform-api/internal/api/metrics"
	"github.com/wastemap/platform-api/internal/api/middleware"
	"github.com/wastemap/platform-api/internal/core/domain"
	"github.com/wastemap/platform-api/internal/core/ports"
)

// AuthHandler handles registration, login, and the password lifecycle.
type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a new account. Public callers always get the citizen role;
// elevated roles require an authenticated operator.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	in := ports.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Role:     domain.Role(req.Role),
	}
	if actor, ok := middleware.Actor(c); ok {
		in.ActorRole = actor.Role
	}

	result, err := h.authService.Register(c.Request().Context(), in)
	if err != nil {
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues(string(result.Account.Role)).Inc()
	return c.JSON(http.StatusCreated, authResponse{Token: result.Token, User: result.Account})
}

// Login authenticates an account and returns a bearer token. A forced-reset
// account still gets a token, flagged so the client routes into the password
// change flow first.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, authResponse{
		Token:              result.Token,
		User:               result.Account,
		MustChangePassword: result.MustChangePassword,
	})
}

// Me returns the authenticated account.
//
// @Summary      Current account
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  authResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	account, err := h.authService.Me(c.Request().Context(), actor.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authResponse{
		User:               account,
		MustChangePassword: account.MustChangePassword(),
	})
}

// RequestReset files a self-service password reset request. The response is
// identical whether or not the email exists.
//
// @Summary      Request a password reset
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      requestResetRequest  true  "Account email"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Router       /api/auth/request-password-reset [post]
func (h *AuthHandler) RequestReset(c echo.Context) error {
	var req requestResetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	msg, err := h.authService.RequestPasswordReset(c.Request().Context(), req.Email)
	if err != nil {
		return err
	}

	metrics.PasswordResetsTotal.WithLabelValues("requested").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: msg})
}

// ChangePassword lets the authenticated account set a new password after
// proving the current one. Completing the change clears any forced-reset flag.
//
// @Summary      Change own password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      changePasswordRequest  true  "Old and new password"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/auth/change-password [post]
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.ChangePassword(c.Request().Context(), actor.ID, req.OldPassword, req.NewPassword); err != nil {
		return err
	}

	metrics.PasswordResetsTotal.WithLabelValues("self").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "password updated"})
}

// PendingResetRequests lists accounts waiting on an operator reset.
//
// @Summary      List pending password reset requests
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  resetRequestsResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/admin/password-reset-requests [get]
func (h *AuthHandler) PendingResetRequests(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	accounts, err := h.authService.PendingResetRequests(c.Request().Context(), actor)
	if err != nil {
		return err
	}

	items := make([]resetRequestItem, 0, len(accounts))
	for _, a := range accounts {
		items = append(items, resetRequestItem{
			ID:          a.ID,
			Name:        a.Name,
			Email:       a.Email,
			Role:        string(a.Role),
			RequestedAt: a.UpdatedAt.UTC().Format(time.RFC3339),
		})
	}
	return c.JSON(http.StatusOK, resetRequestsResponse{Requests: items, Total: len(items)})
}

// OperatorResetPassword force-sets a password on another account and flags it
// for a mandatory change on next login.
//
// @Summary      Reset another account's password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Target account id"
// @Param        body  body      operatorResetRequest  true  "Replacement password"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/admin/reset-password/{id} [post]
func (h *AuthHandler) OperatorResetPassword(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req operatorResetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	account, err := h.authService.OperatorResetPassword(c.Request().Context(), actor, c.Param("id"), req.NewPassword)
	if err != nil {
		return err
	}

	metrics.PasswordResetsTotal.WithLabelValues("operator").Inc()
	return c.JSON(http.StatusOK, authResponse{User: account})
}
