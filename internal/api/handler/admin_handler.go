package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/wastemap/platform-api/internal/api/metrics"
	"github.com/wastemap/platform-api/internal/core/domain"
	"github.com/wastemap/platform-api/internal/core/ports"
)

// AdminHandler handles operator-facing account, team, and planning endpoints.
type AdminHandler struct {
	service ports.AdminService
}

func NewAdminHandler(service ports.AdminService) *AdminHandler {
	return &AdminHandler{service: service}
}

// ListUsers returns the accounts visible to the actor. Admins only see
// citizen and worker accounts; the superadmin sees everyone.
//
// @Summary      List accounts
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listUsersResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	users, err := h.service.ListUsers(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listUsersResponse{Users: users, Total: len(users)})
}

// CreateUser creates an account with an operator-chosen role.
//
// @Summary      Create an account
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "Account details"
// @Success      201   {object}  domain.Account
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/admin/users [post]
func (h *AdminHandler) CreateUser(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	account, err := h.service.CreateUser(c.Request().Context(), actor, ports.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Role:     domain.Role(req.Role),
	})
	if err != nil {
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues(string(account.Role)).Inc()
	return c.JSON(http.StatusCreated, account)
}

// UpdateUser applies a partial update to an account.
//
// @Summary      Update an account
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Account id"
// @Param        body  body      updateUserRequest  true  "Fields to update"
// @Success      200   {object}  domain.Account
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/admin/users/{id} [put]
func (h *AdminHandler) UpdateUser(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	in := ports.UpdateUserInput{
		Name:   req.Name,
		Email:  req.Email,
		Phone:  req.Phone,
		TeamID: req.TeamID,
	}
	if req.Role != nil {
		role := domain.Role(*req.Role)
		in.Role = &role
	}

	account, err := h.service.UpdateUser(c.Request().Context(), actor, c.Param("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, account)
}

// DeleteUser removes an account.
//
// @Summary      Delete an account
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Account id"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteUser(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "user deleted"})
}

// ListTeams returns all work crews.
//
// @Summary      List teams
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listTeamsResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/admin/teams [get]
func (h *AdminHandler) ListTeams(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	teams, err := h.service.ListTeams(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listTeamsResponse{Teams: teams, Total: len(teams)})
}

// CreateTeam registers a new work crew.
//
// @Summary      Create a team
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createTeamRequest  true  "Team details"
// @Success      201   {object}  domain.Team
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /api/admin/teams [post]
func (h *AdminHandler) CreateTeam(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createTeamRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	team, err := h.service.CreateTeam(c.Request().Context(), actor, ports.CreateTeamInput{
		Name:      req.Name,
		MemberIDs: req.MemberIDs,
		LeaderID:  req.LeaderID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, team)
}

// UpdateTeam applies a partial update to a team.
//
// @Summary      Update a team
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Team id"
// @Param        body  body      updateTeamRequest  true  "Fields to update"
// @Success      200   {object}  domain.Team
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/admin/teams/{id} [put]
func (h *AdminHandler) UpdateTeam(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req updateTeamRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	in := ports.UpdateTeamInput{
		Name:      req.Name,
		MemberIDs: req.MemberIDs,
		LeaderID:  req.LeaderID,
	}
	if req.Status != nil {
		status := domain.TeamStatus(*req.Status)
		in.Status = &status
	}

	team, err := h.service.UpdateTeam(c.Request().Context(), actor, c.Param("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, team)
}

// Dashboard returns aggregate report, user, and team statistics.
//
// @Summary      Dashboard statistics
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.DashboardStats
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/admin/dashboard [get]
func (h *AdminHandler) Dashboard(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	stats, err := h.service.Dashboard(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// PlanRoutes builds an ordered collection route over open reports.
//
// @Summary      Plan a collection route
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        center_lat   query     number  false  "Route start latitude"
// @Param        center_lng   query     number  false  "Route start longitude"
// @Param        max_reports  query     int     false  "Stop cap (default 10)"
// @Param        team_id      query     string  false  "Restrict to one team's reports"
// @Success      200          {object}  ports.RoutePlan
// @Failure      403          {object}  errorResponse
// @Router       /api/admin/optimize-routes [get]
func (h *AdminHandler) PlanRoutes(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	centerLat, _ := strconv.ParseFloat(c.QueryParam("center_lat"), 64)
	centerLng, _ := strconv.ParseFloat(c.QueryParam("center_lng"), 64)
	maxReports, _ := strconv.Atoi(c.QueryParam("max_reports"))

	plan, err := h.service.PlanRoutes(c.Request().Context(), actor, ports.PlanRoutesInput{
		TeamID:     c.QueryParam("team_id"),
		CenterLat:  centerLat,
		CenterLng:  centerLng,
		MaxReports: maxReports,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, plan)
}
