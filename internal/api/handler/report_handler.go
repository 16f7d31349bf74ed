package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/wastemap/platform-api/internal/api/metrics"
	"github.com/wastemap/platform-api/internal/core/domain"
	"github.com/wastemap/platform-api/internal/core/ports"
)

// ReportHandler handles citizen and worker report operations.
type ReportHandler struct {
	service ports.ReportService
}

func NewReportHandler(service ports.ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

// Create files a new waste report at the given coordinates.
//
// @Summary      File a waste report
// @Tags         reports
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createReportRequest  true  "Report details"
// @Success      201   {object}  domain.Report
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/reports [post]
func (h *ReportHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createReportRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	report, err := h.service.Create(c.Request().Context(), actor, ports.CreateReportInput{
		Description: req.Description,
		Lat:         req.Lat,
		Lng:         req.Lng,
		Address:     req.Address,
		Images:      req.Images,
		Priority:    domain.ReportPriority(req.Priority),
	})
	if err != nil {
		return err
	}

	metrics.ReportsCreatedTotal.WithLabelValues(string(report.Priority)).Inc()
	return c.JSON(http.StatusCreated, report)
}

// List returns reports visible to the actor. Citizens only see their own;
// workers and above see everything.
//
// @Summary      List reports
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        status    query     string  false  "Filter by status"
// @Param        priority  query     string  false  "Filter by priority"
// @Param        limit     query     int     false  "Page size (max 100)"
// @Param        skip      query     int     false  "Offset"
// @Success      200       {object}  listReportsResponse
// @Failure      401       {object}  errorResponse
// @Router       /api/reports [get]
func (h *ReportHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	skip, _ := strconv.Atoi(c.QueryParam("skip"))

	result, err := h.service.List(c.Request().Context(), actor, ports.ListReportsInput{
		Status:   domain.ReportStatus(c.QueryParam("status")),
		Priority: domain.ReportPriority(c.QueryParam("priority")),
		Limit:    limit,
		Skip:     skip,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, listReportsResponse{
		Reports: result.Reports,
		Total:   result.Total,
		Limit:   limit,
		Skip:    skip,
	})
}

// Nearby returns reports within a radius of a coordinate. Citizens are scoped
// to their own reports here too.
//
// @Summary      List reports near a coordinate
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        lat     query     number  true   "Latitude"
// @Param        lng     query     number  true   "Longitude"
// @Param        radius  query     number  false  "Radius in metres (default 5000)"
// @Param        limit   query     int     false  "Max results (max 100)"
// @Success      200     {object}  nearbyReportsResponse
// @Failure      400     {object}  errorResponse
// @Failure      401     {object}  errorResponse
// @Router       /api/reports/nearby [get]
func (h *ReportHandler) Nearby(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	lat, latErr := strconv.ParseFloat(c.QueryParam("lat"), 64)
	lng, lngErr := strconv.ParseFloat(c.QueryParam("lng"), 64)
	if latErr != nil || lngErr != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "lat and lng are required")
	}
	radius, _ := strconv.ParseFloat(c.QueryParam("radius"), 64)
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	reports, err := h.service.Nearby(c.Request().Context(), actor, ports.NearbyInput{
		Lat:         lat,
		Lng:         lng,
		RadiusMeter: radius,
		Limit:       limit,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, nearbyReportsResponse{Reports: reports, Total: len(reports)})
}

// Get returns a single report if the actor may see it.
//
// @Summary      Get a report
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Report id"
// @Success      200  {object}  domain.Report
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/reports/{id} [get]
func (h *ReportHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	report, err := h.service.Get(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, report)
}

// UpdateStatus moves a report through the triage flow.
//
// @Summary      Update report status
// @Tags         reports
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                     true  "Report id"
// @Param        body  body      updateReportStatusRequest  true  "New status and optional note"
// @Success      200   {object}  domain.Report
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/reports/{id}/status [put]
func (h *ReportHandler) UpdateStatus(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req updateReportStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	report, err := h.service.UpdateStatus(c.Request().Context(), actor, c.Param("id"), ports.UpdateStatusInput{
		Status: domain.ReportStatus(req.Status),
		Note:   req.Note,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, report)
}

// Assign hands a report to a team and/or individual workers.
//
// @Summary      Assign a report
// @Tags         reports
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Report id"
// @Param        body  body      assignReportRequest  true  "Assignment targets"
// @Success      200   {object}  domain.Report
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/reports/{id}/assign [put]
func (h *ReportHandler) Assign(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req assignReportRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	report, err := h.service.Assign(c.Request().Context(), actor, c.Param("id"), ports.AssignReportInput{
		TeamID:  req.TeamID,
		UserIDs: req.UserIDs,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, report)
}
