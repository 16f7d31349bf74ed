package handler

import "github.com/wastemap/platform-api/internal/core/domain"

// --- Request / Response types ---

type createReportRequest struct {
	Description string   `json:"description" validate:"required"`
	Lat         float64  `json:"lat"         validate:"required,latitude"`
	Lng         float64  `json:"lng"         validate:"required,longitude"`
	Address     string   `json:"address"`
	Images      []string `json:"images"`
	Priority    string   `json:"priority"    validate:"omitempty,oneof=low medium high"`
}

type updateReportStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending assigned in_progress completed rejected"`
	Note   string `json:"note"`
}

type assignReportRequest struct {
	TeamID  string   `json:"team_id"`
	UserIDs []string `json:"user_ids"`
}

type listReportsResponse struct {
	Reports []*domain.Report `json:"reports"`
	Total   int64            `json:"total"`
	Limit   int              `json:"limit"`
	Skip    int              `json:"skip"`
}

type nearbyReportsResponse struct {
	Reports []*domain.Report `json:"reports"`
	Total   int              `json:"total"`
}
