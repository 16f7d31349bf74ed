package ports

import (
	"context"

	"github.com/wastemap/platform-api/internal/core/domain"
)

// CreateReportInput carries a new report submission.
type CreateReportInput struct {
	Description string
	Lat         float64
	Lng         float64
	Address     string
	Images      []string
	Priority    domain.ReportPriority
}

// ListReportsInput carries list parameters; visibility is derived from the
// actor inside the service.
type ListReportsInput struct {
	Status   domain.ReportStatus
	Priority domain.ReportPriority
	Limit    int
	Skip     int
}

// ListReportsResult is returned by ListReports.
type ListReportsResult struct {
	Reports []*domain.Report `json:"reports"`
	Total   int64            `json:"total"`
}

// UpdateStatusInput carries a triage status change.
type UpdateStatusInput struct {
	Status domain.ReportStatus
	Note   string
}

// AssignReportInput assigns a report to a team and/or individual workers.
type AssignReportInput struct {
	TeamID  string
	UserIDs []string
}

// NearbyInput parameterises the proximity query.
type NearbyInput struct {
	Lat         float64
	Lng         float64
	RadiusMeter float64
	Limit       int
}

// ReportService defines the citizen/worker-facing report operations. Role
// visibility: citizens only see their own reports.
type ReportService interface {
	Create(ctx context.Context, actor *domain.Account, in CreateReportInput) (*domain.Report, error)
	List(ctx context.Context, actor *domain.Account, in ListReportsInput) (*ListReportsResult, error)
	Get(ctx context.Context, actor *domain.Account, reportID string) (*domain.Report, error)
	UpdateStatus(ctx context.Context, actor *domain.Account, reportID string, in UpdateStatusInput) (*domain.Report, error)
	Assign(ctx context.Context, actor *domain.Account, reportID string, in AssignReportInput) (*domain.Report, error)
	Nearby(ctx context.Context, actor *domain.Account, in NearbyInput) ([]*domain.Report, error)
}
