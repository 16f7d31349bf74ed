package ports

import (
	"context"
	"time"

	"github.com/wastemap/platform-api/internal/core/domain"
)

// ListReportsFilter carries query parameters for listing reports.
// ReporterID is enforced by the service layer for citizen actors.
type ListReportsFilter struct {
	ReporterID string // non-empty = scoped to one reporter (citizen visibility)
	Status     domain.ReportStatus
	Priority   domain.ReportPriority
	TeamID     string
	Statuses   []domain.ReportStatus // optional multi-status filter (route planning)
	Limit      int
	Skip       int
}

// ReportStats is the aggregate view backing the admin dashboard.
type ReportStats struct {
	Total         int64
	ByStatus      map[domain.ReportStatus]int64
	ByPriority    map[domain.ReportPriority]int64
	RecentCount   int64 // created within the stats window
	AvgCompletion time.Duration
}

// ReportRepository defines persistence operations for reports.
type ReportRepository interface {
	Create(ctx context.Context, r *domain.Report) (*domain.Report, error)
	FindByID(ctx context.Context, id string) (*domain.Report, error)
	Update(ctx context.Context, r *domain.Report) (*domain.Report, error)
	// List returns a page of reports matching filter and the total count.
	List(ctx context.Context, filter ListReportsFilter) ([]*domain.Report, int64, error)
	// Near returns reports within maxMeters of the point, closest first,
	// backed by the store's geospatial index. A non-empty reporterID scopes
	// the result to that reporter (citizen visibility).
	Near(ctx context.Context, lat, lng, maxMeters float64, reporterID string, limit int) ([]*domain.Report, error)
	// Stats aggregates dashboard numbers; recentSince bounds RecentCount.
	Stats(ctx context.Context, recentSince time.Time) (*ReportStats, error)
}
