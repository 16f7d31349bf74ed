package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/wastemap/platform-api/internal/core/domain"
	"github.com/wastemap/platform-api/internal/core/ports"
)

const (
	defaultListLimit    = 50
	maxListLimit        = 100
	defaultNearbyRadius = 5000 // meters
	maxNearbyResults    = 100
)

// ReportService implements citizen/worker report operations with role-scoped
// visibility. Notifications are fire-and-forget refresh hints.
type ReportService struct {
	repo     ports.ReportRepository
	notifier ports.Notifier // optional
	log      zerolog.Logger
}

func NewReportService(repo ports.ReportRepository, notifier ports.Notifier, log zerolog.Logger) *ReportService {
	return &ReportService{repo: repo, notifier: notifier, log: log}
}

// Create files a new report for the acting account.
func (s *ReportService) Create(ctx context.Context, actor *domain.Account, in ports.CreateReportInput) (*domain.Report, error) {
	if in.Description == "" {
		return nil, fmt.Errorf("%w: description is required", domain.ErrValidation)
	}
	if in.Lat == 0 && in.Lng == 0 {
		return nil, fmt.Errorf("%w: location coordinates are required", domain.ErrValidation)
	}

	priority := in.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}

	now := time.Now().UTC()
	report := &domain.Report{
		ReporterID:  actor.ID,
		Description: in.Description,
		Location:    domain.NewGeoPoint(in.Lat, in.Lng),
		Address:     in.Address,
		Images:      in.Images,
		Priority:    priority,
		Status:      domain.ReportPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.repo.Create(ctx, report)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create report")
		return nil, err
	}

	s.notify(ports.ReportEvent{
		Type:     ports.EventReportCreated,
		ReportID: created.ID,
		Status:   string(created.Status),
		Payload:  created,
	})
	s.log.Info().Str("report_id", created.ID).Str("reporter_id", actor.ID).Str("priority", string(priority)).Msg("report created")

	return created, nil
}

// List returns a page of reports visible to the actor: citizens see only
// their own, higher tiers see everything.
func (s *ReportService) List(ctx context.Context, actor *domain.Account, in ports.ListReportsInput) (*ports.ListReportsResult, error) {
	limit := in.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	filter := ports.ListReportsFilter{
		Status:   in.Status,
		Priority: in.Priority,
		Limit:    limit,
		Skip:     in.Skip,
	}
	if !domain.Allowed(actor.Role, domain.ActionViewAllReports) {
		filter.ReporterID = actor.ID
	}

	reports, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &ports.ListReportsResult{Reports: reports, Total: total}, nil
}

// Get returns a single report, rejecting citizens reading someone else's.
func (s *ReportService) Get(ctx context.Context, actor *domain.Account, reportID string) (*domain.Report, error) {
	report, err := s.repo.FindByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if !domain.Allowed(actor.Role, domain.ActionViewAllReports) && report.ReporterID != actor.ID {
		return nil, domain.ErrForbidden
	}
	return report, nil
}

// UpdateStatus applies a triage status change, stamping completion time and
// appending an optional note.
func (s *ReportService) UpdateStatus(ctx context.Context, actor *domain.Account, reportID string, in ports.UpdateStatusInput) (*domain.Report, error) {
	if !domain.Allowed(actor.Role, domain.ActionChangeReportStatus) {
		return nil, domain.ErrForbidden
	}

	report, err := s.repo.FindByID(ctx, reportID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if in.Status != "" {
		if !in.Status.IsValid() {
			return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, in.Status)
		}
		report.Status = in.Status
		if in.Status == domain.ReportCompleted {
			report.CompletedAt = &now
		}
	}
	if in.Note != "" {
		report.Notes = append(report.Notes, domain.ReportNote{
			AuthorID:  actor.ID,
			Note:      in.Note,
			CreatedAt: now,
		})
	}
	report.UpdatedAt = now

	updated, err := s.repo.Update(ctx, report)
	if err != nil {
		return nil, err
	}

	s.notify(ports.ReportEvent{
		Type:     ports.EventReportStatusChanged,
		ReportID: updated.ID,
		Status:   string(updated.Status),
	})
	s.log.Info().Str("report_id", updated.ID).Str("status", string(updated.Status)).Str("actor_id", actor.ID).Msg("report status updated")

	return updated, nil
}

// Assign routes a report to a team and/or individual workers.
func (s *ReportService) Assign(ctx context.Context, actor *domain.Account, reportID string, in ports.AssignReportInput) (*domain.Report, error) {
	if !domain.Allowed(actor.Role, domain.ActionAssignReport) {
		return nil, domain.ErrForbidden
	}

	report, err := s.repo.FindByID(ctx, reportID)
	if err != nil {
		return nil, err
	}

	if in.TeamID != "" {
		report.AssignedTeamID = in.TeamID
		report.Status = domain.ReportAssigned
	}
	if len(in.UserIDs) > 0 {
		report.AssignedUserIDs = in.UserIDs
		report.Status = domain.ReportAssigned
	}
	report.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.Update(ctx, report)
	if err != nil {
		return nil, err
	}

	s.notify(ports.ReportEvent{
		Type:     ports.EventReportAssigned,
		ReportID: updated.ID,
		Status:   string(updated.Status),
	})

	return updated, nil
}

// Nearby returns reports close to a point via the store's proximity index,
// scoped to the actor's visibility.
func (s *ReportService) Nearby(ctx context.Context, actor *domain.Account, in ports.NearbyInput) ([]*domain.Report, error) {
	if in.Lat == 0 && in.Lng == 0 {
		return nil, fmt.Errorf("%w: latitude and longitude are required", domain.ErrValidation)
	}

	radius := in.RadiusMeter
	if radius <= 0 {
		radius = defaultNearbyRadius
	}
	limit := in.Limit
	if limit <= 0 || limit > maxNearbyResults {
		limit = maxNearbyResults
	}

	reporterID := ""
	if !domain.Allowed(actor.Role, domain.ActionViewAllReports) {
		reporterID = actor.ID
	}

	return s.repo.Near(ctx, in.Lat, in.Lng, radius, reporterID, limit)
}

// notify hands the event off without ever failing the request.
func (s *ReportService) notify(event ports.ReportEvent) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(event)
}
