package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/wastemap/platform-api/internal/core/domain"
	"github.com/wastemap/platform-api/internal/core/ports"
)

type stubReportRepo struct {
	seq  int
	byID map[string]*domain.Report
}

func newStubReportRepo() *stubReportRepo {
	return &stubReportRepo{byID: make(map[string]*domain.Report)}
}

func cloneReport(r *domain.Report) *domain.Report {
	if r == nil {
		return nil
	}
	clone := *r
	return &clone
}

func (r *stubReportRepo) Create(_ context.Context, report *domain.Report) (*domain.Report, error) {
	copy := cloneReport(report)
	r.seq++
	copy.ID = fmt.Sprintf("r%d", r.seq)
	r.byID[copy.ID] = cloneReport(copy)
	return cloneReport(copy), nil
}

func (r *stubReportRepo) FindByID(_ context.Context, id string) (*domain.Report, error) {
	if rep, ok := r.byID[id]; ok {
		return cloneReport(rep), nil
	}
	return nil, domain.ErrReportNotFound
}

func (r *stubReportRepo) Update(_ context.Context, report *domain.Report) (*domain.Report, error) {
	if _, ok := r.byID[report.ID]; !ok {
		return nil, domain.ErrReportNotFound
	}
	r.byID[report.ID] = cloneReport(report)
	return cloneReport(report), nil
}

func (r *stubReportRepo) List(_ context.Context, filter ports.ListReportsFilter) ([]*domain.Report, int64, error) {
	var out []*domain.Report
	for _, rep := range r.byID {
		if filter.ReporterID != "" && rep.ReporterID != filter.ReporterID {
			continue
		}
		if filter.Status != "" && rep.Status != filter.Status {
			continue
		}
		if filter.Priority != "" && rep.Priority != filter.Priority {
			continue
		}
		if filter.TeamID != "" && rep.AssignedTeamID != filter.TeamID {
			continue
		}
		if len(filter.Statuses) > 0 {
			match := false
			for _, st := range filter.Statuses {
				if rep.Status == st {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		out = append(out, cloneReport(rep))
	}
	total := int64(len(out))
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, total, nil
}

func (r *stubReportRepo) Near(_ context.Context, _, _, _ float64, reporterID string, limit int) ([]*domain.Report, error) {
	var out []*domain.Report
	for _, rep := range r.byID {
		if reporterID != "" && rep.ReporterID != reporterID {
			continue
		}
		out = append(out, cloneReport(rep))
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubReportRepo) Stats(_ context.Context, recentSince time.Time) (*ports.ReportStats, error) {
	stats := &ports.ReportStats{
		ByStatus:   make(map[domain.ReportStatus]int64),
		ByPriority: make(map[domain.ReportPriority]int64),
	}
	for _, rep := range r.byID {
		stats.Total++
		stats.ByStatus[rep.Status]++
		stats.ByPriority[rep.Priority]++
		if rep.CreatedAt.After(recentSince) {
			stats.RecentCount++
		}
	}
	return stats, nil
}

type stubNotifier struct {
	events []ports.ReportEvent
}

func (n *stubNotifier) Notify(event ports.ReportEvent) {
	n.events = append(n.events, event)
}

var (
	citizenActor = &domain.Account{ID: "cit1", Role: domain.RoleCitizen}
	workerActor  = &domain.Account{ID: "wrk1", Role: domain.RoleWorker}
	adminActor   = &domain.Account{ID: "adm1", Role: domain.RoleAdmin}
)

func TestReportService_Create(t *testing.T) {
	repo := newStubReportRepo()
	notifier := &stubNotifier{}
	svc := NewReportService(repo, notifier, zerolog.Nop())

	report, err := svc.Create(context.Background(), citizenActor, ports.CreateReportInput{
		Description: "overflowing bin",
		Lat:         52.52, Lng: 13.405,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if report.Status != domain.ReportPending {
		t.Fatalf("expected pending status, got %s", report.Status)
	}
	if report.Priority != domain.PriorityMedium {
		t.Fatalf("expected default medium priority, got %s", report.Priority)
	}
	if report.ReporterID != citizenActor.ID {
		t.Fatalf("reporter not stamped: %s", report.ReporterID)
	}
	if len(notifier.events) != 1 || notifier.events[0].Type != ports.EventReportCreated {
		t.Fatalf("expected a report-created event, got %+v", notifier.events)
	}
}

func TestReportService_Create_Validation(t *testing.T) {
	svc := NewReportService(newStubReportRepo(), nil, zerolog.Nop())

	if _, err := svc.Create(context.Background(), citizenActor, ports.CreateReportInput{Lat: 1, Lng: 1}); !isValidation(err) {
		t.Fatalf("expected validation error for missing description, got %v", err)
	}
	if _, err := svc.Create(context.Background(), citizenActor, ports.CreateReportInput{Description: "x"}); !isValidation(err) {
		t.Fatalf("expected validation error for missing coordinates, got %v", err)
	}
}

func TestReportService_List_CitizenScoped(t *testing.T) {
	repo := newStubReportRepo()
	svc := NewReportService(repo, nil, zerolog.Nop())

	if _, err := svc.Create(context.Background(), citizenActor, ports.CreateReportInput{Description: "mine", Lat: 1, Lng: 1}); err != nil {
		t.Fatalf("create: %v", err)
	}
	other := &domain.Account{ID: "cit2", Role: domain.RoleCitizen}
	if _, err := svc.Create(context.Background(), other, ports.CreateReportInput{Description: "theirs", Lat: 2, Lng: 2}); err != nil {
		t.Fatalf("create: %v", err)
	}

	res, err := svc.List(context.Background(), citizenActor, ports.ListReportsInput{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if res.Total != 1 || len(res.Reports) != 1 || res.Reports[0].Description != "mine" {
		t.Fatalf("citizen should only see own reports: %+v", res)
	}

	all, err := svc.List(context.Background(), workerActor, ports.ListReportsInput{})
	if err != nil {
		t.Fatalf("list as worker: %v", err)
	}
	if all.Total != 2 {
		t.Fatalf("worker should see all reports, got %d", all.Total)
	}
}

func TestReportService_Get_CitizenForbidden(t *testing.T) {
	repo := newStubReportRepo()
	svc := NewReportService(repo, nil, zerolog.Nop())

	other := &domain.Account{ID: "cit2", Role: domain.RoleCitizen}
	created, err := svc.Create(context.Background(), other, ports.CreateReportInput{Description: "theirs", Lat: 1, Lng: 1})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Get(context.Background(), citizenActor, created.ID); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Get(context.Background(), workerActor, created.ID); err != nil {
		t.Fatalf("worker read failed: %v", err)
	}
}

func TestReportService_UpdateStatus(t *testing.T) {
	repo := newStubReportRepo()
	notifier := &stubNotifier{}
	svc := NewReportService(repo, notifier, zerolog.Nop())

	created, err := svc.Create(context.Background(), citizenActor, ports.CreateReportInput{Description: "x", Lat: 1, Lng: 1})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.UpdateStatus(context.Background(), citizenActor, created.ID, ports.UpdateStatusInput{Status: domain.ReportCompleted}); err != domain.ErrForbidden {
		t.Fatalf("citizen must not change status, got %v", err)
	}

	updated, err := svc.UpdateStatus(context.Background(), workerActor, created.ID, ports.UpdateStatusInput{
		Status: domain.ReportCompleted,
		Note:   "picked up",
	})
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if updated.Status != domain.ReportCompleted {
		t.Fatalf("status not applied: %s", updated.Status)
	}
	if updated.CompletedAt == nil {
		t.Fatalf("completion time not stamped")
	}
	if len(updated.Notes) != 1 || updated.Notes[0].AuthorID != workerActor.ID {
		t.Fatalf("note not appended: %+v", updated.Notes)
	}
	if notifier.events[len(notifier.events)-1].Type != ports.EventReportStatusChanged {
		t.Fatalf("expected a status-changed event")
	}
}

func TestReportService_UpdateStatus_UnknownStatus(t *testing.T) {
	repo := newStubReportRepo()
	svc := NewReportService(repo, nil, zerolog.Nop())

	created, err := svc.Create(context.Background(), citizenActor, ports.CreateReportInput{Description: "x", Lat: 1, Lng: 1})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.UpdateStatus(context.Background(), workerActor, created.ID, ports.UpdateStatusInput{Status: "vanished"}); !isValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestReportService_Assign(t *testing.T) {
	repo := newStubReportRepo()
	svc := NewReportService(repo, nil, zerolog.Nop())

	created, err := svc.Create(context.Background(), citizenActor, ports.CreateReportInput{Description: "x", Lat: 1, Lng: 1})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Assign(context.Background(), workerActor, created.ID, ports.AssignReportInput{TeamID: "t1"}); err != domain.ErrForbidden {
		t.Fatalf("worker must not assign, got %v", err)
	}

	updated, err := svc.Assign(context.Background(), adminActor, created.ID, ports.AssignReportInput{TeamID: "t1", UserIDs: []string{"wrk1"}})
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if updated.Status != domain.ReportAssigned || updated.AssignedTeamID != "t1" {
		t.Fatalf("assignment not applied: %+v", updated)
	}
}

func TestReportService_Nearby_CitizenScoped(t *testing.T) {
	repo := newStubReportRepo()
	svc := NewReportService(repo, nil, zerolog.Nop())

	if _, err := svc.Create(context.Background(), citizenActor, ports.CreateReportInput{Description: "mine", Lat: 1, Lng: 1}); err != nil {
		t.Fatalf("create: %v", err)
	}
	other := &domain.Account{ID: "cit2", Role: domain.RoleCitizen}
	if _, err := svc.Create(context.Background(), other, ports.CreateReportInput{Description: "theirs", Lat: 1, Lng: 1}); err != nil {
		t.Fatalf("create: %v", err)
	}

	mine, err := svc.Nearby(context.Background(), citizenActor, ports.NearbyInput{Lat: 1, Lng: 1})
	if err != nil {
		t.Fatalf("nearby: %v", err)
	}
	if len(mine) != 1 {
		t.Fatalf("citizen nearby should be scoped, got %d", len(mine))
	}

	if _, err := svc.Nearby(context.Background(), citizenActor, ports.NearbyInput{}); !isValidation(err) {
		t.Fatalf("expected validation error for missing coordinates, got %v", err)
	}
}
