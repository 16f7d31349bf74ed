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

type stubTeamRepo struct {
	seq  int
	byID map[string]*domain.Team
}

func newStubTeamRepo() *stubTeamRepo {
	return &stubTeamRepo{byID: make(map[string]*domain.Team)}
}

func (r *stubTeamRepo) FindByID(_ context.Context, id string) (*domain.Team, error) {
	if t, ok := r.byID[id]; ok {
		clone := *t
		return &clone, nil
	}
	return nil, domain.ErrTeamNotFound
}

func (r *stubTeamRepo) Create(_ context.Context, team *domain.Team) (*domain.Team, error) {
	clone := *team
	r.seq++
	clone.ID = fmt.Sprintf("t%d", r.seq)
	r.byID[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubTeamRepo) Update(_ context.Context, team *domain.Team) (*domain.Team, error) {
	if _, ok := r.byID[team.ID]; !ok {
		return nil, domain.ErrTeamNotFound
	}
	clone := *team
	r.byID[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubTeamRepo) List(_ context.Context) ([]*domain.Team, error) {
	var out []*domain.Team
	for _, t := range r.byID {
		clone := *t
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubTeamRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.byID)), nil
}

func seedAccount(repo *stubUserRepo, email string, role domain.Role) *domain.Account {
	created, err := repo.Create(context.Background(), &domain.Account{
		Name: email, Email: email, PasswordHash: "x", Role: role,
		PasswordState: domain.PasswordActive,
	})
	if err != nil {
		panic(err)
	}
	return created
}

func newAdminService(users *stubUserRepo, reports *stubReportRepo) *AdminService {
	return NewAdminService(users, newStubTeamRepo(), reports, zerolog.Nop())
}

func TestAdminService_ListUsers_Scoped(t *testing.T) {
	users := newStubUserRepo()
	seedAccount(users, "c@x.com", domain.RoleCitizen)
	seedAccount(users, "w@x.com", domain.RoleWorker)
	admin := seedAccount(users, "a@x.com", domain.RoleAdmin)
	super := seedAccount(users, "s@x.com", domain.RoleSuperadmin)

	svc := newAdminService(users, newStubReportRepo())

	visible, err := svc.ListUsers(context.Background(), admin)
	if err != nil {
		t.Fatalf("list as admin: %v", err)
	}
	if len(visible) != 2 {
		t.Fatalf("admin should only see citizen/worker accounts, got %d", len(visible))
	}
	for _, a := range visible {
		if a.Role.AtLeast(domain.RoleAdmin) {
			t.Fatalf("admin listing leaked %s account", a.Role)
		}
	}

	all, err := svc.ListUsers(context.Background(), super)
	if err != nil {
		t.Fatalf("list as superadmin: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("superadmin should see everyone, got %d", len(all))
	}
}

func TestAdminService_CreateUser_RoleRules(t *testing.T) {
	users := newStubUserRepo()
	admin := seedAccount(users, "a@x.com", domain.RoleAdmin)
	super := seedAccount(users, "s@x.com", domain.RoleSuperadmin)
	svc := newAdminService(users, newStubReportRepo())

	if _, err := svc.CreateUser(context.Background(), admin, ports.CreateUserInput{
		Name: "W", Email: "w@x.com", Password: "secret1", Role: domain.RoleWorker,
	}); err != nil {
		t.Fatalf("admin creating worker: %v", err)
	}

	if _, err := svc.CreateUser(context.Background(), admin, ports.CreateUserInput{
		Name: "A2", Email: "a2@x.com", Password: "secret1", Role: domain.RoleAdmin,
	}); err != domain.ErrForbidden {
		t.Fatalf("admin creating admin: expected ErrForbidden, got %v", err)
	}

	if _, err := svc.CreateUser(context.Background(), super, ports.CreateUserInput{
		Name: "A2", Email: "a2@x.com", Password: "secret1", Role: domain.RoleAdmin,
	}); err != nil {
		t.Fatalf("superadmin creating admin: %v", err)
	}
}

func TestAdminService_UpdateUser_SelfRoleChange(t *testing.T) {
	users := newStubUserRepo()
	super := seedAccount(users, "s@x.com", domain.RoleSuperadmin)
	svc := newAdminService(users, newStubReportRepo())

	role := domain.RoleAdmin
	if _, err := svc.UpdateUser(context.Background(), super, super.ID, ports.UpdateUserInput{Role: &role}); err != domain.ErrForbidden {
		t.Fatalf("self role change: expected ErrForbidden, got %v", err)
	}
}

func TestAdminService_UpdateUser_AdminOnAdmin(t *testing.T) {
	users := newStubUserRepo()
	admin := seedAccount(users, "a@x.com", domain.RoleAdmin)
	peer := seedAccount(users, "a2@x.com", domain.RoleAdmin)
	svc := newAdminService(users, newStubReportRepo())

	name := "renamed"
	if _, err := svc.UpdateUser(context.Background(), admin, peer.ID, ports.UpdateUserInput{Name: &name}); err != domain.ErrForbidden {
		t.Fatalf("admin acting on admin: expected ErrForbidden regardless of action, got %v", err)
	}
}

func TestAdminService_UpdateUser_DuplicateEmail(t *testing.T) {
	users := newStubUserRepo()
	super := seedAccount(users, "s@x.com", domain.RoleSuperadmin)
	target := seedAccount(users, "c@x.com", domain.RoleCitizen)
	seedAccount(users, "taken@x.com", domain.RoleCitizen)
	svc := newAdminService(users, newStubReportRepo())

	email := "taken@x.com"
	if _, err := svc.UpdateUser(context.Background(), super, target.ID, ports.UpdateUserInput{Email: &email}); err != domain.ErrDuplicateEmail {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestAdminService_DeleteUser_Rules(t *testing.T) {
	users := newStubUserRepo()
	admin := seedAccount(users, "a@x.com", domain.RoleAdmin)
	super := seedAccount(users, "s@x.com", domain.RoleSuperadmin)
	citizen := seedAccount(users, "c@x.com", domain.RoleCitizen)
	svc := newAdminService(users, newStubReportRepo())

	if err := svc.DeleteUser(context.Background(), admin, admin.ID); err != domain.ErrForbidden {
		t.Fatalf("self delete: expected ErrForbidden, got %v", err)
	}
	if err := svc.DeleteUser(context.Background(), admin, super.ID); err != domain.ErrForbidden {
		t.Fatalf("admin deleting superadmin: expected ErrForbidden, got %v", err)
	}
	if _, err := users.FindByID(context.Background(), super.ID); err != nil {
		t.Fatalf("superadmin account must be unchanged: %v", err)
	}
	if err := svc.DeleteUser(context.Background(), admin, citizen.ID); err != nil {
		t.Fatalf("admin deleting citizen: %v", err)
	}
}

func TestAdminService_Dashboard(t *testing.T) {
	users := newStubUserRepo()
	admin := seedAccount(users, "a@x.com", domain.RoleAdmin)
	reports := newStubReportRepo()
	now := time.Now().UTC()
	reports.byID["r1"] = &domain.Report{ID: "r1", Status: domain.ReportPending, Priority: domain.PriorityHigh, CreatedAt: now}
	reports.byID["r2"] = &domain.Report{ID: "r2", Status: domain.ReportCompleted, Priority: domain.PriorityLow, CreatedAt: now.AddDate(0, 0, -30)}

	svc := newAdminService(users, reports)
	stats, err := svc.Dashboard(context.Background(), admin)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if stats.TotalReports != 2 {
		t.Fatalf("expected 2 reports, got %d", stats.TotalReports)
	}
	if stats.RecentReports != 1 {
		t.Fatalf("expected 1 recent report, got %d", stats.RecentReports)
	}
	if stats.ReportsByStatus[domain.ReportPending] != 1 {
		t.Fatalf("unexpected status counts: %+v", stats.ReportsByStatus)
	}
	if stats.TotalUsers != 1 {
		t.Fatalf("expected 1 user, got %d", stats.TotalUsers)
	}
}

func TestAdminService_PlanRoutes_Ordering(t *testing.T) {
	users := newStubUserRepo()
	admin := seedAccount(users, "a@x.com", domain.RoleAdmin)
	reports := newStubReportRepo()
	reports.byID["near-low"] = &domain.Report{
		ID: "near-low", Status: domain.ReportPending, Priority: domain.PriorityLow,
		Location: domain.NewGeoPoint(52.520, 13.405),
	}
	reports.byID["far-high"] = &domain.Report{
		ID: "far-high", Status: domain.ReportPending, Priority: domain.PriorityHigh,
		Location: domain.NewGeoPoint(52.600, 13.600),
	}
	reports.byID["completed"] = &domain.Report{
		ID: "completed", Status: domain.ReportCompleted, Priority: domain.PriorityHigh,
		Location: domain.NewGeoPoint(52.520, 13.405),
	}

	svc := newAdminService(users, reports)
	plan, err := svc.PlanRoutes(context.Background(), admin, ports.PlanRoutesInput{
		CenterLat: 52.520, CenterLng: 13.405,
	})
	if err != nil {
		t.Fatalf("plan routes: %v", err)
	}
	if plan.TotalReports != 2 {
		t.Fatalf("completed reports must be excluded, got %d stops", plan.TotalReports)
	}
	// High priority outranks proximity.
	if plan.Stops[0].ReportID != "far-high" || plan.Stops[1].ReportID != "near-low" {
		t.Fatalf("unexpected stop order: %s, %s", plan.Stops[0].ReportID, plan.Stops[1].ReportID)
	}
	if plan.EstimatedMinutes != 60 {
		t.Fatalf("expected 60 estimated minutes, got %d", plan.EstimatedMinutes)
	}
}
