package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/wastemap/platform-api/internal/core/domain"
	"github.com/wastemap/platform-api/internal/core/ports"
)

const (
	dashboardRecentWindow = 7 * 24 * time.Hour
	defaultRouteStops     = 10
	minutesPerStop        = 30
)

// AdminService implements operator-facing account, team, and planning
// operations. Tier rules from the authorization policy are enforced on every
// mutation.
type AdminService struct {
	users   ports.UserRepository
	teams   ports.TeamRepository
	reports ports.ReportRepository
	log     zerolog.Logger
}

func NewAdminService(users ports.UserRepository, teams ports.TeamRepository, reports ports.ReportRepository, log zerolog.Logger) *AdminService {
	return &AdminService{users: users, teams: teams, reports: reports, log: log}
}

// ListUsers returns accounts visible to the operator: municipal admins see
// citizen and worker accounts only, the superadmin sees everyone.
func (s *AdminService) ListUsers(ctx context.Context, actor *domain.Account) ([]*domain.Account, error) {
	if !domain.Allowed(actor.Role, domain.ActionManageUsers) {
		return nil, domain.ErrForbidden
	}

	filter := ports.ListUsersFilter{}
	if actor.Role != domain.RoleSuperadmin {
		filter.Roles = []domain.Role{domain.RoleCitizen, domain.RoleWorker}
	}
	return s.users.List(ctx, filter)
}

// CreateUser creates an account on behalf of an operator. Admin-tier targets
// are reserved to the superadmin.
func (s *AdminService) CreateUser(ctx context.Context, actor *domain.Account, in ports.CreateUserInput) (*domain.Account, error) {
	if !domain.Allowed(actor.Role, domain.ActionManageUsers) {
		return nil, domain.ErrForbidden
	}
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", domain.ErrValidation)
	}
	if len(in.Password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLength)
	}

	role := in.Role
	if role == "" {
		role = domain.RoleCitizen
	}
	if !role.IsValid() {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrValidation, role)
	}
	if !domain.CanAssignRole(actor.Role, role) {
		return nil, domain.ErrForbidden
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	account := &domain.Account{
		Name:          in.Name,
		Email:         strings.ToLower(in.Email),
		PasswordHash:  string(hash),
		Role:          role,
		Phone:         in.Phone,
		PasswordState: domain.PasswordActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	created, err := s.users.Create(ctx, account)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("account_id", created.ID).Str("role", string(created.Role)).Str("operator_id", actor.ID).Msg("account created by operator")
	return created, nil
}

// UpdateUser applies a partial update. An operator can never touch accounts
// above their reach, and nobody changes their own role.
func (s *AdminService) UpdateUser(ctx context.Context, actor *domain.Account, targetID string, in ports.UpdateUserInput) (*domain.Account, error) {
	if !domain.Allowed(actor.Role, domain.ActionManageUsers) {
		return nil, domain.ErrForbidden
	}

	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if !domain.CanActOn(actor.Role, target.Role) {
		return nil, domain.ErrForbidden
	}

	if in.Role != nil && *in.Role != target.Role {
		if target.ID == actor.ID {
			return nil, domain.ErrForbidden
		}
		if !in.Role.IsValid() {
			return nil, fmt.Errorf("%w: unknown role %q", domain.ErrValidation, *in.Role)
		}
		if !domain.CanAssignRole(actor.Role, *in.Role) {
			return nil, domain.ErrForbidden
		}
		target.Role = *in.Role
	}

	if in.Name != nil && *in.Name != "" {
		target.Name = *in.Name
	}
	if in.Email != nil && *in.Email != "" {
		email := strings.ToLower(*in.Email)
		if email != target.Email {
			existing, err := s.users.FindByEmail(ctx, email)
			if err == nil && existing.ID != target.ID {
				return nil, domain.ErrDuplicateEmail
			}
			if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
				return nil, err
			}
			target.Email = email
		}
	}
	if in.Phone != nil {
		target.Phone = *in.Phone
	}
	if in.TeamID != nil {
		target.TeamID = *in.TeamID
	}
	target.UpdatedAt = time.Now().UTC()

	return s.users.Update(ctx, target)
}

// DeleteUser removes an account. Operators cannot delete themselves, and
// admin-tier targets are reserved to the superadmin.
func (s *AdminService) DeleteUser(ctx context.Context, actor *domain.Account, targetID string) error {
	if !domain.Allowed(actor.Role, domain.ActionManageUsers) {
		return domain.ErrForbidden
	}
	if targetID == actor.ID {
		return domain.ErrForbidden
	}

	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return err
	}
	if !domain.CanActOn(actor.Role, target.Role) {
		return domain.ErrForbidden
	}

	if err := s.users.Delete(ctx, targetID); err != nil {
		return err
	}
	s.log.Info().Str("account_id", targetID).Str("operator_id", actor.ID).Msg("account deleted")
	return nil
}

// ListTeams returns all work crews.
func (s *AdminService) ListTeams(ctx context.Context, actor *domain.Account) ([]*domain.Team, error) {
	if !domain.Allowed(actor.Role, domain.ActionManageTeams) {
		return nil, domain.ErrForbidden
	}
	return s.teams.List(ctx)
}

// CreateTeam creates a work crew.
func (s *AdminService) CreateTeam(ctx context.Context, actor *domain.Account, in ports.CreateTeamInput) (*domain.Team, error) {
	if !domain.Allowed(actor.Role, domain.ActionManageTeams) {
		return nil, domain.ErrForbidden
	}
	if in.Name == "" {
		return nil, fmt.Errorf("%w: team name is required", domain.ErrValidation)
	}

	now := time.Now().UTC()
	team := &domain.Team{
		Name:      in.Name,
		MemberIDs: in.MemberIDs,
		LeaderID:  in.LeaderID,
		Status:    domain.TeamActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return s.teams.Create(ctx, team)
}

// UpdateTeam applies a partial team update.
func (s *AdminService) UpdateTeam(ctx context.Context, actor *domain.Account, teamID string, in ports.UpdateTeamInput) (*domain.Team, error) {
	if !domain.Allowed(actor.Role, domain.ActionManageTeams) {
		return nil, domain.ErrForbidden
	}

	team, err := s.teams.FindByID(ctx, teamID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil && *in.Name != "" {
		team.Name = *in.Name
	}
	if in.MemberIDs != nil {
		team.MemberIDs = in.MemberIDs
	}
	if in.LeaderID != nil {
		team.LeaderID = *in.LeaderID
	}
	if in.Status != nil {
		team.Status = *in.Status
	}
	team.UpdatedAt = time.Now().UTC()

	return s.teams.Update(ctx, team)
}

// Dashboard aggregates platform-wide numbers for the admin view.
func (s *AdminService) Dashboard(ctx context.Context, actor *domain.Account) (*ports.DashboardStats, error) {
	if !domain.Allowed(actor.Role, domain.ActionViewDashboard) {
		return nil, domain.ErrForbidden
	}

	stats, err := s.reports.Stats(ctx, time.Now().UTC().Add(-dashboardRecentWindow))
	if err != nil {
		return nil, err
	}
	userCount, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	teamCount, err := s.teams.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &ports.DashboardStats{
		TotalReports:         stats.Total,
		ReportsByStatus:      stats.ByStatus,
		ReportsByPriority:    stats.ByPriority,
		RecentReports:        stats.RecentCount,
		TotalUsers:           userCount,
		TotalTeams:           teamCount,
		AvgCompletionMinutes: int64(stats.AvgCompletion.Minutes()),
	}, nil
}

// PlanRoutes orders open reports by priority, then by distance from the given
// center. Not a TSP solver; a triage ordering for a single crew.
func (s *AdminService) PlanRoutes(ctx context.Context, actor *domain.Account, in ports.PlanRoutesInput) (*ports.RoutePlan, error) {
	if !domain.Allowed(actor.Role, domain.ActionPlanRoutes) {
		return nil, domain.ErrForbidden
	}

	max := in.MaxReports
	if max <= 0 {
		max = defaultRouteStops
	}

	reports, _, err := s.reports.List(ctx, ports.ListReportsFilter{
		Statuses: []domain.ReportStatus{domain.ReportPending, domain.ReportAssigned},
		TeamID:   in.TeamID,
		Limit:    max,
	})
	if err != nil {
		return nil, err
	}

	stops := make([]ports.RouteStop, 0, len(reports))
	for _, r := range reports {
		stops = append(stops, ports.RouteStop{
			ReportID:    r.ID,
			Location:    r.Location,
			Priority:    r.Priority,
			Description: r.Description,
			DistanceKm:  domain.HaversineKm(in.CenterLat, in.CenterLng, r.Location.Lat(), r.Location.Lng()),
		})
	}

	sort.Slice(stops, func(i, j int) bool {
		if stops[i].Priority.Rank() != stops[j].Priority.Rank() {
			return stops[i].Priority.Rank() > stops[j].Priority.Rank()
		}
		return stops[i].DistanceKm < stops[j].DistanceKm
	})

	return &ports.RoutePlan{
		Stops:            stops,
		TotalReports:     len(stops),
		EstimatedMinutes: len(stops) * minutesPerStop,
	}, nil
}
