package ports

import (
	"context"

	"github.com/wastemap/platform-api/internal/core/domain"
)

// CreateUserInput carries an operator-initiated account creation.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Role     domain.Role
}

// UpdateUserInput carries a partial account update. Nil pointers leave the
// field untouched.
type UpdateUserInput struct {
	Name   *string
	Email  *string
	Phone  *string
	Role   *domain.Role
	TeamID *string
}

// CreateTeamInput carries a team creation request.
type CreateTeamInput struct {
	Name      string
	MemberIDs []string
	LeaderID  string
}

// UpdateTeamInput carries a partial team update.
type UpdateTeamInput struct {
	Name      *string
	MemberIDs []string
	LeaderID  *string
	Status    *domain.TeamStatus
}

// DashboardStats is the admin dashboard payload.
type DashboardStats struct {
	TotalReports         int64                            `json:"total_reports"`
	ReportsByStatus      map[domain.ReportStatus]int64    `json:"reports_by_status"`
	ReportsByPriority    map[domain.ReportPriority]int64  `json:"reports_by_priority"`
	RecentReports        int64                            `json:"recent_reports"`
	TotalUsers           int64                            `json:"total_users"`
	TotalTeams           int64                            `json:"total_teams"`
	AvgCompletionMinutes int64                            `json:"avg_completion_minutes"`
}

// RouteStop is one entry in a planned collection route.
type RouteStop struct {
	ReportID    string                `json:"report_id"`
	Location    domain.GeoPoint       `json:"location"`
	Priority    domain.ReportPriority `json:"priority"`
	Description string                `json:"description"`
	DistanceKm  float64               `json:"distance_km"`
}

// RoutePlan is the ordered route returned by PlanRoutes.
type RoutePlan struct {
	Stops            []RouteStop `json:"route"`
	TotalReports     int         `json:"total_reports"`
	EstimatedMinutes int         `json:"estimated_minutes"`
}

// PlanRoutesInput parameterises route planning.
type PlanRoutesInput struct {
	TeamID     string
	CenterLat  float64
	CenterLng  float64
	MaxReports int
}

// AdminService covers operator-facing account, team, and planning operations.
// Every method takes the acting account so tier rules are enforced centrally.
type AdminService interface {
	ListUsers(ctx context.Context, actor *domain.Account) ([]*domain.Account, error)
	CreateUser(ctx context.Context, actor *domain.Account, in CreateUserInput) (*domain.Account, error)
	UpdateUser(ctx context.Context, actor *domain.Account, targetID string, in UpdateUserInput) (*domain.Account, error)
	DeleteUser(ctx context.Context, actor *domain.Account, targetID string) error

	ListTeams(ctx context.Context, actor *domain.Account) ([]*domain.Team, error)
	CreateTeam(ctx context.Context, actor *domain.Account, in CreateTeamInput) (*domain.Team, error)
	UpdateTeam(ctx context.Context, actor *domain.Account, teamID string, in UpdateTeamInput) (*domain.Team, error)

	Dashboard(ctx context.Context, actor *domain.Account) (*DashboardStats, error)
	PlanRoutes(ctx context.Context, actor *domain.Account, in PlanRoutesInput) (*RoutePlan, error)
}
