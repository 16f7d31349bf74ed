package domain

// Action identifies an operation gated by the authorization policy.
type Action string

const (
	ActionViewOwnReports     Action = "reports:view_own"
	ActionViewAllReports     Action = "reports:view_all"
	ActionChangeReportStatus Action = "reports:change_status"
	ActionAssignReport       Action = "reports:assign"
	ActionManageUsers        Action = "users:manage"
	ActionManageTeams        Action = "teams:manage"
	ActionViewDashboard      Action = "admin:dashboard"
	ActionPlanRoutes         Action = "admin:plan_routes"
	ActionViewResetRequests  Action = "auth:view_reset_requests"
	ActionFulfilReset        Action = "auth:fulfil_reset"
)

// minTier is the single source of truth for role gating: the lowest tier
// allowed to perform each action. Per-record restrictions (an admin acting on
// another admin) are covered by CanActOn, not this table.
var minTier = map[Action]Role{
	ActionViewOwnReports:     RoleCitizen,
	ActionViewAllReports:     RoleWorker,
	ActionChangeReportStatus: RoleWorker,
	ActionAssignReport:       RoleAdmin,
	ActionManageUsers:        RoleAdmin,
	ActionManageTeams:        RoleAdmin,
	ActionViewDashboard:      RoleAdmin,
	ActionPlanRoutes:         RoleAdmin,
	ActionViewResetRequests:  RoleSuperadmin,
	ActionFulfilReset:        RoleSuperadmin,
}

// Allowed reports whether the actor role may perform the action. Unknown
// actions are denied.
func Allowed(actor Role, action Action) bool {
	min, ok := minTier[action]
	if !ok {
		return false
	}
	return actor.AtLeast(min)
}

// CanActOn reports whether the actor may create, mutate, or delete an account
// holding the target role. Admin-tier and above accounts are reserved to the
// superadmin.
func CanActOn(actor, target Role) bool {
	if actor == RoleSuperadmin {
		return true
	}
	return actor.AtLeast(RoleAdmin) && target.Tier() < RoleAdmin.Tier()
}

// CanAssignRole reports whether the actor may hand out the given role.
// Public registration (no actor) only mints the lowest tier.
func CanAssignRole(actor, role Role) bool {
	if role == RoleCitizen {
		return true
	}
	return CanActOn(actor, role)
}
