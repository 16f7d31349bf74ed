package domain

import (
	"errors"
	"time"
)

// Role is an ordered capability tier. Higher tiers are strict supersets of
// lower-tier visibility.
type Role string

const (
	RoleCitizen    Role = "citizen"
	RoleWorker     Role = "worker"
	RoleAdmin      Role = "admin"
	RoleSuperadmin Role = "superadmin"
)

// roleTiers maps each role to its rank in the hierarchy.
var roleTiers = map[Role]int{
	RoleCitizen:    0,
	RoleWorker:     1,
	RoleAdmin:      2,
	RoleSuperadmin: 3,
}

// IsValid reports whether the role is one of the closed set.
func (r Role) IsValid() bool {
	_, ok := roleTiers[r]
	return ok
}

// Tier returns the role's rank; unknown roles rank below citizen.
func (r Role) Tier() int {
	if t, ok := roleTiers[r]; ok {
		return t
	}
	return -1
}

// AtLeast reports whether the role ranks at or above min.
func (r Role) AtLeast(min Role) bool {
	return r.Tier() >= min.Tier()
}

// PasswordState is the account's position in the password lifecycle.
type PasswordState string

const (
	// PasswordActive is the normal steady state.
	PasswordActive PasswordState = "active"
	// PasswordPendingReset is set by a self-service "forgot password" request
	// and waits for an operator to fulfil it.
	PasswordPendingReset PasswordState = "pending_reset"
	// PasswordForcedReset is set by an operator reset; the account must change
	// its password before doing anything else.
	PasswordForcedReset PasswordState = "forced_reset"
)

// passwordTransitions defines the allowed lifecycle transitions.
// PendingReset and ForcedReset never reach each other except through a
// fulfilment (operator reset) or a completed change (back to Active).
var passwordTransitions = map[PasswordState][]PasswordState{
	PasswordActive:       {PasswordPendingReset, PasswordForcedReset},
	PasswordPendingReset: {PasswordActive, PasswordForcedReset},
	PasswordForcedReset:  {PasswordActive},
}

// CanTransitionTo reports whether moving from state s to next is valid.
// Re-entering the same state is treated as a no-op and allowed.
func (s PasswordState) CanTransitionTo(next PasswordState) bool {
	if s == next {
		return true
	}
	for _, allowed := range passwordTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

var ErrUserNotFound = errors.New("user not found")
var ErrDuplicateEmail = errors.New("email already in use")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrInvalidToken = errors.New("invalid token")
var ErrForbidden = errors.New("access denied")
var ErrValidation = errors.New("validation failed")
var ErrInvalidStateChange = errors.New("invalid password state change")
var ErrPasswordChangeRequired = errors.New("password change required")

// Account is the aggregate root for identity, credentials, and role.
// PasswordHash never crosses the API boundary.
type Account struct {
	ID            string        `json:"id" bson:"_id,omitempty"`
	Name          string        `json:"name" bson:"name"`
	Email         string        `json:"email" bson:"email"`
	PasswordHash  string        `json:"-" bson:"password_hash"`
	Role          Role          `json:"role" bson:"role"`
	Phone         string        `json:"phone,omitempty" bson:"phone,omitempty"`
	TeamID        string        `json:"team_id,omitempty" bson:"team_id,omitempty"`
	PasswordState PasswordState `json:"password_state" bson:"password_state"`
	// PasswordResetBy references the operator account that performed the last
	// forced reset; cleared when the owner completes the change.
	PasswordResetBy string    `json:"password_reset_by,omitempty" bson:"password_reset_by,omitempty"`
	CreatedAt       time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" bson:"updated_at"`
}

// MustChangePassword reports whether the account is blocked behind a forced
// password change.
func (a *Account) MustChangePassword() bool {
	return a.PasswordState == PasswordForcedReset
}

// ResetRequested reports whether a self-service reset request is waiting for
// an operator.
func (a *Account) ResetRequested() bool {
	return a.PasswordState == PasswordPendingReset
}

// SetPasswordState applies a lifecycle transition, rejecting moves the
// transition table does not allow.
func (a *Account) SetPasswordState(next PasswordState) error {
	if !a.PasswordState.CanTransitionTo(next) {
		return ErrInvalidStateChange
	}
	a.PasswordState = next
	return nil
}
