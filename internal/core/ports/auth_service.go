package ports

import (
	"context"

	"github.com/wastemap/platform-api/internal/core/domain"
)

// RegisterInput carries a registration request. ActorRole is empty for public
// registration and set when an authenticated operator creates the account.
type RegisterInput struct {
	Name      string
	Email     string
	Password  string
	Phone     string
	Role      domain.Role
	ActorRole domain.Role
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	Account *domain.Account
	Token   string
	// MustChangePassword tells the caller to route into the forced-change flow.
	MustChangePassword bool
}

// AuthService is the account lifecycle manager: registration, login, and the
// password reset state machine.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Me(ctx context.Context, accountID string) (*domain.Account, error)
	// RequestPasswordReset never discloses whether the email exists; the
	// returned message is identical either way.
	RequestPasswordReset(ctx context.Context, email string) (string, error)
	// OperatorResetPassword force-sets a password on behalf of the target and
	// flags the account for a mandatory change on next login.
	OperatorResetPassword(ctx context.Context, actor *domain.Account, targetID, newPassword string) (*domain.Account, error)
	ChangePassword(ctx context.Context, accountID, oldPassword, newPassword string) error
	// PendingResetRequests lists accounts waiting on an operator reset.
	PendingResetRequests(ctx context.Context, actor *domain.Account) ([]*domain.Account, error)
}

// TokenService mints and validates bearer tokens. Every verification failure
// (malformed, expired, bad signature) surfaces as domain.ErrInvalidToken.
type TokenService interface {
	Issue(account *domain.Account) (string, error)
	Verify(token string) (accountID string, err error)
}
