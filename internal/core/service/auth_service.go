package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/wastemap/platform-api/internal/core/domain"
	"github.com/wastemap/platform-api/internal/core/ports"
)

const minPasswordLength = 6

// genericResetMessage is returned by RequestPasswordReset whether or not the
// email exists, so the endpoint cannot be used to enumerate accounts.
const genericResetMessage = "If an account with that email exists, a password reset request has been submitted to the administrator."

// ResetThrottle abstracts the repeat-request guard (Redis). A throttled email
// still gets the generic confirmation; only the store write is skipped.
type ResetThrottle interface {
	IsThrottled(ctx context.Context, email string) (bool, error)
	Mark(ctx context.Context, email string) error
}

// AuthService implements the account lifecycle: registration, login, and the
// password reset state machine.
type AuthService struct {
	repo     ports.UserRepository
	tokens   ports.TokenService
	throttle ResetThrottle // optional
	log      zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, tokens ports.TokenService, throttle ResetThrottle, log zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, tokens: tokens, throttle: throttle, log: log}
}

// Register creates an account and issues a token. Public registration only
// mints the citizen role; elevated roles require an operator with sufficient
// tier.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
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
	if !domain.CanAssignRole(in.ActorRole, role) {
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

	created, err := s.repo.Create(ctx, account)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(created)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.log.Info().Str("account_id", created.ID).Str("role", string(created.Role)).Msg("account registered")

	return &ports.AuthResult{Account: created, Token: token}, nil
}

// Login verifies credentials and issues a token. Unknown email and wrong
// password both return ErrInvalidCredentials so accounts cannot be enumerated.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", domain.ErrValidation)
	}

	account, err := s.repo.FindByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(account)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.log.Info().Str("account_id", account.ID).Str("role", string(account.Role)).Msg("login")

	return &ports.AuthResult{
		Account:            account,
		Token:              token,
		MustChangePassword: account.MustChangePassword(),
	}, nil
}

// Me returns the current account.
func (s *AuthService) Me(ctx context.Context, accountID string) (*domain.Account, error) {
	return s.repo.FindByID(ctx, accountID)
}

// RequestPasswordReset flags the account for an operator reset. The response
// text is identical whether or not the email exists.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	if email == "" {
		return "", fmt.Errorf("%w: email is required", domain.ErrValidation)
	}
	email = strings.ToLower(email)

	if s.throttle != nil {
		throttled, err := s.throttle.IsThrottled(ctx, email)
		if err != nil {
			s.log.Warn().Err(err).Msg("reset throttle check failed, proceeding")
		} else if throttled {
			return genericResetMessage, nil
		}
	}

	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return genericResetMessage, nil
		}
		return "", err
	}

	// A forced-reset account cannot re-enter the pending queue; the operator
	// already holds the next move.
	if err := account.SetPasswordState(domain.PasswordPendingReset); err != nil {
		s.log.Debug().Str("account_id", account.ID).Msg("reset request ignored in current state")
		return genericResetMessage, nil
	}
	account.UpdatedAt = time.Now().UTC()

	if _, err := s.repo.Update(ctx, account); err != nil {
		return "", err
	}

	if s.throttle != nil {
		if err := s.throttle.Mark(ctx, email); err != nil {
			s.log.Warn().Err(err).Msg("failed to mark reset throttle")
		}
	}

	s.log.Info().Str("account_id", account.ID).Msg("password reset requested")

	return genericResetMessage, nil
}

// OperatorResetPassword force-sets the target's password and requires a change
// on next login. Restricted to the top tier.
func (s *AuthService) OperatorResetPassword(ctx context.Context, actor *domain.Account, targetID, newPassword string) (*domain.Account, error) {
	if actor == nil || !domain.Allowed(actor.Role, domain.ActionFulfilReset) {
		return nil, domain.ErrForbidden
	}
	if newPassword == "" {
		return nil, fmt.Errorf("%w: new password is required", domain.ErrValidation)
	}
	if len(newPassword) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLength)
	}

	target, err := s.repo.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	if err := target.SetPasswordState(domain.PasswordForcedReset); err != nil {
		return nil, err
	}
	target.PasswordHash = string(hash)
	target.PasswordResetBy = actor.ID
	target.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.Update(ctx, target)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("account_id", updated.ID).Str("operator_id", actor.ID).Msg("operator password reset")

	return updated, nil
}

// ChangePassword lets an account replace its own password, completing the
// forced-change flow when one is pending.
func (s *AuthService) ChangePassword(ctx context.Context, accountID, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return fmt.Errorf("%w: old and new password are required", domain.ErrValidation)
	}
	if len(newPassword) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLength)
	}

	account, err := s.repo.FindByID(ctx, accountID)
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(oldPassword)) != nil {
		return domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := account.SetPasswordState(domain.PasswordActive); err != nil {
		return err
	}
	account.PasswordHash = string(hash)
	account.PasswordResetBy = ""
	account.UpdatedAt = time.Now().UTC()

	if _, err := s.repo.Update(ctx, account); err != nil {
		return err
	}

	s.log.Info().Str("account_id", account.ID).Msg("password changed")

	return nil
}

// PendingResetRequests lists accounts waiting on an operator reset.
func (s *AuthService) PendingResetRequests(ctx context.Context, actor *domain.Account) ([]*domain.Account, error) {
	if actor == nil || !domain.Allowed(actor.Role, domain.ActionViewResetRequests) {
		return nil, domain.ErrForbidden
	}
	return s.repo.List(ctx, ports.ListUsersFilter{PasswordState: domain.PasswordPendingReset})
}
