package ports

import (
	"context"

	"github.com/wastemap/platform-api/internal/core/domain"
)

// ListUsersFilter narrows the account listing. An empty Roles slice means no
// role restriction; the service layer derives it from the actor's tier.
type ListUsersFilter struct {
	Roles         []domain.Role
	PasswordState domain.PasswordState
}

// UserRepository defines persistence for accounts. Email lookups are
// case-insensitive; Create returns domain.ErrDuplicateEmail on conflict.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	Update(ctx context.Context, account *domain.Account) (*domain.Account, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListUsersFilter) ([]*domain.Account, error)
	Count(ctx context.Context) (int64, error)
}
