package ports

import (
	"context"

	"github.com/wastemap/platform-api/internal/core/domain"
)

// TeamRepository defines persistence operations for work crews.
type TeamRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Team, error)
	Create(ctx context.Context, team *domain.Team) (*domain.Team, error)
	Update(ctx context.Context, team *domain.Team) (*domain.Team, error)
	List(ctx context.Context) ([]*domain.Team, error)
	Count(ctx context.Context) (int64, error)
}
