package ports

import (
	"context"

	"github.com/leadflow/crm-api/internal/core/domain"
)

// UserRepository defines persistence for user accounts. Implementations return
// domain.ErrUserNotFound for missing users and domain.ErrUserExists on a
// duplicate email.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
}
