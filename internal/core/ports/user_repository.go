package ports

import (
	"context"

	"github.com/kanbanhq/kanban-api/internal/core/domain"
)

// UserRepository defines the persistence collaborator for users. The storage
// layer is the final authority on email uniqueness (unique index); Create and
// Update surface violations as domain.ErrEmailTaken.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
}
