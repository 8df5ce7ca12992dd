package ports

import (
	"context"

	"github.com/kanbanhq/kanban-api/internal/core/domain"
)

// UpdateUserInput carries patch semantics: a nil field is left unchanged,
// and a blank string for a required field is also left unchanged.
type UpdateUserInput struct {
	Email    *string
	Password *string
	Role     *string
}

type UserService interface {
	// Me resolves the acting user from the token subject.
	Me(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, requesterEmail, targetID string, patch UpdateUserInput) (*domain.User, error)
}
