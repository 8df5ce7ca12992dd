package ports

import (
	"context"

	"github.com/kanbanhq/kanban-api/internal/core/domain"
)

type CreateCardInput struct {
	Title       string
	Description string
	Position    int
}

// UpdateCardInput carries patch semantics. A non-nil ListID reassigns the
// card to another list, which triggers the two-sided ownership check.
type UpdateCardInput struct {
	Title       *string
	Description *string
	Position    *int
	ListID      *string
}

type CardService interface {
	Create(ctx context.Context, requesterEmail, listID string, input CreateCardInput) (*domain.Card, error)
	ListByList(ctx context.Context, requesterEmail, listID string) ([]domain.Card, error)
	Update(ctx context.Context, requesterEmail, id string, patch UpdateCardInput) (*domain.Card, error)
	Delete(ctx context.Context, requesterEmail, id string) error
}
