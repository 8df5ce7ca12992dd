package ports

import (
	"context"

	"github.com/kanbanhq/kanban-api/internal/core/domain"
)

type CreateListInput struct {
	Title    string
	Position int
}

// UpdateListInput follows the same patch semantics as UpdateUserInput.
type UpdateListInput struct {
	Title    *string
	Position *int
}

type ListService interface {
	Create(ctx context.Context, requesterEmail string, input CreateListInput) (*domain.KanbanList, error)
	ListMine(ctx context.Context, requesterEmail string) ([]domain.KanbanList, error)
	Get(ctx context.Context, requesterEmail, id string) (*domain.KanbanList, error)
	Update(ctx context.Context, requesterEmail, id string, patch UpdateListInput) (*domain.KanbanList, error)
	Delete(ctx context.Context, requesterEmail, id string) error
}
