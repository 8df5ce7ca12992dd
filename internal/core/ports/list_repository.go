package ports

import (
	"context"

	"github.com/kanbanhq/kanban-api/internal/core/domain"
)

// ListRepository defines the persistence collaborator for kanban lists.
type ListRepository interface {
	Create(ctx context.Context, list *domain.KanbanList) (*domain.KanbanList, error)
	FindByID(ctx context.Context, id string) (*domain.KanbanList, error)
	FindByOwner(ctx context.Context, ownerID string) ([]domain.KanbanList, error)
	Update(ctx context.Context, list *domain.KanbanList) (*domain.KanbanList, error)
	Delete(ctx context.Context, id string) error
}
