package ports

import (
	"context"

	"github.com/kanbanhq/kanban-api/internal/core/domain"
)

// CardRepository defines the persistence collaborator for cards.
type CardRepository interface {
	Create(ctx context.Context, card *domain.Card) (*domain.Card, error)
	FindByID(ctx context.Context, id string) (*domain.Card, error)
	FindByList(ctx context.Context, listID string) ([]domain.Card, error)
	Update(ctx context.Context, card *domain.Card) (*domain.Card, error)
	Delete(ctx context.Context, id string) error
	DeleteByList(ctx context.Context, listID string) error
}
