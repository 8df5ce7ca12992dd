package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/kanbanhq/kanban-api/internal/core/authz"
	"github.com/kanbanhq/kanban-api/internal/core/domain"
	"github.com/kanbanhq/kanban-api/internal/core/ports"
)

// ListService handles kanban list mutations: authenticate, authorize,
// persist, then announce.
type ListService struct {
	users     ports.UserRepository
	lists     ports.ListRepository
	cards     ports.CardRepository
	publisher ports.EventPublisher
	log       zerolog.Logger
}

func NewListService(
	users ports.UserRepository,
	lists ports.ListRepository,
	cards ports.CardRepository,
	publisher ports.EventPublisher,
	log zerolog.Logger,
) *ListService {
	return &ListService{users: users, lists: lists, cards: cards, publisher: publisher, log: log}
}

func (s *ListService) Create(ctx context.Context, requesterEmail string, input ports.CreateListInput) (*domain.KanbanList, error) {
	owner, err := s.users.FindByEmail(ctx, normalizeEmail(requesterEmail))
	if err != nil {
		return nil, err
	}

	start := time.Now()
	now := start.UTC()
	list := &domain.KanbanList{
		Title:     strings.TrimSpace(input.Title),
		Position:  input.Position,
		OwnerID:   owner.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.lists.Create(ctx, list)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create list")
		return nil, err
	}
	observeMutation("list", "create", start)

	s.publisher.Publish(ctx, domain.EventListCreated,
		map[string]any{
			"listId": created.ID,
			"title":  created.Title,
			"userId": owner.ID,
			"action": "created",
		},
		listMetadata(owner.ID, created.ID),
	)

	return created, nil
}

// ListMine returns the requester's own lists; admins see their own lists
// here too, not everyone's.
func (s *ListService) ListMine(ctx context.Context, requesterEmail string) ([]domain.KanbanList, error) {
	owner, err := s.users.FindByEmail(ctx, normalizeEmail(requesterEmail))
	if err != nil {
		return nil, err
	}
	return s.lists.FindByOwner(ctx, owner.ID)
}

func (s *ListService) Get(ctx context.Context, requesterEmail, id string) (*domain.KanbanList, error) {
	requester, err := s.users.FindByEmail(ctx, normalizeEmail(requesterEmail))
	if err != nil {
		return nil, err
	}

	list, err := s.lists.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := authz.Decide(requester, list.OwnerID, authz.ActionRead); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *ListService) Update(ctx context.Context, requesterEmail, id string, patch ports.UpdateListInput) (*domain.KanbanList, error) {
	requester, err := s.users.FindByEmail(ctx, normalizeEmail(requesterEmail))
	if err != nil {
		return nil, err
	}

	list, err := s.lists.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	if err := authz.Decide(requester, list.OwnerID, authz.ActionUpdate); err != nil {
		return nil, err
	}

	changed := false
	if patch.Title != nil && strings.TrimSpace(*patch.Title) != "" {
		list.Title = strings.TrimSpace(*patch.Title)
		changed = true
	}
	if patch.Position != nil {
		list.Position = *patch.Position
		changed = true
	}
	if !changed {
		return list, nil
	}

	list.UpdatedAt = time.Now().UTC()
	updated, err := s.lists.Update(ctx, list)
	if err != nil {
		return nil, err
	}
	observeMutation("list", "update", start)

	s.publisher.Publish(ctx, domain.EventListUpdated,
		map[string]any{
			"listId": updated.ID,
			"title":  updated.Title,
			"userId": requester.ID,
			"action": "updated",
		},
		listMetadata(requester.ID, updated.ID),
	)

	return updated, nil
}

// Delete removes a list and its cards, then announces the deletion.
func (s *ListService) Delete(ctx context.Context, requesterEmail, id string) error {
	requester, err := s.users.FindByEmail(ctx, normalizeEmail(requesterEmail))
	if err != nil {
		return err
	}

	list, err := s.lists.FindByID(ctx, id)
	if err != nil {
		return err
	}

	start := time.Now()
	if err := authz.Decide(requester, list.OwnerID, authz.ActionDelete); err != nil {
		return err
	}

	if err := s.cards.DeleteByList(ctx, list.ID); err != nil {
		return err
	}
	if err := s.lists.Delete(ctx, list.ID); err != nil {
		return err
	}
	observeMutation("list", "delete", start)

	s.publisher.Publish(ctx, domain.EventListDeleted,
		map[string]any{
			"listId": list.ID,
			"title":  list.Title,
			"userId": requester.ID,
			"action": "deleted",
		},
		listMetadata(requester.ID, list.ID),
	)

	return nil
}

func listMetadata(userID, listID string) map[string]any {
	return map[string]any{
		"userId":        userID,
		"correlationId": "list-" + listID,
	}
}
