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

// CardService handles card mutations, including moves between lists.
type CardService struct {
	users     ports.UserRepository
	lists     ports.ListRepository
	cards     ports.CardRepository
	publisher ports.EventPublisher
	log       zerolog.Logger
}

func NewCardService(
	users ports.UserRepository,
	lists ports.ListRepository,
	cards ports.CardRepository,
	publisher ports.EventPublisher,
	log zerolog.Logger,
) *CardService {
	return &CardService{users: users, lists: lists, cards: cards, publisher: publisher, log: log}
}

// Create adds a card to a list. The card's owner is denormalized from the
// list owner at creation so later checks need no join.
func (s *CardService) Create(ctx context.Context, requesterEmail, listID string, input ports.CreateCardInput) (*domain.Card, error) {
	requester, err := s.users.FindByEmail(ctx, normalizeEmail(requesterEmail))
	if err != nil {
		return nil, err
	}

	list, err := s.lists.FindByID(ctx, listID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	if err := authz.Decide(requester, list.OwnerID, authz.ActionCreate); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	card := &domain.Card{
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Position:    input.Position,
		ListID:      list.ID,
		OwnerID:     list.OwnerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.cards.Create(ctx, card)
	if err != nil {
		s.log.Error().Err(err).Str("list_id", listID).Msg("failed to create card")
		return nil, err
	}
	observeMutation("card", "create", start)

	s.publisher.Publish(ctx, domain.EventCardCreated,
		cardData(created, "created"),
		cardMetadata(requester.ID, created.ID),
	)

	return created, nil
}

func (s *CardService) ListByList(ctx context.Context, requesterEmail, listID string) ([]domain.Card, error) {
	requester, err := s.users.FindByEmail(ctx, normalizeEmail(requesterEmail))
	if err != nil {
		return nil, err
	}

	list, err := s.lists.FindByID(ctx, listID)
	if err != nil {
		return nil, err
	}

	if err := authz.Decide(requester, list.OwnerID, authz.ActionRead); err != nil {
		return nil, err
	}
	return s.cards.FindByList(ctx, list.ID)
}

// Update applies a partial patch. A non-nil ListID is a move: the policy is
// applied to both the card and the destination list, and both must allow.
func (s *CardService) Update(ctx context.Context, requesterEmail, id string, patch ports.UpdateCardInput) (*domain.Card, error) {
	requester, err := s.users.FindByEmail(ctx, normalizeEmail(requesterEmail))
	if err != nil {
		return nil, err
	}

	card, err := s.cards.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	if err := authz.Decide(requester, card.OwnerID, authz.ActionUpdate); err != nil {
		return nil, err
	}

	moved := false
	if patch.Title != nil && strings.TrimSpace(*patch.Title) != "" {
		card.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		card.Description = *patch.Description
	}
	if patch.Position != nil {
		card.Position = *patch.Position
	}
	if patch.ListID != nil && *patch.ListID != card.ListID {
		dest, err := s.lists.FindByID(ctx, *patch.ListID)
		if err != nil {
			return nil, err
		}
		if err := authz.DecideMove(requester, card.OwnerID, dest.OwnerID); err != nil {
			return nil, err
		}
		card.ListID = dest.ID
		moved = true
	}

	card.UpdatedAt = time.Now().UTC()
	updated, err := s.cards.Update(ctx, card)
	if err != nil {
		return nil, err
	}
	observeMutation("card", "update", start)

	eventType := domain.EventCardUpdated
	action := "updated"
	if moved {
		eventType = domain.EventCardMoved
		action = "moved"
	}
	s.publisher.Publish(ctx, eventType,
		cardData(updated, action),
		cardMetadata(requester.ID, updated.ID),
	)

	return updated, nil
}

func (s *CardService) Delete(ctx context.Context, requesterEmail, id string) error {
	requester, err := s.users.FindByEmail(ctx, normalizeEmail(requesterEmail))
	if err != nil {
		return err
	}

	card, err := s.cards.FindByID(ctx, id)
	if err != nil {
		return err
	}

	start := time.Now()
	if err := authz.Decide(requester, card.OwnerID, authz.ActionDelete); err != nil {
		return err
	}

	if err := s.cards.Delete(ctx, card.ID); err != nil {
		return err
	}
	observeMutation("card", "delete", start)

	s.publisher.Publish(ctx, domain.EventCardDeleted,
		cardData(card, "deleted"),
		cardMetadata(requester.ID, card.ID),
	)

	return nil
}

func cardData(card *domain.Card, action string) map[string]any {
	return map[string]any{
		"cardId": card.ID,
		"title":  card.Title,
		"listId": card.ListID,
		"userId": card.OwnerID,
		"action": action,
	}
}

func cardMetadata(userID, cardID string) map[string]any {
	return map[string]any{
		"userId":        userID,
		"correlationId": "card-" + cardID,
	}
}
