package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/kanbanhq/kanban-api/internal/core/authz"
	"github.com/kanbanhq/kanban-api/internal/core/domain"
	"github.com/kanbanhq/kanban-api/internal/core/ports"
)

// UserService handles profile reads and account mutations.
type UserService struct {
	users     ports.UserRepository
	publisher ports.EventPublisher
	log       zerolog.Logger
}

func NewUserService(users ports.UserRepository, publisher ports.EventPublisher, log zerolog.Logger) *UserService {
	return &UserService{users: users, publisher: publisher, log: log}
}

// Me resolves the acting user from the validated token subject.
func (s *UserService) Me(ctx context.Context, email string) (*domain.User, error) {
	return s.users.FindByEmail(ctx, normalizeEmail(email))
}

// Update applies a partial patch to the target account. Absent fields stay
// unchanged; blank strings for required fields also stay unchanged rather
// than clearing them. Email and password may be changed by the account
// holder or an admin; role only by an admin.
func (s *UserService) Update(ctx context.Context, requesterEmail, targetID string, patch ports.UpdateUserInput) (*domain.User, error) {
	requester, err := s.users.FindByEmail(ctx, normalizeEmail(requesterEmail))
	if err != nil {
		return nil, err
	}

	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	if err := authz.Decide(requester, target.ID, authz.ActionUpdateAccount); err != nil {
		return nil, err
	}

	changed := false

	if patch.Email != nil {
		if email := normalizeEmail(*patch.Email); email != "" && email != target.Email {
			if _, err := s.users.FindByEmail(ctx, email); err == nil {
				return nil, domain.ErrEmailTaken
			}
			target.Email = email
			changed = true
		}
	}

	if patch.Password != nil && *patch.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*patch.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		target.PasswordHash = string(hash)
		changed = true
	}

	if patch.Role != nil && *patch.Role != "" {
		if err := authz.Decide(requester, target.ID, authz.ActionChangeRole); err != nil {
			return nil, err
		}
		if !domain.ValidRole(*patch.Role) {
			return nil, domain.ErrInvalidRole
		}
		target.Role = *patch.Role
		changed = true
	}

	if !changed {
		return target, nil
	}

	target.UpdatedAt = time.Now().UTC()
	updated, err := s.users.Update(ctx, target)
	if err != nil {
		return nil, err
	}
	observeMutation("user", "update", start)

	s.publisher.Publish(ctx, domain.EventUserUpdated,
		map[string]any{
			"userId": updated.ID,
			"email":  updated.Email,
			"role":   updated.Role,
			"action": "updated",
		},
		map[string]any{
			"userId":        requester.ID,
			"correlationId": "user-" + updated.ID,
		},
	)

	return updated, nil
}
