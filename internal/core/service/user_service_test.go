package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/kanbanhq/kanban-api/internal/core/domain"
	"github.com/kanbanhq/kanban-api/internal/core/ports"
	"github.com/kanbanhq/kanban-api/pkg/logger"
)

func strptr(s string) *string { return &s }

func intptr(i int) *int { return &i }

func seedUser(t *testing.T, repo *stubUserRepo, email, role string) *domain.User {
	t.Helper()
	hash, _ := bcrypt.GenerateFromPassword([]byte("initial1"), bcrypt.MinCost)
	now := time.Now().UTC()
	user, err := repo.Create(context.Background(), &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	return user
}

func TestUserService_Update_PasswordOnlyLeavesRest(t *testing.T) {
	repo := newStubUserRepo()
	pub := &recordingPublisher{}
	svc := NewUserService(repo, pub, logger.Discard())

	u := seedUser(t, repo, "alice@example.com", domain.RoleUser)

	updated, err := svc.Update(context.Background(), u.Email, u.ID, ports.UpdateUserInput{
		Password: strptr("newpass1"),
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Email != "alice@example.com" || updated.Role != domain.RoleUser {
		t.Fatalf("untouched fields changed: %+v", updated)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("newpass1")); err != nil {
		t.Fatalf("password not rehashed: %v", err)
	}

	if evt := pub.last(); evt == nil || evt.EventType != domain.EventUserUpdated {
		t.Fatalf("expected UserUpdated event, got %+v", evt)
	}
}

func TestUserService_Update_BlankFieldsUnchanged(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, &recordingPublisher{}, logger.Discard())

	u := seedUser(t, repo, "bob@example.com", domain.RoleUser)
	before := u.PasswordHash

	// Explicit blanks for required fields mean "unchanged", not "cleared".
	updated, err := svc.Update(context.Background(), u.Email, u.ID, ports.UpdateUserInput{
		Email:    strptr(""),
		Password: strptr(""),
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Email != "bob@example.com" {
		t.Fatalf("blank email cleared the field: %q", updated.Email)
	}
	stored, _ := repo.FindByID(context.Background(), u.ID)
	if stored.PasswordHash != before {
		t.Fatalf("blank password changed the hash")
	}
}

func TestUserService_Update_RoleChangeAdminOnly(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, &recordingPublisher{}, logger.Discard())

	u := seedUser(t, repo, "carol@example.com", domain.RoleUser)
	admin := seedUser(t, repo, "root@example.com", domain.RoleAdmin)

	// A user may not elevate their own role.
	if _, err := svc.Update(context.Background(), u.Email, u.ID, ports.UpdateUserInput{
		Role: strptr(domain.RoleAdmin),
	}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for self role elevation, got %v", err)
	}

	updated, err := svc.Update(context.Background(), admin.Email, u.ID, ports.UpdateUserInput{
		Role: strptr(domain.RoleAdmin),
	})
	if err != nil {
		t.Fatalf("admin role change failed: %v", err)
	}
	if updated.Role != domain.RoleAdmin {
		t.Fatalf("role not updated: %s", updated.Role)
	}
}

func TestUserService_Update_UnknownRoleRejected(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, &recordingPublisher{}, logger.Discard())

	u := seedUser(t, repo, "carol@example.com", domain.RoleUser)
	admin := seedUser(t, repo, "root@example.com", domain.RoleAdmin)

	_, err := svc.Update(context.Background(), admin.Email, u.ID, ports.UpdateUserInput{
		Role: strptr("SUPERUSER"),
	})
	if !errors.Is(err, domain.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
	if got, _ := repo.FindByID(context.Background(), u.ID); got.Role != domain.RoleUser {
		t.Fatalf("role changed despite rejection: %s", got.Role)
	}
}

func TestUserService_Update_OtherAccountForbidden(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, &recordingPublisher{}, logger.Discard())

	u1 := seedUser(t, repo, "one@example.com", domain.RoleUser)
	u2 := seedUser(t, repo, "two@example.com", domain.RoleUser)

	if _, err := svc.Update(context.Background(), u1.Email, u2.ID, ports.UpdateUserInput{
		Password: strptr("newpass1"),
	}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestUserService_Update_EmailConflict(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, &recordingPublisher{}, logger.Discard())

	u1 := seedUser(t, repo, "one@example.com", domain.RoleUser)
	seedUser(t, repo, "two@example.com", domain.RoleUser)

	if _, err := svc.Update(context.Background(), u1.Email, u1.ID, ports.UpdateUserInput{
		Email: strptr("two@example.com"),
	}); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestUserService_Update_TargetNotFound(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, &recordingPublisher{}, logger.Discard())

	u := seedUser(t, repo, "one@example.com", domain.RoleUser)

	if _, err := svc.Update(context.Background(), u.Email, "missing", ports.UpdateUserInput{
		Password: strptr("newpass1"),
	}); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
