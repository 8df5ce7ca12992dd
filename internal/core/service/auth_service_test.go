package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/kanbanhq/kanban-api/internal/core/domain"
)

func newTestAuthService() (*AuthService, *stubUserRepo, *TokenService) {
	repo := newStubUserRepo()
	tokens := NewTokenService(TokenConfig{Secret: "secret", AccessTTL: time.Hour, RefreshTTL: 24 * time.Hour})
	return NewAuthService(repo, tokens), repo, tokens
}

func TestAuthService_Register_HashesPassword(t *testing.T) {
	svc, _, _ := newTestAuthService()

	user, err := svc.Register(context.Background(), "Alice@Example.com", "pass1234", "")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("email not normalized: %s", user.Email)
	}
	if user.Role != domain.RoleUser {
		t.Fatalf("expected default role USER, got %s", user.Role)
	}
	if user.PasswordHash == "pass1234" {
		t.Fatalf("password stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass1234")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	svc, _, _ := newTestAuthService()

	if _, err := svc.Register(context.Background(), "bob@example.com", "pass1234", ""); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	// Same email with different casing must still conflict.
	if _, err := svc.Register(context.Background(), "BOB@example.com", "other", ""); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc, _, _ := newTestAuthService()

	if _, err := svc.Register(context.Background(), "", "pass", ""); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for empty email, got %v", err)
	}
	if _, err := svc.Register(context.Background(), "x@example.com", "", ""); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for empty password, got %v", err)
	}
	if _, err := svc.Register(context.Background(), "x@example.com", "pass", "SUPERUSER"); !errors.Is(err, domain.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole for unknown role, got %v", err)
	}
}

func TestAuthService_Login_IssuesPair(t *testing.T) {
	svc, _, tokens := newTestAuthService()

	if _, err := svc.Register(context.Background(), "carol@example.com", "s3cret99", domain.RoleAdmin); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	pair, user, err := svc.Login(context.Background(), "carol@example.com", "s3cret99")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if user.Role != domain.RoleAdmin {
		t.Fatalf("unexpected role: %s", user.Role)
	}

	claims, err := tokens.Validate(pair.AccessToken)
	if err != nil {
		t.Fatalf("access token invalid: %v", err)
	}
	if claims.Subject != "carol@example.com" || claims.Role != domain.RoleAdmin {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if !tokens.IsRefresh(pair.RefreshToken) {
		t.Fatalf("refresh token missing kind marker")
	}
	if tokens.IsRefresh(pair.AccessToken) {
		t.Fatalf("access token carries refresh kind")
	}
}

func TestAuthService_Login_BadPassword(t *testing.T) {
	svc, _, _ := newTestAuthService()

	_, _ = svc.Register(context.Background(), "dave@example.com", "goodpass", "")
	if _, _, err := svc.Login(context.Background(), "dave@example.com", "badpass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	svc, _, _ := newTestAuthService()

	if _, _, err := svc.Login(context.Background(), "ghost@example.com", "pass"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthService_Refresh(t *testing.T) {
	svc, _, tokens := newTestAuthService()

	_, _ = svc.Register(context.Background(), "erin@example.com", "pass1234", "")
	pair, _, err := svc.Login(context.Background(), "erin@example.com", "pass1234")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	fresh, err := svc.Refresh(context.Background(), pair.RefreshToken)
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if _, err := tokens.Validate(fresh.AccessToken); err != nil {
		t.Fatalf("refreshed access token invalid: %v", err)
	}

	// An access token is not usable as a refresh token.
	if _, err := svc.Refresh(context.Background(), pair.AccessToken); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for access token, got %v", err)
	}
	if _, err := svc.Refresh(context.Background(), "garbage"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for garbage, got %v", err)
	}
}

func TestAuthService_Refresh_DeletedSubject(t *testing.T) {
	svc, _, tokens := newTestAuthService()

	// A structurally valid refresh token whose subject no longer exists.
	refresh, err := tokens.IssueRefreshToken("gone@example.com", domain.RoleUser)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	if _, err := svc.Refresh(context.Background(), refresh); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
