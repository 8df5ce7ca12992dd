package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kanbanhq/kanban-api/internal/core/domain"
	"github.com/kanbanhq/kanban-api/internal/core/ports"
)

// TokenConfig is injected at construction so that multiple instances signed
// with the same key interoperate and tests can pin the TTLs.
type TokenConfig struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type tokenClaims struct {
	Role string `json:"role,omitempty"`
	Kind string `json:"kind"`
	jwt.RegisteredClaims
}

// TokenService issues and validates HS256-signed access and refresh tokens.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewTokenService(cfg TokenConfig) *TokenService {
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = time.Hour
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 90 * 24 * time.Hour
	}
	return &TokenService{
		secret:     []byte(cfg.Secret),
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		now:        time.Now,
	}
}

// WithClock replaces the clock used for issued-at and expiry. Tests only.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	s.now = now
	return s
}

func (s *TokenService) IssueAccessToken(subject, role string) (string, error) {
	return s.sign(subject, role, ports.TokenKindAccess, s.accessTTL)
}

func (s *TokenService) IssueRefreshToken(subject, role string) (string, error) {
	return s.sign(subject, role, ports.TokenKindRefresh, s.refreshTTL)
}

func (s *TokenService) sign(subject, role, kind string, ttl time.Duration) (string, error) {
	issued := s.now().UTC()
	claims := tokenClaims{
		Role: role,
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Validate verifies the signature and expiry of a token string. Failures map
// to the distinct sentinels so callers can tell a forged token from a stale
// one.
func (s *TokenService) Validate(token string) (*ports.TokenClaims, error) {
	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))

	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, domain.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return nil, domain.ErrInvalidSignature
	case err != nil:
		return nil, domain.ErrMalformedToken
	case !parsed.Valid:
		return nil, domain.ErrInvalidSignature
	}

	kind := claims.Kind
	if kind == "" {
		kind = ports.TokenKindAccess
	}
	return &ports.TokenClaims{
		Subject: claims.Subject,
		Role:    claims.Role,
		Kind:    kind,
	}, nil
}

// IsRefresh reports whether the token is usable as a refresh token. Any
// parse or verification failure yields false, never an error.
func (s *TokenService) IsRefresh(token string) bool {
	claims, err := s.Validate(token)
	if err != nil {
		return false
	}
	return claims.Kind == ports.TokenKindRefresh
}
