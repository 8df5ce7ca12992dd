package domain

import (
	"errors"
	"fmt"
)

// Token validation outcomes. Kept distinct so callers can tell a forged
// token from an expired one.
var (
	ErrMalformedToken   = errors.New("malformed token")
	ErrTokenExpired     = errors.New("token expired")
	ErrInvalidSignature = errors.New("invalid token signature")
)

// Authentication and authorization.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("access forbidden")

	// ErrInvalidRole is a validation failure, not an auth failure: the
	// request named a role that does not exist.
	ErrInvalidRole = errors.New("invalid role")

	// ErrForbiddenMove wraps ErrForbidden so errors.Is still matches, while
	// carrying the card-move-specific denial reason.
	ErrForbiddenMove = fmt.Errorf("%w: cannot move card into a list you do not own", ErrForbidden)
)

// Resource resolution and uniqueness.
var (
	ErrUserNotFound = errors.New("user not found")
	ErrListNotFound = errors.New("list not found")
	ErrCardNotFound = errors.New("card not found")
	ErrEmailTaken   = errors.New("email already in use")
)
