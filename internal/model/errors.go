package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound = errors.New("not found")
	ErrExists   = errors.New("already exists")

	// ErrDuplicate is a unique violation on a field other than the identifier,
	// which retrying with a new identifier cannot resolve.
	ErrDuplicate = errors.New("duplicate value")
)

// Identifier generation
var (
	ErrIdentifierExhausted = errors.New("identifier retry budget exhausted")
)

// Authentication
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidSession     = errors.New("missing session headers")
	ErrSessionExpired     = errors.New("session expired or not found")
	ErrUserNotFound       = errors.New("session owner no longer exists")
	ErrSessionError       = errors.New("session store failure")
)

func NewError(model string, err error) error {
	return fmt.Errorf("%s: %w", strings.ToLower(model), err)
}

// IsAuthError reports whether err belongs to the session failure taxonomy.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrInvalidSession) ||
		errors.Is(err, ErrSessionExpired) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrSessionError)
}
