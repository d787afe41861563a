// Package user defines the account record and the store contract the
// authentication core depends on. The store owns account records; callers
// only ever receive transient copies.
package user

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Account is a stored identity record. PasswordHash never serializes
// outward.
type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Store errors.
var (
	// ErrNotFound indicates no account matches the lookup key.
	ErrNotFound = errors.New("user: account not found")
	// ErrEmailTaken indicates an insert against an already-registered email.
	ErrEmailTaken = errors.New("user: email already registered")
)

// Store is the external collaborator holding account records. Lookups by
// email expect a normalized (lowercase) address. Insert assigns the id and
// creation timestamp and fails with ErrEmailTaken if the email is present,
// atomically with respect to concurrent inserts.
type Store interface {
	FindByEmail(ctx context.Context, email string) (*Account, error)
	FindByID(ctx context.Context, id string) (*Account, error)
	Insert(ctx context.Context, email, passwordHash string) (*Account, error)
}

// NormalizeEmail lowercases and trims an email address so uniqueness and
// lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
