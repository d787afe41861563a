package user

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is a mutex-guarded in-process Store. It is the default
// backing store for the service; any persistent implementation can be
// swapped in behind the Store interface.
type MemoryStore struct {
	mu      sync.RWMutex
	byID    map[string]*Account
	byEmail map[string]*Account
}

// NewMemoryStore creates an empty in-memory account store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:    make(map[string]*Account),
		byEmail: make(map[string]*Account),
	}
}

// FindByEmail looks up an account by normalized email.
func (s *MemoryStore) FindByEmail(_ context.Context, email string) (*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acc, ok := s.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	return copyAccount(acc), nil
}

// FindByID looks up an account by id.
func (s *MemoryStore) FindByID(_ context.Context, id string) (*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acc, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyAccount(acc), nil
}

// Insert creates a new account with a fresh id and creation timestamp.
// The uniqueness check and the insert happen under one write lock, so
// concurrent signups for the same email cannot both succeed.
func (s *MemoryStore) Insert(_ context.Context, email, passwordHash string) (*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byEmail[email]; ok {
		return nil, ErrEmailTaken
	}

	acc := &Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	s.byID[acc.ID] = acc
	s.byEmail[acc.Email] = acc

	return copyAccount(acc), nil
}

// Delete removes an account. Administrative operation, not exposed over
// HTTP; used to exercise the gate's deleted-account path.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.byID[id]
	if !ok {
		return ErrNotFound
	}
	delete(s.byID, id)
	delete(s.byEmail, acc.Email)
	return nil
}

// copyAccount returns a transient copy so callers never hold a reference
// into the store's own records.
func copyAccount(acc *Account) *Account {
	cp := *acc
	return &cp
}
