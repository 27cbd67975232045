package session

import (
	"context"
	"sync"
)

// Keys making up the session surface. They are written together on login
// and cleared together on expiry or logout; nothing else touches them.
const (
	KeyToken    = "token"
	KeyUsername = "username"
	KeyUserRole = "userRole"
	KeyUserID   = "userId"
)

// Store is the single ownership point for session state. Only the expiry
// guard and the login/logout flows mutate it.
type Store interface {
	Read(ctx context.Context, key string) (string, error)
	Write(ctx context.Context, key, value string) error
	Clear(ctx context.Context) error
}

// MemoryStore is an in-process Store, used by tests and by single-instance
// deployments without Redis.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemoryStore initialises an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

// Read returns the stored value, or the empty string when absent.
func (s *MemoryStore) Read(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[key], nil
}

// Write stores a single value.
func (s *MemoryStore) Write(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

// Clear removes every session entry.
func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = make(map[string]string)
	return nil
}
