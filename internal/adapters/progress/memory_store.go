package progress

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory ProgressStore. The marker does not survive
// a restart; it exists for tests and local development.
type MemoryStore struct {
	mu   sync.RWMutex
	last string
}

// NewMemoryStore creates a new in-memory progress store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// LastMessageID returns the last processed message id, or "" if none.
func (s *MemoryStore) LastMessageID(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last, nil
}

// SetLastMessageID records the last processed message id.
func (s *MemoryStore) SetLastMessageID(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = id
	return nil
}
