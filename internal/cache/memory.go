package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps entries in process memory. Entries are never evicted;
// the key space is the fixed set of table names.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]Entry
}

// NewMemoryStore creates an empty in-process store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: map[string]Entry{}}
}

// Get returns the entry stored under key, if any
func (s *MemoryStore) Get(ctx context.Context, key string) (Entry, bool, error) {
	_ = ctx
	s.mu.RLock()
	e, ok := s.items[key]
	s.mu.RUnlock()
	return e, ok, nil
}

// Set stores entry under key. ttl is ignored; staleness is decided by the caller.
func (s *MemoryStore) Set(ctx context.Context, key string, entry Entry, ttl time.Duration) error {
	_, _ = ctx, ttl
	s.mu.Lock()
	s.items[key] = entry
	s.mu.Unlock()
	return nil
}
