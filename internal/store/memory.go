package store

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps the latest record in process memory. Used in tests and
// when the server runs without a data directory; the record simply does not
// survive restarts, which the TTL semantics already tolerate.
type MemoryStore struct {
	mu      sync.RWMutex
	rec     Latest
	expires time.Time
	set     bool
	now     func() time.Time
}

func NewMemory() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

// NewMemoryWithClock is for tests that need to control expiry.
func NewMemoryWithClock(now func() time.Time) *MemoryStore {
	return &MemoryStore{now: now}
}

func (s *MemoryStore) Get(_ context.Context) (Latest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.set || s.now().After(s.expires) {
		return Latest{}, ErrNotFound
	}
	return s.rec, nil
}

func (s *MemoryStore) Set(_ context.Context, rec Latest, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec = rec
	s.expires = s.now().Add(ttl)
	s.set = true
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
