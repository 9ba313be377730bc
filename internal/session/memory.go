package session

import (
	"context"
	"sync"
	"time"

	"github.com/desertthunder/spotrec/internal/models"
)

type memoryEntry struct {
	bundle    *models.TokenBundle
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// MemoryStore is a process-local [Store]. Entries vanish on restart.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryStore creates an empty [MemoryStore].
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry), now: time.Now}
}

func (s *MemoryStore) Load(_ context.Context, id string) (*models.TokenBundle, error) {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	now := s.now()
	if !e.expired(now) {
		return cloneBundle(e.bundle), nil
	}

	// The entry may have been replaced since the read lock was released.
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok = s.entries[id]
	if !ok {
		return nil, nil
	}
	if e.expired(now) {
		delete(s.entries, id)
		return nil, nil
	}
	return cloneBundle(e.bundle), nil
}

// Save stores a copy of bundle. A ttl of zero keeps the entry until deleted.
func (s *MemoryStore) Save(_ context.Context, id string, bundle *models.TokenBundle, ttl time.Duration) error {
	e := memoryEntry{bundle: cloneBundle(bundle)}
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	}

	s.mu.Lock()
	s.entries[id] = e
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.entries, id)
	s.mu.Unlock()
	return nil
}

// Prune drops expired entries and returns how many were removed.
func (s *MemoryStore) Prune(_ context.Context) (int64, error) {
	now := s.now()
	var n int64

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, e := range s.entries {
		if e.expired(now) {
			delete(s.entries, id)
			n++
		}
	}
	return n, nil
}

// Len returns the number of stored entries, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
