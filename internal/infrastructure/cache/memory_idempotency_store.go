package cache

import (
	"context"
	"sync"
	"time"

	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/domain/shared"
)

const memorySweepInterval = 5 * time.Minute

type heldKey struct {
	value   string
	expires time.Time
}

// MemoryIdempotencyStore keeps keys in process memory. Only one server
// instance sees them, so it serves development and single-node runs.
// Expired keys are invisible immediately and pruned on a later write.
type MemoryIdempotencyStore struct {
	mu        sync.Mutex
	keys      map[string]heldKey
	now       func() time.Time
	lastSweep time.Time
}

func NewMemoryIdempotencyStore() *MemoryIdempotencyStore {
	return newMemoryIdempotencyStore(time.Now)
}

func newMemoryIdempotencyStore(now func() time.Time) *MemoryIdempotencyStore {
	return &MemoryIdempotencyStore{keys: make(map[string]heldKey), now: now, lastSweep: now()}
}

func (s *MemoryIdempotencyStore) Reserve(_ context.Context, key, value string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.write()
	if k, ok := s.keys[key]; ok && now.Before(k.expires) {
		return false, nil
	}
	s.keys[key] = heldKey{value: value, expires: now.Add(ttl)}
	return true, nil
}

func (s *MemoryIdempotencyStore) Lookup(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k, ok := s.keys[key]
	if !ok || !s.now().Before(k.expires) {
		return "", false, nil
	}
	return k.value, true, nil
}

func (s *MemoryIdempotencyStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.write()
	s.keys[key] = heldKey{value: value, expires: now.Add(ttl)}
	return nil
}

func (s *MemoryIdempotencyStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.keys, key)
	return nil
}

// Close drops every key
func (s *MemoryIdempotencyStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.keys)
	return nil
}

// Len reports how many keys are held, expired or not
func (s *MemoryIdempotencyStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.keys)
}

// write returns the current time, pruning expired keys first when the
// sweep interval has passed. Callers hold mu.
func (s *MemoryIdempotencyStore) write() time.Time {
	now := s.now()
	if now.Sub(s.lastSweep) < memorySweepInterval {
		return now
	}
	for key, k := range s.keys {
		if !now.Before(k.expires) {
			delete(s.keys, key)
		}
	}
	s.lastSweep = now
	return now
}

var _ shared.IdempotencyStore = (*MemoryIdempotencyStore)(nil)
