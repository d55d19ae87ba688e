package cache

import (
	"context"
	"sync"
	"time"

	"github.com/masala/backend/internal/domain/shared"
)

// InMemoryIdempotencyStore implements shared.IdempotencyStore in process
// memory. State is not shared between instances.
type InMemoryIdempotencyStore struct {
	mu        sync.Mutex
	expiries  map[string]time.Time
	now       func() time.Time
	stop      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryIdempotencyStore creates a store that sweeps expired keys every sweepInterval.
// A non-positive interval disables the sweeper.
func NewInMemoryIdempotencyStore(sweepInterval time.Duration) *InMemoryIdempotencyStore {
	s := &InMemoryIdempotencyStore{
		expiries: make(map[string]time.Time),
		now:      time.Now,
		stop:     make(chan struct{}),
	}
	if sweepInterval > 0 {
		s.wg.Add(1)
		go s.sweepLoop(sweepInterval)
	}
	return s
}

// MarkProcessed records key with a TTL; false means it was already recorded
func (s *InMemoryIdempotencyStore) MarkProcessed(_ context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if exp, ok := s.expiries[key]; ok && now.Before(exp) {
		return false, nil
	}
	s.expiries[key] = now.Add(ttl)
	return true, nil
}

// IsProcessed checks if key has been recorded and has not expired
func (s *InMemoryIdempotencyStore) IsProcessed(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	exp, ok := s.expiries[key]
	return ok && s.now().Before(exp), nil
}

// Release forgets key
func (s *InMemoryIdempotencyStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.expiries, key)
	s.mu.Unlock()
	return nil
}

// Close stops the sweeper. Safe to call multiple times.
func (s *InMemoryIdempotencyStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stop)
		s.wg.Wait()
	})
	return nil
}

// Len returns the number of stored keys, expired or not
func (s *InMemoryIdempotencyStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.expiries)
}

func (s *InMemoryIdempotencyStore) sweepLoop(interval time.Duration) {
	defer s.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *InMemoryIdempotencyStore) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for key, exp := range s.expiries {
		if !now.Before(exp) {
			delete(s.expiries, key)
		}
	}
}

// Ensure InMemoryIdempotencyStore implements IdempotencyStore
var _ shared.IdempotencyStore = (*InMemoryIdempotencyStore)(nil)
