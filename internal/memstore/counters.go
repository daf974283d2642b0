package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/tbourn/mood-rx-backend/internal/domain"
)

// Counters is a map-backed ratelimit.Store.
type Counters struct {
	mu   sync.Mutex
	rows map[string]domain.RateLimitCounter
}

// NewCounters returns an empty counter store.
func NewCounters() *Counters {
	return &Counters{rows: make(map[string]domain.RateLimitCounter)}
}

// Get implements ratelimit.Store.
func (s *Counters) Get(_ context.Context, key string) (domain.RateLimitCounter, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.rows[key]
	return c, ok, nil
}

// Upsert implements ratelimit.Store.
func (s *Counters) Upsert(_ context.Context, c domain.RateLimitCounter) error {
	c.UpdatedAt = time.Now().UTC()
	s.mu.Lock()
	s.rows[c.Key] = c
	s.mu.Unlock()
	return nil
}
