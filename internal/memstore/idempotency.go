package memstore

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tbourn/mood-rx-backend/internal/domain"
	"github.com/tbourn/mood-rx-backend/internal/repo"
)

// Idempotency is a map-backed idempotency store keyed by (identity, key).
type Idempotency struct {
	mu   sync.Mutex
	rows map[[2]string]domain.Idempotency
}

// NewIdempotency returns an empty store.
func NewIdempotency() *Idempotency {
	return &Idempotency{rows: make(map[[2]string]domain.Idempotency)}
}

// Get returns a live record or repo.ErrNotFound.
func (s *Idempotency) Get(_ context.Context, identity, key string, now time.Time) (*domain.Idempotency, error) {
	if strings.TrimSpace(identity) == "" || strings.TrimSpace(key) == "" {
		return nil, repo.ErrNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.rows[[2]string{identity, key}]
	if !ok || !rec.ExpiresAt.After(now) {
		return nil, repo.ErrNotFound
	}
	return &rec, nil
}

// Create stores a record; a live duplicate yields repo.ErrDuplicate. Expired
// entries are overwritten.
func (s *Idempotency) Create(_ context.Context, identity, key, recordID string, status int, ttl time.Duration) (*domain.Idempotency, error) {
	now := time.Now().UTC()
	k := [2]string{identity, key}
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.rows[k]; ok && old.ExpiresAt.After(now) {
		return nil, repo.ErrDuplicate
	}
	rec := domain.Idempotency{
		ID:        uuid.NewString(),
		Identity:  identity,
		Key:       key,
		RecordID:  recordID,
		Status:    status,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	s.rows[k] = rec
	return &rec, nil
}
