// Package memstore provides in-process implementations of the persistence
// contracts used by the services and the rate limiter. They back the
// DB_DRIVER=memory mode and service tests. Data does not survive a restart.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/tbourn/mood-rx-backend/internal/domain"
	"github.com/tbourn/mood-rx-backend/internal/repo"
)

// Prescriptions is a map-backed prescription store.
type Prescriptions struct {
	mu      sync.RWMutex
	byID    map[string]domain.Prescription
	byToken map[string]string
}

// NewPrescriptions returns an empty store.
func NewPrescriptions() *Prescriptions {
	return &Prescriptions{
		byID:    make(map[string]domain.Prescription),
		byToken: make(map[string]string),
	}
}

// Insert stores a copy of p. Duplicate ids yield repo.ErrDuplicate.
func (s *Prescriptions) Insert(_ context.Context, p *domain.Prescription) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byID[p.ID]; exists {
		return repo.ErrDuplicate
	}
	s.byID[p.ID] = clone(*p)
	if p.ShareToken != nil {
		s.byToken[*p.ShareToken] = p.ID
	}
	return nil
}

// Get returns a copy of the record or repo.ErrNotFound.
func (s *Prescriptions) Get(_ context.Context, id string) (*domain.Prescription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.byID[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	c := clone(p)
	return &c, nil
}

// GetByShareToken resolves a token to a copy of its record.
func (s *Prescriptions) GetByShareToken(_ context.Context, token string) (*domain.Prescription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byToken[token]
	if !ok {
		return nil, repo.ErrNotFound
	}
	c := clone(s.byID[id])
	return &c, nil
}

// ListByOwner returns ownerID's records newest first.
func (s *Prescriptions) ListByOwner(_ context.Context, ownerID string, offset, limit int) ([]domain.Prescription, int64, error) {
	s.mu.RLock()
	owned := make([]domain.Prescription, 0)
	for _, p := range s.byID {
		if p.OwnerID != nil && *p.OwnerID == ownerID {
			owned = append(owned, clone(p))
		}
	}
	s.mu.RUnlock()

	sort.Slice(owned, func(i, j int) bool { return owned[i].CreatedAt.After(owned[j].CreatedAt) })
	total := int64(len(owned))
	if offset >= len(owned) {
		return []domain.Prescription{}, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(owned) {
		end = len(owned)
	}
	return owned[offset:end], total, nil
}

// VaultStats mirrors repo.VaultStats.
func (s *Prescriptions) VaultStats(_ context.Context, ownerID string) (int64, *time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var (
		n      int64
		newest time.Time
	)
	for _, p := range s.byID {
		if p.OwnerID != nil && *p.OwnerID == ownerID {
			n++
			if p.CreatedAt.After(newest) {
				newest = p.CreatedAt
			}
		}
	}
	if n == 0 {
		return 0, nil, nil
	}
	return n, &newest, nil
}

// Delete removes the record when id and owner match.
func (s *Prescriptions) Delete(_ context.Context, id, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byID[id]
	if !ok || p.OwnerID == nil || *p.OwnerID != ownerID {
		return repo.ErrNotFound
	}
	if p.ShareToken != nil {
		delete(s.byToken, *p.ShareToken)
	}
	delete(s.byID, id)
	return nil
}

// SetShareTokenIfEmpty sets the token only when none is present.
func (s *Prescriptions) SetShareTokenIfEmpty(_ context.Context, id, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byID[id]
	if !ok || p.ShareToken != nil {
		return false, nil
	}
	t := token
	p.ShareToken = &t
	s.byID[id] = p
	s.byToken[token] = id
	return true, nil
}

// Len reports how many records are stored.
func (s *Prescriptions) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

func clone(p domain.Prescription) domain.Prescription {
	if p.OwnerID != nil {
		o := *p.OwnerID
		p.OwnerID = &o
	}
	if p.ShareToken != nil {
		t := *p.ShareToken
		p.ShareToken = &t
	}
	return p
}
