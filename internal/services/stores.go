package services

import (
	"context"
	"time"

	"github.com/tbourn/mood-rx-backend/internal/domain"
	"github.com/tbourn/mood-rx-backend/internal/ratelimit"
)

// PrescriptionStore is the persistence contract shared by the SQL and
// in-memory stores. Lookups return repo.ErrNotFound for missing rows.
type PrescriptionStore interface {
	Insert(ctx context.Context, p *domain.Prescription) error
	Get(ctx context.Context, id string) (*domain.Prescription, error)
	GetByShareToken(ctx context.Context, token string) (*domain.Prescription, error)
	ListByOwner(ctx context.Context, ownerID string, offset, limit int) ([]domain.Prescription, int64, error)
	Delete(ctx context.Context, id, ownerID string) error
	SetShareTokenIfEmpty(ctx context.Context, id, token string) (bool, error)
	VaultStats(ctx context.Context, ownerID string) (int64, *time.Time, error)
}

// QuotaChecker is satisfied by *ratelimit.Limiter.
type QuotaChecker interface {
	CheckAndConsume(ctx context.Context, identifier string, authenticated bool) (ratelimit.Decision, error)
}

// IdempotencyStore remembers which record an Idempotency-Key produced.
type IdempotencyStore interface {
	Get(ctx context.Context, identity, key string, now time.Time) (*domain.Idempotency, error)
	Create(ctx context.Context, identity, key, recordID string, status int, ttl time.Duration) (*domain.Idempotency, error)
}
