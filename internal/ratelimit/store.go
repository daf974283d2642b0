package ratelimit

import (
	"context"

	"github.com/tbourn/mood-rx-backend/internal/domain"
)

// Store persists daily counters. Get reports found=false for a key that has
// never been written. Upsert replaces the row for c.Key.
type Store interface {
	Get(ctx context.Context, key string) (c domain.RateLimitCounter, found bool, err error)
	Upsert(ctx context.Context, c domain.RateLimitCounter) error
}
