// Package ratelimit implements the per-identity daily quota applied to
// prescription generation. Anonymous callers are keyed by client IP and
// authenticated callers by user id; each class has its own ceiling.
//
// The check is a read followed by a write against the Store and is not
// atomic, so concurrent requests for one key may overshoot the ceiling by a
// few requests. Callers treat limiter errors as fail-open.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/mood-rx-backend/internal/domain"
)

// Default daily ceilings.
const (
	DefaultAnonLimit = 5
	DefaultAuthLimit = 10
)

// Key prefixes keep user ids and IPs in separate namespaces.
const (
	prefixUser = "user:"
	prefixIP   = "ip:"
)

const dayLayout = "2006-01-02"

// Decision is the outcome of one CheckAndConsume call. Remaining is the
// capacity left after this request.
type Decision struct {
	Allowed   bool `json:"allowed"`
	Remaining int  `json:"remaining"`
	Limit     int  `json:"limit"`
}

// Limiter applies fixed daily ceilings per identity class.
type Limiter struct {
	Store     Store
	AnonLimit int
	AuthLimit int
	// Location fixes the calendar used for day boundaries. Nil means UTC.
	Location *time.Location
	// Now is overridable in tests.
	Now func() time.Time
}

// New returns a Limiter over store. Non-positive limits fall back to the
// defaults.
func New(store Store, anonLimit, authLimit int, loc *time.Location) *Limiter {
	if anonLimit <= 0 {
		anonLimit = DefaultAnonLimit
	}
	if authLimit <= 0 {
		authLimit = DefaultAuthLimit
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Limiter{
		Store:     store,
		AnonLimit: anonLimit,
		AuthLimit: authLimit,
		Location:  loc,
		Now:       time.Now,
	}
}

// Key builds the storage key for an identifier.
func Key(identifier string, authenticated bool) string {
	if authenticated {
		return prefixUser + identifier
	}
	return prefixIP + identifier
}

// LimitFor returns the ceiling for the identity class.
func (l *Limiter) LimitFor(authenticated bool) int {
	if authenticated {
		return l.AuthLimit
	}
	return l.AnonLimit
}

// Today returns the current window as YYYY-MM-DD in the limiter's location.
func (l *Limiter) Today() string {
	now := time.Now
	if l.Now != nil {
		now = l.Now
	}
	loc := l.Location
	if loc == nil {
		loc = time.UTC
	}
	return now().In(loc).Format(dayLayout)
}

// CheckAndConsume reads the counter for identifier and, when the request is
// allowed, writes the consumed slot back.
//
//   - no row, or a row from an earlier day: reset to 1 and allow
//   - count >= limit: deny with Remaining 0
//   - otherwise: increment and allow with Remaining = limit - count - 1
//
// Store failures are returned as errors with a zero Decision.
func (l *Limiter) CheckAndConsume(ctx context.Context, identifier string, authenticated bool) (Decision, error) {
	key := Key(identifier, authenticated)
	limit := l.LimitFor(authenticated)

	ctx, span := otel.Tracer("ratelimit/Limiter").Start(ctx, "CheckAndConsume",
		trace.WithAttributes(
			attribute.Bool("ratelimit.authenticated", authenticated),
			attribute.Int("ratelimit.limit", limit),
		),
	)
	defer span.End()

	if l.Store == nil {
		return Decision{}, errors.New("ratelimit: no store configured")
	}

	today := l.Today()
	row, found, err := l.Store.Get(ctx, key)
	if err != nil {
		span.RecordError(err)
		return Decision{}, fmt.Errorf("ratelimit get %s: %w", key, err)
	}

	if !found || row.WindowStart != today {
		if err := l.Store.Upsert(ctx, domain.RateLimitCounter{Key: key, WindowStart: today, Count: 1}); err != nil {
			span.RecordError(err)
			return Decision{}, fmt.Errorf("ratelimit reset %s: %w", key, err)
		}
		return Decision{Allowed: true, Remaining: limit - 1, Limit: limit}, nil
	}

	if row.Count >= limit {
		span.SetAttributes(attribute.Bool("ratelimit.denied", true))
		return Decision{Allowed: false, Remaining: 0, Limit: limit}, nil
	}

	if err := l.Store.Upsert(ctx, domain.RateLimitCounter{Key: key, WindowStart: today, Count: row.Count + 1}); err != nil {
		span.RecordError(err)
		return Decision{}, fmt.Errorf("ratelimit increment %s: %w", key, err)
	}
	return Decision{Allowed: true, Remaining: limit - row.Count - 1, Limit: limit}, nil
}
