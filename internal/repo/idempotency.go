// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository helpers for the Idempotency
// model used to replay POST /mood-rx on client retries.
package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/mood-rx-backend/internal/domain"
)

// GetIdempotency returns a non-expired record for (identity, key) or
// ErrNotFound.
func GetIdempotency(ctx context.Context, db *gorm.DB, identity, key string, now time.Time) (*domain.Idempotency, error) {
	if strings.TrimSpace(identity) == "" || strings.TrimSpace(key) == "" {
		return nil, ErrNotFound
	}
	var rec domain.Idempotency
	err := db.WithContext(ctx).
		Where("identity = ? AND key = ? AND expires_at > ?", identity, key, now).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// CreateIdempotency inserts a record and returns ErrDuplicate on unique
// violation.
func CreateIdempotency(ctx context.Context, db *gorm.DB, identity, key, recordID string, status int, ttl time.Duration) (*domain.Idempotency, error) {
	now := time.Now().UTC()
	rec := &domain.Idempotency{
		ID:        uuid.NewString(),
		Identity:  identity,
		Key:       key,
		RecordID:  recordID,
		Status:    status,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	if err := db.WithContext(ctx).Create(rec).Error; err != nil {
		if isDuplicate(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return rec, nil
}

// IdempotencyStore adapts the helpers above to the service contract.
type IdempotencyStore struct {
	DB *gorm.DB
}

// Get looks up a live record.
func (s IdempotencyStore) Get(ctx context.Context, identity, key string, now time.Time) (*domain.Idempotency, error) {
	return GetIdempotency(ctx, s.DB, identity, key, now)
}

// Create stores a new record.
func (s IdempotencyStore) Create(ctx context.Context, identity, key, recordID string, status int, ttl time.Duration) (*domain.Idempotency, error) {
	return CreateIdempotency(ctx, s.DB, identity, key, recordID, status, ttl)
}
