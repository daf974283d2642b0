package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/mood-rx-backend/internal/domain"
)

// GetCounter reads the rate-limit row for key.
func GetCounter(ctx context.Context, db *gorm.DB, key string) (*domain.RateLimitCounter, error) {
	var c domain.RateLimitCounter
	if err := db.WithContext(ctx).Where("key = ?", key).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// UpsertCounter inserts or overwrites the row for c.Key.
func UpsertCounter(ctx context.Context, db *gorm.DB, c domain.RateLimitCounter) error {
	c.UpdatedAt = time.Now().UTC()
	return db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"window_start", "count", "updated_at"}),
	}).Create(&c).Error
}

// CounterStore exposes the rate_limits table as a ratelimit.Store.
type CounterStore struct {
	DB *gorm.DB
}

// Get returns found=false when no row exists for key.
func (s CounterStore) Get(ctx context.Context, key string) (domain.RateLimitCounter, bool, error) {
	c, err := GetCounter(ctx, s.DB, key)
	if errors.Is(err, ErrNotFound) {
		return domain.RateLimitCounter{}, false, nil
	}
	if err != nil {
		return domain.RateLimitCounter{}, false, err
	}
	return *c, true, nil
}

// Upsert writes c.
func (s CounterStore) Upsert(ctx context.Context, c domain.RateLimitCounter) error {
	return UpsertCounter(ctx, s.DB, c)
}
