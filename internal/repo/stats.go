// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides a small aggregate query used for
// conditional responses (ETag generation) on the vault listing.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/mood-rx-backend/internal/domain"
)

// VaultStats returns the number of records ownerID has and the newest
// CreatedAt among them.
//
// When the owner has no records, count is 0 and newest is nil.
func VaultStats(ctx context.Context, db *gorm.DB, ownerID string) (count int64, newest *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.Prescription{}).Where("owner_id = ?", ownerID)

	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Avoid MAX() which comes back as TEXT in SQLite.
	var row struct {
		CreatedAt time.Time
	}
	if err = q.Select("created_at").Order("created_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.CreatedAt, nil
}
