// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// Prescription model.
//
// All functions are context-aware and accept a *gorm.DB handle, so they can
// run inside transactions. They follow the thin-repository approach: CRUD and
// query composition only, no business rules.
//
// Error semantics:
//   - Missing rows yield ErrNotFound (gorm.ErrRecordNotFound).
//   - Other DB errors are propagated unchanged.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/mood-rx-backend/internal/domain"
)

// CreatePrescription inserts p. CreatedAt is stamped in UTC when zero.
func CreatePrescription(ctx context.Context, db *gorm.DB, p *domain.Prescription) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	return db.WithContext(ctx).Create(p).Error
}

// GetPrescription fetches a record by id.
func GetPrescription(ctx context.Context, db *gorm.DB, id string) (*domain.Prescription, error) {
	var p domain.Prescription
	if err := db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// GetPrescriptionByShareToken fetches the record a share token points to.
func GetPrescriptionByShareToken(ctx context.Context, db *gorm.DB, token string) (*domain.Prescription, error) {
	var p domain.Prescription
	if err := db.WithContext(ctx).Where("share_token = ?", token).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// CountPrescriptions returns how many records ownerID has.
func CountPrescriptions(ctx context.Context, db *gorm.DB, ownerID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Prescription{}).
		Where("owner_id = ?", ownerID).
		Count(&total).Error
	return total, err
}

// ListPrescriptionsPage returns a page of ownerID's records, newest first.
// The caller computes offset and limit.
func ListPrescriptionsPage(ctx context.Context, db *gorm.DB, ownerID string, offset, limit int) ([]domain.Prescription, error) {
	var out []domain.Prescription
	err := db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// DeletePrescription removes the record matching both id and ownerID. It
// returns ErrNotFound when nothing matched.
func DeletePrescription(ctx context.Context, db *gorm.DB, id, ownerID string) error {
	res := db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&domain.Prescription{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetShareTokenIfEmpty writes token only while share_token is still NULL.
// updated=false means another writer got there first (or the row is gone).
func SetShareTokenIfEmpty(ctx context.Context, db *gorm.DB, id, token string) (updated bool, err error) {
	res := db.WithContext(ctx).
		Model(&domain.Prescription{}).
		Where("id = ? AND share_token IS NULL", id).
		Update("share_token", token)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// PrescriptionStore adapts the free functions above to the store contract
// used by the service layer.
type PrescriptionStore struct {
	DB *gorm.DB
}

// Insert persists a new record.
func (s PrescriptionStore) Insert(ctx context.Context, p *domain.Prescription) error {
	return CreatePrescription(ctx, s.DB, p)
}

// Get fetches a record by id.
func (s PrescriptionStore) Get(ctx context.Context, id string) (*domain.Prescription, error) {
	return GetPrescription(ctx, s.DB, id)
}

// GetByShareToken fetches a record by share token.
func (s PrescriptionStore) GetByShareToken(ctx context.Context, token string) (*domain.Prescription, error) {
	return GetPrescriptionByShareToken(ctx, s.DB, token)
}

// ListByOwner returns one page plus the owner's total.
func (s PrescriptionStore) ListByOwner(ctx context.Context, ownerID string, offset, limit int) ([]domain.Prescription, int64, error) {
	total, err := CountPrescriptions(ctx, s.DB, ownerID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Prescription{}, 0, nil
	}
	items, err := ListPrescriptionsPage(ctx, s.DB, ownerID, offset, limit)
	return items, total, err
}

// Delete removes an owned record.
func (s PrescriptionStore) Delete(ctx context.Context, id, ownerID string) error {
	return DeletePrescription(ctx, s.DB, id, ownerID)
}

// SetShareTokenIfEmpty is the conditional share-token write.
func (s PrescriptionStore) SetShareTokenIfEmpty(ctx context.Context, id, token string) (bool, error) {
	return SetShareTokenIfEmpty(ctx, s.DB, id, token)
}

// VaultStats reports count and newest created_at for ownerID.
func (s PrescriptionStore) VaultStats(ctx context.Context, ownerID string) (int64, *time.Time, error) {
	return VaultStats(ctx, s.DB, ownerID)
}
