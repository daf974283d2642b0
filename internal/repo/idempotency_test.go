package repo

import (
	"context"
	"testing"
	"time"

	"github.com/tbourn/mood-rx-backend/internal/domain"
)

func TestGetIdempotency_BlankInputs_ReturnNotFound(t *testing.T) {
	db := newTestDB(t, &domain.Idempotency{})
	now := time.Now().UTC()

	for _, tc := range [][2]string{{"  ", "k1"}, {"ip:1.2.3.4", " "}} {
		rec, err := GetIdempotency(context.Background(), db, tc[0], tc[1], now)
		if rec != nil || err != ErrNotFound {
			t.Fatalf("expected (nil, ErrNotFound) for %q, got (%v, %v)", tc, rec, err)
		}
	}
}

func TestGetIdempotency_ExpiredOrMissing_ReturnsNotFound(t *testing.T) {
	db := newTestDB(t, &domain.Idempotency{})
	now := time.Now().UTC()

	exp := &domain.Idempotency{
		ID:        "expired",
		Identity:  "user:u1",
		Key:       "k1",
		RecordID:  "p1",
		Status:    201,
		CreatedAt: now.Add(-2 * time.Hour),
		ExpiresAt: now.Add(-time.Hour),
	}
	if err := db.Create(exp).Error; err != nil {
		t.Fatalf("seed expired: %v", err)
	}

	if rec, err := GetIdempotency(context.Background(), db, "user:u1", "k1", now); rec != nil || err != ErrNotFound {
		t.Fatalf("expected (nil, ErrNotFound) for expired, got (%v, %v)", rec, err)
	}
	if rec, err := GetIdempotency(context.Background(), db, "user:u1", "missing", now); rec != nil || err != ErrNotFound {
		t.Fatalf("expected (nil, ErrNotFound) for missing, got (%v, %v)", rec, err)
	}
}

func TestIdempotencyStore_CreateGetDuplicate(t *testing.T) {
	db := newTestDB(t, &domain.Idempotency{})
	store := IdempotencyStore{DB: db}
	ctx := context.Background()
	start := time.Now().UTC()

	rec, err := store.Create(ctx, "ip:10.0.0.1", "k9", "p9", 201, 90*time.Minute)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.ID == "" || rec.Identity != "ip:10.0.0.1" || rec.RecordID != "p9" || rec.Status != 201 {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if !(rec.ExpiresAt.After(start) && rec.ExpiresAt.Before(start.Add(2*time.Hour))) {
		t.Fatalf("unexpected ExpiresAt: %v", rec.ExpiresAt)
	}

	got, err := store.Get(ctx, "ip:10.0.0.1", "k9", time.Now().UTC())
	if err != nil || got.RecordID != "p9" {
		t.Fatalf("Get: rec=%+v err=%v", got, err)
	}

	// same key under another identity is independent
	if _, err := store.Create(ctx, "user:u1", "k9", "pX", 201, time.Hour); err != nil {
		t.Fatalf("Create other identity: %v", err)
	}

	if _, err := store.Create(ctx, "ip:10.0.0.1", "k9", "pY", 201, time.Hour); err != ErrDuplicate {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestCreateIdempotency_Error_NoTable(t *testing.T) {
	db := newTestDB(t) // intentionally NOT migrating
	_, err := CreateIdempotency(context.Background(), db, "uX", "kX", "pX", 201, time.Minute)
	if err == nil {
		t.Fatalf("expected error when table is missing")
	}
	if err == ErrDuplicate {
		t.Fatalf("expected non-duplicate error, got ErrDuplicate")
	}
}
