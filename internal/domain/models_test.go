package domain

import (
	"fmt"
	"testing"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	return db
}

func TestEmotion_Valid(t *testing.T) {
	for _, e := range Emotions {
		if !e.Valid() {
			t.Fatalf("%q should be valid", e)
		}
	}
	for _, bad := range []Emotion{"", "happy", "SAD", " sad"} {
		if bad.Valid() {
			t.Fatalf("%q should be invalid", bad)
		}
	}
}

func TestPrescription_OwnedBy(t *testing.T) {
	owner := "u1"
	owned := &Prescription{OwnerID: &owner}
	anon := &Prescription{}

	if !owned.OwnedBy("u1") || owned.OwnedBy("u2") || owned.OwnedBy("") {
		t.Fatalf("owned record ownership mismatch")
	}
	if !anon.OwnedBy("") || anon.OwnedBy("u1") {
		t.Fatalf("anonymous record ownership mismatch")
	}
}

func TestTableNames(t *testing.T) {
	if (Prescription{}).TableName() != "mood_rx" {
		t.Fatalf("Prescription table name")
	}
	if (RateLimitCounter{}).TableName() != "rate_limits" {
		t.Fatalf("RateLimitCounter table name")
	}
	if (Idempotency{}).TableName() != "idempotency" {
		t.Fatalf("Idempotency table name")
	}
}

func TestAutoMigrate_CreatesIndexesAndChecks(t *testing.T) {
	db := newTestDB(t)
	if err := db.AutoMigrate(&Prescription{}, &RateLimitCounter{}, &Idempotency{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	m := db.Migrator()
	if !m.HasIndex(&Prescription{}, "idx_owner_created") {
		t.Fatalf("missing idx_owner_created")
	}
	if !m.HasIndex(&Idempotency{}, "ux_identity_key") {
		t.Fatalf("missing ux_identity_key")
	}

	// energy outside [1,5] violates the CHECK constraint
	bad := &Prescription{ID: "p1", Situation: "s", Emotion: EmotionSad, Energy: 9,
		CoreReason: "a", NextAction: "b", ForbiddenPhrase: "c", PromptVersion: "v1"}
	if err := db.Create(bad).Error; err == nil {
		t.Fatalf("expected CHECK constraint failure for energy=9")
	}

	// two records may both have NULL share tokens
	for _, id := range []string{"p2", "p3"} {
		p := &Prescription{ID: id, Situation: "s", Emotion: EmotionSad, Energy: 3,
			CoreReason: "a", NextAction: "b", ForbiddenPhrase: "c", PromptVersion: "v1"}
		if err := db.Create(p).Error; err != nil {
			t.Fatalf("insert %s: %v", id, err)
		}
	}
}
