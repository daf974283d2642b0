// Package domain defines the persistence models for prescriptions and daily
// rate-limit counters. These types are mapped with GORM and form the core data
// layer of the mood-rx backend.
package domain

import (
	"time"
)

// Emotion is the closed set of feelings a caller can pick when asking for a
// prescription.
type Emotion string

const (
	EmotionAnxious  Emotion = "anxious"
	EmotionAngry    Emotion = "angry"
	EmotionSad      Emotion = "sad"
	EmotionTired    Emotion = "tired"
	EmotionConfused Emotion = "confused"
)

// Emotions lists every accepted Emotion in display order.
var Emotions = []Emotion{EmotionAnxious, EmotionAngry, EmotionSad, EmotionTired, EmotionConfused}

// Valid reports whether e is one of the five accepted values.
func (e Emotion) Valid() bool {
	for _, v := range Emotions {
		if e == v {
			return true
		}
	}
	return false
}

// BlockedValue is written into every result field of a crisis record.
const BlockedValue = "blocked"

// PromptVersionBlocked tags crisis records, which never reach a generator.
const PromptVersionBlocked = "blocked"

// PrescriptionResult is the three-line output produced by the generator.
type PrescriptionResult struct {
	CoreReason      string `json:"core_reason"`
	NextAction      string `json:"next_action_24h"`
	ForbiddenPhrase string `json:"forbidden_phrase"`
}

// Prescription is the persisted unit created for every accepted request.
//
// Fields:
//   - ID: UUID primary key (char(36)), immutable.
//   - OwnerID: authenticated creator, nil for anonymous records.
//   - Situation: user text, immutable after creation.
//   - Crisis: set once at creation by the keyword gate and never recomputed.
//   - ShareToken: nil until issued; once set it never changes.
//   - CreatedAt: creation timestamp (UTC).
type Prescription struct {
	ID              string    `json:"id"               gorm:"type:char(36);primaryKey"`
	OwnerID         *string   `json:"user_id"          gorm:"type:varchar(64);index:idx_owner_created,priority:1"`
	Situation       string    `json:"situation"        gorm:"type:text;not null"`
	Emotion         Emotion   `json:"emotion"          gorm:"type:varchar(16);not null"`
	Energy          int       `json:"energy"           gorm:"not null;check:energy BETWEEN 1 AND 5"`
	CoreReason      string    `json:"core_reason"      gorm:"type:varchar(320);not null"`
	NextAction      string    `json:"next_action_24h"  gorm:"type:varchar(320);not null"`
	ForbiddenPhrase string    `json:"forbidden_phrase" gorm:"type:varchar(320);not null"`
	Crisis          bool      `json:"crisis"           gorm:"not null;default:false"`
	PromptVersion   string    `json:"prompt_version"   gorm:"type:varchar(32);not null"`
	ShareToken      *string   `json:"share_token"      gorm:"type:varchar(32);uniqueIndex"`
	CreatedAt       time.Time `json:"created_at"       gorm:"index:idx_owner_created,priority:2"`
}

// TableName returns the database table name for Prescription.
func (Prescription) TableName() string { return "mood_rx" }

// Result returns the generated fields of the record.
func (p *Prescription) Result() PrescriptionResult {
	return PrescriptionResult{
		CoreReason:      p.CoreReason,
		NextAction:      p.NextAction,
		ForbiddenPhrase: p.ForbiddenPhrase,
	}
}

// OwnedBy reports whether the record belongs to ownerID. An empty ownerID
// matches only ownerless (anonymous) records.
func (p *Prescription) OwnedBy(ownerID string) bool {
	if ownerID == "" {
		return p.OwnerID == nil
	}
	return p.OwnerID != nil && *p.OwnerID == ownerID
}

// RateLimitCounter is the per-identity daily request counter. Rows from older
// windows stay in the table as history and are simply overwritten by the next
// request for the same key.
type RateLimitCounter struct {
	Key         string    `json:"key"          gorm:"type:varchar(128);primaryKey"`
	WindowStart string    `json:"window_start" gorm:"type:char(10);not null"` // YYYY-MM-DD
	Count       int       `json:"count"        gorm:"not null;default:0"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName returns the database table name for RateLimitCounter.
func (RateLimitCounter) TableName() string { return "rate_limits" }
