// Package validation checks the shape of incoming creation requests and of
// generator output. Both validators stop at the first violated constraint and
// report it as a single human-readable *Error.
package validation

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/tbourn/mood-rx-backend/internal/domain"
)

// Bounds enforced by the validators. Lengths are counted in runes.
const (
	SituationMinRunes = 10
	SituationMaxRunes = 240
	EnergyMin         = 1
	EnergyMax         = 5
	// ResultMaxRunes is the hard ceiling for each generated field. The
	// generator is asked for 60; the gap is deliberate slack.
	ResultMaxRunes = 80
)

// Error describes the first constraint a payload violated.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string { return e.Message }

func fieldErr(field, format string, args ...any) *Error {
	return &Error{Field: field, Message: fmt.Sprintf(format, args...)}
}

// CreateRequest is the raw creation payload as decoded from JSON. Pointer
// fields distinguish "missing" from zero values.
type CreateRequest struct {
	Situation *string  `json:"situation"`
	Emotion   *string  `json:"emotion"`
	Energy    *float64 `json:"energy"`
}

// Input is a creation request that passed validation.
type Input struct {
	Situation string
	Emotion   domain.Emotion
	Energy    int
}

// ValidateCreateRequest checks situation, emotion and energy in that order and
// returns the first failure.
func ValidateCreateRequest(raw CreateRequest) (Input, error) {
	if raw.Situation == nil {
		return Input{}, fieldErr("situation", "situation is required")
	}
	situation := strings.TrimSpace(*raw.Situation)
	n := utf8.RuneCountInString(situation)
	if n < SituationMinRunes {
		return Input{}, fieldErr("situation", "situation must be at least %d characters", SituationMinRunes)
	}
	if n > SituationMaxRunes {
		return Input{}, fieldErr("situation", "situation must be at most %d characters", SituationMaxRunes)
	}

	if raw.Emotion == nil {
		return Input{}, fieldErr("emotion", "emotion is required")
	}
	emotion := domain.Emotion(*raw.Emotion)
	if !emotion.Valid() {
		return Input{}, fieldErr("emotion", "emotion must be one of anxious, angry, sad, tired, confused")
	}

	if raw.Energy == nil {
		return Input{}, fieldErr("energy", "energy is required")
	}
	e := *raw.Energy
	if math.IsNaN(e) || math.IsInf(e, 0) || e != math.Trunc(e) {
		return Input{}, fieldErr("energy", "energy must be an integer")
	}
	if e < EnergyMin || e > EnergyMax {
		return Input{}, fieldErr("energy", "energy must be between %d and %d", EnergyMin, EnergyMax)
	}

	return Input{Situation: situation, Emotion: emotion, Energy: int(e)}, nil
}

// RawResult is generator output as decoded from JSON.
type RawResult struct {
	CoreReason      *string `json:"core_reason"`
	NextAction      *string `json:"next_action_24h"`
	ForbiddenPhrase *string `json:"forbidden_phrase"`
}

// ValidateResult checks that all three generated fields are present,
// non-empty and within ResultMaxRunes.
func ValidateResult(raw RawResult) (domain.PrescriptionResult, error) {
	fields := []struct {
		name string
		val  *string
	}{
		{"core_reason", raw.CoreReason},
		{"next_action_24h", raw.NextAction},
		{"forbidden_phrase", raw.ForbiddenPhrase},
	}
	out := make([]string, len(fields))
	for i, f := range fields {
		if f.val == nil {
			return domain.PrescriptionResult{}, fieldErr(f.name, "%s is required", f.name)
		}
		v := strings.TrimSpace(*f.val)
		if v == "" {
			return domain.PrescriptionResult{}, fieldErr(f.name, "%s must not be empty", f.name)
		}
		if utf8.RuneCountInString(v) > ResultMaxRunes {
			return domain.PrescriptionResult{}, fieldErr(f.name, "%s must be at most %d characters", f.name, ResultMaxRunes)
		}
		out[i] = v
	}
	return domain.PrescriptionResult{
		CoreReason:      out[0],
		NextAction:      out[1],
		ForbiddenPhrase: out[2],
	}, nil
}
