package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/tbourn/mood-rx-backend/internal/validation"
)

var (
	// ErrMalformed means neither parse stage produced a JSON object.
	ErrMalformed = errors.New("ai: malformed payload")
	// ErrCrisisSignal means the model replied with CrisisSentinel.
	ErrCrisisSignal = errors.New("ai: model returned crisis signal")
)

var fencedRE = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)```")

// IsCrisisSentinel reports whether the reply is the bare crisis sentinel.
func IsCrisisSentinel(text string) bool {
	return strings.TrimSpace(text) == CrisisSentinel
}

// ExtractPayload returns the text inside the first fenced block, or ok=false
// when the reply has no fence.
func ExtractPayload(text string) (string, bool) {
	m := fencedRE.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// ParseResult decodes a model reply in two stages: the trimmed text as JSON,
// then the contents of a fenced block. The decoded value is not validated.
//
// A reply equal to CrisisSentinel yields ErrCrisisSignal. Anything else that
// fails both stages yields an error wrapping ErrMalformed.
func ParseResult(text string) (validation.RawResult, error) {
	var out validation.RawResult
	text = strings.TrimSpace(text)
	if text == "" {
		return out, fmt.Errorf("%w: empty reply", ErrMalformed)
	}
	if IsCrisisSentinel(text) {
		return out, ErrCrisisSignal
	}

	directErr := json.Unmarshal([]byte(text), &out)
	if directErr == nil {
		return out, nil
	}

	inner, ok := ExtractPayload(text)
	if !ok {
		return validation.RawResult{}, fmt.Errorf("%w: %v", ErrMalformed, directErr)
	}
	out = validation.RawResult{}
	if err := json.Unmarshal([]byte(inner), &out); err != nil {
		return validation.RawResult{}, fmt.Errorf("%w: fenced block: %v", ErrMalformed, err)
	}
	return out, nil
}
