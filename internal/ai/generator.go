// Package ai holds the text-generation side of prescription creation: the
// Generator contract, the prompt template, the two-stage payload parser and
// the concrete Claude and mock generators.
package ai

import (
	"context"

	"github.com/tbourn/mood-rx-backend/internal/domain"
)

// Request is the validated input handed to a Generator. Strict is set on the
// retry attempt and asks the model for bare JSON only.
type Request struct {
	Situation string
	Emotion   domain.Emotion
	Energy    int
	Strict    bool
}

// Generator produces the raw text reply for a prescription request. The reply
// is parsed and validated by the caller.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
	// PromptVersion tags records produced from this generator's output.
	PromptVersion() string
}
