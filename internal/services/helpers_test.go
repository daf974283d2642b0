package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/tbourn/mood-rx-backend/internal/ai"
	"github.com/tbourn/mood-rx-backend/internal/domain"
	"github.com/tbourn/mood-rx-backend/internal/memstore"
	"github.com/tbourn/mood-rx-backend/internal/ratelimit"
	"github.com/tbourn/mood-rx-backend/internal/validation"
)

const validReply = `{"core_reason":"기대와 현실의 차이","next_action_24h":"산책 10분","forbidden_phrase":"나는 원래 이래"}`

func strPtr(s string) *string { return &s }

func createReq(situation, emotion string, energy float64) validation.CreateRequest {
	return validation.CreateRequest{
		Situation: strPtr(situation),
		Emotion:   strPtr(emotion),
		Energy:    &energy,
	}
}

// reply is one scripted generator response. block waits for the attempt
// context to expire.
type reply struct {
	text  string
	err   error
	block bool
}

type scriptedGen struct {
	mu      sync.Mutex
	replies []reply
	reqs    []ai.Request
}

func (g *scriptedGen) PromptVersion() string { return "test-v1" }

func (g *scriptedGen) Generate(ctx context.Context, req ai.Request) (string, error) {
	g.mu.Lock()
	i := len(g.reqs)
	g.reqs = append(g.reqs, req)
	g.mu.Unlock()

	if i >= len(g.replies) {
		return "", errors.New("unexpected generator call")
	}
	r := g.replies[i]
	if r.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return r.text, r.err
}

func (g *scriptedGen) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.reqs)
}

type failingLimiter struct{}

func (failingLimiter) CheckAndConsume(context.Context, string, bool) (ratelimit.Decision, error) {
	return ratelimit.Decision{}, errors.New("counter store down")
}

// failingInsertStore wraps a memory store and fails every Insert.
type failingInsertStore struct {
	*memstore.Prescriptions
}

func (failingInsertStore) Insert(context.Context, *domain.Prescription) error {
	return errors.New("disk full")
}

type fixture struct {
	svc      *PrescriptionService
	store    *memstore.Prescriptions
	counters *memstore.Counters
	limiter  *ratelimit.Limiter
}

func newFixture(t *testing.T, gen ai.Generator) *fixture {
	t.Helper()
	store := memstore.NewPrescriptions()
	counters := memstore.NewCounters()
	lim := ratelimit.New(counters, 5, 10, time.UTC)
	day := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	lim.Now = func() time.Time { return day }

	return &fixture{
		svc: &PrescriptionService{
			Store:     store,
			Limiter:   lim,
			Generator: gen,
			Idem:      memstore.NewIdempotency(),
			AITimeout: time.Second,
			IdemTTL:   time.Hour,
		},
		store:    store,
		counters: counters,
		limiter:  lim,
	}
}
