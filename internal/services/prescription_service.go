// Package services – PrescriptionService
//
// This file implements PrescriptionService, which owns the creation pipeline
// and owner-scoped record access. A creation request moves through
// validation, the crisis keyword gate, the daily quota, generation with one
// strict retry, output validation and persistence, in that order.
//
// Observability: public methods are OpenTelemetry-instrumented and log through
// the request-scoped zerolog logger. Situation text is never logged.

package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/mood-rx-backend/internal/ai"
	"github.com/tbourn/mood-rx-backend/internal/domain"
	"github.com/tbourn/mood-rx-backend/internal/observability"
	"github.com/tbourn/mood-rx-backend/internal/ratelimit"
	"github.com/tbourn/mood-rx-backend/internal/repo"
	"github.com/tbourn/mood-rx-backend/internal/safety"
	"github.com/tbourn/mood-rx-backend/internal/utils"
	"github.com/tbourn/mood-rx-backend/internal/validation"
)

// DefaultAITimeout bounds a single generator attempt.
const DefaultAITimeout = 15 * time.Second

var (
	errAITimeout     = errors.New("ai: attempt timed out")
	errInvalidOutput = errors.New("ai: output failed validation")
)

// CreateResult is the outcome of a successful creation request. Crisis
// records carry Safety and no Decision.
type CreateResult struct {
	Record   *domain.Prescription
	Safety   *safety.Message
	Decision *ratelimit.Decision
	Replayed bool
}

// PrescriptionService coordinates prescription creation and retrieval.
type PrescriptionService struct {
	Store     PrescriptionStore
	Limiter   QuotaChecker
	Generator ai.Generator
	Idem      IdempotencyStore

	AITimeout time.Duration
	IdemTTL   time.Duration

	// Seams for tests.
	NewID func() string
	Now   func() time.Time
}

// Create runs the creation pipeline for one request.
//
// Crisis input is persisted as a blocked record and answered with the safety
// message; it never reaches the generator and never consumes quota.
func (s *PrescriptionService) Create(ctx context.Context, caller Caller, raw validation.CreateRequest) (*CreateResult, error) {
	tr := otel.Tracer("services/PrescriptionService")
	ctx, span := tr.Start(ctx, "Create",
		trace.WithAttributes(attribute.Bool("caller.authenticated", caller.Authenticated())),
	)
	defer span.End()

	in, err := validation.ValidateCreateRequest(raw)
	if err != nil {
		return nil, err
	}

	if safety.Detect(in.Situation) {
		span.SetAttributes(attribute.Bool("moodrx.crisis", true))
		return s.createBlocked(ctx, caller, in)
	}

	decision, err := s.checkQuota(ctx, caller)
	if err != nil {
		return nil, err
	}

	result, err := s.generate(ctx, in)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	rec := s.newRecord(caller, in)
	rec.CoreReason = result.CoreReason
	rec.NextAction = result.NextAction
	rec.ForbiddenPhrase = result.ForbiddenPhrase
	rec.PromptVersion = s.Generator.PromptVersion()

	if err := s.Store.Insert(ctx, rec); err != nil {
		span.RecordError(err)
		zerolog.Ctx(ctx).Error().Err(err).Str("record_id", rec.ID).Msg("persist prescription")
		return nil, fmt.Errorf("%w: %w", ErrDBFailed, err)
	}
	span.SetAttributes(attribute.String("record.id", rec.ID))
	return &CreateResult{Record: rec, Decision: decision}, nil
}

// CreateIdempotent behaves like Create, except that a repeated key from the
// same caller returns the record created by the first request.
func (s *PrescriptionService) CreateIdempotent(ctx context.Context, caller Caller, key string, raw validation.CreateRequest) (*CreateResult, error) {
	if key == "" || s.Idem == nil {
		return s.Create(ctx, caller, raw)
	}
	identity := caller.Identity()
	log := zerolog.Ctx(ctx)

	prev, err := s.Idem.Get(ctx, identity, key, s.now())
	switch {
	case err == nil:
		rec, gerr := s.Store.Get(ctx, prev.RecordID)
		if gerr == nil {
			return replay(rec), nil
		}
		if !errors.Is(gerr, repo.ErrNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrDBFailed, gerr)
		}
		// The earlier record was deleted; run the pipeline again.
	case errors.Is(err, repo.ErrNotFound):
	default:
		log.Warn().Err(err).Msg("idempotency lookup failed")
	}

	res, err := s.Create(ctx, caller, raw)
	if err != nil {
		return nil, err
	}
	if _, err := s.Idem.Create(ctx, identity, key, res.Record.ID, http.StatusCreated, s.idemTTL()); err != nil {
		log.Warn().Err(err).Str("record_id", res.Record.ID).Msg("idempotency store failed")
	}
	return res, nil
}

// Get returns a record visible to caller: authenticated callers see their own
// records, anonymous callers only ownerless ones.
func (s *PrescriptionService) Get(ctx context.Context, caller Caller, id string) (*domain.Prescription, error) {
	tr := otel.Tracer("services/PrescriptionService")
	ctx, span := tr.Start(ctx, "Get", trace.WithAttributes(attribute.String("record.id", id)))
	defer span.End()

	rec, err := s.Store.Get(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if !rec.OwnedBy(caller.UserID) {
		return nil, ErrNotFound
	}
	return rec, nil
}

// Delete removes one of the caller's records.
func (s *PrescriptionService) Delete(ctx context.Context, caller Caller, id string) error {
	tr := otel.Tracer("services/PrescriptionService")
	ctx, span := tr.Start(ctx, "Delete", trace.WithAttributes(attribute.String("record.id", id)))
	defer span.End()

	if !caller.Authenticated() {
		return ErrUnauthorized
	}
	if err := s.Store.Delete(ctx, id, caller.UserID); err != nil {
		return mapStoreErr(err)
	}
	return nil
}

// ListVault returns a page of the caller's records, newest first.
func (s *PrescriptionService) ListVault(ctx context.Context, caller Caller, page, pageSize int) ([]domain.Prescription, int64, error) {
	tr := otel.Tracer("services/PrescriptionService")
	ctx, span := tr.Start(ctx, "ListVault",
		trace.WithAttributes(
			attribute.Int("page", page),
			attribute.Int("page_size", pageSize),
		),
	)
	defer span.End()

	if !caller.Authenticated() {
		return nil, 0, ErrUnauthorized
	}
	if pageSize <= 0 {
		pageSize = utils.DefaultPageSize
	}
	page, pageSize = utils.ClampPage(page, pageSize)
	items, total, err := s.Store.ListByOwner(ctx, caller.UserID, utils.Offset(page, pageSize), pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrDBFailed, err)
	}
	if items == nil {
		items = []domain.Prescription{}
	}
	return items, total, nil
}

// VaultStats returns the caller's record count and newest creation time, used
// for vault ETags.
func (s *PrescriptionService) VaultStats(ctx context.Context, caller Caller) (int64, *time.Time, error) {
	if !caller.Authenticated() {
		return 0, nil, ErrUnauthorized
	}
	n, newest, err := s.Store.VaultStats(ctx, caller.UserID)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %w", ErrDBFailed, err)
	}
	return n, newest, nil
}

func (s *PrescriptionService) createBlocked(ctx context.Context, caller Caller, in validation.Input) (*CreateResult, error) {
	observability.CrisisDetected.Inc()

	rec := s.newRecord(caller, in)
	rec.Crisis = true
	rec.CoreReason = domain.BlockedValue
	rec.NextAction = domain.BlockedValue
	rec.ForbiddenPhrase = domain.BlockedValue
	rec.PromptVersion = domain.PromptVersionBlocked

	log := zerolog.Ctx(ctx)
	if err := s.Store.Insert(ctx, rec); err != nil {
		log.Error().Err(err).Msg("persist blocked record")
		return nil, fmt.Errorf("%w: %w", ErrDBFailed, err)
	}
	log.Warn().Str("record_id", rec.ID).Msg("crisis gate blocked request")

	msg := safety.SafetyMessage
	return &CreateResult{Record: rec, Safety: &msg}, nil
}

// checkQuota consumes one slot for caller. Limiter failures are logged,
// counted and ignored.
func (s *PrescriptionService) checkQuota(ctx context.Context, caller Caller) (*ratelimit.Decision, error) {
	if s.Limiter == nil {
		return nil, nil
	}
	d, err := s.Limiter.CheckAndConsume(ctx, caller.Identifier(), caller.Authenticated())
	if err != nil {
		observability.RateLimitStoreErrors.Inc()
		zerolog.Ctx(ctx).Warn().Err(err).Msg("rate limit check failed, proceeding")
		return nil, nil
	}
	if !d.Allowed {
		observability.RateLimitDecisions.WithLabelValues("denied").Inc()
		return &d, &RateLimitedError{Limit: d.Limit}
	}
	observability.RateLimitDecisions.WithLabelValues("allowed").Inc()
	return &d, nil
}

// generate calls the generator, retrying once with the strict instruction
// when the first attempt timed out or returned an unparseable payload.
func (s *PrescriptionService) generate(ctx context.Context, in validation.Input) (domain.PrescriptionResult, error) {
	log := zerolog.Ctx(ctx)
	req := ai.Request{Situation: in.Situation, Emotion: in.Emotion, Energy: in.Energy}

	res, err := s.attempt(ctx, req)
	if err == nil {
		observability.AICalls.WithLabelValues(observability.OutcomeOK).Inc()
		return res, nil
	}
	if retryable(err) && ctx.Err() == nil {
		observability.AICalls.WithLabelValues(outcome(err)).Inc()
		log.Warn().Err(err).Msg("generation failed, retrying with strict instruction")

		req.Strict = true
		res, err = s.attempt(ctx, req)
		if err == nil {
			observability.AICalls.WithLabelValues(observability.OutcomeRetried).Inc()
			return res, nil
		}
	}
	observability.AICalls.WithLabelValues(outcome(err)).Inc()
	log.Error().Err(err).Msg("generation failed")
	return domain.PrescriptionResult{}, fmt.Errorf("%w: %w", ErrAIFailed, err)
}

// attempt runs one bounded generator call and decodes its reply.
func (s *PrescriptionService) attempt(ctx context.Context, req ai.Request) (domain.PrescriptionResult, error) {
	timeout := s.AITimeout
	if timeout <= 0 {
		timeout = DefaultAITimeout
	}
	actx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	text, err := s.Generator.Generate(actx, req)
	if err != nil {
		switch {
		case errors.Is(err, ai.ErrNoText):
			return domain.PrescriptionResult{}, fmt.Errorf("%w: %w", ai.ErrMalformed, err)
		case ctx.Err() == nil && errors.Is(actx.Err(), context.DeadlineExceeded):
			return domain.PrescriptionResult{}, fmt.Errorf("%w: %w", errAITimeout, err)
		}
		return domain.PrescriptionResult{}, err
	}

	raw, err := ai.ParseResult(text)
	if err != nil {
		return domain.PrescriptionResult{}, err
	}
	res, err := validation.ValidateResult(raw)
	if err != nil {
		return domain.PrescriptionResult{}, fmt.Errorf("%w: %v", errInvalidOutput, err)
	}
	return res, nil
}

func retryable(err error) bool {
	return errors.Is(err, ai.ErrMalformed) || errors.Is(err, errAITimeout)
}

func outcome(err error) string {
	switch {
	case errors.Is(err, errAITimeout):
		return observability.OutcomeTimeout
	case errors.Is(err, ai.ErrMalformed):
		return observability.OutcomeMalformed
	case errors.Is(err, ai.ErrCrisisSignal):
		return observability.OutcomeCrisis
	case errors.Is(err, errInvalidOutput):
		return observability.OutcomeInvalid
	default:
		return observability.OutcomeError
	}
}

func (s *PrescriptionService) newRecord(caller Caller, in validation.Input) *domain.Prescription {
	newID := s.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	return &domain.Prescription{
		ID:        newID(),
		OwnerID:   caller.ownerPtr(),
		Situation: in.Situation,
		Emotion:   in.Emotion,
		Energy:    in.Energy,
		CreatedAt: s.now(),
	}
}

func (s *PrescriptionService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *PrescriptionService) idemTTL() time.Duration {
	if s.IdemTTL > 0 {
		return s.IdemTTL
	}
	return 24 * time.Hour
}

func replay(rec *domain.Prescription) *CreateResult {
	out := &CreateResult{Record: rec, Replayed: true}
	if rec.Crisis {
		msg := safety.SafetyMessage
		out.Safety = &msg
	}
	return out
}

func mapStoreErr(err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%w: %w", ErrDBFailed, err)
}
