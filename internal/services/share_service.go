package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/mood-rx-backend/internal/domain"
	"github.com/tbourn/mood-rx-backend/internal/observability"
)

// ShareTokenLength is the length of issued tokens in characters.
const ShareTokenLength = 12

// NewShareToken returns a random URL-safe token of ShareTokenLength
// characters (72 bits of entropy).
func NewShareToken() (string, error) {
	b := make([]byte, ShareTokenLength*3/4)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("share token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// SharedView is the public projection of a shared record. It omits the
// situation text, the owner and the crisis flag.
type SharedView struct {
	ID              string         `json:"id"`
	Emotion         domain.Emotion `json:"emotion"`
	Energy          int            `json:"energy"`
	CoreReason      string         `json:"core_reason"`
	NextAction      string         `json:"next_action_24h"`
	ForbiddenPhrase string         `json:"forbidden_phrase"`
	CreatedAt       time.Time      `json:"created_at"`
}

// ShareService issues share tokens and serves shared records.
type ShareService struct {
	Store PrescriptionStore

	// NewToken is overridable in tests.
	NewToken func() (string, error)
}

// EnsureShareToken returns the record's share token, issuing one on first
// use. Repeated calls return the same token. Crisis records are never
// shareable.
//
// Issuance is a conditional write that only succeeds while the record has no
// token. A caller that loses a concurrent race re-reads the record and
// returns the winner's token.
func (s *ShareService) EnsureShareToken(ctx context.Context, caller Caller, id string) (string, error) {
	tr := otel.Tracer("services/ShareService")
	ctx, span := tr.Start(ctx, "EnsureShareToken", trace.WithAttributes(attribute.String("record.id", id)))
	defer span.End()

	rec, err := s.Store.Get(ctx, id)
	if err != nil {
		return "", mapStoreErr(err)
	}
	if !rec.OwnedBy(caller.UserID) {
		return "", ErrNotFound
	}
	if rec.Crisis {
		return "", ErrShareForbidden
	}
	if rec.ShareToken != nil {
		return *rec.ShareToken, nil
	}

	newToken := s.NewToken
	if newToken == nil {
		newToken = NewShareToken
	}
	token, err := newToken()
	if err != nil {
		return "", err
	}

	won, err := s.Store.SetShareTokenIfEmpty(ctx, id, token)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("%w: %w", ErrDBFailed, err)
	}
	if won {
		observability.ShareTokensIssued.Inc()
		zerolog.Ctx(ctx).Info().Str("record_id", id).Msg("share token issued")
		return token, nil
	}

	rec, err = s.Store.Get(ctx, id)
	if err != nil {
		return "", mapStoreErr(err)
	}
	if rec.ShareToken == nil {
		return "", fmt.Errorf("%w: share token not persisted", ErrDBFailed)
	}
	return *rec.ShareToken, nil
}

// View returns the public projection of the record holding token.
func (s *ShareService) View(ctx context.Context, token string) (*SharedView, error) {
	tr := otel.Tracer("services/ShareService")
	ctx, span := tr.Start(ctx, "View")
	defer span.End()

	if token == "" {
		return nil, ErrNotFound
	}
	rec, err := s.Store.GetByShareToken(ctx, token)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if rec.Crisis {
		return nil, ErrShareForbidden
	}
	return &SharedView{
		ID:              rec.ID,
		Emotion:         rec.Emotion,
		Energy:          rec.Energy,
		CoreReason:      rec.CoreReason,
		NextAction:      rec.NextAction,
		ForbiddenPhrase: rec.ForbiddenPhrase,
		CreatedAt:       rec.CreatedAt,
	}, nil
}
