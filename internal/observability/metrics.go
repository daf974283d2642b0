package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// AI call outcomes recorded on AICalls.
const (
	OutcomeOK        = "ok"
	OutcomeRetried   = "retried"
	OutcomeTimeout   = "timeout"
	OutcomeMalformed = "malformed"
	OutcomeCrisis    = "crisis_signal"
	OutcomeInvalid   = "invalid"
	OutcomeError     = "error"
)

var (
	// CrisisDetected counts requests stopped by the keyword gate.
	CrisisDetected = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "moodrx_crisis_detected_total",
		Help: "Creation requests blocked by the crisis keyword gate.",
	})

	// AICalls counts generator attempts by outcome.
	AICalls = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "moodrx_ai_calls_total",
		Help: "Generator attempts by outcome.",
	}, []string{"outcome"})

	// RateLimitDecisions counts daily quota decisions.
	RateLimitDecisions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "moodrx_ratelimit_decisions_total",
		Help: "Daily quota decisions (allowed|denied).",
	}, []string{"decision"})

	// RateLimitStoreErrors counts limiter failures that were let through.
	RateLimitStoreErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "moodrx_ratelimit_store_errors_total",
		Help: "Quota store failures; the request proceeded (fail-open).",
	})

	// ShareTokensIssued counts newly minted share tokens.
	ShareTokensIssued = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "moodrx_share_tokens_issued_total",
		Help: "Share tokens minted (existing tokens returned are not counted).",
	})
)

func init() {
	prometheus.MustRegister(CrisisDetected, AICalls, RateLimitDecisions, RateLimitStoreErrors, ShareTokensIssued)
}
