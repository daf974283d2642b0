package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestDomainCounters_Increment(t *testing.T) {
	before := testutil.ToFloat64(CrisisDetected)
	CrisisDetected.Inc()
	if got := testutil.ToFloat64(CrisisDetected); got != before+1 {
		t.Fatalf("crisis counter = %v; want %v", got, before+1)
	}

	ok := AICalls.WithLabelValues(OutcomeOK)
	b := testutil.ToFloat64(ok)
	ok.Inc()
	if testutil.ToFloat64(ok) != b+1 {
		t.Fatalf("ai_calls{ok} did not increment")
	}

	RateLimitDecisions.WithLabelValues("denied").Inc()
	if n := testutil.CollectAndCount(RateLimitDecisions); n < 1 {
		t.Fatalf("expected at least one decision series, got %d", n)
	}
}
