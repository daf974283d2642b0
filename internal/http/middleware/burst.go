// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements an in-process token-bucket limiter keyed by caller.
// It smooths request bursts before they reach the handlers and is separate
// from the daily prescription quota, which lives in the service layer and
// persists across restarts.
//
// Buckets are process-local and idle ones are evicted opportunistically.
// Idempotent replays skip the bucket.
package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// KeyFunc maps a request to a bucket identity.
type KeyFunc func(*gin.Context) string

// KeyByCaller keys buckets by user id when authenticated, else by client IP.
func KeyByCaller() KeyFunc { return Identity }

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// BurstLimiter is a per-key token-bucket limiter, safe for concurrent use.
type BurstLimiter struct {
	rps   rate.Limit
	burst int
	keyFn KeyFunc

	mu       sync.Mutex
	visitors map[string]*visitor
	ttl      time.Duration
	lookups  uint64
	gcEvery  uint64
	now      func() time.Time
}

// NewBurstLimiter returns a limiter refilling rps tokens per second up to
// burst. A burst <= 0 is coerced to 1.
func NewBurstLimiter(rps float64, burst int, keyFn KeyFunc) *BurstLimiter {
	if burst <= 0 {
		burst = 1
	}
	if keyFn == nil {
		keyFn = KeyByCaller()
	}
	return &BurstLimiter{
		rps:      rate.Limit(rps),
		burst:    burst,
		keyFn:    keyFn,
		visitors: make(map[string]*visitor),
		ttl:      10 * time.Minute,
		gcEvery:  5000,
		now:      time.Now,
	}
}

// bucket returns the limiter for key, evicting idle buckets every gcEvery
// lookups before touching the requested one.
func (bl *BurstLimiter) bucket(key string) *rate.Limiter {
	now := bl.now()

	bl.mu.Lock()
	defer bl.mu.Unlock()

	bl.lookups++
	if bl.lookups >= bl.gcEvery {
		for k, v := range bl.visitors {
			if now.Sub(v.lastSeen) >= bl.ttl {
				delete(bl.visitors, k)
			}
		}
		bl.lookups = 0
	}

	if v, ok := bl.visitors[key]; ok {
		v.lastSeen = now
		return v.limiter
	}
	lim := rate.NewLimiter(bl.rps, bl.burst)
	bl.visitors[key] = &visitor{limiter: lim, lastSeen: now}
	return lim
}

// size reports the number of live buckets.
func (bl *BurstLimiter) size() int {
	bl.mu.Lock()
	defer bl.mu.Unlock()
	return len(bl.visitors)
}

// IsRateBypass reports whether IdempotencyValidator exempted the request.
func IsRateBypass(c *gin.Context) bool {
	v, ok := c.Get(ctxKeyRateBypass)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// Handler enforces the bucket and answers 429 rate_limited with Retry-After
// when it is empty.
func (bl *BurstLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsRateBypass(c) {
			c.Next()
			return
		}
		lim := bl.bucket(bl.keyFn(c))
		if lim.Allow() {
			c.Next()
			return
		}
		retry := 1
		if bl.rps > 0 {
			if d := time.Duration(float64(time.Second) / float64(bl.rps)); d > time.Second {
				retry = int(d.Seconds() + 0.5)
			}
		}
		c.Header("Retry-After", strconv.Itoa(retry))
		abortWithError(c, http.StatusTooManyRequests, "rate_limited", "요청이 너무 많습니다. 잠시 후 다시 시도해주세요.")
	}
}
