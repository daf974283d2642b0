package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func burstRouter(bl *BurstLimiter, pre ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(pre...)
	r.Use(bl.Handler())
	r.POST("/mood-rx", func(c *gin.Context) { c.Status(http.StatusCreated) })
	return r
}

func postFrom(r http.Handler, ip string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/mood-rx", nil)
	req.Header.Set("X-Forwarded-For", ip)
	r.ServeHTTP(w, req)
	return w
}

func TestBurstLimiter_AllowsBurstThenRejects(t *testing.T) {
	bl := NewBurstLimiter(0.5, 2, nil)
	r := burstRouter(bl)

	for i := 0; i < 2; i++ {
		if w := postFrom(r, "198.51.100.1"); w.Code != http.StatusCreated {
			t.Fatalf("request %d: %d", i, w.Code)
		}
	}
	w := postFrom(r, "198.51.100.1")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("third request: %d", w.Code)
	}
	if code := errorCode(t, w.Body.Bytes()); code != "rate_limited" {
		t.Fatalf("code = %q", code)
	}
	if got := w.Header().Get("Retry-After"); got != "2" {
		t.Fatalf("Retry-After = %q; want 2", got)
	}

	// Other callers have their own bucket.
	if w := postFrom(r, "198.51.100.2"); w.Code != http.StatusCreated {
		t.Fatalf("second ip: %d", w.Code)
	}
}

func TestBurstLimiter_RetryAfterFloorsAtOneSecond(t *testing.T) {
	bl := NewBurstLimiter(10, 0, nil)
	r := burstRouter(bl)

	postFrom(r, "198.51.100.3")
	w := postFrom(r, "198.51.100.3")
	if w.Code != http.StatusTooManyRequests || w.Header().Get("Retry-After") != "1" {
		t.Fatalf("code=%d retry=%q", w.Code, w.Header().Get("Retry-After"))
	}
}

func TestBurstLimiter_KeysByUserWhenAuthenticated(t *testing.T) {
	bl := NewBurstLimiter(0.1, 1, nil)
	asUser := func(c *gin.Context) {
		if uid := c.GetHeader(HeaderUserID); uid != "" {
			c.Set(userIDKey, uid)
		}
		c.Next()
	}
	r := burstRouter(bl, asUser)

	send := func(uid string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/mood-rx", nil)
		req.Header.Set("X-Forwarded-For", "198.51.100.4")
		req.Header.Set(HeaderUserID, uid)
		r.ServeHTTP(w, req)
		return w.Code
	}
	if send("alice") != http.StatusCreated || send("bob") != http.StatusCreated {
		t.Fatalf("distinct users on one ip should each get a bucket")
	}
	if send("alice") != http.StatusTooManyRequests {
		t.Fatalf("alice should be limited")
	}
}

func TestBurstLimiter_ReplayBypassesBucket(t *testing.T) {
	bl := NewBurstLimiter(0.1, 1, nil)
	bypass := func(c *gin.Context) {
		if c.GetHeader("X-Test-Replay") != "" {
			c.Set(ctxKeyRateBypass, true)
		}
		c.Next()
	}
	r := burstRouter(bl, bypass)

	postFrom(r, "198.51.100.5")
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/mood-rx", nil)
		req.Header.Set("X-Forwarded-For", "198.51.100.5")
		req.Header.Set("X-Test-Replay", "1")
		r.ServeHTTP(w, req)
		if w.Code != http.StatusCreated {
			t.Fatalf("replay %d: %d", i, w.Code)
		}
	}
}

func TestBurstLimiter_EvictsIdleBuckets(t *testing.T) {
	bl := NewBurstLimiter(1, 1, func(c *gin.Context) string { return c.GetHeader("X-Key") })
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	bl.now = func() time.Time { return now }
	bl.gcEvery = 3

	for i := 0; i < 2; i++ {
		bl.bucket(fmt.Sprintf("k%d", i))
	}
	if bl.size() != 2 {
		t.Fatalf("size = %d", bl.size())
	}

	now = now.Add(bl.ttl)
	bl.bucket("fresh")
	if bl.size() != 1 {
		t.Fatalf("idle buckets not evicted, size = %d", bl.size())
	}
}
