package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/mood-rx-backend/internal/ratelimit"
)

func TestClientIP_Fallbacks(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name   string
		remote string
		hdr    map[string]string
		want   string
	}{
		{"forwarded first hop", "192.0.2.1:1234", map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}, "203.0.113.7"},
		{"real ip", "192.0.2.1:1234", map[string]string{"X-Real-IP": "203.0.113.8"}, "203.0.113.8"},
		{"socket peer", "192.0.2.1:1234", nil, "192.0.2.1"},
		{"no peer", "", nil, ratelimit.LoopbackIP},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest("GET", "/api/v1/mood-rx", nil)
			c.Request.RemoteAddr = tc.remote
			for k, v := range tc.hdr {
				c.Request.Header.Set(k, v)
			}
			if got := ClientIP(c); got != tc.want {
				t.Fatalf("ClientIP = %q; want %q", got, tc.want)
			}
			if got := Identity(c); got != ratelimit.Key(tc.want, false) {
				t.Fatalf("Identity = %q", got)
			}
		})
	}

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if got := ClientIP(c); got != ratelimit.LoopbackIP {
		t.Fatalf("nil request ClientIP = %q", got)
	}
}
