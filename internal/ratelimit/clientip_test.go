package ratelimit

import (
	"net/http"
	"testing"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name string
		hdr  map[string]string
		want string
	}{
		{"forwarded first entry", map[string]string{"X-Forwarded-For": " 203.0.113.7 , 10.0.0.1"}, "203.0.113.7"},
		{"forwarded single", map[string]string{"X-Forwarded-For": "198.51.100.2"}, "198.51.100.2"},
		{"forwarded wins over real ip", map[string]string{"X-Forwarded-For": "1.1.1.1", "X-Real-IP": "2.2.2.2"}, "1.1.1.1"},
		{"real ip", map[string]string{"X-Real-IP": " 2.2.2.2 "}, "2.2.2.2"},
		{"empty forwarded entry falls through", map[string]string{"X-Forwarded-For": " ,1.1.1.1", "X-Real-IP": "2.2.2.2"}, "2.2.2.2"},
		{"fallback", nil, LoopbackIP},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := http.Header{}
			for k, v := range tc.hdr {
				h.Set(k, v)
			}
			if got := ClientIP(h); got != tc.want {
				t.Fatalf("ClientIP = %q; want %q", got, tc.want)
			}
		})
	}
}
