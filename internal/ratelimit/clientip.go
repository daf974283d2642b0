package ratelimit

import (
	"net/http"
	"strings"
)

// LoopbackIP is returned by ClientIP when no proxy header is present.
const LoopbackIP = "127.0.0.1"

// ClientIP picks the caller address used as the anonymous quota identifier:
// the first X-Forwarded-For entry, then X-Real-IP, then LoopbackIP. The
// headers are not trusted for anything beyond keying.
func ClientIP(h http.Header) string {
	if xff := h.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if xr := strings.TrimSpace(h.Get("X-Real-IP")); xr != "" {
		return xr
	}
	return LoopbackIP
}
