// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file holds the small context accessors shared by the middleware and
// the handlers: caller identity and the failure envelope written when a
// middleware aborts a request.
package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/tbourn/mood-rx-backend/internal/ratelimit"
)

// userIDKey is the Gin context key under which Auth stores the caller id.
const userIDKey = "userID"

// UserID returns the authenticated user id, or "" for anonymous callers.
func UserID(c *gin.Context) string {
	if v, ok := c.Get(userIDKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// ClientIP resolves the caller address from forwarding headers (first
// X-Forwarded-For entry, then X-Real-IP). Without either header the socket
// peer address is used.
func ClientIP(c *gin.Context) string {
	if c.Request == nil {
		return ratelimit.LoopbackIP
	}
	h := c.Request.Header
	if h.Get("X-Forwarded-For") != "" || h.Get("X-Real-IP") != "" {
		return ratelimit.ClientIP(h)
	}
	if ip := c.RemoteIP(); ip != "" {
		return ip
	}
	return ratelimit.LoopbackIP
}

// Identity returns the namespaced caller key ("user:<id>" or "ip:<addr>").
func Identity(c *gin.Context) string {
	if uid := UserID(c); uid != "" {
		return ratelimit.Key(uid, true)
	}
	return ratelimit.Key(ClientIP(c), false)
}

// RequestIDFrom returns the correlation id assigned by RequestID.
func RequestIDFrom(c *gin.Context) string {
	if v, ok := c.Get(requestIDKey); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return c.Writer.Header().Get(requestIDHeader)
}

// abortWithError writes the failure envelope used across the API:
//
//	{"ok": false, "error": {"code": "...", "message": "..."}, "request_id": "..."}
func abortWithError(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, gin.H{
		"ok": false,
		"error": gin.H{
			"code":    code,
			"message": msg,
		},
		"request_id": RequestIDFrom(c),
	})
}
