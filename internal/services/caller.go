package services

import "github.com/tbourn/mood-rx-backend/internal/ratelimit"

// Caller identifies who issued a request. UserID is empty for anonymous
// callers, who are tracked by IP instead.
type Caller struct {
	UserID string
	IP     string
}

// Authenticated reports whether the caller carries a user id.
func (c Caller) Authenticated() bool { return c.UserID != "" }

// Identifier is the raw quota identifier: the user id or the client IP.
func (c Caller) Identifier() string {
	if c.Authenticated() {
		return c.UserID
	}
	if c.IP == "" {
		return ratelimit.LoopbackIP
	}
	return c.IP
}

// Identity is the namespaced key ("user:<id>" or "ip:<addr>") used for quota
// counters and idempotency records.
func (c Caller) Identity() string {
	return ratelimit.Key(c.Identifier(), c.Authenticated())
}

func (c Caller) ownerPtr() *string {
	if !c.Authenticated() {
		return nil
	}
	id := c.UserID
	return &id
}
