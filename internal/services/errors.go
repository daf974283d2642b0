// Package services implements the mood-rx business logic: the creation
// pipeline, record access for owners, and share-token issuance.
// This file centralizes the service-level error values so that they can be
// consistently returned by service methods and checked by callers.
//
// Translation into user-facing messages or HTTP status codes is performed at
// the handler layer.
package services

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates that the record does not exist or is not visible
	// to the caller.
	ErrNotFound = errors.New("prescription not found")

	// ErrUnauthorized is returned by operations that need an authenticated
	// caller.
	ErrUnauthorized = errors.New("authentication required")

	// ErrShareForbidden is returned for any share attempt on a crisis record.
	ErrShareForbidden = errors.New("crisis records cannot be shared")

	// ErrAIFailed wraps every generation failure that survived the retry.
	ErrAIFailed = errors.New("prescription generation failed")

	// ErrDBFailed wraps persistence failures.
	ErrDBFailed = errors.New("storage failure")
)

// RateLimitedError reports an exhausted daily quota.
type RateLimitedError struct {
	Limit int
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("daily limit of %d requests reached", e.Limit)
}
