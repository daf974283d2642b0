// Package utils holds small helpers shared by the transport and service
// layers. Nothing here knows about prescriptions.
package utils

import "strconv"

// Vault page bounds.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// AtoiDefault parses s, returning def when s is empty or not an integer.
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

// ClampPage raises page to at least 1 and bounds size to [1, MaxPageSize].
func ClampPage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 1
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return page, size
}

// Offset converts a clamped page/size pair into a row offset.
func Offset(page, size int) int {
	return (page - 1) * size
}
