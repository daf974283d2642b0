// Package handlers provides HTTP handler implementations for the public API.
//
// This file defines the response envelopes shared by every endpoint:
//
//	HTTP/1.1 200 OK
//	{"ok": true, "data": {...}}
//
//	HTTP/1.1 404 Not Found
//	{"ok": false, "error": {"code": "not_found", "message": "..."}, "request_id": "..."}
//
// fail() centralizes error formatting and logs 5xx answers with the
// request-scoped logger.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/mood-rx-backend/internal/http/middleware"
)

// ErrorBody is the inner error object.
type ErrorBody struct {
	// Stable, machine-readable code (see errors.go constants)
	Code string `json:"code" example:"not_found"`
	// Human-readable message (safe to show to users)
	Message string `json:"message" example:"처방전을 찾을 수 없습니다."`
}

// ErrorResponse is the standard failure envelope returned by all endpoints.
type ErrorResponse struct {
	OK    bool      `json:"ok" example:"false"`
	Error ErrorBody `json:"error"`
	// Correlates server logs and client errors
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
}

// SuccessResponse is the standard success envelope.
type SuccessResponse struct {
	OK   bool `json:"ok" example:"true"`
	Data any  `json:"data"`
}

// fail aborts the request with the failure envelope.
func fail(c *gin.Context, status int, code, msg string) {
	if status >= http.StatusInternalServerError {
		ev := middleware.LoggerFrom(c).Error().
			Int("status", status).
			Str("code", code)
		if len(c.Errors) > 0 {
			ev = ev.Err(c.Errors.Last().Err)
		}
		ev.Msg("api error")
	}

	c.AbortWithStatusJSON(status, ErrorResponse{
		OK:        false,
		Error:     ErrorBody{Code: code, Message: msg},
		RequestID: middleware.RequestIDFrom(c),
	})
}

// Fail is the exported variant of fail() for router-level handlers.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

// NotFound answers unknown routes and known routes hit with the wrong verb.
func NotFound(c *gin.Context) {
	fail(c, http.StatusNotFound, ErrCodeNotFound, msgRouteNotFound)
}

// ok writes data inside the success envelope.
func ok(c *gin.Context, status int, data any) {
	c.JSON(status, SuccessResponse{OK: true, Data: data})
}
