// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// Codes are stable, lowercase snake_case strings that clients branch on. Every
// failure response carries one of them together with a Korean message that is
// safe to show to end users.
//
// Example response:
//
//	{
//	  "ok": false,
//	  "error": {"code": "not_found", "message": "처방전을 찾을 수 없습니다."},
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6"
//	}
package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/mood-rx-backend/internal/services"
	"github.com/tbourn/mood-rx-backend/internal/validation"
)

const (
	ErrCodeInvalidInput = "invalid_input"
	ErrCodeUnauthorized = "unauthorized"
	ErrCodeForbidden    = "forbidden"
	ErrCodeNotFound     = "not_found"
	ErrCodeRateLimited  = "rate_limited"
	ErrCodeAIFailed     = "ai_failed"
	ErrCodeImageFailed  = "image_failed"
	ErrCodeDBFailed     = "db_failed"
	ErrCodeUnknown      = "unknown"
)

// User-facing messages.
const (
	msgInvalidInput   = "입력이 올바르지 않습니다."
	msgInvalidJSON    = "요청 본문이 올바른 JSON이 아닙니다."
	msgUnauthorized   = "로그인이 필요합니다."
	msgNotFound       = "처방전을 찾을 수 없습니다."
	msgShareNotFound  = "공유된 처방전을 찾을 수 없습니다."
	msgShareForbidden = "이 처방전은 공유할 수 없습니다."
	msgRateLimited    = "일일 사용 한도(%d회)를 초과했습니다. 내일 다시 시도해주세요."
	msgAIFailed       = "AI 처리 중 오류가 발생했습니다. 다시 시도해주세요."
	msgDBFailed       = "DB 저장에 실패했습니다."
	msgDeleteFailed   = "삭제에 실패했습니다."
	msgVaultFailed    = "보관함을 불러올 수 없습니다."
	msgShareFailed    = "공유 링크 생성에 실패했습니다."
	msgUnknown        = "예상치 못한 오류가 발생했습니다."
	msgRouteNotFound  = "요청한 경로를 찾을 수 없습니다."
)

// failure is the resolved HTTP answer for a service error.
type failure struct {
	status int
	code   string
	msg    string
}

// notFoundMsg, dbMsg override the defaults per endpoint.
type failureOverrides struct {
	notFoundMsg string
	dbMsg       string
}

// classify maps a service error onto status, code and message.
func classify(err error, o failureOverrides) failure {
	var verr *validation.Error
	var rl *services.RateLimitedError

	switch {
	case errors.Is(err, services.ErrAIFailed):
		return failure{http.StatusBadGateway, ErrCodeAIFailed, msgAIFailed}
	case errors.As(err, &verr):
		msg := verr.Message
		if msg == "" {
			msg = msgInvalidInput
		}
		return failure{http.StatusBadRequest, ErrCodeInvalidInput, msg}
	case errors.As(err, &rl):
		return failure{http.StatusTooManyRequests, ErrCodeRateLimited, fmt.Sprintf(msgRateLimited, rl.Limit)}
	case errors.Is(err, services.ErrUnauthorized):
		return failure{http.StatusUnauthorized, ErrCodeUnauthorized, msgUnauthorized}
	case errors.Is(err, services.ErrShareForbidden):
		return failure{http.StatusForbidden, ErrCodeForbidden, msgShareForbidden}
	case errors.Is(err, services.ErrNotFound):
		msg := o.notFoundMsg
		if msg == "" {
			msg = msgNotFound
		}
		return failure{http.StatusNotFound, ErrCodeNotFound, msg}
	case errors.Is(err, services.ErrDBFailed):
		msg := o.dbMsg
		if msg == "" {
			msg = msgDBFailed
		}
		return failure{http.StatusInternalServerError, ErrCodeDBFailed, msg}
	default:
		return failure{http.StatusInternalServerError, ErrCodeUnknown, msgUnknown}
	}
}

// failErr writes the envelope for err. 5xx causes are logged by fail.
func failErr(c *gin.Context, err error, o failureOverrides) {
	f := classify(err, o)
	if f.status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	fail(c, f.status, f.code, f.msg)
}
