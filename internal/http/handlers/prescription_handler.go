// Prescription HTTP handlers.
//
// This file exposes the journaling endpoints:
//   - POST   /mood-rx              (create; crisis input gets the safety message)
//   - GET    /mood-rx/{id}         (fetch one record)
//   - DELETE /mood-rx/{id}         (delete, owner only)
//   - GET    /vault                (owner's records, paginated, ETag support)
//
// Handlers are transport-thin: they decode input, resolve the caller from the
// auth middleware, call the services and translate results and errors into
// the standard envelopes.
package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/mood-rx-backend/internal/domain"
	"github.com/tbourn/mood-rx-backend/internal/http/middleware"
	"github.com/tbourn/mood-rx-backend/internal/services"
	"github.com/tbourn/mood-rx-backend/internal/utils"
	"github.com/tbourn/mood-rx-backend/internal/validation"
)

//
// Service contracts (context-aware)
//

// PrescriptionService is the creation pipeline and owner-scoped access.
type PrescriptionService interface {
	CreateIdempotent(ctx context.Context, caller services.Caller, key string, req validation.CreateRequest) (*services.CreateResult, error)
	Get(ctx context.Context, caller services.Caller, id string) (*domain.Prescription, error)
	Delete(ctx context.Context, caller services.Caller, id string) error
	ListVault(ctx context.Context, caller services.Caller, page, pageSize int) ([]domain.Prescription, int64, error)
	VaultStats(ctx context.Context, caller services.Caller) (int64, *time.Time, error)
}

// ShareService issues share tokens and resolves public views.
type ShareService interface {
	EnsureShareToken(ctx context.Context, caller services.Caller, id string) (string, error)
	View(ctx context.Context, token string) (*services.SharedView, error)
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints. It depends on service interfaces only.
type Handlers struct {
	rxSvc    PrescriptionService
	shareSvc ShareService
}

// New constructs Handlers bound to the given services.
func New(rxSvc PrescriptionService, shareSvc ShareService) *Handlers {
	return &Handlers{rxSvc: rxSvc, shareSvc: shareSvc}
}

// callerFrom builds the service caller from what Auth resolved.
func callerFrom(c *gin.Context) services.Caller {
	return services.Caller{UserID: middleware.UserID(c), IP: middleware.ClientIP(c)}
}

//
// DTOs
//

// CreateRequest is the JSON payload for a new prescription.
type CreateRequest struct {
	// Situation is 10 to 240 characters after trimming.
	Situation *string `json:"situation" example:"팀장님 앞에서 발표하다가 말이 꼬여서 하루 종일 신경 쓰여요"`
	// Emotion is one of anxious, angry, sad, tired, confused.
	Emotion *string `json:"emotion" example:"anxious"`
	// Energy is an integer from 1 to 5.
	Energy *float64 `json:"energy" example:"2"`
}

// CreateResponse is the data of a successful creation. Ordinary records carry
// Result; crisis records carry the safety fields instead.
type CreateResponse struct {
	ID     string                     `json:"id" example:"141add05-4415-4938-b5a1-17e0d3171aff"`
	Crisis bool                       `json:"crisis"`
	Result *domain.PrescriptionResult `json:"result,omitempty"`
	// CardImageURL is always null; card rendering happens elsewhere.
	CardImageURL  *string `json:"card_image_url"`
	SafetyTitle   string  `json:"safety_title,omitempty"`
	SafetyMessage string  `json:"safety_message,omitempty"`
	NextStep      string  `json:"next_step,omitempty"`
}

// DeleteResponse confirms a deletion.
type DeleteResponse struct {
	Deleted bool `json:"deleted" example:"true"`
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// VaultResponse wraps a page of the owner's records.
type VaultResponse struct {
	Items      []domain.Prescription `json:"items"`
	Pagination Pagination            `json:"pagination"`
}

//
// Helpers
//

// clampPagination parses and bounds page and page_size query params.
func clampPagination(c *gin.Context) (page, pageSize int) {
	return utils.ClampPage(
		utils.AtoiDefault(c.Query("page"), 1),
		utils.AtoiDefault(c.Query("page_size"), utils.DefaultPageSize),
	)
}

func toCreateResponse(res *services.CreateResult) CreateResponse {
	out := CreateResponse{ID: res.Record.ID, Crisis: res.Record.Crisis}
	if res.Safety != nil {
		out.Crisis = true
		out.SafetyTitle = res.Safety.Title
		out.SafetyMessage = res.Safety.Body
		out.NextStep = res.Safety.NextStep
		return out
	}
	r := res.Record.Result()
	out.Result = &r
	return out
}

//
// Handlers
//

// CreatePrescription godoc
// @ID          createPrescription
// @Summary     Create a prescription
// @Description Validates the situation, screens it for crisis language and, when safe, generates a three-line prescription. Crisis input is stored as a blocked record and answered with a safety message. Anonymous callers get 5 requests per day, signed-in callers 10.
// @Tags        Prescriptions
// @Accept      json
// @Produce     json
//
// @Param       Authorization    header  string  false "Bearer token"
// @Param       Idempotency-Key  header  string  false "Replays the earlier result for the same key"  example(7a8d9f4c-1b2a-4c3d-8e9f-0123456789ab)
// @Param       body             body    handlers.CreateRequest  true  "Situation, emotion and energy"
//
// @Success     201  {object}  handlers.SuccessResponse{data=handlers.CreateResponse}
// @Header      201  {string}  X-RateLimit-Remaining  "Requests left today"
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid input"
// @Failure     429  {object}  handlers.ErrorResponse  "Daily limit reached"
// @Failure     502  {object}  handlers.ErrorResponse  "Generation failed"
// @Failure     500  {object}  handlers.ErrorResponse  "Storage failure"
// @Router      /mood-rx [post]
func (h *Handlers) CreatePrescription(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeInvalidInput, msgInvalidJSON)
		return
	}

	key, _ := middleware.GetIdempotencyKey(c)
	res, err := h.rxSvc.CreateIdempotent(c.Request.Context(), callerFrom(c), key, validation.CreateRequest{
		Situation: req.Situation,
		Emotion:   req.Emotion,
		Energy:    req.Energy,
	})
	if err != nil {
		failErr(c, err, failureOverrides{})
		return
	}

	if res.Replayed {
		c.Header("Idempotency-Replayed", "true")
	}
	if d := res.Decision; d != nil {
		c.Header("X-RateLimit-Limit", strconv.Itoa(d.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
	}
	ok(c, http.StatusCreated, toCreateResponse(res))
}

// GetPrescription godoc
// @ID          getPrescription
// @Summary     Fetch a prescription
// @Description Signed-in callers see their own records; anonymous callers only see anonymous records.
// @Tags        Prescriptions
// @Produce     json
//
// @Param       Authorization  header  string  false "Bearer token"
// @Param       id             path    string  true  "Record ID (UUID)"  format(uuid)
//
// @Success     200  {object}  handlers.SuccessResponse{data=domain.Prescription}
// @Failure     404  {object}  handlers.ErrorResponse  "Not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Storage failure"
// @Router      /mood-rx/{id} [get]
func (h *Handlers) GetPrescription(c *gin.Context) {
	rec, err := h.rxSvc.Get(c.Request.Context(), callerFrom(c), c.Param("id"))
	if err != nil {
		failErr(c, err, failureOverrides{})
		return
	}
	ok(c, http.StatusOK, rec)
}

// DeletePrescription godoc
// @ID          deletePrescription
// @Summary     Delete a prescription
// @Description Removes one of the signed-in caller's records.
// @Tags        Prescriptions
// @Produce     json
//
// @Param       Authorization  header  string  true  "Bearer token"
// @Param       id             path    string  true  "Record ID (UUID)"  format(uuid)
//
// @Success     200  {object}  handlers.SuccessResponse{data=handlers.DeleteResponse}
// @Failure     401  {object}  handlers.ErrorResponse  "Not signed in"
// @Failure     404  {object}  handlers.ErrorResponse  "Not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Storage failure"
// @Router      /mood-rx/{id} [delete]
func (h *Handlers) DeletePrescription(c *gin.Context) {
	if err := h.rxSvc.Delete(c.Request.Context(), callerFrom(c), c.Param("id")); err != nil {
		failErr(c, err, failureOverrides{dbMsg: msgDeleteFailed})
		return
	}
	ok(c, http.StatusOK, DeleteResponse{Deleted: true})
}

// ListVault godoc
// @ID          listVault
// @Summary     List the caller's prescriptions (paginated)
// @Description Returns the signed-in caller's records, newest first. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Vault
// @Produce     json
//
// @Param       Authorization  header  string  true  "Bearer token"
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"  example(W/\"vault:user-1:3:1735689600000000000:1:20\")
// @Param       page           query   int     false "Page number"     minimum(1) default(1)
// @Param       page_size      query   int     false "Items per page"  minimum(1) maximum(100) default(20)
//
// @Success     200  {object}  handlers.SuccessResponse{data=handlers.VaultResponse}
// @Header      200  {string}  ETag  "Weak ETag for current result"
// @Success     304  {string}  string  "Not Modified"
// @Failure     401  {object}  handlers.ErrorResponse  "Not signed in"
// @Failure     500  {object}  handlers.ErrorResponse  "Storage failure"
// @Router      /vault [get]
func (h *Handlers) ListVault(c *gin.Context) {
	ctx := c.Request.Context()
	caller := callerFrom(c)
	page, pageSize := clampPagination(c)
	overrides := failureOverrides{dbMsg: msgVaultFailed}

	// ETag pre-check. The page is part of the tag so pages do not collide.
	count, newest, err := h.rxSvc.VaultStats(ctx, caller)
	if err != nil {
		failErr(c, err, overrides)
		return
	}
	var ts int64
	if newest != nil {
		ts = newest.UnixNano()
	}
	etag := fmt.Sprintf(`W/"vault:%s:%d:%d:%d:%d"`, caller.UserID, count, ts, page, pageSize)
	c.Header("ETag", etag)
	if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
		c.Status(http.StatusNotModified)
		return
	}

	items, total, err := h.rxSvc.ListVault(ctx, caller, page, pageSize)
	if err != nil {
		failErr(c, err, overrides)
		return
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	ok(c, http.StatusOK, VaultResponse{
		Items: items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	})
}
