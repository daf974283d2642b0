// Share HTTP handlers.
//
//   - POST /mood-rx/{id}/share   (issue or return the record's share token)
//   - GET  /share/{token}        (public read-only view)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/mood-rx-backend/internal/services"
)

// ShareResponse carries the record's share token.
type ShareResponse struct {
	ShareToken string `json:"share_token" example:"Xk3_9aQpLm2Z"`
}

// SharePrescription godoc
// @ID          sharePrescription
// @Summary     Create a share link
// @Description Returns the record's share token, issuing one on first call. Crisis records can never be shared.
// @Tags        Share
// @Produce     json
//
// @Param       Authorization  header  string  false "Bearer token"
// @Param       id             path    string  true  "Record ID (UUID)"  format(uuid)
//
// @Success     200  {object}  handlers.SuccessResponse{data=handlers.ShareResponse}
// @Failure     403  {object}  handlers.ErrorResponse  "Crisis record"
// @Failure     404  {object}  handlers.ErrorResponse  "Not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Storage failure"
// @Router      /mood-rx/{id}/share [post]
func (h *Handlers) SharePrescription(c *gin.Context) {
	token, err := h.shareSvc.EnsureShareToken(c.Request.Context(), callerFrom(c), c.Param("id"))
	if err != nil {
		failErr(c, err, failureOverrides{dbMsg: msgShareFailed})
		return
	}
	ok(c, http.StatusOK, ShareResponse{ShareToken: token})
}

// ViewShared godoc
// @ID          viewShared
// @Summary     View a shared prescription
// @Description Public view by token. The situation text and owner are never included.
// @Tags        Share
// @Produce     json
//
// @Param       token  path  string  true  "Share token"
//
// @Success     200  {object}  handlers.SuccessResponse{data=services.SharedView}
// @Failure     403  {object}  handlers.ErrorResponse  "Crisis record"
// @Failure     404  {object}  handlers.ErrorResponse  "Unknown token"
// @Router      /share/{token} [get]
func (h *Handlers) ViewShared(c *gin.Context) {
	view, err := h.shareSvc.View(c.Request.Context(), c.Param("token"))
	if err != nil {
		failErr(c, err, failureOverrides{notFoundMsg: msgShareNotFound})
		return
	}
	ok(c, http.StatusOK, view)
}

var _ ShareService = (*services.ShareService)(nil)
var _ PrescriptionService = (*services.PrescriptionService)(nil)
