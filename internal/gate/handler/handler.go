package handler

import (
	"net/http"

	"solar21_precheck/internal/gate/service"
	"solar21_precheck/internal/gate/transport"
	"solar21_precheck/platform/httpkit"
	"solar21_precheck/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles passphrase gate requests.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a gate handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Unlock exchanges the passphrase for a gate token.
// POST /api/v1/gate/unlock
func (h *Handler) Unlock(c *gin.Context) {
	var req transport.UnlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.Unlock(c.Request.Context(), req.Passphrase, c.ClientIP())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}
