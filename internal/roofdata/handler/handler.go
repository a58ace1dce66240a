package handler

import (
	"context"
	"net/http"

	"solar21_precheck/internal/roofdata/service"
	"solar21_precheck/internal/roofdata/transport"
	"solar21_precheck/platform/apperr"
	"solar21_precheck/platform/httpkit"
	"solar21_precheck/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Prefetcher queues a background roof lookup.
type Prefetcher interface {
	EnqueueRoofPrefetch(ctx context.Context, address string) error
}

// Handler handles roof data HTTP requests.
type Handler struct {
	svc        *service.Service
	prefetcher Prefetcher
	val        *validator.Validator
}

// New creates a roof data handler. prefetcher may be nil when no worker queue is configured.
func New(svc *service.Service, prefetcher Prefetcher, val *validator.Validator) *Handler {
	return &Handler{svc: svc, prefetcher: prefetcher, val: val}
}

// Lookup resolves one address.
// GET /api/v1/roof?address=
func (h *Handler) Lookup(c *gin.Context) {
	var req transport.LookupRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	data, err := h.svc.Lookup(c.Request.Context(), req.Address)
	if err != nil {
		httpkit.HandleError(c, apperr.Wrap(apperr.KindUnavailable, "roof data provider unavailable", err))
		return
	}
	httpkit.OK(c, data)
}

// Prefetch queues background lookups for a batch of addresses.
// POST /api/v1/admin/roof/prefetch
func (h *Handler) Prefetch(c *gin.Context) {
	if h.prefetcher == nil {
		httpkit.HandleError(c, apperr.Unavailable("background queue is not configured"))
		return
	}

	var req transport.PrefetchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	queued := 0
	for _, address := range req.Addresses {
		if err := h.prefetcher.EnqueueRoofPrefetch(c.Request.Context(), address); err != nil {
			httpkit.HandleError(c, apperr.Wrap(apperr.KindUnavailable, "failed to queue prefetch", err).
				WithDetails(transport.PrefetchResponse{Queued: queued}))
			return
		}
		queued++
	}
	httpkit.JSON(c, http.StatusAccepted, transport.PrefetchResponse{Queued: queued})
}
