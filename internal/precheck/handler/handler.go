package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"solar21_precheck/internal/precheck/service"
	"solar21_precheck/internal/precheck/transport"
	"solar21_precheck/platform/httpkit"
	"solar21_precheck/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler handles HTTP requests for pre-checks.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid pre-check id"
	msgInvalidIndex     = "invalid site index"
)

// New creates a new pre-check handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Create starts a pre-check.
// POST /api/v1/prechecks
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreatePrecheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.Create(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

// Get returns a pre-check.
// GET /api/v1/prechecks/:id
func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	result, err := h.svc.Get(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// SetAnswers merges answers into one site.
// PUT /api/v1/prechecks/:id/sites/:index/answers
func (h *Handler) SetAnswers(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	index, ok := parseIndex(c)
	if !ok {
		return
	}
	var req transport.SetAnswersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.SetAnswers(c.Request.Context(), id, index, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// SetRoofArea overrides the roof area of one site.
// PUT /api/v1/prechecks/:id/sites/:index/roof
func (h *Handler) SetRoofArea(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	index, ok := parseIndex(c)
	if !ok {
		return
	}
	var req transport.SetRoofAreaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.SetRoofArea(c.Request.Context(), id, index, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Results scores the pre-check.
// GET /api/v1/prechecks/:id/results
func (h *Handler) Results(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	result, err := h.svc.Results(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ExportCSV downloads the results as CSV.
// GET /api/v1/prechecks/:id/results.csv
func (h *Handler) ExportCSV(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	data, err := h.svc.ExportCSV(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.CSV(c, fmt.Sprintf("precheck-%s.csv", id), data)
}

// Score scores sites without a session.
// POST /api/v1/score
func (h *Handler) Score(c *gin.Context) {
	var req transport.ScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.Score(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return uuid.UUID{}, false
	}
	return id, true
}

func parseIndex(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidIndex, nil)
		return 0, false
	}
	return index, true
}
