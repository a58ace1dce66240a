package handler

import (
	"net/http"

	"solar21_precheck/internal/catalog/service"
	"solar21_precheck/internal/catalog/transport"
	"solar21_precheck/platform/httpkit"
	"solar21_precheck/platform/validator"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for the question catalog.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// New creates a new catalog handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// ListQuestions lists questions in catalog order.
// GET /api/v1/catalog/questions
func (h *Handler) ListQuestions(c *gin.Context) {
	var req transport.ListQuestionsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.List(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// GetQuestion returns a single question.
// GET /api/v1/catalog/questions/:id
func (h *Handler) GetQuestion(c *gin.Context) {
	var req transport.GetQuestionRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.Get(c.Request.Context(), c.Param("id"), req.Lang)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// CreateQuestion appends a question.
// POST /api/v1/admin/catalog/questions
func (h *Handler) CreateQuestion(c *gin.Context) {
	var req transport.QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	result, err := h.svc.Create(c.Request.Context(), req.QuestionDefinition)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

// UpdateQuestion replaces a question in place.
// PUT /api/v1/admin/catalog/questions/:id
func (h *Handler) UpdateQuestion(c *gin.Context) {
	var req transport.QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	result, err := h.svc.Update(c.Request.Context(), c.Param("id"), req.QuestionDefinition)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// DeleteQuestion removes a question.
// DELETE /api/v1/admin/catalog/questions/:id
func (h *Handler) DeleteQuestion(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); httpkit.HandleError(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
}

// ValidateQuestion checks a definition without saving it.
// POST /api/v1/admin/catalog/questions/validate
func (h *Handler) ValidateQuestion(c *gin.Context) {
	var req transport.QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	result, err := h.svc.Validate(req.QuestionDefinition)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}
