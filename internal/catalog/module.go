// Package catalog provides the question catalog bounded context module.
package catalog

import (
	"solar21_precheck/internal/catalog/handler"
	"solar21_precheck/internal/catalog/repository"
	"solar21_precheck/internal/catalog/service"
	"solar21_precheck/internal/events"
	apphttp "solar21_precheck/internal/http"
	"solar21_precheck/platform/logger"
	"solar21_precheck/platform/validator"
)

// Module is the catalog bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the catalog module.
func NewModule(repo repository.Repository, weights service.WeightsUpdater, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(repo, weights, bus, log)
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "catalog"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for direct access if needed.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts catalog routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/catalog/questions", m.handler.ListQuestions)
	ctx.V1.GET("/catalog/questions/:id", m.handler.GetQuestion)

	adminGroup := ctx.Admin.Group("/catalog/questions")
	adminGroup.POST("", m.handler.CreateQuestion)
	adminGroup.POST("/validate", m.handler.ValidateQuestion)
	adminGroup.PUT("/:id", m.handler.UpdateQuestion)
	adminGroup.DELETE("/:id", m.handler.DeleteQuestion)
}

var _ apphttp.Module = (*Module)(nil)
