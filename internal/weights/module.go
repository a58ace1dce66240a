// Package weights provides the weight configuration bounded context module.
package weights

import (
	"solar21_precheck/internal/events"
	apphttp "solar21_precheck/internal/http"
	"solar21_precheck/internal/weights/handler"
	"solar21_precheck/internal/weights/repository"
	"solar21_precheck/internal/weights/service"
	"solar21_precheck/platform/docstore"
	"solar21_precheck/platform/logger"
	"solar21_precheck/platform/validator"
)

// Module is the weights bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates the weights module on top of the given document.
func NewModule(doc docstore.Document, catalogs service.CatalogLoader, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(repository.New(doc, repository.DefaultWeights()), catalogs, bus, log)
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "weights"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts weight routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/weights", m.handler.Get)
	ctx.Admin.PUT("/weights", m.handler.Save)
}

var _ apphttp.Module = (*Module)(nil)
