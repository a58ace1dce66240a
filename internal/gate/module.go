// Package gate provides the passphrase gate module.
package gate

import (
	"solar21_precheck/internal/gate/handler"
	"solar21_precheck/internal/gate/service"
	apphttp "solar21_precheck/internal/http"
	"solar21_precheck/platform/config"
	"solar21_precheck/platform/logger"
	"solar21_precheck/platform/validator"
)

// Module is the gate module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates the gate module.
func NewModule(cfg config.GateConfig, val *validator.Validator, log *logger.Logger) (*Module, error) {
	svc, err := service.New(cfg, log)
	if err != nil {
		return nil, err
	}
	if !svc.Enabled() {
		log.Warn("no gate passphrase configured; admin routes are disabled")
	}
	return &Module{handler: handler.New(svc, val), service: svc}, nil
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "gate"
}

// RegisterRoutes mounts the unlock route behind the gate rate limiter.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.POST("/gate/unlock", ctx.GateRateLimiter.RateLimit(), m.handler.Unlock)
}

var _ apphttp.Module = (*Module)(nil)
