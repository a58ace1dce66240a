// Package precheck provides the pre-check flow bounded context module.
package precheck

import (
	apphttp "solar21_precheck/internal/http"
	"solar21_precheck/internal/precheck/handler"
	"solar21_precheck/internal/precheck/repository"
	"solar21_precheck/internal/precheck/service"
	"solar21_precheck/platform/config"
	"solar21_precheck/platform/logger"
	"solar21_precheck/platform/validator"

	"github.com/redis/go-redis/v9"
)

// Module is the pre-check bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates the pre-check module. Sessions live in Redis when rdb is
// set and in process memory otherwise.
func NewModule(cfg config.SessionConfig, rdb *redis.Client, roofs service.RoofLookup, source service.ScoringSource, val *validator.Validator, log *logger.Logger) *Module {
	var store repository.Store
	if rdb != nil {
		store = repository.NewRedisStore(rdb, cfg.GetSessionTTL())
	} else {
		store = repository.NewMemoryStore(cfg.GetSessionTTL())
		log.Warn("precheck sessions are kept in memory; set REDIS_URL to share them between instances")
	}

	svc := service.New(store, roofs, source, log)
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "precheck"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts pre-check routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.POST("/score", m.handler.Score)

	group := ctx.V1.Group("/prechecks")
	group.POST("", ctx.LookupRateLimiter.RateLimit(), m.handler.Create)
	group.GET("/:id", m.handler.Get)
	group.PUT("/:id/sites/:index/answers", m.handler.SetAnswers)
	group.PUT("/:id/sites/:index/roof", m.handler.SetRoofArea)
	group.GET("/:id/results", m.handler.Results)
	group.GET("/:id/results.csv", m.handler.ExportCSV)
}

var _ apphttp.Module = (*Module)(nil)
