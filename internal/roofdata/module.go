package roofdata

import (
	apphttp "solar21_precheck/internal/http"
	"solar21_precheck/internal/roofdata/client"
	"solar21_precheck/internal/roofdata/handler"
	"solar21_precheck/internal/roofdata/service"
	"solar21_precheck/platform/config"
	"solar21_precheck/platform/logger"
	"solar21_precheck/platform/validator"

	"github.com/redis/go-redis/v9"
)

// Module is the roof data bounded context module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule wires the GeoAdmin client, the cache and the service. The cache is
// Redis-backed when rdb is set and in-memory otherwise. prefetcher may be nil.
func NewModule(cfg config.RoofDataConfig, rdb *redis.Client, prefetcher Prefetcher, val *validator.Validator, log *logger.Logger) *Module {
	geo := client.New(cfg.GetRoofDataBaseURL(), cfg.GetRoofDataTimeout(), cfg.GetRoofDataMaxRetries(), log)

	var cache service.Cache
	if rdb != nil {
		cache = service.NewRedisCache(rdb)
		log.Info("roof data cache: redis")
	} else {
		cache = service.NewMemoryCache()
		log.Info("roof data cache: in-memory")
	}

	svc := service.New(geo, cache, cfg.GetRoofDataCacheTTL(), log)

	var p handler.Prefetcher
	if prefetcher != nil {
		p = prefetcher
	}

	return &Module{
		handler: handler.New(svc, p, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "roofdata"
}

// Service returns the roof data service for other domains.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts roof data routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/roof", ctx.LookupRateLimiter.RateLimit(), m.handler.Lookup)
	ctx.Admin.POST("/roof/prefetch", m.handler.Prefetch)
}

var (
	_ apphttp.Module  = (*Module)(nil)
	_ RoofDataService = (*service.Service)(nil)
)
