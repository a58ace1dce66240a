package http

import (
	"solar21_precheck/platform/config"
	"solar21_precheck/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Module represents a bounded context that can register its HTTP routes.
type Module interface {
	// Name returns the module's identifier for logging purposes.
	Name() string
	// RegisterRoutes mounts the module's routes on the provided router group.
	RegisterRoutes(ctx *RouterContext)
}

// RouterContext provides shared dependencies for module route registration.
type RouterContext struct {
	Engine *gin.Engine
	// V1 is the public /api/v1 route group.
	V1 *gin.RouterGroup
	// Admin is /api/v1/admin, behind the passphrase gate.
	Admin  *gin.RouterGroup
	Config config.GateConfig
	// GateRateLimiter throttles passphrase attempts.
	GateRateLimiter *httpkit.IPRateLimiter
	// LookupRateLimiter throttles endpoints that call GeoAdmin.
	LookupRateLimiter *httpkit.IPRateLimiter
}
