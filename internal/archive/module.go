// Package archive provides the config snapshot archive module. When MinIO is
// configured every saved catalog and weight document is copied to a bucket.
package archive

import (
	"context"
	"fmt"

	"solar21_precheck/internal/adapters/storage"
	"solar21_precheck/internal/archive/handler"
	"solar21_precheck/internal/archive/service"
	"solar21_precheck/internal/events"
	apphttp "solar21_precheck/internal/http"
	"solar21_precheck/platform/config"
	"solar21_precheck/platform/logger"
	"solar21_precheck/platform/validator"
)

// Module is the archive module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule connects to MinIO, makes sure the bucket exists and subscribes
// the archive to save events.
func NewModule(ctx context.Context, cfg config.ArchiveConfig, bus events.Bus, val *validator.Validator, log *logger.Logger) (*Module, error) {
	store, err := storage.NewMinIOService(cfg)
	if err != nil {
		return nil, err
	}
	bucket := cfg.GetMinioBucketConfigArchive()
	if err := store.EnsureBucketExists(ctx, bucket); err != nil {
		return nil, fmt.Errorf("archive bucket: %w", err)
	}

	svc := service.New(store, bucket, log)
	svc.Subscribe(bus)
	log.Info("config archive enabled", "bucket", bucket)

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}, nil
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "archive"
}

// RegisterRoutes mounts archive routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Admin.GET("/archive/:kind", m.handler.List)
}

var _ apphttp.Module = (*Module)(nil)
