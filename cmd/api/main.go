package main

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"solar21_precheck/internal/adapters"
	"solar21_precheck/internal/archive"
	"solar21_precheck/internal/catalog"
	catalogrepo "solar21_precheck/internal/catalog/repository"
	"solar21_precheck/internal/events"
	"solar21_precheck/internal/gate"
	apphttp "solar21_precheck/internal/http"
	"solar21_precheck/internal/http/router"
	"solar21_precheck/internal/precheck"
	"solar21_precheck/internal/roofdata"
	"solar21_precheck/internal/scheduler"
	"solar21_precheck/internal/weights"
	"solar21_precheck/platform/config"
	"solar21_precheck/platform/db"
	"solar21_precheck/platform/docstore"
	"solar21_precheck/platform/logger"
	"solar21_precheck/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr, "store", cfg.GetStoreBackend())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	var health apphttp.HealthChecker
	var catalogDoc, weightsDoc docstore.Document

	switch cfg.GetStoreBackend() {
	case config.StoreBackendPostgres:
		pool, err := connectPostgres(ctx, cfg, log)
		if err != nil {
			log.Error("failed to prepare database", "error", err)
			panic("failed to prepare database: " + err.Error())
		}
		defer pool.Close()
		health = pool
		catalogDoc = docstore.NewPostgres(pool, docstore.NameCatalog)
		weightsDoc = docstore.NewPostgres(pool, docstore.NameWeights)
	default:
		catalogDoc = docstore.NewFile(cfg.GetCatalogFile())
		weightsDoc = docstore.NewFile(cfg.GetWeightsFile())
		log.Info("document store: files", "catalog", cfg.GetCatalogFile(), "weights", cfg.GetWeightsFile())
	}

	var rdb *redis.Client
	if cfg.IsRedisEnabled() {
		rdb, err = openRedis(ctx, cfg, log)
		if err != nil {
			log.Error("failed to connect to redis", "error", err)
			panic("failed to connect to redis: " + err.Error())
		}
		defer func() { _ = rdb.Close() }()
	}

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	// The catalog repository is built first: weights read the catalog to fill
	// missing keys, and catalog edits push key changes back into weights.
	catalogRepo := catalogrepo.New(catalogDoc)
	weightsModule := weights.NewModule(weightsDoc, catalogRepo, eventBus, val, log)
	catalogModule := catalog.NewModule(catalogRepo, weightsModule.Service(), eventBus, val, log)

	var prefetcher roofdata.Prefetcher
	if cfg.IsRedisEnabled() {
		client, err := scheduler.NewClient(cfg)
		if err != nil {
			log.Error("failed to initialize task client", "error", err)
			panic("failed to initialize task client: " + err.Error())
		}
		defer func() { _ = client.Close() }()
		prefetcher = client
	}
	roofDataModule := roofdata.NewModule(cfg, rdb, prefetcher, val, log)

	// Anti-Corruption Layer: precheck only sees a catalog + weights snapshot
	scoringSource := adapters.NewScoringSnapshot(catalogModule.Service(), weightsModule.Service())
	precheckModule := precheck.NewModule(cfg, rdb, roofDataModule.Service(), scoringSource, val, log)

	gateModule, err := gate.NewModule(cfg, val, log)
	if err != nil {
		log.Error("failed to initialize gate", "error", err)
		panic("failed to initialize gate: " + err.Error())
	}

	modules := []apphttp.Module{
		gateModule,
		catalogModule,
		weightsModule,
		roofDataModule,
		precheckModule,
	}

	if cfg.IsArchiveEnabled() {
		var archiveModule *archive.Module
		if err := withRetry(ctx, log, "config archive", 5, 2*time.Second, func() error {
			m, err := archive.NewModule(ctx, cfg, eventBus, val, log)
			if err != nil {
				return err
			}
			archiveModule = m
			return nil
		}); err != nil {
			log.Error("failed to initialize config archive", "error", err)
			panic("failed to initialize config archive: " + err.Error())
		}
		modules = append(modules, archiveModule)
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   health,
		EventBus: eventBus,
		Modules:  modules,
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
		}
		eventBus.Wait()
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func connectPostgres(ctx context.Context, cfg *config.Config, log *logger.Logger) (*pgxpool.Pool, error) {
	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		return nil, err
	}
	log.Info("database connection established")

	if err := db.RunMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	log.Info("database migrations complete")
	return pool, nil
}

func openRedis(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) (*redis.Client, error) {
	opt, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		return nil, err
	}
	if cfg.GetRedisTLSInsecure() {
		if opt.TLSConfig == nil {
			opt.TLSConfig = &tls.Config{}
		}
		opt.TLSConfig.InsecureSkipVerify = true
	}

	rdb := redis.NewClient(opt)
	if err := withRetry(ctx, log, "redis connection", 5, 2*time.Second, func() error {
		return rdb.Ping(ctx).Err()
	}); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	log.Info("redis connection established", "addr", opt.Addr)
	return rdb, nil
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
