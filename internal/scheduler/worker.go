package scheduler

import (
	"context"
	"fmt"

	roofdata "solar21_precheck/internal/roofdata/transport"
	"solar21_precheck/platform/config"
	"solar21_precheck/platform/logger"

	"github.com/hibiken/asynq"
)

// RoofWarmer performs a roof lookup, filling the cache as a side effect.
type RoofWarmer interface {
	Lookup(ctx context.Context, address string) (*roofdata.RoofData, error)
}

type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	roofs  RoofWarmer
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, roofs RoofWarmer, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server: server,
		mux:    mux,
		roofs:  roofs,
		log:    log,
	}

	mux.HandleFunc(TaskRoofPrefetch, w.handleRoofPrefetch)

	return w, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleRoofPrefetch(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseRoofPrefetchPayload(task)
	if err != nil {
		return err
	}

	data, err := w.roofs.Lookup(ctx, payload.Address)
	if err != nil {
		return fmt.Errorf("roof prefetch %q: %w", payload.Address, err)
	}
	if !data.Found {
		w.log.Info("roof prefetch found no building", "address", payload.Address)
		return nil
	}

	w.log.Debug("roof prefetch cached", "address", payload.Address, "canton", data.Canton)
	return nil
}
