// Package service implements loading, saving and catalog-driven updates of
// the weight document.
package service

import (
	"context"
	"sync"

	"solar21_precheck/internal/events"
	"solar21_precheck/internal/scoring"
	"solar21_precheck/internal/weights/repository"
	"solar21_precheck/internal/weights/transport"
	"solar21_precheck/platform/logger"
)

// CatalogLoader returns the current question catalog.
type CatalogLoader interface {
	Load(ctx context.Context) (scoring.Catalog, error)
}

// Service provides business logic for weights.
type Service struct {
	repo     repository.Repository
	catalogs CatalogLoader
	bus      events.Bus
	log      *logger.Logger

	// mu serializes read-modify-write cycles on the document.
	mu sync.Mutex
}

// New creates a weights service.
func New(repo repository.Repository, catalogs CatalogLoader, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, catalogs: catalogs, bus: bus, log: log}
}

// Current returns the weights used for scoring: the stored document with
// defaults filled in for the current catalog.
func (s *Service) Current(ctx context.Context) (scoring.Weights, error) {
	catalog, err := s.catalogs.Load(ctx)
	if err != nil {
		return nil, err
	}
	return s.effective(ctx, catalog)
}

// Effective returns the weights with defaults filled in for catalog.
func (s *Service) Effective(ctx context.Context, catalog scoring.Catalog) (scoring.Weights, error) {
	return s.effective(ctx, catalog)
}

func (s *Service) effective(ctx context.Context, catalog scoring.Catalog) (scoring.Weights, error) {
	raw, err := s.repo.Load(ctx)
	if err != nil {
		s.log.StoreError("load weights", err)
		return nil, err
	}
	return scoring.LoadWithDefaults(raw, catalog), nil
}

// Get returns the effective weights grouped for display.
func (s *Service) Get(ctx context.Context) (transport.WeightsResponse, error) {
	catalog, err := s.catalogs.Load(ctx)
	if err != nil {
		return transport.WeightsResponse{}, err
	}
	weights, err := s.effective(ctx, catalog)
	if err != nil {
		return transport.WeightsResponse{}, err
	}
	return toResponse(weights, catalog), nil
}

// Save validates, re-normalizes and persists a full weight document.
func (s *Service) Save(ctx context.Context, req transport.SaveWeightsRequest) (transport.WeightsResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	catalog, err := s.catalogs.Load(ctx)
	if err != nil {
		return transport.WeightsResponse{}, err
	}

	normalized, err := scoring.NormalizeForSave(scoring.Weights(req.Weights), catalog)
	if err != nil {
		return transport.WeightsResponse{}, err
	}
	if err := s.persist(ctx, normalized, "admin"); err != nil {
		return transport.WeightsResponse{}, err
	}

	s.log.Info("weights saved", "keys", len(normalized))
	return toResponse(normalized, catalog), nil
}

// ApplyChange updates the stored document after a catalog mutation. The
// catalog must already be persisted.
func (s *Service) ApplyChange(ctx context.Context, change scoring.WeightChange) error {
	if change.IsZero() {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	catalog, err := s.catalogs.Load(ctx)
	if err != nil {
		return err
	}
	raw, err := s.repo.Load(ctx)
	if err != nil {
		s.log.StoreError("load weights", err)
		return err
	}

	next := scoring.LoadWithDefaults(raw.Apply(change), catalog)
	normalized, err := scoring.NormalizeForSave(next, catalog)
	if err != nil {
		return err
	}
	if err := s.persist(ctx, normalized, "catalog"); err != nil {
		return err
	}

	s.log.Info("weights updated for catalog change", "added", change.Add, "removed", change.Remove)
	return nil
}

func (s *Service) persist(ctx context.Context, weights scoring.Weights, reason string) error {
	if err := s.repo.Save(ctx, weights); err != nil {
		s.log.StoreError("save weights", err)
		return err
	}
	if s.bus != nil {
		s.bus.Publish(ctx, events.WeightsSaved{
			BaseEvent: events.NewBaseEvent(),
			Weights:   weights.Clone(),
			Reason:    reason,
		})
	}
	return nil
}

func toResponse(weights scoring.Weights, catalog scoring.Catalog) transport.WeightsResponse {
	return transport.WeightsResponse{
		Weights:     weights,
		Structure:   catalog.WeightKeys(scoring.CategoryStructure),
		Consumption: catalog.WeightKeys(scoring.CategoryConsumption),
	}
}
