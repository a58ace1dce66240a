package adapters

import (
	"context"
	"fmt"

	precheckservice "solar21_precheck/internal/precheck/service"
	"solar21_precheck/internal/scoring"
)

// CatalogReader returns the current question catalog.
type CatalogReader interface {
	Current(ctx context.Context) (scoring.Catalog, error)
}

// WeightsReader returns the effective weights for a catalog.
type WeightsReader interface {
	Effective(ctx context.Context, catalog scoring.Catalog) (scoring.Weights, error)
}

// ScoringSnapshot adapts the catalog and weights services for the pre-check
// domain. Both documents are read in one call so that the weights always
// match the catalog they were filled for.
type ScoringSnapshot struct {
	catalogs CatalogReader
	weights  WeightsReader
}

// NewScoringSnapshot creates a new scoring snapshot adapter.
func NewScoringSnapshot(catalogs CatalogReader, weights WeightsReader) *ScoringSnapshot {
	return &ScoringSnapshot{catalogs: catalogs, weights: weights}
}

// Snapshot returns the current catalog and its effective weights.
func (a *ScoringSnapshot) Snapshot(ctx context.Context) (scoring.Catalog, scoring.Weights, error) {
	catalog, err := a.catalogs.Current(ctx)
	if err != nil {
		return scoring.Catalog{}, nil, fmt.Errorf("scoring adapter: load catalog: %w", err)
	}
	weights, err := a.weights.Effective(ctx, catalog)
	if err != nil {
		return scoring.Catalog{}, nil, fmt.Errorf("scoring adapter: load weights: %w", err)
	}
	return catalog, weights, nil
}

var _ precheckservice.ScoringSource = (*ScoringSnapshot)(nil)
