// Package repository persists the weight document.
package repository

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"solar21_precheck/internal/scoring"
	"solar21_precheck/platform/docstore"
)

// Repository loads and saves the whole weight document.
type Repository interface {
	// Load returns the stored document as-is. A document that was never
	// written loads as the seed weights.
	Load(ctx context.Context) (scoring.Weights, error)
	Save(ctx context.Context, weights scoring.Weights) error
}

//go:embed default_weights.json
var defaultWeights []byte

// DefaultWeights returns the weights shipped with the default catalog.
func DefaultWeights() scoring.Weights {
	var w scoring.Weights
	if err := json.Unmarshal(defaultWeights, &w); err != nil {
		panic(fmt.Sprintf("embedded default weights: %v", err))
	}
	return w
}

// Repo stores weights as a flat JSON object in a docstore document.
type Repo struct {
	doc  docstore.Document
	seed scoring.Weights
}

// New creates a weight repository on top of doc. seed is returned while the
// document has never been written; it may be nil.
func New(doc docstore.Document, seed scoring.Weights) *Repo {
	return &Repo{doc: doc, seed: seed}
}

var _ Repository = (*Repo)(nil)

func (r *Repo) Load(ctx context.Context) (scoring.Weights, error) {
	body, err := r.doc.Read(ctx)
	if errors.Is(err, docstore.ErrNotFound) {
		if r.seed == nil {
			return scoring.Weights{}, nil
		}
		return r.seed.Clone(), nil
	}
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode weights %s: %w", r.doc.Name(), err)
	}

	// Non-numeric entries are ignored so a hand-edited document still loads.
	weights := make(scoring.Weights, len(raw))
	for key, value := range raw {
		if f, ok := value.(float64); ok {
			weights[key] = f
		}
	}
	return weights, nil
}

func (r *Repo) Save(ctx context.Context, weights scoring.Weights) error {
	body, err := json.MarshalIndent(weights, "", "  ")
	if err != nil {
		return fmt.Errorf("encode weights: %w", err)
	}
	return r.doc.Write(ctx, append(body, '\n'))
}
