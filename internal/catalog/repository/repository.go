// Package repository persists the question catalog document.
package repository

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"solar21_precheck/internal/scoring"
	"solar21_precheck/platform/docstore"

	"gopkg.in/yaml.v3"
)

//go:embed default_catalog.yaml
var defaultCatalog []byte

// Repository loads and saves the whole catalog document.
type Repository interface {
	// Load returns the stored catalog, or the default catalog when none was
	// ever saved.
	Load(ctx context.Context) (scoring.Catalog, error)
	Save(ctx context.Context, catalog scoring.Catalog) error
}

// Repo stores the catalog in a docstore document, as JSON or YAML depending
// on the document format.
type Repo struct {
	doc docstore.Document
}

// New creates a catalog repository on top of doc.
func New(doc docstore.Document) *Repo {
	return &Repo{doc: doc}
}

var _ Repository = (*Repo)(nil)

// DefaultCatalog returns the catalog shipped with the service.
func DefaultCatalog() (scoring.Catalog, error) {
	return decode(defaultCatalog, docstore.FormatYAML)
}

func (r *Repo) Load(ctx context.Context) (scoring.Catalog, error) {
	body, err := r.doc.Read(ctx)
	if errors.Is(err, docstore.ErrNotFound) {
		return DefaultCatalog()
	}
	if err != nil {
		return scoring.Catalog{}, err
	}

	catalog, err := decode(body, r.doc.Format())
	if err != nil {
		return scoring.Catalog{}, fmt.Errorf("decode catalog %s: %w", r.doc.Name(), err)
	}
	return catalog, nil
}

func (r *Repo) Save(ctx context.Context, catalog scoring.Catalog) error {
	body, err := encode(catalog, r.doc.Format())
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	return r.doc.Write(ctx, body)
}

func decode(body []byte, format docstore.Format) (scoring.Catalog, error) {
	if format == docstore.FormatYAML {
		var defs []scoring.QuestionDefinition
		if err := yaml.Unmarshal(body, &defs); err != nil {
			return scoring.Catalog{}, err
		}
		return scoring.NewCatalog(defs)
	}

	var catalog scoring.Catalog
	if err := json.Unmarshal(body, &catalog); err != nil {
		return scoring.Catalog{}, err
	}
	return catalog, nil
}

func encode(catalog scoring.Catalog, format docstore.Format) ([]byte, error) {
	if format == docstore.FormatYAML {
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(catalog.Questions()); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	body, err := json.MarshalIndent(catalog, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(body, '\n'), nil
}
