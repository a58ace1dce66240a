// Package service implements the question catalog use cases.
package service

import (
	"context"
	"errors"
	"sync"

	"solar21_precheck/internal/catalog/repository"
	"solar21_precheck/internal/catalog/transport"
	"solar21_precheck/internal/events"
	"solar21_precheck/internal/scoring"
	"solar21_precheck/platform/apperr"
	"solar21_precheck/platform/logger"
	"solar21_precheck/platform/sanitize"
)

const msgQuestionNotFound = "question not found"

// WeightsUpdater keeps the weight document in line with the catalog.
type WeightsUpdater interface {
	ApplyChange(ctx context.Context, change scoring.WeightChange) error
}

// Service provides business logic for the question catalog.
type Service struct {
	repo    repository.Repository
	weights WeightsUpdater
	bus     events.Bus
	log     *logger.Logger

	mu sync.Mutex
}

// New creates a catalog service.
func New(repo repository.Repository, weights WeightsUpdater, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, weights: weights, bus: bus, log: log}
}

// Current returns the catalog as currently stored.
func (s *Service) Current(ctx context.Context) (scoring.Catalog, error) {
	catalog, err := s.repo.Load(ctx)
	if err != nil {
		s.log.StoreError("load catalog", err)
		return scoring.Catalog{}, err
	}
	return catalog, nil
}

// List returns the questions, optionally of one category, in catalog order.
func (s *Service) List(ctx context.Context, req transport.ListQuestionsRequest) (transport.QuestionListResponse, error) {
	catalog, err := s.Current(ctx)
	if err != nil {
		return transport.QuestionListResponse{}, err
	}

	items := make([]transport.QuestionView, 0, catalog.Len())
	for i, q := range catalog.Questions() {
		if req.Category != "" && q.Category != scoring.Category(req.Category) {
			continue
		}
		items = append(items, toView(q, i, req.Lang))
	}
	return transport.QuestionListResponse{Items: items, Total: len(items)}, nil
}

// Get returns one question.
func (s *Service) Get(ctx context.Context, id, lang string) (transport.QuestionView, error) {
	catalog, err := s.Current(ctx)
	if err != nil {
		return transport.QuestionView{}, err
	}
	for i, q := range catalog.Questions() {
		if q.ID == id {
			return toView(q, i, lang), nil
		}
	}
	return transport.QuestionView{}, apperr.NotFound(msgQuestionNotFound)
}

// Create appends a question to the catalog.
func (s *Service) Create(ctx context.Context, def scoring.QuestionDefinition) (transport.QuestionView, error) {
	catalog, err := s.mutate(ctx, events.CatalogActionCreated, "", func(c scoring.Catalog) (scoring.Catalog, scoring.WeightChange, error) {
		return c.Add(cleanDefinition(def))
	})
	if err != nil {
		return transport.QuestionView{}, err
	}

	id := lastID(catalog)
	s.log.Info("catalog question created", "id", id)
	return s.viewOf(catalog, id)
}

// Update replaces a question in place.
func (s *Service) Update(ctx context.Context, id string, def scoring.QuestionDefinition) (transport.QuestionView, error) {
	catalog, err := s.mutate(ctx, events.CatalogActionUpdated, id, func(c scoring.Catalog) (scoring.Catalog, scoring.WeightChange, error) {
		return c.Update(id, cleanDefinition(def))
	})
	if err != nil {
		return transport.QuestionView{}, err
	}

	s.log.Info("catalog question updated", "id", id)
	return s.viewOf(catalog, id)
}

// Delete removes a question. Deleting an unknown id succeeds without changes.
func (s *Service) Delete(ctx context.Context, id string) error {
	_, err := s.mutate(ctx, events.CatalogActionDeleted, id, func(c scoring.Catalog) (scoring.Catalog, scoring.WeightChange, error) {
		if _, ok := c.Get(id); !ok {
			return c, scoring.WeightChange{}, errUnchanged
		}
		next, change := c.Remove(id)
		return next, change, nil
	})
	if errors.Is(err, errUnchanged) {
		return nil
	}
	if err != nil {
		return err
	}

	s.log.Info("catalog question deleted", "id", id)
	return nil
}

// Validate checks a definition without saving it.
func (s *Service) Validate(def scoring.QuestionDefinition) (transport.ValidateQuestionResponse, error) {
	normalized, err := scoring.ValidateDefinition(cleanDefinition(def))
	if err != nil {
		return transport.ValidateQuestionResponse{}, err
	}
	return transport.ValidateQuestionResponse{Valid: true, Question: normalized}, nil
}

// cleanDefinition strips markup from the texts an admin typed.
func cleanDefinition(def scoring.QuestionDefinition) scoring.QuestionDefinition {
	def.Text = sanitize.Localized(def.Text)
	def.Help = sanitize.Localized(def.Help)
	def.Unit = sanitize.Text(def.Unit)
	if def.Options != nil {
		options := make([]scoring.Option, len(def.Options))
		for i, o := range def.Options {
			o.Text = sanitize.Localized(o.Text)
			options[i] = o
		}
		def.Options = options
	}
	return def
}

var errUnchanged = apperr.New(apperr.KindUnknown, "catalog unchanged")

// mutate applies op to the stored catalog, writes the result through, syncs
// the weight document and publishes CatalogChanged.
func (s *Service) mutate(ctx context.Context, action, id string, op func(scoring.Catalog) (scoring.Catalog, scoring.WeightChange, error)) (scoring.Catalog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.Current(ctx)
	if err != nil {
		return scoring.Catalog{}, err
	}

	next, change, err := op(current)
	if err != nil {
		return scoring.Catalog{}, err
	}

	if err := s.repo.Save(ctx, next); err != nil {
		s.log.StoreError("save catalog", err)
		return scoring.Catalog{}, err
	}

	// Scoring falls back to default weights for missing keys, so a failed
	// weight sync does not undo the catalog change.
	if s.weights != nil {
		if err := s.weights.ApplyChange(ctx, change); err != nil {
			s.log.Warn("weight sync after catalog change failed", "action", action, "error", err)
		}
	}

	if id == "" {
		id = lastID(next)
	}
	if s.bus != nil {
		s.bus.Publish(ctx, events.CatalogChanged{
			BaseEvent:  events.NewBaseEvent(),
			Action:     action,
			QuestionID: id,
			Catalog:    next,
		})
	}
	return next, nil
}

func (s *Service) viewOf(catalog scoring.Catalog, id string) (transport.QuestionView, error) {
	for i, q := range catalog.Questions() {
		if q.ID == id {
			return toView(q, i, scoring.DefaultLocale), nil
		}
	}
	return transport.QuestionView{}, apperr.NotFound(msgQuestionNotFound)
}

func lastID(catalog scoring.Catalog) string {
	questions := catalog.Questions()
	if len(questions) == 0 {
		return ""
	}
	return questions[len(questions)-1].ID
}

func toView(q scoring.QuestionDefinition, position int, lang string) transport.QuestionView {
	if lang == "" {
		lang = scoring.DefaultLocale
	}
	view := transport.QuestionView{
		QuestionDefinition: q,
		Position:           position,
		Label:              q.Text.In(lang),
		HelpText:           q.Help.In(lang),
	}
	for _, opt := range q.Options {
		view.OptionLabels = append(view.OptionLabels, transport.OptionView{
			ID:    opt.ID,
			Label: opt.Text.In(lang),
			Score: opt.Score,
		})
	}
	return view
}
