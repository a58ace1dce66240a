// Package service implements the pre-check flow: sessions of addresses,
// their answers, and the scored results.
package service

import (
	"context"
	"sort"
	"time"

	"solar21_precheck/internal/precheck/repository"
	"solar21_precheck/internal/precheck/transport"
	roofdata "solar21_precheck/internal/roofdata/transport"
	"solar21_precheck/internal/scoring"
	"solar21_precheck/platform/apperr"
	"solar21_precheck/platform/logger"
	"solar21_precheck/platform/sanitize"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriceQuestionID is prefilled from the canton's average electricity price
// when the catalog has it as a numeric question.
const PriceQuestionID = "price"

// RoofLookup resolves roof data for addresses. Failed lookups come back with
// Found=false instead of an error.
type RoofLookup interface {
	LookupMany(ctx context.Context, addresses []string) []*roofdata.RoofData
}

// ScoringSource provides the current catalog and effective weights.
type ScoringSource interface {
	Snapshot(ctx context.Context) (scoring.Catalog, scoring.Weights, error)
}

// Service provides business logic for pre-checks.
type Service struct {
	store   repository.Store
	roofs   RoofLookup
	scoring ScoringSource
	log     *logger.Logger
	now     func() time.Time
}

// New creates a pre-check service.
func New(store repository.Store, roofs RoofLookup, source ScoringSource, log *logger.Logger) *Service {
	return &Service{store: store, roofs: roofs, scoring: source, log: log, now: time.Now}
}

// Create starts a session and looks up the roofs of all addresses.
func (s *Service) Create(ctx context.Context, req transport.CreatePrecheckRequest) (transport.SessionResponse, error) {
	addresses := make([]string, 0, len(req.Addresses))
	for _, a := range req.Addresses {
		if clean := sanitize.Text(a); clean != "" {
			addresses = append(addresses, clean)
		}
	}
	if len(addresses) == 0 {
		return transport.SessionResponse{}, apperr.Validation("at least one address is required")
	}
	if len(addresses) > transport.MaxSites {
		return transport.SessionResponse{}, apperr.Validation("too many addresses")
	}

	catalog, _, err := s.scoring.Snapshot(ctx)
	if err != nil {
		return transport.SessionResponse{}, err
	}

	roofs := s.roofs.LookupMany(ctx, addresses)
	now := s.now().UTC()
	session := &repository.Session{
		ID:        uuid.New(),
		Language:  req.Language,
		Role:      req.Role,
		Sites:     make([]repository.Site, len(addresses)),
		CreatedAt: now,
		UpdatedAt: now,
	}
	for i, address := range addresses {
		site := repository.Site{Address: address, Answers: map[string]scoring.Answer{}}
		if i < len(roofs) {
			site.Roof = roofs[i]
		}
		prefillPrice(&site, catalog)
		session.Sites[i] = site
	}

	if err := s.store.Save(ctx, session); err != nil {
		s.log.StoreError("save precheck", err)
		return transport.SessionResponse{}, err
	}

	s.log.Info("precheck created", "id", session.ID, "sites", len(session.Sites), "role", session.Role)
	return toSessionResponse(session), nil
}

// Get returns a session.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (transport.SessionResponse, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return transport.SessionResponse{}, err
	}
	return toSessionResponse(session), nil
}

// SetAnswers merges answers into one site. Every key must be a catalog
// question id.
func (s *Service) SetAnswers(ctx context.Context, id uuid.UUID, index int, req transport.SetAnswersRequest) (transport.SessionResponse, error) {
	catalog, _, err := s.scoring.Snapshot(ctx)
	if err != nil {
		return transport.SessionResponse{}, err
	}

	var unknown []string
	for questionID := range req.Answers {
		if _, ok := catalog.Get(questionID); !ok {
			unknown = append(unknown, questionID)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return transport.SessionResponse{}, apperr.Validation("unknown question id").
			WithDetails(map[string][]string{"questions": unknown})
	}

	return s.updateSite(ctx, id, index, func(site *repository.Site) {
		if site.Answers == nil {
			site.Answers = make(map[string]scoring.Answer, len(req.Answers))
		}
		for questionID, answer := range req.Answers {
			if answer.IsAbsent() {
				delete(site.Answers, questionID)
				continue
			}
			site.Answers[questionID] = answer
		}
	})
}

// SetRoofArea overrides the roof area of one site. A nil area clears the override.
func (s *Service) SetRoofArea(ctx context.Context, id uuid.UUID, index int, req transport.SetRoofAreaRequest) (transport.SessionResponse, error) {
	return s.updateSite(ctx, id, index, func(site *repository.Site) {
		if req.RoofAreaM2 == nil {
			site.RoofAreaOverrideM2 = nil
			return
		}
		area := *req.RoofAreaM2
		site.RoofAreaOverrideM2 = &area
	})
}

func (s *Service) updateSite(ctx context.Context, id uuid.UUID, index int, apply func(*repository.Site)) (transport.SessionResponse, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return transport.SessionResponse{}, err
	}
	if index < 0 || index >= len(session.Sites) {
		return transport.SessionResponse{}, apperr.NotFound("site not found").
			WithDetails(map[string]int{"index": index})
	}

	apply(&session.Sites[index])
	session.UpdatedAt = s.now().UTC()

	if err := s.store.Save(ctx, session); err != nil {
		s.log.StoreError("save precheck", err)
		return transport.SessionResponse{}, err
	}
	return toSessionResponse(session), nil
}

// Results scores every site of a session with the current catalog and weights.
func (s *Service) Results(ctx context.Context, id uuid.UUID) (transport.ResultsResponse, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return transport.ResultsResponse{}, err
	}
	engine, err := s.engine(ctx)
	if err != nil {
		return transport.ResultsResponse{}, err
	}

	sets := make([]scoring.SiteAnswerSet, len(session.Sites))
	for i, site := range session.Sites {
		sets[i] = site.AnswerSet()
	}
	composite := engine.ScoreComposite(sets)

	results := make([]transport.SiteResult, len(session.Sites))
	for i, site := range session.Sites {
		results[i] = transport.SiteResult{
			Index:      i,
			Address:    site.Address,
			RoofAreaM2: sets[i].RoofAreaM2,
			Breakdown:  composite.Sites[i],
		}
		if site.Roof != nil {
			results[i].Canton = site.Roof.Canton
		}
	}

	ranking := rank(results)
	for pos, idx := range ranking {
		results[idx].Rank = pos + 1
	}

	resp := transport.ResultsResponse{
		SessionID:      session.ID.String(),
		Sites:          results,
		Ranking:        ranking,
		CompositeScore: composite.CompositeScore,
		Tier:           composite.Tier,
	}
	if len(ranking) > 0 {
		best := results[ranking[0]]
		resp.Top = transport.Recommendation{
			SiteIndex:      best.Index,
			Address:        best.Address,
			CompositeScore: best.Breakdown.CompositeScore,
			Tier:           best.Breakdown.Tier,
		}
	}
	return resp, nil
}

// Score scores sites directly, without a session.
func (s *Service) Score(ctx context.Context, req transport.ScoreRequest) (scoring.CompositeResult, error) {
	engine, err := s.engine(ctx)
	if err != nil {
		return scoring.CompositeResult{}, err
	}
	return engine.ScoreComposite(req.Sites), nil
}

func (s *Service) engine(ctx context.Context) (*scoring.Engine, error) {
	catalog, weights, err := s.scoring.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return scoring.NewEngine(catalog, weights), nil
}

// rank returns site indexes ordered by composite score, best first. Ties keep
// address order.
func rank(results []transport.SiteResult) []int {
	order := make([]int, len(results))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return results[order[a]].Breakdown.CompositeScore > results[order[b]].Breakdown.CompositeScore
	})
	return order
}

// prefillPrice answers the electricity price question from the canton
// average, converted from CHF/kWh to Rp/kWh.
func prefillPrice(site *repository.Site, catalog scoring.Catalog) {
	if site.Roof == nil || site.Roof.ElectricityPriceCHFPerKWh == nil {
		return
	}
	q, ok := catalog.Get(PriceQuestionID)
	if !ok || q.Kind != scoring.AnswerBoundedNumeric {
		return
	}
	rappen, _ := decimal.NewFromFloat(*site.Roof.ElectricityPriceCHFPerKWh).Mul(decimal.NewFromInt(100)).Round(1).Float64()
	site.Answers[PriceQuestionID] = scoring.NumberAnswer(rappen)
}

func toSessionResponse(session *repository.Session) transport.SessionResponse {
	sites := make([]transport.SiteResponse, len(session.Sites))
	for i, site := range session.Sites {
		sites[i] = transport.SiteResponse{
			Index:              i,
			Address:            site.Address,
			Roof:               site.Roof,
			RoofAreaM2:         site.RoofAreaM2(),
			RoofAreaOverridden: site.RoofAreaOverrideM2 != nil,
			Answers:            site.Answers,
		}
	}
	return transport.SessionResponse{
		ID:        session.ID.String(),
		Language:  session.Language,
		Role:      session.Role,
		Sites:     sites,
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
	}
}
