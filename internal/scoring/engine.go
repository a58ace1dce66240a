package scoring

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"
)

// RoofMaxScore is the maximum raw score of the roof factor.
const RoofMaxScore = 3

// Tier is the qualitative recommendation derived from a composite score.
type Tier string

const (
	TierExceptional Tier = "Exceptional"
	TierStrong      Tier = "Strong"
	TierModerate    Tier = "Moderate"
	TierWeak        Tier = "Weak"
	TierPoor        Tier = "Poor"
)

// TierFor maps a 0-100 score to its tier. Lower bounds are inclusive.
func TierFor(score float64) Tier {
	switch {
	case score >= 85:
		return TierExceptional
	case score >= 70:
		return TierStrong
	case score >= 55:
		return TierModerate
	case score >= 40:
		return TierWeak
	default:
		return TierPoor
	}
}

// FactorScore is the outcome for one factor of one site.
type FactorScore struct {
	ID                string   `json:"id"`
	Category          Category `json:"category"`
	RawScore          int      `json:"rawScore"`
	MaxScore          int      `json:"maxScore"`
	NormalizedPercent float64  `json:"normalizedPercent"`
	Weight            float64  `json:"weight"`
	// Excluded factors had no answer and take no part in the subtotal.
	Excluded bool `json:"excluded"`
}

// ScoreBreakdown is the full scoring result for one site.
type ScoreBreakdown struct {
	Factors                    []FactorScore `json:"factors"`
	StructureSubtotalPercent   float64       `json:"structureSubtotalPercent"`
	ConsumptionSubtotalPercent float64       `json:"consumptionSubtotalPercent"`
	StructureWeight            float64       `json:"structureWeight"`
	ConsumptionWeight          float64       `json:"consumptionWeight"`
	CompositeScore             float64       `json:"compositeScore"`
	Tier                       Tier          `json:"tier"`
}

// CompositeResult is the portfolio view over several sites.
type CompositeResult struct {
	Sites          []ScoreBreakdown `json:"sites"`
	CompositeScore float64          `json:"compositeScore"`
	Tier           Tier             `json:"tier"`
}

// Engine scores sites against a fixed snapshot of catalog and weights.
type Engine struct {
	catalog Catalog
	weights Weights
}

// NewEngine captures copies of catalog and weights.
func NewEngine(catalog Catalog, weights Weights) *Engine {
	return &Engine{catalog: catalog.copy(), weights: weights.Clone()}
}

// Score computes the breakdown for one site. It never fails: missing weights
// fall back, unmatched choices score 1 and unmeasured roofs score 0.
func (e *Engine) Score(site SiteAnswerSet) ScoreBreakdown {
	factors := make([]FactorScore, 0, e.catalog.Len()+1)

	roofRaw := RoofScore(site.RoofAreaM2)
	factors = append(factors, FactorScore{
		ID:       RoofFactorID,
		Category: CategoryStructure,
		RawScore: roofRaw,
		MaxScore: RoofMaxScore,
		Weight:   e.weights.Lookup(KeyRoof, FallbackSubWeight),
	})

	for _, q := range e.catalog.questions {
		f := FactorScore{
			ID:       q.ID,
			Category: q.Category,
			MaxScore: q.MaxScore,
			Weight:   e.weights.Lookup(q.WeightKey, FallbackSubWeight),
		}
		answer, ok := site.Answers[q.ID]
		switch q.Kind {
		case AnswerChoice:
			if !ok || answer.IsAbsent() {
				f.Excluded = true
			} else {
				f.RawScore = choiceScore(q, answer)
			}
		case AnswerBoundedNumeric:
			value, numeric := answer.Number()
			if !ok || !numeric {
				value = q.Default
			}
			f.RawScore = thresholdScore(q.Thresholds, value)
		}
		factors = append(factors, f)
	}

	var structure, consumption subtotal
	for i := range factors {
		f := &factors[i]
		if f.Excluded {
			continue
		}
		normalized := float64(f.RawScore) / float64(f.MaxScore)
		f.NormalizedPercent = round1(normalized * 100)
		if f.Category == CategoryStructure {
			structure.add(normalized, f.Weight)
		} else {
			consumption.add(normalized, f.Weight)
		}
	}

	sN, cN := e.topLevelWeights()
	composite := sN*structure.value() + cN*consumption.value()
	score := round1(composite * 100)

	return ScoreBreakdown{
		Factors:                    factors,
		StructureSubtotalPercent:   round1(structure.value() * 100),
		ConsumptionSubtotalPercent: round1(consumption.value() * 100),
		StructureWeight:            sN,
		ConsumptionWeight:          cN,
		CompositeScore:             score,
		Tier:                       TierFor(score),
	}
}

// ScoreComposite scores every site and averages their composite scores.
func (e *Engine) ScoreComposite(sites []SiteAnswerSet) CompositeResult {
	breakdowns := make([]ScoreBreakdown, len(sites))
	scores := make([]float64, len(sites))
	for i, site := range sites {
		breakdowns[i] = e.Score(site)
		scores[i] = breakdowns[i].CompositeScore
	}
	score, tier := Composite(scores)
	return CompositeResult{Sites: breakdowns, CompositeScore: score, Tier: tier}
}

// Composite averages already computed site scores, rounds to one decimal
// and re-tiers. An empty list scores 0.
func Composite(scores []float64) (float64, Tier) {
	if len(scores) == 0 {
		return 0, TierFor(0)
	}
	var sum float64
	for _, s := range scores {
		sum += s
	}
	mean := round1(sum / float64(len(scores)))
	return mean, TierFor(mean)
}

// RoofScore maps a roof area in m² to a raw score out of RoofMaxScore.
func RoofScore(areaM2 *float64) int {
	if areaM2 == nil || math.IsNaN(*areaM2) {
		return 0
	}
	area := *areaM2
	switch {
	case area > 1000:
		return 3
	case area >= 500:
		return 2
	case area > 0:
		return 1
	default:
		return 0
	}
}

func (e *Engine) topLevelWeights() (float64, float64) {
	s := e.weights.Lookup(KeyStructure, DefaultStructureWeight)
	c := e.weights.Lookup(KeyConsumption, DefaultConsumptionWeight)
	if s+c == 0 {
		return 0.5, 0.5
	}
	return s / (s + c), c / (s + c)
}

func thresholdScore(thresholds []Threshold, value float64) int {
	ordered := thresholds
	if !sort.SliceIsSorted(ordered, func(i, j int) bool { return ordered[i].Min > ordered[j].Min }) {
		ordered = append([]Threshold(nil), thresholds...)
		sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Min > ordered[j].Min })
	}
	for _, th := range ordered {
		if value >= th.Min {
			return th.Score
		}
	}
	return 0
}

type subtotal struct {
	weighted float64
	weights  float64
}

func (s *subtotal) add(normalized, weight float64) {
	s.weighted += normalized * weight
	s.weights += weight
}

func (s subtotal) value() float64 {
	if s.weights == 0 {
		return 0
	}
	return s.weighted / s.weights
}

func round1(x float64) float64 {
	return decimal.NewFromFloat(x).Round(1).InexactFloat64()
}
