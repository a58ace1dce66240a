package scoring

import (
	"math"
	"reflect"
	"testing"
)

func TestScoreMinimalSite(t *testing.T) {
	catalog := mustCatalog(t, ownerQuestion(), esgQuestion(), spendQuestion())
	weights := Weights{KeyStructure: 0.4, KeyConsumption: 0.6, KeyRoof: 1.0}

	got := NewEngine(catalog, weights).Score(SiteAnswerSet{
		RoofAreaM2: ptr(1200),
		Answers:    map[string]Answer{"owner": TextAnswer("public")},
	})

	if got.CompositeScore != 40.0 {
		t.Fatalf("expected composite 40.0, got %v", got.CompositeScore)
	}
	if got.Tier != TierWeak {
		t.Fatalf("expected tier Weak, got %s", got.Tier)
	}
	if got.StructureSubtotalPercent != 100 || got.ConsumptionSubtotalPercent != 0 {
		t.Fatalf("unexpected subtotals %v / %v", got.StructureSubtotalPercent, got.ConsumptionSubtotalPercent)
	}
	for _, f := range got.Factors {
		if (f.ID == "esg" || f.ID == "spend") && !f.Excluded {
			t.Fatalf("expected unanswered choice %s to be excluded", f.ID)
		}
	}
}

func TestScoreMissingWeightFallsBack(t *testing.T) {
	catalog := mustCatalog(t, ownerQuestion())
	weights := Weights{KeyStructure: 0.4, KeyConsumption: 0.6, KeyRoof: 1.0}

	got := NewEngine(catalog, weights).Score(SiteAnswerSet{
		Answers: map[string]Answer{"owner": TextAnswer("private")},
	})

	var owner FactorScore
	for _, f := range got.Factors {
		if f.ID == "owner" {
			owner = f
		}
	}
	if owner.Weight != FallbackSubWeight {
		t.Fatalf("expected fallback weight %v, got %v", FallbackSubWeight, owner.Weight)
	}
	// roof 0 with weight 1.0, owner 1/3 with weight 0.2
	want := round1(0.4 * ((1.0 / 3.0) * 0.2 / 1.2) * 100)
	if got.CompositeScore != want {
		t.Fatalf("expected %v, got %v", want, got.CompositeScore)
	}
}

func TestRoofScoreBoundaries(t *testing.T) {
	cases := []struct {
		area *float64
		want int
	}{
		{area: ptr(500), want: 2},
		{area: ptr(1000), want: 2},
		{area: ptr(1000.01), want: 3},
		{area: ptr(499.99), want: 1},
		{area: ptr(0.5), want: 1},
		{area: ptr(0), want: 0},
		{area: ptr(-20), want: 0},
		{area: ptr(math.NaN()), want: 0},
		{area: nil, want: 0},
	}
	for _, tc := range cases {
		if got := RoofScore(tc.area); got != tc.want {
			label := "nil"
			if tc.area != nil {
				label = "set"
			}
			t.Fatalf("roof %s %v: expected %d, got %d", label, tc.area, tc.want, got)
		}
	}
}

func TestScoreBoundedNumeric(t *testing.T) {
	catalog := mustCatalog(t, daytimeQuestion())
	engine := NewEngine(catalog, Weights{KeyStructure: 0, KeyConsumption: 1, KeyRoof: 1, "sub_daytime": 1})

	cases := []struct {
		name   string
		answer map[string]Answer
		want   float64
	}{
		{name: "absent uses default", answer: nil, want: round1(2.0 / 3.0 * 100)},
		{name: "top threshold", answer: map[string]Answer{"daytime": NumberAnswer(85)}, want: 100},
		{name: "exact boundary", answer: map[string]Answer{"daytime": NumberAnswer(30)}, want: round1(1.0 / 3.0 * 100)},
		{name: "below all thresholds", answer: map[string]Answer{"daytime": NumberAnswer(10)}, want: 0},
		{name: "numeric text", answer: map[string]Answer{"daytime": TextAnswer("72")}, want: 100},
		{name: "garbage text uses default", answer: map[string]Answer{"daytime": TextAnswer("lots")}, want: round1(2.0 / 3.0 * 100)},
	}
	for _, tc := range cases {
		got := engine.Score(SiteAnswerSet{Answers: tc.answer})
		if got.CompositeScore != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got.CompositeScore)
		}
	}
}

func TestChoiceMatching(t *testing.T) {
	owner := ownerQuestion()
	esg := esgQuestion()

	cases := []struct {
		name   string
		q      QuestionDefinition
		answer string
		want   int
	}{
		{name: "option id", q: owner, answer: "institutional", want: 2},
		{name: "english text", q: owner, answer: "SME or private individual", want: 1},
		{name: "french text", q: owner, answer: "Propriétaire institutionnel", want: 2},
		{name: "folded containment", q: owner, answer: "öffentliche Hand (Gemeinde)", want: 3},
		{name: "answer inside option text", q: owner, answer: "private individual", want: 1},
		{name: "case and accents", q: esg, answer: "JE NE SAIS PAS", want: 2},
		{name: "short word is not a substring match", q: esg, answer: "NO", want: 0},
		{name: "unmatched", q: esg, answer: "banana", want: unmatchedChoiceScore},
	}
	for _, tc := range cases {
		if got := choiceScore(tc.q, TextAnswer(tc.answer)); got != tc.want {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.want, got)
		}
	}
}

func TestWeightScaleInvariance(t *testing.T) {
	catalog := mustCatalog(t, ownerQuestion(), esgQuestion(), spendQuestion(), daytimeQuestion())
	weights := Weights{
		KeyStructure: 0.3, KeyConsumption: 0.7, KeyRoof: 0.5,
		"sub_owner": 0.3, "sub_esg": 0.2, "sub_spend": 0.6, "sub_daytime": 0.4,
	}
	site := SiteAnswerSet{
		RoofAreaM2: ptr(640),
		Answers: map[string]Answer{
			"owner":   TextAnswer("institutional"),
			"esg":     TextAnswer("Oui"),
			"spend":   TextAnswer("under_20k"),
			"daytime": NumberAnswer(55),
		},
	}

	base := NewEngine(catalog, weights).Score(site)
	for _, k := range []float64{0.01, 2, 37.5} {
		scaled := make(Weights, len(weights))
		for key, v := range weights {
			scaled[key] = v * k
		}
		got := NewEngine(catalog, scaled).Score(site)
		if got.CompositeScore != base.CompositeScore {
			t.Fatalf("scale %v: expected %v, got %v", k, base.CompositeScore, got.CompositeScore)
		}
	}
}

func TestScoreIsIdempotentAndInRange(t *testing.T) {
	catalog := mustCatalog(t, ownerQuestion(), esgQuestion(), spendQuestion(), daytimeQuestion())
	engine := NewEngine(catalog, Weights{KeyStructure: 0.4, KeyConsumption: 0.6})

	sites := []SiteAnswerSet{
		{},
		{RoofAreaM2: ptr(5000), Answers: map[string]Answer{"owner": TextAnswer("public"), "esg": TextAnswer("yes"), "spend": TextAnswer("over_500k"), "daytime": NumberAnswer(100)}},
		{RoofAreaM2: ptr(-1), Answers: map[string]Answer{"daytime": NumberAnswer(-50), "esg": TextAnswer("nope")}},
		{RoofAreaM2: ptr(750), Answers: map[string]Answer{"daytime": NumberAnswer(1e9)}},
	}
	for i, site := range sites {
		first := engine.Score(site)
		second := engine.Score(site)
		if !reflect.DeepEqual(first, second) {
			t.Fatalf("site %d: scoring is not idempotent", i)
		}
		if first.CompositeScore < 0 || first.CompositeScore > 100 {
			t.Fatalf("site %d: composite %v out of range", i, first.CompositeScore)
		}
		for _, f := range first.Factors {
			if f.NormalizedPercent < 0 || f.NormalizedPercent > 100 {
				t.Fatalf("site %d: factor %s normalized %v out of range", i, f.ID, f.NormalizedPercent)
			}
		}
	}

	best := engine.Score(sites[1])
	if best.CompositeScore != 100 || best.Tier != TierExceptional {
		t.Fatalf("expected perfect site to score 100 Exceptional, got %v %s", best.CompositeScore, best.Tier)
	}
}

func TestZeroTopLevelWeightsSplitEvenly(t *testing.T) {
	catalog := mustCatalog(t, spendQuestion())
	engine := NewEngine(catalog, Weights{KeyStructure: 0, KeyConsumption: 0, KeyRoof: 1, "sub_spend": 1})

	got := engine.Score(SiteAnswerSet{RoofAreaM2: ptr(2000), Answers: map[string]Answer{"spend": TextAnswer("over_500k")}})
	if got.StructureWeight != 0.5 || got.ConsumptionWeight != 0.5 || got.CompositeScore != 100 {
		t.Fatalf("unexpected result %+v", got)
	}
}

func TestEngineSnapshotsInputs(t *testing.T) {
	weights := Weights{KeyStructure: 1, KeyConsumption: 0, KeyRoof: 1}
	engine := NewEngine(Catalog{}, weights)
	weights[KeyRoof] = 0
	weights[KeyStructure] = 0

	got := engine.Score(SiteAnswerSet{RoofAreaM2: ptr(1500)})
	if got.CompositeScore != 100 {
		t.Fatalf("expected engine to ignore later weight edits, got %v", got.CompositeScore)
	}
}

func TestTierFor(t *testing.T) {
	cases := []struct {
		score float64
		want  Tier
	}{
		{100, TierExceptional},
		{85, TierExceptional},
		{84.9, TierStrong},
		{70, TierStrong},
		{69.9, TierModerate},
		{55, TierModerate},
		{54.9, TierWeak},
		{40, TierWeak},
		{39.9, TierPoor},
		{0, TierPoor},
	}
	for _, tc := range cases {
		if got := TierFor(tc.score); got != tc.want {
			t.Fatalf("score %v: expected %s, got %s", tc.score, tc.want, got)
		}
	}

	rank := map[Tier]int{TierPoor: 0, TierWeak: 1, TierModerate: 2, TierStrong: 3, TierExceptional: 4}
	prev := -1
	for s := 0.0; s <= 100; s += 0.1 {
		r := rank[TierFor(s)]
		if r < prev {
			t.Fatalf("tier decreased at %v", s)
		}
		prev = r
	}
}

func TestScoreComposite(t *testing.T) {
	catalog := mustCatalog(t, ownerQuestion())
	engine := NewEngine(catalog, Weights{KeyStructure: 1, KeyConsumption: 0, KeyRoof: 1, "sub_owner": 1})

	got := engine.ScoreComposite([]SiteAnswerSet{
		{RoofAreaM2: ptr(1200), Answers: map[string]Answer{"owner": TextAnswer("public")}},
		{RoofAreaM2: ptr(100), Answers: map[string]Answer{"owner": TextAnswer("private")}},
	})

	if len(got.Sites) != 2 {
		t.Fatalf("expected two breakdowns, got %d", len(got.Sites))
	}
	want := round1((got.Sites[0].CompositeScore + got.Sites[1].CompositeScore) / 2)
	if got.CompositeScore != want || got.Tier != TierFor(want) {
		t.Fatalf("expected %v, got %v %s", want, got.CompositeScore, got.Tier)
	}

	if score, tier := Composite(nil); score != 0 || tier != TierPoor {
		t.Fatalf("expected empty composite to be 0 Poor, got %v %s", score, tier)
	}
	if score, tier := Composite([]float64{40, 71}); score != 55.5 || tier != TierModerate {
		t.Fatalf("expected 55.5 Moderate, got %v %s", score, tier)
	}
}
