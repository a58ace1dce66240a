package scoring

import "testing"

func ptr(f float64) *float64 { return &f }

func ownerQuestion() QuestionDefinition {
	return QuestionDefinition{
		ID:       "owner",
		Category: CategoryStructure,
		Kind:     AnswerChoice,
		MaxScore: 3,
		Text:     LocalizedText{"en": "Who owns the building?", "de": "Wem gehört das Gebäude?"},
		Options: []Option{
			{ID: "public", Text: LocalizedText{"en": "Public or co-operative owner", "de": "Öffentliche Hand"}, Score: 3},
			{ID: "institutional", Text: LocalizedText{"en": "Institutional private owner", "fr": "Propriétaire institutionnel"}, Score: 2},
			{ID: "private", Text: LocalizedText{"en": "SME or private individual"}, Score: 1},
		},
	}
}

func esgQuestion() QuestionDefinition {
	return QuestionDefinition{
		ID:       "esg",
		Category: CategoryStructure,
		Kind:     AnswerChoice,
		MaxScore: 3,
		Text:     LocalizedText{"en": "Is ESG visibility relevant?"},
		Options: []Option{
			{ID: "yes", Text: LocalizedText{"en": "Yes", "fr": "Oui"}, Score: 3},
			{ID: "unknown", Text: LocalizedText{"en": "Don't know", "fr": "Je ne sais pas"}, Score: 2},
			{ID: "no", Text: LocalizedText{"en": "No", "fr": "Non"}, Score: 0},
		},
	}
}

func spendQuestion() QuestionDefinition {
	return QuestionDefinition{
		ID:       "spend",
		Category: CategoryConsumption,
		Kind:     AnswerChoice,
		MaxScore: 4,
		Text:     LocalizedText{"en": "Annual electricity spend"},
		Options: []Option{
			{ID: "over_500k", Text: LocalizedText{"en": "More than CHF 500k"}, Score: 4},
			{ID: "under_20k", Text: LocalizedText{"en": "Less than CHF 20k"}, Score: 1},
		},
	}
}

func daytimeQuestion() QuestionDefinition {
	return QuestionDefinition{
		ID:       "daytime",
		Category: CategoryConsumption,
		Kind:     AnswerBoundedNumeric,
		MaxScore: 3,
		Text:     LocalizedText{"en": "Share of consumption during daylight hours"},
		Min:      0,
		Max:      100,
		Default:  50,
		Unit:     "%",
		Thresholds: []Threshold{
			{Min: 30, Score: 1},
			{Min: 70, Score: 3},
			{Min: 50, Score: 2},
		},
	}
}

func mustCatalog(t *testing.T, defs ...QuestionDefinition) Catalog {
	t.Helper()
	c, err := NewCatalog(defs)
	if err != nil {
		t.Fatalf("build catalog: %v", err)
	}
	return c
}
