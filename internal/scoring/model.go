// Package scoring holds the pure pre-check scoring engine: the question
// catalog, the weight configuration and the functions that turn a site's
// answers into a weighted 0-100 composite score and a recommendation tier.
//
// Nothing in this package performs I/O. Values passed in are copied, so an
// Engine can be shared between goroutines.
package scoring

import "strings"

// Category groups factors for the top-level weighting.
type Category string

const (
	CategoryStructure   Category = "structure"
	CategoryConsumption Category = "consumption"
)

// Categories lists the categories in display order.
var Categories = []Category{CategoryStructure, CategoryConsumption}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	return c == CategoryStructure || c == CategoryConsumption
}

// AnswerKind is the shape of the answer a question expects.
type AnswerKind string

const (
	AnswerChoice         AnswerKind = "choice"
	AnswerBoundedNumeric AnswerKind = "bounded_numeric"
)

// Valid reports whether k is a known answer kind.
func (k AnswerKind) Valid() bool {
	return k == AnswerChoice || k == AnswerBoundedNumeric
}

// DefaultLocale is required on every localized text and is the display fallback.
const DefaultLocale = "en"

// LocalizedText maps a locale ("en", "fr", "de") to display text.
type LocalizedText map[string]string

// In returns the text for lang, falling back to English.
func (t LocalizedText) In(lang string) string {
	if v := strings.TrimSpace(t[lang]); v != "" {
		return v
	}
	return t[DefaultLocale]
}

func (t LocalizedText) clone() LocalizedText {
	if t == nil {
		return nil
	}
	out := make(LocalizedText, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// Option is one selectable answer of a Choice question. ID is stable across
// languages; Text is only for display and legacy answer matching.
type Option struct {
	ID    string        `json:"id" yaml:"id"`
	Text  LocalizedText `json:"text" yaml:"text"`
	Score int           `json:"score" yaml:"score"`
}

// Threshold awards Score when a numeric answer is at least Min.
type Threshold struct {
	Min   float64 `json:"min" yaml:"min"`
	Score int     `json:"score" yaml:"score"`
}

// QuestionDefinition describes one scored question of the catalog.
type QuestionDefinition struct {
	ID        string        `json:"id" yaml:"id"`
	Category  Category      `json:"category" yaml:"category"`
	Kind      AnswerKind    `json:"kind" yaml:"kind"`
	MaxScore  int           `json:"maxScore" yaml:"maxScore"`
	WeightKey string        `json:"weightKey" yaml:"weightKey"`
	Text      LocalizedText `json:"text" yaml:"text"`
	Help      LocalizedText `json:"help,omitempty" yaml:"help,omitempty"`

	// Choice
	Options []Option `json:"options,omitempty" yaml:"options,omitempty"`

	// BoundedNumeric
	Min        float64     `json:"min,omitempty" yaml:"min,omitempty"`
	Max        float64     `json:"max,omitempty" yaml:"max,omitempty"`
	Default    float64     `json:"default,omitempty" yaml:"default,omitempty"`
	Unit       string      `json:"unit,omitempty" yaml:"unit,omitempty"`
	Thresholds []Threshold `json:"thresholds,omitempty" yaml:"thresholds,omitempty"`
}

func (q QuestionDefinition) clone() QuestionDefinition {
	out := q
	out.Text = q.Text.clone()
	out.Help = q.Help.clone()
	if q.Options != nil {
		out.Options = make([]Option, len(q.Options))
		for i, o := range q.Options {
			o.Text = o.Text.clone()
			out.Options[i] = o
		}
	}
	if q.Thresholds != nil {
		out.Thresholds = append([]Threshold(nil), q.Thresholds...)
	}
	return out
}

// SiteAnswerSet is everything known about one site at scoring time.
// A nil RoofAreaM2 means the roof was not measured.
type SiteAnswerSet struct {
	RoofAreaM2 *float64          `json:"roofAreaM2"`
	Answers    map[string]Answer `json:"answers"`
}
