package scoring

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"solar21_precheck/platform/apperr"
)

// RoofFactorID is the id of the fixed roof-size factor. It is reserved in the catalog.
const RoofFactorID = "roof"

var identifierPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// WeightChange describes what a catalog mutation implies for the weight document.
type WeightChange struct {
	// Add is a weight key that must exist after the change. It gets
	// DefaultWeight unless CarryFrom names an existing key to copy from.
	Add           string
	DefaultWeight float64
	CarryFrom     string
	// Remove is a weight key that must no longer exist.
	Remove string
}

// IsZero reports whether the change has no effect.
func (c WeightChange) IsZero() bool {
	return c.Add == "" && c.Remove == ""
}

// Catalog is an ordered, immutable list of question definitions. Mutating
// operations return a new Catalog.
type Catalog struct {
	questions []QuestionDefinition
}

// NewCatalog validates defs and builds a catalog preserving their order.
func NewCatalog(defs []QuestionDefinition) (Catalog, error) {
	c := Catalog{}
	for _, def := range defs {
		next, _, err := c.Add(def)
		if err != nil {
			return Catalog{}, err
		}
		c = next
	}
	return c, nil
}

// Questions returns a copy of all definitions in insertion order.
func (c Catalog) Questions() []QuestionDefinition {
	out := make([]QuestionDefinition, len(c.questions))
	for i, q := range c.questions {
		out[i] = q.clone()
	}
	return out
}

// Len returns the number of questions.
func (c Catalog) Len() int { return len(c.questions) }

// Get returns the definition with the given id.
func (c Catalog) Get(id string) (QuestionDefinition, bool) {
	if i := c.indexOf(id); i >= 0 {
		return c.questions[i].clone(), true
	}
	return QuestionDefinition{}, false
}

// ListByCategory returns the definitions of one category in insertion order.
func (c Catalog) ListByCategory(category Category) []QuestionDefinition {
	out := make([]QuestionDefinition, 0, len(c.questions))
	for _, q := range c.questions {
		if q.Category == category {
			out = append(out, q.clone())
		}
	}
	return out
}

// WeightKeys returns the sub-weight keys that belong to a category,
// including the roof key for Structure.
func (c Catalog) WeightKeys(category Category) []string {
	var keys []string
	if category == CategoryStructure {
		keys = append(keys, KeyRoof)
	}
	for _, q := range c.questions {
		if q.Category == category {
			keys = append(keys, q.WeightKey)
		}
	}
	return keys
}

// Add appends a definition. The id must be new.
func (c Catalog) Add(def QuestionDefinition) (Catalog, WeightChange, error) {
	if id := strings.TrimSpace(def.ID); id == RoofFactorID || (id != "" && c.indexOf(id) >= 0) {
		return c, WeightChange{}, apperr.DuplicateID(id)
	}
	normalized, err := ValidateDefinition(def)
	if err != nil {
		return c, WeightChange{}, err
	}
	if owner := c.weightKeyOwner(normalized.WeightKey); owner != "" {
		return c, WeightChange{}, weightKeyTaken(normalized.WeightKey, owner)
	}

	next := c.copy()
	next.questions = append(next.questions, normalized)
	return next, WeightChange{Add: normalized.WeightKey, DefaultWeight: FallbackSubWeight}, nil
}

// Update replaces the definition with the given id in place. The id itself
// cannot change.
func (c Catalog) Update(id string, def QuestionDefinition) (Catalog, WeightChange, error) {
	if def.ID == "" {
		def.ID = id
	}
	if def.ID != id {
		return c, WeightChange{}, apperr.Validation("question id cannot be changed").
			WithDetails(map[string]string{"id": id, "newId": def.ID})
	}

	idx := c.indexOf(id)
	if idx < 0 {
		return c, WeightChange{}, apperr.NotFound("question not found").WithDetails(map[string]string{"id": id})
	}

	normalized, err := ValidateDefinition(def)
	if err != nil {
		return c, WeightChange{}, err
	}
	if owner := c.weightKeyOwner(normalized.WeightKey); owner != "" && owner != id {
		return c, WeightChange{}, weightKeyTaken(normalized.WeightKey, owner)
	}

	previous := c.questions[idx]
	next := c.copy()
	next.questions[idx] = normalized

	var change WeightChange
	if previous.WeightKey != normalized.WeightKey {
		change = WeightChange{
			Add:           normalized.WeightKey,
			DefaultWeight: FallbackSubWeight,
			CarryFrom:     previous.WeightKey,
			Remove:        previous.WeightKey,
		}
	}
	return next, change, nil
}

// Remove deletes the definition with the given id. Removing an unknown id
// returns the catalog unchanged and an empty change.
func (c Catalog) Remove(id string) (Catalog, WeightChange) {
	idx := c.indexOf(id)
	if idx < 0 {
		return c, WeightChange{}
	}

	removed := c.questions[idx]
	next := Catalog{questions: make([]QuestionDefinition, 0, len(c.questions)-1)}
	next.questions = append(next.questions, c.questions[:idx]...)
	next.questions = append(next.questions, c.questions[idx+1:]...)
	return next, WeightChange{Remove: removed.WeightKey}
}

// MarshalJSON encodes the catalog as an ordered list of definitions.
func (c Catalog) MarshalJSON() ([]byte, error) {
	if c.questions == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(c.questions)
}

// UnmarshalJSON decodes and validates an ordered list of definitions.
func (c *Catalog) UnmarshalJSON(data []byte) error {
	var defs []QuestionDefinition
	if err := json.Unmarshal(data, &defs); err != nil {
		return err
	}
	built, err := NewCatalog(defs)
	if err != nil {
		return err
	}
	*c = built
	return nil
}

func (c Catalog) indexOf(id string) int {
	for i, q := range c.questions {
		if q.ID == id {
			return i
		}
	}
	return -1
}

func (c Catalog) weightKeyOwner(key string) string {
	for _, q := range c.questions {
		if q.WeightKey == key {
			return q.ID
		}
	}
	return ""
}

func (c Catalog) copy() Catalog {
	out := Catalog{questions: make([]QuestionDefinition, len(c.questions))}
	copy(out.questions, c.questions)
	return out
}

func weightKeyTaken(key, owner string) error {
	return apperr.Validation("weight key is already used by another question").
		WithDetails(map[string]string{"weightKey": key, "question": owner})
}

// ValidateDefinition checks a catalog edit and returns its normalized form:
// trimmed ids, a default weight key, and thresholds sorted descending.
func ValidateDefinition(def QuestionDefinition) (QuestionDefinition, error) {
	q := def.clone()
	q.ID = strings.TrimSpace(q.ID)
	q.WeightKey = strings.TrimSpace(q.WeightKey)

	if q.ID == "" {
		return q, invalid("id", "id is required")
	}
	if !identifierPattern.MatchString(q.ID) {
		return q, invalid("id", "id must be lower snake case")
	}
	if !q.Category.Valid() {
		return q, invalid("category", "category must be structure or consumption")
	}
	if !q.Kind.Valid() {
		return q, invalid("kind", "kind must be choice or bounded_numeric")
	}
	if q.MaxScore <= 0 {
		return q, invalid("maxScore", "maxScore must be positive")
	}
	if strings.TrimSpace(q.Text[DefaultLocale]) == "" {
		return q, invalid("text", "english question text is required")
	}

	if q.WeightKey == "" {
		q.WeightKey = SubWeightKey(q.ID)
	}
	if !identifierPattern.MatchString(q.WeightKey) {
		return q, invalid("weightKey", "weight key must be lower snake case")
	}
	if isReservedKey(q.WeightKey) {
		return q, invalid("weightKey", "weight key is reserved")
	}

	switch q.Kind {
	case AnswerChoice:
		return validateChoice(q)
	default:
		return validateBounded(q)
	}
}

func validateChoice(q QuestionDefinition) (QuestionDefinition, error) {
	if len(q.Options) == 0 {
		return q, invalid("options", "choice questions need at least one option")
	}
	seen := make(map[string]struct{}, len(q.Options))
	for i := range q.Options {
		opt := &q.Options[i]
		opt.ID = strings.TrimSpace(opt.ID)
		field := fmt.Sprintf("options[%d]", i)
		if opt.ID == "" {
			return q, invalid(field, "option id is required")
		}
		if _, dup := seen[opt.ID]; dup {
			return q, invalid(field, "option ids must be unique")
		}
		seen[opt.ID] = struct{}{}
		if strings.TrimSpace(opt.Text[DefaultLocale]) == "" {
			return q, invalid(field, "english option text is required")
		}
		if opt.Score < 0 || opt.Score > q.MaxScore {
			return q, invalid(field, "option score must be between 0 and maxScore")
		}
	}
	q.Thresholds = nil
	q.Min, q.Max, q.Default, q.Unit = 0, 0, 0, ""
	return q, nil
}

func validateBounded(q QuestionDefinition) (QuestionDefinition, error) {
	if len(q.Thresholds) == 0 {
		return q, invalid("thresholds", "bounded numeric questions need at least one threshold")
	}
	if !finite(q.Min) || !finite(q.Max) || !finite(q.Default) {
		return q, invalid("min", "bounds must be finite numbers")
	}
	if q.Min >= q.Max {
		return q, invalid("max", "max must be greater than min")
	}
	if q.Default < q.Min || q.Default > q.Max {
		return q, invalid("default", "default must lie between min and max")
	}

	seen := make(map[float64]struct{}, len(q.Thresholds))
	for i, th := range q.Thresholds {
		field := fmt.Sprintf("thresholds[%d]", i)
		if !finite(th.Min) {
			return q, invalid(field, "threshold must be a finite number")
		}
		if _, dup := seen[th.Min]; dup {
			return q, invalid(field, "threshold values must be unique")
		}
		seen[th.Min] = struct{}{}
		if th.Score < 0 || th.Score > q.MaxScore {
			return q, invalid(field, "threshold score must be between 0 and maxScore")
		}
	}
	sort.SliceStable(q.Thresholds, func(i, j int) bool {
		return q.Thresholds[i].Min > q.Thresholds[j].Min
	})
	q.Options = nil
	return q, nil
}

func invalid(field, message string) error {
	return apperr.Validation(message).WithDetails(map[string]string{"field": field})
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
