package scoring

import (
	"math"
	"sort"

	"solar21_precheck/platform/apperr"
)

// Reserved weight keys.
const (
	KeyStructure   = "structure"
	KeyConsumption = "consumption"
	KeyRoof        = "sub_roof"
)

// Fallback weights used when a key is missing.
const (
	FallbackSubWeight        = 0.2
	DefaultStructureWeight   = 0.4
	DefaultConsumptionWeight = 0.6
)

// SubWeightKey returns the conventional weight key for a question id.
func SubWeightKey(questionID string) string {
	return "sub_" + questionID
}

func isReservedKey(key string) bool {
	return key == KeyStructure || key == KeyConsumption || key == KeyRoof
}

// Weights is the flat weight document: top-level category weights plus one
// sub-weight per factor.
type Weights map[string]float64

// Clone returns an independent copy.
func (w Weights) Clone() Weights {
	out := make(Weights, len(w))
	for k, v := range w {
		out[k] = v
	}
	return out
}

// Lookup returns the weight for key, or fallback when the key is missing or
// not a finite number. Negative weights count as zero.
func (w Weights) Lookup(key string, fallback float64) float64 {
	v, ok := w[key]
	if !ok || !finite(v) {
		return fallback
	}
	return math.Max(v, 0)
}

// Apply returns a copy of w with a catalog change applied.
func (w Weights) Apply(change WeightChange) Weights {
	out := w.Clone()
	carried, hasCarry := out[change.CarryFrom]
	if change.Remove != "" {
		delete(out, change.Remove)
	}
	if change.Add != "" {
		if _, exists := out[change.Add]; !exists {
			if change.CarryFrom != "" && hasCarry {
				out[change.Add] = carried
			} else {
				out[change.Add] = change.DefaultWeight
			}
		}
	}
	return out
}

// LoadWithDefaults turns a stored document into the weights used for
// scoring. Missing keys get their fallback, negatives become zero, and when
// both category weights are zero they reset to 0.40/0.60. Sub-weights are not
// re-normalized here.
func LoadWithDefaults(raw Weights, catalog Catalog) Weights {
	out := make(Weights, len(raw)+catalog.Len()+3)
	for k, v := range raw {
		if finite(v) {
			out[k] = math.Max(v, 0)
		}
	}

	if _, ok := out[KeyStructure]; !ok {
		out[KeyStructure] = DefaultStructureWeight
	}
	if _, ok := out[KeyConsumption]; !ok {
		out[KeyConsumption] = DefaultConsumptionWeight
	}
	if out[KeyStructure]+out[KeyConsumption] == 0 {
		out[KeyStructure] = DefaultStructureWeight
		out[KeyConsumption] = DefaultConsumptionWeight
	}

	for _, category := range Categories {
		for _, key := range catalog.WeightKeys(category) {
			if _, ok := out[key]; !ok {
				out[key] = FallbackSubWeight
			}
		}
	}
	return out
}

// NormalizeForSave validates a weight document against the catalog and
// returns the form that is persisted: category weights summing to 1, each
// category's sub-weights summing to 1, and keys without a factor dropped.
// A group whose weights are all zero is kept at zero.
func NormalizeForSave(w Weights, catalog Catalog) (Weights, error) {
	for key, v := range w {
		if !finite(v) || v < 0 {
			return nil, apperr.Validation("weights must be non-negative numbers").
				WithDetails(map[string]string{"key": key})
		}
	}

	filled := LoadWithDefaults(w, catalog)
	out := make(Weights, len(filled))

	top := normalizeGroup(filled, []string{KeyStructure, KeyConsumption})
	for k, v := range top {
		out[k] = v
	}
	for _, category := range Categories {
		for k, v := range normalizeGroup(filled, catalog.WeightKeys(category)) {
			out[k] = v
		}
	}
	return out, nil
}

func normalizeGroup(w Weights, keys []string) Weights {
	out := make(Weights, len(keys))
	var sum float64
	for _, k := range keys {
		sum += w[k]
	}
	for _, k := range keys {
		if sum == 0 {
			out[k] = 0
			continue
		}
		out[k] = w[k] / sum
	}
	return out
}

// SortedKeys returns the keys in a stable order: category weights first,
// then sub-weights alphabetically.
func (w Weights) SortedKeys() []string {
	keys := make([]string, 0, len(w))
	for k := range w {
		if k != KeyStructure && k != KeyConsumption {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	head := make([]string, 0, 2)
	for _, k := range []string{KeyStructure, KeyConsumption} {
		if _, ok := w[k]; ok {
			head = append(head, k)
		}
	}
	return append(head, keys...)
}
