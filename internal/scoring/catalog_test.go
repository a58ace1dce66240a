package scoring

import (
	"encoding/json"
	"testing"

	"solar21_precheck/platform/apperr"
)

func TestCatalogAddRejectsDuplicateID(t *testing.T) {
	catalog := mustCatalog(t, daytimeQuestion())

	dup := daytimeQuestion()
	dup.Text = LocalizedText{"en": "Another daytime question"}
	got, change, err := catalog.Add(dup)
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict error, got %v", err)
	}
	if got.Len() != 1 || !change.IsZero() {
		t.Fatalf("catalog must be unchanged after a rejected add")
	}

	roof := ownerQuestion()
	roof.ID = RoofFactorID
	roof.WeightKey = "sub_roof_extra"
	if _, _, err := catalog.Add(roof); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected the roof id to be reserved, got %v", err)
	}
}

func TestCatalogAddSignalsDefaultWeight(t *testing.T) {
	catalog := mustCatalog(t, ownerQuestion())

	next, change, err := catalog.Add(esgQuestion())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if change.Add != "sub_esg" || change.DefaultWeight != FallbackSubWeight {
		t.Fatalf("unexpected weight change %+v", change)
	}
	if catalog.Len() != 1 || next.Len() != 2 {
		t.Fatalf("add must not mutate the receiver")
	}
}

func TestCatalogAddValidation(t *testing.T) {
	noOptions := ownerQuestion()
	noOptions.Options = nil

	noThresholds := daytimeQuestion()
	noThresholds.Thresholds = nil

	emptyID := ownerQuestion()
	emptyID.ID = "  "

	badScore := ownerQuestion()
	badScore.Options[0].Score = 9

	badBounds := daytimeQuestion()
	badBounds.Default = 120

	reservedKey := ownerQuestion()
	reservedKey.WeightKey = KeyStructure

	for name, def := range map[string]QuestionDefinition{
		"no options":    noOptions,
		"no thresholds": noThresholds,
		"empty id":      emptyID,
		"option score":  badScore,
		"bad default":   badBounds,
		"reserved key":  reservedKey,
	} {
		if _, _, err := (Catalog{}).Add(def); !apperr.Is(err, apperr.KindValidation) {
			t.Fatalf("%s: expected validation error, got %v", name, err)
		}
	}
}

func TestCatalogSharedWeightKeyRejected(t *testing.T) {
	catalog := mustCatalog(t, ownerQuestion())

	esg := esgQuestion()
	esg.WeightKey = "sub_owner"
	if _, _, err := catalog.Add(esg); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestValidateDefinitionNormalizes(t *testing.T) {
	got, err := ValidateDefinition(daytimeQuestion())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.WeightKey != "sub_daytime" {
		t.Fatalf("expected default weight key, got %q", got.WeightKey)
	}
	for i := 1; i < len(got.Thresholds); i++ {
		if got.Thresholds[i-1].Min <= got.Thresholds[i].Min {
			t.Fatalf("thresholds not sorted descending: %+v", got.Thresholds)
		}
	}
}

func TestCatalogListByCategoryKeepsOrder(t *testing.T) {
	catalog := mustCatalog(t, spendQuestion(), ownerQuestion(), daytimeQuestion(), esgQuestion())

	structure := catalog.ListByCategory(CategoryStructure)
	if len(structure) != 2 || structure[0].ID != "owner" || structure[1].ID != "esg" {
		t.Fatalf("unexpected structure order %+v", structure)
	}
	consumption := catalog.ListByCategory(CategoryConsumption)
	if len(consumption) != 2 || consumption[0].ID != "spend" || consumption[1].ID != "daytime" {
		t.Fatalf("unexpected consumption order %+v", consumption)
	}

	keys := catalog.WeightKeys(CategoryStructure)
	if len(keys) != 3 || keys[0] != KeyRoof {
		t.Fatalf("unexpected structure weight keys %v", keys)
	}
}

func TestCatalogRemoveIsIdempotent(t *testing.T) {
	catalog := mustCatalog(t, ownerQuestion(), esgQuestion())

	next, change := catalog.Remove("owner")
	if next.Len() != 1 || change.Remove != "sub_owner" {
		t.Fatalf("unexpected remove result len=%d change=%+v", next.Len(), change)
	}

	again, change := next.Remove("owner")
	if again.Len() != 1 || !change.IsZero() {
		t.Fatalf("second remove must be a no-op")
	}
}

func TestCatalogUpdate(t *testing.T) {
	catalog := mustCatalog(t, ownerQuestion(), esgQuestion(), spendQuestion())

	edited := esgQuestion()
	edited.MaxScore = 5
	edited.WeightKey = "sub_visibility"
	next, change, err := catalog.Update("esg", edited)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q := next.Questions()[1]; q.ID != "esg" || q.MaxScore != 5 {
		t.Fatalf("update must keep position, got %+v", q)
	}
	if change.Remove != "sub_esg" || change.Add != "sub_visibility" || change.CarryFrom != "sub_esg" {
		t.Fatalf("unexpected weight change %+v", change)
	}

	renamed := esgQuestion()
	renamed.ID = "esg2"
	if _, _, err := catalog.Update("esg", renamed); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error on id change, got %v", err)
	}

	if _, _, err := catalog.Update("missing", QuestionDefinition{}); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCatalogJSONRoundTrip(t *testing.T) {
	catalog := mustCatalog(t, ownerQuestion(), daytimeQuestion())

	data, err := json.Marshal(catalog)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded Catalog
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Len() != 2 || decoded.Questions()[1].ID != "daytime" {
		t.Fatalf("unexpected decoded catalog %+v", decoded.Questions())
	}

	if err := json.Unmarshal([]byte(`[{"id":"a"},{"id":"a"}]`), &decoded); err == nil {
		t.Fatalf("expected invalid document to be rejected")
	}
}

func TestAnswerJSON(t *testing.T) {
	var answers map[string]Answer
	if err := json.Unmarshal([]byte(`{"owner":"public","daytime":42.5,"esg":null}`), &answers); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if answers["owner"].String() != "public" {
		t.Fatalf("unexpected text answer %q", answers["owner"].String())
	}
	if v, ok := answers["daytime"].Number(); !ok || v != 42.5 {
		t.Fatalf("unexpected numeric answer %v %v", v, ok)
	}
	if !answers["esg"].IsAbsent() {
		t.Fatalf("null must decode to an absent answer")
	}
	if err := json.Unmarshal([]byte(`{"owner":true}`), &answers); err == nil {
		t.Fatalf("expected boolean answer to be rejected")
	}
}

func TestCatalogAddReservesRoofIDWithDerivedWeightKey(t *testing.T) {
	catalog := mustCatalog(t, ownerQuestion())

	roof := esgQuestion()
	roof.ID = " " + RoofFactorID
	roof.WeightKey = ""
	if _, _, err := catalog.Add(roof); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict for the roof id, got %v", err)
	}

	explicit := esgQuestion()
	explicit.ID = "roof_pitch"
	explicit.WeightKey = KeyRoof
	if _, _, err := catalog.Add(explicit); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for the reserved weight key, got %v", err)
	}

	if _, err := NewCatalog([]QuestionDefinition{ownerQuestion(), roof}); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict when a stored catalog contains the roof id, got %v", err)
	}
}
