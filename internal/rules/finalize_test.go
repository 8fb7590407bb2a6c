package rules

import (
	"strings"
	"testing"

	"github.com/adurasov/nutricode/internal/model"
	"github.com/adurasov/nutricode/internal/refdata"
	"github.com/adurasov/nutricode/internal/resolve"
)

func newTestFinalizer() *Finalizer {
	store := refdata.Defaults()
	return NewFinalizer(store, resolve.NewFocusIndex(store))
}

func TestFinalize_VitaminD3NoChanges(t *testing.T) {
	f := newTestFinalizer()
	in := []model.ResolvedIngredient{
		resolved("VITAMIN D3", "LETTER VITAMINS", "VITAMIN D", 0, 1.0),
	}
	attrs := model.Attributes{
		Count: model.Attribute{Value: "120"},
		Unit:  model.Attribute{Value: "COUNT"},
	}

	res, err := f.Finalize(in, Demographics{}, "Vitamin D3 5000 IU Softgels 120 Count", attrs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Classification.HasChanges {
		t.Error("expected no classification changes")
	}
	if res.Tier != model.TierPriority {
		t.Errorf("expected PRIORITY VMS, got %s", res.Tier)
	}
	if res.HealthFocus.Focus != "BONE HEALTH" {
		t.Errorf("expected BONE HEALTH, got %q", res.HealthFocus.Focus)
	}
	if res.Attributes.Count.Value != "120" || res.Attributes.Unit.Value != "COUNT" {
		t.Errorf("discrete units must pass through, got %q %q",
			res.Attributes.Count.Value, res.Attributes.Unit.Value)
	}
	if len(res.CombosApplied) != 0 {
		t.Errorf("expected no combos, got %v", res.CombosApplied)
	}
}

func TestFinalize_ComboDrivesClassification(t *testing.T) {
	f := newTestFinalizer()
	in := []model.ResolvedIngredient{
		resolved("GLUCOSAMINE", "JOINT HEALTH", "GLUCOSAMINE", 0, 1.0),
		resolved("CHONDROITIN", "JOINT HEALTH", "CHONDROITIN", 12, 1.0),
		resolved("MSM", "JOINT HEALTH", "MSM", 24, 1.0),
	}

	res, err := f.Finalize(in, Demographics{}, "Glucosamine Chondroitin MSM", model.Attributes{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(res.Ingredients) != 2 {
		t.Fatalf("expected 2 ingredients after merge, got %d", len(res.Ingredients))
	}
	if res.Ingredients[0].CanonicalName != "GLUCOSAMINE CHONDROITIN COMBO" {
		t.Errorf("expected combo first, got %q", res.Ingredients[0].CanonicalName)
	}
	if res.Classification.PrimaryIngredient != "GLUCOSAMINE CHONDROITIN COMBO" {
		t.Errorf("classification must reflect the merged primary, got %q", res.Classification.PrimaryIngredient)
	}
	if res.Classification.FinalSubcategory != "GLUCOSAMINE CHONDROITIN" {
		t.Errorf("expected GLUCOSAMINE CHONDROITIN, got %q", res.Classification.FinalSubcategory)
	}
	if res.HealthFocus.Focus != "JOINT HEALTH" {
		t.Errorf("expected JOINT HEALTH focus, got %q", res.HealthFocus.Focus)
	}
}

func TestFinalize_PrenatalMultivitamin(t *testing.T) {
	f := newTestFinalizer()
	in := []model.ResolvedIngredient{
		resolved("MULTIVITAMIN", "COMBINED MULTIVITAMINS", "COMBINED MULTIVITAMINS", 0, 1.0),
	}
	demo := Demographics{AgeGroup: model.AgeAdult, Gender: model.GenderFemale}

	res, err := f.Finalize(in, demo, "Prenatal Multivitamin with Folate", model.Attributes{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Classification.FinalSubcategory != "PRENATAL" {
		t.Errorf("expected PRENATAL, got %q", res.Classification.FinalSubcategory)
	}
	found := false
	for _, rule := range res.Classification.RulesApplied {
		if strings.Contains(rule, "demographic refinement") {
			found = true
		}
	}
	if !found {
		t.Errorf("demographic stage must be recorded, got %v", res.Classification.RulesApplied)
	}
}

func TestFinalize_EmptyInput(t *testing.T) {
	f := newTestFinalizer()
	if _, err := f.Finalize(nil, Demographics{}, "anything", model.Attributes{}); err == nil {
		t.Error("expected error for empty input")
	}
}

func TestTierFor(t *testing.T) {
	f := newTestFinalizer()
	tests := []struct {
		category string
		want     model.Tier
	}{
		{"OTC", model.TierOTC},
		{"", model.TierRemove},
		{"REMOVE", model.TierRemove},
		{"ACTIVE NUTRITION", model.TierNonPriority},
		{"LETTER VITAMINS", model.TierPriority},
		{"JOINT HEALTH", model.TierPriority},
		{"active nutrition", model.TierNonPriority},
	}

	for _, tt := range tests {
		if got := f.TierFor(tt.category); got != tt.want {
			t.Errorf("TierFor(%q) = %s, want %s", tt.category, got, tt.want)
		}
	}
}

func TestConvertUnits(t *testing.T) {
	units := refdata.DefaultRules().Units

	tests := []struct {
		name      string
		count     string
		unit      string
		wantCount string
		wantUnit  string
	}{
		{"pounds", "2", "lb", "32", "OZ"},
		{"kilograms", "1", "kg", "35.274", "OZ"},
		{"count untouched", "120", "COUNT", "120", "COUNT"},
		{"canonical renamed", "16", "ounces", "16", "OZ"},
		{"unknown unit passthrough", "3", "furlong", "3", "furlong"},
		{"unknown sentinel passthrough", "UNKNOWN", "lb", "UNKNOWN", "lb"},
		{"empty passthrough", "", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attrs := model.Attributes{
				Count: model.Attribute{Value: tt.count},
				Unit:  model.Attribute{Value: tt.unit},
			}
			got := ConvertUnits(attrs, units)
			if got.Count.Value != tt.wantCount {
				t.Errorf("count = %q, want %q", got.Count.Value, tt.wantCount)
			}
			if got.Unit.Value != tt.wantUnit {
				t.Errorf("unit = %q, want %q", got.Unit.Value, tt.wantUnit)
			}
		})
	}
}

func TestConvertUnits_RecordsReasoning(t *testing.T) {
	units := refdata.DefaultRules().Units
	attrs := model.Attributes{
		Count: model.Attribute{Value: "2", Reasoning: "title says 2 lb"},
		Unit:  model.Attribute{Value: "lb"},
	}

	got := ConvertUnits(attrs, units)
	if !strings.Contains(got.Count.Reasoning, "title says 2 lb") {
		t.Errorf("original reasoning must be preserved, got %q", got.Count.Reasoning)
	}
	if !strings.Contains(got.Count.Reasoning, "converted") {
		t.Errorf("conversion note must be appended, got %q", got.Count.Reasoning)
	}
}
