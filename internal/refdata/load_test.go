package refdata

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	s, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.Ingredients) == 0 || len(s.HealthFocus) == 0 {
		t.Error("builtin tables must not be empty")
	}
	if len(s.Rules.Combos) == 0 || len(s.Rules.FilterKeywords) == 0 {
		t.Error("builtin rules must not be empty")
	}
}

func TestLoad_FromDirectory(t *testing.T) {
	dir := t.TempDir()

	ingredients := "ingredient,keyword,nw_category,nw_subcategory\n" +
		"VITAMIN D3,vitamin d3,LETTER VITAMINS,VITAMIN D\n" +
		"GLUCOSAMINE,glucosamine,JOINT HEALTH,GLUCOSAMINE\n" +
		",,SKIPPED,ROW\n"
	focus := "ingredient,health_focus\n" +
		"GLUCOSAMINE,JOINT HEALTH\n" +
		"VITAMIN D3,BONE HEALTH\n"

	if err := os.WriteFile(filepath.Join(dir, "ingredient_category_lookup.csv"), []byte(ingredients), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "ingredient_health_focus_lookup.csv"), []byte(focus), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.Ingredients) != 2 {
		t.Errorf("expected 2 ingredients (blank row skipped), got %d", len(s.Ingredients))
	}
	if s.Ingredients[0].Canonical != "VITAMIN D3" || s.Ingredients[0].Subcategory != "VITAMIN D" {
		t.Errorf("unexpected first entry: %+v", s.Ingredients[0])
	}
	if len(s.HealthFocus) != 2 {
		t.Errorf("expected 2 focus entries, got %d", len(s.HealthFocus))
	}

	// No rules.json: shipped rules apply.
	if len(s.Rules.Combos) == 0 {
		t.Error("missing rules.json must fall back to shipped rules")
	}
}

func TestLoad_RulesOverride(t *testing.T) {
	dir := t.TempDir()

	files := map[string]string{
		"ingredient_category_lookup.csv":     "ingredient,keyword,nw_category,nw_subcategory\nZINC,zinc,BASIC VITAMINS & MINERALS,MINERALS\n",
		"ingredient_health_focus_lookup.csv": "ingredient,health_focus\nZINC,IMMUNE SUPPORT\n",
		"rules.json":                         `{"always_primary": ["CUSTOM MARKER"]}`,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	s, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.Rules.AlwaysPrimary) != 1 || s.Rules.AlwaysPrimary[0] != "CUSTOM MARKER" {
		t.Errorf("rules.json must override shipped fields, got %v", s.Rules.AlwaysPrimary)
	}
	// Untouched fields keep shipped content.
	if len(s.Rules.Combos) == 0 {
		t.Error("unspecified rule fields must keep shipped defaults")
	}
}

func TestLoad_MissingTables(t *testing.T) {
	if _, err := Load(t.TempDir()); err == nil {
		t.Error("expected error for missing CSV tables")
	}
}

func TestLoad_MissingColumns(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "ingredient_category_lookup.csv"),
		[]byte("name,category\nZINC,MINERALS\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dir); err == nil {
		t.Error("expected error for missing required columns")
	}
}

func TestRuleSetValidate(t *testing.T) {
	good := DefaultRules()
	if err := good.Validate(); err != nil {
		t.Errorf("shipped rules must validate: %v", err)
	}

	bad := DefaultRules()
	bad.Units.Factors["lb"] = -1
	if err := bad.Validate(); err == nil {
		t.Error("expected error for non-positive unit factor")
	}

	broken := DefaultRules()
	broken.Combos[0].Required = nil
	if err := broken.Validate(); err == nil {
		t.Error("expected error for combo without required names")
	}
}

func TestStoreValidate(t *testing.T) {
	empty := &Store{Rules: DefaultRules()}
	if err := empty.Validate(); err == nil {
		t.Error("expected error for empty ingredient table")
	}

	missing := &Store{
		Ingredients: []IngredientEntry{{Canonical: "ZINC", Category: "", Subcategory: "MINERALS"}},
		Rules:       DefaultRules(),
	}
	if err := missing.Validate(); err == nil {
		t.Error("expected error for missing category")
	}
}
