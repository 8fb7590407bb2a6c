package refdata

import "fmt"

// RuleSet is the declarative rule content: combos, overrides and
// refinement tables. It is plain validated data; ordering within each
// slice is the evaluation order.
type RuleSet struct {
	Combos              []ComboRule          `json:"combos"`
	TitleOverrides      []TitleOverride      `json:"title_overrides"`
	IngredientOverrides []IngredientOverride `json:"ingredient_overrides"`
	ProteinFamily       ProteinFamilyRule    `json:"protein_family"`
	HerbFormula         HerbFormulaRule      `json:"herb_formula"`
	Demographic         DemographicRule      `json:"demographic"`
	Tiers               TierRules            `json:"tiers"`
	Units               UnitRules            `json:"units"`
	Disambiguations     []Disambiguation     `json:"disambiguations"`
	AlwaysPrimary       []string             `json:"always_primary"`
	FilterKeywords      []FilterKeyword      `json:"filter_keywords"`
}

// ComboRule merges a fixed set of co-occurring ingredients into one
// synthetic entry. Required names match against canonical names by
// substring ("contains") or equality ("exact").
type ComboRule struct {
	Name        string   `json:"combo_name"`
	Required    []string `json:"required_ingredients"`
	MatchMode   string   `json:"match_mode,omitempty"` // "contains" (default) or "exact"
	Condition   string   `json:"condition,omitempty"`  // "" or "no_other_vitamins"
	Category    string   `json:"combo_category"`
	Subcategory string   `json:"combo_subcategory"`
}

// TitleOverride unconditionally sets category/subcategory when any of its
// phrases appears in the title.
type TitleOverride struct {
	Label       string   `json:"label"`
	Phrases     []string `json:"phrases"`
	Category    string   `json:"category"`
	Subcategory string   `json:"subcategory"`
}

// IngredientOverride pins specific canonical primary-ingredient names to a
// fixed category/subcategory. Contains entries match by substring.
type IngredientOverride struct {
	Label       string   `json:"label"`
	Names       []string `json:"names,omitempty"`
	Contains    []string `json:"contains,omitempty"`
	Category    string   `json:"category"`
	Subcategory string   `json:"subcategory"`
}

// ProteinFamilyRule forces the protein family category when the primary
// canonical name carries a family keyword, then refines the subcategory
// from plant/animal source keywords found anywhere in the title.
type ProteinFamilyRule struct {
	Keywords           []string          `json:"keywords"`
	Category           string            `json:"category"`
	DefaultSubcategory string            `json:"default_subcategory"`
	PlantSources       map[string]string `json:"plant_sources"`  // keyword -> single-source label
	AnimalSources      map[string]string `json:"animal_sources"` // keyword -> single-source label
	PlantMulti         string            `json:"plant_multi"`
	AnimalMulti        string            `json:"animal_multi"`
	MixedCombo         string            `json:"mixed_combo"`
}

// HerbFormulaRule counts resolved ingredients in a sub-family and sets the
// singles/formulas subcategory within the family category.
type HerbFormulaRule struct {
	Category string `json:"category"`
	Singles  string `json:"singles"`
	Formulas string `json:"formulas"`
}

// DemographicRule refines the subcategory within one category family from
// age group and gender, with a title life-stage keyword overriding every
// computed result.
type DemographicRule struct {
	Category          string   `json:"category"`
	LifeStageKeywords []string `json:"life_stage_keywords"`
	LifeStageLabel    string   `json:"life_stage_label"`
}

// TierRules maps final categories to coarse priority tiers. Evaluated
// top-to-bottom, first match wins; Default applies when nothing matched.
type TierRules struct {
	OTCCategories         []string `json:"otc_categories"`
	RemoveCategories      []string `json:"remove_categories"`
	NonPriorityCategories []string `json:"non_priority_categories"`
	Default               string   `json:"default"`
}

// UnitRules holds the multiplicative conversion factors into the
// canonical display unit. Discrete units are never converted.
type UnitRules struct {
	CanonicalUnit string             `json:"canonical_unit"`
	Factors       map[string]float64 `json:"factors"`
	DiscreteUnits []string           `json:"discrete_units"`
}

// Disambiguation is a context-dependent resolution rule: when every
// trigger term occurs in the title, a mention matching ApplyTo is resolved
// using the compound Query instead of the mention text.
type Disambiguation struct {
	TriggerTerms []string `json:"trigger_terms"`
	ApplyTo      string   `json:"apply_to"`
	Query        string   `json:"query"`
}

// FilterKeyword marks a title as non-applicable (FILTERED) unless an
// exception term is also present.
type FilterKeyword struct {
	Keyword    string   `json:"keyword"`
	Category   string   `json:"category"`
	Exceptions []string `json:"exceptions,omitempty"`
}

// Validate rejects structurally broken rules at load time.
func (r *RuleSet) Validate() error {
	for _, c := range r.Combos {
		if c.Name == "" || len(c.Required) < 2 {
			return fmt.Errorf("combo %q: needs a name and at least two required ingredients", c.Name)
		}
		if c.Category == "" || c.Subcategory == "" {
			return fmt.Errorf("combo %q: missing target category/subcategory", c.Name)
		}
		switch c.MatchMode {
		case "", "contains", "exact":
		default:
			return fmt.Errorf("combo %q: unknown match_mode %q", c.Name, c.MatchMode)
		}
		switch c.Condition {
		case "", "no_other_vitamins":
		default:
			return fmt.Errorf("combo %q: unknown condition %q", c.Name, c.Condition)
		}
	}
	for _, o := range r.TitleOverrides {
		if len(o.Phrases) == 0 || o.Category == "" {
			return fmt.Errorf("title override %q: incomplete", o.Label)
		}
	}
	for _, o := range r.IngredientOverrides {
		if len(o.Names) == 0 && len(o.Contains) == 0 {
			return fmt.Errorf("ingredient override %q: no matchers", o.Label)
		}
		if o.Category == "" {
			return fmt.Errorf("ingredient override %q: missing category", o.Label)
		}
	}
	if r.Units.CanonicalUnit == "" {
		return fmt.Errorf("units: canonical unit not set")
	}
	for unit, factor := range r.Units.Factors {
		if factor <= 0 {
			return fmt.Errorf("units: non-positive factor for %q", unit)
		}
	}
	for _, d := range r.Disambiguations {
		if len(d.TriggerTerms) == 0 || d.ApplyTo == "" || d.Query == "" {
			return fmt.Errorf("disambiguation rule incomplete (apply_to=%q)", d.ApplyTo)
		}
	}
	return nil
}
