// Package refdata loads the read-only reference tables that drive
// resolution and classification. A Store is loaded once per run, validated
// at load time, and shared by all workers without locking.
package refdata

import "fmt"

// IngredientEntry maps a canonical ingredient name (and an optional search
// keyword variant) to its category and subcategory.
type IngredientEntry struct {
	Canonical   string `json:"ingredient"`
	Keyword     string `json:"keyword,omitempty"`
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
}

// HealthFocusEntry maps a canonical ingredient name to a wellness-benefit
// category.
type HealthFocusEntry struct {
	Ingredient string `json:"ingredient"`
	Focus      string `json:"health_focus"`
}

// Store is the immutable reference data set.
type Store struct {
	Ingredients []IngredientEntry
	HealthFocus []HealthFocusEntry
	Rules       RuleSet
}

// Validate checks structural integrity once at load time so the hot path
// can trust the tables.
func (s *Store) Validate() error {
	if len(s.Ingredients) == 0 {
		return fmt.Errorf("ingredient table is empty")
	}
	for i, e := range s.Ingredients {
		if e.Canonical == "" {
			return fmt.Errorf("ingredient row %d: empty canonical name", i)
		}
		if e.Category == "" || e.Subcategory == "" {
			return fmt.Errorf("ingredient %q: missing category or subcategory", e.Canonical)
		}
	}
	for i, e := range s.HealthFocus {
		if e.Ingredient == "" || e.Focus == "" {
			return fmt.Errorf("health focus row %d: incomplete", i)
		}
	}
	return s.Rules.Validate()
}
