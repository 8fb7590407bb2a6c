package refdata

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const (
	ingredientFile  = "ingredient_category_lookup.csv"
	healthFocusFile = "ingredient_health_focus_lookup.csv"
	rulesFile       = "rules.json"
)

// Load reads the reference tables from dir and validates them. An empty
// dir selects the built-in defaults. A missing rules.json falls back to
// the shipped rule content; the two CSV tables are required.
func Load(dir string) (*Store, error) {
	if dir == "" {
		s := Defaults()
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("builtin reference data: %w", err)
		}
		return s, nil
	}

	ingredients, err := loadIngredientCSV(filepath.Join(dir, ingredientFile))
	if err != nil {
		return nil, fmt.Errorf("load ingredient table: %w", err)
	}

	focus, err := loadHealthFocusCSV(filepath.Join(dir, healthFocusFile))
	if err != nil {
		return nil, fmt.Errorf("load health focus table: %w", err)
	}

	rules, err := loadRulesJSON(filepath.Join(dir, rulesFile))
	if err != nil {
		return nil, fmt.Errorf("load rules: %w", err)
	}

	s := &Store{Ingredients: ingredients, HealthFocus: focus, Rules: rules}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("validate reference data: %w", err)
	}
	return s, nil
}

func loadIngredientCSV(path string) ([]IngredientEntry, error) {
	rows, header, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	col := indexColumns(header, "ingredient", "keyword", "nw_category", "nw_subcategory")
	if col["ingredient"] < 0 || col["nw_category"] < 0 || col["nw_subcategory"] < 0 {
		return nil, fmt.Errorf("%s: missing required columns", filepath.Base(path))
	}

	var entries []IngredientEntry
	for _, row := range rows {
		canonical := strings.TrimSpace(field(row, col["ingredient"]))
		if canonical == "" {
			continue
		}
		entries = append(entries, IngredientEntry{
			Canonical:   canonical,
			Keyword:     strings.TrimSpace(field(row, col["keyword"])),
			Category:    strings.TrimSpace(field(row, col["nw_category"])),
			Subcategory: strings.TrimSpace(field(row, col["nw_subcategory"])),
		})
	}
	return entries, nil
}

func loadHealthFocusCSV(path string) ([]HealthFocusEntry, error) {
	rows, header, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	col := indexColumns(header, "ingredient", "health_focus")
	if col["ingredient"] < 0 || col["health_focus"] < 0 {
		return nil, fmt.Errorf("%s: missing required columns", filepath.Base(path))
	}

	var entries []HealthFocusEntry
	for _, row := range rows {
		ingredient := strings.TrimSpace(field(row, col["ingredient"]))
		focus := strings.TrimSpace(field(row, col["health_focus"]))
		if ingredient == "" || focus == "" {
			continue
		}
		entries = append(entries, HealthFocusEntry{Ingredient: ingredient, Focus: focus})
	}
	return entries, nil
}

func loadRulesJSON(path string) (RuleSet, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultRules(), nil
	}
	if err != nil {
		return RuleSet{}, err
	}

	rules := DefaultRules()
	if err := json.Unmarshal(data, &rules); err != nil {
		return RuleSet{}, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return rules, nil
}

func readCSV(path string) (rows [][]string, header []string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err = r.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}

	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read row: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, header, nil
}

func indexColumns(header []string, names ...string) map[string]int {
	col := make(map[string]int, len(names))
	for _, name := range names {
		col[name] = -1
	}
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		if _, wanted := col[h]; wanted {
			col[h] = i
		}
	}
	return col
}

func field(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
