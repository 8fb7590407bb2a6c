// Package rules implements the deterministic classification layer: combo
// merging, primary selection, the ordered override chain, and the final
// tier/health-focus/unit derivation. Everything here is a pure function
// over the reference store's rule tables.
package rules

import (
	"strings"

	"github.com/adurasov/nutricode/internal/model"
	"github.com/adurasov/nutricode/internal/refdata"
)

// MergeCombos rewrites the resolved list, replacing each declared
// ingredient combination with one synthetic entry. Combos are evaluated in
// declared order; an entry consumed by one combo (including the synthetic
// replacement) is not eligible for a later combo in the same pass.
// Surviving entries keep their relative order.
func MergeCombos(resolved []model.ResolvedIngredient, combos []refdata.ComboRule) ([]model.ResolvedIngredient, []string) {
	if len(resolved) == 0 || len(combos) == 0 {
		return resolved, nil
	}

	out := make([]model.ResolvedIngredient, len(resolved))
	copy(out, resolved)
	consumed := make(map[string]bool) // canonical names already merged
	var applied []string

	for _, combo := range combos {
		members := memberIndices(out, combo, consumed)
		if !coversRequired(out, members, combo) {
			continue
		}
		if combo.Condition == "no_other_vitamins" && hasOtherVitamins(out, combo) {
			continue
		}

		first := members[0]
		synthetic := model.ResolvedIngredient{
			Mention:       out[first].Mention,
			CanonicalName: combo.Name,
			Category:      combo.Category,
			Subcategory:   combo.Subcategory,
			Strategy:      out[first].Strategy,
			Confidence:    minConfidence(out, members),
		}

		next := out[:0:0]
		for i, entry := range out {
			if i == first {
				next = append(next, synthetic)
				continue
			}
			drop := false
			for _, m := range members[1:] {
				if i == m {
					drop = true
					break
				}
			}
			if !drop {
				next = append(next, entry)
			}
		}
		out = next

		consumed[strings.ToUpper(combo.Name)] = true
		applied = append(applied, combo.Name)
	}

	return out, applied
}

// memberIndices returns the indices of entries matching any required name,
// skipping entries that earlier combos produced.
func memberIndices(entries []model.ResolvedIngredient, combo refdata.ComboRule, consumed map[string]bool) []int {
	var members []int
	for i, e := range entries {
		name := strings.ToUpper(e.CanonicalName)
		if consumed[name] {
			continue
		}
		for _, req := range combo.Required {
			if nameMatches(name, strings.ToUpper(req), combo.MatchMode) {
				members = append(members, i)
				break
			}
		}
	}
	return members
}

// coversRequired checks that every required name has at least one member.
func coversRequired(entries []model.ResolvedIngredient, members []int, combo refdata.ComboRule) bool {
	if len(members) == 0 {
		return false
	}
	for _, req := range combo.Required {
		reqUpper := strings.ToUpper(req)
		found := false
		for _, i := range members {
			if nameMatches(strings.ToUpper(entries[i].CanonicalName), reqUpper, combo.MatchMode) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// hasOtherVitamins reports whether a vitamin-category entry outside the
// combo's required set is present, which vetoes conditional combos.
func hasOtherVitamins(entries []model.ResolvedIngredient, combo refdata.ComboRule) bool {
	for _, e := range entries {
		name := strings.ToUpper(e.CanonicalName)
		if !strings.Contains(name, "VITAMIN") {
			continue
		}
		member := false
		for _, req := range combo.Required {
			if nameMatches(name, strings.ToUpper(req), combo.MatchMode) {
				member = true
				break
			}
		}
		if !member {
			return true
		}
	}
	return false
}

func nameMatches(name, required, mode string) bool {
	if mode == "exact" {
		return name == required
	}
	return strings.Contains(name, required)
}

func minConfidence(entries []model.ResolvedIngredient, members []int) float64 {
	conf := 1.0
	for _, i := range members {
		if entries[i].Confidence < conf {
			conf = entries[i].Confidence
		}
	}
	return conf
}
