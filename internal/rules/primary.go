package rules

import (
	"errors"
	"strings"

	"github.com/adurasov/nutricode/internal/model"
)

// ErrNoIngredients is returned when a record resolves to an empty
// ingredient list. Callers classify such records as non-applicable rather
// than failing them.
var ErrNoIngredients = errors.New("no resolved ingredients")

// SelectPrimary picks the ingredient that drives category assignment: the
// lowest title position wins, unless an always-primary marker (a generic
// multi-nutrient blend name) is present, in which case that entry wins
// regardless of position. Ties among always-primary entries break by
// position.
func SelectPrimary(resolved []model.ResolvedIngredient, alwaysPrimary []string) (model.ResolvedIngredient, error) {
	if len(resolved) == 0 {
		return model.ResolvedIngredient{}, ErrNoIngredients
	}

	best := -1
	bestAlways := -1
	for i, e := range resolved {
		if best < 0 || e.Mention.Position < resolved[best].Mention.Position {
			best = i
		}
		if isAlwaysPrimary(e, alwaysPrimary) {
			if bestAlways < 0 || e.Mention.Position < resolved[bestAlways].Mention.Position {
				bestAlways = i
			}
		}
	}

	if bestAlways >= 0 {
		return resolved[bestAlways], nil
	}
	return resolved[best], nil
}

func isAlwaysPrimary(e model.ResolvedIngredient, markers []string) bool {
	canonical := strings.ToUpper(e.CanonicalName)
	raw := strings.ToUpper(e.Mention.RawName)
	for _, m := range markers {
		marker := strings.ToUpper(m)
		if strings.Contains(canonical, marker) || strings.Contains(raw, marker) {
			return true
		}
	}
	return false
}
