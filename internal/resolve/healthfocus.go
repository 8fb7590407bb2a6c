package resolve

import (
	"github.com/adurasov/nutricode/internal/model"
	"github.com/adurasov/nutricode/internal/refdata"
)

// Health-focus acceptance thresholds. The secondary table is small and
// curated, so the fuzzy bar sits higher than the ingredient lookup's while
// a low-confidence floor still catches near misses; unmatched never errors.
const (
	focusFuzzyHigh   = 0.90
	focusFuzzyLow    = 0.60
	focusRankedFloor = 5.0
	focusCrossCheck  = 0.75
	focusRankedHigh  = 10.0
)

// FocusIndex resolves a canonical ingredient name to a health focus using
// the same exact/fuzzy/ranked strategy as the ingredient resolver.
type FocusIndex struct {
	entries []refdata.HealthFocusEntry
	names   []string
	exact   map[string]int
	ranked  *bm25Index
}

// NewFocusIndex builds the health-focus matcher.
func NewFocusIndex(store *refdata.Store) *FocusIndex {
	idx := &FocusIndex{
		entries: store.HealthFocus,
		exact:   make(map[string]int),
	}

	docs := make([][]string, len(store.HealthFocus))
	for i, e := range store.HealthFocus {
		norm := normalize(e.Ingredient)
		idx.names = append(idx.names, norm)
		if _, dup := idx.exact[norm]; !dup {
			idx.exact[norm] = i
		}
		docs[i] = tokenize(e.Ingredient)
	}
	idx.ranked = newBM25Index(docs)

	return idx
}

// Lookup maps an ingredient name to its health focus. A miss yields the
// non-specific sentinel, never an error.
func (f *FocusIndex) Lookup(ingredient string) model.HealthFocus {
	norm := normalize(ingredient)
	if norm == "" || len(f.entries) == 0 {
		return nonSpecificFocus()
	}

	if i, ok := f.exact[norm]; ok {
		return f.found(i, model.MatchExact, 1.0)
	}

	bestIdx, bestScore := -1, 0.0
	for i, name := range f.names {
		if s := similarity(norm, name); s > bestScore {
			bestIdx, bestScore = i, s
		}
	}
	if bestIdx >= 0 && bestScore >= focusFuzzyHigh {
		return f.found(bestIdx, model.MatchFuzzy, bestScore)
	}

	// Ranked match for multi-word names, cross-checked against edit
	// distance so a shared common token alone does not win.
	if tokens := tokenize(ingredient); len(tokens) > 1 {
		if i, score := f.ranked.best(tokens); i >= 0 && score > focusRankedFloor {
			if score > focusRankedHigh || similarity(norm, f.names[i]) >= focusCrossCheck {
				return f.found(i, model.MatchRanked, rankConfidence(score))
			}
		}
	}

	if bestIdx >= 0 && bestScore >= focusFuzzyLow {
		return f.found(bestIdx, model.MatchFuzzy, bestScore)
	}

	return nonSpecificFocus()
}

func (f *FocusIndex) found(i int, strategy model.MatchStrategy, confidence float64) model.HealthFocus {
	return model.HealthFocus{
		Focus:      f.entries[i].Focus,
		Strategy:   strategy,
		Confidence: confidence,
	}
}

func nonSpecificFocus() model.HealthFocus {
	return model.HealthFocus{
		Focus:    model.HealthFocusNonSpecific,
		Strategy: model.MatchNotFound,
	}
}
