package rules

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/adurasov/nutricode/internal/model"
	"github.com/adurasov/nutricode/internal/refdata"
	"github.com/adurasov/nutricode/internal/resolve"
)

// Finalizer derives the emitted result: combo-aware classification, health
// focus, priority tier and unit normalization.
type Finalizer struct {
	engine *Engine
	focus  *resolve.FocusIndex
	rules  refdata.RuleSet
}

// NewFinalizer builds a finalizer over the loaded rule set and the
// health-focus matcher.
func NewFinalizer(store *refdata.Store, focus *resolve.FocusIndex) *Finalizer {
	return &Finalizer{
		engine: NewEngine(store.Rules),
		focus:  focus,
		rules:  store.Rules,
	}
}

// Finalize runs the deterministic tail of the pipeline for one record.
// Classification is computed on the pre-merge list first; if combo merging
// changed the primary ingredient identity, the rule chain is re-applied on
// the merged list so the emitted reasoning reflects final state.
func (f *Finalizer) Finalize(resolved []model.ResolvedIngredient, demo Demographics, title string, attrs model.Attributes) (*model.FinalResult, error) {
	prePrimary, err := SelectPrimary(resolved, f.rules.AlwaysPrimary)
	if err != nil {
		return nil, err
	}
	classification := f.engine.Classify(resolved, prePrimary, demo, title)

	merged, combosApplied := MergeCombos(resolved, f.rules.Combos)
	primary := prePrimary
	if len(combosApplied) > 0 {
		primary, err = SelectPrimary(merged, f.rules.AlwaysPrimary)
		if err != nil {
			return nil, err
		}
		if primary.CanonicalName != prePrimary.CanonicalName {
			classification = f.engine.Classify(merged, primary, demo, title)
		}
	}

	focusName := primary.CanonicalName
	if focusName == "" {
		focusName = primary.Mention.RawName
	}

	return &model.FinalResult{
		Classification: classification,
		HealthFocus:    f.focus.Lookup(focusName),
		Tier:           f.TierFor(classification.FinalCategory),
		Ingredients:    merged,
		CombosApplied:  combosApplied,
		Attributes:     ConvertUnits(attrs, f.rules.Units),
	}, nil
}

// TierFor maps a final category to its priority tier. Rules evaluate
// top-to-bottom, first match wins.
func (f *Finalizer) TierFor(category string) model.Tier {
	cat := strings.ToUpper(strings.TrimSpace(category))

	for _, c := range f.rules.Tiers.OTCCategories {
		if cat == strings.ToUpper(c) {
			return model.TierOTC
		}
	}
	if cat == "" {
		return model.TierRemove
	}
	for _, c := range f.rules.Tiers.RemoveCategories {
		if cat == strings.ToUpper(c) {
			return model.TierRemove
		}
	}
	for _, c := range f.rules.Tiers.NonPriorityCategories {
		if cat == strings.ToUpper(c) {
			return model.TierNonPriority
		}
	}
	return model.Tier(f.rules.Tiers.Default)
}

// ConvertUnits normalizes weight/volume sizes into the canonical display
// unit using the fixed factor table. Discrete (count-style) units are
// never converted; unknown units pass through untouched.
func ConvertUnits(attrs model.Attributes, units refdata.UnitRules) model.Attributes {
	count := strings.TrimSpace(attrs.Count.Value)
	unit := strings.TrimSpace(attrs.Unit.Value)
	if count == "" || unit == "" || count == model.UnknownCategory || unit == model.UnknownCategory {
		return attrs
	}

	for _, discrete := range units.DiscreteUnits {
		if strings.EqualFold(unit, discrete) {
			return attrs
		}
	}

	if isCanonicalUnit(unit, units.CanonicalUnit) {
		attrs.Unit.Value = units.CanonicalUnit
		return attrs
	}

	factor, ok := units.Factors[strings.ToLower(unit)]
	if !ok {
		return attrs
	}

	value, err := strconv.ParseFloat(count, 64)
	if err != nil {
		return attrs
	}

	converted := value * factor
	note := fmt.Sprintf("converted %s %s to %s %s (factor %g)",
		count, unit, formatCount(converted), units.CanonicalUnit, factor)

	attrs.Count.Value = formatCount(converted)
	attrs.Count.Reasoning = appendReasoning(attrs.Count.Reasoning, note)
	attrs.Unit.Value = units.CanonicalUnit
	attrs.Unit.Reasoning = appendReasoning(attrs.Unit.Reasoning, note)
	return attrs
}

func isCanonicalUnit(unit, canonical string) bool {
	u := strings.ToLower(unit)
	switch u {
	case strings.ToLower(canonical), "ounce", "ounces", "fl oz", "fluid oz":
		return true
	}
	return false
}

func formatCount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func appendReasoning(existing, note string) string {
	if existing == "" {
		return note
	}
	return existing + " | " + note
}
