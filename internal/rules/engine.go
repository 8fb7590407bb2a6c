package rules

import (
	"fmt"
	"strings"

	"github.com/adurasov/nutricode/internal/model"
	"github.com/adurasov/nutricode/internal/refdata"
)

// Demographics are the extracted age group and gender values feeding the
// refinement stage.
type Demographics struct {
	AgeGroup string
	Gender   string
}

// Engine applies the ordered business-rule chain. Stages run in fixed
// priority order and each later stage may override an earlier one: the
// last applicable rule wins.
type Engine struct {
	rules refdata.RuleSet
}

// NewEngine builds a rule engine over the loaded rule set.
func NewEngine(rules refdata.RuleSet) *Engine {
	return &Engine{rules: rules}
}

// Classify produces the final category/subcategory for a record. The
// initial pair comes from the primary ingredient's resolution; each stage
// that actually changes state is recorded in RulesApplied.
func (e *Engine) Classify(resolved []model.ResolvedIngredient, primary model.ResolvedIngredient, demo Demographics, title string) model.ClassificationResult {
	res := model.ClassificationResult{
		InitialCategory:    primary.Category,
		InitialSubcategory: primary.Subcategory,
		FinalCategory:      primary.Category,
		FinalSubcategory:   primary.Subcategory,
		PrimaryIngredient:  primary.CanonicalName,
	}
	if res.PrimaryIngredient == "" {
		res.PrimaryIngredient = primary.Mention.RawName
	}

	titleUpper := strings.ToUpper(title)

	e.applyTitleOverrides(&res, titleUpper)
	e.applyIngredientOverrides(&res, primary)
	e.applyProteinFamily(&res, primary, titleUpper)
	e.applyHerbFormula(&res, resolved)
	e.applyDemographic(&res, demo, titleUpper)

	res.HasChanges = res.FinalCategory != res.InitialCategory || res.FinalSubcategory != res.InitialSubcategory
	return res
}

func (e *Engine) applyTitleOverrides(res *model.ClassificationResult, titleUpper string) {
	for _, o := range e.rules.TitleOverrides {
		for _, phrase := range o.Phrases {
			if strings.Contains(titleUpper, strings.ToUpper(phrase)) {
				e.set(res, o.Category, o.Subcategory,
					"title override (%s): title contains %q", o.Label, phrase)
				return
			}
		}
	}
}

func (e *Engine) applyIngredientOverrides(res *model.ClassificationResult, primary model.ResolvedIngredient) {
	name := strings.ToUpper(primary.CanonicalName)
	if name == "" {
		return
	}
	for _, o := range e.rules.IngredientOverrides {
		if ingredientOverrideMatches(o, name) {
			e.set(res, o.Category, o.Subcategory,
				"ingredient override (%s): primary is %q", o.Label, primary.CanonicalName)
			return
		}
	}
}

func ingredientOverrideMatches(o refdata.IngredientOverride, name string) bool {
	for _, n := range o.Names {
		if name == strings.ToUpper(n) {
			return true
		}
	}
	for _, sub := range o.Contains {
		if strings.Contains(name, strings.ToUpper(sub)) {
			return true
		}
	}
	return false
}

// applyProteinFamily forces the protein family category when the primary
// canonical name carries a family keyword, then refines the subcategory
// from plant/animal source keywords found anywhere in the title.
func (e *Engine) applyProteinFamily(res *model.ClassificationResult, primary model.ResolvedIngredient, titleUpper string) {
	rule := e.rules.ProteinFamily
	if rule.Category == "" {
		return
	}

	name := strings.ToUpper(primary.CanonicalName)
	if name == "" {
		name = strings.ToUpper(primary.Mention.RawName)
	}
	matched := false
	for _, kw := range rule.Keywords {
		if strings.Contains(name, strings.ToUpper(kw)) {
			matched = true
			break
		}
	}
	if !matched {
		return
	}

	sub, detail := proteinSubcategory(rule, titleUpper)
	e.set(res, rule.Category, sub, "protein family: primary %q, %s", primary.CanonicalName, detail)
}

// proteinSubcategory walks the source decision tree: a single source keyword
// yields its specific subtype, two or more in the same domain yield the
// multi subtype, and sources spanning plant and animal yield the combo.
func proteinSubcategory(rule refdata.ProteinFamilyRule, titleUpper string) (string, string) {
	var plantLabels, animalLabels []string
	for kw, label := range rule.PlantSources {
		if strings.Contains(titleUpper, strings.ToUpper(kw)) {
			plantLabels = append(plantLabels, label)
		}
	}
	for kw, label := range rule.AnimalSources {
		if strings.Contains(titleUpper, strings.ToUpper(kw)) {
			animalLabels = append(animalLabels, label)
		}
	}

	switch {
	case len(plantLabels) > 0 && len(animalLabels) > 0:
		return rule.MixedCombo, "plant and animal sources in title"
	case len(plantLabels) == 1:
		return plantLabels[0], "single plant source"
	case len(plantLabels) > 1:
		return rule.PlantMulti, fmt.Sprintf("%d plant sources", len(plantLabels))
	case len(animalLabels) == 1:
		return animalLabels[0], "single animal source"
	case len(animalLabels) > 1:
		return rule.AnimalMulti, fmt.Sprintf("%d animal sources", len(animalLabels))
	}
	return rule.DefaultSubcategory, "no source keywords"
}

// applyHerbFormula counts resolved ingredients in the herbal family and,
// when the running category is that family, sets singles vs formulas.
func (e *Engine) applyHerbFormula(res *model.ClassificationResult, resolved []model.ResolvedIngredient) {
	rule := e.rules.HerbFormula
	if rule.Category == "" || res.FinalCategory != rule.Category {
		return
	}

	count := 0
	for _, r := range resolved {
		if r.Category == rule.Category {
			count++
		}
	}

	switch {
	case count >= 2:
		e.set(res, rule.Category, rule.Formulas, "herb formula: %d herbal ingredients", count)
	case count == 1:
		e.set(res, rule.Category, rule.Singles, "herb formula: single herbal ingredient")
	}
}

// applyDemographic refines the subcategory within the multi-nutrient
// family. Child/teen ages win outright; otherwise gender and adult age
// combine; a life-stage title keyword overrides every computed result.
func (e *Engine) applyDemographic(res *model.ClassificationResult, demo Demographics, titleUpper string) {
	rule := e.rules.Demographic
	if rule.Category == "" || res.FinalCategory != rule.Category {
		return
	}

	for _, kw := range rule.LifeStageKeywords {
		if strings.Contains(titleUpper, strings.ToUpper(kw)) {
			e.set(res, rule.Category, rule.LifeStageLabel,
				"demographic refinement: title keyword %q", kw)
			return
		}
	}

	sub := demographicSubcategory(demo)
	if sub == "" {
		return
	}
	e.set(res, rule.Category, sub, "demographic refinement: age=%q gender=%q", demo.AgeGroup, demo.Gender)
}

func demographicSubcategory(demo Demographics) string {
	switch demo.AgeGroup {
	case model.AgeChild:
		return "CHILD"
	case model.AgeTeen:
		return "TEEN"
	}

	switch demo.Gender {
	case model.GenderMale:
		switch demo.AgeGroup {
		case model.AgeAdult, model.AgeNonSpecific:
			return "MEN"
		case model.AgeMatureAdult:
			return "MEN MATURE"
		}
		return "ADULT"
	case model.GenderFemale:
		switch demo.AgeGroup {
		case model.AgeAdult, model.AgeNonSpecific:
			return "WOMEN"
		case model.AgeMatureAdult:
			return "WOMEN MATURE"
		}
		return "ADULT"
	case model.GenderNonSpecific:
		switch demo.AgeGroup {
		case model.AgeAdult:
			return "ADULT"
		case model.AgeNonSpecific:
			return "NON-SPECIFIC"
		case model.AgeMatureAdult:
			return "MATURE ADULT"
		}
	}
	return ""
}

// set applies a stage result and records it only when it changes state.
func (e *Engine) set(res *model.ClassificationResult, category, subcategory, format string, args ...any) {
	if res.FinalCategory == category && res.FinalSubcategory == subcategory {
		return
	}
	res.FinalCategory = category
	res.FinalSubcategory = subcategory
	res.RulesApplied = append(res.RulesApplied, fmt.Sprintf(format, args...))
}
