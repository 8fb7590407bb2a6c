package refdata

// Defaults returns the built-in reference data set. Production runs
// normally load the full tables from disk; the built-ins mirror the shipped
// rule content and carry a working subset of the ingredient lookup so the
// pipeline is usable without external files.
func Defaults() *Store {
	return &Store{
		Ingredients: defaultIngredients(),
		HealthFocus: defaultHealthFocus(),
		Rules:       DefaultRules(),
	}
}

func defaultIngredients() []IngredientEntry {
	return []IngredientEntry{
		{Canonical: "VITAMIN D3", Keyword: "vitamin d3", Category: "LETTER VITAMINS", Subcategory: "VITAMIN D"},
		{Canonical: "VITAMIN D", Keyword: "vitamin d", Category: "LETTER VITAMINS", Subcategory: "VITAMIN D"},
		{Canonical: "VITAMIN A", Keyword: "vitamin a", Category: "LETTER VITAMINS", Subcategory: "VITAMIN A"},
		{Canonical: "VITAMIN C", Keyword: "vitamin c", Category: "LETTER VITAMINS", Subcategory: "VITAMIN C"},
		{Canonical: "VITAMIN E", Keyword: "vitamin e", Category: "LETTER VITAMINS", Subcategory: "VITAMIN E"},
		{Canonical: "VITAMIN B1", Keyword: "thiamine", Category: "LETTER VITAMINS", Subcategory: "VITAMIN B"},
		{Canonical: "VITAMIN B2", Keyword: "riboflavin", Category: "LETTER VITAMINS", Subcategory: "VITAMIN B"},
		{Canonical: "VITAMIN B6", Keyword: "pyridoxine", Category: "LETTER VITAMINS", Subcategory: "VITAMIN B"},
		{Canonical: "VITAMIN B12", Keyword: "cobalamin", Category: "LETTER VITAMINS", Subcategory: "VITAMIN B"},
		{Canonical: "MULTIVITAMIN", Keyword: "multiple vitamin", Category: "COMBINED MULTIVITAMINS", Subcategory: "COMBINED MULTIVITAMINS"},
		{Canonical: "CALCIUM", Keyword: "calcium", Category: "BASIC VITAMINS & MINERALS", Subcategory: "MINERALS"},
		{Canonical: "MAGNESIUM", Keyword: "magnesium", Category: "BASIC VITAMINS & MINERALS", Subcategory: "MINERALS"},
		{Canonical: "ZINC", Keyword: "zinc", Category: "BASIC VITAMINS & MINERALS", Subcategory: "MINERALS"},
		{Canonical: "GLUCOSAMINE", Keyword: "glucosamine", Category: "JOINT HEALTH", Subcategory: "GLUCOSAMINE"},
		{Canonical: "CHONDROITIN", Keyword: "chondroitin", Category: "JOINT HEALTH", Subcategory: "CHONDROITIN"},
		{Canonical: "MSM", Keyword: "methylsulfonylmethane", Category: "JOINT HEALTH", Subcategory: "MSM"},
		{Canonical: "ECHINACEA", Keyword: "echinacea", Category: "HERBAL REMEDIES", Subcategory: "SINGLES"},
		{Canonical: "GOLDENSEAL", Keyword: "goldenseal", Category: "HERBAL REMEDIES", Subcategory: "SINGLES"},
		{Canonical: "GINGER", Keyword: "ginger root", Category: "HERBAL REMEDIES", Subcategory: "SINGLES"},
		{Canonical: "TURMERIC", Keyword: "curcumin", Category: "HERBAL REMEDIES", Subcategory: "SINGLES"},
		{Canonical: "GREEN TEA", Keyword: "green tea extract", Category: "HERBAL REMEDIES", Subcategory: "SINGLES"},
		{Canonical: "ASHWAGANDHA", Keyword: "withania somnifera", Category: "HERBAL REMEDIES", Subcategory: "SINGLES"},
		{Canonical: "ECHINACEA GOLDENSEAL COMBO", Keyword: "echinacea goldenseal", Category: "HERBAL REMEDIES", Subcategory: "FORMULAS"},
		{Canonical: "WHEY PROTEIN", Keyword: "whey", Category: "AMINO ACIDS", Subcategory: "AMINO ACIDS"},
		{Canonical: "PEA PROTEIN", Keyword: "pea protein", Category: "AMINO ACIDS", Subcategory: "AMINO ACIDS"},
		{Canonical: "COLLAGEN", Keyword: "collagen peptides", Category: "BEAUTY SUPPLEMENTS", Subcategory: "COLLAGEN"},
		{Canonical: "SAM E", Keyword: "s-adenosyl methionine", Category: "AMINO ACIDS", Subcategory: "AMINO ACIDS"},
		{Canonical: "SPIRULINA", Keyword: "spirulina", Category: "BASIC VITAMINS & MINERALS", Subcategory: "MINERALS"},
		{Canonical: "CHLORELLA", Keyword: "chlorella", Category: "BASIC VITAMINS & MINERALS", Subcategory: "MINERALS"},
		{Canonical: "SEA MOSS", Keyword: "irish moss", Category: "BASIC VITAMINS & MINERALS", Subcategory: "MINERALS"},
		{Canonical: "CO-ENZYME Q 10 - UBIQUINOL", Keyword: "ubiquinol", Category: "COENZYME Q10", Subcategory: "COENZYME Q10"},
		{Canonical: "COENZYME Q10", Keyword: "coq10", Category: "COENZYME Q10", Subcategory: "COENZYME Q10"},
		{Canonical: "MELATONIN", Keyword: "melatonin", Category: "SLEEP & RELAXATION", Subcategory: "MELATONIN"},
		{Canonical: "FISH OIL", Keyword: "omega 3", Category: "FATTY ACIDS", Subcategory: "FISH OIL"},
		{Canonical: "PROBIOTICS", Keyword: "probiotic blend", Category: "DIGESTIVE HEALTH", Subcategory: "PROBIOTICS"},
		{Canonical: "CRANBERRY", Keyword: "cranberry extract", Category: "HERBAL REMEDIES", Subcategory: "SINGLES"},
		{Canonical: "CHOLINE AND INOSITOL (COMBO)", Keyword: "choline inositol", Category: "LETTER VITAMINS", Subcategory: "VITAMIN B"},
		{Canonical: "GLANDULAR", Keyword: "glandular extract", Category: "MISCELLANEOUS SUPPLEMENTS", Subcategory: "MISCELLANEOUS SUPPLEMENTS"},
	}
}

func defaultHealthFocus() []HealthFocusEntry {
	return []HealthFocusEntry{
		{Ingredient: "CALCIUM", Focus: "BONE HEALTH"},
		{Ingredient: "GLUCOSAMINE", Focus: "JOINT HEALTH"},
		{Ingredient: "GLUCOSAMINE CHONDROITIN COMBO", Focus: "JOINT HEALTH"},
		{Ingredient: "CHONDROITIN", Focus: "JOINT HEALTH"},
		{Ingredient: "MSM", Focus: "JOINT HEALTH"},
		{Ingredient: "MELATONIN", Focus: "SLEEP"},
		{Ingredient: "CRANBERRY", Focus: "URINARY TRACT HEALTH"},
		{Ingredient: "TURMERIC", Focus: "INFLAMMATION"},
		{Ingredient: "COLLAGEN", Focus: "SKIN & BEAUTY"},
		{Ingredient: "PROBIOTICS", Focus: "DIGESTIVE HEALTH"},
		{Ingredient: "FISH OIL", Focus: "HEART HEALTH"},
		{Ingredient: "VITAMIN D3", Focus: "BONE HEALTH"},
		{Ingredient: "VITAMIN C", Focus: "IMMUNE SUPPORT"},
		{Ingredient: "ECHINACEA", Focus: "IMMUNE SUPPORT"},
		{Ingredient: "ASHWAGANDHA", Focus: "STRESS & MOOD"},
		{Ingredient: "WHEY PROTEIN", Focus: "SPORTS PERFORMANCE"},
	}
}

// DefaultRules returns the shipped rule content.
func DefaultRules() RuleSet {
	return RuleSet{
		Combos: []ComboRule{
			{
				Name:        "GLUCOSAMINE CHONDROITIN COMBO",
				Required:    []string{"GLUCOSAMINE", "CHONDROITIN"},
				MatchMode:   "contains",
				Category:    "JOINT HEALTH",
				Subcategory: "GLUCOSAMINE CHONDROITIN",
			},
			{
				Name:        "VITAMIN B1 - B2 - B6 - B12",
				Required:    []string{"VITAMIN B1", "VITAMIN B2", "VITAMIN B6", "VITAMIN B12"},
				MatchMode:   "contains",
				Condition:   "no_other_vitamins",
				Category:    "LETTER VITAMINS",
				Subcategory: "VITAMIN B",
			},
			{
				Name:        "VITAMIN A & D COMBO",
				Required:    []string{"VITAMIN A", "VITAMIN D"},
				MatchMode:   "exact",
				Condition:   "no_other_vitamins",
				Category:    "LETTER VITAMINS",
				Subcategory: "VITAMIN A & D",
			},
		},
		TitleOverrides: []TitleOverride{
			{
				Label:       "protein powder",
				Phrases:     []string{"PROTEIN POWDER"},
				Category:    "ACTIVE NUTRITION",
				Subcategory: "PROTEIN & MEAL REPLACEMENTS",
			},
			{
				Label:       "weight management",
				Phrases:     []string{"WEIGHT LOSS", "WEIGHT MANAGEMENT"},
				Category:    "ACTIVE NUTRITION",
				Subcategory: "WEIGHT MANAGEMENT",
			},
		},
		IngredientOverrides: []IngredientOverride{
			{
				Label:       "sam-e",
				Names:       []string{"SAM E", "SAM-E"},
				Category:    "MISCELLANEOUS SUPPLEMENTS",
				Subcategory: "MISCELLANEOUS SUPPLEMENTS",
			},
			{
				Label: "algae group",
				Names: []string{
					"SPIRULINA BLUE GREEN ALGAE", "SPIRULINA", "ALGAE - OTHER", "ALGAE",
					"SEA MOSS", "CHLOROPHYLL / CHLORELLA", "CHLORELLA",
				},
				Category:    "HERBAL REMEDIES",
				Subcategory: "FOOD SUPPLEMENTS",
			},
			{
				Label:       "echinacea goldenseal",
				Names:       []string{"ECHINACEA GOLDENSEAL COMBO"},
				Category:    "HERBAL/HOMEOPATHIC COLD & FLU",
				Subcategory: "HERBAL FORMULAS COLD & FLU",
			},
			{
				Label:       "choline inositol",
				Names:       []string{"CHOLINE AND INOSITOL (COMBO)", "CHOLINE INOSITOL"},
				Category:    "MISCELLANEOUS SUPPLEMENTS",
				Subcategory: "MISCELLANEOUS SUPPLEMENTS",
			},
			{
				Label:       "ubiquinol",
				Names:       []string{"CO-ENZYME Q 10 - UBIQUINOL"},
				Contains:    []string{"UBIQUINOL"},
				Category:    "COENZYME Q10",
				Subcategory: "COENZYME Q10",
			},
			{
				Label:       "glandular",
				Names:       []string{"GLANDULAR"},
				Category:    "MISCELLANEOUS SUPPLEMENTS",
				Subcategory: "MISCELLANEOUS SUPPLEMENTS",
			},
		},
		ProteinFamily: ProteinFamilyRule{
			Keywords:           []string{"PROTEIN", "WHEY", "ISOLATE", "CASEIN"},
			Category:           "SPORTS NUTRITION",
			DefaultSubcategory: "PROTEIN",
			PlantSources: map[string]string{
				"PEA":  "PEA PROTEIN",
				"SOY":  "SOY PROTEIN",
				"RICE": "RICE PROTEIN",
				"HEMP": "HEMP PROTEIN",
			},
			AnimalSources: map[string]string{
				"WHEY":   "WHEY PROTEIN",
				"CASEIN": "CASEIN PROTEIN",
				"EGG":    "EGG PROTEIN",
				"BEEF":   "BEEF PROTEIN",
			},
			PlantMulti:  "PLANT PROTEIN MULTI",
			AnimalMulti: "ANIMAL PROTEIN MULTI",
			MixedCombo:  "PROTEIN COMBO",
		},
		HerbFormula: HerbFormulaRule{
			Category: "HERBAL REMEDIES",
			Singles:  "SINGLES",
			Formulas: "FORMULAS",
		},
		Demographic: DemographicRule{
			Category:          "COMBINED MULTIVITAMINS",
			LifeStageKeywords: []string{"PRENATAL", "POSTNATAL"},
			LifeStageLabel:    "PRENATAL",
		},
		Tiers: TierRules{
			OTCCategories:         []string{"OTC"},
			RemoveCategories:      []string{"REMOVE"},
			NonPriorityCategories: []string{"ACTIVE NUTRITION"},
			Default:               "PRIORITY VMS",
		},
		Units: UnitRules{
			CanonicalUnit: "OZ",
			Factors: map[string]float64{
				"lb": 16.0,
				"kg": 35.274,
				"g":  0.035274,
				"mg": 0.000035274,
				"ml": 0.033814,
			},
			DiscreteUnits: []string{"COUNT"},
		},
		Disambiguations: []Disambiguation{
			{
				// Echinacea alongside goldenseal is the combo product, not
				// the single herb.
				TriggerTerms: []string{"ECHINACEA", "GOLDENSEAL"},
				ApplyTo:      "ECHINACEA",
				Query:        "echinacea goldenseal",
			},
			{
				TriggerTerms: []string{"CHOLINE", "INOSITOL"},
				ApplyTo:      "CHOLINE",
				Query:        "choline inositol",
			},
		},
		AlwaysPrimary: []string{"MULTIVITAMIN", "MULTIPLE VITAMIN"},
		FilterKeywords: []FilterKeyword{
			{Keyword: "SHAMPOO", Category: "body care"},
			{Keyword: "LOTION", Category: "body care"},
			{Keyword: "DEODORANT", Category: "body care"},
			{Keyword: "BOOK", Category: "books/media", Exceptions: []string{"SUPPLEMENT"}},
			{Keyword: "T-SHIRT", Category: "apparel"},
			{Keyword: "RESISTANCE BAND", Category: "equipment"},
			{Keyword: "YOGA MAT", Category: "equipment"},
			{Keyword: "DOG", Category: "pet", Exceptions: []string{"HUMAN GRADE"}},
			{Keyword: "CAT TREAT", Category: "pet"},
		},
	}
}
