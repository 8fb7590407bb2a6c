package model

// Record is one raw input row: a product as it arrives from the feed,
// before any enrichment.
type Record struct {
	ID          string `json:"id"`
	Brand       string `json:"brand,omitempty"`
	Title       string `json:"title"`
	RawCategory string `json:"raw_category,omitempty"`
}

// IngredientMention is an ingredient name as reported by the extraction
// service. Position is the character offset of the mention in the source
// title and is never reordered; primary selection depends on it.
type IngredientMention struct {
	RawName  string `json:"raw_name"`
	Position int    `json:"position"`
}

// MatchStrategy labels which resolver tier produced a resolution.
type MatchStrategy string

const (
	MatchExact    MatchStrategy = "EXACT"
	MatchFuzzy    MatchStrategy = "FUZZY"
	MatchRanked   MatchStrategy = "RANKED"
	MatchNotFound MatchStrategy = "NOT_FOUND"
)

// UnknownCategory is the category/subcategory assigned when no resolver
// tier matched. A NOT_FOUND resolution never blocks a record.
const UnknownCategory = "UNKNOWN"

// ResolvedIngredient is a mention bound to a canonical reference entry.
// CanonicalName holds the reference store's normalized string, never the
// raw mention text, whenever Strategy != NOT_FOUND.
type ResolvedIngredient struct {
	Mention       IngredientMention `json:"mention"`
	CanonicalName string            `json:"canonical_name"`
	Category      string            `json:"category"`
	Subcategory   string            `json:"subcategory"`
	Strategy      MatchStrategy     `json:"match_strategy"`
	Confidence    float64           `json:"confidence"`
}

// Found reports whether any resolver tier matched.
func (r ResolvedIngredient) Found() bool {
	return r.Strategy != MatchNotFound
}

// Attribute is one extracted attribute value together with the extraction
// service's stated reasoning. Reasoning is carried verbatim into the audit
// record.
type Attribute struct {
	Value     string `json:"value"`
	Reasoning string `json:"reasoning,omitempty"`
}

// Attributes are the structured fields the extraction service reports for
// a title, beyond the ingredient mentions themselves.
type Attributes struct {
	AgeGroup Attribute `json:"age_group"`
	Gender   Attribute `json:"gender"`
	Form     Attribute `json:"form"`
	Organic  Attribute `json:"organic"`
	Count    Attribute `json:"count"`
	Unit     Attribute `json:"unit"`
	Size     Attribute `json:"size"`
	Potency  Attribute `json:"potency"`
}

// Extraction is the validated output of one extraction-service call.
type Extraction struct {
	Attributes Attributes          `json:"attributes"`
	Mentions   []IngredientMention `json:"ingredients"`
}

// Age group and gender sentinels used by the demographic refinement table.
// Values follow the reference taxonomy verbatim.
const (
	AgeChild       = "AGE GROUP - CHILD"
	AgeTeen        = "AGE GROUP - TEEN"
	AgeAdult       = "AGE GROUP - ADULT"
	AgeMatureAdult = "AGE GROUP - MATURE ADULT"
	AgeNonSpecific = "AGE GROUP - NON SPECIFIC"

	GenderMale        = "GENDER - MALE"
	GenderFemale      = "GENDER - FEMALE"
	GenderNonSpecific = "GENDER - NON SPECIFIC"
)
