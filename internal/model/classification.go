package model

// ClassificationResult is the rule engine's output for one record.
// HasChanges is true iff the final pair differs from the initial pair.
type ClassificationResult struct {
	InitialCategory    string   `json:"initial_category"`
	InitialSubcategory string   `json:"initial_subcategory"`
	FinalCategory      string   `json:"final_category"`
	FinalSubcategory   string   `json:"final_subcategory"`
	PrimaryIngredient  string   `json:"primary_ingredient"`
	RulesApplied       []string `json:"rules_applied,omitempty"`
	HasChanges         bool     `json:"has_changes"`
}

// Tier is the coarse priority classification derived from the final
// category.
type Tier string

const (
	TierPriority    Tier = "PRIORITY VMS"
	TierNonPriority Tier = "NON-PRIORITY VMS"
	TierOTC         Tier = "OTC"
	TierRemove      Tier = "REMOVE"
)

// HealthFocusNonSpecific is emitted when no health-focus entry matches the
// primary ingredient. An unmatched lookup is never an error.
const HealthFocusNonSpecific = "NON-SPECIFIC"

// HealthFocus is the secondary wellness-benefit assignment for the primary
// ingredient, recorded with its own match metadata for audit.
type HealthFocus struct {
	Focus      string        `json:"focus"`
	Strategy   MatchStrategy `json:"match_strategy"`
	Confidence float64       `json:"confidence"`
}

// FinalResult is the complete enrichment emitted for one record.
type FinalResult struct {
	Classification ClassificationResult `json:"classification"`
	HealthFocus    HealthFocus          `json:"health_focus"`
	Tier           Tier                 `json:"tier"`
	Ingredients    []ResolvedIngredient `json:"ingredients"`
	CombosApplied  []string             `json:"combos_applied,omitempty"`
	Attributes     Attributes           `json:"attributes"`
}

// Audit captures every decision made for a record so the outcome can be
// reconstructed without rerunning the pipeline.
type Audit struct {
	RecordID      string               `json:"record_id"`
	RunID         string               `json:"run_id"`
	Title         string               `json:"title"`
	Resolved      []ResolvedIngredient `json:"resolved"`
	CombosApplied []string             `json:"combos_applied,omitempty"`
	Result        *FinalResult         `json:"result,omitempty"`
	FilterReason  string               `json:"filter_reason,omitempty"`
	Error         string               `json:"error,omitempty"`
}
