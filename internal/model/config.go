package model

import "time"

// Config holds the complete runtime configuration. Values are resolved by
// the CLI layer (flags > env > config file > defaults) and injected into
// constructors; nothing reads configuration ad hoc.
type Config struct {
	Extraction  ExtractionConfig  `yaml:"extraction"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Retry       RetryConfig       `yaml:"retry"`
	Resolver    ResolverConfig    `yaml:"resolver"`
	State       StateConfig       `yaml:"state"`
	Reference   ReferenceConfig   `yaml:"reference"`
	Output      OutputConfig      `yaml:"output"`
}

// ExtractionConfig configures the extraction-service client.
type ExtractionConfig struct {
	// Provider name: "openai" or "" (disabled; resolver-only runs).
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"api_key,omitempty"`
	BaseURL  string `yaml:"base_url,omitempty"`
	Timeout  int    `yaml:"timeout"` // seconds, per request

	// MaxToolRounds bounds the tool-calling loop so a conversation always
	// terminates.
	MaxToolRounds int `yaml:"max_tool_rounds"`

	// Client-side request throttle.
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// ConcurrencyConfig bounds the worker pool.
type ConcurrencyConfig struct {
	Workers int `yaml:"workers"`
}

// RetryConfig is the retry policy applied to transient extraction
// failures.
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	BaseDelay   time.Duration `yaml:"base_delay"`
	MaxDelay    time.Duration `yaml:"max_delay"`
	Jitter      bool          `yaml:"jitter"`
}

// ResolverConfig holds the match-acceptance thresholds.
type ResolverConfig struct {
	// FuzzyThreshold is the minimum normalized similarity (0-1) for a
	// fuzzy match to be accepted.
	FuzzyThreshold float64 `yaml:"fuzzy_threshold"`

	// RankedFloor is the minimum raw BM25 score for a ranked match.
	RankedFloor float64 `yaml:"ranked_floor"`

	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// StateConfig selects and locates the state store.
type StateConfig struct {
	// Driver: "sqlite" or "memory".
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
}

// ReferenceConfig locates the reference tables. Empty Dir means the
// built-in defaults.
type ReferenceConfig struct {
	Dir string `yaml:"dir,omitempty"`
}

// OutputConfig controls report output.
type OutputConfig struct {
	Dir     string `yaml:"dir"`
	Verbose bool   `yaml:"verbose"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Extraction: ExtractionConfig{
			Provider:          "openai",
			Model:             "gpt-4o-mini",
			Timeout:           30,
			MaxToolRounds:     8,
			RequestsPerSecond: 10,
			Burst:             20,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 100,
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			BaseDelay:   2 * time.Second,
			MaxDelay:    30 * time.Second,
			Jitter:      true,
		},
		Resolver: ResolverConfig{
			FuzzyThreshold: 0.85,
			RankedFloor:    5.0,
			CacheTTL:       time.Hour,
		},
		State: StateConfig{
			Driver: "sqlite",
			Path:   "nutricode-state.db",
		},
		Output: OutputConfig{
			Dir: "./nutricode-reports",
		},
	}
}
