package extraction

import (
	"fmt"

	"github.com/adurasov/nutricode/internal/model"
)

// NewProvider creates an extraction provider from configuration.
func NewProvider(cfg model.ExtractionConfig, lookup IngredientLookup) (Provider, error) {
	switch cfg.Provider {
	case "openai":
		return NewOpenAIProvider(cfg, lookup)
	case "":
		return nil, fmt.Errorf("no extraction provider configured")
	default:
		return nil, fmt.Errorf("unknown extraction provider: %s", cfg.Provider)
	}
}
