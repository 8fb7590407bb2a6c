package cli

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/adurasov/nutricode/internal/extraction"
	"github.com/adurasov/nutricode/internal/model"
	"github.com/adurasov/nutricode/internal/pipeline"
	"github.com/adurasov/nutricode/internal/refdata"
	"github.com/adurasov/nutricode/internal/resolve"
	"github.com/adurasov/nutricode/internal/rules"
	"github.com/adurasov/nutricode/internal/state"
)

// app holds the assembled components for one command invocation.
type app struct {
	cfg   *model.Config
	store state.Store
	orch  *pipeline.Orchestrator
	log   *zap.Logger
}

func (a *app) close() {
	if a.store != nil {
		_ = a.store.Close()
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
}

// buildApp wires reference data, resolver, provider, state store and
// orchestrator from the effective configuration.
func buildApp(cfg *model.Config) (*app, error) {
	log, err := newLogger(cfg.Output.Verbose)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	store, err := refdata.Load(cfg.Reference.Dir)
	if err != nil {
		return nil, fmt.Errorf("load reference data: %w", err)
	}

	resolver := resolve.New(store, cfg.Resolver)
	focus := resolve.NewFocusIndex(store)
	finalizer := rules.NewFinalizer(store, focus)

	provider, err := extraction.NewProvider(cfg.Extraction, resolver)
	if err != nil {
		return nil, fmt.Errorf("init extraction provider: %w", err)
	}

	stateStore, err := state.Open(cfg.State)
	if err != nil {
		return nil, fmt.Errorf("open state store: %w", err)
	}

	orch := pipeline.NewOrchestrator(pipeline.Options{
		Provider:  provider,
		Resolver:  resolver,
		Finalizer: finalizer,
		Store:     stateStore,
		Rules:     store.Rules,
		Config:    cfg,
		Logger:    log,
	})

	return &app{cfg: cfg, store: stateStore, orch: orch, log: log}, nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// resolveAPIKey fills the API key from the environment when the config
// leaves it empty. Keys never live in the config file by default.
func resolveAPIKey(cfg *model.Config) error {
	if cfg.Extraction.APIKey != "" || cfg.Extraction.Provider != "openai" {
		return nil
	}
	cfg.Extraction.APIKey = os.Getenv("OPENAI_API_KEY")
	if cfg.Extraction.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}
	return nil
}
