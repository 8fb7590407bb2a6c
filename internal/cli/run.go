package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/adurasov/nutricode/internal/model"
	"github.com/adurasov/nutricode/internal/pipeline"
)

var (
	runID        string
	workers      int
	providerName string
	modelName    string
	stateDriver  string
	statePath    string
	referenceDir string
	outputDir    string
	rps          float64
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <input-file>",
	Short: "Enrich a batch of product records",
	Long: `Run processes an input file (CSV or JSONL) of product records:
- Extracts structured attributes and ingredient mentions per title
- Resolves mentions against the ingredient reference tables
- Applies the classification rule chain, combos, health focus and tier
- Persists per-record state so interrupted runs resume safely

Example:
  nutricode run products.csv
  nutricode run products.jsonl --run-id nightly-2026-08-24 --workers 50
  nutricode run products.csv --state memory --reference-dir ./refdata`,
	Args: cobra.ExactArgs(1),
	RunE: runEnrich,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runID, "run-id", "", "run identifier (default: random; reuse to resume)")
	runCmd.Flags().IntVar(&workers, "workers", 0, "concurrent workers (default from config)")
	runCmd.Flags().StringVar(&providerName, "provider", "", "extraction provider (default from config)")
	runCmd.Flags().StringVar(&modelName, "model", "", "extraction model name (default from config)")
	runCmd.Flags().StringVar(&stateDriver, "state", "", "state driver: sqlite or memory")
	runCmd.Flags().StringVar(&statePath, "state-path", "", "state database path")
	runCmd.Flags().StringVar(&referenceDir, "reference-dir", "", "reference table directory (default: built-in tables)")
	runCmd.Flags().StringVar(&outputDir, "output-dir", "", "report output directory")
	runCmd.Flags().Float64Var(&rps, "rps", 0, "extraction requests per second")
}

func runEnrich(cmd *cobra.Command, args []string) error {
	cfg := effectiveConfig()
	if err := resolveAPIKey(cfg); err != nil {
		return err
	}

	records, err := pipeline.ReadRecords(args[0])
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	if len(records) == 0 {
		return fmt.Errorf("no records in %s", args[0])
	}

	a, err := buildApp(cfg)
	if err != nil {
		return err
	}
	defer a.close()

	id := runID
	if id == "" {
		id = pipeline.NewRunID()
	}

	// Interrupt stops new claims; in-flight records finish and persist.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if verbose {
		fmt.Fprintf(os.Stderr, "Run ID: %s\n", id)
		fmt.Fprintf(os.Stderr, "Records: %d\n", len(records))
		fmt.Fprintf(os.Stderr, "Workers: %d\n\n", cfg.Concurrency.Workers)
	}

	report := a.orch.Run(ctx, id, records)

	if err := pipeline.WriteReport(report, cfg.Output.Dir); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	printSummary(report)
	if report.Summary.Errors > 0 {
		return fmt.Errorf("%d records failed; rerun with the same --run-id after 'nutricode resume %s' to retry", report.Summary.Errors, id)
	}
	return nil
}

// effectiveConfig layers flags over the defaults. Unset flags leave the
// defaults in place.
func effectiveConfig() *model.Config {
	cfg := model.DefaultConfig()
	cfg.Output.Verbose = verbose

	if workers > 0 {
		cfg.Concurrency.Workers = workers
	}
	if providerName != "" {
		cfg.Extraction.Provider = providerName
	}
	if modelName != "" {
		cfg.Extraction.Model = modelName
	}
	if stateDriver != "" {
		cfg.State.Driver = stateDriver
	}
	if statePath != "" {
		cfg.State.Path = statePath
	}
	if referenceDir != "" {
		cfg.Reference.Dir = referenceDir
	}
	if outputDir != "" {
		cfg.Output.Dir = outputDir
	}
	if rps > 0 {
		cfg.Extraction.RequestsPerSecond = rps
	}
	return cfg
}

func printSummary(report *pipeline.RunReport) {
	fmt.Printf("\nRun %s finished in %s\n", report.Summary.RunID, report.Elapsed.Round(time.Millisecond))
	fmt.Printf("  Processed: %d\n", report.Summary.Total)
	fmt.Printf("  Success:   %d\n", report.Summary.Success)
	fmt.Printf("  Filtered:  %d\n", report.Summary.Filtered)
	fmt.Printf("  Errors:    %d\n", report.Summary.Errors)
	if report.Skipped > 0 {
		fmt.Printf("  Skipped:   %d (already processed)\n", report.Skipped)
	}
}
