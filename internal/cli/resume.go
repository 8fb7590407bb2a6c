package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/adurasov/nutricode/internal/pipeline"
	"github.com/adurasov/nutricode/internal/state"
)

// resumeCmd represents the resume command
var resumeCmd = &cobra.Command{
	Use:   "resume <run-id> [input-file]",
	Short: "Clear errored records in a run and optionally reprocess them",
	Long: `Resume clears ERROR entries for a run so those records can be claimed
again. Records in SUCCESS or FILTERED state are untouched and will be
skipped when the run is reprocessed.

With an input file, resume immediately reruns the batch under the same
run ID; only the cleared records are actually processed.

Example:
  nutricode resume nightly-2026-08-24
  nutricode resume nightly-2026-08-24 products.csv`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runResume,
}

func init() {
	rootCmd.AddCommand(resumeCmd)
	resumeCmd.Flags().StringVar(&stateDriver, "state", "", "state driver: sqlite or memory")
	resumeCmd.Flags().StringVar(&statePath, "state-path", "", "state database path")
	resumeCmd.Flags().StringVar(&outputDir, "output-dir", "", "report output directory")
}

func runResume(cmd *cobra.Command, args []string) error {
	cfg := effectiveConfig()
	id := args[0]

	store, err := state.Open(cfg.State)
	if err != nil {
		return fmt.Errorf("open state store: %w", err)
	}

	cleared, err := store.ClearErrors(cmd.Context(), id)
	if err != nil {
		_ = store.Close()
		return fmt.Errorf("clear errors: %w", err)
	}
	_ = store.Close()
	fmt.Printf("Cleared %d errored records for run %s\n", cleared, id)

	if len(args) < 2 {
		if cleared > 0 {
			fmt.Printf("Rerun with: nutricode run %s --run-id %s\n", "<input-file>", id)
		}
		return nil
	}

	if cleared == 0 {
		fmt.Fprintln(os.Stderr, "Nothing to reprocess")
		return nil
	}

	if err := resolveAPIKey(cfg); err != nil {
		return err
	}
	records, err := pipeline.ReadRecords(args[1])
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	a, err := buildApp(cfg)
	if err != nil {
		return err
	}
	defer a.close()

	report := a.orch.Run(cmd.Context(), id, records)
	if err := pipeline.WriteReport(report, cfg.Output.Dir); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	printSummary(report)
	return nil
}
