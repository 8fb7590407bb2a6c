package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/adurasov/nutricode/internal/model"
	"github.com/adurasov/nutricode/internal/state"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status <run-id>",
	Short: "Show the per-status breakdown for a run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := effectiveConfig()
		store, err := state.Open(cfg.State)
		if err != nil {
			return fmt.Errorf("open state store: %w", err)
		}
		defer func() { _ = store.Close() }()

		sum, err := store.Summary(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("summarize run: %w", err)
		}
		if sum.Total == 0 {
			return fmt.Errorf("no state recorded for run %s", args[0])
		}

		fmt.Printf("Run %s\n", sum.RunID)
		fmt.Printf("  Total:      %d\n", sum.Total)
		fmt.Printf("  Pending:    %d\n", sum.Pending)
		fmt.Printf("  Processing: %d\n", sum.Processing)
		fmt.Printf("  Success:    %d\n", sum.Success)
		fmt.Printf("  Filtered:   %d\n", sum.Filtered)
		fmt.Printf("  Errors:     %d\n", sum.Errors)

		if sum.Errors > 0 {
			ids, err := store.ScanByStatus(cmd.Context(), args[0], model.StatusError)
			if err != nil {
				return fmt.Errorf("list errored records: %w", err)
			}
			fmt.Println("\nErrored records:")
			for _, id := range ids {
				fmt.Printf("  %s\n", id)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().StringVar(&stateDriver, "state", "", "state driver: sqlite or memory")
	statusCmd.Flags().StringVar(&statePath, "state-path", "", "state database path")
}
