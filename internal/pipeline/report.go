package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adurasov/nutricode/internal/model"
)

// RunReport aggregates one orchestration pass: the per-status summary plus
// the full audit trail.
type RunReport struct {
	Summary   model.RunSummary `json:"summary"`
	Skipped   int              `json:"skipped"`
	StartedAt time.Time        `json:"started_at"`
	Elapsed   time.Duration    `json:"elapsed"`
	Audits    []model.Audit    `json:"-"`
}

func buildReport(runID string, started time.Time, outcomes []*Outcome) *RunReport {
	report := &RunReport{
		Summary:   model.RunSummary{RunID: runID},
		StartedAt: started,
		Elapsed:   time.Since(started),
	}
	for _, out := range outcomes {
		if out.Skipped {
			report.Skipped++
			continue
		}
		report.Summary.Total++
		switch out.Status {
		case model.StatusSuccess:
			report.Summary.Success++
		case model.StatusFiltered:
			report.Summary.Filtered++
		default:
			report.Summary.Errors++
		}
		report.Audits = append(report.Audits, out.Audit)
	}
	return report
}

// WriteReport persists the run summary and the audit trail under dir. The
// audit file is JSON lines, one record per line, append-friendly for large
// batches.
func WriteReport(report *RunReport, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}

	summaryPath := filepath.Join(dir, report.Summary.RunID+"-summary.json")
	summary, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	if err := os.WriteFile(summaryPath, summary, 0o644); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}

	auditPath := filepath.Join(dir, report.Summary.RunID+"-audit.jsonl")
	f, err := os.Create(auditPath)
	if err != nil {
		return fmt.Errorf("create audit file: %w", err)
	}
	defer func() { _ = f.Close() }()

	enc := json.NewEncoder(f)
	for _, audit := range report.Audits {
		if err := enc.Encode(audit); err != nil {
			return fmt.Errorf("write audit line: %w", err)
		}
	}
	return nil
}
