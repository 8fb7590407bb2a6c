package model

import "time"

// Status is the lifecycle state of a record within a run.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusSuccess    Status = "SUCCESS"
	StatusFiltered   Status = "FILTERED"
	StatusError      Status = "ERROR"
)

// Terminal reports whether the status is write-once for a run. A record in
// a terminal state is skipped on reprocessing under the same run ID.
func (s Status) Terminal() bool {
	switch s {
	case StatusSuccess, StatusFiltered, StatusError:
		return true
	}
	return false
}

// RecordState is the persisted per-record processing entry. Only the
// orchestrator transitions it; every transition goes through the state
// store's check-and-set operations.
type RecordState struct {
	RecordID     string       `json:"record_id"`
	RunID        string       `json:"run_id"`
	Status       Status       `json:"status"`
	Result       *FinalResult `json:"result,omitempty"`
	AttemptCount int          `json:"attempt_count"`
	Error        string       `json:"error,omitempty"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// RunSummary is the per-status breakdown for a run, derived by scanning
// terminal states rather than by concurrent counters.
type RunSummary struct {
	RunID      string `json:"run_id"`
	Total      int    `json:"total"`
	Pending    int    `json:"pending"`
	Processing int    `json:"processing"`
	Success    int    `json:"success"`
	Filtered   int    `json:"filtered"`
	Errors     int    `json:"errors"`
}
