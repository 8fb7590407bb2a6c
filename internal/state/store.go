// Package state persists per-record processing status so interrupted runs
// resume without reprocessing finished work. All transitions are
// check-and-set: concurrent workers race on claims, and the store is the
// arbiter.
package state

import (
	"context"
	"errors"
	"fmt"

	"github.com/adurasov/nutricode/internal/model"
)

// ErrAlreadyClaimed is returned when a check-and-set transition loses the
// race: the record already exists (PutIfAbsent) or is no longer in the
// expected state (UpdateIfProcessing).
var ErrAlreadyClaimed = errors.New("record already claimed")

// ErrNotFound is returned when a record has no state entry for the run.
var ErrNotFound = errors.New("record state not found")

// Store is the state persistence contract. Implementations must make
// PutIfAbsent and UpdateIfProcessing atomic with respect to concurrent
// callers.
type Store interface {
	// Get returns the state entry for a record within a run.
	Get(ctx context.Context, runID, recordID string) (*model.RecordState, error)

	// PutIfAbsent inserts a record's initial state entry. If an entry
	// already exists it returns ErrAlreadyClaimed and leaves the existing
	// entry untouched.
	PutIfAbsent(ctx context.Context, st *model.RecordState) error

	// ClaimPending transitions a record from PENDING to PROCESSING. A
	// record in any other state returns ErrAlreadyClaimed; a record with
	// no entry returns ErrNotFound.
	ClaimPending(ctx context.Context, runID, recordID string) error

	// UpdateIfProcessing transitions a record out of PROCESSING. If the
	// record is not currently PROCESSING it returns ErrAlreadyClaimed.
	UpdateIfProcessing(ctx context.Context, st *model.RecordState) error

	// ScanByStatus lists the record IDs in a run with the given status.
	ScanByStatus(ctx context.Context, runID string, status model.Status) ([]string, error)

	// ClearErrors resets ERROR entries in a run back to absent so a resume
	// reprocesses them. Returns the number of entries cleared.
	ClearErrors(ctx context.Context, runID string) (int, error)

	// Summary aggregates per-status counts for a run.
	Summary(ctx context.Context, runID string) (*model.RunSummary, error)

	// Close releases store resources.
	Close() error
}

// Open constructs the configured store.
func Open(cfg model.StateConfig) (Store, error) {
	switch cfg.Driver {
	case "sqlite", "":
		path := cfg.Path
		if path == "" {
			path = "nutricode-state.db"
		}
		return OpenSQLite(path)
	case "memory":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown state driver: %s", cfg.Driver)
	}
}
