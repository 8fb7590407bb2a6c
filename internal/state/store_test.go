package state

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/adurasov/nutricode/internal/model"
)

// storeTest exercises the Store contract against any implementation.
func storeTest(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	// Get and claim before any write.
	if _, err := s.Get(ctx, "run-1", "rec-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.ClaimPending(ctx, "run-1", "rec-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unseeded claim, got %v", err)
	}

	// Seed PENDING; a duplicate seed changes nothing.
	seed := &model.RecordState{RecordID: "rec-1", RunID: "run-1", Status: model.StatusPending}
	if err := s.PutIfAbsent(ctx, seed); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if err := s.PutIfAbsent(ctx, seed); !errors.Is(err, ErrAlreadyClaimed) {
		t.Fatalf("expected ErrAlreadyClaimed on duplicate seed, got %v", err)
	}

	// First claim wins, second loses.
	if err := s.ClaimPending(ctx, "run-1", "rec-1"); err != nil {
		t.Fatalf("first claim failed: %v", err)
	}
	if err := s.ClaimPending(ctx, "run-1", "rec-1"); !errors.Is(err, ErrAlreadyClaimed) {
		t.Fatalf("expected ErrAlreadyClaimed, got %v", err)
	}

	// Same record under a different run is independent.
	other := &model.RecordState{RecordID: "rec-1", RunID: "run-2", Status: model.StatusPending}
	if err := s.PutIfAbsent(ctx, other); err != nil {
		t.Fatalf("seed under second run failed: %v", err)
	}

	// Transition out of PROCESSING persists the result.
	done := &model.RecordState{
		RecordID: "rec-1",
		RunID:    "run-1",
		Status:   model.StatusSuccess,
		Result: &model.FinalResult{
			Tier: model.TierPriority,
			Classification: model.ClassificationResult{
				FinalCategory:    "LETTER VITAMINS",
				FinalSubcategory: "VITAMIN D",
			},
		},
		AttemptCount: 1,
	}
	if err := s.UpdateIfProcessing(ctx, done); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	got, err := s.Get(ctx, "run-1", "rec-1")
	if err != nil {
		t.Fatalf("get after update failed: %v", err)
	}
	if got.Status != model.StatusSuccess {
		t.Errorf("expected SUCCESS, got %s", got.Status)
	}
	if got.Result == nil || got.Result.Classification.FinalCategory != "LETTER VITAMINS" {
		t.Errorf("result did not round-trip: %+v", got.Result)
	}

	// A terminal record cannot be transitioned or reclaimed.
	if err := s.UpdateIfProcessing(ctx, done); !errors.Is(err, ErrAlreadyClaimed) {
		t.Errorf("expected ErrAlreadyClaimed on terminal update, got %v", err)
	}
	if err := s.ClaimPending(ctx, "run-1", "rec-1"); !errors.Is(err, ErrAlreadyClaimed) {
		t.Errorf("expected ErrAlreadyClaimed on terminal claim, got %v", err)
	}

	// Summary counts per status, including never-claimed seeds.
	errored := &model.RecordState{RecordID: "rec-2", RunID: "run-1", Status: model.StatusError, Error: "boom"}
	if err := s.PutIfAbsent(ctx, errored); err != nil {
		t.Fatalf("put errored record failed: %v", err)
	}
	if err := s.PutIfAbsent(ctx, &model.RecordState{RecordID: "rec-3", RunID: "run-1", Status: model.StatusPending}); err != nil {
		t.Fatalf("seed rec-3 failed: %v", err)
	}
	sum, err := s.Summary(ctx, "run-1")
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}
	if sum.Total != 3 || sum.Success != 1 || sum.Errors != 1 || sum.Pending != 1 {
		t.Errorf("unexpected summary: %+v", sum)
	}

	// Scan lists errored records.
	ids, err := s.ScanByStatus(ctx, "run-1", model.StatusError)
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if len(ids) != 1 || ids[0] != "rec-2" {
		t.Errorf("unexpected errored ids: %v", ids)
	}

	// ClearErrors frees the record for a fresh seed and claim.
	cleared, err := s.ClearErrors(ctx, "run-1")
	if err != nil {
		t.Fatalf("clear errors failed: %v", err)
	}
	if cleared != 1 {
		t.Errorf("expected 1 cleared, got %d", cleared)
	}
	if err := s.PutIfAbsent(ctx, &model.RecordState{RecordID: "rec-2", RunID: "run-1", Status: model.StatusPending}); err != nil {
		t.Errorf("reseed after clear failed: %v", err)
	}
	if err := s.ClaimPending(ctx, "run-1", "rec-2"); err != nil {
		t.Errorf("reclaim after clear failed: %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemory()
	defer func() { _ = s.Close() }()
	storeTest(t, s)
}

func TestSQLiteStore(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer func() { _ = s.Close() }()
	storeTest(t, s)
}

func TestMemoryStore_ConcurrentClaims(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	seed := &model.RecordState{RecordID: "contested", RunID: "run-1", Status: model.StatusPending}
	if err := s.PutIfAbsent(ctx, seed); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	const goroutines = 50
	var wg sync.WaitGroup
	wins := make(chan struct{}, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.ClaimPending(ctx, "run-1", "contested"); err == nil {
				wins <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(wins)

	count := 0
	for range wins {
		count++
	}
	if count != 1 {
		t.Errorf("exactly one claim must win, got %d", count)
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	if _, err := Open(model.StateConfig{Driver: "etcd"}); err == nil {
		t.Error("expected error for unknown driver")
	}
}

func TestOpen_Memory(t *testing.T) {
	s, err := Open(model.StateConfig{Driver: "memory"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := s.(*MemoryStore); !ok {
		t.Errorf("expected MemoryStore, got %T", s)
	}
}
