package state

import (
	"context"
	"sync"
	"time"

	"github.com/adurasov/nutricode/internal/model"
)

// MemoryStore is an in-process Store for tests and dry runs. Semantics
// match the SQLite store: every check-and-set transition is atomic under
// the mutex.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]model.RecordState
}

// NewMemory creates an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{entries: make(map[string]model.RecordState)}
}

func key(runID, recordID string) string { return runID + "\x00" + recordID }

func (m *MemoryStore) Get(_ context.Context, runID, recordID string) (*model.RecordState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.entries[key(runID, recordID)]
	if !ok {
		return nil, ErrNotFound
	}
	out := st
	return &out, nil
}

func (m *MemoryStore) PutIfAbsent(_ context.Context, st *model.RecordState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := key(st.RunID, st.RecordID)
	if _, exists := m.entries[k]; exists {
		return ErrAlreadyClaimed
	}
	m.entries[k] = stamped(st)
	return nil
}

func (m *MemoryStore) ClaimPending(_ context.Context, runID, recordID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := key(runID, recordID)
	cur, exists := m.entries[k]
	if !exists {
		return ErrNotFound
	}
	if cur.Status != model.StatusPending {
		return ErrAlreadyClaimed
	}
	cur.Status = model.StatusProcessing
	cur.UpdatedAt = time.Now().UTC()
	m.entries[k] = cur
	return nil
}

func (m *MemoryStore) UpdateIfProcessing(_ context.Context, st *model.RecordState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := key(st.RunID, st.RecordID)
	cur, exists := m.entries[k]
	if !exists || cur.Status != model.StatusProcessing {
		return ErrAlreadyClaimed
	}
	m.entries[k] = stamped(st)
	return nil
}

func (m *MemoryStore) ScanByStatus(_ context.Context, runID string, status model.Status) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []string
	for _, st := range m.entries {
		if st.RunID == runID && st.Status == status {
			ids = append(ids, st.RecordID)
		}
	}
	return ids, nil
}

func (m *MemoryStore) ClearErrors(_ context.Context, runID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cleared := 0
	for k, st := range m.entries {
		if st.RunID == runID && st.Status == model.StatusError {
			delete(m.entries, k)
			cleared++
		}
	}
	return cleared, nil
}

func (m *MemoryStore) Summary(_ context.Context, runID string) (*model.RunSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sum := &model.RunSummary{RunID: runID}
	for _, st := range m.entries {
		if st.RunID != runID {
			continue
		}
		sum.Total++
		switch st.Status {
		case model.StatusPending:
			sum.Pending++
		case model.StatusProcessing:
			sum.Processing++
		case model.StatusSuccess:
			sum.Success++
		case model.StatusFiltered:
			sum.Filtered++
		case model.StatusError:
			sum.Errors++
		}
	}
	return sum, nil
}

func (m *MemoryStore) Close() error { return nil }

func stamped(st *model.RecordState) model.RecordState {
	out := *st
	if out.UpdatedAt.IsZero() {
		out.UpdatedAt = time.Now().UTC()
	}
	return out
}
