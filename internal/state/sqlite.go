package state

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/adurasov/nutricode/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS record_state (
	run_id        TEXT NOT NULL,
	record_id     TEXT NOT NULL,
	status        TEXT NOT NULL,
	result        TEXT,
	attempt_count INTEGER NOT NULL DEFAULT 0,
	error         TEXT,
	updated_at    TIMESTAMP NOT NULL,
	PRIMARY KEY (run_id, record_id)
);
CREATE INDEX IF NOT EXISTS idx_record_state_status ON record_state (run_id, status);
`

// SQLiteStore persists record state in a single SQLite database. Seeding
// relies on the primary key (INSERT OR IGNORE either wins the row or
// changes nothing); claims and terminal transitions are status-guarded
// UPDATEs.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the state database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open state db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init state schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, runID, recordID string) (*model.RecordState, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT status, result, attempt_count, error, updated_at
		 FROM record_state WHERE run_id = ? AND record_id = ?`,
		runID, recordID)

	st := &model.RecordState{RunID: runID, RecordID: recordID}
	var result, errMsg sql.NullString
	if err := row.Scan(&st.Status, &result, &st.AttemptCount, &errMsg, &st.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get record state: %w", err)
	}
	st.Error = errMsg.String
	if result.Valid && result.String != "" {
		var fr model.FinalResult
		if err := json.Unmarshal([]byte(result.String), &fr); err != nil {
			return nil, fmt.Errorf("decode stored result: %w", err)
		}
		st.Result = &fr
	}
	return st, nil
}

func (s *SQLiteStore) PutIfAbsent(ctx context.Context, st *model.RecordState) error {
	result, err := encodeResult(st.Result)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO record_state
		 (run_id, record_id, status, result, attempt_count, error, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		st.RunID, st.RecordID, st.Status, result, st.AttemptCount, st.Error, now(st))
	if err != nil {
		return fmt.Errorf("put record state: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("put record state: %w", err)
	}
	if n == 0 {
		return ErrAlreadyClaimed
	}
	return nil
}

func (s *SQLiteStore) ClaimPending(ctx context.Context, runID, recordID string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE record_state SET status = ?, updated_at = ?
		 WHERE run_id = ? AND record_id = ? AND status = ?`,
		model.StatusProcessing, time.Now().UTC(), runID, recordID, model.StatusPending)
	if err != nil {
		return fmt.Errorf("claim record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("claim record: %w", err)
	}
	if n == 1 {
		return nil
	}
	if _, err := s.Get(ctx, runID, recordID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return ErrAlreadyClaimed
}

func (s *SQLiteStore) UpdateIfProcessing(ctx context.Context, st *model.RecordState) error {
	result, err := encodeResult(st.Result)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE record_state
		 SET status = ?, result = ?, attempt_count = ?, error = ?, updated_at = ?
		 WHERE run_id = ? AND record_id = ? AND status = ?`,
		st.Status, result, st.AttemptCount, st.Error, now(st),
		st.RunID, st.RecordID, model.StatusProcessing)
	if err != nil {
		return fmt.Errorf("update record state: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update record state: %w", err)
	}
	if n == 0 {
		return ErrAlreadyClaimed
	}
	return nil
}

func (s *SQLiteStore) ScanByStatus(ctx context.Context, runID string, status model.Status) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT record_id FROM record_state WHERE run_id = ? AND status = ? ORDER BY record_id`,
		runID, status)
	if err != nil {
		return nil, fmt.Errorf("scan by status: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan by status: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *SQLiteStore) ClearErrors(ctx context.Context, runID string) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM record_state WHERE run_id = ? AND status = ?`,
		runID, model.StatusError)
	if err != nil {
		return 0, fmt.Errorf("clear errors: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("clear errors: %w", err)
	}
	return int(n), nil
}

func (s *SQLiteStore) Summary(ctx context.Context, runID string) (*model.RunSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM record_state WHERE run_id = ? GROUP BY status`,
		runID)
	if err != nil {
		return nil, fmt.Errorf("summarize run: %w", err)
	}
	defer rows.Close()

	sum := &model.RunSummary{RunID: runID}
	for rows.Next() {
		var status model.Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("summarize run: %w", err)
		}
		sum.Total += count
		switch status {
		case model.StatusPending:
			sum.Pending = count
		case model.StatusProcessing:
			sum.Processing = count
		case model.StatusSuccess:
			sum.Success = count
		case model.StatusFiltered:
			sum.Filtered = count
		case model.StatusError:
			sum.Errors = count
		}
	}
	return sum, rows.Err()
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func encodeResult(r *model.FinalResult) (sql.NullString, error) {
	if r == nil {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(r)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("encode result: %w", err)
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func now(st *model.RecordState) time.Time {
	if !st.UpdatedAt.IsZero() {
		return st.UpdatedAt
	}
	return time.Now().UTC()
}
