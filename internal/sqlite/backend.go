// Package sqlite implements types.Store with SQLite as the query engine and
// JSONL files in the data directory as the source of truth. Attach rebuilds
// a fresh database from the JSONL files; every write commits to SQLite and
// then rewrites the affected JSONL files atomically.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/crazyseq/pkg/types"
)

// dbFileName is the SQLite database file inside the data directory.
const dbFileName = "ledger.db"

// timeLayout is fixed width so that stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

const (
	insertRunSQL = `INSERT INTO runs (run_id, start_digit, end_digit, operators, max_bits, value_count, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`
	insertResultSQL = `INSERT INTO results (run_id, ordinal, value, expression) VALUES (?, ?, ?, ?)`

	selectRunColumns = `SELECT run_id, start_digit, end_digit, operators, max_bits, value_count, created_at FROM runs`
)

// Backend is the SQLite implementation of types.Store.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
}

var _ types.Store = (*Backend)(nil)

// NewBackend returns a detached backend. Call Attach before use.
func NewBackend() *Backend {
	return &Backend{}
}

// Attach creates the data directory when needed, builds a fresh database
// from the JSONL files and marks the backend attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	for _, name := range []string{runsJSONL, resultsJSONL} {
		if err := ensureJSONL(filepath.Join(dataDir, name)); err != nil {
			return fmt.Errorf("init %s: %w", name, err)
		}
	}

	// The database is a cache of the JSONL files.
	dbPath := filepath.Join(dataDir, dbFileName)
	_ = os.Remove(dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return fmt.Errorf("create schema: %w", err)
		}
	}
	if err := loadAllJSONL(db, dataDir); err != nil {
		db.Close()
		return fmt.Errorf("load JSONL: %w", err)
	}

	b.db = db
	b.config = config
	b.config.DataDir = dataDir
	b.attached = true
	return nil
}

// Detach closes the database. It is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	b.attached = false
	db := b.db
	b.db = nil
	return db.Close()
}

// SaveRun inserts run and results in one transaction, then rewrites
// runs.jsonl and results.jsonl.
func (b *Backend) SaveRun(run *types.Run, results []types.Result) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return "", types.ErrStoreDetached
	}
	if run == nil {
		return "", fmt.Errorf("%w: nil run", types.ErrInvalidID)
	}
	if run.RunID == "" {
		run.RunID = newUUID()
	} else if _, err := uuid.Parse(run.RunID); err != nil {
		return "", fmt.Errorf("%w: %q", types.ErrInvalidID, run.RunID)
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	run.Values = len(results)

	tx, err := b.db.Begin()
	if err != nil {
		return "", fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(insertRunSQL, run.RunID, run.Start, run.End, run.Operators,
		run.MaxBits, run.Values, formatTime(run.CreatedAt)); err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	stmt, err := tx.Prepare(insertResultSQL)
	if err != nil {
		return "", fmt.Errorf("prepare insert result: %w", err)
	}
	defer stmt.Close()
	for i := range results {
		results[i].RunID = run.RunID
		results[i].Ordinal = i
		if _, err := stmt.Exec(run.RunID, i, results[i].Value, results[i].Expression); err != nil {
			return "", fmt.Errorf("insert result %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit save: %w", err)
	}

	if err := b.persistLocked(); err != nil {
		return "", fmt.Errorf("persist JSONL: %w", err)
	}
	return run.RunID, nil
}

// GetRun returns a run by ID.
func (b *Backend) GetRun(id string) (*types.Run, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	run, err := scanRun(b.db.QueryRow(selectRunColumns+" WHERE run_id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, types.ErrRunNotFound
	}
	return run, err
}

// ListRuns returns all runs, newest first.
func (b *Backend) ListRuns() ([]*types.Run, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	return b.queryRuns(selectRunColumns + " ORDER BY created_at DESC, run_id DESC")
}

// Results returns a run's ledger in discovery order.
func (b *Backend) Results(runID string) ([]types.Result, error) {
	if runID == "" {
		return nil, types.ErrInvalidID
	}
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	var exists int
	if err := b.db.QueryRow("SELECT COUNT(*) FROM runs WHERE run_id = ?", runID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("query run: %w", err)
	}
	if exists == 0 {
		return nil, types.ErrRunNotFound
	}
	return b.queryResults("SELECT run_id, ordinal, value, expression FROM results WHERE run_id = ? ORDER BY ordinal", runID)
}

// persistLocked rewrites both JSONL files from the database. The caller
// must hold b.mu.
func (b *Backend) persistLocked() error {
	runs, err := b.queryRuns(selectRunColumns + " ORDER BY created_at, run_id")
	if err != nil {
		return err
	}
	runRecords := make([]runJSON, len(runs))
	for i, r := range runs {
		runRecords[i] = runJSON{
			RunID:     r.RunID,
			Start:     r.Start,
			End:       r.End,
			Operators: r.Operators,
			MaxBits:   r.MaxBits,
			Values:    r.Values,
			CreatedAt: formatTime(r.CreatedAt),
		}
	}
	if err := writeJSONL(filepath.Join(b.config.DataDir, runsJSONL), runRecords); err != nil {
		return err
	}

	results, err := b.queryResults("SELECT run_id, ordinal, value, expression FROM results ORDER BY run_id, ordinal")
	if err != nil {
		return err
	}
	return WriteResultsJSONL(filepath.Join(b.config.DataDir, resultsJSONL), results)
}

func (b *Backend) queryRuns(query string, args ...any) ([]*types.Run, error) {
	rows, err := b.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []*types.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (b *Backend) queryResults(query string, args ...any) ([]types.Result, error) {
	rows, err := b.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var results []types.Result
	for rows.Next() {
		var r types.Result
		if err := rows.Scan(&r.RunID, &r.Ordinal, &r.Value, &r.Expression); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*types.Run, error) {
	var (
		r       types.Run
		created string
	)
	if err := row.Scan(&r.RunID, &r.Start, &r.End, &r.Operators, &r.MaxBits, &r.Values, &created); err != nil {
		return nil, err
	}
	t, err := time.Parse(timeLayout, created)
	if err != nil {
		return nil, fmt.Errorf("parse created_at %q: %w", created, err)
	}
	r.CreatedAt = t
	return &r, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// newUUID returns a UUID v7 string, falling back to v4.
func newUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
