package types

import "errors"

// Store persists enumeration runs and their ledgers.
type Store interface {
	// Attach connects the Store to the backend described by config,
	// creating DataDir when missing. Returns ErrAlreadyAttached when
	// called twice.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent. Afterwards every other
	// method returns ErrStoreDetached.
	Detach() error

	// SaveRun stores run and its results atomically and returns the run ID.
	// An empty run.RunID is replaced by a new UUID v7; each result's RunID
	// and Ordinal are set from the run and the slice order.
	SaveRun(run *Run, results []Result) (string, error)

	// GetRun returns the run with the given ID, or ErrRunNotFound.
	GetRun(id string) (*Run, error)

	// ListRuns returns every run, newest first.
	ListRuns() ([]*Run, error)

	// Results returns the ledger of a run in discovery order, or
	// ErrRunNotFound.
	Results(runID string) ([]Result, error)
}

// Store errors.
var (
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
	ErrRunNotFound     = errors.New("run not found")
	ErrInvalidID       = errors.New("invalid run ID")
)
