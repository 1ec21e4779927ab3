// Package sqlite provides the public API for the SQLite run store.
// This package exposes the factory function for creating SQLite backends
// while keeping implementation details internal.
package sqlite

import (
	"github.com/mesh-intelligence/crazyseq/internal/sqlite"
	"github.com/mesh-intelligence/crazyseq/pkg/types"
)

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
//
// Example:
//
//	store := sqlite.NewBackend()
//	err := store.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".crazyseq-db",
//	})
//	defer store.Detach()
func NewBackend() types.Store {
	return sqlite.NewBackend()
}

// WriteResultsJSONL exports results to path, one JSON object per line. The
// file is replaced atomically.
func WriteResultsJSONL(path string, results []types.Result) error {
	return sqlite.WriteResultsJSONL(path, results)
}
