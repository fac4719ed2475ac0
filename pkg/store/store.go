// Package store provides the public factories for watchlist Record Store
// backends while keeping the implementations internal.
//
// Example:
//
//	s, err := store.New(types.BackendCSV)
//	if err != nil {
//	    return err
//	}
//	err = s.Attach(types.Config{
//	    Backend: types.BackendCSV,
//	    DataDir: "anime",
//	})
//	defer s.Detach()
package store

import (
	"fmt"

	"github.com/mesh-intelligence/watchlist/internal/csvstore"
	"github.com/mesh-intelligence/watchlist/internal/sqlite"
	"github.com/mesh-intelligence/watchlist/pkg/types"
)

// New returns an unattached Store for the named backend.
func New(backend string) (types.Store, error) {
	switch backend {
	case types.BackendCSV:
		return NewCSV(), nil
	case types.BackendSQLite:
		return NewSQLite(), nil
	case "":
		return nil, types.ErrBackendEmpty
	default:
		return nil, fmt.Errorf("%w: %q", types.ErrBackendUnknown, backend)
	}
}

// NewCSV creates a Store that works on the entries file alone.
func NewCSV() types.Store {
	return csvstore.NewBackend()
}

// NewSQLite creates a Store that answers reads from an in-memory SQLite
// copy of the entries file and writes every change back to the file.
func NewSQLite() types.Store {
	return sqlite.NewBackend()
}
