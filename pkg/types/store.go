package types

import "errors"

// Store defines the interface for watchlist persistence. Callers attach to a
// backend, add, load, and remove entries, and detach when done.
//
// A Store exclusively owns the on-disk entries file. LoadAll hands out copies;
// callers never hold a live reference into storage.
type Store interface {
	// Attach connects the Store to the backend described by config.
	// Creates DataDir if it does not exist. Returns ErrAlreadyAttached if
	// called while already attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent: multiple calls succeed.
	// After Detach, operations return ErrStoreDetached.
	Detach() error

	// Add appends an entry. Returns ErrInvalidTitle when the title is blank
	// and ErrDuplicateEntry when an entry with a case-insensitively equal
	// title already exists. Neither failure mutates the store.
	Add(entry Entry) error

	// LoadAll returns every entry in insertion order. The boolean is false
	// when the entries file is absent or empty; that is not an error.
	// A file that cannot be parsed returns an error wrapping
	// ErrMalformedResource.
	LoadAll() ([]Entry, bool, error)

	// Remove deletes every entry whose title equals title exactly and
	// rewrites the store. Returns the number of entries removed.
	Remove(title string) (int, error)
}

// Store lifecycle errors.
var (
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
)

// Data errors. ErrMissingResource and ErrMalformedResource are degrade
// signals: callers skip the dependent view instead of halting.
var (
	ErrInvalidTitle          = errors.New("title must not be empty")
	ErrDuplicateEntry        = errors.New("entry already in watchlist")
	ErrMissingResource       = errors.New("resource does not exist")
	ErrMalformedResource     = errors.New("resource could not be parsed")
	ErrUnrecognizedStructure = errors.New("data structure not recognized")
)
