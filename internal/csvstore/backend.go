package csvstore

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/mesh-intelligence/watchlist/pkg/types"
)

// Backend implements types.Store directly on the entries file.
// Every operation re-reads the file; mutations hold mu for the whole
// read-modify-write and full rewrites go through an atomic rename.
type Backend struct {
	mu       sync.Mutex
	attached bool
	config   types.Config
	path     string
}

// NewBackend creates a new CSV backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend() *Backend {
	return &Backend{}
}

// Attach validates config and creates DataDir if needed. The entries file
// itself is created lazily by the first Add.
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
		return fmt.Errorf("creating data dir: %w", err)
	}

	b.config = config
	b.path = filepath.Join(dataDir, config.EntriesName())
	b.attached = true
	return nil
}

// Detach releases the backend. Idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.attached = false
	return nil
}

// Path returns the entries file path. Empty until attached.
func (b *Backend) Path() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.path
}

// Add appends entry unless its title is blank or already present.
func (b *Backend) Add(entry types.Entry) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStoreDetached
	}
	if !entry.HasTitle() {
		return types.ErrInvalidTitle
	}

	existing, _, err := ReadEntries(b.path)
	if err != nil {
		return fmt.Errorf("checking duplicates: %w", err)
	}
	for _, e := range existing {
		if e.SameTitle(entry.Title) {
			return fmt.Errorf("%w: %q", types.ErrDuplicateEntry, e.Title)
		}
	}

	return AppendEntry(b.path, entry)
}

// LoadAll returns a copy of every entry in file order.
func (b *Backend) LoadAll() ([]types.Entry, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil, false, types.ErrStoreDetached
	}
	return ReadEntries(b.path)
}

// Remove deletes every entry titled exactly title and rewrites the file.
// An absent file is left absent.
func (b *Backend) Remove(title string) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return 0, types.ErrStoreDetached
	}

	entries, ok, err := ReadEntries(b.path)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}

	kept, removed := Without(entries, title)
	if removed == 0 {
		return 0, nil
	}
	if err := WriteEntries(b.path, kept); err != nil {
		return 0, err
	}
	return removed, nil
}

// Without returns entries minus those titled exactly title, and how many
// were dropped.
func Without(entries []types.Entry, title string) ([]types.Entry, int) {
	kept := make([]types.Entry, 0, len(entries))
	for _, e := range entries {
		if e.Title != title {
			kept = append(kept, e)
		}
	}
	return kept, len(entries) - len(kept)
}
