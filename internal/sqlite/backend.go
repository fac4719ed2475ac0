// Package sqlite implements the SQLite Record Store backend.
//
// SQLite is the query engine; the CSV entries file stays the source of truth.
// The database lives in memory and is rebuilt from the file whenever the
// file content changes underneath the backend.
package sqlite

import (
	"crypto/sha256"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/watchlist/pkg/types"
)

// Backend implements types.Store using SQLite for lookups and ordering.
type Backend struct {
	mu       sync.Mutex
	attached bool
	config   types.Config
	db       *sql.DB
	path     string

	// stamp describes the entries file as of the last load or write.
	stamp   fileStamp
	loaded  bool
	present bool
}

// fileStamp identifies a version of the entries file by content.
type fileStamp struct {
	exists bool
	sum    [sha256.Size]byte
}

func (s fileStamp) same(o fileStamp) bool {
	return s.exists == o.exists && s.sum == o.sum
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend() *Backend {
	return &Backend{}
}

// Attach validates config, creates DataDir if needed, and initializes the
// schema. The entries file is loaded on first use so that a malformed file
// degrades individual operations instead of failing Attach.
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

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return err
	}
	// One connection keeps every statement on the same in-memory database.
	db.SetMaxOpenConns(1)

	if err := createSchema(db); err != nil {
		db.Close()
		return err
	}

	b.db = db
	b.config = config
	b.path = filepath.Join(dataDir, config.EntriesName())
	b.stamp = fileStamp{}
	b.loaded = false
	b.present = false
	b.attached = true
	return nil
}

// Detach closes the SQLite connection. Idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}
	b.attached = false
	return nil
}

// Path returns the entries file path. Empty until attached.
func (b *Backend) Path() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.path
}

func createSchema(db *sql.DB) error {
	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	for _, ddl := range indexDDL {
		if _, err := db.Exec(ddl); err != nil {
			return fmt.Errorf("creating index: %w", err)
		}
	}
	return nil
}

// readFile returns the entries file content and its stamp. An absent file
// yields nil data and the zero stamp.
func (b *Backend) readFile() ([]byte, fileStamp, error) {
	data, err := os.ReadFile(b.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fileStamp{}, nil
		}
		return nil, fileStamp{}, fmt.Errorf("reading %s: %w", b.path, err)
	}
	return data, fileStamp{exists: true, sum: sha256.Sum256(data)}, nil
}

// refreshLocked reloads the entries table when the file content changed
// since the last load or write. The caller must hold b.mu.
func (b *Backend) refreshLocked() error {
	if !b.attached {
		return types.ErrStoreDetached
	}
	data, stamp, err := b.readFile()
	if err != nil {
		return err
	}
	if b.loaded && stamp.same(b.stamp) {
		return nil
	}
	if err := b.loadLocked(data); err != nil {
		return err
	}
	b.stamp = stamp
	b.loaded = true
	return nil
}

// touchLocked records the file stamp after a write by this backend.
func (b *Backend) touchLocked() error {
	_, stamp, err := b.readFile()
	if err != nil {
		return err
	}
	b.stamp = stamp
	return nil
}

// generateUUID generates a new UUID v7 for row IDs.
func generateUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New().String()
	}
	return id.String()
}
