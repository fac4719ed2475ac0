package sqlite

import (
	"database/sql"
	"fmt"
	"path/filepath"

	"github.com/mesh-intelligence/watchlist/internal/csvstore"
	"github.com/mesh-intelligence/watchlist/pkg/types"
)

// loadLocked replaces the entries table with the parsed entries file data.
// Loading is transactional: on failure the previous rows remain.
// The caller must hold b.mu.
func (b *Backend) loadLocked(data []byte) error {
	entries, present, err := csvstore.ParseEntries(filepath.Base(b.path), data)
	if err != nil {
		return err
	}

	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM entries"); err != nil {
		return fmt.Errorf("clearing entries: %w", err)
	}
	if err := insertEntries(tx, entries); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing load transaction: %w", err)
	}

	b.present = present
	return nil
}

// insertEntries inserts entries in order so that seq preserves file order.
func insertEntries(tx *sql.Tx, entries []types.Entry) error {
	stmt, err := tx.Prepare(insertEntrySQL)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.Exec(entryArgs(e)...); err != nil {
			return fmt.Errorf("inserting %q: %w", e.Title, err)
		}
	}
	return nil
}
