package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/mesh-intelligence/watchlist/internal/csvstore"
	"github.com/mesh-intelligence/watchlist/pkg/types"
)

const insertEntrySQL = `INSERT INTO entries
    (entry_id, title, title_key, genre, episodes, rating, status)
    VALUES (?, ?, ?, ?, ?, ?, ?)`

func entryArgs(e types.Entry) []any {
	return []any{generateUUID(), e.Title, types.TitleKey(e.Title), e.Genre, e.Episodes, e.Rating, e.Status}
}

// Add appends entry unless its title is blank or already present. The row
// is inserted and appended to the entries file in one transaction; a failed
// file write rolls the insert back.
func (b *Backend) Add(entry types.Entry) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStoreDetached
	}
	if !entry.HasTitle() {
		return types.ErrInvalidTitle
	}
	if err := b.refreshLocked(); err != nil {
		return fmt.Errorf("checking duplicates: %w", err)
	}

	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning add: %w", err)
	}
	defer tx.Rollback()

	var existing string
	err = tx.QueryRow(
		"SELECT title FROM entries WHERE title_key = ? ORDER BY seq LIMIT 1", types.TitleKey(entry.Title),
	).Scan(&existing)
	switch {
	case err == nil:
		return fmt.Errorf("%w: %q", types.ErrDuplicateEntry, existing)
	case err != sql.ErrNoRows:
		return fmt.Errorf("checking duplicates: %w", err)
	}

	if _, err := tx.Exec(insertEntrySQL, entryArgs(entry)...); err != nil {
		return fmt.Errorf("inserting %q: %w", entry.Title, err)
	}
	if err := csvstore.AppendEntry(b.path, entry); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing add: %w", err)
	}

	b.present = true
	return b.touchLocked()
}

// LoadAll returns a copy of every entry in insertion order.
func (b *Backend) LoadAll() ([]types.Entry, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.refreshLocked(); err != nil {
		return nil, false, err
	}
	if !b.present {
		return nil, false, nil
	}

	entries, err := queryEntries(b.db)
	if err != nil {
		return nil, false, err
	}
	return entries, true, nil
}

// Remove deletes every entry titled exactly title and rewrites the entries
// file from the remaining rows.
func (b *Backend) Remove(title string) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.refreshLocked(); err != nil {
		return 0, err
	}
	if !b.present {
		return 0, nil
	}

	tx, err := b.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning remove: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec("DELETE FROM entries WHERE title = ?", title)
	if err != nil {
		return 0, fmt.Errorf("deleting %q: %w", title, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("deleting %q: %w", title, err)
	}
	if n == 0 {
		return 0, nil
	}

	kept, err := queryEntries(tx)
	if err != nil {
		return 0, err
	}
	if err := csvstore.WriteEntries(b.path, kept); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing remove: %w", err)
	}

	return int(n), b.touchLocked()
}

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	Query(query string, args ...any) (*sql.Rows, error)
}

func queryEntries(q queryer) ([]types.Entry, error) {
	rows, err := q.Query("SELECT title, genre, episodes, rating, status FROM entries ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("querying entries: %w", err)
	}
	defer rows.Close()

	entries := []types.Entry{}
	for rows.Next() {
		var e types.Entry
		if err := rows.Scan(&e.Title, &e.Genre, &e.Episodes, &e.Rating, &e.Status); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
