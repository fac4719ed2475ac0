package sqlite

// Schema DDL. title_key holds the case-folded title used for duplicate
// checks; it is not unique because a hand-edited file may already contain
// collisions, and loading must preserve them.
const (
	createEntries = `CREATE TABLE entries (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    entry_id TEXT NOT NULL UNIQUE,
    title TEXT NOT NULL,
    title_key TEXT NOT NULL,
    genre TEXT NOT NULL,
    episodes INTEGER NOT NULL,
    rating INTEGER NOT NULL,
    status TEXT NOT NULL
);`

	idxEntriesTitleKey = `CREATE INDEX idx_entries_title_key ON entries(title_key);`
	idxEntriesTitle    = `CREATE INDEX idx_entries_title ON entries(title);`
	idxEntriesStatus   = `CREATE INDEX idx_entries_status ON entries(status);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createEntries,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxEntriesTitleKey,
	idxEntriesTitle,
	idxEntriesStatus,
}
