package export

import (
	"database/sql"
	"fmt"
)

// Schema version for tracking migrations
const SchemaVersion = 1

// CreateSchema creates all tables and indexes in the database.
func CreateSchema(db *sql.DB) error {
	if err := createCoreTables(db); err != nil {
		return fmt.Errorf("create core tables: %w", err)
	}

	if err := createIndexes(db); err != nil {
		return fmt.Errorf("create indexes: %w", err)
	}

	if err := createMetaTable(db); err != nil {
		return fmt.Errorf("create meta table: %w", err)
	}

	return nil
}

// createCoreTables creates the authors, publications, authorships and
// facet_counts tables.
func createCoreTables(db *sql.DB) error {
	tables := []struct{ name, ddl string }{
		{"authors", `
			CREATE TABLE IF NOT EXISTS authors (
				id TEXT PRIMARY KEY,
				key TEXT NOT NULL,
				name TEXT NOT NULL,
				position INTEGER NOT NULL
			)`},
		// id is the position on the page; keys of hand-edited pages need not
		// be unique.
		{"publications", `
			CREATE TABLE IF NOT EXISTS publications (
				id INTEGER PRIMARY KEY,
				key TEXT NOT NULL,
				year TEXT NOT NULL,
				venue TEXT NOT NULL,
				authors_raw TEXT NOT NULL,
				title TEXT,
				text TEXT,
				html TEXT,
				visible INTEGER NOT NULL
			)`},
		// known is 0 for ids missing from the author directory
		{"authorships", `
			CREATE TABLE IF NOT EXISTS authorships (
				publication_id INTEGER NOT NULL,
				author_id TEXT NOT NULL,
				position INTEGER NOT NULL,
				known INTEGER NOT NULL,
				PRIMARY KEY (publication_id, position),
				FOREIGN KEY (publication_id) REFERENCES publications(id)
			)`},
		{"facet_counts", `
			CREATE TABLE IF NOT EXISTS facet_counts (
				facet TEXT NOT NULL,
				value TEXT NOT NULL,
				label TEXT NOT NULL,
				position INTEGER NOT NULL,
				total INTEGER NOT NULL,
				visible INTEGER NOT NULL,
				selected INTEGER NOT NULL,
				PRIMARY KEY (facet, value)
			)`},
	}
	for _, t := range tables {
		if _, err := db.Exec(t.ddl); err != nil {
			return fmt.Errorf("create %s table: %w", t.name, err)
		}
	}
	return nil
}

func createIndexes(db *sql.DB) error {
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_publications_year ON publications(year)`,
		`CREATE INDEX IF NOT EXISTS idx_publications_venue ON publications(venue)`,
		`CREATE INDEX IF NOT EXISTS idx_authorships_author ON authorships(author_id)`,
	}
	for _, idx := range indexes {
		if _, err := db.Exec(idx); err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}

func createMetaTable(db *sql.DB) error {
	metaSQL := `
		CREATE TABLE IF NOT EXISTS export_meta (
			key TEXT PRIMARY KEY,
			value TEXT
		)
	`
	if _, err := db.Exec(metaSQL); err != nil {
		return fmt.Errorf("create export_meta table: %w", err)
	}
	return nil
}
