package export

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/vanderheijden86/snolabib/pkg/filter"
	"github.com/vanderheijden86/snolabib/pkg/page"
	"github.com/vanderheijden86/snolabib/pkg/version"

	_ "modernc.org/sqlite"
)

// SQLiteExporter writes a dataset to a SQLite database.
type SQLiteExporter struct {
	Data Dataset
	// Now stamps the export; time.Now when nil.
	Now func() time.Time
}

// NewSQLiteExporter creates an exporter for d.
func NewSQLiteExporter(d Dataset) *SQLiteExporter {
	return &SQLiteExporter{Data: d}
}

// Export writes the database to path, replacing any existing file.
func (e *SQLiteExporter) Export(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	// Remove existing database if present
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove existing database: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := CreateSchema(db); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	steps := []struct {
		name string
		fn   func(*sql.Tx) error
	}{
		{"authors", e.insertAuthors},
		{"publications", e.insertPublications},
		{"facet counts", e.insertFacetCounts},
		{"meta", e.insertMeta},
	}
	for _, s := range steps {
		if err := s.fn(tx); err != nil {
			return fmt.Errorf("insert %s: %w", s.name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return db.Close()
}

func (e *SQLiteExporter) insertAuthors(tx *sql.Tx) error {
	stmt, err := tx.Prepare(`INSERT INTO authors (id, key, name, position) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, a := range e.Data.Directory.Authors {
		if _, err := stmt.Exec(a.ID, a.Key, a.Name, i); err != nil {
			return fmt.Errorf("author %s: %w", a.ID, err)
		}
	}
	return nil
}

func (e *SQLiteExporter) insertPublications(tx *sql.Tx) error {
	pubStmt, err := tx.Prepare(`
		INSERT INTO publications (id, key, year, venue, authors_raw, title, text, html, visible)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer pubStmt.Close()

	authorStmt, err := tx.Prepare(`
		INSERT INTO authorships (publication_id, author_id, position, known)
		VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer authorStmt.Close()

	for i, p := range e.Data.Publications {
		visible := i < len(e.Data.Visible) && e.Data.Visible[i]
		if _, err := pubStmt.Exec(i, p.Key, p.Year, p.Venue, p.Authors, p.Title, page.PlainText(p.HTML), p.HTML, boolInt(visible)); err != nil {
			return fmt.Errorf("publication %s: %w", p.Key, err)
		}
		for pos, id := range p.AuthorIDs() {
			_, known := e.Data.Directory.Lookup(id)
			if _, err := authorStmt.Exec(i, id, pos, boolInt(known)); err != nil {
				return fmt.Errorf("authorship %s/%s: %w", p.Key, id, err)
			}
		}
	}
	return nil
}

func (e *SQLiteExporter) insertFacetCounts(tx *sql.Tx) error {
	stmt, err := tx.Prepare(`
		INSERT INTO facet_counts (facet, value, label, position, total, visible, selected)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, f := range filter.Facets {
		for i, b := range e.Data.Panels[f] {
			if _, err := stmt.Exec(f.String(), b.Value, b.Label, i, b.Total,
				e.Data.Counts.Get(f, b.Value), boolInt(e.Data.isSelected(f, b.Value))); err != nil {
				return fmt.Errorf("%s %s: %w", f, b.Value, err)
			}
		}
	}
	return nil
}

func (e *SQLiteExporter) insertMeta(tx *sql.Tx) error {
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	meta := [][2]string{
		{"schema_version", strconv.Itoa(SchemaVersion)},
		{"exported_at", now().UTC().Format(time.RFC3339)},
		{"version", version.Version},
		{"publication_count", strconv.Itoa(len(e.Data.Publications))},
		{"visible_count", strconv.Itoa(e.Data.VisibleCount())},
		{"heading", e.Data.Heading.Text(e.Data.VisibleCount())},
	}
	for _, kv := range meta {
		if _, err := tx.Exec(`INSERT INTO export_meta (key, value) VALUES (?, ?)`, kv[0], kv[1]); err != nil {
			return fmt.Errorf("meta %s: %w", kv[0], err)
		}
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
