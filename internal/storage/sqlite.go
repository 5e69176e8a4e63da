package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/matsen/citagraph/internal/graph"
	"github.com/matsen/citagraph/internal/paper"
	_ "modernc.org/sqlite"
)

// DB wraps the SQLite query index. The index is derived from the graph file
// and can be deleted and rebuilt at any time.
type DB struct {
	db *sql.DB
}

// selectPaperFields contains the standard field list for SELECT queries.
const selectPaperFields = `id, title, author, pi, year, url, all_authors_json`

// OpenDB opens or creates a SQLite database at the given path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// createSchema creates the database schema if it doesn't exist.
func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS papers (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			author TEXT NOT NULL,
			pi TEXT NOT NULL,
			year TEXT NOT NULL,
			url TEXT NOT NULL,
			all_authors_json TEXT
		);

		CREATE TABLE IF NOT EXISTS citations (
			from_id TEXT NOT NULL,
			to_id TEXT NOT NULL,
			PRIMARY KEY (from_id, to_id)
		);

		CREATE INDEX IF NOT EXISTS idx_citations_to ON citations(to_id);

		-- Full-text search virtual table (standalone, not external content)
		CREATE VIRTUAL TABLE IF NOT EXISTS papers_fts USING fts5(
			id,
			title,
			author,
			pi,
			authors_text
		);
	`

	_, err := db.Exec(schema)
	return err
}

// RebuildFromGraph clears the index and reloads it from the store.
// Returns the number of papers indexed.
func (d *DB) RebuildFromGraph(s *graph.Store) (int, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"papers", "citations", "papers_fts"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return 0, fmt.Errorf("clearing %s table: %w", table, err)
		}
	}

	papersStmt, err := tx.Prepare(`
		INSERT INTO papers (id, title, author, pi, year, url, all_authors_json)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing papers insert: %w", err)
	}
	defer papersStmt.Close()

	ftsStmt, err := tx.Prepare(`
		INSERT INTO papers_fts (id, title, author, pi, authors_text)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing fts insert: %w", err)
	}
	defer ftsStmt.Close()

	papers := s.Papers()
	for _, p := range papers {
		var authorsJSON []byte
		if len(p.AllAuthors) > 0 {
			authorsJSON, err = json.Marshal(p.AllAuthors)
			if err != nil {
				return 0, fmt.Errorf("marshaling authors for %s: %w", p.ID, err)
			}
		}

		if _, err := papersStmt.Exec(p.ID, p.Title, p.Author, p.PI, p.Year, p.URL, nullableString(authorsJSON)); err != nil {
			return 0, fmt.Errorf("inserting paper %s: %w", p.ID, err)
		}
		if _, err := ftsStmt.Exec(p.ID, p.Title, p.Author, p.PI, strings.Join(p.AllAuthors, ", ")); err != nil {
			return 0, fmt.Errorf("inserting fts for %s: %w", p.ID, err)
		}
	}

	citesStmt, err := tx.Prepare(`INSERT INTO citations (from_id, to_id) VALUES (?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing citations insert: %w", err)
	}
	defer citesStmt.Close()

	for _, c := range s.Citations() {
		if _, err := citesStmt.Exec(c.From, c.To); err != nil {
			return 0, fmt.Errorf("inserting citation %s -> %s: %w", c.From, c.To, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing index: %w", err)
	}
	return len(papers), nil
}

// Search performs a full-text search over titles and author names.
func (d *DB) Search(query string, limit int) ([]paper.Paper, error) {
	ftsQuery := prepareFTSQuery(query)
	if ftsQuery == "" {
		return nil, nil
	}

	rows, err := d.db.Query(`
		SELECT `+selectPaperFields+`
		FROM papers
		WHERE id IN (SELECT id FROM papers_fts WHERE papers_fts MATCH ?)
		ORDER BY id
		LIMIT ?`, ftsQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("searching: %w", err)
	}
	defer rows.Close()

	return scanPapers(rows)
}

// SearchField performs a full-text search restricted to one column.
func (d *DB) SearchField(field, value string, limit int) ([]paper.Paper, error) {
	var column string
	switch field {
	case "title", "author", "pi":
		column = field
	case "authors":
		column = "authors_text"
	default:
		return nil, fmt.Errorf("unknown search field: %s", field)
	}

	ftsQuery := prepareFTSQuery(value)
	if ftsQuery == "" {
		return nil, nil
	}

	rows, err := d.db.Query(`
		SELECT `+selectPaperFields+`
		FROM papers
		WHERE id IN (SELECT id FROM papers_fts WHERE papers_fts MATCH ?)
		ORDER BY id
		LIMIT ?`, column+":"+ftsQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("searching %s: %w", field, err)
	}
	defer rows.Close()

	return scanPapers(rows)
}

// CitingIDs returns the IDs of papers citing id, sorted.
func (d *DB) CitingIDs(id string) ([]string, error) {
	return d.queryIDs(`SELECT from_id FROM citations WHERE to_id = ? ORDER BY from_id`, id)
}

// CitedIDs returns the IDs of papers cited by id, sorted.
func (d *DB) CitedIDs(id string) ([]string, error) {
	return d.queryIDs(`SELECT to_id FROM citations WHERE from_id = ? ORDER BY to_id`, id)
}

func (d *DB) queryIDs(query, id string) ([]string, error) {
	rows, err := d.db.Query(query, id)
	if err != nil {
		return nil, fmt.Errorf("querying citations: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		ids = append(ids, s)
	}
	return ids, rows.Err()
}

// Count returns the number of indexed papers.
func (d *DB) Count() (int, error) {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM papers").Scan(&count)
	return count, err
}

// IsStale reports whether the index at dbPath is missing or older than the graph file.
func IsStale(dbPath, graphPath string) bool {
	dbInfo, err := os.Stat(dbPath)
	if err != nil {
		return true
	}
	graphInfo, err := os.Stat(graphPath)
	if err != nil {
		return false // Nothing to index from
	}
	return graphInfo.ModTime().After(dbInfo.ModTime())
}

func scanPaper(rows *sql.Rows) (paper.Paper, error) {
	var p paper.Paper
	var authorsJSON sql.NullString

	if err := rows.Scan(&p.ID, &p.Title, &p.Author, &p.PI, &p.Year, &p.URL, &authorsJSON); err != nil {
		return paper.Paper{}, err
	}

	if authorsJSON.Valid {
		if err := json.Unmarshal([]byte(authorsJSON.String), &p.AllAuthors); err != nil {
			return paper.Paper{}, fmt.Errorf("parsing authors for %s: %w", p.ID, err)
		}
	}
	return p, nil
}

func scanPapers(rows *sql.Rows) ([]paper.Paper, error) {
	var papers []paper.Paper
	for rows.Next() {
		p, err := scanPaper(rows)
		if err != nil {
			return nil, err
		}
		papers = append(papers, p)
	}
	return papers, rows.Err()
}

func nullableString(b []byte) interface{} {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}

// prepareFTSQuery quotes queries containing FTS5 operator characters.
func prepareFTSQuery(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}

	// If query contains special chars, quote it
	if strings.ContainsAny(query, "\"*+-:(){}[]^~./") {
		query = strings.ReplaceAll(query, "\"", "\"\"")
		return "\"" + query + "\""
	}

	return query
}
