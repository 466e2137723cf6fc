// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog records extraction runs in a SQLite database so extracted
// page text can be listed, searched, and exported later.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/pdftext/pkg/types"
)

// DefaultPath is the catalog database used when none is configured.
const DefaultPath = "pdftext.db"

const defaultSearchLimit = 20

// snippetRadius is the number of bytes kept on each side of a search match.
const snippetRadius = 40

// ErrEmptyQuery is returned by Search for a blank query.
var ErrEmptyQuery = errors.New("search query is empty")

// Catalog manages the extraction catalog database.
type Catalog struct {
	db *sql.DB
}

// Open opens or creates the catalog at path, creating its parent directory
// and schema as needed.
func Open(path string) (*Catalog, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating catalog directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening catalog %s: %w", path, err)
	}

	c := &Catalog{db: db}
	if err := c.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return c, nil
}

// Close releases the database connection.
func (c *Catalog) Close() error {
	return c.db.Close()
}

func (c *Catalog) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			path TEXT NOT NULL UNIQUE,
			output TEXT NOT NULL,
			backend TEXT NOT NULL,
			size INTEGER NOT NULL,
			page_count INTEGER NOT NULL,
			extracted_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS pages (
			document_id INTEGER NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
			page_number INTEGER NOT NULL,
			text TEXT NOT NULL,
			chars INTEGER NOT NULL,
			PRIMARY KEY (document_id, page_number)
		)`,
	}

	for _, stmt := range statements {
		if _, err := c.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores e, replacing any earlier record for the same input path.
func (c *Catalog) Record(ctx context.Context, e *types.Extraction) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRowContext(ctx,
		`INSERT INTO documents (path, output, backend, size, page_count, extracted_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			output = excluded.output,
			backend = excluded.backend,
			size = excluded.size,
			page_count = excluded.page_count,
			extracted_at = excluded.extracted_at
		RETURNING id`,
		e.Input, e.Output, string(e.Backend), e.Size, len(e.Pages),
		e.ExtractedAt.UTC().Format(time.RFC3339Nano),
	).Scan(&id)
	if err != nil {
		return fmt.Errorf("recording document %s: %w", e.Input, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM pages WHERE document_id = ?`, id); err != nil {
		return fmt.Errorf("clearing pages for %s: %w", e.Input, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO pages (document_id, page_number, text, chars) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing page insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range e.Pages {
		if _, err := stmt.ExecContext(ctx, id, p.Number, p.Text, p.Chars); err != nil {
			return fmt.Errorf("recording page %d of %s: %w", p.Number, e.Input, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing %s: %w", e.Input, err)
	}
	return nil
}

// Document summarizes one recorded extraction.
type Document struct {
	Path        string        `json:"path" yaml:"path"`
	Output      string        `json:"output" yaml:"output"`
	Backend     types.Backend `json:"backend" yaml:"backend"`
	Size        int64         `json:"size" yaml:"size"`
	Pages       int           `json:"pages" yaml:"pages"`
	EmptyPages  int           `json:"empty_pages" yaml:"empty_pages"`
	ExtractedAt time.Time     `json:"extracted_at" yaml:"extracted_at"`
}

// List returns every recorded document ordered by path.
func (c *Catalog) List(ctx context.Context) ([]Document, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT d.path, d.output, d.backend, d.size, d.page_count, d.extracted_at,
			(SELECT count(*) FROM pages p WHERE p.document_id = d.id AND p.chars = 0)
		FROM documents d
		ORDER BY d.path`)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var d Document
		var backend, extractedAt string
		if err := rows.Scan(&d.Path, &d.Output, &backend, &d.Size, &d.Pages, &extractedAt, &d.EmptyPages); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		d.Backend = types.Backend(backend)
		d.ExtractedAt, _ = time.Parse(time.RFC3339Nano, extractedAt)
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// Hit is one page matching a search.
type Hit struct {
	Path    string `json:"path" yaml:"path"`
	Page    int    `json:"page" yaml:"page"`
	Snippet string `json:"snippet" yaml:"snippet"`
}

// Search returns pages whose text contains query, ignoring ASCII case,
// ordered by document path then page number. A limit of 0 or less uses the
// default of 20.
func (c *Catalog) Search(ctx context.Context, query string, limit int) ([]Hit, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	rows, err := c.db.QueryContext(ctx,
		`SELECT d.path, p.page_number, p.text
		FROM pages p JOIN documents d ON d.id = p.document_id
		WHERE p.text LIKE ? ESCAPE '\'
		ORDER BY d.path, p.page_number
		LIMIT ?`,
		"%"+escapeLike(query)+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("searching pages: %w", err)
	}
	defer rows.Close()

	var hits []Hit
	for rows.Next() {
		var h Hit
		var text string
		if err := rows.Scan(&h.Path, &h.Page, &text); err != nil {
			return nil, fmt.Errorf("scanning hit: %w", err)
		}
		h.Snippet = snippet(text, query)
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// snippet returns the text around the first case-insensitive match of query,
// on one line, with ellipses where the text was cut.
func snippet(text, query string) string {
	idx := strings.Index(strings.ToLower(text), strings.ToLower(query))
	if idx < 0 || len(strings.ToLower(text)) != len(text) {
		idx = 0
	}

	start := idx - snippetRadius
	if start < 0 {
		start = 0
	}
	end := idx + len(query) + snippetRadius
	if end > len(text) {
		end = len(text)
	}
	for start > 0 && !utf8.RuneStart(text[start]) {
		start--
	}
	for end < len(text) && !utf8.RuneStart(text[end]) {
		end++
	}

	s := strings.Join(strings.Fields(text[start:end]), " ")
	if start > 0 {
		s = "..." + s
	}
	if end < len(text) {
		s += "..."
	}
	return s
}
