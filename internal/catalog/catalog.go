// Package catalog keeps an inventory of the comments erdfix spliced, in a
// SQLite database. It lets documentation tooling query table, column and
// index descriptions without parsing DDL again.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/cybertec-postgresql/erdfix/internal/annotate"
	"github.com/cybertec-postgresql/erdfix/internal/results"
)

// Schema holds the CREATE statements of the catalog in dependency order
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS file (
  id       INTEGER PRIMARY KEY, -- row id
  path     TEXT NOT NULL UNIQUE, -- file path as given to erdfix
  fixed_at TEXT NOT NULL -- RFC 3339 time of the run that wrote this entry
)`,
	`CREATE TABLE IF NOT EXISTS comment (
  file_id     INTEGER NOT NULL REFERENCES file(id) ON DELETE CASCADE, -- owning file
  kind        TEXT NOT NULL, -- column, index or table
  table_name  TEXT, -- table for column and table comments
  column_name TEXT, -- column for column comments
  index_name  TEXT, -- index for index comments
  line        INTEGER NOT NULL, -- 1-indexed line of the definition site
  comment     TEXT NOT NULL, -- comment text before truncation
  truncated   INTEGER NOT NULL DEFAULT 0 -- 1 if the spliced text was shortened
)`,
	`CREATE INDEX IF NOT EXISTS comment_file_id ON comment(file_id)`,
}

// Entry is a single catalogued comment
type Entry struct {
	File      string
	Pass      annotate.Pass
	Table     string
	Column    string
	Index     string
	Line      int
	Comment   string
	Truncated bool
}

// Catalog is an open comment catalog
type Catalog struct {
	db     *sql.DB
	logger *zap.Logger
}

// Open opens (creating if needed) the catalog at path; ":memory:" works for
// throwaway catalogs. A nil logger disables logging.
func Open(ctx context.Context, path string, logger *zap.Logger) (*Catalog, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog %s: %w", path, err)
	}
	// A single connection keeps :memory: databases and PRAGMAs consistent.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	for _, ddl := range Schema {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating catalog tables: %w", err)
		}
	}

	return &Catalog{db: db, logger: logger}, nil
}

// Close closes the underlying database
func (c *Catalog) Close() error {
	return c.db.Close()
}

// Write records the comments of every successfully processed file in one
// transaction. Entries of a file already in the catalog are replaced.
func (c *Catalog) Write(ctx context.Context, res *results.Results) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	fixedAt := res.Timestamp.UTC().Format(time.RFC3339)
	written := 0

	for _, file := range res.GetFiles() {
		fr := res.Files[file]
		if fr.Status == results.StatusFailed {
			continue
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM file WHERE path = ?", file); err != nil {
			return fmt.Errorf("replacing file %s: %w", file, err)
		}

		r, err := tx.ExecContext(ctx, "INSERT INTO file (path, fixed_at) VALUES (?, ?)", file, fixedAt)
		if err != nil {
			return fmt.Errorf("inserting file %s: %w", file, err)
		}
		fileID, err := r.LastInsertId()
		if err != nil {
			return fmt.Errorf("inserting file %s: %w", file, err)
		}

		for _, s := range fr.Splices {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO comment (file_id, kind, table_name, column_name, index_name, line, comment, truncated)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				fileID, s.Pass.String(), nullable(s.Table), nullable(s.Column), nullable(s.Index),
				s.Line, s.Comment, s.Truncated)
			if err != nil {
				return fmt.Errorf("inserting comment for %s: %w", s.Object(), err)
			}
			written++
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing catalog: %w", err)
	}

	c.logger.Debug("catalog written", zap.Int("files", len(res.Files)), zap.Int("comments", written))
	return nil
}

// Comments returns the catalogued comments of file ordered by line
func (c *Catalog) Comments(ctx context.Context, file string) ([]Entry, error) {
	rows, err := c.db.QueryContext(ctx, `
SELECT f.path, c.kind, COALESCE(c.table_name, ''), COALESCE(c.column_name, ''),
       COALESCE(c.index_name, ''), c.line, c.comment, c.truncated
FROM comment c
JOIN file f ON f.id = c.file_id
WHERE f.path = ?
ORDER BY c.line, c.kind`, file)
	if err != nil {
		return nil, fmt.Errorf("querying comments: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e    Entry
			kind string
		)
		if err := rows.Scan(&e.File, &kind, &e.Table, &e.Column, &e.Index, &e.Line, &e.Comment, &e.Truncated); err != nil {
			return nil, fmt.Errorf("scanning comment: %w", err)
		}
		if e.Pass, err = annotate.ParsePass(kind); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Files returns the catalogued file paths in sorted order
func (c *Catalog) Files(ctx context.Context) ([]string, error) {
	rows, err := c.db.QueryContext(ctx, "SELECT path FROM file ORDER BY path")
	if err != nil {
		return nil, fmt.Errorf("querying files: %w", err)
	}
	defer rows.Close()

	var files []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, fmt.Errorf("scanning file: %w", err)
		}
		files = append(files, path)
	}
	return files, rows.Err()
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
