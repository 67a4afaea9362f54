package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNoContents is returned by Contents before anything was stored.
var ErrNoContents = errors.New("no stored contents")

const schemaSQL = `CREATE TABLE IF NOT EXISTS contents (
	doc_id      TEXT PRIMARY KEY,
	text        TEXT NOT NULL,
	has_changes INTEGER NOT NULL,
	updated_at  TEXT NOT NULL
)`

// SQLiteWorkingCopy keeps the working copy of one or more documents in a
// SQLite database instead of writing the source file. One row per document.
type SQLiteWorkingCopy struct {
	db    *sql.DB
	docID string
}

// OpenSQLiteWorkingCopy opens (or creates) the database at dbPath and scopes
// the working copy to docID.
func OpenSQLiteWorkingCopy(dbPath, docID string) (*SQLiteWorkingCopy, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open working copy db %s: %w", dbPath, err)
	}
	// A single connection keeps ":memory:" databases alive and serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create contents table: %w", err)
	}
	return &SQLiteWorkingCopy{db: db, docID: docID}, nil
}

// SetContents implements Persister. Every call upserts the row.
func (w *SQLiteWorkingCopy) SetContents(ctx context.Context, text string, changed bool) error {
	_, err := w.db.ExecContext(ctx,
		`INSERT INTO contents (doc_id, text, has_changes, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(doc_id) DO UPDATE SET
		   text = excluded.text,
		   has_changes = excluded.has_changes,
		   updated_at = excluded.updated_at`,
		w.docID, text, changed, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("store contents for %s: %w", w.docID, err)
	}
	return nil
}

// Contents returns the last stored text and its changed flag.
func (w *SQLiteWorkingCopy) Contents(ctx context.Context) (string, bool, error) {
	var (
		text    string
		changed bool
	)
	err := w.db.QueryRowContext(ctx,
		`SELECT text, has_changes FROM contents WHERE doc_id = ?`, w.docID).Scan(&text, &changed)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, ErrNoContents
	}
	if err != nil {
		return "", false, fmt.Errorf("load contents for %s: %w", w.docID, err)
	}
	return text, changed, nil
}

func (w *SQLiteWorkingCopy) Close() error {
	return w.db.Close()
}
