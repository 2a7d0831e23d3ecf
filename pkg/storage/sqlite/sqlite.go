// Package sqlite provides a SQLite-based implementation of the archive interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/simplesearch/simplesearch/pkg/storage"
)

// SQLiteStore implements the DocumentStore interface using a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and if needed creates) a SQLite-backed archive at dsn.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, &storage.StorageUnavailableError{Cause: err}
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, &storage.StorageUnavailableError{Cause: fmt.Errorf("set WAL mode: %w", err)}
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, &storage.StorageUnavailableError{Cause: fmt.Errorf("set busy timeout: %w", err)}
	}
	db.SetMaxOpenConns(1)
	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, &storage.StorageUnavailableError{Cause: fmt.Errorf("migrate: %w", err)}
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS documents (
		doc_id    INTEGER PRIMARY KEY,
		slug      TEXT NOT NULL,
		content   TEXT NOT NULL,
		stored_at TEXT NOT NULL
	)`)
	return err
}

// Put stores or replaces a document.
func (s *SQLiteStore) Put(ctx context.Context, doc *storage.Document) error {
	storedAt := doc.StoredAt
	if storedAt.IsZero() {
		storedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (doc_id, slug, content, stored_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(doc_id) DO UPDATE SET slug=excluded.slug, content=excluded.content, stored_at=excluded.stored_at`,
		doc.DocID, doc.Slug, doc.Content, storedAt.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("archive: put document %d: %w", doc.DocID, err)
	}
	return nil
}

// Get retrieves a document by id.
func (s *SQLiteStore) Get(ctx context.Context, docID int) (*storage.Document, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT doc_id, slug, content, stored_at FROM documents WHERE doc_id = ?`, docID)

	var doc storage.Document
	var storedAt string
	if err := row.Scan(&doc.DocID, &doc.Slug, &doc.Content, &storedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &storage.NotFoundError{DocID: docID}
		}
		return nil, fmt.Errorf("archive: get document %d: %w", docID, err)
	}
	if ts, err := time.Parse(time.RFC3339Nano, storedAt); err == nil {
		doc.StoredAt = ts
	}
	return &doc, nil
}

// Delete removes a document by id.
func (s *SQLiteStore) Delete(ctx context.Context, docID int) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE doc_id = ?`, docID)
	if err != nil {
		return fmt.Errorf("archive: delete document %d: %w", docID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("archive: delete document %d: %w", docID, err)
	}
	if n == 0 {
		return &storage.NotFoundError{DocID: docID}
	}
	return nil
}

// List returns documents in ascending doc id order with pagination.
func (s *SQLiteStore) List(ctx context.Context, limit, offset int) ([]*storage.Document, int, error) {
	total, err := s.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT doc_id, slug, content, stored_at FROM documents ORDER BY doc_id LIMIT ? OFFSET ?`,
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("archive: list documents: %w", err)
	}
	defer rows.Close()

	var docs []*storage.Document
	for rows.Next() {
		var doc storage.Document
		var storedAt string
		if err := rows.Scan(&doc.DocID, &doc.Slug, &doc.Content, &storedAt); err != nil {
			return nil, 0, fmt.Errorf("archive: scan document: %w", err)
		}
		if ts, err := time.Parse(time.RFC3339Nano, storedAt); err == nil {
			doc.StoredAt = ts
		}
		docs = append(docs, &doc)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("archive: list documents: %w", err)
	}
	return docs, total, nil
}

// Count returns the number of archived documents.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&n); err != nil {
		return 0, fmt.Errorf("archive: count documents: %w", err)
	}
	return n, nil
}

// Clear removes every archived document.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM documents`); err != nil {
		return fmt.Errorf("archive: clear documents: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
