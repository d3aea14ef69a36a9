// Package sqlite stores book documents in a single-file SQLite database using
// the pure Go driver, so the CLI and tests need neither cgo nor a server.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"granth/internal/domain"
	"granth/internal/domain/models/book"
	bookrepo "granth/internal/domain/repositories/book"
)

const driverName = "sqlite"

const schema = `
CREATE TABLE IF NOT EXISTS books (
	id TEXT PRIMARY KEY,
	document TEXT NOT NULL,
	revision TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
)`

// Open opens (creating if needed) the database at path and ensures the schema.
// SQLite serializes writers, so the pool is limited to one connection.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open(driverName, path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create sqlite schema: %w", err)
	}
	return db, nil
}

// DocumentRepository implements the book DocumentRepository on SQLite
type DocumentRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewDocumentRepository wraps a database opened with Open
func NewDocumentRepository(db *sql.DB, logger *slog.Logger) bookrepo.DocumentRepository {
	return &DocumentRepository{db: db, logger: logger}
}

// Load reads the stored document
func (r *DocumentRepository) Load(ctx context.Context, id string) (book.RawDocument, error) {
	var data string
	err := r.db.QueryRowContext(ctx, `SELECT document FROM books WHERE id = ?`, id).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.NotFoundError{Message: fmt.Sprintf("book %s not found", id)}
		}
		return nil, fmt.Errorf("load book %s: %w", id, err)
	}

	raw, err := book.DecodeRaw([]byte(data))
	if err != nil {
		return nil, fmt.Errorf("load book %s: %w", id, err)
	}
	return raw, nil
}

// Save upserts the whole document
func (r *DocumentRepository) Save(ctx context.Context, id string, doc *book.Document) error {
	data, err := book.Encode(doc)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO books (id, document, revision, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE
		SET document = excluded.document,
			revision = excluded.revision,
			updated_at = excluded.updated_at`,
		id, string(data), doc.Revision,
		doc.CreatedAt.UTC().Format(time.RFC3339Nano),
		doc.UpdatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save book %s: %w", id, err)
	}

	r.logger.Debug("book saved", "book_id", id, "revision", doc.Revision, "bytes", len(data))
	return nil
}

// Delete removes a book
func (r *DocumentRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete book %s: %w", id, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete book %s: %w", id, err)
	}
	if n == 0 {
		return &domain.NotFoundError{Message: fmt.Sprintf("book %s not found", id)}
	}
	return nil
}

// List returns every book id
func (r *DocumentRepository) List(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM books ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan book id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
