package book

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"granth/internal/domain"
	"granth/internal/domain/models/book"
	"granth/internal/domain/repositories"
	bookrepo "granth/internal/domain/repositories/book"
	"granth/internal/repository/postgres"
)

// PostgresDocumentRepository stores one JSONB row per book
type PostgresDocumentRepository struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewDocumentRepository creates a new book document repository
func NewDocumentRepository(config *postgres.RepositoryConfig) bookrepo.DocumentRepository {
	return &PostgresDocumentRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Load reads the stored document. Inside a transaction the row is locked
// until commit so a load-mutate-save cycle is not interleaved with another writer.
func (r *PostgresDocumentRepository) Load(ctx context.Context, id string) (book.RawDocument, error) {
	query := fmt.Sprintf(`SELECT document FROM %s WHERE id = $1`, r.tables.Books)
	if repositories.InTx(ctx) {
		query += ` FOR UPDATE`
	}

	var data []byte
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, id).Scan(&data); err != nil {
		if postgres.IsPgNoRowsError(err) {
			return nil, &domain.NotFoundError{Message: fmt.Sprintf("book %s not found", id)}
		}
		if postgres.IsPgUndefinedTableError(err) {
			return nil, fmt.Errorf("load book %s: table %s does not exist (granthctl reset recreates it): %w", id, r.tables.Books, err)
		}
		return nil, fmt.Errorf("load book %s: %w", id, err)
	}

	raw, err := book.DecodeRaw(data)
	if err != nil {
		return nil, fmt.Errorf("load book %s: %w", id, err)
	}
	return raw, nil
}

// Save upserts the whole document
func (r *PostgresDocumentRepository) Save(ctx context.Context, id string, doc *book.Document) error {
	data, err := book.Encode(doc)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, document, revision, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET document = EXCLUDED.document,
			revision = EXCLUDED.revision,
			updated_at = EXCLUDED.updated_at
	`, r.tables.Books)

	executor := postgres.GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, id, data, doc.Revision, doc.CreatedAt, doc.UpdatedAt); err != nil {
		return fmt.Errorf("save book %s: %w", id, err)
	}

	r.logger.Debug("book saved", "book_id", id, "revision", doc.Revision, "bytes", len(data))
	return nil
}

// Delete removes a book
func (r *PostgresDocumentRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Books)

	executor := postgres.GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete book %s: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return &domain.NotFoundError{Message: fmt.Sprintf("book %s not found", id)}
	}
	return nil
}

// List returns every book id
func (r *PostgresDocumentRepository) List(ctx context.Context) ([]string, error) {
	query := fmt.Sprintf(`SELECT id FROM %s ORDER BY id`, r.tables.Books)

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query)
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
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return ids, nil
}
