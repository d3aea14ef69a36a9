package book

import (
	"context"

	"granth/internal/domain/models/book"
)

// DocumentRepository persists whole book documents keyed by book id.
// The store is opaque: documents go in canonical and come out raw, because
// stored records may predate the current schema and must pass through the migrator.
type DocumentRepository interface {
	// Load returns the stored record, or an error matching domain.ErrNotFound
	Load(ctx context.Context, id string) (book.RawDocument, error)

	// Save replaces the stored record atomically
	Save(ctx context.Context, id string, doc *book.Document) error

	// Delete removes a document; domain.ErrNotFound when it does not exist
	Delete(ctx context.Context, id string) error

	// List returns every stored book id in ascending order
	List(ctx context.Context) ([]string, error)
}
