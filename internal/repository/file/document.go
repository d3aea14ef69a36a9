// Package file stores each book as an xz-compressed JSON file named <id>.json.xz.
package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ulikunitz/xz"

	"granth/internal/domain"
	"granth/internal/domain/models/book"
	bookrepo "granth/internal/domain/repositories/book"
)

const extension = ".json.xz"

// DocumentRepository implements the book DocumentRepository on a directory
type DocumentRepository struct {
	dir    string
	logger *slog.Logger
}

// NewDocumentRepository creates the directory if needed
func NewDocumentRepository(dir string, logger *slog.Logger) (bookrepo.DocumentRepository, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &DocumentRepository{dir: dir, logger: logger}, nil
}

func (r *DocumentRepository) path(id string) (string, error) {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return "", &domain.ValidationError{Message: fmt.Sprintf("invalid book id %q", id)}
	}
	return filepath.Join(r.dir, id+extension), nil
}

// Load decompresses and decodes the stored document
func (r *DocumentRepository) Load(ctx context.Context, id string) (book.RawDocument, error) {
	p, err := r.path(id)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &domain.NotFoundError{Message: fmt.Sprintf("book %s not found", id)}
		}
		return nil, fmt.Errorf("load book %s: %w", id, err)
	}
	defer f.Close()

	xr, err := xz.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("load book %s: failed to create xz reader: %w", id, err)
	}
	data, err := io.ReadAll(xr)
	if err != nil {
		return nil, fmt.Errorf("load book %s: decompress: %w", id, err)
	}

	raw, err := book.DecodeRaw(data)
	if err != nil {
		return nil, fmt.Errorf("load book %s: %w", id, err)
	}
	return raw, nil
}

// Save writes to a temporary file and renames it over the old one, so a
// reader never sees a partially written document
func (r *DocumentRepository) Save(ctx context.Context, id string, doc *book.Document) error {
	p, err := r.path(id)
	if err != nil {
		return err
	}
	data, err := book.Encode(doc)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	xw, err := xz.NewWriter(&buf)
	if err != nil {
		return fmt.Errorf("save book %s: failed to create xz writer: %w", id, err)
	}
	if _, err := xw.Write(data); err != nil {
		return fmt.Errorf("save book %s: compress: %w", id, err)
	}
	if err := xw.Close(); err != nil {
		return fmt.Errorf("save book %s: compress: %w", id, err)
	}

	tmp, err := os.CreateTemp(r.dir, "."+id+"-*.tmp")
	if err != nil {
		return fmt.Errorf("save book %s: %w", id, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("save book %s: %w", id, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save book %s: %w", id, err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		return fmt.Errorf("save book %s: %w", id, err)
	}

	r.logger.Debug("book saved", "book_id", id, "revision", doc.Revision,
		"bytes", len(data), "compressed_bytes", buf.Len())
	return nil
}

// Delete removes the book's file
func (r *DocumentRepository) Delete(ctx context.Context, id string) error {
	p, err := r.path(id)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &domain.NotFoundError{Message: fmt.Sprintf("book %s not found", id)}
		}
		return fmt.Errorf("delete book %s: %w", id, err)
	}
	return nil
}

// List returns the ids of every stored book
func (r *DocumentRepository) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	ids := []string{}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, extension) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, extension))
	}
	sort.Strings(ids)
	return ids, nil
}
