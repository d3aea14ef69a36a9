package sqlite

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"granth/internal/domain"
	"granth/internal/domain/models/book"
)

func newTestRepo(t *testing.T) *DocumentRepository {
	t.Helper()
	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "books.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewDocumentRepository(db, slog.New(slog.NewTextHandler(io.Discard, nil))).(*DocumentRepository)
}

func sampleDoc(title string) *book.Document {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return &book.Document{
		ID:        "gita",
		Metadata:  book.Metadata{Title: title, SourceLanguage: "sa"},
		Chapters:  []*book.Chapter{{ID: "c1", Name: "One", Articles: []*book.Article{}, Children: []*book.Chapter{}}},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestDocumentRepository_SaveLoad(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	_, err := repo.Load(ctx, "gita")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, repo.Save(ctx, "gita", sampleDoc("Gita")))
	require.NoError(t, repo.Save(ctx, "gita", sampleDoc("Bhagavad Gita")))

	raw, err := repo.Load(ctx, "gita")
	require.NoError(t, err)
	md := raw["metadata"].(map[string]any)
	assert.Equal(t, "Bhagavad Gita", md["title"])

	ids, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"gita"}, ids)
}

func TestDocumentRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	require.NoError(t, repo.Save(ctx, "gita", sampleDoc("Gita")))
	require.NoError(t, repo.Delete(ctx, "gita"))
	assert.ErrorIs(t, repo.Delete(ctx, "gita"), domain.ErrNotFound)

	ids, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}
