package file

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"granth/internal/domain"
	"granth/internal/domain/models/book"
)

func newTestRepo(t *testing.T) (*DocumentRepository, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "books")
	repo, err := NewDocumentRepository(dir, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return repo.(*DocumentRepository), dir
}

func TestDocumentRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo, dir := newTestRepo(t)

	doc := &book.Document{
		ID:        "sutras",
		Metadata:  book.Metadata{Title: "Yoga Sutras"},
		Chapters:  []*book.Chapter{},
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Save(ctx, "sutras", doc))

	_, err := os.Stat(filepath.Join(dir, "sutras.json.xz"))
	require.NoError(t, err)

	raw, err := repo.Load(ctx, "sutras")
	require.NoError(t, err)
	assert.Equal(t, "sutras", raw["id"])

	ids, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"sutras"}, ids)

	require.NoError(t, repo.Delete(ctx, "sutras"))
	_, err = repo.Load(ctx, "sutras")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "sutras"), domain.ErrNotFound)
}

func TestDocumentRepository_RejectsPathIDs(t *testing.T) {
	repo, _ := newTestRepo(t)
	for _, id := range []string{"", "..", "a/b", `a\b`} {
		_, err := repo.Load(context.Background(), id)
		assert.ErrorIs(t, err, domain.ErrValidation, "id %q", id)
	}
}

func TestDocumentRepository_ListIgnoresOtherFiles(t *testing.T) {
	repo, dir := newTestRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".tmp.json.xz"), []byte("x"), 0644))

	ids, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}
