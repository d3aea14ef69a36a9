package book

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"granth/internal/domain"
	"granth/internal/domain/models/book"
	bookSvc "granth/internal/domain/services/book"
)

func outlineIDs(nodes []*book.OutlineNode) []string {
	var out []string
	var visit func([]*book.OutlineNode)
	visit = func(ns []*book.OutlineNode) {
		for _, n := range ns {
			out = append(out, n.ID)
			visit(n.Children)
		}
	}
	visit(nodes)
	return out
}

func TestCreateChapter(t *testing.T) {
	tests := []struct {
		name      string
		req       bookSvc.CreateChapterRequest
		placement string
		wantErr   error
		wantOrder []string
	}{
		{
			name:      "root",
			req:       bookSvc.CreateChapterRequest{ID: "ch3", Name: "Karma Yoga"},
			placement: "root",
			wantOrder: []string{"ch1", "ch1-notes", "ch2", "ch3"},
		},
		{
			name:      "nested",
			req:       bookSvc.CreateChapterRequest{ID: "ch1-more", Name: "More", ParentID: "ch1"},
			placement: "parent",
			wantOrder: []string{"ch1", "ch1-notes", "ch1-more", "ch2"},
		},
		{
			name:    "unknown parent",
			req:     bookSvc.CreateChapterRequest{ID: "x", Name: "X", ParentID: "missing"},
			wantErr: domain.ErrInvalidReference,
		},
		{
			name:    "duplicate id",
			req:     bookSvc.CreateChapterRequest{ID: "ch2", Name: "Again"},
			wantErr: domain.ErrConflict,
		},
		{
			name:    "blank name",
			req:     bookSvc.CreateChapterRequest{ID: "x", Name: "   "},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "id with slash",
			req:     bookSvc.CreateChapterRequest{ID: "a/b", Name: "A"},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "id with query mark",
			req:     bookSvc.CreateChapterRequest{ID: "a?b", Name: "A"},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "id with fragment mark",
			req:     bookSvc.CreateChapterRequest{ID: "a#b", Name: "A"},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "id with percent",
			req:     bookSvc.CreateChapterRequest{ID: "50%", Name: "A"},
			wantErr: domain.ErrValidation,
		},
		{
			name:      "devanagari slug id",
			req:       bookSvc.CreateChapterRequest{ID: "कर्म-योग_2.1", Name: "Karma Yoga"},
			placement: "root",
			wantOrder: []string{"ch1", "ch1-notes", "ch2", "कर्म-योग_2.1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := seededServices(t)
			ctx := context.Background()
			req := tt.req

			result, err := s.chapters.CreateChapter(ctx, "gita", &req)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				assert.Equal(t, 0, s.repo.saveCount(), "failed mutation must not be saved")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.placement, result.Placement)

			outline, err := s.documents.GetOutline(ctx, "gita")
			require.NoError(t, err)
			assert.Equal(t, tt.wantOrder, outlineIDs(outline.Chapters))
		})
	}
}

func TestCreateChapter_GeneratesID(t *testing.T) {
	s := seededServices(t)
	ctx := context.Background()

	first, err := s.chapters.CreateChapter(ctx, "gita", &bookSvc.CreateChapterRequest{Name: "Karma Yoga"})
	require.NoError(t, err)
	second, err := s.chapters.CreateChapter(ctx, "gita", &bookSvc.CreateChapterRequest{Name: "Karma Yoga"})
	require.NoError(t, err)

	assert.Contains(t, first.Chapter.ID, "karma-yoga-")
	assert.NotEqual(t, first.Chapter.ID, second.Chapter.ID)
}

func TestRenameChapter(t *testing.T) {
	s := seededServices(t)
	ctx := context.Background()

	ch, err := s.chapters.RenameChapter(ctx, "gita", "ch1-notes", &bookSvc.RenameChapterRequest{Name: " Commentary notes "})
	require.NoError(t, err)
	assert.Equal(t, "ch1-notes", ch.ID)
	assert.Equal(t, "Commentary notes", ch.Name)

	_, err = s.chapters.RenameChapter(ctx, "gita", "nope", &bookSvc.RenameChapterRequest{Name: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteChapter(t *testing.T) {
	s := seededServices(t)
	ctx := context.Background()

	require.NoError(t, s.chapters.DeleteChapter(ctx, "gita", "ch1"))

	outline, err := s.documents.GetOutline(ctx, "gita")
	require.NoError(t, err)
	assert.Equal(t, []string{"ch2"}, outlineIDs(outline.Chapters))

	err = s.chapters.DeleteChapter(ctx, "gita", "ch1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReorderChapters(t *testing.T) {
	s := seededServices(t)
	ctx := context.Background()

	outline, err := s.chapters.ReorderChapters(ctx, "gita", &bookSvc.ReorderChaptersRequest{IDs: []string{"ch2", "ch1"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"ch2", "ch1", "ch1-notes"}, outlineIDs(outline.Chapters))
	assert.NotEmpty(t, outline.Revision)

	_, err = s.chapters.ReorderChapters(ctx, "gita", &bookSvc.ReorderChaptersRequest{IDs: []string{"ch2"}})
	assert.ErrorIs(t, err, domain.ErrValidation)
}
