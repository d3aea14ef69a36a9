package book

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"granth/internal/domain"
	"granth/internal/domain/models/book"
)

func paneLabels(panes []book.Pane) []string {
	out := make([]string, 0, len(panes))
	for _, p := range panes {
		out = append(out, p.Label)
	}
	return out
}

func TestOpenBook(t *testing.T) {
	s := seededServices(t)

	res, err := s.reader.OpenBook(context.Background(), "gita")
	require.NoError(t, err)
	assert.Equal(t, "ch1", res.ChapterID)
	require.NotNil(t, res.Article)
	assert.Equal(t, "1", res.Article.Verse)
	assert.Equal(t, []string{"source", "Shankara", "Commentary 2"}, res.Choices)
	require.Len(t, res.Breadcrumbs, 1)
	assert.Equal(t, "Arjuna Vishada Yoga", res.Breadcrumbs[0].Name)
}

func TestOpenBook_Empty(t *testing.T) {
	s := newServices(t)
	s.repo.put(t, "blank", `{"metadata": {"title": "Blank"}, "chapters": []}`)

	res, err := s.reader.OpenBook(context.Background(), "blank")
	require.NoError(t, err)
	assert.Nil(t, res.Article)
	assert.Equal(t, []string{"source"}, res.Choices)
	assert.Empty(t, res.Breadcrumbs)
}

func TestGetPanes(t *testing.T) {
	tests := []struct {
		name    string
		verse   string
		labels  []string
		want    []string
		wantErr error
	}{
		{name: "default selection", verse: "1", want: []string{"source", "Shankara"}},
		{name: "explicit order", verse: "1", labels: []string{"Commentary 2", "source"}, want: []string{"Commentary 2", "source"}},
		{name: "same pane twice", verse: "1", labels: []string{"source", "source"}, want: []string{"source", "source"}},
		{name: "no commentary", verse: "2", want: []string{"source"}},
		{name: "unknown label", verse: "1", labels: []string{"Madhva"}, wantErr: domain.ErrValidation},
		{name: "too many panes", verse: "1", labels: []string{"source", "source", "source", "source"}, wantErr: domain.ErrValidation},
		{name: "unknown verse", verse: "7", wantErr: domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := seededServices(t)
			res, err := s.reader.GetPanes(context.Background(), "gita", "ch1", tt.verse, tt.labels)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, paneLabels(res.Panes))
		})
	}
}

func TestGetPanes_SourceBlocks(t *testing.T) {
	s := seededServices(t)

	res, err := s.reader.GetPanes(context.Background(), "gita", "ch1", "1", []string{"source"})
	require.NoError(t, err)
	require.Len(t, res.Panes, 1)
	require.Len(t, res.Panes[0].Blocks, 1)
	assert.Equal(t, "b1", res.Panes[0].Blocks[0].ID)
	assert.Equal(t, "Verse 1", res.Title)
}
