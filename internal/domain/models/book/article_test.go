package book

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"granth/internal/domain"
)

func TestVerseKey(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{"1", "1"},
		{" 12 ", "12"},
		{1, "1"},
		{int64(7), "7"},
		{1.0, "1"},
		{2.5, "2.5"},
		{json.Number("3"), "3"},
		{json.Number("3.0"), "3"},
		{"1.1-3", "1.1-3"},
		{nil, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, VerseKey(tt.in), "VerseKey(%#v)", tt.in)
	}
}

func chapterWith(verses ...string) *Chapter {
	c := &Chapter{ID: "c", Articles: []*Article{}, Children: []*Chapter{}}
	for _, v := range verses {
		c.Articles = append(c.Articles, &Article{Verse: v, Title: DefaultTitle(v)})
	}
	return c
}

func verses(c *Chapter) []string {
	out := make([]string, 0, len(c.Articles))
	for _, a := range c.Articles {
		out = append(out, a.Verse)
	}
	return out
}

func TestFindArticle(t *testing.T) {
	tree := []*Chapter{ch("a", chapterWith("1", "2"))}
	tree[0].Children[0].ID = "b"

	c, a, ok := FindArticle(tree, "b", 2)
	require.True(t, ok)
	assert.Equal(t, "b", c.ID)
	assert.Equal(t, "2", a.Verse)

	c, _, ok = FindArticle(tree, "b", "9")
	assert.False(t, ok)
	assert.NotNil(t, c, "chapter is still reported when only the verse is missing")

	c, _, ok = FindArticle(tree, "ghost", "1")
	assert.False(t, ok)
	assert.Nil(t, c)
}

func TestFindFirstArticle(t *testing.T) {
	inner := chapterWith("5")
	inner.ID = "inner"
	tree := []*Chapter{ch("empty"), ch("outer", inner), ch("later")}
	tree[2].Articles = []*Article{{Verse: "1"}}

	c, a, ok := FindFirstArticle(tree)
	require.True(t, ok)
	assert.Equal(t, "inner", c.ID)
	assert.Equal(t, "5", a.Verse)

	_, _, ok = FindFirstArticle([]*Chapter{ch("x")})
	assert.False(t, ok)
}

func TestAppendArticle(t *testing.T) {
	c := chapterWith("1")
	require.NoError(t, c.AppendArticle(&Article{Verse: "2"}))
	assert.Equal(t, []string{"1", "2"}, verses(c))

	err := c.AppendArticle(&Article{Verse: "1"})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Len(t, c.Articles, 2)
}

func TestRemoveArticle(t *testing.T) {
	c := chapterWith("1", "2", "3")
	before := c.Articles

	assert.True(t, c.RemoveArticle(2))
	assert.Equal(t, []string{"1", "3"}, verses(c))
	assert.Equal(t, "2", before[1].Verse, "previous slice is not overwritten")

	assert.False(t, c.RemoveArticle("9"))
	assert.Len(t, c.Articles, 2)
}

func TestReorderArticles(t *testing.T) {
	c := chapterWith("1", "2", "3")
	require.NoError(t, c.ReorderArticles([]string{"3", "1", "2"}))
	assert.Equal(t, []string{"3", "1", "2"}, verses(c))

	assert.ErrorIs(t, c.ReorderArticles([]string{"1", "2"}), domain.ErrValidation)
	assert.ErrorIs(t, c.ReorderArticles([]string{"1", "1", "2"}), domain.ErrValidation)
	assert.Equal(t, []string{"3", "1", "2"}, verses(c), "failed reorder leaves order unchanged")
}

func TestArticleMarshal_KeepsExtraFields(t *testing.T) {
	a := Article{
		Verse:    "1",
		Title:    "Verse 1",
		Feedback: NewFeedback(),
		Content: []ContentBlock{{
			ID:           "b1",
			Type:         KindShloka,
			Translations: map[string]string{},
			Extra:        map[string]any{"meter": "anushtubh", "id": "ignored"},
		}},
		Extra: map[string]any{"audioUrl": "https://example.org/1.mp3", "verse": "ignored"},
	}

	data, err := json.Marshal(a)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "https://example.org/1.mp3", out["audioUrl"])
	assert.Equal(t, "1", out["verse"])

	block := out["content"].([]any)[0].(map[string]any)
	assert.Equal(t, "anushtubh", block["meter"])
	assert.Equal(t, "b1", block["id"])
}
