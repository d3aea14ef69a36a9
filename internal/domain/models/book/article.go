package book

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Status is the publication state of an article
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

// ParseStatus canonicalizes a stored status. Known states match
// case-insensitively; any other value is kept as written, trimmed.
func ParseStatus(s string) Status {
	s = strings.TrimSpace(s)
	for _, known := range []Status{StatusDraft, StatusPublished} {
		if strings.EqualFold(s, string(known)) {
			return known
		}
	}
	return Status(s)
}

// Article is one verse-keyed unit within a chapter
type Article struct {
	Verse     string         `json:"verse"`
	Title     string         `json:"title"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	Status    Status         `json:"status"`
	Tags      []string       `json:"tags"`
	Author    string         `json:"author"`
	Feedback  Feedback       `json:"feedback"`
	Content   []ContentBlock `json:"content"`
	Comments  []Comment      `json:"comments"`

	// Extra holds fields this version does not understand; they are written back unchanged.
	Extra map[string]any `json:"-"`
}

// MarshalJSON emits the canonical fields followed by any pass-through fields
func (a Article) MarshalJSON() ([]byte, error) {
	type plain Article
	return marshalWithExtra(plain(a), a.Extra)
}

// DefaultTitle is the title given to an article that has none
func DefaultTitle(verse string) string {
	return "Verse " + verse
}

// VerseKey normalizes a verse given as a string or a number to its string form.
// 1, 1.0, json.Number("1") and " 1 " all yield "1".
func VerseKey(verse any) string {
	switch v := verse.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return formatFloat(f)
		}
		return strings.TrimSpace(v.String())
	case int:
		return strconv.Itoa(v)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float32:
		return formatFloat(float64(v))
	case float64:
		return formatFloat(v)
	case fmt.Stringer:
		return strings.TrimSpace(v.String())
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

func formatFloat(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ArticleIndex returns the position of the article with the given verse, or -1
func (c *Chapter) ArticleIndex(verse any) int {
	key := VerseKey(verse)
	for i, a := range c.Articles {
		if a != nil && VerseKey(a.Verse) == key {
			return i
		}
	}
	return -1
}

// AppendArticle adds an article at the end of the chapter.
// Verse keys are unique within a chapter; a duplicate is rejected with a ConflictError.
func (c *Chapter) AppendArticle(a *Article) error {
	if i := c.ArticleIndex(a.Verse); i >= 0 {
		return newConflict("article", c.ID+"/"+a.Verse,
			fmt.Sprintf("verse %q already exists in chapter %q", a.Verse, c.ID))
	}
	c.Articles = append(c.Articles, a)
	return nil
}

// RemoveArticle removes the article with the given verse and reports whether it existed
func (c *Chapter) RemoveArticle(verse any) bool {
	i := c.ArticleIndex(verse)
	if i < 0 {
		return false
	}
	c.Articles = append(c.Articles[:i:i], c.Articles[i+1:]...)
	return true
}

// ReorderArticles rearranges the chapter's articles into the given verse order.
// The verses must name every article exactly once.
func (c *Chapter) ReorderArticles(verses []string) error {
	if len(verses) != len(c.Articles) {
		return newValidation(fmt.Sprintf("expected %d verses, got %d", len(c.Articles), len(verses)))
	}

	byKey := make(map[string]*Article, len(c.Articles))
	for _, a := range c.Articles {
		byKey[VerseKey(a.Verse)] = a
	}

	ordered := make([]*Article, 0, len(verses))
	for _, v := range verses {
		key := VerseKey(v)
		a, ok := byKey[key]
		if !ok {
			return newValidation(fmt.Sprintf("verse %q is not in chapter %q or is listed twice", v, c.ID))
		}
		delete(byKey, key)
		ordered = append(ordered, a)
	}

	c.Articles = ordered
	return nil
}

// FindArticle resolves an article by (chapter id, verse). The verse may be a string or a number.
func FindArticle(chapters []*Chapter, chapterID string, verse any) (*Chapter, *Article, bool) {
	ch := FindChapter(chapters, chapterID)
	if ch == nil {
		return nil, nil, false
	}
	i := ch.ArticleIndex(verse)
	if i < 0 {
		return ch, nil, false
	}
	return ch, ch.Articles[i], true
}

// FindFirstArticle returns the first article in tree order, used as the default
// target when a book is opened.
func FindFirstArticle(chapters []*Chapter) (*Chapter, *Article, bool) {
	for _, ch := range chapters {
		if ch == nil {
			continue
		}
		if len(ch.Articles) > 0 {
			return ch, ch.Articles[0], true
		}
		if c, a, ok := FindFirstArticle(ch.Children); ok {
			return c, a, true
		}
	}
	return nil, nil, false
}
