package migration

import (
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"

	"granth/internal/domain/models/book"
	"granth/internal/schema"
)

// Schema is the part of the block schema registry the normalizer depends on
type Schema interface {
	PrimarySourceKind() book.BlockKind
	DefaultLanguage() string
	LegacyTranslations() []schema.LegacyAlias
	LegacyTextFields() []string
}

// DefaultCreatedAtWindow bounds the synthetic creation time of articles that have none
const DefaultCreatedAtWindow = 30 * 24 * time.Hour

// Config tunes the defaults written during migration
type Config struct {
	// SourceLanguage overrides the schema's default original language
	SourceLanguage string
	// DefaultAuthor is used when neither the article nor the book names one
	DefaultAuthor string
	// CreatedAtWindow is how far back a synthetic createdAt may fall
	CreatedAtWindow time.Duration

	// Now and Rand make synthetic timestamps reproducible in tests.
	// A *rand.Rand is not safe for concurrent use; leave it nil in servers.
	Now  func() time.Time
	Rand *rand.Rand
	// NewID generates block and comment ids
	NewID func() string
}

func (c Config) withDefaults() Config {
	if c.CreatedAtWindow <= 0 {
		c.CreatedAtWindow = DefaultCreatedAtWindow
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.NewID == nil {
		c.NewID = func() string { return uuid.New().String() }
	}
	return c
}

// Report counts what a migration pass had to fill in
type Report = book.MigrationReport

// ArticleDefaults carries the document-level values an article inherits
type ArticleDefaults struct {
	Language string
	Author   string
}

// Normalizer turns legacy block and article records into canonical form.
// It performs no I/O and never fails. A Normalizer accumulates a Report and is
// meant for one migration pass; Migrator creates one per document.
type Normalizer struct {
	schema Schema
	cfg    Config
	report *Report
}

// NewNormalizer creates a normalizer backed by the given block schema
func NewNormalizer(s Schema, cfg Config) *Normalizer {
	return &Normalizer{schema: s, cfg: cfg.withDefaults(), report: &Report{}}
}

// Report returns the counts collected by this normalizer so far
func (n *Normalizer) Report() Report {
	return *n.report
}

var blockFields = keySet("id", "type", "originalLang", "text", "translations", "commentary")

// NormalizeBlock canonicalizes one content block. lang is the document's
// working source language; empty means the configured default.
func (n *Normalizer) NormalizeBlock(raw map[string]any, lang string) book.ContentBlock {
	known := keySet()
	for k := range blockFields {
		known[k] = true
	}

	b := book.ContentBlock{Translations: map[string]string{}}
	n.report.Blocks++

	if id, ok := getText(raw, "id"); ok {
		b.ID = id
	} else {
		b.ID = n.cfg.NewID()
		n.report.BlockIDs++
	}

	if kind, ok := getText(raw, "type"); ok {
		b.Type = book.BlockKind(strings.TrimSpace(kind))
	} else {
		b.Type = n.schema.PrimarySourceKind()
	}

	if ol, ok := getText(raw, "originalLang"); ok {
		b.OriginalLang = ol
	} else {
		b.OriginalLang = n.language(lang)
	}

	if text, ok := getString(raw, "text"); ok {
		b.Text = text
	} else {
		for _, field := range n.schema.LegacyTextFields() {
			if text, ok := getString(raw, field); ok {
				b.Text = text
				n.report.FoldedFields++
				break
			}
		}
	}
	for _, field := range n.schema.LegacyTextFields() {
		known[field] = true
	}

	if tr, ok := getMap(raw, "translations"); ok {
		for lang := range tr {
			if s, ok := getString(tr, lang); ok {
				b.Translations[lang] = s
			}
		}
	}
	for _, alias := range n.schema.LegacyTranslations() {
		known[alias.Field] = true
		n.foldTranslation(b.Translations, raw, alias)
	}

	switch c := raw["commentary"].(type) {
	case map[string]any:
		ref := &book.CommentaryRef{}
		ref.ID, _ = getString(c, "id")
		ref.ShortName, _ = getString(c, "shortName")
		if ref.ID != "" || ref.ShortName != "" {
			b.Commentary = ref
		}
	case string:
		if strings.TrimSpace(c) != "" {
			b.Commentary = &book.CommentaryRef{ShortName: c}
		}
	}

	b.Extra = extras(raw, known)
	return b
}

// foldTranslation moves a flat legacy field into translations unless the
// canonical entry already exists
func (n *Normalizer) foldTranslation(dst map[string]string, raw map[string]any, alias schema.LegacyAlias) {
	text, ok := getString(raw, alias.Field)
	if !ok {
		return
	}
	n.report.FoldedFields++
	if _, exists := dst[alias.Language]; exists {
		return
	}
	dst[alias.Language] = text
}

func (n *Normalizer) language(lang string) string {
	if lang != "" {
		return lang
	}
	if n.cfg.SourceLanguage != "" {
		return n.cfg.SourceLanguage
	}
	return n.schema.DefaultLanguage()
}

var articleFields = keySet("verse", "title", "createdAt", "updatedAt", "status", "tags",
	"author", "feedback", "content", "comments")

// NormalizeArticle canonicalizes one article: legacy root text becomes a
// source block, missing metadata gets defaults, feedback and comment threads
// are completed.
func (n *Normalizer) NormalizeArticle(raw map[string]any, defaults ArticleDefaults) book.Article {
	known := keySet()
	for k := range articleFields {
		known[k] = true
	}
	n.report.Articles++

	a := book.Article{
		Verse:   book.VerseKey(raw["verse"]),
		Tags:    getStrings(raw, "tags"),
		Content: []book.ContentBlock{},
	}

	if title, ok := getText(raw, "title"); ok {
		a.Title = title
	} else {
		a.Title = book.DefaultTitle(a.Verse)
	}

	if author, ok := getText(raw, "author"); ok {
		a.Author = author
	} else if defaults.Author != "" {
		a.Author = defaults.Author
	} else {
		a.Author = n.cfg.DefaultAuthor
	}

	if t, ok := getTime(raw, "createdAt"); ok {
		a.CreatedAt = t
	} else {
		a.CreatedAt = n.syntheticCreatedAt()
		n.report.SyntheticDates++
	}
	if t, ok := getTime(raw, "updatedAt"); ok {
		a.UpdatedAt = t
	} else {
		a.UpdatedAt = a.CreatedAt
	}

	if s, ok := getText(raw, "status"); ok {
		a.Status = book.ParseStatus(s)
	} else {
		a.Status = book.StatusPublished
	}

	if legacy := n.legacySourceBlock(raw, defaults.Language); legacy != nil {
		a.Content = append(a.Content, *legacy)
		n.report.SynthesizedBlocks++
		for _, alias := range n.schema.LegacyTranslations() {
			known[alias.Field] = true
		}
	}
	for _, field := range n.schema.LegacyTextFields() {
		known[field] = true
	}
	for _, b := range getMaps(raw, "content") {
		a.Content = append(a.Content, n.NormalizeBlock(b, defaults.Language))
	}

	feedback, _ := getMap(raw, "feedback")
	a.Feedback = normalizeFeedback(feedback)

	a.Comments = n.normalizeComments(getMaps(raw, "comments"))

	a.Extra = extras(raw, known)
	return a
}

// legacySourceBlock builds the source block of an article stored in the flat
// pre-block layout (root text plus root translations)
func (n *Normalizer) legacySourceBlock(raw map[string]any, lang string) *book.ContentBlock {
	for _, field := range n.schema.LegacyTextFields() {
		text, ok := getText(raw, field)
		if !ok {
			continue
		}
		blockRaw := map[string]any{"text": text}
		for _, alias := range n.schema.LegacyTranslations() {
			if v, ok := raw[alias.Field]; ok {
				blockRaw[alias.Field] = v
			}
		}
		b := n.NormalizeBlock(blockRaw, lang)
		return &b
	}
	return nil
}

func (n *Normalizer) syntheticCreatedAt() time.Time {
	now := n.cfg.Now().UTC()
	window := int64(n.cfg.CreatedAtWindow)
	var offset int64
	if n.cfg.Rand != nil {
		offset = n.cfg.Rand.Int64N(window)
	} else {
		offset = rand.Int64N(window)
	}
	return now.Add(-time.Duration(offset)).Truncate(time.Millisecond)
}

var feedbackCounters = []string{"likes", "dislikes", "insightful", "uplifting", "views"}

var feedbackFields = keySet(append([]string{"scoreHistogram"}, feedbackCounters...)...)

func normalizeFeedback(raw map[string]any) book.Feedback {
	f := book.NewFeedback()
	if raw == nil {
		return f
	}
	counts := make(map[string]int, len(feedbackCounters))
	for _, key := range feedbackCounters {
		counts[key] = getInt(raw, key)
	}
	f.Likes = counts["likes"]
	f.Dislikes = counts["dislikes"]
	f.Insightful = counts["insightful"]
	f.Uplifting = counts["uplifting"]
	f.Views = counts["views"]

	hist := getList(raw, "scoreHistogram")
	values := make([]int, 0, len(hist))
	for _, v := range hist {
		i, _ := toInt(v)
		values = append(values, i)
	}
	f.ScoreHistogram = book.NormalizedHistogram(values)
	f.Extra = extras(raw, feedbackFields)
	return f
}

var commentFields = keySet("id", "author", "timestamp", "title", "body", "targetText", "replies")

func (n *Normalizer) normalizeComments(raws []map[string]any) []book.Comment {
	comments := make([]book.Comment, 0, len(raws))
	for _, raw := range raws {
		c := book.Comment{}
		if id, ok := getText(raw, "id"); ok {
			c.ID = id
		} else {
			c.ID = n.cfg.NewID()
			n.report.CommentIDs++
		}
		c.Author, _ = getString(raw, "author")
		c.Timestamp, _ = getTime(raw, "timestamp")
		c.Title, _ = getString(raw, "title")
		c.Body, _ = getString(raw, "body")
		c.TargetText, _ = getString(raw, "targetText")
		c.Replies = n.normalizeComments(getMaps(raw, "replies"))
		c.Extra = extras(raw, commentFields)
		comments = append(comments, c)
	}
	return comments
}
