package migration

import (
	"strings"
	"time"

	"granth/internal/domain/models/book"
)

// Migrator converts stored documents of any historical shape into the
// canonical Document. It is safe for concurrent use unless Config.Rand is set.
type Migrator struct {
	schema Schema
	cfg    Config
}

// NewMigrator creates a migrator backed by the given block schema
func NewMigrator(s Schema, cfg Config) *Migrator {
	return &Migrator{schema: s, cfg: cfg.withDefaults()}
}

// Normalizer returns a fresh normalizer sharing this migrator's schema and
// configuration, for normalizing single articles and blocks outside a full pass
func (m *Migrator) Normalizer() *Normalizer {
	return NewNormalizer(m.schema, m.cfg)
}

// Migrate converts a raw document. It never fails: fields that cannot be
// read are treated as absent and defaulted.
func (m *Migrator) Migrate(raw book.RawDocument) *book.Document {
	doc, _ := m.MigrateWithReport(raw)
	return doc
}

// MigrateWithReport is Migrate plus a summary of what had to be filled in
func (m *Migrator) MigrateWithReport(raw book.RawDocument) (*book.Document, Report) {
	n := NewNormalizer(m.schema, m.cfg)
	doc := &book.Document{}
	if raw == nil {
		raw = book.RawDocument{}
	}

	doc.ID, _ = getString(raw, "id")
	doc.Metadata = m.metadata(raw)
	doc.Revision, _ = getString(raw, "revision")

	if t, ok := getTime(raw, "createdAt"); ok {
		doc.CreatedAt = t
	} else {
		doc.CreatedAt = m.cfg.Now().UTC().Truncate(time.Millisecond)
	}
	if t, ok := getTime(raw, "updatedAt"); ok {
		doc.UpdatedAt = t
	} else {
		doc.UpdatedAt = doc.CreatedAt
	}

	defaults := ArticleDefaults{Language: doc.Metadata.SourceLanguage, Author: doc.Metadata.Author}
	doc.Chapters = n.normalizeChapters(getMaps(raw, "chapters"), defaults)
	doc.Extra = extras(raw, documentFields)

	// Ids are issued after the whole tree is read so that the registry knows
	// every id already in use.
	ids := book.NewIDRegistry(doc.Chapters).WithClock(m.cfg.Now)
	book.WalkChapters(doc.Chapters, func(ch, _ *book.Chapter, _ int) bool {
		if ch.ID == "" {
			ch.ID = ids.Issue(ch.Name)
			n.report.ChapterIDs++
		}
		return true
	})

	return doc, n.Report()
}

// metadataFields are read from the metadata object, or from the root in the
// oldest layout
var metadataFields = keySet("title", "author", "description", "ownerId", "isPublic", "sourceLanguage")

var documentFields = func() map[string]bool {
	known := keySet("id", "metadata", "revision", "createdAt", "updatedAt", "chapters")
	for k := range metadataFields {
		known[k] = true
	}
	return known
}()

// metadata reads the metadata object, falling back to the flat root-level
// fields of the oldest layout
func (m *Migrator) metadata(raw book.RawDocument) book.Metadata {
	src, ok := getMap(raw, "metadata")
	if !ok {
		src = map[string]any{}
	}
	read := func(key string) string {
		if s, ok := getString(src, key); ok {
			return s
		}
		s, _ := getString(raw, key)
		return s
	}

	md := book.Metadata{
		Title:          read("title"),
		Author:         read("author"),
		Description:    read("description"),
		OwnerID:        read("ownerId"),
		SourceLanguage: strings.TrimSpace(read("sourceLanguage")),
	}
	if _, ok := src["isPublic"]; ok {
		md.IsPublic = getBool(src, "isPublic")
	} else {
		md.IsPublic = getBool(raw, "isPublic")
	}
	md.Extra = extras(src, metadataFields)
	if md.SourceLanguage == "" {
		md.SourceLanguage = m.cfg.SourceLanguage
	}
	if md.SourceLanguage == "" {
		md.SourceLanguage = m.schema.DefaultLanguage()
	}
	return md
}

var chapterFields = keySet("id", "name", "articles", "children")

func (n *Normalizer) normalizeChapters(raws []map[string]any, defaults ArticleDefaults) []*book.Chapter {
	chapters := make([]*book.Chapter, 0, len(raws))
	for _, raw := range raws {
		n.report.Chapters++
		ch := &book.Chapter{
			Articles: []*book.Article{},
		}
		ch.ID, _ = getText(raw, "id")
		ch.ID = strings.TrimSpace(ch.ID)
		ch.Name, _ = getString(raw, "name")

		for _, ar := range getMaps(raw, "articles") {
			a := n.NormalizeArticle(ar, defaults)
			ch.Articles = append(ch.Articles, &a)
		}
		ch.Children = n.normalizeChapters(getMaps(raw, "children"), defaults)
		ch.Extra = extras(raw, chapterFields)
		chapters = append(chapters, ch)
	}
	return chapters
}
