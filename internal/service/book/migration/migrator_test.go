package migration

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"granth/internal/domain/models/book"
	"granth/internal/schema"
)

var testNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func testConfig() Config {
	seq := 0
	return Config{
		DefaultAuthor: "Anonymous",
		Now:           func() time.Time { return testNow },
		Rand:          rand.New(rand.NewPCG(1, 2)),
		NewID: func() string {
			seq++
			return fmt.Sprintf("id-%d", seq)
		},
	}
}

func newTestMigrator(t *testing.T) *Migrator {
	t.Helper()
	reg, err := schema.NewRegistry()
	require.NoError(t, err)
	return NewMigrator(reg, testConfig())
}

func newTestNormalizer(t *testing.T) *Normalizer {
	t.Helper()
	reg, err := schema.NewRegistry()
	require.NoError(t, err)
	return NewNormalizer(reg, testConfig())
}

func decode(t *testing.T, s string) book.RawDocument {
	t.Helper()
	raw, err := book.DecodeRaw([]byte(s))
	require.NoError(t, err)
	return raw
}

func roundTrip(t *testing.T, doc *book.Document) book.RawDocument {
	t.Helper()
	data, err := book.Encode(doc)
	require.NoError(t, err)
	return decode(t, string(data))
}

const legacyDoc = `{
  "id": "gita",
  "title": "Bhagavad Gita",
  "author": "Vyasa",
  "chapters": [
    {
      "id": "ch1",
      "name": "Arjuna Vishada Yoga",
      "articles": [
        {
          "verse": 1,
          "text_sanskrit": "dharmakshetre kurukshetre",
          "english": "On the field of dharma",
          "audio": "1.mp3"
        },
        {
          "verse": "2",
          "title": "Sanjaya speaks",
          "author": "Sanjaya",
          "createdAt": 1700000000000,
          "status": "draft",
          "feedback": {"likes": 3, "scoreHistogram": [1, 2]},
          "content": [
            {"text": "drishtva tu", "english": "Having seen", "translations": {"en": "Seeing"}},
            {"type": "bhashya", "text": "gloss", "commentary": {"shortName": "Shankara"}, "meter": "anushtubh"}
          ],
          "comments": [
            {"author": "ravi", "body": "nice", "replies": [{"author": "uma"}]}
          ]
        }
      ],
      "children": [
        {"name": "Sub Section", "articles": [{"verse": 1.0}]}
      ]
    },
    {"name": "Sankhya Yoga"}
  ]
}`

func TestMigrate_LegacyDocument(t *testing.T) {
	doc := newTestMigrator(t).Migrate(decode(t, legacyDoc))

	assert.Equal(t, "gita", doc.ID)
	assert.Equal(t, "Bhagavad Gita", doc.Metadata.Title)
	assert.Equal(t, "Vyasa", doc.Metadata.Author)
	assert.Equal(t, "sa", doc.Metadata.SourceLanguage)
	require.Len(t, doc.Chapters, 2)

	ch1 := doc.Chapters[0]
	require.Len(t, ch1.Articles, 2)

	t.Run("flat legacy article gets a synthesized source block", func(t *testing.T) {
		a := ch1.Articles[0]
		assert.Equal(t, "1", a.Verse)
		assert.Equal(t, "Verse 1", a.Title)
		assert.Equal(t, "Vyasa", a.Author, "inherits the book author")
		assert.Equal(t, book.StatusPublished, a.Status)
		assert.NotNil(t, a.Tags)
		assert.Equal(t, a.CreatedAt, a.UpdatedAt)
		assert.False(t, a.CreatedAt.After(testNow))
		assert.False(t, a.CreatedAt.Before(testNow.Add(-DefaultCreatedAtWindow)))

		require.Len(t, a.Content, 1)
		b := a.Content[0]
		assert.Equal(t, book.KindShloka, b.Type)
		assert.Equal(t, "dharmakshetre kurukshetre", b.Text)
		assert.Equal(t, "On the field of dharma", b.Translations["en"])
		assert.Equal(t, "sa", b.OriginalLang)
		assert.NotEmpty(t, b.ID)

		assert.Equal(t, map[string]any{"audio": "1.mp3"}, a.Extra)
		assert.Equal(t, book.NewFeedback(), a.Feedback)
		assert.NotNil(t, a.Comments)
	})

	t.Run("canonical article keeps its values", func(t *testing.T) {
		a := ch1.Articles[1]
		assert.Equal(t, "Sanjaya speaks", a.Title)
		assert.Equal(t, "Sanjaya", a.Author)
		assert.Equal(t, book.StatusDraft, a.Status)
		assert.Equal(t, time.UnixMilli(1700000000000).UTC(), a.CreatedAt)

		assert.Equal(t, 3, a.Feedback.Likes)
		assert.Equal(t, 0, a.Feedback.Views)
		assert.Equal(t, []int{1, 2, 0, 0, 0, 0, 0, 0, 0, 0}, a.Feedback.ScoreHistogram)

		require.Len(t, a.Content, 2)
		assert.Equal(t, "Seeing", a.Content[0].Translations["en"], "legacy english does not overwrite translations.en")
		assert.Nil(t, a.Content[0].Extra)
		assert.Equal(t, book.KindBhashya, a.Content[1].Type)
		assert.Equal(t, "Shankara", a.Content[1].Commentary.ShortName)
		assert.Equal(t, "anushtubh", a.Content[1].Extra["meter"])

		require.Len(t, a.Comments, 1)
		assert.NotEmpty(t, a.Comments[0].ID)
		require.Len(t, a.Comments[0].Replies, 1)
		assert.NotNil(t, a.Comments[0].Replies[0].Replies)
	})

	t.Run("chapters without ids get one", func(t *testing.T) {
		require.Len(t, ch1.Children, 1)
		sub := ch1.Children[0]
		assert.Regexp(t, `^sub-section-[0-9a-z]+$`, sub.ID)
		assert.Equal(t, "1", sub.Articles[0].Verse)

		ch2 := doc.Chapters[1]
		assert.Regexp(t, `^sankhya-yoga-[0-9a-z]+$`, ch2.ID)
		assert.NotNil(t, ch2.Articles)
		assert.NotNil(t, ch2.Children)
	})

	t.Run("composite key lookup after migration", func(t *testing.T) {
		_, a, ok := book.FindArticle(doc.Chapters, "ch1", 1)
		require.True(t, ok)
		assert.Equal(t, "dharmakshetre kurukshetre", a.Content[0].Text)

		_, a, ok = book.FindArticle(doc.Chapters, "ch1", "2")
		require.True(t, ok)
		assert.Equal(t, "Sanjaya speaks", a.Title)
	})
}

func TestMigrate_Idempotent(t *testing.T) {
	m := newTestMigrator(t)

	first, report := m.MigrateWithReport(decode(t, legacyDoc))
	assert.True(t, report.Changed())
	assert.Equal(t, 1, report.SynthesizedBlocks)
	assert.Equal(t, 2, report.ChapterIDs)

	second, report := m.MigrateWithReport(roundTrip(t, first))
	assert.False(t, report.Changed(), "second pass fills in nothing: %+v", report)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.JSONEq(t, string(a), string(b))
}

func TestMigrate_Empty(t *testing.T) {
	m := newTestMigrator(t)

	for _, raw := range []book.RawDocument{nil, {}, {"chapters": "not a list"}} {
		doc := m.Migrate(raw)
		require.NotNil(t, doc)
		assert.NotNil(t, doc.Chapters)
		assert.Empty(t, doc.Chapters)
		assert.Equal(t, testNow, doc.CreatedAt)
		assert.Equal(t, doc.CreatedAt, doc.UpdatedAt)
	}
}

func TestMigrate_MetadataObjectWins(t *testing.T) {
	doc := newTestMigrator(t).Migrate(decode(t, `{
		"title": "root title",
		"metadata": {"title": "Yoga Sutras", "sourceLanguage": "pi", "isPublic": true}
	}`))
	assert.Equal(t, "Yoga Sutras", doc.Metadata.Title)
	assert.Equal(t, "pi", doc.Metadata.SourceLanguage)
	assert.True(t, doc.Metadata.IsPublic)
}

func TestMigrate_DefaultAuthorFallback(t *testing.T) {
	doc := newTestMigrator(t).Migrate(decode(t, `{"chapters":[{"id":"c","articles":[{"verse":"1"}]}]}`))
	assert.Equal(t, "Anonymous", doc.Chapters[0].Articles[0].Author)
}

func TestMigrate_DuplicateGeneratedNames(t *testing.T) {
	doc := newTestMigrator(t).Migrate(decode(t, `{"chapters":[{"name":"Intro"},{"name":"Intro"}]}`))
	assert.NotEqual(t, doc.Chapters[0].ID, doc.Chapters[1].ID)
}

func TestMigrate_Reproducible(t *testing.T) {
	a := newTestMigrator(t).Migrate(decode(t, legacyDoc))
	b := newTestMigrator(t).Migrate(decode(t, legacyDoc))
	assert.Equal(t, a.Chapters[0].Articles[0].CreatedAt, b.Chapters[0].Articles[0].CreatedAt)
}

func TestMigrate_KeepsUnknownFields(t *testing.T) {
	m := newTestMigrator(t)
	raw := decode(t, `{
		"metadata": {"title": "Gita", "coverImage": "gita.png"},
		"settings": {"theme": "dark"},
		"chapters": [{
			"id": "ch1",
			"name": "One",
			"summary": "Arjuna despairs",
			"articles": [{
				"verse": 1,
				"feedback": {"likes": 2, "helpful": 5},
				"comments": [{"id": "c1", "body": "hm", "upvotes": 3, "replies": [{"id": "c2", "pinned": true}]}]
			}]
		}]
	}`)

	doc := m.Migrate(raw)
	assert.Equal(t, map[string]any{"theme": "dark"}, doc.Extra["settings"])
	assert.Equal(t, "gita.png", doc.Metadata.Extra["coverImage"])
	assert.Equal(t, "Arjuna despairs", doc.Chapters[0].Extra["summary"])

	out := roundTrip(t, doc)
	assert.Equal(t, map[string]any{"theme": "dark"}, out["settings"])

	md := out["metadata"].(map[string]any)
	assert.Equal(t, "gita.png", md["coverImage"])

	ch := out["chapters"].([]any)[0].(map[string]any)
	assert.Equal(t, "Arjuna despairs", ch["summary"])

	article := ch["articles"].([]any)[0].(map[string]any)
	feedback := article["feedback"].(map[string]any)
	assert.Equal(t, json.Number("5"), feedback["helpful"])
	assert.Equal(t, json.Number("2"), feedback["likes"])

	comment := article["comments"].([]any)[0].(map[string]any)
	assert.Equal(t, json.Number("3"), comment["upvotes"])
	reply := comment["replies"].([]any)[0].(map[string]any)
	assert.Equal(t, true, reply["pinned"])

	again := m.Migrate(out)
	assert.Equal(t, doc.Extra, again.Extra)
	assert.Equal(t, doc.Chapters[0].Articles[0].Feedback, again.Chapters[0].Articles[0].Feedback)
}
