package book

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"granth/internal/domain"
	"granth/internal/domain/models/book"
	"granth/internal/domain/repositories"
	"granth/internal/schema"
	"granth/internal/service/book/migration"
)

var testNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// memoryRepository keeps encoded documents in memory and counts writes
type memoryRepository struct {
	mu    sync.Mutex
	docs  map[string][]byte
	saves int
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{docs: map[string][]byte{}}
}

func (m *memoryRepository) Load(_ context.Context, id string) (book.RawDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.docs[id]
	if !ok {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("book %s not found", id)}
	}
	return book.DecodeRaw(data)
}

func (m *memoryRepository) Save(_ context.Context, id string, doc *book.Document) error {
	data, err := book.Encode(doc)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[id] = data
	m.saves++
	return nil
}

func (m *memoryRepository) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[id]; !ok {
		return &domain.NotFoundError{Message: fmt.Sprintf("book %s not found", id)}
	}
	delete(m.docs, id)
	return nil
}

func (m *memoryRepository) List(context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.docs))
	for id := range m.docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *memoryRepository) put(t *testing.T, id, doc string) {
	t.Helper()
	_, err := book.DecodeRaw([]byte(doc))
	require.NoError(t, err)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[id] = []byte(doc)
}

func (m *memoryRepository) saveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

type services struct {
	repo      *memoryRepository
	documents *documentService
	chapters  *chapterService
	articles  *articleService
	reader    *readerService
}

func newServices(t *testing.T) *services {
	t.Helper()
	reg, err := schema.NewRegistry()
	require.NoError(t, err)

	seq := 0
	migrator := migration.NewMigrator(reg, migration.Config{
		DefaultAuthor: "Anonymous",
		Now:           func() time.Time { return testNow },
		NewID: func() string {
			seq++
			return fmt.Sprintf("gen-%d", seq)
		},
	})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := newMemoryRepository()
	tx := repositories.NoTransactions{}

	s := &services{
		repo:      repo,
		documents: NewDocumentService(repo, migrator, tx, logger).(*documentService),
		chapters:  NewChapterService(repo, migrator, tx, logger).(*chapterService),
		articles:  NewArticleService(repo, migrator, tx, logger).(*articleService),
		reader:    NewReaderService(repo, migrator, reg, logger).(*readerService),
	}
	clock := func() time.Time { return testNow }
	for _, st := range []*store{s.documents.store, s.chapters.store, s.articles.store, s.reader.store} {
		st.now = clock
	}
	return s
}

// gitaDoc is a small canonical book:
//
//	ch1 (verses 1, 2)
//	  ch1-notes
//	ch2
const gitaDoc = `{
  "id": "gita",
  "metadata": {"title": "Bhagavad Gita", "author": "Vyasa", "sourceLanguage": "sa"},
  "createdAt": "2024-01-01T00:00:00Z",
  "updatedAt": "2024-01-01T00:00:00Z",
  "chapters": [
    {
      "id": "ch1",
      "name": "Arjuna Vishada Yoga",
      "articles": [
        {
          "verse": "1",
          "title": "Verse 1",
          "createdAt": "2024-01-01T00:00:00Z",
          "updatedAt": "2024-01-01T00:00:00Z",
          "status": "published",
          "tags": [],
          "author": "Vyasa",
          "feedback": {"likes": 0, "dislikes": 0, "insightful": 0, "uplifting": 0, "views": 0, "scoreHistogram": [0,0,0,0,0,0,0,0,0,0]},
          "content": [
            {"id": "b1", "type": "shloka", "originalLang": "sa", "text": "dharmakshetre", "translations": {"en": "On the field of dharma"}},
            {"id": "b2", "type": "bhashya", "originalLang": "sa", "text": "gloss", "translations": {}, "commentary": {"id": "sb", "shortName": "Shankara"}},
            {"id": "b3", "type": "tika", "originalLang": "sa", "text": "sub-gloss", "translations": {}}
          ],
          "comments": [
            {"id": "c1", "author": "reader", "timestamp": "2024-01-02T00:00:00Z", "body": "first", "replies": []}
          ]
        },
        {
          "verse": "2",
          "title": "Verse 2",
          "createdAt": "2024-01-01T00:00:00Z",
          "updatedAt": "2024-01-01T00:00:00Z",
          "status": "draft",
          "tags": [],
          "author": "Vyasa",
          "feedback": {"likes": 0, "dislikes": 0, "insightful": 0, "uplifting": 0, "views": 0, "scoreHistogram": [0,0,0,0,0,0,0,0,0,0]},
          "content": [],
          "comments": []
        }
      ],
      "children": [
        {"id": "ch1-notes", "name": "Notes", "articles": [], "children": []}
      ]
    },
    {"id": "ch2", "name": "Sankhya Yoga", "articles": [], "children": []}
  ]
}`

func seededServices(t *testing.T) *services {
	t.Helper()
	s := newServices(t)
	s.repo.put(t, "gita", gitaDoc)
	return s
}
