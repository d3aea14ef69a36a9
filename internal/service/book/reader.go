package book

import (
	"context"
	"log/slog"

	"granth/internal/domain/models/book"
	"granth/internal/domain/repositories"
	bookrepo "granth/internal/domain/repositories/book"
	bookSvc "granth/internal/domain/services/book"
	"granth/internal/service/book/migration"
)

type readerService struct {
	store  *store
	kinds  book.KindClassifier
	logger *slog.Logger
}

// NewReaderService creates a new reader service. kinds decides which block
// kinds are shown as commentary panes (usually the block schema registry).
func NewReaderService(
	repo bookrepo.DocumentRepository,
	migrator *migration.Migrator,
	kinds book.KindClassifier,
	logger *slog.Logger,
) bookSvc.ReaderService {
	return &readerService{
		store:  newStore(repo, migrator, repositories.NoTransactions{}, logger),
		kinds:  kinds,
		logger: logger,
	}
}

// OpenBook lands on the first article in tree order. A book without articles
// opens with no article and only the source pane to choose from.
func (s *readerService) OpenBook(ctx context.Context, bookID string) (*bookSvc.OpenResult, error) {
	doc, _, err := s.store.load(ctx, bookID)
	if err != nil {
		return nil, err
	}

	result := &bookSvc.OpenResult{
		BookID:      doc.ID,
		Breadcrumbs: []bookSvc.Crumb{},
		Choices:     []string{book.SourcePane},
	}

	ch, a, ok := book.FindFirstArticle(doc.Chapters)
	if !ok {
		return result, nil
	}
	result.ChapterID = ch.ID
	result.Article = a
	result.Choices = book.ProjectPanesWith(a, s.kinds).Choices()
	for _, c := range book.IndexChapters(doc.Chapters).Breadcrumbs(ch.ID) {
		result.Breadcrumbs = append(result.Breadcrumbs, bookSvc.Crumb{ID: c.ID, Name: c.Name})
	}
	return result, nil
}

// GetPanes projects one article and selects the requested panes (source plus
// the first commentary when labels is empty)
func (s *readerService) GetPanes(ctx context.Context, bookID, chapterID, verse string, labels []string) (*bookSvc.PanesResult, error) {
	if err := validatePaneLabels(labels); err != nil {
		return nil, err
	}

	doc, _, err := s.store.load(ctx, bookID)
	if err != nil {
		return nil, err
	}
	_, a, err := findArticle(doc, chapterID, verse)
	if err != nil {
		return nil, err
	}

	projection := book.ProjectPanesWith(a, s.kinds)
	panes, err := projection.Select(labels...)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("panes projected",
		"book_id", bookID,
		"chapter_id", chapterID,
		"verse", verse,
		"commentaries", len(projection.Commentaries),
	)
	return &bookSvc.PanesResult{
		ChapterID: chapterID,
		Verse:     a.Verse,
		Title:     a.Title,
		Choices:   projection.Choices(),
		Panes:     panes,
	}, nil
}
