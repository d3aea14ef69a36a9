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

type chapterService struct {
	store  *store
	logger *slog.Logger
}

// NewChapterService creates a new chapter service
func NewChapterService(
	repo bookrepo.DocumentRepository,
	migrator *migration.Migrator,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) bookSvc.ChapterService {
	return &chapterService{
		store:  newStore(repo, migrator, txManager, logger),
		logger: logger,
	}
}

// CreateChapter inserts a chapter at the root or under ParentID.
// An unknown parent is rejected with an InvalidReferenceError.
func (s *chapterService) CreateChapter(ctx context.Context, bookID string, req *bookSvc.CreateChapterRequest) (*bookSvc.ChapterResult, error) {
	if err := validateCreateChapter(req); err != nil {
		return nil, err
	}

	result := &bookSvc.ChapterResult{ParentID: req.ParentID}
	_, err := s.store.mutate(ctx, bookID, func(doc *book.Document) error {
		id := req.ID
		if id == "" {
			id = book.NewIDRegistry(doc.Chapters).WithClock(s.store.now).Issue(req.Name)
		}
		ch := &book.Chapter{ID: id, Name: req.Name}

		chapters, placement, err := book.InsertChapter(doc.Chapters, req.ParentID, ch)
		if err != nil {
			return err
		}
		doc.Chapters = chapters
		result.Chapter = ch
		result.Placement = placement.String()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("chapter created",
		"book_id", bookID,
		"chapter_id", result.Chapter.ID,
		"parent_id", req.ParentID,
		"placement", result.Placement,
	)
	return result, nil
}

// RenameChapter changes a chapter's display name; its id is stable
func (s *chapterService) RenameChapter(ctx context.Context, bookID, chapterID string, req *bookSvc.RenameChapterRequest) (*book.Chapter, error) {
	if err := validateRenameChapter(req); err != nil {
		return nil, err
	}

	var renamed *book.Chapter
	_, err := s.store.mutate(ctx, bookID, func(doc *book.Document) error {
		ch := book.FindChapter(doc.Chapters, chapterID)
		if ch == nil {
			return chapterNotFound(chapterID)
		}
		ch.Name = req.Name
		renamed = ch
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("chapter renamed", "book_id", bookID, "chapter_id", chapterID, "name", req.Name)
	return renamed, nil
}

// DeleteChapter removes a chapter with its articles and sub-chapters
func (s *chapterService) DeleteChapter(ctx context.Context, bookID, chapterID string) error {
	_, err := s.store.mutate(ctx, bookID, func(doc *book.Document) error {
		chapters, removed := book.RemoveChapter(doc.Chapters, chapterID)
		if !removed {
			return chapterNotFound(chapterID)
		}
		doc.Chapters = chapters
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("chapter deleted", "book_id", bookID, "chapter_id", chapterID)
	return nil
}

// ReorderChapters rearranges the children of ParentID (the root when empty)
func (s *chapterService) ReorderChapters(ctx context.Context, bookID string, req *bookSvc.ReorderChaptersRequest) (*bookSvc.Outline, error) {
	if err := validateReorderChapters(req); err != nil {
		return nil, err
	}

	doc, err := s.store.mutate(ctx, bookID, func(doc *book.Document) error {
		chapters, err := book.ReorderChapters(doc.Chapters, req.ParentID, req.IDs)
		if err != nil {
			return err
		}
		doc.Chapters = chapters
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("chapters reordered", "book_id", bookID, "parent_id", req.ParentID, "count", len(req.IDs))
	return outlineOf(doc), nil
}
