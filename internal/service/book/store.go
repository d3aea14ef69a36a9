package book

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"granth/internal/domain"
	"granth/internal/domain/models/book"
	"granth/internal/domain/repositories"
	bookrepo "granth/internal/domain/repositories/book"
	"granth/internal/service/book/migration"
)

// store runs the load, migrate, mutate, save cycle shared by every service.
// The whole document is read and written as a unit; the last writer wins
// unless the repository's transaction manager serializes writers.
type store struct {
	repo      bookrepo.DocumentRepository
	migrator  *migration.Migrator
	txManager repositories.TransactionManager
	now       func() time.Time
	logger    *slog.Logger
}

func newStore(
	repo bookrepo.DocumentRepository,
	migrator *migration.Migrator,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) *store {
	return &store{
		repo:      repo,
		migrator:  migrator,
		txManager: txManager,
		now:       time.Now,
		logger:    logger,
	}
}

// load reads a book and migrates it to canonical form
func (s *store) load(ctx context.Context, bookID string) (*book.Document, book.MigrationReport, error) {
	if err := validateBookID(bookID); err != nil {
		return nil, book.MigrationReport{}, err
	}

	raw, err := s.repo.Load(ctx, bookID)
	if err != nil {
		return nil, book.MigrationReport{}, err
	}

	doc, report := s.migrator.MigrateWithReport(raw)
	if doc.ID == "" {
		doc.ID = bookID
	}
	if report.Changed() {
		s.logger.Debug("legacy fields migrated on load",
			"book_id", bookID,
			"chapter_ids", report.ChapterIDs,
			"block_ids", report.BlockIDs,
			"synthesized_blocks", report.SynthesizedBlocks,
		)
	}
	return doc, report, nil
}

// save stores doc under bookID. Unless force is set, a document whose content
// digest equals its stored revision is not written again. Reports whether it wrote.
func (s *store) save(ctx context.Context, bookID string, doc *book.Document, force bool) (bool, error) {
	doc.ID = bookID
	digest, err := book.Digest(doc)
	if err != nil {
		return false, err
	}
	if !force && digest == doc.Revision {
		s.logger.Debug("book unchanged, save skipped", "book_id", bookID, "revision", digest)
		return false, nil
	}

	doc.Revision = digest
	doc.UpdatedAt = s.now().UTC()
	if err := s.repo.Save(ctx, bookID, doc); err != nil {
		return false, fmt.Errorf("save book %s: %w", bookID, err)
	}
	return true, nil
}

// mutate loads a book, applies fn and saves the result inside one transaction
func (s *store) mutate(ctx context.Context, bookID string, fn func(doc *book.Document) error) (*book.Document, error) {
	var out *book.Document
	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		doc, report, err := s.load(ctx, bookID)
		if err != nil {
			return err
		}
		if err := fn(doc); err != nil {
			return err
		}
		if _, err := s.save(ctx, bookID, doc, report.Changed()); err != nil {
			return err
		}
		out = doc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func chapterNotFound(chapterID string) error {
	return &domain.NotFoundError{Message: fmt.Sprintf("chapter %s not found", chapterID)}
}

func articleNotFound(chapterID, verse string) error {
	return &domain.NotFoundError{Message: fmt.Sprintf("verse %s not found in chapter %s", verse, chapterID)}
}

// findArticle resolves (chapter, verse) or returns a NotFoundError naming the missing part
func findArticle(doc *book.Document, chapterID, verse string) (*book.Chapter, *book.Article, error) {
	ch, a, ok := book.FindArticle(doc.Chapters, chapterID, verse)
	if ch == nil {
		return nil, nil, chapterNotFound(chapterID)
	}
	if !ok {
		return ch, nil, articleNotFound(chapterID, verse)
	}
	return ch, a, nil
}
