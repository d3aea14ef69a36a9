package book

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"granth/internal/domain"
	"granth/internal/domain/models/book"
	"granth/internal/domain/repositories"
	bookrepo "granth/internal/domain/repositories/book"
	bookSvc "granth/internal/domain/services/book"
	"granth/internal/service/book/migration"
)

type documentService struct {
	store  *store
	logger *slog.Logger
}

// NewDocumentService creates a new document service
func NewDocumentService(
	repo bookrepo.DocumentRepository,
	migrator *migration.Migrator,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) bookSvc.DocumentService {
	return &documentService{
		store:  newStore(repo, migrator, txManager, logger),
		logger: logger,
	}
}

// GetDocument loads a book and returns it in canonical form
func (s *documentService) GetDocument(ctx context.Context, bookID string) (*book.Document, error) {
	doc, _, err := s.store.load(ctx, bookID)
	return doc, err
}

// PutDocument migrates an uploaded document and replaces the stored one
func (s *documentService) PutDocument(ctx context.Context, bookID string, raw book.RawDocument) (*book.Document, error) {
	if err := validateBookID(bookID); err != nil {
		return nil, err
	}

	doc, report := s.store.migrator.MigrateWithReport(raw)
	if dups := book.IndexChapters(doc.Chapters).Duplicates(); len(dups) > 0 {
		return nil, fmt.Errorf("%w: duplicate chapter ids: %s", domain.ErrValidation, strings.Join(dups, ", "))
	}

	err := s.store.txManager.ExecTx(ctx, func(ctx context.Context) error {
		_, err := s.store.save(ctx, bookID, doc, true)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("book stored",
		"book_id", bookID,
		"revision", doc.Revision,
		"chapters", report.Chapters,
		"articles", report.Articles,
		"migrated", report.Changed(),
	)
	return doc, nil
}

// UpdateMetadata applies a partial metadata update
func (s *documentService) UpdateMetadata(ctx context.Context, bookID string, req *bookSvc.UpdateMetadataRequest) (*book.Document, error) {
	if err := validateMetadata(req); err != nil {
		return nil, err
	}

	doc, err := s.store.mutate(ctx, bookID, func(doc *book.Document) error {
		md := &doc.Metadata
		if req.Title != nil {
			md.Title = strings.TrimSpace(*req.Title)
		}
		if req.Author != nil {
			md.Author = strings.TrimSpace(*req.Author)
		}
		if req.Description.Present {
			md.Description = ""
			if req.Description.Value != nil {
				md.Description = *req.Description.Value
			}
		}
		if req.IsPublic != nil {
			md.IsPublic = *req.IsPublic
		}
		if req.SourceLanguage != nil {
			md.SourceLanguage = strings.TrimSpace(*req.SourceLanguage)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("book metadata updated", "book_id", bookID, "title", doc.Metadata.Title)
	return doc, nil
}

// MigrateDocument rewrites a stored book in canonical form. Books already in
// canonical form with a current revision are left untouched.
func (s *documentService) MigrateDocument(ctx context.Context, bookID string) (*bookSvc.MigrationResult, error) {
	result := &bookSvc.MigrationResult{}
	err := s.store.txManager.ExecTx(ctx, func(ctx context.Context) error {
		doc, report, err := s.store.load(ctx, bookID)
		if err != nil {
			return err
		}
		written, err := s.store.save(ctx, bookID, doc, report.Changed())
		if err != nil {
			return err
		}
		result.Document = doc
		result.Changed = written
		result.Report = report
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("book migrated",
		"book_id", bookID,
		"changed", result.Changed,
		"revision", result.Document.Revision,
	)
	return result, nil
}

// DeleteDocument removes a book
func (s *documentService) DeleteDocument(ctx context.Context, bookID string) error {
	if err := validateBookID(bookID); err != nil {
		return err
	}
	if err := s.store.repo.Delete(ctx, bookID); err != nil {
		return err
	}
	s.logger.Info("book deleted", "book_id", bookID)
	return nil
}

// ListDocuments returns every stored book id
func (s *documentService) ListDocuments(ctx context.Context) ([]string, error) {
	return s.store.repo.List(ctx)
}

// GetOutline returns the chapter navigation tree
func (s *documentService) GetOutline(ctx context.Context, bookID string) (*bookSvc.Outline, error) {
	doc, _, err := s.store.load(ctx, bookID)
	if err != nil {
		return nil, err
	}
	return outlineOf(doc), nil
}

func outlineOf(doc *book.Document) *bookSvc.Outline {
	return &bookSvc.Outline{
		BookID:   doc.ID,
		Title:    doc.Metadata.Title,
		Revision: doc.Revision,
		Chapters: book.Outline(doc.Chapters),
	}
}
