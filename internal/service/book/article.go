package book

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"granth/internal/domain/models/book"
	"granth/internal/domain/repositories"
	bookrepo "granth/internal/domain/repositories/book"
	bookSvc "granth/internal/domain/services/book"
	"granth/internal/service/book/migration"
)

type articleService struct {
	store  *store
	logger *slog.Logger
}

// NewArticleService creates a new article service
func NewArticleService(
	repo bookrepo.DocumentRepository,
	migrator *migration.Migrator,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) bookSvc.ArticleService {
	return &articleService{
		store:  newStore(repo, migrator, txManager, logger),
		logger: logger,
	}
}

func articleDefaults(doc *book.Document) migration.ArticleDefaults {
	return migration.ArticleDefaults{Language: doc.SourceLanguage(), Author: doc.Metadata.Author}
}

func blocksToRaw(blocks []map[string]any) []any {
	out := make([]any, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, b)
	}
	return out
}

// CreateArticle appends a new article to a chapter. The request goes through
// the article normalizer, so content blocks may be in any historical shape.
func (s *articleService) CreateArticle(ctx context.Context, bookID, chapterID string, req *bookSvc.CreateArticleRequest) (*book.Article, error) {
	if err := validateCreateArticle(req); err != nil {
		return nil, err
	}

	var created *book.Article
	_, err := s.store.mutate(ctx, bookID, func(doc *book.Document) error {
		ch := book.FindChapter(doc.Chapters, chapterID)
		if ch == nil {
			return chapterNotFound(chapterID)
		}

		tags := make([]any, 0, len(req.Tags))
		for _, t := range req.Tags {
			tags = append(tags, t)
		}
		raw := map[string]any{
			"verse":     req.Verse,
			"title":     req.Title,
			"author":    req.Author,
			"status":    req.Status,
			"tags":      tags,
			"createdAt": s.store.now().UTC().Format(time.RFC3339Nano),
			"content":   blocksToRaw(req.Content),
		}
		a := s.store.migrator.Normalizer().NormalizeArticle(raw, articleDefaults(doc))
		if err := ch.AppendArticle(&a); err != nil {
			return err
		}
		created = &a
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("article created",
		"book_id", bookID,
		"chapter_id", chapterID,
		"verse", created.Verse,
		"blocks", len(created.Content),
	)
	return created, nil
}

// GetArticle resolves an article by chapter id and verse
func (s *articleService) GetArticle(ctx context.Context, bookID, chapterID, verse string) (*book.Article, error) {
	doc, _, err := s.store.load(ctx, bookID)
	if err != nil {
		return nil, err
	}
	_, a, err := findArticle(doc, chapterID, verse)
	return a, err
}

// UpdateArticle applies a partial update and bumps the article's updatedAt
func (s *articleService) UpdateArticle(ctx context.Context, bookID, chapterID, verse string, req *bookSvc.UpdateArticleRequest) (*book.Article, error) {
	if err := validateUpdateArticle(req); err != nil {
		return nil, err
	}

	var updated *book.Article
	_, err := s.store.mutate(ctx, bookID, func(doc *book.Document) error {
		_, a, err := findArticle(doc, chapterID, verse)
		if err != nil {
			return err
		}

		if req.Title != nil {
			a.Title = strings.TrimSpace(*req.Title)
		}
		if req.Status != nil {
			a.Status = book.Status(*req.Status)
		}
		if req.Tags != nil {
			a.Tags = append([]string{}, (*req.Tags)...)
		}
		if req.Author.Present {
			a.Author = doc.Metadata.Author
			if req.Author.Value != nil {
				a.Author = strings.TrimSpace(*req.Author.Value)
			}
		}
		if req.Content != nil {
			n := s.store.migrator.Normalizer()
			a.Content = make([]book.ContentBlock, 0, len(*req.Content))
			for _, raw := range *req.Content {
				a.Content = append(a.Content, n.NormalizeBlock(raw, doc.SourceLanguage()))
			}
		}
		a.UpdatedAt = s.store.now().UTC()
		updated = a
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("article updated", "book_id", bookID, "chapter_id", chapterID, "verse", verse)
	return updated, nil
}

// DeleteArticle removes an article from its chapter
func (s *articleService) DeleteArticle(ctx context.Context, bookID, chapterID, verse string) error {
	_, err := s.store.mutate(ctx, bookID, func(doc *book.Document) error {
		ch := book.FindChapter(doc.Chapters, chapterID)
		if ch == nil {
			return chapterNotFound(chapterID)
		}
		if !ch.RemoveArticle(verse) {
			return articleNotFound(chapterID, verse)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("article deleted", "book_id", bookID, "chapter_id", chapterID, "verse", verse)
	return nil
}

// ReorderArticles rearranges a chapter's articles and returns the new verse order
func (s *articleService) ReorderArticles(ctx context.Context, bookID, chapterID string, req *bookSvc.ReorderArticlesRequest) ([]string, error) {
	if err := validateReorderArticles(req); err != nil {
		return nil, err
	}

	var order []string
	_, err := s.store.mutate(ctx, bookID, func(doc *book.Document) error {
		ch := book.FindChapter(doc.Chapters, chapterID)
		if ch == nil {
			return chapterNotFound(chapterID)
		}
		if err := ch.ReorderArticles(req.Verses); err != nil {
			return err
		}
		for _, a := range ch.Articles {
			order = append(order, a.Verse)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("articles reordered", "book_id", bookID, "chapter_id", chapterID, "count", len(order))
	return order, nil
}

// AddComment adds a top-level comment or, with ParentID, a reply
func (s *articleService) AddComment(ctx context.Context, bookID, chapterID, verse string, req *bookSvc.AddCommentRequest) (*book.Comment, error) {
	if err := validateAddComment(req); err != nil {
		return nil, err
	}

	comment := book.Comment{
		ID:         uuid.New().String(),
		Author:     req.Author,
		Timestamp:  s.store.now().UTC(),
		Title:      req.Title,
		Body:       req.Body,
		TargetText: req.TargetText,
		Replies:    []book.Comment{},
	}
	_, err := s.store.mutate(ctx, bookID, func(doc *book.Document) error {
		_, a, err := findArticle(doc, chapterID, verse)
		if err != nil {
			return err
		}
		return a.AddComment(req.ParentID, comment)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("comment added",
		"book_id", bookID,
		"chapter_id", chapterID,
		"verse", verse,
		"comment_id", comment.ID,
		"parent_id", req.ParentID,
	)
	return &comment, nil
}

// RecordFeedback counts one reaction or one score
func (s *articleService) RecordFeedback(ctx context.Context, bookID, chapterID, verse string, req *bookSvc.FeedbackRequest) (*book.Feedback, error) {
	if err := validateFeedback(req); err != nil {
		return nil, err
	}

	var feedback book.Feedback
	_, err := s.store.mutate(ctx, bookID, func(doc *book.Document) error {
		_, a, err := findArticle(doc, chapterID, verse)
		if err != nil {
			return err
		}
		if req.Kind != "" {
			err = a.Feedback.Record(book.FeedbackKind(req.Kind))
		} else {
			err = a.Feedback.RecordScore(req.Score)
		}
		if err != nil {
			return err
		}
		feedback = a.Feedback
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("feedback recorded", "book_id", bookID, "chapter_id", chapterID, "verse", verse, "kind", req.Kind, "score", req.Score)
	return &feedback, nil
}
