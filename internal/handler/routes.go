package handler

import (
	"log/slog"
	"net/http"

	bookSvc "granth/internal/domain/services/book"
)

// RegisterRoutes mounts the book API on mux (Go 1.22+ method and wildcard patterns)
func RegisterRoutes(
	mux *http.ServeMux,
	docService bookSvc.DocumentService,
	chapterService bookSvc.ChapterService,
	articleService bookSvc.ArticleService,
	readerService bookSvc.ReaderService,
	logger *slog.Logger,
) {
	books := NewBookHandler(docService, readerService, logger)
	chapters := NewChapterHandler(chapterService, logger)
	articles := NewArticleHandler(articleService, readerService, logger)

	mux.HandleFunc("GET /health", books.HealthCheck)

	// Book routes
	mux.HandleFunc("GET /api/books", books.ListBooks)
	mux.HandleFunc("GET /api/books/{id}", books.GetBook)
	mux.HandleFunc("PUT /api/books/{id}", books.PutBook)
	mux.HandleFunc("DELETE /api/books/{id}", books.DeleteBook)
	mux.HandleFunc("PATCH /api/books/{id}/metadata", books.UpdateMetadata)
	mux.HandleFunc("POST /api/books/{id}/migrate", books.MigrateBook)
	mux.HandleFunc("GET /api/books/{id}/tree", books.GetTree)
	mux.HandleFunc("GET /api/books/{id}/open", books.OpenBook)

	// Chapter routes
	mux.HandleFunc("POST /api/books/{id}/chapters", chapters.CreateChapter)
	mux.HandleFunc("PUT /api/books/{id}/chapters/order", chapters.ReorderChapters)
	mux.HandleFunc("PATCH /api/books/{id}/chapters/{chapterId}", chapters.RenameChapter)
	mux.HandleFunc("DELETE /api/books/{id}/chapters/{chapterId}", chapters.DeleteChapter)

	// Article routes
	mux.HandleFunc("POST /api/books/{id}/chapters/{chapterId}/articles", articles.CreateArticle)
	mux.HandleFunc("PUT /api/books/{id}/chapters/{chapterId}/articles/order", articles.ReorderArticles)
	mux.HandleFunc("GET /api/books/{id}/chapters/{chapterId}/articles/{verse}", articles.GetArticle)
	mux.HandleFunc("PATCH /api/books/{id}/chapters/{chapterId}/articles/{verse}", articles.UpdateArticle)
	mux.HandleFunc("DELETE /api/books/{id}/chapters/{chapterId}/articles/{verse}", articles.DeleteArticle)
	mux.HandleFunc("GET /api/books/{id}/chapters/{chapterId}/articles/{verse}/panes", articles.GetPanes)
	mux.HandleFunc("POST /api/books/{id}/chapters/{chapterId}/articles/{verse}/comments", articles.AddComment)
	mux.HandleFunc("POST /api/books/{id}/chapters/{chapterId}/articles/{verse}/feedback", articles.RecordFeedback)
}
