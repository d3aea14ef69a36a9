package handler

import (
	"log/slog"
	"net/http"

	"granth/internal/domain/models/book"
	bookSvc "granth/internal/domain/services/book"
	"granth/internal/httputil"
)

// ArticleHandler handles article, comment, feedback and pane HTTP requests
type ArticleHandler struct {
	articleService bookSvc.ArticleService
	readerService  bookSvc.ReaderService
	logger         *slog.Logger
}

// NewArticleHandler creates a new article handler
func NewArticleHandler(articleService bookSvc.ArticleService, readerService bookSvc.ReaderService, logger *slog.Logger) *ArticleHandler {
	return &ArticleHandler{
		articleService: articleService,
		readerService:  readerService,
		logger:         logger,
	}
}

// updateArticleRequest distinguishes an absent author from an explicit null
type updateArticleRequest struct {
	Title   *string                   `json:"title"`
	Status  *string                   `json:"status"`
	Tags    *[]string                 `json:"tags"`
	Author  httputil.Optional[string] `json:"author"`
	Content *[]map[string]any         `json:"content"`
}

// CreateArticle appends an article to a chapter
// POST /api/books/{id}/chapters/{chapterId}/articles
// Returns 201 if created, 409 with the existing article if the verse is taken
func (h *ArticleHandler) CreateArticle(w http.ResponseWriter, r *http.Request) {
	params, ok := requireParams(w, r, "id", "chapterId")
	if !ok {
		return
	}

	var req bookSvc.CreateArticleRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		respondBadBody(w, err, "Invalid request body")
		return
	}

	article, err := h.articleService.CreateArticle(r.Context(), params[0], params[1], &req)
	if err != nil {
		HandleCreateConflict(w, err, func() (*book.Article, error) {
			return h.articleService.GetArticle(r.Context(), params[0], params[1], req.Verse)
		})
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, article)
}

// GetArticle retrieves one article
// GET /api/books/{id}/chapters/{chapterId}/articles/{verse}
func (h *ArticleHandler) GetArticle(w http.ResponseWriter, r *http.Request) {
	params, ok := requireParams(w, r, "id", "chapterId", "verse")
	if !ok {
		return
	}

	article, err := h.articleService.GetArticle(r.Context(), params[0], params[1], params[2])
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, article)
}

// UpdateArticle applies a partial article update
// PATCH /api/books/{id}/chapters/{chapterId}/articles/{verse}
func (h *ArticleHandler) UpdateArticle(w http.ResponseWriter, r *http.Request) {
	params, ok := requireParams(w, r, "id", "chapterId", "verse")
	if !ok {
		return
	}

	var body updateArticleRequest
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		respondBadBody(w, err, "Invalid request body")
		return
	}

	req := bookSvc.UpdateArticleRequest{
		Title:   body.Title,
		Status:  body.Status,
		Tags:    body.Tags,
		Author:  bookSvc.OptionalText{Present: body.Author.Present, Value: body.Author.Value},
		Content: body.Content,
	}
	article, err := h.articleService.UpdateArticle(r.Context(), params[0], params[1], params[2], &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, article)
}

// DeleteArticle removes an article
// DELETE /api/books/{id}/chapters/{chapterId}/articles/{verse}
func (h *ArticleHandler) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	params, ok := requireParams(w, r, "id", "chapterId", "verse")
	if !ok {
		return
	}

	if err := h.articleService.DeleteArticle(r.Context(), params[0], params[1], params[2]); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ReorderArticles rearranges a chapter's articles
// PUT /api/books/{id}/chapters/{chapterId}/articles/order
func (h *ArticleHandler) ReorderArticles(w http.ResponseWriter, r *http.Request) {
	params, ok := requireParams(w, r, "id", "chapterId")
	if !ok {
		return
	}

	var req bookSvc.ReorderArticlesRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		respondBadBody(w, err, "Invalid request body")
		return
	}

	verses, err := h.articleService.ReorderArticles(r.Context(), params[0], params[1], &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{"verses": verses})
}

// AddComment adds a comment or a reply
// POST /api/books/{id}/chapters/{chapterId}/articles/{verse}/comments
func (h *ArticleHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	params, ok := requireParams(w, r, "id", "chapterId", "verse")
	if !ok {
		return
	}

	var req bookSvc.AddCommentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		respondBadBody(w, err, "Invalid request body")
		return
	}

	comment, err := h.articleService.AddComment(r.Context(), params[0], params[1], params[2], &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, comment)
}

// RecordFeedback counts one reaction or score
// POST /api/books/{id}/chapters/{chapterId}/articles/{verse}/feedback
func (h *ArticleHandler) RecordFeedback(w http.ResponseWriter, r *http.Request) {
	params, ok := requireParams(w, r, "id", "chapterId", "verse")
	if !ok {
		return
	}

	var req bookSvc.FeedbackRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		respondBadBody(w, err, "Invalid request body")
		return
	}

	feedback, err := h.articleService.RecordFeedback(r.Context(), params[0], params[1], params[2], &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, feedback)
}

// GetPanes projects an article into panes; repeat ?pane= to choose up to three
// GET /api/books/{id}/chapters/{chapterId}/articles/{verse}/panes
func (h *ArticleHandler) GetPanes(w http.ResponseWriter, r *http.Request) {
	params, ok := requireParams(w, r, "id", "chapterId", "verse")
	if !ok {
		return
	}

	labels := r.URL.Query()["pane"]
	result, err := h.readerService.GetPanes(r.Context(), params[0], params[1], params[2], labels)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}
