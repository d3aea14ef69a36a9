package handler

import (
	"log/slog"
	"net/http"

	bookSvc "granth/internal/domain/services/book"
	"granth/internal/httputil"
)

// ChapterHandler handles chapter tree HTTP requests
type ChapterHandler struct {
	chapterService bookSvc.ChapterService
	logger         *slog.Logger
}

// NewChapterHandler creates a new chapter handler
func NewChapterHandler(chapterService bookSvc.ChapterService, logger *slog.Logger) *ChapterHandler {
	return &ChapterHandler{
		chapterService: chapterService,
		logger:         logger,
	}
}

// CreateChapter inserts a chapter at the root or under parent_id
// POST /api/books/{id}/chapters
// Returns 201 if created, 422 if parent_id does not exist
func (h *ChapterHandler) CreateChapter(w http.ResponseWriter, r *http.Request) {
	params, ok := requireParams(w, r, "id")
	if !ok {
		return
	}

	var req bookSvc.CreateChapterRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		respondBadBody(w, err, "Invalid request body")
		return
	}

	result, err := h.chapterService.CreateChapter(r.Context(), params[0], &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, result)
}

// RenameChapter changes a chapter's name
// PATCH /api/books/{id}/chapters/{chapterId}
func (h *ChapterHandler) RenameChapter(w http.ResponseWriter, r *http.Request) {
	params, ok := requireParams(w, r, "id", "chapterId")
	if !ok {
		return
	}

	var req bookSvc.RenameChapterRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		respondBadBody(w, err, "Invalid request body")
		return
	}

	ch, err := h.chapterService.RenameChapter(r.Context(), params[0], params[1], &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, ch)
}

// DeleteChapter removes a chapter and everything under it
// DELETE /api/books/{id}/chapters/{chapterId}
func (h *ChapterHandler) DeleteChapter(w http.ResponseWriter, r *http.Request) {
	params, ok := requireParams(w, r, "id", "chapterId")
	if !ok {
		return
	}

	if err := h.chapterService.DeleteChapter(r.Context(), params[0], params[1]); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ReorderChapters rearranges one sibling list
// PUT /api/books/{id}/chapters/order
func (h *ChapterHandler) ReorderChapters(w http.ResponseWriter, r *http.Request) {
	params, ok := requireParams(w, r, "id")
	if !ok {
		return
	}

	var req bookSvc.ReorderChaptersRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		respondBadBody(w, err, "Invalid request body")
		return
	}

	outline, err := h.chapterService.ReorderChapters(r.Context(), params[0], &req)
	if err != nil {
		handleError(w, err)
		return
	}

	setRevision(w, outline.Revision)
	httputil.RespondJSON(w, http.StatusOK, outline)
}
