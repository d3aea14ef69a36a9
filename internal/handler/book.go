package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"granth/internal/domain/models/book"
	bookSvc "granth/internal/domain/services/book"
	"granth/internal/httputil"
)

// BookHandler handles whole-document HTTP requests
type BookHandler struct {
	docService    bookSvc.DocumentService
	readerService bookSvc.ReaderService
	logger        *slog.Logger
}

// NewBookHandler creates a new book handler
func NewBookHandler(docService bookSvc.DocumentService, readerService bookSvc.ReaderService, logger *slog.Logger) *BookHandler {
	return &BookHandler{
		docService:    docService,
		readerService: readerService,
		logger:        logger,
	}
}

// updateMetadataRequest distinguishes an absent description from an explicit null
type updateMetadataRequest struct {
	Title          *string                   `json:"title"`
	Author         *string                   `json:"author"`
	Description    httputil.Optional[string] `json:"description"`
	IsPublic       *bool                     `json:"is_public"`
	SourceLanguage *string                   `json:"source_language"`
}

// ListBooks returns every stored book id
// GET /api/books
func (h *BookHandler) ListBooks(w http.ResponseWriter, r *http.Request) {
	ids, err := h.docService.ListDocuments(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{"books": ids})
}

// GetBook returns a book in canonical form
// GET /api/books/{id}
func (h *BookHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	params, ok := requireParams(w, r, "id")
	if !ok {
		return
	}

	doc, err := h.docService.GetDocument(r.Context(), params[0])
	if err != nil {
		handleError(w, err)
		return
	}

	if doc.Revision != "" && r.Header.Get("If-None-Match") == strconv.Quote(doc.Revision) {
		setRevision(w, doc.Revision)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	setRevision(w, doc.Revision)
	httputil.RespondJSON(w, http.StatusOK, doc)
}

// PutBook replaces a book with the uploaded document, migrating it first
// PUT /api/books/{id}
func (h *BookHandler) PutBook(w http.ResponseWriter, r *http.Request) {
	params, ok := requireParams(w, r, "id")
	if !ok {
		return
	}

	var raw book.RawDocument
	if err := httputil.ParseJSON(w, r, &raw); err != nil || raw == nil {
		respondBadBody(w, err, "Request body must be a JSON object")
		return
	}

	doc, err := h.docService.PutDocument(r.Context(), params[0], raw)
	if err != nil {
		handleError(w, err)
		return
	}

	setRevision(w, doc.Revision)
	httputil.RespondJSON(w, http.StatusOK, doc)
}

// UpdateMetadata applies a partial metadata update
// PATCH /api/books/{id}/metadata
func (h *BookHandler) UpdateMetadata(w http.ResponseWriter, r *http.Request) {
	params, ok := requireParams(w, r, "id")
	if !ok {
		return
	}

	var body updateMetadataRequest
	if err := httputil.ParseJSON(w, r, &body); err != nil {
		respondBadBody(w, err, "Invalid request body")
		return
	}

	req := bookSvc.UpdateMetadataRequest{
		Title:          body.Title,
		Author:         body.Author,
		Description:    bookSvc.OptionalText{Present: body.Description.Present, Value: body.Description.Value},
		IsPublic:       body.IsPublic,
		SourceLanguage: body.SourceLanguage,
	}
	doc, err := h.docService.UpdateMetadata(r.Context(), params[0], &req)
	if err != nil {
		handleError(w, err)
		return
	}

	setRevision(w, doc.Revision)
	httputil.RespondJSON(w, http.StatusOK, doc.Metadata)
}

// MigrateBook rewrites a stored book in canonical form
// POST /api/books/{id}/migrate
func (h *BookHandler) MigrateBook(w http.ResponseWriter, r *http.Request) {
	params, ok := requireParams(w, r, "id")
	if !ok {
		return
	}

	result, err := h.docService.MigrateDocument(r.Context(), params[0])
	if err != nil {
		handleError(w, err)
		return
	}

	setRevision(w, result.Document.Revision)
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"book_id":  params[0],
		"changed":  result.Changed,
		"revision": result.Document.Revision,
		"report":   result.Report,
	})
}

// DeleteBook removes a book
// DELETE /api/books/{id}
func (h *BookHandler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	params, ok := requireParams(w, r, "id")
	if !ok {
		return
	}

	if err := h.docService.DeleteDocument(r.Context(), params[0]); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetTree returns the chapter outline of a book
// GET /api/books/{id}/tree
func (h *BookHandler) GetTree(w http.ResponseWriter, r *http.Request) {
	params, ok := requireParams(w, r, "id")
	if !ok {
		return
	}

	outline, err := h.docService.GetOutline(r.Context(), params[0])
	if err != nil {
		handleError(w, err)
		return
	}

	setRevision(w, outline.Revision)
	httputil.RespondJSON(w, http.StatusOK, outline)
}

// OpenBook returns the first article of a book with its breadcrumbs and pane choices
// GET /api/books/{id}/open
func (h *BookHandler) OpenBook(w http.ResponseWriter, r *http.Request) {
	params, ok := requireParams(w, r, "id")
	if !ok {
		return
	}

	result, err := h.readerService.OpenBook(r.Context(), params[0])
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

// HealthCheck is a simple health check endpoint
func (h *BookHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"time":   time.Now(),
	})
}
