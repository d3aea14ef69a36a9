package book

import (
	"context"

	"granth/internal/domain/models/book"
)

// DocumentService loads, migrates and saves whole books
type DocumentService interface {
	// GetDocument loads a book and returns it in canonical form
	GetDocument(ctx context.Context, bookID string) (*book.Document, error)

	// PutDocument migrates an uploaded document (any historical shape) and stores it
	PutDocument(ctx context.Context, bookID string, raw book.RawDocument) (*book.Document, error)

	// UpdateMetadata changes the descriptive record of a book
	UpdateMetadata(ctx context.Context, bookID string, req *UpdateMetadataRequest) (*book.Document, error)

	// MigrateDocument rewrites a stored book in canonical form
	MigrateDocument(ctx context.Context, bookID string) (*MigrationResult, error)

	// DeleteDocument removes a book
	DeleteDocument(ctx context.Context, bookID string) error

	// ListDocuments returns every stored book id
	ListDocuments(ctx context.Context) ([]string, error)

	// GetOutline returns the chapter navigation tree without article content
	GetOutline(ctx context.Context, bookID string) (*Outline, error)
}

// ChapterService edits the chapter tree of a book
type ChapterService interface {
	// CreateChapter adds a chapter at the root or under a parent
	CreateChapter(ctx context.Context, bookID string, req *CreateChapterRequest) (*ChapterResult, error)

	// RenameChapter changes a chapter's display name
	RenameChapter(ctx context.Context, bookID, chapterID string, req *RenameChapterRequest) (*book.Chapter, error)

	// DeleteChapter removes a chapter and its whole subtree
	DeleteChapter(ctx context.Context, bookID, chapterID string) error

	// ReorderChapters rearranges one sibling list
	ReorderChapters(ctx context.Context, bookID string, req *ReorderChaptersRequest) (*Outline, error)
}

// ArticleService edits the articles of a chapter
type ArticleService interface {
	// CreateArticle appends an article to a chapter
	CreateArticle(ctx context.Context, bookID, chapterID string, req *CreateArticleRequest) (*book.Article, error)

	// GetArticle resolves an article by chapter id and verse
	GetArticle(ctx context.Context, bookID, chapterID, verse string) (*book.Article, error)

	// UpdateArticle applies a partial update
	UpdateArticle(ctx context.Context, bookID, chapterID, verse string, req *UpdateArticleRequest) (*book.Article, error)

	// DeleteArticle removes an article
	DeleteArticle(ctx context.Context, bookID, chapterID, verse string) error

	// ReorderArticles rearranges a chapter's articles
	ReorderArticles(ctx context.Context, bookID, chapterID string, req *ReorderArticlesRequest) ([]string, error)

	// AddComment adds a comment or a reply
	AddComment(ctx context.Context, bookID, chapterID, verse string, req *AddCommentRequest) (*book.Comment, error)

	// RecordFeedback counts one reader reaction or score
	RecordFeedback(ctx context.Context, bookID, chapterID, verse string, req *FeedbackRequest) (*book.Feedback, error)
}

// ReaderService serves the read-only reading view
type ReaderService interface {
	// OpenBook resolves the article a reader lands on when opening a book
	OpenBook(ctx context.Context, bookID string) (*OpenResult, error)

	// GetPanes projects an article into its source and commentary panes and
	// selects up to three of them
	GetPanes(ctx context.Context, bookID, chapterID, verse string, labels []string) (*PanesResult, error)
}

// OptionalText tracks tri-state semantics for PATCH fields (RFC 7396).
// Transport-agnostic: the handler maps it from httputil.Optional.
//   - Present=false: field absent from request (don't change)
//   - Present=true, Value=nil: field is null (reset to default)
//   - Present=true, Value=&"text": field has value
type OptionalText struct {
	Present bool
	Value   *string
}

// UpdateMetadataRequest is a partial metadata update
type UpdateMetadataRequest struct {
	Title          *string      `json:"title,omitempty"`
	Author         *string      `json:"author,omitempty"`
	Description    OptionalText `json:"-"` // null clears
	IsPublic       *bool        `json:"is_public,omitempty"`
	SourceLanguage *string      `json:"source_language,omitempty"`
}

// CreateChapterRequest adds a chapter. An empty ParentID places it at the root.
// The id is generated from the name when omitted.
type CreateChapterRequest struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	ParentID string `json:"parent_id,omitempty"`
}

// RenameChapterRequest renames a chapter
type RenameChapterRequest struct {
	Name string `json:"name"`
}

// ReorderChaptersRequest lists the new order of one sibling list
type ReorderChaptersRequest struct {
	ParentID string   `json:"parent_id,omitempty"`
	IDs      []string `json:"ids"`
}

// ChapterResult reports a created chapter and where it was placed
type ChapterResult struct {
	Chapter   *book.Chapter `json:"chapter"`
	Placement string        `json:"placement"`
	ParentID  string        `json:"parent_id,omitempty"`
}

// CreateArticleRequest appends an article. Content blocks may use any
// historical shape; they are normalized before saving.
type CreateArticleRequest struct {
	Verse   string           `json:"verse"`
	Title   string           `json:"title,omitempty"`
	Author  string           `json:"author,omitempty"`
	Status  string           `json:"status,omitempty"`
	Tags    []string         `json:"tags,omitempty"`
	Content []map[string]any `json:"content,omitempty"`
}

// UpdateArticleRequest is a partial article update
type UpdateArticleRequest struct {
	Title   *string           `json:"title,omitempty"`
	Status  *string           `json:"status,omitempty"`
	Tags    *[]string         `json:"tags,omitempty"`
	Author  OptionalText      `json:"-"` // null falls back to the book author
	Content *[]map[string]any `json:"content,omitempty"`
}

// ReorderArticlesRequest lists a chapter's verses in their new order
type ReorderArticlesRequest struct {
	Verses []string `json:"verses"`
}

// AddCommentRequest adds a comment; ParentID makes it a reply
type AddCommentRequest struct {
	ParentID   string `json:"parent_id,omitempty"`
	Author     string `json:"author"`
	Title      string `json:"title,omitempty"`
	Body       string `json:"body"`
	TargetText string `json:"target_text,omitempty"`
}

// FeedbackRequest records a reaction (Kind) or a 1..10 score (Score)
type FeedbackRequest struct {
	Kind  string `json:"kind,omitempty"`
	Score int    `json:"score,omitempty"`
}

// MigrationResult summarizes a stored book's migration
type MigrationResult struct {
	Document *book.Document       `json:"document"`
	Changed  bool                 `json:"changed"`
	Report   book.MigrationReport `json:"report"`
}

// Outline is the navigation view of a book
type Outline struct {
	BookID   string              `json:"book_id"`
	Title    string              `json:"title"`
	Revision string              `json:"revision,omitempty"`
	Chapters []*book.OutlineNode `json:"chapters"`
}

// OpenResult is the landing position of a reader
type OpenResult struct {
	BookID      string        `json:"book_id"`
	ChapterID   string        `json:"chapter_id,omitempty"`
	Breadcrumbs []Crumb       `json:"breadcrumbs"`
	Article     *book.Article `json:"article,omitempty"`
	Choices     []string      `json:"choices"`
}

// Crumb is one step of a breadcrumb trail
type Crumb struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PanesResult is the projected reading view of one article
type PanesResult struct {
	ChapterID string      `json:"chapter_id"`
	Verse     string      `json:"verse"`
	Title     string      `json:"title"`
	Choices   []string    `json:"choices"`
	Panes     []book.Pane `json:"panes"`
}
