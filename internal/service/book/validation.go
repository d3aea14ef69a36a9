package book

import (
	"fmt"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"granth/internal/config"
	"granth/internal/domain"
	"granth/internal/domain/models/book"
	bookSvc "granth/internal/domain/services/book"
)

var (
	bookIDPattern    = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)
	chapterIDPattern = regexp.MustCompile(`^[\p{L}\p{M}\p{N}._-]+$`)
)

var statuses = []interface{}{string(book.StatusDraft), string(book.StatusPublished)}

var feedbackKinds = []interface{}{
	string(book.FeedbackLike),
	string(book.FeedbackDislike),
	string(book.FeedbackInsightful),
	string(book.FeedbackUplifting),
	string(book.FeedbackView),
}

func invalid(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", domain.ErrValidation, err)
}

func validateBookID(id string) error {
	return invalid(validation.Validate(id,
		validation.Required.Error("book id is required"),
		validation.Length(1, config.MaxBookIDLength),
		validation.Match(bookIDPattern).Error("book id may contain only letters, digits, '.', '_' and '-'"),
	))
}

func validateCreateChapter(req *bookSvc.CreateChapterRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	req.ID = strings.TrimSpace(req.ID)
	return invalid(validation.ValidateStruct(req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, config.MaxChapterNameLength)),
		validation.Field(&req.ID,
			validation.Length(0, config.MaxChapterIDLength),
			validation.Match(chapterIDPattern).Error("chapter id may contain only letters, digits, '.', '_' and '-'"),
		),
	))
}

func validateRenameChapter(req *bookSvc.RenameChapterRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	return invalid(validation.ValidateStruct(req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, config.MaxChapterNameLength)),
	))
}

func validateReorderChapters(req *bookSvc.ReorderChaptersRequest) error {
	return invalid(validation.ValidateStruct(req,
		validation.Field(&req.IDs, validation.Required),
	))
}

func validateCreateArticle(req *bookSvc.CreateArticleRequest) error {
	req.Verse = strings.TrimSpace(req.Verse)
	return invalid(validation.ValidateStruct(req,
		validation.Field(&req.Verse, validation.Required, validation.Length(1, config.MaxVerseLength)),
		validation.Field(&req.Title, validation.Length(0, config.MaxArticleTitleLength)),
		validation.Field(&req.Status, validation.In(statuses...)),
		validation.Field(&req.Tags, validation.Length(0, config.MaxTagsPerArticle)),
	))
}

func validateUpdateArticle(req *bookSvc.UpdateArticleRequest) error {
	if req.Title == nil && req.Status == nil && req.Tags == nil && !req.Author.Present && req.Content == nil {
		return invalid(fmt.Errorf("at least one field must be provided"))
	}
	return invalid(validation.ValidateStruct(req,
		validation.Field(&req.Title, validation.NilOrNotEmpty, validation.Length(1, config.MaxArticleTitleLength)),
		validation.Field(&req.Status, validation.NilOrNotEmpty, validation.In(statuses...)),
		validation.Field(&req.Tags, validation.Length(0, config.MaxTagsPerArticle)),
	))
}

func validateReorderArticles(req *bookSvc.ReorderArticlesRequest) error {
	return invalid(validation.ValidateStruct(req,
		validation.Field(&req.Verses, validation.Required),
	))
}

func validateAddComment(req *bookSvc.AddCommentRequest) error {
	req.Author = strings.TrimSpace(req.Author)
	return invalid(validation.ValidateStruct(req,
		validation.Field(&req.Author, validation.Required),
		validation.Field(&req.Body, validation.Required, validation.Length(1, config.MaxCommentBodyLength)),
	))
}

func validateFeedback(req *bookSvc.FeedbackRequest) error {
	if (req.Kind == "") == (req.Score == 0) {
		return invalid(fmt.Errorf("exactly one of kind or score must be provided"))
	}
	return invalid(validation.ValidateStruct(req,
		validation.Field(&req.Kind, validation.In(feedbackKinds...)),
		validation.Field(&req.Score, validation.Min(1), validation.Max(book.HistogramBuckets)),
	))
}

func validateMetadata(req *bookSvc.UpdateMetadataRequest) error {
	return invalid(validation.ValidateStruct(req,
		validation.Field(&req.Title, validation.NilOrNotEmpty, validation.Length(1, config.MaxArticleTitleLength)),
		validation.Field(&req.SourceLanguage, validation.NilOrNotEmpty, validation.Length(2, 16)),
	))
}

func validatePaneLabels(labels []string) error {
	return invalid(validation.Validate(labels, validation.Length(0, book.MaxPanes)))
}
