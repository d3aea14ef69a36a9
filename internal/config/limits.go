package config

const (
	// MaxBookIDLength is the maximum length for book ids.
	// Ids are used as file names by the file store, so they stay short.
	MaxBookIDLength = 128

	// MaxChapterNameLength is the maximum length for chapter names.
	MaxChapterNameLength = 255

	// MaxChapterIDLength is the maximum length for caller-chosen chapter ids.
	MaxChapterIDLength = 255

	// MaxVerseLength is the maximum length of a verse key ("2.47", "1.1-3").
	MaxVerseLength = 64

	// MaxArticleTitleLength is the maximum length for article titles.
	MaxArticleTitleLength = 500

	// MaxTagsPerArticle limits the tag list of one article.
	MaxTagsPerArticle = 32

	// MaxCommentBodyLength is the maximum length of a comment body.
	MaxCommentBodyLength = 10000
)
