package book

import (
	"time"

	"granth/internal/domain"
)

// Comment is a reader comment on an article; replies nest recursively
type Comment struct {
	ID         string    `json:"id"`
	Author     string    `json:"author"`
	Timestamp  time.Time `json:"timestamp"`
	Title      string    `json:"title,omitempty"`
	Body       string    `json:"body,omitempty"`
	TargetText string    `json:"targetText,omitempty"` // quoted passage the comment refers to
	Replies    []Comment `json:"replies"`

	Extra map[string]any `json:"-"`
}

// MarshalJSON emits the canonical fields followed by any pass-through fields
func (c Comment) MarshalJSON() ([]byte, error) {
	type plain Comment
	return marshalWithExtra(plain(c), c.Extra)
}

// FindComment searches a comment thread depth-first
func FindComment(comments []Comment, id string) *Comment {
	for i := range comments {
		if comments[i].ID == id {
			return &comments[i]
		}
		if found := FindComment(comments[i].Replies, id); found != nil {
			return found
		}
	}
	return nil
}

// AddComment appends a top-level comment, or a reply when parentID is set.
// An unknown parentID leaves the article unchanged and returns an InvalidReferenceError.
func (a *Article) AddComment(parentID string, c Comment) error {
	if c.Replies == nil {
		c.Replies = []Comment{}
	}
	if parentID == "" {
		a.Comments = append(a.Comments, c)
		return nil
	}

	parent := FindComment(a.Comments, parentID)
	if parent == nil {
		return &domain.InvalidReferenceError{ResourceType: "comment", ResourceID: parentID}
	}
	parent.Replies = append(parent.Replies, c)
	return nil
}

// CountComments counts comments at every depth
func CountComments(comments []Comment) int {
	n := len(comments)
	for i := range comments {
		n += CountComments(comments[i].Replies)
	}
	return n
}
