package book

import (
	"time"
)

// Metadata is the flat descriptive record of a book
type Metadata struct {
	Title          string `json:"title"`
	Author         string `json:"author"`
	Description    string `json:"description"`
	OwnerID        string `json:"ownerId,omitempty"`
	IsPublic       bool   `json:"isPublic"` // interpreted by the collaborator layer only
	SourceLanguage string `json:"sourceLanguage"`

	Extra map[string]any `json:"-"`
}

// MarshalJSON emits the canonical fields followed by any pass-through fields
func (m Metadata) MarshalJSON() ([]byte, error) {
	type plain Metadata
	return marshalWithExtra(plain(m), m.Extra)
}

// Document is the whole in-memory representation of one book.
// It is loaded, mutated and saved as a unit.
type Document struct {
	ID        string     `json:"id"`
	Metadata  Metadata   `json:"metadata"`
	Chapters  []*Chapter `json:"chapters"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	Revision  string     `json:"revision,omitempty"` // blake3 digest of the content, set on save

	// Extra holds root fields this version does not understand; they are written back unchanged.
	Extra map[string]any `json:"-"`
}

// MarshalJSON emits the canonical fields followed by any pass-through fields
func (d Document) MarshalJSON() ([]byte, error) {
	type plain Document
	return marshalWithExtra(plain(d), d.Extra)
}

// Chapter is a node of the recursive chapter tree.
// Chapters own their children; there are no parent pointers (see IndexChapters).
type Chapter struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Articles []*Article `json:"articles"`
	Children []*Chapter `json:"children"`

	Extra map[string]any `json:"-"`
}

// MarshalJSON emits the canonical fields followed by any pass-through fields
func (c Chapter) MarshalJSON() ([]byte, error) {
	type plain Chapter
	return marshalWithExtra(plain(c), c.Extra)
}

// SourceLanguage returns the working source language of the document
func (d *Document) SourceLanguage() string {
	if d.Metadata.SourceLanguage == "" {
		return DefaultSourceLanguage
	}
	return d.Metadata.SourceLanguage
}
