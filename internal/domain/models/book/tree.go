package book

import (
	"fmt"

	"granth/internal/domain"
)

// Placement reports where InsertChapter put a new chapter
type Placement int

const (
	PlacementNone Placement = iota
	PlacedAtRoot
	PlacedUnderParent
)

func (p Placement) String() string {
	switch p {
	case PlacedAtRoot:
		return "root"
	case PlacedUnderParent:
		return "parent"
	default:
		return "none"
	}
}

// FindChapter looks a chapter up by its globally unique id.
// Siblings are checked in order and each sibling's subtree is searched before the next sibling.
func FindChapter(chapters []*Chapter, id string) *Chapter {
	for _, ch := range chapters {
		if ch == nil {
			continue
		}
		if ch.ID == id {
			return ch
		}
		if found := FindChapter(ch.Children, id); found != nil {
			return found
		}
	}
	return nil
}

// RemoveChapter returns a rebuilt tree without the chapter (at any depth) and
// reports whether anything was removed. The input tree is not modified: every
// surviving chapter is copied with rebuilt children. Article lists are shared.
func RemoveChapter(chapters []*Chapter, id string) ([]*Chapter, bool) {
	out := make([]*Chapter, 0, len(chapters))
	removed := false
	for _, ch := range chapters {
		if ch == nil {
			continue
		}
		if ch.ID == id {
			removed = true
			continue
		}
		clone := *ch
		children, childRemoved := RemoveChapter(ch.Children, id)
		clone.Children = children
		removed = removed || childRemoved
		out = append(out, &clone)
	}
	return out, removed
}

// InsertChapter appends ch at the root when parentID is empty, otherwise under
// the parent. An unresolved parent is reported as an InvalidReferenceError and
// the tree is returned unchanged; so is an id that already exists in the tree.
func InsertChapter(chapters []*Chapter, parentID string, ch *Chapter) ([]*Chapter, Placement, error) {
	if ch.Articles == nil {
		ch.Articles = []*Article{}
	}
	if ch.Children == nil {
		ch.Children = []*Chapter{}
	}
	if err := checkInsertIDs(chapters, ch); err != nil {
		return chapters, PlacementNone, err
	}

	if parentID == "" {
		return append(chapters, ch), PlacedAtRoot, nil
	}

	parent := FindChapter(chapters, parentID)
	if parent == nil {
		return chapters, PlacementNone, &domain.InvalidReferenceError{ResourceType: "chapter", ResourceID: parentID}
	}
	parent.Children = append(parent.Children, ch)
	return chapters, PlacedUnderParent, nil
}

// checkInsertIDs rejects a new subtree when any of its ids is already in the
// tree or repeats within the subtree
func checkInsertIDs(chapters []*Chapter, ch *Chapter) error {
	seen := make(map[string]bool)
	var err error
	WalkChapters([]*Chapter{ch}, func(c, _ *Chapter, _ int) bool {
		if seen[c.ID] || FindChapter(chapters, c.ID) != nil {
			err = newConflict("chapter", c.ID, fmt.Sprintf("chapter id %q is already in use", c.ID))
			return false
		}
		seen[c.ID] = true
		return true
	})
	return err
}

// ReorderChapters rearranges one sibling list (the root when parentID is empty).
// orderedIDs must name every sibling exactly once.
func ReorderChapters(chapters []*Chapter, parentID string, orderedIDs []string) ([]*Chapter, error) {
	siblings := chapters
	var parent *Chapter
	if parentID != "" {
		parent = FindChapter(chapters, parentID)
		if parent == nil {
			return chapters, &domain.InvalidReferenceError{ResourceType: "chapter", ResourceID: parentID}
		}
		siblings = parent.Children
	}

	byID := make(map[string]*Chapter, len(siblings))
	for _, ch := range siblings {
		if _, dup := byID[ch.ID]; dup {
			return chapters, newConflict("chapter", ch.ID,
				fmt.Sprintf("chapter id %q is shared by several siblings; rename one before reordering", ch.ID))
		}
		byID[ch.ID] = ch
	}
	if len(orderedIDs) != len(siblings) {
		return chapters, newValidation(fmt.Sprintf("expected %d chapter ids, got %d", len(siblings), len(orderedIDs)))
	}
	ordered := make([]*Chapter, 0, len(orderedIDs))
	for _, id := range orderedIDs {
		ch, ok := byID[id]
		if !ok {
			return chapters, newValidation(fmt.Sprintf("chapter %q is not a sibling here or is listed twice", id))
		}
		delete(byID, id)
		ordered = append(ordered, ch)
	}

	if parent == nil {
		return ordered, nil
	}
	parent.Children = ordered
	return chapters, nil
}

// WalkChapters visits every chapter depth-first in tree order.
// Returning false from fn stops the walk.
func WalkChapters(chapters []*Chapter, fn func(ch, parent *Chapter, depth int) bool) {
	walk(chapters, nil, 0, fn)
}

func walk(chapters []*Chapter, parent *Chapter, depth int, fn func(ch, parent *Chapter, depth int) bool) bool {
	for _, ch := range chapters {
		if ch == nil {
			continue
		}
		if !fn(ch, parent, depth) {
			return false
		}
		if !walk(ch.Children, ch, depth+1, fn) {
			return false
		}
	}
	return true
}

// IndexEntry locates one chapter in the tree
type IndexEntry struct {
	Chapter  *Chapter
	ParentID string // empty for top-level chapters
	Depth    int
}

// ChapterIndex is an id lookup table built on demand for upward navigation
type ChapterIndex struct {
	entries    map[string]IndexEntry
	duplicates []string
}

// IndexChapters builds a ChapterIndex. When an id occurs twice, the first
// occurrence in tree order is indexed and the id is reported by Duplicates.
func IndexChapters(chapters []*Chapter) *ChapterIndex {
	idx := &ChapterIndex{entries: make(map[string]IndexEntry)}
	WalkChapters(chapters, func(ch, parent *Chapter, depth int) bool {
		if _, seen := idx.entries[ch.ID]; seen {
			idx.duplicates = append(idx.duplicates, ch.ID)
			return true
		}
		entry := IndexEntry{Chapter: ch, Depth: depth}
		if parent != nil {
			entry.ParentID = parent.ID
		}
		idx.entries[ch.ID] = entry
		return true
	})
	return idx
}

// Lookup returns the entry for a chapter id
func (idx *ChapterIndex) Lookup(id string) (IndexEntry, bool) {
	e, ok := idx.entries[id]
	return e, ok
}

// Contains reports whether the id is used anywhere in the tree
func (idx *ChapterIndex) Contains(id string) bool {
	_, ok := idx.entries[id]
	return ok
}

// Len is the number of distinct chapter ids
func (idx *ChapterIndex) Len() int {
	return len(idx.entries)
}

// Duplicates lists ids that occur more than once in the tree
func (idx *ChapterIndex) Duplicates() []string {
	return idx.duplicates
}

// Breadcrumbs returns the chain of chapters from the root down to id (inclusive)
func (idx *ChapterIndex) Breadcrumbs(id string) []*Chapter {
	var chain []*Chapter
	for id != "" {
		e, ok := idx.entries[id]
		if !ok {
			break
		}
		chain = append(chain, e.Chapter)
		id = e.ParentID
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// OutlineNode is the metadata-only view of a chapter used for navigation
type OutlineNode struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Verses       []string       `json:"verses"`
	ArticleCount int            `json:"article_count"`
	Children     []*OutlineNode `json:"children"`
}

// Outline builds the navigation tree of a document
func Outline(chapters []*Chapter) []*OutlineNode {
	nodes := make([]*OutlineNode, 0, len(chapters))
	for _, ch := range chapters {
		if ch == nil {
			continue
		}
		verses := make([]string, 0, len(ch.Articles))
		for _, a := range ch.Articles {
			verses = append(verses, a.Verse)
		}
		nodes = append(nodes, &OutlineNode{
			ID:           ch.ID,
			Name:         ch.Name,
			Verses:       verses,
			ArticleCount: len(ch.Articles),
			Children:     Outline(ch.Children),
		})
	}
	return nodes
}
