package book

import (
	"fmt"
	"strings"
)

// SourcePane is the label that selects the source text pane
const SourcePane = "source"

// MaxPanes is the number of panes a reader can show side by side
const MaxPanes = 3

// Pane is a labeled subset of an article's blocks
type Pane struct {
	Label  string         `json:"label"`
	Blocks []ContentBlock `json:"blocks"`
}

// Projection partitions an article's blocks into the source pane and one pane
// per commentary, each in document order.
type Projection struct {
	Source       []ContentBlock `json:"source"`
	Commentaries []Pane         `json:"commentaries"`
}

// paneSet is an insertion-ordered map from label to pane
type paneSet struct {
	order []string
	panes map[string]*Pane
}

func newPaneSet() *paneSet {
	return &paneSet{panes: make(map[string]*Pane)}
}

func (s *paneSet) add(label string, b ContentBlock) {
	p, ok := s.panes[label]
	if !ok {
		p = &Pane{Label: label}
		s.panes[label] = p
		s.order = append(s.order, label)
	}
	p.Blocks = append(p.Blocks, b)
}

func (s *paneSet) list() []Pane {
	out := make([]Pane, 0, len(s.order))
	for _, label := range s.order {
		out = append(out, *s.panes[label])
	}
	return out
}

// CommentaryLabel is the pane label for a commentary block. Blocks without a
// commentary short name get "Commentary {n}", n being the block's 1-based
// position among the commentary blocks seen so far.
func CommentaryLabel(b ContentBlock, ordinal int) string {
	if b.Commentary != nil {
		if name := strings.TrimSpace(b.Commentary.ShortName); name != "" {
			return name
		}
	}
	return fmt.Sprintf("Commentary %d", ordinal)
}

// ProjectPanes projects an article with the built-in block kinds
func ProjectPanes(a *Article) Projection {
	return ProjectPanesWith(a, StandardKinds)
}

// ProjectPanesWith makes one pass over the article's content. Commentary kinds
// go to their labeled pane; every other kind is shown with the source text.
func ProjectPanesWith(a *Article, kinds KindClassifier) Projection {
	proj := Projection{Source: []ContentBlock{}}
	commentaries := newPaneSet()
	ordinal := 0

	if a != nil {
		for _, b := range a.Content {
			if kinds.IsCommentaryKind(b.Type) {
				ordinal++
				commentaries.add(CommentaryLabel(b, ordinal), b)
				continue
			}
			proj.Source = append(proj.Source, b)
		}
	}

	proj.Commentaries = commentaries.list()
	return proj
}

// Choices lists every selectable pane label: source first, then commentaries in first-seen order
func (p Projection) Choices() []string {
	out := make([]string, 0, len(p.Commentaries)+1)
	out = append(out, SourcePane)
	for _, c := range p.Commentaries {
		out = append(out, c.Label)
	}
	return out
}

// Pane returns the pane for a label
func (p Projection) Pane(label string) (Pane, bool) {
	if label == SourcePane {
		return Pane{Label: SourcePane, Blocks: p.Source}, true
	}
	for _, c := range p.Commentaries {
		if c.Label == label {
			return c, true
		}
	}
	return Pane{}, false
}

// Select returns 1 to MaxPanes panes in the requested order. The same label may
// be chosen more than once. With no labels the source pane and the first
// commentary (if any) are selected.
func (p Projection) Select(labels ...string) ([]Pane, error) {
	if len(labels) == 0 {
		labels = []string{SourcePane}
		if len(p.Commentaries) > 0 {
			labels = append(labels, p.Commentaries[0].Label)
		}
	}
	if len(labels) > MaxPanes {
		return nil, newValidation(fmt.Sprintf("at most %d panes can be shown, got %d", MaxPanes, len(labels)))
	}

	panes := make([]Pane, 0, len(labels))
	for _, label := range labels {
		pane, ok := p.Pane(label)
		if !ok {
			return nil, newValidation(fmt.Sprintf("unknown pane %q (choices: %s)", label, strings.Join(p.Choices(), ", ")))
		}
		panes = append(panes, pane)
	}
	return panes, nil
}
