package book

import "encoding/json"

// BlockKind is the type tag of a content block
type BlockKind string

// Source kinds carry the root text; commentary kinds carry exposition on it.
const (
	KindShloka BlockKind = "shloka"
	KindSutra  BlockKind = "sutra"
	KindGadya  BlockKind = "gadya"
	KindPadya  BlockKind = "padya"

	KindBhashya BlockKind = "bhashya"
	KindTika    BlockKind = "tika"
	KindVyakhya BlockKind = "vyakhya"
)

// DefaultSourceLanguage is the original language assumed for blocks that do not declare one
const DefaultSourceLanguage = "sa"

// KindClassifier decides which pane a block kind belongs to.
// The block schema registry is the production implementation.
type KindClassifier interface {
	IsSourceKind(kind BlockKind) bool
	IsCommentaryKind(kind BlockKind) bool
}

type standardKinds struct{}

func (standardKinds) IsSourceKind(kind BlockKind) bool {
	switch kind {
	case KindShloka, KindSutra, KindGadya, KindPadya:
		return true
	}
	return false
}

func (standardKinds) IsCommentaryKind(kind BlockKind) bool {
	switch kind {
	case KindBhashya, KindTika, KindVyakhya:
		return true
	}
	return false
}

// StandardKinds classifies the built-in block kinds
var StandardKinds KindClassifier = standardKinds{}

// CommentaryRef names the commentary (usually a commentator's work) a block belongs to
type CommentaryRef struct {
	ID        string `json:"id,omitempty"`
	ShortName string `json:"shortName,omitempty"`
}

// ContentBlock is one unit of source text or commentary within an article
type ContentBlock struct {
	ID           string            `json:"id"`
	Type         BlockKind         `json:"type"`
	OriginalLang string            `json:"originalLang"`
	Text         string            `json:"text"`
	Translations map[string]string `json:"translations"`
	Commentary   *CommentaryRef    `json:"commentary,omitempty"`

	// Extra holds fields this version does not understand; they are written back unchanged.
	Extra map[string]any `json:"-"`
}

// MarshalJSON emits the canonical fields followed by any pass-through fields
func (b ContentBlock) MarshalJSON() ([]byte, error) {
	type plain ContentBlock
	return marshalWithExtra(plain(b), b.Extra)
}

// Translation returns the text for a language, if present
func (b *ContentBlock) Translation(lang string) (string, bool) {
	text, ok := b.Translations[lang]
	return text, ok
}

// marshalWithExtra merges pass-through fields into the JSON object of v.
// Canonical fields always win over an extra field of the same name.
func marshalWithExtra(v any, extra map[string]any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil || len(extra) == 0 {
		return data, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	for key, value := range extra {
		if _, known := fields[key]; known {
			continue
		}
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		fields[key] = raw
	}
	return json.Marshal(fields)
}
