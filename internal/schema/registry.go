package schema

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"granth/internal/domain/models/book"
)

//go:embed config/*.yaml
var configFiles embed.FS

// Registry answers block kind questions for the migrator and the pane projector.
// It implements book.KindClassifier.
type Registry struct {
	schema     BlockSchema
	source     map[book.BlockKind]bool
	commentary map[book.BlockKind]bool
	mu         sync.RWMutex
}

// NewRegistry creates a registry from the embedded block schema
func NewRegistry() (*Registry, error) {
	data, err := configFiles.ReadFile("config/blocks.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded block schema: %w", err)
	}
	return newRegistry(data)
}

// NewRegistryFromFile creates a registry from a block schema on disk
func NewRegistryFromFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return newRegistry(data)
}

func newRegistry(data []byte) (*Registry, error) {
	var s BlockSchema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal block schema: %w", err)
	}
	if len(s.SourceKinds) == 0 {
		return nil, errors.New("block schema must declare at least one source kind")
	}
	if s.DefaultLanguage == "" {
		s.DefaultLanguage = book.DefaultSourceLanguage
	}

	r := &Registry{
		schema:     s,
		source:     make(map[book.BlockKind]bool, len(s.SourceKinds)),
		commentary: make(map[book.BlockKind]bool, len(s.CommentaryKinds)),
	}
	for _, k := range s.SourceKinds {
		r.source[k.Kind] = true
	}
	for _, k := range s.CommentaryKinds {
		if r.source[k.Kind] {
			return nil, fmt.Errorf("block kind %q declared as both source and commentary", k.Kind)
		}
		r.commentary[k.Kind] = true
	}

	return r, nil
}

// IsSourceKind reports whether blocks of this kind belong to the source pane
func (r *Registry) IsSourceKind(kind book.BlockKind) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.source[kind]
}

// IsCommentaryKind reports whether blocks of this kind belong to a commentary pane
func (r *Registry) IsCommentaryKind(kind book.BlockKind) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.commentary[kind]
}

// PrimarySourceKind is the kind assigned to blocks that carry no type
func (r *Registry) PrimarySourceKind() book.BlockKind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.schema.SourceKinds[0].Kind
}

// DefaultLanguage is the fallback original language of a block
func (r *Registry) DefaultLanguage() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.schema.DefaultLanguage
}

// LegacyTranslations returns the flat translation aliases in declaration order
func (r *Registry) LegacyTranslations() []LegacyAlias {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]LegacyAlias(nil), r.schema.LegacyTranslations...)
}

// LegacyTextFields returns the legacy primary text fields in precedence order
func (r *Registry) LegacyTextFields() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.schema.LegacyTextFields...)
}

// Schema returns a copy of the loaded schema (for the API and the CLI)
func (r *Registry) Schema() BlockSchema {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s := r.schema
	s.SourceKinds = append([]KindDefinition(nil), s.SourceKinds...)
	s.CommentaryKinds = append([]KindDefinition(nil), s.CommentaryKinds...)
	s.LegacyTranslations = append([]LegacyAlias(nil), s.LegacyTranslations...)
	s.LegacyTextFields = append([]string(nil), s.LegacyTextFields...)
	return s
}
