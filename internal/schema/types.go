package schema

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"granth/internal/domain/models/book"
)

// KindDefinition describes one content block kind
type KindDefinition struct {
	// Kind identifier (set during YAML unmarshaling)
	Kind book.BlockKind `yaml:"-" json:"kind"`

	DisplayName string `yaml:"display_name" json:"display_name"`
	Description string `yaml:"description" json:"description"`
}

// LegacyAlias maps a flat legacy translation field to a language code
type LegacyAlias struct {
	Field    string `json:"field"`
	Language string `json:"language"`
}

// BlockSchema is the parsed form of config/blocks.yaml
type BlockSchema struct {
	DefaultLanguage    string           `yaml:"default_language" json:"default_language"`
	SourceKinds        []KindDefinition `yaml:"-" json:"source_kinds"`
	CommentaryKinds    []KindDefinition `yaml:"-" json:"commentary_kinds"`
	LegacyTranslations []LegacyAlias    `yaml:"-" json:"legacy_translations"`
	LegacyTextFields   []string         `yaml:"legacy_text_fields" json:"legacy_text_fields"`
}

// UnmarshalYAML implements custom YAML unmarshaling to preserve kind and alias order
func (s *BlockSchema) UnmarshalYAML(node *yaml.Node) error {
	type plain struct {
		DefaultLanguage  string   `yaml:"default_language"`
		LegacyTextFields []string `yaml:"legacy_text_fields"`
	}
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	s.DefaultLanguage = p.DefaultLanguage
	s.LegacyTextFields = p.LegacyTextFields

	// node.Content alternates: key, value, key, value...
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i].Value, node.Content[i+1]
		switch key {
		case "source_kinds":
			kinds, err := decodeKinds(value)
			if err != nil {
				return fmt.Errorf("source_kinds: %w", err)
			}
			s.SourceKinds = kinds
		case "commentary_kinds":
			kinds, err := decodeKinds(value)
			if err != nil {
				return fmt.Errorf("commentary_kinds: %w", err)
			}
			s.CommentaryKinds = kinds
		case "legacy_translations":
			for j := 0; j+1 < len(value.Content); j += 2 {
				s.LegacyTranslations = append(s.LegacyTranslations, LegacyAlias{
					Field:    value.Content[j].Value,
					Language: value.Content[j+1].Value,
				})
			}
		}
	}

	return nil
}

func decodeKinds(node *yaml.Node) ([]KindDefinition, error) {
	var kinds []KindDefinition
	for j := 0; j+1 < len(node.Content); j += 2 {
		var def KindDefinition
		if err := node.Content[j+1].Decode(&def); err != nil {
			return nil, err
		}
		def.Kind = book.BlockKind(node.Content[j].Value)
		kinds = append(kinds, def)
	}
	return kinds, nil
}
