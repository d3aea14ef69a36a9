package book

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// RawDocument is a stored document as loaded, before migration. It may be in
// any legacy shape; numbers are kept as json.Number.
type RawDocument map[string]any

// DecodeRaw parses stored bytes into a RawDocument
func DecodeRaw(data []byte) (RawDocument, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw RawDocument
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("decode document: not a JSON object")
	}
	return raw, nil
}

// Encode serializes a document for storage
func Encode(d *Document) ([]byte, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return data, nil
}
