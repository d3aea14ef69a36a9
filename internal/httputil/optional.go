package httputil

import (
	"bytes"
	"encoding/json"
)

// Optional distinguishes an absent PATCH field from an explicit null (RFC 7396):
//   - Present=false: the field was not sent, leave the value alone
//   - Present=true, Value=nil: the field was null, reset it
//   - Present=true, Value!=nil: the field carries a new value
//
// encoding/json only calls UnmarshalJSON for keys that appear in the body,
// which is what sets Present.
type Optional[T any] struct {
	Present bool
	Value   *T
}

// UnmarshalJSON records presence and decodes non-null values
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Present = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

// IsNull reports an explicit null
func (o Optional[T]) IsNull() bool {
	return o.Present && o.Value == nil
}
