package api

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Body is a successful reply as the server sent it. A reply that is not JSON
// is held as a JSON string; an empty reply is nil.
type Body json.RawMessage

func newBody(raw []byte) Body {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil
	}
	if json.Valid(trimmed) {
		return append(Body(nil), trimmed...)
	}
	quoted, _ := json.Marshal(string(raw))
	return quoted
}

// MarshalJSON returns b unchanged, or null when b is empty.
func (b Body) MarshalJSON() ([]byte, error) {
	if len(b) == 0 {
		return []byte("null"), nil
	}
	return b, nil
}

// UnmarshalJSON stores a copy of data.
func (b *Body) UnmarshalJSON(data []byte) error {
	if b == nil {
		return fmt.Errorf("api.Body: UnmarshalJSON on nil pointer")
	}
	*b = append((*b)[0:0], data...)
	return nil
}

func (b Body) String() string { return string(b) }

// Decode unmarshals b into v. An empty body leaves v untouched.
func (b Body) Decode(v any) error {
	if len(b) == 0 {
		return nil
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Record decodes b as a single object.
func (b Body) Record() (Record, error) {
	var rec Record
	if err := b.Decode(&rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Records decodes b as an array of objects.
func (b Body) Records() ([]Record, error) {
	var recs []Record
	if err := b.Decode(&recs); err != nil {
		return nil, err
	}
	return recs, nil
}
