package common

import (
	json "github.com/goccy/go-json"
)

// Payload is a decoded JSON response of any shape. Most endpoints answer
// with an object, but list endpoints may answer with a top-level array.
// The zero value is an empty payload.
type Payload struct {
	value any
}

// NewPayload wraps a decoded JSON value. Objects are stored as Body.
func NewPayload(v any) Payload {
	if m, ok := v.(map[string]any); ok {
		return Payload{value: Body(m)}
	}
	return Payload{value: v}
}

// ObjectPayload wraps an object.
func ObjectPayload(b Body) Payload {
	if b == nil {
		return Payload{}
	}
	return Payload{value: b}
}

// Value returns the decoded value: Body, []any, a scalar or nil.
func (p Payload) Value() any {
	return p.value
}

// IsEmpty reports an empty response or a JSON null.
func (p Payload) IsEmpty() bool {
	return p.value == nil
}

// Object returns the payload as an object and whether it is one.
func (p Payload) Object() (Body, bool) {
	b, ok := p.value.(Body)
	return b, ok
}

// List returns the payload as an array and whether it is one.
func (p Payload) List() ([]any, bool) {
	l, ok := p.value.([]any)
	return l, ok
}

// Decode copies the payload into v, which is typically a pointer to a
// struct or a slice with json tags.
func (p Payload) Decode(v any) error {
	data, err := json.Marshal(p.value)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func (p Payload) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.value)
}

func (p *Payload) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = NewPayload(v)
	return nil
}
