package common

import (
	json "github.com/goccy/go-json"
)

// Body is a decoded JSON response object.
type Body map[string]any

// String returns the string value stored under key, or "" when absent or not a string.
func (b Body) String(key string) string {
	s, _ := b[key].(string)
	return s
}

// Truthy reports whether the value under key is present and not a zero value
// (false, 0, "", null).
func (b Body) Truthy(key string) bool {
	return IsTruthy(b[key])
}

// Decode copies the body into v, which is typically a pointer to a struct
// with json tags.
func (b Body) Decode(v any) error {
	data, err := json.Marshal(b)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// IsTruthy reports whether a decoded JSON value is set and non-zero.
func IsTruthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0
	case json.Number:
		f, err := t.Float64()
		return err == nil && f != 0
	case string:
		return t != ""
	default:
		return true
	}
}
