package common

import "strings"

// Header is a single request header.
type Header struct {
	Name  string
	Value string
}

// Headers is an ordered header set. Names compare case-insensitively;
// setting an existing name replaces its value in place.
type Headers []Header

// Get returns the value of name and whether it is present.
func (h Headers) Get(name string) (string, bool) {
	for _, hdr := range h {
		if strings.EqualFold(hdr.Name, name) {
			return hdr.Value, true
		}
	}
	return "", false
}

// Set returns h with name set to value.
func (h Headers) Set(name, value string) Headers {
	for i := range h {
		if strings.EqualFold(h[i].Name, name) {
			h[i].Value = value
			return h
		}
	}
	return append(h, Header{Name: name, Value: value})
}

// Merge returns a new header set holding base overlaid with layer.
// Neither input is modified.
func Merge(base, layer Headers) Headers {
	merged := make(Headers, 0, len(base)+len(layer))
	merged = append(merged, base...)
	for _, hdr := range layer {
		merged = merged.Set(hdr.Name, hdr.Value)
	}
	return merged
}
