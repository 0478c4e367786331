package domain

import "errors"

// ErrNoFrontmatter is returned when a document has no metadata block, or the
// block holds no data at all.
var ErrNoFrontmatter = errors.New("no frontmatter")

// ErrMalformedFrontmatter is returned when the metadata block is delimited
// but its content is not a key-value mapping.
var ErrMalformedFrontmatter = errors.New("malformed frontmatter")

// Field is one header entry. Value holds string, int, float64, bool, nil,
// []any or map[string]any; dates keep their source text.
type Field struct {
	Key   string
	Value any
}

// Metadata is a document header with its keys in document order.
type Metadata struct {
	Fields []Field
}

// Keys returns the header keys in document order.
func (m Metadata) Keys() []string {
	keys := make([]string, len(m.Fields))
	for i, f := range m.Fields {
		keys[i] = f.Key
	}
	return keys
}

// Lookup returns the value stored under key.
func (m Metadata) Lookup(key string) (any, bool) {
	for _, f := range m.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Has reports whether key is present.
func (m Metadata) Has(key string) bool {
	_, ok := m.Lookup(key)
	return ok
}

// Map returns the header as an unordered map.
func (m Metadata) Map() map[string]any {
	out := make(map[string]any, len(m.Fields))
	for _, f := range m.Fields {
		out[f.Key] = f.Value
	}
	return out
}
