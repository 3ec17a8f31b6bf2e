package normalize

import (
	"bytes"
	"encoding/json"
)

// Map is an insertion-ordered mapping from string keys to canonical values.
// It is the only mapping shape the engine emits; key order survives
// MarshalJSON.
//
// Map is not safe for concurrent mutation.
type Map struct {
	keys   []string
	values map[string]any
}

// NewMap returns an empty ordered mapping.
func NewMap() *Map {
	return &Map{values: make(map[string]any)}
}

// MapOf builds an ordered mapping from alternating key/value pairs,
// preserving argument order.
func MapOf(pairs ...Field) *Map {
	m := NewMap()
	for _, p := range pairs {
		m.Set(p.Key, p.Value)
	}
	return m
}

// Set stores a value under key. Setting an existing key overwrites the
// value and keeps the key's original position.
func (m *Map) Set(key string, value any) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value stored under key.
func (m *Map) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string {
	keys := make([]string, len(m.keys))
	copy(keys, m.keys)
	return keys
}

// Len returns the number of entries.
func (m *Map) Len() int {
	return len(m.keys)
}

// MarshalJSON encodes the mapping as a JSON object, preserving insertion
// order.
func (m *Map) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(m.values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
