// Package ordered provides a string-keyed map that keeps insertion order.
//
// OpenAPI documents are order-sensitive: schemas, properties, paths and
// media types are emitted in declaration order, so every map read from a
// document goes through Map instead of a plain Go map.
package ordered

import (
	"fmt"
	"iter"

	"gopkg.in/yaml.v3"
)

// Map is a string-keyed map that remembers insertion order.
// The zero value is an empty map ready to use.
type Map[V any] struct {
	keys   []string
	values map[string]V
}

// New returns an empty map with room for n entries.
func New[V any](n int) *Map[V] {
	return &Map[V]{keys: make([]string, 0, n), values: make(map[string]V, n)}
}

// Set stores v under k. Overwriting an existing key keeps its position.
func (m *Map[V]) Set(k string, v V) {
	if m.values == nil {
		m.values = make(map[string]V)
	}
	if _, ok := m.values[k]; !ok {
		m.keys = append(m.keys, k)
	}
	m.values[k] = v
}

// Get returns the value stored under k.
func (m *Map[V]) Get(k string) (V, bool) {
	var zero V
	if m == nil || m.values == nil {
		return zero, false
	}
	v, ok := m.values[k]
	return v, ok
}

// Has reports whether k is present.
func (m *Map[V]) Has(k string) bool {
	_, ok := m.Get(k)
	return ok
}

// Len returns the number of entries.
func (m *Map[V]) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns a copy of the keys in insertion order.
func (m *Map[V]) Keys() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// First returns the first entry, if any.
func (m *Map[V]) First() (string, V, bool) {
	var zero V
	if m.Len() == 0 {
		return "", zero, false
	}
	k := m.keys[0]
	return k, m.values[k], true
}

// All iterates over the entries in insertion order.
func (m *Map[V]) All() iter.Seq2[string, V] {
	return func(yield func(string, V) bool) {
		if m == nil {
			return
		}
		for _, k := range m.keys {
			if !yield(k, m.values[k]) {
				return
			}
		}
	}
}

// UnmarshalYAML decodes a YAML mapping, keeping key order.
// Duplicate keys keep the first position and the last value.
func (m *Map[V]) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping, got %s", node.Line, kindName(node.Kind))
	}
	*m = Map[V]{
		keys:   make([]string, 0, len(node.Content)/2),
		values: make(map[string]V, len(node.Content)/2),
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		var v V
		if err := node.Content[i+1].Decode(&v); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		m.Set(key, v)
	}
	return nil
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown node"
	}
}
