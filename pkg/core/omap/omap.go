// Package omap provides an insertion-ordered map.
//
// Every map in the diagram model is ordered: key order decides layout order,
// DOM order and CSS emission order. [Map] keeps keys in the order they were
// first inserted and serialises to and from YAML mappings in that order.
package omap

import (
	"fmt"
	"iter"
	"slices"

	"gopkg.in/yaml.v3"
)

// Map is an ordered map. The zero value is an empty map ready to use.
type Map[K comparable, V any] struct {
	keys []K
	vals map[K]V
}

// New returns an empty map with room for n entries.
func New[K comparable, V any](n int) *Map[K, V] {
	return &Map[K, V]{keys: make([]K, 0, n), vals: make(map[K]V, n)}
}

// Set inserts or replaces the value for k. Replacing keeps the original position.
func (m *Map[K, V]) Set(k K, v V) {
	if m.vals == nil {
		m.vals = make(map[K]V)
	}
	if _, ok := m.vals[k]; !ok {
		m.keys = append(m.keys, k)
	}
	m.vals[k] = v
}

// Get returns the value stored for k.
func (m *Map[K, V]) Get(k K) (V, bool) {
	if m == nil || m.vals == nil {
		var zero V
		return zero, false
	}
	v, ok := m.vals[k]
	return v, ok
}

// Value returns the value stored for k, or the zero value.
func (m *Map[K, V]) Value(k K) V {
	v, _ := m.Get(k)
	return v
}

// Has reports whether k is present.
func (m *Map[K, V]) Has(k K) bool {
	_, ok := m.Get(k)
	return ok
}

// Delete removes k, preserving the order of the remaining keys.
func (m *Map[K, V]) Delete(k K) {
	if !m.Has(k) {
		return
	}
	delete(m.vals, k)
	if i := slices.Index(m.keys, k); i >= 0 {
		m.keys = slices.Delete(m.keys, i, i+1)
	}
}

// Len returns the number of entries.
func (m *Map[K, V]) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns a copy of the keys in insertion order.
func (m *Map[K, V]) Keys() []K {
	if m == nil {
		return nil
	}
	return slices.Clone(m.keys)
}

// All iterates entries in insertion order.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		if m == nil {
			return
		}
		for _, k := range m.keys {
			if !yield(k, m.vals[k]) {
				return
			}
		}
	}
}

// Clone returns a shallow copy.
func (m *Map[K, V]) Clone() *Map[K, V] {
	out := New[K, V](m.Len())
	for k, v := range m.All() {
		out.Set(k, v)
	}
	return out
}

// Merge copies every entry of overlay into m. Existing keys take the overlay
// value in place; new keys are appended in overlay order.
func (m *Map[K, V]) Merge(overlay *Map[K, V]) {
	for k, v := range overlay.All() {
		m.Set(k, v)
	}
}

// Merged returns a copy of base with overlay merged on top.
func Merged[K comparable, V any](base, overlay *Map[K, V]) Map[K, V] {
	out := base.Clone()
	out.Merge(overlay)
	return *out
}

// IsZero reports whether the map is empty. It lets yaml omitempty skip empty maps.
func (m Map[K, V]) IsZero() bool {
	return len(m.keys) == 0
}

// UnmarshalYAML decodes a YAML mapping in document order. Duplicate keys are
// rejected.
func (m *Map[K, V]) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		*m = Map[K, V]{}
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping", node.Line)
	}
	out := New[K, V](len(node.Content) / 2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		kn, vn := node.Content[i], node.Content[i+1]
		var k K
		if err := kn.Decode(&k); err != nil {
			return err
		}
		if out.Has(k) {
			return fmt.Errorf("line %d: duplicate key %q", kn.Line, kn.Value)
		}
		var v V
		if err := vn.Decode(&v); err != nil {
			return err
		}
		out.Set(k, v)
	}
	*m = *out
	return nil
}

// MarshalYAML encodes the map as a mapping node in insertion order.
func (m Map[K, V]) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for k, v := range m.All() {
		var kn, vn yaml.Node
		if err := kn.Encode(k); err != nil {
			return nil, err
		}
		if err := vn.Encode(v); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, &kn, &vn)
	}
	return node, nil
}
