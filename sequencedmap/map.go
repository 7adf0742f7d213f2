// Package sequencedmap provides a map implementation that maintains the order of keys as they are added.
//
// Rule tables, settings and option payloads are kept in sequenced maps so that an
// effective configuration always serialises in the same order it was declared in.
package sequencedmap

import (
	"bytes"
	"encoding/json"
	"fmt"
	"iter"
	"slices"

	"github.com/StimulCross/configs/internal/interfaces"
)

var _ interfaces.SequencedMapInterface = (*Map[string, any])(nil)

// Element is a key-value pair used to build a sequenced map.
type Element[K comparable, V any] struct {
	Key   K
	Value V
}

// NewElem creates a new element with the specified key and value.
func NewElem[K comparable, V any](key K, value V) *Element[K, V] {
	return &Element[K, V]{Key: key, Value: value}
}

// Map is a map implementation that maintains the order of keys as they are added.
// The zero value is an empty map ready for use.
type Map[K comparable, V any] struct {
	index   map[K]int
	entries []Element[K, V]
}

// New creates a new map with the specified elements.
// Later elements with a key already seen replace the earlier value in place.
func New[K comparable, V any](elements ...*Element[K, V]) *Map[K, V] {
	return NewWithCapacity(len(elements), elements...)
}

// NewWithCapacity creates a new map with room for capacity keys.
func NewWithCapacity[K comparable, V any](capacity int, elements ...*Element[K, V]) *Map[K, V] {
	capacity = max(capacity, len(elements))
	m := &Map[K, V]{
		index:   make(map[K]int, capacity),
		entries: make([]Element[K, V], 0, capacity),
	}
	for _, e := range elements {
		m.Set(e.Key, e.Value)
	}
	return m
}

// Len returns the number of elements in the map. nil safe.
func (m *Map[K, V]) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Set sets the value for the specified key.
// An existing key keeps its position; a new key is appended.
func (m *Map[K, V]) Set(key K, value V) {
	if i, ok := m.index[key]; ok {
		m.entries[i].Value = value
		return
	}
	if m.index == nil {
		m.index = make(map[K]int)
	}
	m.index[key] = len(m.entries)
	m.entries = append(m.entries, Element[K, V]{Key: key, Value: value})
}

// Get returns the value stored under key and whether it was present. nil safe.
func (m *Map[K, V]) Get(key K) (V, bool) {
	if m != nil {
		if i, ok := m.index[key]; ok {
			return m.entries[i].Value, true
		}
	}
	var zero V
	return zero, false
}

// GetOrZero returns the value for the specified key or the zero value if the key is not found.
func (m *Map[K, V]) GetOrZero(key K) V {
	v, _ := m.Get(key)
	return v
}

// Has reports whether key is present. nil safe.
func (m *Map[K, V]) Has(key K) bool {
	_, ok := m.Get(key)
	return ok
}

// Delete removes key, shifting later keys up one position.
func (m *Map[K, V]) Delete(key K) {
	if m == nil {
		return
	}
	i, ok := m.index[key]
	if !ok {
		return
	}

	delete(m.index, key)
	m.entries = slices.Delete(m.entries, i, i+1)
	for j := i; j < len(m.entries); j++ {
		m.index[m.entries[j].Key] = j
	}
}

// Clone returns a shallow copy of the map. nil safe.
func (m *Map[K, V]) Clone() *Map[K, V] {
	c := NewWithCapacity[K, V](m.Len())
	if m == nil {
		return c
	}
	c.entries = append(c.entries, m.entries...)
	for i, e := range c.entries {
		c.index[e.Key] = i
	}
	return c
}

// All iterates over the elements in insertion order.
// Elements added during iteration are not visited.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		if m == nil {
			return
		}
		for _, e := range slices.Clone(m.entries) {
			if !yield(e.Key, e.Value) {
				return
			}
		}
	}
}

// Keys iterates over the keys in insertion order.
func (m *Map[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for k := range m.All() {
			if !yield(k) {
				return
			}
		}
	}
}

// Values iterates over the values in insertion order.
func (m *Map[K, V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		for _, v := range m.All() {
			if !yield(v) {
				return
			}
		}
	}
}

// IsEqualFunc reports whether both maps hold the same keys with values equal under eq.
// Order is ignored and a nil map equals an empty one.
func (m *Map[K, V]) IsEqualFunc(other *Map[K, V], eq func(a, b V) bool) bool {
	if m.Len() != other.Len() {
		return false
	}
	for k, v := range m.All() {
		ov, ok := other.Get(k)
		if !ok || !eq(v, ov) {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the map as a JSON object with keys in insertion order.
// Non-string keys are written in their %v form.
func (m *Map[K, V]) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range m.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(fmt.Sprint(e.Key))
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(e.Value)
		if err != nil {
			return nil, fmt.Errorf("key %v: %w", e.Key, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// GetAny returns the value for key when key has the map's key type.
func (m *Map[K, V]) GetAny(key any) (any, bool) {
	k, ok := key.(K)
	if !ok {
		return nil, false
	}
	return m.Get(k)
}

// KeysAny iterates over the keys in insertion order, untyped.
func (m *Map[K, V]) KeysAny() iter.Seq[any] {
	return func(yield func(any) bool) {
		for k := range m.Keys() {
			if !yield(k) {
				return
			}
		}
	}
}
