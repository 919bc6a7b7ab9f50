package model

import (
	"bytes"
	"encoding/json"
)

// OrderedMap is an insertion-ordered collection keyed by name. L5K blocks are
// order-sensitive, so every entity container in the model preserves file order.
type OrderedMap[T any] struct {
	names []string
	items map[string]T
}

// NewOrderedMap creates an empty ordered map.
func NewOrderedMap[T any]() *OrderedMap[T] {
	return &OrderedMap[T]{items: make(map[string]T)}
}

// Add inserts an item under name. Returns false if the name already exists;
// the existing item is left untouched in that case.
func (m *OrderedMap[T]) Add(name string, item T) bool {
	if _, ok := m.items[name]; ok {
		return false
	}
	m.names = append(m.names, name)
	m.items[name] = item
	return true
}

// Put inserts or replaces the item under name, keeping the original position
// on replace.
func (m *OrderedMap[T]) Put(name string, item T) {
	if _, ok := m.items[name]; !ok {
		m.names = append(m.names, name)
	}
	m.items[name] = item
}

// Get returns the item for name.
func (m *OrderedMap[T]) Get(name string) (T, bool) {
	item, ok := m.items[name]
	return item, ok
}

// Has reports whether name is present.
func (m *OrderedMap[T]) Has(name string) bool {
	_, ok := m.items[name]
	return ok
}

// Delete removes name, reporting whether it was present.
func (m *OrderedMap[T]) Delete(name string) bool {
	if _, ok := m.items[name]; !ok {
		return false
	}
	delete(m.items, name)
	for i, n := range m.names {
		if n == name {
			m.names = append(m.names[:i], m.names[i+1:]...)
			break
		}
	}
	return true
}

// Names returns the names in insertion order.
func (m *OrderedMap[T]) Names() []string {
	out := make([]string, len(m.names))
	copy(out, m.names)
	return out
}

// Values returns the items in insertion order.
func (m *OrderedMap[T]) Values() []T {
	out := make([]T, 0, len(m.names))
	for _, n := range m.names {
		out = append(out, m.items[n])
	}
	return out
}

// Len returns the number of items.
func (m *OrderedMap[T]) Len() int {
	return len(m.names)
}

// MarshalJSON encodes the items as a JSON array in insertion order. Names are
// recovered from each item's own Name field on unmarshal.
func (m *OrderedMap[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Values())
}

// UnmarshalJSON decodes a JSON array produced by MarshalJSON.
func (m *OrderedMap[T]) UnmarshalJSON(data []byte) error {
	var items []T
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&items); err != nil {
		return err
	}
	m.names = nil
	m.items = make(map[string]T, len(items))
	for _, item := range items {
		m.Put(nameOf(item), item)
	}
	return nil
}

// nameOf extracts the Name field from any of the model entity types.
func nameOf(v any) string {
	switch e := v.(type) {
	case *UDT:
		return e.Name
	case *Member:
		return e.Name
	case *AOI:
		return e.Name
	case *Parameter:
		return e.Name
	case *LocalTag:
		return e.Name
	case *Tag:
		return e.Name
	case *Program:
		return e.Name
	}
	return ""
}
