// Package attrmap provides AttributeMap, a string-keyed map that scripts can
// read and write both as x["field"] and as x.field.
//
// There is exactly one store behind both access styles: a Starlark dict.
// Every mapping stored in an AttributeMap, at any depth, is itself an
// AttributeMap.
package attrmap

import (
	"fmt"
	"maps"
	"slices"

	"go.starlark.net/starlark"
)

const typeName = "Box"

// AttributeMap is a recursive mapping with key-style and field-style access
// over the same entries. The zero value is not usable; call New or FromMap.
type AttributeMap struct {
	table *starlark.Dict
}

// New returns an empty AttributeMap.
func New() *AttributeMap {
	return &AttributeMap{table: starlark.NewDict(0)}
}

// FromMap builds an AttributeMap from a Go map, wrapping nested mappings.
// Keys are inserted in sorted order so iteration is deterministic.
func FromMap(m map[string]any) *AttributeMap {
	am := &AttributeMap{table: starlark.NewDict(len(m))}
	for _, k := range slices.Sorted(maps.Keys(m)) {
		// a fresh table is never frozen
		_ = am.table.SetKey(starlark.String(k), ToStarlark(m[k]))
	}
	return am
}

// Lookup returns the Go value stored under key.
func (m *AttributeMap) Lookup(key string) (any, bool) {
	v, found, err := m.table.Get(starlark.String(key))
	if err != nil || !found {
		return nil, false
	}
	return FromStarlark(v), true
}

// Store sets key to value. Mappings are wrapped into AttributeMaps.
func (m *AttributeMap) Store(key string, value any) error {
	return m.table.SetKey(starlark.String(key), ToStarlark(value))
}

// Delete removes key, reporting whether it was present.
func (m *AttributeMap) Delete(key string) (bool, error) {
	_, found, err := m.table.Delete(starlark.String(key))
	return found, err
}

// GetAttr is the field-style form of Lookup. A missing field is an
// *UnknownAttributeError.
func (m *AttributeMap) GetAttr(name string) (any, error) {
	v, ok := m.Lookup(name)
	if !ok {
		return nil, &UnknownAttributeError{Name: name}
	}
	return v, nil
}

// SetAttr is the field-style form of Store.
func (m *AttributeMap) SetAttr(name string, value any) error {
	return m.Store(name, value)
}

// DelAttr is the field-style form of Delete. A missing field is an
// *UnknownAttributeError.
func (m *AttributeMap) DelAttr(name string) error {
	found, err := m.Delete(name)
	if err != nil {
		return err
	}
	if !found {
		return &UnknownAttributeError{Name: name}
	}
	return nil
}

// Keys returns the keys in insertion order.
func (m *AttributeMap) Keys() []string {
	keys := make([]string, 0, m.table.Len())
	for _, k := range m.table.Keys() {
		keys = append(keys, keyString(k))
	}
	return keys
}

func (m *AttributeMap) Len() int { return m.table.Len() }

// ToMap returns a plain Go copy: nested AttributeMaps become
// map[string]any and Starlark containers become slices.
func (m *AttributeMap) ToMap() map[string]any {
	out := make(map[string]any, m.table.Len())
	for _, item := range m.table.Items() {
		out[keyString(item[0])] = Unwrap(FromStarlark(item[1]))
	}
	return out
}

// Unwrap reverses Wrap, returning a plain Go copy of v with every
// AttributeMap replaced by a map[string]any.
func Unwrap(v any) any {
	switch val := v.(type) {
	case *AttributeMap:
		return val.ToMap()
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = Unwrap(elem)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			out[k] = Unwrap(elem)
		}
		return out
	default:
		return v
	}
}

func keyString(k starlark.Value) string {
	if s, ok := k.(starlark.String); ok {
		return string(s)
	}
	return k.String()
}

// GoString keeps %#v output readable in test failures.
func (m *AttributeMap) GoString() string {
	return fmt.Sprintf("attrmap.AttributeMap%v", m.ToMap())
}
