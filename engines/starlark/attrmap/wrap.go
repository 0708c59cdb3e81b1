package attrmap

import (
	"reflect"

	"go.starlark.net/starlark"
)

// Wrap converts v so that every mapping inside it is an AttributeMap.
// Wrapping an already wrapped value returns it unchanged, and slices are
// rewritten in place.
func Wrap(v any) any {
	switch val := v.(type) {
	case *AttributeMap:
		return val
	case map[string]any:
		return FromMap(val)
	case []any:
		for i, elem := range val {
			val[i] = Wrap(elem)
		}
		return val
	case starlark.Value:
		return wrapValue(val)
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String {
		return ToStarlark(v)
	}
	return v
}

// wrapValue is the Starlark side of Wrap. Dicts whose keys are all strings
// are copied into an AttributeMap; lists have their elements wrapped in
// place.
func wrapValue(v starlark.Value) starlark.Value {
	switch val := v.(type) {
	case *starlark.Dict:
		m := &AttributeMap{table: starlark.NewDict(val.Len())}
		for _, item := range val.Items() {
			if _, ok := item[0].(starlark.String); !ok {
				return val
			}
			_ = m.table.SetKey(item[0], wrapValue(item[1]))
		}
		return m
	case *starlark.List:
		for i := 0; i < val.Len(); i++ {
			elem := val.Index(i)
			wrapped := wrapValue(elem)
			if _, isDict := elem.(*starlark.Dict); isDict && wrapped != elem {
				// a frozen list keeps its original elements
				_ = val.SetIndex(i, wrapped)
			}
		}
		return val
	}
	return v
}

// DeepCopy returns a copy of v that shares no mutable container with it.
// Opaque host values are shared.
func DeepCopy(v starlark.Value) starlark.Value {
	switch val := v.(type) {
	case *AttributeMap:
		return val.Copy()
	case *starlark.List:
		elems := make([]starlark.Value, val.Len())
		for i := range elems {
			elems[i] = DeepCopy(val.Index(i))
		}
		return starlark.NewList(elems)
	case starlark.Tuple:
		out := make(starlark.Tuple, len(val))
		for i, elem := range val {
			out[i] = DeepCopy(elem)
		}
		return out
	case *starlark.Dict:
		out := starlark.NewDict(val.Len())
		for _, item := range val.Items() {
			_ = out.SetKey(item[0], DeepCopy(item[1]))
		}
		return out
	case *starlark.Set:
		out := starlark.NewSet(val.Len())
		iter := val.Iterate()
		defer iter.Done()
		var elem starlark.Value
		for iter.Next(&elem) {
			_ = out.Insert(elem)
		}
		return out
	}
	return v
}

// Copy returns a deep copy of m.
func (m *AttributeMap) Copy() *AttributeMap {
	out := &AttributeMap{table: starlark.NewDict(m.table.Len())}
	for _, item := range m.table.Items() {
		_ = out.table.SetKey(item[0], DeepCopy(item[1]))
	}
	return out
}
