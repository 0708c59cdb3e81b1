package attrmap

import (
	"fmt"
	"math/big"
	"reflect"
	"time"

	startime "go.starlark.net/lib/time"
	"go.starlark.net/starlark"
)

// hostValue carries a Go value that has no Starlark counterpart through a
// script unchanged. Scripts can pass it around and compare it by identity.
type hostValue struct {
	v any
}

func (h *hostValue) String() string        { return fmt.Sprintf("%v", h.v) }
func (h *hostValue) Type() string          { return fmt.Sprintf("%T", h.v) }
func (h *hostValue) Freeze()               {}
func (h *hostValue) Truth() starlark.Bool  { return h.v != nil }
func (h *hostValue) Hash() (uint32, error) { return 0, fmt.Errorf("unhashable type: %s", h.Type()) }

// ToStarlark converts a Go value to its Starlark form. Maps with string keys
// become AttributeMaps and slices become lists, recursively. Values with no
// Starlark equivalent are carried opaquely and come back unchanged from
// FromStarlark.
func ToStarlark(v any) starlark.Value {
	switch val := v.(type) {
	case nil:
		return starlark.None
	case starlark.Value:
		return wrapValue(val)
	case bool:
		return starlark.Bool(val)
	case string:
		return starlark.String(val)
	case []byte:
		return starlark.Bytes(val)
	case int:
		return starlark.MakeInt(val)
	case int8:
		return starlark.MakeInt64(int64(val))
	case int16:
		return starlark.MakeInt64(int64(val))
	case int32:
		return starlark.MakeInt64(int64(val))
	case int64:
		return starlark.MakeInt64(val)
	case uint:
		return starlark.MakeUint(val)
	case uint8:
		return starlark.MakeUint64(uint64(val))
	case uint16:
		return starlark.MakeUint64(uint64(val))
	case uint32:
		return starlark.MakeUint64(uint64(val))
	case uint64:
		return starlark.MakeUint64(val)
	case *big.Int:
		return starlark.MakeBigInt(val)
	case float32:
		return starlark.Float(val)
	case float64:
		return starlark.Float(val)
	case time.Time:
		return startime.Time(val)
	case time.Duration:
		return startime.Duration(val)
	case map[string]any:
		return FromMap(val)
	case []any:
		elems := make([]starlark.Value, len(val))
		for i, elem := range val {
			elems[i] = ToStarlark(elem)
		}
		return starlark.NewList(elems)
	}
	return reflectToStarlark(v)
}

func reflectToStarlark(v any) starlark.Value {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		m := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[iter.Key().String()] = iter.Value().Interface()
		}
		return FromMap(m)
	case reflect.Slice, reflect.Array:
		elems := make([]starlark.Value, rv.Len())
		for i := range elems {
			elems[i] = ToStarlark(rv.Index(i).Interface())
		}
		return starlark.NewList(elems)
	}
	return &hostValue{v: v}
}

// FromStarlark converts a Starlark value back to Go. AttributeMaps are
// returned as-is so callers keep both access styles; use ToMap for a plain
// copy. Starlark types with no Go counterpart are returned unchanged.
func FromStarlark(v starlark.Value) any {
	switch val := v.(type) {
	case nil, starlark.NoneType:
		return nil
	case *AttributeMap:
		return val
	case *hostValue:
		return val.v
	case starlark.Bool:
		return bool(val)
	case starlark.String:
		return string(val)
	case starlark.Bytes:
		return []byte(val)
	case starlark.Int:
		if i, ok := val.Int64(); ok {
			return i
		}
		return val.BigInt()
	case starlark.Float:
		return float64(val)
	case startime.Time:
		return time.Time(val)
	case startime.Duration:
		return time.Duration(val)
	case *starlark.List:
		return fromIterable(val, val.Len())
	case starlark.Tuple:
		return fromIterable(val, val.Len())
	case *starlark.Set:
		return fromIterable(val, val.Len())
	case *starlark.Dict:
		out := make(map[string]any, val.Len())
		for _, item := range val.Items() {
			out[keyString(item[0])] = FromStarlark(item[1])
		}
		return out
	}
	return v
}

func fromIterable(seq starlark.Iterable, n int) []any {
	out := make([]any, 0, n)
	iter := seq.Iterate()
	defer iter.Done()
	var elem starlark.Value
	for iter.Next(&elem) {
		out = append(out, FromStarlark(elem))
	}
	return out
}
