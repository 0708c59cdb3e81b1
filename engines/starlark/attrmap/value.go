package attrmap

import (
	"fmt"
	"slices"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

var (
	_ starlark.HasSetField     = (*AttributeMap)(nil)
	_ starlark.HasSetKey       = (*AttributeMap)(nil)
	_ starlark.IterableMapping = (*AttributeMap)(nil)
	_ starlark.Sequence        = (*AttributeMap)(nil)
	_ starlark.Comparable      = (*AttributeMap)(nil)
)

func (m *AttributeMap) String() string             { return m.table.String() }
func (m *AttributeMap) Type() string               { return typeName }
func (m *AttributeMap) Freeze()                    { m.table.Freeze() }
func (m *AttributeMap) Truth() starlark.Bool       { return m.table.Len() > 0 }
func (m *AttributeMap) Iterate() starlark.Iterator { return m.table.Iterate() }
func (m *AttributeMap) Items() []starlark.Tuple    { return m.table.Items() }

func (m *AttributeMap) Hash() (uint32, error) {
	return 0, fmt.Errorf("unhashable type: %s", typeName)
}

// Attr implements x.name. Stored keys take precedence over the dict-like
// methods, so a key named "items" reads the key.
func (m *AttributeMap) Attr(name string) (starlark.Value, error) {
	v, found, err := m.table.Get(starlark.String(name))
	if err != nil {
		return nil, err
	}
	if found {
		return v, nil
	}
	if fn, ok := methods[name]; ok {
		return starlark.NewBuiltin(name, fn).BindReceiver(m), nil
	}
	return nil, &UnknownAttributeError{Name: name}
}

func (m *AttributeMap) AttrNames() []string {
	names := m.Keys()
	for name := range methods {
		if !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

// SetField implements x.name = v.
func (m *AttributeMap) SetField(name string, v starlark.Value) error {
	return m.table.SetKey(starlark.String(name), wrapValue(v))
}

// Get implements x[k] and k in x.
func (m *AttributeMap) Get(k starlark.Value) (starlark.Value, bool, error) {
	if _, ok := k.(starlark.String); !ok {
		return nil, false, nil
	}
	return m.table.Get(k)
}

// SetKey implements x[k] = v.
func (m *AttributeMap) SetKey(k, v starlark.Value) error {
	if _, ok := k.(starlark.String); !ok {
		return fmt.Errorf("%s keys must be strings, got %s", typeName, k.Type())
	}
	return m.table.SetKey(k, wrapValue(v))
}

func (m *AttributeMap) CompareSameType(op syntax.Token, y starlark.Value, depth int) (bool, error) {
	other := y.(*AttributeMap)
	switch op {
	case syntax.EQL:
		return m.equal(other, depth)
	case syntax.NEQ:
		eq, err := m.equal(other, depth)
		return !eq, err
	default:
		return false, fmt.Errorf("%s %s %s not implemented", m.Type(), op, y.Type())
	}
}

func (m *AttributeMap) equal(other *AttributeMap, depth int) (bool, error) {
	if m.table.Len() != other.table.Len() {
		return false, nil
	}
	for _, item := range m.table.Items() {
		yv, found, _ := other.table.Get(item[0])
		if !found {
			return false, nil
		}
		eq, err := starlark.EqualDepth(item[1], yv, depth-1)
		if err != nil || !eq {
			return false, err
		}
	}
	return true, nil
}
