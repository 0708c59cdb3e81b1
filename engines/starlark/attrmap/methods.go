package attrmap

import (
	"fmt"

	"go.starlark.net/starlark"
)

type builtinFunc = func(*starlark.Thread, *starlark.Builtin, starlark.Tuple, []starlark.Tuple) (starlark.Value, error)

// methods mirrors the subset of dict methods scripts commonly rely on.
var methods = map[string]builtinFunc{
	"clear":      boxClear,
	"get":        boxGet,
	"items":      boxItems,
	"keys":       boxKeys,
	"pop":        boxPop,
	"setdefault": boxSetDefault,
	"update":     boxUpdate,
	"values":     boxValues,
}

func receiver(b *starlark.Builtin) *AttributeMap {
	return b.Receiver().(*AttributeMap)
}

func boxClear(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 0); err != nil {
		return nil, err
	}
	return starlark.None, receiver(b).table.Clear()
}

func boxGet(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var key, dflt starlark.Value
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &key, &dflt); err != nil {
		return nil, err
	}
	v, found, err := receiver(b).Get(key)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}
	if found {
		return v, nil
	}
	if dflt != nil {
		return dflt, nil
	}
	return starlark.None, nil
}

func boxItems(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 0); err != nil {
		return nil, err
	}
	items := receiver(b).table.Items()
	out := make([]starlark.Value, len(items))
	for i, item := range items {
		out[i] = item
	}
	return starlark.NewList(out), nil
}

func boxKeys(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 0); err != nil {
		return nil, err
	}
	return starlark.NewList(receiver(b).table.Keys()), nil
}

func boxValues(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 0); err != nil {
		return nil, err
	}
	items := receiver(b).table.Items()
	out := make([]starlark.Value, len(items))
	for i, item := range items {
		out[i] = item[1]
	}
	return starlark.NewList(out), nil
}

func boxPop(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var key, dflt starlark.Value
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &key, &dflt); err != nil {
		return nil, err
	}
	v, found, err := receiver(b).table.Delete(key)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}
	if found {
		return v, nil
	}
	if dflt != nil {
		return dflt, nil
	}
	return nil, fmt.Errorf("%s: missing key %v", b.Name(), key)
}

func boxSetDefault(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var key starlark.Value
	var dflt starlark.Value = starlark.None
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &key, &dflt); err != nil {
		return nil, err
	}
	m := receiver(b)
	if v, found, _ := m.Get(key); found {
		return v, nil
	}
	if err := m.SetKey(key, dflt); err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}
	v, _, err := m.table.Get(key)
	return v, err
}

func boxUpdate(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var other starlark.Value
	if err := starlark.UnpackPositionalArgs(b.Name(), args, nil, 0, &other); err != nil {
		return nil, err
	}
	m := receiver(b)
	if err := m.merge(b.Name(), other, kwargs); err != nil {
		return nil, err
	}
	return starlark.None, nil
}

// merge copies the entries of other, which must be a mapping or None, and
// then kwargs into m.
func (m *AttributeMap) merge(fnName string, other starlark.Value, kwargs []starlark.Tuple) error {
	if other != nil && other != starlark.None {
		mapping, ok := other.(starlark.IterableMapping)
		if !ok {
			return fmt.Errorf("%s: got %s, want dict", fnName, other.Type())
		}
		for _, item := range mapping.Items() {
			if err := m.SetKey(item[0], item[1]); err != nil {
				return fmt.Errorf("%s: %w", fnName, err)
			}
		}
	}
	for _, kv := range kwargs {
		if err := m.SetKey(kv[0], kv[1]); err != nil {
			return fmt.Errorf("%s: %w", fnName, err)
		}
	}
	return nil
}

// Constructor is the Box(mapping=None, **kwargs) builtin exposed to scripts.
var Constructor = starlark.NewBuiltin(typeName, construct)

func construct(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var initial starlark.Value
	if err := starlark.UnpackPositionalArgs(b.Name(), args, nil, 0, &initial); err != nil {
		return nil, err
	}
	m := New()
	if err := m.merge(b.Name(), initial, kwargs); err != nil {
		return nil, err
	}
	return m, nil
}
