package attrmap

import (
	"go.starlark.net/starlark"
)

// Func adapts a Go function into a Starlark builtin. Arguments arrive as Go
// values via FromStarlark and the result is converted with ToStarlark, so
// host helpers never deal with Starlark types.
func Func(name string, fn GoFunc) *starlark.Builtin {
	return starlark.NewBuiltin(name, func(_ *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		goArgs := make([]any, len(args))
		for i, arg := range args {
			goArgs[i] = FromStarlark(arg)
		}
		var goKwargs map[string]any
		if len(kwargs) > 0 {
			goKwargs = make(map[string]any, len(kwargs))
			for _, kv := range kwargs {
				goKwargs[keyString(kv[0])] = FromStarlark(kv[1])
			}
		}
		result, err := fn(goArgs, goKwargs)
		if err != nil {
			return nil, err
		}
		return ToStarlark(result), nil
	})
}

// GoFunc is the signature of Go functions that can be bound into a scope
// directly, without wrapping them in Func first.
type GoFunc = func(args []any, kwargs map[string]any) (any, error)

// Bind converts v for binding under name. A GoFunc becomes a builtin called
// name; everything else goes through ToStarlark.
func Bind(name string, v any) starlark.Value {
	if fn, ok := v.(GoFunc); ok {
		return Func(name, fn)
	}
	return ToStarlark(v)
}
