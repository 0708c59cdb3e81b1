package scope

import (
	"strings"
	"testing"

	"github.com/robbyt/go-taskscript/engines/starlark/attrmap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.starlark.net/starlark"
)

func engineBindings() starlark.StringDict {
	return starlark.StringDict{
		"Box":  attrmap.Constructor,
		"rate": starlark.Float(0.2),
	}
}

func TestBuild(t *testing.T) {
	t.Parallel()

	t.Run("precedence", func(t *testing.T) {
		t.Parallel()
		s := Build(
			engineBindings(),
			map[string]any{"rate": 0.5, "helper": "ext"},
			map[string]any{"rate": 0.3, "total": 10},
		)
		assert.Equal(t, starlark.Float(0.5), s["rate"], "extensions win over data")
		assert.Equal(t, starlark.MakeInt(10), s["total"])
		assert.Equal(t, starlark.String("ext"), s["helper"])
		assert.Equal(t, attrmap.Constructor, s["Box"])
	})

	t.Run("data overrides engine", func(t *testing.T) {
		t.Parallel()
		s := Build(engineBindings(), nil, map[string]any{"rate": 0.3})
		assert.Equal(t, starlark.Float(0.3), s["rate"])
	})

	t.Run("nested mappings wrapped", func(t *testing.T) {
		t.Parallel()
		s := Build(nil, nil, map[string]any{
			"order": map[string]any{"customer": map[string]any{"name": "ada"}},
			"lines": []any{map[string]any{"sku": "A"}},
		})
		order, ok := s["order"].(*attrmap.AttributeMap)
		require.True(t, ok)
		customer, err := order.GetAttr("customer")
		require.NoError(t, err)
		assert.IsType(t, &attrmap.AttributeMap{}, customer)

		lines, ok := s["lines"].(*starlark.List)
		require.True(t, ok)
		assert.IsType(t, &attrmap.AttributeMap{}, lines.Index(0))
	})

	t.Run("go functions as extensions", func(t *testing.T) {
		t.Parallel()
		upper := func(args []any, _ map[string]any) (any, error) {
			return strings.ToUpper(args[0].(string)), nil
		}
		s := Build(nil, map[string]any{"upper": upper}, nil)

		fn, ok := s["upper"].(*starlark.Builtin)
		require.True(t, ok, "got %T", s["upper"])
		assert.Equal(t, "upper", fn.Name())

		v, err := starlark.Call(&starlark.Thread{}, fn, starlark.Tuple{starlark.String("abc")}, nil)
		require.NoError(t, err)
		assert.Equal(t, starlark.String("ABC"), v)
	})

	t.Run("no cross-call pollution", func(t *testing.T) {
		t.Parallel()
		engine := engineBindings()
		first := Build(engine, map[string]any{"ext": 1}, map[string]any{"a": 1})
		first["injected"] = starlark.True

		second := Build(engine, nil, map[string]any{"b": 2})
		assert.NotContains(t, second, "a")
		assert.NotContains(t, second, "ext")
		assert.NotContains(t, second, "injected")
		assert.Len(t, engine, 2)
	})
}

func TestCheckOverwrite(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		extensions map[string]any
		data       map[string]any
		want       []string
	}{
		{
			name: "no collision",
			data: map[string]any{"a": 1},
		},
		{
			name: "engine binding",
			data: map[string]any{"Box": map[string]any{}, "a": 1},
			want: []string{"Box"},
		},
		{
			name:       "extension",
			extensions: map[string]any{"lookup": "fn"},
			data:       map[string]any{"lookup": 1},
			want:       []string{"lookup"},
		},
		{
			name:       "both sorted",
			extensions: map[string]any{"lookup": "fn"},
			data:       map[string]any{"rate": 1, "lookup": 1, "Box": 1},
			want:       []string{"Box", "lookup", "rate"},
		},
		{
			name: "empty data",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := CheckOverwrite(engineBindings(), tc.extensions, tc.data)
			if tc.want == nil {
				require.NoError(t, err)
				return
			}
			var collision *CollisionError
			require.ErrorAs(t, err, &collision)
			assert.Equal(t, tc.want, collision.Names)
			for _, name := range tc.want {
				assert.Contains(t, err.Error(), name)
			}
		})
	}
}
