package evaluator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/robbyt/go-taskscript/engines/starlark/attrmap"
	"github.com/robbyt/go-taskscript/options"
	"github.com/robbyt/go-taskscript/platform"
	"github.com/robbyt/go-taskscript/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.starlark.net/starlark"
)

func TestEngine_Validate(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t)

	tests := []struct {
		name     string
		source   string
		wantErr  bool
		wantLine int
	}{
		{name: "expression", source: "a + 1"},
		{name: "incomplete expression", source: "a +", wantErr: true, wantLine: 1},
		{name: "statements", source: "x = 1\nif x:\n    y = 2\n"},
		{name: "while loop", source: "while n > 0:\n    n -= 1\n"},
		{name: "undefined names are not resolved", source: "z = not_defined_anywhere"},
		{name: "bad second line", source: "x = 1\ny = = 2\n", wantErr: true, wantLine: 2},
		{name: "bad def", source: "def f(:\n    pass\n", wantErr: true, wantLine: 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := engine.Validate(tc.source)
			if !tc.wantErr {
				require.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, platform.ErrSyntax)
			var taskErr *platform.TaskError
			require.ErrorAs(t, err, &taskErr)
			assert.Nil(t, taskErr.Task)
			assert.Equal(t, "SyntaxError", taskErr.Class)
			assert.Equal(t, tc.wantLine, taskErr.LineNumber)
		})
	}
}

func TestEngine_Evaluate(t *testing.T) {
	t.Parallel()

	add := func(args []any, _ map[string]any) (any, error) {
		return args[0].(int64) + args[1].(int64), nil
	}
	engine := newTestEngine(t, options.WithBinding("add", add))

	tests := []struct {
		name string
		expr string
		data map[string]any
		want any
	}{
		{name: "arithmetic", expr: "1 + 1", want: int64(2)},
		{
			name: "field access",
			expr: "order.total * 2",
			data: map[string]any{"order": map[string]any{"total": 5}},
			want: int64(10),
		},
		{
			name: "key and field agree",
			expr: "order['customer']['name'] == order.customer.name",
			data: map[string]any{"order": map[string]any{"customer": map[string]any{"name": "ada"}}},
			want: true,
		},
		{
			name: "list data",
			expr: "[n * 2 for n in nums if n > 1]",
			data: map[string]any{"nums": []any{1, 2, 3}},
			want: []any{int64(4), int64(6)},
		},
		{
			name: "dict result",
			expr: `{"a": {"b": 1}}`,
			want: map[string]any{"a": map[string]any{"b": int64(1)}},
		},
		{name: "engine binding", expr: "add(1, 2)", want: int64(3)},
		{name: "json module", expr: `json.decode('{"ok": true}')["ok"]`, want: true},
		{name: "math module", expr: "math.floor(2.7)", want: int64(2)},
		{name: "time module", expr: `time.parse_duration("90s")`, want: 90 * time.Second},
		{name: "box constructor", expr: "Box(a = 1).a", want: int64(1)},
		{name: "none", expr: "None", want: nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := engine.Evaluate(t.Context(), task.New(tc.data), tc.expr)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	t.Run("nil task", func(t *testing.T) {
		t.Parallel()
		got, err := engine.Evaluate(t.Context(), nil, "1 + 2")
		require.NoError(t, err)
		assert.Equal(t, int64(3), got)
	})

	t.Run("data is not modified", func(t *testing.T) {
		t.Parallel()
		order := map[string]any{"a": 1}
		tk := task.New(map[string]any{"order": order})

		_, err := engine.Evaluate(t.Context(), tk, "order.update(b = 2)")
		require.NoError(t, err)
		assert.IsType(t, map[string]any{}, tk.GetData()["order"])
		assert.Equal(t, map[string]any{"a": 1}, order)
	})

	t.Run("current task is reachable from builtins", func(t *testing.T) {
		t.Parallel()
		whoami := starlark.NewBuiltin("whoami", func(
			thread *starlark.Thread, _ *starlark.Builtin, _ starlark.Tuple, _ []starlark.Tuple,
		) (starlark.Value, error) {
			return starlark.String(TaskFromThread(thread).GetID()), nil
		})
		e := newTestEngine(t, options.WithBinding("whoami", whoami))

		got, err := e.Evaluate(t.Context(), task.NewWithID("review", nil), "whoami()")
		require.NoError(t, err)
		assert.Equal(t, "review", got)
	})
}

// Task data is not checked against engine bindings before evaluation. This
// pins the current behavior: the data value shadows the binding.
func TestEngine_EvaluateSkipsOverwriteGuard(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t)
	tk := task.New(map[string]any{"Box": 3})

	got, err := engine.Evaluate(t.Context(), tk, "Box + 1")
	require.NoError(t, err)
	assert.Equal(t, int64(4), got)
}

func TestEngine_EvaluateErrors(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t)

	tests := []struct {
		name      string
		expr      string
		wantClass string
	}{
		{name: "syntax", expr: "a +", wantClass: "SyntaxError"},
		{name: "undefined name", expr: "undefined_name + 1", wantClass: "NameError"},
		{name: "unknown attribute", expr: "order.missing", wantClass: "UnknownAttributeError"},
		{name: "runtime", expr: "1 / 0", wantClass: "ZeroDivisionError"},
		{name: "statement is not an expression", expr: "x = 1", wantClass: "SyntaxError"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			tk := task.NewWithID("t-1", map[string]any{"order": map[string]any{}})

			_, err := engine.Evaluate(t.Context(), tk, tc.expr)
			require.ErrorIs(t, err, platform.ErrExpression)

			var taskErr *platform.TaskError
			require.ErrorAs(t, err, &taskErr)
			assert.Equal(t, tk, taskErr.Task)
			assert.Equal(t, tc.wantClass, taskErr.Class)
			assert.Contains(t, taskErr.Detail, "'"+tc.expr+"'")
			assert.Zero(t, taskErr.LineNumber)
			assert.Contains(t, err.Error(), "task t-1: error evaluating expression")
		})
	}

	t.Run("unknown attribute reaches caller", func(t *testing.T) {
		t.Parallel()
		_, err := engine.Evaluate(t.Context(), task.New(map[string]any{"x": map[string]any{}}), "x.nope")
		var unknown *attrmap.UnknownAttributeError
		require.ErrorAs(t, err, &unknown)
		assert.Equal(t, "nope", unknown.Name)
	})

	t.Run("unsupported expression type", func(t *testing.T) {
		t.Parallel()
		_, err := engine.Evaluate(t.Context(), task.New(nil), 42)
		require.ErrorIs(t, err, platform.ErrExpression)
		assert.Contains(t, err.Error(), "unsupported expression type int")
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(t.Context())
		cancel()
		_, err := engine.Evaluate(ctx, task.New(nil), "1 + 1")
		require.ErrorIs(t, err, platform.ErrExpression)
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestEngine_EvaluateOperator(t *testing.T) {
	t.Parallel()

	engine := newTestEngine(t)

	t.Run("returns the operator result", func(t *testing.T) {
		t.Parallel()
		tk := task.New(map[string]any{"ignored": "data"})
		op := new(MockOperator)
		op.On("Matches", mock.Anything, tk).Return("matched", nil)

		got, err := engine.Evaluate(t.Context(), tk, op)
		require.NoError(t, err)
		assert.Equal(t, "matched", got)
		op.AssertExpectations(t)
	})

	t.Run("operator failure", func(t *testing.T) {
		t.Parallel()
		tk := task.New(nil)
		cause := errors.New("no such field")
		op := new(MockOperator)
		op.On("Matches", mock.Anything, tk).Return(nil, cause)

		_, err := engine.Evaluate(t.Context(), tk, op)
		require.ErrorIs(t, err, platform.ErrExpression)
		require.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "'MockOperator', no such field")
	})

	t.Run("task error passes through", func(t *testing.T) {
		t.Parallel()
		tk := task.New(nil)
		inner := platform.NewTaskError(tk, platform.ErrExecution, "nested", nil)
		op := new(MockOperator)
		op.On("Matches", mock.Anything, tk).Return(nil, inner)

		_, err := engine.Evaluate(t.Context(), tk, op)
		assert.Same(t, inner, err)
	})
}
