package evaluator

import (
	"errors"
	"testing"

	"github.com/robbyt/go-taskscript/engines/starlark/attrmap"
	"github.com/robbyt/go-taskscript/platform"
	"github.com/robbyt/go-taskscript/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

func TestSourceLine(t *testing.T) {
	t.Parallel()

	source := "a = 1\r\nb = 2\n\n  c = 3"
	tests := []struct {
		line int
		want string
	}{
		{line: 0, want: ""},
		{line: 1, want: "a = 1"},
		{line: 2, want: "b = 2"},
		{line: 3, want: ""},
		{line: 4, want: "  c = 3"},
		{line: 5, want: ""},
		{line: -1, want: ""},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, sourceLine(source, tc.line), "line %d", tc.line)
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	_, parseErr := syntax.Parse("<script>", "x = (", 0)
	require.Error(t, parseErr)

	thread := &starlark.Thread{Name: "test"}
	_, evalErr := starlark.ExecFile(thread, "<script>", "x = 1 // 0", nil)
	require.Error(t, evalErr)

	_, nameErr := starlark.ExecFile(thread, "<script>", "x = y", nil)
	require.Error(t, nameErr)

	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "parse", err: parseErr, want: "SyntaxError"},
		{name: "runtime", err: evalErr, want: "ZeroDivisionError"},
		{name: "resolve", err: nameErr, want: "NameError"},
		{name: "unknown attribute", err: &attrmap.UnknownAttributeError{Name: "x"}, want: "UnknownAttributeError"},
		{name: "other", err: errors.New("boom"), want: "Error"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			class, msg := classify(tc.err)
			assert.Equal(t, tc.want, class)
			assert.NotEmpty(t, msg)
		})
	}
}

func TestClassify_Runtime(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		source string
		want   string
	}{
		{name: "float division", source: "x = 1 / 0", want: "ZeroDivisionError"},
		{name: "floored division", source: "x = 1 // 0", want: "ZeroDivisionError"},
		{name: "modulo", source: "x = 1 % 0", want: "ZeroDivisionError"},
		{name: "missing dict key", source: "x = {}['k']", want: "KeyError"},
		{name: "list index", source: "x = [1][3]", want: "IndexError"},
		{name: "empty list index", source: "x = [][0]", want: "IndexError"},
		{name: "missing method", source: "x = 'a'.nope()", want: "AttributeError"},
		{name: "operand types", source: "x = 1 + 'a'", want: "TypeError"},
		{name: "unhashable key", source: "x = {[]: 1}", want: "TypeError"},
		{name: "call non-function", source: "x = 1()", want: "TypeError"},
		{name: "bad literal", source: "x = int('abc')", want: "ValueError"},
		{name: "explicit fail", source: "fail('stop')", want: "EvalError"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := starlark.ExecFile(&starlark.Thread{}, "<script>", tc.source, nil)
			require.Error(t, err)

			class, msg := classify(err)
			assert.Equal(t, tc.want, class, "message: %s", msg)
		})
	}
}

func TestLocate(t *testing.T) {
	t.Parallel()

	source := "def f():\n    return 1 // 0\nx = f()\n"
	thread := &starlark.Thread{Name: "test"}

	t.Run("innermost frame in unit", func(t *testing.T) {
		t.Parallel()
		_, err := starlark.ExecFile(thread, "<script>", source, nil)
		require.Error(t, err)

		line, text := locate(err, "<script>", source)
		assert.Equal(t, 2, line)
		assert.Equal(t, "    return 1 // 0", text)
	})

	t.Run("frames from another unit are ignored", func(t *testing.T) {
		t.Parallel()
		_, err := starlark.ExecFile(&starlark.Thread{}, "other.star", source, nil)
		require.Error(t, err)

		line, text := locate(err, "<script>", source)
		assert.Zero(t, line)
		assert.Empty(t, text)
	})
}

func TestTaskError(t *testing.T) {
	t.Parallel()

	tk := task.NewWithID("t-1", nil)

	t.Run("existing task error passes through", func(t *testing.T) {
		t.Parallel()
		inner := platform.NewTaskError(tk, platform.ErrExpression, "inner", nil)
		got := taskError(tk, platform.ErrExecution, errors.Join(errors.New("outer"), inner), "<script>", "")
		assert.Same(t, inner, got)
	})

	t.Run("class and location", func(t *testing.T) {
		t.Parallel()
		source := "a = 1\nb = a // 0\n"
		_, err := starlark.ExecFile(&starlark.Thread{}, "<script>", source, nil)
		require.Error(t, err)

		got := taskError(tk, platform.ErrExecution, err, "<script>", source)
		assert.Equal(t, "ZeroDivisionError", got.Class)
		assert.Equal(t, 2, got.LineNumber)
		assert.Equal(t, "b = a // 0", got.SourceLine)
		assert.Equal(t, "t-1", got.TaskID())
		assert.ErrorIs(t, got, platform.ErrExecution)
	})
}
