// Package operators provides pre-built matchers that can be evaluated in
// place of a textual expression. Every operator implements
// platform.Operator, and any operator can be used as an operand of another.
package operators

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/robbyt/go-taskscript/engines/starlark/attrmap"
	"github.com/robbyt/go-taskscript/platform"
)

var (
	ErrIncomparable = errors.New("values cannot be compared")
	ErrNotString    = errors.New("value is not a string")
	ErrEmptySource  = errors.New("empty operator source")
	ErrCompile      = errors.New("operator compile error")
	ErrEvaluation   = errors.New("operator evaluation failed")
)

// resolve returns the value of an operand: operators are matched against
// task, anything else is a literal. The result is a plain Go value.
func resolve(ctx context.Context, task platform.Task, operand any) (any, error) {
	op, ok := operand.(platform.Operator)
	if !ok {
		return attrmap.Unwrap(operand), nil
	}
	v, err := op.Matches(ctx, task)
	if err != nil {
		return nil, err
	}
	return attrmap.Unwrap(v), nil
}

func resolveAll(ctx context.Context, task platform.Task, operands []any) ([]any, error) {
	values := make([]any, len(operands))
	for i, operand := range operands {
		v, err := resolve(ctx, task, operand)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

// taskData returns a plain copy of the task's data, safe to hand to
// evaluators that do not know about AttributeMaps.
func taskData(task platform.Task) map[string]any {
	if task == nil || task.GetData() == nil {
		return map[string]any{}
	}
	return attrmap.Unwrap(task.GetData()).(map[string]any)
}

func describe(name string, operands []any) string {
	parts := make([]string, len(operands))
	for i, operand := range operands {
		if s, ok := operand.(string); ok {
			parts[i] = fmt.Sprintf("%q", s)
			continue
		}
		parts[i] = fmt.Sprintf("%v", operand)
	}
	return name + "(" + strings.Join(parts, ", ") + ")"
}
