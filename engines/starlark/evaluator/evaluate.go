package evaluator

import (
	"context"
	"errors"
	"fmt"

	"github.com/robbyt/go-taskscript/engines/starlark/attrmap"
	"github.com/robbyt/go-taskscript/engines/starlark/scope"
	"github.com/robbyt/go-taskscript/platform"
	"github.com/robbyt/go-taskscript/platform/constants"
	"go.starlark.net/starlark"
)

// Validate checks that source parses as a script or an expression. Nothing
// is resolved or run. Failures are *platform.TaskError of kind
// platform.ErrSyntax, with no task.
func (e *Engine) Validate(source string) error {
	if _, err := e.fileOptions.Parse(constants.ScriptUnit, source, 0); err != nil {
		return taskError(nil, platform.ErrSyntax, err, constants.ScriptUnit, source)
	}
	return nil
}

// Evaluate returns the value of expression for task. A platform.Operator is
// matched against the task directly. A string is evaluated as a single
// Starlark expression with the engine bindings and the task data in scope,
// task data taking precedence. Task data is not checked for shadowed names
// and is not modified.
//
// Failures are *platform.TaskError of kind platform.ErrExpression.
func (e *Engine) Evaluate(ctx context.Context, task platform.Task, expression any) (any, error) {
	logger := e.logger.WithGroup("Evaluate").With("taskID", taskID(task))

	switch expr := expression.(type) {
	case platform.Operator:
		result, err := expr.Matches(ctx, task)
		if err != nil {
			logger.DebugContext(ctx, "operator failed", "operator", expr, "error", err)
			return nil, expressionError(task, expr, err)
		}
		return result, nil
	case string:
		return e.evaluate(ctx, task, expr)
	default:
		return nil, platform.NewTaskError(
			task,
			platform.ErrExpression,
			fmt.Sprintf("unsupported expression type %T", expression),
			nil,
		)
	}
}

func (e *Engine) evaluate(ctx context.Context, task platform.Task, expr string) (any, error) {
	logger := e.logger.WithGroup("evaluate").With("taskID", taskID(task))

	if err := ctx.Err(); err != nil {
		return nil, expressionError(task, expr, err)
	}

	env := scope.Build(e.bindings, nil, taskData(task))
	thread, done := e.newThread(ctx, "eval", task, logger)
	defer done()

	v, err := starlark.EvalOptions(e.fileOptions, thread, constants.ExpressionUnit, expr, env)
	if err != nil {
		err = withCause(ctx, err)
		logger.DebugContext(ctx, "expression failed", "expression", expr, "error", err)
		return nil, expressionError(task, expr, err)
	}
	return attrmap.FromStarlark(v), nil
}

// expressionError wraps err as an expression failure naming expr. An
// existing *platform.TaskError is returned unchanged.
func expressionError(task platform.Task, expr any, err error) error {
	var existing *platform.TaskError
	if errors.As(err, &existing) {
		return existing
	}
	class, msg := classify(err)
	return platform.NewTaskError(
		task,
		platform.ErrExpression,
		fmt.Sprintf("'%v', %s", expr, msg),
		err,
	).WithClass(class)
}
