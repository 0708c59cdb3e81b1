package platform

import "context"

// Validator checks that a script or expression parses, without running it.
type Validator interface {
	Validate(source string) error
}

// ExpressionEvaluator evaluates a single expression against a task's data.
type ExpressionEvaluator interface {
	// Evaluate returns the value of expression, which is either a textual
	// expression (string) or an Operator. Failures are returned as a
	// *TaskError of kind ErrExpression.
	Evaluate(ctx context.Context, task Task, expression any) (any, error)
}

// ScriptExecutor runs a multi-statement script for its effect on task data.
type ScriptExecutor interface {
	// Execute runs script with data (normally task.GetData()) and the
	// per-call extensions in scope. Every top-level binding made by the
	// script is written back into data.
	Execute(
		ctx context.Context,
		task Task,
		script string,
		data map[string]any,
		extensions map[string]any,
	) error
}

// ScriptEngine is the complete scripting surface offered to a workflow engine.
type ScriptEngine interface {
	Validator
	ExpressionEvaluator
	ScriptExecutor
}
