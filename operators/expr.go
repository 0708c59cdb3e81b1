package operators

import (
	"context"
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/robbyt/go-taskscript/platform"
)

// ExprOperator is a compiled expr-lang expression. The task data keys are
// its top-level variables; names missing from the data are nil.
type ExprOperator struct {
	source  string
	program *vm.Program
}

// Expr compiles source once, so the operator can be matched against any
// number of tasks.
func Expr(source string) (*ExprOperator, error) {
	if strings.TrimSpace(source) == "" {
		return nil, fmt.Errorf("%w: expr", ErrEmptySource)
	}

	program, err := expr.Compile(source,
		expr.Env(map[string]any{}),
		expr.AllowUndefinedVariables(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: expr compile error in %q: %w", ErrCompile, source, err)
	}
	return &ExprOperator{source: source, program: program}, nil
}

func (e *ExprOperator) Matches(ctx context.Context, task platform.Task) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out, err := expr.Run(e.program, taskData(task))
	if err != nil {
		return nil, fmt.Errorf("%w: expr evaluation failed for %q: %w", ErrEvaluation, e.source, err)
	}
	return out, nil
}

func (e *ExprOperator) String() string {
	return fmt.Sprintf("Expr(%q)", e.source)
}
