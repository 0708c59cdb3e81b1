package operators

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/cel-go/cel"
	"github.com/robbyt/go-taskscript/platform"
)

// celDataVar is the variable holding the task data in CEL programs.
const celDataVar = "data"

var celEnv = sync.OnceValues(func() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable(celDataVar, cel.MapType(cel.StringType, cel.DynType)),
	)
})

// CELOperator is a compiled CEL program with the task data bound to the
// variable data, as in `data.amount > 100 && data.region == "eu"`.
type CELOperator struct {
	source  string
	program cel.Program
}

// CEL compiles and type-checks source once, so the operator can be matched
// against any number of tasks.
func CEL(source string) (*CELOperator, error) {
	if strings.TrimSpace(source) == "" {
		return nil, fmt.Errorf("%w: CEL", ErrEmptySource)
	}

	env, err := celEnv()
	if err != nil {
		return nil, fmt.Errorf("create CEL environment: %w", err)
	}

	ast, issues := env.Compile(source)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("%w: CEL compile error in %q: %w", ErrCompile, source, issues.Err())
	}

	program, err := env.Program(ast, cel.InterruptCheckFrequency(100))
	if err != nil {
		return nil, fmt.Errorf("%w: CEL program error for %q: %w", ErrCompile, source, err)
	}
	return &CELOperator{source: source, program: program}, nil
}

func (c *CELOperator) Matches(ctx context.Context, task platform.Task) (any, error) {
	out, _, err := c.program.ContextEval(ctx, map[string]any{celDataVar: taskData(task)})
	if err != nil {
		return nil, fmt.Errorf("%w: CEL evaluation failed for %q: %w", ErrEvaluation, c.source, err)
	}
	return out.Value(), nil
}

func (c *CELOperator) String() string {
	return fmt.Sprintf("CEL(%q)", c.source)
}
