package evaluator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robbyt/go-taskscript/platform"
	"github.com/robbyt/go-taskscript/platform/constants"
	"go.starlark.net/starlark"
)

// newThread prepares a thread for one call. The returned func must be
// called when the call is done.
func (e *Engine) newThread(
	ctx context.Context,
	name string,
	task platform.Task,
	logger *slog.Logger,
) (*starlark.Thread, func()) {
	thread := &starlark.Thread{
		Name: name,
		Print: func(thread *starlark.Thread, msg string) {
			logger.InfoContext(ctx, msg, "starlark-thread", thread.Name)
		},
	}
	thread.SetLocal(constants.ThreadTask, task)
	if e.maxExecutionSteps > 0 {
		thread.SetMaxExecutionSteps(e.maxExecutionSteps)
	}

	stop := context.AfterFunc(ctx, func() {
		thread.Cancel(context.Cause(ctx).Error())
	})
	return thread, func() { stop() }
}

// TaskFromThread returns the task a running script or expression belongs
// to, for use by Go builtins passed as bindings or extensions.
func TaskFromThread(thread *starlark.Thread) platform.Task {
	if thread == nil {
		return nil
	}
	task, _ := thread.Local(constants.ThreadTask).(platform.Task)
	return task
}

// withCause attaches the context error to a failure caused by cancellation.
func withCause(ctx context.Context, err error) error {
	if err == nil || ctx.Err() == nil {
		return err
	}
	return fmt.Errorf("%w: %w", context.Cause(ctx), err)
}
