package evaluator

import (
	"context"
	"fmt"
	"maps"
	"reflect"
	"time"

	"github.com/robbyt/go-taskscript/engines/starlark/attrmap"
	"github.com/robbyt/go-taskscript/engines/starlark/scope"
	"github.com/robbyt/go-taskscript/internal/helpers"
	"github.com/robbyt/go-taskscript/platform"
	"github.com/robbyt/go-taskscript/platform/constants"
	"github.com/robbyt/go-taskscript/platform/script"
	"go.starlark.net/starlark"
)

// Execute runs script for its effect on data, which is normally the task's
// own data map.
//
// Before anything runs, data is checked for keys that redefine an engine
// binding or an extension; any such key fails the call with
// platform.ErrNameShadowing. Mapping values in data are then converted to
// AttributeMaps in place, and this conversion is visible to the caller
// afterwards. Every top-level name the script binds or rebinds is written
// back into data, including bindings made before a failure.
//
// Other failures are *platform.TaskError of kind platform.ErrExecution,
// carrying the failing line when it can be found. A *platform.TaskError
// raised by a nested call is returned unchanged.
func (e *Engine) Execute(
	ctx context.Context,
	task platform.Task,
	source string,
	data map[string]any,
	extensions map[string]any,
) error {
	return e.execute(ctx, task, helpers.ShortID(source), source, data, extensions)
}

// ExecuteUnit is Execute for a script loaded with Load.
func (e *Engine) ExecuteUnit(
	ctx context.Context,
	task platform.Task,
	unit *script.Unit,
	data map[string]any,
	extensions map[string]any,
) error {
	if unit == nil {
		return platform.NewTaskError(task, platform.ErrExecution, ErrNilUnit.Error(), ErrNilUnit)
	}
	return e.execute(ctx, task, unit.ID, unit.Source, data, extensions)
}

func (e *Engine) execute(
	ctx context.Context,
	task platform.Task,
	scriptID string,
	source string,
	data map[string]any,
	extensions map[string]any,
) error {
	logger := e.logger.WithGroup("Execute").With("taskID", taskID(task), "scriptID", scriptID)

	if data == nil {
		return platform.NewTaskError(task, platform.ErrExecution, ErrNilData.Error(), ErrNilData)
	}

	ext, err := e.extensions(ctx, extensions)
	if err != nil {
		return platform.NewTaskError(task, platform.ErrExecution, err.Error(), err)
	}

	if err := scope.CheckOverwrite(e.bindings, ext, data); err != nil {
		logger.WarnContext(ctx, "task data shadows predefined names", "error", err)
		return platform.NewTaskError(task, platform.ErrNameShadowing, err.Error(), err)
	}

	f, err := e.fileOptions.Parse(constants.ScriptUnit, source, 0)
	if err != nil {
		return taskError(task, platform.ErrExecution, err, constants.ScriptUnit, source)
	}

	if err := ctx.Err(); err != nil {
		return platform.NewTaskError(task, platform.ErrExecution, fmt.Sprintf("Error: %s", err), err).
			WithClass("Error")
	}

	for k, v := range data {
		data[k] = attrmap.Wrap(v)
	}
	globals := scope.Build(e.bindings, ext, data)
	before := maps.Clone(globals)
	snapshots := snapshotContainers(data, globals)

	thread, done := e.newThread(ctx, "exec", task, logger)
	defer done()

	start := time.Now()
	err = starlark.ExecREPLChunk(f, thread, globals)
	writeBack(data, before, snapshots, globals)
	logger.DebugContext(ctx, "script executed", "duration", time.Since(start), "steps", thread.ExecutionSteps())

	if err != nil {
		err = withCause(ctx, err)
		logger.DebugContext(ctx, "script failed", "error", err)
		return taskError(task, platform.ErrExecution, err, constants.ScriptUnit, source)
	}
	return nil
}

// writeBack copies into data every name the script bound. Names present in
// the scope before the call are copied only when rebound, or, for task data
// containers, when their contents differ from the snapshot taken before the
// call. Untouched task data keeps its original Go value.
func writeBack(data map[string]any, before, snapshots, after starlark.StringDict) {
	for name, v := range after {
		prev, existed := before[name]
		if existed && !rebound(prev, v) {
			snap, ok := snapshots[name]
			if !ok || !modified(snap, v) {
				continue
			}
		}
		data[name] = attrmap.FromStarlark(v)
	}
}

// snapshotContainers deep-copies the list, dict and set values that task
// data contributes to globals.
func snapshotContainers(data map[string]any, globals starlark.StringDict) starlark.StringDict {
	snapshots := make(starlark.StringDict)
	for name := range data {
		if v, ok := globals[name]; ok && isContainer(v) {
			snapshots[name] = attrmap.DeepCopy(v)
		}
	}
	return snapshots
}

// modified reports whether v no longer equals its snapshot. Values that
// cannot be compared count as modified.
func modified(snapshot, v starlark.Value) bool {
	eq, err := starlark.Equal(snapshot, v)
	return err != nil || !eq
}

// rebound reports whether v is a different value than prev, by identity.
func rebound(prev, v starlark.Value) bool {
	t := reflect.TypeOf(prev)
	if t != reflect.TypeOf(v) {
		return true
	}
	if t.Comparable() {
		return prev != v
	}
	pv, vv := reflect.ValueOf(prev), reflect.ValueOf(v)
	if pv.Kind() == reflect.Slice {
		return pv.Pointer() != vv.Pointer() || pv.Len() != vv.Len()
	}
	return true
}

func isContainer(v starlark.Value) bool {
	switch v.(type) {
	case *starlark.List, *starlark.Dict, *starlark.Set:
		return true
	}
	return false
}
