package taskscript

import (
	"context"

	"github.com/robbyt/go-taskscript/engines/starlark/evaluator"
	"github.com/robbyt/go-taskscript/platform"
	"github.com/robbyt/go-taskscript/platform/script"
)

// Script pairs an engine with a loaded script unit, so the script can be run
// against many tasks without being read or checked again.
type Script struct {
	engine *evaluator.Engine
	unit   *script.Unit
}

// NewScript binds unit to engine.
func NewScript(engine *evaluator.Engine, unit *script.Unit) *Script {
	return &Script{
		engine: engine,
		unit:   unit,
	}
}

// Run executes the script against the task's own data map.
func (s *Script) Run(ctx context.Context, task platform.Task, extensions map[string]any) error {
	var data map[string]any
	if task != nil {
		data = task.GetData()
	}
	return s.engine.ExecuteUnit(ctx, task, s.unit, data, extensions)
}

// GetUnit returns the loaded script unit.
func (s *Script) GetUnit() *script.Unit {
	return s.unit
}

// GetEngine returns the engine the script runs on.
func (s *Script) GetEngine() *evaluator.Engine {
	return s.engine
}

// WithUnit returns a Script running unit on the same engine.
func (s *Script) WithUnit(unit *script.Unit) *Script {
	return &Script{
		engine: s.engine,
		unit:   unit,
	}
}
