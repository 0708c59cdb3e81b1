package evaluator

import (
	"fmt"

	"github.com/robbyt/go-taskscript/platform/script"
	"github.com/robbyt/go-taskscript/platform/script/loader"
)

// Load reads a script and checks its syntax once, so the returned unit can
// be passed to ExecuteUnit many times.
func (e *Engine) Load(l loader.Loader) (*script.Unit, error) {
	logger := e.logger.WithGroup("Load")

	unit, err := script.NewUnit(l)
	if err != nil {
		return nil, fmt.Errorf("failed to load script: %w", err)
	}
	if err := e.Validate(unit.Source); err != nil {
		logger.Warn("script failed validation", "scriptID", unit.ID, "error", err)
		return nil, err
	}

	logger.Debug("script loaded", "scriptID", unit.ID, "sourceURL", unit.SourceURL)
	return unit, nil
}
