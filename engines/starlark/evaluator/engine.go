// Package evaluator runs Starlark expressions and scripts against the data
// of a workflow task.
package evaluator

import (
	"context"
	"fmt"
	"log/slog"
	"maps"

	"github.com/robbyt/go-taskscript/engines/starlark/attrmap"
	"github.com/robbyt/go-taskscript/internal/helpers"
	"github.com/robbyt/go-taskscript/options"
	"github.com/robbyt/go-taskscript/platform"
	"github.com/robbyt/go-taskscript/platform/constants"
	"github.com/robbyt/go-taskscript/platform/data"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

var _ platform.ScriptEngine = (*Engine)(nil)

// Engine evaluates expressions and executes scripts. It is safe for
// concurrent use: the engine bindings are frozen at construction and every
// call works on its own scope.
type Engine struct {
	// bindings are predeclared in every scope, frozen
	bindings starlark.StringDict

	fileOptions       *syntax.FileOptions
	maxExecutionSteps uint64
	extensionProvider data.Getter

	logHandler slog.Handler
	logger     *slog.Logger
}

// New creates an Engine from the default configuration and opts.
func New(opts ...options.Option) (*Engine, error) {
	cfg, err := options.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("invalid engine options: %w", err)
	}
	return NewFromConfig(cfg)
}

// NewFromConfig creates an Engine from a prepared Config.
func NewFromConfig(cfg *options.Config) (*Engine, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine config: %w", err)
	}

	handler, logger := helpers.SetupLogger(cfg.GetHandler(), "starlark", "Engine")

	bindings := standardModules(cfg.GetModules())
	bindings[constants.BoxBinding] = attrmap.Constructor
	for name, v := range cfg.GetBindings() {
		sv := attrmap.Bind(name, v)
		sv.Freeze()
		bindings[name] = sv
	}

	return &Engine{
		bindings: bindings,
		fileOptions: &syntax.FileOptions{
			Set:             true,
			While:           true,
			TopLevelControl: true,
			GlobalReassign:  true,
			Recursion:       true,
		},
		maxExecutionSteps: cfg.GetMaxExecutionSteps(),
		extensionProvider: cfg.GetExtensionProvider(),
		logHandler:        handler,
		logger:            logger,
	}, nil
}

func (e *Engine) String() string {
	return "starlark.Engine"
}

// Bindings returns a copy of the names predeclared in every scope.
func (e *Engine) Bindings() starlark.StringDict {
	return maps.Clone(e.bindings)
}

// AddDataToContext stores per-call extensions in ctx through the configured
// extension provider, which must also be a data.Setter.
func (e *Engine) AddDataToContext(ctx context.Context, d ...map[string]any) (context.Context, error) {
	setter, ok := e.extensionProvider.(data.Setter)
	if !ok {
		return ctx, ErrNoExtensionSetter
	}
	return setter.AddDataToContext(ctx, d...)
}

// extensions merges the provider's extensions with the explicit ones, the
// explicit ones winning.
func (e *Engine) extensions(ctx context.Context, explicit map[string]any) (map[string]any, error) {
	if e.extensionProvider == nil {
		return explicit, nil
	}
	provided, err := e.extensionProvider.GetData(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get extensions from provider: %w", err)
	}
	merged := make(map[string]any, len(provided)+len(explicit))
	maps.Copy(merged, provided)
	maps.Copy(merged, explicit)
	return merged, nil
}

func taskData(task platform.Task) map[string]any {
	if task == nil {
		return nil
	}
	return task.GetData()
}

func taskID(task platform.Task) string {
	if task == nil {
		return ""
	}
	return task.GetID()
}
