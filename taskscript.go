// Package taskscript evaluates expressions and runs scripts against the data
// of workflow tasks.
package taskscript

import (
	"fmt"
	"io"

	"github.com/robbyt/go-taskscript/engines/starlark/evaluator"
	"github.com/robbyt/go-taskscript/options"
	"github.com/robbyt/go-taskscript/platform/script/loader"
)

// NewStarlarkEngine creates a Starlark script engine.
func NewStarlarkEngine(opts ...options.Option) (*evaluator.Engine, error) {
	cfg := options.DefaultConfig()

	// Apply all options
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("error applying option: %w", err)
		}
	}

	// Apply defaults option as final step to fill in any missing values
	if err := options.WithDefaults()(cfg); err != nil {
		return nil, fmt.Errorf("error applying defaults: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return evaluator.NewFromConfig(cfg)
}

// FromStarlarkString creates an engine and loads content as a script for it.
func FromStarlarkString(content string, opts ...options.Option) (*Script, error) {
	l, err := loader.NewFromString(content)
	if err != nil {
		return nil, err
	}
	return FromStarlarkLoader(l, opts...)
}

// FromStarlarkFile creates an engine and loads the script at the absolute
// path filePath for it.
func FromStarlarkFile(filePath string, opts ...options.Option) (*Script, error) {
	l, err := loader.NewFromDisk(filePath)
	if err != nil {
		return nil, err
	}
	return FromStarlarkLoader(l, opts...)
}

// FromStarlark creates an engine and loads a script from input, which may be
// inline script text (plain or base64), a file path or file:// URL, a byte
// slice, an io.Reader, or a loader.Loader.
func FromStarlark(input any, opts ...options.Option) (*Script, error) {
	l, err := loader.InferLoader(input)
	if err != nil {
		return nil, err
	}
	return FromStarlarkLoader(l, opts...)
}

// FromStarlarkReader creates an engine and loads the script read from r.
// name identifies the source in the unit's SourceURL.
func FromStarlarkReader(r io.Reader, name string, opts ...options.Option) (*Script, error) {
	l, err := loader.NewFromIoReader(r, name)
	if err != nil {
		return nil, err
	}
	return FromStarlarkLoader(l, opts...)
}

// FromStarlarkLoader creates an engine and loads the script read from l.
func FromStarlarkLoader(l loader.Loader, opts ...options.Option) (*Script, error) {
	engine, err := NewStarlarkEngine(opts...)
	if err != nil {
		return nil, err
	}
	unit, err := engine.Load(l)
	if err != nil {
		return nil, err
	}
	return NewScript(engine, unit), nil
}
