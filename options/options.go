package options

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/robbyt/go-taskscript/platform/data"
)

// Config holds all configuration for creating a script engine
type Config struct {
	// Logger for the engine
	handler slog.Handler
	// Names bound in every script and expression scope
	bindings map[string]any
	// Standard Starlark modules to predeclare (json, math, time)
	modules []string
	// Upper bound on Starlark computation steps per call, zero for no limit
	maxExecutionSteps uint64
	// Source of extension bindings merged into every script execution
	extensionProvider data.Getter
}

// Option is a function that modifies Config
type Option func(*Config) error

// WithLogHandler sets the log handler for the script engine
func WithLogHandler(handler slog.Handler) Option {
	return func(c *Config) error {
		if handler == nil {
			return fmt.Errorf("log handler cannot be nil")
		}
		c.handler = handler
		return nil
	}
}

// WithLogger uses the handler of an existing logger for the script engine
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) error {
		if logger == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		c.handler = logger.Handler()
		return nil
	}
}

// WithBindings adds engine bindings, available to every script and
// expression and protected from being overwritten by task data. Later calls
// override earlier ones for the same name.
func WithBindings(bindings map[string]any) Option {
	return func(c *Config) error {
		for name := range bindings {
			if !IsIdentifier(name) {
				return fmt.Errorf("%w: %q", ErrInvalidBindingName, name)
			}
		}
		if c.bindings == nil {
			c.bindings = make(map[string]any, len(bindings))
		}
		maps.Copy(c.bindings, bindings)
		return nil
	}
}

// WithBinding adds a single engine binding.
func WithBinding(name string, value any) Option {
	return WithBindings(map[string]any{name: value})
}

// WithModules replaces the set of predeclared standard modules.
func WithModules(names ...string) Option {
	return func(c *Config) error {
		for _, name := range names {
			if !slices.Contains(StandardModules, name) {
				return fmt.Errorf("%w: %q", ErrUnknownModule, name)
			}
		}
		c.modules = slices.Clone(names)
		return nil
	}
}

// WithoutStandardModules predeclares no standard modules.
func WithoutStandardModules() Option {
	return func(c *Config) error {
		c.modules = []string{}
		return nil
	}
}

// WithMaxExecutionSteps bounds the computation of each call. Zero disables
// the limit.
func WithMaxExecutionSteps(steps uint64) Option {
	return func(c *Config) error {
		c.maxExecutionSteps = steps
		return nil
	}
}

// WithExtensionProvider sets a provider whose data is merged into the
// extensions of every script execution, below the per-call extensions.
func WithExtensionProvider(provider data.Getter) Option {
	return func(c *Config) error {
		if provider == nil {
			return fmt.Errorf("extension provider cannot be nil")
		}
		c.extensionProvider = provider
		return nil
	}
}

// Validate performs basic validation on the configuration
func (c *Config) Validate() error {
	if c.handler == nil {
		return fmt.Errorf("no log handler specified")
	}
	for _, name := range c.modules {
		if !slices.Contains(StandardModules, name) {
			return fmt.Errorf("%w: %q", ErrUnknownModule, name)
		}
	}
	for name := range c.bindings {
		if !IsIdentifier(name) {
			return fmt.Errorf("%w: %q", ErrInvalidBindingName, name)
		}
	}
	return nil
}

// GetHandler returns the configured log handler
func (c *Config) GetHandler() slog.Handler {
	return c.handler
}

// GetBindings returns the configured engine bindings
func (c *Config) GetBindings() map[string]any {
	return c.bindings
}

// GetModules returns the names of the standard modules to predeclare
func (c *Config) GetModules() []string {
	return c.modules
}

// GetMaxExecutionSteps returns the per-call step limit, zero for none
func (c *Config) GetMaxExecutionSteps() uint64 {
	return c.maxExecutionSteps
}

// GetExtensionProvider returns the configured extension provider, or nil
func (c *Config) GetExtensionProvider() data.Getter {
	return c.extensionProvider
}
