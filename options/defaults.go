package options

import (
	"log/slog"
	"os"
	"slices"

	"github.com/robbyt/go-taskscript/platform/constants"
)

// StandardModules lists the Starlark library modules an engine can
// predeclare. All of them are enabled by default.
var StandardModules = []string{
	constants.JSONModule,
	constants.MathModule,
	constants.TimeModule,
}

// DefaultConfig initializes a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		handler: DefaultHandler(),
		modules: slices.Clone(StandardModules),
	}
}

// DefaultHandler returns the default logging handler
func DefaultHandler() slog.Handler {
	return slog.NewTextHandler(os.Stdout, nil)
}

// WithDefaults applies default values to any config properties that are nil
func WithDefaults() Option {
	return func(c *Config) error {
		if c.handler == nil {
			c.handler = DefaultHandler()
		}
		if c.modules == nil {
			c.modules = slices.Clone(StandardModules)
		}
		return nil
	}
}

// New builds a Config from the defaults and the given options, then
// validates it.
func New(opts ...Option) (*Config, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
