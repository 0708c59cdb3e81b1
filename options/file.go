package options

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// IsIdentifier reports whether name can be bound and referenced in a script.
func IsIdentifier(name string) bool {
	return identifierPattern.MatchString(name)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// identifier validates names that scripts can reference directly
	if err := v.RegisterValidation("identifier", func(fl validator.FieldLevel) bool {
		return IsIdentifier(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// FileConfig is the on-disk form of the engine configuration.
//
//	modules: [json, math, time]
//	max_execution_steps: 100000
//	bindings:
//	  tax_rate: 0.2
//
// Fields left out of the file are nil and leave the engine's current
// setting alone. An explicit empty list (modules: []) disables every
// standard module.
type FileConfig struct {
	Modules           []string       `yaml:"modules"             validate:"omitempty,dive,oneof=json math time"`
	MaxExecutionSteps *uint64        `yaml:"max_execution_steps"`
	Bindings          map[string]any `yaml:"bindings"            validate:"dive,keys,identifier,endkeys"`
}

// ParseConfig reads and validates a YAML engine configuration.
func ParseConfig(r io.Reader) (*FileConfig, error) {
	fc := &FileConfig{}
	if err := yaml.NewDecoder(r).Decode(fc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfigFile, err)
	}

	if err := validate.Struct(fc); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			var errMessages []string
			for _, fieldErr := range validationErrors {
				errMessages = append(errMessages, fmt.Sprintf(
					"field '%s' failed validation (rule: %s)",
					fieldErr.Namespace(),
					fieldErr.Tag(),
				))
			}
			return nil, fmt.Errorf("%w:\n  - %s", ErrInvalidConfigFile, strings.Join(errMessages, "\n  - "))
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfigFile, err)
	}
	return fc, nil
}

// LoadConfigFile reads a YAML engine configuration from disk.
func LoadConfigFile(path string) (*FileConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return ParseConfig(f)
}

// Options converts the settings present in the file into engine options.
func (fc *FileConfig) Options() []Option {
	var opts []Option
	if fc.Modules != nil {
		opts = append(opts, WithModules(fc.Modules...))
	}
	if fc.MaxExecutionSteps != nil {
		opts = append(opts, WithMaxExecutionSteps(*fc.MaxExecutionSteps))
	}
	if len(fc.Bindings) > 0 {
		opts = append(opts, WithBindings(fc.Bindings))
	}
	return opts
}

// WithConfigReader applies a YAML engine configuration read from r.
func WithConfigReader(r io.Reader) Option {
	return func(c *Config) error {
		fc, err := ParseConfig(r)
		if err != nil {
			return err
		}
		return c.apply(fc.Options())
	}
}

// WithConfigFile applies a YAML engine configuration read from path.
func WithConfigFile(path string) Option {
	return func(c *Config) error {
		fc, err := LoadConfigFile(path)
		if err != nil {
			return err
		}
		return c.apply(fc.Options())
	}
}

func (c *Config) apply(opts []Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}
