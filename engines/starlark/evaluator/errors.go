package evaluator

import "errors"

var (
	ErrNilConfig         = errors.New("config is nil")
	ErrNilData           = errors.New("data map is nil")
	ErrNilUnit           = errors.New("script unit is nil")
	ErrNoExtensionSetter = errors.New("extension provider does not accept context data")
)
