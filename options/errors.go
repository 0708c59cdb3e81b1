package options

import "errors"

var (
	ErrUnknownModule      = errors.New("unknown standard module")
	ErrInvalidBindingName = errors.New("binding name is not a valid identifier")
	ErrInvalidConfigFile  = errors.New("invalid config file")
)
