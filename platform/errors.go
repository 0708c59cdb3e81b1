package platform

import "errors"

var (
	// ErrSyntax is returned when script or expression text does not parse.
	ErrSyntax = errors.New("syntax error")

	// ErrNameShadowing is returned before a script runs when task data
	// redefines a name already bound by the engine or by extensions.
	ErrNameShadowing = errors.New("task data overwrites a predefined name")

	// ErrExpression is returned for any failure while evaluating an expression.
	ErrExpression = errors.New("error evaluating expression")

	// ErrExecution is returned for any failure while executing a script.
	ErrExecution = errors.New("error executing script")
)
