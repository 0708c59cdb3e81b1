package evaluator

import (
	"errors"
	"strings"

	"github.com/robbyt/go-taskscript/engines/starlark/attrmap"
	"github.com/robbyt/go-taskscript/platform"
	"go.starlark.net/resolve"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// classify names the category of a failure and extracts its message.
func classify(err error) (class, msg string) {
	var (
		unknown     *attrmap.UnknownAttributeError
		syntaxErr   syntax.Error
		resolveErrs resolve.ErrorList
		evalErr     *starlark.EvalError
	)
	switch {
	case errors.As(err, &unknown):
		return "UnknownAttributeError", unknown.Error()
	case errors.As(err, &syntaxErr):
		return "SyntaxError", syntaxErr.Msg
	case errors.As(err, &resolveErrs) && len(resolveErrs) > 0:
		msgs := make([]string, len(resolveErrs))
		for i, re := range resolveErrs {
			msgs[i] = re.Msg
		}
		return "NameError", strings.Join(msgs, "; ")
	case errors.As(err, &evalErr):
		return runtimeClass(evalErr.Msg), evalErr.Msg
	default:
		return "Error", err.Error()
	}
}

// runtimeClasses maps fragments of interpreter failure messages to a class.
// The first matching fragment wins.
var runtimeClasses = []struct {
	fragment string
	class    string
}{
	{"division by zero", "ZeroDivisionError"},
	{"modulo by zero", "ZeroDivisionError"},
	{"out of range", "IndexError"},
	{"field or method", "AttributeError"},
	{"unknown binary op", "TypeError"},
	{"unknown unary op", "TypeError"},
	{"unhashable type", "TypeError"},
	{"invalid call of non-function", "TypeError"},
	{"invalid literal", "ValueError"},
}

// runtimeClass names a failure raised while the script ran. Messages that
// match no known fragment are reported as EvalError.
func runtimeClass(msg string) string {
	if strings.HasPrefix(msg, "key ") && strings.Contains(msg, " not in ") {
		return "KeyError"
	}
	for _, rc := range runtimeClasses {
		if strings.Contains(msg, rc.fragment) {
			return rc.class
		}
	}
	return "EvalError"
}

// locate finds the line of source, compiled under unit, that raised err.
// For runtime failures it is the innermost call frame in unit, so a failure
// inside a function defined by the script points into the function body.
// A zero line means the location is unknown.
func locate(err error, unit, source string) (int, string) {
	var (
		evalErr     *starlark.EvalError
		syntaxErr   syntax.Error
		resolveErrs resolve.ErrorList
		line        int
	)
	switch {
	case errors.As(err, &evalErr):
		for _, frame := range evalErr.CallStack {
			if frame.Pos.Filename() == unit {
				line = int(frame.Pos.Line)
			}
		}
	case errors.As(err, &syntaxErr):
		if syntaxErr.Pos.Filename() == unit {
			line = int(syntaxErr.Pos.Line)
		}
	case errors.As(err, &resolveErrs) && len(resolveErrs) > 0:
		if resolveErrs[0].Pos.Filename() == unit {
			line = int(resolveErrs[0].Pos.Line)
		}
	}
	return line, sourceLine(source, line)
}

func sourceLine(source string, line int) string {
	if line <= 0 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if line > len(lines) {
		return ""
	}
	return strings.TrimSuffix(lines[line-1], "\r")
}

// taskError converts a failure into a *platform.TaskError of the given kind,
// with its class and location filled in. A failure that already carries a
// *platform.TaskError is returned as that error, unchanged.
func taskError(task platform.Task, kind error, err error, unit, source string) *platform.TaskError {
	var existing *platform.TaskError
	if errors.As(err, &existing) {
		return existing
	}
	class, msg := classify(err)
	line, text := locate(err, unit, source)
	return platform.NewTaskError(task, kind, class+": "+msg, err).
		WithClass(class).
		WithLocation(line, text)
}
