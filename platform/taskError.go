package platform

import (
	"fmt"
	"strings"
)

// TaskError is the only structured error the scripting core returns to its
// caller. It ties a failure to the task it happened in and, for script
// execution, to the offending line of the script.
type TaskError struct {
	// Task is the task being evaluated, nil for task-less validation.
	Task Task

	// Kind is one of ErrSyntax, ErrNameShadowing, ErrExpression or ErrExecution.
	Kind error

	// Class names the category of the originating failure, e.g. "KeyError".
	Class string

	// Detail is the human-readable description of the failure.
	Detail string

	// Err is the originating failure, if any.
	Err error

	// LineNumber is the 1-based script line that caused the failure.
	// Zero means unknown, not the first line.
	LineNumber int

	// SourceLine is the text of LineNumber, empty when unknown.
	SourceLine string
}

// NewTaskError creates a TaskError of the given kind.
func NewTaskError(task Task, kind error, detail string, err error) *TaskError {
	return &TaskError{
		Task:   task,
		Kind:   kind,
		Detail: detail,
		Err:    err,
	}
}

// WithClass sets the failure category.
func (e *TaskError) WithClass(class string) *TaskError {
	e.Class = class
	return e
}

// WithLocation records where in the script the failure happened.
func (e *TaskError) WithLocation(lineNumber int, sourceLine string) *TaskError {
	e.LineNumber = lineNumber
	e.SourceLine = sourceLine
	return e
}

// TaskID returns the ID of the failing task, or an empty string.
func (e *TaskError) TaskID() string {
	if e.Task == nil {
		return ""
	}
	return e.Task.GetID()
}

func (e *TaskError) Error() string {
	var b strings.Builder
	if id := e.TaskID(); id != "" {
		fmt.Fprintf(&b, "task %s: ", id)
	}
	if e.Kind != nil {
		b.WriteString(e.Kind.Error())
		if e.Detail != "" {
			b.WriteString(": ")
		}
	}
	b.WriteString(e.Detail)
	if e.LineNumber > 0 {
		fmt.Fprintf(&b, " (line %d: %q)", e.LineNumber, e.SourceLine)
	}
	return b.String()
}

// Unwrap exposes both the kind and the originating failure, so errors.Is
// matches the kind sentinel and errors.As reaches the cause.
func (e *TaskError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}
