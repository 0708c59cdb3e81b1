package platform

import "context"

// Task is the unit of work a script or expression runs against. The data
// map is owned by the workflow engine; evaluation only reads it, while
// script execution reads and overwrites it in place.
type Task interface {
	// GetID identifies the task in logs and errors.
	GetID() string

	// GetData returns the task's mutable data map.
	GetData() map[string]any
}

// Operator is a pre-built, non-textual matcher that can stand in for an
// expression. Evaluating an Operator bypasses the script language entirely.
type Operator interface {
	Matches(ctx context.Context, task Task) (any, error)
}
