// Package task provides a minimal platform.Task for hosts that do not bring
// their own task type, and for tests.
package task

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/robbyt/go-taskscript/platform"
)

var _ platform.Task = (*Task)(nil)

// Task is a unit of work identified by a UUID, carrying mutable data.
type Task struct {
	id   string
	data map[string]any
}

// New creates a Task with a random UUID. A nil data map is replaced with an
// empty one so scripts can always write to it.
func New(data map[string]any) *Task {
	return NewWithID(uuid.NewString(), data)
}

// NewWithID creates a Task with a caller-chosen ID.
func NewWithID(id string, data map[string]any) *Task {
	if data == nil {
		data = make(map[string]any)
	}
	return &Task{id: id, data: data}
}

func (t *Task) GetID() string { return t.id }

// GetData returns the task's data map itself, not a copy.
func (t *Task) GetData() map[string]any { return t.data }

func (t *Task) String() string {
	return fmt.Sprintf("task.Task{ID: %s, Keys: %d}", t.id, len(t.data))
}
