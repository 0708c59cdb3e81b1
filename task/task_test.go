package task

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	a := New(nil)
	b := New(map[string]any{"k": "v"})

	_, err := uuid.Parse(a.GetID())
	require.NoError(t, err)
	assert.NotEqual(t, a.GetID(), b.GetID())

	require.NotNil(t, a.GetData())
	a.GetData()["x"] = 1
	assert.Equal(t, 1, a.GetData()["x"], "data is returned by reference")
	assert.Equal(t, "v", b.GetData()["k"])
}

func TestNewWithID(t *testing.T) {
	t.Parallel()

	tk := NewWithID("approve-invoice", nil)
	assert.Equal(t, "approve-invoice", tk.GetID())
	assert.Equal(t, "task.Task{ID: approve-invoice, Keys: 0}", tk.String())
}
