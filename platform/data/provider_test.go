package data

import (
	"context"
	"errors"
	"testing"

	"github.com/robbyt/go-taskscript/platform/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	simpleData = map[string]any{
		"string": "value",
		"int":    42,
	}

	nestedData = map[string]any{
		"config": map[string]any{
			"region": "eu",
			"limits": map[string]any{"max": 10},
		},
	}
)

// MockProvider is a testify mock implementation of Provider
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) GetData(ctx context.Context) (map[string]any, error) {
	args := m.Called(ctx)
	data, _ := args.Get(0).(map[string]any)
	return data, args.Error(1)
}

func (m *MockProvider) AddDataToContext(ctx context.Context, data ...map[string]any) (context.Context, error) {
	args := m.Called(ctx, data)
	newCtx, _ := args.Get(0).(context.Context)
	return newCtx, args.Error(1)
}

func TestStaticProvider(t *testing.T) {
	t.Parallel()

	t.Run("nil data creates empty map", func(t *testing.T) {
		t.Parallel()
		result, err := NewStaticProvider(nil).GetData(t.Context())
		require.NoError(t, err)
		assert.Empty(t, result)
	})

	t.Run("returned map is a copy", func(t *testing.T) {
		t.Parallel()
		provider := NewStaticProvider(map[string]any{"a": 1})
		result, err := provider.GetData(t.Context())
		require.NoError(t, err)
		result["b"] = 2

		again, err := provider.GetData(t.Context())
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"a": 1}, again)
	})

	t.Run("rejects runtime updates", func(t *testing.T) {
		t.Parallel()
		ctx := t.Context()
		newCtx, err := NewStaticProvider(simpleData).AddDataToContext(ctx, map[string]any{"x": 1})
		require.ErrorIs(t, err, ErrStaticProviderNoRuntimeUpdates)
		assert.Equal(t, ctx, newCtx)
	})
}

func TestContextProvider(t *testing.T) {
	t.Parallel()

	t.Run("empty context key", func(t *testing.T) {
		t.Parallel()
		provider := NewContextProvider("")
		_, err := provider.GetData(t.Context())
		require.Error(t, err)
		_, err = provider.AddDataToContext(t.Context(), simpleData)
		require.Error(t, err)
	})

	t.Run("nothing stored", func(t *testing.T) {
		t.Parallel()
		result, err := NewContextProvider(constants.Extensions).GetData(t.Context())
		require.NoError(t, err)
		assert.Empty(t, result)
	})

	t.Run("wrong type stored", func(t *testing.T) {
		t.Parallel()
		ctx := context.WithValue(t.Context(), constants.Extensions, "oops")
		_, err := NewContextProvider(constants.Extensions).GetData(ctx)
		require.Error(t, err)
	})

	t.Run("round trip and merge", func(t *testing.T) {
		t.Parallel()
		provider := NewContextProvider(constants.Extensions)
		helper := func() string { return "hi" }

		ctx, err := provider.AddDataToContext(t.Context(), nestedData, map[string]any{"helper": helper})
		require.NoError(t, err)
		ctx, err = provider.AddDataToContext(ctx, map[string]any{
			"config": map[string]any{"limits": map[string]any{"min": 1}},
		})
		require.NoError(t, err)

		result, err := provider.GetData(ctx)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{
			"region": "eu",
			"limits": map[string]any{"max": 10, "min": 1},
		}, result["config"])
		require.IsType(t, helper, result["helper"])
		assert.Equal(t, "hi", result["helper"].(func() string)())
	})

	t.Run("empty keys rejected", func(t *testing.T) {
		t.Parallel()
		provider := NewContextProvider(constants.Extensions)
		ctx, err := provider.AddDataToContext(t.Context(), map[string]any{"": 1, "ok": 2})
		require.Error(t, err)

		result, getErr := provider.GetData(ctx)
		require.NoError(t, getErr)
		assert.Equal(t, map[string]any{"ok": 2}, result)
	})
}

func TestCompositeProvider(t *testing.T) {
	t.Parallel()

	t.Run("later providers override", func(t *testing.T) {
		t.Parallel()
		composite := NewCompositeProvider(
			NewStaticProvider(nestedData),
			NewStaticProvider(map[string]any{
				"config": map[string]any{"region": "us"},
				"int":    1,
			}),
			nil,
		)
		result, err := composite.GetData(t.Context())
		require.NoError(t, err)
		assert.Equal(t, map[string]any{
			"config": map[string]any{
				"region": "us",
				"limits": map[string]any{"max": 10},
			},
			"int": 1,
		}, result)
	})

	t.Run("provider error", func(t *testing.T) {
		t.Parallel()
		failing := new(MockProvider)
		failing.On("GetData", mock.Anything).Return(nil, errors.New("boom"))

		_, err := NewCompositeProvider(NewStaticProvider(simpleData), failing).GetData(t.Context())
		require.ErrorContains(t, err, "error from provider 1: boom")
		failing.AssertExpectations(t)
	})

	t.Run("context updates reach context providers", func(t *testing.T) {
		t.Parallel()
		ctxProvider := NewContextProvider(constants.Extensions)
		composite := NewCompositeProvider(NewStaticProvider(simpleData), ctxProvider)

		ctx, err := composite.AddDataToContext(t.Context(), map[string]any{"extra": true})
		require.NoError(t, err)

		result, err := composite.GetData(ctx)
		require.NoError(t, err)
		assert.Equal(t, "value", result["string"])
		assert.Equal(t, true, result["extra"])
	})

	t.Run("only static providers", func(t *testing.T) {
		t.Parallel()
		composite := NewCompositeProvider(NewStaticProvider(simpleData))
		_, err := composite.AddDataToContext(t.Context(), simpleData)
		require.ErrorIs(t, err, ErrStaticProviderNoRuntimeUpdates)
	})

	t.Run("all context providers fail", func(t *testing.T) {
		t.Parallel()
		failing := new(MockProvider)
		failing.On("AddDataToContext", mock.Anything, mock.Anything).Return(nil, errors.New("nope"))

		_, err := NewCompositeProvider(failing).AddDataToContext(t.Context(), simpleData)
		require.ErrorContains(t, err, "nope")
		failing.AssertExpectations(t)
	})
}
