package data

import (
	"context"
	"errors"
	"maps"
)

// ErrStaticProviderNoRuntimeUpdates is returned when data is added to a
// StaticProvider through a context.
var ErrStaticProviderNoRuntimeUpdates = errors.New("static provider does not accept runtime updates")

// StaticProvider returns the same bindings for every call, e.g. helper
// functions shared by all scripts of a workflow.
type StaticProvider struct {
	data map[string]any
}

// NewStaticProvider creates a provider for a fixed set of bindings.
func NewStaticProvider(data map[string]any) *StaticProvider {
	if data == nil {
		data = make(map[string]any)
	}
	return &StaticProvider{data: data}
}

// GetData returns a shallow copy of the static bindings.
func (p *StaticProvider) GetData(_ context.Context) (map[string]any, error) {
	return maps.Clone(p.data), nil
}

// AddDataToContext always fails; static bindings are fixed at creation.
func (p *StaticProvider) AddDataToContext(
	ctx context.Context,
	_ ...map[string]any,
) (context.Context, error) {
	return ctx, ErrStaticProviderNoRuntimeUpdates
}
