package data

import (
	"context"
	"errors"
	"fmt"
	"maps"
)

// CompositeProvider combines multiple providers, with later providers
// overriding values from earlier ones in the chain.
type CompositeProvider struct {
	providers []Provider
}

// NewCompositeProvider creates a provider that queries given providers in order.
func NewCompositeProvider(providers ...Provider) *CompositeProvider {
	return &CompositeProvider{
		providers: providers,
	}
}

// GetData retrieves data from all providers and deep merges it. Returns
// the first provider error.
func (p *CompositeProvider) GetData(ctx context.Context) (map[string]any, error) {
	result := make(map[string]any)

	for i, provider := range p.providers {
		if provider == nil {
			continue
		}

		data, err := provider.GetData(ctx)
		if err != nil {
			return nil, fmt.Errorf("error from provider %d: %w", i, err)
		}

		result = deepMerge(result, data)
	}

	return result, nil
}

// deepMerge recursively merges map[string]any maps. Values from dst override those from src.
// Arrays and other data types are replaced entirely, not merged.
func deepMerge(src, dst map[string]any) map[string]any {
	result := maps.Clone(src)

	for k, dstVal := range dst {
		srcVal, exists := result[k]
		if !exists {
			result[k] = dstVal
			continue
		}

		srcMap, srcIsMap := srcVal.(map[string]any)
		dstMap, dstIsMap := dstVal.(map[string]any)
		if srcIsMap && dstIsMap {
			result[k] = deepMerge(srcMap, dstMap)
		} else {
			result[k] = dstVal
		}
	}

	return result
}

// AddDataToContext passes data to every provider in the chain. Static
// providers are skipped. It fails only when every other provider failed.
func (p *CompositeProvider) AddDataToContext(
	ctx context.Context,
	data ...map[string]any,
) (context.Context, error) {
	finalCtx := ctx
	var errs []error
	attempted := 0

	for i, provider := range p.providers {
		if provider == nil {
			continue
		}
		if _, isStatic := provider.(*StaticProvider); isStatic {
			continue
		}
		attempted++

		nextCtx, err := provider.AddDataToContext(finalCtx, data...)
		if err != nil {
			errs = append(errs, fmt.Errorf("error from provider %d: %w", i, err))
			continue
		}
		finalCtx = nextCtx
	}

	if attempted == 0 {
		return ctx, ErrStaticProviderNoRuntimeUpdates
	}
	if len(errs) == attempted {
		return ctx, errors.Join(errs...)
	}
	return finalCtx, nil
}
