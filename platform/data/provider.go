// Package data supplies extension bindings to script executions. A
// provider is configured once on the engine; its data is merged into the
// extensions of every Execute call, below the extensions passed explicitly.
package data

import (
	"context"
)

// Getter retrieves extension bindings for the call carried by ctx.
type Getter interface {
	GetData(ctx context.Context) (map[string]any, error)
}

// Setter attaches extension bindings to a context ahead of execution, so
// the code preparing a call and the code executing it can be kept apart.
type Setter interface {
	// AddDataToContext returns a context carrying data. Later maps override
	// earlier ones for duplicate keys.
	AddDataToContext(ctx context.Context, data ...map[string]any) (context.Context, error)
}

// Provider is a Getter that can also be fed through a context.
type Provider interface {
	Getter
	Setter
}
