// Description: This file contains constants used for accessing values from context objects.
package constants

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// Extensions is the context key under which a ContextProvider stores
	// per-call extension bindings.
	Extensions ContextKey = "script_extensions" // load with ctx.Value()
)
