package evaluator

import (
	"github.com/robbyt/go-taskscript/platform/constants"
	starlarkJSON "go.starlark.net/lib/json"
	starlarkMath "go.starlark.net/lib/math"
	starlarkTime "go.starlark.net/lib/time"
	"go.starlark.net/starlark"
)

// libraryModules maps module names to the Starlark library modules the
// engine can predeclare.
var libraryModules = map[string]starlark.Value{
	constants.JSONModule: starlarkJSON.Module,
	constants.MathModule: starlarkMath.Module,
	constants.TimeModule: starlarkTime.Module,
}

// standardModules returns a fresh dict holding the named library modules.
// The Starlark universe (len, str, ...) is not included; it is always in
// scope and task data may shadow it.
func standardModules(names []string) starlark.StringDict {
	modules := make(starlark.StringDict, len(names)+1)
	for _, name := range names {
		if m, ok := libraryModules[name]; ok {
			modules[name] = m
		}
	}
	return modules
}
