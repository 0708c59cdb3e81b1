// Package scope assembles the names visible to a running script or
// expression and guards task data against redefining predeclared names.
package scope

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/robbyt/go-taskscript/engines/starlark/attrmap"
	"go.starlark.net/starlark"
)

// Build returns a fresh scope holding the engine bindings, then the task
// data, then the extensions, each layer overriding the one before. Mapping
// values in data are wrapped into AttributeMaps at every depth. Neither the
// engine bindings nor data are modified. Extensions that are
// attrmap.GoFuncs become callable builtins.
func Build(engine starlark.StringDict, extensions, data map[string]any) starlark.StringDict {
	s := make(starlark.StringDict, len(engine)+len(data)+len(extensions))
	maps.Copy(s, engine)
	for k, v := range data {
		s[k] = attrmap.ToStarlark(v)
	}
	for k, v := range extensions {
		s[k] = attrmap.Bind(k, v)
	}
	return s
}

// CollisionError lists the task data keys that redefine an engine binding or
// an extension.
type CollisionError struct {
	Names []string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("rename the following variables or fields: %s", strings.Join(e.Names, ", "))
}

// CheckOverwrite fails with a *CollisionError when a key of data is also an
// engine binding or an extension name. Names are reported sorted.
func CheckOverwrite(engine starlark.StringDict, extensions, data map[string]any) error {
	var names []string
	for k := range data {
		_, inEngine := engine[k]
		_, inExtensions := extensions[k]
		if inEngine || inExtensions {
			names = append(names, k)
		}
	}
	if len(names) == 0 {
		return nil
	}
	slices.Sort(names)
	return &CollisionError{Names: names}
}
