package operators

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/itchyny/gojq"
	"github.com/robbyt/go-taskscript/engines/starlark/attrmap"
	"github.com/robbyt/go-taskscript/platform"
)

// Attribute refers to a top-level key of the task data.
type Attribute struct {
	name string
}

// Attrib refers to the task data key name. A missing key resolves to nil.
func Attrib(name string) *Attribute {
	return &Attribute{name: name}
}

func (a *Attribute) Matches(_ context.Context, task platform.Task) (any, error) {
	if task == nil {
		return nil, nil
	}
	return attrmap.Unwrap(task.GetData()[a.name]), nil
}

func (a *Attribute) String() string {
	return fmt.Sprintf("Attrib(%s)", a.name)
}

// Path refers to a value nested in the task data, selected by a jq query.
type Path struct {
	path string
	code *gojq.Code
}

// PathAttrib compiles path into a reference to nested task data. path is
// either a jq query, such as ".order.lines[0].sku", or a slash separated
// list of keys, such as "order/customer/name".
//
// A query with no output resolves to nil, and one with several outputs
// resolves to all of them as a []any.
func PathAttrib(path string) (*Path, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: path", ErrEmptySource)
	}

	query, err := gojq.Parse(jqQuery(path))
	if err != nil {
		return nil, fmt.Errorf("%w: jq parse error in %q: %w", ErrCompile, path, err)
	}
	code, err := gojq.Compile(query,
		// $ENV and env see an empty environment
		gojq.WithEnvironLoader(func() []string { return nil }),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: jq compile error in %q: %w", ErrCompile, path, err)
	}
	return &Path{path: path, code: code}, nil
}

// jqQuery turns a slash separated key path into the equivalent jq query.
func jqQuery(path string) string {
	if strings.HasPrefix(path, ".") {
		return path
	}
	keys := strings.Split(strings.Trim(path, "/"), "/")
	var b strings.Builder
	for _, key := range keys {
		b.WriteString(".")
		b.WriteString(strconv.Quote(key))
	}
	return b.String()
}

func (p *Path) Matches(ctx context.Context, task platform.Task) (any, error) {
	iter := p.code.RunWithContext(ctx, jqValue(taskData(task)))

	var results []any
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := v.(error); isErr {
			return nil, fmt.Errorf("%w: jq evaluation failed for %q: %w", ErrEvaluation, p.path, err)
		}
		results = append(results, v)
	}

	switch len(results) {
	case 0:
		return nil, nil
	case 1:
		return results[0], nil
	default:
		return results, nil
	}
}

func (p *Path) String() string {
	return fmt.Sprintf("PathAttrib(%q)", p.path)
}

// jqValue converts plain Go data into the types gojq accepts.
func jqValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			out[k] = jqValue(elem)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = jqValue(elem)
		}
		return out
	case int8:
		return int(val)
	case int16:
		return int(val)
	case int32:
		return int(val)
	case int64:
		return int(val)
	case uint8:
		return int(val)
	case uint16:
		return int(val)
	case uint32:
		return int(val)
	case uint64:
		if val > math.MaxInt64 {
			return float64(val)
		}
		return int(val)
	case uint:
		return jqValue(uint64(val))
	case float32:
		return float64(val)
	case []string:
		out := make([]any, len(val))
		for i, s := range val {
			out[i] = s
		}
		return out
	case time.Time:
		return val.Format(time.RFC3339Nano)
	case time.Duration:
		return val.String()
	default:
		return v
	}
}
