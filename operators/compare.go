package operators

import (
	"context"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/robbyt/go-taskscript/platform"
)

// Comparison matches when its operands satisfy a relation. Operands that are
// operators are resolved against the task first; everything else is used as
// a literal.
type Comparison struct {
	name     string
	operands []any
	test     func(values []any) (bool, error)
}

func (c *Comparison) Matches(ctx context.Context, task platform.Task) (any, error) {
	values, err := resolveAll(ctx, task, c.operands)
	if err != nil {
		return nil, err
	}
	return c.test(values)
}

func (c *Comparison) String() string {
	return describe(c.name, c.operands)
}

// Equal matches when every operand equals the first.
func Equal(left, right any, more ...any) *Comparison {
	return &Comparison{
		name:     "Equal",
		operands: append([]any{left, right}, more...),
		test: func(values []any) (bool, error) {
			for _, v := range values[1:] {
				if !equal(values[0], v) {
					return false, nil
				}
			}
			return true, nil
		},
	}
}

// NotEqual matches when at least one operand differs from the first.
func NotEqual(left, right any, more ...any) *Comparison {
	return &Comparison{
		name:     "NotEqual",
		operands: append([]any{left, right}, more...),
		test: func(values []any) (bool, error) {
			for _, v := range values[1:] {
				if !equal(values[0], v) {
					return true, nil
				}
			}
			return false, nil
		},
	}
}

// GreaterThan matches when left is ordered after right.
func GreaterThan(left, right any) *Comparison {
	return ordered("GreaterThan", left, right, func(c int) bool { return c > 0 })
}

// LessThan matches when left is ordered before right.
func LessThan(left, right any) *Comparison {
	return ordered("LessThan", left, right, func(c int) bool { return c < 0 })
}

func ordered(name string, left, right any, want func(int) bool) *Comparison {
	return &Comparison{
		name:     name,
		operands: []any{left, right},
		test: func(values []any) (bool, error) {
			c, err := compare(values[0], values[1])
			if err != nil {
				return false, err
			}
			return want(c), nil
		},
	}
}

// Pattern matches when every operand is a string containing a match of a
// regular expression.
type Pattern struct {
	re       *regexp.Regexp
	operands []any
}

// Match compiles pattern and returns an operator that searches each operand
// for it.
func Match(pattern string, operands ...any) (*Pattern, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCompile, err)
	}
	return &Pattern{re: re, operands: operands}, nil
}

func (p *Pattern) Matches(ctx context.Context, task platform.Task) (any, error) {
	values, err := resolveAll(ctx, task, p.operands)
	if err != nil {
		return nil, err
	}
	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %T", ErrNotString, v)
		}
		if !p.re.MatchString(s) {
			return false, nil
		}
	}
	return true, nil
}

func (p *Pattern) String() string {
	return describe("Match", append([]any{p.re.String()}, p.operands...))
}

func equal(a, b any) bool {
	if x, ok := number(a); ok {
		if y, ok := number(b); ok {
			return x.Cmp(y) == 0
		}
		return false
	}
	if x, ok := a.(time.Time); ok {
		y, ok := b.(time.Time)
		return ok && x.Equal(y)
	}
	return reflect.DeepEqual(a, b)
}

// compare orders numbers numerically, strings lexically and times
// chronologically. Other combinations are an ErrIncomparable.
func compare(a, b any) (int, error) {
	if x, ok := number(a); ok {
		if y, ok := number(b); ok {
			return x.Cmp(y), nil
		}
	}
	switch x := a.(type) {
	case string:
		if y, ok := b.(string); ok {
			return strings.Compare(x, y), nil
		}
	case time.Time:
		if y, ok := b.(time.Time); ok {
			return x.Compare(y), nil
		}
	}
	return 0, fmt.Errorf("%w: %T and %T", ErrIncomparable, a, b)
}

// number converts any Go integer or float, including *big.Int, to a
// big.Float. NaN is not a number here.
func number(v any) (*big.Float, bool) {
	if i, ok := v.(*big.Int); ok {
		if i == nil {
			return nil, false
		}
		return new(big.Float).SetInt(i), true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return new(big.Float).SetInt64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return new(big.Float).SetUint64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) {
			return nil, false
		}
		return new(big.Float).SetFloat64(f), true
	}
	return nil, false
}
