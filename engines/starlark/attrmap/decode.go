package attrmap

import (
	"fmt"
	"reflect"
	"time"

	"github.com/creasty/defaults"
	"github.com/mitchellh/mapstructure"
)

// Decode copies the contents of m into out, which must be a pointer to a
// struct or map. Struct fields are matched by their json tag, and fields
// with no matching key take the value of their default tag. Durations and
// RFC 3339 timestamps may be given as strings.
func (m *AttributeMap) Decode(out any) error {
	if rv := reflect.ValueOf(out); rv.Kind() == reflect.Pointer && rv.Elem().Kind() == reflect.Struct {
		if err := defaults.Set(out); err != nil {
			return fmt.Errorf("failed to apply default values: %w", err)
		}
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToTimeHookFunc(time.RFC3339),
		),
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := decoder.Decode(m.ToMap()); err != nil {
		return fmt.Errorf("failed to decode %s: %w", typeName, err)
	}
	return nil
}
