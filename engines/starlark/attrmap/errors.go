package attrmap

import (
	"errors"
	"fmt"
)

// ErrUnknownAttribute matches every *UnknownAttributeError via errors.Is.
var ErrUnknownAttribute = errors.New("unknown attribute")

// UnknownAttributeError is returned when a field that is not present in an
// AttributeMap is read or deleted.
type UnknownAttributeError struct {
	Name string
}

func (e *UnknownAttributeError) Error() string {
	return fmt.Sprintf("%s has no attribute %q", typeName, e.Name)
}

func (e *UnknownAttributeError) Is(target error) bool {
	return target == ErrUnknownAttribute
}
