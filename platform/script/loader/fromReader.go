package loader

import (
	"fmt"
	"io"
	"net/url"
)

// NewFromIoReader drains r and returns a loader for its content. The name
// becomes part of the source URL.
func NewFromIoReader(r io.Reader, name string) (*FromBytes, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: reader is nil", ErrScriptNotAvailable)
	}
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}

	l, err := NewFromBytes(content)
	if err != nil {
		return nil, err
	}
	if name != "" {
		l.sourceURL = &url.URL{Scheme: "reader", Host: name, Path: l.sourceURL.Path}
	}
	return l, nil
}
