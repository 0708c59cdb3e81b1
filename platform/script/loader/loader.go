// Package loader reads script source text from strings, byte slices,
// readers and files.
package loader

import (
	"errors"
	"io"
	"net/url"
)

// ErrScriptNotAvailable is returned when a loader has no usable content.
var ErrScriptNotAvailable = errors.New("script not available")

// Loader is an interface used by the engine to load scripts.
type Loader interface {
	GetReader() (io.ReadCloser, error)
	GetSourceURL() *url.URL
}
