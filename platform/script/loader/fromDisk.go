package loader

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
)

// FromDisk loads a script file. The file is read each time GetReader is
// called, so edits are picked up by the next Load.
type FromDisk struct {
	path      string
	sourceURL *url.URL
}

// NewFromDisk creates a loader for the script at path, which must be an
// absolute path to a regular file.
func NewFromDisk(path string) (*FromDisk, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: path is empty", ErrScriptNotAvailable)
	}
	if !filepath.IsAbs(path) {
		return nil, fmt.Errorf("%w: path must be absolute: %s", ErrScriptNotAvailable, path)
	}

	path = filepath.Clean(path)
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScriptNotAvailable, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: path is a directory: %s", ErrScriptNotAvailable, path)
	}

	return &FromDisk{
		path:      path,
		sourceURL: &url.URL{Scheme: "file", Path: path},
	}, nil
}

func (l *FromDisk) String() string {
	return fmt.Sprintf("loader.FromDisk{Path: %s}", l.path)
}

// GetReader opens the script file. The caller must close it.
func (l *FromDisk) GetReader() (io.ReadCloser, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open script file: %w", err)
	}
	return f, nil
}

// GetSourceURL returns the file URL of the script.
func (l *FromDisk) GetSourceURL() *url.URL {
	return l.sourceURL
}
