// Package script holds script source that has been loaded and checked once
// so it can be executed many times.
package script

import (
	"fmt"
	"io"
	"net/url"

	"github.com/robbyt/go-taskscript/internal/helpers"
	"github.com/robbyt/go-taskscript/platform/script/loader"
)

// Unit is script source read from a Loader.
type Unit struct {
	// ID is a short content hash, used to correlate log records.
	ID string

	// Source is the script text.
	Source string

	// SourceURL records where the script was loaded from.
	SourceURL *url.URL
}

// NewUnit reads the full content of l.
func NewUnit(l loader.Loader) (*Unit, error) {
	if l == nil {
		return nil, fmt.Errorf("%w: loader is nil", loader.ErrScriptNotAvailable)
	}

	reader, err := l.GetReader()
	if err != nil {
		return nil, fmt.Errorf("failed to get reader from loader: %w", err)
	}
	if reader == nil {
		return nil, fmt.Errorf("%w: loader returned a nil reader", loader.ErrScriptNotAvailable)
	}
	defer func() { _ = reader.Close() }()

	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}

	source := string(content)
	return &Unit{
		ID:        helpers.ShortID(source),
		Source:    source,
		SourceURL: l.GetSourceURL(),
	}, nil
}

func (u *Unit) String() string {
	return fmt.Sprintf("script.Unit{ID: %s, SourceURL: %s}", u.ID, u.SourceURL)
}
