package loader

import (
	"encoding/base64"
	"fmt"
	"io"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/robbyt/go-taskscript/internal/helpers"
)

// FromString loads a script held in memory as a string.
type FromString struct {
	content   string
	sourceURL *url.URL
}

// NewFromString creates a loader for inline script text. Surrounding
// whitespace is dropped and the rest must be non-empty.
func NewFromString(content string) (*FromString, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: content is empty", ErrScriptNotAvailable)
	}

	u, err := url.Parse("string://inline/" + helpers.ShortID(content))
	if err != nil {
		return nil, fmt.Errorf("failed to create source URL: %w", err)
	}

	return &FromString{
		content:   content,
		sourceURL: u,
	}, nil
}

// NewFromStringBase64 decodes content as base64 when it decodes to UTF-8
// text, and otherwise uses it as plain script text.
func NewFromStringBase64(content string) (Loader, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: content is empty", ErrScriptNotAvailable)
	}

	if decoded, err := base64.StdEncoding.DecodeString(content); err == nil && utf8.Valid(decoded) {
		if l, err := NewFromBytes(decoded); err == nil {
			return l, nil
		}
	}
	return NewFromString(content)
}

func (l *FromString) String() string {
	return fmt.Sprintf("loader.FromString{Chars: %d}", len(l.content))
}

func (l *FromString) GetReader() (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(l.content)), nil
}

// GetSourceURL returns the source URL of the script.
func (l *FromString) GetSourceURL() *url.URL {
	return l.sourceURL
}
