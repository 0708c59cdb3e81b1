package loader

import (
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"strings"
)

// InferLoader picks a loader for input:
//   - string: a file:// URL or a path containing a separator loads from
//     disk; anything else is inline script text, base64 decoded when valid
//   - []byte: FromBytes
//   - io.Reader: drained into FromBytes
//   - Loader: returned as-is
func InferLoader(input any) (Loader, error) {
	switch v := input.(type) {
	case Loader:
		return v, nil
	case string:
		return inferFromString(v)
	case []byte:
		return NewFromBytes(v)
	case io.Reader:
		return NewFromIoReader(v, "inferred")
	default:
		return nil, fmt.Errorf("unsupported input type: %T", input)
	}
}

func inferFromString(input string) (Loader, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("%w: empty string input", ErrScriptNotAvailable)
	}

	if parsed, err := url.Parse(input); err == nil && parsed.Scheme == "file" {
		return diskLoader(parsed.Path)
	}

	// inline scripts have spaces, newlines or operators; bare paths do not
	if !strings.ContainsAny(input, " \n=(") &&
		(filepath.IsAbs(input) || strings.ContainsAny(input, `/\`)) {
		return diskLoader(input)
	}

	return NewFromStringBase64(input)
}

func diskLoader(path string) (Loader, error) {
	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve relative path %q: %w", path, err)
		}
		path = absPath
	}
	return NewFromDisk(path)
}
