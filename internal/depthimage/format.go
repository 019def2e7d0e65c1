// Package depthimage persists depth buffers to disk. PNG output is
// normalized and quantized to 16-bit grayscale (lossy); EXR output
// keeps the raw float values (exact). A WebP preview writer renders a
// human-readable inverted view.
package depthimage

import (
	"errors"
	"fmt"
)

// Format is an output image format. Matching is case-sensitive: the
// format is always explicit, never inferred from the output extension.
type Format string

const (
	FormatPNG Format = "PNG"
	FormatEXR Format = "EXR"
)

var (
	// ErrUnsupportedFormat is returned for format strings outside the
	// supported set. Validate before rendering: a bad format should
	// fail before the expensive render, not after.
	ErrUnsupportedFormat = errors.New("unsupported output format")

	// ErrWrite is returned when the output file cannot be written.
	ErrWrite = errors.New("write failed")
)

// ParseFormat validates a format string.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatPNG:
		return FormatPNG, nil
	case FormatEXR:
		return FormatEXR, nil
	}
	return "", fmt.Errorf("%w: %q (want PNG or EXR)", ErrUnsupportedFormat, s)
}

// writeErr wraps a filesystem or encoder failure so callers can match
// with errors.Is(err, ErrWrite).
func writeErr(path string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrWrite, path, err)
}
