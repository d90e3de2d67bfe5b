package static

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedFormat is returned for a format value that has no renderer.
var ErrUnsupportedFormat = errors.New("static: unsupported autoindex format")

// Format selects the autoindex output representation.
type Format string

const (
	FormatHTML Format = "html"
	FormatXML  Format = "xml"
	FormatJSON Format = "json"
	// FormatJSONP is recognized for configuration compatibility but has no
	// renderer; Validate rejects it.
	FormatJSONP Format = "jsonp"
)

// ParseFormat parses a case-insensitive format name. Only renderable formats
// are accepted.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if err := f.Validate(); err != nil {
		return "", err
	}
	return f, nil
}

// Validate reports whether the format has a renderer.
func (f Format) Validate() error {
	switch f {
	case FormatHTML, FormatXML, FormatJSON:
		return nil
	case FormatJSONP:
		return fmt.Errorf("%w: %q is declared but not implemented", ErrUnsupportedFormat, f)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
}

// UnmarshalText lets Format be used directly in env-tagged config structs.
func (f *Format) UnmarshalText(text []byte) error {
	parsed, err := ParseFormat(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

func (f Format) String() string { return string(f) }
