package formatters

import (
	"strings"

	"github.com/LegacyCodeHQ/ctxmap/bundler"
)

// FormatOptions contains optional parameters for formatting compilations.
type FormatOptions struct {
	// Label is an optional title or label for the graph
	Label string
}

// Formatter is the interface that all graph formatters must implement.
type Formatter interface {
	// Format converts a compilation to a formatted string representation.
	Format(comp *bundler.Compilation, opts FormatOptions) (string, error)
}

// OutputFormat represents an output format type
type OutputFormat string

const (
	OutputFormatDOT  OutputFormat = "dot"
	OutputFormatJSON OutputFormat = "json"
)

// String returns the string representation of the format
func (f OutputFormat) String() string {
	return string(f)
}

var outputFormats = []OutputFormat{OutputFormatDOT, OutputFormatJSON}

// ParseOutputFormat maps a flag value to a known format.
func ParseOutputFormat(value string) (OutputFormat, bool) {
	for _, f := range outputFormats {
		if strings.EqualFold(value, f.String()) {
			return f, true
		}
	}
	return "", false
}

// SupportedFormats lists the accepted format names for help and error text.
func SupportedFormats() string {
	names := make([]string, 0, len(outputFormats))
	for _, f := range outputFormats {
		names = append(names, f.String())
	}
	return strings.Join(names, ", ")
}
