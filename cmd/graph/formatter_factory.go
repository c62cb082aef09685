package graph

import (
	"fmt"

	"github.com/LegacyCodeHQ/ctxmap/cmd/graph/formatters"
	"github.com/LegacyCodeHQ/ctxmap/cmd/graph/formatters/dot"
)

// NewFormatter creates a Formatter for the specified format type.
func NewFormatter(format string) (formatters.Formatter, error) {
	f, ok := formatters.ParseOutputFormat(format)
	if !ok {
		return nil, fmt.Errorf("unknown format: %s (valid options: %s)", format, formatters.SupportedFormats())
	}

	switch f {
	case formatters.OutputFormatDOT:
		return &dot.Formatter{}, nil
	case formatters.OutputFormatJSON:
		return &formatters.JSONFormatter{}, nil
	default:
		return nil, fmt.Errorf("unknown format: %s (valid options: %s)", format, formatters.SupportedFormats())
	}
}
