package output

import "strings"

// OutputFormat specifies how listings are rendered.
type OutputFormat string

const (
	// FormatText outputs indented human-readable text.
	FormatText OutputFormat = "text"

	// FormatTable outputs a bordered table.
	FormatTable OutputFormat = "table"

	// FormatYAML outputs in YAML format.
	FormatYAML OutputFormat = "yaml"

	// FormatJSON outputs in JSON format.
	FormatJSON OutputFormat = "json"
)

// String returns the string representation of the output format.
func (f OutputFormat) String() string {
	return string(f)
}

// IsValid checks if the output format is valid.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatTable, FormatYAML, FormatJSON:
		return true
	default:
		return false
	}
}

// ParseOutputFormat parses a string into an OutputFormat.
// Unknown values are returned as-is so callers can reject them with IsValid.
func ParseOutputFormat(s string) OutputFormat {
	switch strings.ToLower(s) {
	case "", "text":
		return FormatText
	case "yaml", "yml":
		return FormatYAML
	default:
		return OutputFormat(strings.ToLower(s))
	}
}

// ValidFormats returns a slice of valid output format strings.
func ValidFormats() []string {
	return []string{"text", "table", "yaml", "json"}
}
