// Package export renders generation results as CSV for download or saving.
package export

import (
	"os"
	"strings"

	"github.com/marcus/coldopen/internal/types"
)

// DefaultFileName is the suggested name for an exported result set.
const DefaultFileName = "openers.csv"

var header = []string{"Name", "URL", "Opener", "Source", "Error"}

// ToCSV renders results as CSV with a fixed header row, one row per result
// in stored order. Returns "" when there are no results so callers can treat
// the export as a no-op.
func ToCSV(results []types.GenerationResult) string {
	if len(results) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(strings.Join(header, ","))
	sb.WriteByte('\n')

	for _, r := range results {
		row := []string{
			escapeField(r.Name),
			escapeField(r.URL),
			escapeField(r.Opener),
			escapeField(string(r.ScrapeTier)),
			escapeField(r.Error),
		}
		sb.WriteString(strings.Join(row, ","))
		sb.WriteByte('\n')
	}

	return sb.String()
}

// escapeField applies standard CSV quoting: a field containing a comma,
// double quote, or line break is wrapped in double quotes with interior
// quotes doubled. Other fields pass through unchanged.
func escapeField(field string) string {
	if !strings.ContainsAny(field, ",\"\n\r") {
		return field
	}

	var result strings.Builder
	result.Grow(len(field) + 2)

	result.WriteByte('"')
	for _, r := range field {
		if r == '"' {
			result.WriteString(`""`)
		} else {
			result.WriteRune(r)
		}
	}
	result.WriteByte('"')

	return result.String()
}

// WriteFile writes the rendered CSV to path. Nothing is written when the
// result set is empty.
func WriteFile(path string, results []types.GenerationResult) error {
	csv := ToCSV(results)
	if csv == "" {
		return nil
	}
	return os.WriteFile(path, []byte(csv), 0644)
}
