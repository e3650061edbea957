// Package export serializes search results to CSV and JSON.
package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/gwalsh/redsift/internal/domain"
)

// Format selects an export serialization.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat normalizes a user-supplied format string.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unknown export format %q (use csv or json)", s)
}

// Write serializes the result's posts to w in the given format.
func Write(w io.Writer, f Format, res domain.SearchResult) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, res.Posts)
	case FormatJSON:
		return WriteJSON(w, res.Posts)
	}
	return fmt.Errorf("unknown export format %q", f)
}

// ToFile writes the result to a timestamped file next to base, e.g.
// "results" becomes "results_20250601_120000.csv". Returns the path written.
func ToFile(base string, f Format, res domain.SearchResult, now time.Time) (string, error) {
	path := fmt.Sprintf("%s_%s.%s", base, now.Format("20060102_150405"), f)

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}
	defer file.Close()

	if err := Write(file, f, res); err != nil {
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("flush export file: %w", err)
	}
	return path, nil
}
