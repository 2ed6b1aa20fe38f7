package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rebeliceyang/lazyjson/internal/models"
)

// Supported export formats
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// ExportToCSV exports matches to a CSV file
func ExportToCSV(matches []models.Match, path string) error {
	// Create the file
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := csv.NewWriter(file)

	// Write header
	if err := writer.Write([]string{"Path", "Type", "Value"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, m := range matches {
		if err := writer.Write([]string{m.Path, m.Type, m.Value}); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to write CSV file: %w", err)
	}
	return nil
}

// ExportToJSON exports matches to a JSON file
func ExportToJSON(matches []models.Match, path string) error {
	if matches == nil {
		matches = []models.Match{}
	}

	// Marshal to JSON with pretty printing
	data, err := json.MarshalIndent(matches, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal matches to JSON: %w", err)
	}

	// Write to file
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}

	return nil
}

// FileName builds an export file name from the source name
func FileName(source, format string, now time.Time) string {
	base := strings.TrimSuffix(source, filepath.Ext(source))
	if base == "" {
		base = "lazyjson"
	}
	return fmt.Sprintf("%s-matches-%s.%s", base, now.Format("20060102-150405"), format)
}

// Export writes matches into dir using format and returns the file path
func Export(matches []models.Match, dir, source, format string, now time.Time) (string, error) {
	format = strings.ToLower(format)
	if format == "" {
		format = FormatCSV
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}
	path := filepath.Join(dir, FileName(source, format, now))

	switch format {
	case FormatCSV:
		return path, ExportToCSV(matches, path)
	case FormatJSON:
		return path, ExportToJSON(matches, path)
	default:
		return "", fmt.Errorf("unsupported export format %q", format)
	}
}
