package jsondoc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// FormatValue formats a parsed value as a pretty-printed JSON string.
// Ordered objects keep their document order.
func FormatValue(value any) (string, error) {
	if value == nil {
		return "null", nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(value); err != nil {
		return "", fmt.Errorf("failed to format: %w", err)
	}

	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// Compact formats a parsed value as compact (single-line) JSON
func Compact(value any) (string, error) {
	if value == nil {
		return "null", nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(value); err != nil {
		return "", fmt.Errorf("failed to compact: %w", err)
	}

	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// Reformat pretty-prints raw JSON text, returning the input unchanged when it is not JSON
func Reformat(raw string) string {
	if !IsJSON(raw) {
		return raw
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(strings.TrimSpace(raw)), "", "  "); err != nil {
		return raw
	}
	return buf.String()
}

// Truncate truncates a JSON string for single-line display
func Truncate(jsonStr string, maxLen int) string {
	if len(jsonStr) <= maxLen {
		return jsonStr
	}
	if maxLen <= 3 {
		return jsonStr[:maxLen]
	}

	// Try to truncate at a reasonable boundary
	truncated := jsonStr[:maxLen-3]

	// Find last space, comma, or bracket
	lastGood := strings.LastIndexAny(truncated, " ,{}[]")
	if lastGood > maxLen/2 {
		truncated = truncated[:lastGood]
	}

	return truncated + "..."
}
