package jsondoc

import (
	"encoding/json"
	"path/filepath"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Format identifies the syntax of a raw document
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat maps a user supplied name ("json", "yml", ...) to a Format
func ParseFormat(name string) (Format, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return FormatJSON, true
	case "yaml", "yml":
		return FormatYAML, true
	}
	return "", false
}

// DetectFormat picks the document format from the file extension, falling back to
// sniffing the content
func DetectFormat(name string, raw []byte) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".geojson", ".jsonc":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	}

	if IsJSON(string(raw)) {
		return FormatJSON
	}
	return FormatYAML
}

// IsJSON checks if a string value looks like JSON
func IsJSON(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}

	first := value[0]
	if first != '{' && first != '[' && first != '"' {
		// Could be null, true, false, or number
		if value == "null" || value == "true" || value == "false" {
			return true
		}
		var f float64
		return json.Unmarshal([]byte(value), &f) == nil
	}

	return json.Valid([]byte(value))
}

// Type returns the JSON type name of a parsed value (object, array, string, number, boolean, null)
func Type(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case *orderedmap.OrderedMap[string, any], map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case json.Number, float64, float32, int, int64, int32, uint, uint64, uint32:
		return "number"
	case bool:
		return "boolean"
	default:
		return "unknown"
	}
}
