package jsondoc

import (
	"fmt"
	"os"
)

// Decode parses raw in the given format
func Decode(raw []byte, format Format) (any, error) {
	switch format {
	case FormatYAML:
		return ParseYAML(raw)
	case FormatJSON, "":
		return Parse(raw)
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

// ReadFile reads a document from disk. An empty override detects the format.
func ReadFile(path string, override Format) ([]byte, Format, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	format := override
	if format == "" {
		format = DetectFormat(path, raw)
	}
	return raw, format, nil
}

// Lookup returns the value at path p inside a parsed document
func Lookup(value any, p Path) (any, bool) {
	current := value
	for _, k := range p {
		switch v := current.(type) {
		case *Object:
			if k.IsIndex() {
				return nil, false
			}
			next, ok := v.Get(k.String())
			if !ok {
				return nil, false
			}
			current = next
		case []any:
			i := k.Ordinal()
			if i < 0 || i >= len(v) {
				return nil, false
			}
			current = v[i]
		default:
			return nil, false
		}
	}
	return current, true
}
