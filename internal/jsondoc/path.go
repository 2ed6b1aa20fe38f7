package jsondoc

import (
	"strconv"
	"strings"
)

// Key identifies a child inside its container: an object field name or an array index
type Key struct {
	name    string
	index   int
	isIndex bool
}

// Field returns the key of an object member
func Field(name string) Key {
	return Key{name: name}
}

// Index returns the key of an array element
func Index(i int) Key {
	return Key{index: i, isIndex: true}
}

// IsIndex reports whether the key is an array index
func (k Key) IsIndex() bool {
	return k.isIndex
}

// Ordinal returns the array index, or -1 for field keys
func (k Key) Ordinal() int {
	if !k.isIndex {
		return -1
	}
	return k.index
}

// String returns the field name or the decimal index.
// This is the fragment compared against path segments during search.
func (k Key) String() string {
	if k.isIndex {
		return strconv.Itoa(k.index)
	}
	return k.name
}

// Path represents a location inside a document (e.g., $.user.addresses[0].city)
type Path []Key

// String returns the JSONPath-like notation
func (p Path) String() string {
	if len(p) == 0 {
		return "$"
	}

	var b strings.Builder
	b.WriteString("$")
	for _, k := range p {
		switch {
		case k.IsIndex():
			b.WriteString("[" + k.String() + "]")
		case isPlainIdentifier(k.name):
			b.WriteString("." + k.name)
		default:
			b.WriteString("[" + strconv.Quote(k.name) + "]")
		}
	}
	return b.String()
}

// Dotted returns the path in the dot-separated form accepted by path search
func (p Path) Dotted() string {
	parts := make([]string, len(p))
	for i, k := range p {
		parts[i] = k.String()
	}
	return strings.Join(parts, ".")
}

// Append returns a new path with k added at the end
func (p Path) Append(k Key) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, k)
}

func isPlainIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
