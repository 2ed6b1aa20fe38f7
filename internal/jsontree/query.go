package jsontree

import "strings"

// QueryMode selects how a query is run
type QueryMode int

const (
	// QueryClear clears the previous search
	QueryClear QueryMode = iota
	// QueryValue matches leaf values anywhere in the document
	QueryValue
	// QueryPath matches leaf values under a dotted key path
	QueryPath
)

// Query is a parsed search string.
//
//	""           clear
//	"=term"      value equals term
//	"term"       value contains term, ignoring case
//	"a.*=term"   value under path contains term, ignoring case
//	"a.*==term"  value under path equals term
type Query struct {
	Mode   QueryMode
	Term   string
	Path   []string
	Strict bool
}

// ParseQuery parses the search syntax. Non-strict terms are lower-cased; the
// term keeps any '=' after the separator.
func ParseQuery(q string) Query {
	switch {
	case q == "":
		return Query{Mode: QueryClear}
	case strings.HasPrefix(q, "="):
		return Query{Mode: QueryValue, Term: q[1:], Strict: true}
	case !strings.Contains(q, "="):
		return Query{Mode: QueryValue, Term: strings.ToLower(q)}
	}

	strict := strings.Contains(q, "==")
	sep := "="
	if strict {
		sep = "=="
	}
	parts := strings.SplitN(q, sep, 2)
	term := parts[1]
	if !strict {
		term = strings.ToLower(term)
	}
	return Query{
		Mode:   QueryPath,
		Term:   term,
		Path:   strings.Split(parts[0], "."),
		Strict: strict,
	}
}
