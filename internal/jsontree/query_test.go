package jsontree

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseQuery(t *testing.T) {
	tests := []struct {
		in   string
		want Query
	}{
		{"", Query{Mode: QueryClear}},
		{"Foo", Query{Mode: QueryValue, Term: "foo"}},
		{"=Foo", Query{Mode: QueryValue, Term: "Foo", Strict: true}},
		{"==x", Query{Mode: QueryValue, Term: "=x", Strict: true}},
		{"a.*=Two", Query{Mode: QueryPath, Term: "two", Path: []string{"a", "*"}}},
		{"a.*==Two", Query{Mode: QueryPath, Term: "Two", Path: []string{"a", "*"}, Strict: true}},
		{"a.b=x=Y", Query{Mode: QueryPath, Term: "x=y", Path: []string{"a", "b"}}},
		{"a==b==c", Query{Mode: QueryPath, Term: "b==c", Path: []string{"a"}, Strict: true}},
		{"a..b=1", Query{Mode: QueryPath, Term: "1", Path: []string{"a", "", "b"}}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseQuery(tt.in))
		})
	}
}
