package jsontree

import (
	"bytes"
	"fmt"
	"time"

	"github.com/rebeliceyang/lazyjson/internal/jsondoc"
	"github.com/rebeliceyang/lazyjson/internal/logger"
	"github.com/rebeliceyang/lazyjson/internal/render"
)

// Data is a document prepared for display
type Data struct {
	opts   Options
	root   *Root
	events *Events
}

// New builds the node tree for a parsed value. Objects may be *jsondoc.Object or
// map[string]any; arrays are []any.
func New(value any, opts Options) (*Data, error) {
	opts = opts.withDefaults()
	root, err := buildRoot(value, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to build tree: %w", err)
	}
	return &Data{opts: opts, root: root}, nil
}

// MakeSafe parses raw JSON and builds its tree. It returns nil when the input
// cannot be parsed.
func MakeSafe(raw []byte, opts Options) *Data {
	value, err := jsondoc.Parse(bytes.TrimSpace(raw))
	if err != nil {
		logger.Debug("parse failed", "error", err, "bytes", len(raw))
		return nil
	}
	d, err := New(value, opts)
	if err != nil {
		logger.Debug("build failed", "error", err)
		return nil
	}
	return d
}

// Init mounts the tree on a surface
func (d *Data) Init(surface render.Surface) {
	d.events = NewEvents(surface)
	d.root.mount(surface, d.events)
	logger.Debug("tree mounted", "children", d.root.Len(), "height", d.root.Height())
}

// Search runs a query and returns the matches in document order. An empty query
// clears the previous search.
func (d *Data) Search(query string) []SearchResult {
	started := time.Now()
	q := ParseQuery(query)
	results := &Results{}

	switch q.Mode {
	case QueryClear:
		d.root.ClearSearch()
	case QueryValue:
		d.root.SearchValue(q.Term, q.Strict, results, d.events)
	case QueryPath:
		d.root.SearchOnPath(q.Term, q.Path, -1, q.Strict, results, d.events)
	}

	logger.Debug("search", "query", query, "results", results.Len(), "elapsed", time.Since(started))
	return results.Items()
}

// Destroy unmounts the tree and releases every listener
func (d *Data) Destroy() {
	d.root.Destroy()
	if d.events != nil {
		d.events.Destroy()
		d.events = nil
	}
}

// Height returns the document height in units
func (d *Data) Height() int {
	return d.root.Height()
}

// Options returns the effective layout options
func (d *Data) Options() Options {
	return d.opts
}

// Root returns the root of the node tree
func (d *Data) Root() *Root {
	return d.root
}
