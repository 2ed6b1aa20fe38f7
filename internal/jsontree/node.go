// Package jsontree renders a parsed JSON document as a virtualized, collapsible tree.
//
// Every value becomes a Node. Scalars are leaves; objects and arrays are containers
// that own their children and track each child's height in units. Large containers
// and the root mount only the children near the viewport, locating them through a
// FenwickTree over the child heights. Height changes bubble from a node to the root
// through the Parent interface, batched so one user action reports once per level.
package jsontree

import (
	"github.com/rebeliceyang/lazyjson/internal/jsondoc"
	"github.com/rebeliceyang/lazyjson/internal/render"
)

// Node is a displayed JSON value
type Node interface {
	// Boot links the node to its parent. Containers call it on every child
	// exactly once, before any render or position query.
	Boot(parent Parent, keyInParent jsondoc.Key)
	// Render mounts the node's elements at the end of target
	Render(target render.Element, events *Events, depth int)
	// Destroy unmounts the node's elements; the node keeps its state
	Destroy()
	// Element returns the outermost mounted element, or nil when unmounted
	Element() render.Element
	// Height returns the node's height in units
	Height() int

	SearchOnPath(term string, path []string, matched int, strict bool, results *Results, events *Events) bool
	SearchValue(term string, strict bool, results *Results, events *Events) bool
	ClearSearch()
}

// Parent is implemented by nodes that own children
type Parent interface {
	// ChildPosition locates a child relative to the root viewport
	ChildPosition(key jsondoc.Key) PositionInfo
	// ChildHeightUpdated records a child's new height
	ChildHeightUpdated(key jsondoc.Key, height int)
	// ChildPath returns the document path of a child
	ChildPath(key jsondoc.Key) jsondoc.Path
}

// PositionInfo locates a node inside the root's scrollable content
type PositionInfo struct {
	ViewportHeight int
	ScrollTop      int
	// Start is the node's top offset from the start of the root content
	Start int
}

// SearchResult is a leaf that matched the last search
type SearchResult interface {
	// Highlight marks the result as the active match
	Highlight(active bool)
	// ApproxScrollPosition returns the result's top offset in root content units
	ApproxScrollPosition() int
	Path() jsondoc.Path
	Value() string
	Kind() ValueKind
}

// Results collects search matches in document order
type Results struct {
	items []SearchResult
}

func (r *Results) add(res SearchResult) {
	r.items = append(r.items, res)
}

// Len returns the number of collected results
func (r *Results) Len() int {
	return len(r.items)
}

// Items returns the collected results
func (r *Results) Items() []SearchResult {
	return r.items
}

// ValueKind is the type of a scalar value
type ValueKind int

const (
	KindString ValueKind = iota
	KindNumber
	KindNull
	KindBoolean
)

func (k ValueKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindNull:
		return "null"
	case KindBoolean:
		return "boolean"
	default:
		return "unknown"
	}
}

// Options tunes layout and virtualization. All sizes are in units.
type Options struct {
	// RowHeight is the height of one row
	RowHeight int
	// LazyThreshold is the child count above which a container mounts lazily
	LazyThreshold int
	// Overscan is the distance beyond the viewport that stays mounted
	Overscan int
}

// DefaultOptions returns the stock layout constants
func DefaultOptions() Options {
	return Options{
		RowHeight:     20,
		LazyThreshold: 250,
		Overscan:      300,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.RowHeight <= 0 {
		o.RowHeight = def.RowHeight
	}
	if o.LazyThreshold <= 0 {
		o.LazyThreshold = def.LazyThreshold
	}
	if o.Overscan < 0 {
		o.Overscan = def.Overscan
	}
	return o
}
