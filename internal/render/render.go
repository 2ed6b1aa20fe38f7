// Package render defines the narrow rendering contract the tree viewer draws through.
//
// Geometry is expressed in abstract units. A backend decides how many units a row
// occupies and how units map onto its own coordinates.
package render

// Role tells the backend how an element lays out its children
type Role int

const (
	// Block stacks its children vertically
	Block Role = iota
	// Row is a single line made of inline spans
	Row
	// Span is inline text inside a row
	Span
)

func (r Role) String() string {
	switch r {
	case Block:
		return "block"
	case Row:
		return "row"
	case Span:
		return "span"
	default:
		return "unknown"
	}
}

// Class names applied by the tree viewer
const (
	ClassNode        = "node"
	ClassHeader      = "header"
	ClassFooter      = "footer"
	ClassChildren    = "children"
	ClassIndent      = "indent"
	ClassWindow      = "window"
	ClassHidden      = "hidden"
	ClassOpen        = "open"
	ClassClickable   = "clickable"
	ClassCaret       = "caret"
	ClassKey         = "key"
	ClassIndex       = "index"
	ClassSeparator   = "separator"
	ClassBrace       = "brace"
	ClassMeta        = "meta"
	ClassString      = "string"
	ClassNumber      = "number"
	ClassBoolean     = "boolean"
	ClassNull        = "null"
	ClassMatch       = "match"
	ClassMatchActive = "match-active"
)

// Element is a node in the backend's retained element tree.
// Implementations return a nil interface, never a typed nil, when there is no element.
type Element interface {
	// Append creates a new child element at the end and returns it
	Append(role Role, classes ...string) Element
	Parent() Element
	FirstChild() Element
	NextSibling() Element
	// InsertBefore moves child so it precedes ref; a nil ref appends
	InsertBefore(child, ref Element)
	// Remove detaches the element from its parent
	Remove()
	// Clear removes all children
	Clear()

	SetText(text string)
	AddClass(classes ...string)
	RemoveClass(classes ...string)
	ToggleClass(class string)
	HasClass(class string) bool

	// SetHeight fixes the element's height in units. A negative value restores
	// the computed height.
	SetHeight(units int)
	// SetOffset positions the element at an absolute offset inside its parent,
	// taking it out of the flow. A negative value restores flow layout.
	SetOffset(units int)
}

// Viewport is the scrollable area the tree is mounted into
type Viewport interface {
	// Root is the mount point of the tree
	Root() Element
	ClientHeight() int
	ScrollTop() int
	OnScroll(fn func()) (unsubscribe func())
	OnClick(fn func(target Element)) (unsubscribe func())
}

// FrameID identifies a scheduled frame callback
type FrameID uint64

// Scheduler defers work to the next frame
type Scheduler interface {
	RequestFrame(fn func()) FrameID
	CancelFrame(id FrameID)
}

// Surface is everything the tree viewer needs from a backend
type Surface interface {
	Viewport
	Scheduler
}
