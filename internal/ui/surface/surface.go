// Package surface implements the render contract on top of a terminal.
//
// The surface keeps a retained element tree, lays it out into lines (one row per
// line, rowHeight units per line) and paints only the lines inside the viewport.
// Frame callbacks are queued and run when the owning bubbletea model calls Flush.
package surface

import (
	"slices"

	"github.com/rebeliceyang/lazyjson/internal/render"
	"github.com/rebeliceyang/lazyjson/internal/ui/theme"
)

type frame struct {
	id render.FrameID
	fn func()
}

type scrollListener struct {
	id int
	fn func()
}

type clickListener struct {
	id int
	fn func(render.Element)
}

// Surface is a terminal backed render.Surface
type Surface struct {
	root      *element
	rowHeight int

	width  int
	height int
	scroll int

	wheelStep int

	nextListener int
	onScroll     []scrollListener
	onClick      []clickListener

	nextFrame render.FrameID
	frames    []frame

	styles     styles
	zonePrefix string
}

// New returns an empty surface. rowHeight is the number of units in one line.
func New(rowHeight int, th theme.Theme) *Surface {
	if rowHeight <= 0 {
		rowHeight = 1
	}
	return &Surface{
		root:       newElement(render.Block),
		rowHeight:  rowHeight,
		wheelStep:  WheelStep,
		styles:     newStyles(th),
		zonePrefix: newZonePrefix(),
	}
}

// Root is the mount point of the tree
func (s *Surface) Root() render.Element {
	return s.root
}

// ClientHeight returns the viewport height in units
func (s *Surface) ClientHeight() int {
	return s.height * s.rowHeight
}

// ScrollTop returns the scroll offset in units
func (s *Surface) ScrollTop() int {
	return s.scroll * s.rowHeight
}

func (s *Surface) OnScroll(fn func()) func() {
	s.nextListener++
	id := s.nextListener
	s.onScroll = append(s.onScroll, scrollListener{id: id, fn: fn})
	return func() {
		s.onScroll = slices.DeleteFunc(s.onScroll, func(l scrollListener) bool { return l.id == id })
	}
}

func (s *Surface) OnClick(fn func(target render.Element)) func() {
	s.nextListener++
	id := s.nextListener
	s.onClick = append(s.onClick, clickListener{id: id, fn: fn})
	return func() {
		s.onClick = slices.DeleteFunc(s.onClick, func(l clickListener) bool { return l.id == id })
	}
}

func (s *Surface) RequestFrame(fn func()) render.FrameID {
	s.nextFrame++
	s.frames = append(s.frames, frame{id: s.nextFrame, fn: fn})
	return s.nextFrame
}

func (s *Surface) CancelFrame(id render.FrameID) {
	s.frames = slices.DeleteFunc(s.frames, func(f frame) bool { return f.id == id })
}

// Pending reports whether frame callbacks are queued
func (s *Surface) Pending() bool {
	return len(s.frames) > 0
}

// Flush runs the queued frame callbacks. Callbacks requested while flushing run
// on the next flush. The scroll offset is clamped afterwards since the content may
// have shrunk.
func (s *Surface) Flush() {
	queued := s.frames
	s.frames = nil
	for _, f := range queued {
		f.fn()
	}
	s.ScrollTo(s.scroll)
}

// SetSize resizes the viewport in cells
func (s *Surface) SetSize(width, height int) {
	width, height = max(0, width), max(0, height)
	if width == s.width && height == s.height {
		return
	}
	s.width, s.height = width, height
	s.scroll = s.clamp(s.scroll)
	s.emitScroll()
}

func (s *Surface) Width() int {
	return s.width
}

func (s *Surface) Height() int {
	return s.height
}

// Offset returns the first visible line
func (s *Surface) Offset() int {
	return s.scroll
}

// ContentHeight returns the number of lines the mounted tree occupies
func (s *Surface) ContentHeight() int {
	return s.measure(s.root, nil)
}

// ScrollTo scrolls so that line is the first visible line, within bounds
func (s *Surface) ScrollTo(line int) {
	line = s.clamp(line)
	if line == s.scroll {
		return
	}
	s.scroll = line
	s.emitScroll()
}

// ScrollBy scrolls by delta lines
func (s *Surface) ScrollBy(delta int) {
	s.ScrollTo(s.scroll + delta)
}

// ScrollIntoView scrolls the minimum amount that makes line visible
func (s *Surface) ScrollIntoView(line int) {
	switch {
	case line < s.scroll:
		s.ScrollTo(line)
	case s.height > 0 && line >= s.scroll+s.height:
		s.ScrollTo(line - s.height + 1)
	}
}

// Click dispatches a click on target to the click listeners
func (s *Surface) Click(target render.Element) {
	for _, l := range slices.Clone(s.onClick) {
		l.fn(target)
	}
}

// ClickLine clicks the row painted at a content line
func (s *Surface) ClickLine(line int) bool {
	row := s.rowAt(line)
	if row == nil {
		return false
	}
	s.Click(row)
	return true
}

// RowText returns the plain text of the row at a content line
func (s *Surface) RowText(line int) (string, bool) {
	row := s.rowAt(line)
	if row == nil {
		return "", false
	}
	return row.Text(), true
}

func (s *Surface) clamp(line int) int {
	limit := max(0, s.ContentHeight()-s.height)
	return max(0, min(line, limit))
}

func (s *Surface) emitScroll() {
	for _, l := range slices.Clone(s.onScroll) {
		l.fn()
	}
}

func (s *Surface) toLines(units int) int {
	return (units + s.rowHeight - 1) / s.rowHeight
}
