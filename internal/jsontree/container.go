package jsontree

import (
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/rebeliceyang/lazyjson/internal/jsondoc"
	"github.com/rebeliceyang/lazyjson/internal/render"
)

const (
	caretClosed = "▸"
	caretOpen   = "▾"
)

// child is a container's record of one child node
type child struct {
	node   Node
	height int
	index  int
}

// childSet is what a container variant provides to the shared shell
type childSet interface {
	childTotal() int
	mountChildren()
	unmountChildren()
	forEachChild(fn func(Node))
}

// shell holds the state and chrome shared by eager and lazy containers:
// the header row, the child block, the closing brace, open flags and batching
type shell struct {
	opts    Options
	isArray bool
	count   int
	label   jsondoc.Key
	labeled bool

	parent      Parent
	keyInParent jsondoc.Key

	open         bool
	openedByUser bool

	batchDepth int
	reported   int

	rendered   bool
	generation int
	events     *Events
	depth      int

	el         render.Element
	header     render.Element
	caret      render.Element
	closedForm render.Element
	childBlock render.Element
	footer     render.Element

	set childSet
}

func (s *shell) Boot(parent Parent, keyInParent jsondoc.Key) {
	s.parent = parent
	s.keyInParent = keyInParent
}

func (s *shell) Element() render.Element {
	return s.el
}

func (s *shell) Height() int {
	if s.open {
		return 2*s.opts.RowHeight + s.set.childTotal()
	}
	return s.opts.RowHeight
}

// IsOpen reports whether the container shows its children
func (s *shell) IsOpen() bool {
	return s.open
}

// OpenedByUser reports whether the container was opened by a click
func (s *shell) OpenedByUser() bool {
	return s.openedByUser
}

func (s *shell) Render(target render.Element, events *Events, depth int) {
	s.rendered = true
	s.events = events
	s.depth = depth

	s.el = target.Append(render.Block, render.ClassNode)

	s.header = s.el.Append(render.Row, render.ClassHeader, render.ClassClickable)
	s.caret = s.header.Append(render.Span, render.ClassCaret)
	writeLabel(s.header, s.label, s.labeled)
	s.header.Append(render.Span, render.ClassBrace).SetText(s.openBrace())
	s.header.Append(render.Span, render.ClassMeta).SetText(" " + s.summary())
	s.closedForm = s.header.Append(render.Span, render.ClassBrace)
	s.closedForm.SetText(" … " + s.closeBrace())

	s.childBlock = s.el.Append(render.Block, render.ClassChildren, render.ClassIndent)

	s.footer = s.el.Append(render.Row, render.ClassFooter)
	s.footer.Append(render.Span, render.ClassBrace).SetText(s.closeBrace())

	events.OnClick(s.header, s.toggle)

	if s.open {
		s.withBatch(s.set.mountChildren)
	}
	s.paint()
}

func (s *shell) Destroy() {
	if !s.rendered {
		return
	}
	s.set.unmountChildren()
	s.events.Forget(s.header)
	s.el.Remove()

	s.rendered = false
	s.generation++
	s.el, s.header, s.caret, s.closedForm, s.childBlock, s.footer = nil, nil, nil, nil, nil, nil
}

func (s *shell) toggle() {
	if s.open {
		s.close(true)
	} else {
		s.openNode(true)
	}
}

// Open opens the container as the user would
func (s *shell) Open() {
	if !s.open {
		s.openNode(true)
	}
}

// Close closes the container as the user would
func (s *shell) Close() {
	if s.open {
		s.close(true)
	}
}

func (s *shell) openNode(fromUser bool) {
	s.withBatch(func() {
		wasOpen := s.open
		s.open = true
		if fromUser {
			s.openedByUser = true
		}
		if s.rendered && !wasOpen {
			s.generation++
			s.set.mountChildren()
			s.paint()
		}
	})
}

func (s *shell) close(fromUser bool) {
	s.withBatch(func() {
		wasOpen := s.open
		s.open = false
		if fromUser {
			s.openedByUser = false
		}
		if s.rendered && wasOpen {
			s.generation++
			s.set.unmountChildren()
			s.paint()
		}
	})
}

func (s *shell) paint() {
	if !s.rendered {
		return
	}
	if s.open {
		s.caret.SetText(caretOpen + " ")
		s.header.AddClass(render.ClassOpen)
		s.closedForm.AddClass(render.ClassHidden)
		s.childBlock.RemoveClass(render.ClassHidden)
		s.footer.RemoveClass(render.ClassHidden)
	} else {
		s.caret.SetText(caretClosed + " ")
		s.header.RemoveClass(render.ClassOpen)
		s.closedForm.RemoveClass(render.ClassHidden)
		s.childBlock.AddClass(render.ClassHidden)
		s.footer.AddClass(render.ClassHidden)
	}
}

// withBatch runs fn with height reports held back. Leaving the outermost batch
// reports once, and only if the height changed.
func (s *shell) withBatch(fn func()) {
	s.batchDepth++
	defer func() {
		s.batchDepth--
		if s.batchDepth == 0 {
			s.report()
		}
	}()
	fn()
}

func (s *shell) report() {
	h := s.Height()
	if h == s.reported {
		return
	}
	s.reported = h
	s.mustParent().ChildHeightUpdated(s.keyInParent, h)
}

// childChanged is called after a child's stored height changed
func (s *shell) childChanged() {
	if s.batchDepth == 0 {
		s.report()
	}
}

func (s *shell) SearchOnPath(term string, path []string, matched int, strict bool, results *Results, events *Events) bool {
	if matchesLevel(path, matched, s.label, s.labeled) {
		matched++
	} else {
		matched = -1
	}

	var found bool
	s.withBatch(func() {
		s.set.forEachChild(func(n Node) {
			if n.SearchOnPath(term, path, matched, strict, results, events) {
				found = true
			}
		})
		s.exitSearch(found)
	})
	return found
}

func (s *shell) SearchValue(term string, strict bool, results *Results, events *Events) bool {
	var found bool
	s.withBatch(func() {
		s.set.forEachChild(func(n Node) {
			if n.SearchValue(term, strict, results, events) {
				found = true
			}
		})
		s.exitSearch(found)
	})
	return found
}

func (s *shell) exitSearch(found bool) {
	switch {
	case found && !s.open:
		s.openNode(false)
	case !found && s.open && !s.openedByUser:
		s.close(false)
	}
}

func (s *shell) ClearSearch() {
	s.withBatch(func() {
		s.set.forEachChild(func(n Node) {
			n.ClearSearch()
		})
		if s.open && !s.openedByUser {
			s.close(false)
		}
	})
}

func (s *shell) position() PositionInfo {
	return s.mustParent().ChildPosition(s.keyInParent)
}

func (s *shell) path() jsondoc.Path {
	return s.mustParent().ChildPath(s.keyInParent)
}

func (s *shell) mustParent() Parent {
	if s.parent == nil {
		panic("jsontree: container used before Boot")
	}
	return s.parent
}

func (s *shell) openBrace() string {
	if s.isArray {
		return "["
	}
	return "{"
}

func (s *shell) closeBrace() string {
	if s.isArray {
		return "]"
	}
	return "}"
}

func (s *shell) summary() string {
	switch {
	case s.isArray && s.count == 1:
		return "1 item"
	case s.isArray:
		return fmt.Sprintf("%d items", s.count)
	case s.count == 1:
		return "1 key"
	default:
		return fmt.Sprintf("%d keys", s.count)
	}
}

// EagerContainer mounts all of its children while open
type EagerContainer struct {
	shell

	children *orderedmap.OrderedMap[jsondoc.Key, *child]
	total    int
	// built on the first position query
	fenwick *FenwickTree
}

func newEagerContainer(keys []jsondoc.Key, nodes []Node, isArray bool, label jsondoc.Key, labeled bool, opts Options) *EagerContainer {
	c := &EagerContainer{
		children: orderedmap.New[jsondoc.Key, *child](orderedmap.WithCapacity[jsondoc.Key, *child](len(nodes))),
	}
	c.shell = shell{
		opts:     opts,
		isArray:  isArray,
		count:    len(nodes),
		label:    label,
		labeled:  labeled,
		reported: opts.RowHeight,
		set:      c,
	}

	for i, n := range nodes {
		c.children.Set(keys[i], &child{node: n, height: opts.RowHeight, index: i})
		n.Boot(c, keys[i])
	}
	c.total = c.children.Len() * opts.RowHeight
	return c
}

func (c *EagerContainer) ChildPosition(key jsondoc.Key) PositionInfo {
	ch := c.mustChild(key)
	if c.fenwick == nil {
		heights := make([]int, 0, c.children.Len())
		for pair := c.children.Oldest(); pair != nil; pair = pair.Next() {
			heights = append(heights, pair.Value.height)
		}
		c.fenwick = NewFenwickTree(heights)
	}

	pos := c.position()
	pos.Start += c.opts.RowHeight + c.fenwick.Sum(ch.index)
	return pos
}

func (c *EagerContainer) ChildHeightUpdated(key jsondoc.Key, height int) {
	ch := c.mustChild(key)
	delta := height - ch.height
	ch.height = height
	c.total += delta
	if c.fenwick != nil {
		c.fenwick.Add(ch.index, delta)
	}
	c.childChanged()
}

func (c *EagerContainer) ChildPath(key jsondoc.Key) jsondoc.Path {
	c.mustChild(key)
	return c.path().Append(key)
}

func (c *EagerContainer) childTotal() int {
	return c.total
}

func (c *EagerContainer) mountChildren() {
	for pair := c.children.Oldest(); pair != nil; pair = pair.Next() {
		pair.Value.node.Render(c.childBlock, c.events, c.depth+1)
	}
}

func (c *EagerContainer) unmountChildren() {
	for pair := c.children.Oldest(); pair != nil; pair = pair.Next() {
		pair.Value.node.Destroy()
	}
}

func (c *EagerContainer) forEachChild(fn func(Node)) {
	for pair := c.children.Oldest(); pair != nil; pair = pair.Next() {
		fn(pair.Value.node)
	}
}

func (c *EagerContainer) mustChild(key jsondoc.Key) *child {
	ch, ok := c.children.Get(key)
	if !ok {
		panic(fmt.Sprintf("jsontree: unknown child key %q", key.String()))
	}
	return ch
}
