package jsontree

import (
	"fmt"
	"log/slog"

	"github.com/rebeliceyang/lazyjson/internal/jsondoc"
	"github.com/rebeliceyang/lazyjson/internal/logger"
	"github.com/rebeliceyang/lazyjson/internal/render"
)

// LazyContainer mounts only the children near the viewport while open.
// Children are keyed by ordinal in the parent protocol.
type LazyContainer struct {
	shell

	keys     []jsondoc.Key
	children []child
	total    int
	fenwick  *FenwickTree
	win      window
}

func newLazyContainer(keys []jsondoc.Key, nodes []Node, isArray bool, label jsondoc.Key, labeled bool, opts Options) *LazyContainer {
	c := &LazyContainer{
		keys:     keys,
		children: make([]child, len(nodes)),
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

	heights := make([]int, len(nodes))
	for i, n := range nodes {
		heights[i] = opts.RowHeight
		c.children[i] = child{node: n, height: opts.RowHeight, index: i}
		n.Boot(c, jsondoc.Index(i))
	}
	c.total = len(nodes) * opts.RowHeight
	c.fenwick = NewFenwickTree(heights)
	return c
}

func (c *LazyContainer) ChildPosition(key jsondoc.Key) PositionInfo {
	i := c.mustOrdinal(key)
	pos := c.position()
	pos.Start += c.opts.RowHeight + c.fenwick.Sum(i)
	return pos
}

func (c *LazyContainer) ChildHeightUpdated(key jsondoc.Key, height int) {
	i := c.mustOrdinal(key)
	delta := height - c.children[i].height
	c.children[i].height = height
	c.total += delta
	c.fenwick.Add(i, delta)
	if c.rendered {
		c.childBlock.SetHeight(c.total)
	}
	c.childChanged()
}

func (c *LazyContainer) ChildPath(key jsondoc.Key) jsondoc.Path {
	return c.path().Append(c.keys[c.mustOrdinal(key)])
}

// Stats returns the window counters of the current mount
func (c *LazyContainer) Stats() WindowStats {
	return c.win.stats
}

func (c *LazyContainer) childTotal() int {
	return c.total
}

func (c *LazyContainer) mountChildren() {
	if len(c.children) == 0 {
		return
	}
	c.childBlock.SetHeight(c.total)
	c.win.attach(c.childBlock.Append(render.Block, render.ClassWindow))
	c.performRendering()

	gen := c.generation
	c.events.NotifyOnScrollWhileAlive(func() bool {
		if !c.open || !c.rendered || c.generation != gen {
			return false
		}
		c.performRendering()
		return true
	})
}

func (c *LazyContainer) unmountChildren() {
	c.win.detach(c.nodeAt)
}

func (c *LazyContainer) forEachChild(fn func(Node)) {
	for i := range c.children {
		fn(c.children[i].node)
	}
}

// performRendering moves the window to the rows near the viewport, in child-local units
func (c *LazyContainer) performRendering() {
	c.withBatch(func() {
		pos := c.position()
		top := pos.ScrollTop - (pos.Start + c.opts.RowHeight)
		bottom := top + pos.ViewportHeight

		start, end := windowRange(c.fenwick, top, bottom, c.opts.Overscan)
		if c.win.apply(c.fenwick, start, end, c.nodeAt, c.mount) && logger.Enabled(slog.LevelDebug) {
			logger.Debug("lazy window pass", "path", c.path().String(), "start", start, "end", end)
		}
	})
}

func (c *LazyContainer) nodeAt(i int) Node {
	return c.children[i].node
}

func (c *LazyContainer) mount(n Node) {
	n.Render(c.win.el, c.events, c.depth+1)
}

func (c *LazyContainer) mustOrdinal(key jsondoc.Key) int {
	i := key.Ordinal()
	if i < 0 || i >= len(c.children) {
		panic(fmt.Sprintf("jsontree: unknown child ordinal %q", key.String()))
	}
	return i
}
