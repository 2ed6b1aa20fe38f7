package jsontree

import (
	"fmt"
	"log/slog"

	"github.com/rebeliceyang/lazyjson/internal/jsondoc"
	"github.com/rebeliceyang/lazyjson/internal/logger"
	"github.com/rebeliceyang/lazyjson/internal/render"
)

// Root owns the top-level children and binds the tree to a surface.
// A top-level scalar is held as a single child without a key.
type Root struct {
	opts Options

	keys     []jsondoc.Key
	keyless  bool
	children []child
	total    int
	fenwick  *FenwickTree

	surface     render.Surface
	events      *Events
	spacer      render.Element
	win         window
	frame       render.FrameID
	queued      bool
	unsubscribe func()

	batchDepth int
	dirty      bool
}

func newRoot(keys []jsondoc.Key, nodes []Node, keyless bool, opts Options) *Root {
	r := &Root{
		opts:     opts,
		keys:     keys,
		keyless:  keyless,
		children: make([]child, len(nodes)),
	}

	heights := make([]int, len(nodes))
	for i, n := range nodes {
		heights[i] = opts.RowHeight
		r.children[i] = child{node: n, height: opts.RowHeight, index: i}
		n.Boot(r, jsondoc.Index(i))
	}
	r.fenwick = NewFenwickTree(heights)
	r.total = r.fenwick.Total()
	return r
}

// Height returns the height of the whole document in units
func (r *Root) Height() int {
	return r.total
}

// Len returns the number of top-level children
func (r *Root) Len() int {
	return len(r.children)
}

// Child returns the i-th top-level node
func (r *Root) Child(i int) Node {
	return r.children[i].node
}

// Stats returns the root window counters
func (r *Root) Stats() WindowStats {
	return r.win.stats
}

func (r *Root) mount(surface render.Surface, events *Events) {
	r.surface = surface
	r.events = events

	r.spacer = surface.Root().Append(render.Block)
	r.spacer.SetHeight(r.total)
	r.win.attach(r.spacer.Append(render.Block, render.ClassWindow))

	r.unsubscribe = surface.OnScroll(r.queueRendering)
	r.performRendering()
}

func (r *Root) queueRendering() {
	if r.surface == nil {
		return
	}
	if r.queued {
		r.surface.CancelFrame(r.frame)
	}
	r.queued = true
	r.frame = r.surface.RequestFrame(func() {
		r.queued = false
		r.performRendering()
		r.events.RootHasScrolled()
	})
}

func (r *Root) performRendering() {
	if r.surface == nil || len(r.children) == 0 {
		return
	}

	top := r.surface.ScrollTop()
	bottom := top + r.surface.ClientHeight()
	start, end := windowRange(r.fenwick, top, bottom, r.opts.Overscan)

	r.withBatch(func() {
		if r.win.apply(r.fenwick, start, end, r.nodeAt, r.mountChild) && logger.Enabled(slog.LevelDebug) {
			logger.Debug("root window pass", "start", start, "end", end, "height", r.total)
		}
	})
}

func (r *Root) nodeAt(i int) Node {
	return r.children[i].node
}

func (r *Root) mountChild(n Node) {
	n.Render(r.win.el, r.events, 0)
}

func (r *Root) ChildPosition(key jsondoc.Key) PositionInfo {
	i := r.mustOrdinal(key)
	pos := PositionInfo{Start: r.fenwick.Sum(i)}
	if r.surface != nil {
		pos.ViewportHeight = r.surface.ClientHeight()
		pos.ScrollTop = r.surface.ScrollTop()
	}
	return pos
}

func (r *Root) ChildHeightUpdated(key jsondoc.Key, height int) {
	i := r.mustOrdinal(key)
	delta := height - r.children[i].height
	r.children[i].height = height
	r.fenwick.Add(i, delta)
	r.total = r.fenwick.Total()
	if r.spacer != nil {
		r.spacer.SetHeight(r.total)
	}

	if r.batchDepth > 0 {
		r.dirty = true
		return
	}
	r.queueRendering()
}

func (r *Root) ChildPath(key jsondoc.Key) jsondoc.Path {
	i := r.mustOrdinal(key)
	if r.keyless {
		return jsondoc.Path{}
	}
	return jsondoc.Path{r.keys[i]}
}

// withBatch holds back re-window requests; leaving the outermost batch requests
// one pass if any child height changed
func (r *Root) withBatch(fn func()) {
	r.batchDepth++
	defer func() {
		r.batchDepth--
		if r.batchDepth == 0 && r.dirty {
			r.dirty = false
			r.queueRendering()
		}
	}()
	fn()
}

func (r *Root) SearchOnPath(term string, path []string, matched int, strict bool, results *Results, events *Events) bool {
	var found bool
	r.withBatch(func() {
		for i := range r.children {
			if r.children[i].node.SearchOnPath(term, path, matched, strict, results, events) {
				found = true
			}
		}
	})
	return found
}

func (r *Root) SearchValue(term string, strict bool, results *Results, events *Events) bool {
	var found bool
	r.withBatch(func() {
		for i := range r.children {
			if r.children[i].node.SearchValue(term, strict, results, events) {
				found = true
			}
		}
	})
	return found
}

func (r *Root) ClearSearch() {
	r.withBatch(func() {
		for i := range r.children {
			r.children[i].node.ClearSearch()
		}
	})
}

// Destroy unmounts every child and releases the surface
func (r *Root) Destroy() {
	if r.surface == nil {
		return
	}
	if r.queued {
		r.surface.CancelFrame(r.frame)
		r.queued = false
	}
	if r.unsubscribe != nil {
		r.unsubscribe()
		r.unsubscribe = nil
	}
	r.win.detach(r.nodeAt)
	r.spacer.Remove()
	r.spacer = nil
	r.surface = nil
}

func (r *Root) mustOrdinal(key jsondoc.Key) int {
	i := key.Ordinal()
	if i < 0 || i >= len(r.children) {
		panic(fmt.Sprintf("jsontree: unknown root ordinal %q", key.String()))
	}
	return i
}
