package jsontree

import (
	"github.com/rebeliceyang/lazyjson/internal/render"
)

// WindowStats counts the element operations of window passes
type WindowStats struct {
	Passes   int
	Mounts   int
	Unmounts int
	Moves    int
}

// window tracks which children of a root or lazy container are mounted.
// Mounted elements live inside el, in index order, and el is offset to the top
// of the first mounted child.
type window struct {
	el      render.Element
	mounted map[int]struct{}
	start   int
	end     int
	stats   WindowStats
}

// windowRange maps a viewport band [top, bottom) to the child index range to mount
func windowRange(f *FenwickTree, top, bottom, overscan int) (start, end int) {
	n := f.Len()
	targetTop := max(0, top-overscan)
	targetBottom := min(f.Total(), max(bottom+overscan, targetTop+overscan))

	start = f.LowerBound(targetTop)
	end = min(n-1, f.LowerBound(targetBottom)) + 1

	start = max(0, min(start, n-1))
	end = max(start+1, min(end, n))
	return start, end
}

func (w *window) attach(el render.Element) {
	w.el = el
	w.mounted = make(map[int]struct{})
	w.start, w.end = 0, 0
}

// detach destroys every mounted child and removes the window element
func (w *window) detach(nodeAt func(int) Node) {
	if w.el == nil {
		return
	}
	for i := range w.mounted {
		nodeAt(i).Destroy()
		w.stats.Unmounts++
	}
	w.mounted = nil
	w.el.Remove()
	w.el = nil
	w.start, w.end = 0, 0
}

// apply makes [start, end) the mounted range. It reports false when the range was
// already mounted, in which case only the offset is refreshed.
func (w *window) apply(f *FenwickTree, start, end int, nodeAt func(int) Node, mount func(Node)) bool {
	w.stats.Passes++
	w.el.SetOffset(f.Sum(start))

	if start == w.start && end == w.end {
		return false
	}

	for i := range w.mounted {
		if i < start || i >= end {
			nodeAt(i).Destroy()
			delete(w.mounted, i)
			w.stats.Unmounts++
		}
	}
	for i := start; i < end; i++ {
		if _, ok := w.mounted[i]; !ok {
			mount(nodeAt(i))
			w.mounted[i] = struct{}{}
			w.stats.Mounts++
		}
	}

	cursor := w.el.FirstChild()
	for i := start; i < end; i++ {
		el := nodeAt(i).Element()
		if el == cursor {
			cursor = cursor.NextSibling()
			continue
		}
		w.el.InsertBefore(el, cursor)
		w.stats.Moves++
	}

	w.start, w.end = start, end
	return true
}
