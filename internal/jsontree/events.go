package jsontree

import (
	"github.com/rebeliceyang/lazyjson/internal/render"
)

// Events routes clicks to node handlers and fans out root scroll passes to lazily
// rendered containers
type Events struct {
	root        render.Element
	clicks      map[render.Element]func()
	scroll      []func() bool
	unsubscribe func()
}

// NewEvents subscribes a single click listener on the viewport
func NewEvents(viewport render.Viewport) *Events {
	e := &Events{
		root:   viewport.Root(),
		clicks: make(map[render.Element]func()),
	}
	e.unsubscribe = viewport.OnClick(e.handleClick)
	return e
}

// OnClick registers fn for clicks on el or any of its descendants without a handler
func (e *Events) OnClick(el render.Element, fn func()) {
	e.clicks[el] = fn
}

// Forget drops the handler registered for el
func (e *Events) Forget(el render.Element) {
	delete(e.clicks, el)
}

// NotifyOnScrollWhileAlive registers fn to run after every root pass.
// fn returns false once its node no longer needs updates.
func (e *Events) NotifyOnScrollWhileAlive(fn func() bool) {
	e.scroll = append(e.scroll, fn)
}

// RootHasScrolled runs the scroll callbacks, newest first, dropping the ones that
// report they are done
func (e *Events) RootHasScrolled() {
	for i := len(e.scroll) - 1; i >= 0; i-- {
		// callbacks may append; appended ones run on the next pass
		if !e.scroll[i]() {
			e.scroll = append(e.scroll[:i], e.scroll[i+1:]...)
		}
	}
}

// Destroy releases the viewport listener and all handlers
func (e *Events) Destroy() {
	if e.unsubscribe != nil {
		e.unsubscribe()
		e.unsubscribe = nil
	}
	clear(e.clicks)
	e.scroll = nil
}

func (e *Events) handleClick(target render.Element) {
	for target != nil && target != e.root {
		if fn, ok := e.clicks[target]; ok {
			fn()
			return
		}
		target = target.Parent()
	}
}

func (e *Events) handlerCount() int {
	return len(e.clicks)
}

func (e *Events) scrollListenerCount() int {
	return len(e.scroll)
}
