package surface

import (
	"slices"
	"strings"

	"github.com/rebeliceyang/lazyjson/internal/render"
)

// element is a node of the retained tree. Heights and offsets are kept in units.
type element struct {
	role     render.Role
	classes  []string
	text     string
	parent   *element
	children []*element
	height   int
	offset   int
}

func newElement(role render.Role, classes ...string) *element {
	e := &element{role: role, height: -1, offset: -1}
	e.AddClass(classes...)
	return e
}

// wrap converts to the interface without producing a typed nil
func wrap(e *element) render.Element {
	if e == nil {
		return nil
	}
	return e
}

func unwrap(el render.Element) *element {
	if el == nil {
		return nil
	}
	return el.(*element)
}

func (e *element) Append(role render.Role, classes ...string) render.Element {
	c := newElement(role, classes...)
	c.parent = e
	e.children = append(e.children, c)
	return c
}

func (e *element) Parent() render.Element {
	return wrap(e.parent)
}

func (e *element) FirstChild() render.Element {
	if len(e.children) == 0 {
		return nil
	}
	return e.children[0]
}

func (e *element) NextSibling() render.Element {
	if e.parent == nil {
		return nil
	}
	i := e.parent.indexOf(e)
	if i < 0 || i+1 >= len(e.parent.children) {
		return nil
	}
	return e.parent.children[i+1]
}

func (e *element) InsertBefore(child, ref render.Element) {
	c := unwrap(child)
	if c == nil {
		return
	}
	c.detach()

	r := unwrap(ref)
	i := -1
	if r != nil {
		i = e.indexOf(r)
	}
	c.parent = e
	if i < 0 {
		e.children = append(e.children, c)
		return
	}
	e.children = slices.Insert(e.children, i, c)
}

func (e *element) Remove() {
	e.detach()
}

func (e *element) Clear() {
	for _, c := range e.children {
		c.parent = nil
	}
	e.children = nil
}

func (e *element) SetText(text string) {
	e.text = text
}

func (e *element) AddClass(classes ...string) {
	for _, c := range classes {
		if !e.HasClass(c) {
			e.classes = append(e.classes, c)
		}
	}
}

func (e *element) RemoveClass(classes ...string) {
	e.classes = slices.DeleteFunc(e.classes, func(c string) bool {
		return slices.Contains(classes, c)
	})
}

func (e *element) ToggleClass(class string) {
	if e.HasClass(class) {
		e.RemoveClass(class)
	} else {
		e.AddClass(class)
	}
}

func (e *element) HasClass(class string) bool {
	return slices.Contains(e.classes, class)
}

func (e *element) SetHeight(units int) {
	e.height = units
}

func (e *element) SetOffset(units int) {
	e.offset = units
}

func (e *element) detach() {
	if e.parent == nil {
		return
	}
	if i := e.parent.indexOf(e); i >= 0 {
		e.parent.children = slices.Delete(e.parent.children, i, i+1)
	}
	e.parent = nil
}

func (e *element) indexOf(c *element) int {
	return slices.Index(e.children, c)
}

func (e *element) hidden() bool {
	return e.HasClass(render.ClassHidden)
}

// Text returns the concatenated text of the element's spans
func (e *element) Text() string {
	if e.role == render.Span {
		return e.text
	}
	var b strings.Builder
	for _, c := range e.children {
		if c.role == render.Span && !c.hidden() {
			b.WriteString(c.text)
		}
	}
	return b.String()
}
