package jsontree

import (
	"strings"

	"github.com/rebeliceyang/lazyjson/internal/jsondoc"
	"github.com/rebeliceyang/lazyjson/internal/render"
)

var escapeDisplay = strings.NewReplacer("\r\n", `\n`, "\n", `\n`, "\r", `\r`, "\t", `\t`)

// Leaf displays a scalar value on a single row
type Leaf struct {
	value  string
	folded string
	kind   ValueKind

	label     jsondoc.Key
	labeled   bool
	rowHeight int

	parent      Parent
	keyInParent jsondoc.Key

	row     render.Element
	valueEl render.Element

	matched     bool
	highlighted bool
}

func newLeaf(value string, kind ValueKind, label jsondoc.Key, labeled bool, rowHeight int) *Leaf {
	return &Leaf{
		value:     value,
		folded:    strings.ToLower(value),
		kind:      kind,
		label:     label,
		labeled:   labeled,
		rowHeight: rowHeight,
	}
}

func (l *Leaf) Boot(parent Parent, keyInParent jsondoc.Key) {
	l.parent = parent
	l.keyInParent = keyInParent
}

func (l *Leaf) Render(target render.Element, _ *Events, _ int) {
	l.row = target.Append(render.Row, render.ClassNode)
	writeLabel(l.row, l.label, l.labeled)

	l.valueEl = l.row.Append(render.Span, kindClass(l.kind))
	l.valueEl.SetText(l.display())
	l.paint()
}

func (l *Leaf) Destroy() {
	if l.row == nil {
		return
	}
	l.row.Remove()
	l.row = nil
	l.valueEl = nil
}

func (l *Leaf) Element() render.Element {
	return l.row
}

func (l *Leaf) Height() int {
	return l.rowHeight
}

func (l *Leaf) SearchOnPath(term string, path []string, matched int, strict bool, results *Results, events *Events) bool {
	if matchesLevel(path, matched, l.label, l.labeled) && len(path) == matched+2 {
		return l.SearchValue(term, strict, results, events)
	}
	l.setMatch(false)
	return false
}

func (l *Leaf) SearchValue(term string, strict bool, results *Results, _ *Events) bool {
	var m bool
	if strict {
		m = l.value == term
	} else {
		m = strings.Contains(l.folded, term)
	}
	l.setMatch(m)
	if m {
		results.add(l)
	}
	return m
}

func (l *Leaf) ClearSearch() {
	l.setMatch(false)
}

// Highlight marks the leaf as the active match
func (l *Leaf) Highlight(active bool) {
	l.highlighted = active
	l.paint()
}

func (l *Leaf) ApproxScrollPosition() int {
	return l.mustParent().ChildPosition(l.keyInParent).Start
}

func (l *Leaf) Path() jsondoc.Path {
	return l.mustParent().ChildPath(l.keyInParent)
}

// Value returns the raw value text; strings are unquoted
func (l *Leaf) Value() string {
	return l.value
}

func (l *Leaf) Kind() ValueKind {
	return l.kind
}

func (l *Leaf) display() string {
	if l.kind == KindString {
		return `"` + escapeDisplay.Replace(l.value) + `"`
	}
	return l.value
}

func (l *Leaf) setMatch(m bool) {
	l.matched = m
	if !m {
		l.highlighted = false
	}
	l.paint()
}

func (l *Leaf) paint() {
	if l.valueEl == nil {
		return
	}
	l.valueEl.RemoveClass(render.ClassMatch, render.ClassMatchActive)
	switch {
	case l.matched && l.highlighted:
		l.valueEl.AddClass(render.ClassMatchActive)
	case l.matched:
		l.valueEl.AddClass(render.ClassMatch)
	}
}

func (l *Leaf) mustParent() Parent {
	if l.parent == nil {
		panic("jsontree: leaf used before Boot")
	}
	return l.parent
}

func kindClass(k ValueKind) string {
	switch k {
	case KindString:
		return render.ClassString
	case KindNumber:
		return render.ClassNumber
	case KindBoolean:
		return render.ClassBoolean
	default:
		return render.ClassNull
	}
}

// writeLabel renders the key prefix of a row: `"name": ` or `3: `
func writeLabel(row render.Element, label jsondoc.Key, labeled bool) {
	if !labeled {
		return
	}
	if label.IsIndex() {
		row.Append(render.Span, render.ClassIndex).SetText(label.String())
	} else {
		row.Append(render.Span, render.ClassKey).SetText(`"` + escapeDisplay.Replace(label.String()) + `"`)
	}
	row.Append(render.Span, render.ClassSeparator).SetText(": ")
}

// matchesLevel reports whether the path segment after the matched prefix selects label
func matchesLevel(path []string, matched int, label jsondoc.Key, labeled bool) bool {
	i := matched + 1
	if i < 0 || i >= len(path) {
		return false
	}
	switch seg := path[i]; seg {
	case "":
		return false
	case "*":
		return true
	default:
		return labeled && seg == label.String()
	}
}
