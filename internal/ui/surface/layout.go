package surface

import (
	"github.com/rebeliceyang/lazyjson/internal/render"
)

const guide = "│ "

// paintedRow is a row placed on a content line
type paintedRow struct {
	el     *element
	indent int
}

// measure returns the number of lines e occupies in flow. memo may be nil.
func (s *Surface) measure(e *element, memo map[*element]int) int {
	if e.hidden() {
		return 0
	}
	if h, ok := memo[e]; ok {
		return h
	}

	var h int
	switch {
	case e.role == render.Span:
		h = 0
	case e.height >= 0:
		h = s.toLines(e.height)
	case e.role == render.Row:
		h = 1
	default:
		for _, c := range e.children {
			if c.offset < 0 {
				h += s.measure(c, memo)
			}
		}
	}

	if memo != nil {
		memo[e] = h
	}
	return h
}

// layout places the rows that intersect lines [lo, hi). The result is indexed by
// line - lo; lines without a row are zero.
func (s *Surface) layout(lo, hi int) []paintedRow {
	if hi <= lo {
		return nil
	}
	rows := make([]paintedRow, hi-lo)
	memo := make(map[*element]int)
	s.place(s.root, 0, 0, lo, hi, rows, memo)
	return rows
}

func (s *Surface) place(e *element, top, indent, lo, hi int, rows []paintedRow, memo map[*element]int) {
	if e.hidden() || e.role == render.Span {
		return
	}
	h := s.measure(e, memo)
	if e.role == render.Row {
		if top >= lo && top < hi {
			rows[top-lo] = paintedRow{el: e, indent: indent}
		}
		return
	}
	if top >= hi || top+h <= lo {
		return
	}

	if e.HasClass(render.ClassIndent) {
		indent++
	}
	y := top
	for _, c := range e.children {
		if c.hidden() {
			continue
		}
		if c.offset >= 0 {
			s.place(c, top+c.offset/s.rowHeight, indent, lo, hi, rows, memo)
			continue
		}
		if y < hi {
			s.place(c, y, indent, lo, hi, rows, memo)
		}
		y += s.measure(c, memo)
	}
}

func (s *Surface) rowAt(line int) *element {
	if line < 0 {
		return nil
	}
	rows := s.layout(line, line+1)
	return rows[0].el
}
