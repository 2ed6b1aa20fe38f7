package surface

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/rebeliceyang/lazyjson/internal/render"
	"github.com/rebeliceyang/lazyjson/internal/ui/theme"
)

func init() {
	// Initialize bubblezone for tests that call View() methods
	zone.NewGlobal()
}

func newTestSurface(width, height int) *Surface {
	s := New(20, theme.DefaultTheme())
	s.SetSize(width, height)
	return s
}

func addRow(parent render.Element, text string) render.Element {
	row := parent.Append(render.Row)
	row.Append(render.Span).SetText(text)
	return row
}

func TestElementTreeOps(t *testing.T) {
	s := newTestSurface(40, 10)
	root := s.Root()

	a := addRow(root, "a")
	c := addRow(root, "c")
	b := root.Append(render.Row)
	b.Append(render.Span).SetText("b")

	root.InsertBefore(b, c)
	if got := a.NextSibling(); got != b {
		t.Fatalf("Expected b after a, got %v", got)
	}
	if got := c.NextSibling(); got != nil {
		t.Errorf("Expected c to be last, got %v", got)
	}

	// nil ref appends
	root.InsertBefore(a, nil)
	if root.FirstChild() != b {
		t.Error("Expected b to be first after moving a to the end")
	}

	c.Remove()
	if c.Parent() != nil {
		t.Error("Expected removed element to have no parent")
	}
	if c.NextSibling() != nil {
		t.Error("Expected detached element to have no sibling")
	}

	lines := s.Lines()
	if lines[0] != "b" || lines[1] != "a" || lines[2] != "" {
		t.Errorf("Unexpected lines %q", lines[:3])
	}

	root.Clear()
	if root.FirstChild() != nil {
		t.Error("Expected empty root after Clear")
	}
	if a.Parent() != nil {
		t.Error("Expected cleared child to be detached")
	}
}

func TestElementClasses(t *testing.T) {
	s := newTestSurface(40, 10)
	el := s.Root().Append(render.Span, render.ClassKey, render.ClassKey)

	if len(el.(*element).classes) != 1 {
		t.Errorf("Expected duplicate class to be ignored")
	}
	el.ToggleClass(render.ClassMatch)
	if !el.HasClass(render.ClassMatch) {
		t.Error("Expected match class after toggle")
	}
	el.ToggleClass(render.ClassMatch)
	if el.HasClass(render.ClassMatch) {
		t.Error("Expected match class removed after second toggle")
	}
	el.AddClass(render.ClassMatch, render.ClassHidden)
	el.RemoveClass(render.ClassMatch, render.ClassHidden)
	if !el.HasClass(render.ClassKey) || el.HasClass(render.ClassHidden) {
		t.Errorf("Unexpected classes %v", el.(*element).classes)
	}
}

func TestLayoutHiddenAndIndent(t *testing.T) {
	s := newTestSurface(40, 10)
	root := s.Root()

	addRow(root, "header")
	block := root.Append(render.Block, render.ClassIndent)
	addRow(block, "child")
	hidden := addRow(block, "gone")
	hidden.AddClass(render.ClassHidden)
	addRow(root, "footer")

	got := s.Lines()[:3]
	want := []string{"header", "│ child", "footer"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d: expected %q, got %q", i, want[i], got[i])
		}
	}
	if s.ContentHeight() != 3 {
		t.Errorf("Expected content height 3, got %d", s.ContentHeight())
	}

	block.AddClass(render.ClassHidden)
	if s.ContentHeight() != 2 {
		t.Errorf("Expected content height 2 with block hidden, got %d", s.ContentHeight())
	}
}

func TestLayoutExplicitHeightAndOffset(t *testing.T) {
	s := newTestSurface(40, 5)
	root := s.Root()

	spacer := root.Append(render.Block)
	spacer.SetHeight(100 * 20)
	win := spacer.Append(render.Block)
	win.SetOffset(50 * 20)
	addRow(win, "fifty")
	addRow(win, "fifty-one")
	addRow(root, "after")

	if s.ContentHeight() != 101 {
		t.Fatalf("Expected content height 101, got %d", s.ContentHeight())
	}

	s.ScrollTo(49)
	lines := s.Lines()
	if lines[0] != "" || lines[1] != "fifty" || lines[2] != "fifty-one" || lines[3] != "" {
		t.Errorf("Unexpected lines %q", lines)
	}

	s.ScrollTo(1000)
	if s.Offset() != 96 {
		t.Errorf("Expected scroll clamped to 96, got %d", s.Offset())
	}
	if last := s.Lines()[4]; last != "after" {
		t.Errorf("Expected last line to be the footer, got %q", last)
	}

	// partial units round up to a whole line
	spacer.SetHeight(100*20 + 1)
	if s.ContentHeight() != 102 {
		t.Errorf("Expected content height 102, got %d", s.ContentHeight())
	}
	spacer.SetHeight(-1)
	if s.ContentHeight() != 1 {
		t.Errorf("Expected flow height after reset, got %d", s.ContentHeight())
	}
}

func TestScrollUnitsAndListeners(t *testing.T) {
	s := newTestSurface(40, 4)
	for i := 0; i < 10; i++ {
		addRow(s.Root(), "row")
	}

	calls := 0
	unsubscribe := s.OnScroll(func() { calls++ })

	s.ScrollTo(3)
	if s.ScrollTop() != 60 {
		t.Errorf("Expected ScrollTop 60, got %d", s.ScrollTop())
	}
	if s.ClientHeight() != 80 {
		t.Errorf("Expected ClientHeight 80, got %d", s.ClientHeight())
	}
	s.ScrollTo(3)
	if calls != 1 {
		t.Errorf("Expected 1 scroll event, got %d", calls)
	}

	s.ScrollBy(-10)
	if s.Offset() != 0 || calls != 2 {
		t.Errorf("Expected offset 0 after 2 events, got offset %d and %d events", s.Offset(), calls)
	}

	s.ScrollIntoView(7)
	if s.Offset() != 4 {
		t.Errorf("Expected offset 4 to reveal line 7, got %d", s.Offset())
	}
	s.ScrollIntoView(5)
	if s.Offset() != 4 {
		t.Errorf("Expected visible line to keep offset, got %d", s.Offset())
	}

	unsubscribe()
	s.ScrollTo(0)
	if calls != 3 {
		t.Errorf("Expected no events after unsubscribe, got %d", calls)
	}
}

func TestFramesCancelAndFlush(t *testing.T) {
	s := newTestSurface(40, 4)

	var order []string
	s.RequestFrame(func() { order = append(order, "a") })
	id := s.RequestFrame(func() { order = append(order, "b") })
	s.RequestFrame(func() {
		order = append(order, "c")
		s.RequestFrame(func() { order = append(order, "d") })
	})
	s.CancelFrame(id)

	s.Flush()
	if strings.Join(order, "") != "ac" {
		t.Errorf("Expected frames a and c, got %v", order)
	}
	if !s.Pending() {
		t.Fatal("Expected frame requested during flush to stay queued")
	}

	s.Flush()
	if strings.Join(order, "") != "acd" || s.Pending() {
		t.Errorf("Expected frame d on second flush, got %v", order)
	}
}

func TestFlushClampsShrunkContent(t *testing.T) {
	s := newTestSurface(40, 2)
	rows := make([]render.Element, 6)
	for i := range rows {
		rows[i] = addRow(s.Root(), "row")
	}
	s.ScrollTo(4)

	s.RequestFrame(func() {
		for _, r := range rows[2:] {
			r.Remove()
		}
	})
	s.Flush()
	if s.Offset() != 0 {
		t.Errorf("Expected offset clamped to 0, got %d", s.Offset())
	}
}

func TestClickLine(t *testing.T) {
	s := newTestSurface(40, 4)
	addRow(s.Root(), "first")
	second := addRow(s.Root(), "second")

	var clicked []render.Element
	unsubscribe := s.OnClick(func(target render.Element) { clicked = append(clicked, target) })

	if !s.ClickLine(1) {
		t.Fatal("Expected click on line 1 to hit a row")
	}
	if s.ClickLine(2) {
		t.Error("Expected click below content to miss")
	}
	if s.ClickLine(-1) {
		t.Error("Expected click on negative line to miss")
	}
	if len(clicked) != 1 || clicked[0] != second {
		t.Errorf("Expected the second row to be clicked, got %v", clicked)
	}

	text, ok := s.RowText(0)
	if !ok || text != "first" {
		t.Errorf("Expected row text %q, got %q", "first", text)
	}

	unsubscribe()
	s.ClickLine(0)
	if len(clicked) != 1 {
		t.Error("Expected no clicks after unsubscribe")
	}
}

func TestViewPaintsVisibleLines(t *testing.T) {
	s := newTestSurface(12, 3)
	for _, text := range []string{"alpha", "beta", "a very long row text", "delta"} {
		addRow(s.Root(), text)
	}

	view := zone.Scan(s.View(-1))
	lines := strings.Split(view, "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected 3 painted lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "alpha") {
		t.Errorf("Expected first line to contain alpha, got %q", lines[0])
	}
	if strings.Contains(lines[2], "a very long row text") {
		t.Errorf("Expected long row to be truncated, got %q", lines[2])
	}

	s.SetSize(12, 0)
	if s.View(-1) != "" {
		t.Error("Expected empty view with zero height")
	}
}

func TestHandleMouseWheel(t *testing.T) {
	s := newTestSurface(40, 2)
	for i := 0; i < 10; i++ {
		addRow(s.Root(), "row")
	}

	line, handled := s.HandleMouse(tea.MouseMsg{Button: tea.MouseButtonWheelDown, Action: tea.MouseActionPress})
	if !handled || line != -1 {
		t.Errorf("Expected wheel to be handled without a line, got %d %v", line, handled)
	}
	if s.Offset() != WheelStep {
		t.Errorf("Expected offset %d, got %d", WheelStep, s.Offset())
	}

	s.HandleMouse(tea.MouseMsg{Button: tea.MouseButtonWheelUp, Action: tea.MouseActionPress})
	if s.Offset() != 0 {
		t.Errorf("Expected offset 0, got %d", s.Offset())
	}

	if _, handled := s.HandleMouse(tea.MouseMsg{Button: tea.MouseButtonRight, Action: tea.MouseActionPress}); handled {
		t.Error("Expected right button to be ignored")
	}
}
