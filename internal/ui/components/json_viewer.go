package components

import (
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rebeliceyang/lazyjson/internal/jsontree"
	"github.com/rebeliceyang/lazyjson/internal/logger"
	"github.com/rebeliceyang/lazyjson/internal/ui/surface"
	"github.com/rebeliceyang/lazyjson/internal/ui/theme"
)

// FrameMsg runs the deferred window passes of the viewer
type FrameMsg struct{}

// writeClipboard is replaced in tests
var writeClipboard = clipboard.WriteAll

// CopiedMsg reports the outcome of a copy to the clipboard
type CopiedMsg struct {
	Text string
	Err  error
}

// JSONViewer displays a document tree in a scrollable viewport
type JSONViewer struct {
	Width  int
	Height int
	Theme  theme.Theme
	Keys   ViewerKeyMap

	// FrameInterval delays the window pass that follows a scroll
	FrameInterval time.Duration
	// ScrollStep is the number of lines a wheel notch scrolls
	ScrollStep int

	data    *jsontree.Data
	surface *surface.Surface

	cursor  int
	query   string
	results []jsontree.SearchResult
	active  int

	frameQueued bool
}

// NewJSONViewer creates an empty viewer
func NewJSONViewer(th theme.Theme) *JSONViewer {
	return &JSONViewer{
		Width:         80,
		Height:        20,
		Theme:         th,
		Keys:          DefaultViewerKeyMap(),
		FrameInterval: 16 * time.Millisecond,
		ScrollStep:    surface.WheelStep,
		active:        -1,
	}
}

// SetData replaces the displayed document. The previous one is destroyed.
func (v *JSONViewer) SetData(d *jsontree.Data) tea.Cmd {
	if v.data != nil {
		v.data.Destroy()
	}
	v.data = d
	v.cursor = 0
	v.query = ""
	v.results = nil
	v.active = -1

	if d == nil {
		v.surface = nil
		return nil
	}
	v.surface = surface.New(d.Options().RowHeight, v.Theme)
	v.surface.SetWheelStep(v.ScrollStep)
	v.surface.SetSize(v.Width, v.Height)
	d.Init(v.surface)
	return v.scheduleFrame()
}

// Reload replaces the document and restores the query, cursor and scroll
// offset as far as the new document allows.
func (v *JSONViewer) Reload(d *jsontree.Data) tea.Cmd {
	query, cursor, offset := v.query, v.cursor, v.Offset()
	cmd := v.SetData(d)
	if d == nil {
		return cmd
	}

	if query != "" {
		v.query = query
		v.results = d.Search(query)
		if len(v.results) > 0 {
			v.active = 0
			v.results[0].Highlight(true)
		}
	}
	v.surface.ScrollTo(offset)
	v.cursor = cursor
	v.clampCursor()
	return tea.Batch(cmd, v.scheduleFrame())
}

// Data returns the displayed document, or nil
func (v *JSONViewer) Data() *jsontree.Data {
	return v.data
}

// SetSize resizes the viewport
func (v *JSONViewer) SetSize(width, height int) tea.Cmd {
	v.Width, v.Height = width, height
	if v.surface == nil {
		return nil
	}
	v.surface.SetSize(width, height)
	v.clampCursor()
	return v.scheduleFrame()
}

// Update handles keyboard, mouse and frame messages
func (v *JSONViewer) Update(msg tea.Msg) (*JSONViewer, tea.Cmd) {
	if v.surface == nil {
		if _, ok := msg.(FrameMsg); ok {
			v.frameQueued = false
		}
		return v, nil
	}

	switch msg := msg.(type) {
	case FrameMsg:
		v.frameQueued = false
		v.surface.Flush()
		v.clampCursor()

	case tea.MouseMsg:
		line, handled := v.surface.HandleMouse(msg)
		if !handled {
			return v, nil
		}
		if line >= 0 {
			v.cursor = line
		}
		v.keepCursorVisible()

	case tea.KeyMsg:
		half := max(1, v.Height/2)
		switch {
		case key.Matches(msg, v.Keys.Up):
			v.moveCursor(-1)
		case key.Matches(msg, v.Keys.Down):
			v.moveCursor(1)
		case key.Matches(msg, v.Keys.HalfUp):
			v.surface.ScrollBy(-half)
			v.moveCursor(-half)
		case key.Matches(msg, v.Keys.HalfDown):
			v.surface.ScrollBy(half)
			v.moveCursor(half)
		case key.Matches(msg, v.Keys.Top):
			v.moveCursor(-v.cursor)
		case key.Matches(msg, v.Keys.Bottom):
			v.moveCursor(v.surface.ContentHeight())
		case key.Matches(msg, v.Keys.Toggle):
			v.surface.ClickLine(v.cursor)
			v.clampCursor()
		case key.Matches(msg, v.Keys.Next):
			v.NextMatch()
		case key.Matches(msg, v.Keys.Prev):
			v.PrevMatch()
		case key.Matches(msg, v.Keys.Copy):
			return v, tea.Batch(v.CopyActive(), v.scheduleFrame())
		default:
			return v, nil
		}
	}

	return v, v.scheduleFrame()
}

// Search runs a query, highlights the first match and scrolls to it. An empty
// query clears the search.
func (v *JSONViewer) Search(query string) tea.Cmd {
	if v.data == nil {
		return nil
	}
	if r, ok := v.Active(); ok {
		r.Highlight(false)
	}

	v.query = query
	v.results = v.data.Search(query)
	v.active = -1
	if len(v.results) > 0 {
		v.setActive(0)
	}
	return v.scheduleFrame()
}

// ClearSearch drops the current query
func (v *JSONViewer) ClearSearch() tea.Cmd {
	return v.Search("")
}

// NextMatch moves to the next match, wrapping around
func (v *JSONViewer) NextMatch() {
	if n := len(v.results); n > 0 {
		v.setActive((v.active + 1) % n)
	}
}

// PrevMatch moves to the previous match, wrapping around
func (v *JSONViewer) PrevMatch() {
	if n := len(v.results); n > 0 {
		v.setActive((v.active - 1 + n) % n)
	}
}

// Active returns the highlighted match
func (v *JSONViewer) Active() (jsontree.SearchResult, bool) {
	if v.active < 0 || v.active >= len(v.results) {
		return nil, false
	}
	return v.results[v.active], true
}

// Matches returns the index of the active match and the match count. The
// index is -1 without matches.
func (v *JSONViewer) Matches() (int, int) {
	return v.active, len(v.results)
}

// Results returns the matches of the current query in document order
func (v *JSONViewer) Results() []jsontree.SearchResult {
	return v.results
}

// Query returns the current search query
func (v *JSONViewer) Query() string {
	return v.query
}

// Cursor returns the content line under the cursor
func (v *JSONViewer) Cursor() int {
	return v.cursor
}

// Offset returns the first visible content line
func (v *JSONViewer) Offset() int {
	if v.surface == nil {
		return 0
	}
	return v.surface.Offset()
}

// CursorText returns the plain text of the row under the cursor
func (v *JSONViewer) CursorText() string {
	if v.surface == nil {
		return ""
	}
	text, _ := v.surface.RowText(v.cursor)
	return text
}

// CopyActive copies the active match value, or the row under the cursor
func (v *JSONViewer) CopyActive() tea.Cmd {
	text := v.CursorText()
	if r, ok := v.Active(); ok {
		text = r.Value()
	}
	if text == "" {
		return nil
	}
	return copyText(text)
}

// copyText writes text to the clipboard off the update loop. text is captured
// here so later edits of the caller's state do not change what is copied.
func copyText(text string) tea.Cmd {
	return func() tea.Msg {
		return CopiedMsg{Text: text, Err: writeClipboard(text)}
	}
}

// View renders the visible rows
func (v *JSONViewer) View() string {
	if v.surface == nil {
		return lipgloss.NewStyle().
			Width(v.Width).
			Height(v.Height).
			Foreground(v.Theme.Metadata).
			Render("No document loaded")
	}
	return v.surface.View(v.cursor)
}

func (v *JSONViewer) setActive(i int) {
	if r, ok := v.Active(); ok {
		r.Highlight(false)
	}
	v.active = i
	r := v.results[i]
	r.Highlight(true)

	line := r.ApproxScrollPosition() / v.data.Options().RowHeight
	v.cursor = line
	if line < v.surface.Offset() || line >= v.surface.Offset()+v.Height {
		v.surface.ScrollTo(line - v.Height/2)
	}
	logger.Debug("active match", "index", i, "path", r.Path().String(), "line", line)
}

func (v *JSONViewer) moveCursor(delta int) {
	v.cursor += delta
	v.clampCursor()
	v.surface.ScrollIntoView(v.cursor)
}

func (v *JSONViewer) clampCursor() {
	last := max(0, v.surface.ContentHeight()-1)
	v.cursor = max(0, min(v.cursor, last))
}

func (v *JSONViewer) keepCursorVisible() {
	top := v.surface.Offset()
	bottom := top + max(1, v.Height) - 1
	v.cursor = max(top, min(v.cursor, bottom))
	v.clampCursor()
}

func (v *JSONViewer) scheduleFrame() tea.Cmd {
	if v.surface == nil || v.frameQueued || !v.surface.Pending() {
		return nil
	}
	v.frameQueued = true
	return tea.Tick(v.FrameInterval, func(time.Time) tea.Msg {
		return FrameMsg{}
	})
}
