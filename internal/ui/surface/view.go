package surface

import (
	"strconv"
	"strings"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/mattn/go-runewidth"

	"github.com/rebeliceyang/lazyjson/internal/render"
	"github.com/rebeliceyang/lazyjson/internal/ui/theme"
)

// WheelStep is the default number of lines a mouse wheel notch scrolls
const WheelStep = 3

type styles struct {
	base        lipgloss.Style
	guide       lipgloss.Style
	selection   lipgloss.Color
	byClass     map[string]lipgloss.Style
	match       lipgloss.Style
	matchActive lipgloss.Style
}

func newStyles(th theme.Theme) styles {
	fg := func(c lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(c)
	}
	return styles{
		base:      fg(th.Foreground),
		guide:     fg(th.Guide),
		selection: th.Selection,
		byClass: map[string]lipgloss.Style{
			render.ClassKey:       fg(th.JSONKey),
			render.ClassIndex:     fg(th.JSONIndex),
			render.ClassString:    fg(th.JSONString),
			render.ClassNumber:    fg(th.JSONNumber),
			render.ClassBoolean:   fg(th.JSONBoolean),
			render.ClassNull:      fg(th.JSONNull).Italic(true),
			render.ClassBrace:     fg(th.JSONBrace),
			render.ClassCaret:     fg(th.Caret),
			render.ClassMeta:      fg(th.Metadata).Faint(true),
			render.ClassSeparator: fg(th.Foreground),
		},
		match: lipgloss.NewStyle().
			Foreground(th.MatchText).
			Background(th.Match),
		matchActive: lipgloss.NewStyle().
			Foreground(th.MatchText).
			Background(th.MatchActive).
			Bold(true),
	}
}

func (st styles) span(e *element) lipgloss.Style {
	switch {
	case e.HasClass(render.ClassMatchActive):
		return st.matchActive
	case e.HasClass(render.ClassMatch):
		return st.match
	}
	for _, c := range e.classes {
		if s, ok := st.byClass[c]; ok {
			return s
		}
	}
	return st.base
}

type segment struct {
	text  string
	style lipgloss.Style
}

// View paints the visible lines. cursor is a content line to highlight, or -1.
func (s *Surface) View(cursor int) string {
	if s.height <= 0 {
		return ""
	}
	rows := s.layout(s.scroll, s.scroll+s.height)

	lines := make([]string, len(rows))
	for i, r := range rows {
		line := s.scroll + i
		if r.el == nil {
			lines[i] = ""
			continue
		}
		lines[i] = zone.Mark(s.zoneID(i), s.paintRow(r, line == cursor))
	}
	return strings.Join(lines, "\n")
}

// Lines returns the plain text of the visible lines, guides included
func (s *Surface) Lines() []string {
	rows := s.layout(s.scroll, s.scroll+s.height)
	out := make([]string, len(rows))
	for i, r := range rows {
		if r.el != nil {
			out[i] = strings.Repeat(guide, r.indent) + r.el.Text()
		}
	}
	return out
}

func (s *Surface) paintRow(r paintedRow, selected bool) string {
	segs := make([]segment, 0, len(r.el.children)+1)
	if r.indent > 0 {
		segs = append(segs, segment{text: strings.Repeat(guide, r.indent), style: s.styles.guide})
	}
	for _, c := range r.el.children {
		if c.role != render.Span || c.hidden() || c.text == "" {
			continue
		}
		segs = append(segs, segment{text: c.text, style: s.styles.span(c)})
	}

	var b strings.Builder
	remaining := s.width
	for _, seg := range segs {
		if s.width > 0 && remaining <= 0 {
			break
		}
		text := seg.text
		if s.width > 0 {
			if w := runewidth.StringWidth(text); w > remaining {
				text = runewidth.Truncate(text, remaining, "…")
			}
			remaining -= runewidth.StringWidth(text)
		}
		style := seg.style
		if selected {
			style = style.Background(s.styles.selection)
		}
		b.WriteString(style.Render(text))
	}

	if selected && s.width > 0 && remaining > 0 {
		b.WriteString(lipgloss.NewStyle().Background(s.styles.selection).Render(strings.Repeat(" ", remaining)))
	}
	return b.String()
}

// HandleMouse scrolls on wheel events and clicks the row under a left press.
// It returns the clicked content line, or -1.
func (s *Surface) HandleMouse(msg tea.MouseMsg) (int, bool) {
	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		s.ScrollBy(-s.wheelStep)
		return -1, true
	case msg.Button == tea.MouseButtonWheelDown:
		s.ScrollBy(s.wheelStep)
		return -1, true
	case msg.Button != tea.MouseButtonLeft || msg.Action != tea.MouseActionPress:
		return -1, false
	}

	for i := 0; i < s.height; i++ {
		if zone.Get(s.zoneID(i)).InBounds(msg) {
			line := s.scroll + i
			return line, s.ClickLine(line)
		}
	}
	return -1, false
}

// SetWheelStep sets the lines scrolled per wheel notch
func (s *Surface) SetWheelStep(lines int) {
	if lines <= 0 {
		lines = WheelStep
	}
	s.wheelStep = lines
}

func (s *Surface) zoneID(i int) string {
	return s.zonePrefix + "row-" + strconv.Itoa(i)
}

var surfaces atomic.Int64

func newZonePrefix() string {
	return "surface" + strconv.FormatInt(surfaces.Add(1), 10) + "-"
}
