package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rebeliceyang/lazyjson/internal/jsontree"
	"github.com/rebeliceyang/lazyjson/internal/ui/theme"
)

// SearchInputMsg is sent when the query changes or is submitted
type SearchInputMsg struct {
	Query  string
	Submit bool
}

// CloseSearchMsg is sent when search should be closed
type CloseSearchMsg struct{}

// SearchInput provides a search input box
type SearchInput struct {
	Input   textinput.Model
	Theme   theme.Theme
	Width   int
	Visible bool

	// History holds earlier queries, most recent first
	History    []string
	historyIdx int // -1 while editing a fresh query
	draft      string
}

// maxHistory caps the in-memory query history
const maxHistory = 100

// NewSearchInput creates a new search input
func NewSearchInput(th theme.Theme) *SearchInput {
	ti := textinput.New()
	ti.Placeholder = "value, =exact, path.*=value"
	ti.Prompt = "/"
	ti.CharLimit = 256
	ti.Width = 40

	return &SearchInput{
		Input:      ti,
		Theme:      th,
		historyIdx: -1,
	}
}

// Open shows the input with query preset
func (s *SearchInput) Open(query string) tea.Cmd {
	s.Visible = true
	s.historyIdx = -1
	s.Input.SetValue(query)
	s.Input.CursorEnd()
	return s.Input.Focus()
}

// Close hides the input and keeps its value
func (s *SearchInput) Close() {
	s.Visible = false
	s.Input.Blur()
}

// Reset clears the search input
func (s *SearchInput) Reset() {
	s.Input.SetValue("")
}

// Remember moves query to the front of the history
func (s *SearchInput) Remember(query string) {
	query = strings.TrimSpace(query)
	if query == "" {
		return
	}
	history := []string{query}
	for _, h := range s.History {
		if h != query && len(history) < maxHistory {
			history = append(history, h)
		}
	}
	s.History = history
	s.historyIdx = -1
}

// recall steps through the history; positive delta goes to older queries
func (s *SearchInput) recall(delta int) bool {
	next := s.historyIdx + delta
	if next < -1 || next >= len(s.History) {
		return false
	}
	if s.historyIdx == -1 {
		s.draft = s.Input.Value()
	}
	s.historyIdx = next

	if next == -1 {
		s.Input.SetValue(s.draft)
	} else {
		s.Input.SetValue(s.History[next])
	}
	s.Input.CursorEnd()
	return true
}

// Mode describes how the current value will be matched
func (s *SearchInput) Mode() string {
	q := jsontree.ParseQuery(s.Input.Value())
	switch {
	case q.Mode == jsontree.QueryPath && q.Strict:
		return "Path exact"
	case q.Mode == jsontree.QueryPath:
		return "Path"
	case q.Strict:
		return "Exact"
	default:
		return "Value"
	}
}

// ToggleStrict switches the current value between case-insensitive and exact
// matching
func (s *SearchInput) ToggleStrict() {
	value := s.Input.Value()
	q := jsontree.ParseQuery(value)

	switch q.Mode {
	case jsontree.QueryClear:
		return
	case jsontree.QueryValue:
		if strings.HasPrefix(value, "=") {
			value = value[1:]
		} else {
			value = "=" + value
		}
	case jsontree.QueryPath:
		i := strings.Index(value, "=")
		if q.Strict {
			value = value[:i] + value[i+1:]
		} else {
			value = value[:i] + "=" + value[i:]
		}
	}
	s.Input.SetValue(value)
	s.Input.CursorEnd()
}

// Update handles messages
func (s *SearchInput) Update(msg tea.Msg) (*SearchInput, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "tab":
			s.ToggleStrict()
			return s, s.emit(false)
		case "up", "ctrl+p":
			if s.recall(1) {
				return s, s.emit(false)
			}
			return s, nil
		case "down", "ctrl+n":
			if s.recall(-1) {
				return s, s.emit(false)
			}
			return s, nil
		case "enter":
			s.historyIdx = -1
			return s, s.emit(true)
		case "esc":
			return s, func() tea.Msg {
				return CloseSearchMsg{}
			}
		}
	}

	before := s.Input.Value()
	var cmd tea.Cmd
	s.Input, cmd = s.Input.Update(msg)
	if s.Input.Value() != before {
		return s, tea.Batch(cmd, s.emit(false))
	}
	return s, cmd
}

func (s *SearchInput) emit(submit bool) tea.Cmd {
	query := s.Input.Value()
	return func() tea.Msg {
		return SearchInputMsg{Query: query, Submit: submit}
	}
}

// View renders the search input
func (s *SearchInput) View() string {
	modeColor := s.Theme.Success
	if strings.HasPrefix(s.Mode(), "Path") {
		modeColor = s.Theme.Info
	}
	modeStyle := lipgloss.NewStyle().
		Foreground(modeColor).
		Bold(true)

	// Reserve space for the mode indicator and the border
	s.Input.Width = max(20, s.Width-20)

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.Theme.BorderFocused).
		Padding(0, 1).
		Width(max(0, s.Width-2))

	helpStyle := lipgloss.NewStyle().
		Foreground(s.Theme.Metadata).
		Italic(true)

	content := modeStyle.Render("["+s.Mode()+"]") + " " + s.Input.View()
	helpText := helpStyle.Render("Tab: toggle exact │ ↑/↓: history │ Enter: keep │ Esc: clear")

	return boxStyle.Render(content + "\n" + helpText)
}
