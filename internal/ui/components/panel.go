package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Panel frames content with a rounded border and a title line
type Panel struct {
	Title   string
	Info    string // right-aligned next to the title
	Content string
	Width   int
	Height  int
	Style   lipgloss.Style
}

// InnerSize returns the space left for content
func (p *Panel) InnerSize() (int, int) {
	// border on both sides, plus the title line
	return max(0, p.Width-2), max(0, p.Height-3)
}

// View renders the panel
func (p *Panel) View() string {
	if p.Width <= 0 || p.Height <= 0 {
		return ""
	}
	innerWidth, innerHeight := p.InnerSize()

	title := runewidth.Truncate(p.Title, innerWidth, "…")
	gap := innerWidth - runewidth.StringWidth(title) - runewidth.StringWidth(p.Info)
	header := lipgloss.NewStyle().Bold(true).Render(title)
	if gap > 0 && p.Info != "" {
		header += strings.Repeat(" ", gap) + lipgloss.NewStyle().Faint(true).Render(p.Info)
	}

	style := p.Style.
		Width(innerWidth).
		Height(innerHeight + 1).
		Border(lipgloss.RoundedBorder())

	return style.Render(header + "\n" + p.Content)
}
