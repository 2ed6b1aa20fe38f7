package components

import (
	"bytes"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/rebeliceyang/lazyjson/internal/jsondoc"
	"github.com/rebeliceyang/lazyjson/internal/ui/theme"
)

// PreviewPane displays the full value of the active match
type PreviewPane struct {
	Width     int
	MaxHeight int    // Maximum height including borders
	Content   string // Raw content to display
	Title     string // JSON path of the value

	Visible bool

	// Scrolling
	scrollY      int
	contentLines []string // Formatted content split into lines
	isJSON       bool

	// Styling
	Theme           theme.Theme
	style           lipgloss.Style
	chromaStyle     *chroma.Style
	chromaFormatter chroma.Formatter
}

// NewPreviewPane creates a new preview pane
func NewPreviewPane(th theme.Theme) *PreviewPane {
	p := &PreviewPane{
		Width:     80,
		MaxHeight: 12,
		Theme:     th,
		style: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(th.Border).
			Padding(0, 1),
	}
	p.initChroma()
	return p
}

// initChroma initializes the syntax highlighter for the theme
func (p *PreviewPane) initChroma() {
	p.chromaStyle = styles.Get(p.Theme.ChromaStyle)
	if p.chromaStyle == nil {
		p.chromaStyle = styles.Fallback
	}

	// Use terminal256 formatter for ANSI output
	p.chromaFormatter = formatters.Get("terminal256")
	if p.chromaFormatter == nil {
		p.chromaFormatter = formatters.Fallback
	}
}

// SetContent sets the content to display
func (p *PreviewPane) SetContent(content, title string) {
	// Skip if content hasn't changed
	if p.Content == content && p.Title == title {
		return
	}

	p.Content = content
	p.Title = title
	p.scrollY = 0
	p.contentLines = nil // Clear cached lines, will be formatted on demand
}

// formatContent formats the raw content for display
func (p *PreviewPane) formatContent() {
	if p.Content == "" {
		p.contentLines = []string{}
		p.isJSON = false
		return
	}

	contentWidth := max(10, p.Width-p.style.GetHorizontalFrameSize())

	formatted := p.Content
	p.isJSON = jsondoc.IsJSON(p.Content)
	if p.isJSON {
		formatted = jsondoc.Reformat(p.Content)
	}

	p.contentLines = wrapText(formatted, contentWidth)
}

// wrapText wraps text to fit within maxWidth
func wrapText(text string, maxWidth int) []string {
	var result []string
	for _, line := range strings.Split(text, "\n") {
		if runewidth.StringWidth(line) <= maxWidth {
			result = append(result, line)
			continue
		}

		// Wrap long lines
		var current strings.Builder
		currentWidth := 0
		for _, r := range line {
			rWidth := runewidth.RuneWidth(r)
			if currentWidth+rWidth > maxWidth {
				result = append(result, current.String())
				current.Reset()
				currentWidth = 0
			}
			current.WriteRune(r)
			currentWidth += rWidth
		}
		if current.Len() > 0 {
			result = append(result, current.String())
		}
	}
	return result
}

// highlightLine colors one line of JSON
func (p *PreviewPane) highlightLine(line string) string {
	plain := lipgloss.NewStyle().Foreground(p.Theme.Foreground)
	if line == "" || !p.isJSON {
		return plain.Render(line)
	}

	lexer := lexers.Get("json")
	if lexer == nil {
		return plain.Render(line)
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, line)
	if err != nil {
		return plain.Render(line)
	}

	var buf bytes.Buffer
	if err := p.chromaFormatter.Format(&buf, p.chromaStyle, iterator); err != nil {
		return plain.Render(line)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// Toggle toggles the preview pane visibility
func (p *PreviewPane) Toggle() {
	p.Visible = !p.Visible
	if !p.Visible {
		p.contentLines = nil // Clear formatted content
	}
}

// Height returns the rendered height including borders. It is MaxHeight when
// visible for a stable layout.
func (p *PreviewPane) Height() int {
	if !p.Visible {
		return 0
	}
	return p.MaxHeight
}

func (p *PreviewPane) visibleLines() int {
	// -2 for header and footer
	return max(1, p.MaxHeight-p.style.GetVerticalFrameSize()-2)
}

// IsScrollable returns true if content exceeds visible area
func (p *PreviewPane) IsScrollable() bool {
	p.ensureFormatted()
	return len(p.contentLines) > p.visibleLines()
}

// ScrollUp scrolls content up
func (p *PreviewPane) ScrollUp() {
	if p.scrollY > 0 {
		p.scrollY--
	}
}

// ScrollDown scrolls content down
func (p *PreviewPane) ScrollDown() {
	p.ensureFormatted()
	maxScroll := max(0, len(p.contentLines)-p.visibleLines())
	if p.scrollY < maxScroll {
		p.scrollY++
	}
}

// CopyContent copies the current preview content to the clipboard
func (p *PreviewPane) CopyContent() tea.Cmd {
	if p.Content == "" {
		return nil
	}
	return copyText(p.Content)
}

func (p *PreviewPane) ensureFormatted() {
	if p.contentLines == nil {
		p.formatContent()
	}
}

// View renders the preview pane
func (p *PreviewPane) View() string {
	if !p.Visible {
		return ""
	}
	p.ensureFormatted()

	contentWidth := p.Width - p.style.GetHorizontalFrameSize()

	titleStyle := lipgloss.NewStyle().
		Foreground(p.Theme.Info).
		Bold(true)

	title := "Preview"
	if p.Title != "" {
		title = "Preview: " + p.Title
	}
	if runewidth.StringWidth(title) > contentWidth {
		title = runewidth.Truncate(title, max(0, contentWidth), "…")
	}
	parts := []string{titleStyle.Render(title)}

	if len(p.contentLines) == 0 {
		parts = append(parts, lipgloss.NewStyle().
			Foreground(p.Theme.Metadata).
			Render("No match selected. Press / to search."))
	}

	endLine := min(p.scrollY+p.visibleLines(), len(p.contentLines))
	for i := p.scrollY; i < endLine; i++ {
		parts = append(parts, p.highlightLine(p.contentLines[i]))
	}

	helpParts := []string{}
	if p.IsScrollable() {
		helpParts = append(helpParts, "Ctrl+↑↓: Scroll")
	}
	helpParts = append(helpParts, "y: Copy", "p: Toggle")
	helpText := strings.Join(helpParts, " │ ")
	helpStyle := lipgloss.NewStyle().
		Foreground(p.Theme.Metadata).
		Italic(true)

	// right-aligned help
	padding := max(0, contentWidth-runewidth.StringWidth(helpText))
	parts = append(parts, strings.Repeat(" ", padding)+helpStyle.Render(helpText))

	innerHeight := max(3, p.MaxHeight-p.style.GetVerticalFrameSize())
	containerStyle := p.style.
		Width(p.Width - p.style.GetHorizontalFrameSize()).
		Height(innerHeight).
		MaxHeight(innerHeight + p.style.GetVerticalFrameSize())

	return containerStyle.Render(strings.Join(parts, "\n"))
}
