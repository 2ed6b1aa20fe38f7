package app

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/mattn/go-runewidth"

	"github.com/rebeliceyang/lazyjson/internal/config"
	"github.com/rebeliceyang/lazyjson/internal/export"
	"github.com/rebeliceyang/lazyjson/internal/history"
	"github.com/rebeliceyang/lazyjson/internal/jsondoc"
	"github.com/rebeliceyang/lazyjson/internal/jsontree"
	"github.com/rebeliceyang/lazyjson/internal/logger"
	"github.com/rebeliceyang/lazyjson/internal/models"
	"github.com/rebeliceyang/lazyjson/internal/ui/components"
	"github.com/rebeliceyang/lazyjson/internal/ui/help"
	"github.com/rebeliceyang/lazyjson/internal/ui/theme"
	"github.com/rebeliceyang/lazyjson/internal/watch"
)

// searchBoxHeight is the height of the search box: border, input and help line
const searchBoxHeight = 4

// App is the main application model
type App struct {
	state  models.AppState
	config *config.Config
	theme  theme.Theme
	keys   KeyMap

	panel   components.Panel
	viewer  *components.JSONViewer
	search  *components.SearchInput
	preview *components.PreviewPane

	// Error overlay
	showError    bool
	errorOverlay *components.ErrorOverlay

	doc     any
	format  jsondoc.Format
	watcher *watch.Watcher
	history *history.Store
	status  string
}

// DocumentLoadedMsg is sent when a document has been read and its tree built
type DocumentLoadedMsg struct {
	Doc    any
	Data   *jsontree.Data
	Format jsondoc.Format
	Reload bool
	Err    error
}

// HistoryLoadedMsg carries the recent queries from the history store
type HistoryLoadedMsg struct {
	Queries []string
	Err     error
}

// ExportedMsg is sent when the matches have been written to a file
type ExportedMsg struct {
	Path  string
	Count int
	Err   error
}

// ErrorMsg is sent when an error occurs
type ErrorMsg struct {
	Title   string
	Message string
}

// New creates a new App instance with config
func New(cfg *config.Config, src models.Source) *App {
	if cfg == nil {
		cfg = config.GetDefaults()
	}
	th := theme.GetTheme(cfg.UI.Theme)

	viewer := components.NewJSONViewer(th)
	viewer.FrameInterval = cfg.Viewer.FrameInterval()
	viewer.ScrollStep = cfg.Viewer.ScrollStep

	preview := components.NewPreviewPane(th)
	preview.MaxHeight = cfg.UI.PreviewHeight

	a := &App{
		state:        models.NewAppState(src),
		config:       cfg,
		theme:        th,
		keys:         DefaultKeyMap(),
		viewer:       viewer,
		search:       components.NewSearchInput(th),
		preview:      preview,
		errorOverlay: components.NewErrorOverlay(th),
		panel: components.Panel{
			Title: src.Name(),
			Style: lipgloss.NewStyle().BorderForeground(th.BorderFocused),
		},
	}
	a.updateDimensions()
	return a
}

// SetWatcher reloads the document whenever w reports a change
func (a *App) SetWatcher(w *watch.Watcher) {
	a.watcher = w
}

// SetHistory records submitted searches in s and offers them for recall
func (a *App) SetHistory(s *history.Store) {
	a.history = s
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.load(false), a.waitForChange(), a.loadHistory())
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ErrorMsg:
		a.ShowError(msg.Title, msg.Message)
		return a, nil

	case tea.WindowSizeMsg:
		a.state.Width = msg.Width
		a.state.Height = msg.Height
		return a, a.updateDimensions()

	case DocumentLoadedMsg:
		return a, a.handleLoaded(msg)

	case watch.FileChangedMsg:
		logger.Info("file changed", "path", msg.Path)
		return a, tea.Batch(a.load(true), a.waitForChange())

	case components.FrameMsg:
		var cmd tea.Cmd
		a.viewer, cmd = a.viewer.Update(msg)
		return a, cmd

	case components.SearchInputMsg:
		cmd := a.viewer.Search(msg.Query)
		if msg.Submit {
			a.closeSearch()
			a.search.Remember(msg.Query)
			_, total := a.viewer.Matches()
			cmd = tea.Batch(cmd, a.updateDimensions(), a.recordSearch(msg.Query, total))
		}
		a.updatePreview()
		return a, cmd

	case components.CloseSearchMsg:
		a.closeSearch()
		a.search.Reset()
		cmd := a.viewer.ClearSearch()
		a.updatePreview()
		return a, tea.Batch(cmd, a.updateDimensions())

	case HistoryLoadedMsg:
		if msg.Err != nil {
			logger.Warn("history load failed", "error", msg.Err)
			return a, nil
		}
		a.search.History = msg.Queries
		return a, nil

	case ExportedMsg:
		if msg.Err != nil {
			a.status = "Export failed: " + msg.Err.Error()
			logger.Error("export failed", "error", msg.Err)
		} else {
			a.status = fmt.Sprintf("Exported %d matches to %s", msg.Count, msg.Path)
			logger.Info("matches exported", "path", msg.Path, "count", msg.Count)
		}
		return a, nil

	case components.CopiedMsg:
		if msg.Err != nil {
			a.status = "Copy failed: " + msg.Err.Error()
			logger.Warn("copy failed", "error", msg.Err)
		} else {
			a.status = fmt.Sprintf("Copied %d characters", utf8.RuneCountInString(msg.Text))
		}
		return a, nil

	case tea.MouseMsg:
		if a.showError || a.state.ViewMode != models.NormalMode {
			return a, nil
		}
		var cmd tea.Cmd
		a.viewer, cmd = a.viewer.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Handle error overlay dismissal first if visible
	if a.showError {
		switch msg.String() {
		case "esc", "enter":
			a.DismissError()
		case "q", "ctrl+c":
			// Allow quit keys to pass through even when error is showing
			return a, tea.Quit
		}
		// Consume all other keys when error is showing
		return a, nil
	}

	switch a.state.ViewMode {
	case models.HelpMode:
		switch msg.String() {
		case "?", "esc", "q":
			a.state.ViewMode = models.NormalMode
		case "ctrl+c":
			return a, tea.Quit
		}
		return a, nil

	case models.SearchMode:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		var cmd tea.Cmd
		a.search, cmd = a.search.Update(msg)
		return a, cmd
	}

	a.status = ""
	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keys.Help):
		a.state.ViewMode = models.HelpMode
		return a, nil

	case key.Matches(msg, a.keys.Search):
		a.state.ViewMode = models.SearchMode
		cmd := a.search.Open(a.viewer.Query())
		return a, tea.Batch(cmd, a.updateDimensions())

	case key.Matches(msg, a.keys.ClearSearch):
		if a.viewer.Query() == "" {
			return a, nil
		}
		a.search.Reset()
		cmd := a.viewer.ClearSearch()
		a.updatePreview()
		return a, cmd

	case key.Matches(msg, a.keys.TogglePreview):
		a.preview.Toggle()
		a.updatePreview()
		return a, a.updateDimensions()

	case key.Matches(msg, a.keys.PreviewUp) && a.preview.Visible:
		a.preview.ScrollUp()
		return a, nil

	case key.Matches(msg, a.keys.PreviewDown) && a.preview.Visible:
		a.preview.ScrollDown()
		return a, nil

	case key.Matches(msg, a.keys.Reload):
		if !a.state.Source.Reloadable() {
			a.status = "stdin cannot be reloaded"
			return a, nil
		}
		return a, a.load(true)

	case key.Matches(msg, a.keys.Export):
		if len(a.viewer.Results()) == 0 {
			a.status = "No matches to export"
			return a, nil
		}
		return a, a.exportMatches()

	case key.Matches(msg, a.keys.Viewer.Copy) && a.preview.Visible && a.preview.Content != "":
		return a, a.preview.CopyContent()
	}

	var cmd tea.Cmd
	a.viewer, cmd = a.viewer.Update(msg)
	a.updatePreview()
	return a, cmd
}

func (a *App) handleLoaded(msg DocumentLoadedMsg) tea.Cmd {
	if msg.Err != nil {
		logger.Error("load failed", "source", a.state.Source.Name(), "error", msg.Err)
		if msg.Reload && a.viewer.Data() != nil {
			a.status = "Reload failed: " + msg.Err.Error()
			return nil
		}
		a.ShowError("Failed to load document", msg.Err.Error())
		return nil
	}

	a.doc = msg.Doc
	a.format = msg.Format

	var cmd tea.Cmd
	if msg.Reload {
		cmd = a.viewer.Reload(msg.Data)
		a.status = "Reloaded"
	} else {
		cmd = a.viewer.SetData(msg.Data)
	}
	a.updatePreview()
	return cmd
}

// load reads and parses the source off the update loop
func (a *App) load(reload bool) tea.Cmd {
	src := a.state.Source
	opts := a.config.Viewer.Options()

	return func() tea.Msg {
		started := time.Now()

		raw, format := src.Raw, src.Format
		if src.Path != "" {
			var err error
			raw, format, err = jsondoc.ReadFile(src.Path, src.Format)
			if err != nil {
				return DocumentLoadedMsg{Reload: reload, Err: err}
			}
		} else if format == "" {
			format = jsondoc.DetectFormat("", raw)
		}

		doc, err := jsondoc.Decode(raw, format)
		if err != nil {
			return DocumentLoadedMsg{Reload: reload, Err: fmt.Errorf("failed to parse %s as %s: %w", src.Name(), format, err)}
		}
		data, err := jsontree.New(doc, opts)
		if err != nil {
			return DocumentLoadedMsg{Reload: reload, Err: err}
		}

		logger.Info("document loaded",
			"source", src.Name(),
			"format", format,
			"bytes", len(raw),
			"type", jsondoc.Type(doc),
			"elapsed", time.Since(started),
		)
		return DocumentLoadedMsg{Doc: doc, Data: data, Format: format, Reload: reload}
	}
}

func (a *App) loadHistory() tea.Cmd {
	if a.history == nil {
		return nil
	}
	store, limit := a.history, a.config.History.Limit
	return func() tea.Msg {
		queries, err := store.Recent(limit)
		return HistoryLoadedMsg{Queries: queries, Err: err}
	}
}

// recordSearch stores a submitted query off the update loop
func (a *App) recordSearch(query string, results int) tea.Cmd {
	if a.history == nil || query == "" {
		return nil
	}
	store, limit := a.history, a.config.History.Limit
	entry := history.Entry{
		Source:  a.state.Source.Name(),
		Query:   query,
		Results: results,
	}
	return func() tea.Msg {
		if err := store.Add(entry); err != nil {
			logger.Warn("history write failed", "error", err)
			return nil
		}
		if limit > 0 {
			if err := store.Prune(limit); err != nil {
				logger.Warn("history prune failed", "error", err)
			}
		}
		return nil
	}
}

func (a *App) exportMatches() tea.Cmd {
	results := a.viewer.Results()
	matches := make([]models.Match, len(results))
	for i, r := range results {
		matches[i] = models.Match{
			Path:  r.Path().String(),
			Type:  r.Kind().String(),
			Value: r.Value(),
		}
	}
	dir, format := a.config.Export.Directory(), a.config.Export.Format
	source := a.state.Source.Name()

	return func() tea.Msg {
		path, err := export.Export(matches, dir, source, format, time.Now())
		return ExportedMsg{Path: path, Count: len(matches), Err: err}
	}
}

func (a *App) waitForChange() tea.Cmd {
	if a.watcher == nil {
		return nil
	}
	return a.watcher.Wait()
}

func (a *App) closeSearch() {
	a.search.Close()
	a.state.ViewMode = models.NormalMode
}

// updatePreview shows the value enclosing the active match
func (a *App) updatePreview() {
	if !a.preview.Visible {
		return
	}
	r, ok := a.viewer.Active()
	if !ok {
		a.preview.SetContent("", "")
		return
	}

	path := r.Path()
	if len(path) > 0 {
		path = path[:len(path)-1]
	}
	value, found := jsondoc.Lookup(a.doc, path)
	if !found {
		a.preview.SetContent(r.Value(), r.Path().String())
		return
	}
	content, err := jsondoc.FormatValue(value)
	if err != nil {
		logger.Warn("preview format failed", "path", path.String(), "error", err)
		content = r.Value()
	}
	a.preview.SetContent(content, path.String())
}

// View implements tea.Model
func (a *App) View() string {
	// If error overlay is showing, render it centered on top of everything
	if a.showError {
		a.errorOverlay.Width = min(80, max(20, a.state.Width-4))
		return lipgloss.Place(
			a.state.Width, a.state.Height,
			lipgloss.Center, lipgloss.Center,
			a.errorOverlay.View(),
		)
	}

	// If in help mode, show help overlay
	if a.state.ViewMode == models.HelpMode {
		return help.Render(a.state.Width, a.state.Height, a.theme, a.keys.HelpSections())
	}

	return zone.Scan(a.renderNormalView())
}

// renderNormalView renders the normal application view
func (a *App) renderNormalView() string {
	topBarLeft := "lazyjson  " + a.state.Source.Name()
	if a.format != "" {
		topBarLeft += " (" + string(a.format) + ")"
	}
	topBar := lipgloss.NewStyle().
		Width(a.state.Width).
		Background(a.theme.BorderFocused).
		Foreground(a.theme.Background).
		Padding(0, 2).
		Render(a.formatStatusBar(topBarLeft, "? Help"))

	bottomBar := lipgloss.NewStyle().
		Width(a.state.Width).
		Background(a.theme.Selection).
		Foreground(a.theme.Foreground).
		Padding(0, 2).
		Render(a.formatStatusBar(a.bottomBarLeft(), a.bottomBarRight()))

	a.panel.Info = a.matchInfo()
	a.panel.Content = a.viewer.View()

	sections := []string{topBar, a.panel.View()}
	if a.search.Visible {
		sections = append(sections, a.search.View())
	}
	if a.preview.Visible {
		sections = append(sections, a.preview.View())
	}
	sections = append(sections, bottomBar)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (a *App) matchInfo() string {
	if a.viewer.Query() == "" {
		return ""
	}
	active, total := a.viewer.Matches()
	if total == 0 {
		return "no matches"
	}
	return fmt.Sprintf("match %d/%d", active+1, total)
}

func (a *App) bottomBarLeft() string {
	if a.status != "" {
		return a.status
	}
	if a.config.UI.ShowPath {
		if r, ok := a.viewer.Active(); ok {
			return r.Path().String()
		}
	}
	return "[/] Search | [p] Preview | [q] Quit"
}

func (a *App) bottomBarRight() string {
	d := a.viewer.Data()
	if d == nil {
		return ""
	}
	rows := d.Height() / d.Options().RowHeight
	return fmt.Sprintf("line %d/%d", a.viewer.Cursor()+1, rows)
}

// updateDimensions distributes the window height between the panes
func (a *App) updateDimensions() tea.Cmd {
	if a.state.Width <= 0 || a.state.Height <= 0 {
		return nil
	}

	// Reserve space for top bar (1 line) and bottom bar (1 line)
	contentHeight := a.state.Height - 2

	a.search.Width = a.state.Width
	if a.search.Visible {
		contentHeight -= searchBoxHeight
	}
	a.preview.Width = a.state.Width
	contentHeight -= a.preview.Height()

	a.panel.Width = a.state.Width
	a.panel.Height = max(4, contentHeight)

	width, height := a.panel.InnerSize()
	return a.viewer.SetSize(width, height)
}

// formatStatusBar formats a status bar with left and right aligned content
func (a *App) formatStatusBar(left, right string) string {
	// Account for padding (2 chars on each side = 4 total)
	availableWidth := max(0, a.state.Width-4)

	leftLen := runewidth.StringWidth(left)
	rightLen := runewidth.StringWidth(right)

	// If content is too wide, truncate
	if leftLen+rightLen > availableWidth {
		if availableWidth > rightLen+1 {
			return runewidth.Truncate(left, availableWidth-rightLen-1, "…") + " " + right
		}
		return runewidth.Truncate(left, availableWidth, "…")
	}

	spacing := availableWidth - leftLen - rightLen
	return left + lipgloss.NewStyle().Width(spacing).Render("") + right
}

// ShowError displays an error overlay with the given title and message
func (a *App) ShowError(title, message string) {
	a.errorOverlay.SetError(title, message)
	a.showError = true
}

// DismissError hides the error overlay
func (a *App) DismissError() {
	a.showError = false
}
