package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/rebeliceyang/lazyjson/internal/config"
	"github.com/rebeliceyang/lazyjson/internal/history"
	"github.com/rebeliceyang/lazyjson/internal/models"
	"github.com/rebeliceyang/lazyjson/internal/ui/components"
)

func init() {
	// Initialize bubblezone for tests that call View() methods
	zone.NewGlobal()
}

const sampleDoc = `{"name":"lazyjson","tags":["a","b"]}`

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// newLoadedApp runs the load command synchronously
func newLoadedApp(t *testing.T, src models.Source) *App {
	t.Helper()
	return newLoadedAppWithConfig(t, config.GetDefaults(), src)
}

func newLoadedAppWithConfig(t *testing.T, cfg *config.Config, src models.Source) *App {
	t.Helper()
	a := New(cfg, src)
	a.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	a.Update(a.load(false)())
	a.Update(components.FrameMsg{})
	return a
}

func TestApp_LoadsStdinDocument(t *testing.T) {
	a := newLoadedApp(t, models.Source{Raw: []byte(sampleDoc)})

	if a.showError {
		t.Fatalf("Unexpected error overlay: %s", a.errorOverlay.Message)
	}
	view := a.View()
	if !strings.Contains(view, `"name": "lazyjson"`) {
		t.Error("Expected first row in view")
	}
	if !strings.Contains(view, "stdin (json)") {
		t.Error("Expected source name and format in top bar")
	}
	if !strings.Contains(view, "line 1/2") {
		t.Error("Expected cursor position in bottom bar")
	}
}

func TestApp_LoadsYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.yaml")
	if err := os.WriteFile(path, []byte("name: lazyjson\ncount: 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	a := newLoadedApp(t, models.Source{Path: path})

	view := a.View()
	if !strings.Contains(view, "doc.yaml (yaml)") {
		t.Error("Expected file name and detected format")
	}
	if !strings.Contains(view, `"count": 3`) {
		t.Error("Expected YAML mapping shown as JSON")
	}
}

func TestApp_LoadErrorShowsOverlay(t *testing.T) {
	a := newLoadedApp(t, models.Source{Raw: []byte(`{bad`)})

	if !a.showError {
		t.Fatal("Expected error overlay for invalid input")
	}
	if !strings.Contains(a.View(), "Failed to load document") {
		t.Error("Expected overlay title in view")
	}

	// Other keys are consumed
	a.Update(runeKey("/"))
	if a.state.ViewMode != models.NormalMode {
		t.Error("Expected keys to be consumed while the overlay is shown")
	}

	a.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if a.showError {
		t.Error("Expected enter to dismiss the overlay")
	}
}

func TestApp_SearchFlow(t *testing.T) {
	a := newLoadedApp(t, models.Source{Raw: []byte(sampleDoc)})

	a.Update(runeKey("/"))
	if a.state.ViewMode != models.SearchMode || !a.search.Visible {
		t.Fatal("Expected search mode after /")
	}

	a.Update(components.SearchInputMsg{Query: "b", Submit: true})
	a.Update(components.FrameMsg{})
	if a.state.ViewMode != models.NormalMode {
		t.Error("Expected submit to return to normal mode")
	}
	if got := a.matchInfo(); got != "match 1/1" {
		t.Errorf("Expected match 1/1, got %q", got)
	}
	view := a.View()
	if !strings.Contains(view, "$.tags[1]") {
		t.Error("Expected active match path in bottom bar")
	}
	if !strings.Contains(view, `"b"`) {
		t.Error("Expected match revealed in view")
	}

	a.Update(components.SearchInputMsg{Query: "zzz"})
	if got := a.matchInfo(); got != "no matches" {
		t.Errorf("Expected no matches, got %q", got)
	}

	a.Update(components.CloseSearchMsg{})
	if a.viewer.Query() != "" || a.matchInfo() != "" {
		t.Error("Expected close to clear the search")
	}
}

func TestApp_PreviewShowsEnclosingValue(t *testing.T) {
	a := newLoadedApp(t, models.Source{Raw: []byte(sampleDoc)})
	a.Update(components.SearchInputMsg{Query: "b", Submit: true})

	a.Update(runeKey("p"))
	if !a.preview.Visible {
		t.Fatal("Expected preview after p")
	}
	if a.preview.Title != "$.tags" {
		t.Errorf("Expected parent path title, got %q", a.preview.Title)
	}
	want := "[\n  \"a\",\n  \"b\"\n]"
	if a.preview.Content != want {
		t.Errorf("Expected %q, got %q", want, a.preview.Content)
	}
	if !strings.Contains(a.View(), "Preview: $.tags") {
		t.Error("Expected preview pane in view")
	}

	a.Update(runeKey("p"))
	if a.preview.Visible {
		t.Error("Expected second p to hide the preview")
	}
}

func TestApp_Reload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	if err := os.WriteFile(path, []byte(`{"v":1}`), 0o644); err != nil {
		t.Fatal(err)
	}
	a := newLoadedApp(t, models.Source{Path: path})

	if err := os.WriteFile(path, []byte(`{"v":2}`), 0o644); err != nil {
		t.Fatal(err)
	}
	a.Update(a.load(true)())
	a.Update(components.FrameMsg{})
	if a.status != "Reloaded" {
		t.Errorf("Expected reload status, got %q", a.status)
	}
	if !strings.Contains(a.View(), `"v": 2`) {
		t.Error("Expected new content after reload")
	}

	// A broken file keeps the previous document
	if err := os.WriteFile(path, []byte(`{"v":`), 0o644); err != nil {
		t.Fatal(err)
	}
	a.Update(a.load(true)())
	if a.showError {
		t.Error("Expected failed reload to keep the document without overlay")
	}
	if !strings.HasPrefix(a.status, "Reload failed") {
		t.Errorf("Expected reload failure status, got %q", a.status)
	}
	if !strings.Contains(a.View(), `"v": 2`) {
		t.Error("Expected previous content to stay")
	}
}

func TestApp_StdinCannotReload(t *testing.T) {
	a := newLoadedApp(t, models.Source{Raw: []byte(sampleDoc)})

	_, cmd := a.Update(runeKey("r"))
	if cmd != nil {
		t.Error("Expected no reload command for stdin")
	}
	if a.status != "stdin cannot be reloaded" {
		t.Errorf("Unexpected status %q", a.status)
	}
}

func TestApp_HelpMode(t *testing.T) {
	a := newLoadedApp(t, models.Source{Raw: []byte(sampleDoc)})

	a.Update(runeKey("?"))
	if a.state.ViewMode != models.HelpMode {
		t.Fatal("Expected help mode")
	}
	if !strings.Contains(a.View(), "Keyboard Shortcuts") {
		t.Error("Expected help overlay")
	}

	a.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if a.state.ViewMode != models.NormalMode {
		t.Error("Expected esc to close help")
	}
}

func TestApp_Quit(t *testing.T) {
	a := newLoadedApp(t, models.Source{Raw: []byte(sampleDoc)})

	_, cmd := a.Update(runeKey("q"))
	if cmd == nil {
		t.Fatal("Expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Expected tea.QuitMsg")
	}
}

func TestFormatStatusBar(t *testing.T) {
	a := New(nil, models.Source{})
	a.state.Width = 24

	got := a.formatStatusBar("left", "right")
	if len(got) != 20 || !strings.HasPrefix(got, "left") || !strings.HasSuffix(got, "right") {
		t.Errorf("Unexpected status bar %q", got)
	}

	got = a.formatStatusBar(strings.Repeat("x", 30), "right")
	if !strings.Contains(got, "…") || !strings.HasSuffix(got, " right") {
		t.Errorf("Expected truncated left side, got %q", got)
	}
}

func TestApp_ExportMatches(t *testing.T) {
	cfg := config.GetDefaults()
	cfg.Export.Dir = t.TempDir()
	a := newLoadedAppWithConfig(t, cfg, models.Source{Raw: []byte(sampleDoc)})

	if _, cmd := a.Update(runeKey("e")); cmd != nil || a.status != "No matches to export" {
		t.Errorf("Expected nothing to export without a search, got %q", a.status)
	}

	a.Update(components.SearchInputMsg{Query: "b", Submit: true})
	_, cmd := a.Update(runeKey("e"))
	if cmd == nil {
		t.Fatal("Expected export command")
	}
	msg, ok := cmd().(ExportedMsg)
	if !ok {
		t.Fatal("Expected ExportedMsg")
	}
	if msg.Err != nil || msg.Count != 1 {
		t.Fatalf("Unexpected export result %+v", msg)
	}
	data, err := os.ReadFile(msg.Path)
	if err != nil {
		t.Fatalf("Failed to read export: %v", err)
	}
	if !strings.Contains(string(data), "$.tags[1],string,b") {
		t.Errorf("Expected match row in export, got %q", data)
	}

	a.Update(msg)
	if !strings.HasPrefix(a.status, "Exported 1 matches") {
		t.Errorf("Unexpected status %q", a.status)
	}
}

func TestApp_SearchHistory(t *testing.T) {
	store, err := history.NewStore(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Failed to open history: %v", err)
	}
	defer store.Close()

	a := newLoadedApp(t, models.Source{Raw: []byte(sampleDoc)})
	a.SetHistory(store)

	a.Update(components.SearchInputMsg{Query: "b", Submit: true})
	if len(a.search.History) != 1 || a.search.History[0] != "b" {
		t.Errorf("Expected submitted query remembered, got %v", a.search.History)
	}

	a.recordSearch("lazy", 1)()
	a.search.History = nil
	a.Update(a.loadHistory()())
	if len(a.search.History) != 1 || a.search.History[0] != "lazy" {
		t.Errorf("Expected history loaded from store, got %v", a.search.History)
	}
}

func TestApp_CopyPreviewUsesContentAtKeyPress(t *testing.T) {
	a := newLoadedApp(t, models.Source{Raw: []byte(`{"a":{"x":"1"},"b":{"y":"1"}}`)})
	a.Update(components.SearchInputMsg{Query: "1", Submit: true})
	a.Update(runeKey("p"))
	if a.preview.Title != "$.a" {
		t.Fatalf("Expected preview of first match parent, got %q", a.preview.Title)
	}
	want := a.preview.Content

	_, cmd := a.Update(runeKey("y"))
	if cmd == nil {
		t.Fatal("Expected copy command")
	}

	// Moving to the next match rewrites the preview before the command runs
	a.Update(runeKey("n"))
	if a.preview.Title != "$.b" {
		t.Fatalf("Expected preview to follow the next match, got %q", a.preview.Title)
	}

	msg, ok := cmd().(components.CopiedMsg)
	if !ok {
		t.Fatal("Expected CopiedMsg")
	}
	if msg.Text != want {
		t.Errorf("Expected %q copied, got %q", want, msg.Text)
	}
}
