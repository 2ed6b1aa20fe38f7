package app

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/rebeliceyang/lazyjson/internal/ui/components"
	"github.com/rebeliceyang/lazyjson/internal/ui/help"
)

// KeyMap holds the global key bindings
type KeyMap struct {
	Quit          key.Binding
	Help          key.Binding
	Search        key.Binding
	ClearSearch   key.Binding
	TogglePreview key.Binding
	PreviewUp     key.Binding
	PreviewDown   key.Binding
	Reload        key.Binding
	Export        key.Binding

	Viewer components.ViewerKeyMap
}

// DefaultKeyMap returns the stock bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q, Ctrl+C", "Quit application"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Search"),
		),
		ClearSearch: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "Clear search"),
		),
		TogglePreview: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "Toggle preview"),
		),
		PreviewUp: key.NewBinding(
			key.WithKeys("ctrl+up", "K"),
			key.WithHelp("Ctrl+↑/K", "Scroll preview up"),
		),
		PreviewDown: key.NewBinding(
			key.WithKeys("ctrl+down", "J"),
			key.WithHelp("Ctrl+↓/J", "Scroll preview down"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r", "f5"),
			key.WithHelp("r, F5", "Reload file"),
		),
		Export: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "Export matches"),
		),
		Viewer: components.DefaultViewerKeyMap(),
	}
}

// HelpSections groups the bindings for the help overlay
func (k KeyMap) HelpSections() []help.Section {
	return []help.Section{
		{Title: "Global", Bindings: []key.Binding{k.Help, k.Quit, k.Reload}},
		{Title: "Navigation", Bindings: k.Viewer.Navigation()},
		{Title: "Search", Bindings: append([]key.Binding{k.Search, k.ClearSearch, k.Export}, k.Viewer.Search()...)},
		{Title: "Preview", Bindings: []key.Binding{k.TogglePreview, k.PreviewUp, k.PreviewDown}},
	}
}
