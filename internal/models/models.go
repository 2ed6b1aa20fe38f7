package models

import (
	"path/filepath"

	"github.com/rebeliceyang/lazyjson/internal/jsondoc"
)

// AppState holds the application state
type AppState struct {
	Width    int
	Height   int
	ViewMode ViewMode

	Source Source
}

// ViewMode identifies the current view
type ViewMode int

const (
	NormalMode ViewMode = iota
	HelpMode
	SearchMode
)

// Source describes where the document comes from
type Source struct {
	Path   string         // empty when read from stdin
	Raw    []byte         // preloaded content, used for stdin
	Format jsondoc.Format // empty to detect
}

// Name returns the display name of the source
func (s Source) Name() string {
	if s.Path == "" {
		return "stdin"
	}
	return filepath.Base(s.Path)
}

// Reloadable reports whether the source can be read again
func (s Source) Reloadable() bool {
	return s.Path != ""
}

// NewAppState creates a new AppState with defaults
func NewAppState(src Source) AppState {
	return AppState{
		Width:    80,
		Height:   24,
		ViewMode: NormalMode,
		Source:   src,
	}
}

// Match is a search result flattened for export
type Match struct {
	Path  string `json:"path"`
	Type  string `json:"type"`
	Value string `json:"value"`
}
