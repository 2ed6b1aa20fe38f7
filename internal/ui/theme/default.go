package theme

import "github.com/charmbracelet/lipgloss"

// DefaultTheme returns the default dark theme
func DefaultTheme() Theme {
	return Theme{
		Name: "default",

		// Background colors
		Background: lipgloss.Color("235"),
		Foreground: lipgloss.Color("252"),

		// UI elements
		Border:        lipgloss.Color("240"),
		BorderFocused: lipgloss.Color("62"),
		Selection:     lipgloss.Color("237"),
		Cursor:        lipgloss.Color("248"),
		Guide:         lipgloss.Color("238"),

		// Status colors
		Success: lipgloss.Color("42"),
		Warning: lipgloss.Color("220"),
		Error:   lipgloss.Color("196"),
		Info:    lipgloss.Color("75"),

		// JSON colors
		JSONKey:     lipgloss.Color("117"),
		JSONIndex:   lipgloss.Color("141"),
		JSONString:  lipgloss.Color("180"),
		JSONNumber:  lipgloss.Color("150"),
		JSONBoolean: lipgloss.Color("75"),
		JSONNull:    lipgloss.Color("244"),
		JSONBrace:   lipgloss.Color("250"),
		Caret:       lipgloss.Color("244"),
		Metadata:    lipgloss.Color("242"),

		// Search matches
		Match:       lipgloss.Color("178"),
		MatchActive: lipgloss.Color("202"),
		MatchText:   lipgloss.Color("232"),

		ChromaStyle: "monokai",
	}
}
