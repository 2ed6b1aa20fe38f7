package theme

import "github.com/charmbracelet/lipgloss"

// CatppuccinMochaTheme returns the Catppuccin Mocha theme
// A soothing pastel theme for cozy TUIs
// Based on: https://github.com/catppuccin/catppuccin
func CatppuccinMochaTheme() Theme {
	return Theme{
		Name: "catppuccin-mocha",

		// Background colors
		Background: lipgloss.Color("#1e1e2e"), // Base
		Foreground: lipgloss.Color("#cdd6f4"), // Text

		// UI elements
		Border:        lipgloss.Color("#45475a"), // Surface1
		BorderFocused: lipgloss.Color("#89b4fa"), // Blue
		Selection:     lipgloss.Color("#313244"), // Surface0
		Cursor:        lipgloss.Color("#f5e0dc"), // Rosewater
		Guide:         lipgloss.Color("#45475a"), // Surface1

		// Status colors
		Success: lipgloss.Color("#a6e3a1"), // Green
		Warning: lipgloss.Color("#f9e2af"), // Yellow
		Error:   lipgloss.Color("#f38ba8"), // Red
		Info:    lipgloss.Color("#89dceb"), // Sky

		// JSON colors
		JSONKey:     lipgloss.Color("#89b4fa"), // Blue
		JSONIndex:   lipgloss.Color("#cba6f7"), // Mauve
		JSONString:  lipgloss.Color("#a6e3a1"), // Green
		JSONNumber:  lipgloss.Color("#fab387"), // Peach
		JSONBoolean: lipgloss.Color("#f9e2af"), // Yellow
		JSONNull:    lipgloss.Color("#6c7086"), // Overlay0
		JSONBrace:   lipgloss.Color("#9399b2"), // Overlay2
		Caret:       lipgloss.Color("#7f849c"), // Overlay1
		Metadata:    lipgloss.Color("#6c7086"), // Overlay0

		// Search matches
		Match:       lipgloss.Color("#f9e2af"), // Yellow
		MatchActive: lipgloss.Color("#fab387"), // Peach
		MatchText:   lipgloss.Color("#11111b"), // Crust

		ChromaStyle: "catppuccin-mocha",
	}
}

// Additional Catppuccin colors available for future use:
// Flamingo:  #f2cdcd
// Pink:      #f5c2e7
// Maroon:    #eba0ac
// Teal:      #94e2d5
// Sapphire:  #74c7ec
// Lavender:  #b4befe
// Subtext1:  #bac2de
// Subtext0:  #a6adc8
// Surface2:  #585b70
// Mantle:    #181825
