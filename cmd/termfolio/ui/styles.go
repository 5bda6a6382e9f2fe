// Package ui provides the visual styling for the termfolio terminal.
// Uses a green-on-dark terminal palette with a light variant.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"termfolio/internal/shell"
)

var (
	// Light Mode Colors
	LightBackground = lipgloss.Color("#f4f5f6")
	LightForeground = lipgloss.Color("#101F38")
	LightPrimary    = lipgloss.Color("#2E7D32") // Deep green
	LightAccent     = lipgloss.Color("#1565C0") // Path blue
	LightMuted      = lipgloss.Color("#6b7280")
	LightBorder     = lipgloss.Color("#dce0e5")

	// Dark Mode Colors
	DarkBackground = lipgloss.Color("#0d1117")
	DarkForeground = lipgloss.Color("#c9d1d9")
	DarkPrimary    = lipgloss.Color("#39d353") // Terminal green
	DarkAccent     = lipgloss.Color("#58a6ff") // Path blue
	DarkMuted      = lipgloss.Color("#8b949e")
	DarkBorder     = lipgloss.Color("#30363d")

	// Semantic Colors (same in both modes)
	Destructive = lipgloss.Color("#e53935")
	Warning     = lipgloss.Color("#FFC107")
)

// Theme holds the current color scheme
type Theme struct {
	Background lipgloss.Color
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	IsDark     bool
}

// LightTheme returns the light mode theme
func LightTheme() Theme {
	return Theme{
		Background: LightBackground,
		Foreground: LightForeground,
		Primary:    LightPrimary,
		Accent:     LightAccent,
		Muted:      LightMuted,
		Border:     LightBorder,
		IsDark:     false,
	}
}

// DarkTheme returns the dark mode theme
func DarkTheme() Theme {
	return Theme{
		Background: DarkBackground,
		Foreground: DarkForeground,
		Primary:    DarkPrimary,
		Accent:     DarkAccent,
		Muted:      DarkMuted,
		Border:     DarkBorder,
		IsDark:     true,
	}
}

// ThemeFor returns the theme named by the ui.theme setting. Anything but
// "light" is dark.
func ThemeFor(name string) Theme {
	if name == "light" {
		return LightTheme()
	}
	return DarkTheme()
}

// Styles holds all the styled components
type Styles struct {
	Theme Theme

	// Layout
	Header    lipgloss.Style
	StatusBar lipgloss.Style
	Notice    lipgloss.Style

	// History entries
	Prompt lipgloss.Style
	Input  lipgloss.Style
	Output lipgloss.Style
	Error  lipgloss.Style

	Muted   lipgloss.Style
	Divider lipgloss.Style
}

// NewStyles creates a new Styles instance with the given theme
func NewStyles(theme Theme) Styles {
	return Styles{
		Theme: theme,

		Header: lipgloss.NewStyle().
			Background(theme.Primary).
			Foreground(theme.Background).
			Padding(0, 1).
			Bold(true),

		StatusBar: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 1),

		Notice: lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true),

		Prompt: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true),

		Input: lipgloss.NewStyle().
			Foreground(theme.Primary),

		Output: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Error: lipgloss.NewStyle().
			Foreground(Destructive).
			Bold(true),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Divider: lipgloss.NewStyle().
			Foreground(theme.Border),
	}
}

// RenderEntry styles one history entry by its kind.
func (s Styles) RenderEntry(e shell.Entry) string {
	switch e.Kind {
	case shell.EntryInput:
		return s.Input.Render(e.Text)
	case shell.EntryError:
		return s.Error.Render(e.Text)
	default:
		return s.Output.Render(e.Text)
	}
}

// RenderHistory styles a whole log, one entry per line.
func (s Styles) RenderHistory(entries []shell.Entry) string {
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = s.RenderEntry(e)
	}
	return strings.Join(lines, "\n")
}

// RenderDivider returns a horizontal divider
func (s Styles) RenderDivider(width int) string {
	if width < 1 {
		width = 1
	}
	return s.Divider.Render(strings.Repeat("─", width))
}
