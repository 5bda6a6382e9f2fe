package config

// ValidThemes lists the accepted UI themes.
var ValidThemes = []string{"dark", "light"}

// UIConfig holds user interface configuration.
type UIConfig struct {
	// Theme selects the lipgloss palette (dark, light)
	Theme string `yaml:"theme"`

	// ShowStatusBar shows the path and notices under the input line
	ShowStatusBar bool `yaml:"show_status_bar"`
}

// DefaultUIConfig returns sensible UI defaults.
func DefaultUIConfig() *UIConfig {
	return &UIConfig{
		Theme:         "dark",
		ShowStatusBar: true,
	}
}

// IsDark reports whether the dark palette is selected.
func (c *UIConfig) IsDark() bool {
	return c.Theme != "light"
}
