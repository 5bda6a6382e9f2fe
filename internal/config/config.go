package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

// DefaultPath is where the config file lives relative to the working directory.
var DefaultPath = filepath.Join(".termfolio", "config.yaml")

// Config holds all termfolio configuration.
type Config struct {
	// Where portfolio content comes from
	Content ContentConfig `yaml:"content"`

	// Shell behavior
	Shell ShellConfig `yaml:"shell"`

	// Terminal UI
	UI UIConfig `yaml:"ui"`

	// The visual site that open and exit hand over to
	Host HostConfig `yaml:"host"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// ContentConfig selects the content source.
type ContentConfig struct {
	Path   string `yaml:"path"`   // empty = embedded sample
	Format string `yaml:"format"` // auto, yaml, json, sqlite
	Watch  bool   `yaml:"watch"`  // report on-disk changes in the status bar
}

// ShellConfig configures the shell session.
type ShellConfig struct {
	User            string `yaml:"user"` // whoami answer; empty = derived from the owner's name
	DoubleTapWindow string `yaml:"double_tap_window"`
	Banner          bool   `yaml:"banner"`
}

// HostConfig configures the host application.
type HostConfig struct {
	SiteURL string `yaml:"site_url"`
}

// ValidFormats lists the accepted content formats.
var ValidFormats = []string{"auto", "yaml", "json", "sqlite"}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Content: ContentConfig{
			Format: "auto",
		},

		Shell: ShellConfig{
			DoubleTapWindow: "500ms",
			Banner:          true,
		},

		UI: *DefaultUIConfig(),

		Host: HostConfig{
			SiteURL: "http://localhost:3000",
		},

		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Dir:    filepath.Join(".termfolio", "logs"),
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the defaults.
// Environment overrides apply either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if path := os.Getenv("TERMFOLIO_CONTENT"); path != "" {
		c.Content.Path = path
	}
	if url := os.Getenv("TERMFOLIO_SITE_URL"); url != "" {
		c.Host.SiteURL = url
	}
	if theme := os.Getenv("TERMFOLIO_THEME"); theme != "" {
		c.UI.Theme = theme
	}
	if v := os.Getenv("TERMFOLIO_DEBUG"); v != "" {
		if on, err := strconv.ParseBool(v); err == nil {
			c.Logging.DebugMode = on
		}
	}
}

// GetDoubleTapWindow returns the double-press window as a duration.
func (c *Config) GetDoubleTapWindow() time.Duration {
	d, err := time.ParseDuration(c.Shell.DoubleTapWindow)
	if err != nil || d <= 0 {
		return 500 * time.Millisecond
	}
	return d
}

// SectionURL returns the site address for a section.
func (c *Config) SectionURL(section string) string {
	return c.Host.SiteURL + "#" + section
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if !slices.Contains(ValidFormats, c.Content.Format) {
		return fmt.Errorf("%w: content format %q (valid: %v)", ErrInvalid, c.Content.Format, ValidFormats)
	}

	if c.Shell.DoubleTapWindow != "" {
		d, err := time.ParseDuration(c.Shell.DoubleTapWindow)
		if err != nil {
			return fmt.Errorf("%w: shell.double_tap_window: %v", ErrInvalid, err)
		}
		if d <= 0 {
			return fmt.Errorf("%w: shell.double_tap_window must be positive, got %s", ErrInvalid, d)
		}
	}

	if !slices.Contains(ValidThemes, c.UI.Theme) {
		return fmt.Errorf("%w: ui theme %q (valid: %v)", ErrInvalid, c.UI.Theme, ValidThemes)
	}

	if !slices.Contains(ValidLogFormats, c.Logging.Format) {
		return fmt.Errorf("%w: logging format %q (valid: %v)", ErrInvalid, c.Logging.Format, ValidLogFormats)
	}

	return nil
}
