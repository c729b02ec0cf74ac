// Package config loads osa-scroll settings from <profileDir>/config.jsonc.
// The file may carry // and /* */ comments and trailing commas; it is
// normalized with github.com/tidwall/jsonc before decoding.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"

	"github.com/miosa/osa-scroll/scroller"
)

// Config holds persistent settings.
type Config struct {
	// Theme names a style theme. Empty picks dark or light from the terminal.
	Theme         string `json:"theme,omitempty"`
	MarkdownStyle string `json:"markdown_style,omitempty"`

	// Strategy is "boundary" or "summation".
	Strategy string `json:"strategy,omitempty"`
	// Marker is the attribute that identifies scroll rows.
	Marker string `json:"marker,omitempty"`

	// Source is "synthetic", "git", "processes" or "html".
	Source string `json:"source,omitempty"`
	// SourcePath is the repository (git) or document (html).
	SourcePath string `json:"source_path,omitempty"`
	// Container selects the scroll container in an html source.
	Container string `json:"container,omitempty"`

	PageSize int `json:"page_size,omitempty"`
	MaxPages int `json:"max_pages,omitempty"`
	Gap      int `json:"gap,omitempty"`
}

const (
	filename   = "config.jsonc"
	profileEnv = "OSA_SCROLL_PROFILE"
)

// Sources lists the accepted Source values.
var Sources = []string{"synthetic", "git", "processes", "html"}

// ProfileDir returns ~/.osa-scroll, or ~/.osa-scroll/profiles/<name> when
// OSA_SCROLL_PROFILE is set.
func ProfileDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	dir := filepath.Join(home, ".osa-scroll")
	if name := os.Getenv(profileEnv); name != "" {
		dir = filepath.Join(dir, "profiles", name)
	}
	return dir, nil
}

// Load reads <profileDir>/config.jsonc over the defaults. A missing file is
// not an error. A malformed file returns the defaults and the error.
func Load(profileDir string) (Config, error) {
	cfg := Defaults()
	path := filepath.Join(profileDir, filename)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(jsonc.ToJSON(data), &cfg); err != nil {
		return Defaults(), fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to <profileDir>/config.jsonc, creating the directory if
// needed.
func Save(profileDir string, cfg Config) error {
	if err := os.MkdirAll(profileDir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(profileDir, filename), data, 0o644)
}

// Defaults returns the built-in settings.
func Defaults() Config {
	return Config{
		MarkdownStyle: "auto",
		Strategy:      scroller.Boundary.String(),
		Marker:        scroller.DefaultRowMarker,
		Source:        "synthetic",
		Container:     "body",
		PageSize:      20,
		MaxPages:      3,
		Gap:           1,
	}
}

// Validate checks the values that cannot fall back silently.
func (c Config) Validate() error {
	if _, err := scroller.ParseStrategy(c.Strategy); err != nil {
		return err
	}
	known := false
	for _, s := range Sources {
		if c.Source == s {
			known = true
		}
	}
	if !known {
		return fmt.Errorf("unknown source %q", c.Source)
	}
	if (c.Source == "git" || c.Source == "html") && c.SourcePath == "" {
		return fmt.Errorf("source %s needs source_path", c.Source)
	}
	if c.PageSize <= 0 || c.MaxPages <= 0 {
		return fmt.Errorf("page_size and max_pages must be positive")
	}
	if c.Gap < 0 {
		return fmt.Errorf("gap must not be negative")
	}
	return nil
}
