// Package config handles loading and saving tt configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/tt/config.yaml
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/treetable/pkg/model"
	"github.com/vanderheijden86/treetable/pkg/treetable"
)

// AppName is the directory name used under the XDG base directories.
const AppName = "tt"

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// TreeConfig holds the table options.
type TreeConfig struct {
	Expandable   bool   `yaml:"expandable"`
	DefaultState string `yaml:"default_state"` // expanded or collapsed
	Indent       int    `yaml:"indent"`        // Pixels per level
	TreeColumn   int    `yaml:"tree_column"`   // Zero-based
}

// UIConfig holds terminal front end preferences.
type UIConfig struct {
	ShowDetail  bool `yaml:"show_detail,omitempty"`   // Open the detail pane on start
	ColumnWidth int  `yaml:"columns_width,omitempty"` // Max cell width (0 = fit to terminal)
}

// WatchConfig controls reloading when the source changes.
type WatchConfig struct {
	DebounceMS     int  `yaml:"debounce_ms,omitempty"`
	ForcePoll      bool `yaml:"force_poll,omitempty"`
	PollIntervalMS int  `yaml:"poll_interval_ms,omitempty"`
}

// Config is the top-level configuration for tt.
type Config struct {
	Tree  TreeConfig  `yaml:"tree"`
	UI    UIConfig    `yaml:"ui,omitempty"`
	Watch WatchConfig `yaml:"watch,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	opts := treetable.DefaultOptions()
	return Config{
		Tree: TreeConfig{
			Expandable:   opts.Expandable,
			DefaultState: string(opts.DefaultState),
			Indent:       opts.Indent,
			TreeColumn:   opts.TreeColumn,
		},
		Watch: WatchConfig{
			DebounceMS:     200,
			PollIntervalMS: 2000,
		},
	}
}

// TreeOptions converts the tree section to engine options.
func (c Config) TreeOptions() (treetable.Options, error) {
	state, err := model.ParseTag(c.Tree.DefaultState)
	if err != nil {
		return treetable.Options{}, fmt.Errorf("%w: default_state: %v", ErrInvalidConfig, err)
	}
	opts := treetable.Options{
		Expandable:   c.Tree.Expandable,
		DefaultState: state,
		Indent:       c.Tree.Indent,
		TreeColumn:   c.Tree.TreeColumn,
	}
	if err := opts.Validate(); err != nil {
		return treetable.Options{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return opts, nil
}

// Validate checks every section.
func (c Config) Validate() error {
	if _, err := c.TreeOptions(); err != nil {
		return err
	}
	if c.UI.ColumnWidth < 0 {
		return fmt.Errorf("%w: columns_width %d is negative", ErrInvalidConfig, c.UI.ColumnWidth)
	}
	if c.Watch.DebounceMS < 0 || c.Watch.PollIntervalMS < 0 {
		return fmt.Errorf("%w: watch intervals must not be negative", ErrInvalidConfig)
	}
	return nil
}

// ConfigDir returns the XDG config directory for tt.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", AppName)
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path. Keys missing from the file keep
// their defaults. Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ExpandHome(path))
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	path = ExpandHome(path)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
