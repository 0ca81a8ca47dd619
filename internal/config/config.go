// Package config loads and saves zone5 configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all zone5 configuration.
type Config struct {
	Zone       ZoneConfig       `toml:"zone"`
	GitHub     GitHubConfig     `toml:"github"`
	Readme     ReadmeConfig     `toml:"readme"`
	Output     OutputConfig     `toml:"output"`
	Appearance AppearanceConfig `toml:"appearance"`
	Daemon     DaemonConfig     `toml:"daemon"`
}

// ZoneConfig holds the heart-rate zone definition and daily goal.
// Zero bounds are derived from Age when the config is resolved.
type ZoneConfig struct {
	Age              int     `toml:"age"`
	LowBPM           float64 `toml:"low_bpm,omitempty"`
	HighBPM          float64 `toml:"high_bpm,omitempty"`
	DailyGoalMinutes int     `toml:"daily_goal_minutes"`
	Timezone         string  `toml:"timezone,omitempty"`
}

// GitHubConfig holds settings for the weekly activity collaborator.
type GitHubConfig struct {
	Username string `toml:"username,omitempty"`
	Token    string `toml:"token,omitempty"`
	BaseURL  string `toml:"base_url,omitempty"`
}

// ReadmeConfig holds the README substitution target.
type ReadmeConfig struct {
	Path string `toml:"path"`
}

// OutputConfig holds the artifact destination.
type OutputConfig struct {
	Path   string `toml:"path"`
	Format string `toml:"format"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// DaemonConfig holds defaults for `zone5 daemon`.
type DaemonConfig struct {
	Addr        string `toml:"addr"`
	IntervalSec int    `toml:"interval_sec"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Zone: ZoneConfig{
			Age:              DefaultAge,
			DailyGoalMinutes: DefaultDailyGoal,
		},
		Readme: ReadmeConfig{
			Path: "README.md",
		},
		Output: OutputConfig{
			Path:   "zone5-data.json",
			Format: "json",
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Daemon: DaemonConfig{
			Addr:        "127.0.0.1:8787",
			IntervalSec: 60,
		},
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "zone5")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "zone5")
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads the config at path, returning defaults if it doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // path is the user's own config location
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	return SaveTo(Path(), cfg)
}

// SaveTo writes the config to path, creating parent directories.
func SaveTo(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600) //nolint:gosec // user config path
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return toml.NewEncoder(f).Encode(cfg)
}

// GetGitHubToken returns the token from GITHUB_TOKEN or config, in that order.
func GetGitHubToken(cfg Config) string {
	if tok := os.Getenv("GITHUB_TOKEN"); tok != "" {
		return tok
	}
	return cfg.GitHub.Token
}

// GetGitHubUsername returns the username from config, falling back to GITHUB_ACTOR.
func GetGitHubUsername(cfg Config) string {
	if cfg.GitHub.Username != "" {
		return cfg.GitHub.Username
	}
	return os.Getenv("GITHUB_ACTOR")
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}
