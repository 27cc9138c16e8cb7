package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// CaptureConfig holds capture pipeline settings
type CaptureConfig struct {
	PollIntervalMS  int  `json:"poll_interval_ms"`
	MaxItems        int  `json:"max_items"`
	AllowDuplicates bool `json:"allow_duplicates"`
	SemanticSearch  bool `json:"semantic_search"`
	RateLimit       int  `json:"rate_limit"`
	RateWindowSec   int  `json:"rate_window_sec"`
}

// TUIConfig holds TUI-specific settings
type TUIConfig struct {
	SidebarWidth int    `json:"sidebar_width"`
	Theme        string `json:"theme"`
}

// Config represents the application configuration
type Config struct {
	DatabasePath string        `json:"database_path"`
	Capture      CaptureConfig `json:"capture"`
	TUI          TUIConfig     `json:"tui"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		DatabasePath: "~/.clipmind/clipmind.db",
		Capture: CaptureConfig{
			PollIntervalMS: 500,
			MaxItems:       10000,
			SemanticSearch: true,
			RateLimit:      100,
			RateWindowSec:  60,
		},
		TUI: TUIConfig{
			SidebarWidth: 30,
			Theme:        "default",
		},
	}
}

// ConfigDir returns the configuration directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".clipmind"), nil
}

// ConfigPath returns the configuration file path
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// ExpandPath expands ~ to home directory
func ExpandPath(path string) (string, error) {
	if len(path) == 0 {
		return path, nil
	}
	if path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}

// Load loads configuration from the default config file.
// Environment variables override file values:
// CLIPMIND_DB, CLIPMIND_POLL_MS, CLIPMIND_MAX_ITEMS.
func Load() (*Config, error) {
	configPath, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	// If config file doesn't exist, create default
	cfg := DefaultConfig()
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := Save(cfg); err != nil {
			return nil, err
		}
	} else {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if db := os.Getenv("CLIPMIND_DB"); db != "" {
		cfg.DatabasePath = db
	}
	if ms := os.Getenv("CLIPMIND_POLL_MS"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v > 0 {
			cfg.Capture.PollIntervalMS = v
		}
	}
	if max := os.Getenv("CLIPMIND_MAX_ITEMS"); max != "" {
		if v, err := strconv.Atoi(max); err == nil && v >= 0 {
			cfg.Capture.MaxItems = v
		}
	}
}

// Save saves configuration to the default config file
func Save(cfg *Config) error {
	configPath, err := ConfigPath()
	if err != nil {
		return err
	}

	// Ensure directory exists
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// GetDatabasePath returns the expanded database path
func (c *Config) GetDatabasePath() (string, error) {
	return ExpandPath(c.DatabasePath)
}

// PollInterval returns the poll interval as a duration
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Capture.PollIntervalMS) * time.Millisecond
}

// RateWindow returns the rate limit window as a duration
func (c *Config) RateWindow() time.Duration {
	return time.Duration(c.Capture.RateWindowSec) * time.Second
}
