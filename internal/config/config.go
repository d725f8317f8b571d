// Package config handles XDG configuration paths, persisted settings and the stored token.
package config

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

const (
	// AppName is the application directory name.
	AppName = "tick"

	// SettingsFile is the persisted settings filename.
	SettingsFile = "config.yaml"

	// TokenFile is the stored OAuth token filename.
	TokenFile = "token.json"
)

// Config holds configuration paths and per-invocation options.
// It is passed explicitly to every command; nothing here is global.
type Config struct {
	// Dir is the configuration directory path (settings).
	Dir string

	// DataDir is the data directory path (token).
	DataDir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// JSON renders results as the JSON envelope.
	JSON bool

	// Log receives debug diagnostics. Never nil after New.
	Log *zap.Logger
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, settings live in XDG_CONFIG_HOME/tick (or $HOME/.config/tick)
// and the token in XDG_DATA_HOME/tick (or $HOME/.local/share/tick).
// If configDir is set, both live there.
func New(configDir string) (*Config, error) {
	if configDir != "" {
		return &Config{Dir: configDir, DataDir: configDir, Log: zap.NewNop()}, nil
	}
	return &Config{Dir: DefaultConfigDir(), DataDir: DefaultDataDir(), Log: zap.NewNop()}, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// DefaultDataDir returns the default data directory.
// Uses XDG_DATA_HOME if set, otherwise $HOME/.local/share.
func DefaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".local", "share", AppName)
}

// SettingsPath returns the path to the settings file.
func (c *Config) SettingsPath() string {
	return filepath.Join(c.Dir, SettingsFile)
}

// TokenPath returns the path to the stored token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.DataDir, TokenFile)
}

// EnsureDir creates the config and data directories if they don't exist.
// Directories are created with mode 0700.
func (c *Config) EnsureDir() error {
	if err := os.MkdirAll(c.Dir, 0700); err != nil {
		return err
	}
	return os.MkdirAll(c.DataDir, 0700)
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// Getenv returns the value of key, or def if unset or empty.
func Getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
