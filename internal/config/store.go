package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/oauth2"
	"gopkg.in/yaml.v3"

	"tick/internal/apperr"
	"tick/internal/model"
)

// Settings is the small persisted configuration record.
type Settings struct {
	// DefaultProjectID is used when a command needs a project and none was given.
	DefaultProjectID string `yaml:"default_project_id,omitempty"`

	// DefaultProjectColor is applied to new projects created without --color.
	DefaultProjectColor string `yaml:"default_project_color"`
}

// DefaultSettings returns the settings used when no file exists.
func DefaultSettings() Settings {
	return Settings{DefaultProjectColor: model.DefaultProjectColor}
}

// LoadSettings reads the settings file. A missing file yields DefaultSettings.
func (c *Config) LoadSettings() (Settings, error) {
	s := DefaultSettings()
	data, err := os.ReadFile(c.SettingsPath())
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return s, apperr.Wrap(apperr.ConfigError, err, "failed to read "+SettingsFile)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return DefaultSettings(), apperr.Wrap(apperr.ConfigError, err, "invalid "+SettingsFile)
	}
	if s.DefaultProjectColor == "" {
		s.DefaultProjectColor = model.DefaultProjectColor
	}
	return s, nil
}

// SaveSettings writes the settings file atomically.
func (c *Config) SaveSettings(s Settings) error {
	if err := c.EnsureDir(); err != nil {
		return apperr.Wrap(apperr.ConfigError, err, "failed to create config directory")
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return apperr.Wrap(apperr.ConfigError, err, "failed to encode settings")
	}
	if err := writeFileAtomic(c.SettingsPath(), data, 0644); err != nil {
		return apperr.Wrap(apperr.ConfigError, err, "failed to save "+SettingsFile)
	}
	return nil
}

// LoadToken reads the stored token. It returns nil, nil if no token is stored.
// A bare access-token string is accepted as well as the JSON written by SaveToken.
func (c *Config) LoadToken() (*oauth2.Token, error) {
	data, err := os.ReadFile(c.TokenPath())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.ConfigError, err, "failed to read "+TokenFile)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return nil, nil
	}
	if !strings.HasPrefix(text, "{") {
		return &oauth2.Token{AccessToken: text, TokenType: "Bearer"}, nil
	}
	var token oauth2.Token
	if err := json.Unmarshal([]byte(text), &token); err != nil {
		return nil, apperr.Wrap(apperr.ConfigError, err, "invalid "+TokenFile)
	}
	if token.AccessToken == "" {
		return nil, nil
	}
	return &token, nil
}

// SaveToken stores token with mode 0600. The permissions are applied before any
// secret is written; failing to apply them aborts the save.
func (c *Config) SaveToken(token *oauth2.Token) error {
	if token == nil || token.AccessToken == "" {
		return apperr.New(apperr.ConfigError, "refusing to save an empty token")
	}
	if err := c.EnsureDir(); err != nil {
		return apperr.Wrap(apperr.ConfigError, err, "failed to create data directory")
	}
	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return apperr.Wrap(apperr.ConfigError, err, "failed to encode token")
	}
	if err := writeFileAtomic(c.TokenPath(), data, 0600); err != nil {
		return apperr.Wrap(apperr.ConfigError, err, "failed to save token")
	}
	return nil
}

// RemoveToken deletes the token file. A missing file is not an error.
func (c *Config) RemoveToken() error {
	if err := os.Remove(c.TokenPath()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return apperr.Wrap(apperr.ConfigError, err, "failed to remove token")
	}
	return nil
}

// Reset deletes both the token and the settings file.
func (c *Config) Reset() error {
	if err := c.RemoveToken(); err != nil {
		return err
	}
	if err := os.Remove(c.SettingsPath()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return apperr.Wrap(apperr.ConfigError, err, "failed to remove "+SettingsFile)
	}
	return nil
}

// writeFileAtomic writes data to a temp file in the target directory and renames it
// into place, so readers never observe a partially written file.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return fmt.Errorf("set permissions: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
