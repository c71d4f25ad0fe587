// Package config handles the XDG configuration directory, file paths and
// the optional config.yaml settings file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// AppName is the application directory name.
	AppName = "taskchat"

	// SettingsFile is the YAML settings filename.
	SettingsFile = "config.yaml"

	// DatabaseFile is the default SQLite database filename.
	DatabaseFile = "taskchat.db"

	// OAuthClientFile is the OAuth client credentials filename.
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored OAuth token filename.
	TokenFile = "token.json"

	// DefaultUser owns tasks when no user is configured.
	DefaultUser = "local"
)

// Store backends.
const (
	BackendSQLite      = "sqlite"
	BackendGoogleTasks = "googletasks"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// Settings are read from config.yaml and the environment.
	Settings Settings
}

// Settings is the content of config.yaml.
type Settings struct {
	User    string          `yaml:"user"`
	Store   StoreSettings   `yaml:"store"`
	LLM     LLMSettings     `yaml:"llm"`
	Logging LoggingSettings `yaml:"logging"`
}

// StoreSettings selects where tasks and conversations live.
type StoreSettings struct {
	// Backend is "sqlite" or "googletasks". Conversations are always
	// kept in SQLite.
	Backend string `yaml:"backend"`

	// Database is the SQLite file. Relative paths are resolved against
	// the config directory.
	Database string `yaml:"database"`
}

// LLMSettings configures the language model used for classification.
type LLMSettings struct {
	Provider string        `yaml:"provider"`
	Model    string        `yaml:"model"`
	APIKey   string        `yaml:"api_key"`
	BaseURL  string        `yaml:"base_url"`
	Timeout  time.Duration `yaml:"timeout"`
}

// LoggingSettings configures the logger.
type LoggingSettings struct {
	Level string `yaml:"level"`
}

// DefaultSettings returns the settings used when config.yaml is absent.
func DefaultSettings() Settings {
	return Settings{
		Store:   StoreSettings{Backend: BackendSQLite},
		LLM:     LLMSettings{Provider: "openai"},
		Logging: LoggingSettings{Level: "warn"},
	}
}

// New creates a new Config with the default or specified config directory
// and loads config.yaml from it.
// If configDir is empty, uses XDG_CONFIG_HOME/taskchat or $HOME/.config/taskchat.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg := &Config{Dir: dir}

	settings, err := LoadSettings(cfg.SettingsPath())
	if err != nil {
		return nil, err
	}
	cfg.Settings = settings
	return cfg, nil
}

// LoadSettings reads settings from path. A missing file yields defaults.
// Environment variables override the file.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return Settings{}, fmt.Errorf("failed to read %s: %w", SettingsFile, err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, &s); err != nil {
			return Settings{}, fmt.Errorf("failed to parse %s: %w", SettingsFile, err)
		}
	}

	s.applyEnvOverrides()

	switch s.Store.Backend {
	case BackendSQLite, BackendGoogleTasks:
	default:
		return Settings{}, fmt.Errorf("unknown store backend: %q", s.Store.Backend)
	}
	return s, nil
}

func (s *Settings) applyEnvOverrides() {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		s.LLM.APIKey = key
	}
	if model := os.Getenv("OPENAI_MODEL"); model != "" {
		s.LLM.Model = model
	}
	if url := os.Getenv("OPENAI_BASE_URL"); url != "" {
		s.LLM.BaseURL = url
	}
	if user := os.Getenv("TASKCHAT_USER"); user != "" {
		s.User = user
	}
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

// User returns the configured chat user, or DefaultUser.
func (c *Config) User() string {
	if c.Settings.User != "" {
		return c.Settings.User
	}
	return DefaultUser
}

// SettingsPath returns the path to config.yaml.
func (c *Config) SettingsPath() string {
	return filepath.Join(c.Dir, SettingsFile)
}

// DatabasePath returns the path to the SQLite database.
func (c *Config) DatabasePath() string {
	p := c.Settings.Store.Database
	switch {
	case p == "":
		return filepath.Join(c.Dir, DatabaseFile)
	case filepath.IsAbs(p):
		return p
	default:
		return filepath.Join(c.Dir, p)
	}
}

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// TokenPath returns the path to the stored OAuth token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}
