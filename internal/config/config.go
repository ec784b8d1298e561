// Package config handles the configuration directory, its files, and the
// optional config.yaml settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// AppName is the application directory name.
	AppName = "todo"

	// SettingsFile is the optional YAML settings filename.
	SettingsFile = "config.yaml"

	// OAuthClientFile is the OAuth client credentials filename.
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored OAuth token filename.
	TokenFile = "token.json"

	// SQLiteFile is the database filename used by the sqlite backend.
	SQLiteFile = "todo.db"
)

// Storage backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMySQL  = "mysql"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// Settings are read from config.yaml in Dir.
	Settings Settings
}

// Settings is the content of config.yaml.
type Settings struct {
	Storage StorageSettings `yaml:"storage"`
	Remote  RemoteSettings  `yaml:"remote"`
}

// StorageSettings selects where the task list is persisted.
type StorageSettings struct {
	Backend string `yaml:"backend"` // file, sqlite, mysql
	Path    string `yaml:"path"`    // file directory or sqlite database path
	DSN     string `yaml:"dsn"`     // mysql data source name
	Key     string `yaml:"key"`
}

// RemoteSettings configures the Google Tasks mirror.
type RemoteSettings struct {
	List string `yaml:"list"`
}

// DefaultSettings returns the settings used when config.yaml is absent.
func DefaultSettings() Settings {
	return Settings{
		Storage: StorageSettings{
			Backend: BackendFile,
			Key:     "tasks",
		},
		Remote: RemoteSettings{
			List: AppName,
		},
	}
}

// New creates a new Config with the default or specified config directory
// and loads config.yaml from it if present.
// If configDir is empty, uses XDG_CONFIG_HOME/todo or $HOME/.config/todo.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg := &Config{Dir: dir, Settings: DefaultSettings()}
	if err := cfg.loadSettings(); err != nil {
		return nil, err
	}
	return cfg, nil
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

func (c *Config) loadSettings() error {
	data, err := os.ReadFile(c.SettingsPath())
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", SettingsFile, err)
	}

	s := DefaultSettings()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid %s: %w", SettingsFile, err)
	}

	s.Storage.Backend = strings.ToLower(strings.TrimSpace(s.Storage.Backend))
	if s.Storage.Backend == "" {
		s.Storage.Backend = BackendFile
	}
	switch s.Storage.Backend {
	case BackendFile, BackendSQLite:
	case BackendMySQL:
		if s.Storage.DSN == "" {
			return fmt.Errorf("invalid %s: storage.dsn required for mysql", SettingsFile)
		}
	default:
		return fmt.Errorf("invalid %s: unknown storage backend: %s", SettingsFile, s.Storage.Backend)
	}
	if s.Storage.Key == "" {
		s.Storage.Key = "tasks"
	}
	if strings.TrimSpace(s.Remote.List) == "" {
		s.Remote.List = AppName
	}

	c.Settings = s
	return nil
}

// SettingsPath returns the path to config.yaml.
func (c *Config) SettingsPath() string {
	return filepath.Join(c.Dir, SettingsFile)
}

// StoragePath returns the directory (file backend) or database file (sqlite
// backend) the task list lives in.
func (c *Config) StoragePath() string {
	if c.Settings.Storage.Path != "" {
		return c.Settings.Storage.Path
	}
	if c.Settings.Storage.Backend == BackendSQLite {
		return filepath.Join(c.Dir, SQLiteFile)
	}
	return c.Dir
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
