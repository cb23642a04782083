package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Database DatabaseConfig `toml:"database"`
	Server   ServerConfig   `toml:"server"`
	Client   ClientConfig   `toml:"client"`
	Import   ImportConfig   `toml:"import"`
	Log      LogConfig      `toml:"log"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path          string `toml:"path"`
	MaxOpenConns  int    `toml:"max_open_conns"`
	MaxIdleConns  int    `toml:"max_idle_conns"`
	BusyTimeoutMS int    `toml:"busy_timeout_ms"`
}

// BusyTimeout returns how long a writer waits for the database lock before failing.
func (c DatabaseConfig) BusyTimeout() time.Duration {
	if c.BusyTimeoutMS <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.BusyTimeoutMS) * time.Millisecond
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host                string `toml:"host"`
	Port                int    `toml:"port"`
	ReadTimeoutSeconds  int    `toml:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `toml:"write_timeout_seconds"`
}

// Addr returns the host:port listen address.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ClientConfig contains settings for talking to a remote recon server.
type ClientConfig struct {
	BaseURL string `toml:"base_url"`
}

// ImportConfig contains bulk import settings.
type ImportConfig struct {
	Workers   int     `toml:"workers"`
	RateLimit float64 `toml:"rate_limit"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("%w: database.path is required", ErrInvalidConfig)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server.port %d out of range", ErrInvalidConfig, c.Server.Port)
	}
	if c.Import.Workers < 0 {
		return fmt.Errorf("%w: import.workers must not be negative", ErrInvalidConfig)
	}
	if _, err := ParseLogLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
