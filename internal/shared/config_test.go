package shared

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./recon.db" {
			t.Errorf("expected database path ./recon.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 3000 {
			t.Errorf("expected server port 3000, got %d", config.Server.Port)
		}

		if config.Client.BaseURL != "http://127.0.0.1:3000" {
			t.Errorf("expected client base URL http://127.0.0.1:3000, got %s", config.Client.BaseURL)
		}

		if config.Import.Workers != 4 {
			t.Errorf("expected 4 import workers, got %d", config.Import.Workers)
		}

		if config.Log.Level != "info" {
			t.Errorf("expected log level info, got %s", config.Log.Level)
		}

		if err := config.Validate(); err != nil {
			t.Errorf("default config should validate: %v", err)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[database]
path = "/custom/path.db"
max_open_conns = 20
busy_timeout_ms = 250

[server]
host = "0.0.0.0"
port = 8080
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}

		if got := config.Database.BusyTimeout(); got != 250*time.Millisecond {
			t.Errorf("expected busy timeout 250ms, got %v", got)
		}

		if config.Server.Addr() != "0.0.0.0:8080" {
			t.Errorf("expected addr 0.0.0.0:8080, got %s", config.Server.Addr())
		}

		if config.Import.Workers != 4 {
			t.Errorf("missing keys should keep defaults, got %d workers", config.Import.Workers)
		}
	})

	t.Run("LoadConfig Invalid", func(t *testing.T) {
		tmpDir := t.TempDir()

		tc := []struct {
			name    string
			content string
		}{
			{name: "bad toml", content: "[database\npath ="},
			{name: "bad port", content: "[server]\nport = 70000\n"},
			{name: "bad level", content: "[log]\nlevel = \"loud\"\n"},
			{name: "empty path", content: "[database]\npath = \"\"\n"},
		}

		for i, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				configPath := filepath.Join(tmpDir, fmt.Sprintf("case%d.toml", i))
				if err := os.WriteFile(configPath, []byte(tt.content), 0644); err != nil {
					t.Fatalf("failed to write test config: %v", err)
				}

				_, err := LoadConfig(configPath)
				if !errors.Is(err, ErrInvalidConfig) {
					t.Errorf("expected ErrInvalidConfig, got %v", err)
				}
			})
		}
	})

	t.Run("LoadConfig Missing File", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
			t.Error("expected error for missing config file")
		}
	})
}
