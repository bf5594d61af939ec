package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./extendr.db" {
			t.Errorf("expected database path ./extendr.db, got %s", config.Database.Path)
		}

		if config.Database.ForeignKeys {
			t.Error("expected foreign keys to be off by default")
		}

		if config.Log.Level != "info" {
			t.Errorf("expected log level info, got %s", config.Log.Level)
		}

		if config.Processing.IntroLength != 16 || config.Processing.OutroLength != 16 {
			t.Errorf("expected 16/16 intro/outro, got %d/%d", config.Processing.IntroLength, config.Processing.OutroLength)
		}

		if !config.Processing.PreserveVocals {
			t.Error("expected preserve_vocals to default to true")
		}

		if config.Processing.BeatDetection != "auto" {
			t.Errorf("expected beat_detection auto, got %s", config.Processing.BeatDetection)
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
max_idle_conns = 10
foreign_keys = true

[log]
level = "debug"
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

		if config.Database.MaxOpenConns != 20 {
			t.Errorf("expected max_open_conns 20, got %d", config.Database.MaxOpenConns)
		}

		if config.Log.Level != "debug" {
			t.Errorf("expected log level debug, got %s", config.Log.Level)
		}

		if config.Processing.BeatDetection != "auto" {
			t.Errorf("omitted sections should keep defaults, got beat_detection %q", config.Processing.BeatDetection)
		}

		if got := config.Database.DSN(); got != "/custom/path.db?_foreign_keys=1" {
			t.Errorf("unexpected DSN: %s", got)
		}
	})

	t.Run("LoadConfig Invalid", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := os.WriteFile(configPath, []byte("[database\npath = "), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfig(configPath); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("ResolveConfig Missing File", func(t *testing.T) {
		config, err := ResolveConfig(filepath.Join(t.TempDir(), "absent.toml"))
		if err != nil {
			t.Fatalf("missing config should fall back to defaults: %v", err)
		}
		if config.Database.Path != DefaultConfig().Database.Path {
			t.Errorf("expected default database path, got %s", config.Database.Path)
		}
	})
}

func TestWithForeignKeys(t *testing.T) {
	tc := []struct {
		name string
		path string
		want string
	}{
		{name: "plain path", path: "./extendr.db", want: "./extendr.db?_foreign_keys=1"},
		{name: "path with query", path: "file:x?mode=memory", want: "file:x?mode=memory&_foreign_keys=1"},
		{name: "bare memory", path: ":memory:", want: "file::memory:?_foreign_keys=1"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := WithForeignKeys(tt.path); got != tt.want {
				t.Errorf("WithForeignKeys(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
