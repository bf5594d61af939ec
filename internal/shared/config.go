package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Database   DatabaseConfig   `toml:"database"`
	Log        LogConfig        `toml:"log"`
	Processing ProcessingConfig `toml:"processing"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
	ForeignKeys  bool   `toml:"foreign_keys"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// ProcessingConfig holds the default processing settings handed to the pipeline
// when a track is queued for regeneration without explicit settings.
type ProcessingConfig struct {
	IntroLength    int    `toml:"intro_length"`
	OutroLength    int    `toml:"outro_length"`
	PreserveVocals bool   `toml:"preserve_vocals"`
	BeatDetection  string `toml:"beat_detection"`
}

// DSN returns the driver DSN for the configured database path.
func (c DatabaseConfig) DSN() string {
	if c.ForeignKeys {
		return WithForeignKeys(c.Path)
	}
	return c.Path
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %w", ErrInvalidConfig, err)
	}

	if config.Database.Path == "" {
		return nil, fmt.Errorf("%w: database.path is required", ErrInvalidConfig)
	}

	return config, nil
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

// ResolveConfig loads the config at path when it exists and falls back to [DefaultConfig] otherwise.
//
// A present but unreadable file is an error; a missing one is not.
func ResolveConfig(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("%w: %w", ErrMissingConfig, err)
	}
	return LoadConfig(path)
}
