/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ssargent/wpilog/pkg/codec"
	"github.com/ssargent/wpilog/pkg/wpilog"
)

// Config represents the wpilog tool configuration
type Config struct {
	Decode  Decode  `yaml:"decode"`
	Catalog Catalog `yaml:"catalog"`
	Logging Logging `yaml:"logging"`
	Metrics Metrics `yaml:"metrics"`
}

// Decode contains parser settings
type Decode struct {
	Mode            string `yaml:"mode"`              // safe | fast
	CopyStrings     bool   `yaml:"copy_strings"`      // copy strings out of the input buffer
	Orphans         string `yaml:"orphans"`           // drop | error
	AllowAnyVersion bool   `yaml:"allow_any_version"` // skip the 1.0 version check
}

// Catalog contains settings for the parsed log catalog
type Catalog struct {
	Dir string `yaml:"dir"`
}

// Logging contains logging configuration
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Metrics contains Prometheus export configuration
type Metrics struct {
	Textfile string `yaml:"textfile"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Decode: Decode{
			Mode:    "safe",
			Orphans: "drop",
		},
		Catalog: Catalog{
			Dir: defaultCatalogDir(),
		},
		Logging: Logging{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadConfig loads configuration from the specified path
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	if !filepath.IsAbs(configPath) {
		absPath, err := filepath.Abs(configPath)
		if err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		configPath = absPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Unset fields keep their defaults
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// SaveConfig saves the configuration to the specified path
func SaveConfig(config *Config, configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks that every enumerated setting has a known value
func (c *Config) Validate() error {
	if _, err := codec.ParsePolicy(c.Decode.Mode); err != nil {
		return fmt.Errorf("invalid decode.mode: %w", err)
	}
	if _, err := wpilog.ParseOrphanPolicy(c.Decode.Orphans); err != nil {
		return fmt.Errorf("invalid decode.orphans: %w", err)
	}
	if _, err := c.Logging.SlogLevel(); err != nil {
		return fmt.Errorf("invalid logging.level: %w", err)
	}
	switch c.Logging.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("invalid logging.format: %q", c.Logging.Format)
	}
	return nil
}

// ParseOptions builds parser options from the decode settings
func (c *Config) ParseOptions(logger *slog.Logger, observer wpilog.Observer) (wpilog.Options, error) {
	policy, err := codec.ParsePolicy(c.Decode.Mode)
	if err != nil {
		return wpilog.Options{}, err
	}
	orphans, err := wpilog.ParseOrphanPolicy(c.Decode.Orphans)
	if err != nil {
		return wpilog.Options{}, err
	}

	return wpilog.Options{
		Decoder: codec.Decoder{
			Policy:          policy,
			CopyStrings:     c.Decode.CopyStrings,
			AllowAnyVersion: c.Decode.AllowAnyVersion,
		},
		Orphans:  orphans,
		Logger:   logger,
		Observer: observer,
	}, nil
}

// SlogLevel maps the configured level name onto a slog.Level
func (l Logging) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if l.Level == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo, err
	}
	return level, nil
}

// GetDefaultConfigPath returns the default configuration path for the current platform
func GetDefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./wpilog.yaml"
	}

	// For Linux/macOS, use ~/.config/wpilog/config.yaml
	return filepath.Join(homeDir, ".config", "wpilog", "config.yaml")
}

// ConfigExists checks if a configuration file exists
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return !os.IsNotExist(err)
}

func defaultCatalogDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./catalog"
	}
	return filepath.Join(homeDir, ".config", "wpilog", "catalog")
}
