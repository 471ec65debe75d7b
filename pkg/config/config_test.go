package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ssargent/wpilog/pkg/codec"
	"github.com/ssargent/wpilog/pkg/wpilog"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, "safe", config.Decode.Mode)
	assert.Equal(t, "drop", config.Decode.Orphans)
	assert.False(t, config.Decode.CopyStrings)
	assert.False(t, config.Decode.AllowAnyVersion)
	assert.NotEmpty(t, config.Catalog.Dir)
	assert.Equal(t, "info", config.Logging.Level)
	assert.Equal(t, "text", config.Logging.Format)
	assert.Empty(t, config.Metrics.Textfile)
	assert.NoError(t, config.Validate())
}

func TestLoadConfig(t *testing.T) {
	t.Run("load existing config", func(t *testing.T) {
		tmpDir := t.TempDir()

		configPath := filepath.Join(tmpDir, "config.yaml")
		expectedConfig := &Config{
			Decode: Decode{
				Mode:            "fast",
				CopyStrings:     true,
				Orphans:         "error",
				AllowAnyVersion: true,
			},
			Catalog: Catalog{Dir: "/custom/catalog"},
			Logging: Logging{Level: "debug", Format: "json"},
			Metrics: Metrics{Textfile: "/var/lib/node_exporter/wpilog.prom"},
		}

		err := SaveConfig(expectedConfig, configPath)
		require.NoError(t, err)

		loadedConfig, err := LoadConfig(configPath)
		require.NoError(t, err)
		assert.Equal(t, expectedConfig, loadedConfig)
	})

	t.Run("partial config keeps defaults", func(t *testing.T) {
		tmpDir := t.TempDir()

		configPath := filepath.Join(tmpDir, "config.yaml")
		err := os.WriteFile(configPath, []byte("decode:\n  orphans: error\n"), 0600)
		require.NoError(t, err)

		loadedConfig, err := LoadConfig(configPath)
		require.NoError(t, err)
		assert.Equal(t, "error", loadedConfig.Decode.Orphans)
		assert.Equal(t, "safe", loadedConfig.Decode.Mode)
		assert.Equal(t, "info", loadedConfig.Logging.Level)
	})

	t.Run("load non-existent config", func(t *testing.T) {
		_, err := LoadConfig("/non/existent/config.yaml")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "config file does not exist")
	})

	t.Run("load invalid yaml", func(t *testing.T) {
		tmpDir := t.TempDir()

		configPath := filepath.Join(tmpDir, "invalid.yaml")
		err := os.WriteFile(configPath, []byte("invalid: yaml: content: ["), 0644)
		require.NoError(t, err)

		_, err = LoadConfig(configPath)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config file")
	})

	t.Run("load invalid mode", func(t *testing.T) {
		tmpDir := t.TempDir()

		configPath := filepath.Join(tmpDir, "config.yaml")
		err := os.WriteFile(configPath, []byte("decode:\n  mode: turbo\n"), 0600)
		require.NoError(t, err)

		_, err = LoadConfig(configPath)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid decode.mode")
	})
}

func TestSaveConfig(t *testing.T) {
	tmpDir := t.TempDir()

	configPath := filepath.Join(tmpDir, "nested", "config.yaml")
	config := DefaultConfig()

	err := SaveConfig(config, configPath)
	require.NoError(t, err)

	info, err := os.Stat(configPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loadedConfig, err := LoadConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, config, loadedConfig)
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name   string
		modify func(*Config)
		errMsg string
	}{
		{name: "bad orphans", modify: func(c *Config) { c.Decode.Orphans = "keep" }, errMsg: "decode.orphans"},
		{name: "bad level", modify: func(c *Config) { c.Logging.Level = "loud" }, errMsg: "logging.level"},
		{name: "bad format", modify: func(c *Config) { c.Logging.Format = "xml" }, errMsg: "logging.format"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			config := DefaultConfig()
			tc.modify(config)
			err := config.Validate()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}
}

func TestParseOptions(t *testing.T) {
	config := DefaultConfig()
	config.Decode.Mode = "fast"
	config.Decode.Orphans = "error"
	config.Decode.CopyStrings = true

	logger := slog.Default()
	opts, err := config.ParseOptions(logger, nil)
	require.NoError(t, err)

	assert.Equal(t, codec.Decoder{Policy: codec.PolicyFast, CopyStrings: true}, opts.Decoder)
	assert.Equal(t, wpilog.OrphanError, opts.Orphans)
	assert.Same(t, logger, opts.Logger)
	assert.Nil(t, opts.Observer)
}

func TestSlogLevel(t *testing.T) {
	level, err := Logging{Level: "debug"}.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	level, err = Logging{}.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)
}

func TestGetDefaultConfigPath(t *testing.T) {
	path := GetDefaultConfigPath()
	assert.NotEmpty(t, path)
	assert.Contains(t, path, "wpilog")
	assert.Contains(t, path, "config.yaml")
}

func TestConfigExists(t *testing.T) {
	tmpDir := t.TempDir()

	existingPath := filepath.Join(tmpDir, "exists.yaml")
	nonExistentPath := filepath.Join(tmpDir, "does-not-exist.yaml")

	err := os.WriteFile(existingPath, []byte("test"), 0644)
	require.NoError(t, err)

	assert.True(t, ConfigExists(existingPath))
	assert.False(t, ConfigExists(nonExistentPath))
}

func TestConfigYAMLMarshalling(t *testing.T) {
	config := &Config{
		Decode:  Decode{Mode: "safe", Orphans: "drop"},
		Catalog: Catalog{Dir: "/test/catalog"},
		Logging: Logging{Level: "warn", Format: "text"},
	}

	data, err := yaml.Marshal(config)
	require.NoError(t, err)
	assert.Contains(t, string(data), "copy_strings: false")

	var unmarshalled Config
	err = yaml.Unmarshal(data, &unmarshalled)
	require.NoError(t, err)

	assert.Equal(t, config, &unmarshalled)
}

func TestSaveConfigErrorHandling(t *testing.T) {
	config := DefaultConfig()

	// A regular file where a directory is expected
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0600))
	invalidPath := filepath.Join(blocker, "sub", "config.yaml")

	err := SaveConfig(config, invalidPath)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create config directory")
}
