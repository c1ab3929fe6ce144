package config

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, "./stash", config.StashDir)
	assert.Equal(t, 8080, config.Port)
	assert.Equal(t, "127.0.0.1", config.Bind)
	assert.False(t, config.Strict)
	assert.Equal(t, int64(32<<20), config.MaxUploadBytes)
	assert.Empty(t, config.Security.APIKey)
	assert.Equal(t, "info", config.Logging.Level)
	assert.False(t, config.Files.Backup)
	assert.Equal(t, "127.0.0.1:8080", config.Address())
	assert.NoError(t, config.Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"empty stash dir", func(c *Config) { c.StashDir = "" }, "stash_dir"},
		{"negative port", func(c *Config) { c.Port = -1 }, "port"},
		{"port too large", func(c *Config) { c.Port = 70000 }, "port"},
		{"zero upload limit", func(c *Config) { c.MaxUploadBytes = 0 }, "max_upload_bytes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)
			err := config.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestGenerateSecureKey(t *testing.T) {
	t.Run("generate 32 byte key", func(t *testing.T) {
		key, err := GenerateSecureKey(32)
		require.NoError(t, err)
		assert.Len(t, key, 64)

		_, err = hex.DecodeString(key)
		assert.NoError(t, err)
	})

	t.Run("generate different keys", func(t *testing.T) {
		key1, err := GenerateSecureKey(16)
		require.NoError(t, err)
		key2, err := GenerateSecureKey(16)
		require.NoError(t, err)

		assert.NotEqual(t, key1, key2)
	})

	t.Run("zero length", func(t *testing.T) {
		key, err := GenerateSecureKey(0)
		require.NoError(t, err)
		assert.Empty(t, key)
	})
}

func TestLoadConfig(t *testing.T) {
	t.Run("load existing config", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.yaml")
		expectedConfig := &Config{
			StashDir:       "/custom/stash",
			Port:           9000,
			Bind:           "0.0.0.0",
			Strict:         true,
			MaxUploadBytes: 1024,
			Security: Security{
				APIKey: "test-api-key",
			},
			Logging: Logging{
				Level: "debug",
			},
			Files: Files{
				Backup: true,
			},
		}

		require.NoError(t, SaveConfig(expectedConfig, configPath))

		loadedConfig, err := LoadConfig(configPath)
		require.NoError(t, err)
		assert.Equal(t, expectedConfig, loadedConfig)
	})

	t.Run("missing fields keep defaults", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "partial.yaml")
		require.NoError(t, os.WriteFile(configPath, []byte("port: 9100\nstrict: true\n"), 0600))

		loadedConfig, err := LoadConfig(configPath)
		require.NoError(t, err)
		assert.Equal(t, 9100, loadedConfig.Port)
		assert.True(t, loadedConfig.Strict)
		assert.Equal(t, "./stash", loadedConfig.StashDir)
		assert.Equal(t, DefaultMaxUploadBytes, loadedConfig.MaxUploadBytes)
		assert.Equal(t, "info", loadedConfig.Logging.Level)
	})

	t.Run("load non-existent config", func(t *testing.T) {
		_, err := LoadConfig("/non/existent/config.yaml")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "config file does not exist")
	})

	t.Run("load invalid yaml", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "invalid.yaml")
		require.NoError(t, os.WriteFile(configPath, []byte("invalid: yaml: content: ["), 0644))

		_, err := LoadConfig(configPath)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config file")
	})
}

func TestSaveConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "config.yaml")
	config := DefaultConfig()

	require.NoError(t, SaveConfig(config, configPath))

	info, err := os.Stat(configPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loadedConfig, err := LoadConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, config, loadedConfig)
}

func TestSaveConfigErrorHandling(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	// a regular file cannot act as the parent directory
	err := SaveConfig(DefaultConfig(), filepath.Join(blocker, "sub", "config.yaml"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create config directory")
}

func TestBootstrapConfig(t *testing.T) {
	t.Run("with api key", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.yaml")

		config, err := BootstrapConfig(configPath, "/custom/stash", true)
		require.NoError(t, err)

		assert.Equal(t, "/custom/stash", config.StashDir)
		assert.Equal(t, 8080, config.Port)
		assert.Len(t, config.Security.APIKey, 64)
		_, err = hex.DecodeString(config.Security.APIKey)
		assert.NoError(t, err)

		assert.True(t, ConfigExists(configPath))
		loadedConfig, err := LoadConfig(configPath)
		require.NoError(t, err)
		assert.Equal(t, config, loadedConfig)
	})

	t.Run("defaults only", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.yaml")

		config, err := BootstrapConfig(configPath, "", false)
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), config)
	})
}

func TestGetDefaultConfigPath(t *testing.T) {
	path := GetDefaultConfigPath()
	assert.NotEmpty(t, path)
	assert.Contains(t, path, "pngme")
	assert.Contains(t, path, ".yaml")
}

func TestConfigExists(t *testing.T) {
	tmpDir := t.TempDir()
	existingPath := filepath.Join(tmpDir, "exists.yaml")
	nonExistentPath := filepath.Join(tmpDir, "does-not-exist.yaml")

	require.NoError(t, os.WriteFile(existingPath, []byte("test"), 0644))

	assert.True(t, ConfigExists(existingPath))
	assert.False(t, ConfigExists(nonExistentPath))
}
