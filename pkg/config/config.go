/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultMaxUploadBytes caps request bodies accepted by the HTTP service.
const DefaultMaxUploadBytes int64 = 32 << 20

// Config represents the pngme configuration
type Config struct {
	StashDir       string   `yaml:"stash_dir"`
	Port           int      `yaml:"port"`
	Bind           string   `yaml:"bind"`
	Strict         bool     `yaml:"strict"`
	MaxUploadBytes int64    `yaml:"max_upload_bytes"`
	Security       Security `yaml:"security"`
	Logging        Logging  `yaml:"logging"`
	Files          Files    `yaml:"files"`
}

// Security contains security-related configuration
type Security struct {
	// APIKey guards the HTTP service. Empty disables the check.
	APIKey string `yaml:"api_key"`
}

// Logging contains logging configuration
type Logging struct {
	Level string `yaml:"level"`
}

// Files controls how the CLI rewrites images in place.
type Files struct {
	Backup bool `yaml:"backup"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		StashDir:       "./stash",
		Port:           8080,
		Bind:           "127.0.0.1",
		MaxUploadBytes: DefaultMaxUploadBytes,
		Logging: Logging{
			Level: "info",
		},
	}
}

// Address returns the host:port the HTTP service listens on.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Bind, c.Port)
}

// Validate reports settings that cannot be used.
func (c *Config) Validate() error {
	if c.StashDir == "" {
		return fmt.Errorf("stash_dir must be set")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("max_upload_bytes must be positive, got %d", c.MaxUploadBytes)
	}
	return nil
}

// LoadConfig loads configuration from the specified path. Fields missing
// from the file keep their default values.
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

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveConfig saves the configuration to the specified path with secure permissions
func SaveConfig(config *Config, configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// 0600: the file may hold the API key
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GenerateSecureKey generates a cryptographically secure random key
func GenerateSecureKey(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate secure key: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// BootstrapConfig writes a default configuration to configPath. When
// withAPIKey is set a random API key is generated for the HTTP service.
func BootstrapConfig(configPath string, stashDir string, withAPIKey bool) (*Config, error) {
	config := DefaultConfig()
	if stashDir != "" {
		config.StashDir = stashDir
	}

	if withAPIKey {
		key, err := GenerateSecureKey(32)
		if err != nil {
			return nil, fmt.Errorf("failed to generate API key: %w", err)
		}
		config.Security.APIKey = key
	}

	if err := SaveConfig(config, configPath); err != nil {
		return nil, fmt.Errorf("failed to save bootstrap config: %w", err)
	}

	return config, nil
}

// GetDefaultConfigPath returns the default configuration path for the current platform
func GetDefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./pngme.yaml"
	}

	// ~/.config/pngme/config.yaml
	return filepath.Join(homeDir, ".config", "pngme", "config.yaml")
}

// ConfigExists checks if a configuration file exists
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return !os.IsNotExist(err)
}
