// Package config provides YAML-backed configuration for the rollup core node.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the rollup core node.
type Config struct {
	// Storage settings.
	Storage StorageConfig `yaml:"storage"`

	// Fee holds per-backend cycles-limit policy used for mempool fee-rate
	// extraction.
	Fee FeeConfig `yaml:"fee"`

	// Logging settings.
	Logging LoggingConfig `yaml:"logging"`
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	// DataDir is the directory holding the bbolt database and content-addressed
	// blob files.
	DataDir string `yaml:"data_dir"`
}

// FeeConfig holds the cycles-limit divisor used to turn a transaction's raw
// fee amount into a per-cycle fee rate for each backend kind. A zero limit is
// not treated specially: it is used as the entry's cycles limit as is, and the
// cross-multiplied comparison in fee.Less then ranks any such entry with a
// nonzero fee above every entry whose cycles limit is nonzero.
type FeeConfig struct {
	// MetaCyclesLimit is the cycles limit for Meta contract transactions.
	MetaCyclesLimit uint64 `yaml:"meta_cycles_limit"`

	// EthAddrRegCyclesLimit is the cycles limit for the ETH address registry
	// contract.
	EthAddrRegCyclesLimit uint64 `yaml:"eth_addr_reg_cycles_limit"`

	// SudtCyclesLimit is the cycles limit for simple UDT transactions.
	SudtCyclesLimit uint64 `yaml:"sudt_cycles_limit"`

	// WithdrawCyclesLimit is the cycles limit applied to withdrawal requests.
	WithdrawCyclesLimit uint64 `yaml:"withdraw_cycles_limit"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the log level (debug, info, warn, error).
	Level string `yaml:"level"`

	// File is the log file path (empty for stdout).
	File string `yaml:"file"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			DataDir: "~/.rollupcore",
		},
		Fee: FeeConfig{
			MetaCyclesLimit:       1_000_000,
			EthAddrRegCyclesLimit: 1_000_000,
			SudtCyclesLimit:       1_000_000,
			WithdrawCyclesLimit:   1_000_000,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// ConfigFileName is the default config file name.
const ConfigFileName = "config.yaml"

// LoadConfig loads configuration from a YAML file under dataDir.
// If the file doesn't exist, it creates one with default values.
func LoadConfig(dataDir string) (*Config, error) {
	expandedDir := expandPath(dataDir)
	configPath := filepath.Join(expandedDir, ConfigFileName)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := DefaultConfig()
		cfg.Storage.DataDir = dataDir

		if err := cfg.Save(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}

		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte("# rollupcore node configuration\n# Generated automatically on first run\n\n")
	data = append(header, data...)

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ConfigPath returns the full path to the config file for the given data directory.
func ConfigPath(dataDir string) string {
	return filepath.Join(expandPath(dataDir), ConfigFileName)
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[1:])
	}
	return path
}
