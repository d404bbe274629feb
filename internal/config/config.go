package config

import (
	"path/filepath"
)

// Config represents the complete doomsdayd configuration
type Config struct {
	// Ledger state storage
	Storage StorageConfig `toml:"storage" mapstructure:"storage"`

	// Operation journal
	Journal JournalConfig `toml:"journal" mapstructure:"journal"`

	// Diagnostics
	Log     LogConfig     `toml:"log" mapstructure:"log"`
	Metrics MetricsConfig `toml:"metrics" mapstructure:"metrics"`

	// KeyFile holds the hex secret used to sign operations from the CLI.
	KeyFile string `toml:"key_file" mapstructure:"key_file"`

	// Internal fields for configuration management
	configPath string `toml:"-" mapstructure:"-"`
	envPath    string `toml:"-" mapstructure:"-"`
}

// ConfigPaths holds the paths to configuration files
type ConfigPaths struct {
	Main string // Path to main config file (doomsday.toml), optional
	Env  string // Path to a .env file, optional
}

// DefaultConfigPaths returns the default configuration file paths
func DefaultConfigPaths() ConfigPaths {
	return ConfigPaths{
		Main: "doomsday.toml",
		Env:  ".env",
	}
}

// ConfigPathsFromDir returns configuration paths for a specific directory
func ConfigPathsFromDir(configDir string) ConfigPaths {
	return ConfigPaths{
		Main: filepath.Join(configDir, "doomsday.toml"),
		Env:  filepath.Join(configDir, ".env"),
	}
}

// GetConfigPath returns the path of the loaded configuration file, if any
func (c *Config) GetConfigPath() string {
	return c.configPath
}

// GetEnvPath returns the path of the loaded .env file, if any
func (c *Config) GetEnvPath() string {
	return c.envPath
}

// IsPersistent reports whether ledger state survives a restart.
func (c *Config) IsPersistent() bool {
	return c.Storage.Backend != BackendMemory
}
