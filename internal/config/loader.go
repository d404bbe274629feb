package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. DOOMSDAY_JOURNAL_DSN.
const EnvPrefix = "DOOMSDAY"

// LoadConfig loads configuration from multiple sources in priority order:
// 1. Default values
// 2. Configuration file (doomsday.toml), if present
// 3. .env file, if present
// 4. Environment variables (DOOMSDAY_ prefix)
func LoadConfig(paths ConfigPaths) (*Config, error) {
	// Create viper instance for main config
	v := viper.New()

	// 1. Set defaults first
	setDefaults(v)

	// 2. Load main configuration file
	loadedMain, err := loadMainConfig(v, paths.Main)
	if err != nil {
		return nil, fmt.Errorf("failed to load main config: %w", err)
	}

	// 3. Load .env without overriding variables already set
	loadedEnv, err := loadEnvFile(paths.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	// 4. Set up environment variable support
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 5. Unmarshal main config into struct
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 6. Store paths for reference
	if loadedMain {
		config.configPath = paths.Main
	}
	if loadedEnv {
		config.envPath = paths.Env
	}

	// 7. Validate the complete configuration
	if err := ValidateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// loadMainConfig reads the TOML file at configPath. A missing default file
// is not an error; it reports whether a file was read.
func loadMainConfig(v *viper.Viper, configPath string) (bool, error) {
	if configPath == "" {
		return false, nil
	}

	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		if configPath == DefaultConfigPaths().Main {
			return false, nil
		}
		return false, fmt.Errorf("config file does not exist: %s", configPath)
	}

	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return false, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}
	return true, nil
}

// loadEnvFile loads KEY=value pairs into the process environment
func loadEnvFile(envPath string) (bool, error) {
	if envPath == "" {
		return false, nil
	}
	if _, err := os.Stat(envPath); errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err := godotenv.Load(envPath); err != nil {
		return false, fmt.Errorf("failed to read env file %s: %w", envPath, err)
	}
	return true, nil
}

// LoadConfigFromDir loads configuration from a directory containing both files
func LoadConfigFromDir(configDir string) (*Config, error) {
	return LoadConfig(ConfigPathsFromDir(configDir))
}

// SaveExampleConfig saves an example configuration file
func SaveExampleConfig(configPath string) error {
	v := viper.New()
	for key, value := range generateExampleConfig() {
		v.Set(key, value)
	}

	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	if err := v.WriteConfig(); err != nil {
		return fmt.Errorf("failed to write example config: %w", err)
	}
	return nil
}

// generateExampleConfig generates example configuration values
func generateExampleConfig() map[string]interface{} {
	return map[string]interface{}{
		"storage.backend":     BackendPebble,
		"storage.path":        "/var/lib/doomsday/state",
		"storage.cache_size":  4096,
		"storage.compression": "lz4",

		"journal.driver": "sqlite",
		"journal.dsn":    "/var/lib/doomsday/journal.db",

		"log.level":  "info",
		"log.format": "json",

		"metrics.addr":      "127.0.0.1:9464",
		"metrics.namespace": "doomsday",

		"key_file": "/etc/doomsday/operator.key",
	}
}
