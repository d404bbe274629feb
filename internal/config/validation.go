package config

import (
	"fmt"
	"strings"
)

// ValidateConfig performs validation on the complete configuration
func ValidateConfig(config *Config) error {
	if err := config.Storage.Validate(); err != nil {
		return fmt.Errorf("storage validation failed: %w", err)
	}
	if err := config.Journal.Validate(); err != nil {
		return fmt.Errorf("journal validation failed: %w", err)
	}
	if err := config.Log.Validate(); err != nil {
		return fmt.Errorf("log validation failed: %w", err)
	}
	if err := config.Metrics.Validate(); err != nil {
		return fmt.Errorf("metrics validation failed: %w", err)
	}

	// Cross-validation checks
	if err := validateCrossReferences(config); err != nil {
		return fmt.Errorf("cross-validation failed: %w", err)
	}
	return nil
}

// validateCrossReferences checks settings that depend on each other
func validateCrossReferences(config *Config) error {
	// A sqlite journal inside the pebble or leveldb directory would be
	// picked up as a store file.
	if config.Journal.Driver == "sqlite" && config.IsPersistent() {
		store := strings.TrimSuffix(config.Storage.Path, "/") + "/"
		if strings.HasPrefix(config.Journal.DSN, store) {
			return fmt.Errorf("journal dsn %s must not live inside storage path %s", config.Journal.DSN, config.Storage.Path)
		}
	}
	return nil
}
