package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/LeJamon/goDoomsday/internal/storage/compression"
	"github.com/LeJamon/goDoomsday/internal/storage/journal"
)

// Storage backends
const (
	BackendMemory  = "memory"
	BackendPebble  = "pebble"
	BackendLevelDB = "leveldb"
)

// StorageConfig represents the [storage] section
// Configures the key-value store holding ledger state
type StorageConfig struct {
	Backend     string `toml:"backend" mapstructure:"backend"`
	Path        string `toml:"path" mapstructure:"path"`
	CacheSize   int    `toml:"cache_size" mapstructure:"cache_size"`
	CacheBytes  int64  `toml:"cache_bytes" mapstructure:"cache_bytes"`
	Compression string `toml:"compression" mapstructure:"compression"`
}

// JournalConfig represents the [journal] section
type JournalConfig struct {
	Driver          string        `toml:"driver" mapstructure:"driver"`
	DSN             string        `toml:"dsn" mapstructure:"dsn"`
	MaxOpenConns    int           `toml:"max_open_conns" mapstructure:"max_open_conns"`
	MaxIdleConns    int           `toml:"max_idle_conns" mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `toml:"conn_max_lifetime" mapstructure:"conn_max_lifetime"`
	Timeout         time.Duration `toml:"timeout" mapstructure:"timeout"`
}

// Validate performs validation on the storage configuration
func (s *StorageConfig) Validate() error {
	switch s.Backend {
	case BackendMemory:
	case BackendPebble, BackendLevelDB:
		if s.Path == "" {
			return fmt.Errorf("storage path is required for backend %s", s.Backend)
		}
	default:
		return fmt.Errorf("invalid storage backend: %s (valid options: memory, pebble, leveldb)", s.Backend)
	}

	if s.CacheSize < 0 {
		return fmt.Errorf("cache_size must be non-negative, got %d", s.CacheSize)
	}
	if s.CacheBytes < 0 {
		return fmt.Errorf("cache_bytes must be non-negative, got %d", s.CacheBytes)
	}

	if s.Compression == "" {
		return nil
	}
	if _, err := compression.Get(s.Compression); err != nil {
		return fmt.Errorf("invalid compression: %s (valid options: %s)",
			s.Compression, strings.Join(compression.Available(), ", "))
	}
	return nil
}

// JournalSettings converts the section into journal settings
func (j *JournalConfig) JournalSettings() *journal.Config {
	return &journal.Config{
		Driver:          j.Driver,
		DSN:             j.DSN,
		MaxOpenConns:    j.MaxOpenConns,
		MaxIdleConns:    j.MaxIdleConns,
		ConnMaxLifetime: j.ConnMaxLifetime,
		DefaultTimeout:  j.Timeout,
	}
}

// Validate performs validation on the journal configuration
func (j *JournalConfig) Validate() error {
	return j.JournalSettings().Validate()
}

// IsEnabled returns true if operations are journaled
func (j *JournalConfig) IsEnabled() bool {
	return j.JournalSettings().Enabled()
}
