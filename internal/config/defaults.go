package config

import (
	"time"

	"github.com/LeJamon/goDoomsday/internal/core/ledger/state"
	"github.com/spf13/viper"
)

// setDefaults sets all default values. With no file and no environment the
// node keeps its state and journal under ./data.
func setDefaults(v *viper.Viper) {
	// Storage defaults
	v.SetDefault("storage.backend", BackendPebble)
	v.SetDefault("storage.path", "data/state")
	v.SetDefault("storage.cache_size", state.DefaultCacheSize)
	v.SetDefault("storage.cache_bytes", 0) // 0 keeps the pebble default
	v.SetDefault("storage.compression", "lz4")

	// Journal defaults
	v.SetDefault("journal.driver", "sqlite")
	v.SetDefault("journal.dsn", "data/journal.db")
	v.SetDefault("journal.max_open_conns", 10)
	v.SetDefault("journal.max_idle_conns", 2)
	v.SetDefault("journal.conn_max_lifetime", time.Hour)
	v.SetDefault("journal.timeout", 10*time.Second)

	// Diagnostics defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("metrics.addr", "")
	v.SetDefault("metrics.namespace", "doomsday")

	v.SetDefault("key_file", "")
}
