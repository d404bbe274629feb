package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	config, err := LoadConfig(ConfigPaths{})
	require.NoError(t, err)

	assert.Equal(t, BackendPebble, config.Storage.Backend)
	assert.Equal(t, "data/state", config.Storage.Path)
	assert.Equal(t, "lz4", config.Storage.Compression)
	assert.True(t, config.IsPersistent())
	assert.True(t, config.Journal.IsEnabled())
	assert.Equal(t, "data/journal.db", config.Journal.DSN)
	assert.Equal(t, 10*time.Second, config.Journal.Timeout)
	assert.False(t, config.Metrics.IsEnabled())
	assert.Equal(t, "doomsday", config.Metrics.Namespace)
	assert.Empty(t, config.GetConfigPath())
}

func TestLoadConfig(t *testing.T) {
	tempDir := t.TempDir()

	mainConfigContent := `
key_file = "/tmp/operator.key"

[storage]
backend = "pebble"
path = "/tmp/doomsday/state"
compression = "none"

[journal]
driver = "sqlite"
dsn = "/tmp/doomsday/journal.db"
timeout = "3s"

[log]
level = "debug"
format = "json"

[metrics]
addr = "127.0.0.1:9464"
`
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "doomsday.toml"), []byte(mainConfigContent), 0644))

	config, err := LoadConfigFromDir(tempDir)
	require.NoError(t, err)
	require.NotNil(t, config)

	assert.Equal(t, BackendPebble, config.Storage.Backend)
	assert.Equal(t, "/tmp/doomsday/state", config.Storage.Path)
	assert.Equal(t, "none", config.Storage.Compression)
	assert.True(t, config.IsPersistent())

	assert.True(t, config.Journal.IsEnabled())
	assert.Equal(t, 3*time.Second, config.Journal.Timeout)
	settings := config.Journal.JournalSettings()
	assert.Equal(t, "/tmp/doomsday/journal.db", settings.DSN)
	assert.Equal(t, 3*time.Second, settings.DefaultTimeout)

	assert.Equal(t, "debug", config.Log.Level)
	assert.True(t, config.Metrics.IsEnabled())
	assert.Equal(t, "/tmp/operator.key", config.KeyFile)
	assert.Equal(t, filepath.Join(tempDir, "doomsday.toml"), config.GetConfigPath())
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(ConfigPaths{Main: filepath.Join(t.TempDir(), "missing.toml")})
	assert.Error(t, err)
}

func TestEnvironmentOverrides(t *testing.T) {
	tempDir := t.TempDir()
	envPath := filepath.Join(tempDir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("DOOMSDAY_METRICS_NAMESPACE=fromfile\nDOOMSDAY_LOG_LEVEL=warn\n"), 0644))

	// process environment wins over the .env file
	t.Setenv("DOOMSDAY_LOG_LEVEL", "error")
	t.Setenv("DOOMSDAY_STORAGE_BACKEND", "leveldb")
	t.Setenv("DOOMSDAY_STORAGE_PATH", filepath.Join(tempDir, "state"))
	// registers a cleanup that unsets whatever godotenv writes
	t.Setenv("DOOMSDAY_METRICS_NAMESPACE", "")
	os.Unsetenv("DOOMSDAY_METRICS_NAMESPACE")

	config, err := LoadConfig(ConfigPaths{Env: envPath})
	require.NoError(t, err)
	assert.Equal(t, "error", config.Log.Level)
	assert.Equal(t, BackendLevelDB, config.Storage.Backend)
	assert.Equal(t, "fromfile", config.Metrics.Namespace)
	assert.Equal(t, envPath, config.GetEnvPath())
}

func TestValidateConfig(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Storage: StorageConfig{Backend: BackendMemory, Compression: "lz4"},
			Journal: JournalConfig{Driver: "none"},
			Log:     LogConfig{Level: "info", Format: "text"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"unknown backend", func(c *Config) { c.Storage.Backend = "rocksdb" }, true},
		{"pebble without path", func(c *Config) { c.Storage.Backend = BackendPebble }, true},
		{"bad compression", func(c *Config) { c.Storage.Compression = "zstd" }, true},
		{"negative cache", func(c *Config) { c.Storage.CacheSize = -1 }, true},
		{"journal without dsn", func(c *Config) { c.Journal.Driver = "sqlite"; c.Journal.Timeout = time.Second }, true},
		{"journal driver", func(c *Config) { c.Journal.Driver = "mysql" }, true},
		{"log level", func(c *Config) { c.Log.Level = "loud" }, true},
		{"log format", func(c *Config) { c.Log.Format = "xml" }, true},
		{"metrics addr", func(c *Config) { c.Metrics.Addr = "nowhere" }, true},
		{"metrics port", func(c *Config) { c.Metrics.Addr = ":9464" }, false},
		{
			"journal inside store",
			func(c *Config) {
				c.Storage = StorageConfig{Backend: BackendPebble, Path: "/data/state"}
				c.Journal = JournalConfig{Driver: "sqlite", DSN: "/data/state/journal.db", Timeout: time.Second}
			},
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := ValidateConfig(c)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := (&LogConfig{Level: "warn", Format: "json"}).NewLogger(&buf)
	logger.Info("hidden")
	logger.Warn("shown", "k", 1)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	level, err := ParseLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestSaveExampleConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "example.toml")
	require.NoError(t, SaveExampleConfig(path))

	config, err := LoadConfig(ConfigPaths{Main: path})
	require.NoError(t, err)
	assert.Equal(t, BackendPebble, config.Storage.Backend)
	assert.True(t, config.Journal.IsEnabled())
}
