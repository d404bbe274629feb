package config

import (
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"strings"
)

// LogConfig represents the [log] section
type LogConfig struct {
	Level  string `toml:"level" mapstructure:"level"`
	Format string `toml:"format" mapstructure:"format"`
}

// MetricsConfig represents the [metrics] section
// An empty address disables the metrics endpoint
type MetricsConfig struct {
	Addr      string `toml:"addr" mapstructure:"addr"`
	Namespace string `toml:"namespace" mapstructure:"namespace"`
}

// Validate performs validation on the log configuration
func (l *LogConfig) Validate() error {
	if _, err := ParseLevel(l.Level); err != nil {
		return err
	}
	switch strings.ToLower(l.Format) {
	case "text", "json":
		return nil
	default:
		return fmt.Errorf("invalid log format: %s (valid options: text, json)", l.Format)
	}
}

// ParseLevel maps a level name to a slog level
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug", "trace":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error", "fatal":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level: %s (valid options: debug, info, warn, error)", level)
	}
}

// NewLogger builds the process logger writing to w
func (l *LogConfig) NewLogger(w io.Writer) *slog.Logger {
	level, _ := ParseLevel(l.Level)
	opts := &slog.HandlerOptions{Level: level}
	if strings.ToLower(l.Format) == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Validate performs validation on the metrics configuration
func (m *MetricsConfig) Validate() error {
	if m.Addr == "" {
		// Metrics endpoint disabled
		return nil
	}
	if !isValidAddressPort(m.Addr) {
		return fmt.Errorf("invalid metrics address: %s (expected format: host:port)", m.Addr)
	}
	return nil
}

// IsEnabled returns true if metrics are served over HTTP
func (m *MetricsConfig) IsEnabled() bool {
	return m.Addr != ""
}

func isValidAddressPort(addr string) bool {
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return false
	}
	p, err := strconv.Atoi(port)
	return err == nil && p >= 0 && p <= 65535
}
