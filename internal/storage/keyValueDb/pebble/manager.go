package pebble

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/LeJamon/goDoomsday/internal/storage/keyValueDb"
	"github.com/cockroachdb/pebble"
)

type Manager struct {
	dbs    map[string]*pebble.DB
	path   string
	cache  int64
	logger *slog.Logger
	mu     sync.Mutex
}

// NewManager returns a manager rooted at path. cacheBytes sizes pebble's
// block cache; zero keeps the pebble default.
func NewManager(path string, cacheBytes int64, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		dbs:    make(map[string]*pebble.DB),
		path:   path,
		cache:  cacheBytes,
		logger: logger,
	}
}

func (m *Manager) OpenDB(name string) (keyValueDb.DB, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if db, exists := m.dbs[name]; exists {
		return NewDB(db), nil // Already opened
	}

	dbPath := filepath.Join(m.path, name+".db")
	opts := &pebble.Options{}
	if m.cache > 0 {
		cache := pebble.NewCache(m.cache)
		defer cache.Unref()
		opts.Cache = cache
	}

	db, err := pebble.Open(dbPath, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", name, err)
	}

	m.dbs[name] = db
	m.logger.Info("opened pebble database", "name", name, "path", dbPath)

	return NewDB(db), nil
}

func (m *Manager) CloseDB(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	db, exists := m.dbs[name]
	if !exists {
		return fmt.Errorf("database %s not found", name)
	}

	if err := db.Close(); err != nil {
		return err
	}

	delete(m.dbs, name)
	m.logger.Info("closed pebble database", "name", name)
	return nil
}

func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var lastErr error
	for name, db := range m.dbs {
		if err := db.Close(); err != nil {
			lastErr = fmt.Errorf("failed to close database %s: %w", name, err)
		}
		delete(m.dbs, name)
	}
	return lastErr
}
