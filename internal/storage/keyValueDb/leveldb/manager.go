package leveldb

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/LeJamon/goDoomsday/internal/storage/keyValueDb"
)

type Manager struct {
	dbs    map[string]*DB
	path   string
	logger *slog.Logger
	mu     sync.Mutex
}

func NewManager(path string, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		dbs:    make(map[string]*DB),
		path:   path,
		logger: logger,
	}
}

func (m *Manager) OpenDB(name string) (keyValueDb.DB, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if db, exists := m.dbs[name]; exists {
		return db, nil
	}

	dbPath := filepath.Join(m.path, name+".ldb")
	db, err := Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", name, err)
	}

	m.dbs[name] = db
	m.logger.Info("opened leveldb database", "name", name, "path", dbPath)
	return db, nil
}

func (m *Manager) CloseDB(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	db, exists := m.dbs[name]
	if !exists {
		return fmt.Errorf("database %s not found", name)
	}
	delete(m.dbs, name)
	m.logger.Info("closed leveldb database", "name", name)
	return db.Close()
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
