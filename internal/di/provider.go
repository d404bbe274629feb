package di

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/LeJamon/goDoomsday/internal/config"
	"github.com/LeJamon/goDoomsday/internal/core/ledger/state"
	"github.com/LeJamon/goDoomsday/internal/core/tx"
	_ "github.com/LeJamon/goDoomsday/internal/core/tx/all"
	"github.com/LeJamon/goDoomsday/internal/core/tx/token"
	"github.com/LeJamon/goDoomsday/internal/crypto"
	"github.com/LeJamon/goDoomsday/internal/observability"
	"github.com/LeJamon/goDoomsday/internal/storage/journal"
	"github.com/LeJamon/goDoomsday/internal/storage/keyValueDb"
	"github.com/LeJamon/goDoomsday/internal/storage/keyValueDb/leveldb"
	"github.com/LeJamon/goDoomsday/internal/storage/keyValueDb/memory"
	"github.com/LeJamon/goDoomsday/internal/storage/keyValueDb/pebble"
)

// stateDBName is the database holding ledger entries inside the storage path.
const stateDBName = "state"

// Provider configures and registers services in the container.
type Provider struct {
	container *Container
	config    *config.Config
}

// NewProvider creates a new service provider.
func NewProvider(container *Container, cfg *config.Config) *Provider {
	return &Provider{
		container: container,
		config:    cfg,
	}
}

// RegisterAll registers all services. A logger or clock registered before
// the call is kept.
func (p *Provider) RegisterAll() error {
	if p.config == nil {
		return fmt.Errorf("provider has no config")
	}
	p.container.Register(ServiceConfig, p.config)

	if !p.container.Has(ServiceLogger) {
		p.container.Register(ServiceLogger, p.config.Log.NewLogger(os.Stderr))
	}
	if !p.container.Has(ServiceClock) {
		p.container.Register(ServiceClock, tx.Clock(tx.SystemClock{}))
	}

	p.registerStorageBuilders()
	p.registerEngineBuilders()
	return nil
}

func (p *Provider) logger(c *Container) *slog.Logger {
	if l, err := c.Get(ServiceLogger); err == nil {
		if logger, ok := l.(*slog.Logger); ok {
			return logger
		}
	}
	return slog.Default()
}

// registerStorageBuilders registers storage service builders.
func (p *Provider) registerStorageBuilders() {
	// Key-value manager for the configured backend
	p.container.RegisterBuilder(ServiceDBManager, func(c *Container) (interface{}, error) {
		cfg := p.config.Storage
		logger := p.logger(c).With("component", "storage")
		switch cfg.Backend {
		case config.BackendMemory:
			return keyValueDb.Manager(memory.NewManager()), nil
		case config.BackendPebble:
			return keyValueDb.Manager(pebble.NewManager(cfg.Path, cfg.CacheBytes, logger)), nil
		case config.BackendLevelDB:
			return keyValueDb.Manager(leveldb.NewManager(cfg.Path, logger)), nil
		default:
			return nil, fmt.Errorf("%w: %q", keyValueDb.ErrUnknownBackend, cfg.Backend)
		}
	})

	// Ledger state over the state database
	p.container.RegisterBuilder(ServiceStateStore, func(c *Container) (interface{}, error) {
		m, err := c.Get(ServiceDBManager)
		if err != nil {
			return nil, err
		}
		db, err := m.(keyValueDb.Manager).OpenDB(stateDBName)
		if err != nil {
			return nil, err
		}
		return state.NewStore(db, state.Options{
			Compression: p.config.Storage.Compression,
			CacheSize:   p.config.Storage.CacheSize,
			Logger:      p.logger(c),
		})
	})

	// Journal, nil when disabled
	p.container.RegisterBuilder(ServiceJournal, func(c *Container) (interface{}, error) {
		if !p.config.Journal.IsEnabled() {
			return (*journal.Journal)(nil), nil
		}
		return journal.Open(context.Background(), p.config.Journal.JournalSettings(), p.logger(c))
	})
}

// registerEngineBuilders registers the engine and its observers.
func (p *Provider) registerEngineBuilders() {
	p.container.RegisterBuilder(ServiceMetrics, func(c *Container) (interface{}, error) {
		return observability.NewMetrics(p.config.Metrics.Namespace), nil
	})

	p.container.RegisterBuilder(ServiceTokenFactory, func(c *Container) (interface{}, error) {
		return token.Factory(), nil
	})

	p.container.RegisterBuilder(ServiceEngine, func(c *Container) (interface{}, error) {
		store, err := p.GetStateStore()
		if err != nil {
			return nil, err
		}
		j, err := p.GetJournal()
		if err != nil {
			return nil, err
		}
		metrics, err := p.GetMetrics()
		if err != nil {
			return nil, err
		}
		tokens, err := c.Get(ServiceTokenFactory)
		if err != nil {
			return nil, err
		}
		clock, err := c.Get(ServiceClock)
		if err != nil {
			return nil, err
		}
		logger := p.logger(c)

		engineCfg := tx.EngineConfig{
			Clock:     clock.(tx.Clock),
			Tokens:    tokens.(tx.TokenLedgerFactory),
			Verifier:  crypto.Verifier{},
			Logger:    logger,
			Observers: []tx.Observer{metrics},
		}
		if j != nil {
			last, err := j.LastSeq(context.Background())
			if err != nil {
				return nil, err
			}
			engineCfg.StartSeq = last
			engineCfg.Observers = append(engineCfg.Observers, journal.NewObserver(j, logger))
		}
		return tx.NewEngine(store, engineCfg), nil
	})
}

// GetConfig returns the configuration from the container.
func (p *Provider) GetConfig() *config.Config {
	return p.config
}

// GetLogger returns the process logger.
func (p *Provider) GetLogger() *slog.Logger {
	return p.logger(p.container)
}

// GetStateStore returns the ledger state store.
func (p *Provider) GetStateStore() (*state.Store, error) {
	s, err := p.container.Get(ServiceStateStore)
	if err != nil {
		return nil, err
	}
	return s.(*state.Store), nil
}

// GetJournal returns the journal, or nil when journaling is disabled.
func (p *Provider) GetJournal() (*journal.Journal, error) {
	j, err := p.container.Get(ServiceJournal)
	if err != nil {
		return nil, err
	}
	return j.(*journal.Journal), nil
}

// GetMetrics returns the metrics registry.
func (p *Provider) GetMetrics() (*observability.Metrics, error) {
	m, err := p.container.Get(ServiceMetrics)
	if err != nil {
		return nil, err
	}
	return m.(*observability.Metrics), nil
}

// GetEngine returns the operation engine.
func (p *Provider) GetEngine() (*tx.Engine, error) {
	e, err := p.container.Get(ServiceEngine)
	if err != nil {
		return nil, err
	}
	return e.(*tx.Engine), nil
}

// GetTokenFactory returns the token ledger factory bound by the engine.
func (p *Provider) GetTokenFactory() (tx.TokenLedgerFactory, error) {
	f, err := p.container.Get(ServiceTokenFactory)
	if err != nil {
		return nil, err
	}
	return f.(tx.TokenLedgerFactory), nil
}
