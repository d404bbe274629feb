package di

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/LeJamon/goDoomsday/internal/config"
	"github.com/LeJamon/goDoomsday/internal/core/ledger/keylet"
	"github.com/LeJamon/goDoomsday/internal/core/tx"
	"github.com/LeJamon/goDoomsday/internal/core/tx/token"
	"github.com/LeJamon/goDoomsday/internal/crypto"
	"github.com/LeJamon/goDoomsday/internal/storage/journal"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingCloser struct {
	name  string
	order *[]string
	err   error
}

func (r *recordingCloser) Close() error {
	*r.order = append(*r.order, r.name)
	return r.err
}

func TestContainerBuildsOnce(t *testing.T) {
	c := New()
	builds := 0
	c.RegisterBuilder("svc", func(c *Container) (interface{}, error) {
		builds++
		return builds, nil
	})

	first, err := c.Get("svc")
	require.NoError(t, err)
	second, err := c.Get("svc")
	require.NoError(t, err)
	assert.Equal(t, 1, first)
	assert.Equal(t, 1, second)
	assert.Equal(t, 1, builds)

	_, err = c.Get("missing")
	assert.ErrorIs(t, err, ErrServiceNotFound)
	assert.Panics(t, func() { c.MustGet("missing") })
}

func TestContainerNestedBuilders(t *testing.T) {
	c := New()
	c.RegisterBuilder("a", func(c *Container) (interface{}, error) { return "a", nil })
	c.RegisterBuilder("b", func(c *Container) (interface{}, error) {
		a, err := c.Get("a")
		if err != nil {
			return nil, err
		}
		return a.(string) + "b", nil
	})
	b, err := c.Get("b")
	require.NoError(t, err)
	assert.Equal(t, "ab", b)
	assert.Equal(t, []string{"a", "b"}, c.ServiceNames())
}

func TestContainerClosesInReverseOrder(t *testing.T) {
	var order []string
	boom := errors.New("boom")
	c := New()
	c.RegisterBuilder("db", func(c *Container) (interface{}, error) {
		return &recordingCloser{name: "db", order: &order}, nil
	})
	c.RegisterBuilder("journal", func(c *Container) (interface{}, error) {
		if _, err := c.Get("db"); err != nil {
			return nil, err
		}
		return &recordingCloser{name: "journal", order: &order, err: boom}, nil
	})

	_, err := c.Get("journal")
	require.NoError(t, err)

	err = c.Close()
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"journal", "db"}, order)

	// closed services are rebuilt on demand
	_, err = c.Get("db")
	require.NoError(t, err)
	require.NoError(t, c.Close())
	assert.Equal(t, []string{"journal", "db", "db"}, order)
}

func testConfig(t *testing.T, backend string) *config.Config {
	dir := t.TempDir()
	return &config.Config{
		Storage: config.StorageConfig{
			Backend:     backend,
			Path:        filepath.Join(dir, "state"),
			Compression: "lz4",
		},
		Journal: config.JournalConfig{
			Driver:  journal.DriverSQLite,
			DSN:     filepath.Join(dir, "journal.db"),
			Timeout: 5 * time.Second,
		},
		Log:     config.LogConfig{Level: "info", Format: "text"},
		Metrics: config.MetricsConfig{Namespace: "test"},
	}
}

func newProvider(t *testing.T, cfg *config.Config) (*Container, *Provider) {
	t.Helper()
	c := New()
	c.Register(ServiceLogger, slog.New(slog.DiscardHandler))
	p := NewProvider(c, cfg)
	require.NoError(t, p.RegisterAll())
	return c, p
}

func createMint(t *testing.T, engine *tx.Engine, key *crypto.KeyPair, name string) tx.ApplyResult {
	t.Helper()
	op := &token.CreateMint{Name: name}
	pub, sig, err := crypto.SignOperation(key, op)
	require.NoError(t, err)
	return engine.Submit(op, pub, sig)
}

func TestProviderWiresEngine(t *testing.T) {
	cfg := testConfig(t, config.BackendMemory)
	c, p := newProvider(t, cfg)
	defer c.Close()

	engine, err := p.GetEngine()
	require.NoError(t, err)
	key, _, err := crypto.GenerateKeyPair()
	require.NoError(t, err)

	res := createMint(t, engine, key, "DOOM")
	require.Equal(t, tx.TesSUCCESS, res.Result)
	assert.Equal(t, uint64(1), res.Seq)

	store, err := p.GetStateStore()
	require.NoError(t, err)
	ok, err := store.Exists(keylet.Mint(keylet.NamedMint("DOOM")))
	require.NoError(t, err)
	assert.True(t, ok)

	j, err := p.GetJournal()
	require.NoError(t, err)
	entries, err := j.List(context.Background(), journal.Filter{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, key.AccountID(), entries[0].Caller)

	metrics, err := p.GetMetrics()
	require.NoError(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.OperationsTotal.WithLabelValues("create_mint", "tesSUCCESS")))
}

// A restarted node keeps its state and continues the journal sequence.
func TestProviderRestart(t *testing.T) {
	cfg := testConfig(t, config.BackendPebble)
	key, _, err := crypto.GenerateKeyPair()
	require.NoError(t, err)

	c, p := newProvider(t, cfg)
	engine, err := p.GetEngine()
	require.NoError(t, err)
	require.Equal(t, tx.TesSUCCESS, createMint(t, engine, key, "DOOM").Result)
	require.NoError(t, c.Close())

	c, p = newProvider(t, cfg)
	defer c.Close()
	engine, err = p.GetEngine()
	require.NoError(t, err)

	res := createMint(t, engine, key, "DOOM")
	assert.NotEqual(t, tx.TesSUCCESS, res.Result, "mint survived the restart")
	assert.Equal(t, uint64(2), res.Seq)
}

func TestProviderJournalDisabled(t *testing.T) {
	cfg := testConfig(t, config.BackendMemory)
	cfg.Journal.Driver = journal.DriverNone
	c, p := newProvider(t, cfg)
	defer c.Close()

	j, err := p.GetJournal()
	require.NoError(t, err)
	assert.Nil(t, j)

	_, err = p.GetEngine()
	require.NoError(t, err)
}
