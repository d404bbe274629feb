package testing

import (
	"log/slog"
	"testing"
	"time"

	"github.com/LeJamon/goDoomsday/internal/core/ledger/keylet"
	"github.com/LeJamon/goDoomsday/internal/core/ledger/state"
	"github.com/LeJamon/goDoomsday/internal/core/tx"
	_ "github.com/LeJamon/goDoomsday/internal/core/tx/all"
	"github.com/LeJamon/goDoomsday/internal/core/tx/token"
	"github.com/LeJamon/goDoomsday/internal/core/types"
	"github.com/LeJamon/goDoomsday/internal/crypto"
	"github.com/LeJamon/goDoomsday/internal/storage/keyValueDb/memory"
)

// Mint names created by SetupTokens.
const (
	DoomMintName = "DOOM"
	LifeMintName = "LIFE"
)

// TestEnv manages an engine over an in-memory ledger for operation tests.
type TestEnv struct {
	t        *testing.T
	store    *state.Store
	engine   *tx.Engine
	clock    *ManualClock
	accounts map[string]*Account

	// Authority creates the mints, the platform and the pool.
	Authority *Account

	// DoomMint and LifeMint are set by SetupTokens.
	DoomMint types.AccountID
	LifeMint types.AccountID
}

// Option configures a TestEnv.
type Option func(*tx.EngineConfig)

// WithTokens replaces the token ledger, e.g. with a MockTokenLedger.
func WithTokens(f tx.TokenLedgerFactory) Option {
	return func(c *tx.EngineConfig) { c.Tokens = f }
}

// WithObserver registers an engine observer.
func WithObserver(o tx.Observer) Option {
	return func(c *tx.EngineConfig) { c.Observers = append(c.Observers, o) }
}

// NewTestEnv creates a new test environment with an empty ledger.
func NewTestEnv(t *testing.T, opts ...Option) *TestEnv {
	t.Helper()

	store, err := state.NewStore(memory.NewDB(), state.Options{})
	if err != nil {
		t.Fatalf("Failed to create state store: %v", err)
	}

	clock := NewManualClock()
	cfg := tx.EngineConfig{
		Clock:    clock,
		Tokens:   token.Factory(),
		Verifier: crypto.Verifier{},
		Logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	env := &TestEnv{
		t:        t,
		store:    store,
		engine:   tx.NewEngine(store, cfg),
		clock:    clock,
		accounts: make(map[string]*Account),
	}
	env.Authority = env.Account("authority")
	return env
}

// Account returns the named test account, creating it on first use.
func (e *TestEnv) Account(name string) *Account {
	if acc, ok := e.accounts[name]; ok {
		return acc
	}
	acc := NewAccount(name)
	e.accounts[name] = acc
	return acc
}

// Submit signs op with the account key and submits it through signature
// verification.
func (e *TestEnv) Submit(acc *Account, op tx.Operation) tx.ApplyResult {
	e.t.Helper()
	pub, sig, err := crypto.SignOperation(acc.Key, op)
	if err != nil {
		e.t.Fatalf("Failed to sign %s: %v", op.OpType(), err)
	}
	return e.engine.Submit(op, pub, sig)
}

// Apply applies op as caller without a signature.
func (e *TestEnv) Apply(caller types.AccountID, op tx.Operation) tx.ApplyResult {
	return e.engine.Apply(op, caller)
}

// MustSubmit submits op and fails the test unless it succeeds.
func (e *TestEnv) MustSubmit(acc *Account, op tx.Operation) tx.ApplyResult {
	e.t.Helper()
	res := e.Submit(acc, op)
	if res.Result != tx.TesSUCCESS {
		e.t.Fatalf("%s by %s: expected tesSUCCESS, got %s", op.OpType(), acc.Name, res.Result)
	}
	return res
}

// SetupTokens creates the DOOM and LIFE mints with Authority as issuer.
func (e *TestEnv) SetupTokens() {
	e.t.Helper()
	e.MustSubmit(e.Authority, &token.CreateMint{Name: DoomMintName})
	e.MustSubmit(e.Authority, &token.CreateMint{Name: LifeMintName})
	e.DoomMint = keylet.NamedMint(DoomMintName)
	e.LifeMint = keylet.NamedMint(LifeMintName)
}

// Fund issues DOOM and LIFE to the accounts. Zero amounts are skipped.
func (e *TestEnv) Fund(doom, life uint64, accounts ...*Account) {
	e.t.Helper()
	for _, acc := range accounts {
		if doom > 0 {
			e.MustSubmit(e.Authority, &token.Issue{Mint: e.DoomMint, To: acc.ID, Amount: doom})
		}
		if life > 0 {
			e.MustSubmit(e.Authority, &token.Issue{Mint: e.LifeMint, To: acc.ID, Amount: life})
		}
	}
}

// Balance returns the balance of mint held by owner.
func (e *TestEnv) Balance(mint, owner types.AccountID) uint64 {
	e.t.Helper()
	bal, err := token.NewLedger(e.store).Balance(mint, owner)
	if err != nil {
		e.t.Fatalf("Failed to read balance: %v", err)
	}
	return bal
}

// DoomBalance returns the DOOM balance of owner.
func (e *TestEnv) DoomBalance(owner types.AccountID) uint64 {
	return e.Balance(e.DoomMint, owner)
}

// LifeBalance returns the LIFE balance of owner.
func (e *TestEnv) LifeBalance(owner types.AccountID) uint64 {
	return e.Balance(e.LifeMint, owner)
}

// View returns the committed ledger state.
func (e *TestEnv) View() tx.LedgerView {
	return e.store
}

// Engine returns the underlying engine.
func (e *TestEnv) Engine() *tx.Engine {
	return e.engine
}

// Now returns the current time as unix seconds.
func (e *TestEnv) Now() int64 {
	return e.clock.Unix()
}

// Advance moves the clock forward.
func (e *TestEnv) Advance(d time.Duration) {
	e.clock.Advance(d)
}

// SetTime sets the clock to a unix timestamp.
func (e *TestEnv) SetTime(unix int64) {
	e.clock.SetUnix(unix)
}
