// Package prediction provides test helpers for prediction market operations.
package prediction

import (
	"fmt"
	"testing"
	"time"

	"github.com/LeJamon/goDoomsday/internal/core/tx"
	"github.com/LeJamon/goDoomsday/internal/core/tx/platform"
	corePrediction "github.com/LeJamon/goDoomsday/internal/core/tx/prediction"
	"github.com/LeJamon/goDoomsday/internal/core/tx/stats"
	"github.com/LeJamon/goDoomsday/internal/core/types"
	jtx "github.com/LeJamon/goDoomsday/internal/testing"
	"github.com/stretchr/testify/require"
)

// Event timing used by CreateEvent.
const (
	BetWindow        = time.Hour
	ResolutionWindow = 24 * time.Hour

	// StartingBalance is issued in both tokens to every bettor.
	StartingBalance uint64 = 1_000_000
)

// MarketTestEnv wraps TestEnv with an initialized platform and three funded
// bettors. The TestEnv authority is also the oracle.
type MarketTestEnv struct {
	*jtx.TestEnv
	T *testing.T

	Alice *jtx.Account
	Bob   *jtx.Account
	Carol *jtx.Account
}

// NewMarketTestEnv creates the mints, funds the bettors and initializes the
// platform with feeBps.
func NewMarketTestEnv(t *testing.T, feeBps uint16, opts ...jtx.Option) *MarketTestEnv {
	t.Helper()
	env := &MarketTestEnv{TestEnv: jtx.NewTestEnv(t, opts...), T: t}
	env.SetupTokens()
	env.Alice = env.Account("alice")
	env.Bob = env.Account("bob")
	env.Carol = env.Account("carol")
	env.Fund(StartingBalance, StartingBalance, env.Alice, env.Bob, env.Carol)
	env.MustSubmit(env.Authority, &platform.InitializePlatform{
		FeeBps:   feeBps,
		DoomMint: env.DoomMint,
		LifeMint: env.LifeMint,
	})
	return env
}

// CreateEventOp returns a valid create_event for id that closes BetWindow
// from now.
func CreateEventOp(id uint64, now int64) *corePrediction.CreateEvent {
	deadline := now + int64(BetWindow/time.Second)
	return &corePrediction.CreateEvent{
		EventID:            id,
		Title:              fmt.Sprintf("Event %d", id),
		Description:        "Will the world end before the deadline?",
		Deadline:           deadline,
		ResolutionDeadline: deadline + int64(ResolutionWindow/time.Second),
	}
}

// CreateEvent creates event id as creator.
func (e *MarketTestEnv) CreateEvent(creator *jtx.Account, id uint64) {
	e.T.Helper()
	e.MustSubmit(creator, CreateEventOp(id, e.Now()))
}

// PlaceBet stakes amount of side on event id.
func (e *MarketTestEnv) PlaceBet(acc *jtx.Account, id uint64, side types.Side, amount uint64) tx.ApplyResult {
	e.T.Helper()
	return e.Submit(acc, &corePrediction.PlaceBet{EventID: id, Side: side, Amount: amount})
}

// CloseBetting moves the clock to the deadline of event id.
func (e *MarketTestEnv) CloseBetting(id uint64) {
	e.T.Helper()
	e.SetTime(e.Event(id).Deadline)
}

// Resolve closes betting and resolves event id as the oracle.
func (e *MarketTestEnv) Resolve(id uint64, outcome types.Outcome) {
	e.T.Helper()
	e.CloseBetting(id)
	e.MustSubmit(e.Authority, &corePrediction.ResolveEvent{EventID: id, Outcome: outcome})
}

// Event returns the committed event id.
func (e *MarketTestEnv) Event(id uint64) *corePrediction.Event {
	e.T.Helper()
	ev, err := corePrediction.LoadEvent(e.View(), id)
	require.NoError(e.T, err)
	require.NotNil(e.T, ev, "event %d not found", id)
	return ev
}

// BetOf returns the bet of acc on event id.
func (e *MarketTestEnv) BetOf(acc *jtx.Account, id uint64) *corePrediction.Bet {
	e.T.Helper()
	b, err := corePrediction.LoadBet(e.View(), id, acc.ID)
	require.NoError(e.T, err)
	require.NotNil(e.T, b, "no bet by %s on event %d", acc.Name, id)
	return b
}

// Stats returns the statistics of acc.
func (e *MarketTestEnv) Stats(acc *jtx.Account) *stats.UserStats {
	e.T.Helper()
	s, err := stats.Load(e.View(), acc.ID)
	require.NoError(e.T, err)
	require.NotNil(e.T, s, "no stats for %s", acc.Name)
	return s
}

// Config returns the committed platform config.
func (e *MarketTestEnv) Config() *platform.Config {
	e.T.Helper()
	cfg, err := platform.Load(e.View())
	require.NoError(e.T, err)
	require.NotNil(e.T, cfg)
	return cfg
}
