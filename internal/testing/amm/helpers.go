// Package amm provides test helpers for liquidity pool operations.
package amm

import (
	"testing"

	"github.com/LeJamon/goDoomsday/internal/core/ledger/keylet"
	coreAmm "github.com/LeJamon/goDoomsday/internal/core/tx/amm"
	jtx "github.com/LeJamon/goDoomsday/internal/testing"
	"github.com/stretchr/testify/require"
)

// PoolTestEnv wraps TestEnv with pool-specific helpers.
type PoolTestEnv struct {
	*jtx.TestEnv
	T *testing.T

	Alice *jtx.Account // liquidity provider
	Bob   *jtx.Account // trader
	Carol *jtx.Account
}

// NewPoolTestEnv funds alice, bob and carol with 1M of each token and
// initializes an empty pool.
func NewPoolTestEnv(t *testing.T) *PoolTestEnv {
	t.Helper()
	env := &PoolTestEnv{TestEnv: jtx.NewTestEnv(t), T: t}
	env.SetupTokens()
	env.Alice = env.Account("alice")
	env.Bob = env.Account("bob")
	env.Carol = env.Account("carol")
	env.Fund(1_000_000, 1_000_000, env.Alice, env.Bob, env.Carol)
	env.MustSubmit(env.Authority, &coreAmm.InitializePool{DoomMint: env.DoomMint, LifeMint: env.LifeMint})
	return env
}

// Pool returns the committed pool.
func (e *PoolTestEnv) Pool() *coreAmm.Pool {
	e.T.Helper()
	p, err := coreAmm.Load(e.View())
	require.NoError(e.T, err)
	require.NotNil(e.T, p, "pool not initialized")
	return p
}

// LPBalance returns the LP shares held by acc.
func (e *PoolTestEnv) LPBalance(acc *jtx.Account) uint64 {
	return e.Balance(keylet.LPMint(), acc.ID)
}

// Deposit adds liquidity with no slippage bound.
func (e *PoolTestEnv) Deposit(acc *jtx.Account, doom, life uint64) {
	e.T.Helper()
	e.MustSubmit(acc, &coreAmm.AddLiquidity{AmountDoom: doom, AmountLife: life})
}

// Product returns reserveDoom*reserveLife as a float for comparisons that
// may exceed 64 bits.
func (e *PoolTestEnv) Product() float64 {
	p := e.Pool()
	return float64(p.DoomReserve) * float64(p.LifeReserve)
}
