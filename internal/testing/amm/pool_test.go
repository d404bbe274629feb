package amm_test

import (
	"testing"

	"github.com/LeJamon/goDoomsday/internal/core/tx"
	coreAmm "github.com/LeJamon/goDoomsday/internal/core/tx/amm"
	"github.com/LeJamon/goDoomsday/internal/core/types"
	jtx "github.com/LeJamon/goDoomsday/internal/testing"
	"github.com/LeJamon/goDoomsday/internal/testing/amm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializePool(t *testing.T) {
	env := amm.NewPoolTestEnv(t)

	p := env.Pool()
	assert.Equal(t, env.DoomMint, p.DoomMint)
	assert.Equal(t, env.LifeMint, p.LifeMint)
	assert.Equal(t, env.Authority.ID, p.Authority)
	assert.Zero(t, p.LPSupply)

	t.Run("Duplicate", func(t *testing.T) {
		res := env.Submit(env.Alice, &coreAmm.InitializePool{DoomMint: env.DoomMint, LifeMint: env.LifeMint})
		jtx.RequireNotApplied(t, res, tx.TecDUPLICATE)
	})

	t.Run("SameMint", func(t *testing.T) {
		res := env.Submit(env.Alice, &coreAmm.InitializePool{DoomMint: env.DoomMint, LifeMint: env.DoomMint})
		jtx.RequireNotApplied(t, res, tx.TemMALFORMED)
	})
}

func TestOperationsBeforeInitialize(t *testing.T) {
	env := jtx.NewTestEnv(t)
	alice := env.Account("alice")

	res := env.Submit(alice, &coreAmm.Swap{AmountIn: 10, Direction: types.DoomToLife})
	jtx.RequireNotApplied(t, res, tx.TecNO_ENTRY)

	_, err := coreAmm.Quote(env.View(), 10, types.DoomToLife)
	assert.ErrorIs(t, err, tx.ErrEntryNotFound)
}

func TestAddLiquidity(t *testing.T) {
	t.Run("FirstDeposit", func(t *testing.T) {
		env := amm.NewPoolTestEnv(t)
		env.Deposit(env.Alice, 10_000, 40_000)

		assert.Equal(t, uint64(20_000), env.LPBalance(env.Alice))
		p := env.Pool()
		assert.Equal(t, uint64(10_000), p.DoomReserve)
		assert.Equal(t, uint64(40_000), p.LifeReserve)
		assert.Equal(t, uint64(20_000), p.LPSupply)
		assert.Equal(t, uint64(990_000), env.DoomBalance(env.Alice.ID))
		assert.Equal(t, uint64(10_000), env.DoomBalance(coreAmm.Vault(types.SideDoom)))
		assert.Equal(t, uint64(40_000), env.LifeBalance(coreAmm.Vault(types.SideLife)))
	})

	t.Run("Proportional", func(t *testing.T) {
		env := amm.NewPoolTestEnv(t)
		env.Deposit(env.Alice, 10_000, 40_000)
		env.Deposit(env.Carol, 1_000, 4_000)

		assert.Equal(t, uint64(2_000), env.LPBalance(env.Carol))
		assert.Equal(t, uint64(22_000), env.Pool().LPSupply)
	})

	t.Run("InsufficientInitialLiquidity", func(t *testing.T) {
		env := amm.NewPoolTestEnv(t)
		res := env.Submit(env.Alice, &coreAmm.AddLiquidity{AmountDoom: 1_000, AmountLife: 1_000})
		jtx.RequireNotApplied(t, res, tx.TecINSUFFICIENT_INITIAL_LIQUIDITY)
		assert.Equal(t, uint64(1_000_000), env.DoomBalance(env.Alice.ID))
	})

	t.Run("Slippage", func(t *testing.T) {
		env := amm.NewPoolTestEnv(t)
		res := env.Submit(env.Alice, &coreAmm.AddLiquidity{AmountDoom: 10_000, AmountLife: 40_000, MinLP: 20_001})
		jtx.RequireNotApplied(t, res, tx.TecSLIPPAGE_EXCEEDED)
	})

	t.Run("ZeroAmount", func(t *testing.T) {
		env := amm.NewPoolTestEnv(t)
		res := env.Submit(env.Alice, &coreAmm.AddLiquidity{AmountDoom: 0, AmountLife: 40_000})
		jtx.RequireNotApplied(t, res, tx.TemINVALID_AMOUNT)
	})

	t.Run("InsufficientFunds", func(t *testing.T) {
		env := amm.NewPoolTestEnv(t)
		res := env.Submit(env.Alice, &coreAmm.AddLiquidity{AmountDoom: 2_000_000, AmountLife: 2_000_000})
		jtx.RequireNotApplied(t, res, tx.TecINSUFFICIENT_FUNDS)
		assert.Zero(t, env.Pool().LPSupply)
	})

	t.Run("ProductNeverDecreases", func(t *testing.T) {
		env := amm.NewPoolTestEnv(t)
		env.Deposit(env.Alice, 10_000, 40_000)
		last := env.Product()
		for _, d := range [][2]uint64{{1, 1}, {500, 7}, {3, 9_000}, {12_345, 49_380}} {
			env.Deposit(env.Carol, d[0], d[1])
			k := env.Product()
			assert.GreaterOrEqual(t, k, last)
			last = k
		}
	})
}

func TestRemoveLiquidity(t *testing.T) {
	t.Run("Proportional", func(t *testing.T) {
		env := amm.NewPoolTestEnv(t)
		env.Deposit(env.Alice, 10_000, 40_000)

		env.MustSubmit(env.Alice, &coreAmm.RemoveLiquidity{LPAmount: 5_000, MinDoom: 2_500, MinLife: 10_000})
		assert.Equal(t, uint64(15_000), env.LPBalance(env.Alice))
		assert.Equal(t, uint64(992_500), env.DoomBalance(env.Alice.ID))
		assert.Equal(t, uint64(970_000), env.LifeBalance(env.Alice.ID))

		p := env.Pool()
		assert.Equal(t, uint64(7_500), p.DoomReserve)
		assert.Equal(t, uint64(30_000), p.LifeReserve)
		assert.Equal(t, uint64(15_000), p.LPSupply)
	})

	t.Run("EmptyPool", func(t *testing.T) {
		env := amm.NewPoolTestEnv(t)
		res := env.Submit(env.Alice, &coreAmm.RemoveLiquidity{LPAmount: 1})
		jtx.RequireNotApplied(t, res, tx.TecEMPTY_POOL)
	})

	t.Run("Slippage", func(t *testing.T) {
		env := amm.NewPoolTestEnv(t)
		env.Deposit(env.Alice, 10_000, 40_000)
		res := env.Submit(env.Alice, &coreAmm.RemoveLiquidity{LPAmount: 5_000, MinLife: 10_001})
		jtx.RequireNotApplied(t, res, tx.TecSLIPPAGE_EXCEEDED)
	})

	t.Run("MoreThanHeld", func(t *testing.T) {
		env := amm.NewPoolTestEnv(t)
		env.Deposit(env.Alice, 10_000, 40_000)
		env.Deposit(env.Carol, 1_000, 4_000)
		res := env.Submit(env.Carol, &coreAmm.RemoveLiquidity{LPAmount: 2_001})
		jtx.RequireNotApplied(t, res, tx.TecINSUFFICIENT_FUNDS)
	})

	t.Run("ZeroAmount", func(t *testing.T) {
		env := amm.NewPoolTestEnv(t)
		res := env.Submit(env.Alice, &coreAmm.RemoveLiquidity{})
		jtx.RequireNotApplied(t, res, tx.TemINVALID_AMOUNT)
	})

	t.Run("RoundTripNeverGains", func(t *testing.T) {
		env := amm.NewPoolTestEnv(t)
		env.Deposit(env.Alice, 100_000, 250_000)
		env.MustSubmit(env.Bob, &coreAmm.Swap{AmountIn: 7_777, Direction: types.DoomToLife})

		doomBefore := env.DoomBalance(env.Carol.ID)
		lifeBefore := env.LifeBalance(env.Carol.ID)
		env.Deposit(env.Carol, 3_333, 9_999)
		env.MustSubmit(env.Carol, &coreAmm.RemoveLiquidity{LPAmount: env.LPBalance(env.Carol)})

		assert.LessOrEqual(t, env.DoomBalance(env.Carol.ID), doomBefore)
		assert.LessOrEqual(t, env.LifeBalance(env.Carol.ID), lifeBefore)
	})
}

func TestSwap(t *testing.T) {
	t.Run("BalancedPool", func(t *testing.T) {
		env := amm.NewPoolTestEnv(t)
		env.Fund(1_000_000, 1_000_000, env.Alice)
		env.Deposit(env.Alice, 1_000_000, 1_000_000)

		quote, err := coreAmm.Quote(env.View(), 10_000, types.DoomToLife)
		require.NoError(t, err)
		assert.Equal(t, uint64(9_871), quote)

		res := env.Submit(env.Bob, &coreAmm.Swap{AmountIn: 10_000, MinAmountOut: quote, Direction: types.DoomToLife})
		jtx.RequireSuccess(t, res)
		assert.Equal(t, uint64(990_000), env.DoomBalance(env.Bob.ID))
		assert.Equal(t, uint64(1_000_000+quote), env.LifeBalance(env.Bob.ID))

		p := env.Pool()
		assert.Equal(t, uint64(1_010_000), p.DoomReserve)
		assert.Equal(t, uint64(1_000_000-quote), p.LifeReserve)
		assert.Equal(t, uint64(30), p.TotalFeesDoom)
		assert.Zero(t, p.TotalFeesLife)

		require.Len(t, res.Events, 2)
		assert.Equal(t, tx.Event{Kind: tx.EventSwap, Label: "DOOM->LIFE", Amount: 10_000}, res.Events[0])
		assert.Equal(t, tx.Event{Kind: tx.EventFee, Label: "DOOM", Amount: 30}, res.Events[1])
	})

	t.Run("LifeToDoomFee", func(t *testing.T) {
		env := amm.NewPoolTestEnv(t)
		env.Deposit(env.Alice, 100_000, 100_000)
		env.MustSubmit(env.Bob, &coreAmm.Swap{AmountIn: 5_000, Direction: types.LifeToDoom})
		p := env.Pool()
		assert.Equal(t, uint64(15), p.TotalFeesLife)
		assert.Zero(t, p.TotalFeesDoom)
	})

	t.Run("Slippage", func(t *testing.T) {
		env := amm.NewPoolTestEnv(t)
		env.Deposit(env.Alice, 100_000, 100_000)
		quote, err := coreAmm.Quote(env.View(), 1_000, types.DoomToLife)
		require.NoError(t, err)

		res := env.Submit(env.Bob, &coreAmm.Swap{AmountIn: 1_000, MinAmountOut: quote + 1, Direction: types.DoomToLife})
		jtx.RequireNotApplied(t, res, tx.TecSLIPPAGE_EXCEEDED)
		assert.Equal(t, uint64(1_000_000), env.DoomBalance(env.Bob.ID))
	})

	t.Run("EmptyPool", func(t *testing.T) {
		env := amm.NewPoolTestEnv(t)
		res := env.Submit(env.Bob, &coreAmm.Swap{AmountIn: 1_000, Direction: types.DoomToLife})
		jtx.RequireNotApplied(t, res, tx.TecEMPTY_POOL)

		quote, err := coreAmm.Quote(env.View(), 1_000, types.DoomToLife)
		require.NoError(t, err)
		assert.Zero(t, quote)
	})

	t.Run("Validation", func(t *testing.T) {
		env := amm.NewPoolTestEnv(t)
		res := env.Submit(env.Bob, &coreAmm.Swap{AmountIn: 0, Direction: types.DoomToLife})
		jtx.RequireNotApplied(t, res, tx.TemINVALID_AMOUNT)
		res = env.Submit(env.Bob, &coreAmm.Swap{AmountIn: 1, Direction: types.Direction(7)})
		jtx.RequireNotApplied(t, res, tx.TemINVALID_DIRECTION)
	})

	t.Run("InsufficientFunds", func(t *testing.T) {
		env := amm.NewPoolTestEnv(t)
		env.Deposit(env.Alice, 100_000, 100_000)
		res := env.Submit(env.Bob, &coreAmm.Swap{AmountIn: 1_000_001, Direction: types.DoomToLife})
		jtx.RequireNotApplied(t, res, tx.TecINSUFFICIENT_FUNDS)
	})

	t.Run("QuoteMatchesAndProductGrows", func(t *testing.T) {
		env := amm.NewPoolTestEnv(t)
		env.Deposit(env.Alice, 300_000, 700_000)

		last := env.Product()
		swaps := []struct {
			in  uint64
			dir types.Direction
		}{
			{1, types.DoomToLife},
			{25_000, types.DoomToLife},
			{99_999, types.LifeToDoom},
			{333, types.LifeToDoom},
			{150_000, types.DoomToLife},
		}
		for _, s := range swaps {
			p := env.Pool()
			quote, err := p.Quote(s.in, s.dir)
			require.NoError(t, err)
			lifeBefore, doomBefore := env.LifeBalance(env.Bob.ID), env.DoomBalance(env.Bob.ID)

			env.MustSubmit(env.Bob, &coreAmm.Swap{AmountIn: s.in, Direction: s.dir})

			if s.dir == types.DoomToLife {
				assert.Equal(t, lifeBefore+quote, env.LifeBalance(env.Bob.ID))
			} else {
				assert.Equal(t, doomBefore+quote, env.DoomBalance(env.Bob.ID))
			}
			assert.Less(t, quote, p.Reserve(s.dir.Out()))
			k := env.Product()
			assert.GreaterOrEqual(t, k, last)
			last = k
		}
	})
}
