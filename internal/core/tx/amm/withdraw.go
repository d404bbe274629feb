package amm

import (
	"errors"

	"github.com/LeJamon/goDoomsday/internal/core/fixedpoint"
	"github.com/LeJamon/goDoomsday/internal/core/tx"
	"github.com/LeJamon/goDoomsday/internal/core/tx/token"
	"github.com/LeJamon/goDoomsday/internal/core/types"
)

// RemoveLiquidity burns LP shares and returns the proportional reserves.
type RemoveLiquidity struct {
	LPAmount uint64 `json:"lp_amount" yaml:"lp_amount"`
	MinDoom  uint64 `json:"min_doom" yaml:"min_doom"`
	MinLife  uint64 `json:"min_life" yaml:"min_life"`
}

func (o *RemoveLiquidity) OpType() tx.Type { return tx.TypeRemoveLiquidity }

func (o *RemoveLiquidity) Validate() error {
	if o.LPAmount == 0 {
		return tx.Errorf(tx.TemINVALID_AMOUNT, "lp amount must be positive")
	}
	return nil
}

func (o *RemoveLiquidity) Apply(ctx *tx.ApplyContext) tx.Result {
	p, res := loadForApply(ctx)
	if res != tx.TesSUCCESS {
		return res
	}

	doomOut, lifeOut, err := WithdrawAmounts(o.LPAmount, p.DoomReserve, p.LifeReserve, p.LPSupply)
	if errors.Is(err, ErrEmptyPool) {
		return tx.TecEMPTY_POOL
	}
	if err != nil {
		return tx.ArithmeticResult(err)
	}
	if doomOut < o.MinDoom || lifeOut < o.MinLife {
		return tx.TecSLIPPAGE_EXCEEDED
	}

	doomReserve, err := fixedpoint.Sub(p.DoomReserve, doomOut)
	if err != nil {
		return tx.ArithmeticResult(err)
	}
	lifeReserve, err := fixedpoint.Sub(p.LifeReserve, lifeOut)
	if err != nil {
		return tx.ArithmeticResult(err)
	}
	supply, err := fixedpoint.Sub(p.LPSupply, o.LPAmount)
	if err != nil {
		return tx.ArithmeticResult(err)
	}

	if err := ctx.Tokens.Burn(token.PoolMintAuthority(), p.LPMint, ctx.Caller, o.LPAmount); err != nil {
		return tx.TokenResult(err)
	}
	for _, leg := range []struct {
		side   types.Side
		amount uint64
	}{{types.SideDoom, doomOut}, {types.SideLife, lifeOut}} {
		if leg.amount == 0 {
			continue
		}
		vault := token.VaultCapability(poolKey, leg.side)
		if err := ctx.Tokens.Transfer(vault, p.Mint(leg.side), vault.Account(), ctx.Caller, leg.amount); err != nil {
			return tx.TokenResult(err)
		}
	}

	p.DoomReserve, p.LifeReserve, p.LPSupply = doomReserve, lifeReserve, supply
	if err := save(ctx.View, p); err != nil {
		ctx.Logger.Error("save pool", "error", err)
		return tx.TefINTERNAL
	}
	ctx.Logger.Debug("liquidity removed", "lp", o.LPAmount, "doom", doomOut, "life", lifeOut)
	return tx.TesSUCCESS
}
