package amm

import (
	"errors"

	"github.com/LeJamon/goDoomsday/internal/core/fixedpoint"
	"github.com/LeJamon/goDoomsday/internal/core/tx"
	"github.com/LeJamon/goDoomsday/internal/core/tx/token"
	"github.com/LeJamon/goDoomsday/internal/core/types"
)

// AddLiquidity deposits both tokens and mints LP shares to the caller.
type AddLiquidity struct {
	AmountDoom uint64 `json:"amount_doom" yaml:"amount_doom"`
	AmountLife uint64 `json:"amount_life" yaml:"amount_life"`
	MinLP      uint64 `json:"min_lp" yaml:"min_lp"`
}

func (o *AddLiquidity) OpType() tx.Type { return tx.TypeAddLiquidity }

func (o *AddLiquidity) Validate() error {
	if o.AmountDoom == 0 || o.AmountLife == 0 {
		return tx.Errorf(tx.TemINVALID_AMOUNT, "both deposit amounts must be positive")
	}
	return nil
}

func (o *AddLiquidity) Apply(ctx *tx.ApplyContext) tx.Result {
	p, res := loadForApply(ctx)
	if res != tx.TesSUCCESS {
		return res
	}

	var minted uint64
	var err error
	if p.LPSupply == 0 {
		minted, err = InitialLiquidity(o.AmountDoom, o.AmountLife)
		if errors.Is(err, ErrInsufficientInitialLiquidity) {
			return tx.TecINSUFFICIENT_INITIAL_LIQUIDITY
		}
	} else {
		minted, err = ProportionalLiquidity(o.AmountDoom, o.AmountLife, p.DoomReserve, p.LifeReserve, p.LPSupply)
		if errors.Is(err, ErrEmptyPool) {
			return tx.TecEMPTY_POOL
		}
	}
	if err != nil {
		return tx.ArithmeticResult(err)
	}
	if minted < o.MinLP {
		return tx.TecSLIPPAGE_EXCEEDED
	}

	doomReserve, err := fixedpoint.Add(p.DoomReserve, o.AmountDoom)
	if err != nil {
		return tx.ArithmeticResult(err)
	}
	lifeReserve, err := fixedpoint.Add(p.LifeReserve, o.AmountLife)
	if err != nil {
		return tx.ArithmeticResult(err)
	}
	supply, err := fixedpoint.Add(p.LPSupply, minted)
	if err != nil {
		return tx.ArithmeticResult(err)
	}

	caller := token.Signer(ctx.Caller)
	if err := ctx.Tokens.Transfer(caller, p.DoomMint, ctx.Caller, Vault(types.SideDoom), o.AmountDoom); err != nil {
		return tx.TokenResult(err)
	}
	if err := ctx.Tokens.Transfer(caller, p.LifeMint, ctx.Caller, Vault(types.SideLife), o.AmountLife); err != nil {
		return tx.TokenResult(err)
	}
	if err := ctx.Tokens.Mint(token.PoolMintAuthority(), p.LPMint, ctx.Caller, minted); err != nil {
		return tx.TokenResult(err)
	}

	p.DoomReserve, p.LifeReserve, p.LPSupply = doomReserve, lifeReserve, supply
	if err := save(ctx.View, p); err != nil {
		ctx.Logger.Error("save pool", "error", err)
		return tx.TefINTERNAL
	}

	ctx.Emit(tx.EventDeposit, types.SideDoom.String(), o.AmountDoom)
	ctx.Emit(tx.EventDeposit, types.SideLife.String(), o.AmountLife)
	ctx.Logger.Debug("liquidity added", "doom", o.AmountDoom, "life", o.AmountLife, "lp", minted)
	return tx.TesSUCCESS
}
