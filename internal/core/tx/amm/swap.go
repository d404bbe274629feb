package amm

import (
	"errors"

	"github.com/LeJamon/goDoomsday/internal/core/fixedpoint"
	"github.com/LeJamon/goDoomsday/internal/core/tx"
	"github.com/LeJamon/goDoomsday/internal/core/tx/token"
	"github.com/LeJamon/goDoomsday/internal/core/types"
)

// Swap exchanges one side for the other along the constant-product curve.
type Swap struct {
	AmountIn     uint64          `json:"amount_in" yaml:"amount_in"`
	MinAmountOut uint64          `json:"min_amount_out" yaml:"min_amount_out"`
	Direction    types.Direction `json:"direction" yaml:"direction"`
}

func (o *Swap) OpType() tx.Type { return tx.TypeSwap }

func (o *Swap) Validate() error {
	if o.AmountIn == 0 {
		return tx.Errorf(tx.TemINVALID_AMOUNT, "swap amount must be positive")
	}
	if !o.Direction.Valid() {
		return tx.Errorf(tx.TemINVALID_DIRECTION, "unknown direction %d", o.Direction)
	}
	return nil
}

func (o *Swap) Apply(ctx *tx.ApplyContext) tx.Result {
	p, res := loadForApply(ctx)
	if res != tx.TesSUCCESS {
		return res
	}
	in, out := o.Direction.In(), o.Direction.Out()
	reserveIn, reserveOut := p.Reserve(in), p.Reserve(out)

	amountOut, err := AmountOut(o.AmountIn, reserveIn, reserveOut)
	if errors.Is(err, ErrEmptyPool) {
		return tx.TecEMPTY_POOL
	}
	if err != nil {
		return tx.ArithmeticResult(err)
	}
	if amountOut < o.MinAmountOut {
		return tx.TecSLIPPAGE_EXCEEDED
	}
	if amountOut >= reserveOut {
		return tx.TecINSUFFICIENT_LIQUIDITY
	}

	newIn, err := fixedpoint.Add(reserveIn, o.AmountIn)
	if err != nil {
		return tx.ArithmeticResult(err)
	}
	newOut, err := fixedpoint.Sub(reserveOut, amountOut)
	if err != nil {
		return tx.ArithmeticResult(err)
	}

	if err := ctx.Tokens.Transfer(token.Signer(ctx.Caller), p.Mint(in), ctx.Caller, Vault(in), o.AmountIn); err != nil {
		return tx.TokenResult(err)
	}
	vault := token.VaultCapability(poolKey, out)
	if amountOut > 0 {
		if err := ctx.Tokens.Transfer(vault, p.Mint(out), vault.Account(), ctx.Caller, amountOut); err != nil {
			return tx.TokenResult(err)
		}
	}

	p.setReserve(in, newIn)
	p.setReserve(out, newOut)
	fee := SwapFee(o.AmountIn)
	if in == types.SideDoom {
		p.TotalFeesDoom = fixedpoint.SaturatingAdd(p.TotalFeesDoom, fee)
	} else {
		p.TotalFeesLife = fixedpoint.SaturatingAdd(p.TotalFeesLife, fee)
	}
	if err := save(ctx.View, p); err != nil {
		ctx.Logger.Error("save pool", "error", err)
		return tx.TefINTERNAL
	}

	ctx.Emit(tx.EventSwap, o.Direction.String(), o.AmountIn)
	ctx.Emit(tx.EventFee, in.String(), fee)
	ctx.Logger.Debug("swap", "direction", o.Direction, "in", o.AmountIn, "out", amountOut, "fee", fee)
	return tx.TesSUCCESS
}
