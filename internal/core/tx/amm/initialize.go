package amm

import (
	"errors"

	"github.com/LeJamon/goDoomsday/internal/core/ledger/keylet"
	"github.com/LeJamon/goDoomsday/internal/core/tx"
	"github.com/LeJamon/goDoomsday/internal/core/tx/token"
	"github.com/LeJamon/goDoomsday/internal/core/types"
)

// LPMintName is the registered name of the pool share mint.
const LPMintName = "DOOM-LIFE-LP"

func init() {
	tx.Register(tx.TypeInitializePool, func() tx.Operation { return &InitializePool{} })
	tx.Register(tx.TypeAddLiquidity, func() tx.Operation { return &AddLiquidity{} })
	tx.Register(tx.TypeRemoveLiquidity, func() tx.Operation { return &RemoveLiquidity{} })
	tx.Register(tx.TypeSwap, func() tx.Operation { return &Swap{} })
}

// InitializePool creates the pool and its LP mint.
type InitializePool struct {
	DoomMint types.AccountID `json:"doom_mint" yaml:"doom_mint"`
	LifeMint types.AccountID `json:"life_mint" yaml:"life_mint"`
}

func (o *InitializePool) OpType() tx.Type { return tx.TypeInitializePool }

func (o *InitializePool) Validate() error {
	if o.DoomMint.IsZero() || o.LifeMint.IsZero() {
		return tx.Errorf(tx.TemMALFORMED, "both mints are required")
	}
	if o.DoomMint == o.LifeMint {
		return tx.Errorf(tx.TemMALFORMED, "DOOM and LIFE mints must differ")
	}
	return nil
}

func (o *InitializePool) Apply(ctx *tx.ApplyContext) tx.Result {
	p := &Pool{
		DoomMint:  o.DoomMint,
		LifeMint:  o.LifeMint,
		LPMint:    keylet.LPMint(),
		Authority: ctx.Caller,
	}
	if err := ctx.View.Insert(keylet.Pool(), p.Encode()); err != nil {
		if errors.Is(err, tx.ErrEntryExists) {
			return tx.TecDUPLICATE
		}
		ctx.Logger.Error("insert pool", "error", err)
		return tx.TefINTERNAL
	}
	if err := ctx.Tokens.CreateMint(LPMintName, p.LPMint, token.PoolMintAuthority()); err != nil {
		return tx.TokenResult(err)
	}
	ctx.Logger.Info("pool initialized", "doom_mint", o.DoomMint, "life_mint", o.LifeMint, "lp_mint", p.LPMint)
	return tx.TesSUCCESS
}
