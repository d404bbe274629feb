package platform

import (
	"errors"

	"github.com/LeJamon/goDoomsday/internal/core/ledger/keylet"
	"github.com/LeJamon/goDoomsday/internal/core/tx"
	"github.com/LeJamon/goDoomsday/internal/core/types"
)

func init() {
	tx.Register(tx.TypeInitializePlatform, func() tx.Operation { return &InitializePlatform{} })
	tx.Register(tx.TypeUpdatePlatform, func() tx.Operation { return &UpdatePlatform{} })
	tx.Register(tx.TypeUpgradePlatform, func() tx.Operation { return &UpgradePlatform{} })
}

// InitializePlatform creates the platform config. The caller becomes both
// authority and oracle.
type InitializePlatform struct {
	FeeBps   uint16          `json:"fee_bps" yaml:"fee_bps"`
	DoomMint types.AccountID `json:"doom_mint" yaml:"doom_mint"`
	LifeMint types.AccountID `json:"life_mint" yaml:"life_mint"`
}

func (o *InitializePlatform) OpType() tx.Type { return tx.TypeInitializePlatform }

func (o *InitializePlatform) Validate() error {
	if o.FeeBps > MaxFeeBps {
		return tx.Errorf(tx.TemINVALID_FEE_BPS, "fee %d exceeds %d bps", o.FeeBps, MaxFeeBps)
	}
	if o.DoomMint.IsZero() || o.LifeMint.IsZero() || o.DoomMint == o.LifeMint {
		return tx.Errorf(tx.TemMALFORMED, "two distinct mints are required")
	}
	return nil
}

func (o *InitializePlatform) Apply(ctx *tx.ApplyContext) tx.Result {
	cfg := &Config{
		Authority: ctx.Caller,
		Oracle:    ctx.Caller,
		DoomMint:  o.DoomMint,
		LifeMint:  o.LifeMint,
		FeeBps:    o.FeeBps,
	}
	if err := ctx.View.Insert(keylet.Platform(), cfg.Encode()); err != nil {
		if errors.Is(err, tx.ErrEntryExists) {
			return tx.TecDUPLICATE
		}
		ctx.Logger.Error("insert platform config", "error", err)
		return tx.TefINTERNAL
	}
	ctx.Logger.Info("platform initialized",
		"fee_bps", o.FeeBps,
		"authority", ctx.Caller,
		"doom_fee_account", FeeAccount(types.SideDoom),
		"life_fee_account", FeeAccount(types.SideLife))
	return tx.TesSUCCESS
}
