package platform

import (
	"errors"

	"github.com/LeJamon/goDoomsday/internal/core/ledger/keylet"
	"github.com/LeJamon/goDoomsday/internal/core/tx"
	"github.com/LeJamon/goDoomsday/internal/core/types"
)

// UpgradePlatform rewrites a v1 platform record in the v2 layout. It
// succeeds without changes when the record is already v2.
type UpgradePlatform struct {
	DoomMint types.AccountID `json:"doom_mint" yaml:"doom_mint"`
	LifeMint types.AccountID `json:"life_mint" yaml:"life_mint"`
}

func (o *UpgradePlatform) OpType() tx.Type { return tx.TypeUpgradePlatform }

func (o *UpgradePlatform) Validate() error {
	if o.DoomMint.IsZero() || o.LifeMint.IsZero() || o.DoomMint == o.LifeMint {
		return tx.Errorf(tx.TemMALFORMED, "two distinct mints are required")
	}
	return nil
}

func (o *UpgradePlatform) Apply(ctx *tx.ApplyContext) tx.Result {
	data, err := ctx.View.Read(keylet.Platform())
	if err != nil {
		ctx.Logger.Error("read platform config", "error", err)
		return tx.TefINTERNAL
	}
	if data == nil {
		return tx.TecNO_ENTRY
	}

	cfg, err := Decode(data)
	if err == nil {
		if ctx.Caller != cfg.Authority {
			return tx.TefUNAUTHORIZED
		}
		ctx.Logger.Debug("platform config already at v2")
		return tx.TesSUCCESS
	}
	if !errors.Is(err, ErrLegacySchema) {
		ctx.Logger.Error("decode platform config", "error", err)
		return tx.TefINTERNAL
	}

	v1, err := DecodeV1(data)
	if err != nil {
		ctx.Logger.Error("decode v1 platform config", "error", err)
		return tx.TefINTERNAL
	}
	if ctx.Caller != v1.Authority {
		return tx.TefUNAUTHORIZED
	}

	if err := Save(ctx.View, Upgrade(v1, o.DoomMint, o.LifeMint)); err != nil {
		ctx.Logger.Error("save platform config", "error", err)
		return tx.TefINTERNAL
	}
	ctx.Logger.Info("platform config upgraded to v2", "doom_mint", o.DoomMint, "life_mint", o.LifeMint)
	return tx.TesSUCCESS
}
