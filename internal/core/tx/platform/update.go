package platform

import (
	"github.com/LeJamon/goDoomsday/internal/core/tx"
	"github.com/LeJamon/goDoomsday/internal/core/types"
)

// UpdatePlatform changes the fee, the oracle or the paused flag. Nil fields
// are left unchanged.
type UpdatePlatform struct {
	FeeBps *uint16          `json:"fee_bps,omitempty" yaml:"fee_bps,omitempty"`
	Oracle *types.AccountID `json:"oracle,omitempty" yaml:"oracle,omitempty"`
	Paused *bool            `json:"paused,omitempty" yaml:"paused,omitempty"`
}

func (o *UpdatePlatform) OpType() tx.Type { return tx.TypeUpdatePlatform }

func (o *UpdatePlatform) Validate() error {
	if o.FeeBps == nil && o.Oracle == nil && o.Paused == nil {
		return tx.Errorf(tx.TemMALFORMED, "nothing to update")
	}
	if o.FeeBps != nil && *o.FeeBps > MaxFeeBps {
		return tx.Errorf(tx.TemINVALID_FEE_BPS, "fee %d exceeds %d bps", *o.FeeBps, MaxFeeBps)
	}
	if o.Oracle != nil && o.Oracle.IsZero() {
		return tx.Errorf(tx.TemMALFORMED, "oracle cannot be the zero account")
	}
	return nil
}

func (o *UpdatePlatform) Apply(ctx *tx.ApplyContext) tx.Result {
	cfg, res := LoadForApply(ctx)
	if res != tx.TesSUCCESS {
		return res
	}
	if ctx.Caller != cfg.Authority {
		return tx.TefUNAUTHORIZED
	}

	if o.FeeBps != nil {
		cfg.FeeBps = *o.FeeBps
		ctx.Logger.Info("platform fee updated", "fee_bps", cfg.FeeBps)
	}
	if o.Oracle != nil {
		cfg.Oracle = *o.Oracle
		ctx.Logger.Info("platform oracle updated", "oracle", cfg.Oracle)
	}
	if o.Paused != nil {
		cfg.Paused = *o.Paused
		ctx.Logger.Info("platform pause updated", "paused", cfg.Paused)
	}

	if err := Save(ctx.View, cfg); err != nil {
		ctx.Logger.Error("save platform config", "error", err)
		return tx.TefINTERNAL
	}
	return tx.TesSUCCESS
}
