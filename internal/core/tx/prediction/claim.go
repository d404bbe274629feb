package prediction

import (
	"errors"

	"github.com/LeJamon/goDoomsday/internal/core/tx"
	"github.com/LeJamon/goDoomsday/internal/core/tx/platform"
	"github.com/LeJamon/goDoomsday/internal/core/tx/stats"
)

// ClaimWinnings pays a winning bet: the stake from the winning vault, the
// net share of the losing pool from the losing vault, and the fee from the
// losing vault to the platform fee account of that side.
type ClaimWinnings struct {
	EventID uint64 `json:"event_id" yaml:"event_id"`
}

func (o *ClaimWinnings) OpType() tx.Type { return tx.TypeClaimWinnings }

func (o *ClaimWinnings) Validate() error { return nil }

func (o *ClaimWinnings) Apply(ctx *tx.ApplyContext) tx.Result {
	cfg, res := platform.LoadForApply(ctx)
	if res != tx.TesSUCCESS {
		return res
	}
	ev, res := loadEventForApply(ctx, o.EventID)
	if res != tx.TesSUCCESS {
		return res
	}
	bet, res := loadBetForApply(ctx, o.EventID, ctx.Caller)
	if res != tx.TesSUCCESS {
		return res
	}
	if res := CheckClaim(ev, bet); res != tx.TesSUCCESS {
		return res
	}

	win, lose := bet.Side, bet.Side.Opposite()
	p, err := CalculatePayout(bet.Amount, ev.Pool(win), ev.Pool(lose), cfg.FeeBps)
	if errors.Is(err, ErrNoWinnings) {
		return tx.TecNO_WINNINGS
	}
	if err != nil {
		return tx.ArithmeticResult(err)
	}

	winVault := vaultCapability(o.EventID, win)
	if err := ctx.Tokens.Transfer(winVault, cfg.Mint(win), winVault.Account(), ctx.Caller, bet.Amount); err != nil {
		return tx.TokenResult(err)
	}
	loseVault := vaultCapability(o.EventID, lose)
	if net := p.Net(); net > 0 {
		if err := ctx.Tokens.Transfer(loseVault, cfg.Mint(lose), loseVault.Account(), ctx.Caller, net); err != nil {
			return tx.TokenResult(err)
		}
	}
	if p.Fee > 0 {
		if err := ctx.Tokens.Transfer(loseVault, cfg.Mint(lose), loseVault.Account(), platform.FeeAccount(lose), p.Fee); err != nil {
			return tx.TokenResult(err)
		}
		cfg.AddFee(lose, p.Fee)
		if err := platform.Save(ctx.View, cfg); err != nil {
			ctx.Logger.Error("save platform config", "error", err)
			return tx.TefINTERNAL
		}
	}

	bet.Claimed = true
	if err := saveBet(ctx.View, bet); err != nil {
		ctx.Logger.Error("save bet", "error", err)
		return tx.TefINTERNAL
	}
	err = stats.Update(ctx.View, ctx.Caller, func(s *stats.UserStats) {
		s.RecordWin(bet.Amount, p.Payout)
	})
	if err != nil {
		ctx.Logger.Error("update winner stats", "error", err)
		return tx.TefINTERNAL
	}

	ctx.Emit(tx.EventPayout, win.String(), p.Payout)
	if p.Fee > 0 {
		ctx.Emit(tx.EventFee, lose.String(), p.Fee)
	}
	ctx.Logger.Info("winnings claimed", "event", o.EventID, "payout", p.Payout, "fee", p.Fee)
	return tx.TesSUCCESS
}

// ClaimRefund returns the full stake of a bet on a cancelled event.
type ClaimRefund struct {
	EventID uint64 `json:"event_id" yaml:"event_id"`
}

func (o *ClaimRefund) OpType() tx.Type { return tx.TypeClaimRefund }

func (o *ClaimRefund) Validate() error { return nil }

func (o *ClaimRefund) Apply(ctx *tx.ApplyContext) tx.Result {
	cfg, res := platform.LoadForApply(ctx)
	if res != tx.TesSUCCESS {
		return res
	}
	ev, res := loadEventForApply(ctx, o.EventID)
	if res != tx.TesSUCCESS {
		return res
	}
	bet, res := loadBetForApply(ctx, o.EventID, ctx.Caller)
	if res != tx.TesSUCCESS {
		return res
	}
	if res := CheckRefund(ev, bet); res != tx.TesSUCCESS {
		return res
	}

	amount := RefundAmount(ev, bet)
	vault := vaultCapability(o.EventID, bet.Side)
	if err := ctx.Tokens.Transfer(vault, cfg.Mint(bet.Side), vault.Account(), ctx.Caller, amount); err != nil {
		return tx.TokenResult(err)
	}

	bet.Refunded = true
	if err := saveBet(ctx.View, bet); err != nil {
		ctx.Logger.Error("save bet", "error", err)
		return tx.TefINTERNAL
	}

	ctx.Emit(tx.EventRefund, bet.Side.String(), amount)
	ctx.Logger.Info("refund claimed", "event", o.EventID, "amount", amount)
	return tx.TesSUCCESS
}
