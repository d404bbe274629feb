package prediction

import (
	"errors"

	"github.com/LeJamon/goDoomsday/internal/core/fixedpoint"
	"github.com/LeJamon/goDoomsday/internal/core/ledger/keylet"
	"github.com/LeJamon/goDoomsday/internal/core/tx"
	"github.com/LeJamon/goDoomsday/internal/core/tx/platform"
	"github.com/LeJamon/goDoomsday/internal/core/tx/stats"
	"github.com/LeJamon/goDoomsday/internal/core/tx/token"
	"github.com/LeJamon/goDoomsday/internal/core/types"
)

// PlaceBet stakes Amount of the Side token on an event. Each user may bet
// once per event.
type PlaceBet struct {
	EventID uint64     `json:"event_id" yaml:"event_id"`
	Side    types.Side `json:"side" yaml:"side"`
	Amount  uint64     `json:"amount" yaml:"amount"`
}

func (o *PlaceBet) OpType() tx.Type { return tx.TypePlaceBet }

func (o *PlaceBet) Validate() error {
	if o.Amount == 0 {
		return tx.Errorf(tx.TemINVALID_AMOUNT, "bet amount must be positive")
	}
	if !o.Side.Valid() {
		return tx.Errorf(tx.TemINVALID_SIDE, "unknown side %d", o.Side)
	}
	return nil
}

func (o *PlaceBet) Apply(ctx *tx.ApplyContext) tx.Result {
	cfg, res := platform.LoadForApply(ctx)
	if res != tx.TesSUCCESS {
		return res
	}
	ev, res := loadEventForApply(ctx, o.EventID)
	if res != tx.TesSUCCESS {
		return res
	}
	if res := CheckPlaceBet(cfg, ev, ctx.Now, o.Amount); res != tx.TesSUCCESS {
		return res
	}

	betKey := keylet.Bet(o.EventID, ctx.Caller)
	if exists, err := ctx.View.Exists(betKey); err != nil {
		ctx.Logger.Error("check bet", "error", err)
		return tx.TefINTERNAL
	} else if exists {
		return tx.TecBET_ALREADY_PLACED
	}
	if err := ev.addStake(o.Side, o.Amount); err != nil {
		return tx.ArithmeticResult(err)
	}

	if err := ctx.Tokens.Transfer(token.Signer(ctx.Caller), cfg.Mint(o.Side), ctx.Caller, Vault(o.EventID, o.Side), o.Amount); err != nil {
		return tx.TokenResult(err)
	}

	ev.TotalBettors = fixedpoint.SaturatingAdd(ev.TotalBettors, 1)
	if err := saveEvent(ctx.View, ev); err != nil {
		ctx.Logger.Error("save event", "error", err)
		return tx.TefINTERNAL
	}

	bet := &Bet{
		EventID:  o.EventID,
		User:     ctx.Caller,
		Side:     o.Side,
		Amount:   o.Amount,
		PlacedAt: ctx.Now,
	}
	if err := ctx.View.Insert(betKey, bet.Encode()); err != nil {
		if errors.Is(err, tx.ErrEntryExists) {
			return tx.TecBET_ALREADY_PLACED
		}
		ctx.Logger.Error("insert bet", "error", err)
		return tx.TefINTERNAL
	}

	err := stats.Update(ctx.View, ctx.Caller, func(s *stats.UserStats) {
		s.RecordBet(o.Amount, ctx.Now)
	})
	if err != nil {
		ctx.Logger.Error("update bettor stats", "error", err)
		return tx.TefINTERNAL
	}

	cfg.RecordBet()
	if err := platform.Save(ctx.View, cfg); err != nil {
		ctx.Logger.Error("save platform config", "error", err)
		return tx.TefINTERNAL
	}

	ctx.Emit(tx.EventBet, o.Side.String(), o.Amount)
	ctx.Logger.Debug("bet placed", "event", o.EventID, "side", o.Side, "amount", o.Amount)
	return tx.TesSUCCESS
}
