package prediction

import (
	"github.com/LeJamon/goDoomsday/internal/core/tx"
	"github.com/LeJamon/goDoomsday/internal/core/tx/platform"
	"github.com/LeJamon/goDoomsday/internal/core/types"
)

// ResolveEvent records the outcome of an event. Only the platform oracle may
// resolve, between the betting deadline and the resolution deadline.
type ResolveEvent struct {
	EventID uint64        `json:"event_id" yaml:"event_id"`
	Outcome types.Outcome `json:"outcome" yaml:"outcome"`
}

func (o *ResolveEvent) OpType() tx.Type { return tx.TypeResolveEvent }

func (o *ResolveEvent) Validate() error {
	if !o.Outcome.IsSet() {
		return tx.Errorf(tx.TemINVALID_OUTCOME, "outcome must be DOOM or LIFE")
	}
	return nil
}

func (o *ResolveEvent) Apply(ctx *tx.ApplyContext) tx.Result {
	cfg, res := platform.LoadForApply(ctx)
	if res != tx.TesSUCCESS {
		return res
	}
	if ctx.Caller != cfg.Oracle {
		return tx.TefUNAUTHORIZED_ORACLE
	}
	ev, res := loadEventForApply(ctx, o.EventID)
	if res != tx.TesSUCCESS {
		return res
	}
	if res := CheckResolve(cfg, ev, ctx.Caller, ctx.Now); res != tx.TesSUCCESS {
		return res
	}

	ev.Status = StatusResolved
	ev.Outcome = o.Outcome
	ev.ResolvedAt = ctx.Now
	if err := saveEvent(ctx.View, ev); err != nil {
		ctx.Logger.Error("save event", "error", err)
		return tx.TefINTERNAL
	}

	cfg.RecordResolution()
	if err := platform.Save(ctx.View, cfg); err != nil {
		ctx.Logger.Error("save platform config", "error", err)
		return tx.TefINTERNAL
	}

	ctx.Logger.Info("event resolved", "event", o.EventID, "outcome", o.Outcome,
		"doom_pool", ev.DoomPool, "life_pool", ev.LifePool)
	return tx.TesSUCCESS
}

// CancelEvent cancels an active event so that every bettor can reclaim their
// stake. Only the platform authority may cancel.
type CancelEvent struct {
	EventID uint64 `json:"event_id" yaml:"event_id"`
}

func (o *CancelEvent) OpType() tx.Type { return tx.TypeCancelEvent }

func (o *CancelEvent) Validate() error { return nil }

func (o *CancelEvent) Apply(ctx *tx.ApplyContext) tx.Result {
	cfg, res := platform.LoadForApply(ctx)
	if res != tx.TesSUCCESS {
		return res
	}
	if ctx.Caller != cfg.Authority {
		return tx.TefUNAUTHORIZED
	}
	ev, res := loadEventForApply(ctx, o.EventID)
	if res != tx.TesSUCCESS {
		return res
	}
	if res := CheckCancel(cfg, ev, ctx.Caller); res != tx.TesSUCCESS {
		return res
	}

	ev.Status = StatusCancelled
	if err := saveEvent(ctx.View, ev); err != nil {
		ctx.Logger.Error("save event", "error", err)
		return tx.TefINTERNAL
	}
	ctx.Logger.Info("event cancelled", "event", o.EventID)
	return tx.TesSUCCESS
}
