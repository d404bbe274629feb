package prediction

import (
	"github.com/LeJamon/goDoomsday/internal/core/tx"
	"github.com/LeJamon/goDoomsday/internal/core/tx/stats"
	"github.com/LeJamon/goDoomsday/internal/core/types"
)

// RecordLoss settles a losing bet in the bettor's statistics. Anyone may
// submit it, so losses of absent users can be recorded too.
type RecordLoss struct {
	EventID uint64          `json:"event_id" yaml:"event_id"`
	User    types.AccountID `json:"user" yaml:"user"`
}

func (o *RecordLoss) OpType() tx.Type { return tx.TypeRecordLoss }

func (o *RecordLoss) Validate() error {
	if o.User.IsZero() {
		return tx.Errorf(tx.TemMALFORMED, "user is required")
	}
	return nil
}

func (o *RecordLoss) Apply(ctx *tx.ApplyContext) tx.Result {
	ev, res := loadEventForApply(ctx, o.EventID)
	if res != tx.TesSUCCESS {
		return res
	}
	bet, res := loadBetForApply(ctx, o.EventID, o.User)
	if res != tx.TesSUCCESS {
		return res
	}
	if res := CheckRecordLoss(ev, bet); res != tx.TesSUCCESS {
		return res
	}

	bet.LossRecorded = true
	if err := saveBet(ctx.View, bet); err != nil {
		ctx.Logger.Error("save bet", "error", err)
		return tx.TefINTERNAL
	}
	err := stats.Update(ctx.View, o.User, func(s *stats.UserStats) {
		s.RecordLoss(bet.Amount)
	})
	if err != nil {
		ctx.Logger.Error("update loser stats", "error", err)
		return tx.TefINTERNAL
	}

	ctx.Logger.Debug("loss recorded", "event", o.EventID, "user", o.User, "amount", bet.Amount)
	return tx.TesSUCCESS
}
