package prediction

import (
	"errors"

	"github.com/LeJamon/goDoomsday/internal/core/ledger/keylet"
	"github.com/LeJamon/goDoomsday/internal/core/tx"
	"github.com/LeJamon/goDoomsday/internal/core/tx/platform"
	"github.com/LeJamon/goDoomsday/internal/core/tx/stats"
)

func init() {
	tx.Register(tx.TypeCreateEvent, func() tx.Operation { return &CreateEvent{} })
	tx.Register(tx.TypePlaceBet, func() tx.Operation { return &PlaceBet{} })
	tx.Register(tx.TypeResolveEvent, func() tx.Operation { return &ResolveEvent{} })
	tx.Register(tx.TypeCancelEvent, func() tx.Operation { return &CancelEvent{} })
	tx.Register(tx.TypeClaimWinnings, func() tx.Operation { return &ClaimWinnings{} })
	tx.Register(tx.TypeClaimRefund, func() tx.Operation { return &ClaimRefund{} })
	tx.Register(tx.TypeRecordLoss, func() tx.Operation { return &RecordLoss{} })
}

// CreateEvent opens a new prediction event. Anyone may create events while
// the platform is not paused.
type CreateEvent struct {
	EventID            uint64 `json:"event_id" yaml:"event_id"`
	Title              string `json:"title" yaml:"title"`
	Description        string `json:"description" yaml:"description"`
	Deadline           int64  `json:"deadline" yaml:"deadline"`
	ResolutionDeadline int64  `json:"resolution_deadline" yaml:"resolution_deadline"`
}

func (o *CreateEvent) OpType() tx.Type { return tx.TypeCreateEvent }

func (o *CreateEvent) Validate() error {
	if len(o.Title) == 0 || len(o.Title) > MaxTitleLen {
		return tx.Errorf(tx.TemINVALID_TITLE, "title length %d", len(o.Title))
	}
	if len(o.Description) == 0 || len(o.Description) > MaxDescriptionLen {
		return tx.Errorf(tx.TemINVALID_DESCRIPTION, "description length %d", len(o.Description))
	}
	if o.ResolutionDeadline <= o.Deadline {
		return tx.Errorf(tx.TemINVALID_RESOLUTION_DEADLINE,
			"resolution deadline %d not after deadline %d", o.ResolutionDeadline, o.Deadline)
	}
	return nil
}

func (o *CreateEvent) Apply(ctx *tx.ApplyContext) tx.Result {
	cfg, res := platform.LoadForApply(ctx)
	if res != tx.TesSUCCESS {
		return res
	}
	if res := CheckCreateEvent(cfg, ctx.Now, o.Deadline); res != tx.TesSUCCESS {
		return res
	}

	ev := &Event{
		ID:                 o.EventID,
		Creator:            ctx.Caller,
		Title:              o.Title,
		Description:        o.Description,
		Deadline:           o.Deadline,
		ResolutionDeadline: o.ResolutionDeadline,
		Status:             StatusActive,
		CreatedAt:          ctx.Now,
	}
	if err := ctx.View.Insert(keylet.Event(o.EventID), ev.Encode()); err != nil {
		if errors.Is(err, tx.ErrEntryExists) {
			return tx.TecEVENT_ID_EXISTS
		}
		ctx.Logger.Error("insert event", "event", o.EventID, "error", err)
		return tx.TefINTERNAL
	}

	if err := stats.Update(ctx.View, ctx.Caller, (*stats.UserStats).RecordEventCreated); err != nil {
		ctx.Logger.Error("update creator stats", "error", err)
		return tx.TefINTERNAL
	}

	ctx.Logger.Info("event created", "event", o.EventID, "title", o.Title, "deadline", o.Deadline)
	return tx.TesSUCCESS
}
