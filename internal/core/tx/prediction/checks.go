package prediction

import (
	"github.com/LeJamon/goDoomsday/internal/core/tx"
	"github.com/LeJamon/goDoomsday/internal/core/tx/platform"
	"github.com/LeJamon/goDoomsday/internal/core/types"
)

// The Check functions hold the state preconditions of each operation. They
// read only their arguments, so they can be tested without a ledger.

// checkActive maps a terminal status to its result code.
func checkActive(ev *Event) tx.Result {
	switch ev.Status {
	case StatusActive:
		return tx.TesSUCCESS
	case StatusResolved:
		return tx.TecEVENT_ALREADY_RESOLVED
	default:
		return tx.TecEVENT_CANCELLED
	}
}

// CheckCreateEvent validates event creation at now.
func CheckCreateEvent(cfg *platform.Config, now, deadline int64) tx.Result {
	if cfg.Paused {
		return tx.TecPLATFORM_PAUSED
	}
	if deadline <= now {
		return tx.TecINVALID_DEADLINE
	}
	return tx.TesSUCCESS
}

// CheckPlaceBet validates a stake of amount on ev at now.
func CheckPlaceBet(cfg *platform.Config, ev *Event, now int64, amount uint64) tx.Result {
	if amount == 0 {
		return tx.TemINVALID_AMOUNT
	}
	if cfg.Paused {
		return tx.TecPLATFORM_PAUSED
	}
	if res := checkActive(ev); res != tx.TesSUCCESS {
		return res
	}
	if !ev.IsBettingOpen(now) {
		return tx.TecEVENT_ENDED
	}
	return tx.TesSUCCESS
}

// CheckResolve validates resolution of ev by caller at now.
func CheckResolve(cfg *platform.Config, ev *Event, caller types.AccountID, now int64) tx.Result {
	if caller != cfg.Oracle {
		return tx.TefUNAUTHORIZED_ORACLE
	}
	if res := checkActive(ev); res != tx.TesSUCCESS {
		return res
	}
	if now < ev.Deadline {
		return tx.TecBETTING_NOT_CLOSED
	}
	if now > ev.ResolutionDeadline {
		return tx.TecRESOLUTION_DEADLINE_PASSED
	}
	return tx.TesSUCCESS
}

// CheckCancel validates cancellation of ev by caller.
func CheckCancel(cfg *platform.Config, ev *Event, caller types.AccountID) tx.Result {
	if caller != cfg.Authority {
		return tx.TefUNAUTHORIZED
	}
	return checkActive(ev)
}

// CheckClaim validates a claim of winnings for b.
func CheckClaim(ev *Event, b *Bet) tx.Result {
	if ev.Status != StatusResolved {
		return tx.TecEVENT_NOT_RESOLVED
	}
	if b.Claimed {
		return tx.TecALREADY_CLAIMED
	}
	if !b.IsWinner(ev) {
		return tx.TecNOT_A_WINNER
	}
	return tx.TesSUCCESS
}

// CheckRefund validates a refund of b.
func CheckRefund(ev *Event, b *Bet) tx.Result {
	if ev.Status != StatusCancelled {
		return tx.TecEVENT_NOT_CANCELLED
	}
	if b.Refunded {
		return tx.TecALREADY_REFUNDED
	}
	return tx.TesSUCCESS
}

// CheckRecordLoss validates settling the loss of b in the bettor's stats.
func CheckRecordLoss(ev *Event, b *Bet) tx.Result {
	if ev.Status != StatusResolved {
		return tx.TecEVENT_NOT_RESOLVED
	}
	if b.IsWinner(ev) {
		return tx.TecNOT_A_LOSER
	}
	if b.LossRecorded {
		return tx.TecLOSS_ALREADY_RECORDED
	}
	return tx.TesSUCCESS
}
