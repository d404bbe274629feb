package tx

import (
	"log/slog"

	"github.com/LeJamon/goDoomsday/internal/core/types"
)

// Event is a domain fact emitted by an operation for observers such as
// metrics. Label is a side or direction name.
type Event struct {
	Kind   string
	Label  string
	Amount uint64
}

// Event kinds
const (
	EventSwap    = "swap"
	EventBet     = "bet"
	EventPayout  = "payout"
	EventRefund  = "refund"
	EventFee     = "fee"
	EventDeposit = "deposit"
)

// ApplyContext provides all the state and helpers needed to apply an operation.
// It is passed to Operation.Apply() instead of individual parameters.
type ApplyContext struct {
	// View provides read/write access to ledger state (the ApplyStateTable)
	View LedgerView

	// Caller is the verified identity that submitted the operation
	Caller types.AccountID

	// Now is the engine clock in unix seconds
	Now int64

	// Tokens is the token ledger bound to View
	Tokens TokenLedger

	// Seq is the engine sequence number of this operation
	Seq uint64

	// Logger is scoped to this operation
	Logger *slog.Logger

	events []Event
}

// Emit records a domain event. Events are only published if the operation
// succeeds.
func (ctx *ApplyContext) Emit(kind, label string, amount uint64) {
	ctx.events = append(ctx.events, Event{Kind: kind, Label: label, Amount: amount})
}

// Events returns the events emitted so far.
func (ctx *ApplyContext) Events() []Event {
	return ctx.events
}
