package prediction

import (
	"errors"
	"fmt"

	"github.com/LeJamon/goDoomsday/internal/core/ledger/entry"
	"github.com/LeJamon/goDoomsday/internal/core/ledger/keylet"
	"github.com/LeJamon/goDoomsday/internal/core/tx"
	"github.com/LeJamon/goDoomsday/internal/core/types"
)

// ErrClaimedAndRefunded is returned when a decoded bet has both flags set.
var ErrClaimedAndRefunded = errors.New("bet is both claimed and refunded")

// Bet is the single stake of a user on an event.
type Bet struct {
	EventID  uint64
	User     types.AccountID
	Side     types.Side
	Amount   uint64
	PlacedAt int64

	Claimed      bool
	Refunded     bool
	LossRecorded bool
}

const betSize = entry.DiscriminatorSize + 8 + types.AccountIDSize + 1 + 8 + 8 + 3

func (b *Bet) Encode() []byte {
	return entry.NewEncoder(entry.TypeBet, betSize).
		Uint64(b.EventID).
		Account(b.User).
		Uint8(uint8(b.Side)).
		Uint64(b.Amount).
		Int64(b.PlacedAt).
		Bool(b.Claimed).
		Bool(b.Refunded).
		Bool(b.LossRecorded).
		Bytes()
}

func DecodeBet(data []byte) (*Bet, error) {
	d, err := entry.NewDecoder(data, entry.TypeBet)
	if err != nil {
		return nil, err
	}
	b := &Bet{
		EventID:      d.Uint64(),
		User:         d.Account(),
		Side:         types.Side(d.Uint8()),
		Amount:       d.Uint64(),
		PlacedAt:     d.Int64(),
		Claimed:      d.Bool(),
		Refunded:     d.Bool(),
		LossRecorded: d.Bool(),
	}
	if !b.Side.Valid() {
		d.Fail(fmt.Errorf("unknown side %d", b.Side))
	}
	if b.Claimed && b.Refunded {
		d.Fail(ErrClaimedAndRefunded)
	}
	if err := d.Finish(); err != nil {
		return nil, fmt.Errorf("bet on event %d: %w", b.EventID, err)
	}
	return b, nil
}

// IsWinner reports whether the bet is on the winning side of ev.
func (b *Bet) IsWinner(ev *Event) bool {
	side, ok := ev.WinningSide()
	return ok && side == b.Side
}

// LoadBet reads the bet of user on event id, returning nil if none exists.
func LoadBet(view tx.LedgerView, id uint64, user types.AccountID) (*Bet, error) {
	data, err := view.Read(keylet.Bet(id, user))
	if err != nil || data == nil {
		return nil, err
	}
	return DecodeBet(data)
}

// ListBets returns every bet placed on event id.
func ListBets(view tx.LedgerView, id uint64) ([]*Bet, error) {
	var bets []*Bet
	var decodeErr error
	err := view.ForEach(func(_ [32]byte, data []byte) bool {
		if t, err := entry.TypeOf(data); err != nil || t != entry.TypeBet {
			return true
		}
		b, err := DecodeBet(data)
		if err != nil {
			decodeErr = err
			return false
		}
		if b.EventID == id {
			bets = append(bets, b)
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return bets, decodeErr
}

func loadBetForApply(ctx *tx.ApplyContext, id uint64, user types.AccountID) (*Bet, tx.Result) {
	b, err := LoadBet(ctx.View, id, user)
	if err != nil {
		ctx.Logger.Error("load bet", "event", id, "user", user, "error", err)
		return nil, tx.TefINTERNAL
	}
	if b == nil || b.User != user {
		return nil, tx.TecNO_BET_FOUND
	}
	return b, tx.TesSUCCESS
}

func saveBet(view tx.LedgerView, b *Bet) error {
	return view.Update(keylet.Bet(b.EventID, b.User), b.Encode())
}
