package prediction

import (
	"errors"

	"github.com/LeJamon/goDoomsday/internal/core/fixedpoint"
)

// ErrNoWinnings is returned when the winning pool is empty.
var ErrNoWinnings = errors.New("winning pool is empty")

// Payout is the settlement of one winning bet.
type Payout struct {
	// Payout is the total returned to the winner: stake plus Share minus Fee.
	Payout uint64
	// Share is the winner's pro-rata part of the losing pool.
	Share uint64
	// Fee is the platform's cut of Share.
	Fee uint64
}

// Net returns the winnings after fee, excluding the returned stake.
func (p Payout) Net() uint64 {
	return p.Share - p.Fee
}

// CalculatePayout settles a wager on the winning side. The fee is charged on
// the share of the losing pool only, never on the returned stake.
//
//	share  = floor(wager * losingPool / winningPool)
//	fee    = floor(share * feeBps / 10000)
//	payout = wager + share - fee
func CalculatePayout(wager, winningPool, losingPool uint64, feeBps uint16) (Payout, error) {
	if winningPool == 0 {
		return Payout{}, ErrNoWinnings
	}
	share, err := fixedpoint.MulDiv(wager, losingPool, winningPool)
	if err != nil {
		return Payout{}, err
	}
	fee, err := fixedpoint.ApplyBps(share, uint64(feeBps))
	if err != nil {
		return Payout{}, err
	}
	net, err := fixedpoint.Sub(share, fee)
	if err != nil {
		return Payout{}, err
	}
	total, err := fixedpoint.Add(wager, net)
	if err != nil {
		return Payout{}, err
	}
	return Payout{Payout: total, Share: share, Fee: fee}, nil
}

// PayoutFor settles bet b against the final pools of ev. It returns
// ErrNoWinnings for a bet that did not win.
func PayoutFor(ev *Event, b *Bet, feeBps uint16) (Payout, error) {
	if !b.IsWinner(ev) {
		return Payout{}, ErrNoWinnings
	}
	return CalculatePayout(b.Amount, ev.Pool(b.Side), ev.Pool(b.Side.Opposite()), feeBps)
}

// RefundAmount returns what b can reclaim from ev: the full stake if the
// event was cancelled and the bet not yet refunded, otherwise zero.
func RefundAmount(ev *Event, b *Bet) uint64 {
	if ev.Status != StatusCancelled || b.Refunded {
		return 0
	}
	return b.Amount
}
