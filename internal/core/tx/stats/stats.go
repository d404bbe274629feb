// Package stats aggregates per-user betting statistics.
package stats

import (
	"errors"
	"fmt"

	"github.com/LeJamon/goDoomsday/internal/core/fixedpoint"
	"github.com/LeJamon/goDoomsday/internal/core/ledger/entry"
	"github.com/LeJamon/goDoomsday/internal/core/ledger/keylet"
	"github.com/LeJamon/goDoomsday/internal/core/tx"
	"github.com/LeJamon/goDoomsday/internal/core/types"
)

// UserStats holds the running totals of one user. Streaks are positive for
// consecutive wins and negative for consecutive losses.
type UserStats struct {
	User types.AccountID

	TotalBets uint64
	Wins      uint64
	Losses    uint64

	TotalWagered uint64
	TotalWon     uint64
	TotalLost    uint64
	NetProfit    int64

	EventsCreated uint64

	// FirstBetAt and LastBetAt are unix seconds, meaningful once TotalBets > 0.
	FirstBetAt int64
	LastBetAt  int64

	CurrentStreak int64
	BestStreak    uint64
	WorstStreak   uint64
}

// New returns empty stats for user.
func New(user types.AccountID) *UserStats {
	return &UserStats{User: user}
}

// RecordBet counts a new bet placed at the given time.
func (s *UserStats) RecordBet(amount uint64, at int64) {
	if s.TotalBets == 0 {
		s.FirstBetAt = at
	}
	s.TotalBets = fixedpoint.SaturatingAdd(s.TotalBets, 1)
	s.TotalWagered = fixedpoint.SaturatingAdd(s.TotalWagered, amount)
	s.LastBetAt = at
}

// RecordWin counts a winning bet that paid out won for wagered.
func (s *UserStats) RecordWin(wagered, won uint64) {
	s.Wins = fixedpoint.SaturatingAdd(s.Wins, 1)
	s.TotalWon = fixedpoint.SaturatingAdd(s.TotalWon, won)

	profit := fixedpoint.SaturatingSubInt64(fixedpoint.ClampInt64(won), fixedpoint.ClampInt64(wagered))
	s.NetProfit = fixedpoint.SaturatingAddInt64(s.NetProfit, profit)

	if s.CurrentStreak >= 0 {
		s.CurrentStreak = fixedpoint.SaturatingAddInt64(s.CurrentStreak, 1)
	} else {
		s.CurrentStreak = 1
	}
	if uint64(s.CurrentStreak) > s.BestStreak {
		s.BestStreak = uint64(s.CurrentStreak)
	}
}

// RecordLoss counts a losing bet of wagered.
func (s *UserStats) RecordLoss(wagered uint64) {
	s.Losses = fixedpoint.SaturatingAdd(s.Losses, 1)
	s.TotalLost = fixedpoint.SaturatingAdd(s.TotalLost, wagered)
	s.NetProfit = fixedpoint.SaturatingSubInt64(s.NetProfit, fixedpoint.ClampInt64(wagered))

	if s.CurrentStreak <= 0 {
		s.CurrentStreak = fixedpoint.SaturatingSubInt64(s.CurrentStreak, 1)
	} else {
		s.CurrentStreak = -1
	}
	if run := absInt64(s.CurrentStreak); run > s.WorstStreak {
		s.WorstStreak = run
	}
}

// RecordEventCreated counts an event created by the user.
func (s *UserStats) RecordEventCreated() {
	s.EventsCreated = fixedpoint.SaturatingAdd(s.EventsCreated, 1)
}

// WinRate returns wins per 10000 bets, or 0 with no bets.
func (s *UserStats) WinRate() uint64 {
	if s.TotalBets == 0 {
		return 0
	}
	rate, _ := fixedpoint.MulDiv(s.Wins, fixedpoint.BasisPoints, s.TotalBets)
	return rate
}

func absInt64(v int64) uint64 {
	if v >= 0 {
		return uint64(v)
	}
	return uint64(-(v + 1)) + 1
}

// ErrTimestampPresence is returned when a bet timestamp's presence byte
// disagrees with the bet count.
var ErrTimestampPresence = errors.New("bet timestamp presence disagrees with bet count")

// firstBetOffset is the offset of the first bet timestamp's presence byte.
const firstBetOffset = entry.DiscriminatorSize + types.AccountIDSize + 6*8 + 8 + 8

// statsSize: discriminator, user, six u64 counters, net profit,
// events created, two optional timestamps, three streak fields. A timestamp
// is present exactly when TotalBets > 0.
const statsSize = firstBetOffset + 2*9 + 3*8

func (s *UserStats) Encode() []byte {
	hasBets := s.TotalBets > 0
	return entry.NewEncoder(entry.TypeStats, statsSize).
		Account(s.User).
		Uint64(s.TotalBets).
		Uint64(s.Wins).
		Uint64(s.Losses).
		Uint64(s.TotalWagered).
		Uint64(s.TotalWon).
		Uint64(s.TotalLost).
		Int64(s.NetProfit).
		Uint64(s.EventsCreated).
		Bool(hasBets).Int64(s.FirstBetAt).
		Bool(hasBets).Int64(s.LastBetAt).
		Int64(s.CurrentStreak).
		Uint64(s.BestStreak).
		Uint64(s.WorstStreak).
		Bytes()
}

func Decode(data []byte) (*UserStats, error) {
	d, err := entry.NewDecoder(data, entry.TypeStats)
	if err != nil {
		return nil, err
	}
	s := &UserStats{
		User:          d.Account(),
		TotalBets:     d.Uint64(),
		Wins:          d.Uint64(),
		Losses:        d.Uint64(),
		TotalWagered:  d.Uint64(),
		TotalWon:      d.Uint64(),
		TotalLost:     d.Uint64(),
		NetProfit:     d.Int64(),
		EventsCreated: d.Uint64(),
	}
	hasBets := s.TotalBets > 0
	if d.Bool() != hasBets {
		d.Fail(fmt.Errorf("%w: first bet, %d bets", ErrTimestampPresence, s.TotalBets))
	}
	s.FirstBetAt = d.Int64()
	if d.Bool() != hasBets {
		d.Fail(fmt.Errorf("%w: last bet, %d bets", ErrTimestampPresence, s.TotalBets))
	}
	s.LastBetAt = d.Int64()
	s.CurrentStreak = d.Int64()
	s.BestStreak = d.Uint64()
	s.WorstStreak = d.Uint64()
	if err := d.Finish(); err != nil {
		return nil, fmt.Errorf("user stats: %w", err)
	}
	return s, nil
}

// Load reads the stats of user, returning nil if none exist yet.
func Load(view tx.LedgerView, user types.AccountID) (*UserStats, error) {
	data, err := view.Read(keylet.Stats(user))
	if err != nil || data == nil {
		return nil, err
	}
	return Decode(data)
}

// Update loads the stats of user, creating them if absent, applies fn and
// writes the result back.
func Update(view tx.LedgerView, user types.AccountID, fn func(*UserStats)) error {
	s, err := Load(view, user)
	if err != nil {
		return err
	}
	created := s == nil
	if created {
		s = New(user)
	}
	fn(s)
	if created {
		return view.Insert(keylet.Stats(user), s.Encode())
	}
	return view.Update(keylet.Stats(user), s.Encode())
}
