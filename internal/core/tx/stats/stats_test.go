package stats

import (
	"math"
	"testing"

	"github.com/LeJamon/goDoomsday/internal/core/ledger/state"
	"github.com/LeJamon/goDoomsday/internal/core/types"
	"github.com/LeJamon/goDoomsday/internal/storage/keyValueDb/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var user = types.AccountID{0x55}

func TestRecordBet(t *testing.T) {
	s := New(user)
	s.RecordBet(100, 1_000)
	s.RecordBet(50, 2_000)

	assert.Equal(t, uint64(2), s.TotalBets)
	assert.Equal(t, uint64(150), s.TotalWagered)
	assert.Equal(t, int64(1_000), s.FirstBetAt)
	assert.Equal(t, int64(2_000), s.LastBetAt)

	s.TotalWagered = math.MaxUint64 - 1
	s.RecordBet(10, 3_000)
	assert.Equal(t, uint64(math.MaxUint64), s.TotalWagered)
	assert.Equal(t, int64(1_000), s.FirstBetAt)
}

func TestStreaks(t *testing.T) {
	s := New(user)
	steps := []struct {
		win         bool
		streak      int64
		best, worst uint64
	}{
		{true, 1, 1, 0},
		{true, 2, 2, 0},
		{false, -1, 2, 1},
		{false, -2, 2, 2},
		{false, -3, 2, 3},
		{true, 1, 2, 3},
		{true, 2, 2, 3},
		{true, 3, 3, 3},
	}
	for i, step := range steps {
		if step.win {
			s.RecordWin(100, 150)
		} else {
			s.RecordLoss(100)
		}
		assert.Equal(t, step.streak, s.CurrentStreak, "step %d", i)
		assert.Equal(t, step.best, s.BestStreak, "step %d", i)
		assert.Equal(t, step.worst, s.WorstStreak, "step %d", i)
	}
	assert.Equal(t, uint64(5), s.Wins)
	assert.Equal(t, uint64(3), s.Losses)
	assert.Equal(t, uint64(750), s.TotalWon)
	assert.Equal(t, uint64(300), s.TotalLost)
	// five wins of +50, three losses of -100
	assert.Equal(t, int64(-50), s.NetProfit)
}

func TestSaturation(t *testing.T) {
	s := New(user)
	s.NetProfit = math.MinInt64 + 5
	s.RecordLoss(100)
	assert.Equal(t, int64(math.MinInt64), s.NetProfit)

	s.CurrentStreak = math.MinInt64
	s.RecordLoss(1)
	assert.Equal(t, int64(math.MinInt64), s.CurrentStreak)
	assert.Equal(t, uint64(1)<<63, s.WorstStreak)

	s = New(user)
	s.RecordWin(0, math.MaxUint64)
	assert.Equal(t, int64(math.MaxInt64), s.NetProfit)
}

func TestWinRate(t *testing.T) {
	s := New(user)
	assert.Zero(t, s.WinRate())

	for i := 0; i < 3; i++ {
		s.RecordBet(10, int64(i))
	}
	s.RecordWin(10, 20)
	assert.Equal(t, uint64(3_333), s.WinRate())
}

func TestCodecAndUpdate(t *testing.T) {
	store, err := state.NewStore(memory.NewDB(), state.Options{})
	require.NoError(t, err)

	got, err := Load(store, user)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, Update(store, user, func(s *UserStats) { s.RecordEventCreated() }))
	require.NoError(t, Update(store, user, func(s *UserStats) {
		s.RecordBet(70, 1_700_000_000)
		s.RecordLoss(70)
	}))

	got, err = Load(store, user)
	require.NoError(t, err)
	want := &UserStats{
		User:          user,
		TotalBets:     1,
		Losses:        1,
		TotalWagered:  70,
		TotalLost:     70,
		NetProfit:     -70,
		EventsCreated: 1,
		FirstBetAt:    1_700_000_000,
		LastBetAt:     1_700_000_000,
		CurrentStreak: -1,
		WorstStreak:   1,
	}
	assert.Equal(t, want, got)
	assert.Len(t, want.Encode(), statsSize)
}

func TestDecodeRejectsTimestampPresenceMismatch(t *testing.T) {
	withBets := New(user)
	withBets.RecordBet(10, 1_000)
	data := withBets.Encode()
	data[firstBetOffset] = 0
	_, err := Decode(data)
	assert.ErrorIs(t, err, ErrTimestampPresence)

	data = New(user).Encode()
	data[firstBetOffset+9] = 1
	_, err = Decode(data)
	assert.ErrorIs(t, err, ErrTimestampPresence)

	got, err := Decode(withBets.Encode())
	require.NoError(t, err)
	assert.Equal(t, withBets, got)
}
