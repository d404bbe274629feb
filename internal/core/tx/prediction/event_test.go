package prediction

import (
	"strings"
	"testing"

	"github.com/LeJamon/goDoomsday/internal/core/tx"
	"github.com/LeJamon/goDoomsday/internal/core/tx/platform"
	"github.com/LeJamon/goDoomsday/internal/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAccount(b byte) types.AccountID {
	var a types.AccountID
	a[0] = b
	return a
}

func activeEvent() *Event {
	return &Event{
		ID:                 7,
		Creator:            testAccount(1),
		Title:              "Will it rain?",
		Description:        "Resolves DOOM if it rains.",
		Deadline:           1000,
		ResolutionDeadline: 2000,
		Status:             StatusActive,
		DoomPool:           700,
		LifePool:           300,
		TotalBettors:       2,
		CreatedAt:          500,
	}
}

func TestEventCodec(t *testing.T) {
	t.Run("Active", func(t *testing.T) {
		ev := activeEvent()
		got, err := DecodeEvent(ev.Encode())
		require.NoError(t, err)
		assert.Equal(t, ev, got)
	})

	t.Run("Resolved", func(t *testing.T) {
		ev := activeEvent()
		ev.Status = StatusResolved
		ev.Outcome = types.OutcomeLife
		ev.ResolvedAt = 1500
		got, err := DecodeEvent(ev.Encode())
		require.NoError(t, err)
		assert.Equal(t, ev, got)
	})

	t.Run("ResolvedWithoutOutcome", func(t *testing.T) {
		ev := activeEvent()
		ev.Status = StatusResolved
		_, err := DecodeEvent(ev.Encode())
		require.ErrorIs(t, err, ErrOutcomeMismatch)
	})

	t.Run("ActiveWithOutcome", func(t *testing.T) {
		ev := activeEvent()
		ev.Outcome = types.OutcomeDoom
		_, err := DecodeEvent(ev.Encode())
		require.ErrorIs(t, err, ErrOutcomeMismatch)
	})

	t.Run("CancelledWithOutcome", func(t *testing.T) {
		ev := activeEvent()
		ev.Status = StatusCancelled
		ev.Outcome = types.OutcomeLife
		_, err := DecodeEvent(ev.Encode())
		require.ErrorIs(t, err, ErrOutcomeMismatch)
	})

	t.Run("TitleTooLong", func(t *testing.T) {
		ev := activeEvent()
		ev.Title = strings.Repeat("x", MaxTitleLen+1)
		_, err := DecodeEvent(ev.Encode())
		require.Error(t, err)
	})

	t.Run("UnknownStatus", func(t *testing.T) {
		ev := activeEvent()
		ev.Status = Status(9)
		_, err := DecodeEvent(ev.Encode())
		require.Error(t, err)
	})
}

func TestBetCodec(t *testing.T) {
	bet := &Bet{EventID: 7, User: testAccount(2), Side: types.SideLife, Amount: 300, PlacedAt: 600, LossRecorded: true}
	got, err := DecodeBet(bet.Encode())
	require.NoError(t, err)
	assert.Equal(t, bet, got)

	bet.Claimed, bet.Refunded = true, true
	_, err = DecodeBet(bet.Encode())
	require.ErrorIs(t, err, ErrClaimedAndRefunded)
}

func TestEventWindows(t *testing.T) {
	ev := activeEvent()

	assert.True(t, ev.IsBettingOpen(999))
	assert.False(t, ev.IsBettingOpen(1000))

	assert.False(t, ev.CanResolve(999))
	assert.True(t, ev.CanResolve(1000))
	assert.True(t, ev.CanResolve(2000))
	assert.False(t, ev.CanResolve(2001))

	ev.Status = StatusCancelled
	assert.False(t, ev.IsBettingOpen(0))
	assert.False(t, ev.CanResolve(1500))
}

func TestOdds(t *testing.T) {
	tests := []struct {
		doom, life    uint64
		wantD, wantL  uint64
		wantTotalPool uint64
	}{
		{0, 0, 5000, 5000, 0},
		{700, 300, 7000, 3000, 1000},
		{1, 2, 3333, 6666, 3},
		{5, 0, 10000, 0, 5},
	}
	for _, tt := range tests {
		ev := &Event{DoomPool: tt.doom, LifePool: tt.life}
		d, l := ev.Odds()
		assert.Equal(t, tt.wantD, d, "doom odds for %d/%d", tt.doom, tt.life)
		assert.Equal(t, tt.wantL, l, "life odds for %d/%d", tt.doom, tt.life)
		assert.Equal(t, tt.wantTotalPool, ev.TotalPool())
	}
}

func TestCheckPlaceBet(t *testing.T) {
	cfg := &platform.Config{FeeBps: 200}
	paused := &platform.Config{Paused: true}

	resolved := activeEvent()
	resolved.Status = StatusResolved
	resolved.Outcome = types.OutcomeDoom
	cancelled := activeEvent()
	cancelled.Status = StatusCancelled

	tests := []struct {
		name   string
		cfg    *platform.Config
		ev     *Event
		now    int64
		amount uint64
		want   tx.Result
	}{
		{"open", cfg, activeEvent(), 999, 10, tx.TesSUCCESS},
		{"zero amount", cfg, activeEvent(), 999, 0, tx.TemINVALID_AMOUNT},
		{"paused", paused, activeEvent(), 999, 10, tx.TecPLATFORM_PAUSED},
		{"at deadline", cfg, activeEvent(), 1000, 10, tx.TecEVENT_ENDED},
		{"resolved", cfg, resolved, 999, 10, tx.TecEVENT_ALREADY_RESOLVED},
		{"cancelled", cfg, cancelled, 999, 10, tx.TecEVENT_CANCELLED},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CheckPlaceBet(tt.cfg, tt.ev, tt.now, tt.amount))
		})
	}
}

func TestCheckResolve(t *testing.T) {
	oracle := testAccount(9)
	cfg := &platform.Config{Oracle: oracle, Authority: testAccount(8)}

	cancelled := activeEvent()
	cancelled.Status = StatusCancelled

	tests := []struct {
		name   string
		ev     *Event
		caller types.AccountID
		now    int64
		want   tx.Result
	}{
		{"in window", activeEvent(), oracle, 1500, tx.TesSUCCESS},
		{"not oracle", activeEvent(), testAccount(8), 1500, tx.TefUNAUTHORIZED_ORACLE},
		{"not oracle on cancelled", cancelled, testAccount(8), 1500, tx.TefUNAUTHORIZED_ORACLE},
		{"cancelled", cancelled, oracle, 1500, tx.TecEVENT_CANCELLED},
		{"before deadline", activeEvent(), oracle, 999, tx.TecBETTING_NOT_CLOSED},
		{"after resolution deadline", activeEvent(), oracle, 2001, tx.TecRESOLUTION_DEADLINE_PASSED},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CheckResolve(cfg, tt.ev, tt.caller, tt.now))
		})
	}
}

func TestCheckSettlement(t *testing.T) {
	resolved := activeEvent()
	resolved.Status = StatusResolved
	resolved.Outcome = types.OutcomeDoom
	cancelled := activeEvent()
	cancelled.Status = StatusCancelled

	winner := func() *Bet { return &Bet{Side: types.SideDoom, Amount: 100} }
	loser := func() *Bet { return &Bet{Side: types.SideLife, Amount: 100} }

	assert.Equal(t, tx.TesSUCCESS, CheckClaim(resolved, winner()))
	assert.Equal(t, tx.TecNOT_A_WINNER, CheckClaim(resolved, loser()))
	assert.Equal(t, tx.TecEVENT_NOT_RESOLVED, CheckClaim(activeEvent(), winner()))
	claimed := winner()
	claimed.Claimed = true
	assert.Equal(t, tx.TecALREADY_CLAIMED, CheckClaim(resolved, claimed))

	assert.Equal(t, tx.TesSUCCESS, CheckRefund(cancelled, loser()))
	assert.Equal(t, tx.TecEVENT_NOT_CANCELLED, CheckRefund(resolved, loser()))
	refunded := loser()
	refunded.Refunded = true
	assert.Equal(t, tx.TecALREADY_REFUNDED, CheckRefund(cancelled, refunded))

	assert.Equal(t, tx.TesSUCCESS, CheckRecordLoss(resolved, loser()))
	assert.Equal(t, tx.TecNOT_A_LOSER, CheckRecordLoss(resolved, winner()))
	assert.Equal(t, tx.TecEVENT_NOT_RESOLVED, CheckRecordLoss(cancelled, loser()))
	recorded := loser()
	recorded.LossRecorded = true
	assert.Equal(t, tx.TecLOSS_ALREADY_RECORDED, CheckRecordLoss(resolved, recorded))

	assert.Equal(t, tx.TefUNAUTHORIZED, CheckCancel(&platform.Config{Authority: testAccount(1)}, activeEvent(), testAccount(2)))
	assert.Equal(t, tx.TecEVENT_ALREADY_RESOLVED, CheckCancel(&platform.Config{Authority: testAccount(1)}, resolved, testAccount(1)))
}
