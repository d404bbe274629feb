package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountIDRoundTrip(t *testing.T) {
	var id AccountID
	for i := range id {
		id[i] = byte(i + 1)
	}

	parsed, err := ParseAccountID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)
	assert.False(t, parsed.IsZero())
	assert.True(t, ZeroAccount.IsZero())
}

func TestParseAccountIDRejectsBadInput(t *testing.T) {
	_, err := ParseAccountID("0OIl")
	require.ErrorIs(t, err, ErrInvalidAccountID)

	_, err = ParseAccountID("2g")
	require.ErrorIs(t, err, ErrInvalidAccountID)
}

func TestSides(t *testing.T) {
	assert.Equal(t, SideLife, SideDoom.Opposite())
	assert.Equal(t, SideDoom, SideLife.Opposite())
	assert.False(t, Side(7).Valid())

	s, err := ParseSide("doom")
	require.NoError(t, err)
	assert.Equal(t, SideDoom, s)

	_, err = ParseSide("meh")
	require.Error(t, err)
}

func TestOutcomeTriState(t *testing.T) {
	tests := []struct {
		outcome Outcome
		set     bool
		side    Side
	}{
		{OutcomeUnset, false, 0},
		{OutcomeDoom, true, SideDoom},
		{OutcomeLife, true, SideLife},
	}

	for _, tc := range tests {
		t.Run(tc.outcome.String(), func(t *testing.T) {
			assert.Equal(t, tc.set, tc.outcome.IsSet())
			side, ok := tc.outcome.Side()
			assert.Equal(t, tc.set, ok)
			if ok {
				assert.Equal(t, tc.side, side)
				assert.Equal(t, tc.outcome, OutcomeFor(side))
			}
		})
	}
	assert.False(t, Outcome(3).Valid())
}

func TestDirection(t *testing.T) {
	assert.Equal(t, SideDoom, DoomToLife.In())
	assert.Equal(t, SideLife, DoomToLife.Out())
	assert.Equal(t, SideLife, LifeToDoom.In())

	d, err := ParseDirection("life-to-doom")
	require.NoError(t, err)
	assert.Equal(t, LifeToDoom, d)

	var fromText Direction
	require.NoError(t, fromText.UnmarshalText([]byte("DOOM->LIFE")))
	assert.Equal(t, DoomToLife, fromText)
}
