package prediction_test

import (
	"testing"

	"github.com/LeJamon/goDoomsday/internal/core/ledger/keylet"
	"github.com/LeJamon/goDoomsday/internal/core/tx"
	"github.com/LeJamon/goDoomsday/internal/core/tx/platform"
	corePrediction "github.com/LeJamon/goDoomsday/internal/core/tx/prediction"
	"github.com/LeJamon/goDoomsday/internal/core/types"
	jtx "github.com/LeJamon/goDoomsday/internal/testing"
	"github.com/LeJamon/goDoomsday/internal/testing/prediction"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A repeated claim must be rejected before any token movement.
func TestSecondClaimSkipsTokenLedger(t *testing.T) {
	ctrl := gomock.NewController(t)
	tokens := jtx.NewMockTokenLedger(ctrl)
	env := jtx.NewTestEnv(t, jtx.WithTokens(func(tx.LedgerView) tx.TokenLedger { return tokens }))

	doomMint := keylet.NamedMint(jtx.DoomMintName)
	lifeMint := keylet.NamedMint(jtx.LifeMintName)
	alice := env.Account("alice")
	bob := env.Account("bob")

	env.MustSubmit(env.Authority, &platform.InitializePlatform{DoomMint: doomMint, LifeMint: lifeMint})
	env.MustSubmit(env.Authority, prediction.CreateEventOp(1, env.Now()))

	doomVault := corePrediction.Vault(1, types.SideDoom)
	lifeVault := corePrediction.Vault(1, types.SideLife)
	tokens.EXPECT().Transfer(gomock.Any(), doomMint, alice.ID, doomVault, uint64(100)).Return(nil)
	tokens.EXPECT().Transfer(gomock.Any(), lifeMint, bob.ID, lifeVault, uint64(300)).Return(nil)
	env.MustSubmit(alice, &corePrediction.PlaceBet{EventID: 1, Side: types.SideDoom, Amount: 100})
	env.MustSubmit(bob, &corePrediction.PlaceBet{EventID: 1, Side: types.SideLife, Amount: 300})

	env.SetTime(env.Now() + int64(prediction.BetWindow.Seconds()))
	env.MustSubmit(env.Authority, &corePrediction.ResolveEvent{EventID: 1, Outcome: types.OutcomeDoom})

	stake := tokens.EXPECT().Transfer(gomock.Any(), doomMint, doomVault, alice.ID, uint64(100)).Return(nil)
	tokens.EXPECT().Transfer(gomock.Any(), lifeMint, lifeVault, alice.ID, uint64(300)).Return(nil).After(stake)
	claim := &corePrediction.ClaimWinnings{EventID: 1}
	jtx.RequireSuccess(t, env.Submit(alice, claim))

	// no further expectations: any token call fails the test
	jtx.RequireNotApplied(t, env.Submit(alice, claim), tx.TecALREADY_CLAIMED)
}

func permutations(n int) [][]int {
	if n == 1 {
		return [][]int{{0}}
	}
	var out [][]int
	for _, p := range permutations(n - 1) {
		for i := 0; i <= len(p); i++ {
			q := make([]int, 0, n)
			q = append(q, p[:i]...)
			q = append(q, n-1)
			q = append(q, p[i:]...)
			out = append(out, q)
		}
	}
	return out
}

// Bets on disjoint events commute: every order yields the same platform
// record and the same event pools.
func TestDisjointBetsCommute(t *testing.T) {
	type bet struct {
		who    string
		event  uint64
		side   types.Side
		amount uint64
	}
	bets := []bet{
		{"alice", 1, types.SideDoom, 500},
		{"bob", 2, types.SideLife, 250},
		{"carol", 3, types.SideDoom, 125},
		{"alice", 3, types.SideLife, 75},
	}

	var wantConfig []byte
	var wantEvents [][]byte
	for _, order := range permutations(len(bets)) {
		env := prediction.NewMarketTestEnv(t, 200)
		for id := uint64(1); id <= 3; id++ {
			env.CreateEvent(env.Authority, id)
		}
		for _, i := range order {
			b := bets[i]
			jtx.RequireSuccess(t, env.PlaceBet(env.Account(b.who), b.event, b.side, b.amount))
		}

		cfg := env.Config()
		require.Equal(t, uint64(len(bets)), cfg.TotalBets)
		var events [][]byte
		for id := uint64(1); id <= 3; id++ {
			events = append(events, env.Event(id).Encode())
		}

		if wantConfig == nil {
			wantConfig, wantEvents = cfg.Encode(), events
			continue
		}
		assert.Equal(t, wantConfig, cfg.Encode(), "order %v", order)
		assert.Equal(t, wantEvents, events, "order %v", order)
	}
}

func TestPermutations(t *testing.T) {
	assert.Len(t, permutations(4), 24)
	assert.ElementsMatch(t, [][]int{{0, 1}, {1, 0}}, permutations(2))
}
