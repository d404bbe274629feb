package token

import (
	"testing"

	"github.com/LeJamon/goDoomsday/internal/core/fixedpoint"
	"github.com/LeJamon/goDoomsday/internal/core/ledger/keylet"
	"github.com/LeJamon/goDoomsday/internal/core/ledger/state"
	"github.com/LeJamon/goDoomsday/internal/core/tx"
	"github.com/LeJamon/goDoomsday/internal/core/types"
	"github.com/LeJamon/goDoomsday/internal/storage/keyValueDb/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alice = types.AccountID{0xA1}
	bob   = types.AccountID{0xB0}
)

func newLedger(t *testing.T) *Ledger {
	t.Helper()
	store, err := state.NewStore(memory.NewDB(), state.Options{})
	require.NoError(t, err)
	return NewLedger(store)
}

func TestMintAndTransfer(t *testing.T) {
	l := newLedger(t)
	doom := keylet.NamedMint("DOOM")

	require.NoError(t, l.CreateMint("DOOM", doom, Signer(alice)))
	assert.ErrorIs(t, l.CreateMint("DOOM", doom, Signer(alice)), tx.ErrEntryExists)

	require.NoError(t, l.Mint(Signer(alice), doom, bob, 1_000))
	assert.ErrorIs(t, l.Mint(Signer(bob), doom, bob, 1), ErrUnauthorized)

	require.NoError(t, l.Transfer(Signer(bob), doom, bob, alice, 400))
	bal, err := l.Balance(doom, bob)
	require.NoError(t, err)
	assert.Equal(t, uint64(600), bal)
	bal, err = l.Balance(doom, alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(400), bal)

	rec, err := LoadMint(l.view, doom)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000), rec.Supply)
	assert.Equal(t, "DOOM", rec.Name)
}

func TestTransferErrors(t *testing.T) {
	l := newLedger(t)
	doom := keylet.NamedMint("DOOM")
	require.NoError(t, l.CreateMint("DOOM", doom, Signer(alice)))
	require.NoError(t, l.Mint(Signer(alice), doom, bob, 100))

	tests := []struct {
		name   string
		auth   tx.Authorization
		mint   types.AccountID
		from   types.AccountID
		amount uint64
		err    error
	}{
		{"signer cannot debit others", Signer(alice), doom, bob, 10, ErrUnauthorized},
		{"unknown mint", Signer(bob), keylet.NamedMint("NOPE"), bob, 10, ErrUnknownMint},
		{"insufficient", Signer(bob), doom, bob, 101, ErrInsufficientFunds},
		{"vault capability cannot debit user", VaultCapability(keylet.Event(1), types.SideDoom), doom, bob, 10, ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := l.Transfer(tt.auth, tt.mint, tt.from, alice, tt.amount)
			assert.ErrorIs(t, err, tt.err)
		})
	}

	bal, err := l.Balance(doom, bob)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), bal)
}

func TestCapabilityMovesOnlyItsVault(t *testing.T) {
	l := newLedger(t)
	doom := keylet.NamedMint("DOOM")
	require.NoError(t, l.CreateMint("DOOM", doom, Signer(alice)))

	ev := keylet.Event(7)
	vault := keylet.SideVault(ev, types.SideDoom)
	require.NoError(t, l.Mint(Signer(alice), doom, vault, 50))

	vaultCap := VaultCapability(ev, types.SideDoom)
	assert.Equal(t, vault, vaultCap.Account())
	require.NoError(t, l.Transfer(vaultCap, doom, vault, bob, 20))

	other := VaultCapability(keylet.Event(8), types.SideDoom)
	assert.ErrorIs(t, l.Transfer(other, doom, vault, bob, 1), ErrUnauthorized)
	lifeCap := VaultCapability(ev, types.SideLife)
	assert.ErrorIs(t, l.Transfer(lifeCap, doom, vault, bob, 1), ErrUnauthorized)
}

func TestBurnRequiresAuthority(t *testing.T) {
	l := newLedger(t)
	lp := keylet.LPMint()
	require.NoError(t, l.CreateMint("LP", lp, PoolMintAuthority()))
	require.NoError(t, l.Mint(PoolMintAuthority(), lp, bob, 500))

	assert.ErrorIs(t, l.Burn(Signer(bob), lp, bob, 100), ErrUnauthorized)
	assert.ErrorIs(t, l.Burn(PoolMintAuthority(), lp, bob, 501), ErrInsufficientFunds)
	require.NoError(t, l.Burn(PoolMintAuthority(), lp, bob, 100))

	rec, err := LoadMint(l.view, lp)
	require.NoError(t, err)
	assert.Equal(t, uint64(400), rec.Supply)
}

func TestMintOverflow(t *testing.T) {
	l := newLedger(t)
	doom := keylet.NamedMint("DOOM")
	require.NoError(t, l.CreateMint("DOOM", doom, Signer(alice)))
	require.NoError(t, l.Mint(Signer(alice), doom, bob, ^uint64(0)))
	assert.ErrorIs(t, l.Mint(Signer(alice), doom, alice, 1), fixedpoint.ErrOverflow)
}

func TestListMints(t *testing.T) {
	l := newLedger(t)
	require.NoError(t, l.CreateMint("DOOM", keylet.NamedMint("DOOM"), Signer(alice)))
	require.NoError(t, l.CreateMint("LIFE", keylet.NamedMint("LIFE"), Signer(alice)))
	require.NoError(t, l.Mint(Signer(alice), keylet.NamedMint("DOOM"), bob, 5))

	mints, err := ListMints(l.view)
	require.NoError(t, err)
	assert.Len(t, mints, 2)
}
