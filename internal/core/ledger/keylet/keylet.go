package keylet

import (
	"encoding/binary"

	"github.com/LeJamon/goDoomsday/internal/core/ledger/entry"
	"github.com/LeJamon/goDoomsday/internal/core/types"
	crypto "github.com/LeJamon/goDoomsday/internal/crypto/common"
)

// Space identifiers for keylet generation
const (
	spacePool     uint16 = 'L' // Liquidity pool (singleton)
	spacePlatform uint16 = 'F' // Platform configuration (singleton)
	spaceEvent    uint16 = 'E' // Prediction event
	spaceBet      uint16 = 'W' // User bet (wager)
	spaceStats    uint16 = 'U' // User statistics
	spaceBalance  uint16 = 'b' // Token balance
	spaceMint     uint16 = 'm' // Mint record
	spaceCustody  uint16 = 'c' // Derived custody accounts
	spaceNamed    uint16 = 'n' // Named mints
)

// Custody purposes for accounts derived from an entity key.
const (
	PurposeVaultDoom = "vault_doom"
	PurposeVaultLife = "vault_life"
	PurposeLPMint    = "lp_mint"
	PurposeFeeDoom   = "fee_doom"
	PurposeFeeLife   = "fee_life"
	PurposeAuthority = "mint_authority"
)

// Keylet represents an addressable location in the ledger state.
// It combines a type identifier with a 256-bit key.
type Keylet struct {
	Type entry.Type
	Key  [32]byte
}

// indexHash computes a keylet key by hashing the space and provided data.
func indexHash(space uint16, data ...[]byte) [32]byte {
	spaceBytes := make([]byte, 2)
	binary.BigEndian.PutUint16(spaceBytes, space)

	inputs := make([][]byte, 0, len(data)+1)
	inputs = append(inputs, spaceBytes)
	inputs = append(inputs, data...)

	return crypto.Sha512Half(inputs...)
}

func u64(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

// Pool returns the keylet of the singleton liquidity pool.
func Pool() Keylet {
	return Keylet{Type: entry.TypePool, Key: indexHash(spacePool)}
}

// Platform returns the keylet of the singleton platform configuration.
func Platform() Keylet {
	return Keylet{Type: entry.TypePlatform, Key: indexHash(spacePlatform)}
}

// Event returns the keylet of a prediction event.
func Event(eventID uint64) Keylet {
	return Keylet{Type: entry.TypeEvent, Key: indexHash(spaceEvent, u64(eventID))}
}

// Bet returns the keylet of a user's bet on an event.
// There is exactly one location per (event, user) pair.
func Bet(eventID uint64, user types.AccountID) Keylet {
	return Keylet{Type: entry.TypeBet, Key: indexHash(spaceBet, u64(eventID), user[:])}
}

// Stats returns the keylet of a user's statistics.
func Stats(user types.AccountID) Keylet {
	return Keylet{Type: entry.TypeStats, Key: indexHash(spaceStats, user[:])}
}

// Balance returns the keylet of owner's balance of mint.
func Balance(mint, owner types.AccountID) Keylet {
	return Keylet{Type: entry.TypeBalance, Key: indexHash(spaceBalance, mint[:], owner[:])}
}

// Mint returns the keylet of a mint record.
func Mint(mint types.AccountID) Keylet {
	return Keylet{Type: entry.TypeMint, Key: indexHash(spaceMint, mint[:])}
}

// CustodyAccount derives the account an entity controls for the given purpose.
// The account is the first 20 bytes of the derived hash.
func CustodyAccount(owner Keylet, purpose string) types.AccountID {
	h := indexHash(spaceCustody, owner.Key[:], []byte(purpose))
	return types.AccountIDFromBytes(h[:types.AccountIDSize])
}

// VaultPurpose returns the custody purpose for a side's vault.
func VaultPurpose(side types.Side) string {
	if side == types.SideDoom {
		return PurposeVaultDoom
	}
	return PurposeVaultLife
}

// SideVault returns the custody account holding side tokens for owner.
func SideVault(owner Keylet, side types.Side) types.AccountID {
	return CustodyAccount(owner, VaultPurpose(side))
}

// FeeAccount returns the platform account collecting fees in side tokens.
func FeeAccount(side types.Side) types.AccountID {
	if side == types.SideDoom {
		return CustodyAccount(Platform(), PurposeFeeDoom)
	}
	return CustodyAccount(Platform(), PurposeFeeLife)
}

// LPMint returns the mint id of the pool's liquidity token.
func LPMint() types.AccountID {
	return CustodyAccount(Pool(), PurposeLPMint)
}

// NamedMint returns the mint id for a human-readable token name.
func NamedMint(name string) types.AccountID {
	h := indexHash(spaceNamed, []byte(name))
	return types.AccountIDFromBytes(h[:types.AccountIDSize])
}
