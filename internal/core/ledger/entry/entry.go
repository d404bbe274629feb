package entry

import (
	"encoding/binary"
	"fmt"
)

// Type represents a ledger entry type
type Type uint16

// All known ledger entry types
const (
	TypePool     Type = 0x004c // Liquidity pool (singleton)
	TypePlatform Type = 0x0046 // Platform configuration (singleton)
	TypeEvent    Type = 0x0045 // Prediction events
	TypeBet      Type = 0x0057 // User bets, one per (event, user)
	TypeStats    Type = 0x0055 // Per-user statistics
	TypeBalance  Type = 0x0062 // Token balances, one per (mint, owner)
	TypeMint     Type = 0x006d // Mint records
)

// DiscriminatorSize is the length of the type prefix every serialized entry starts with.
const DiscriminatorSize = 8

// String returns the string representation of the Type
func (t Type) String() string {
	switch t {
	case TypePool:
		return "LiquidityPool"
	case TypePlatform:
		return "PlatformConfig"
	case TypeEvent:
		return "PredictionEvent"
	case TypeBet:
		return "UserBet"
	case TypeStats:
		return "UserStats"
	case TypeBalance:
		return "TokenBalance"
	case TypeMint:
		return "Mint"
	default:
		return fmt.Sprintf("Unknown(0x%04x)", uint16(t))
	}
}

// Discriminator returns the 8-byte prefix for entries of type t:
// the ASCII tag "DOOM", a zero pad and the big-endian type code.
func (t Type) Discriminator() [DiscriminatorSize]byte {
	var d [DiscriminatorSize]byte
	copy(d[:4], "DOOM")
	binary.BigEndian.PutUint16(d[6:], uint16(t))
	return d
}

// TypeOf reads the entry type from a serialized entry.
func TypeOf(data []byte) (Type, error) {
	if len(data) < DiscriminatorSize {
		return 0, fmt.Errorf("entry too short: %d bytes", len(data))
	}
	if string(data[:4]) != "DOOM" {
		return 0, fmt.Errorf("bad entry discriminator %x", data[:DiscriminatorSize])
	}
	return Type(binary.BigEndian.Uint16(data[6:8])), nil
}

// CheckDiscriminator verifies that data is a serialized entry of type t.
func CheckDiscriminator(data []byte, t Type) error {
	got, err := TypeOf(data)
	if err != nil {
		return err
	}
	if got != t {
		return fmt.Errorf("expected %s entry, got %s", t, got)
	}
	return nil
}
