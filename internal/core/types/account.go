package types

import (
	"errors"
	"fmt"

	"github.com/mr-tron/base58"
)

// AccountIDSize is the size of an account identifier in bytes.
const AccountIDSize = 20

// ErrInvalidAccountID is returned when an encoded account cannot be decoded.
var ErrInvalidAccountID = errors.New("invalid account id")

// AccountID identifies a user account, a mint or a derived custody account.
type AccountID [AccountIDSize]byte

// ZeroAccount is the unset account.
var ZeroAccount AccountID

// AccountIDFromBytes copies b into an AccountID.
// Returns the zero account if b is not exactly 20 bytes.
func AccountIDFromBytes(b []byte) AccountID {
	var id AccountID
	if len(b) == AccountIDSize {
		copy(id[:], b)
	}
	return id
}

// ParseAccountID decodes a base58 account string.
func ParseAccountID(s string) (AccountID, error) {
	raw, err := base58.Decode(s)
	if err != nil {
		return ZeroAccount, fmt.Errorf("%w: %v", ErrInvalidAccountID, err)
	}
	if len(raw) != AccountIDSize {
		return ZeroAccount, fmt.Errorf("%w: %d bytes", ErrInvalidAccountID, len(raw))
	}
	return AccountIDFromBytes(raw), nil
}

// String returns the base58 encoding of the account.
func (a AccountID) String() string {
	return base58.Encode(a[:])
}

// IsZero reports whether the account is unset.
func (a AccountID) IsZero() bool {
	return a == ZeroAccount
}

// MarshalText implements encoding.TextMarshaler.
func (a AccountID) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *AccountID) UnmarshalText(text []byte) error {
	id, err := ParseAccountID(string(text))
	if err != nil {
		return err
	}
	*a = id
	return nil
}
