package testing

import (
	"github.com/LeJamon/goDoomsday/internal/core/types"
	"github.com/LeJamon/goDoomsday/internal/crypto"
)

// Account represents a test account with a keypair derived from its name.
type Account struct {
	// Name is a human-readable identifier for the account (used for debugging).
	Name string

	// Key signs operations submitted for the account.
	Key *crypto.KeyPair

	// ID is the account ID derived from the public key.
	ID types.AccountID
}

// NewAccount creates a test account whose key is derived from the name.
// The same name always produces the same account.
func NewAccount(name string) *Account {
	key, err := crypto.KeyPairFromSeed([]byte("doomsday-test:" + name))
	if err != nil {
		panic("failed to derive key for account " + name + ": " + err.Error())
	}
	return &Account{
		Name: name,
		Key:  key,
		ID:   key.AccountID(),
	}
}

// Address returns the base58 form of the account ID.
func (a *Account) Address() string {
	return a.ID.String()
}

// String returns a debug representation of the account.
func (a *Account) String() string {
	return a.Name + "(" + a.ID.String() + ")"
}
