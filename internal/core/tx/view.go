package tx

import (
	"errors"

	"github.com/LeJamon/goDoomsday/internal/core/ledger/keylet"
)

var (
	// ErrEntryExists is returned by Insert when the key is already present.
	ErrEntryExists = errors.New("entry already exists")

	// ErrEntryNotFound is returned by Update and Erase on a missing key.
	ErrEntryNotFound = errors.New("entry not found")
)

// LedgerView provides read/write access to ledger state
type LedgerView interface {
	// Read reads a ledger entry. It returns nil data and no error when the
	// entry does not exist.
	Read(k keylet.Keylet) ([]byte, error)

	// Exists checks if an entry exists
	Exists(k keylet.Keylet) (bool, error)

	// Insert adds a new entry, failing with ErrEntryExists if present
	Insert(k keylet.Keylet, data []byte) error

	// Update modifies an existing entry
	Update(k keylet.Keylet, data []byte) error

	// Erase removes an entry
	Erase(k keylet.Keylet) error

	// ForEach iterates over all state entries
	// If fn returns false, iteration stops early
	ForEach(fn func(key [32]byte, data []byte) bool) error
}

// StagedWrite is one committed change. Nil Data erases the key.
type StagedWrite struct {
	Key  [32]byte
	Data []byte
}

// BatchCommitter is implemented by views that can apply a set of writes
// atomically. ApplyStateTable.Apply prefers it over per-entry writes.
type BatchCommitter interface {
	CommitBatch(writes []StagedWrite) error
}
