package token

import (
	"fmt"

	"github.com/LeJamon/goDoomsday/internal/core/ledger/entry"
	"github.com/LeJamon/goDoomsday/internal/core/ledger/keylet"
	"github.com/LeJamon/goDoomsday/internal/core/tx"
	"github.com/LeJamon/goDoomsday/internal/core/types"
)

// MaxNameLength bounds mint names.
const MaxNameLength = 32

// MintRecord describes a token mint.
type MintRecord struct {
	Mint      types.AccountID
	Authority types.AccountID
	Supply    uint64
	Name      string
}

func (m *MintRecord) Encode() []byte {
	return entry.NewEncoder(entry.TypeMint, 64+len(m.Name)).
		Account(m.Mint).
		Account(m.Authority).
		Uint64(m.Supply).
		String(m.Name).
		Bytes()
}

func DecodeMint(data []byte) (*MintRecord, error) {
	d, err := entry.NewDecoder(data, entry.TypeMint)
	if err != nil {
		return nil, err
	}
	m := &MintRecord{
		Mint:      d.Account(),
		Authority: d.Account(),
		Supply:    d.Uint64(),
		Name:      d.String(MaxNameLength),
	}
	if err := d.Finish(); err != nil {
		return nil, fmt.Errorf("mint record: %w", err)
	}
	return m, nil
}

// BalanceRecord is one owner's balance of one mint.
type BalanceRecord struct {
	Mint   types.AccountID
	Owner  types.AccountID
	Amount uint64
}

func (b *BalanceRecord) Encode() []byte {
	return entry.NewEncoder(entry.TypeBalance, 56).
		Account(b.Mint).
		Account(b.Owner).
		Uint64(b.Amount).
		Bytes()
}

func DecodeBalance(data []byte) (*BalanceRecord, error) {
	d, err := entry.NewDecoder(data, entry.TypeBalance)
	if err != nil {
		return nil, err
	}
	b := &BalanceRecord{
		Mint:   d.Account(),
		Owner:  d.Account(),
		Amount: d.Uint64(),
	}
	if err := d.Finish(); err != nil {
		return nil, fmt.Errorf("balance record: %w", err)
	}
	return b, nil
}

// LoadMint reads a mint record, returning nil if it does not exist.
func LoadMint(view tx.LedgerView, mint types.AccountID) (*MintRecord, error) {
	data, err := view.Read(keylet.Mint(mint))
	if err != nil || data == nil {
		return nil, err
	}
	return DecodeMint(data)
}

// ListMints returns every mint record in the view.
func ListMints(view tx.LedgerView) ([]*MintRecord, error) {
	var mints []*MintRecord
	var decodeErr error
	err := view.ForEach(func(_ [32]byte, data []byte) bool {
		if t, err := entry.TypeOf(data); err != nil || t != entry.TypeMint {
			return true
		}
		m, err := DecodeMint(data)
		if err != nil {
			decodeErr = err
			return false
		}
		mints = append(mints, m)
		return true
	})
	if err != nil {
		return nil, err
	}
	return mints, decodeErr
}
