// Package token implements the token ledger collaborator: mints, balances
// and the authorizations that move them.
package token

import (
	"fmt"

	"github.com/LeJamon/goDoomsday/internal/core/fixedpoint"
	"github.com/LeJamon/goDoomsday/internal/core/ledger/keylet"
	"github.com/LeJamon/goDoomsday/internal/core/tx"
	"github.com/LeJamon/goDoomsday/internal/core/types"
)

// Errors shared with the tx package so results map consistently.
var (
	ErrInsufficientFunds = tx.ErrInsufficientFunds
	ErrUnauthorized      = tx.ErrUnauthorized
	ErrUnknownMint       = tx.ErrUnknownMint
)

// Ledger stores mints and balances in a LedgerView.
type Ledger struct {
	view tx.LedgerView
}

var _ tx.TokenLedger = (*Ledger)(nil)

func NewLedger(view tx.LedgerView) *Ledger {
	return &Ledger{view: view}
}

// Factory returns a tx.TokenLedgerFactory producing Ledgers.
func Factory() tx.TokenLedgerFactory {
	return func(view tx.LedgerView) tx.TokenLedger {
		return NewLedger(view)
	}
}

func (l *Ledger) CreateMint(name string, mint types.AccountID, authority tx.Authorization) error {
	if len(name) > MaxNameLength {
		return fmt.Errorf("mint name longer than %d bytes", MaxNameLength)
	}
	rec := &MintRecord{Mint: mint, Authority: authority.Account(), Name: name}
	if err := l.view.Insert(keylet.Mint(mint), rec.Encode()); err != nil {
		return fmt.Errorf("create mint %s: %w", name, err)
	}
	return nil
}

func (l *Ledger) mint(mint types.AccountID) (*MintRecord, error) {
	rec, err := LoadMint(l.view, mint)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMint, mint)
	}
	return rec, nil
}

func (l *Ledger) Balance(mint, owner types.AccountID) (uint64, error) {
	data, err := l.view.Read(keylet.Balance(mint, owner))
	if err != nil || data == nil {
		return 0, err
	}
	rec, err := DecodeBalance(data)
	if err != nil {
		return 0, err
	}
	return rec.Amount, nil
}

func (l *Ledger) setBalance(mint, owner types.AccountID, amount uint64) error {
	k := keylet.Balance(mint, owner)
	rec := &BalanceRecord{Mint: mint, Owner: owner, Amount: amount}
	exists, err := l.view.Exists(k)
	if err != nil {
		return err
	}
	if exists {
		return l.view.Update(k, rec.Encode())
	}
	return l.view.Insert(k, rec.Encode())
}

func (l *Ledger) Transfer(auth tx.Authorization, mint, from, to types.AccountID, amount uint64) error {
	if auth.Account() != from {
		return fmt.Errorf("%w: %s cannot debit %s", ErrUnauthorized, auth, from)
	}
	if _, err := l.mint(mint); err != nil {
		return err
	}

	fromBal, err := l.Balance(mint, from)
	if err != nil {
		return err
	}
	if fromBal < amount {
		return fmt.Errorf("%w: %s holds %d, needs %d", ErrInsufficientFunds, from, fromBal, amount)
	}
	if amount == 0 || from == to {
		return nil
	}

	toBal, err := l.Balance(mint, to)
	if err != nil {
		return err
	}
	newTo, err := fixedpoint.Add(toBal, amount)
	if err != nil {
		return err
	}

	if err := l.setBalance(mint, from, fromBal-amount); err != nil {
		return err
	}
	return l.setBalance(mint, to, newTo)
}

func (l *Ledger) Mint(auth tx.Authorization, mint, to types.AccountID, amount uint64) error {
	rec, err := l.mint(mint)
	if err != nil {
		return err
	}
	if auth.Account() != rec.Authority {
		return fmt.Errorf("%w: %s is not the authority of %s", ErrUnauthorized, auth, rec.Name)
	}

	supply, err := fixedpoint.Add(rec.Supply, amount)
	if err != nil {
		return err
	}
	bal, err := l.Balance(mint, to)
	if err != nil {
		return err
	}
	newBal, err := fixedpoint.Add(bal, amount)
	if err != nil {
		return err
	}

	rec.Supply = supply
	if err := l.view.Update(keylet.Mint(mint), rec.Encode()); err != nil {
		return err
	}
	return l.setBalance(mint, to, newBal)
}

func (l *Ledger) Burn(auth tx.Authorization, mint, from types.AccountID, amount uint64) error {
	rec, err := l.mint(mint)
	if err != nil {
		return err
	}
	if auth.Account() != rec.Authority {
		return fmt.Errorf("%w: %s is not the authority of %s", ErrUnauthorized, auth, rec.Name)
	}

	bal, err := l.Balance(mint, from)
	if err != nil {
		return err
	}
	if bal < amount {
		return fmt.Errorf("%w: %s holds %d, burning %d", ErrInsufficientFunds, from, bal, amount)
	}
	supply, err := fixedpoint.Sub(rec.Supply, amount)
	if err != nil {
		return err
	}

	rec.Supply = supply
	if err := l.view.Update(keylet.Mint(mint), rec.Encode()); err != nil {
		return err
	}
	return l.setBalance(mint, from, bal-amount)
}
