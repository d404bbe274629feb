package tx

import (
	"errors"

	"github.com/LeJamon/goDoomsday/internal/core/fixedpoint"
	"github.com/LeJamon/goDoomsday/internal/core/types"
)

//go:generate mockgen -destination=../../testing/mock_token_ledger.go -package=testing github.com/LeJamon/goDoomsday/internal/core/tx TokenLedger

// Token ledger errors
var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrUnauthorized      = errors.New("authorization does not cover account")
	ErrUnknownMint       = errors.New("unknown mint")
)

// Authorization is the authority presented with a token request.
// A request may only move funds out of Account() or act as the mint
// authority when Account() matches it.
type Authorization interface {
	Account() types.AccountID
	String() string
}

// TokenLedger is the token collaborator used by operations. Every call is
// all-or-nothing against the view it was created over.
type TokenLedger interface {
	CreateMint(name string, mint types.AccountID, authority Authorization) error
	Transfer(auth Authorization, mint, from, to types.AccountID, amount uint64) error
	Mint(auth Authorization, mint, to types.AccountID, amount uint64) error
	Burn(auth Authorization, mint, from types.AccountID, amount uint64) error
	Balance(mint, owner types.AccountID) (uint64, error)
}

// TokenLedgerFactory binds a TokenLedger to a view, normally the sandbox.
type TokenLedgerFactory func(view LedgerView) TokenLedger

// TokenResult maps a token ledger error onto a result code.
func TokenResult(err error) Result {
	switch {
	case err == nil:
		return TesSUCCESS
	case errors.Is(err, ErrInsufficientFunds):
		return TecINSUFFICIENT_FUNDS
	case errors.Is(err, ErrUnauthorized):
		return TefUNAUTHORIZED
	case errors.Is(err, ErrUnknownMint):
		return TecNO_ENTRY
	case errors.Is(err, ErrEntryExists):
		return TecDUPLICATE
	default:
		return ArithmeticResult(err)
	}
}

// ArithmeticResult maps fixedpoint errors onto tecOVERFLOW/tecUNDERFLOW.
// Any other error is tefINTERNAL.
func ArithmeticResult(err error) Result {
	switch {
	case err == nil:
		return TesSUCCESS
	case errors.Is(err, fixedpoint.ErrOverflow), errors.Is(err, fixedpoint.ErrDivisionByZero):
		return TecOVERFLOW
	case errors.Is(err, fixedpoint.ErrUnderflow):
		return TecUNDERFLOW
	default:
		return TefINTERNAL
	}
}
