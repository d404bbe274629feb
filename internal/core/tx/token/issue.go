package token

import (
	"github.com/LeJamon/goDoomsday/internal/core/tx"
	"github.com/LeJamon/goDoomsday/internal/core/types"
)

// Issue mints new tokens to an account. Only the mint authority may issue.
type Issue struct {
	Mint   types.AccountID `json:"mint" yaml:"mint"`
	To     types.AccountID `json:"to" yaml:"to"`
	Amount uint64          `json:"amount" yaml:"amount"`
}

func (o *Issue) OpType() tx.Type { return tx.TypeIssue }

func (o *Issue) Validate() error {
	if o.Amount == 0 {
		return tx.Errorf(tx.TemINVALID_AMOUNT, "issue amount must be positive")
	}
	if o.Mint.IsZero() || o.To.IsZero() {
		return tx.Errorf(tx.TemMALFORMED, "mint and recipient are required")
	}
	return nil
}

func (o *Issue) Apply(ctx *tx.ApplyContext) tx.Result {
	if err := ctx.Tokens.Mint(Signer(ctx.Caller), o.Mint, o.To, o.Amount); err != nil {
		return tx.TokenResult(err)
	}
	ctx.Emit(tx.EventDeposit, "issue", o.Amount)
	return tx.TesSUCCESS
}
