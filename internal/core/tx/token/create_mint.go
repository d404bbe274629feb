package token

import (
	"errors"

	"github.com/LeJamon/goDoomsday/internal/core/ledger/keylet"
	"github.com/LeJamon/goDoomsday/internal/core/tx"
)

func init() {
	tx.Register(tx.TypeCreateMint, func() tx.Operation { return &CreateMint{} })
	tx.Register(tx.TypeIssue, func() tx.Operation { return &Issue{} })
}

// CreateMint creates a named mint whose authority is the caller.
type CreateMint struct {
	Name string `json:"name" yaml:"name"`
}

func (o *CreateMint) OpType() tx.Type { return tx.TypeCreateMint }

func (o *CreateMint) Validate() error {
	if o.Name == "" || len(o.Name) > MaxNameLength {
		return tx.Errorf(tx.TemMALFORMED, "mint name must be 1 to %d bytes", MaxNameLength)
	}
	return nil
}

func (o *CreateMint) Apply(ctx *tx.ApplyContext) tx.Result {
	mint := keylet.NamedMint(o.Name)
	err := ctx.Tokens.CreateMint(o.Name, mint, Signer(ctx.Caller))
	if errors.Is(err, tx.ErrEntryExists) {
		return tx.TecDUPLICATE
	}
	if err != nil {
		ctx.Logger.Error("create mint failed", "name", o.Name, "error", err)
		return tx.TefINTERNAL
	}
	ctx.Logger.Debug("mint created", "name", o.Name, "mint", mint)
	return tx.TesSUCCESS
}
