package amm

import (
	"github.com/LeJamon/goDoomsday/internal/core/tx"
	"github.com/LeJamon/goDoomsday/internal/core/types"
)

// Quote prices a swap of amountIn without changing state. It returns 0 when
// either reserve is empty.
func Quote(view tx.LedgerView, amountIn uint64, dir types.Direction) (uint64, error) {
	p, err := Load(view)
	if err != nil {
		return 0, err
	}
	if p == nil {
		return 0, tx.ErrEntryNotFound
	}
	return p.Quote(amountIn, dir)
}

// Quote prices a swap against the pool's current reserves.
func (p *Pool) Quote(amountIn uint64, dir types.Direction) (uint64, error) {
	reserveIn, reserveOut := p.Reserve(dir.In()), p.Reserve(dir.Out())
	if reserveIn == 0 || reserveOut == 0 {
		return 0, nil
	}
	return AmountOut(amountIn, reserveIn, reserveOut)
}
