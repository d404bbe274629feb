package amm

import (
	"fmt"

	"github.com/LeJamon/goDoomsday/internal/core/ledger/entry"
	"github.com/LeJamon/goDoomsday/internal/core/ledger/keylet"
	"github.com/LeJamon/goDoomsday/internal/core/tx"
	"github.com/LeJamon/goDoomsday/internal/core/types"
)

// Pool is the singleton DOOM/LIFE liquidity pool.
type Pool struct {
	DoomMint types.AccountID
	LifeMint types.AccountID
	LPMint   types.AccountID

	DoomReserve uint64
	LifeReserve uint64
	LPSupply    uint64

	TotalFeesDoom uint64
	TotalFeesLife uint64

	Authority types.AccountID
}

// poolSize is the encoded size: discriminator, four accounts, five u64s.
const poolSize = entry.DiscriminatorSize + 4*types.AccountIDSize + 5*8

func (p *Pool) Encode() []byte {
	return entry.NewEncoder(entry.TypePool, poolSize).
		Account(p.DoomMint).
		Account(p.LifeMint).
		Account(p.LPMint).
		Uint64(p.DoomReserve).
		Uint64(p.LifeReserve).
		Uint64(p.LPSupply).
		Uint64(p.TotalFeesDoom).
		Uint64(p.TotalFeesLife).
		Account(p.Authority).
		Bytes()
}

func DecodePool(data []byte) (*Pool, error) {
	d, err := entry.NewDecoder(data, entry.TypePool)
	if err != nil {
		return nil, err
	}
	p := &Pool{
		DoomMint:      d.Account(),
		LifeMint:      d.Account(),
		LPMint:        d.Account(),
		DoomReserve:   d.Uint64(),
		LifeReserve:   d.Uint64(),
		LPSupply:      d.Uint64(),
		TotalFeesDoom: d.Uint64(),
		TotalFeesLife: d.Uint64(),
		Authority:     d.Account(),
	}
	if err := d.Finish(); err != nil {
		return nil, fmt.Errorf("pool: %w", err)
	}
	return p, nil
}

// Mint returns the mint of side s.
func (p *Pool) Mint(s types.Side) types.AccountID {
	if s == types.SideDoom {
		return p.DoomMint
	}
	return p.LifeMint
}

// Reserve returns the reserve of side s.
func (p *Pool) Reserve(s types.Side) uint64 {
	if s == types.SideDoom {
		return p.DoomReserve
	}
	return p.LifeReserve
}

func (p *Pool) setReserve(s types.Side, v uint64) {
	if s == types.SideDoom {
		p.DoomReserve = v
	} else {
		p.LifeReserve = v
	}
}

var poolKey = keylet.Pool()

// Vault returns the pool custody account holding side s.
func Vault(s types.Side) types.AccountID {
	return keylet.SideVault(poolKey, s)
}

// Load reads the pool. It returns nil if the pool has not been initialized.
func Load(view tx.LedgerView) (*Pool, error) {
	data, err := view.Read(keylet.Pool())
	if err != nil || data == nil {
		return nil, err
	}
	return DecodePool(data)
}

func save(view tx.LedgerView, p *Pool) error {
	return view.Update(keylet.Pool(), p.Encode())
}

// loadForApply loads the pool inside an operation, mapping a missing pool
// and storage failures to result codes.
func loadForApply(ctx *tx.ApplyContext) (*Pool, tx.Result) {
	p, err := Load(ctx.View)
	if err != nil {
		ctx.Logger.Error("load pool", "error", err)
		return nil, tx.TefINTERNAL
	}
	if p == nil {
		return nil, tx.TecNO_ENTRY
	}
	return p, tx.TesSUCCESS
}
