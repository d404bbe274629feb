// Package platform holds the platform configuration record and the
// operations that create, update and upgrade it.
package platform

import (
	"errors"
	"fmt"

	"github.com/LeJamon/goDoomsday/internal/core/fixedpoint"
	"github.com/LeJamon/goDoomsday/internal/core/ledger/entry"
	"github.com/LeJamon/goDoomsday/internal/core/ledger/keylet"
	"github.com/LeJamon/goDoomsday/internal/core/tx"
	"github.com/LeJamon/goDoomsday/internal/core/types"
)

// Record sizes and schema versions
const (
	V1Size = 108
	V2Size = 172

	SchemaV2 uint8 = 2

	// MaxFeeBps is 100%.
	MaxFeeBps uint16 = 10000
)

var (
	// ErrLegacySchema is returned by Decode for a v1 record. Upgrade it first.
	ErrLegacySchema = errors.New("platform config uses the legacy v1 schema")

	ErrUnknownSchema = errors.New("unknown platform config schema")
)

// Config is the singleton platform configuration (schema v2).
type Config struct {
	Authority types.AccountID
	Oracle    types.AccountID
	DoomMint  types.AccountID
	LifeMint  types.AccountID
	FeeBps    uint16
	Paused    bool

	TotalDoomFees uint64
	TotalLifeFees uint64
	TotalEvents   uint64
	TotalBets     uint64
}

// Encode serializes the v2 layout:
//
//	discriminator(8) authority(32) oracle(32) doom_mint(32) life_mint(32)
//	fee_bps(2) paused(1) doom_fees(8) life_fees(8) events(8) bets(8) schema(1)
func (c *Config) Encode() []byte {
	return entry.NewEncoder(entry.TypePlatform, V2Size).
		Slot32(c.Authority).
		Slot32(c.Oracle).
		Slot32(c.DoomMint).
		Slot32(c.LifeMint).
		Uint16(c.FeeBps).
		Bool(c.Paused).
		Uint64(c.TotalDoomFees).
		Uint64(c.TotalLifeFees).
		Uint64(c.TotalEvents).
		Uint64(c.TotalBets).
		Uint8(SchemaV2).
		Bytes()
}

// Decode reads a v2 record. A v1 record yields ErrLegacySchema.
func Decode(data []byte) (*Config, error) {
	switch len(data) {
	case V1Size:
		if err := entry.CheckDiscriminator(data, entry.TypePlatform); err != nil {
			return nil, err
		}
		return nil, ErrLegacySchema
	case V2Size:
	default:
		return nil, fmt.Errorf("%w: %d bytes", ErrUnknownSchema, len(data))
	}

	d, err := entry.NewDecoder(data, entry.TypePlatform)
	if err != nil {
		return nil, err
	}
	c := &Config{
		Authority:     d.Slot32(),
		Oracle:        d.Slot32(),
		DoomMint:      d.Slot32(),
		LifeMint:      d.Slot32(),
		FeeBps:        d.Uint16(),
		Paused:        d.Bool(),
		TotalDoomFees: d.Uint64(),
		TotalLifeFees: d.Uint64(),
		TotalEvents:   d.Uint64(),
		TotalBets:     d.Uint64(),
	}
	if schema := d.Uint8(); schema != SchemaV2 {
		d.Fail(fmt.Errorf("%w: version %d", ErrUnknownSchema, schema))
	}
	if err := d.Finish(); err != nil {
		return nil, fmt.Errorf("platform config: %w", err)
	}
	return c, nil
}

// FeeAccount returns the platform custody account collecting fees of side s.
func FeeAccount(s types.Side) types.AccountID {
	return keylet.FeeAccount(s)
}

// Mint returns the mint of side s.
func (c *Config) Mint(s types.Side) types.AccountID {
	if s == types.SideDoom {
		return c.DoomMint
	}
	return c.LifeMint
}

// AddFee saturating-adds amount to the fee counter of side s.
func (c *Config) AddFee(s types.Side, amount uint64) {
	if s == types.SideDoom {
		c.TotalDoomFees = fixedpoint.SaturatingAdd(c.TotalDoomFees, amount)
	} else {
		c.TotalLifeFees = fixedpoint.SaturatingAdd(c.TotalLifeFees, amount)
	}
}

// RecordBet saturating-increments the bet counter.
func (c *Config) RecordBet() {
	c.TotalBets = fixedpoint.SaturatingAdd(c.TotalBets, 1)
}

// RecordResolution saturating-increments the resolved event counter.
func (c *Config) RecordResolution() {
	c.TotalEvents = fixedpoint.SaturatingAdd(c.TotalEvents, 1)
}

// Load reads the platform config. It returns nil if the platform has not
// been initialized and ErrLegacySchema if it still needs an upgrade.
func Load(view tx.LedgerView) (*Config, error) {
	data, err := view.Read(keylet.Platform())
	if err != nil || data == nil {
		return nil, err
	}
	return Decode(data)
}

// LoadForApply loads the config inside an operation and maps failures to
// result codes.
func LoadForApply(ctx *tx.ApplyContext) (*Config, tx.Result) {
	cfg, err := Load(ctx.View)
	switch {
	case errors.Is(err, ErrLegacySchema):
		return nil, tx.TecLEGACY_SCHEMA
	case err != nil:
		ctx.Logger.Error("load platform config", "error", err)
		return nil, tx.TefINTERNAL
	case cfg == nil:
		return nil, tx.TecNO_ENTRY
	}
	return cfg, tx.TesSUCCESS
}

// Save writes cfg back to the view.
func Save(view tx.LedgerView, cfg *Config) error {
	return view.Update(keylet.Platform(), cfg.Encode())
}
