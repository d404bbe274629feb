package platform

import (
	"encoding/binary"
	"fmt"

	"github.com/LeJamon/goDoomsday/internal/core/ledger/entry"
	"github.com/LeJamon/goDoomsday/internal/core/types"
)

// v1 field offsets
const (
	v1AuthorityOff = 8
	v1OracleOff    = 40
	v1FeeOff       = 72
	v1PausedOff    = 74
	v1DoomFeesOff  = 75
	v1LifeFeesOff  = 83
	v1EventsOff    = 91
	v1BetsOff      = 99
	v1BumpOff      = 107
)

// ConfigV1 is the legacy platform layout. It has no mint fields.
type ConfigV1 struct {
	Authority types.AccountID
	Oracle    types.AccountID
	FeeBps    uint16
	Paused    bool

	TotalDoomFees uint64
	TotalLifeFees uint64
	TotalEvents   uint64
	TotalBets     uint64

	Bump uint8
}

// DecodeV1 reads the 108-byte legacy layout by fixed offsets.
func DecodeV1(data []byte) (*ConfigV1, error) {
	if len(data) != V1Size {
		return nil, fmt.Errorf("%w: v1 record is %d bytes, want %d", ErrUnknownSchema, len(data), V1Size)
	}
	if err := entry.CheckDiscriminator(data, entry.TypePlatform); err != nil {
		return nil, err
	}
	if data[v1PausedOff] > 1 {
		return nil, fmt.Errorf("v1 platform config: invalid paused byte %d", data[v1PausedOff])
	}
	return &ConfigV1{
		Authority:     types.AccountIDFromBytes(data[v1AuthorityOff : v1AuthorityOff+types.AccountIDSize]),
		Oracle:        types.AccountIDFromBytes(data[v1OracleOff : v1OracleOff+types.AccountIDSize]),
		FeeBps:        binary.BigEndian.Uint16(data[v1FeeOff:]),
		Paused:        data[v1PausedOff] == 1,
		TotalDoomFees: binary.BigEndian.Uint64(data[v1DoomFeesOff:]),
		TotalLifeFees: binary.BigEndian.Uint64(data[v1LifeFeesOff:]),
		TotalEvents:   binary.BigEndian.Uint64(data[v1EventsOff:]),
		TotalBets:     binary.BigEndian.Uint64(data[v1BetsOff:]),
		Bump:          data[v1BumpOff],
	}, nil
}

// EncodeV1 writes the legacy layout. Only migration tooling and tests
// produce v1 records.
func (c *ConfigV1) EncodeV1() []byte {
	return entry.NewEncoder(entry.TypePlatform, V1Size).
		Slot32(c.Authority).
		Slot32(c.Oracle).
		Uint16(c.FeeBps).
		Bool(c.Paused).
		Uint64(c.TotalDoomFees).
		Uint64(c.TotalLifeFees).
		Uint64(c.TotalEvents).
		Uint64(c.TotalBets).
		Uint8(c.Bump).
		Bytes()
}

// Upgrade carries every v1 field over and adds the mints.
func Upgrade(v1 *ConfigV1, doomMint, lifeMint types.AccountID) *Config {
	return &Config{
		Authority:     v1.Authority,
		Oracle:        v1.Oracle,
		DoomMint:      doomMint,
		LifeMint:      lifeMint,
		FeeBps:        v1.FeeBps,
		Paused:        v1.Paused,
		TotalDoomFees: v1.TotalDoomFees,
		TotalLifeFees: v1.TotalLifeFees,
		TotalEvents:   v1.TotalEvents,
		TotalBets:     v1.TotalBets,
	}
}
