package platform

import (
	"encoding/binary"
	"testing"

	"github.com/LeJamon/goDoomsday/internal/core/ledger/entry"
	"github.com/LeJamon/goDoomsday/internal/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	authority = types.AccountID{0xAA, 1}
	oracle    = types.AccountID{0x0C, 2}
	doomMint  = types.AccountID{0xD0}
	lifeMint  = types.AccountID{0x1F}
)

func TestConfigCodec(t *testing.T) {
	cfg := &Config{
		Authority:     authority,
		Oracle:        oracle,
		DoomMint:      doomMint,
		LifeMint:      lifeMint,
		FeeBps:        250,
		Paused:        true,
		TotalDoomFees: 1,
		TotalLifeFees: 2,
		TotalEvents:   3,
		TotalBets:     4,
	}
	data := cfg.Encode()
	require.Len(t, data, V2Size)
	assert.Equal(t, SchemaV2, data[V2Size-1])

	got, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)

	t.Run("unknown schema byte", func(t *testing.T) {
		bad := append([]byte(nil), data...)
		bad[V2Size-1] = 9
		_, err := Decode(bad)
		assert.ErrorIs(t, err, ErrUnknownSchema)
	})

	t.Run("wrong size", func(t *testing.T) {
		_, err := Decode(data[:100])
		assert.ErrorIs(t, err, ErrUnknownSchema)
	})
}

func TestDecodeV1Offsets(t *testing.T) {
	// built by hand so that the offsets are checked independently of EncodeV1
	data := make([]byte, V1Size)
	disc := entry.TypePlatform.Discriminator()
	copy(data, disc[:])
	copy(data[8:], authority[:])
	copy(data[40:], oracle[:])
	binary.BigEndian.PutUint16(data[72:], 200)
	data[74] = 1
	binary.BigEndian.PutUint64(data[75:], 11)
	binary.BigEndian.PutUint64(data[83:], 22)
	binary.BigEndian.PutUint64(data[91:], 33)
	binary.BigEndian.PutUint64(data[99:], 44)
	data[107] = 254

	v1, err := DecodeV1(data)
	require.NoError(t, err)
	assert.Equal(t, &ConfigV1{
		Authority:     authority,
		Oracle:        oracle,
		FeeBps:        200,
		Paused:        true,
		TotalDoomFees: 11,
		TotalLifeFees: 22,
		TotalEvents:   33,
		TotalBets:     44,
		Bump:          254,
	}, v1)
	assert.Equal(t, data, v1.EncodeV1())

	_, err = Decode(data)
	assert.ErrorIs(t, err, ErrLegacySchema)

	_, err = DecodeV1(data[:V1Size-1])
	assert.ErrorIs(t, err, ErrUnknownSchema)
}

func TestUpgrade(t *testing.T) {
	v1 := &ConfigV1{
		Authority:     authority,
		Oracle:        oracle,
		FeeBps:        300,
		TotalDoomFees: 5,
		TotalLifeFees: 6,
		TotalEvents:   7,
		TotalBets:     8,
		Bump:          255,
	}
	cfg := Upgrade(v1, doomMint, lifeMint)
	assert.Equal(t, &Config{
		Authority:     authority,
		Oracle:        oracle,
		DoomMint:      doomMint,
		LifeMint:      lifeMint,
		FeeBps:        300,
		TotalDoomFees: 5,
		TotalLifeFees: 6,
		TotalEvents:   7,
		TotalBets:     8,
	}, cfg)

	got, err := Decode(cfg.Encode())
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestCounters(t *testing.T) {
	cfg := &Config{TotalDoomFees: ^uint64(0) - 1, TotalBets: ^uint64(0)}
	cfg.AddFee(types.SideDoom, 10)
	cfg.AddFee(types.SideLife, 10)
	cfg.RecordBet()
	cfg.RecordResolution()

	assert.Equal(t, ^uint64(0), cfg.TotalDoomFees)
	assert.Equal(t, uint64(10), cfg.TotalLifeFees)
	assert.Equal(t, ^uint64(0), cfg.TotalBets)
	assert.Equal(t, uint64(1), cfg.TotalEvents)
	assert.Equal(t, doomMint, (&Config{DoomMint: doomMint}).Mint(types.SideDoom))
}
