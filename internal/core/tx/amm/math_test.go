package amm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmountOut(t *testing.T) {
	tests := []struct {
		name       string
		in         uint64
		reserveIn  uint64
		reserveOut uint64
		want       uint64
	}{
		// floor(10000*9970*1000000 / (1000000*10000 + 10000*9970))
		{"balanced pool", 10_000, 1_000_000, 1_000_000, 9_871},
		{"skewed pool", 1_000, 10_000, 40_000, 3_626},
		{"dust rounds to zero", 1, 1_000_000, 1_000, 0},
		{"half max reserves", math.MaxUint64 / 2, math.MaxUint64 / 2, math.MaxUint64 / 2, 4_604_758_097_518_383_314},
		{"wide intermediates", math.MaxUint64, 1, math.MaxUint64, math.MaxUint64 - 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AmountOut(tt.in, tt.reserveIn, tt.reserveOut)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Less(t, got, tt.reserveOut)
		})
	}

	_, err := AmountOut(10, 0, 100)
	assert.ErrorIs(t, err, ErrEmptyPool)
	_, err = AmountOut(10, 100, 0)
	assert.ErrorIs(t, err, ErrEmptyPool)
}

func TestInitialLiquidity(t *testing.T) {
	minted, err := InitialLiquidity(10_000, 40_000)
	require.NoError(t, err)
	assert.Equal(t, uint64(20_000), minted)

	minted, err = InitialLiquidity(1_001, 1_001)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_001), minted)

	_, err = InitialLiquidity(1_000, 1_000)
	assert.ErrorIs(t, err, ErrInsufficientInitialLiquidity)

	minted, err = InitialLiquidity(math.MaxUint64, math.MaxUint64)
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), minted)
}

func TestProportionalLiquidity(t *testing.T) {
	minted, err := ProportionalLiquidity(1_000, 4_000, 10_000, 40_000, 20_000)
	require.NoError(t, err)
	assert.Equal(t, uint64(2_000), minted)

	// the scarcer side bounds the mint
	minted, err = ProportionalLiquidity(1_000, 1_000, 10_000, 40_000, 20_000)
	require.NoError(t, err)
	assert.Equal(t, uint64(500), minted)

	_, err = ProportionalLiquidity(1, 1, 0, 10, 10)
	assert.ErrorIs(t, err, ErrEmptyPool)
}

func TestWithdrawAmounts(t *testing.T) {
	doom, life, err := WithdrawAmounts(2_000, 11_000, 44_000, 22_000)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000), doom)
	assert.Equal(t, uint64(4_000), life)

	// rounding favors the pool
	doom, life, err = WithdrawAmounts(1, 10, 10, 3)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), doom)
	assert.Equal(t, uint64(3), life)

	_, _, err = WithdrawAmounts(1, 0, 0, 0)
	assert.ErrorIs(t, err, ErrEmptyPool)
}

func TestSwapFee(t *testing.T) {
	assert.Equal(t, uint64(30), SwapFee(10_000))
	assert.Equal(t, uint64(0), SwapFee(333))
	assert.Equal(t, uint64(1), SwapFee(334))
	assert.Equal(t, uint64(55_340_232_221_128_654), SwapFee(math.MaxUint64))
}

func TestPoolCodec(t *testing.T) {
	p := &Pool{
		DoomMint:      [20]byte{1},
		LifeMint:      [20]byte{2},
		LPMint:        [20]byte{3},
		DoomReserve:   10,
		LifeReserve:   20,
		LPSupply:      14,
		TotalFeesDoom: 1,
		TotalFeesLife: 2,
		Authority:     [20]byte{9},
	}
	data := p.Encode()
	assert.Len(t, data, poolSize)

	got, err := DecodePool(data)
	require.NoError(t, err)
	assert.Equal(t, p, got)

	_, err = DecodePool(data[:len(data)-1])
	assert.Error(t, err)
}
