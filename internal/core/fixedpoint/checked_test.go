package fixedpoint

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckedOps(t *testing.T) {
	tests := []struct {
		name string
		fn   func() (uint64, error)
		want uint64
		err  error
	}{
		{"add", func() (uint64, error) { return Add(40, 2) }, 42, nil},
		{"add overflow", func() (uint64, error) { return Add(math.MaxUint64, 1) }, 0, ErrOverflow},
		{"sub", func() (uint64, error) { return Sub(50, 8) }, 42, nil},
		{"sub underflow", func() (uint64, error) { return Sub(1, 2) }, 0, ErrUnderflow},
		{"mul", func() (uint64, error) { return Mul(6, 7) }, 42, nil},
		{"mul overflow", func() (uint64, error) { return Mul(math.MaxUint64, 2) }, 0, ErrOverflow},
		{"muldiv wide intermediate", func() (uint64, error) { return MulDiv(math.MaxUint64, math.MaxUint64, math.MaxUint64) }, math.MaxUint64, nil},
		{"muldiv floors", func() (uint64, error) { return MulDiv(100, 300, 700) }, 42, nil},
		{"muldiv overflow", func() (uint64, error) { return MulDiv(math.MaxUint64, 3, 2) }, 0, ErrOverflow},
		{"muldiv zero divisor", func() (uint64, error) { return MulDiv(1, 1, 0) }, 0, ErrDivisionByZero},
		{"bps", func() (uint64, error) { return ApplyBps(10_000, 30) }, 30, nil},
		{"bps floors to zero", func() (uint64, error) { return ApplyBps(42, 200) }, 0, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.fn()
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSqrtProduct(t *testing.T) {
	assert.Equal(t, uint64(20_000), SqrtProduct(10_000, 40_000))
	assert.Equal(t, uint64(1), SqrtProduct(1, 3))
	assert.Equal(t, uint64(0), SqrtProduct(0, 5))
	assert.Equal(t, uint64(math.MaxUint64), SqrtProduct(math.MaxUint64, math.MaxUint64))
	// 999*1001 = 999999, sqrt floors to 999
	assert.Equal(t, uint64(999), SqrtProduct(999, 1001))
}

func TestSaturating(t *testing.T) {
	assert.Equal(t, uint64(math.MaxUint64), SaturatingAdd(math.MaxUint64-1, 5))
	assert.Equal(t, uint64(3), SaturatingAdd(1, 2))

	assert.Equal(t, int64(math.MaxInt64), SaturatingAddInt64(math.MaxInt64, 1))
	assert.Equal(t, int64(math.MinInt64), SaturatingAddInt64(math.MinInt64, -1))
	assert.Equal(t, int64(-1), SaturatingAddInt64(2, -3))

	assert.Equal(t, int64(math.MinInt64), SaturatingSubInt64(math.MinInt64, 1))
	assert.Equal(t, int64(math.MaxInt64), SaturatingSubInt64(math.MaxInt64, -1))
	assert.Equal(t, int64(5), SaturatingSubInt64(2, -3))

	assert.Equal(t, int64(math.MaxInt64), ClampInt64(math.MaxUint64))
	assert.Equal(t, uint64(3), Min(3, 9))
}
