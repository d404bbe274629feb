// Package fixedpoint provides overflow-checked integer arithmetic for the
// pool and payout engines. Every product is formed over a 256-bit
// intermediate and narrowed back to 64 bits, failing instead of wrapping.
package fixedpoint

import (
	"errors"
	"math"
	"math/bits"

	"github.com/holiman/uint256"
)

// BasisPoints is the denominator of a basis-point rate (100% = 10000).
const BasisPoints uint64 = 10000

var (
	ErrOverflow       = errors.New("arithmetic overflow")
	ErrUnderflow      = errors.New("arithmetic underflow")
	ErrDivisionByZero = errors.New("division by zero")
)

// Add returns a+b or ErrOverflow.
func Add(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, ErrOverflow
	}
	return sum, nil
}

// Sub returns a-b or ErrUnderflow.
func Sub(a, b uint64) (uint64, error) {
	diff, borrow := bits.Sub64(a, b, 0)
	if borrow != 0 {
		return 0, ErrUnderflow
	}
	return diff, nil
}

// Mul returns a*b or ErrOverflow.
func Mul(a, b uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, ErrOverflow
	}
	return lo, nil
}

// MulDiv returns floor(a*b/d).
func MulDiv(a, b, d uint64) (uint64, error) {
	if d == 0 {
		return 0, ErrDivisionByZero
	}
	product := new(uint256.Int).Mul(Wide(a), Wide(b))
	return Narrow(product.Div(product, Wide(d)))
}

// ApplyBps returns floor(amount*bps/10000).
func ApplyBps(amount, bps uint64) (uint64, error) {
	return MulDiv(amount, bps, BasisPoints)
}

// Wide lifts x into a 256-bit intermediate.
func Wide(x uint64) *uint256.Int {
	return uint256.NewInt(x)
}

// Narrow converts a 256-bit intermediate back to 64 bits.
func Narrow(x *uint256.Int) (uint64, error) {
	if !x.IsUint64() {
		return 0, ErrOverflow
	}
	return x.Uint64(), nil
}

// SqrtProduct returns floor(sqrt(a*b)). The result always fits in 64 bits.
func SqrtProduct(a, b uint64) uint64 {
	product := new(uint256.Int).Mul(Wide(a), Wide(b))
	return product.Sqrt(product).Uint64()
}

// Min returns the smaller of a and b.
func Min(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}

// SaturatingAdd returns a+b clamped to math.MaxUint64.
func SaturatingAdd(a, b uint64) uint64 {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return math.MaxUint64
	}
	return sum
}

// SaturatingAddInt64 returns a+b clamped to the int64 range.
func SaturatingAddInt64(a, b int64) int64 {
	sum := a + b
	switch {
	case a > 0 && b > 0 && sum < 0:
		return math.MaxInt64
	case a < 0 && b < 0 && sum >= 0:
		return math.MinInt64
	}
	return sum
}

// SaturatingSubInt64 returns a-b clamped to the int64 range.
func SaturatingSubInt64(a, b int64) int64 {
	diff := a - b
	switch {
	case b < 0 && a >= 0 && diff < 0:
		return math.MaxInt64
	case b > 0 && a < 0 && diff >= 0:
		return math.MinInt64
	}
	return diff
}

// ClampInt64 converts u to int64, clamping at math.MaxInt64.
func ClampInt64(u uint64) int64 {
	if u > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(u)
}
