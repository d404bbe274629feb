package amm

import (
	"errors"

	"github.com/LeJamon/goDoomsday/internal/core/fixedpoint"
	"github.com/holiman/uint256"
)

// Pool constants
const (
	// SwapFeeBps is the swap fee in basis points (0.3%)
	SwapFeeBps uint64 = 30

	// MinimumLiquidity is the LP amount the first deposit must exceed
	MinimumLiquidity uint64 = 1000

	feeNumerator = fixedpoint.BasisPoints - SwapFeeBps
)

var (
	ErrEmptyPool                    = errors.New("pool is empty")
	ErrInsufficientInitialLiquidity = errors.New("initial liquidity too small")
	ErrInsufficientLiquidity        = errors.New("output exceeds reserve")
)

// InitialLiquidity returns isqrt(a*b) for the first deposit. The result must
// be strictly greater than MinimumLiquidity.
func InitialLiquidity(doom, life uint64) (uint64, error) {
	minted := fixedpoint.SqrtProduct(doom, life)
	if minted <= MinimumLiquidity {
		return 0, ErrInsufficientInitialLiquidity
	}
	return minted, nil
}

// ProportionalLiquidity returns min(a*S/rA, b*S/rB) for later deposits.
func ProportionalLiquidity(doom, life, doomReserve, lifeReserve, supply uint64) (uint64, error) {
	if doomReserve == 0 || lifeReserve == 0 {
		return 0, ErrEmptyPool
	}
	fromDoom, err := fixedpoint.MulDiv(doom, supply, doomReserve)
	if err != nil {
		return 0, err
	}
	fromLife, err := fixedpoint.MulDiv(life, supply, lifeReserve)
	if err != nil {
		return 0, err
	}
	return fixedpoint.Min(fromDoom, fromLife), nil
}

// WithdrawAmounts returns floor(lp*r/S) for each side.
func WithdrawAmounts(lp, doomReserve, lifeReserve, supply uint64) (doom, life uint64, err error) {
	if supply == 0 {
		return 0, 0, ErrEmptyPool
	}
	if doom, err = fixedpoint.MulDiv(lp, doomReserve, supply); err != nil {
		return 0, 0, err
	}
	if life, err = fixedpoint.MulDiv(lp, lifeReserve, supply); err != nil {
		return 0, 0, err
	}
	return doom, life, nil
}

// AmountOut prices a swap on the constant-product curve with the fee taken
// from the input:
//
//	out = floor(in*9970*rOut / (rIn*10000 + in*9970))
func AmountOut(amountIn, reserveIn, reserveOut uint64) (uint64, error) {
	if reserveIn == 0 || reserveOut == 0 {
		return 0, ErrEmptyPool
	}
	inWithFee := new(uint256.Int).Mul(fixedpoint.Wide(amountIn), fixedpoint.Wide(feeNumerator))
	numerator := new(uint256.Int).Mul(inWithFee, fixedpoint.Wide(reserveOut))
	denominator := new(uint256.Int).Mul(fixedpoint.Wide(reserveIn), fixedpoint.Wide(fixedpoint.BasisPoints))
	denominator.Add(denominator, inWithFee)
	return fixedpoint.Narrow(numerator.Div(numerator, denominator))
}

// SwapFee is the fee accounted on the input side: floor(in*30/10000).
func SwapFee(amountIn uint64) uint64 {
	fee, _ := fixedpoint.ApplyBps(amountIn, SwapFeeBps)
	return fee
}
