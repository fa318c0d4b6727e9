package poolmath

import "errors"

// MaxBasisPoints is the denominator for all bps-expressed fees.
const MaxBasisPoints = 10_000

var ErrInvalidBps = errors.New("poolmath: bps above 10000")

// BpsOfFloor returns floor(amount * bps / 10000).
func BpsOfFloor(amount uint64, bps uint16) (uint64, error) {
	if bps > MaxBasisPoints {
		return 0, ErrInvalidBps
	}
	return MulDivFloor(amount, uint64(bps), MaxBasisPoints)
}

// BpsOfCeil returns ceil(amount * bps / 10000).
func BpsOfCeil(amount uint64, bps uint16) (uint64, error) {
	if bps > MaxBasisPoints {
		return 0, ErrInvalidBps
	}
	return MulDivCeil(amount, uint64(bps), MaxBasisPoints)
}

// AfterBpsFloor returns amount minus a ceil-rounded bps cut. Rounding the cut
// up keeps the remainder conservative for the pool.
func AfterBpsFloor(amount uint64, bps uint16) (uint64, error) {
	cut, err := BpsOfCeil(amount, bps)
	if err != nil {
		return 0, err
	}
	return Sub(amount, cut)
}

// SharesToMint converts a deposit's sol value into pool share tokens,
// proportional to the share of total value it represents. The first deposit
// mints 1:1 with sol value.
func SharesToMint(depositSolValue, totalSolValue, shareSupply uint64) (uint64, error) {
	if shareSupply == 0 || totalSolValue == 0 {
		return depositSolValue, nil
	}
	return MulDivFloor(depositSolValue, shareSupply, totalSolValue)
}

// SharesToValue converts pool share tokens back into the sol value they
// currently redeem for, rounding down in the pool's favor.
func SharesToValue(shares, shareSupply, totalSolValue uint64) (uint64, error) {
	if shareSupply == 0 {
		return 0, ErrDivByZero
	}
	return MulDivFloor(shares, totalSolValue, shareSupply)
}
