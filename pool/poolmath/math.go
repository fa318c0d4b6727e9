package poolmath

import (
	"errors"

	sdkmath "cosmossdk.io/math"
)

var (
	ErrOverflow  = errors.New("poolmath: u64 overflow")
	ErrDivByZero = errors.New("poolmath: division by zero")
	ErrUnderflow = errors.New("poolmath: subtraction underflow")
)

// Add returns a+b, failing instead of wrapping around.
func Add(a, b uint64) (uint64, error) {
	s := a + b
	if s < a {
		return 0, ErrOverflow
	}
	return s, nil
}

// Sub returns a-b, failing if b > a.
func Sub(a, b uint64) (uint64, error) {
	if b > a {
		return 0, ErrUnderflow
	}
	return a - b, nil
}

// MulDivFloor returns floor(a*b/d) with the product widened past 64 bits.
func MulDivFloor(a, b, d uint64) (uint64, error) {
	if d == 0 {
		return 0, ErrDivByZero
	}
	q := sdkmath.NewIntFromUint64(a).
		Mul(sdkmath.NewIntFromUint64(b)).
		Quo(sdkmath.NewIntFromUint64(d))
	if !q.IsUint64() {
		return 0, ErrOverflow
	}
	return q.Uint64(), nil
}

// MulDivCeil returns ceil(a*b/d) with the product widened past 64 bits.
func MulDivCeil(a, b, d uint64) (uint64, error) {
	if d == 0 {
		return 0, ErrDivByZero
	}
	num := sdkmath.NewIntFromUint64(a).Mul(sdkmath.NewIntFromUint64(b))
	den := sdkmath.NewIntFromUint64(d)
	q := num.Quo(den)
	if !num.Mod(den).IsZero() {
		q = q.Add(sdkmath.OneInt())
	}
	if !q.IsUint64() {
		return 0, ErrOverflow
	}
	return q.Uint64(), nil
}
