package poolmath

import (
	"errors"
	"math"
	"testing"
)

func TestAddOverflow(t *testing.T) {
	if got, err := Add(1, 2); err != nil || got != 3 {
		t.Fatalf("Add(1,2) = %d, %v", got, err)
	}
	if _, err := Add(math.MaxUint64, 1); !errors.Is(err, ErrOverflow) {
		t.Fatalf("expected overflow, got %v", err)
	}
}

func TestSubUnderflow(t *testing.T) {
	if got, err := Sub(5, 3); err != nil || got != 2 {
		t.Fatalf("Sub(5,3) = %d, %v", got, err)
	}
	if _, err := Sub(3, 5); !errors.Is(err, ErrUnderflow) {
		t.Fatalf("expected underflow, got %v", err)
	}
}

func TestMulDiv(t *testing.T) {
	cases := []struct {
		name       string
		a, b, d    uint64
		floor, cl  uint64
		wantErr    error
		wantErrsUp error
	}{
		{name: "exact", a: 10, b: 4, d: 2, floor: 20, cl: 20},
		{name: "rounds", a: 7, b: 3, d: 2, floor: 10, cl: 11},
		{name: "wide product", a: math.MaxUint64, b: 2, d: 4, floor: math.MaxUint64 / 2, cl: math.MaxUint64/2 + 1},
		{name: "div by zero", a: 1, b: 1, d: 0, wantErr: ErrDivByZero, wantErrsUp: ErrDivByZero},
		{name: "overflow result", a: math.MaxUint64, b: 2, d: 1, wantErr: ErrOverflow, wantErrsUp: ErrOverflow},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := MulDivFloor(tc.a, tc.b, tc.d)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("floor err = %v, want %v", err, tc.wantErr)
			}
			if err == nil && got != tc.floor {
				t.Fatalf("floor = %d, want %d", got, tc.floor)
			}

			got, err = MulDivCeil(tc.a, tc.b, tc.d)
			if !errors.Is(err, tc.wantErrsUp) {
				t.Fatalf("ceil err = %v, want %v", err, tc.wantErrsUp)
			}
			if err == nil && got != tc.cl {
				t.Fatalf("ceil = %d, want %d", got, tc.cl)
			}
		})
	}
}
