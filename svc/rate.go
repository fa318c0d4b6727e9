package svc

import (
	"errors"
	"sync"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
)

// RateCalculator prices an LST against a mutable lamports-per-token exchange
// rate held as a numerator/denominator pair, the shape a stake pool's rate
// takes (total lamports over token supply). Floor and ceil division give the
// Min/Max bounds.
//
// SetRate models the external rate moving between syncs, e.g. stake rewards
// accruing to the underlying pool.
type RateCalculator struct {
	program solana.PublicKey

	mu  sync.RWMutex
	num decimal.Decimal
	den decimal.Decimal
}

func NewRateCalculator(program solana.PublicKey, lamports, tokenSupply uint64) (*RateCalculator, error) {
	if lamports == 0 || tokenSupply == 0 {
		return nil, errors.New("svc: exchange rate terms must be non-zero")
	}
	return &RateCalculator{
		program: program,
		num:     decimal.NewFromUint64(lamports),
		den:     decimal.NewFromUint64(tokenSupply),
	}, nil
}

func (c *RateCalculator) Program() solana.PublicKey {
	return c.program
}

// SetRate replaces the exchange rate terms.
func (c *RateCalculator) SetRate(lamports, tokenSupply uint64) error {
	if lamports == 0 || tokenSupply == 0 {
		return errors.New("svc: exchange rate terms must be non-zero")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.num = decimal.NewFromUint64(lamports)
	c.den = decimal.NewFromUint64(tokenSupply)
	return nil
}

func (c *RateCalculator) LstToSol(amount uint64) (Range, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return convert(amount, c.num, c.den)
}

func (c *RateCalculator) SolToLst(solValue uint64) (Range, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return convert(solValue, c.den, c.num)
}

// convert returns {floor, ceil} of amount*num/den, rejecting results that do
// not fit in a u64. QuoRem keeps the quotient exact; Div rounds at its
// configured precision and can carry a near-integer quotient up past the
// floor.
func convert(amount uint64, num, den decimal.Decimal) (Range, error) {
	if den.IsZero() {
		return Range{}, errors.New("svc: zero rate denominator")
	}
	scaled := decimal.NewFromUint64(amount).Mul(num)
	div, mod := scaled.QuoRem(den, 0)

	lo := div
	hi := div
	if !mod.IsZero() {
		hi = div.Add(decimal.NewFromInt(1))
	}
	loU, ok := toUint64(lo)
	if !ok {
		return Range{}, errors.New("svc: converted value exceeds u64")
	}
	hiU, ok := toUint64(hi)
	if !ok {
		return Range{}, errors.New("svc: converted value exceeds u64")
	}
	return Range{Min: loU, Max: hiU}, nil
}

func toUint64(d decimal.Decimal) (uint64, bool) {
	if d.Sign() < 0 {
		return 0, false
	}
	bi := d.BigInt()
	if !bi.IsUint64() {
		return 0, false
	}
	return bi.Uint64(), true
}
