package pricing

import (
	"errors"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
)

const maxBasisPoints = 10_000

// FlatFeePricing charges a flat bps spread on swaps and a separate flat bps
// fee on LP redemptions. Deposits are quoted at par.
type FlatFeePricing struct {
	program         solana.PublicKey
	swapFeeBps      uint16
	lpWithdrawalBps uint16
}

func NewFlatFeePricing(program solana.PublicKey, swapFeeBps, lpWithdrawalBps uint16) (*FlatFeePricing, error) {
	if swapFeeBps > maxBasisPoints || lpWithdrawalBps > maxBasisPoints {
		return nil, errors.New("pricing: fee above 10000 bps")
	}
	return &FlatFeePricing{
		program:         program,
		swapFeeBps:      swapFeeBps,
		lpWithdrawalBps: lpWithdrawalBps,
	}, nil
}

func (p *FlatFeePricing) Program() solana.PublicKey {
	return p.program
}

func (p *FlatFeePricing) PriceExactIn(args SwapArgs) (uint64, error) {
	return afterFeeFloor(args.SolValue, p.swapFeeBps)
}

func (p *FlatFeePricing) PriceExactOut(args SwapArgs) (uint64, error) {
	return beforeFeeCeil(args.SolValue, p.swapFeeBps)
}

func (p *FlatFeePricing) PriceLpTokensToMint(args LpArgs) (uint64, error) {
	return args.SolValue, nil
}

func (p *FlatFeePricing) PriceLpTokensToRedeem(args LpArgs) (uint64, error) {
	return afterFeeFloor(args.SolValue, p.lpWithdrawalBps)
}

// afterFeeFloor returns floor(solValue * (10000-bps) / 10000).
func afterFeeFloor(solValue uint64, bps uint16) (uint64, error) {
	out := decimal.NewFromUint64(solValue).
		Mul(decimal.NewFromInt(int64(maxBasisPoints - bps))).
		Div(decimal.NewFromInt(maxBasisPoints)).
		Floor()
	v, ok := decimalToUint64(out)
	if !ok {
		return 0, errors.New("pricing: quote exceeds u64")
	}
	return v, nil
}

// beforeFeeCeil returns ceil(solValue * 10000 / (10000-bps)), the gross value
// a trader must pay so that the net after spread still covers solValue.
func beforeFeeCeil(solValue uint64, bps uint16) (uint64, error) {
	if bps >= maxBasisPoints {
		return 0, errors.New("pricing: spread consumes entire input")
	}
	in := decimal.NewFromUint64(solValue).
		Mul(decimal.NewFromInt(maxBasisPoints)).
		Div(decimal.NewFromInt(int64(maxBasisPoints - bps))).
		Ceil()
	v, ok := decimalToUint64(in)
	if !ok {
		return 0, errors.New("pricing: quote exceeds u64")
	}
	return v, nil
}

func decimalToUint64(d decimal.Decimal) (uint64, bool) {
	if d.Sign() < 0 {
		return 0, false
	}
	bi := d.BigInt()
	if !bi.IsUint64() {
		return 0, false
	}
	return bi.Uint64(), true
}
