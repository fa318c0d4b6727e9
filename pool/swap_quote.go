package pool

import (
	"fmt"

	"github.com/spoolfi/spool-go/pool/poolmath"
	"github.com/spoolfi/spool-go/pricing"
)

// SwapQuote is the resolved pricing of one swap, before any balance moves.
type SwapQuote struct {
	InAmount  uint64 // source LST paid by the trader
	OutAmount uint64 // destination LST received by the trader

	InSolValue  uint64 // value of InAmount, conservative bound
	OutSolValue uint64 // value the pricing program quoted for the trader

	// ProtocolFeeLst is the protocol's cut of the spread, in destination LST
	// units, sent to the destination fee accumulator.
	ProtocolFeeLst uint64
}

// QuoteExactIn prices a fixed-input swap against current entry state. It does
// not sync; SwapExactIn syncs both entries first.
func (p *Pool) QuoteExactIn(srcIndex, dstIndex int, amount uint64) (*SwapQuote, error) {
	src, dst, err := p.swapPair(srcIndex, dstIndex)
	if err != nil {
		return nil, err
	}
	if amount == 0 {
		return nil, fmt.Errorf("%w: zero input amount", ErrZeroValue)
	}

	inRange, err := p.lstToSol(src, amount)
	if err != nil {
		return nil, err
	}
	inSol := inRange.Min
	if inSol == 0 {
		return nil, fmt.Errorf("%w: input of %d %s", ErrZeroValue, amount, src.Mint)
	}

	pr, err := p.resolvePricing()
	if err != nil {
		return nil, err
	}
	outSol, err := pr.PriceExactIn(pricing.SwapArgs{
		InputLstMint:  src.Mint,
		OutputLstMint: dst.Mint,
		Amount:        amount,
		SolValue:      inSol,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: price_exact_in: %v", ErrFaultyPricingProgram, err)
	}
	// Never trust a quote that hands out more value than came in.
	if outSol > inSol {
		return nil, fmt.Errorf("%w: pricing quoted %d out for %d in", ErrPoolWouldLoseSolValue, outSol, inSol)
	}
	if outSol == 0 {
		return nil, fmt.Errorf("%w: priced output", ErrZeroValue)
	}

	outRange, err := p.solToLst(dst, outSol)
	if err != nil {
		return nil, err
	}
	if outRange.Min == 0 {
		return nil, fmt.Errorf("%w: output of %s", ErrZeroValue, dst.Mint)
	}

	feeLst, err := p.protocolFeeLst(dst, inSol-outSol)
	if err != nil {
		return nil, err
	}

	return &SwapQuote{
		InAmount:       amount,
		OutAmount:      outRange.Min,
		InSolValue:     inSol,
		OutSolValue:    outSol,
		ProtocolFeeLst: feeLst,
	}, nil
}

// QuoteExactOut prices a fixed-output swap: the destination amount is fixed
// and the required source amount is derived, with the conservative bound
// flipped to the source side.
func (p *Pool) QuoteExactOut(srcIndex, dstIndex int, amount uint64) (*SwapQuote, error) {
	src, dst, err := p.swapPair(srcIndex, dstIndex)
	if err != nil {
		return nil, err
	}
	if amount == 0 {
		return nil, fmt.Errorf("%w: zero output amount", ErrZeroValue)
	}

	outRange, err := p.lstToSol(dst, amount)
	if err != nil {
		return nil, err
	}
	outSol := outRange.Max
	if outSol == 0 {
		return nil, fmt.Errorf("%w: output of %d %s", ErrZeroValue, amount, dst.Mint)
	}

	pr, err := p.resolvePricing()
	if err != nil {
		return nil, err
	}
	inSol, err := pr.PriceExactOut(pricing.SwapArgs{
		InputLstMint:  src.Mint,
		OutputLstMint: dst.Mint,
		Amount:        amount,
		SolValue:      outSol,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: price_exact_out: %v", ErrFaultyPricingProgram, err)
	}
	if outSol > inSol {
		return nil, fmt.Errorf("%w: pricing quoted %d in for %d out", ErrPoolWouldLoseSolValue, inSol, outSol)
	}

	inRange, err := p.solToLst(src, inSol)
	if err != nil {
		return nil, err
	}
	// Charge the high bound on the way in.
	if inRange.Max == 0 {
		return nil, fmt.Errorf("%w: input of %s", ErrZeroValue, src.Mint)
	}

	feeLst, err := p.protocolFeeLst(dst, inSol-outSol)
	if err != nil {
		return nil, err
	}

	return &SwapQuote{
		InAmount:       inRange.Max,
		OutAmount:      amount,
		InSolValue:     inSol,
		OutSolValue:    outSol,
		ProtocolFeeLst: feeLst,
	}, nil
}

// protocolFeeLst converts the protocol's bps cut of the pricing spread into
// destination LST units. The cut applies to the spread the pricing program
// already decided to charge, not to the gross notional.
func (p *Pool) protocolFeeLst(dst *LstEntry, spreadSol uint64) (uint64, error) {
	feeSol, err := poolmath.BpsOfFloor(spreadSol, p.state.TradingFeeBps)
	if err != nil {
		return 0, fmt.Errorf("%w: protocol fee: %v", ErrMath, err)
	}
	if feeSol == 0 {
		return 0, nil
	}
	r, err := p.solToLst(dst, feeSol)
	if err != nil {
		return 0, err
	}
	return r.Min, nil
}

func (p *Pool) swapPair(srcIndex, dstIndex int) (*LstEntry, *LstEntry, error) {
	if srcIndex == dstIndex {
		return nil, nil, fmt.Errorf("%w: index %d", ErrSwapSameLst, srcIndex)
	}
	src, err := p.entryAt(srcIndex)
	if err != nil {
		return nil, nil, err
	}
	dst, err := p.entryAt(dstIndex)
	if err != nil {
		return nil, nil, err
	}
	if src.InputDisabled {
		return nil, nil, fmt.Errorf("%w: %s", ErrLstInputDisabled, src.Mint)
	}
	return src, dst, nil
}
