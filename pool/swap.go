package pool

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/spoolfi/spool-go/pool/poolmath"
)

// SwapArgs drives SwapExactIn and SwapExactOut. Amount is the fixed leg:
// source amount for exact-in, destination amount for exact-out. The unused
// slippage bound is ignored (MaxAmountIn for exact-in, MinAmountOut for
// exact-out).
type SwapArgs struct {
	SrcLstIndex int
	DstLstIndex int
	Amount      uint64

	MinAmountOut uint64 // exact-in: floor on destination LST received
	MaxAmountIn  uint64 // exact-out: cap on source LST paid

	// Trader token accounts.
	SourceAccount      solana.PublicKey
	DestinationAccount solana.PublicKey
}

// SwapExactIn swaps a fixed source amount for as much destination LST as the
// plugins price it at, extracting the protocol's cut of the spread into the
// destination fee accumulator.
func (p *Pool) SwapExactIn(args SwapArgs) (*SwapQuote, error) {
	if err := p.tradeReady(); err != nil {
		return nil, err
	}
	if err := p.syncSwapPair(args.SrcLstIndex, args.DstLstIndex); err != nil {
		return nil, err
	}

	quote, err := p.QuoteExactIn(args.SrcLstIndex, args.DstLstIndex, args.Amount)
	if err != nil {
		return nil, err
	}
	if quote.OutAmount < args.MinAmountOut {
		return nil, fmt.Errorf("%w: out %d below min %d", ErrSlippageToleranceExceeded, quote.OutAmount, args.MinAmountOut)
	}

	return quote, p.settleSwap(args, quote)
}

// SwapExactOut swaps as little source LST as the plugins allow for a fixed
// destination amount.
func (p *Pool) SwapExactOut(args SwapArgs) (*SwapQuote, error) {
	if err := p.tradeReady(); err != nil {
		return nil, err
	}
	if err := p.syncSwapPair(args.SrcLstIndex, args.DstLstIndex); err != nil {
		return nil, err
	}

	quote, err := p.QuoteExactOut(args.SrcLstIndex, args.DstLstIndex, args.Amount)
	if err != nil {
		return nil, err
	}
	if args.MaxAmountIn > 0 && quote.InAmount > args.MaxAmountIn {
		return nil, fmt.Errorf("%w: in %d above max %d", ErrSlippageToleranceExceeded, quote.InAmount, args.MaxAmountIn)
	}

	return quote, p.settleSwap(args, quote)
}

func (p *Pool) syncSwapPair(srcIndex, dstIndex int) error {
	if srcIndex == dstIndex {
		return fmt.Errorf("%w: index %d", ErrSwapSameLst, srcIndex)
	}
	if err := p.SyncSolValue(srcIndex); err != nil {
		return err
	}
	return p.SyncSolValue(dstIndex)
}

// settleSwap moves the three balances and re-checks the value floor. The
// caller's transaction snapshot unwinds the transfers if anything fails
// after they begin.
func (p *Pool) settleSwap(args SwapArgs, quote *SwapQuote) error {
	src := &p.entries[args.SrcLstIndex]
	dst := &p.entries[args.DstLstIndex]

	needed, err := poolmath.Add(quote.OutAmount, quote.ProtocolFeeLst)
	if err != nil {
		return fmt.Errorf("%w: out plus fee: %v", ErrMath, err)
	}
	dstReserves, err := p.bank.Balance(dst.Reserves)
	if err != nil {
		return fmt.Errorf("read reserves for %s: %w", dst.Mint, err)
	}
	if needed > dstReserves {
		return fmt.Errorf("%w: need %d %s, reserves hold %d", ErrNotEnoughLiquidity, needed, dst.Mint, dstReserves)
	}

	totalBefore := p.state.TotalSolValue

	if err := p.bank.Transfer(args.SourceAccount, src.Reserves, quote.InAmount); err != nil {
		return fmt.Errorf("transfer in: %w", err)
	}
	if err := p.bank.Transfer(dst.Reserves, args.DestinationAccount, quote.OutAmount); err != nil {
		return fmt.Errorf("transfer out: %w", err)
	}
	if quote.ProtocolFeeLst > 0 {
		if err := p.bank.Transfer(dst.Reserves, dst.FeeAccumulator, quote.ProtocolFeeLst); err != nil {
			return fmt.Errorf("transfer protocol fee: %w", err)
		}
	}

	if err := p.syncEntry(src); err != nil {
		return err
	}
	if err := p.syncEntry(dst); err != nil {
		return err
	}

	// Catches calculator/pricing rounding inconsistency the per-step checks
	// could not see.
	if p.state.TotalSolValue < totalBefore {
		return fmt.Errorf("%w: total %d after swap, %d before", ErrPoolWouldLoseSolValue, p.state.TotalSolValue, totalBefore)
	}
	return nil
}
