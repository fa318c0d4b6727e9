package pool

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/spoolfi/spool-go/pool/poolmath"
)

// AddLiquidityArgs drives AddLiquidity.
type AddLiquidityArgs struct {
	LstIndex int
	Amount   uint64
	MinLpOut uint64 // floor on pool share tokens minted

	SourceAccount solana.PublicKey // trader's LST account
	LpDestination solana.PublicKey // trader's pool share account
}

// RemoveLiquidityArgs drives RemoveLiquidity.
type RemoveLiquidityArgs struct {
	LstIndex     int
	LpAmount     uint64
	MinAmountOut uint64 // floor on LST paid out

	LpSource           solana.PublicKey // trader's pool share account
	DestinationAccount solana.PublicKey // trader's LST account
}

// requireLpAccount verifies that acct holds the pool share mint. Bank mint
// and burn are mint-agnostic, so without this check a caller could mint LST
// supply or redeem against shares that were never burned.
func (p *Pool) requireLpAccount(acct solana.PublicKey) error {
	mint, err := p.bank.Mint(acct)
	if err != nil {
		return fmt.Errorf("read lp account: %w", err)
	}
	if !mint.Equals(p.state.LpMint) {
		return fmt.Errorf("%w: %s holds %s", ErrNotLpAccount, acct, mint)
	}
	return nil
}

// AddLiquidity deposits one LST and mints pool share tokens against the
// pool's total sol value. The first deposit mints 1:1 with sol value.
func (p *Pool) AddLiquidity(args AddLiquidityArgs) (*AddLiquidityQuote, error) {
	if err := p.tradeReady(); err != nil {
		return nil, err
	}
	if err := p.SyncSolValue(args.LstIndex); err != nil {
		return nil, err
	}

	quote, err := p.QuoteAddLiquidity(args.LstIndex, args.Amount)
	if err != nil {
		return nil, err
	}
	if quote.LpTokensToMint < args.MinLpOut {
		return nil, fmt.Errorf("%w: minting %d lp below min %d", ErrSlippageToleranceExceeded, quote.LpTokensToMint, args.MinLpOut)
	}
	if err := p.requireLpAccount(args.LpDestination); err != nil {
		return nil, err
	}

	e := &p.entries[args.LstIndex]
	totalBefore := p.state.TotalSolValue

	if err := p.bank.Transfer(args.SourceAccount, e.Reserves, quote.LstAmount); err != nil {
		return nil, fmt.Errorf("transfer deposit: %w", err)
	}
	if err := p.bank.MintTo(args.LpDestination, quote.LpTokensToMint); err != nil {
		return nil, fmt.Errorf("mint lp: %w", err)
	}

	if err := p.syncEntry(e); err != nil {
		return nil, err
	}

	floor, err := poolmath.Add(totalBefore, quote.DepositSolValue)
	if err != nil {
		return nil, fmt.Errorf("%w: total floor: %v", ErrMath, err)
	}
	if p.state.TotalSolValue < floor {
		return nil, fmt.Errorf("%w: total %d after deposit, floor %d", ErrPoolWouldLoseSolValue, p.state.TotalSolValue, floor)
	}
	return quote, nil
}

// RemoveLiquidity burns pool share tokens and pays out one LST, routing the
// protocol's cut of the withdrawal spread to the fee accumulator.
func (p *Pool) RemoveLiquidity(args RemoveLiquidityArgs) (*RemoveLiquidityQuote, error) {
	if err := p.tradeReady(); err != nil {
		return nil, err
	}
	if err := p.SyncSolValue(args.LstIndex); err != nil {
		return nil, err
	}

	quote, err := p.QuoteRemoveLiquidity(args.LstIndex, args.LpAmount)
	if err != nil {
		return nil, err
	}
	if quote.LstOut < args.MinAmountOut {
		return nil, fmt.Errorf("%w: out %d below min %d", ErrSlippageToleranceExceeded, quote.LstOut, args.MinAmountOut)
	}
	if err := p.requireLpAccount(args.LpSource); err != nil {
		return nil, err
	}

	e := &p.entries[args.LstIndex]

	needed, err := poolmath.Add(quote.LstOut, quote.ProtocolFeeLst)
	if err != nil {
		return nil, fmt.Errorf("%w: out plus fee: %v", ErrMath, err)
	}
	reserves, err := p.bank.Balance(e.Reserves)
	if err != nil {
		return nil, fmt.Errorf("read reserves for %s: %w", e.Mint, err)
	}
	if needed > reserves {
		return nil, fmt.Errorf("%w: need %d %s, reserves hold %d", ErrNotEnoughLiquidity, needed, e.Mint, reserves)
	}

	totalBefore := p.state.TotalSolValue

	if err := p.bank.Burn(args.LpSource, quote.LpTokensToBurn); err != nil {
		return nil, fmt.Errorf("burn lp: %w", err)
	}
	if err := p.bank.Transfer(e.Reserves, args.DestinationAccount, quote.LstOut); err != nil {
		return nil, fmt.Errorf("transfer out: %w", err)
	}
	if quote.ProtocolFeeLst > 0 {
		if err := p.bank.Transfer(e.Reserves, e.FeeAccumulator, quote.ProtocolFeeLst); err != nil {
			return nil, fmt.Errorf("transfer protocol fee: %w", err)
		}
	}

	if err := p.syncEntry(e); err != nil {
		return nil, err
	}

	// The pool may give up at most the redeemed value.
	floor, err := poolmath.Sub(totalBefore, quote.RedeemSolValue)
	if err != nil {
		return nil, fmt.Errorf("%w: total floor: %v", ErrMath, err)
	}
	if p.state.TotalSolValue < floor {
		return nil, fmt.Errorf("%w: total %d after redemption, floor %d", ErrPoolWouldLoseSolValue, p.state.TotalSolValue, floor)
	}
	return quote, nil
}
