package pool

import (
	"fmt"

	"github.com/spoolfi/spool-go/pool/poolmath"
	"github.com/spoolfi/spool-go/pricing"
)

// AddLiquidityQuote resolves how many pool share tokens a deposit mints.
type AddLiquidityQuote struct {
	LstAmount       uint64 // LST paid in
	DepositSolValue uint64 // its conservative sol value
	LpTokensToMint  uint64
}

// RemoveLiquidityQuote resolves what a pool share redemption pays out.
type RemoveLiquidityQuote struct {
	LpTokensToBurn uint64
	RedeemSolValue uint64 // pre-fee value of the burned shares
	OutSolValue    uint64 // post-fee value quoted by the pricing program
	LstOut         uint64 // destination LST paid to the caller

	// ProtocolFeeLst is the protocol's liquidityFeeBps cut of the pricing
	// program's withdrawal spread, in LST units. The rest of the spread
	// stays in the pool.
	ProtocolFeeLst uint64
}

// QuoteAddLiquidity prices a deposit against current entry state. It does not
// sync; AddLiquidity syncs first.
func (p *Pool) QuoteAddLiquidity(index int, amount uint64) (*AddLiquidityQuote, error) {
	e, err := p.entryAt(index)
	if err != nil {
		return nil, err
	}
	if e.InputDisabled {
		return nil, fmt.Errorf("%w: %s", ErrLstInputDisabled, e.Mint)
	}
	if amount == 0 {
		return nil, fmt.Errorf("%w: zero deposit", ErrZeroValue)
	}

	r, err := p.lstToSol(e, amount)
	if err != nil {
		return nil, err
	}
	depositSol := r.Min
	if depositSol == 0 {
		return nil, fmt.Errorf("%w: deposit of %d %s", ErrZeroValue, amount, e.Mint)
	}

	pr, err := p.resolvePricing()
	if err != nil {
		return nil, err
	}
	lpSol, err := pr.PriceLpTokensToMint(pricing.LpArgs{
		LstMint:  e.Mint,
		Amount:   amount,
		SolValue: depositSol,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: price_lp_tokens_to_mint: %v", ErrFaultyPricingProgram, err)
	}
	if lpSol > depositSol {
		return nil, fmt.Errorf("%w: pricing quoted %d lp value for %d deposited", ErrPoolWouldLoseSolValue, lpSol, depositSol)
	}
	if lpSol == 0 {
		return nil, fmt.Errorf("%w: priced lp value", ErrZeroValue)
	}

	supply, err := p.LpSupply()
	if err != nil {
		return nil, fmt.Errorf("read lp supply: %w", err)
	}
	toMint, err := poolmath.SharesToMint(lpSol, p.state.TotalSolValue, supply)
	if err != nil {
		return nil, fmt.Errorf("%w: shares to mint: %v", ErrMath, err)
	}
	if toMint == 0 {
		return nil, fmt.Errorf("%w: lp tokens to mint", ErrZeroValue)
	}

	return &AddLiquidityQuote{
		LstAmount:       amount,
		DepositSolValue: depositSol,
		LpTokensToMint:  toMint,
	}, nil
}

// QuoteRemoveLiquidity prices a redemption against current entry state.
func (p *Pool) QuoteRemoveLiquidity(index int, lpAmount uint64) (*RemoveLiquidityQuote, error) {
	e, err := p.entryAt(index)
	if err != nil {
		return nil, err
	}
	if lpAmount == 0 {
		return nil, fmt.Errorf("%w: zero lp amount", ErrZeroValue)
	}

	supply, err := p.LpSupply()
	if err != nil {
		return nil, fmt.Errorf("read lp supply: %w", err)
	}
	redeemSol, err := poolmath.SharesToValue(lpAmount, supply, p.state.TotalSolValue)
	if err != nil {
		return nil, fmt.Errorf("%w: shares to value: %v", ErrMath, err)
	}
	if redeemSol == 0 {
		return nil, fmt.Errorf("%w: redemption of %d lp", ErrZeroValue, lpAmount)
	}

	pr, err := p.resolvePricing()
	if err != nil {
		return nil, err
	}
	outSol, err := pr.PriceLpTokensToRedeem(pricing.LpArgs{
		LstMint:  e.Mint,
		Amount:   lpAmount,
		SolValue: redeemSol,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: price_lp_tokens_to_redeem: %v", ErrFaultyPricingProgram, err)
	}
	if outSol > redeemSol {
		return nil, fmt.Errorf("%w: pricing quoted %d out for %d redeemed", ErrPoolWouldLoseSolValue, outSol, redeemSol)
	}
	if outSol == 0 {
		return nil, fmt.Errorf("%w: priced redemption", ErrZeroValue)
	}

	outRange, err := p.solToLst(e, outSol)
	if err != nil {
		return nil, err
	}
	if outRange.Min == 0 {
		return nil, fmt.Errorf("%w: output of %s", ErrZeroValue, e.Mint)
	}

	// Protocol cut: liquidityFeeBps of the withdrawal spread, in LST units.
	feeSol, err := poolmath.BpsOfFloor(redeemSol-outSol, p.state.LiquidityFeeBps)
	if err != nil {
		return nil, fmt.Errorf("%w: protocol fee: %v", ErrMath, err)
	}
	var feeLst uint64
	if feeSol > 0 {
		fr, err := p.solToLst(e, feeSol)
		if err != nil {
			return nil, err
		}
		feeLst = fr.Min
	}

	return &RemoveLiquidityQuote{
		LpTokensToBurn: lpAmount,
		RedeemSolValue: redeemSol,
		OutSolValue:    outSol,
		LstOut:         outRange.Min,
		ProtocolFeeLst: feeLst,
	}, nil
}
