package pool

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/spoolfi/spool-go/pool/poolmath"
)

// Administrative surface. Each call is gated on an actor identity; config
// mutations are idempotent and never run while a rebalance is open.

func (p *Pool) requireAdmin(actor solana.PublicKey) error {
	if !actor.Equals(p.state.Admin) {
		return fmt.Errorf("%w: %s is not the admin", ErrUnauthorized, actor)
	}
	return nil
}

// AddLst registers a new supported asset, opening its reserve and fee
// accumulator accounts, and returns its entry index.
func (p *Pool) AddLst(actor, mint, valueCalculator solana.PublicKey) (int, error) {
	if err := p.requireAdmin(actor); err != nil {
		return 0, err
	}
	if p.state.Rebalancing {
		return 0, ErrPoolRebalancing
	}
	if _, ok := p.FindLst(mint); ok {
		return 0, fmt.Errorf("%w: %s", ErrDuplicateLst, mint)
	}
	c, ok := p.calculators.Resolve(valueCalculator)
	if !ok || !c.Program().Equals(valueCalculator) {
		return 0, fmt.Errorf("%w: %s not registered", ErrFaultyValueCalculator, valueCalculator)
	}

	reserves, err := p.bank.CreateAccount(mint, p.authority)
	if err != nil {
		return 0, fmt.Errorf("create reserves: %w", err)
	}
	feeAcc, err := p.bank.CreateAccount(mint, p.authority)
	if err != nil {
		return 0, fmt.Errorf("create fee accumulator: %w", err)
	}

	p.entries = append(p.entries, LstEntry{
		Mint:            mint,
		Reserves:        reserves,
		FeeAccumulator:  feeAcc,
		ValueCalculator: valueCalculator,
	})
	return len(p.entries) - 1, nil
}

// RemoveLst drops an entry that no longer holds any value. Entries after it
// shift down one index.
func (p *Pool) RemoveLst(actor solana.PublicKey, index int) error {
	if err := p.requireAdmin(actor); err != nil {
		return err
	}
	if p.state.Rebalancing {
		return ErrPoolRebalancing
	}
	e, err := p.entryAt(index)
	if err != nil {
		return err
	}

	reserves, err := p.bank.Balance(e.Reserves)
	if err != nil {
		return fmt.Errorf("read reserves: %w", err)
	}
	fees, err := p.bank.Balance(e.FeeAccumulator)
	if err != nil {
		return fmt.Errorf("read fee accumulator: %w", err)
	}
	if reserves != 0 || fees != 0 || e.SolValue != 0 {
		return fmt.Errorf("%w: %s has reserves %d, fees %d, sol value %d", ErrLstNotEmpty, e.Mint, reserves, fees, e.SolValue)
	}

	p.entries = append(p.entries[:index], p.entries[index+1:]...)
	return nil
}

// SetFees replaces both protocol fee rates.
func (p *Pool) SetFees(actor solana.PublicKey, tradingFeeBps, liquidityFeeBps uint16) error {
	if err := p.requireAdmin(actor); err != nil {
		return err
	}
	if tradingFeeBps > poolmath.MaxBasisPoints || liquidityFeeBps > poolmath.MaxBasisPoints {
		return fmt.Errorf("%w: trading %d, liquidity %d", ErrInvalidFee, tradingFeeBps, liquidityFeeBps)
	}
	p.state.TradingFeeBps = tradingFeeBps
	p.state.LiquidityFeeBps = liquidityFeeBps
	return nil
}

func (p *Pool) SetAdmin(actor, next solana.PublicKey) error {
	if err := p.requireAdmin(actor); err != nil {
		return err
	}
	p.state.Admin = next
	return nil
}

func (p *Pool) SetRebalanceAuthority(actor, next solana.PublicKey) error {
	if err := p.requireAdmin(actor); err != nil {
		return err
	}
	p.state.RebalanceAuthority = next
	return nil
}

func (p *Pool) SetFeeBeneficiary(actor, next solana.PublicKey) error {
	if err := p.requireAdmin(actor); err != nil {
		return err
	}
	p.state.FeeBeneficiary = next
	return nil
}

// SetPricingProgram swaps the active pricing plugin. The identity must
// already resolve in the registry.
func (p *Pool) SetPricingProgram(actor, program solana.PublicKey) error {
	if err := p.requireAdmin(actor); err != nil {
		return err
	}
	pr, ok := p.pricings.Resolve(program)
	if !ok || !pr.Program().Equals(program) {
		return fmt.Errorf("%w: %s not registered", ErrFaultyPricingProgram, program)
	}
	p.state.PricingProgram = program
	return nil
}

// SetSolValueCalculator swaps an entry's valuation plugin and resyncs the
// entry through it, so the ledger never carries a value produced by the old
// plugin.
func (p *Pool) SetSolValueCalculator(actor solana.PublicKey, index int, program solana.PublicKey) error {
	if err := p.requireAdmin(actor); err != nil {
		return err
	}
	if p.state.Rebalancing {
		return ErrPoolRebalancing
	}
	e, err := p.entryAt(index)
	if err != nil {
		return err
	}
	c, ok := p.calculators.Resolve(program)
	if !ok || !c.Program().Equals(program) {
		return fmt.Errorf("%w: %s not registered", ErrFaultyValueCalculator, program)
	}
	e.ValueCalculator = program
	return p.syncEntry(e)
}

func (p *Pool) SetPoolDisabled(actor solana.PublicKey, disabled bool) error {
	if err := p.requireAdmin(actor); err != nil {
		return err
	}
	p.state.Disabled = disabled
	return nil
}

func (p *Pool) SetLstInputDisabled(actor solana.PublicKey, index int, disabled bool) error {
	if err := p.requireAdmin(actor); err != nil {
		return err
	}
	e, err := p.entryAt(index)
	if err != nil {
		return err
	}
	e.InputDisabled = disabled
	return nil
}

// WithdrawProtocolFees drains up to amount from an entry's fee accumulator to
// the beneficiary's account. Zero amount drains everything.
func (p *Pool) WithdrawProtocolFees(actor solana.PublicKey, index int, destination solana.PublicKey, amount uint64) (uint64, error) {
	if !actor.Equals(p.state.FeeBeneficiary) {
		return 0, fmt.Errorf("%w: %s is not the fee beneficiary", ErrUnauthorized, actor)
	}
	e, err := p.entryAt(index)
	if err != nil {
		return 0, err
	}
	held, err := p.bank.Balance(e.FeeAccumulator)
	if err != nil {
		return 0, fmt.Errorf("read fee accumulator: %w", err)
	}
	if amount == 0 || amount > held {
		amount = held
	}
	if amount == 0 {
		return 0, nil
	}
	if err := p.bank.Transfer(e.FeeAccumulator, destination, amount); err != nil {
		return 0, fmt.Errorf("withdraw fees: %w", err)
	}
	return amount, nil
}
