// Package pool implements the multi-LST liquidity pool core: the sol-value
// ledger, the swap and liquidity engines, and the two-phase rebalance
// protocol. Token balances live in a bank.Bank; per-asset valuation and
// pool-wide fee quoting are delegated to plugins resolved through the svc and
// pricing registries.
//
// A Pool is a plain aggregate with no internal locking. The txn.Runner wraps
// a pool and its bank behind one mutex and gives multi-instruction
// transactions all-or-nothing semantics.
package pool

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/spoolfi/spool-go/bank"
	"github.com/spoolfi/spool-go/pool/poolmath"
	"github.com/spoolfi/spool-go/pricing"
	"github.com/spoolfi/spool-go/svc"
)

// Instruction kinds, used by the transaction runner's introspection and by
// StartRebalance's succeeding-End scan.
const (
	KindSyncSolValue    = "SyncSolValue"
	KindSwapExactIn     = "SwapExactIn"
	KindSwapExactOut    = "SwapExactOut"
	KindAddLiquidity    = "AddLiquidity"
	KindRemoveLiquidity = "RemoveLiquidity"
	KindStartRebalance  = "StartRebalance"
	KindEndRebalance    = "EndRebalance"
)

// Pool is the authoritative sol-value ledger over an ordered list of LST
// entries.
type Pool struct {
	authority solana.PublicKey // owner of the pool's token accounts

	state   State
	entries []LstEntry

	rebalance *RebalanceRecord

	bank        *bank.Bank
	calculators *svc.Registry
	pricings    *pricing.Registry
}

// New creates an empty pool and its LP share mint.
func New(b *bank.Bank, calculators *svc.Registry, pricings *pricing.Registry, params Params) (*Pool, error) {
	if params.TradingFeeBps > poolmath.MaxBasisPoints || params.LiquidityFeeBps > poolmath.MaxBasisPoints {
		return nil, fmt.Errorf("%w: trading %d, liquidity %d", ErrInvalidFee, params.TradingFeeBps, params.LiquidityFeeBps)
	}
	if _, ok := pricings.Resolve(params.PricingProgram); !ok {
		return nil, fmt.Errorf("%w: %s not registered", ErrFaultyPricingProgram, params.PricingProgram)
	}

	lpMint := solana.NewWallet().PublicKey()
	if err := b.CreateMint(lpMint); err != nil {
		return nil, fmt.Errorf("create lp mint: %w", err)
	}

	return &Pool{
		authority: solana.NewWallet().PublicKey(),
		state: State{
			TradingFeeBps:      params.TradingFeeBps,
			LiquidityFeeBps:    params.LiquidityFeeBps,
			Admin:              params.Admin,
			RebalanceAuthority: params.RebalanceAuthority,
			FeeBeneficiary:     params.FeeBeneficiary,
			PricingProgram:     params.PricingProgram,
			LpMint:             lpMint,
		},
		bank:        b,
		calculators: calculators,
		pricings:    pricings,
	}, nil
}

// State returns a copy of the pool-wide ledger fields.
func (p *Pool) State() State {
	return p.state
}

// TotalSolValue is the pool total as of the last syncs.
func (p *Pool) TotalSolValue() uint64 {
	return p.state.TotalSolValue
}

// IsRebalancing reports whether a rebalance is open.
func (p *Pool) IsRebalancing() bool {
	return p.state.Rebalancing
}

// LpMint is the pool share token mint.
func (p *Pool) LpMint() solana.PublicKey {
	return p.state.LpMint
}

// LpSupply reads the live pool share supply from the bank.
func (p *Pool) LpSupply() (uint64, error) {
	return p.bank.Supply(p.state.LpMint)
}

// EntryCount returns the number of supported LSTs.
func (p *Pool) EntryCount() int {
	return len(p.entries)
}

// Entry returns a copy of the entry at index.
func (p *Pool) Entry(index int) (LstEntry, error) {
	if index < 0 || index >= len(p.entries) {
		return LstEntry{}, fmt.Errorf("%w: index %d", ErrUnknownLst, index)
	}
	return p.entries[index], nil
}

// FindLst returns the index of the entry holding mint.
func (p *Pool) FindLst(mint solana.PublicKey) (int, bool) {
	for i := range p.entries {
		if p.entries[i].Mint.Equals(mint) {
			return i, true
		}
	}
	return -1, false
}

// ReserveBalance reads the live reserve balance for the entry at index.
func (p *Pool) ReserveBalance(index int) (uint64, error) {
	e, err := p.Entry(index)
	if err != nil {
		return 0, err
	}
	return p.bank.Balance(e.Reserves)
}

// FeeBalance reads the live fee accumulator balance for the entry at index.
func (p *Pool) FeeBalance(index int) (uint64, error) {
	e, err := p.Entry(index)
	if err != nil {
		return 0, err
	}
	return p.bank.Balance(e.FeeAccumulator)
}

func (p *Pool) entryAt(index int) (*LstEntry, error) {
	if index < 0 || index >= len(p.entries) {
		return nil, fmt.Errorf("%w: index %d", ErrUnknownLst, index)
	}
	return &p.entries[index], nil
}

// tradeReady gates swap and liquidity operations on the pool-wide flags.
func (p *Pool) tradeReady() error {
	if p.state.Disabled {
		return ErrPoolDisabled
	}
	if p.state.Rebalancing {
		return ErrPoolRebalancing
	}
	return nil
}

// resolveCalculator resolves and verifies the plugin registered for the
// entry. A missing registration or an identity mismatch is a faulty
// calculator, never a soft failure.
func (p *Pool) resolveCalculator(e *LstEntry) (svc.Calculator, error) {
	c, ok := p.calculators.Resolve(e.ValueCalculator)
	if !ok {
		return nil, fmt.Errorf("%w: %s not registered", ErrFaultyValueCalculator, e.ValueCalculator)
	}
	if !c.Program().Equals(e.ValueCalculator) {
		return nil, fmt.Errorf("%w: registry returned %s for %s", ErrFaultyValueCalculator, c.Program(), e.ValueCalculator)
	}
	return c, nil
}

func (p *Pool) resolvePricing() (pricing.Pricing, error) {
	pr, ok := p.pricings.Resolve(p.state.PricingProgram)
	if !ok {
		return nil, fmt.Errorf("%w: %s not registered", ErrFaultyPricingProgram, p.state.PricingProgram)
	}
	if !pr.Program().Equals(p.state.PricingProgram) {
		return nil, fmt.Errorf("%w: registry returned %s for %s", ErrFaultyPricingProgram, pr.Program(), p.state.PricingProgram)
	}
	return pr, nil
}

// lstToSol runs the entry's calculator and rejects incoherent output.
func (p *Pool) lstToSol(e *LstEntry, amount uint64) (svc.Range, error) {
	c, err := p.resolveCalculator(e)
	if err != nil {
		return svc.Range{}, err
	}
	r, err := c.LstToSol(amount)
	if err != nil {
		return svc.Range{}, fmt.Errorf("%w: lst_to_sol: %v", ErrFaultyValueCalculator, err)
	}
	if !r.Valid() {
		return svc.Range{}, fmt.Errorf("%w: lst_to_sol range min %d > max %d", ErrFaultyValueCalculator, r.Min, r.Max)
	}
	return r, nil
}

func (p *Pool) solToLst(e *LstEntry, solValue uint64) (svc.Range, error) {
	c, err := p.resolveCalculator(e)
	if err != nil {
		return svc.Range{}, err
	}
	r, err := c.SolToLst(solValue)
	if err != nil {
		return svc.Range{}, fmt.Errorf("%w: sol_to_lst: %v", ErrFaultyValueCalculator, err)
	}
	if !r.Valid() {
		return svc.Range{}, fmt.Errorf("%w: sol_to_lst range min %d > max %d", ErrFaultyValueCalculator, r.Min, r.Max)
	}
	return r, nil
}

// Snapshot captures the pool's ledger state for later Restore. Bank state is
// snapshotted separately by the transaction runner.
type Snapshot struct {
	state     State
	entries   []LstEntry
	rebalance *RebalanceRecord
}

func (p *Pool) Snapshot() Snapshot {
	s := Snapshot{
		state:   p.state,
		entries: make([]LstEntry, len(p.entries)),
	}
	copy(s.entries, p.entries)
	if p.rebalance != nil {
		rec := *p.rebalance
		s.rebalance = &rec
	}
	return s
}

// Restore rewinds the pool to a previously taken snapshot.
func (p *Pool) Restore(s Snapshot) {
	p.state = s.state
	p.entries = make([]LstEntry, len(s.entries))
	copy(p.entries, s.entries)
	p.rebalance = nil
	if s.rebalance != nil {
		rec := *s.rebalance
		p.rebalance = &rec
	}
}
