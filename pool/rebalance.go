package pool

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// InstructionScope is the read-only view StartRebalance uses to verify that
// the enclosing transaction contains a later EndRebalance. The transaction
// runner provides it; Remaining lists the kinds of instructions not yet
// executed, in order.
type InstructionScope interface {
	Remaining() []string
}

// StartRebalanceArgs drives StartRebalance.
type StartRebalanceArgs struct {
	Authority   solana.PublicKey // must be the pool's rebalance authority
	SrcLstIndex int
	DstLstIndex int
	Amount      uint64

	// WithdrawTo receives the source LST for the duration of the rebalance.
	WithdrawTo solana.PublicKey
}

// StartRebalance withdraws source reserves to a caller-controlled account so
// the operator can reposition them into the destination LST. The pool total
// drops until EndRebalance reconciles it; the succeeding-End scan plus the
// transaction runner's rollback make the pair atomic, so a transaction that
// starts a rebalance and never ends it leaves no trace.
func (p *Pool) StartRebalance(scope InstructionScope, args StartRebalanceArgs) error {
	if !args.Authority.Equals(p.state.RebalanceAuthority) {
		return fmt.Errorf("%w: %s is not the rebalance authority", ErrUnauthorized, args.Authority)
	}
	if p.state.Disabled {
		return ErrPoolDisabled
	}
	if p.state.Rebalancing {
		return fmt.Errorf("%w: rebalance already open", ErrPoolRebalancing)
	}
	if args.Amount == 0 {
		return fmt.Errorf("%w: zero rebalance amount", ErrZeroValue)
	}

	src, err := p.entryAt(args.SrcLstIndex)
	if err != nil {
		return err
	}
	dst, err := p.entryAt(args.DstLstIndex)
	if err != nil {
		return err
	}

	if !succeedingEnd(scope) {
		return ErrNoSucceedingEndRebalance
	}

	if err := p.syncEntry(src); err != nil {
		return err
	}
	if err := p.syncEntry(dst); err != nil {
		return err
	}

	oldTotal := p.state.TotalSolValue

	if err := p.bank.Transfer(src.Reserves, args.WithdrawTo, args.Amount); err != nil {
		return fmt.Errorf("withdraw for rebalance: %w", err)
	}
	if err := p.syncEntry(src); err != nil {
		return err
	}

	p.rebalance = &RebalanceRecord{
		OldTotalSolValue: oldTotal,
		DstLstIndex:      uint32(args.DstLstIndex),
	}
	p.state.Rebalancing = true
	return nil
}

// EndRebalance re-syncs the destination entry and enforces the no-value-loss
// floor snapshotted at Start, then closes the record.
func (p *Pool) EndRebalance() error {
	if p.rebalance == nil || !p.state.Rebalancing {
		return ErrNotRebalancing
	}
	rec := p.rebalance

	dst, err := p.entryAt(int(rec.DstLstIndex))
	if err != nil {
		return err
	}
	if err := p.syncEntry(dst); err != nil {
		return err
	}

	if p.state.TotalSolValue < rec.OldTotalSolValue {
		return fmt.Errorf("%w: total %d after rebalance, %d before", ErrPoolWouldLoseSolValue, p.state.TotalSolValue, rec.OldTotalSolValue)
	}

	p.rebalance = nil
	p.state.Rebalancing = false
	return nil
}

// RebalanceRecordView returns a copy of the open rebalance record, if any.
func (p *Pool) RebalanceRecordView() (RebalanceRecord, bool) {
	if p.rebalance == nil {
		return RebalanceRecord{}, false
	}
	return *p.rebalance, true
}

func succeedingEnd(scope InstructionScope) bool {
	if scope == nil {
		return false
	}
	for _, kind := range scope.Remaining() {
		if kind == KindEndRebalance {
			return true
		}
	}
	return false
}
