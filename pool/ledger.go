package pool

import (
	"fmt"

	"github.com/spoolfi/spool-go/pool/poolmath"
)

// SyncSolValue recomputes the entry's sol value from its live reserve balance
// through its calculator, then folds the delta into the pool total. This is
// the only mutator of entry sol values; every engine operation syncs the
// entries it touches both before and after acting so externally-moved
// exchange rates are captured.
//
// Sync is idempotent: without an intervening balance or rate change, a second
// call leaves the ledger untouched.
func (p *Pool) SyncSolValue(index int) error {
	e, err := p.entryAt(index)
	if err != nil {
		return err
	}
	return p.syncEntry(e)
}

func (p *Pool) syncEntry(e *LstEntry) error {
	balance, err := p.bank.Balance(e.Reserves)
	if err != nil {
		return fmt.Errorf("read reserves for %s: %w", e.Mint, err)
	}

	// Reserves are pool outflow when valued, so take the conservative bound.
	r, err := p.lstToSol(e, balance)
	if err != nil {
		return err
	}

	total, err := poolmath.Sub(p.state.TotalSolValue, e.SolValue)
	if err != nil {
		return fmt.Errorf("%w: total below entry value", ErrMath)
	}
	total, err = poolmath.Add(total, r.Min)
	if err != nil {
		return fmt.Errorf("%w: total sol value", ErrMath)
	}

	e.SolValue = r.Min
	p.state.TotalSolValue = total
	return nil
}
