// Package spool re-exports the constructors most integrations need: the pool
// core, the transaction runner, and the reference plugin implementations.
//
// Example:
//
//	p, _ := spool.NewPool(b, calculators, pricings, params)
//	runner := spool.NewRunner(p, b, logger)
//
//	runner.Do(ctx, txn.Instruction{Kind: pool.KindSwapExactIn, Run: func(*txn.Scope) error {
//		_, err := p.SwapExactIn(args)
//		return err
//	}})
package spool

import (
	"github.com/spoolfi/spool-go/pool"
	"github.com/spoolfi/spool-go/pricing"
	"github.com/spoolfi/spool-go/svc"
	"github.com/spoolfi/spool-go/txn"
)

// NewPool creates an empty pool and its LP share mint.
var NewPool = pool.New

// NewRunner wraps a pool and its bank behind one mutex with all-or-nothing
// transaction semantics.
var NewRunner = txn.NewRunner

// NewCalculatorRegistry creates an empty value calculator registry.
var NewCalculatorRegistry = svc.NewRegistry

// NewPricingRegistry creates an empty pricing registry.
var NewPricingRegistry = pricing.NewRegistry
