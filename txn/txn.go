// Package txn gives pool operations transaction semantics: an ordered list
// of instructions that either all commit or all roll back, executed under one
// mutex per pool so the core never sees concurrent writers.
//
// Rollback is snapshot-based: the runner captures pool and bank state before
// the first instruction and restores both if any instruction fails, or if
// the transaction would commit with a rebalance still open.
package txn

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spoolfi/spool-go/bank"
	"github.com/spoolfi/spool-go/pool"
)

// ErrDanglingRebalance means a transaction executed a StartRebalance whose
// EndRebalance never ran; the whole transaction is discarded.
var ErrDanglingRebalance = errors.New("txn: transaction left pool mid-rebalance")

// Instruction is one step of a transaction. Kind is one of the pool.Kind*
// constants (or a caller-defined kind for intervening steps); it is what
// StartRebalance's introspection scan sees.
type Instruction struct {
	Kind string
	Run  func(*Scope) error
}

// Scope is the per-instruction execution view.
type Scope struct {
	ctx       context.Context
	remaining []string
}

// Context returns the transaction's context.
func (s *Scope) Context() context.Context {
	return s.ctx
}

// Remaining lists the kinds of the instructions after the current one, in
// execution order. Implements pool.InstructionScope.
func (s *Scope) Remaining() []string {
	return s.remaining
}

// Sink receives a record for every finished transaction. store.Journal
// implements it.
type Sink interface {
	Append(rec Record) error
}

// Record summarizes one finished transaction.
type Record struct {
	Time        string   `json:"time"`
	Kinds       []string `json:"kinds"`
	Committed   bool     `json:"committed"`
	Error       string   `json:"error,omitempty"`
	TotalBefore uint64   `json:"total_before"`
	TotalAfter  uint64   `json:"total_after"`
}

// Runner executes transactions against one pool and its bank.
type Runner struct {
	mu   sync.Mutex
	pool *pool.Pool
	bank *bank.Bank
	log  *zap.Logger
	sink Sink
}

func NewRunner(p *pool.Pool, b *bank.Bank, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{pool: p, bank: b, log: log}
}

// WithSink attaches a journal sink for committed and rolled-back
// transactions.
func (r *Runner) WithSink(s Sink) *Runner {
	r.sink = s
	return r
}

// Pool returns the wrapped pool for read-only inspection between
// transactions.
func (r *Runner) Pool() *pool.Pool {
	return r.pool
}

// Execute runs the instructions in order as one atomic unit.
func (r *Runner) Execute(ctx context.Context, instructions ...Instruction) error {
	if len(instructions) == 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	poolSnap := r.pool.Snapshot()
	bankSnap := r.bank.Snapshot()
	totalBefore := r.pool.TotalSolValue()

	kinds := make([]string, len(instructions))
	for i, ins := range instructions {
		kinds[i] = ins.Kind
	}

	err := r.run(ctx, instructions, kinds)
	if err != nil {
		r.pool.Restore(poolSnap)
		r.bank.Restore(bankSnap)
	}

	r.finish(kinds, totalBefore, err)
	return err
}

// Do runs a single instruction as its own transaction.
func (r *Runner) Do(ctx context.Context, ins Instruction) error {
	return r.Execute(ctx, ins)
}

func (r *Runner) run(ctx context.Context, instructions []Instruction, kinds []string) error {
	for i, ins := range instructions {
		if err := ctx.Err(); err != nil {
			return err
		}
		scope := &Scope{ctx: ctx, remaining: kinds[i+1:]}
		if err := ins.Run(scope); err != nil {
			return fmt.Errorf("instruction %d (%s): %w", i, ins.Kind, err)
		}
	}
	if r.pool.IsRebalancing() {
		return ErrDanglingRebalance
	}
	return nil
}

func (r *Runner) finish(kinds []string, totalBefore uint64, err error) {
	totalAfter := r.pool.TotalSolValue()
	if err != nil {
		r.log.Warn("transaction rolled back",
			zap.Strings("kinds", kinds),
			zap.Uint64("total_sol_value", totalAfter),
			zap.Error(err),
		)
	} else {
		r.log.Info("transaction committed",
			zap.Strings("kinds", kinds),
			zap.Uint64("total_before", totalBefore),
			zap.Uint64("total_after", totalAfter),
		)
	}

	if r.sink == nil {
		return
	}
	rec := Record{
		Time:        time.Now().UTC().Format(time.RFC3339Nano),
		Kinds:       kinds,
		Committed:   err == nil,
		TotalBefore: totalBefore,
		TotalAfter:  totalAfter,
	}
	if err != nil {
		rec.Error = err.Error()
	}
	if sinkErr := r.sink.Append(rec); sinkErr != nil {
		r.log.Warn("journal append failed", zap.Error(sinkErr))
	}
}
