// Package svc defines the sol value calculator protocol: the contract every
// LST valuation plugin satisfies, and the registry the pool resolves plugins
// through.
package svc

import (
	"sync"

	"github.com/gagliardetto/solana-go"
)

// Range is a sol-value (or LST amount) bracket. Exchange-rate plugins round
// internal math differently per direction, so conversions return both bounds
// and the caller picks the conservative one: Min when valuing an outflow.
type Range struct {
	Min uint64
	Max uint64
}

// Valid reports whether the bracket is coherent.
func (r Range) Valid() bool {
	return r.Min <= r.Max
}

// Calculator converts between an LST's native amount and sol value.
//
// For a fixed underlying asset state, repeated calls with the same input must
// return the same output. The pool treats any error, and any Range with
// Min > Max, as a faulty plugin and aborts the whole operation.
type Calculator interface {
	// Program is the identity the plugin is registered under. The pool
	// compares it against the identity stored on the LST entry before
	// trusting any output.
	Program() solana.PublicKey

	LstToSol(amount uint64) (Range, error)
	SolToLst(solValue uint64) (Range, error)
}

// Registry maps a calculator program identity to its in-process
// implementation.
type Registry struct {
	mu        sync.RWMutex
	byProgram map[solana.PublicKey]Calculator
}

func NewRegistry() *Registry {
	return &Registry{byProgram: make(map[solana.PublicKey]Calculator)}
}

// Register installs c under its own program identity, replacing any previous
// registration.
func (r *Registry) Register(c Calculator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byProgram[c.Program()] = c
}

// Unregister removes the calculator registered under program, if any.
func (r *Registry) Unregister(program solana.PublicKey) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byProgram, program)
}

// Resolve returns the calculator registered under program.
func (r *Registry) Resolve(program solana.PublicKey) (Calculator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byProgram[program]
	return c, ok
}
