// Package pricing defines the pool-wide pricing protocol: the plugin that
// decides how much sol value a trade or LP redemption yields after spread.
package pricing

import (
	"sync"

	"github.com/gagliardetto/solana-go"
)

// SwapArgs carries one leg of a swap quote request.
//
// For PriceExactIn, Amount is the input LST amount and SolValue its sol
// value; the return is the sol value the trader receives. For PriceExactOut,
// Amount is the requested output LST amount and SolValue its sol value; the
// return is the sol value the trader must pay.
type SwapArgs struct {
	InputLstMint  solana.PublicKey
	OutputLstMint solana.PublicKey
	Amount        uint64
	SolValue      uint64
}

// LpArgs carries a liquidity mint/redeem quote request. Amount is the LST
// amount (mint) or pool share amount (redeem); SolValue is the sol value
// being deposited or redeemed before the plugin's fee.
type LpArgs struct {
	LstMint  solana.PublicKey
	Amount   uint64
	SolValue uint64
}

// Pricing quotes the post-spread sol value for swaps and LP operations.
//
// The pool never trusts a quote that exceeds the value coming in; that
// invariant is enforced by the caller, not here.
type Pricing interface {
	Program() solana.PublicKey

	PriceExactIn(args SwapArgs) (uint64, error)
	PriceExactOut(args SwapArgs) (uint64, error)
	PriceLpTokensToMint(args LpArgs) (uint64, error)
	PriceLpTokensToRedeem(args LpArgs) (uint64, error)
}

// Registry maps a pricing program identity to its in-process implementation.
type Registry struct {
	mu        sync.RWMutex
	byProgram map[solana.PublicKey]Pricing
}

func NewRegistry() *Registry {
	return &Registry{byProgram: make(map[solana.PublicKey]Pricing)}
}

func (r *Registry) Register(p Pricing) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byProgram[p.Program()] = p
}

func (r *Registry) Unregister(program solana.PublicKey) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byProgram, program)
}

func (r *Registry) Resolve(program solana.PublicKey) (Pricing, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byProgram[program]
	return p, ok
}
