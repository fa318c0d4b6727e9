package svc

import "github.com/gagliardetto/solana-go"

// WsolCalculator prices wrapped SOL itself: one lamport is one unit of sol
// value in both directions.
type WsolCalculator struct {
	program solana.PublicKey
}

func NewWsolCalculator(program solana.PublicKey) *WsolCalculator {
	return &WsolCalculator{program: program}
}

func (c *WsolCalculator) Program() solana.PublicKey {
	return c.program
}

func (c *WsolCalculator) LstToSol(amount uint64) (Range, error) {
	return Range{Min: amount, Max: amount}, nil
}

func (c *WsolCalculator) SolToLst(solValue uint64) (Range, error) {
	return Range{Min: solValue, Max: solValue}, nil
}
