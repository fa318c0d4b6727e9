package pool

import "github.com/gagliardetto/solana-go"

// LstEntry is one supported asset. Entries live in an ordered list and are
// addressed by index for the lifetime of the entry.
type LstEntry struct {
	// Mint identifies the LST; unique across the pool.
	Mint solana.PublicKey

	// SolValue is this asset's contribution to the pool total, valid as of
	// the last sync for this entry. Only SyncSolValue mutates it.
	SolValue uint64

	// Reserves and FeeAccumulator are the pool-owned token accounts holding
	// this LST. The authoritative balance lives in the bank; the entry only
	// carries the addresses.
	Reserves       solana.PublicKey
	FeeAccumulator solana.PublicKey

	// ValueCalculator is the identity of the plugin pricing this asset,
	// checked against the registry on every use.
	ValueCalculator solana.PublicKey

	// InputDisabled blocks this asset as a swap/deposit source while still
	// allowing it as a destination.
	InputDisabled bool
}

// RebalanceRecord exists only between StartRebalance and EndRebalance within
// one transaction.
type RebalanceRecord struct {
	// OldTotalSolValue is the pool total before the start withdrawal; End
	// enforces that the resynced total is at least this.
	OldTotalSolValue uint64

	// DstLstIndex is the entry End must reconcile.
	DstLstIndex uint32
}

// State holds the pool-wide ledger fields.
type State struct {
	TotalSolValue uint64

	TradingFeeBps   uint16
	LiquidityFeeBps uint16

	Disabled    bool
	Rebalancing bool

	Admin              solana.PublicKey
	RebalanceAuthority solana.PublicKey
	FeeBeneficiary     solana.PublicKey
	PricingProgram     solana.PublicKey

	// LpMint is the pool share token; its supply is read live from the bank,
	// never cached here.
	LpMint solana.PublicKey
}

// Params configures a new pool.
type Params struct {
	Admin              solana.PublicKey
	RebalanceAuthority solana.PublicKey
	FeeBeneficiary     solana.PublicKey
	PricingProgram     solana.PublicKey
	TradingFeeBps      uint16
	LiquidityFeeBps    uint16
}
