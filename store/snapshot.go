// Package store persists pool state: a borsh-encoded snapshot of the ledger
// and an append-only JSONL journal of finished transactions.
package store

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/spoolfi/spool-go/bank"
	"github.com/spoolfi/spool-go/pool"
	"github.com/spoolfi/spool-go/pricing"
	"github.com/spoolfi/spool-go/svc"
)

// LstEntrySnapshot is the persisted form of one LST entry, with the live
// balances folded in.
type LstEntrySnapshot struct {
	Mint            solana.PublicKey
	ValueCalculator solana.PublicKey
	SolValue        uint64
	ReservesBalance uint64
	FeeBalance      uint64
	InputDisabled   bool
}

// PoolSnapshot is the persisted form of the pool ledger. It never carries an
// open rebalance; snapshots are only taken between transactions.
type PoolSnapshot struct {
	Admin              solana.PublicKey
	RebalanceAuthority solana.PublicKey
	FeeBeneficiary     solana.PublicKey
	PricingProgram     solana.PublicKey
	TradingFeeBps      uint16
	LiquidityFeeBps    uint16
	Disabled           bool
	TotalSolValue      uint64
	Entries            []LstEntrySnapshot
}

// Capture reads the pool's current state into a snapshot.
func Capture(p *pool.Pool) (*PoolSnapshot, error) {
	if p.IsRebalancing() {
		return nil, errors.New("store: cannot snapshot mid-rebalance")
	}
	st := p.State()
	snap := &PoolSnapshot{
		Admin:              st.Admin,
		RebalanceAuthority: st.RebalanceAuthority,
		FeeBeneficiary:     st.FeeBeneficiary,
		PricingProgram:     st.PricingProgram,
		TradingFeeBps:      st.TradingFeeBps,
		LiquidityFeeBps:    st.LiquidityFeeBps,
		Disabled:           st.Disabled,
		TotalSolValue:      st.TotalSolValue,
	}
	for i := 0; i < p.EntryCount(); i++ {
		e, err := p.Entry(i)
		if err != nil {
			return nil, err
		}
		reserves, err := p.ReserveBalance(i)
		if err != nil {
			return nil, fmt.Errorf("read reserves for %s: %w", e.Mint, err)
		}
		fees, err := p.FeeBalance(i)
		if err != nil {
			return nil, fmt.Errorf("read fees for %s: %w", e.Mint, err)
		}
		snap.Entries = append(snap.Entries, LstEntrySnapshot{
			Mint:            e.Mint,
			ValueCalculator: e.ValueCalculator,
			SolValue:        e.SolValue,
			ReservesBalance: reserves,
			FeeBalance:      fees,
			InputDisabled:   e.InputDisabled,
		})
	}
	return snap, nil
}

// Save writes the snapshot atomically (tmp file + rename).
func Save(path string, snap *PoolSnapshot) error {
	buf := new(bytes.Buffer)
	if err := bin.NewBorshEncoder(buf).Encode(snap); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create snapshot dir: %w", err)
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write snapshot tmp: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename snapshot: %w", err)
	}
	return nil
}

// Load reads a snapshot written by Save.
func Load(path string) (*PoolSnapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var snap PoolSnapshot
	if err := bin.NewBorshDecoder(data).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}

// Rebuild reconstructs a live pool from a snapshot against a fresh bank. All
// value calculators and the pricing program named in the snapshot must
// already be registered.
func Rebuild(snap *PoolSnapshot, b *bank.Bank, calculators *svc.Registry, pricings *pricing.Registry) (*pool.Pool, error) {
	p, err := pool.New(b, calculators, pricings, pool.Params{
		Admin:              snap.Admin,
		RebalanceAuthority: snap.RebalanceAuthority,
		FeeBeneficiary:     snap.FeeBeneficiary,
		PricingProgram:     snap.PricingProgram,
		TradingFeeBps:      snap.TradingFeeBps,
		LiquidityFeeBps:    snap.LiquidityFeeBps,
	})
	if err != nil {
		return nil, err
	}

	for _, es := range snap.Entries {
		if err := b.CreateMint(es.Mint); err != nil && !errors.Is(err, bank.ErrDuplicateMint) {
			return nil, err
		}
		idx, err := p.AddLst(snap.Admin, es.Mint, es.ValueCalculator)
		if err != nil {
			return nil, err
		}
		e, err := p.Entry(idx)
		if err != nil {
			return nil, err
		}
		if es.ReservesBalance > 0 {
			if err := b.MintTo(e.Reserves, es.ReservesBalance); err != nil {
				return nil, fmt.Errorf("restore reserves for %s: %w", es.Mint, err)
			}
		}
		if es.FeeBalance > 0 {
			if err := b.MintTo(e.FeeAccumulator, es.FeeBalance); err != nil {
				return nil, fmt.Errorf("restore fees for %s: %w", es.Mint, err)
			}
		}
		if es.InputDisabled {
			if err := p.SetLstInputDisabled(snap.Admin, idx, true); err != nil {
				return nil, err
			}
		}
		if err := p.SyncSolValue(idx); err != nil {
			return nil, err
		}
	}

	if snap.Disabled {
		if err := p.SetPoolDisabled(snap.Admin, true); err != nil {
			return nil, err
		}
	}
	return p, nil
}
