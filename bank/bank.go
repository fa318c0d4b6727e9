// Package bank is an in-memory token ledger: mints, token accounts, and the
// transfer/mint/burn primitives the pool core issues against them. It plays
// the role of the external token program, so each call either fully applies
// or fails loudly without side effects.
//
// The ledger itself is unsynchronized; callers that share a Bank across
// goroutines provide their own exclusion (the transaction runner holds one
// mutex over the pool and its bank).
package bank

import (
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

var (
	ErrUnknownMint       = errors.New("bank: unknown mint")
	ErrDuplicateMint     = errors.New("bank: mint already exists")
	ErrUnknownAccount    = errors.New("bank: unknown account")
	ErrMintMismatch      = errors.New("bank: account mint mismatch")
	ErrInsufficientFunds = errors.New("bank: insufficient funds")
	ErrSupplyOverflow    = errors.New("bank: supply overflow")
)

// Account is a token account holding a balance of one mint.
type Account struct {
	Address solana.PublicKey
	Mint    solana.PublicKey
	Owner   solana.PublicKey
	Amount  uint64
}

type mintState struct {
	supply uint64
}

// Bank holds every mint and token account.
type Bank struct {
	mints    map[solana.PublicKey]*mintState
	accounts map[solana.PublicKey]*Account
}

func New() *Bank {
	return &Bank{
		mints:    make(map[solana.PublicKey]*mintState),
		accounts: make(map[solana.PublicKey]*Account),
	}
}

// CreateMint registers a new mint with zero supply.
func (b *Bank) CreateMint(mint solana.PublicKey) error {
	if _, ok := b.mints[mint]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateMint, mint)
	}
	b.mints[mint] = &mintState{}
	return nil
}

// CreateAccount opens an empty token account for mint and returns its
// address.
func (b *Bank) CreateAccount(mint, owner solana.PublicKey) (solana.PublicKey, error) {
	if _, ok := b.mints[mint]; !ok {
		return solana.PublicKey{}, fmt.Errorf("%w: %s", ErrUnknownMint, mint)
	}
	addr := solana.NewWallet().PublicKey()
	b.accounts[addr] = &Account{Address: addr, Mint: mint, Owner: owner}
	return addr, nil
}

// Balance returns the account's current amount.
func (b *Bank) Balance(account solana.PublicKey) (uint64, error) {
	acct, ok := b.accounts[account]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownAccount, account)
	}
	return acct.Amount, nil
}

// Mint returns the mint an account holds.
func (b *Bank) Mint(account solana.PublicKey) (solana.PublicKey, error) {
	acct, ok := b.accounts[account]
	if !ok {
		return solana.PublicKey{}, fmt.Errorf("%w: %s", ErrUnknownAccount, account)
	}
	return acct.Mint, nil
}

// Supply returns the mint's live total supply.
func (b *Bank) Supply(mint solana.PublicKey) (uint64, error) {
	m, ok := b.mints[mint]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownMint, mint)
	}
	return m.supply, nil
}

// Transfer moves amount between two accounts of the same mint.
func (b *Bank) Transfer(from, to solana.PublicKey, amount uint64) error {
	src, ok := b.accounts[from]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAccount, from)
	}
	dst, ok := b.accounts[to]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAccount, to)
	}
	if !src.Mint.Equals(dst.Mint) {
		return fmt.Errorf("%w: %s -> %s", ErrMintMismatch, src.Mint, dst.Mint)
	}
	if src.Amount < amount {
		return fmt.Errorf("%w: have %d, need %d", ErrInsufficientFunds, src.Amount, amount)
	}
	if dst.Amount+amount < dst.Amount {
		return ErrSupplyOverflow
	}
	src.Amount -= amount
	dst.Amount += amount
	return nil
}

// MintTo creates amount new tokens in the account.
func (b *Bank) MintTo(account solana.PublicKey, amount uint64) error {
	acct, ok := b.accounts[account]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAccount, account)
	}
	m := b.mints[acct.Mint]
	if m.supply+amount < m.supply || acct.Amount+amount < acct.Amount {
		return ErrSupplyOverflow
	}
	m.supply += amount
	acct.Amount += amount
	return nil
}

// Burn destroys amount tokens held by the account.
func (b *Bank) Burn(account solana.PublicKey, amount uint64) error {
	acct, ok := b.accounts[account]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAccount, account)
	}
	if acct.Amount < amount {
		return fmt.Errorf("%w: have %d, need %d", ErrInsufficientFunds, acct.Amount, amount)
	}
	acct.Amount -= amount
	b.mints[acct.Mint].supply -= amount
	return nil
}

// Snapshot captures the full ledger state for later Restore.
type Snapshot struct {
	mints    map[solana.PublicKey]mintState
	accounts map[solana.PublicKey]Account
}

func (b *Bank) Snapshot() Snapshot {
	s := Snapshot{
		mints:    make(map[solana.PublicKey]mintState, len(b.mints)),
		accounts: make(map[solana.PublicKey]Account, len(b.accounts)),
	}
	for k, v := range b.mints {
		s.mints[k] = *v
	}
	for k, v := range b.accounts {
		s.accounts[k] = *v
	}
	return s
}

// Restore rewinds the ledger to a previously taken snapshot.
func (b *Bank) Restore(s Snapshot) {
	b.mints = make(map[solana.PublicKey]*mintState, len(s.mints))
	b.accounts = make(map[solana.PublicKey]*Account, len(s.accounts))
	for k, v := range s.mints {
		m := v
		b.mints[k] = &m
	}
	for k, v := range s.accounts {
		a := v
		b.accounts[k] = &a
	}
}
