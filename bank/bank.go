// Package bank provides an in-process settlement bank holding fungible
// balances. The auction escrows and refunds bids through it; deployments
// that settle against an external token service implement
// core.SettlementBank over that service instead.
package bank

import (
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/lienworks/liqauction/core"
)

// ErrInsufficientBalance: the source account cannot cover the transfer.
var ErrInsufficientBalance = errors.New("insufficient balance")

// InMemoryBank keeps per-account balances plus a single escrow balance in
// memory. Safe for concurrent use.
type InMemoryBank struct {
	mu       sync.Mutex
	balances map[core.Identity]decimal.Decimal
	escrow   decimal.Decimal
}

// NewInMemoryBank returns a bank with no accounts.
func NewInMemoryBank() *InMemoryBank {
	return &InMemoryBank{balances: make(map[core.Identity]decimal.Decimal)}
}

// Deposit credits amount to the account, creating it if needed.
func (b *InMemoryBank) Deposit(account core.Identity, amount decimal.Decimal) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.balances[account] = b.balances[account].Add(amount)
}

// Pull moves amount from the account into escrow. Fails with
// ErrInsufficientBalance if the account cannot cover it.
func (b *InMemoryBank) Pull(from core.Identity, amount decimal.Decimal) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	bal := b.balances[from]
	if bal.LessThan(amount) {
		return fmt.Errorf("%w: account %s has %s, needs %s", ErrInsufficientBalance, from, bal, amount)
	}
	b.balances[from] = bal.Sub(amount)
	b.escrow = b.escrow.Add(amount)
	return nil
}

// Push moves amount from escrow back to the account. Fails with
// ErrInsufficientBalance if escrow cannot cover it, which indicates a
// reconciliation bug in the caller.
func (b *InMemoryBank) Push(to core.Identity, amount decimal.Decimal) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.escrow.LessThan(amount) {
		return fmt.Errorf("%w: escrow has %s, needs %s", ErrInsufficientBalance, b.escrow, amount)
	}
	b.escrow = b.escrow.Sub(amount)
	b.balances[to] = b.balances[to].Add(amount)
	return nil
}

// Balance returns the account's current balance.
func (b *InMemoryBank) Balance(account core.Identity) decimal.Decimal {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.balances[account]
}

// EscrowBalance returns the funds currently held in escrow.
func (b *InMemoryBank) EscrowBalance() decimal.Decimal {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.escrow
}
