package core

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
)

// testBank is an in-test settlement bank with a hook on Push so tests can
// simulate refund failures and reentrant callbacks from the token layer.
type testBank struct {
	balances map[Identity]decimal.Decimal
	escrow   decimal.Decimal

	// pushHook runs before the transfer; a non-nil error fails the Push
	// with no funds moved.
	pushHook func(to Identity, amount decimal.Decimal) error
}

func newTestBank(seed map[Identity]string) *testBank {
	b := &testBank{balances: make(map[Identity]decimal.Decimal)}
	for account, balance := range seed {
		b.balances[account] = decimal.RequireFromString(balance)
	}
	return b
}

func (b *testBank) Pull(from Identity, amount decimal.Decimal) error {
	if b.balances[from].LessThan(amount) {
		return fmt.Errorf("account %s has %s, needs %s", from, b.balances[from], amount)
	}
	b.balances[from] = b.balances[from].Sub(amount)
	b.escrow = b.escrow.Add(amount)
	return nil
}

func (b *testBank) Push(to Identity, amount decimal.Decimal) error {
	if b.pushHook != nil {
		if err := b.pushHook(to, amount); err != nil {
			return err
		}
	}
	if b.escrow.LessThan(amount) {
		return fmt.Errorf("escrow has %s, needs %s", b.escrow, amount)
	}
	b.escrow = b.escrow.Sub(amount)
	b.balances[to] = b.balances[to].Add(amount)
	return nil
}

// testAuction bundles an engine with its counter and bank for scenario
// tests.
type testAuction struct {
	*Engine
	counter *MonotonicCounter
	bank    *testBank
}

// newTestAuction builds an engine with window size 100, counter at 0, and
// the given seeded balances.
func newTestAuction(t *testing.T, seed map[Identity]string) *testAuction {
	t.Helper()
	counter := NewMonotonicCounter(0)
	bank := newTestBank(seed)
	return &testAuction{
		Engine:  NewEngine(counter, DefaultWindowSize, bank, nil),
		counter: counter,
		bank:    bank,
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
