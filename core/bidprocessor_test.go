package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"

	"github.com/shopspring/decimal"
)

func TestPlaceBid_FirstBidBecomesLeader(t *testing.T) {
	a := newTestAuction(t, map[Identity]string{"bidder_a": "100"})

	assert.Nil(t, a.Processor.PlaceBid("borrower_x", "bidder_a", dec("1")))

	leader, amount := a.Processor.CurrentBidder("borrower_x")
	check.Equal(t, Identity("bidder_a"), leader)
	check.Equal(t, dec("1"), amount)

	// The bid is escrowed, not spent.
	check.Equal(t, dec("99"), a.bank.balances["bidder_a"])
	check.Equal(t, dec("1"), a.bank.escrow)
}

func TestPlaceBid_HigherBidSupersedesAndRefunds(t *testing.T) {
	a := newTestAuction(t, map[Identity]string{"bidder_a": "100", "bidder_b": "100"})

	assert.Nil(t, a.Processor.PlaceBid("borrower_x", "bidder_a", dec("1")))
	assert.Nil(t, a.Processor.PlaceBid("borrower_x", "bidder_b", dec("2")))

	leader, amount := a.Processor.CurrentBidder("borrower_x")
	check.Equal(t, Identity("bidder_b"), leader)
	check.Equal(t, dec("2"), amount)

	// The superseded bidder is made whole immediately.
	check.Equal(t, dec("100"), a.bank.balances["bidder_a"])
	check.Equal(t, dec("98"), a.bank.balances["bidder_b"])
	check.Equal(t, dec("2"), a.bank.escrow)
}

func TestPlaceBid_RejectsEmptySubject(t *testing.T) {
	a := newTestAuction(t, map[Identity]string{"bidder_a": "100"})

	err := a.Processor.PlaceBid(NoIdentity, "bidder_a", dec("1"))
	check.True(t, errors.Is(err, ErrInvalidSubject))
	check.Equal(t, dec("100"), a.bank.balances["bidder_a"])
}

func TestPlaceBid_RejectsSelfBid(t *testing.T) {
	a := newTestAuction(t, map[Identity]string{"borrower_x": "100"})

	err := a.Processor.PlaceBid("borrower_x", "borrower_x", dec("5"))
	check.True(t, errors.Is(err, ErrSelfBid))

	// Ledger untouched, no funds moved.
	leader, amount := a.Processor.CurrentBidder("borrower_x")
	check.Equal(t, NoIdentity, leader)
	check.True(t, amount.IsZero())
	check.Equal(t, dec("100"), a.bank.balances["borrower_x"])
}

func TestPlaceBid_RejectsNonPositiveAmount(t *testing.T) {
	a := newTestAuction(t, map[Identity]string{"bidder_a": "100"})

	err := a.Processor.PlaceBid("borrower_x", "bidder_a", decimal.Zero)
	check.True(t, errors.Is(err, ErrInvalidAmount))

	err = a.Processor.PlaceBid("borrower_x", "bidder_a", dec("-3"))
	check.True(t, errors.Is(err, ErrInvalidAmount))
}

func TestPlaceBid_RejectsEqualOrLowerBid(t *testing.T) {
	a := newTestAuction(t, map[Identity]string{"bidder_a": "100", "bidder_b": "100"})

	assert.Nil(t, a.Processor.PlaceBid("borrower_x", "bidder_a", dec("5")))

	err := a.Processor.PlaceBid("borrower_x", "bidder_b", dec("5"))
	check.True(t, errors.Is(err, ErrBidTooLow))

	err = a.Processor.PlaceBid("borrower_x", "bidder_b", dec("4"))
	check.True(t, errors.Is(err, ErrBidTooLow))

	// A rejected bid changes nothing and moves no funds.
	leader, amount := a.Processor.CurrentBidder("borrower_x")
	check.Equal(t, Identity("bidder_a"), leader)
	check.Equal(t, dec("5"), amount)
	check.Equal(t, dec("100"), a.bank.balances["bidder_b"])
	check.Equal(t, dec("5"), a.bank.escrow)
}

func TestPlaceBid_InsufficientFundsLeavesStateUntouched(t *testing.T) {
	a := newTestAuction(t, map[Identity]string{"bidder_a": "100", "bidder_b": "1"})

	assert.Nil(t, a.Processor.PlaceBid("borrower_x", "bidder_a", dec("10")))

	err := a.Processor.PlaceBid("borrower_x", "bidder_b", dec("20"))
	check.True(t, errors.Is(err, ErrInsufficientFunds))

	leader, amount := a.Processor.CurrentBidder("borrower_x")
	check.Equal(t, Identity("bidder_a"), leader)
	check.Equal(t, dec("10"), amount)
	check.Equal(t, dec("1"), a.bank.balances["bidder_b"])
}

func TestPlaceBid_RefundFailureRollsBackEverything(t *testing.T) {
	a := newTestAuction(t, map[Identity]string{"bidder_a": "100", "bidder_b": "100"})

	assert.Nil(t, a.Processor.PlaceBid("borrower_x", "bidder_a", dec("1")))

	// Fail only the refund to bidder_a; the compensating return to
	// bidder_b must still go through.
	a.bank.pushHook = func(to Identity, amount decimal.Decimal) error {
		if to == "bidder_a" {
			return fmt.Errorf("token transfer reverted")
		}
		return nil
	}

	err := a.Processor.PlaceBid("borrower_x", "bidder_b", dec("2"))
	check.Error(t, err)

	// The superseded leader is restored and every balance is as before
	// the failed bid.
	leader, amount := a.Processor.CurrentBidder("borrower_x")
	check.Equal(t, Identity("bidder_a"), leader)
	check.Equal(t, dec("1"), amount)
	check.Equal(t, dec("99"), a.bank.balances["bidder_a"])
	check.Equal(t, dec("100"), a.bank.balances["bidder_b"])
	check.Equal(t, dec("1"), a.bank.escrow)
}

func TestPlaceBid_RejectsReentrantCallback(t *testing.T) {
	a := newTestAuction(t, map[Identity]string{"bidder_a": "100", "bidder_b": "100", "mallory": "100"})

	assert.Nil(t, a.Processor.PlaceBid("borrower_x", "bidder_a", dec("1")))

	// The refund transfer tries to sneak in another bid mid-operation.
	var nested error
	called := false
	a.bank.pushHook = func(to Identity, amount decimal.Decimal) error {
		called = true
		nested = a.Processor.PlaceBid("borrower_x", "mallory", dec("50"))
		return nil
	}

	assert.Nil(t, a.Processor.PlaceBid("borrower_x", "bidder_b", dec("2")))

	check.True(t, called)
	check.True(t, errors.Is(nested, ErrReentrantCall))

	// Only the outer bid took effect, and it had already written the new
	// leader before the callback ran.
	leader, amount := a.Processor.CurrentBidder("borrower_x")
	check.Equal(t, Identity("bidder_b"), leader)
	check.Equal(t, dec("2"), amount)
	check.Equal(t, dec("100"), a.bank.balances["mallory"])
}

func TestPlaceBid_LeaderAmountStrictlyIncreases(t *testing.T) {
	a := newTestAuction(t, map[Identity]string{"bidder_a": "1000", "bidder_b": "1000"})

	last := decimal.Zero
	bidders := []Identity{"bidder_a", "bidder_b"}
	amounts := []string{"1", "2", "3.5", "10", "250"}

	for i, raw := range amounts {
		assert.Nil(t, a.Processor.PlaceBid("borrower_x", bidders[i%2], dec(raw)))
		_, amount := a.Processor.CurrentBidder("borrower_x")
		check.True(t, amount.GreaterThan(last))
		last = amount
	}

	// Funds on the ledger reconcile with funds held in escrow.
	check.Equal(t, a.Ledger.EscrowTotal(), a.bank.escrow)
}

func TestPlaceBid_TinyBidSupersededByHugeBid(t *testing.T) {
	a := newTestAuction(t, map[Identity]string{"bidder_a": "1", "bidder_b": "2000000"})

	assert.Nil(t, a.Processor.PlaceBid("borrower_x", "bidder_a", dec("1")))
	assert.Nil(t, a.Processor.PlaceBid("borrower_x", "bidder_b", dec("1000000")))

	leader, amount := a.Processor.CurrentBidder("borrower_x")
	check.Equal(t, Identity("bidder_b"), leader)
	check.Equal(t, dec("1000000"), amount)

	// bidder_a got back exactly its one-unit bid.
	check.Equal(t, dec("1"), a.bank.balances["bidder_a"])
}

func TestPlaceBid_NewWindowStartsWithoutLeader(t *testing.T) {
	a := newTestAuction(t, map[Identity]string{"bidder_b": "100"})

	assert.Nil(t, a.Processor.PlaceBid("borrower_x", "bidder_b", dec("2")))

	a.counter.Advance(a.Clock.WindowSize())

	leader, amount := a.Processor.CurrentBidder("borrower_x")
	check.Equal(t, NoIdentity, leader)
	check.True(t, amount.IsZero())

	// A fresh auction in the new window starts from zero again.
	assert.Nil(t, a.Processor.PlaceBid("borrower_x", "bidder_b", dec("1")))
	leader, amount = a.Processor.CurrentBidder("borrower_x")
	check.Equal(t, Identity("bidder_b"), leader)
	check.Equal(t, dec("1"), amount)
}

func TestPlaceBid_SubjectsAuctionIndependently(t *testing.T) {
	a := newTestAuction(t, map[Identity]string{"bidder_a": "100", "bidder_b": "100"})

	assert.Nil(t, a.Processor.PlaceBid("borrower_x", "bidder_a", dec("5")))
	assert.Nil(t, a.Processor.PlaceBid("borrower_y", "bidder_b", dec("1")))

	leader, _ := a.Processor.CurrentBidder("borrower_x")
	check.Equal(t, Identity("bidder_a"), leader)

	leader, amount := a.Processor.CurrentBidder("borrower_y")
	check.Equal(t, Identity("bidder_b"), leader)
	check.Equal(t, dec("1"), amount)

	check.Equal(t, a.Ledger.EscrowTotal(), a.bank.escrow)
}
