package core

import (
	"fmt"
	"log"
	"sync/atomic"

	"github.com/shopspring/decimal"
)

// BidProcessor validates and applies bids against the ledger, moving funds
// through the settlement bank around each state change.
//
// Mutating entry points are guarded by a call-depth flag: any invocation
// that overlaps an in-progress one, nested or otherwise, fails with
// ErrReentrantCall. Callers that want queueing serialize outside (the
// server does). Reads never take the guard.
type BidProcessor struct {
	clock  *WindowClock
	ledger *Ledger
	bank   SettlementBank
	events EventSink

	inCall atomic.Bool
}

// NewBidProcessor wires a processor over the shared clock and ledger.
// events may be nil to discard events.
func NewBidProcessor(clock *WindowClock, ledger *Ledger, bank SettlementBank, events EventSink) *BidProcessor {
	return &BidProcessor{clock: clock, ledger: ledger, bank: bank, events: events}
}

// PlaceBid applies a bid by bidder for the exclusive liquidation right on
// subject during the window after the current one. The bid must strictly
// exceed the current leading bid; the full amount is pulled into escrow
// and the superseded leader, if any, is refunded in the same operation.
//
// The whole call is atomic: on any failure after validation, every state
// write and fund movement is undone before returning.
func (p *BidProcessor) PlaceBid(subject, bidder Identity, amount decimal.Decimal) error {
	if !p.inCall.CompareAndSwap(false, true) {
		return ErrReentrantCall
	}
	defer p.inCall.Store(false)

	if subject == NoIdentity {
		return ErrInvalidSubject
	}
	if bidder == subject {
		return ErrSelfBid
	}
	if amount.Sign() <= 0 {
		return fmt.Errorf("%w: got %s", ErrInvalidAmount, amount)
	}

	window := p.clock.CurrentWindow()
	prev := p.ledger.Read(subject, window)
	if !amount.GreaterThan(prev.Amount) {
		return fmt.Errorf("%w: bid %s, leading %s", ErrBidTooLow, amount, prev.Amount)
	}

	if err := p.bank.Pull(bidder, amount); err != nil {
		return fmt.Errorf("%w: %v", ErrInsufficientFunds, err)
	}

	// The new leader must be on record before the refund transfer runs:
	// the settlement bank can execute arbitrary code on Push, and nothing
	// it reaches may observe the superseded leader as current.
	p.ledger.Write(subject, window, LeaderRecord{Bidder: bidder, Amount: amount})

	if prev.Bidder != NoIdentity {
		if err := p.bank.Push(prev.Bidder, prev.Amount); err != nil {
			// Roll the entire bid back: restore the superseded leader and
			// return the pulled funds. There is no partial acceptance.
			p.ledger.Write(subject, window, prev)
			if cerr := p.bank.Push(bidder, amount); cerr != nil {
				log.Printf("ERROR: returning %s to %s after failed refund: %v", amount, bidder, cerr)
			}
			return fmt.Errorf("refund of %s to %s failed: %w", prev.Amount, prev.Bidder, err)
		}
	}

	p.publish(newEvent(EventBidPlaced, subject, window, bidder, amount))
	if prev.Bidder != NoIdentity {
		p.publish(newEvent(EventBidRefunded, subject, window, prev.Bidder, prev.Amount))
	}
	return nil
}

// CurrentBidder returns the leading bidder and amount for subject in the
// current window, or (NoIdentity, 0) if no bids have been placed. Always
// succeeds; never takes the reentrancy guard.
func (p *BidProcessor) CurrentBidder(subject Identity) (Identity, decimal.Decimal) {
	rec := p.ledger.Read(subject, p.clock.CurrentWindow())
	return rec.Bidder, rec.Amount
}

func (p *BidProcessor) publish(ev Event) {
	if p.events != nil {
		p.events.Publish(ev)
	}
}
