package core

import (
	"errors"
	"testing"

	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"
)

func TestBeforeAction_UnrestrictedAllowsAnyActor(t *testing.T) {
	a := newTestAuction(t, map[Identity]string{})

	// No bids in the previous window: every actor may liquidate.
	a.counter.Advance(a.Clock.WindowSize())

	check.Nil(t, a.Gate.BeforeAction("borrower_x", "liquidator_1"))
	check.Nil(t, a.Gate.BeforeAction("borrower_x", "liquidator_2"))
}

func TestBeforeAction_AllowsOnlyTheRightHolder(t *testing.T) {
	a := newTestAuction(t, map[Identity]string{"bidder_b": "100"})

	assert.Nil(t, a.Processor.PlaceBid("borrower_x", "bidder_b", dec("2")))
	a.counter.Advance(a.Clock.WindowSize())

	check.Nil(t, a.Gate.BeforeAction("borrower_x", "bidder_b"))

	err := a.Gate.BeforeAction("borrower_x", "liquidator_1")
	check.True(t, errors.Is(err, ErrUnauthorizedActor))
}

func TestBeforeAction_RestrictionIsPerSubject(t *testing.T) {
	a := newTestAuction(t, map[Identity]string{"bidder_b": "100"})

	assert.Nil(t, a.Processor.PlaceBid("borrower_x", "bidder_b", dec("2")))
	a.counter.Advance(a.Clock.WindowSize())

	// borrower_y had no auction: unrestricted.
	check.Nil(t, a.Gate.BeforeAction("borrower_y", "liquidator_1"))

	err := a.Gate.BeforeAction("borrower_x", "liquidator_1")
	check.True(t, errors.Is(err, ErrUnauthorizedActor))
}

func TestAfterAction_IsANoOp(t *testing.T) {
	a := newTestAuction(t, map[Identity]string{"bidder_b": "100"})

	assert.Nil(t, a.Processor.PlaceBid("borrower_x", "bidder_b", dec("2")))
	a.Gate.AfterAction("borrower_x", "bidder_b")

	leader, amount := a.Processor.CurrentBidder("borrower_x")
	check.Equal(t, Identity("bidder_b"), leader)
	check.Equal(t, dec("2"), amount)
}
