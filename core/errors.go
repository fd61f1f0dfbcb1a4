package core

import "errors"

// Every failure the auction can surface. All are terminal for the operation
// that produced them: nothing is retried or queued, the caller decides
// whether to resubmit.
var (
	// ErrInvalidSubject: the subject is the sentinel empty identity.
	ErrInvalidSubject = errors.New("invalid auction subject")

	// ErrSelfBid: a subject attempted to bid on its own liquidation right.
	ErrSelfBid = errors.New("self-bidding not allowed")

	// ErrInvalidAmount: the bid amount is zero or negative.
	ErrInvalidAmount = errors.New("bid amount must be positive")

	// ErrBidTooLow: the bid does not strictly exceed the current leader.
	ErrBidTooLow = errors.New("bid does not exceed current leading bid")

	// ErrInsufficientFunds: the settlement bank could not pull the bid
	// amount from the bidder. No state was changed.
	ErrInsufficientFunds = errors.New("insufficient funds for bid")

	// ErrReentrantCall: a mutating call arrived while another was still in
	// progress, e.g. a settlement-bank transfer calling back into the
	// auction. Rejected outright, never queued.
	ErrReentrantCall = errors.New("reentrant auction call")

	// ErrUnauthorizedActor: the actor is not the previous window's leader
	// for the subject.
	ErrUnauthorizedActor = errors.New("actor is not authorized to liquidate")

	// ErrCounterRegression: the external counter was reported with a value
	// lower than one already observed.
	ErrCounterRegression = errors.New("monotonic counter moved backwards")
)
