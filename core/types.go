package core

import "github.com/shopspring/decimal"

// Identity is an opaque account identifier: a borrower, a bidder, or a
// liquidator. The zero value is the sentinel "no identity" and is never a
// valid auction subject.
type Identity string

// NoIdentity is the sentinel empty identity.
const NoIdentity Identity = ""

// DefaultWindowSize is the number of counter ticks in one auction window.
const DefaultWindowSize uint64 = 100

// LeaderRecord is the current leading bid for one (subject, window) pair.
// The zero value means "no bids yet": no leader, amount zero.
type LeaderRecord struct {
	Bidder Identity
	Amount decimal.Decimal
}

// WindowState describes a window relative to the clock's current window.
// It is always derived by comparison, never stored, so it cannot drift
// from the counter.
type WindowState int

const (
	// Bidding: the window is current and its record is still mutable.
	Bidding WindowState = iota
	// Settled: the window immediately preceding the current one. Its
	// leader is the authorized actor for the current window.
	Settled
	// Archived: older than the settled window. Retained, never consulted.
	Archived
)

// StateOf derives the state of window relative to current.
func StateOf(window, current uint64) WindowState {
	switch {
	case window >= current:
		return Bidding
	case window+1 == current:
		return Settled
	default:
		return Archived
	}
}

func (s WindowState) String() string {
	switch s {
	case Bidding:
		return "bidding"
	case Settled:
		return "settled"
	default:
		return "archived"
	}
}
