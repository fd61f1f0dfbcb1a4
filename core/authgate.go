package core

import "github.com/shopspring/decimal"

// AuthorizationGate resolves who holds the exclusive liquidation right on
// a subject during the current window: the leader of the immediately
// preceding window, verbatim. It is the sole bridge between the auction
// and the gated action.
type AuthorizationGate struct {
	clock  *WindowClock
	ledger *Ledger
}

// NewAuthorizationGate builds a gate over the shared clock and ledger.
func NewAuthorizationGate(clock *WindowClock, ledger *Ledger) *AuthorizationGate {
	return &AuthorizationGate{clock: clock, ledger: ledger}
}

// AuthorizedActor returns the previous window's leader for subject, or
// (NoIdentity, 0) if that window had no bids, meaning any actor is
// permitted. Authorization never falls back past the previous window: an
// empty window resets the subject to unrestricted.
//
// During window 0 there is no previous window; the clamp to
// max(window-1, 0) means the still-open window 0 record is consulted
// instead.
func (g *AuthorizationGate) AuthorizedActor(subject Identity) (Identity, decimal.Decimal) {
	window := g.clock.CurrentWindow()
	if window > 0 {
		window--
	}
	rec := g.ledger.Read(subject, window)
	return rec.Bidder, rec.Amount
}
