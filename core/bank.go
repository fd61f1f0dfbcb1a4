package core

import "github.com/shopspring/decimal"

// SettlementBank moves fungible funds between bidder accounts and the
// auction's escrow. Both transfers are synchronous and can fail hard
// (insufficient balance); a failure aborts the auction operation that
// requested it.
//
// Implementations may run arbitrary code on transfer (token layers with
// transfer hooks do), which is exactly why the BidProcessor guards
// against reentrant calls.
type SettlementBank interface {
	// Pull moves amount from the account into escrow.
	Pull(from Identity, amount decimal.Decimal) error
	// Push moves amount from escrow back to the account.
	Push(to Identity, amount decimal.Decimal) error
}
