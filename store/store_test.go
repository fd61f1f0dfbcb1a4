package store

import (
	"path/filepath"
	"testing"

	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"
	"github.com/shopspring/decimal"

	"github.com/lienworks/liqauction/core"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "auction.db"))
	assert.Nil(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestStore_LedgerRoundTrip(t *testing.T) {
	s := openTestStore(t)

	s.LedgerWrite("borrower_x", 0, core.LeaderRecord{Bidder: "bidder_a", Amount: dec("1")})
	s.LedgerWrite("borrower_y", 0, core.LeaderRecord{Bidder: "bidder_b", Amount: dec("2.25")})
	// Overwrite: a superseding bid replaces the row, not duplicates it.
	s.LedgerWrite("borrower_x", 0, core.LeaderRecord{Bidder: "bidder_c", Amount: dec("3")})

	ledger := core.NewLedger()
	assert.Nil(t, s.LoadLedger(ledger))

	check.Equal(t, 2, ledger.Len())

	rec := ledger.Read("borrower_x", 0)
	check.Equal(t, core.Identity("bidder_c"), rec.Bidder)
	check.Equal(t, dec("3"), rec.Amount)

	rec = ledger.Read("borrower_y", 0)
	check.Equal(t, core.Identity("bidder_b"), rec.Bidder)
	check.Equal(t, dec("2.25"), rec.Amount)
}

func TestStore_EventJournalRoundTrip(t *testing.T) {
	s := openTestStore(t)

	s.Publish(core.Event{
		ID:      "ev-1",
		Kind:    core.EventBidPlaced,
		Subject: "borrower_x",
		Window:  4,
		Account: "bidder_b",
		Amount:  dec("2"),
	})
	s.Publish(core.Event{
		ID:      "ev-2",
		Kind:    core.EventBidRefunded,
		Subject: "borrower_x",
		Window:  4,
		Account: "bidder_a",
		Amount:  dec("1"),
	})

	events, err := s.Events()
	assert.Nil(t, err)
	assert.Equal(t, 2, len(events))

	check.Equal(t, "ev-1", events[0].ID)
	check.Equal(t, core.EventBidPlaced, events[0].Kind)
	check.Equal(t, core.Identity("borrower_x"), events[0].Subject)
	check.Equal(t, uint64(4), events[0].Window)
	check.Equal(t, core.Identity("bidder_b"), events[0].Account)
	check.Equal(t, dec("2"), events[0].Amount)

	check.Equal(t, "ev-2", events[1].ID)
	check.Equal(t, core.EventBidRefunded, events[1].Kind)
	check.Equal(t, dec("1"), events[1].Amount)
}

func TestStore_PruneBefore(t *testing.T) {
	s := openTestStore(t)

	for window := uint64(0); window < 6; window++ {
		s.LedgerWrite("borrower_x", window, core.LeaderRecord{Bidder: "bidder_a", Amount: dec("1")})
	}

	rows, err := s.PruneBefore(4)
	assert.Nil(t, err)
	check.Equal(t, int64(4), rows)

	ledger := core.NewLedger()
	assert.Nil(t, s.LoadLedger(ledger))
	check.Equal(t, 2, ledger.Len())
	check.Equal(t, core.Identity("bidder_a"), ledger.Read("borrower_x", 4).Bidder)
	check.Equal(t, core.Identity("bidder_a"), ledger.Read("borrower_x", 5).Bidder)
}
