package core

import "github.com/shopspring/decimal"

// WriteObserver is notified of every ledger write so a durable store can
// mirror the in-memory state. Observers must not call back into the
// auction; persistence failures are the observer's to log, the in-memory
// ledger stays authoritative.
type WriteObserver interface {
	LedgerWrite(subject Identity, window uint64, rec LeaderRecord)
}

type ledgerKey struct {
	subject Identity
	window  uint64
}

// Ledger maps (subject, window) to the current leading bid. Reads are O(1)
// and infallible: an absent record reads as the zero LeaderRecord. The
// ledger itself enforces no invariants; the BidProcessor validates before
// every write.
//
// Ledger is not safe for concurrent use. The auction's single-writer
// discipline (see BidProcessor) covers it.
type Ledger struct {
	records  map[ledgerKey]LeaderRecord
	observer WriteObserver
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{records: make(map[ledgerKey]LeaderRecord)}
}

// SetObserver installs the write observer. Pass nil to detach.
func (l *Ledger) SetObserver(obs WriteObserver) {
	l.observer = obs
}

// Read returns the record for (subject, window), or the zero record if
// none exists.
func (l *Ledger) Read(subject Identity, window uint64) LeaderRecord {
	return l.records[ledgerKey{subject, window}]
}

// Write overwrites the record for (subject, window) and notifies the
// observer.
func (l *Ledger) Write(subject Identity, window uint64, rec LeaderRecord) {
	l.records[ledgerKey{subject, window}] = rec
	if l.observer != nil {
		l.observer.LedgerWrite(subject, window, rec)
	}
}

// Restore inserts a record loaded from durable storage without notifying
// the observer.
func (l *Ledger) Restore(subject Identity, window uint64, rec LeaderRecord) {
	l.records[ledgerKey{subject, window}] = rec
}

// EscrowTotal sums every leading amount currently on the ledger. It must
// reconcile with the settlement bank's escrow balance: every leading bid
// is held, every superseded bid has been refunded.
func (l *Ledger) EscrowTotal() decimal.Decimal {
	total := decimal.Zero
	for _, rec := range l.records {
		total = total.Add(rec.Amount)
	}
	return total
}

// Prune drops records for windows before cutoff and returns how many were
// removed. Only archived windows may be pruned; the caller chooses a
// cutoff at most currentWindow-1 so the settled window survives.
func (l *Ledger) Prune(cutoff uint64) int {
	removed := 0
	for key := range l.records {
		if key.window < cutoff {
			delete(l.records, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of records held.
func (l *Ledger) Len() int {
	return len(l.records)
}
