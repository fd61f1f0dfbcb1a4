// Package store persists the auction ledger and its event journal to
// SQLite. The in-memory ledger stays authoritative; the store mirrors
// writes so state survives a restart and liquidation history is auditable.
package store

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/lienworks/liqauction/core"
)

// Store wraps the SQLite database. It implements core.WriteObserver and
// core.EventSink; both swallow persistence errors into the log because the
// in-memory ledger is the source of truth mid-process.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens (or creates) the database at path and runs migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so reads (audit queries) don't block the write path.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("INFO: auction store opened: %s", path)
	return s, nil
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS auction_records (
			subject TEXT    NOT NULL,
			window  INTEGER NOT NULL,
			leader  TEXT    NOT NULL,
			amount  TEXT    NOT NULL,
			PRIMARY KEY (subject, window)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_records_window ON auction_records(window)`,

		`CREATE TABLE IF NOT EXISTS auction_events (
			id         TEXT    PRIMARY KEY,
			kind       TEXT    NOT NULL,
			payload    BLOB    NOT NULL,
			created_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_events_created ON auction_events(created_at)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

// LedgerWrite mirrors a ledger write. Amounts are stored as decimal
// strings so no precision is lost round-tripping.
func (s *Store) LedgerWrite(subject core.Identity, window uint64, rec core.LeaderRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`INSERT INTO auction_records (subject, window, leader, amount)
		VALUES (?,?,?,?)
		ON CONFLICT (subject, window) DO UPDATE SET leader=excluded.leader, amount=excluded.amount`,
		string(subject), int64(window), string(rec.Bidder), rec.Amount.String(),
	)
	if err != nil {
		log.Printf("ERROR: persisting record (%s, %d): %v", subject, window, err)
	}
}

// LoadLedger restores every persisted record into ledger.
func (s *Store) LoadLedger(ledger *core.Ledger) error {
	rows, err := s.db.Query(`SELECT subject, window, leader, amount FROM auction_records`)
	if err != nil {
		return fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	loaded := 0
	for rows.Next() {
		var subject, leader, amount string
		var window int64
		if err := rows.Scan(&subject, &window, &leader, &amount); err != nil {
			return fmt.Errorf("scan record: %w", err)
		}
		amt, err := decimal.NewFromString(amount)
		if err != nil {
			return fmt.Errorf("parse amount %q for (%s, %d): %w", amount, subject, window, err)
		}
		ledger.Restore(core.Identity(subject), uint64(window), core.LeaderRecord{
			Bidder: core.Identity(leader),
			Amount: amt,
		})
		loaded++
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate records: %w", err)
	}

	log.Printf("INFO: restored %d auction records", loaded)
	return nil
}

// journalEvent is the CBOR shape of a journaled domain event.
type journalEvent struct {
	ID      string `cbor:"id"`
	Kind    string `cbor:"kind"`
	Subject string `cbor:"subject"`
	Window  uint64 `cbor:"window"`
	Account string `cbor:"account"`
	Amount  string `cbor:"amount"`
}

// Publish journals a domain event.
func (s *Store) Publish(ev core.Event) {
	payload, err := cbor.Marshal(journalEvent{
		ID:      ev.ID,
		Kind:    string(ev.Kind),
		Subject: string(ev.Subject),
		Window:  ev.Window,
		Account: string(ev.Account),
		Amount:  ev.Amount.String(),
	})
	if err != nil {
		log.Printf("ERROR: encoding event %s: %v", ev.ID, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.db.Exec(`INSERT INTO auction_events (id, kind, payload, created_at) VALUES (?,?,?,?)`,
		ev.ID, string(ev.Kind), payload, time.Now().Unix())
	if err != nil {
		log.Printf("ERROR: journaling event %s: %v", ev.ID, err)
	}
}

// Events returns all journaled events in insertion order. Audit use only.
func (s *Store) Events() ([]core.Event, error) {
	rows, err := s.db.Query(`SELECT payload FROM auction_events ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []core.Event
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		var je journalEvent
		if err := cbor.Unmarshal(payload, &je); err != nil {
			return nil, fmt.Errorf("decode event: %w", err)
		}
		amt, err := decimal.NewFromString(je.Amount)
		if err != nil {
			return nil, fmt.Errorf("parse event amount %q: %w", je.Amount, err)
		}
		events = append(events, core.Event{
			ID:      je.ID,
			Kind:    core.EventKind(je.Kind),
			Subject: core.Identity(je.Subject),
			Window:  je.Window,
			Account: core.Identity(je.Account),
			Amount:  amt,
		})
	}
	return events, rows.Err()
}

// PruneBefore deletes records for windows before cutoff and returns how
// many rows went.
func (s *Store) PruneBefore(cutoff uint64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`DELETE FROM auction_records WHERE window < ?`, int64(cutoff))
	if err != nil {
		return 0, fmt.Errorf("prune records: %w", err)
	}
	return res.RowsAffected()
}

// Close closes the database.
func (s *Store) Close() error {
	log.Printf("INFO: closing auction store")
	return s.db.Close()
}
