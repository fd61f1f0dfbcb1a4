package store

import (
	"fmt"
	"log"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/lienworks/liqauction/core"
)

// Sweeper prunes archived auction records on a cron schedule. Only the
// immediately preceding (settled) window is ever consulted by
// authorization, so anything older is pure audit history; deployments that
// want the full trail disable the sweeper and keep every record, which is
// the default.
type Sweeper struct {
	cron        *cron.Cron
	store       *Store
	ledger      *core.Ledger
	clock       *core.WindowClock
	keepWindows uint64

	// mu guards the in-memory ledger; it is the same lock the server holds
	// around mutating auction calls. May be nil when the caller does not
	// mutate concurrently (tests).
	mu sync.Locker
}

// NewSweeper builds a sweeper that retains the current window plus
// keepWindows settled/archived windows behind it. keepWindows must be at
// least 1 so the settled window, which authorization still reads, is never
// pruned. mu is held while the in-memory ledger is pruned.
func NewSweeper(st *Store, ledger *core.Ledger, clock *core.WindowClock, mu sync.Locker, keepWindows uint64, schedule string) (*Sweeper, error) {
	if keepWindows == 0 {
		return nil, fmt.Errorf("keepWindows must be >= 1 to preserve the settled window")
	}

	s := &Sweeper{
		cron:        cron.New(),
		store:       st,
		ledger:      ledger,
		clock:       clock,
		keepWindows: keepWindows,
		mu:          mu,
	}
	if _, err := s.cron.AddFunc(schedule, s.sweep); err != nil {
		return nil, fmt.Errorf("invalid sweep schedule %q: %w", schedule, err)
	}
	return s, nil
}

// Start begins running sweeps on the schedule.
func (s *Sweeper) Start() {
	s.cron.Start()
	log.Printf("INFO: retention sweeper started (keep %d windows)", s.keepWindows)
}

// Stop stops scheduling further sweeps. A sweep already running completes.
func (s *Sweeper) Stop() {
	s.cron.Stop()
}

func (s *Sweeper) sweep() {
	current := s.clock.CurrentWindow()
	if current < s.keepWindows {
		return
	}
	cutoff := current - s.keepWindows

	if s.mu != nil {
		s.mu.Lock()
	}
	dropped := s.ledger.Prune(cutoff)
	if s.mu != nil {
		s.mu.Unlock()
	}

	rows, err := s.store.PruneBefore(cutoff)
	if err != nil {
		log.Printf("ERROR: retention sweep (cutoff window %d): %v", cutoff, err)
		return
	}
	log.Printf("INFO: retention sweep: pruned %d ledger records, %d stored rows before window %d",
		dropped, rows, cutoff)
}
