// Command auctiond runs the liquidation-rights auction daemon: it restores
// the ledger from SQLite, seeds the settlement bank, and serves the
// JSON-over-TCP auction API.
package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"

	"github.com/lienworks/liqauction/bank"
	"github.com/lienworks/liqauction/config"
	"github.com/lienworks/liqauction/core"
	"github.com/lienworks/liqauction/server"
	"github.com/lienworks/liqauction/store"
)

func main() {
	configPath := pflag.StringP("config", "c", "config.yaml", "Path to YAML config file")
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("ERROR: loading config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("ERROR: invalid config: %v", err)
	}

	if dir := filepath.Dir(cfg.Database.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatalf("ERROR: creating database directory: %v", err)
		}
	}
	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("ERROR: opening store: %v", err)
	}
	defer st.Close()

	bk := bank.NewInMemoryBank()
	for account, balance := range cfg.Accounts {
		amount, err := decimal.NewFromString(balance)
		if err != nil {
			log.Fatalf("ERROR: seeding account %s: %v", account, err)
		}
		bk.Deposit(core.Identity(account), amount)
	}
	log.Printf("INFO: settlement bank seeded with %d accounts", len(cfg.Accounts))

	counter := core.NewMonotonicCounter(cfg.Counter)
	engine := core.NewEngine(counter, cfg.WindowSize, bk, core.FanOut(core.LogSink{}, st))
	engine.Ledger.SetObserver(st)
	if err := st.LoadLedger(engine.Ledger); err != nil {
		log.Fatalf("ERROR: restoring ledger: %v", err)
	}

	srv := server.New(cfg.ListenAddr, engine, counter, cfg.MaxWorkers)

	if cfg.Retention.KeepWindows > 0 {
		sweeper, err := store.NewSweeper(st, engine.Ledger, engine.Clock,
			srv.MutatingLock(), cfg.Retention.KeepWindows, cfg.Retention.SweepCron)
		if err != nil {
			log.Fatalf("ERROR: configuring retention sweeper: %v", err)
		}
		sweeper.Start()
		defer sweeper.Stop()
	} else {
		log.Printf("INFO: retention pruning disabled, keeping full auction history")
	}

	log.Fatal(srv.Start())
}
