// Package config loads the daemon configuration from a YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config holds all daemon configuration.
type Config struct {
	ListenAddr string `yaml:"listen_addr"`
	WindowSize uint64 `yaml:"window_size"`
	MaxWorkers int    `yaml:"max_workers"`
	Counter    uint64 `yaml:"counter"`

	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`

	Retention struct {
		// KeepWindows is how many windows behind the current one to
		// retain. 0 disables pruning and keeps the full history.
		KeepWindows uint64 `yaml:"keep_windows"`
		SweepCron   string `yaml:"sweep_cron"`
	} `yaml:"retention"`

	// Accounts seeds the in-memory settlement bank: identity → balance as
	// a decimal string.
	Accounts map[string]string `yaml:"accounts"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is not an error; overrides and
// defaults still apply.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("AUCTION_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("AUCTION_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("AUCTION_WINDOW_SIZE"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid AUCTION_WINDOW_SIZE %q: %w", v, err)
		}
		cfg.WindowSize = n
	}
	if v := os.Getenv("AUCTION_MAX_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid AUCTION_MAX_WORKERS %q: %w", v, err)
		}
		cfg.MaxWorkers = n
	}

	// Defaults
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":7345"
	}
	if cfg.WindowSize == 0 {
		cfg.WindowSize = 100
	}
	if cfg.MaxWorkers == 0 {
		cfg.MaxWorkers = 8
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "data/auction.db"
	}
	if cfg.Retention.SweepCron == "" {
		cfg.Retention.SweepCron = "0 * * * *"
	}

	return cfg, nil
}

// Validate checks field ranges and that every seeded balance parses as a
// non-negative decimal.
func (c *Config) Validate() error {
	if c.MaxWorkers <= 0 {
		return fmt.Errorf("max_workers must be positive")
	}
	for account, balance := range c.Accounts {
		if account == "" {
			return fmt.Errorf("accounts: empty identity")
		}
		amt, err := decimal.NewFromString(balance)
		if err != nil {
			return fmt.Errorf("accounts.%s: invalid balance %q: %w", account, balance, err)
		}
		if amt.Sign() < 0 {
			return fmt.Errorf("accounts.%s: balance must not be negative", account)
		}
	}
	return nil
}
