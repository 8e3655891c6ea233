package main

import (
	"context"
	"fmt"
	"os"

	"github.com/flockbooks/backend/internal/bootstrap"
	"github.com/flockbooks/backend/internal/infrastructure/config"
	"github.com/flockbooks/backend/internal/infrastructure/logger"
	"github.com/flockbooks/backend/internal/infrastructure/persistence"
	"github.com/flockbooks/backend/internal/interfaces/cli"
	"go.uber.org/zap"
)

var version = "dev"

func main() {
	var cleanup []func()
	defer func() {
		for i := len(cleanup) - 1; i >= 0; i-- {
			cleanup[i]()
		}
	}()

	open := func(ctx context.Context) (*cli.Services, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, fmt.Errorf("loading configuration: %w", err)
		}
		// stdout carries the JSON result, so logs go to stderr.
		log, err := logger.New(logger.Config{Level: cfg.Log.Level, Format: "console", Output: "stderr"})
		if err != nil {
			return nil, err
		}
		cleanup = append(cleanup, func() { _ = log.Sync() })

		db, err := persistence.NewDatabase(cfg, log)
		if err != nil {
			return nil, err
		}
		cleanup = append(cleanup, func() {
			if err := db.Close(); err != nil {
				log.Warn("Error closing database", zap.Error(err))
			}
		})

		ledger, err := bootstrap.NewLedger(ctx, cfg, db.DB, log, nil)
		if err != nil {
			return nil, err
		}
		cleanup = append(cleanup, func() { _ = ledger.Close() })

		return &cli.Services{
			Groups:   ledger.Groups,
			Balances: ledger.Balances,
			Reports:  ledger.Reports,
		}, nil
	}

	if err := cli.NewRootCommand(version, open).Execute(); err != nil {
		for i := len(cleanup) - 1; i >= 0; i-- {
			cleanup[i]()
		}
		os.Exit(1)
	}
}
