// Package bootstrap assembles the ledger services from configuration. The
// API server and ledgerctl share it so both run with the same cache, lock
// and notification setup.
package bootstrap

import (
	"context"
	"fmt"

	accountingapp "github.com/flockbooks/backend/internal/application/accounting"
	"github.com/flockbooks/backend/internal/infrastructure/cache"
	"github.com/flockbooks/backend/internal/infrastructure/config"
	"github.com/flockbooks/backend/internal/infrastructure/lock"
	"github.com/flockbooks/backend/internal/infrastructure/persistence"
	"github.com/flockbooks/backend/internal/infrastructure/telemetry"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Ledger holds the wired application services.
type Ledger struct {
	Groups   *accountingapp.GroupService
	Accounts *accountingapp.AccountService
	Balances *accountingapp.BalanceService
	Reports  *accountingapp.ReportService

	// Redis is nil when redis.enabled is false.
	Redis *redis.Client
}

// NewLedger builds the services over db. With Redis enabled, reports are
// cached there and balance writers take distributed locks; otherwise both
// stay in process. metrics may be nil.
func NewLedger(ctx context.Context, cfg *config.Config, db *gorm.DB, log *zap.Logger, metrics *telemetry.LedgerMetrics) (*Ledger, error) {
	settings, err := cfg.AccountingSettings()
	if err != nil {
		return nil, err
	}

	l := &Ledger{}
	var (
		reportCache accountingapp.ReportCache
		locker      accountingapp.AccountLocker
	)
	if cfg.Redis.Enabled {
		l.Redis, err = cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}
		reportCache = cache.NewRedisReportCache(l.Redis, cfg.Accounting.ReportCacheTTL, log)
		locker = lock.NewRedisAccountLocker(l.Redis, cfg.Accounting.LockTTL, cfg.Accounting.LockTTL)
		log.Info("Redis report cache and account locks enabled", zap.String("addr", cfg.Redis.Addr()))
	} else {
		reportCache = cache.NewInMemoryReportCache(cfg.Accounting.ReportCacheTTL)
		locker = lock.NewLocalAccountLocker()
	}

	opts := []accountingapp.Option{
		accountingapp.WithLogger(log),
		accountingapp.WithCache(reportCache),
	}
	if metrics != nil {
		opts = append(opts, accountingapp.WithMetrics(metrics))
	}

	groups := persistence.NewGormGroupRepository(db)
	accounts := persistence.NewGormAccountRepository(db)
	sources := persistence.NewGormSourceRepository(db)

	l.Balances = accountingapp.NewBalanceService(groups, accounts, sources, settings, accountingapp.MutationPolicy{
		MaxRetries: cfg.Accounting.MutationMaxRetries,
		Backoff:    cfg.Accounting.MutationRetryBackoff,
		Locker:     locker,
		Notifier:   accountingapp.NewLogNotifier(log),
	}, opts...)

	var reconciler accountingapp.Reconciler
	if cfg.Accounting.ReconcileOnStatement {
		reconciler = l.Balances
	}
	l.Reports = accountingapp.NewReportService(groups, accounts, sources, settings, reconciler, opts...)
	l.Groups = accountingapp.NewGroupService(groups, accounts, opts...)
	l.Accounts = accountingapp.NewAccountService(groups, accounts, l.Balances, opts...)

	return l, nil
}

// Close releases the Redis connection, if any.
func (l *Ledger) Close() error {
	if l.Redis == nil {
		return nil
	}
	return l.Redis.Close()
}
