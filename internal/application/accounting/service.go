// Package accounting holds the application services over the ledger core:
// reports, balance mutations, the chart of accounts and account records.
package accounting

import (
	"context"
	"sort"
	"time"

	"github.com/flockbooks/backend/internal/domain/accounting"
	"github.com/flockbooks/backend/internal/infrastructure/logger"
	"github.com/flockbooks/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReportCache stores built reports. Any balance or chart write invalidates it.
type ReportCache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Invalidate(ctx context.Context) error
}

// AccountLocker serializes writers of one account. The returned function
// releases the lock.
type AccountLocker interface {
	Lock(ctx context.Context, key string) (func(ctx context.Context) error, error)
}

// BalanceNotifier is told about customer-facing balance changes, typically
// to send an SMS.
type BalanceNotifier interface {
	BalanceChanged(ctx context.Context, change BalanceChange) error
}

// Option configures the ambient dependencies of a service.
type Option func(*serviceBase)

// WithLogger sets the logger used when a request carries none.
func WithLogger(l *zap.Logger) Option {
	return func(b *serviceBase) { b.logger = l }
}

// WithMetrics records ledger metrics.
func WithMetrics(m *telemetry.LedgerMetrics) Option {
	return func(b *serviceBase) { b.metrics = m }
}

// WithCache enables report caching and cache invalidation on writes.
func WithCache(c ReportCache) Option {
	return func(b *serviceBase) { b.cache = c }
}

type serviceBase struct {
	logger  *zap.Logger
	metrics *telemetry.LedgerMetrics
	cache   ReportCache
}

func newServiceBase(opts []Option) serviceBase {
	b := serviceBase{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

func (b *serviceBase) log(ctx context.Context) *logger.ContextLogger {
	return logger.LOr(ctx, b.logger)
}

func (b *serviceBase) invalidate(ctx context.Context) {
	if b.cache == nil {
		return
	}
	if err := b.cache.Invalidate(ctx); err != nil {
		b.log(ctx).Warn("report cache invalidation failed", zap.Error(err))
	}
}

func (b *serviceBase) cached(ctx context.Context, key string, dst any) bool {
	if b.cache == nil {
		return false
	}
	ok, err := b.cache.Get(ctx, key, dst)
	if err != nil {
		b.log(ctx).Warn("report cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return ok
}

func (b *serviceBase) store(ctx context.Context, key string, value any) {
	if b.cache == nil {
		return
	}
	if err := b.cache.Set(ctx, key, value); err != nil {
		b.log(ctx).Warn("report cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// reportWarnings logs skipped source records and counts them per source type.
func (b *serviceBase) reportWarnings(ctx context.Context, report string, warnings []accounting.AggregationWarning) {
	if len(warnings) == 0 {
		return
	}
	bySource := make(map[string]int)
	for _, w := range warnings {
		bySource[string(w.SourceType)]++
		b.log(ctx).Warn("source record skipped",
			zap.String("report", report),
			zap.Stringer("account_id", w.AccountID),
			zap.String("source_type", string(w.SourceType)),
			zap.Stringer("source_id", w.SourceID),
			zap.String("reason", w.Reason),
		)
	}
	sources := make([]string, 0, len(bySource))
	for st := range bySource {
		sources = append(sources, st)
	}
	sort.Strings(sources)
	for _, st := range sources {
		b.metrics.AggregationWarnings(ctx, st, bySource[st])
	}
}

// ledgerReader loads everything a report needs in one pass.
type ledgerReader struct {
	groups   accounting.GroupRepository
	accounts accounting.AccountRepository
	sources  accounting.SourceRepository
	agg      *accounting.TransactionAggregator
}

type ledgerSnapshot struct {
	tree     *accounting.AccountTree
	accounts []accounting.Account
	sources  accounting.SourceSet
	agg      *accounting.TransactionAggregator
}

// snapshot reads the chart, every account and the sources dated up to until.
// History is scanned in full; there is no pagination.
func (r *ledgerReader) snapshot(ctx context.Context, until *time.Time) (*ledgerSnapshot, error) {
	groups, err := r.groups.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	accounts, err := r.accounts.FindEverything(ctx)
	if err != nil {
		return nil, err
	}
	sources, err := accounting.LoadSources(ctx, r.sources, accounting.SourceFilter{Until: until})
	if err != nil {
		return nil, err
	}
	return &ledgerSnapshot{
		tree:     accounting.BuildAccountTree(groups, accounts),
		accounts: accounts,
		sources:  sources,
		agg:      r.agg,
	}, nil
}

func (s *ledgerSnapshot) find(kind accounting.AccountKind, id uuid.UUID) (accounting.Account, bool) {
	for _, acc := range s.accounts {
		if acc.Kind() == kind && acc.GetID() == id {
			return acc, true
		}
	}
	return nil, false
}

// naturalSide resolves an account's polarity from its group. Accounts with
// a missing group fall back to the debit side.
func (s *ledgerSnapshot) naturalSide(acc accounting.Account) accounting.BalanceType {
	if g, ok := s.tree.GroupOf(acc); ok {
		return accounting.NaturalSide(acc, g.Type)
	}
	return accounting.NaturalSide(acc, accounting.GroupAssets)
}

func (s *ledgerSnapshot) statement(acc accounting.Account, w accounting.Window) *accounting.LedgerStatement {
	return accounting.NewLedgerStatementBuilder(s.agg).Build(acc, s.naturalSide(acc), w, s.sources)
}
