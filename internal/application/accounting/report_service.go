package accounting

import (
	"context"
	"time"

	"github.com/flockbooks/backend/internal/domain/accounting"
	"github.com/flockbooks/backend/internal/domain/shared"
	"github.com/flockbooks/backend/internal/infrastructure/logger"
	"github.com/flockbooks/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const (
	reportGroupSummary = "group_summary"
	reportStatement    = "statement"
	reportProfitLoss   = "profit_loss"
	reportBalanceSheet = "balance_sheet"
)

// Reconciler rewrites a stored outstanding balance that drifted from the
// replayed one. It reports whether a correction was written.
type Reconciler interface {
	ReconcileTo(ctx context.Context, acc accounting.Account, replay accounting.Balance) (bool, error)
}

// ReportService builds the read-side reports.
type ReportService struct {
	serviceBase
	reader     *ledgerReader
	reconciler Reconciler
}

// NewReportService creates a ReportService. A nil reconciler disables the
// statement self-healing.
func NewReportService(
	groups accounting.GroupRepository,
	accounts accounting.AccountRepository,
	sources accounting.SourceRepository,
	settings accounting.Settings,
	reconciler Reconciler,
	opts ...Option,
) *ReportService {
	return &ReportService{
		serviceBase: newServiceBase(opts),
		reader: &ledgerReader{
			groups:   groups,
			accounts: accounts,
			sources:  sources,
			agg:      accounting.NewTransactionAggregator(settings),
		},
		reconciler: reconciler,
	}
}

// GroupSummary returns the trial-balance rows of a group's direct children.
func (s *ReportService) GroupSummary(ctx context.Context, groupID uuid.UUID, w accounting.Window) (*accounting.GroupSummary, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "ReportService", "GroupSummary",
		attribute.String("group_id", groupID.String()))
	defer span.End()

	key := reportKey(reportGroupSummary, groupID.String(), windowKey(w))
	var hit accounting.GroupSummary
	if s.cached(ctx, key, &hit) {
		return &hit, nil
	}

	start := time.Now()
	snap, err := s.reader.snapshot(ctx, w.End)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	tb := accounting.NewTrialBalanceEngine(snap.tree, snap.agg, snap.sources)
	summary, err := tb.GroupSummary(groupID, w)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	s.reportWarnings(ctx, reportGroupSummary, summary.Warnings)
	s.metrics.ReportBuilt(ctx, reportGroupSummary, time.Since(start))
	s.store(ctx, key, summary)
	return summary, nil
}

// Statement rebuilds one account's running-balance statement. For windows
// that run to the present the replayed closing is checked against the
// stored outstanding balance, and drift is corrected. A failed correction
// is logged and never fails the statement.
func (s *ReportService) Statement(ctx context.Context, kind accounting.AccountKind, id uuid.UUID, w accounting.Window) (*accounting.LedgerStatement, error) {
	ctx = logger.WithAccount(ctx, string(kind), id.String())
	ctx, span := telemetry.StartServiceSpan(ctx, "ReportService", "Statement",
		attribute.String("account_kind", string(kind)),
		attribute.String("account_id", id.String()))
	defer span.End()

	if !kind.IsValid() {
		return nil, accounting.ErrInvalidAccountKind
	}

	// Open-ended statements are never served from cache: they drive
	// reconciliation and must reflect the latest sources.
	key := reportKey(reportStatement, string(kind), id.String(), windowKey(w))
	if !w.OpenEnded() {
		var hit accounting.LedgerStatement
		if s.cached(ctx, key, &hit) {
			return &hit, nil
		}
	}

	start := time.Now()
	snap, err := s.reader.snapshot(ctx, w.End)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	acc, ok := snap.find(kind, id)
	if !ok {
		return nil, shared.ErrNotFound
	}
	stmt := snap.statement(acc, w)
	s.reportWarnings(ctx, reportStatement, stmt.Warnings)
	s.metrics.ReportBuilt(ctx, reportStatement, time.Since(start))

	if w.OpenEnded() {
		if s.reconciler != nil {
			if _, err := s.reconciler.ReconcileTo(ctx, acc, stmt.ReplayClosing()); err != nil {
				s.log(ctx).Error("reconciliation write failed",
					zap.String("replayed", stmt.ReplayClosing().String()),
					zap.String("stored", acc.OutstandingBalance().String()),
					zap.Error(err))
			}
		}
		return stmt, nil
	}
	s.store(ctx, key, stmt)
	return stmt, nil
}

// ProfitAndLoss builds the income and expense flow report for w.
func (s *ReportService) ProfitAndLoss(ctx context.Context, w accounting.Window) (*accounting.ProfitAndLoss, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "ReportService", "ProfitAndLoss")
	defer span.End()

	key := reportKey(reportProfitLoss, windowKey(w))
	var hit accounting.ProfitAndLoss
	if s.cached(ctx, key, &hit) {
		return &hit, nil
	}

	start := time.Now()
	snap, err := s.reader.snapshot(ctx, w.End)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	pl := accounting.NewProfitAndLossEngine(snap.tree, snap.agg, snap.sources).Build(w)
	s.reportWarnings(ctx, reportProfitLoss, pl.Warnings)
	s.metrics.ReportBuilt(ctx, reportProfitLoss, time.Since(start))
	s.store(ctx, key, pl)
	return pl, nil
}

// BalanceSheet sets asset groups against liability groups plus net profit,
// all as of asOf. A nil asOf means now.
func (s *ReportService) BalanceSheet(ctx context.Context, asOf *time.Time) (*accounting.BalanceSheet, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "ReportService", "BalanceSheet")
	defer span.End()

	w := accounting.Window{End: asOf}
	key := reportKey(reportBalanceSheet, windowKey(w))
	var hit accounting.BalanceSheet
	if s.cached(ctx, key, &hit) {
		return &hit, nil
	}

	start := time.Now()
	snap, err := s.reader.snapshot(ctx, asOf)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	tb := accounting.NewTrialBalanceEngine(snap.tree, snap.agg, snap.sources)
	pl := accounting.NewProfitAndLossEngine(snap.tree, snap.agg, snap.sources)
	bs, err := accounting.BuildBalanceSheet(snap.tree, tb, pl, w)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	s.reportWarnings(ctx, reportBalanceSheet, bs.Warnings)
	s.metrics.ReportBuilt(ctx, reportBalanceSheet, time.Since(start))
	s.store(ctx, key, bs)
	return bs, nil
}
