package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	AttrAccountKind = attribute.Key("account_kind")
	AttrSourceType  = attribute.Key("source_type")
	AttrReport      = attribute.Key("report")
	AttrOperation   = attribute.Key("operation")
)

// LedgerMetrics records the health signals of the balance and report core.
// A nil *LedgerMetrics is valid and records nothing.
type LedgerMetrics struct {
	corrections *Counter
	warnings    *Counter
	retries     *Counter
	reportTime  *Histogram
}

// NewLedgerMetrics registers the ledger instruments on meter.
func NewLedgerMetrics(meter metric.Meter) (*LedgerMetrics, error) {
	corrections, err := NewCounter(meter, "ledger_reconciliation_corrections_total",
		"Stored outstanding balances rewritten by statement reconciliation", "{correction}")
	if err != nil {
		return nil, err
	}
	warnings, err := NewCounter(meter, "ledger_aggregation_warnings_total",
		"Source records skipped during aggregation", "{warning}")
	if err != nil {
		return nil, err
	}
	retries, err := NewCounter(meter, "ledger_balance_mutation_retries_total",
		"Balance mutations retried after a version conflict", "{retry}")
	if err != nil {
		return nil, err
	}
	reportTime, err := NewHistogram(meter, HistogramOpts{
		Name:        "ledger_report_duration_seconds",
		Description: "Time to build a report",
		Unit:        "s",
		Boundaries:  ReportDurationBuckets,
	})
	if err != nil {
		return nil, err
	}
	return &LedgerMetrics{
		corrections: corrections,
		warnings:    warnings,
		retries:     retries,
		reportTime:  reportTime,
	}, nil
}

func (m *LedgerMetrics) ReconciliationCorrected(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	m.corrections.Inc(ctx, AttrAccountKind.String(kind))
}

func (m *LedgerMetrics) AggregationWarnings(ctx context.Context, sourceType string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.warnings.Add(ctx, int64(n), AttrSourceType.String(sourceType))
}

func (m *LedgerMetrics) MutationRetried(ctx context.Context, op string) {
	if m == nil {
		return
	}
	m.retries.Inc(ctx, AttrOperation.String(op))
}

func (m *LedgerMetrics) ReportBuilt(ctx context.Context, report string, d time.Duration) {
	if m == nil {
		return
	}
	m.reportTime.RecordDuration(ctx, d, AttrReport.String(report))
}
