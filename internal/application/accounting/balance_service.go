package accounting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/flockbooks/backend/internal/domain/accounting"
	"github.com/flockbooks/backend/internal/domain/shared"
	"github.com/flockbooks/backend/internal/infrastructure/logger"
	"github.com/flockbooks/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const (
	opPost      = "post"
	opReverse   = "reverse"
	opOpening   = "opening_balance"
	opReconcile = "reconcile"
	opMove      = "move_group"
)

// ErrNonPositiveAmount rejects zero or negative posting amounts.
var ErrNonPositiveAmount = shared.NewDomainError(accounting.CodeInvalidAmount, "Amount must be greater than zero")

// MutationPolicy controls how balance writes are serialized and retried.
type MutationPolicy struct {
	// MaxRetries is the number of extra attempts after a version conflict.
	MaxRetries int
	Backoff    time.Duration
	// Locker is optional; without it only the version check guards writes.
	Locker   AccountLocker
	Notifier BalanceNotifier
}

// BalanceService is the only writer of outstanding balances.
type BalanceService struct {
	serviceBase
	accounts accounting.AccountRepository
	reader   *ledgerReader
	settings accounting.Settings
	policy   MutationPolicy
}

// NewBalanceService creates a BalanceService.
func NewBalanceService(
	groups accounting.GroupRepository,
	accounts accounting.AccountRepository,
	sources accounting.SourceRepository,
	settings accounting.Settings,
	policy MutationPolicy,
	opts ...Option,
) *BalanceService {
	if policy.MaxRetries < 0 {
		policy.MaxRetries = 0
	}
	return &BalanceService{
		serviceBase: newServiceBase(opts),
		accounts:    accounts,
		reader: &ledgerReader{
			groups:   groups,
			accounts: accounts,
			sources:  sources,
			agg:      accounting.NewTransactionAggregator(settings),
		},
		settings: settings,
		policy:   policy,
	}
}

// Post applies amount on side to the account's outstanding balance.
func (s *BalanceService) Post(ctx context.Context, kind accounting.AccountKind, id uuid.UUID, amount decimal.Decimal, side accounting.BalanceType) (*AccountResponse, error) {
	return s.applyPosting(ctx, opPost, kind, id, amount, side)
}

// Reverse undoes a Post with the same amount and side.
func (s *BalanceService) Reverse(ctx context.Context, kind accounting.AccountKind, id uuid.UUID, amount decimal.Decimal, side accounting.BalanceType) (*AccountResponse, error) {
	return s.applyPosting(ctx, opReverse, kind, id, amount, side)
}

func (s *BalanceService) applyPosting(ctx context.Context, op string, kind accounting.AccountKind, id uuid.UUID, amount decimal.Decimal, side accounting.BalanceType) (*AccountResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "BalanceService", op,
		attribute.String("account_kind", string(kind)),
		attribute.String("account_id", id.String()))
	defer span.End()

	if !amount.IsPositive() {
		return nil, ErrNonPositiveAmount
	}
	if !side.IsValid() {
		return nil, accounting.ErrInvalidBalanceType
	}

	// The adjustment is what statement replay sees of this posting; without
	// it the next reconciliation would undo the write.
	adj := accounting.BalanceAdjustment{
		ID:          uuid.New(),
		Date:        time.Now().UTC(),
		AccountKind: kind,
		AccountID:   id,
		Side:        side,
		Amount:      amount,
	}
	if op == opReverse {
		adj.Side = side.Opposite()
		adj.Reversal = true
	}

	var before accounting.Balance
	save := func(ctx context.Context, acc accounting.Account) error {
		return s.accounts.SaveWithAdjustment(ctx, acc, adj)
	}
	acc, changed, err := s.mutateWith(ctx, op, kind, id, func(acc accounting.Account) (bool, error) {
		before = acc.OutstandingBalance()
		if op == opReverse {
			return true, acc.Head().Reverse(amount, side)
		}
		return true, acc.Head().Post(amount, side)
	}, save)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if changed {
		s.notify(ctx, op, acc, before)
	}
	resp := ToAccountResponse(acc)
	return &resp, nil
}

// UpdateOpeningBalance replaces the opening balance and shifts the
// outstanding balance by the same delta.
func (s *BalanceService) UpdateOpeningBalance(ctx context.Context, kind accounting.AccountKind, id uuid.UUID, opening accounting.Balance) (*AccountResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "BalanceService", opOpening,
		attribute.String("account_kind", string(kind)),
		attribute.String("account_id", id.String()))
	defer span.End()

	if err := opening.Validate(); err != nil {
		return nil, err
	}

	var before accounting.Balance
	acc, changed, err := s.mutate(ctx, opOpening, kind, id, func(acc accounting.Account) (bool, error) {
		if acc.OpeningBalance().Equal(opening) {
			return false, nil
		}
		before = acc.OutstandingBalance()
		return true, acc.Head().ChangeOpening(opening)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if changed {
		s.notify(ctx, opOpening, acc, before)
	}
	resp := ToAccountResponse(acc)
	return &resp, nil
}

// ReconcileTo overwrites acc's stored outstanding balance with replay when
// they differ by more than the configured tolerance. The account is
// re-read under lock; if its opening balance changed since replay was
// computed, nothing is written.
func (s *BalanceService) ReconcileTo(ctx context.Context, acc accounting.Account, replay accounting.Balance) (bool, error) {
	if s.withinTolerance(acc.OutstandingBalance(), replay) {
		return false, nil
	}
	ctx = logger.WithAccount(ctx, string(acc.Kind()), acc.GetID().String())

	var before accounting.Balance
	snapshotOpening := acc.OpeningBalance()
	_, changed, err := s.mutate(ctx, opReconcile, acc.Kind(), acc.GetID(), func(fresh accounting.Account) (bool, error) {
		if !fresh.OpeningBalance().Equal(snapshotOpening) {
			return false, nil
		}
		if s.withinTolerance(fresh.OutstandingBalance(), replay) {
			return false, nil
		}
		before = fresh.OutstandingBalance()
		return true, fresh.Head().Reconcile(replay)
	})
	if err != nil {
		return false, err
	}
	if changed {
		s.metrics.ReconciliationCorrected(ctx, string(acc.Kind()))
		s.log(ctx).Warn("outstanding balance corrected",
			zap.String("stored", before.String()),
			zap.String("replayed", replay.String()))
	}
	return changed, nil
}

// ReconcileAll replays every account over all time and corrects drifted
// outstanding balances. Failures on one account do not stop the run.
func (s *BalanceService) ReconcileAll(ctx context.Context) (*ReconcileResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "BalanceService", "ReconcileAll")
	defer span.End()

	snap, err := s.reader.snapshot(ctx, nil)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	result := &ReconcileResult{Corrections: []ReconcileCorrection{}}
	for _, acc := range snap.accounts {
		stmt := snap.statement(acc, accounting.AllTime())
		s.reportWarnings(ctx, "reconcile", stmt.Warnings)
		result.Checked++

		before := acc.OutstandingBalance()
		corrected, err := s.ReconcileTo(ctx, acc, stmt.ReplayClosing())
		if err != nil {
			result.Failed++
			s.log(ctx).Error("reconciliation write failed",
				zap.String("account_kind", string(acc.Kind())),
				zap.Stringer("account_id", acc.GetID()),
				zap.Error(err))
			continue
		}
		if corrected {
			result.Corrected++
			result.Corrections = append(result.Corrections, ReconcileCorrection{
				Kind:   string(acc.Kind()),
				ID:     acc.GetID(),
				Name:   acc.DisplayName(),
				Before: before,
				After:  stmt.ReplayClosing(),
			})
		}
	}
	span.SetAttributes(
		attribute.Int("reconcile.checked", result.Checked),
		attribute.Int("reconcile.corrected", result.Corrected),
	)
	s.log(ctx).Info("reconciliation finished",
		zap.Int("checked", result.Checked),
		zap.Int("corrected", result.Corrected),
		zap.Int("failed", result.Failed))
	return result, nil
}

func (s *BalanceService) withinTolerance(stored, replay accounting.Balance) bool {
	a, err := stored.Signed()
	if err != nil {
		return false
	}
	b, err := replay.Signed()
	if err != nil {
		return false
	}
	return a.Sub(b).Abs().LessThanOrEqual(s.settings.ReconcileTolerance)
}

func lockKey(kind accounting.AccountKind, id uuid.UUID) string {
	return fmt.Sprintf("account:%s:%s", kind, id)
}

// mutate runs fn against a freshly loaded account and saves it with the
// version check, under the account lock when one is configured. Version
// conflicts are retried; any other error, including validation errors
// from fn, is returned at once. fn reports whether it changed anything.
func (s *BalanceService) mutate(
	ctx context.Context,
	op string,
	kind accounting.AccountKind,
	id uuid.UUID,
	fn func(acc accounting.Account) (bool, error),
) (accounting.Account, bool, error) {
	return s.mutateWith(ctx, op, kind, id, fn, s.accounts.SaveWithLock)
}

// mutateWith is mutate with a caller-supplied versioned save.
func (s *BalanceService) mutateWith(
	ctx context.Context,
	op string,
	kind accounting.AccountKind,
	id uuid.UUID,
	fn func(acc accounting.Account) (bool, error),
	save func(ctx context.Context, acc accounting.Account) error,
) (accounting.Account, bool, error) {
	if !kind.IsValid() {
		return nil, false, accounting.ErrInvalidAccountKind
	}
	ctx = logger.WithAccount(ctx, string(kind), id.String())

	if s.policy.Locker != nil {
		unlock, err := s.policy.Locker.Lock(ctx, lockKey(kind, id))
		if err != nil {
			return nil, false, err
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				s.log(ctx).Warn("account lock release failed", zap.Error(err))
			}
		}()
	}

	for attempt := 0; ; attempt++ {
		acc, err := s.accounts.FindByID(ctx, kind, id)
		if err != nil {
			return nil, false, err
		}
		changed, err := fn(acc)
		if err != nil {
			return nil, false, err
		}
		if !changed {
			return acc, false, nil
		}

		err = save(ctx, acc)
		if err == nil {
			s.invalidate(ctx)
			return acc, true, nil
		}
		if !errors.Is(err, shared.ErrConcurrencyConflict) || attempt >= s.policy.MaxRetries {
			return nil, false, err
		}

		s.metrics.MutationRetried(ctx, op)
		s.log(ctx).Debug("balance write conflicted, retrying",
			zap.String("operation", op),
			zap.Int("attempt", attempt+1))
		if s.policy.Backoff > 0 {
			timer := time.NewTimer(s.policy.Backoff * time.Duration(attempt+1))
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, false, ctx.Err()
			case <-timer.C:
			}
		}
	}
}

func (s *BalanceService) notify(ctx context.Context, op string, acc accounting.Account, before accounting.Balance) {
	if !s.settings.SMSEnabled || s.policy.Notifier == nil {
		return
	}
	change := BalanceChange{
		Operation: op,
		Kind:      string(acc.Kind()),
		AccountID: acc.GetID(),
		Name:      acc.DisplayName(),
		Before:    before,
		After:     acc.OutstandingBalance(),
		At:        time.Now(),
	}
	if err := s.policy.Notifier.BalanceChanged(ctx, change); err != nil {
		s.log(ctx).Warn("balance notification failed", zap.String("operation", op), zap.Error(err))
	}
}

// LogNotifier records balance notifications in the log. It stands in for
// an SMS gateway, which lives outside this service.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(l *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: l}
}

func (n *LogNotifier) BalanceChanged(ctx context.Context, c BalanceChange) error {
	logger.LOr(ctx, n.logger).Info("balance change notification",
		zap.String("operation", c.Operation),
		zap.String("name", c.Name),
		zap.String("before", c.Before.String()),
		zap.String("after", c.After.String()))
	return nil
}
