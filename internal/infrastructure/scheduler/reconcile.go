// Package scheduler runs ledger maintenance on a daily clock.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	accountingapp "github.com/flockbooks/backend/internal/application/accounting"
	"go.uber.org/zap"
)

// ErrInvalidSchedule is returned for schedules other than "minute hour * * *".
var ErrInvalidSchedule = errors.New("invalid schedule")

// Reconciler is the job the scheduler runs.
type Reconciler interface {
	ReconcileAll(ctx context.Context) (*accountingapp.ReconcileResult, error)
}

// ReconcileConfig holds configuration for the nightly reconciliation
type ReconcileConfig struct {
	Hour   int
	Minute int

	// CheckInterval is how often the clock is compared with Hour:Minute
	CheckInterval time.Duration
	// JobTimeout bounds one ReconcileAll run
	JobTimeout time.Duration
}

// ParseSchedule reads a daily cron expression, "minute hour * * *". Only
// fixed minute and hour fields are supported.
func ParseSchedule(expr string) (ReconcileConfig, error) {
	cfg := ReconcileConfig{CheckInterval: time.Minute, JobTimeout: 30 * time.Minute}
	parts := strings.Fields(expr)
	if len(parts) != 5 {
		return cfg, fmt.Errorf("%w: %q: want 5 fields", ErrInvalidSchedule, expr)
	}
	for _, p := range parts[2:] {
		if p != "*" {
			return cfg, fmt.Errorf("%w: %q: only daily schedules are supported", ErrInvalidSchedule, expr)
		}
	}
	minute, err := strconv.Atoi(parts[0])
	if err != nil || minute < 0 || minute > 59 {
		return cfg, fmt.Errorf("%w: minute must be 0-59, got %q", ErrInvalidSchedule, parts[0])
	}
	hour, err := strconv.Atoi(parts[1])
	if err != nil || hour < 0 || hour > 23 {
		return cfg, fmt.Errorf("%w: hour must be 0-23, got %q", ErrInvalidSchedule, parts[1])
	}
	cfg.Hour, cfg.Minute = hour, minute
	return cfg, nil
}

// ReconcileScheduler runs ReconcileAll once a day at the configured time.
type ReconcileScheduler struct {
	config ReconcileConfig
	job    Reconciler
	logger *zap.Logger
	now    func() time.Time

	cancel      context.CancelFunc
	wg          sync.WaitGroup
	mu          sync.Mutex
	isRunning   bool
	lastRunDate string
	lastResult  *accountingapp.ReconcileResult
}

// NewReconcileScheduler creates a scheduler. It does nothing until Start.
func NewReconcileScheduler(config ReconcileConfig, job Reconciler, logger *zap.Logger) *ReconcileScheduler {
	if config.CheckInterval <= 0 {
		config.CheckInterval = time.Minute
	}
	return &ReconcileScheduler{config: config, job: job, logger: logger, now: time.Now}
}

// Start starts the clock loop
func (s *ReconcileScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.runLoop(ctx)

	s.logger.Info("Reconcile scheduler started",
		zap.Int("hour", s.config.Hour),
		zap.Int("minute", s.config.Minute),
	)
	return nil
}

// Stop stops the loop and waits for a running reconciliation, or for ctx.
func (s *ReconcileScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Reconcile scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *ReconcileScheduler) runLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.checkAndRun(ctx)
		}
	}
}

// checkAndRun runs the job if the clock shows the scheduled minute and it
// has not run today.
func (s *ReconcileScheduler) checkAndRun(ctx context.Context) {
	now := s.now()
	today := now.Format("2006-01-02")

	if now.Hour() != s.config.Hour || now.Minute() != s.config.Minute {
		return
	}
	s.mu.Lock()
	if s.lastRunDate == today {
		s.mu.Unlock()
		return
	}
	s.lastRunDate = today
	s.mu.Unlock()

	s.run(ctx)
}

func (s *ReconcileScheduler) run(ctx context.Context) {
	if s.config.JobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.JobTimeout)
		defer cancel()
	}

	start := s.now()
	res, err := s.job.ReconcileAll(ctx)
	if err != nil {
		s.logger.Error("Scheduled reconciliation failed", zap.Error(err))
		return
	}

	s.mu.Lock()
	s.lastResult = res
	s.mu.Unlock()

	s.logger.Info("Scheduled reconciliation finished",
		zap.Int("checked", res.Checked),
		zap.Int("corrected", res.Corrected),
		zap.Int("failed", res.Failed),
		zap.Duration("took", s.now().Sub(start)),
	)
}

// LastResult returns the outcome of the most recent successful run.
func (s *ReconcileScheduler) LastResult() *accountingapp.ReconcileResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastResult
}
