package accounting

import (
	"context"
	"sync"

	"github.com/flockbooks/backend/internal/domain/accounting"
	"github.com/flockbooks/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// =============================================================================
// Repository mocks
// =============================================================================

type MockGroupRepository struct {
	mock.Mock
}

func (m *MockGroupRepository) FindByID(ctx context.Context, id uuid.UUID) (*accounting.Group, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.Group), args.Error(1)
}

func (m *MockGroupRepository) FindByName(ctx context.Context, name string) (*accounting.Group, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.Group), args.Error(1)
}

func (m *MockGroupRepository) FindAll(ctx context.Context) ([]*accounting.Group, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*accounting.Group), args.Error(1)
}

func (m *MockGroupRepository) Save(ctx context.Context, group *accounting.Group) error {
	return m.Called(ctx, group).Error(0)
}

func (m *MockGroupRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindByID(ctx context.Context, kind accounting.AccountKind, id uuid.UUID) (accounting.Account, error) {
	args := m.Called(ctx, kind, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(accounting.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAll(ctx context.Context, kind accounting.AccountKind) ([]accounting.Account, error) {
	args := m.Called(ctx, kind)
	return args.Get(0).([]accounting.Account), args.Error(1)
}

func (m *MockAccountRepository) FindPage(ctx context.Context, kind accounting.AccountKind, filter shared.Filter) ([]accounting.Account, int64, error) {
	args := m.Called(ctx, kind, filter)
	return args.Get(0).([]accounting.Account), args.Get(1).(int64), args.Error(2)
}

func (m *MockAccountRepository) FindEverything(ctx context.Context) ([]accounting.Account, error) {
	args := m.Called(ctx)
	return args.Get(0).([]accounting.Account), args.Error(1)
}

func (m *MockAccountRepository) CountByGroup(ctx context.Context, groupID uuid.UUID) (int64, error) {
	args := m.Called(ctx, groupID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountRepository) Create(ctx context.Context, acc accounting.Account) error {
	return m.Called(ctx, acc).Error(0)
}

func (m *MockAccountRepository) SaveWithLock(ctx context.Context, acc accounting.Account) error {
	return m.Called(ctx, acc).Error(0)
}

func (m *MockAccountRepository) SaveWithAdjustment(ctx context.Context, acc accounting.Account, adj accounting.BalanceAdjustment) error {
	return m.Called(ctx, acc, adj).Error(0)
}

// fakeSources serves fixed source collections.
type fakeSources struct {
	set   accounting.SourceSet
	calls int
}

func (f *fakeSources) FindVouchers(context.Context, accounting.SourceFilter) ([]accounting.Voucher, error) {
	f.calls++
	return f.set.Vouchers, nil
}

func (f *fakeSources) FindTrips(context.Context, accounting.SourceFilter) ([]accounting.Trip, error) {
	return f.set.Trips, nil
}

func (f *fakeSources) FindStocks(context.Context, accounting.SourceFilter) ([]accounting.InventoryStock, error) {
	return f.set.Stocks, nil
}

func (f *fakeSources) FindIndirectSales(context.Context, accounting.SourceFilter) ([]accounting.IndirectSale, error) {
	return f.set.IndirectSales, nil
}

func (f *fakeSources) FindAdjustments(context.Context, accounting.SourceFilter) ([]accounting.BalanceAdjustment, error) {
	return f.set.Adjustments, nil
}

// =============================================================================
// Collaborator fakes
// =============================================================================

type countingCache struct {
	mu            sync.Mutex
	entries       map[string]any
	invalidations int
}

func newCountingCache() *countingCache {
	return &countingCache{entries: make(map[string]any)}
}

// Get copies by type for the report types used in these tests.
func (c *countingCache) Get(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	switch d := dst.(type) {
	case *accounting.GroupSummary:
		*d = *v.(*accounting.GroupSummary)
	case *accounting.ProfitAndLoss:
		*d = *v.(*accounting.ProfitAndLoss)
	case *accounting.LedgerStatement:
		*d = *v.(*accounting.LedgerStatement)
	default:
		return false, nil
	}
	return true, nil
}

func (c *countingCache) Set(_ context.Context, key string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	return nil
}

func (c *countingCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]any)
	c.invalidations++
	return nil
}

type recordingLocker struct {
	mu       sync.Mutex
	locked   []string
	released int
	err      error
}

func (l *recordingLocker) Lock(_ context.Context, key string) (func(ctx context.Context) error, error) {
	if l.err != nil {
		return nil, l.err
	}
	l.mu.Lock()
	l.locked = append(l.locked, key)
	l.mu.Unlock()
	return func(context.Context) error {
		l.mu.Lock()
		l.released++
		l.mu.Unlock()
		return nil
	}, nil
}

type recordingNotifier struct {
	changes []BalanceChange
}

func (n *recordingNotifier) BalanceChanged(_ context.Context, c BalanceChange) error {
	n.changes = append(n.changes, c)
	return nil
}
