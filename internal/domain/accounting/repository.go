package accounting

import (
	"context"
	"time"

	"github.com/flockbooks/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// GroupRepository persists chart-of-accounts groups.
type GroupRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Group, error)
	FindByName(ctx context.Context, name string) (*Group, error)
	FindAll(ctx context.Context) ([]*Group, error)
	Save(ctx context.Context, group *Group) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// AccountRepository persists ledgers, customers and vendors.
type AccountRepository interface {
	FindByID(ctx context.Context, kind AccountKind, id uuid.UUID) (Account, error)
	FindAll(ctx context.Context, kind AccountKind) ([]Account, error)
	FindPage(ctx context.Context, kind AccountKind, filter shared.Filter) ([]Account, int64, error)
	// FindEverything returns accounts of every kind.
	FindEverything(ctx context.Context) ([]Account, error)
	CountByGroup(ctx context.Context, groupID uuid.UUID) (int64, error)
	Create(ctx context.Context, acc Account) error
	// SaveWithLock persists acc if its stored version is acc's version minus
	// one, and returns shared.ErrConcurrencyConflict otherwise.
	SaveWithLock(ctx context.Context, acc Account) error
	// SaveWithAdjustment is SaveWithLock plus recording adj, atomically.
	SaveWithAdjustment(ctx context.Context, acc Account, adj BalanceAdjustment) error
}

// SourceFilter narrows source queries. Until is inclusive.
type SourceFilter struct {
	Until *time.Time
}

// SourceRepository reads the transaction sources. Adjustments are written
// through AccountRepository.SaveWithAdjustment, never here.
type SourceRepository interface {
	FindVouchers(ctx context.Context, filter SourceFilter) ([]Voucher, error)
	FindTrips(ctx context.Context, filter SourceFilter) ([]Trip, error)
	FindStocks(ctx context.Context, filter SourceFilter) ([]InventoryStock, error)
	FindIndirectSales(ctx context.Context, filter SourceFilter) ([]IndirectSale, error)
	FindAdjustments(ctx context.Context, filter SourceFilter) ([]BalanceAdjustment, error)
}

// LoadSources fetches every source up to filter.Until.
func LoadSources(ctx context.Context, repo SourceRepository, filter SourceFilter) (SourceSet, error) {
	var (
		set SourceSet
		err error
	)
	if set.Vouchers, err = repo.FindVouchers(ctx, filter); err != nil {
		return SourceSet{}, err
	}
	if set.Trips, err = repo.FindTrips(ctx, filter); err != nil {
		return SourceSet{}, err
	}
	if set.Stocks, err = repo.FindStocks(ctx, filter); err != nil {
		return SourceSet{}, err
	}
	if set.IndirectSales, err = repo.FindIndirectSales(ctx, filter); err != nil {
		return SourceSet{}, err
	}
	if set.Adjustments, err = repo.FindAdjustments(ctx, filter); err != nil {
		return SourceSet{}, err
	}
	return set, nil
}
