package persistence

import (
	"context"

	"github.com/flockbooks/backend/internal/domain/accounting"
	"github.com/flockbooks/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormSourceRepository reads the transaction sources the aggregator folds.
type GormSourceRepository struct {
	db *gorm.DB
}

func NewGormSourceRepository(db *gorm.DB) *GormSourceRepository {
	return &GormSourceRepository{db: db}
}

func (r *GormSourceRepository) scoped(ctx context.Context, filter accounting.SourceFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Order("date ASC, id ASC")
	if filter.Until != nil {
		q = q.Where("date <= ?", *filter.Until)
	}
	return q
}

func byLine(db *gorm.DB) *gorm.DB {
	return db.Order("line_no ASC")
}

func (r *GormSourceRepository) FindVouchers(ctx context.Context, filter accounting.SourceFilter) ([]accounting.Voucher, error) {
	var rows []models.VoucherModel
	if err := r.scoped(ctx, filter).
		Preload("Entries", byLine).
		Preload("Parties", byLine).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]accounting.Voucher, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

func (r *GormSourceRepository) FindTrips(ctx context.Context, filter accounting.SourceFilter) ([]accounting.Trip, error) {
	var rows []models.TripModel
	if err := r.scoped(ctx, filter).
		Preload("Sales", byLine).
		Preload("Purchases", byLine).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]accounting.Trip, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

func (r *GormSourceRepository) FindStocks(ctx context.Context, filter accounting.SourceFilter) ([]accounting.InventoryStock, error) {
	var rows []models.InventoryStockModel
	if err := r.scoped(ctx, filter).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]accounting.InventoryStock, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

func (r *GormSourceRepository) FindIndirectSales(ctx context.Context, filter accounting.SourceFilter) ([]accounting.IndirectSale, error) {
	var rows []models.IndirectSaleModel
	if err := r.scoped(ctx, filter).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]accounting.IndirectSale, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

func (r *GormSourceRepository) FindAdjustments(ctx context.Context, filter accounting.SourceFilter) ([]accounting.BalanceAdjustment, error) {
	var rows []models.BalanceAdjustmentModel
	if err := r.scoped(ctx, filter).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]accounting.BalanceAdjustment, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}
