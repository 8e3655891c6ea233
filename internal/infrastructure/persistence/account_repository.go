package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/flockbooks/backend/internal/domain/accounting"
	"github.com/flockbooks/backend/internal/domain/shared"
	"github.com/flockbooks/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAccountRepository implements accounting.AccountRepository over the
// ledgers, customers and vendors tables.
type GormAccountRepository struct {
	db *gorm.DB
}

func NewGormAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: db}
}

// recordPtr constrains a pointer to an account model type.
type recordPtr[T any] interface {
	*T
	models.AccountRecord
}

func findRecords[T any, P recordPtr[T]](query *gorm.DB) ([]accounting.Account, error) {
	var rows []T
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]accounting.Account, len(rows))
	for i := range rows {
		out[i] = P(&rows[i]).ToAccount()
	}
	return out, nil
}

func (r *GormAccountRepository) find(kind accounting.AccountKind, query *gorm.DB) ([]accounting.Account, error) {
	switch kind {
	case accounting.KindLedger:
		return findRecords[models.LedgerModel](query.Model(&models.LedgerModel{}))
	case accounting.KindCustomer:
		return findRecords[models.CustomerModel](query.Model(&models.CustomerModel{}))
	case accounting.KindVendor:
		return findRecords[models.VendorModel](query.Model(&models.VendorModel{}))
	}
	return nil, accounting.ErrInvalidAccountKind
}

func (r *GormAccountRepository) FindByID(ctx context.Context, kind accounting.AccountKind, id uuid.UUID) (accounting.Account, error) {
	rec, err := models.NewAccountRecord(kind)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).First(rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return rec.ToAccount(), nil
}

func (r *GormAccountRepository) FindAll(ctx context.Context, kind accounting.AccountKind) ([]accounting.Account, error) {
	return r.find(kind, r.db.WithContext(ctx).Order("name ASC"))
}

// FindPage returns one page of accounts of kind plus the total count.
func (r *GormAccountRepository) FindPage(ctx context.Context, kind accounting.AccountKind, filter shared.Filter) ([]accounting.Account, int64, error) {
	rec, err := models.NewAccountRecord(kind)
	if err != nil {
		return nil, 0, err
	}
	base := r.db.WithContext(ctx).Table(rec.TableName())
	if filter.Search != "" {
		base = base.Where("LOWER(name) LIKE LOWER(?)", "%"+filter.Search+"%")
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := fmt.Sprintf("%s %s",
		ValidateSortField(filter.OrderBy, AccountSortFields, "name"),
		ValidateSortOrder(filter.OrderDir, "ASC"),
	)
	query := base.Session(&gorm.Session{}).Order(order)
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	accounts, err := r.find(kind, query)
	if err != nil {
		return nil, 0, err
	}
	return accounts, total, nil
}

func (r *GormAccountRepository) FindEverything(ctx context.Context) ([]accounting.Account, error) {
	var all []accounting.Account
	for _, kind := range accounting.AllAccountKinds {
		accounts, err := r.FindAll(ctx, kind)
		if err != nil {
			return nil, err
		}
		all = append(all, accounts...)
	}
	return all, nil
}

// CountByGroup counts accounts of every kind attached to groupID.
func (r *GormAccountRepository) CountByGroup(ctx context.Context, groupID uuid.UUID) (int64, error) {
	var total int64
	for _, m := range []any{&models.LedgerModel{}, &models.CustomerModel{}, &models.VendorModel{}} {
		var n int64
		if err := r.db.WithContext(ctx).Model(m).Where("group_id = ?", groupID).Count(&n).Error; err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

func (r *GormAccountRepository) Create(ctx context.Context, acc accounting.Account) error {
	rec, err := models.AccountRecordFromDomain(acc)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	acc.Head().MarkPersisted()
	return nil
}

// SaveWithLock writes acc only if the stored version is one behind it.
func (r *GormAccountRepository) SaveWithLock(ctx context.Context, acc accounting.Account) error {
	if err := saveLocked(r.db.WithContext(ctx), acc); err != nil {
		return err
	}
	acc.Head().MarkPersisted()
	return nil
}

// SaveWithAdjustment is SaveWithLock plus inserting adj in the same
// transaction. A version miss writes neither row.
func (r *GormAccountRepository) SaveWithAdjustment(ctx context.Context, acc accounting.Account, adj accounting.BalanceAdjustment) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := saveLocked(tx, acc); err != nil {
			return err
		}
		return tx.Create(models.BalanceAdjustmentFromDomain(adj)).Error
	})
	if err != nil {
		return err
	}
	acc.Head().MarkPersisted()
	return nil
}

func saveLocked(db *gorm.DB, acc accounting.Account) error {
	rec, err := models.AccountRecordFromDomain(acc)
	if err != nil {
		return err
	}
	head := acc.Head()
	result := db.Table(rec.TableName()).
		Where("id = ? AND version = ?", head.ID, head.Version-1).
		Updates(rec.Columns())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}
