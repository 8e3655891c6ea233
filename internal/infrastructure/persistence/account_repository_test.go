package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/flockbooks/backend/internal/domain/accounting"
	"github.com/flockbooks/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormAccountRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGormAccountRepository(setupSQLiteDB(t))

	debtors := uuid.New()
	creditors := uuid.New()
	cash, err := accounting.NewLedger("Cash", uuid.New(), accounting.Balance{Amount: dec("1500"), Type: accounting.Debit})
	require.NoError(t, err)
	ravi, err := accounting.NewCustomer("Ravi Traders", debtors, accounting.Balance{Amount: dec("200"), Type: accounting.Debit})
	require.NoError(t, err)
	anil, err := accounting.NewCustomer("Anil Poultry", debtors, accounting.ZeroBalance())
	require.NoError(t, err)
	hatchery, err := accounting.NewVendor("Sri Hatchery", creditors, accounting.Balance{Amount: dec("75.5"), Type: accounting.Credit}, true)
	require.NoError(t, err)
	for _, acc := range []accounting.Account{cash, ravi, anil, hatchery} {
		require.NoError(t, repo.Create(ctx, acc))
	}

	t.Run("round trips every variant", func(t *testing.T) {
		got, err := repo.FindByID(ctx, accounting.KindVendor, hatchery.ID)
		require.NoError(t, err)
		v, ok := got.(*accounting.Vendor)
		require.True(t, ok)
		assert.Equal(t, "Sri Hatchery", v.Name)
		assert.True(t, v.TDSApplicable)
		assert.True(t, v.Opening.Equal(accounting.Balance{Amount: dec("75.5"), Type: accounting.Credit}))
		assert.True(t, v.Outstanding.Equal(v.Opening))
		assert.Equal(t, creditors, v.GroupID)

		l, err := repo.FindByID(ctx, accounting.KindLedger, cash.ID)
		require.NoError(t, err)
		assert.Equal(t, accounting.KindLedger, l.Kind())
	})

	t.Run("wrong kind is not found", func(t *testing.T) {
		_, err := repo.FindByID(ctx, accounting.KindCustomer, hatchery.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("lists by kind and across kinds", func(t *testing.T) {
		customers, err := repo.FindAll(ctx, accounting.KindCustomer)
		require.NoError(t, err)
		require.Len(t, customers, 2)
		assert.Equal(t, "Anil Poultry", customers[0].DisplayName())

		all, err := repo.FindEverything(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 4)

		n, err := repo.CountByGroup(ctx, debtors)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
	})

	t.Run("pages with search and whitelisted order", func(t *testing.T) {
		page, total, err := repo.FindPage(ctx, accounting.KindCustomer, shared.Filter{
			Page: 1, PageSize: 1, OrderBy: "name", OrderDir: "desc",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		require.Len(t, page, 1)
		assert.Equal(t, "Ravi Traders", page[0].DisplayName())

		page, total, err = repo.FindPage(ctx, accounting.KindCustomer, shared.Filter{
			Page: 1, PageSize: 10, Search: "anil", OrderBy: "password",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, page, 1)
	})

	t.Run("optimistic lock rejects stale writes", func(t *testing.T) {
		fresh, err := repo.FindByID(ctx, accounting.KindCustomer, ravi.ID)
		require.NoError(t, err)
		stale, err := repo.FindByID(ctx, accounting.KindCustomer, ravi.ID)
		require.NoError(t, err)

		require.NoError(t, fresh.Head().Post(dec("300"), accounting.Debit))
		require.NoError(t, repo.SaveWithLock(ctx, fresh))

		require.NoError(t, stale.Head().Post(dec("50"), accounting.Credit))
		assert.ErrorIs(t, repo.SaveWithLock(ctx, stale), shared.ErrConcurrencyConflict)

		got, err := repo.FindByID(ctx, accounting.KindCustomer, ravi.ID)
		require.NoError(t, err)
		assert.True(t, got.OutstandingBalance().Equal(accounting.Balance{Amount: dec("500"), Type: accounting.Debit}))
		assert.Equal(t, 2, got.Head().Version)
	})

	t.Run("zero balances are written", func(t *testing.T) {
		acc, err := repo.FindByID(ctx, accounting.KindLedger, cash.ID)
		require.NoError(t, err)
		require.NoError(t, acc.Head().Reconcile(accounting.ZeroBalance()))
		require.NoError(t, repo.SaveWithLock(ctx, acc))

		got, err := repo.FindByID(ctx, accounting.KindLedger, cash.ID)
		require.NoError(t, err)
		assert.True(t, got.OutstandingBalance().IsZero())
	})

	t.Run("invalid kind", func(t *testing.T) {
		_, err := repo.FindAll(ctx, accounting.AccountKind("asset"))
		assert.ErrorIs(t, err, accounting.ErrInvalidAccountKind)
	})
}

func TestGormAccountRepository_SaveWithAdjustment(t *testing.T) {
	ctx := context.Background()
	db := setupSQLiteDB(t)
	repo := NewGormAccountRepository(db)
	sources := NewGormSourceRepository(db)

	ravi, err := accounting.NewCustomer("Ravi Traders", uuid.New(), accounting.Balance{Amount: dec("1000"), Type: accounting.Debit})
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, ravi))

	fresh, err := repo.FindByID(ctx, accounting.KindCustomer, ravi.ID)
	require.NoError(t, err)
	stale, err := repo.FindByID(ctx, accounting.KindCustomer, ravi.ID)
	require.NoError(t, err)

	posted := accounting.BalanceAdjustment{
		ID:          uuid.New(),
		Date:        day(3),
		AccountKind: accounting.KindCustomer,
		AccountID:   ravi.ID,
		Side:        accounting.Credit,
		Amount:      dec("400"),
	}
	require.NoError(t, fresh.Head().Post(posted.Amount, posted.Side))
	require.NoError(t, repo.SaveWithAdjustment(ctx, fresh, posted))
	assert.Equal(t, 2, fresh.Head().Version)

	lost := posted
	lost.ID = uuid.New()
	lost.Amount = dec("50")
	require.NoError(t, stale.Head().Post(lost.Amount, lost.Side))
	assert.ErrorIs(t, repo.SaveWithAdjustment(ctx, stale, lost), shared.ErrConcurrencyConflict)

	got, err := repo.FindByID(ctx, accounting.KindCustomer, ravi.ID)
	require.NoError(t, err)
	assert.True(t, got.OutstandingBalance().Equal(accounting.Balance{Amount: dec("600"), Type: accounting.Debit}))

	adjs, err := sources.FindAdjustments(ctx, accounting.SourceFilter{})
	require.NoError(t, err)
	require.Len(t, adjs, 1, "the rejected write must not leave an adjustment behind")
	assert.Equal(t, posted.ID, adjs[0].ID)
	assert.Equal(t, accounting.Credit, adjs[0].Side)
	assert.True(t, adjs[0].Amount.Equal(dec("400")))
	assert.False(t, adjs[0].Reversal)

	until := day(2)
	adjs, err = sources.FindAdjustments(ctx, accounting.SourceFilter{Until: &until})
	require.NoError(t, err)
	assert.Empty(t, adjs)
}

func TestGormAccountRepository_SaveWithLockSQL(t *testing.T) {
	db, mock := newMockDatabase(t)
	repo := NewGormAccountRepository(db.DB)

	v, err := accounting.NewVendor("Sri Hatchery", uuid.New(), accounting.ZeroBalance(), false)
	require.NoError(t, err)
	v.MarkPersisted()
	require.NoError(t, v.Post(dec("10"), accounting.Credit))

	mock.ExpectExec(`UPDATE "vendors" SET .* WHERE id = \$\d+ AND version = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.SaveWithLock(context.Background(), v)
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}
