//go:build integration

package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	accountingapp "github.com/flockbooks/backend/internal/application/accounting"
	"github.com/flockbooks/backend/internal/domain/accounting"
	"github.com/flockbooks/backend/internal/domain/shared"
	"github.com/flockbooks/backend/internal/infrastructure/migration"
	"github.com/flockbooks/backend/internal/infrastructure/persistence/models"
	"github.com/flockbooks/backend/migrations"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newPostgres starts a throwaway PostgreSQL container and applies the
// embedded migrations.
func newPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("flockbooks_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	sqlDB, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	m, err := migration.New(sqlDB, migrations.FS, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, m.Up())
	require.NoError(t, m.Close())

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if s, err := db.DB(); err == nil {
			_ = s.Close()
		}
	})
	return db
}

func TestPostgres_LedgerFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	ctx := context.Background()
	db := newPostgres(t)

	groups := NewGormGroupRepository(db)
	accounts := NewGormAccountRepository(db)
	sources := NewGormSourceRepository(db)
	settings := accounting.DefaultSettings()

	balances := accountingapp.NewBalanceService(groups, accounts, sources, settings, accountingapp.MutationPolicy{MaxRetries: 2})
	reports := accountingapp.NewReportService(groups, accounts, sources, settings, balances)
	groupSvc := accountingapp.NewGroupService(groups, accounts)
	accountSvc := accountingapp.NewAccountService(groups, accounts, balances)

	created, err := groupSvc.SeedPredefined(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(accounting.PredefinedGroups), created)

	again, err := groupSvc.SeedPredefined(ctx)
	require.NoError(t, err)
	assert.Zero(t, again)

	debtors, err := groups.FindByName(ctx, "Sundry Debtors")
	require.NoError(t, err)

	cust, err := accountSvc.Create(ctx, accounting.KindCustomer, accountingapp.CreateAccountRequest{
		Name:    "Lakshmi Traders",
		GroupID: debtors.ID,
	})
	require.NoError(t, err)

	t.Run("version check rejects stale writes", func(t *testing.T) {
		stale, err := accounts.FindByID(ctx, accounting.KindCustomer, cust.ID)
		require.NoError(t, err)

		_, err = balances.Post(ctx, accounting.KindCustomer, cust.ID, dec("50"), accounting.Debit)
		require.NoError(t, err)

		require.NoError(t, stale.Head().Post(dec("1"), accounting.Credit))
		err = accounts.SaveWithLock(ctx, stale)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)

		_, err = balances.Reverse(ctx, accounting.KindCustomer, cust.ID, dec("50"), accounting.Debit)
		require.NoError(t, err)
	})

	// A trip sale written by the trading side, without a matching posting.
	require.NoError(t, db.Create(&models.TripModel{
		BaseModel: models.BaseModel{ID: uuid.New(), CreatedAt: day(1), UpdatedAt: day(1)},
		Number:    "T-1",
		Date:      day(3),
		Sales: []models.TripSaleModel{{
			ID: uuid.New(), ClientID: cust.ID, Amount: dec("1000"), Birds: 120, Weight: dec("240.5"),
			CashPaid: dec("300"),
		}},
	}).Error)

	t.Run("open-ended statement repairs the stored balance", func(t *testing.T) {
		from := day(1)
		st, err := reports.Statement(ctx, accounting.KindCustomer, cust.ID, accounting.NewWindow(&from, nil))
		require.NoError(t, err)
		assert.Equal(t, "700.00 debit", st.Totals.Closing.String())

		got, err := accountSvc.Get(ctx, accounting.KindCustomer, cust.ID)
		require.NoError(t, err)
		assert.Equal(t, "700.00 debit", got.Outstanding.String())
	})

	t.Run("a posted receipt survives the next statement", func(t *testing.T) {
		_, err := balances.Post(ctx, accounting.KindCustomer, cust.ID, dec("200"), accounting.Credit)
		require.NoError(t, err)

		st, err := reports.Statement(ctx, accounting.KindCustomer, cust.ID, accounting.AllTime())
		require.NoError(t, err)
		assert.Equal(t, "500.00 debit", st.Totals.Closing.String())

		got, err := accountSvc.Get(ctx, accounting.KindCustomer, cust.ID)
		require.NoError(t, err)
		assert.Equal(t, "500.00 debit", got.Outstanding.String())
	})

	t.Run("reconcile all finds nothing left to fix", func(t *testing.T) {
		res, err := balances.ReconcileAll(ctx)
		require.NoError(t, err)
		assert.Zero(t, res.Corrected)
		assert.Zero(t, res.Failed)
	})

	t.Run("group summary rolls the customer up", func(t *testing.T) {
		summary, err := reports.GroupSummary(ctx, debtors.ID, accounting.Window{})
		require.NoError(t, err)
		require.Len(t, summary.Entries, 1)
		assert.Equal(t, "Lakshmi Traders", summary.Entries[0].Name)
	})
}
