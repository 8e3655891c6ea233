package accounting

import (
	"context"
	"testing"
	"time"

	"github.com/flockbooks/backend/internal/domain/accounting"
	"github.com/flockbooks/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func bal(amount string, t accounting.BalanceType) accounting.Balance {
	return accounting.Balance{Amount: dec(amount), Type: t}
}

func day(d int) time.Time {
	return time.Date(2024, time.April, d, 10, 0, 0, 0, time.UTC)
}

func observedContext(level zapcore.Level) (context.Context, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return logger.WithContext(context.Background(), zap.New(core)), logs
}

// persisted returns a group as a repository would load it.
func persisted(g *accounting.Group) *accounting.Group {
	g.MarkPersisted()
	return g
}

func mustGroup(t *testing.T, name string, gt accounting.GroupType) *accounting.Group {
	t.Helper()
	g, err := accounting.NewGroup(name, gt, nil)
	require.NoError(t, err)
	return persisted(g)
}

func mustCustomer(t *testing.T, name string, g *accounting.Group, opening, outstanding accounting.Balance) *accounting.Customer {
	t.Helper()
	c, err := accounting.NewCustomer(name, g.ID, opening)
	require.NoError(t, err)
	c.Outstanding = outstanding
	c.MarkPersisted()
	return c
}

// cloneCustomer gives each repository load its own copy, as a database would.
func cloneCustomer(c *accounting.Customer) *accounting.Customer {
	cp := *c
	return &cp
}

func testSettings() accounting.Settings {
	s := accounting.DefaultSettings()
	s.TDSEnabled = false
	return s
}

func newID() uuid.UUID {
	return uuid.New()
}
