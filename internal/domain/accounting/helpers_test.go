package accounting

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func bal(amount string, t BalanceType) Balance {
	return Balance{Amount: dec(amount), Type: t}
}

func day(d int) time.Time {
	return time.Date(2024, time.April, d, 10, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T {
	return &v
}

func mustGroup(t *testing.T, name string, gt GroupType, parent *Group) *Group {
	t.Helper()
	var parentID *uuid.UUID
	if parent != nil {
		parentID = &parent.ID
	}
	g, err := NewGroup(name, gt, parentID)
	require.NoError(t, err)
	return g
}

func mustLedger(t *testing.T, name string, g *Group, opening Balance) *Ledger {
	t.Helper()
	l, err := NewLedger(name, g.ID, opening)
	require.NoError(t, err)
	return l
}

func mustCustomer(t *testing.T, name string, g *Group, opening Balance) *Customer {
	t.Helper()
	c, err := NewCustomer(name, g.ID, opening)
	require.NoError(t, err)
	return c
}

func mustVendor(t *testing.T, name string, g *Group, opening Balance, tds bool) *Vendor {
	t.Helper()
	v, err := NewVendor(name, g.ID, opening, tds)
	require.NoError(t, err)
	return v
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	require.Truef(t, dec(want).Equal(got), "want %s, got %s %v", want, got.String(), msgAndArgs)
}
