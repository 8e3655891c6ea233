package accounting

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupSummaryRollUp(t *testing.T) {
	root := mustGroup(t, "Expenses", GroupExpenses, nil)
	child := mustGroup(t, "Feed", GroupExpenses, root)
	ledger := mustLedger(t, "Feed Consume", child, bal("300", Debit))

	tree := BuildAccountTree([]*Group{root, child}, []Account{ledger})
	engine := NewTrialBalanceEngine(tree, NewTransactionAggregator(DefaultSettings()), SourceSet{})

	summary, err := engine.GroupSummary(root.ID, AllTime())
	require.NoError(t, err)
	require.Len(t, summary.Entries, 1)

	row := summary.Entries[0]
	assert.Equal(t, child.ID, row.ID)
	assert.Equal(t, RowGroup, row.Kind)
	assertDecimal(t, "300", row.Debit)
	assertDecimal(t, "0", row.Credit)
	assertDecimal(t, "300", summary.Totals.Debit)
	assertDecimal(t, "0", summary.Totals.Credit)
	assert.True(t, summary.Totals.Closing.Equal(bal("300", Debit)))
}

func TestGroupSummaryPolarity(t *testing.T) {
	cases := []struct {
		name       string
		groupType  GroupType
		closing    Balance
		wantDebit  string
		wantCredit string
	}{
		{"assets debit", GroupAssets, bal("100", Debit), "100", "0"},
		{"assets credit", GroupAssets, bal("100", Credit), "0", "100"},
		{"expenses debit", GroupExpenses, bal("40", Debit), "40", "0"},
		{"others credit", GroupOthers, bal("40", Credit), "0", "40"},
		{"liability credit", GroupLiability, bal("70", Credit), "0", "70"},
		{"liability debit", GroupLiability, bal("70", Debit), "70", "0"},
		{"income credit", GroupIncome, bal("55", Credit), "0", "55"},
		{"income debit", GroupIncome, bal("55", Debit), "55", "0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := mustGroup(t, "G", tc.groupType, nil)
			// A customer's own debit nature must not influence the columns.
			c := mustCustomer(t, "Holder", g, tc.closing)
			tree := BuildAccountTree([]*Group{g}, []Account{c})
			engine := NewTrialBalanceEngine(tree, NewTransactionAggregator(DefaultSettings()), SourceSet{})

			summary, err := engine.GroupSummary(g.ID, AllTime())
			require.NoError(t, err)
			require.Len(t, summary.Entries, 1)
			assert.Equal(t, tc.groupType, summary.Entries[0].PolarityFrom)
			assertDecimal(t, tc.wantDebit, summary.Entries[0].Debit)
			assertDecimal(t, tc.wantCredit, summary.Entries[0].Credit)
		})
	}
}

func TestGroupSummaryMixedChildren(t *testing.T) {
	assets := mustGroup(t, "Current Assets", GroupAssets, nil)
	debtors := mustGroup(t, "Sundry Debtors", GroupAssets, assets)
	cash := mustLedger(t, "Cash", assets, bal("1000", Debit))
	c1 := mustCustomer(t, "A", debtors, bal("200", Debit))
	c2 := mustCustomer(t, "B", debtors, bal("50", Credit))

	trip := Trip{ID: uuid.New(), Date: day(10), Sales: []TripSale{{
		ID: uuid.New(), ClientID: c1.ID, Amount: dec("500"), Birds: 10, Weight: dec("20"),
		CashPaid: dec("100"), CashLedgerID: &cash.ID,
	}}}
	early := Trip{ID: uuid.New(), Date: day(1), Sales: []TripSale{{ID: uuid.New(), ClientID: c2.ID, Amount: dec("80")}}}

	tree := BuildAccountTree([]*Group{assets, debtors}, []Account{cash, c1, c2})
	engine := NewTrialBalanceEngine(tree, NewTransactionAggregator(DefaultSettings()), SourceSet{Trips: []Trip{trip, early}})

	summary, err := engine.GroupSummary(assets.ID, NewWindow(ptr(day(5)), nil))
	require.NoError(t, err)
	require.Len(t, summary.Entries, 2)

	groupRow := summary.Entries[0]
	assert.Equal(t, debtors.ID, groupRow.ID)
	// opening 200 - 50 + 80 carried, period +500 -100
	assert.True(t, groupRow.Opening.Equal(bal("230", Debit)), groupRow.Opening.String())
	assertDecimal(t, "500", groupRow.PeriodDebit)
	assertDecimal(t, "100", groupRow.PeriodCredit)
	assertDecimal(t, "630", groupRow.Debit)
	assert.Equal(t, int64(10), groupRow.Quantities.Birds)

	ledgerRow := summary.Entries[1]
	assert.Equal(t, RowLedger, ledgerRow.Kind)
	assertDecimal(t, "1100", ledgerRow.Debit)

	assertDecimal(t, "1730", summary.Totals.Debit)
	assertDecimal(t, "600", summary.Totals.PeriodDebit)
	assertDecimal(t, "100", summary.Totals.PeriodCredit)
	assert.Equal(t, int64(10), summary.Totals.Quantities.Birds)
}

func TestGroupSummaryFailSoft(t *testing.T) {
	g := mustGroup(t, "Cash-in-Hand", GroupAssets, nil)
	good := mustLedger(t, "Cash", g, bal("10", Debit))
	broken := mustLedger(t, "Broken", g, ZeroBalance())
	broken.Opening = Balance{Amount: dec("5"), Type: "??"}

	tree := BuildAccountTree([]*Group{g}, []Account{good, broken})
	engine := NewTrialBalanceEngine(tree, NewTransactionAggregator(DefaultSettings()), SourceSet{})

	summary, err := engine.GroupSummary(g.ID, AllTime())
	require.NoError(t, err)
	require.Len(t, summary.Entries, 2)
	require.Len(t, summary.Warnings, 1)
	assert.Equal(t, broken.ID, summary.Warnings[0].AccountID)
	assertDecimal(t, "10", summary.Totals.Debit)

	_, err = engine.GroupSummary(uuid.New(), AllTime())
	assert.ErrorIs(t, err, ErrGroupNotFound)
}

func TestGroupSummaryPurchaseMirror(t *testing.T) {
	creditors := mustGroup(t, "Sundry Creditors", GroupLiability, nil)
	purchases, err := NewPredefinedGroup("Purchase Accounts", GroupExpenses, true)
	require.NoError(t, err)
	v := mustVendor(t, "Hatchery", creditors, bal("999", Credit), false)

	trip := Trip{ID: uuid.New(), Date: day(3), Purchases: []TripPurchase{{ID: uuid.New(), SupplierID: v.ID, Amount: dec("700")}}}
	pay := Voucher{ID: uuid.New(), Type: VoucherPayment, Date: day(4),
		Parties: []VoucherParty{{ID: uuid.New(), PartyID: v.ID, Amount: dec("300")}}}

	tree := BuildAccountTree([]*Group{creditors, purchases}, []Account{v})
	engine := NewTrialBalanceEngine(tree, NewTransactionAggregator(DefaultSettings()),
		SourceSet{Trips: []Trip{trip}, Vouchers: []Voucher{pay}})

	summary, err := engine.GroupSummary(purchases.ID, AllTime())
	require.NoError(t, err)
	require.Len(t, summary.Entries, 1)
	row := summary.Entries[0]
	assert.True(t, row.Mirrored)
	assertDecimal(t, "700", row.Debit, "only purchases count, opening and payments do not")

	creditorsSummary, err := engine.GroupSummary(creditors.ID, AllTime())
	require.NoError(t, err)
	assertDecimal(t, "1399", creditorsSummary.Totals.Credit)
}
