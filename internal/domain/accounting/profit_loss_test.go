package accounting

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type plFixture struct {
	groups   []*Group
	accounts []Account
	sales    *Ledger
	feed     *Ledger
	vaccine  *Ledger
	vendor   *Vendor
	src      SourceSet
}

func newPLFixture(t *testing.T) *plFixture {
	income := mustGroup(t, "Sales Accounts", GroupIncome, nil)
	direct := mustGroup(t, "Direct Expenses", GroupExpenses, nil)
	medicine := mustGroup(t, "Medicine", GroupExpenses, direct)
	creditors := mustGroup(t, "Sundry Creditors", GroupLiability, nil)
	purchases, err := NewPredefinedGroup("Purchase Accounts", GroupExpenses, true)
	require.NoError(t, err)

	f := &plFixture{groups: []*Group{income, direct, medicine, creditors, purchases}}
	f.sales = mustLedger(t, "Bird Sales", income, bal("5000", Credit))
	f.feed = mustLedger(t, "Feed", direct, bal("2000", Debit))
	f.vaccine = mustLedger(t, "Vaccine", medicine, ZeroBalance())
	f.vendor = mustVendor(t, "Hatchery", creditors, bal("10000", Credit), false)
	f.accounts = []Account{f.sales, f.feed, f.vaccine, f.vendor}

	f.src = SourceSet{
		Vouchers: []Voucher{{
			ID: uuid.New(), Type: VoucherJournal, Date: day(10),
			Entries: []VoucherEntry{
				{ID: uuid.New(), AccountName: "Bird Sales", CreditAmount: dec("3000")},
				{ID: uuid.New(), AccountName: "Bird Sales", DebitAmount: dec("200")},
				{ID: uuid.New(), AccountName: "Feed", DebitAmount: dec("700")},
				{ID: uuid.New(), AccountName: "Vaccine", DebitAmount: dec("150")},
			},
		}, {
			ID: uuid.New(), Type: VoucherPayment, Date: day(11),
			Parties: []VoucherParty{{ID: uuid.New(), PartyID: f.vendor.ID, Amount: dec("400")}},
		}},
		Trips: []Trip{{ID: uuid.New(), Date: day(12), Purchases: []TripPurchase{
			{ID: uuid.New(), SupplierID: f.vendor.ID, Amount: dec("1200")},
		}}},
	}
	return f
}

func (f *plFixture) engine() *ProfitAndLossEngine {
	tree := BuildAccountTree(f.groups, f.accounts)
	return NewProfitAndLossEngine(tree, NewTransactionAggregator(DefaultSettings()), f.src)
}

func TestProfitAndLoss(t *testing.T) {
	f := newPLFixture(t)
	pl := f.engine().Build(AllTime())

	require.Len(t, pl.Income.Tree, 1)
	assertDecimal(t, "2800", pl.Income.Total)
	assertDecimal(t, "2800", pl.Income.Tree[0].Balance)

	require.Len(t, pl.Expenses.Tree, 2)
	direct := pl.Expenses.Tree[0]
	assert.Equal(t, "Direct Expenses", direct.Name)
	assertDecimal(t, "850", direct.Balance, "sub-group rolls into parent")
	require.Len(t, direct.Children, 1)
	assertDecimal(t, "150", direct.Children[0].Balance)

	purchases := pl.Expenses.Tree[1]
	require.Len(t, purchases.Accounts, 1)
	assert.True(t, purchases.Accounts[0].Mirrored)
	assertDecimal(t, "1200", purchases.Balance, "vendor payments are not purchases")

	assertDecimal(t, "2050", pl.Expenses.Total)
	assertDecimal(t, "2800", pl.Totals.TotalIncome)
	assertDecimal(t, "2050", pl.Totals.TotalExpenses)
	assertDecimal(t, "750", pl.Totals.NetProfit)
}

func TestProfitAndLossIgnoresOpeningBalances(t *testing.T) {
	f := newPLFixture(t)
	before := f.engine().Build(AllTime())

	require.NoError(t, f.feed.ChangeOpening(bal("99999", Credit)))
	require.NoError(t, f.sales.ChangeOpening(bal("1", Debit)))
	after := f.engine().Build(AllTime())

	assert.Equal(t, before.Totals, after.Totals)
	assert.Equal(t, before.Expenses.Tree[0].Balance, after.Expenses.Tree[0].Balance)
}

func TestProfitAndLossWindow(t *testing.T) {
	f := newPLFixture(t)
	pl := f.engine().Build(NewWindow(ptr(day(11)), nil))

	assert.True(t, pl.Income.Total.IsZero(), "journal on day 10 is outside the period")
	assertDecimal(t, "1200", pl.Expenses.Total)
}

func TestBalanceSheet(t *testing.T) {
	capital := mustGroup(t, "Capital Account", GroupLiability, nil)
	cashGroup := mustGroup(t, "Cash-in-Hand", GroupAssets, nil)
	income := mustGroup(t, "Sales Accounts", GroupIncome, nil)

	owner := mustLedger(t, "Owner", capital, bal("1000", Credit))
	cash := mustLedger(t, "Cash", cashGroup, bal("1000", Debit))
	sales := mustLedger(t, "Sales", income, ZeroBalance())

	src := SourceSet{Vouchers: []Voucher{{
		ID: uuid.New(), Type: VoucherJournal, Date: day(3),
		Entries: []VoucherEntry{
			{ID: uuid.New(), AccountName: "Cash", DebitAmount: dec("250")},
			{ID: uuid.New(), AccountName: "Sales", CreditAmount: dec("250")},
		},
	}}}

	tree := BuildAccountTree([]*Group{capital, cashGroup, income}, []Account{owner, cash, sales})
	agg := NewTransactionAggregator(DefaultSettings())
	bs, err := BuildBalanceSheet(tree,
		NewTrialBalanceEngine(tree, agg, src),
		NewProfitAndLossEngine(tree, agg, src),
		UpTo(day(30)))
	require.NoError(t, err)

	require.Len(t, bs.Liabilities, 1)
	require.Len(t, bs.Assets, 1)
	assertDecimal(t, "1000", bs.Liabilities[0].Amount)
	assertDecimal(t, "1250", bs.Assets[0].Amount)
	assertDecimal(t, "250", bs.NetProfit)
	assertDecimal(t, "1250", bs.TotalLiabilities)
	assertDecimal(t, "0", bs.Difference)
}
