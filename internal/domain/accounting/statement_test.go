package accounting

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatementEndToEnd(t *testing.T) {
	debtors := mustGroup(t, "Sundry Debtors", GroupAssets, nil)
	c := mustCustomer(t, "C", debtors, bal("0", Debit))
	trip := Trip{ID: uuid.New(), Date: day(8), Sales: []TripSale{{
		ID: uuid.New(), ClientID: c.ID, Amount: dec("1000"), CashPaid: dec("300"), Discount: dec("50"),
	}}}

	builder := NewLedgerStatementBuilder(NewTransactionAggregator(DefaultSettings()))
	stmt := builder.Build(c, Debit, AllTime(), SourceSet{Trips: []Trip{trip}})

	want := []struct {
		particulars Particulars
		amount      string
		balance     string
	}{
		{ParticularsOpening, "0", "0"},
		{ParticularsSales, "1000", "1000"},
		{ParticularsCashReceipt, "300", "700"},
		{ParticularsDiscount, "50", "650"},
	}
	require.Len(t, stmt.Entries, len(want))
	for i, w := range want {
		e := stmt.Entries[i]
		assert.Equal(t, w.particulars, e.Particulars, "entry %d", i)
		assertDecimal(t, w.amount, e.Amount, i)
		assertDecimal(t, w.balance, e.Balance, i)
	}
	assert.True(t, stmt.Totals.Closing.Equal(bal("650", Debit)))
	assert.Equal(t, Debit, stmt.Totals.Closing.Type)
	assertDecimal(t, "1000", stmt.Totals.Principal)
	assertDecimal(t, "300", stmt.Totals.Receipts)
	assertDecimal(t, "50", stmt.Totals.DiscountAndOther)
	assert.True(t, stmt.ReplayClosing().Equal(bal("650", Debit)))
}

func TestStatementIdempotent(t *testing.T) {
	creditors := mustGroup(t, "Sundry Creditors", GroupLiability, nil)
	v := mustVendor(t, "V", creditors, bal("100", Credit), true)
	src := SourceSet{
		Trips: []Trip{
			{ID: uuid.New(), Date: day(6), Purchases: []TripPurchase{{ID: uuid.New(), SupplierID: v.ID, Amount: dec("900")}}},
			{ID: uuid.New(), Date: day(6), Purchases: []TripPurchase{{ID: uuid.New(), SupplierID: v.ID, Amount: dec("100")}}},
		},
		Vouchers: []Voucher{
			{ID: uuid.New(), Type: VoucherPayment, Date: day(6), Parties: []VoucherParty{{ID: uuid.New(), PartyID: v.ID, Amount: dec("500")}}},
		},
		IndirectSales: []IndirectSale{{ID: uuid.New(), Date: day(2), VendorID: v.ID, Purchase: DealSummary{Amount: dec("50")}}},
	}
	builder := NewLedgerStatementBuilder(NewTransactionAggregator(tdsSettings()))

	first := builder.Build(v, Credit, AllTime(), src)
	second := builder.Build(v, Credit, AllTime(), src)
	assert.Equal(t, first, second)

	// opening 100 + 50 + 900 + 100 - 500 - TDS(0.9 + 0.1)
	assert.True(t, first.Totals.Closing.Equal(bal("649", Credit)), first.Totals.Closing.String())
	for i := 1; i < len(first.Entries); i++ {
		assert.False(t, first.Entries[i].Date.Before(first.Entries[i-1].Date), "entries are chronological")
	}
}

func TestStatementOrdering(t *testing.T) {
	debtors := mustGroup(t, "Sundry Debtors", GroupAssets, nil)
	c := mustCustomer(t, "C", debtors, ZeroBalance())
	saleID := uuid.New()
	trip := Trip{ID: uuid.New(), Date: day(8), Sales: []TripSale{{
		ID: saleID, ClientID: c.ID, Amount: dec("100"), CashPaid: dec("10"), OnlinePaid: dec("20"), Discount: dec("5"),
	}}}
	receipt := Voucher{ID: uuid.New(), Type: VoucherReceipt, Date: day(7),
		Parties: []VoucherParty{{ID: uuid.New(), PartyID: c.ID, Amount: dec("1")}}}

	stmt := NewLedgerStatementBuilder(NewTransactionAggregator(DefaultSettings())).
		Build(c, Debit, AllTime(), SourceSet{Trips: []Trip{trip}, Vouchers: []Voucher{receipt}})

	var got []Particulars
	for _, e := range stmt.Entries {
		got = append(got, e.Particulars)
	}
	assert.Equal(t, []Particulars{
		ParticularsOpening,
		ParticularsReceipt,
		ParticularsSales,
		ParticularsCashReceipt,
		ParticularsBankReceipt,
		ParticularsDiscount,
	}, got)
}

func TestStatementKeepsSaleLinesTogether(t *testing.T) {
	debtors := mustGroup(t, "Sundry Debtors", GroupAssets, nil)
	c := mustCustomer(t, "C", debtors, ZeroBalance())
	first := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	second := uuid.MustParse("00000000-0000-0000-0000-000000000002")
	trip := Trip{ID: uuid.New(), Date: day(8), Sales: []TripSale{
		{ID: second, ClientID: c.ID, Amount: dec("200"), CashPaid: dec("50")},
		{ID: first, ClientID: c.ID, Amount: dec("100"), CashPaid: dec("30")},
	}}

	stmt := NewLedgerStatementBuilder(NewTransactionAggregator(DefaultSettings())).
		Build(c, Debit, AllTime(), SourceSet{Trips: []Trip{trip}})

	want := []struct {
		particulars Particulars
		amount      string
	}{
		{ParticularsOpening, "0"},
		{ParticularsSales, "100"},
		{ParticularsCashReceipt, "30"},
		{ParticularsSales, "200"},
		{ParticularsCashReceipt, "50"},
	}
	require.Len(t, stmt.Entries, len(want))
	for i, w := range want {
		assert.Equal(t, w.particulars, stmt.Entries[i].Particulars, "entry %d", i)
		assertDecimal(t, w.amount, stmt.Entries[i].Amount, i)
	}
	assert.True(t, stmt.Totals.Closing.Equal(bal("220", Debit)))
}

func TestStatementWindowCarry(t *testing.T) {
	debtors := mustGroup(t, "Sundry Debtors", GroupAssets, nil)
	c := mustCustomer(t, "C", debtors, bal("100", Debit))
	src := SourceSet{Trips: []Trip{
		{ID: uuid.New(), Date: day(1), Sales: []TripSale{{ID: uuid.New(), ClientID: c.ID, Amount: dec("40")}}},
		{ID: uuid.New(), Date: day(9), Sales: []TripSale{{ID: uuid.New(), ClientID: c.ID, Amount: dec("60")}}},
		{ID: uuid.New(), Date: day(20), Sales: []TripSale{{ID: uuid.New(), ClientID: c.ID, Amount: dec("1000")}}},
	}}
	w := NewWindow(ptr(day(5)), ptr(day(10)))
	stmt := NewLedgerStatementBuilder(NewTransactionAggregator(DefaultSettings())).Build(c, Debit, w, src)

	require.Len(t, stmt.Entries, 2)
	assert.True(t, stmt.Opening.Equal(bal("140", Debit)))
	assert.Equal(t, day(5), stmt.Entries[0].Date)
	assertDecimal(t, "140", stmt.Entries[0].Balance)
	assertDecimal(t, "200", stmt.Entries[1].Balance)
	assert.True(t, stmt.Totals.Closing.Equal(bal("200", Debit)))
}

func TestStatementClamp(t *testing.T) {
	debtors := mustGroup(t, "Sundry Debtors", GroupAssets, nil)
	c := mustCustomer(t, "C", debtors, ZeroBalance())
	src := SourceSet{Vouchers: []Voucher{
		{ID: uuid.New(), Type: VoucherReceipt, Date: day(2), Parties: []VoucherParty{{ID: uuid.New(), PartyID: c.ID, Amount: dec("300")}}},
	}, Trips: []Trip{
		{ID: uuid.New(), Date: day(3), Sales: []TripSale{{ID: uuid.New(), ClientID: c.ID, Amount: dec("1000")}}},
	}}

	t.Run("unclamped keeps the advance", func(t *testing.T) {
		stmt := NewLedgerStatementBuilder(NewTransactionAggregator(DefaultSettings())).Build(c, Debit, AllTime(), src)
		assertDecimal(t, "-300", stmt.Entries[1].Balance)
		assert.True(t, stmt.Entries[1].Running.Equal(bal("300", Credit)))
		assert.True(t, stmt.Totals.Closing.Equal(bal("700", Debit)))
		assert.False(t, stmt.Clamped)
	})

	t.Run("clamped floors at zero", func(t *testing.T) {
		s := DefaultSettings()
		s.ClampRunningBalance = true
		stmt := NewLedgerStatementBuilder(NewTransactionAggregator(s)).Build(c, Debit, AllTime(), src)
		assertDecimal(t, "0", stmt.Entries[1].Balance)
		assert.True(t, stmt.Totals.Closing.Equal(bal("1000", Debit)))
		assert.True(t, stmt.ReplayClosing().Equal(bal("700", Debit)), "replay is never clamped")
		assert.True(t, stmt.Clamped)
	})
}

func TestStatementJournalFollowsRecordedSide(t *testing.T) {
	expenses := mustGroup(t, "Indirect Expenses", GroupExpenses, nil)
	rent := mustLedger(t, "Shed Rent", expenses, ZeroBalance())
	src := SourceSet{Vouchers: []Voucher{{
		ID: uuid.New(), Type: VoucherJournal, Date: day(3),
		Entries: []VoucherEntry{
			{ID: uuid.New(), AccountName: "shed rent", DebitAmount: dec("500")},
			{ID: uuid.New(), AccountName: "Shed Rent", CreditAmount: dec("120")},
		},
	}}}
	stmt := NewLedgerStatementBuilder(NewTransactionAggregator(DefaultSettings())).Build(rent, Debit, AllTime(), src)
	require.Len(t, stmt.Entries, 3)
	assert.True(t, stmt.Totals.Closing.Equal(bal("380", Debit)))
	assertDecimal(t, "620", stmt.Totals.DiscountAndOther)
}
