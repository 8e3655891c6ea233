package accounting

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
)

// AggregationWarning records a source record that was skipped for an account.
type AggregationWarning struct {
	AccountID  uuid.UUID  `json:"account_id"`
	SourceType SourceType `json:"source_type,omitempty"`
	SourceID   uuid.UUID  `json:"source_id,omitempty"`
	Reason     string     `json:"reason"`
}

func (w AggregationWarning) String() string {
	if w.SourceType == "" {
		return fmt.Sprintf("account %s: %s", w.AccountID, w.Reason)
	}
	return fmt.Sprintf("account %s: %s %s: %s", w.AccountID, w.SourceType, w.SourceID, w.Reason)
}

// Totals is the folded result of an account's postings over a window.
type Totals struct {
	PeriodDebit  decimal.Decimal `json:"period_debit"`
	PeriodCredit decimal.Decimal `json:"period_credit"`
	// PriorDebit and PriorCredit cover activity before the window start and
	// are carried into the period opening.
	PriorDebit       decimal.Decimal `json:"prior_debit"`
	PriorCredit      decimal.Decimal `json:"prior_credit"`
	Quantities       Quantity        `json:"quantities"`
	OtherAdjustments decimal.Decimal `json:"other_adjustments"`
}

// PriorNet is the signed carry-forward.
func (t Totals) PriorNet() decimal.Decimal {
	return t.PriorDebit.Sub(t.PriorCredit)
}

// PeriodNet is the signed in-window delta.
func (t Totals) PeriodNet() decimal.Decimal {
	return t.PeriodDebit.Sub(t.PeriodCredit)
}

// Net is the signed delta of everything up to the window end.
func (t Totals) Net() decimal.Decimal {
	return t.PriorNet().Add(t.PeriodNet())
}

// Summarize folds postings into totals for w. Postings after w.End are ignored.
func Summarize(postings []Posting, w Window) Totals {
	var t Totals
	for _, p := range postings {
		switch w.position(p.Date) {
		case beforeWindow:
			if p.Side == Debit {
				t.PriorDebit = t.PriorDebit.Add(p.Amount)
			} else {
				t.PriorCredit = t.PriorCredit.Add(p.Amount)
			}
		case insideWindow:
			if p.Side == Debit {
				t.PeriodDebit = t.PeriodDebit.Add(p.Amount)
			} else {
				t.PeriodCredit = t.PeriodCredit.Add(p.Amount)
			}
			t.Quantities = t.Quantities.Add(p.Quantity)
			if p.Particulars == ParticularsDiscount || p.Particulars == ParticularsTDS {
				t.OtherAdjustments = t.OtherAdjustments.Add(p.Amount)
			}
		}
	}
	return t
}

// TransactionAggregator matches the transaction sources against one
// account. It holds no state besides its settings and is safe for concurrent use.
type TransactionAggregator struct {
	settings Settings
}

// NewTransactionAggregator creates an aggregator.
func NewTransactionAggregator(settings Settings) *TransactionAggregator {
	return &TransactionAggregator{settings: settings}
}

// Settings returns the settings the aggregator was built with.
func (a *TransactionAggregator) Settings() Settings {
	return a.settings
}

// Aggregate sums acc's activity over w.
func (a *TransactionAggregator) Aggregate(acc Account, w Window, src SourceSet) (Totals, []AggregationWarning) {
	postings, warnings := a.Postings(acc, w, src)
	return Summarize(postings, w), warnings
}

// Postings returns every posting touching acc dated up to w.End, including
// those before w.Start. Records that fail validation are skipped and reported.
func (a *TransactionAggregator) Postings(acc Account, w Window, src SourceSet) ([]Posting, []AggregationWarning) {
	c := &collector{
		matcher: newMatcher(acc),
		window:  w,
	}
	for i := range src.Vouchers {
		a.collectVoucher(c, &src.Vouchers[i])
	}
	for i := range src.Trips {
		a.collectTrip(c, &src.Trips[i])
	}
	for i := range src.Stocks {
		a.collectStock(c, &src.Stocks[i])
	}
	for i := range src.IndirectSales {
		a.collectIndirectSale(c, &src.IndirectSales[i])
	}
	for i := range src.Adjustments {
		a.collectAdjustment(c, &src.Adjustments[i])
	}
	return c.postings, c.warnings
}

type matcher struct {
	acc    Account
	id     uuid.UUID
	idText string
	name   string
	kind   AccountKind
}

func newMatcher(acc Account) matcher {
	return matcher{
		acc:    acc,
		id:     acc.GetID(),
		idText: acc.GetID().String(),
		name:   normalizeName(acc.DisplayName()),
		kind:   acc.Kind(),
	}
}

// normalizeName folds case and trims spaces for legacy name-keyed entries.
func normalizeName(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

func (m matcher) matchesText(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	return strings.EqualFold(s, m.idText) || normalizeName(s) == m.name
}

func (m matcher) is(kind AccountKind, id uuid.UUID) bool {
	return m.kind == kind && id == m.id
}

func (m matcher) isRef(kind AccountKind, id *uuid.UUID) bool {
	return id != nil && m.is(kind, *id)
}

type collector struct {
	matcher
	window   Window
	postings []Posting
	warnings []AggregationWarning
}

func (c *collector) add(p Posting) {
	if p.Amount.IsZero() && p.Quantity.IsZero() {
		return
	}
	if c.window.position(p.Date) == afterWindow {
		return
	}
	c.postings = append(c.postings, p)
}

func (c *collector) warn(st SourceType, id uuid.UUID, reason string) {
	c.warnings = append(c.warnings, AggregationWarning{
		AccountID:  c.id,
		SourceType: st,
		SourceID:   id,
		Reason:     reason,
	})
}

func anyNegative(amounts ...decimal.Decimal) bool {
	for _, a := range amounts {
		if a.IsNegative() {
			return true
		}
	}
	return false
}

func (a *TransactionAggregator) collectVoucher(c *collector, v *Voucher) {
	switch v.Type {
	case VoucherPayment, VoucherReceipt:
		a.collectSettlementVoucher(c, v)
	case VoucherJournal, VoucherContra, VoucherSales, VoucherPurchase:
		a.collectEntryVoucher(c, v)
	default:
		if c.voucherReferences(v) {
			c.warn(SourceVoucher, v.ID, fmt.Sprintf("unknown voucher type %q", v.Type))
		}
	}
}

func (c *collector) voucherReferences(v *Voucher) bool {
	if c.matchesText(v.Account) {
		return true
	}
	for _, p := range v.Parties {
		if p.PartyID == c.id {
			return true
		}
	}
	for _, e := range v.Entries {
		if c.matchesText(e.AccountName) {
			return true
		}
	}
	return false
}

func (a *TransactionAggregator) collectSettlementVoucher(c *collector, v *Voucher) {
	label := ParticularsReceipt
	partySide := Credit
	if v.Type == VoucherPayment {
		label = ParticularsPayment
		partySide = Debit
	}

	var matched []VoucherParty
	for _, p := range v.Parties {
		if p.PartyID != c.id {
			continue
		}
		if p.PartyType != "" && p.PartyType != c.kind {
			continue
		}
		matched = append(matched, p)
	}
	header := c.matchesText(v.Account)
	if len(matched) == 0 && !header {
		return
	}

	for _, p := range matched {
		if p.Amount.IsNegative() {
			c.warn(SourceVoucher, v.ID, "negative party amount")
			return
		}
	}
	total := v.Total()
	if header && total.IsNegative() {
		c.warn(SourceVoucher, v.ID, "negative voucher amount")
		return
	}

	for _, p := range matched {
		c.add(Posting{
			Date:        v.Date,
			SourceType:  SourceVoucher,
			SourceID:    v.ID,
			EntryID:     p.ID.String(),
			Particulars: label,
			Side:        partySide,
			Amount:      p.Amount,
			Narration:   v.Narration,
		})
	}
	if header {
		// The header account is the cash or bank side, so it moves opposite to the parties.
		c.add(Posting{
			Date:        v.Date,
			SourceType:  SourceVoucher,
			SourceID:    v.ID,
			EntryID:     "header",
			Particulars: label,
			Side:        partySide.Opposite(),
			Amount:      total,
			Narration:   v.Narration,
		})
	}
}

func (a *TransactionAggregator) collectEntryVoucher(c *collector, v *Voucher) {
	var matched []VoucherEntry
	for _, e := range v.Entries {
		if c.matchesText(e.AccountName) {
			matched = append(matched, e)
		}
	}
	for _, e := range matched {
		if anyNegative(e.DebitAmount, e.CreditAmount) {
			c.warn(SourceVoucher, v.ID, "negative entry amount")
			return
		}
	}
	for _, e := range matched {
		base := Posting{
			Date:        v.Date,
			SourceType:  SourceVoucher,
			SourceID:    v.ID,
			Particulars: ParticularsJournal,
			Narration:   v.Narration,
		}
		dr := base
		dr.EntryID = e.ID.String() + "/dr"
		dr.Side = Debit
		dr.Amount = e.DebitAmount
		c.add(dr)

		cr := base
		cr.EntryID = e.ID.String() + "/cr"
		cr.Side = Credit
		cr.Amount = e.CreditAmount
		c.add(cr)
	}
}

func (a *TransactionAggregator) collectTrip(c *collector, t *Trip) {
	for i := range t.Sales {
		s := &t.Sales[i]
		customer := c.is(KindCustomer, s.ClientID)
		cash := c.isRef(KindLedger, s.CashLedgerID)
		online := c.isRef(KindLedger, s.OnlineLedgerID)
		if !customer && !cash && !online {
			continue
		}
		if anyNegative(s.Amount, s.CashPaid, s.OnlinePaid, s.Discount) {
			c.warn(SourceTrip, t.ID, "negative amount on sale line "+s.ID.String())
			continue
		}
		line := s.ID.String()
		base := Posting{Date: t.Date, SourceType: SourceTrip, SourceID: t.ID, LineID: line}
		if customer {
			if !s.ReceiptOnly {
				p := base
				p.EntryID, p.Particulars, p.Side, p.Amount = line+"/sale", ParticularsSales, Debit, s.Amount
				p.Quantity = Quantity{Birds: s.Birds, Weight: s.Weight}
				c.add(p)
			}
			p := base
			p.EntryID, p.Particulars, p.Side, p.Amount = line+"/cash", ParticularsCashReceipt, Credit, s.CashPaid
			c.add(p)
			p = base
			p.EntryID, p.Particulars, p.Side, p.Amount = line+"/bank", ParticularsBankReceipt, Credit, s.OnlinePaid
			c.add(p)
			p = base
			p.EntryID, p.Particulars, p.Side, p.Amount = line+"/discount", ParticularsDiscount, Credit, s.Discount
			c.add(p)
		}
		if cash {
			p := base
			p.EntryID, p.Particulars, p.Side, p.Amount = line+"/cash", ParticularsCashReceipt, Debit, s.CashPaid
			c.add(p)
		}
		if online {
			p := base
			p.EntryID, p.Particulars, p.Side, p.Amount = line+"/bank", ParticularsBankReceipt, Debit, s.OnlinePaid
			c.add(p)
		}
	}

	for i := range t.Purchases {
		pl := &t.Purchases[i]
		if !c.is(KindVendor, pl.SupplierID) {
			continue
		}
		if pl.Amount.IsNegative() {
			c.warn(SourceTrip, t.ID, "negative amount on purchase line "+pl.ID.String())
			continue
		}
		line := pl.ID.String()
		c.add(Posting{
			Date:        t.Date,
			SourceType:  SourceTrip,
			SourceID:    t.ID,
			LineID:      line,
			EntryID:     line + "/purchase",
			Particulars: ParticularsPurchase,
			Side:        Credit,
			Amount:      pl.Amount,
			Quantity:    Quantity{Birds: pl.Birds, Weight: pl.Weight},
		})
		a.collectTDS(c, SourceTrip, t.ID, line, line+"/tds", t.Date, pl.Amount)
	}
}

func (a *TransactionAggregator) collectTDS(c *collector, st SourceType, id uuid.UUID, lineID, entryID string, at time.Time, amount decimal.Decimal) {
	vendor, ok := c.acc.(*Vendor)
	if !ok || !a.settings.TDSApplies(vendor, at) {
		return
	}
	c.add(Posting{
		Date:        at,
		SourceType:  st,
		SourceID:    id,
		LineID:      lineID,
		EntryID:     entryID,
		Particulars: ParticularsTDS,
		Side:        Debit,
		Amount:      a.settings.TDSAmount(amount),
	})
}

func (a *TransactionAggregator) collectStock(c *collector, s *InventoryStock) {
	vendor := c.isRef(KindVendor, s.VendorID)
	customer := c.isRef(KindCustomer, s.CustomerID)
	cash := c.isRef(KindLedger, s.CashLedgerID)
	online := c.isRef(KindLedger, s.OnlineLedgerID)
	expense := c.isRef(KindLedger, s.ExpenseLedgerID)
	if !vendor && !customer && !cash && !online && !expense {
		return
	}
	if anyNegative(s.Amount, s.CashPaid, s.OnlinePaid, s.Quantity) {
		c.warn(SourceStock, s.ID, "negative stock amount")
		return
	}
	if !s.Type.IsValid() {
		c.warn(SourceStock, s.ID, fmt.Sprintf("unknown stock type %q", s.Type))
		return
	}

	base := Posting{Date: s.Date, SourceType: SourceStock, SourceID: s.ID, Narration: s.ItemName}
	qty := Quantity{Units: s.Quantity}

	switch s.Type {
	case StockPurchase, StockOpening:
		if vendor {
			p := base
			p.EntryID, p.Particulars, p.Side, p.Amount, p.Quantity = "purchase", ParticularsStockPurchase, Credit, s.Amount, qty
			c.add(p)
		}
		if cash {
			p := base
			p.EntryID, p.Particulars, p.Side, p.Amount = "cash", ParticularsPayment, Credit, s.CashPaid
			c.add(p)
		}
		if online {
			p := base
			p.EntryID, p.Particulars, p.Side, p.Amount = "bank", ParticularsPayment, Credit, s.OnlinePaid
			c.add(p)
		}
	case StockSale, StockReceipt:
		if customer {
			if s.Type == StockSale {
				p := base
				p.EntryID, p.Particulars, p.Side, p.Amount, p.Quantity = "sale", ParticularsStockSale, Debit, s.Amount, qty
				c.add(p)
			}
			p := base
			p.EntryID, p.Particulars, p.Side, p.Amount = "cash", ParticularsCashReceipt, Credit, s.CashPaid
			c.add(p)
			p = base
			p.EntryID, p.Particulars, p.Side, p.Amount = "bank", ParticularsBankReceipt, Credit, s.OnlinePaid
			c.add(p)
		}
		if cash {
			p := base
			p.EntryID, p.Particulars, p.Side, p.Amount = "cash", ParticularsCashReceipt, Debit, s.CashPaid
			c.add(p)
		}
		if online {
			p := base
			p.EntryID, p.Particulars, p.Side, p.Amount = "bank", ParticularsBankReceipt, Debit, s.OnlinePaid
			c.add(p)
		}
	}

	if expense {
		p := base
		p.EntryID, p.Particulars, p.Side, p.Amount, p.Quantity = "expense", ParticularsExpense, Debit, s.Amount, qty
		c.add(p)
	}
}

func (a *TransactionAggregator) collectIndirectSale(c *collector, s *IndirectSale) {
	customer := c.is(KindCustomer, s.CustomerID)
	vendor := c.is(KindVendor, s.VendorID)
	if !customer && !vendor {
		return
	}
	if anyNegative(s.Sale.Amount, s.Purchase.Amount) {
		c.warn(SourceIndirectSale, s.ID, "negative deal amount")
		return
	}
	if customer {
		c.add(Posting{
			Date:        s.Date,
			SourceType:  SourceIndirectSale,
			SourceID:    s.ID,
			EntryID:     "sale",
			Particulars: ParticularsIndirectSale,
			Side:        Debit,
			Amount:      s.Sale.Amount,
			Quantity:    Quantity{Birds: s.Sale.Birds, Weight: s.Sale.Weight},
		})
	}
	if vendor {
		c.add(Posting{
			Date:        s.Date,
			SourceType:  SourceIndirectSale,
			SourceID:    s.ID,
			EntryID:     "purchase",
			Particulars: ParticularsIndirectPurchase,
			Side:        Credit,
			Amount:      s.Purchase.Amount,
			Quantity:    Quantity{Birds: s.Purchase.Birds, Weight: s.Purchase.Weight},
		})
		a.collectTDS(c, SourceIndirectSale, s.ID, "", "tds", s.Date, s.Purchase.Amount)
	}
}

func (a *TransactionAggregator) collectAdjustment(c *collector, adj *BalanceAdjustment) {
	if !c.is(adj.AccountKind, adj.AccountID) {
		return
	}
	if adj.Amount.IsNegative() || !adj.Side.IsValid() {
		c.warn(SourceAdjustment, adj.ID, "invalid adjustment")
		return
	}
	label := ParticularsAdjustment
	if adj.Reversal {
		label = ParticularsReversal
	}
	c.add(Posting{
		Date:        adj.Date,
		SourceType:  SourceAdjustment,
		SourceID:    adj.ID,
		EntryID:     "adjustment",
		Particulars: label,
		Side:        adj.Side,
		Amount:      adj.Amount,
		Narration:   adj.Narration,
	})
}
