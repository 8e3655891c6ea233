package accounting

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// VoucherType identifies a manually entered voucher.
type VoucherType string

const (
	VoucherSales    VoucherType = "Sales"
	VoucherPurchase VoucherType = "Purchase"
	VoucherPayment  VoucherType = "Payment"
	VoucherReceipt  VoucherType = "Receipt"
	VoucherContra   VoucherType = "Contra"
	VoucherJournal  VoucherType = "Journal"
)

// Voucher is a manual transaction. Entries reference accounts by name,
// parties by id.
type Voucher struct {
	ID     uuid.UUID
	Number string
	Type   VoucherType
	Date   time.Time
	// Account is the legacy single-account header, holding an id or a name.
	Account   string
	Amount    decimal.Decimal
	Narration string
	Entries   []VoucherEntry
	Parties   []VoucherParty
}

// VoucherEntry is a name-keyed debit/credit line.
type VoucherEntry struct {
	ID           uuid.UUID
	AccountName  string
	DebitAmount  decimal.Decimal
	CreditAmount decimal.Decimal
}

// VoucherParty is an id-keyed party line of a payment or receipt.
type VoucherParty struct {
	ID        uuid.UUID
	PartyID   uuid.UUID
	PartyType AccountKind
	Amount    decimal.Decimal
}

// Total returns the header amount, or the sum of party amounts when unset.
func (v *Voucher) Total() decimal.Decimal {
	if !v.Amount.IsZero() {
		return v.Amount
	}
	total := decimal.Zero
	for _, p := range v.Parties {
		total = total.Add(p.Amount)
	}
	return total
}

// Trip is a logistics run whose sale and purchase lines are accounting sources.
type Trip struct {
	ID        uuid.UUID
	Number    string
	Date      time.Time
	Sales     []TripSale
	Purchases []TripPurchase
}

// TripSale is one customer drop-off on a trip.
type TripSale struct {
	ID             uuid.UUID
	ClientID       uuid.UUID
	Amount         decimal.Decimal
	Birds          int64
	Weight         decimal.Decimal
	CashPaid       decimal.Decimal
	OnlinePaid     decimal.Decimal
	Discount       decimal.Decimal
	CashLedgerID   *uuid.UUID
	OnlineLedgerID *uuid.UUID
	// ReceiptOnly marks a line that only collects dues, with no goods sold.
	ReceiptOnly bool
}

// TripPurchase is one supplier pick-up on a trip.
type TripPurchase struct {
	ID         uuid.UUID
	SupplierID uuid.UUID
	Amount     decimal.Decimal
	Birds      int64
	Weight     decimal.Decimal
}

// StockType classifies an inventory movement.
type StockType string

const (
	StockPurchase   StockType = "purchase"
	StockOpening    StockType = "opening"
	StockSale       StockType = "sale"
	StockReceipt    StockType = "receipt"
	StockConsume    StockType = "consume"
	StockMortality  StockType = "mortality"
	StockAdjustment StockType = "adjustment"
)

// IsValid reports whether t is a known stock movement.
func (t StockType) IsValid() bool {
	switch t {
	case StockPurchase, StockOpening, StockSale, StockReceipt, StockConsume, StockMortality, StockAdjustment:
		return true
	}
	return false
}

// InventoryStock is an inventory movement with optional account references.
type InventoryStock struct {
	ID              uuid.UUID
	Type            StockType
	Date            time.Time
	ItemName        string
	VendorID        *uuid.UUID
	CustomerID      *uuid.UUID
	CashLedgerID    *uuid.UUID
	OnlineLedgerID  *uuid.UUID
	ExpenseLedgerID *uuid.UUID
	Quantity        decimal.Decimal
	Amount          decimal.Decimal
	CashPaid        decimal.Decimal
	OnlinePaid      decimal.Decimal
}

// IndirectSale is a pass-through deal: birds bought from a vendor and sold
// straight to a customer.
type IndirectSale struct {
	ID         uuid.UUID
	Date       time.Time
	VendorID   uuid.UUID
	CustomerID uuid.UUID
	Purchase   DealSummary
	Sale       DealSummary
}

// DealSummary is the pre-aggregated side of an indirect sale.
type DealSummary struct {
	Amount decimal.Decimal
	Birds  int64
	Weight decimal.Decimal
}

// BalanceAdjustment is an amount posted straight to an account's outstanding
// balance. It is kept as a source so that statement replay reproduces it.
type BalanceAdjustment struct {
	ID          uuid.UUID
	Date        time.Time
	AccountKind AccountKind
	AccountID   uuid.UUID
	// Side is the side the outstanding balance moved on. A reversal stores
	// the opposite of the side it undoes.
	Side      BalanceType
	Amount    decimal.Decimal
	Reversal  bool
	Narration string
}

// SourceSet bundles the transaction sources. Any slice may be nil.
type SourceSet struct {
	Vouchers      []Voucher
	Trips         []Trip
	Stocks        []InventoryStock
	IndirectSales []IndirectSale
	Adjustments   []BalanceAdjustment
}
