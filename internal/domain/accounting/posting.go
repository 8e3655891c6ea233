package accounting

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Particulars labels a statement line.
type Particulars string

const (
	ParticularsOpening          Particulars = "OP BAL"
	ParticularsSales            Particulars = "SALES"
	ParticularsPurchase         Particulars = "PURCHASE"
	ParticularsStockSale        Particulars = "STOCK_SALE"
	ParticularsStockPurchase    Particulars = "STOCK_PURCHASE"
	ParticularsIndirectSale     Particulars = "INDIRECT_SALE"
	ParticularsIndirectPurchase Particulars = "INDIRECT_PURCHASE"
	ParticularsExpense          Particulars = "EXPENSE"
	ParticularsReceipt          Particulars = "RECEIPT"
	ParticularsPayment          Particulars = "PAYMENT"
	ParticularsCashReceipt      Particulars = "BY CASH RECEIPT"
	ParticularsBankReceipt      Particulars = "BY BANK RECEIPT"
	ParticularsDiscount         Particulars = "DISCOUNT"
	ParticularsJournal          Particulars = "JOURNAL"
	ParticularsTDS              Particulars = "TDS"
	ParticularsAdjustment       Particulars = "ADJUSTMENT"
	ParticularsReversal         Particulars = "REVERSAL"
)

// IsPrimary reports whether p records the underlying sale, purchase or expense.
func (p Particulars) IsPrimary() bool {
	switch p {
	case ParticularsSales, ParticularsPurchase, ParticularsStockSale, ParticularsStockPurchase,
		ParticularsIndirectSale, ParticularsIndirectPurchase, ParticularsExpense:
		return true
	}
	return false
}

// IsPurchase reports whether p is a purchase-type primary label.
func (p Particulars) IsPurchase() bool {
	return p == ParticularsPurchase || p == ParticularsStockPurchase || p == ParticularsIndirectPurchase
}

// IsSettlement reports whether p records money changing hands.
func (p Particulars) IsSettlement() bool {
	switch p {
	case ParticularsReceipt, ParticularsPayment, ParticularsCashReceipt, ParticularsBankReceipt:
		return true
	}
	return false
}

// Precedence orders lines of one transaction on a statement.
func (p Particulars) Precedence() int {
	switch {
	case p == ParticularsOpening:
		return 0
	case p.IsPrimary():
		return 1
	case p == ParticularsCashReceipt:
		return 2
	case p == ParticularsBankReceipt:
		return 3
	case p == ParticularsDiscount:
		return 4
	default:
		return 99
	}
}

// SourceType names where a posting came from.
type SourceType string

const (
	SourceVoucher      SourceType = "voucher"
	SourceTrip         SourceType = "trip"
	SourceStock        SourceType = "stock"
	SourceIndirectSale SourceType = "indirect_sale"
	SourceAdjustment   SourceType = "adjustment"
)

// Quantity accumulates physical volumes alongside money.
type Quantity struct {
	Birds  int64           `json:"birds"`
	Weight decimal.Decimal `json:"weight"`
	Units  decimal.Decimal `json:"units"`
}

// Add returns q + o.
func (q Quantity) Add(o Quantity) Quantity {
	return Quantity{
		Birds:  q.Birds + o.Birds,
		Weight: q.Weight.Add(o.Weight),
		Units:  q.Units.Add(o.Units),
	}
}

// IsZero reports whether no volume was recorded.
func (q Quantity) IsZero() bool {
	return q.Birds == 0 && q.Weight.IsZero() && q.Units.IsZero()
}

// Posting is one source line normalized against a single account.
type Posting struct {
	Date       time.Time
	SourceType SourceType
	SourceID   uuid.UUID
	// LineID names the sub-record of a multi-line source, such as one sale
	// on a trip. Empty for single-line sources.
	LineID      string
	EntryID     string
	Particulars Particulars
	Side        BalanceType
	Amount      decimal.Decimal
	Quantity    Quantity
	Narration   string
}

// Signed returns the debit-positive value of the posting.
func (p Posting) Signed() decimal.Decimal {
	if p.Side == Credit {
		return p.Amount.Neg()
	}
	return p.Amount
}

// SourceKey identifies the underlying transaction.
func (p Posting) SourceKey() string {
	return string(p.SourceType) + ":" + p.SourceID.String()
}

// GroupKey keeps the lines of one sub-record together on a statement.
func (p Posting) GroupKey() string {
	if p.LineID == "" {
		return p.SourceKey()
	}
	return p.SourceKey() + ":" + p.LineID
}

// MirrorPurchases keeps only purchase-type postings and books them on the
// debit side, giving a purchase account's view of a vendor's activity.
func MirrorPurchases(postings []Posting) []Posting {
	out := make([]Posting, 0, len(postings))
	for _, p := range postings {
		if !p.Particulars.IsPurchase() {
			continue
		}
		p.Side = Debit
		out = append(out, p)
	}
	return out
}
