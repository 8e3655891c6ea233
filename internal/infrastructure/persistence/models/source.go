package models

import (
	"time"

	"github.com/flockbooks/backend/internal/domain/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Source tables are written by the trading modules and only read here,
// except balance_adjustments.

type VoucherModel struct {
	BaseModel
	Number    string                 `gorm:"type:varchar(50);not null;index"`
	Type      accounting.VoucherType `gorm:"type:varchar(20);not null"`
	Date      time.Time              `gorm:"not null;index"`
	Account   string                 `gorm:"type:varchar(200)"`
	Amount    decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	Narration string                 `gorm:"type:text"`
	Entries   []VoucherEntryModel    `gorm:"foreignKey:VoucherID;references:ID"`
	Parties   []VoucherPartyModel    `gorm:"foreignKey:VoucherID;references:ID"`
}

func (VoucherModel) TableName() string { return "vouchers" }

func (m *VoucherModel) ToDomain() accounting.Voucher {
	v := accounting.Voucher{
		ID:        m.ID,
		Number:    m.Number,
		Type:      m.Type,
		Date:      m.Date,
		Account:   m.Account,
		Amount:    m.Amount,
		Narration: m.Narration,
	}
	for _, e := range m.Entries {
		v.Entries = append(v.Entries, accounting.VoucherEntry{
			ID:           e.ID,
			AccountName:  e.AccountName,
			DebitAmount:  e.DebitAmount,
			CreditAmount: e.CreditAmount,
		})
	}
	for _, p := range m.Parties {
		v.Parties = append(v.Parties, accounting.VoucherParty{
			ID:        p.ID,
			PartyID:   p.PartyID,
			PartyType: p.PartyType,
			Amount:    p.Amount,
		})
	}
	return v
}

type VoucherEntryModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key"`
	VoucherID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	LineNo       int             `gorm:"not null;default:0"`
	AccountName  string          `gorm:"type:varchar(200);not null"`
	DebitAmount  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CreditAmount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

func (VoucherEntryModel) TableName() string { return "voucher_entries" }

type VoucherPartyModel struct {
	ID        uuid.UUID              `gorm:"type:uuid;primary_key"`
	VoucherID uuid.UUID              `gorm:"type:uuid;not null;index"`
	LineNo    int                    `gorm:"not null;default:0"`
	PartyID   uuid.UUID              `gorm:"type:uuid;not null;index"`
	PartyType accounting.AccountKind `gorm:"type:varchar(20)"`
	Amount    decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
}

func (VoucherPartyModel) TableName() string { return "voucher_parties" }

type TripModel struct {
	BaseModel
	Number    string              `gorm:"type:varchar(50);not null;index"`
	Date      time.Time           `gorm:"not null;index"`
	Sales     []TripSaleModel     `gorm:"foreignKey:TripID;references:ID"`
	Purchases []TripPurchaseModel `gorm:"foreignKey:TripID;references:ID"`
}

func (TripModel) TableName() string { return "trips" }

func (m *TripModel) ToDomain() accounting.Trip {
	t := accounting.Trip{ID: m.ID, Number: m.Number, Date: m.Date}
	for _, s := range m.Sales {
		t.Sales = append(t.Sales, accounting.TripSale{
			ID:             s.ID,
			ClientID:       s.ClientID,
			Amount:         s.Amount,
			Birds:          s.Birds,
			Weight:         s.Weight,
			CashPaid:       s.CashPaid,
			OnlinePaid:     s.OnlinePaid,
			Discount:       s.Discount,
			CashLedgerID:   s.CashLedgerID,
			OnlineLedgerID: s.OnlineLedgerID,
			ReceiptOnly:    s.ReceiptOnly,
		})
	}
	for _, p := range m.Purchases {
		t.Purchases = append(t.Purchases, accounting.TripPurchase{
			ID:         p.ID,
			SupplierID: p.SupplierID,
			Amount:     p.Amount,
			Birds:      p.Birds,
			Weight:     p.Weight,
		})
	}
	return t
}

type TripSaleModel struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key"`
	TripID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	LineNo         int             `gorm:"not null;default:0"`
	ClientID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Birds          int64           `gorm:"not null;default:0"`
	Weight         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CashPaid       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	OnlinePaid     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Discount       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CashLedgerID   *uuid.UUID      `gorm:"type:uuid"`
	OnlineLedgerID *uuid.UUID      `gorm:"type:uuid"`
	ReceiptOnly    bool            `gorm:"not null;default:false"`
}

func (TripSaleModel) TableName() string { return "trip_sales" }

type TripPurchaseModel struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key"`
	TripID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	LineNo     int             `gorm:"not null;default:0"`
	SupplierID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Birds      int64           `gorm:"not null;default:0"`
	Weight     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

func (TripPurchaseModel) TableName() string { return "trip_purchases" }

type InventoryStockModel struct {
	BaseModel
	Type            accounting.StockType `gorm:"type:varchar(20);not null"`
	Date            time.Time            `gorm:"not null;index"`
	ItemName        string               `gorm:"type:varchar(200)"`
	VendorID        *uuid.UUID           `gorm:"type:uuid;index"`
	CustomerID      *uuid.UUID           `gorm:"type:uuid;index"`
	CashLedgerID    *uuid.UUID           `gorm:"type:uuid"`
	OnlineLedgerID  *uuid.UUID           `gorm:"type:uuid"`
	ExpenseLedgerID *uuid.UUID           `gorm:"type:uuid"`
	Quantity        decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	Amount          decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	CashPaid        decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	OnlinePaid      decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
}

func (InventoryStockModel) TableName() string { return "inventory_stocks" }

func (m *InventoryStockModel) ToDomain() accounting.InventoryStock {
	return accounting.InventoryStock{
		ID:              m.ID,
		Type:            m.Type,
		Date:            m.Date,
		ItemName:        m.ItemName,
		VendorID:        m.VendorID,
		CustomerID:      m.CustomerID,
		CashLedgerID:    m.CashLedgerID,
		OnlineLedgerID:  m.OnlineLedgerID,
		ExpenseLedgerID: m.ExpenseLedgerID,
		Quantity:        m.Quantity,
		Amount:          m.Amount,
		CashPaid:        m.CashPaid,
		OnlinePaid:      m.OnlinePaid,
	}
}

type IndirectSaleModel struct {
	BaseModel
	Date           time.Time       `gorm:"not null;index"`
	VendorID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	CustomerID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	PurchaseAmount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	PurchaseBirds  int64           `gorm:"not null;default:0"`
	PurchaseWeight decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	SaleAmount     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	SaleBirds      int64           `gorm:"not null;default:0"`
	SaleWeight     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

func (IndirectSaleModel) TableName() string { return "indirect_sales" }

func (m *IndirectSaleModel) ToDomain() accounting.IndirectSale {
	return accounting.IndirectSale{
		ID:         m.ID,
		Date:       m.Date,
		VendorID:   m.VendorID,
		CustomerID: m.CustomerID,
		Purchase:   accounting.DealSummary{Amount: m.PurchaseAmount, Birds: m.PurchaseBirds, Weight: m.PurchaseWeight},
		Sale:       accounting.DealSummary{Amount: m.SaleAmount, Birds: m.SaleBirds, Weight: m.SaleWeight},
	}
}

// BalanceAdjustmentModel is the one source table this service writes.
type BalanceAdjustmentModel struct {
	BaseModel
	Date        time.Time              `gorm:"not null;index"`
	AccountKind accounting.AccountKind `gorm:"type:varchar(20);not null"`
	AccountID   uuid.UUID              `gorm:"type:uuid;not null;index"`
	Side        accounting.BalanceType `gorm:"type:varchar(10);not null"`
	Amount      decimal.Decimal        `gorm:"type:decimal(18,4);not null"`
	Reversal    bool                   `gorm:"not null;default:false"`
	Narration   string                 `gorm:"type:text"`
}

func (BalanceAdjustmentModel) TableName() string { return "balance_adjustments" }

func (m *BalanceAdjustmentModel) ToDomain() accounting.BalanceAdjustment {
	return accounting.BalanceAdjustment{
		ID:          m.ID,
		Date:        m.Date,
		AccountKind: m.AccountKind,
		AccountID:   m.AccountID,
		Side:        m.Side,
		Amount:      m.Amount,
		Reversal:    m.Reversal,
		Narration:   m.Narration,
	}
}

func BalanceAdjustmentFromDomain(adj accounting.BalanceAdjustment) *BalanceAdjustmentModel {
	return &BalanceAdjustmentModel{
		BaseModel:   BaseModel{ID: adj.ID, CreatedAt: adj.Date, UpdatedAt: adj.Date},
		Date:        adj.Date,
		AccountKind: adj.AccountKind,
		AccountID:   adj.AccountID,
		Side:        adj.Side,
		Amount:      adj.Amount,
		Reversal:    adj.Reversal,
		Narration:   adj.Narration,
	}
}
