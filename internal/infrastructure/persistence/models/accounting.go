package models

import (
	"github.com/flockbooks/backend/internal/domain/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountGroupModel is the persistence model for accounting.Group.
type AccountGroupModel struct {
	AggregateModel
	Name               string               `gorm:"type:varchar(200);not null;uniqueIndex"`
	Type               accounting.GroupType `gorm:"type:varchar(20);not null"`
	ParentID           *uuid.UUID           `gorm:"type:uuid;index"`
	Predefined         bool                 `gorm:"not null;default:false"`
	Active             bool                 `gorm:"not null;default:true"`
	IncludesAllVendors bool                 `gorm:"not null;default:false"`
}

func (AccountGroupModel) TableName() string {
	return "account_groups"
}

func (m *AccountGroupModel) ToDomain() *accounting.Group {
	g := &accounting.Group{
		BaseAggregateRoot:  m.ToDomainAggregateRoot(),
		Name:               m.Name,
		Type:               m.Type,
		Predefined:         m.Predefined,
		Active:             m.Active,
		IncludesAllVendors: m.IncludesAllVendors,
	}
	if m.ParentID != nil {
		p := *m.ParentID
		g.ParentID = &p
	}
	return g
}

func AccountGroupModelFromDomain(g *accounting.Group) *AccountGroupModel {
	m := &AccountGroupModel{
		Name:               g.Name,
		Type:               g.Type,
		ParentID:           g.ParentID,
		Predefined:         g.Predefined,
		Active:             g.Active,
		IncludesAllVendors: g.IncludesAllVendors,
	}
	m.FromDomainAggregateRoot(g.BaseAggregateRoot)
	return m
}

// AccountColumns are the balance columns shared by the three account tables.
// A balance is stored as a non-negative amount plus a side.
type AccountColumns struct {
	AggregateModel
	Name              string                 `gorm:"type:varchar(200);not null;index"`
	GroupID           uuid.UUID              `gorm:"type:uuid;not null;index"`
	OpeningAmount     decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	OpeningType       accounting.BalanceType `gorm:"type:varchar(10);not null;default:'debit'"`
	OutstandingAmount decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	OutstandingType   accounting.BalanceType `gorm:"type:varchar(10);not null;default:'debit'"`
}

func (c *AccountColumns) fromHead(h *accounting.AccountHead) {
	c.FromDomainAggregateRoot(h.BaseAggregateRoot)
	c.Name = h.Name
	c.GroupID = h.GroupID
	c.OpeningAmount = h.Opening.Amount
	c.OpeningType = h.Opening.Type
	c.OutstandingAmount = h.Outstanding.Amount
	c.OutstandingType = h.Outstanding.Type
}

func (c *AccountColumns) toHead() accounting.AccountHead {
	return accounting.AccountHead{
		BaseAggregateRoot: c.ToDomainAggregateRoot(),
		Name:              c.Name,
		GroupID:           c.GroupID,
		Opening:           accounting.Balance{Amount: c.OpeningAmount, Type: c.OpeningType},
		Outstanding:       accounting.Balance{Amount: c.OutstandingAmount, Type: c.OutstandingType},
	}
}

// mutableColumns lists every column a locked save rewrites. A map is used
// so zero amounts and false flags are written too.
func (c *AccountColumns) mutableColumns() map[string]any {
	return map[string]any{
		"name":               c.Name,
		"group_id":           c.GroupID,
		"opening_amount":     c.OpeningAmount,
		"opening_type":       c.OpeningType,
		"outstanding_amount": c.OutstandingAmount,
		"outstanding_type":   c.OutstandingType,
		"updated_at":         c.UpdatedAt,
		"version":            c.Version,
	}
}

// AccountRecord is implemented by the three account models.
type AccountRecord interface {
	TableName() string
	ToAccount() accounting.Account
	Columns() map[string]any
}

type LedgerModel struct {
	AccountColumns
	Description string `gorm:"type:text"`
}

func (LedgerModel) TableName() string { return "ledgers" }

func (m *LedgerModel) ToAccount() accounting.Account {
	return &accounting.Ledger{AccountHead: m.toHead(), Description: m.Description}
}

func (m *LedgerModel) Columns() map[string]any {
	cols := m.mutableColumns()
	cols["description"] = m.Description
	return cols
}

type CustomerModel struct {
	AccountColumns
	Phone   string `gorm:"type:varchar(50);index"`
	Address string `gorm:"type:text"`
}

func (CustomerModel) TableName() string { return "customers" }

func (m *CustomerModel) ToAccount() accounting.Account {
	return &accounting.Customer{AccountHead: m.toHead(), Phone: m.Phone, Address: m.Address}
}

func (m *CustomerModel) Columns() map[string]any {
	cols := m.mutableColumns()
	cols["phone"] = m.Phone
	cols["address"] = m.Address
	return cols
}

type VendorModel struct {
	AccountColumns
	Phone         string `gorm:"type:varchar(50);index"`
	Address       string `gorm:"type:text"`
	TDSApplicable bool   `gorm:"column:tds_applicable;not null;default:false"`
}

func (VendorModel) TableName() string { return "vendors" }

func (m *VendorModel) ToAccount() accounting.Account {
	return &accounting.Vendor{
		AccountHead:   m.toHead(),
		Phone:         m.Phone,
		Address:       m.Address,
		TDSApplicable: m.TDSApplicable,
	}
}

func (m *VendorModel) Columns() map[string]any {
	cols := m.mutableColumns()
	cols["phone"] = m.Phone
	cols["address"] = m.Address
	cols["tds_applicable"] = m.TDSApplicable
	return cols
}

// AccountRecordFromDomain converts any account variant to its model.
func AccountRecordFromDomain(acc accounting.Account) (AccountRecord, error) {
	switch a := acc.(type) {
	case *accounting.Ledger:
		m := &LedgerModel{Description: a.Description}
		m.fromHead(&a.AccountHead)
		return m, nil
	case *accounting.Customer:
		m := &CustomerModel{Phone: a.Phone, Address: a.Address}
		m.fromHead(&a.AccountHead)
		return m, nil
	case *accounting.Vendor:
		m := &VendorModel{Phone: a.Phone, Address: a.Address, TDSApplicable: a.TDSApplicable}
		m.fromHead(&a.AccountHead)
		return m, nil
	}
	return nil, accounting.ErrInvalidAccountKind
}

// NewAccountRecord returns an empty model for kind.
func NewAccountRecord(kind accounting.AccountKind) (AccountRecord, error) {
	switch kind {
	case accounting.KindLedger:
		return &LedgerModel{}, nil
	case accounting.KindCustomer:
		return &CustomerModel{}, nil
	case accounting.KindVendor:
		return &VendorModel{}, nil
	}
	return nil, accounting.ErrInvalidAccountKind
}
