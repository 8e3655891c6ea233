package accounting

import (
	"strings"
	"time"

	"github.com/flockbooks/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountKind tags the three account variants.
type AccountKind string

const (
	KindLedger   AccountKind = "ledger"
	KindCustomer AccountKind = "customer"
	KindVendor   AccountKind = "vendor"
)

// AllAccountKinds lists the kinds in reporting order.
var AllAccountKinds = []AccountKind{KindLedger, KindCustomer, KindVendor}

// IsValid reports whether k is a known kind.
func (k AccountKind) IsValid() bool {
	return k == KindLedger || k == KindCustomer || k == KindVendor
}

// ParseAccountKind parses a kind name, accepting plural forms used in URLs.
func ParseAccountKind(s string) (AccountKind, error) {
	k := AccountKind(strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "s"))
	if !k.IsValid() {
		return "", ErrInvalidAccountKind
	}
	return k, nil
}

// Account is the capability shared by ledgers, customers and vendors.
type Account interface {
	GetID() uuid.UUID
	Kind() AccountKind
	DisplayName() string
	OpeningBalance() Balance
	OutstandingBalance() Balance
	GroupRef() uuid.UUID
	Head() *AccountHead
}

// AccountHead holds the fields every account variant carries.
type AccountHead struct {
	shared.BaseAggregateRoot
	Name        string
	GroupID     uuid.UUID
	Opening     Balance
	Outstanding Balance
}

func newAccountHead(name string, groupID uuid.UUID, opening Balance) (AccountHead, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return AccountHead{}, ErrEmptyName
	}
	if err := opening.Validate(); err != nil {
		return AccountHead{}, err
	}
	return AccountHead{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		GroupID:           groupID,
		Opening:           opening,
		Outstanding:       opening,
	}, nil
}

func (h *AccountHead) DisplayName() string         { return h.Name }
func (h *AccountHead) OpeningBalance() Balance     { return h.Opening }
func (h *AccountHead) OutstandingBalance() Balance { return h.Outstanding }
func (h *AccountHead) GroupRef() uuid.UUID         { return h.GroupID }
func (h *AccountHead) Head() *AccountHead          { return h }

// Post applies a payment or expense to the outstanding balance.
func (h *AccountHead) Post(amount decimal.Decimal, side BalanceType) error {
	next, err := Add(h.Outstanding, amount, side)
	if err != nil {
		return err
	}
	h.Outstanding = next
	h.touch()
	return nil
}

// Reverse undoes a previous Post with the same arguments.
func (h *AccountHead) Reverse(amount decimal.Decimal, side BalanceType) error {
	next, err := Subtract(h.Outstanding, amount, side)
	if err != nil {
		return err
	}
	h.Outstanding = next
	h.touch()
	return nil
}

// ChangeOpening replaces the opening balance and shifts the outstanding
// balance by the same delta.
func (h *AccountHead) ChangeOpening(opening Balance) error {
	next, err := SyncOnOpeningChange(h.Opening, opening, h.Outstanding)
	if err != nil {
		return err
	}
	h.Opening = opening
	h.Outstanding = next
	h.touch()
	return nil
}

// Reconcile overwrites the outstanding balance with a recomputed one.
func (h *AccountHead) Reconcile(outstanding Balance) error {
	if err := outstanding.Validate(); err != nil {
		return err
	}
	h.Outstanding = outstanding
	h.touch()
	return nil
}

// MoveToGroup re-attaches the account. Group existence is checked by the caller.
func (h *AccountHead) MoveToGroup(groupID uuid.UUID) {
	if h.GroupID == groupID {
		return
	}
	h.GroupID = groupID
	h.touch()
}

func (h *AccountHead) touch() {
	h.Stamp(time.Now())
	h.IncrementVersion()
}

// Ledger is a leaf account such as Cash or a feed expense.
type Ledger struct {
	AccountHead
	Description string
}

// NewLedger creates a ledger under groupID.
func NewLedger(name string, groupID uuid.UUID, opening Balance) (*Ledger, error) {
	head, err := newAccountHead(name, groupID, opening)
	if err != nil {
		return nil, err
	}
	return &Ledger{AccountHead: head}, nil
}

func (*Ledger) Kind() AccountKind { return KindLedger }

// Customer is a receivable account.
type Customer struct {
	AccountHead
	Phone   string
	Address string
}

// NewCustomer creates a customer under groupID.
func NewCustomer(name string, groupID uuid.UUID, opening Balance) (*Customer, error) {
	head, err := newAccountHead(name, groupID, opening)
	if err != nil {
		return nil, err
	}
	return &Customer{AccountHead: head}, nil
}

func (*Customer) Kind() AccountKind { return KindCustomer }

// Vendor is a payable account.
type Vendor struct {
	AccountHead
	Phone         string
	Address       string
	TDSApplicable bool
}

// NewVendor creates a vendor under groupID.
func NewVendor(name string, groupID uuid.UUID, opening Balance, tdsApplicable bool) (*Vendor, error) {
	head, err := newAccountHead(name, groupID, opening)
	if err != nil {
		return nil, err
	}
	return &Vendor{AccountHead: head, TDSApplicable: tdsApplicable}, nil
}

func (*Vendor) Kind() AccountKind { return KindVendor }

// NaturalSide returns the polarity an account's balance grows on. Customers
// are receivables and vendors payables; ledgers follow their group's type.
func NaturalSide(acc Account, groupType GroupType) BalanceType {
	return KindNaturalSide(acc.Kind(), groupType)
}

// KindNaturalSide is NaturalSide before the account exists. Opening
// balances given without a side take this one.
func KindNaturalSide(kind AccountKind, groupType GroupType) BalanceType {
	switch kind {
	case KindCustomer:
		return Debit
	case KindVendor:
		return Credit
	default:
		return groupType.NaturalSide()
	}
}
