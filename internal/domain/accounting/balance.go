package accounting

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// BalanceType is the polarity of a stored balance.
type BalanceType string

const (
	Debit  BalanceType = "debit"
	Credit BalanceType = "credit"
)

// IsValid reports whether t is debit or credit.
func (t BalanceType) IsValid() bool {
	return t == Debit || t == Credit
}

// Opposite returns the other side.
func (t BalanceType) Opposite() BalanceType {
	if t == Credit {
		return Debit
	}
	return Credit
}

// ParseBalanceType parses a case-sensitive balance type.
func ParseBalanceType(s string) (BalanceType, error) {
	t := BalanceType(s)
	if !t.IsValid() {
		return "", ErrInvalidBalanceType
	}
	return t, nil
}

// Balance is a stored (amount, polarity) pair. Amount is never negative.
type Balance struct {
	Amount decimal.Decimal `json:"amount"`
	Type   BalanceType     `json:"type"`
}

// NewBalance validates and builds a Balance.
func NewBalance(amount decimal.Decimal, t BalanceType) (Balance, error) {
	if _, err := ToSigned(amount, t); err != nil {
		return Balance{}, err
	}
	return Balance{Amount: amount, Type: t}, nil
}

// ZeroBalance returns the canonical zero, which is a debit.
func ZeroBalance() Balance {
	return Balance{Amount: decimal.Zero, Type: Debit}
}

// Signed converts b to its signed scalar.
func (b Balance) Signed() (decimal.Decimal, error) {
	return ToSigned(b.Amount, b.Type)
}

// Validate checks the stored pair.
func (b Balance) Validate() error {
	_, err := b.Signed()
	return err
}

// IsZero reports whether the amount is zero regardless of polarity.
func (b Balance) IsZero() bool {
	return b.Amount.IsZero()
}

// Equal compares two balances by value. Zero balances are equal whatever their type.
func (b Balance) Equal(o Balance) bool {
	if b.IsZero() && o.IsZero() {
		return true
	}
	return b.Type == o.Type && b.Amount.Equal(o.Amount)
}

func (b Balance) String() string {
	return fmt.Sprintf("%s %s", b.Amount.StringFixed(2), b.Type)
}

// ToSigned maps debit to +amount and credit to -amount.
func ToSigned(amount decimal.Decimal, t BalanceType) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return decimal.Zero, ErrNegativeAmount
	}
	switch t {
	case Debit:
		return amount, nil
	case Credit:
		return amount.Neg(), nil
	default:
		return decimal.Zero, ErrInvalidBalanceType
	}
}

// FromSigned maps a signed scalar back to a stored pair. Zero is a debit.
func FromSigned(x decimal.Decimal) Balance {
	if x.IsNegative() {
		return Balance{Amount: x.Abs(), Type: Credit}
	}
	return Balance{Amount: x, Type: Debit}
}

// Orient expresses a debit-positive signed value from the point of view of
// the natural side: for a credit-natural account a credit balance is positive.
func Orient(signed decimal.Decimal, natural BalanceType) decimal.Decimal {
	if natural == Credit {
		return signed.Neg()
	}
	return signed
}
