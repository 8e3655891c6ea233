package accounting

import "github.com/shopspring/decimal"

// Add posts amount on side txType against balance.
func Add(balance Balance, amount decimal.Decimal, txType BalanceType) (Balance, error) {
	current, err := balance.Signed()
	if err != nil {
		return Balance{}, err
	}
	delta, err := ToSigned(amount, txType)
	if err != nil {
		return Balance{}, err
	}
	return FromSigned(current.Add(delta)), nil
}

// Subtract reverses a posting previously applied with Add.
func Subtract(balance Balance, amount decimal.Decimal, txType BalanceType) (Balance, error) {
	current, err := balance.Signed()
	if err != nil {
		return Balance{}, err
	}
	delta, err := ToSigned(amount, txType)
	if err != nil {
		return Balance{}, err
	}
	return FromSigned(current.Sub(delta)), nil
}

// SyncOnOpeningChange shifts the outstanding balance by the change of the
// opening balance, leaving already posted activity intact.
func SyncOnOpeningChange(oldOpening, newOpening, outstanding Balance) (Balance, error) {
	oldSigned, err := oldOpening.Signed()
	if err != nil {
		return Balance{}, err
	}
	newSigned, err := newOpening.Signed()
	if err != nil {
		return Balance{}, err
	}
	current, err := outstanding.Signed()
	if err != nil {
		return Balance{}, err
	}
	return FromSigned(current.Add(newSigned.Sub(oldSigned))), nil
}
