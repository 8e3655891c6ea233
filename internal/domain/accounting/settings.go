package accounting

import (
	"time"

	"github.com/shopspring/decimal"
)

// Settings carries the tunables of the accounting core. It is built from
// configuration and passed to the engines explicitly.
type Settings struct {
	TDSEnabled       bool
	TDSRate          decimal.Decimal
	TDSEffectiveFrom time.Time
	// ClampRunningBalance floors the statement running balance at zero after
	// every entry. Off by default: clamping hides genuine advance balances.
	ClampRunningBalance bool
	ReconcileTolerance  decimal.Decimal
	SMSEnabled          bool
}

// DefaultSettings returns the production defaults.
func DefaultSettings() Settings {
	return Settings{
		TDSEnabled:         true,
		TDSRate:            decimal.RequireFromString("0.001"),
		ReconcileTolerance: decimal.RequireFromString("0.01"),
	}
}

// TDSApplies reports whether a purchase from v dated at is subject to TDS.
func (s Settings) TDSApplies(v *Vendor, at time.Time) bool {
	if !s.TDSEnabled || v == nil || !v.TDSApplicable {
		return false
	}
	return at.After(s.TDSEffectiveFrom)
}

// TDSAmount returns the withholding on a purchase amount.
func (s Settings) TDSAmount(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(s.TDSRate)
}
