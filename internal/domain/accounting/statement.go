package accounting

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StatementEntry is one line of a ledger statement.
type StatementEntry struct {
	ID          string          `json:"id"`
	Date        time.Time       `json:"date"`
	Particulars Particulars     `json:"particulars"`
	SourceType  SourceType      `json:"source_type,omitempty"`
	SourceID    uuid.UUID       `json:"source_id,omitempty"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Amount      decimal.Decimal `json:"amount"`
	// Balance is the running balance read from the account's natural side.
	Balance   decimal.Decimal `json:"balance"`
	Running   Balance         `json:"running"`
	Quantity  Quantity        `json:"quantity"`
	Narration string          `json:"narration,omitempty"`
}

// StatementTotals summarizes a statement.
type StatementTotals struct {
	Principal        decimal.Decimal `json:"principal"`
	Receipts         decimal.Decimal `json:"receipts"`
	DiscountAndOther decimal.Decimal `json:"discount_and_other"`
	Closing          Balance         `json:"closing"`
}

// LedgerStatement is the chronological running-balance view of one account.
type LedgerStatement struct {
	AccountID   uuid.UUID            `json:"account_id"`
	AccountName string               `json:"account_name"`
	Kind        AccountKind          `json:"kind"`
	NaturalSide BalanceType          `json:"natural_side"`
	Window      Window               `json:"window"`
	Opening     Balance              `json:"opening"`
	Entries     []StatementEntry     `json:"entries"`
	Totals      StatementTotals      `json:"totals"`
	Clamped     bool                 `json:"clamped"`
	Warnings    []AggregationWarning `json:"warnings,omitempty"`
	// replayClosing is opening plus every posting up to the window end,
	// never clamped. It is what the stored outstanding balance must equal.
	replayClosing Balance
}

// ReplayClosing returns the unclamped closing balance.
func (s *LedgerStatement) ReplayClosing() Balance {
	return s.replayClosing
}

// LedgerStatementBuilder rebuilds per-account statements from the sources.
type LedgerStatementBuilder struct {
	agg   *TransactionAggregator
	clamp bool
}

// NewLedgerStatementBuilder creates a builder. Clamping follows the
// aggregator's settings.
func NewLedgerStatementBuilder(agg *TransactionAggregator) *LedgerStatementBuilder {
	return &LedgerStatementBuilder{agg: agg, clamp: agg.Settings().ClampRunningBalance}
}

// Build produces acc's statement for w. natural is the side the account's
// balance grows on. The result depends only on its inputs.
func (b *LedgerStatementBuilder) Build(acc Account, natural BalanceType, w Window, src SourceSet) *LedgerStatement {
	postings, warnings := b.agg.Postings(acc, w, src)

	opening, err := acc.OpeningBalance().Signed()
	if err != nil {
		warnings = append(warnings, AggregationWarning{
			AccountID: acc.GetID(),
			Reason:    "invalid opening balance: " + err.Error(),
		})
		opening = decimal.Zero
	}

	inWindow := make([]Posting, 0, len(postings))
	for _, p := range postings {
		switch w.position(p.Date) {
		case beforeWindow:
			opening = opening.Add(p.Signed())
		case insideWindow:
			inWindow = append(inWindow, p)
		}
	}
	sortPostings(inWindow)

	stmt := &LedgerStatement{
		AccountID:   acc.GetID(),
		AccountName: acc.DisplayName(),
		Kind:        acc.Kind(),
		NaturalSide: natural,
		Window:      w,
		Opening:     FromSigned(opening),
		Entries:     make([]StatementEntry, 0, len(inWindow)+1),
		Clamped:     b.clamp,
		Warnings:    warnings,
	}

	running := Orient(opening, natural)
	stmt.Entries = append(stmt.Entries, openingEntry(w, opening, running, natural))

	replay := opening
	totals := StatementTotals{
		Principal:        decimal.Zero,
		Receipts:         decimal.Zero,
		DiscountAndOther: decimal.Zero,
	}
	for _, p := range inWindow {
		replay = replay.Add(p.Signed())
		running = running.Add(Orient(p.Signed(), natural))
		if b.clamp && running.IsNegative() {
			running = decimal.Zero
		}

		switch {
		case p.Particulars.IsPrimary():
			totals.Principal = totals.Principal.Add(p.Amount)
		case p.Particulars.IsSettlement():
			totals.Receipts = totals.Receipts.Add(p.Amount)
		default:
			totals.DiscountAndOther = totals.DiscountAndOther.Add(p.Amount)
		}

		entry := StatementEntry{
			ID:          p.SourceKey() + "/" + p.EntryID,
			Date:        p.Date,
			Particulars: p.Particulars,
			SourceType:  p.SourceType,
			SourceID:    p.SourceID,
			Debit:       decimal.Zero,
			Credit:      decimal.Zero,
			Amount:      p.Amount,
			Balance:     running,
			Running:     FromSigned(Orient(running, natural)),
			Quantity:    p.Quantity,
			Narration:   p.Narration,
		}
		if p.Side == Debit {
			entry.Debit = p.Amount
		} else {
			entry.Credit = p.Amount
		}
		stmt.Entries = append(stmt.Entries, entry)
	}

	totals.Closing = FromSigned(Orient(running, natural))
	stmt.Totals = totals
	stmt.replayClosing = FromSigned(replay)
	return stmt
}

func openingEntry(w Window, opening, running decimal.Decimal, natural BalanceType) StatementEntry {
	var date time.Time
	if w.Start != nil {
		date = *w.Start
	}
	e := StatementEntry{
		ID:          "opening",
		Date:        date,
		Particulars: ParticularsOpening,
		Debit:       decimal.Zero,
		Credit:      decimal.Zero,
		Amount:      opening.Abs(),
		Balance:     running,
		Running:     FromSigned(Orient(running, natural)),
	}
	if opening.IsNegative() {
		e.Credit = opening.Abs()
	} else {
		e.Debit = opening
	}
	return e
}

// sortPostings orders by date, keeps one transaction's lines together, then
// applies particulars precedence and finally the entry id.
func sortPostings(ps []Posting) {
	sort.SliceStable(ps, func(i, j int) bool {
		a, b := ps[i], ps[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if ka, kb := a.GroupKey(), b.GroupKey(); ka != kb {
			return ka < kb
		}
		if pa, pb := a.Particulars.Precedence(), b.Particulars.Precedence(); pa != pb {
			return pa < pb
		}
		return a.EntryID < b.EntryID
	})
}
