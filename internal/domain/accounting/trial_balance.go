package accounting

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RowKind says what a summary row stands for.
type RowKind string

const (
	RowGroup    RowKind = "group"
	RowLedger   RowKind = "ledger"
	RowCustomer RowKind = "customer"
	RowVendor   RowKind = "vendor"
)

// SummaryRow is one direct child of the summarized group.
type SummaryRow struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Kind RowKind   `json:"kind"`
	// PolarityFrom is the group type that decided the debit/credit columns.
	PolarityFrom GroupType       `json:"polarity_from"`
	Opening      Balance         `json:"opening"`
	PeriodDebit  decimal.Decimal `json:"period_debit"`
	PeriodCredit decimal.Decimal `json:"period_credit"`
	Debit        decimal.Decimal `json:"debit"`
	Credit       decimal.Decimal `json:"credit"`
	Closing      Balance         `json:"closing"`
	Quantities   Quantity        `json:"quantities"`
	Mirrored     bool            `json:"mirrored,omitempty"`
}

// SummaryTotals sums every column of the rows.
type SummaryTotals struct {
	Opening      Balance         `json:"opening"`
	PeriodDebit  decimal.Decimal `json:"period_debit"`
	PeriodCredit decimal.Decimal `json:"period_credit"`
	Debit        decimal.Decimal `json:"debit"`
	Credit       decimal.Decimal `json:"credit"`
	Closing      Balance         `json:"closing"`
	Quantities   Quantity        `json:"quantities"`
}

// GroupSummary is the flat trial-balance view of one group.
type GroupSummary struct {
	GroupID   uuid.UUID            `json:"group_id"`
	GroupName string               `json:"group_name"`
	GroupType GroupType            `json:"group_type"`
	Window    Window               `json:"window"`
	Entries   []SummaryRow         `json:"entries"`
	Totals    SummaryTotals        `json:"totals"`
	Warnings  []AggregationWarning `json:"warnings,omitempty"`
}

// figures are the signed, debit-positive numbers of one account or a sum of them.
type figures struct {
	opening      decimal.Decimal
	periodDebit  decimal.Decimal
	periodCredit decimal.Decimal
	quantities   Quantity
}

func (f figures) closing() decimal.Decimal {
	return f.opening.Add(f.periodDebit).Sub(f.periodCredit)
}

func (f figures) add(o figures) figures {
	return figures{
		opening:      f.opening.Add(o.opening),
		periodDebit:  f.periodDebit.Add(o.periodDebit),
		periodCredit: f.periodCredit.Add(o.periodCredit),
		quantities:   f.quantities.Add(o.quantities),
	}
}

// TrialBalanceEngine produces closing-balance based group summaries.
type TrialBalanceEngine struct {
	tree    *AccountTree
	agg     *TransactionAggregator
	sources SourceSet
}

// NewTrialBalanceEngine binds the engine to a tree and a loaded source set.
func NewTrialBalanceEngine(tree *AccountTree, agg *TransactionAggregator, sources SourceSet) *TrialBalanceEngine {
	return &TrialBalanceEngine{tree: tree, agg: agg, sources: sources}
}

// GroupSummary returns one row per direct sub-group and direct account of
// groupID, plus totals. Sub-group rows take their polarity from the sub-group's
// type, account rows from groupID's type. An account whose figures cannot be
// computed contributes zero and is reported in Warnings.
func (e *TrialBalanceEngine) GroupSummary(groupID uuid.UUID, w Window) (*GroupSummary, error) {
	group, ok := e.tree.Group(groupID)
	if !ok {
		return nil, ErrGroupNotFound
	}
	children, err := e.tree.Children(groupID)
	if err != nil {
		return nil, err
	}
	direct, err := e.tree.DirectMembers(groupID)
	if err != nil {
		return nil, err
	}

	summary := &GroupSummary{
		GroupID:   group.ID,
		GroupName: group.Name,
		GroupType: group.Type,
		Window:    w,
		Entries:   make([]SummaryRow, 0, len(children)+len(direct)),
	}

	for _, child := range children {
		row, warnings, err := e.GroupRow(child.ID, w)
		if err != nil {
			return nil, err
		}
		summary.Warnings = append(summary.Warnings, warnings...)
		summary.Entries = append(summary.Entries, row)
	}
	for _, m := range direct {
		f, warnings := e.memberFigures(m, w)
		summary.Warnings = append(summary.Warnings, warnings...)
		summary.Entries = append(summary.Entries, newRow(
			m.Account.GetID(), m.Account.DisplayName(), RowKind(m.Account.Kind()), group.Type, f, m.Mirrored,
		))
	}

	summary.Totals = sumRows(summary.Entries)
	return summary, nil
}

// GroupRow rolls every account under groupID into a single row whose
// polarity follows groupID's own type.
func (e *TrialBalanceEngine) GroupRow(groupID uuid.UUID, w Window) (SummaryRow, []AggregationWarning, error) {
	group, ok := e.tree.Group(groupID)
	if !ok {
		return SummaryRow{}, nil, ErrGroupNotFound
	}
	members, err := e.tree.Members(groupID)
	if err != nil {
		return SummaryRow{}, nil, err
	}
	var total figures
	var warnings []AggregationWarning
	for _, m := range members {
		f, ws := e.memberFigures(m, w)
		warnings = append(warnings, ws...)
		total = total.add(f)
	}
	return newRow(group.ID, group.Name, RowGroup, group.Type, total, false), warnings, nil
}

func (e *TrialBalanceEngine) memberFigures(m Member, w Window) (figures, []AggregationWarning) {
	return accountFigures(e.agg, e.sources, m, w)
}

func accountFigures(agg *TransactionAggregator, sources SourceSet, m Member, w Window) (figures, []AggregationWarning) {
	acc := m.Account
	opening := decimal.Zero
	if !m.Mirrored {
		signed, err := acc.OpeningBalance().Signed()
		if err != nil {
			return figures{}, []AggregationWarning{{
				AccountID: acc.GetID(),
				Reason:    "invalid opening balance: " + err.Error(),
			}}
		}
		opening = signed
	}

	postings, warnings := agg.Postings(acc, w, sources)
	if m.Mirrored {
		postings = MirrorPurchases(postings)
	}
	t := Summarize(postings, w)
	return figures{
		opening:      opening.Add(t.PriorNet()),
		periodDebit:  t.PeriodDebit,
		periodCredit: t.PeriodCredit,
		quantities:   t.Quantities,
	}, warnings
}

func newRow(id uuid.UUID, name string, kind RowKind, polarity GroupType, f figures, mirrored bool) SummaryRow {
	closing := f.closing()
	debit, credit := splitByPolarity(closing, polarity)
	return SummaryRow{
		ID:           id,
		Name:         name,
		Kind:         kind,
		PolarityFrom: polarity,
		Opening:      FromSigned(f.opening),
		PeriodDebit:  f.periodDebit,
		PeriodCredit: f.periodCredit,
		Debit:        debit,
		Credit:       credit,
		Closing:      FromSigned(closing),
		Quantities:   f.quantities,
		Mirrored:     mirrored,
	}
}

// splitByPolarity places a signed closing balance in the debit or credit
// column. The value is read from the group's natural side: non-negative goes
// to the natural column, negative to the other one.
func splitByPolarity(closing decimal.Decimal, gt GroupType) (debit, credit decimal.Decimal) {
	side := gt.NaturalSide()
	natural := Orient(closing, side)
	debit, credit = decimal.Zero, decimal.Zero
	target := side
	if natural.IsNegative() {
		target = side.Opposite()
	}
	if target == Debit {
		debit = natural.Abs()
	} else {
		credit = natural.Abs()
	}
	return debit, credit
}

func sumRows(rows []SummaryRow) SummaryTotals {
	opening := decimal.Zero
	t := SummaryTotals{
		PeriodDebit:  decimal.Zero,
		PeriodCredit: decimal.Zero,
		Debit:        decimal.Zero,
		Credit:       decimal.Zero,
	}
	for _, r := range rows {
		s, _ := r.Opening.Signed()
		opening = opening.Add(s)
		t.PeriodDebit = t.PeriodDebit.Add(r.PeriodDebit)
		t.PeriodCredit = t.PeriodCredit.Add(r.PeriodCredit)
		t.Debit = t.Debit.Add(r.Debit)
		t.Credit = t.Credit.Add(r.Credit)
		t.Quantities = t.Quantities.Add(r.Quantities)
	}
	t.Opening = FromSigned(opening)
	t.Closing = FromSigned(t.Debit.Sub(t.Credit))
	return t
}
