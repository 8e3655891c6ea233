package accounting

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BalanceSheetLine is the closing position of one top-level group.
type BalanceSheetLine struct {
	GroupID uuid.UUID       `json:"group_id"`
	Name    string          `json:"name"`
	Amount  decimal.Decimal `json:"amount"`
	Row     SummaryRow      `json:"row"`
}

// BalanceSheet sets asset groups against liability groups as of a date. The
// net profit for the same span is carried on the liabilities side.
type BalanceSheet struct {
	Window           Window               `json:"window"`
	Liabilities      []BalanceSheetLine   `json:"liabilities"`
	Assets           []BalanceSheetLine   `json:"assets"`
	NetProfit        decimal.Decimal      `json:"net_profit"`
	TotalLiabilities decimal.Decimal      `json:"total_liabilities"`
	TotalAssets      decimal.Decimal      `json:"total_assets"`
	Difference       decimal.Decimal      `json:"difference"`
	Warnings         []AggregationWarning `json:"warnings,omitempty"`
}

// BuildBalanceSheet composes the group summaries of every Assets and
// Liability subtree root with the net profit from pl, all over w.
func BuildBalanceSheet(tree *AccountTree, tb *TrialBalanceEngine, pl *ProfitAndLossEngine, w Window) (*BalanceSheet, error) {
	bs := &BalanceSheet{
		Window:           w,
		Liabilities:      []BalanceSheetLine{},
		Assets:           []BalanceSheetLine{},
		TotalLiabilities: decimal.Zero,
		TotalAssets:      decimal.Zero,
	}

	for _, g := range tree.RootsOfType(GroupLiability) {
		line, ws, err := balanceSheetLine(tb, g, w)
		if err != nil {
			return nil, err
		}
		bs.Warnings = append(bs.Warnings, ws...)
		bs.Liabilities = append(bs.Liabilities, line)
		bs.TotalLiabilities = bs.TotalLiabilities.Add(line.Amount)
	}
	for _, g := range tree.RootsOfType(GroupAssets) {
		line, ws, err := balanceSheetLine(tb, g, w)
		if err != nil {
			return nil, err
		}
		bs.Warnings = append(bs.Warnings, ws...)
		bs.Assets = append(bs.Assets, line)
		bs.TotalAssets = bs.TotalAssets.Add(line.Amount)
	}

	profit := pl.Build(w)
	bs.Warnings = append(bs.Warnings, profit.Warnings...)
	bs.NetProfit = profit.Totals.NetProfit
	bs.TotalLiabilities = bs.TotalLiabilities.Add(bs.NetProfit)
	bs.Difference = bs.TotalAssets.Sub(bs.TotalLiabilities)
	return bs, nil
}

func balanceSheetLine(tb *TrialBalanceEngine, g *Group, w Window) (BalanceSheetLine, []AggregationWarning, error) {
	row, warnings, err := tb.GroupRow(g.ID, w)
	if err != nil {
		return BalanceSheetLine{}, nil, err
	}
	closing, _ := row.Closing.Signed()
	return BalanceSheetLine{
		GroupID: g.ID,
		Name:    g.Name,
		Amount:  Orient(closing, g.Type.NaturalSide()),
		Row:     row,
	}, warnings, nil
}
