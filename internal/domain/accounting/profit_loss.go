package accounting

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PLAccount is a leaf line of the profit and loss tree.
type PLAccount struct {
	ID       uuid.UUID       `json:"id"`
	Name     string          `json:"name"`
	Kind     AccountKind     `json:"kind"`
	Debit    decimal.Decimal `json:"debit"`
	Credit   decimal.Decimal `json:"credit"`
	Balance  decimal.Decimal `json:"balance"`
	Mirrored bool            `json:"mirrored,omitempty"`
}

// PLNode is a group of the profit and loss tree. Balance includes every
// account below it.
type PLNode struct {
	GroupID  uuid.UUID       `json:"group_id"`
	Name     string          `json:"name"`
	Balance  decimal.Decimal `json:"balance"`
	Accounts []PLAccount     `json:"accounts"`
	Children []*PLNode       `json:"children"`
}

// PLSection is the income or the expense half of the report.
type PLSection struct {
	Tree  []*PLNode       `json:"tree"`
	Total decimal.Decimal `json:"total"`
}

// PLTotals are the bottom lines.
type PLTotals struct {
	TotalIncome   decimal.Decimal `json:"total_income"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	NetProfit     decimal.Decimal `json:"net_profit"`
}

// ProfitAndLoss is a flow statement over the Income and Expenses subtrees.
type ProfitAndLoss struct {
	Window   Window               `json:"window"`
	Income   PLSection            `json:"income"`
	Expenses PLSection            `json:"expenses"`
	Totals   PLTotals             `json:"totals"`
	Warnings []AggregationWarning `json:"warnings,omitempty"`
}

// ProfitAndLossEngine builds profit and loss reports from period activity
// only. Opening and closing balances never enter it.
type ProfitAndLossEngine struct {
	tree    *AccountTree
	agg     *TransactionAggregator
	sources SourceSet
}

// NewProfitAndLossEngine binds the engine to a tree and a loaded source set.
func NewProfitAndLossEngine(tree *AccountTree, agg *TransactionAggregator, sources SourceSet) *ProfitAndLossEngine {
	return &ProfitAndLossEngine{tree: tree, agg: agg, sources: sources}
}

// Build computes the report for w.
func (e *ProfitAndLossEngine) Build(w Window) *ProfitAndLoss {
	pl := &ProfitAndLoss{Window: w}
	pl.Income = e.section(GroupIncome, w, &pl.Warnings)
	pl.Expenses = e.section(GroupExpenses, w, &pl.Warnings)
	pl.Totals = PLTotals{
		TotalIncome:   pl.Income.Total,
		TotalExpenses: pl.Expenses.Total,
		NetProfit:     pl.Income.Total.Sub(pl.Expenses.Total),
	}
	return pl
}

func (e *ProfitAndLossEngine) section(gt GroupType, w Window, warnings *[]AggregationWarning) PLSection {
	sec := PLSection{Tree: []*PLNode{}, Total: decimal.Zero}
	counted := make(map[uuid.UUID]struct{})
	for _, root := range e.tree.RootsOfType(gt) {
		node := e.buildNode(root, gt, w, counted, warnings)
		sec.Tree = append(sec.Tree, node)
		sec.Total = sec.Total.Add(node.Balance)
	}
	return sec
}

// buildNode assembles root's same-typed subtree without recursion: nodes are
// created in depth-first order, then balances roll up in reverse order so
// each child is complete before its parent adds it.
func (e *ProfitAndLossEngine) buildNode(root *Group, gt GroupType, w Window, counted map[uuid.UUID]struct{}, warnings *[]AggregationWarning) *PLNode {
	groups, _ := e.tree.Subtree(root.ID)

	nodes := make(map[uuid.UUID]*PLNode, len(groups))
	order := make([]*Group, 0, len(groups))
	for _, g := range groups {
		if g.Type != gt {
			continue
		}
		if g.ID != root.ID && (g.ParentID == nil || nodes[*g.ParentID] == nil) {
			continue
		}
		node := &PLNode{
			GroupID:  g.ID,
			Name:     g.Name,
			Balance:  decimal.Zero,
			Accounts: []PLAccount{},
			Children: []*PLNode{},
		}
		members, _ := e.tree.DirectMembers(g.ID)
		for _, m := range members {
			if _, dup := counted[m.Account.GetID()]; dup {
				continue
			}
			counted[m.Account.GetID()] = struct{}{}
			line, ws := e.flow(m, gt, w)
			*warnings = append(*warnings, ws...)
			node.Accounts = append(node.Accounts, line)
			node.Balance = node.Balance.Add(line.Balance)
		}
		if g.ID != root.ID {
			parent := nodes[*g.ParentID]
			parent.Children = append(parent.Children, node)
		}
		nodes[g.ID] = node
		order = append(order, g)
	}

	for i := len(order) - 1; i > 0; i-- {
		g := order[i]
		nodes[*g.ParentID].Balance = nodes[*g.ParentID].Balance.Add(nodes[g.ID].Balance)
	}
	return nodes[root.ID]
}

func (e *ProfitAndLossEngine) flow(m Member, gt GroupType, w Window) (PLAccount, []AggregationWarning) {
	postings, warnings := e.agg.Postings(m.Account, w, e.sources)
	if m.Mirrored {
		postings = MirrorPurchases(postings)
	}
	t := Summarize(postings, w)
	balance := t.PeriodDebit.Sub(t.PeriodCredit)
	if gt == GroupIncome {
		balance = balance.Neg()
	}
	return PLAccount{
		ID:       m.Account.GetID(),
		Name:     m.Account.DisplayName(),
		Kind:     m.Account.Kind(),
		Debit:    t.PeriodDebit,
		Credit:   t.PeriodCredit,
		Balance:  balance,
		Mirrored: m.Mirrored,
	}, warnings
}
