package accounting

// GroupTemplate describes a group shipped with every installation.
type GroupTemplate struct {
	Name               string
	Type               GroupType
	IncludesAllVendors bool
}

// PredefinedGroups is the default chart of accounts.
var PredefinedGroups = []GroupTemplate{
	{Name: "Capital Account", Type: GroupLiability},
	{Name: "Current Liabilities", Type: GroupLiability},
	{Name: "Sundry Creditors", Type: GroupLiability},
	{Name: "Duties & Taxes", Type: GroupLiability},
	{Name: "Current Assets", Type: GroupAssets},
	{Name: "Cash-in-Hand", Type: GroupAssets},
	{Name: "Bank Accounts", Type: GroupAssets},
	{Name: "Sundry Debtors", Type: GroupAssets},
	{Name: "Stock-in-Hand", Type: GroupAssets},
	{Name: "Fixed Assets", Type: GroupAssets},
	{Name: "Sales Accounts", Type: GroupIncome},
	{Name: "Indirect Incomes", Type: GroupIncome},
	{Name: "Purchase Accounts", Type: GroupExpenses, IncludesAllVendors: true},
	{Name: "Direct Expenses", Type: GroupExpenses},
	{Name: "Indirect Expenses", Type: GroupExpenses},
	{Name: "Suspense", Type: GroupOthers},
}
