package router

import "github.com/flockbooks/backend/internal/interfaces/http/handler"

// AccountingRoutes builds the /accounting route table.
func AccountingRoutes(groups *handler.GroupHandler, accounts *handler.AccountHandler, reports *handler.ReportHandler) *DomainGroup {
	dg := NewDomainGroup("accounting", "/accounting")

	dg.Group("groups", "/groups").
		GET("", groups.Tree).
		POST("", groups.Create).
		PUT("/:id", groups.Update).
		DELETE("/:id", groups.Delete).
		GET("/:id/summary", groups.Summary)

	dg.Group("accounts", "/accounts").
		POST("/:kind", accounts.Create).
		GET("/:kind", accounts.List).
		GET("/:kind/:id", accounts.Get).
		GET("/:kind/:id/statement", accounts.Statement).
		POST("/:kind/:id/postings", accounts.Posting).
		PUT("/:kind/:id/opening-balance", accounts.OpeningBalance).
		PUT("/:kind/:id/group", accounts.Move)

	dg.Group("reports", "/reports").
		GET("/profit-loss", reports.ProfitAndLoss).
		GET("/balance-sheet", reports.BalanceSheet)

	return dg
}
