package handler

import (
	accountingapp "github.com/flockbooks/backend/internal/application/accounting"
	"github.com/gin-gonic/gin"
)

// ReportHandler serves the whole-book reports.
type ReportHandler struct {
	BaseHandler
	reports reportService
}

// NewReportHandler creates a ReportHandler
func NewReportHandler(reports reportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// ProfitAndLoss handles GET /reports/profit-loss?from=&to=
func (h *ReportHandler) ProfitAndLoss(c *gin.Context) {
	w, err := accountingapp.ParseWindow(c.Query("from"), c.Query("to"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	pl, err := h.reports.ProfitAndLoss(c.Request.Context(), w)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, pl)
}

// BalanceSheet handles GET /reports/balance-sheet?as_of=. Without as_of the
// sheet covers everything posted so far.
func (h *ReportHandler) BalanceSheet(c *gin.Context) {
	w, err := accountingapp.ParseWindow("", c.Query("as_of"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	bs, err := h.reports.BalanceSheet(c.Request.Context(), w.End)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, bs)
}
