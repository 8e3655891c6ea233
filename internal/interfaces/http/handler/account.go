package handler

import (
	accountingapp "github.com/flockbooks/backend/internal/application/accounting"
	"github.com/flockbooks/backend/internal/domain/accounting"
	"github.com/flockbooks/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AccountHandler serves ledgers, customers and vendors. The :kind segment
// selects the variant and accepts singular or plural names.
type AccountHandler struct {
	BaseHandler
	accounts accountService
	balances balanceService
	reports  reportService
}

// NewAccountHandler creates an AccountHandler
func NewAccountHandler(accounts accountService, balances balanceService, reports reportService) *AccountHandler {
	return &AccountHandler{accounts: accounts, balances: balances, reports: reports}
}

// Create handles POST /accounts/:kind
func (h *AccountHandler) Create(c *gin.Context) {
	kind, ok := h.pathKind(c)
	if !ok {
		return
	}
	var req accountingapp.CreateAccountRequest
	if !h.bindJSON(c, &req) {
		return
	}
	acc, err := h.accounts.Create(c.Request.Context(), kind, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, acc)
}

// List handles GET /accounts/:kind
func (h *AccountHandler) List(c *gin.Context) {
	kind, ok := h.pathKind(c)
	if !ok {
		return
	}
	var req accountingapp.ListAccountsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	items, total, err := h.accounts.List(c.Request.Context(), kind, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, size := req.Page, req.PageSize
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 20
	}
	h.SuccessWithMeta(c, items, total, page, size)
}

// Get handles GET /accounts/:kind/:id
func (h *AccountHandler) Get(c *gin.Context) {
	kind, id, ok := h.accountRef(c)
	if !ok {
		return
	}
	acc, err := h.accounts.Get(c.Request.Context(), kind, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, acc)
}

// Statement handles GET /accounts/:kind/:id/statement?from=&to=
func (h *AccountHandler) Statement(c *gin.Context) {
	kind, id, ok := h.accountRef(c)
	if !ok {
		return
	}
	w, err := accountingapp.ParseWindow(c.Query("from"), c.Query("to"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	st, err := h.reports.Statement(c.Request.Context(), kind, id, w)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, st)
}

// Posting handles POST /accounts/:kind/:id/postings. A posting with
// reverse=true undoes an earlier one of the same amount and side.
func (h *AccountHandler) Posting(c *gin.Context) {
	kind, id, ok := h.accountRef(c)
	if !ok {
		return
	}
	var req accountingapp.PostingRequest
	if !h.bindJSON(c, &req) {
		return
	}
	side, err := accounting.ParseBalanceType(req.Side)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	apply := h.balances.Post
	if req.Reverse {
		apply = h.balances.Reverse
	}
	acc, err := apply(c.Request.Context(), kind, id, req.Amount, side)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, acc)
}

// OpeningBalance handles PUT /accounts/:kind/:id/opening-balance
func (h *AccountHandler) OpeningBalance(c *gin.Context) {
	kind, id, ok := h.accountRef(c)
	if !ok {
		return
	}
	var req accountingapp.OpeningBalanceRequest
	if !h.bindJSON(c, &req) {
		return
	}
	side, err := accounting.ParseBalanceType(req.Type)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	opening, err := accounting.NewBalance(req.Amount, side)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	acc, err := h.balances.UpdateOpeningBalance(c.Request.Context(), kind, id, opening)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, acc)
}

// Move handles PUT /accounts/:kind/:id/group
func (h *AccountHandler) Move(c *gin.Context) {
	kind, id, ok := h.accountRef(c)
	if !ok {
		return
	}
	var req accountingapp.MoveAccountRequest
	if !h.bindJSON(c, &req) {
		return
	}
	acc, err := h.accounts.MoveToGroup(c.Request.Context(), kind, id, req.GroupID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, acc)
}

func (h *AccountHandler) accountRef(c *gin.Context) (accounting.AccountKind, uuid.UUID, bool) {
	kind, ok := h.pathKind(c)
	if !ok {
		return "", uuid.Nil, false
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return "", uuid.Nil, false
	}
	return kind, id, true
}
