package handler

import (
	"context"
	"time"

	accountingapp "github.com/flockbooks/backend/internal/application/accounting"
	"github.com/flockbooks/backend/internal/domain/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// The handlers depend on these narrow views of the application services.

type groupService interface {
	Create(ctx context.Context, req accountingapp.CreateGroupRequest) (*accountingapp.GroupResponse, error)
	Update(ctx context.Context, id uuid.UUID, req accountingapp.UpdateGroupRequest) (*accountingapp.GroupResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Tree(ctx context.Context) ([]*accountingapp.GroupNode, error)
}

type accountService interface {
	Create(ctx context.Context, kind accounting.AccountKind, req accountingapp.CreateAccountRequest) (*accountingapp.AccountResponse, error)
	Get(ctx context.Context, kind accounting.AccountKind, id uuid.UUID) (*accountingapp.AccountResponse, error)
	List(ctx context.Context, kind accounting.AccountKind, req accountingapp.ListAccountsRequest) ([]accountingapp.AccountResponse, int64, error)
	MoveToGroup(ctx context.Context, kind accounting.AccountKind, id, groupID uuid.UUID) (*accountingapp.AccountResponse, error)
}

type balanceService interface {
	Post(ctx context.Context, kind accounting.AccountKind, id uuid.UUID, amount decimal.Decimal, side accounting.BalanceType) (*accountingapp.AccountResponse, error)
	Reverse(ctx context.Context, kind accounting.AccountKind, id uuid.UUID, amount decimal.Decimal, side accounting.BalanceType) (*accountingapp.AccountResponse, error)
	UpdateOpeningBalance(ctx context.Context, kind accounting.AccountKind, id uuid.UUID, opening accounting.Balance) (*accountingapp.AccountResponse, error)
}

type reportService interface {
	GroupSummary(ctx context.Context, groupID uuid.UUID, w accounting.Window) (*accounting.GroupSummary, error)
	Statement(ctx context.Context, kind accounting.AccountKind, id uuid.UUID, w accounting.Window) (*accounting.LedgerStatement, error)
	ProfitAndLoss(ctx context.Context, w accounting.Window) (*accounting.ProfitAndLoss, error)
	BalanceSheet(ctx context.Context, asOf *time.Time) (*accounting.BalanceSheet, error)
}

var (
	_ groupService   = (*accountingapp.GroupService)(nil)
	_ accountService = (*accountingapp.AccountService)(nil)
	_ balanceService = (*accountingapp.BalanceService)(nil)
	_ reportService  = (*accountingapp.ReportService)(nil)
)
