package handler

import (
	"context"
	"time"

	accountingapp "github.com/flockbooks/backend/internal/application/accounting"
	"github.com/flockbooks/backend/internal/domain/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type mockGroupService struct{ mock.Mock }

func (m *mockGroupService) Create(ctx context.Context, req accountingapp.CreateGroupRequest) (*accountingapp.GroupResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accountingapp.GroupResponse), args.Error(1)
}

func (m *mockGroupService) Update(ctx context.Context, id uuid.UUID, req accountingapp.UpdateGroupRequest) (*accountingapp.GroupResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accountingapp.GroupResponse), args.Error(1)
}

func (m *mockGroupService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockGroupService) Tree(ctx context.Context) ([]*accountingapp.GroupNode, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*accountingapp.GroupNode), args.Error(1)
}

type mockAccountService struct{ mock.Mock }

func (m *mockAccountService) Create(ctx context.Context, kind accounting.AccountKind, req accountingapp.CreateAccountRequest) (*accountingapp.AccountResponse, error) {
	args := m.Called(ctx, kind, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accountingapp.AccountResponse), args.Error(1)
}

func (m *mockAccountService) Get(ctx context.Context, kind accounting.AccountKind, id uuid.UUID) (*accountingapp.AccountResponse, error) {
	args := m.Called(ctx, kind, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accountingapp.AccountResponse), args.Error(1)
}

func (m *mockAccountService) List(ctx context.Context, kind accounting.AccountKind, req accountingapp.ListAccountsRequest) ([]accountingapp.AccountResponse, int64, error) {
	args := m.Called(ctx, kind, req)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]accountingapp.AccountResponse), args.Get(1).(int64), args.Error(2)
}

func (m *mockAccountService) MoveToGroup(ctx context.Context, kind accounting.AccountKind, id, groupID uuid.UUID) (*accountingapp.AccountResponse, error) {
	args := m.Called(ctx, kind, id, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accountingapp.AccountResponse), args.Error(1)
}

type mockBalanceService struct{ mock.Mock }

func (m *mockBalanceService) Post(ctx context.Context, kind accounting.AccountKind, id uuid.UUID, amount decimal.Decimal, side accounting.BalanceType) (*accountingapp.AccountResponse, error) {
	args := m.Called(ctx, kind, id, amount.String(), side)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accountingapp.AccountResponse), args.Error(1)
}

func (m *mockBalanceService) Reverse(ctx context.Context, kind accounting.AccountKind, id uuid.UUID, amount decimal.Decimal, side accounting.BalanceType) (*accountingapp.AccountResponse, error) {
	args := m.Called(ctx, kind, id, amount.String(), side)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accountingapp.AccountResponse), args.Error(1)
}

func (m *mockBalanceService) UpdateOpeningBalance(ctx context.Context, kind accounting.AccountKind, id uuid.UUID, opening accounting.Balance) (*accountingapp.AccountResponse, error) {
	args := m.Called(ctx, kind, id, opening.String())
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accountingapp.AccountResponse), args.Error(1)
}

type mockReportService struct{ mock.Mock }

func (m *mockReportService) GroupSummary(ctx context.Context, groupID uuid.UUID, w accounting.Window) (*accounting.GroupSummary, error) {
	args := m.Called(ctx, groupID, w)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.GroupSummary), args.Error(1)
}

func (m *mockReportService) Statement(ctx context.Context, kind accounting.AccountKind, id uuid.UUID, w accounting.Window) (*accounting.LedgerStatement, error) {
	args := m.Called(ctx, kind, id, w)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.LedgerStatement), args.Error(1)
}

func (m *mockReportService) ProfitAndLoss(ctx context.Context, w accounting.Window) (*accounting.ProfitAndLoss, error) {
	args := m.Called(ctx, w)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.ProfitAndLoss), args.Error(1)
}

func (m *mockReportService) BalanceSheet(ctx context.Context, asOf *time.Time) (*accounting.BalanceSheet, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.BalanceSheet), args.Error(1)
}
