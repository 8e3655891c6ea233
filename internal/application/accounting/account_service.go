package accounting

import (
	"context"

	"github.com/flockbooks/backend/internal/domain/accounting"
	"github.com/flockbooks/backend/internal/infrastructure/logger"
	"github.com/flockbooks/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// AccountService creates and reads ledgers, customers and vendors.
// Writes to existing accounts go through the BalanceService so they share
// its lock and retry handling.
type AccountService struct {
	serviceBase
	groups   accounting.GroupRepository
	accounts accounting.AccountRepository
	balances *BalanceService
}

// NewAccountService creates an AccountService.
func NewAccountService(
	groups accounting.GroupRepository,
	accounts accounting.AccountRepository,
	balances *BalanceService,
	opts ...Option,
) *AccountService {
	return &AccountService{
		serviceBase: newServiceBase(opts),
		groups:      groups,
		accounts:    accounts,
		balances:    balances,
	}
}

// activeGroup loads a group that can take new accounts.
func (s *AccountService) activeGroup(ctx context.Context, id uuid.UUID) (*accounting.Group, error) {
	g, err := s.groups.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !g.Active {
		return nil, accounting.ErrGroupInactive
	}
	return g, nil
}

// Create opens an account. The outstanding balance starts equal to the opening.
func (s *AccountService) Create(ctx context.Context, kind accounting.AccountKind, req CreateAccountRequest) (*AccountResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "AccountService", "Create",
		attribute.String("account_kind", string(kind)))
	defer span.End()

	if !kind.IsValid() {
		return nil, accounting.ErrInvalidAccountKind
	}
	group, err := s.activeGroup(ctx, req.GroupID)
	if err != nil {
		return nil, err
	}

	openingType := accounting.KindNaturalSide(kind, group.Type)
	if req.OpeningType != "" {
		t, err := accounting.ParseBalanceType(req.OpeningType)
		if err != nil {
			return nil, err
		}
		openingType = t
	}
	opening, err := accounting.NewBalance(req.OpeningAmount, openingType)
	if err != nil {
		return nil, err
	}

	var acc accounting.Account
	switch kind {
	case accounting.KindLedger:
		l, err := accounting.NewLedger(req.Name, req.GroupID, opening)
		if err != nil {
			return nil, err
		}
		l.Description = req.Description
		acc = l
	case accounting.KindCustomer:
		c, err := accounting.NewCustomer(req.Name, req.GroupID, opening)
		if err != nil {
			return nil, err
		}
		c.Phone, c.Address = req.Phone, req.Address
		acc = c
	case accounting.KindVendor:
		v, err := accounting.NewVendor(req.Name, req.GroupID, opening, req.TDSApplicable)
		if err != nil {
			return nil, err
		}
		v.Phone, v.Address = req.Phone, req.Address
		acc = v
	}

	if err := s.accounts.Create(ctx, acc); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	s.invalidate(ctx)
	ctx = logger.WithAccount(ctx, string(kind), acc.GetID().String())
	s.log(ctx).Info("account created", zap.String("name", acc.DisplayName()))
	resp := ToAccountResponse(acc)
	return &resp, nil
}

// Get returns one account.
func (s *AccountService) Get(ctx context.Context, kind accounting.AccountKind, id uuid.UUID) (*AccountResponse, error) {
	if !kind.IsValid() {
		return nil, accounting.ErrInvalidAccountKind
	}
	acc, err := s.accounts.FindByID(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	resp := ToAccountResponse(acc)
	return &resp, nil
}

// List pages through accounts of one kind.
func (s *AccountService) List(ctx context.Context, kind accounting.AccountKind, req ListAccountsRequest) ([]AccountResponse, int64, error) {
	if !kind.IsValid() {
		return nil, 0, accounting.ErrInvalidAccountKind
	}
	accs, total, err := s.accounts.FindPage(ctx, kind, req.filter())
	if err != nil {
		return nil, 0, err
	}
	out := make([]AccountResponse, 0, len(accs))
	for _, a := range accs {
		out = append(out, ToAccountResponse(a))
	}
	return out, total, nil
}

// MoveToGroup re-attaches an account to another active group.
func (s *AccountService) MoveToGroup(ctx context.Context, kind accounting.AccountKind, id, groupID uuid.UUID) (*AccountResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "AccountService", "MoveToGroup",
		attribute.String("account_kind", string(kind)),
		attribute.String("account_id", id.String()))
	defer span.End()

	if _, err := s.activeGroup(ctx, groupID); err != nil {
		return nil, err
	}
	acc, _, err := s.balances.mutate(ctx, opMove, kind, id, func(acc accounting.Account) (bool, error) {
		if acc.GroupRef() == groupID {
			return false, nil
		}
		acc.Head().MoveToGroup(groupID)
		return true, nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	resp := ToAccountResponse(acc)
	return &resp, nil
}
