package accounting

import "github.com/flockbooks/backend/internal/domain/shared"

// Domain error codes raised by the accounting core.
const (
	CodeCircularReference  = "CIRCULAR_REFERENCE"
	CodeInvalidParent      = "INVALID_PARENT"
	CodeGroupNotFound      = "GROUP_NOT_FOUND"
	CodeGroupInactive      = "GROUP_INACTIVE"
	CodeGroupNotEmpty      = "GROUP_NOT_EMPTY"
	CodePredefinedGroup    = "PREDEFINED_GROUP"
	CodeInvalidGroupType   = "INVALID_GROUP_TYPE"
	CodeInvalidBalanceType = "INVALID_BALANCE_TYPE"
	CodeInvalidAmount      = "INVALID_AMOUNT"
	CodeInvalidAccountKind = "INVALID_ACCOUNT_KIND"
	CodeInvalidName        = "INVALID_NAME"
)

var (
	ErrCircularReference  = shared.NewDomainError(CodeCircularReference, "Group hierarchy would contain a cycle")
	ErrInvalidParent      = shared.NewDomainError(CodeInvalidParent, "Parent group does not exist or is inactive")
	ErrGroupNotFound      = shared.NewDomainError(CodeGroupNotFound, "Group not found")
	ErrGroupInactive      = shared.NewDomainError(CodeGroupInactive, "Group is inactive")
	ErrGroupNotEmpty      = shared.NewDomainError(CodeGroupNotEmpty, "Group still has sub-groups or accounts")
	ErrPredefinedGroup    = shared.NewDomainError(CodePredefinedGroup, "Predefined groups cannot be deleted or retyped")
	ErrInvalidGroupType   = shared.NewDomainError(CodeInvalidGroupType, "Group type must be one of Liability, Assets, Expenses, Income, Others")
	ErrInvalidBalanceType = shared.NewDomainError(CodeInvalidBalanceType, "Balance type must be debit or credit")
	ErrNegativeAmount     = shared.NewDomainError(CodeInvalidAmount, "Amount cannot be negative")
	ErrInvalidAccountKind = shared.NewDomainError(CodeInvalidAccountKind, "Account kind must be ledger, customer or vendor")
	ErrEmptyName          = shared.NewDomainError(CodeInvalidName, "Name cannot be empty")
)
