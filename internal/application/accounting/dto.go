package accounting

import (
	"fmt"
	"strings"
	"time"

	"github.com/flockbooks/backend/internal/domain/accounting"
	"github.com/flockbooks/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ===================== Accounts =====================

// AccountResponse represents a ledger, customer or vendor in API responses
type AccountResponse struct {
	ID            uuid.UUID          `json:"id"`
	Kind          string             `json:"kind"`
	Name          string             `json:"name"`
	GroupID       uuid.UUID          `json:"group_id"`
	Opening       accounting.Balance `json:"opening_balance"`
	Outstanding   accounting.Balance `json:"outstanding_balance"`
	Description   string             `json:"description,omitempty"`
	Phone         string             `json:"phone,omitempty"`
	Address       string             `json:"address,omitempty"`
	TDSApplicable bool               `json:"tds_applicable,omitempty"`
	Version       int                `json:"version"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// ToAccountResponse converts any account variant.
func ToAccountResponse(acc accounting.Account) AccountResponse {
	h := acc.Head()
	resp := AccountResponse{
		ID:          h.ID,
		Kind:        string(acc.Kind()),
		Name:        h.Name,
		GroupID:     h.GroupID,
		Opening:     h.Opening,
		Outstanding: h.Outstanding,
		Version:     h.Version,
		CreatedAt:   h.CreatedAt,
		UpdatedAt:   h.UpdatedAt,
	}
	switch a := acc.(type) {
	case *accounting.Ledger:
		resp.Description = a.Description
	case *accounting.Customer:
		resp.Phone = a.Phone
		resp.Address = a.Address
	case *accounting.Vendor:
		resp.Phone = a.Phone
		resp.Address = a.Address
		resp.TDSApplicable = a.TDSApplicable
	}
	return resp
}

// CreateAccountRequest represents a request to open an account
type CreateAccountRequest struct {
	Name          string          `json:"name" binding:"required,max=200"`
	GroupID       uuid.UUID       `json:"group_id" binding:"required"`
	OpeningAmount decimal.Decimal `json:"opening_amount"`
	OpeningType   string          `json:"opening_type" binding:"omitempty,oneof=debit credit"`
	Description   string          `json:"description"`
	Phone         string          `json:"phone" binding:"max=50"`
	Address       string          `json:"address"`
	TDSApplicable bool            `json:"tds_applicable"`
}

// ListAccountsRequest defines paging and search for account lists
type ListAccountsRequest struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

func (r ListAccountsRequest) filter() shared.Filter {
	f := shared.DefaultFilter()
	f.Search = r.Search
	if r.Page > 0 {
		f.Page = r.Page
	}
	if r.PageSize > 0 {
		f.PageSize = r.PageSize
	}
	if r.OrderBy != "" {
		f.OrderBy = r.OrderBy
	}
	if r.OrderDir != "" {
		f.OrderDir = r.OrderDir
	}
	return f
}

// PostingRequest applies or reverses a payment against an account
type PostingRequest struct {
	Amount  decimal.Decimal `json:"amount" binding:"required"`
	Side    string          `json:"side" binding:"required,oneof=debit credit"`
	Reverse bool            `json:"reverse"`
}

// OpeningBalanceRequest replaces an account's opening balance
type OpeningBalanceRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Type   string          `json:"type" binding:"required,oneof=debit credit"`
}

// MoveAccountRequest re-attaches an account to another group
type MoveAccountRequest struct {
	GroupID uuid.UUID `json:"group_id" binding:"required"`
}

// BalanceChange describes a completed balance mutation.
type BalanceChange struct {
	Operation string             `json:"operation"`
	Kind      string             `json:"kind"`
	AccountID uuid.UUID          `json:"account_id"`
	Name      string             `json:"name"`
	Before    accounting.Balance `json:"before"`
	After     accounting.Balance `json:"after"`
	At        time.Time          `json:"at"`
}

// ReconcileCorrection is one rewritten outstanding balance.
type ReconcileCorrection struct {
	Kind   string             `json:"kind"`
	ID     uuid.UUID          `json:"id"`
	Name   string             `json:"name"`
	Before accounting.Balance `json:"before"`
	After  accounting.Balance `json:"after"`
}

// ReconcileResult summarizes a ReconcileAll run.
type ReconcileResult struct {
	Checked     int                   `json:"checked"`
	Corrected   int                   `json:"corrected"`
	Failed      int                   `json:"failed"`
	Corrections []ReconcileCorrection `json:"corrections"`
}

// ===================== Groups =====================

// GroupResponse represents an account group in API responses
type GroupResponse struct {
	ID                 uuid.UUID  `json:"id"`
	Name               string     `json:"name"`
	Type               string     `json:"type"`
	ParentID           *uuid.UUID `json:"parent_id,omitempty"`
	Predefined         bool       `json:"predefined"`
	Active             bool       `json:"active"`
	IncludesAllVendors bool       `json:"includes_all_vendors"`
	Version            int        `json:"version"`
}

// ToGroupResponse converts a domain group.
func ToGroupResponse(g *accounting.Group) GroupResponse {
	return GroupResponse{
		ID:                 g.ID,
		Name:               g.Name,
		Type:               string(g.Type),
		ParentID:           g.ParentID,
		Predefined:         g.Predefined,
		Active:             g.Active,
		IncludesAllVendors: g.IncludesAllVendors,
		Version:            g.Version,
	}
}

// GroupNode is a group with its sub-groups, for the chart tree.
type GroupNode struct {
	GroupResponse
	AccountCount int          `json:"account_count"`
	Children     []*GroupNode `json:"children"`
}

// CreateGroupRequest represents a request to create a group
type CreateGroupRequest struct {
	Name               string     `json:"name" binding:"required,max=200"`
	Type               string     `json:"type" binding:"required,oneof=Liability Assets Expenses Income Others"`
	ParentID           *uuid.UUID `json:"parent_id"`
	IncludesAllVendors bool       `json:"includes_all_vendors"`
}

// UpdateGroupRequest changes a group. Nil fields are left as they are.
// MoveToRoot detaches the group from its parent.
type UpdateGroupRequest struct {
	Name               *string    `json:"name" binding:"omitempty,max=200"`
	Type               *string    `json:"type" binding:"omitempty,oneof=Liability Assets Expenses Income Others"`
	ParentID           *uuid.UUID `json:"parent_id"`
	MoveToRoot         bool       `json:"move_to_root"`
	IncludesAllVendors *bool      `json:"includes_all_vendors"`
	Active             *bool      `json:"active"`
}

// ===================== Report parameters =====================

const dateLayout = "2006-01-02"

// ParseWindow builds a report window from optional from/to dates. Both
// bounds are inclusive whole days; to runs until the end of its day.
// RFC3339 timestamps are taken as-is.
func ParseWindow(from, to string) (accounting.Window, error) {
	start, err := parseBound(from, false)
	if err != nil {
		return accounting.Window{}, fmt.Errorf("%w: from: %v", shared.ErrInvalidInput, err)
	}
	end, err := parseBound(to, true)
	if err != nil {
		return accounting.Window{}, fmt.Errorf("%w: to: %v", shared.ErrInvalidInput, err)
	}
	if start != nil && end != nil && end.Before(*start) {
		return accounting.Window{}, fmt.Errorf("%w: to is before from", shared.ErrInvalidInput)
	}
	return accounting.NewWindow(start, end), nil
}

func parseBound(s string, endOfDay bool) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

func windowKey(w accounting.Window) string {
	bound := func(t *time.Time) string {
		if t == nil {
			return "-"
		}
		return t.UTC().Format(time.RFC3339Nano)
	}
	return bound(w.Start) + "~" + bound(w.End)
}

func reportKey(report string, parts ...string) string {
	return report + ":" + strings.Join(parts, ":")
}
