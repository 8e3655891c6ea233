package accounting

import (
	"strings"
	"time"

	"github.com/flockbooks/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// GroupType classifies a chart-of-accounts group and fixes the polarity of
// everything beneath it.
type GroupType string

const (
	GroupLiability GroupType = "Liability"
	GroupAssets    GroupType = "Assets"
	GroupExpenses  GroupType = "Expenses"
	GroupIncome    GroupType = "Income"
	GroupOthers    GroupType = "Others"
)

// IsValid reports whether t is a known group type.
func (t GroupType) IsValid() bool {
	switch t {
	case GroupLiability, GroupAssets, GroupExpenses, GroupIncome, GroupOthers:
		return true
	}
	return false
}

// NaturalSide returns the side on which balances under this type grow.
func (t GroupType) NaturalSide() BalanceType {
	switch t {
	case GroupLiability, GroupIncome:
		return Credit
	default:
		return Debit
	}
}

// Group is a node of the chart of accounts.
type Group struct {
	shared.BaseAggregateRoot
	Name       string
	Type       GroupType
	ParentID   *uuid.UUID
	Predefined bool
	Active     bool
	// IncludesAllVendors makes every vendor count under this group in
	// reports, regardless of the vendor's own group.
	IncludesAllVendors bool
}

// NewGroup creates an active, user-defined group.
func NewGroup(name string, groupType GroupType, parentID *uuid.UUID) (*Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if !groupType.IsValid() {
		return nil, ErrInvalidGroupType
	}
	g := &Group{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Type:              groupType,
		Active:            true,
	}
	if parentID != nil {
		if *parentID == g.ID {
			return nil, ErrCircularReference
		}
		p := *parentID
		g.ParentID = &p
	}
	return g, nil
}

// NewPredefinedGroup creates a root group that ships with the chart of accounts.
func NewPredefinedGroup(name string, groupType GroupType, includesAllVendors bool) (*Group, error) {
	g, err := NewGroup(name, groupType, nil)
	if err != nil {
		return nil, err
	}
	g.Predefined = true
	g.IncludesAllVendors = includesAllVendors
	return g, nil
}

// Rename changes the display name.
func (g *Group) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	g.Name = name
	g.touch()
	return nil
}

// ChangeType retypes a user-defined group.
func (g *Group) ChangeType(t GroupType) error {
	if !t.IsValid() {
		return ErrInvalidGroupType
	}
	if t == g.Type {
		return nil
	}
	if g.Predefined {
		return ErrPredefinedGroup
	}
	g.Type = t
	g.touch()
	return nil
}

// ChangeParent re-attaches the group after the tree confirms the new
// ancestry is acyclic. On error the group is left untouched.
func (g *Group) ChangeParent(tree *AccountTree, parentID *uuid.UUID) error {
	if err := tree.ValidateParent(g.ID, parentID); err != nil {
		return err
	}
	if parentID == nil {
		g.ParentID = nil
	} else {
		p := *parentID
		g.ParentID = &p
	}
	g.touch()
	return nil
}

// SetIncludesAllVendors toggles the purchase-account behaviour.
func (g *Group) SetIncludesAllVendors(v bool) {
	if g.IncludesAllVendors == v {
		return
	}
	g.IncludesAllVendors = v
	g.touch()
}

// Activate marks the group usable for new accounts.
func (g *Group) Activate() {
	if g.Active {
		return
	}
	g.Active = true
	g.touch()
}

// Deactivate prevents new accounts from being attached.
func (g *Group) Deactivate() {
	if !g.Active {
		return
	}
	g.Active = false
	g.touch()
}

// EnsureDeletable rejects removal of predefined groups.
func (g *Group) EnsureDeletable() error {
	if g.Predefined {
		return ErrPredefinedGroup
	}
	return nil
}

// IsRoot reports whether the group has no parent.
func (g *Group) IsRoot() bool {
	return g.ParentID == nil
}

func (g *Group) touch() {
	g.Stamp(time.Now())
	g.IncrementVersion()
}
