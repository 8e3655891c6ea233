package accounting

import (
	"context"
	"errors"

	"github.com/flockbooks/backend/internal/domain/accounting"
	"github.com/flockbooks/backend/internal/domain/shared"
	"github.com/flockbooks/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// GroupService manages the chart of accounts.
type GroupService struct {
	serviceBase
	groups   accounting.GroupRepository
	accounts accounting.AccountRepository
}

// NewGroupService creates a GroupService.
func NewGroupService(groups accounting.GroupRepository, accounts accounting.AccountRepository, opts ...Option) *GroupService {
	return &GroupService{
		serviceBase: newServiceBase(opts),
		groups:      groups,
		accounts:    accounts,
	}
}

func (s *GroupService) chart(ctx context.Context, withAccounts bool) (*accounting.AccountTree, error) {
	groups, err := s.groups.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	var accounts []accounting.Account
	if withAccounts {
		if accounts, err = s.accounts.FindEverything(ctx); err != nil {
			return nil, err
		}
	}
	return accounting.BuildAccountTree(groups, accounts), nil
}

func (s *GroupService) ensureNameFree(ctx context.Context, name string, self uuid.UUID) error {
	existing, err := s.groups.FindByName(ctx, name)
	switch {
	case errors.Is(err, accounting.ErrGroupNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != self:
		return shared.ErrAlreadyExists
	}
	return nil
}

// Create adds a user-defined group, optionally under a parent.
func (s *GroupService) Create(ctx context.Context, req CreateGroupRequest) (*GroupResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "GroupService", "Create")
	defer span.End()

	g, err := accounting.NewGroup(req.Name, accounting.GroupType(req.Type), nil)
	if err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(ctx, g.Name, g.ID); err != nil {
		return nil, err
	}
	if req.ParentID != nil {
		tree, err := s.chart(ctx, false)
		if err != nil {
			return nil, err
		}
		if err := g.ChangeParent(tree, req.ParentID); err != nil {
			return nil, err
		}
	}
	g.SetIncludesAllVendors(req.IncludesAllVendors)

	if err := s.groups.Save(ctx, g); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	s.invalidate(ctx)
	s.log(ctx).Info("account group created", zap.Stringer("group_id", g.ID), zap.String("name", g.Name))
	resp := ToGroupResponse(g)
	return &resp, nil
}

// Update renames, retypes, re-parents or toggles a group. A parent change
// that would close a cycle is rejected before anything is written.
func (s *GroupService) Update(ctx context.Context, id uuid.UUID, req UpdateGroupRequest) (*GroupResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "GroupService", "Update",
		attribute.String("group_id", id.String()))
	defer span.End()

	g, err := s.groups.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	loadedVersion := g.Version
	if req.Name != nil {
		if err := s.ensureNameFree(ctx, *req.Name, g.ID); err != nil {
			return nil, err
		}
		if err := g.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.Type != nil {
		if err := g.ChangeType(accounting.GroupType(*req.Type)); err != nil {
			return nil, err
		}
	}
	if req.MoveToRoot || req.ParentID != nil {
		tree, err := s.chart(ctx, false)
		if err != nil {
			return nil, err
		}
		parent := req.ParentID
		if req.MoveToRoot {
			parent = nil
		}
		if err := g.ChangeParent(tree, parent); err != nil {
			return nil, err
		}
	}
	if req.IncludesAllVendors != nil {
		g.SetIncludesAllVendors(*req.IncludesAllVendors)
	}
	if req.Active != nil {
		if *req.Active {
			g.Activate()
		} else {
			g.Deactivate()
		}
	}

	if g.Version == loadedVersion {
		resp := ToGroupResponse(g)
		return &resp, nil
	}

	if err := s.groups.Save(ctx, g); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	s.invalidate(ctx)
	resp := ToGroupResponse(g)
	return &resp, nil
}

// Delete removes an empty, user-defined group.
func (s *GroupService) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "GroupService", "Delete",
		attribute.String("group_id", id.String()))
	defer span.End()

	g, err := s.groups.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := g.EnsureDeletable(); err != nil {
		return err
	}
	tree, err := s.chart(ctx, false)
	if err != nil {
		return err
	}
	children, err := tree.Children(id)
	if err != nil {
		return err
	}
	if len(children) > 0 {
		return accounting.ErrGroupNotEmpty
	}
	n, err := s.accounts.CountByGroup(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return accounting.ErrGroupNotEmpty
	}

	if err := s.groups.Delete(ctx, id); err != nil {
		telemetry.RecordError(span, err)
		return err
	}
	s.invalidate(ctx)
	s.log(ctx).Info("account group deleted", zap.Stringer("group_id", id), zap.String("name", g.Name))
	return nil
}

// Get returns a single group.
func (s *GroupService) Get(ctx context.Context, id uuid.UUID) (*GroupResponse, error) {
	g, err := s.groups.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToGroupResponse(g)
	return &resp, nil
}

// Tree returns the chart of accounts as nested nodes.
func (s *GroupService) Tree(ctx context.Context) ([]*GroupNode, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "GroupService", "Tree")
	defer span.End()

	tree, err := s.chart(ctx, true)
	if err != nil {
		return nil, err
	}
	visited := make(map[uuid.UUID]struct{}, tree.Len())
	var build func(g *accounting.Group) *GroupNode
	build = func(g *accounting.Group) *GroupNode {
		visited[g.ID] = struct{}{}
		node := &GroupNode{GroupResponse: ToGroupResponse(g), Children: []*GroupNode{}}
		if accs, err := tree.DirectAccounts(g.ID); err == nil {
			node.AccountCount = len(accs)
		}
		children, _ := tree.Children(g.ID)
		for _, c := range children {
			if _, seen := visited[c.ID]; seen {
				continue
			}
			node.Children = append(node.Children, build(c))
		}
		return node
	}

	roots := tree.Roots()
	out := make([]*GroupNode, 0, len(roots))
	for _, r := range roots {
		out = append(out, build(r))
	}
	return out, nil
}

// SeedPredefined creates the default chart of accounts. Groups that already
// exist by name are left alone, so it is safe to run repeatedly.
func (s *GroupService) SeedPredefined(ctx context.Context) (int, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "GroupService", "SeedPredefined")
	defer span.End()

	created := 0
	for _, tmpl := range accounting.PredefinedGroups {
		_, err := s.groups.FindByName(ctx, tmpl.Name)
		if err == nil {
			continue
		}
		if !errors.Is(err, accounting.ErrGroupNotFound) {
			return created, err
		}
		g, err := accounting.NewPredefinedGroup(tmpl.Name, tmpl.Type, tmpl.IncludesAllVendors)
		if err != nil {
			return created, err
		}
		if err := s.groups.Save(ctx, g); err != nil {
			telemetry.RecordError(span, err)
			return created, err
		}
		created++
	}
	if created > 0 {
		s.invalidate(ctx)
	}
	s.log(ctx).Info("predefined groups seeded", zap.Int("created", created))
	return created, nil
}
