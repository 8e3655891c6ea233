package accounting

import (
	"sort"

	"github.com/google/uuid"
)

const noParent = -1

type groupNode struct {
	group    *Group
	parent   int
	children []int
	accounts []Account
}

// Member is an account reached while walking a group.
type Member struct {
	Account Account
	// Mirrored is set for vendors pulled in through IncludesAllVendors rather
	// than actual membership.
	Mirrored bool
}

// AccountTree is the chart of accounts held as a flat node arena with index
// links. Walks use explicit stacks and visited sets, so corrupted cyclic data
// cannot recurse without bound.
type AccountTree struct {
	nodes   []groupNode
	index   map[uuid.UUID]int
	roots   []int
	vendors []Account
	// unplaced accounts reference a group that does not exist.
	unplaced []Account
}

// BuildAccountTree indexes groups, attaches parents in a second pass and
// buckets accounts under their group. A group whose parent is missing or
// unknown becomes a root.
func BuildAccountTree(groups []*Group, accounts []Account) *AccountTree {
	t := &AccountTree{
		nodes: make([]groupNode, 0, len(groups)),
		index: make(map[uuid.UUID]int, len(groups)),
	}
	for _, g := range groups {
		if g == nil {
			continue
		}
		if _, dup := t.index[g.ID]; dup {
			continue
		}
		t.index[g.ID] = len(t.nodes)
		t.nodes = append(t.nodes, groupNode{group: g, parent: noParent})
	}

	for i := range t.nodes {
		g := t.nodes[i].group
		if g.ParentID == nil || *g.ParentID == g.ID {
			t.roots = append(t.roots, i)
			continue
		}
		pi, ok := t.index[*g.ParentID]
		if !ok {
			t.roots = append(t.roots, i)
			continue
		}
		t.nodes[i].parent = pi
		t.nodes[pi].children = append(t.nodes[pi].children, i)
	}

	for _, acc := range accounts {
		if acc == nil {
			continue
		}
		if acc.Kind() == KindVendor {
			t.vendors = append(t.vendors, acc)
		}
		gi, ok := t.index[acc.GroupRef()]
		if !ok {
			t.unplaced = append(t.unplaced, acc)
			continue
		}
		t.nodes[gi].accounts = append(t.nodes[gi].accounts, acc)
	}

	t.sortLinks()
	return t
}

func (t *AccountTree) sortLinks() {
	byName := func(idx []int) {
		sort.SliceStable(idx, func(a, b int) bool {
			ga, gb := t.nodes[idx[a]].group, t.nodes[idx[b]].group
			if ga.Name != gb.Name {
				return ga.Name < gb.Name
			}
			return ga.ID.String() < gb.ID.String()
		})
	}
	byName(t.roots)
	for i := range t.nodes {
		byName(t.nodes[i].children)
		sortAccounts(t.nodes[i].accounts)
	}
	sortAccounts(t.vendors)
}

func sortAccounts(accs []Account) {
	rank := map[AccountKind]int{KindLedger: 0, KindCustomer: 1, KindVendor: 2}
	sort.SliceStable(accs, func(a, b int) bool {
		x, y := accs[a], accs[b]
		if x.Kind() != y.Kind() {
			return rank[x.Kind()] < rank[y.Kind()]
		}
		if x.DisplayName() != y.DisplayName() {
			return x.DisplayName() < y.DisplayName()
		}
		return x.GetID().String() < y.GetID().String()
	})
}

// Group returns the group with id.
func (t *AccountTree) Group(id uuid.UUID) (*Group, bool) {
	i, ok := t.index[id]
	if !ok {
		return nil, false
	}
	return t.nodes[i].group, true
}

// Len returns the number of groups.
func (t *AccountTree) Len() int {
	return len(t.nodes)
}

// Roots returns the top-level groups ordered by name.
func (t *AccountTree) Roots() []*Group {
	out := make([]*Group, 0, len(t.roots))
	for _, i := range t.roots {
		out = append(out, t.nodes[i].group)
	}
	return out
}

// Children returns the direct sub-groups of id ordered by name.
func (t *AccountTree) Children(id uuid.UUID) ([]*Group, error) {
	i, ok := t.index[id]
	if !ok {
		return nil, ErrGroupNotFound
	}
	out := make([]*Group, 0, len(t.nodes[i].children))
	for _, c := range t.nodes[i].children {
		out = append(out, t.nodes[c].group)
	}
	return out, nil
}

// DirectAccounts returns the accounts attached to id itself.
func (t *AccountTree) DirectAccounts(id uuid.UUID) ([]Account, error) {
	i, ok := t.index[id]
	if !ok {
		return nil, ErrGroupNotFound
	}
	return append([]Account(nil), t.nodes[i].accounts...), nil
}

// DirectMembers returns the accounts that report directly under id. For a
// group with IncludesAllVendors this adds every vendor not already found
// anywhere in its subtree.
func (t *AccountTree) DirectMembers(id uuid.UUID) ([]Member, error) {
	i, ok := t.index[id]
	if !ok {
		return nil, ErrGroupNotFound
	}
	node := &t.nodes[i]
	out := make([]Member, 0, len(node.accounts))
	for _, acc := range node.accounts {
		out = append(out, Member{Account: acc})
	}
	if node.group.IncludesAllVendors {
		all, err := t.Members(id)
		if err != nil {
			return nil, err
		}
		for _, m := range all {
			if m.Mirrored {
				out = append(out, m)
			}
		}
	}
	return out, nil
}

// Members walks id and its whole subtree depth-first and returns every
// account reached, each once. Actual membership wins over the
// IncludesAllVendors expansion when a vendor is reachable both ways.
func (t *AccountTree) Members(id uuid.UUID) ([]Member, error) {
	start, ok := t.index[id]
	if !ok {
		return nil, ErrGroupNotFound
	}

	visited := make(map[int]struct{})
	seen := make(map[uuid.UUID]struct{})
	var out []Member
	includeAllVendors := false

	stack := []int{start}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, done := visited[n]; done {
			continue
		}
		visited[n] = struct{}{}

		node := &t.nodes[n]
		if node.group.IncludesAllVendors {
			includeAllVendors = true
		}
		for _, acc := range node.accounts {
			if _, dup := seen[acc.GetID()]; dup {
				continue
			}
			seen[acc.GetID()] = struct{}{}
			out = append(out, Member{Account: acc})
		}
		for c := len(node.children) - 1; c >= 0; c-- {
			stack = append(stack, node.children[c])
		}
	}

	if includeAllVendors {
		for _, v := range t.vendors {
			if _, dup := seen[v.GetID()]; dup {
				continue
			}
			seen[v.GetID()] = struct{}{}
			out = append(out, Member{Account: v, Mirrored: true})
		}
	}
	return out, nil
}

// DescendantsOf returns the accounts of kind found under id, including every
// sub-group, in depth-first order.
func (t *AccountTree) DescendantsOf(id uuid.UUID, kind AccountKind) ([]Account, error) {
	members, err := t.Members(id)
	if err != nil {
		return nil, err
	}
	var out []Account
	for _, m := range members {
		if m.Account.Kind() == kind {
			out = append(out, m.Account)
		}
	}
	return out, nil
}

// Subtree returns id and all groups below it in depth-first order.
func (t *AccountTree) Subtree(id uuid.UUID) ([]*Group, error) {
	start, ok := t.index[id]
	if !ok {
		return nil, ErrGroupNotFound
	}
	visited := make(map[int]struct{})
	var out []*Group
	stack := []int{start}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, done := visited[n]; done {
			continue
		}
		visited[n] = struct{}{}
		out = append(out, t.nodes[n].group)
		for c := len(t.nodes[n].children) - 1; c >= 0; c-- {
			stack = append(stack, t.nodes[n].children[c])
		}
	}
	return out, nil
}

// ValidateParent checks that making parentID the parent of groupID keeps the
// hierarchy acyclic. It walks the proposed ancestry upward and fails on the
// edited group or on any id seen twice. Nothing is mutated.
func (t *AccountTree) ValidateParent(groupID uuid.UUID, parentID *uuid.UUID) error {
	if parentID == nil {
		return nil
	}
	if *parentID == groupID {
		return ErrCircularReference
	}
	pi, ok := t.index[*parentID]
	if !ok || !t.nodes[pi].group.Active {
		return ErrInvalidParent
	}

	visited := make(map[uuid.UUID]struct{})
	cur := t.nodes[pi].group
	for cur != nil {
		if cur.ID == groupID {
			return ErrCircularReference
		}
		if _, dup := visited[cur.ID]; dup {
			return ErrCircularReference
		}
		visited[cur.ID] = struct{}{}
		if cur.ParentID == nil {
			break
		}
		next, ok := t.index[*cur.ParentID]
		if !ok {
			break
		}
		cur = t.nodes[next].group
	}
	return nil
}

// IsEmpty reports whether id has neither sub-groups nor accounts attached.
func (t *AccountTree) IsEmpty(id uuid.UUID) (bool, error) {
	i, ok := t.index[id]
	if !ok {
		return false, ErrGroupNotFound
	}
	return len(t.nodes[i].children) == 0 && len(t.nodes[i].accounts) == 0, nil
}

// GroupOf returns the group an account is attached to.
func (t *AccountTree) GroupOf(acc Account) (*Group, bool) {
	return t.Group(acc.GroupRef())
}

// Unplaced returns accounts whose group is unknown.
func (t *AccountTree) Unplaced() []Account {
	return append([]Account(nil), t.unplaced...)
}

// RootsOfType returns the groups of type gt whose parent is absent or of a
// different type: the tops of each same-typed subtree.
func (t *AccountTree) RootsOfType(gt GroupType) []*Group {
	var out []*Group
	for i := range t.nodes {
		g := t.nodes[i].group
		if g.Type != gt {
			continue
		}
		p := t.nodes[i].parent
		if p == noParent || t.nodes[p].group.Type != gt {
			out = append(out, g)
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		if out[a].Name != out[b].Name {
			return out[a].Name < out[b].Name
		}
		return out[a].ID.String() < out[b].ID.String()
	})
	return out
}
