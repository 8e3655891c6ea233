package shared

// AggregateRoot is the base interface for all aggregate roots
type AggregateRoot interface {
	Entity
	GetVersion() int
	IncrementVersion()
	MarkPersisted()
}

// BaseAggregateRoot provides common fields for aggregate roots.
//
// Version moves by at most one between two saves, however many mutations
// happen in between, so a repository can guard a write with
// "version = Version - 1".
type BaseAggregateRoot struct {
	BaseEntity
	Version int
	dirty   bool
}

// GetVersion returns the aggregate version for optimistic locking
func (a *BaseAggregateRoot) GetVersion() int {
	return a.Version
}

// IncrementVersion bumps the version once per unit of work.
func (a *BaseAggregateRoot) IncrementVersion() {
	if a.dirty {
		return
	}
	a.Version++
	a.dirty = true
}

// MarkPersisted is called by repositories after a successful write.
func (a *BaseAggregateRoot) MarkPersisted() {
	a.dirty = false
}

// IsNew reports whether the aggregate has never been saved.
func (a *BaseAggregateRoot) IsNew() bool {
	return a.dirty && a.Version == 1
}

// NewBaseAggregateRoot creates an unsaved aggregate at version 1.
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity: NewBaseEntity(),
		Version:    1,
		dirty:      true,
	}
}
