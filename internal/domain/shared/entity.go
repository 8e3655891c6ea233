package shared

import (
	"time"

	"github.com/google/uuid"
)

// Entity is anything with a stable identity and audit timestamps. Groups
// and the ledger, customer and vendor account heads all satisfy it through
// BaseAggregateRoot; transaction source records carry plain IDs instead.
type Entity interface {
	GetID() uuid.UUID
	GetCreatedAt() time.Time
	GetUpdatedAt() time.Time
}

// BaseEntity holds the identity columns shared by every persisted row.
// ID is assigned once in NewBaseEntity and survives regrouping and balance
// rewrites; the persistence models copy all three fields verbatim.
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (e *BaseEntity) GetID() uuid.UUID {
	return e.ID
}

func (e *BaseEntity) GetCreatedAt() time.Time {
	return e.CreatedAt
}

// GetUpdatedAt is the time of the last balance, opening or group change.
func (e *BaseEntity) GetUpdatedAt() time.Time {
	return e.UpdatedAt
}

// Stamp records a change at now. Callers pair it with IncrementVersion.
func (e *BaseEntity) Stamp(now time.Time) {
	e.UpdatedAt = now
}

// NewBaseEntity mints a fresh identity for a group or account.
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}
