package shared

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewBaseAggregateRoot(t *testing.T) {
	root := NewBaseAggregateRoot()

	assert.NotEqual(t, uuid.Nil, root.GetID())
	assert.Equal(t, root.GetCreatedAt(), root.GetUpdatedAt())
	assert.Equal(t, 1, root.GetVersion())
	assert.True(t, root.IsNew())

	root.MarkPersisted()
	assert.False(t, root.IsNew())
}

func TestBaseAggregateRoot_OneVersionPerSave(t *testing.T) {
	root := NewBaseAggregateRoot()
	root.MarkPersisted()
	created := root.GetCreatedAt()

	later := created.Add(time.Hour)
	root.Stamp(later)
	root.IncrementVersion()
	root.IncrementVersion()
	assert.Equal(t, 2, root.GetVersion(), "several changes before a save count once")
	assert.Equal(t, later, root.GetUpdatedAt())
	assert.Equal(t, created, root.GetCreatedAt())

	root.MarkPersisted()
	root.IncrementVersion()
	assert.Equal(t, 3, root.GetVersion())
}
