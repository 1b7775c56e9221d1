package bus

import (
	"github.com/zeusync/simcore/internal/core/component"
	"github.com/zeusync/simcore/internal/core/entity"
)

// Lifecycle event types published by a store.
const (
	EntityAdded      = "entity.added"
	EntityRemoved    = "entity.removed"
	EntityMoved      = "entity.moved"
	ComponentAdded   = "component.added"
	ComponentRemoved = "component.removed"
	PendingFired     = "pending.fired"
)

// EntityPayload is the Data of entity.* events. Parent is the parent after
// the change.
type EntityPayload struct {
	ID     entity.ID
	Parent entity.ID
	Tags   []string
}

// ComponentPayload is the Data of component.* events.
type ComponentPayload struct {
	Entity entity.ID
	Type   component.TypeID
}

// PendingPayload is the Data of pending.fired events.
type PendingPayload struct {
	Remaining int
}
