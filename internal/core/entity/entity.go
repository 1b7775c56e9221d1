package entity

import (
	"slices"

	"github.com/google/uuid"
)

// ID is an opaque entity identity. The zero value names the synthetic root
// of the hierarchy and is never a valid entity.
type ID string

// Root is the synthetic hierarchy node every entity descends from.
const Root ID = ""

// NewID returns a fresh random identity.
func NewID() ID {
	return ID(uuid.NewString())
}

func (id ID) String() string {
	if id == Root {
		return "Root"
	}
	return string(id)
}

// Entity is an identity with tags and an optional parent.
// Parent == Root means the entity hangs directly off the hierarchy root.
type Entity struct {
	ID     ID       `yaml:"id"`
	Parent ID       `yaml:"parent,omitempty"`
	Tags   []string `yaml:"tags,omitempty"`
}

// New builds an entity under the root.
func New(id ID, tags ...string) Entity {
	return Entity{ID: id, Tags: normalizeTags(tags)}
}

// NewChild builds an entity under parent.
func NewChild(id, parent ID, tags ...string) Entity {
	return Entity{ID: id, Parent: parent, Tags: normalizeTags(tags)}
}

// HasTag reports whether the entity carries tag.
func (e Entity) HasTag(tag string) bool {
	_, found := slices.BinarySearch(e.Tags, tag)
	return found
}

func (e Entity) clone() Entity {
	e.Tags = slices.Clone(e.Tags)
	return e
}

// normalizeTags sorts and dedupes; an empty set is nil so that encoded
// snapshots compare equal after a round trip.
func normalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	out := slices.Clone(tags)
	slices.Sort(out)
	return slices.Compact(out)
}

// EventKind distinguishes entity lifecycle notifications.
type EventKind uint8

const (
	Added EventKind = iota + 1
	Removed
)

func (k EventKind) String() string {
	switch k {
	case Added:
		return "added"
	case Removed:
		return "removed"
	default:
		return "unknown"
	}
}

// Event is delivered to reducers after an entity enters or leaves the
// repository.
type Event struct {
	Kind EventKind
	ID   ID
}

func AddedEvent(id ID) Event   { return Event{Kind: Added, ID: id} }
func RemovedEvent(id ID) Event { return Event{Kind: Removed, ID: id} }
