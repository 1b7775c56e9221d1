// Package component holds the type-erased descriptors that let the store add
// and remove components of types it has no static knowledge of.
//
// Component data lives in per-type Maps inside the application state. A
// Registered descriptor is built once per type from a lens onto that Map and
// knows how to delete one entity's slot; an Any descriptor carries one value
// and knows how to insert it. Neither exposes the concrete type.
package component

import (
	"errors"
	"fmt"

	"github.com/zeusync/simcore/internal/core/entity"
	"github.com/zeusync/simcore/internal/core/lens"
)

var (
	ErrUnregisteredType = errors.New("component: type not registered")
	ErrMissingComponent = errors.New("component: entity has no such component")
)

// TypeID is the stable identifier of a component type.
type TypeID string

// Named lets a component type pick its own identifier instead of the one
// derived from its Go type name.
type Named interface {
	ComponentType() TypeID
}

// TypeOf returns the identifier of T.
func TypeOf[T any]() TypeID {
	var zero T
	if n, ok := any(zero).(Named); ok {
		return n.ComponentType()
	}
	return TypeID(fmt.Sprintf("%T", zero))
}

// Map is the per-type storage of one component kind, keyed by owner.
type Map[T any] map[entity.ID]T

func (m Map[T]) Get(id entity.ID) (T, bool) {
	v, ok := m[id]
	return v, ok
}

func (m Map[T]) Has(id entity.ID) bool {
	_, ok := m[id]
	return ok
}

// Mutate applies fn to the component owned by id. Mutating a component that
// does not exist is a wiring bug and panics.
func (m Map[T]) Mutate(id entity.ID, fn func(*T)) {
	v, ok := m[id]
	if !ok {
		panic(fmt.Errorf("%w: %s on %s", ErrMissingComponent, TypeOf[T](), id))
	}
	fn(&v)
	m[id] = v
}

// Registered is the per-type descriptor used for cascading deletes.
type Registered[S any] struct {
	id     TypeID
	remove func(entity.ID, S)
}

// Register builds the descriptor for the Map that l points at.
func Register[S, T any](l lens.Lens[S, Map[T]]) Registered[S] {
	return Registered[S]{
		id: TypeOf[T](),
		remove: func(id entity.ID, state S) {
			m := l.Get(state)
			if m == nil {
				return
			}
			delete(m, id)
		},
	}
}

func (r Registered[S]) ID() TypeID { return r.id }

// RemoveFor deletes the slot owned by id, if present.
func (r Registered[S]) RemoveFor(id entity.ID, state S) {
	r.remove(id, state)
}

// LiftRegistered re-targets r at a larger state that contains S.
func LiftRegistered[G, S any](r Registered[S], l lens.Lens[G, S]) Registered[G] {
	return Registered[G]{
		id: r.id,
		remove: func(id entity.ID, state G) {
			local := l.Get(state)
			r.remove(id, local)
			l.Write(state, local)
		},
	}
}

// Any carries one component value together with its insertion closure.
type Any[S any] struct {
	id     TypeID
	insert func(entity.ID, S)
}

// Wrap prepares value for insertion into the Map that l points at.
func Wrap[S, T any](l lens.Lens[S, Map[T]], value T) Any[S] {
	return Any[S]{
		id: TypeOf[T](),
		insert: func(id entity.ID, state S) {
			m := l.Get(state)
			if m == nil {
				m = make(Map[T])
			}
			m[id] = value
			l.Write(state, m)
		},
	}
}

func (a Any[S]) ID() TypeID { return a.id }

// InsertFor stores the carried value as the component of id.
func (a Any[S]) InsertFor(id entity.ID, state S) {
	a.insert(id, state)
}

// LiftAny re-targets a at a larger state that contains S.
func LiftAny[G, S any](a Any[S], l lens.Lens[G, S]) Any[G] {
	return Any[G]{
		id: a.id,
		insert: func(id entity.ID, state G) {
			local := l.Get(state)
			a.insert(id, local)
			l.Write(state, local)
		},
	}
}
