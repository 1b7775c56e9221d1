// Package effect describes what should happen after a reducer ran: system
// mutations of the entity/component state, follow-up domain actions, and
// composite, pending or deferred continuations. Effects are plain values; the
// store interprets them.
package effect

import (
	"github.com/zeusync/simcore/internal/core/component"
	"github.com/zeusync/simcore/internal/core/entity"
	"github.com/zeusync/simcore/internal/core/future"
)

// Kind tags the variant held by an Effect.
type Kind uint8

const (
	KindNone Kind = iota
	KindSystem
	KindGame
	KindMany
	KindWaitFor
	KindDeferred
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindSystem:
		return "system"
	case KindGame:
		return "game"
	case KindMany:
		return "many"
	case KindWaitFor:
		return "waitFor"
	case KindDeferred:
		return "deferred"
	default:
		return "unknown"
	}
}

// Effect is a closed sum over state S and action A. The zero value is none.
type Effect[S, A any] struct {
	kind     Kind
	system   SystemEffect[S]
	action   A
	many     []Effect[S, A]
	pending  *Pending[S, A]
	deferred *future.Future[Effect[S, A]]
}

func (e Effect[S, A]) Kind() Kind   { return e.kind }
func (e Effect[S, A]) IsNone() bool { return e.kind == KindNone }

// System returns the system mutation of a KindSystem effect.
func (e Effect[S, A]) System() SystemEffect[S] { return e.system }

// Action returns the domain action of a KindGame effect.
func (e Effect[S, A]) Action() A { return e.action }

// Effects returns the children of a KindMany effect.
func (e Effect[S, A]) Effects() []Effect[S, A] { return e.many }

// Pending returns the guarded effect of a KindWaitFor effect.
func (e Effect[S, A]) Pending() *Pending[S, A] { return e.pending }

// Future returns the continuation of a KindDeferred effect.
func (e Effect[S, A]) Future() *future.Future[Effect[S, A]] { return e.deferred }

func None[S, A any]() Effect[S, A] {
	return Effect[S, A]{}
}

// Game requests a recursive dispatch of a.
func Game[S, A any](a A) Effect[S, A] {
	return Effect[S, A]{kind: KindGame, action: a}
}

// System wraps a system mutation.
func System[S, A any](se SystemEffect[S]) Effect[S, A] {
	return Effect[S, A]{kind: KindSystem, system: se}
}

// Many interprets effects left to right. None entries are dropped; an empty
// result collapses to none and a single survivor is returned as is.
func Many[S, A any](effects ...Effect[S, A]) Effect[S, A] {
	kept := make([]Effect[S, A], 0, len(effects))
	for _, e := range effects {
		if !e.IsNone() {
			kept = append(kept, e)
		}
	}
	switch len(kept) {
	case 0:
		return None[S, A]()
	case 1:
		return kept[0]
	default:
		return Effect[S, A]{kind: KindMany, many: kept}
	}
}

// Deferred interprets whatever effect f eventually resolves with.
func Deferred[S, A any](f *future.Future[Effect[S, A]]) Effect[S, A] {
	if f == nil {
		return None[S, A]()
	}
	return Effect[S, A]{kind: KindDeferred, deferred: f}
}

// Flatten lists the non-composite leaves of e in interpretation order.
func Flatten[S, A any](e Effect[S, A]) []Effect[S, A] {
	var out []Effect[S, A]
	var walk func(Effect[S, A])
	walk = func(e Effect[S, A]) {
		switch e.kind {
		case KindNone:
		case KindMany:
			for _, c := range e.many {
				walk(c)
			}
		default:
			out = append(out, e)
		}
	}
	walk(e)
	return out
}

// SystemOp names a system mutation.
type SystemOp uint8

const (
	OpAddEntity SystemOp = iota + 1
	OpRemoveEntity
	OpMoveEntity
	OpAddComponent
	OpRemoveComponent
)

func (op SystemOp) String() string {
	switch op {
	case OpAddEntity:
		return "addEntity"
	case OpRemoveEntity:
		return "removeEntity"
	case OpMoveEntity:
		return "moveEntity"
	case OpAddComponent:
		return "addComponent"
	case OpRemoveComponent:
		return "removeComponent"
	default:
		return "unknown"
	}
}

// SystemEffect mutates entities or components directly. Only the fields
// relevant to Op are set.
type SystemEffect[S any] struct {
	Op        SystemOp
	Entity    entity.ID
	Parent    entity.ID
	Tags      []string
	Component component.Any[S]
	Type      component.TypeID
}

// AddEntity creates id under the hierarchy root.
func AddEntity[S, A any](id entity.ID, tags ...string) Effect[S, A] {
	return AddEntityUnder[S, A](id, entity.Root, tags...)
}

// AddEntityUnder creates id under parent.
func AddEntityUnder[S, A any](id, parent entity.ID, tags ...string) Effect[S, A] {
	return System[S, A](SystemEffect[S]{Op: OpAddEntity, Entity: id, Parent: parent, Tags: tags})
}

func RemoveEntity[S, A any](id entity.ID) Effect[S, A] {
	return System[S, A](SystemEffect[S]{Op: OpRemoveEntity, Entity: id})
}

func MoveEntity[S, A any](id, parent entity.ID) Effect[S, A] {
	return System[S, A](SystemEffect[S]{Op: OpMoveEntity, Entity: id, Parent: parent})
}

func AddComponent[S, A any](id entity.ID, c component.Any[S]) Effect[S, A] {
	return System[S, A](SystemEffect[S]{Op: OpAddComponent, Entity: id, Component: c, Type: c.ID()})
}

func RemoveComponent[S, A any](id entity.ID, typ component.TypeID) Effect[S, A] {
	return System[S, A](SystemEffect[S]{Op: OpRemoveComponent, Entity: id, Type: typ})
}
