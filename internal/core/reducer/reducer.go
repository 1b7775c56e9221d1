// Package reducer defines the interface every simulation sub-system
// implements and the combinators that assemble many local reducers into the
// single root reducer a store drives.
package reducer

import (
	"github.com/zeusync/simcore/internal/core/effect"
	"github.com/zeusync/simcore/internal/core/entity"
)

// Reducer mutates state in place and describes follow-up work as an effect.
// All three operations return an effect, entity events included.
type Reducer[S, A, E any] interface {
	ReduceDelta(state S, dt float64, env E) effect.Effect[S, A]
	ReduceAction(state S, action A, env E) effect.Effect[S, A]
	ReduceEntityEvent(state S, ev entity.Event, env E) effect.Effect[S, A]
}

// NoEntityEvents can be embedded by reducers that ignore entity lifecycle.
type NoEntityEvents[S, A, E any] struct{}

func (NoEntityEvents[S, A, E]) ReduceEntityEvent(S, entity.Event, E) effect.Effect[S, A] {
	return effect.None[S, A]()
}

// Funcs is the type-erasing reducer: any combination of closures, with nil
// closures reducing to none.
type Funcs[S, A, E any] struct {
	Delta       func(state S, dt float64, env E) effect.Effect[S, A]
	Action      func(state S, action A, env E) effect.Effect[S, A]
	EntityEvent func(state S, ev entity.Event, env E) effect.Effect[S, A]
}

var _ Reducer[struct{}, int, struct{}] = Funcs[struct{}, int, struct{}]{}

func (f Funcs[S, A, E]) ReduceDelta(state S, dt float64, env E) effect.Effect[S, A] {
	if f.Delta == nil {
		return effect.None[S, A]()
	}
	return f.Delta(state, dt, env)
}

func (f Funcs[S, A, E]) ReduceAction(state S, action A, env E) effect.Effect[S, A] {
	if f.Action == nil {
		return effect.None[S, A]()
	}
	return f.Action(state, action, env)
}

func (f Funcs[S, A, E]) ReduceEntityEvent(state S, ev entity.Event, env E) effect.Effect[S, A] {
	if f.EntityEvent == nil {
		return effect.None[S, A]()
	}
	return f.EntityEvent(state, ev, env)
}

// Erase captures the operations of r behind a uniform value.
func Erase[S, A, E any](r Reducer[S, A, E]) Funcs[S, A, E] {
	if f, ok := r.(Funcs[S, A, E]); ok {
		return f
	}
	return Funcs[S, A, E]{
		Delta:       r.ReduceDelta,
		Action:      r.ReduceAction,
		EntityEvent: r.ReduceEntityEvent,
	}
}
