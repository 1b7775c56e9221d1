package reducer

import (
	"github.com/zeusync/simcore/internal/core/effect"
	"github.com/zeusync/simcore/internal/core/entity"
	"github.com/zeusync/simcore/internal/core/lens"
)

// Scope describes how a local reducer sees the global state, actions and
// environment. A nil Env asserts the global environment to the local type,
// which only works when both are the same type.
type Scope[GS, GA, GE, LS, LA, LE any] struct {
	State  lens.Lens[GS, LS]
	Action lens.Prism[GA, LA]
	Env    func(GE) LE
}

func (s Scope[GS, GA, GE, LS, LA, LE]) env(ge GE) LE {
	if s.Env != nil {
		return s.Env(ge)
	}
	return any(ge).(LE)
}

type pullback[GS, GA, GE, LS, LA, LE any] struct {
	inner Reducer[LS, LA, LE]
	scope Scope[GS, GA, GE, LS, LA, LE]
}

// Pullback scopes inner to a part of a larger state. Delta and entity events
// always reach inner; actions only when the scope's prism extracts one.
func Pullback[GS, GA, GE, LS, LA, LE any](inner Reducer[LS, LA, LE], scope Scope[GS, GA, GE, LS, LA, LE]) Reducer[GS, GA, GE] {
	return &pullback[GS, GA, GE, LS, LA, LE]{inner: inner, scope: scope}
}

func (p *pullback[GS, GA, GE, LS, LA, LE]) lift(e effect.Effect[LS, LA]) effect.Effect[GS, GA] {
	if e.IsNone() {
		return effect.None[GS, GA]()
	}
	return effect.Lift(e, p.scope.State, p.scope.Action)
}

func (p *pullback[GS, GA, GE, LS, LA, LE]) ReduceDelta(state GS, dt float64, env GE) effect.Effect[GS, GA] {
	local := p.scope.State.Get(state)
	e := p.inner.ReduceDelta(local, dt, p.scope.env(env))
	p.scope.State.Write(state, local)
	return p.lift(e)
}

func (p *pullback[GS, GA, GE, LS, LA, LE]) ReduceAction(state GS, action GA, env GE) effect.Effect[GS, GA] {
	la, ok := p.scope.Action.Project(action)
	if !ok {
		return effect.None[GS, GA]()
	}
	local := p.scope.State.Get(state)
	e := p.inner.ReduceAction(local, la, p.scope.env(env))
	p.scope.State.Write(state, local)
	return p.lift(e)
}

func (p *pullback[GS, GA, GE, LS, LA, LE]) ReduceEntityEvent(state GS, ev entity.Event, env GE) effect.Effect[GS, GA] {
	local := p.scope.State.Get(state)
	e := p.inner.ReduceEntityEvent(local, ev, p.scope.env(env))
	p.scope.State.Write(state, local)
	return p.lift(e)
}

type combined[S, A, E any] []Reducer[S, A, E]

// Combine runs reducers in order against the same state; later reducers see
// the mutations of earlier ones. Effects are concatenated in the same order.
func Combine[S, A, E any](reducers ...Reducer[S, A, E]) Reducer[S, A, E] {
	return combined[S, A, E](reducers)
}

// Zip combines two reducers, first then second.
func Zip[S, A, E any](first, second Reducer[S, A, E]) Reducer[S, A, E] {
	return Combine(first, second)
}

func (c combined[S, A, E]) ReduceDelta(state S, dt float64, env E) effect.Effect[S, A] {
	out := make([]effect.Effect[S, A], len(c))
	for i, r := range c {
		out[i] = r.ReduceDelta(state, dt, env)
	}
	return effect.Many(out...)
}

func (c combined[S, A, E]) ReduceAction(state S, action A, env E) effect.Effect[S, A] {
	out := make([]effect.Effect[S, A], len(c))
	for i, r := range c {
		out[i] = r.ReduceAction(state, action, env)
	}
	return effect.Many(out...)
}

func (c combined[S, A, E]) ReduceEntityEvent(state S, ev entity.Event, env E) effect.Effect[S, A] {
	out := make([]effect.Effect[S, A], len(c))
	for i, r := range c {
		out[i] = r.ReduceEntityEvent(state, ev, env)
	}
	return effect.Many(out...)
}

// Predicate gates a reducer. action is nil for delta reductions.
type Predicate[S, A any] func(state S, action *A) bool

type filtered[S, A, E any] struct {
	inner Reducer[S, A, E]
	pred  Predicate[S, A]
}

// Filter skips inner whenever pred is false. Entity events are never
// filtered so that per-entity setup is not lost while a subsystem is gated.
func Filter[S, A, E any](inner Reducer[S, A, E], pred Predicate[S, A]) Reducer[S, A, E] {
	return &filtered[S, A, E]{inner: inner, pred: pred}
}

func (f *filtered[S, A, E]) ReduceDelta(state S, dt float64, env E) effect.Effect[S, A] {
	if !f.pred(state, nil) {
		return effect.None[S, A]()
	}
	return f.inner.ReduceDelta(state, dt, env)
}

func (f *filtered[S, A, E]) ReduceAction(state S, action A, env E) effect.Effect[S, A] {
	if !f.pred(state, &action) {
		return effect.None[S, A]()
	}
	return f.inner.ReduceAction(state, action, env)
}

func (f *filtered[S, A, E]) ReduceEntityEvent(state S, ev entity.Event, env E) effect.Effect[S, A] {
	return f.inner.ReduceEntityEvent(state, ev, env)
}

// Throttled accumulates deltas and forwards them in one step once the
// accumulated total reaches Minimum.
type Throttled[S, A, E any] struct {
	inner       Reducer[S, A, E]
	minimum     float64
	accumulated float64
}

func Throttle[S, A, E any](inner Reducer[S, A, E], minimum float64) *Throttled[S, A, E] {
	return &Throttled[S, A, E]{inner: inner, minimum: minimum}
}

// Accumulated is the delta carried over to the next step.
func (t *Throttled[S, A, E]) Accumulated() float64 { return t.accumulated }

func (t *Throttled[S, A, E]) ReduceDelta(state S, dt float64, env E) effect.Effect[S, A] {
	t.accumulated += dt
	if t.accumulated < t.minimum {
		return effect.None[S, A]()
	}
	total := t.accumulated
	t.accumulated = 0
	return t.inner.ReduceDelta(state, total, env)
}

func (t *Throttled[S, A, E]) ReduceAction(state S, action A, env E) effect.Effect[S, A] {
	return t.inner.ReduceAction(state, action, env)
}

func (t *Throttled[S, A, E]) ReduceEntityEvent(state S, ev entity.Event, env E) effect.Effect[S, A] {
	return t.inner.ReduceEntityEvent(state, ev, env)
}

// Transform derives an optional follow-up action from a handled one.
type Transform[S, A any] func(state S, action A) (A, bool)

type resending[S, A, E any] struct {
	inner     Reducer[S, A, E]
	transform Transform[S, A]
}

// Resending appends a game effect for the follow-up action produced by
// transform after inner handled an action.
func Resending[S, A, E any](inner Reducer[S, A, E], transform Transform[S, A]) Reducer[S, A, E] {
	return &resending[S, A, E]{inner: inner, transform: transform}
}

func (r *resending[S, A, E]) ReduceDelta(state S, dt float64, env E) effect.Effect[S, A] {
	return r.inner.ReduceDelta(state, dt, env)
}

func (r *resending[S, A, E]) ReduceAction(state S, action A, env E) effect.Effect[S, A] {
	e := r.inner.ReduceAction(state, action, env)
	next, ok := r.transform(state, action)
	if !ok {
		return e
	}
	return effect.Many(e, effect.Game[S](next))
}

func (r *resending[S, A, E]) ReduceEntityEvent(state S, ev entity.Event, env E) effect.Effect[S, A] {
	return r.inner.ReduceEntityEvent(state, ev, env)
}
