package effect

import (
	"github.com/zeusync/simcore/internal/core/component"
	"github.com/zeusync/simcore/internal/core/future"
	"github.com/zeusync/simcore/internal/core/lens"
)

// Lift re-expresses an effect produced against a local state/action pair in
// terms of the global pair it is scoped from.
func Lift[GS, GA, LS, LA any](e Effect[LS, LA], state lens.Lens[GS, LS], action lens.Prism[GA, LA]) Effect[GS, GA] {
	switch e.kind {
	case KindSystem:
		se := e.system
		lifted := SystemEffect[GS]{
			Op:     se.Op,
			Entity: se.Entity,
			Parent: se.Parent,
			Tags:   se.Tags,
			Type:   se.Type,
		}
		if se.Op == OpAddComponent {
			lifted.Component = component.LiftAny(se.Component, state)
		}
		return System[GS, GA](lifted)

	case KindGame:
		return Game[GS](action.Embed(e.action))

	case KindMany:
		out := make([]Effect[GS, GA], len(e.many))
		for i, c := range e.many {
			out[i] = Lift(c, state, action)
		}
		return Effect[GS, GA]{kind: KindMany, many: out}

	case KindWaitFor:
		matchers := make([]Matcher[GA], len(e.pending.outstanding))
		for i, m := range e.pending.outstanding {
			matchers[i] = func(ga GA) bool {
				la, ok := action.Project(ga)
				return ok && m(la)
			}
		}
		return WaitForMatching(Lift(e.pending.then, state, action), matchers...)

	case KindDeferred:
		return Deferred(future.Map(e.deferred, func(le Effect[LS, LA]) Effect[GS, GA] {
			return Lift(le, state, action)
		}))

	default:
		return None[GS, GA]()
	}
}
