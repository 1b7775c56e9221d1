package reducer

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeusync/simcore/internal/core/effect"
	"github.com/zeusync/simcore/internal/core/entity"
	"github.com/zeusync/simcore/internal/core/lens"
)

type env struct{ Scale float64 }

type state struct {
	Log    []string
	Total  float64
	Paused bool
}

type action string

type Fx = effect.Effect[*state, action]

func logging(name string) Funcs[*state, action, env] {
	return Funcs[*state, action, env]{
		Delta: func(s *state, dt float64, e env) Fx {
			s.Log = append(s.Log, fmt.Sprintf("%s:dt=%g", name, dt*e.Scale))
			s.Total += dt
			return effect.None[*state, action]()
		},
		Action: func(s *state, a action, _ env) Fx {
			s.Log = append(s.Log, name+":"+string(a))
			return effect.Game[*state](action(name + "-out"))
		},
		EntityEvent: func(s *state, ev entity.Event, _ env) Fx {
			s.Log = append(s.Log, name+":"+ev.Kind.String()+":"+string(ev.ID))
			return effect.None[*state, action]()
		},
	}
}

func TestZipOrder(t *testing.T) {
	s := &state{}
	r := Zip[*state, action, env](logging("A"), logging("B"))

	e := r.ReduceAction(s, "go", env{})
	assert.Equal(t, []string{"A:go", "B:go"}, s.Log)

	leaves := effect.Flatten(e)
	require.Len(t, leaves, 2)
	assert.Equal(t, action("A-out"), leaves[0].Action())
	assert.Equal(t, action("B-out"), leaves[1].Action())
}

func TestZipSecondSeesFirst(t *testing.T) {
	var seen float64
	second := Funcs[*state, action, env]{
		Delta: func(s *state, _ float64, _ env) Fx {
			seen = s.Total
			return effect.None[*state, action]()
		},
	}
	r := Combine[*state, action, env](logging("A"), second)
	r.ReduceDelta(&state{}, 0.5, env{Scale: 1})
	assert.Equal(t, 0.5, seen)
}

func TestEraseAndDefaults(t *testing.T) {
	var empty Funcs[*state, action, env]
	assert.True(t, empty.ReduceDelta(&state{}, 1, env{}).IsNone())
	assert.True(t, empty.ReduceAction(&state{}, "a", env{}).IsNone())
	assert.True(t, empty.ReduceEntityEvent(&state{}, entity.AddedEvent("x"), env{}).IsNone())

	s := &state{}
	erased := Erase[*state, action, env](Throttle[*state, action, env](logging("T"), 0))
	erased.ReduceAction(s, "a", env{})
	assert.Equal(t, []string{"T:a"}, s.Log)
}

type onlyActions struct {
	NoEntityEvents[*state, action, env]
}

func (onlyActions) ReduceDelta(*state, float64, env) Fx { return effect.None[*state, action]() }
func (onlyActions) ReduceAction(s *state, a action, _ env) Fx {
	s.Log = append(s.Log, string(a))
	return effect.None[*state, action]()
}

func TestNoEntityEventsEmbedding(t *testing.T) {
	var r Reducer[*state, action, env] = onlyActions{}
	assert.True(t, r.ReduceEntityEvent(&state{}, entity.RemovedEvent("x"), env{}).IsNone())
}

func TestPullbackIdentityMatchesInner(t *testing.T) {
	scoped := Pullback[*state, action, env](logging("R"), Scope[*state, action, env, *state, action, env]{
		State:  lens.Identity[*state](),
		Action: lens.IdentityPrism[action](),
	})
	plain := logging("R")

	a, b := &state{}, &state{}
	run := func(r Reducer[*state, action, env], s *state) []Fx {
		return []Fx{
			r.ReduceDelta(s, 0.25, env{Scale: 2}),
			r.ReduceAction(s, "x", env{}),
			r.ReduceEntityEvent(s, entity.AddedEvent("e"), env{}),
			r.ReduceDelta(s, 0.5, env{Scale: 1}),
			r.ReduceAction(s, "y", env{}),
		}
	}
	ea := run(scoped, a)
	eb := run(plain, b)

	assert.Equal(t, b, a)
	require.Len(t, ea, len(eb))
	for i := range ea {
		assert.Equal(t, eb[i].Kind(), ea[i].Kind())
		assert.Equal(t, eb[i].Action(), ea[i].Action())
	}
}

type world struct {
	Sub   state
	Count int
}

type worldAction struct {
	Sub   action
	IsSub bool
}

type worldEnv struct {
	Sub env
}

func TestPullbackScopes(t *testing.T) {
	scoped := Pullback[*world, worldAction, worldEnv](logging("S"), Scope[*world, worldAction, worldEnv, *state, action, env]{
		State: lens.Of(func(w *world) *state { return &w.Sub }, nil),
		Action: lens.Prism[worldAction, action]{
			Extract: func(a worldAction) (action, bool) { return a.Sub, a.IsSub },
			Embed:   func(a action) worldAction { return worldAction{Sub: a, IsSub: true} },
		},
		Env: func(e worldEnv) env { return e.Sub },
	})

	w := &world{}
	e := scoped.ReduceAction(w, worldAction{Sub: "ignored"}, worldEnv{})
	assert.True(t, e.IsNone())
	assert.Empty(t, w.Sub.Log)

	e = scoped.ReduceAction(w, worldAction{Sub: "hit", IsSub: true}, worldEnv{})
	assert.Equal(t, []string{"S:hit"}, w.Sub.Log)
	assert.Equal(t, worldAction{Sub: "S-out", IsSub: true}, e.Action())

	scoped.ReduceDelta(w, 1, worldEnv{Sub: env{Scale: 3}})
	assert.Equal(t, "S:dt=3", w.Sub.Log[1])

	scoped.ReduceEntityEvent(w, entity.RemovedEvent("q"), worldEnv{})
	assert.Equal(t, "S:removed:q", w.Sub.Log[2])
}

func TestPullbackValueLens(t *testing.T) {
	counter := Funcs[int, action, env]{
		Action: func(n int, _ action, _ env) effect.Effect[int, action] {
			return effect.None[int, action]()
		},
		Delta: func(n int, _ float64, _ env) effect.Effect[int, action] {
			return effect.None[int, action]()
		},
	}
	// value locals are copied out and written back through Set
	r := Pullback[*world, worldAction, env](counter, Scope[*world, worldAction, env, int, action, env]{
		State: lens.Of(
			func(w *world) int { return w.Count + 1 },
			func(w *world, n int) { w.Count = n },
		),
		Action: lens.Prism[worldAction, action]{
			Extract: func(a worldAction) (action, bool) { return a.Sub, true },
			Embed:   func(a action) worldAction { return worldAction{Sub: a} },
		},
	})
	w := &world{}
	r.ReduceDelta(w, 1, env{})
	r.ReduceAction(w, worldAction{}, env{})
	assert.Equal(t, 2, w.Count)
}

func TestFilter(t *testing.T) {
	var sawAction []bool
	r := Filter[*state, action, env](logging("F"), func(s *state, a *action) bool {
		sawAction = append(sawAction, a != nil)
		return !s.Paused || (a != nil && *a == "resume")
	})

	s := &state{Paused: true}
	assert.True(t, r.ReduceDelta(s, 1, env{}).IsNone())
	assert.True(t, r.ReduceAction(s, "jump", env{}).IsNone())
	assert.False(t, r.ReduceAction(s, "resume", env{}).IsNone())
	r.ReduceEntityEvent(s, entity.AddedEvent("e"), env{})

	assert.Equal(t, []string{"F:resume", "F:added:e"}, s.Log)
	assert.Equal(t, []bool{false, true, true}, sawAction)
}

func TestThrottleAccumulates(t *testing.T) {
	var deltas []float64
	inner := Funcs[*state, action, env]{
		Delta: func(_ *state, dt float64, _ env) Fx {
			deltas = append(deltas, dt)
			return effect.None[*state, action]()
		},
		Action: func(s *state, a action, _ env) Fx {
			s.Log = append(s.Log, string(a))
			return effect.None[*state, action]()
		},
	}
	r := Throttle[*state, action, env](inner, 1.0)
	s := &state{}

	r.ReduceDelta(s, 0.4, env{})
	r.ReduceAction(s, "a", env{})
	r.ReduceDelta(s, 0.4, env{})
	assert.Empty(t, deltas)
	assert.InDelta(t, 0.8, r.Accumulated(), 1e-9)

	r.ReduceDelta(s, 0.4, env{})
	require.Len(t, deltas, 1)
	assert.InDelta(t, 1.2, deltas[0], 1e-9)
	assert.Zero(t, r.Accumulated())
	assert.Equal(t, []string{"a"}, s.Log)
}

func TestResending(t *testing.T) {
	r := Resending[*state, action, env](logging("R"), func(_ *state, a action) (action, bool) {
		if a == "fire" {
			return "reload", true
		}
		return "", false
	})

	leaves := effect.Flatten(r.ReduceAction(&state{}, "fire", env{}))
	require.Len(t, leaves, 2)
	assert.Equal(t, action("R-out"), leaves[0].Action())
	assert.Equal(t, action("reload"), leaves[1].Action())

	leaves = effect.Flatten(r.ReduceAction(&state{}, "walk", env{}))
	assert.Len(t, leaves, 1)
}
