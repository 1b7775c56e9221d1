package sandbox

import (
	"context"
	"maps"
	"math"
	"slices"

	"github.com/zeusync/simcore/internal/core/component"
	"github.com/zeusync/simcore/internal/core/effect"
	"github.com/zeusync/simcore/internal/core/entity"
	"github.com/zeusync/simcore/internal/core/future"
	"github.com/zeusync/simcore/internal/core/lens"
	"github.com/zeusync/simcore/internal/core/reducer"
)

type Env struct {
	Context context.Context
	Assets  AssetLoader
	// Asset is the sprite requested for particles spawned without one.
	Asset string
	// Bounds is the half-width of the square particles may occupy.
	Bounds float64
}

func (e Env) ctx() context.Context {
	if e.Context == nil {
		return context.Background()
	}
	return e.Context
}

type Fx = effect.Effect[*World, Action]

func none() Fx { return effect.None[*World, Action]() }

// Reducer assembles the sandbox root reducer. The integrator runs at most
// once per throttle seconds of simulated time and not at all while paused.
func Reducer(throttle float64) reducer.Reducer[*World, Action, Env] {
	integrator := reducer.Filter[*World, Action, Env](
		reducer.Throttle(reducer.Pullback[*World, Action, Env, *Kinematics, physicsAction, physicsEnv](physics{}, kinematicsScope()), throttle),
		func(w *World, _ *Action) bool { return !w.Paused },
	)
	return reducer.Combine(
		reducer.Resending[*World, Action, Env](spawner(), respawn),
		integrator,
	)
}

func spawner() reducer.Funcs[*World, Action, Env] {
	return reducer.Funcs[*World, Action, Env]{
		Action:      reduceSpawner,
		EntityEvent: countLive,
	}
}

func reduceSpawner(w *World, a Action, env Env) Fx {
	switch a.Kind {
	case Spawn:
		id := a.ID
		if id == "" {
			id = w.nextID()
		}
		return spawn(id, a, env)

	case Despawn:
		if !w.Entities.Has(a.ID) {
			return none()
		}
		return effect.RemoveEntity[*World, Action](a.ID)

	case Wave:
		return wave(w, a)

	case WaveCleared:
		w.Waves++

	case AssetLoaded:
		if !w.Entities.Has(a.ID) {
			return none()
		}
		return effect.AddComponent[*World, Action](a.ID, component.Wrap(sprites(), Sprite{Name: a.Asset, Frames: a.Count}))

	case AssetFailed:
		w.MissingAssets++

	case Pause:
		w.Paused = true

	case Resume:
		w.Paused = false
	}
	return none()
}

func spawn(id entity.ID, a Action, env Env) Fx {
	asset := a.Asset
	if asset == "" {
		asset = env.Asset
	}
	return effect.Many(
		effect.AddEntity[*World, Action](id, ParticleTag),
		effect.AddComponent[*World, Action](id, component.Wrap(positions(), a.Position)),
		effect.AddComponent[*World, Action](id, component.Wrap(velocities(), a.Velocity)),
		loadSprite(id, asset, env),
	)
}

// wave spawns Count particles spread evenly around Position and reports
// WaveCleared once every one of them has been despawned.
func wave(w *World, a Action) Fx {
	if a.Count <= 0 {
		return none()
	}
	speed := math.Hypot(a.Velocity.DX, a.Velocity.DY)
	if speed == 0 {
		speed = 1
	}
	spawns := make([]Fx, 0, a.Count+1)
	despawns := make([]Action, 0, a.Count)
	for i := range a.Count {
		id := w.nextID()
		angle := 2 * math.Pi * float64(i) / float64(a.Count)
		spawns = append(spawns, effect.Game[*World](Action{
			Kind:     Spawn,
			ID:       id,
			Position: a.Position,
			Velocity: Velocity{DX: speed * math.Cos(angle), DY: speed * math.Sin(angle)},
			Asset:    a.Asset,
		}))
		despawns = append(despawns, Action{Kind: Despawn, ID: id})
	}
	cleared := effect.WaitFor(effect.Game[*World](Action{Kind: WaveCleared}), despawns...)
	return effect.Many(append(spawns, cleared)...)
}

func loadSprite(id entity.ID, name string, env Env) Fx {
	if env.Assets == nil || name == "" {
		return none()
	}
	loaded := future.Async(env.ctx(), func(ctx context.Context) (Sprite, error) {
		return env.Assets.Load(ctx, name)
	})
	resolved := future.Map(loaded, func(s Sprite) Fx {
		return effect.Game[*World](Action{Kind: AssetLoaded, ID: id, Asset: s.Name, Count: s.Frames})
	})
	return effect.Deferred(future.Recover(resolved, func(error) Fx {
		return effect.Game[*World](Action{Kind: AssetFailed, ID: id, Asset: name})
	}))
}

func countLive(w *World, ev entity.Event, _ Env) Fx {
	switch ev.Kind {
	case entity.Added:
		w.Live++
	case entity.Removed:
		w.Live--
	}
	return none()
}

func respawn(w *World, a Action) (Action, bool) {
	if !w.Respawn || a.Kind != Despawn || !w.Entities.Has(a.ID) {
		return Action{}, false
	}
	return Action{Kind: Spawn}, true
}

// Kinematics is the integrator's view of a World.
type Kinematics struct {
	Positions  component.Map[Position]
	Velocities component.Map[Velocity]
	Elapsed    float64
}

type physicsKind uint8

const (
	push physicsKind = iota + 1
	escaped
)

type physicsAction struct {
	kind   physicsKind
	id     entity.ID
	dx, dy float64
}

type physicsEnv struct{ bounds float64 }

func kinematicsScope() reducer.Scope[*World, Action, Env, *Kinematics, physicsAction, physicsEnv] {
	return reducer.Scope[*World, Action, Env, *Kinematics, physicsAction, physicsEnv]{
		State: lens.Of(
			func(w *World) *Kinematics {
				return &Kinematics{Positions: w.Positions, Velocities: w.Velocities, Elapsed: w.Elapsed}
			},
			func(w *World, k *Kinematics) {
				w.Positions, w.Velocities, w.Elapsed = k.Positions, k.Velocities, k.Elapsed
			},
		),
		Action: lens.Prism[Action, physicsAction]{
			Extract: func(a Action) (physicsAction, bool) {
				if a.Kind != Impulse {
					return physicsAction{}, false
				}
				return physicsAction{kind: push, id: a.ID, dx: a.Velocity.DX, dy: a.Velocity.DY}, true
			},
			Embed: func(p physicsAction) Action {
				if p.kind == escaped {
					return Action{Kind: Despawn, ID: p.id}
				}
				return Action{Kind: Impulse, ID: p.id, Velocity: Velocity{DX: p.dx, DY: p.dy}}
			},
		},
		Env: func(e Env) physicsEnv { return physicsEnv{bounds: e.Bounds} },
	}
}

type physics struct {
	reducer.NoEntityEvents[*Kinematics, physicsAction, physicsEnv]
}

func (physics) ReduceDelta(k *Kinematics, dt float64, env physicsEnv) effect.Effect[*Kinematics, physicsAction] {
	k.Elapsed += dt
	var out []effect.Effect[*Kinematics, physicsAction]
	for _, id := range slices.Sorted(maps.Keys(k.Velocities)) {
		if !k.Positions.Has(id) {
			continue
		}
		v := k.Velocities[id]
		k.Positions.Mutate(id, func(p *Position) {
			p.X += v.DX * dt
			p.Y += v.DY * dt
		})
		if p := k.Positions[id]; env.bounds > 0 && (math.Abs(p.X) > env.bounds || math.Abs(p.Y) > env.bounds) {
			out = append(out, effect.Game[*Kinematics](physicsAction{kind: escaped, id: id}))
		}
	}
	return effect.Many(out...)
}

func (physics) ReduceAction(k *Kinematics, a physicsAction, _ physicsEnv) effect.Effect[*Kinematics, physicsAction] {
	if a.kind == push && k.Velocities.Has(a.id) {
		k.Velocities.Mutate(a.id, func(v *Velocity) {
			v.DX += a.dx
			v.DY += a.dy
		})
	}
	return effect.None[*Kinematics, physicsAction]()
}
