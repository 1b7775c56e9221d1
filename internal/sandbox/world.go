// Package sandbox is a small particle simulation built on the core: a
// spawner, a throttled and pausable integrator scoped to kinematic
// components, waves that wait for their particles to escape, and sprites
// loaded asynchronously.
package sandbox

import (
	"fmt"

	"github.com/zeusync/simcore/internal/core/component"
	"github.com/zeusync/simcore/internal/core/entity"
	"github.com/zeusync/simcore/internal/core/lens"
)

type Position struct{ X, Y float64 }

type Velocity struct{ DX, DY float64 }

type Sprite struct {
	Name   string
	Frames int
}

// ParticleTag marks every spawned particle.
const ParticleTag = "particle"

type World struct {
	Entities   *entity.Repository
	Positions  component.Map[Position]
	Velocities component.Map[Velocity]
	Sprites    component.Map[Sprite]

	Paused  bool
	Respawn bool
	// Spawned is the serial used for generated particle ids.
	Spawned int
	Live    int
	Waves   int
	Elapsed float64
	// MissingAssets counts sprite loads that failed.
	MissingAssets int
}

func NewWorld() *World {
	return &World{Entities: entity.NewRepository()}
}

func (w *World) nextID() entity.ID {
	w.Spawned++
	return entity.ID(fmt.Sprintf("p%d", w.Spawned))
}

func repository(w *World) *entity.Repository { return w.Entities }

func positions() lens.Lens[*World, component.Map[Position]] {
	return lens.Of(
		func(w *World) component.Map[Position] { return w.Positions },
		func(w *World, m component.Map[Position]) { w.Positions = m },
	)
}

func velocities() lens.Lens[*World, component.Map[Velocity]] {
	return lens.Of(
		func(w *World) component.Map[Velocity] { return w.Velocities },
		func(w *World, m component.Map[Velocity]) { w.Velocities = m },
	)
}

func sprites() lens.Lens[*World, component.Map[Sprite]] {
	return lens.Of(
		func(w *World) component.Map[Sprite] { return w.Sprites },
		func(w *World, m component.Map[Sprite]) { w.Sprites = m },
	)
}

// Components lists the component types a World carries.
func Components() []component.Registered[*World] {
	return []component.Registered[*World]{
		component.Register(positions()),
		component.Register(velocities()),
		component.Register(sprites()),
	}
}

type ActionKind uint8

const (
	Spawn ActionKind = iota + 1
	Despawn
	Pause
	Resume
	Impulse
	AssetLoaded
	AssetFailed
	Wave
	WaveCleared
)

func (k ActionKind) String() string {
	switch k {
	case Spawn:
		return "spawn"
	case Despawn:
		return "despawn"
	case Pause:
		return "pause"
	case Resume:
		return "resume"
	case Impulse:
		return "impulse"
	case AssetLoaded:
		return "asset_loaded"
	case AssetFailed:
		return "asset_failed"
	case Wave:
		return "wave"
	case WaveCleared:
		return "wave_cleared"
	default:
		return fmt.Sprintf("action(%d)", uint8(k))
	}
}

// Action is comparable so that waves can wait for exact despawns.
type Action struct {
	Kind     ActionKind
	ID       entity.ID
	Position Position
	Velocity Velocity
	Asset    string
	Count    int
}

func (a Action) String() string {
	if a.ID == "" {
		return a.Kind.String()
	}
	return a.Kind.String() + ":" + string(a.ID)
}
