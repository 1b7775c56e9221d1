package store

import (
	"github.com/zeusync/simcore/internal/config"
	"github.com/zeusync/simcore/internal/core/component"
	"github.com/zeusync/simcore/internal/core/entity"
	"github.com/zeusync/simcore/internal/core/events/bus"
	"github.com/zeusync/simcore/internal/core/observability/log"
	"github.com/zeusync/simcore/internal/core/reducer"
	"github.com/zeusync/simcore/pkg/encoding"
)

// DefaultMaxDepth bounds nested dispatches when Config.MaxDepth is unset.
const DefaultMaxDepth = 64

// Config wires a Store. Reducer and Entities are required.
type Config[S, A, E any] struct {
	Reducer     reducer.Reducer[S, A, E]
	Environment E
	// Entities locates the entity repository inside the state.
	Entities func(S) *entity.Repository
	// Components lists every component type the state carries. Entity removal
	// cascades into exactly these.
	Components []component.Registered[S]

	// Codec encodes snapshots; gob when nil.
	Codec  encoding.Codec
	Logger log.Log
	// Events receives lifecycle notifications when set.
	Events bus.Bus

	// MaxDepth bounds chains of game effects; DefaultMaxDepth when <= 0.
	MaxDepth int
	// PendingWarnThreshold logs once each time this many waitFor effects are outstanding.
	PendingWarnThreshold int
	// Executor runs deferred resolutions. Futures may complete on any
	// goroutine; integrators hop back onto the store's owner here. Inline when nil.
	Executor func(func())
}

// Apply copies file configuration onto c.
func (c *Config[S, A, E]) Apply(cfg *config.Config) error {
	codec, err := encoding.Lookup(cfg.Snapshot.Codec)
	if err != nil {
		return err
	}
	c.Codec = codec
	c.MaxDepth = cfg.Store.MaxDispatchDepth
	c.PendingWarnThreshold = cfg.Store.PendingWarnThreshold
	return nil
}

func (c Config[S, A, E]) codec() encoding.Codec {
	if c.Codec == nil {
		return encoding.Gob
	}
	return c.Codec
}

func (c Config[S, A, E]) logger() log.Log {
	if c.Logger == nil {
		return log.Nop()
	}
	return c.Logger
}

func (c Config[S, A, E]) maxDepth() int {
	if c.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return c.MaxDepth
}

func (c Config[S, A, E]) executor() func(func()) {
	if c.Executor == nil {
		return func(fn func()) { fn() }
	}
	return c.Executor
}
