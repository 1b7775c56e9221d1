// Package store owns one simulation state and its environment, drives it with
// time deltas and domain actions through a root reducer, and interprets the
// resulting effects.
//
// A Store is single-threaded by contract: every call, and every deferred
// resolution handed to Config.Executor, must happen on one owner goroutine.
// Interpretation is depth first and left to right, driven by an explicit
// work stack rather than recursion. Nested dispatches are bounded by
// Config.MaxDepth.
package store

import (
	"errors"
	"fmt"
	"weak"

	"github.com/zeusync/simcore/internal/core/component"
	"github.com/zeusync/simcore/internal/core/effect"
	"github.com/zeusync/simcore/internal/core/entity"
	"github.com/zeusync/simcore/internal/core/events/bus"
	"github.com/zeusync/simcore/internal/core/observability/log"
	"github.com/zeusync/simcore/internal/core/reducer"
	"github.com/zeusync/simcore/pkg/encoding"
)

var (
	ErrDispatchDepth   = errors.New("store: dispatch depth exceeded")
	ErrSnapshotVersion = errors.New("store: unsupported snapshot version")
	ErrSnapshotSchema  = errors.New("store: snapshot component schema mismatch")
	ErrSnapshotState   = errors.New("store: snapshot state has no entity repository")
	ErrClosed          = errors.New("store: closed")
)

// Stats are monotonically increasing counters, except Pending.
type Stats struct {
	Ticks            uint64
	Dispatches       uint64
	Effects          uint64
	PendingFired     uint64
	DeferredResolved uint64
	DeferredDropped  uint64
	Pending          int
}

type Store[S, A, E any] struct {
	state    S
	env      E
	root     reducer.Reducer[S, A, E]
	entities func(S) *entity.Repository
	registry *component.Registry[S]

	codec       encoding.Codec
	logger      log.Log
	events      bus.Bus
	maxDepth    int
	pendingWarn int
	executor    func(func())

	pending []*effect.Pending[S, A]
	stack   []work[S, A]
	queued  []work[S, A]
	running bool
	closed  bool
	stats   Stats
	self    weak.Pointer[Store[S, A, E]]
}

// New builds a store around state. Missing required wiring panics.
func New[S, A, E any](state S, cfg Config[S, A, E]) *Store[S, A, E] {
	if cfg.Reducer == nil {
		panic("store: nil reducer")
	}
	if cfg.Entities == nil {
		panic("store: nil entity lens")
	}
	if cfg.Entities(state) == nil {
		panic("store: state has no entity repository")
	}
	registry := component.NewRegistry(cfg.Components...)
	s := &Store[S, A, E]{
		state:       state,
		env:         cfg.Environment,
		root:        cfg.Reducer,
		entities:    cfg.Entities,
		registry:    registry,
		codec:       cfg.codec(),
		logger:      cfg.logger().With(log.String("component", "store")),
		events:      cfg.Events,
		maxDepth:    cfg.maxDepth(),
		pendingWarn: cfg.PendingWarnThreshold,
		executor:    cfg.executor(),
	}
	s.self = weak.Make(s)
	return s
}

func (s *Store[S, A, E]) State() S                         { return s.state }
func (s *Store[S, A, E]) Environment() E                   { return s.env }
func (s *Store[S, A, E]) Entities() *entity.Repository     { return s.entities(s.state) }
func (s *Store[S, A, E]) Registry() *component.Registry[S] { return s.registry }
func (s *Store[S, A, E]) PendingCount() int                { return len(s.pending) }
func (s *Store[S, A, E]) Closed() bool                     { return s.closed }
func (s *Store[S, A, E]) Stats() Stats {
	st := s.stats
	st.Pending = len(s.pending)
	return st
}

// Tick runs the root reducer's delta reduction and interprets its effect.
func (s *Store[S, A, E]) Tick(dt float64) error {
	return s.submit(work[S, A]{kind: workTick, dt: dt})
}

// Dispatch first settles pending effects waiting on action, interpreting
// any that become satisfied, then runs the root reducer on action.
func (s *Store[S, A, E]) Dispatch(action A) error {
	return s.submit(work[S, A]{kind: workDispatch, action: action, depth: 1})
}

// Interpret runs an arbitrary effect as if a reducer had returned it.
func (s *Store[S, A, E]) Interpret(e effect.Effect[S, A]) error {
	return s.submit(work[S, A]{kind: workEffect, effect: e})
}

func (s *Store[S, A, E]) AddEntity(id entity.ID, tags ...string) error {
	return s.Interpret(effect.AddEntity[S, A](id, tags...))
}

func (s *Store[S, A, E]) AddEntityUnder(id, parent entity.ID, tags ...string) error {
	return s.Interpret(effect.AddEntityUnder[S, A](id, parent, tags...))
}

func (s *Store[S, A, E]) RemoveEntity(id entity.ID) error {
	return s.Interpret(effect.RemoveEntity[S, A](id))
}

func (s *Store[S, A, E]) MoveEntity(id, parent entity.ID) error {
	return s.Interpret(effect.MoveEntity[S, A](id, parent))
}

func (s *Store[S, A, E]) AddComponent(id entity.ID, c component.Any[S]) error {
	return s.Interpret(effect.AddComponent[S, A](id, c))
}

func (s *Store[S, A, E]) RemoveComponent(id entity.ID, typ component.TypeID) error {
	return s.Interpret(effect.RemoveComponent[S, A](id, typ))
}

// Close drops queued work and pending effects. Deferred effects resolving
// afterwards are discarded.
func (s *Store[S, A, E]) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.reset()
	clear(s.pending)
	s.pending = nil
	s.logger.Debug("store closed", log.Uint64("ticks", s.stats.Ticks))
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

func fail(format string, args ...any) {
	panic(fmt.Errorf(format, args...))
}
