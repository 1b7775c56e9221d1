package store

import (
	"fmt"

	"github.com/zeusync/simcore/internal/core/component"
	"github.com/zeusync/simcore/internal/core/effect"
	"github.com/zeusync/simcore/internal/core/entity"
	"github.com/zeusync/simcore/internal/core/events/bus"
	"github.com/zeusync/simcore/internal/core/future"
	"github.com/zeusync/simcore/internal/core/observability/log"
)

type workKind uint8

const (
	workEffect workKind = iota
	workTick
	workDispatch
	workReduce
)

// work is one item of the interpretation stack. depth counts the dispatches
// that led to it.
type work[S, A any] struct {
	kind   workKind
	effect effect.Effect[S, A]
	action A
	dt     float64
	depth  int
}

// submit runs w to completion. Work submitted while a run is in progress,
// such as an already-resolved deferred effect or a call from a lifecycle
// handler, is queued and runs once the current stack is empty.
func (s *Store[S, A, E]) submit(w work[S, A]) error {
	if s.closed {
		return ErrClosed
	}
	if s.running {
		s.queued = append(s.queued, w)
		return nil
	}
	s.stack = append(s.stack, w)
	return s.drain()
}

func (s *Store[S, A, E]) drain() error {
	s.running = true
	defer func() {
		s.running = false
		if r := recover(); r != nil {
			s.reset()
			panic(r)
		}
	}()
	for !s.closed {
		if len(s.stack) == 0 {
			if len(s.queued) == 0 {
				return nil
			}
			s.stack = append(s.stack, s.queued[0])
			s.queued[0] = work[S, A]{}
			s.queued = s.queued[1:]
		}
		n := len(s.stack) - 1
		w := s.stack[n]
		s.stack[n] = work[S, A]{}
		s.stack = s.stack[:n]
		if err := s.step(w); err != nil {
			s.reset()
			return err
		}
	}
	return nil
}

// reset drops all outstanding work after an aborted run.
func (s *Store[S, A, E]) reset() {
	clear(s.stack)
	s.stack = s.stack[:0]
	s.queued = nil
}

// push queues effects so that they pop in argument order.
func (s *Store[S, A, E]) push(depth int, effects ...effect.Effect[S, A]) {
	for i := len(effects) - 1; i >= 0; i-- {
		if effects[i].IsNone() {
			continue
		}
		s.stack = append(s.stack, work[S, A]{kind: workEffect, effect: effects[i], depth: depth})
	}
}

func (s *Store[S, A, E]) step(w work[S, A]) error {
	switch w.kind {
	case workTick:
		s.stats.Ticks++
		s.push(w.depth, s.root.ReduceDelta(s.state, w.dt, s.env))
	case workDispatch:
		s.stats.Dispatches++
		fired := s.settle(w.action)
		s.stack = append(s.stack, work[S, A]{kind: workReduce, action: w.action, depth: w.depth})
		s.push(w.depth, fired...)
	case workReduce:
		s.push(w.depth, s.root.ReduceAction(s.state, w.action, s.env))
	case workEffect:
		return s.interpret(w.effect, w.depth)
	}
	return nil
}

func (s *Store[S, A, E]) interpret(e effect.Effect[S, A], depth int) error {
	switch e.Kind() {
	case effect.KindNone:
		return nil
	case effect.KindMany:
		s.push(depth, e.Effects()...)
		return nil
	}

	s.stats.Effects++
	switch e.Kind() {
	case effect.KindSystem:
		s.apply(e.System(), depth)
	case effect.KindGame:
		if depth >= s.maxDepth {
			err := fmt.Errorf("%w: limit %d reached dispatching %v", ErrDispatchDepth, s.maxDepth, e.Action())
			s.logger.Error("dispatch chain aborted", log.Int("depth", depth), log.Error(err))
			return err
		}
		s.stack = append(s.stack, work[S, A]{kind: workDispatch, action: e.Action(), depth: depth + 1})
	case effect.KindWaitFor:
		s.await(e.Pending().Clone(), depth)
	case effect.KindDeferred:
		s.subscribe(e.Future())
	}
	return nil
}

func (s *Store[S, A, E]) await(p *effect.Pending[S, A], depth int) {
	if p.Satisfied() {
		s.stats.PendingFired++
		s.push(depth, p.Then())
		return
	}
	s.pending = append(s.pending, p)
	if s.pendingWarn > 0 && len(s.pending) == s.pendingWarn {
		s.logger.Warn("pending effects piling up", log.Int("pending", len(s.pending)))
	}
}

// settle consumes action from every pending effect and returns the ones it
// satisfied, in registration order.
func (s *Store[S, A, E]) settle(action A) []effect.Effect[S, A] {
	if len(s.pending) == 0 {
		return nil
	}
	var fired []effect.Effect[S, A]
	kept := s.pending[:0]
	for _, p := range s.pending {
		if p.Consume(action) && p.Satisfied() {
			fired = append(fired, p.Then())
			continue
		}
		kept = append(kept, p)
	}
	clear(s.pending[len(kept):])
	s.pending = kept
	for range fired {
		s.stats.PendingFired++
		s.publish(bus.PendingFired, bus.PendingPayload{Remaining: len(s.pending)})
	}
	return fired
}

// subscribe waits on f without keeping the store alive. The resolution is
// handed to the executor and interpreted at the top level.
func (s *Store[S, A, E]) subscribe(f *future.Future[effect.Effect[S, A]]) {
	self, exec := s.self, s.executor
	f.OnComplete(func(e effect.Effect[S, A], err error) {
		exec(func() {
			if st := self.Value(); st != nil {
				st.resolve(e, err)
			}
		})
	})
}

func (s *Store[S, A, E]) resolve(e effect.Effect[S, A], err error) {
	switch {
	case s.closed:
		s.stats.DeferredDropped++
		s.logger.Debug("deferred effect dropped, store closed")
		return
	case err != nil:
		s.stats.DeferredDropped++
		s.logger.Warn("deferred effect failed", log.Error(err))
		return
	}
	s.stats.DeferredResolved++
	if err := s.submit(work[S, A]{kind: workEffect, effect: e}); err != nil {
		s.logger.Error("deferred effect aborted", log.Error(err))
	}
}

func (s *Store[S, A, E]) apply(se effect.SystemEffect[S], depth int) {
	repo := s.Entities()
	switch se.Op {
	case effect.OpAddEntity:
		must(repo.Add(entity.NewChild(se.Entity, se.Parent, se.Tags...)))
		ent, _ := repo.Lookup(se.Entity)
		s.logger.Debug("entity added", log.Stringer("entity", se.Entity), log.Strings("tags", ent.Tags))
		s.publish(bus.EntityAdded, bus.EntityPayload{ID: ent.ID, Parent: ent.Parent, Tags: ent.Tags})
		s.push(depth, s.root.ReduceEntityEvent(s.state, entity.AddedEvent(se.Entity), s.env))

	case effect.OpRemoveEntity:
		ent, ok := repo.Lookup(se.Entity)
		if !ok {
			s.logger.Warn("remove of unknown entity ignored", log.Stringer("entity", se.Entity))
			return
		}
		s.registry.RemoveAll(se.Entity, s.state)
		must(repo.Remove(se.Entity))
		s.logger.Debug("entity removed", log.Stringer("entity", se.Entity))
		s.publish(bus.EntityRemoved, bus.EntityPayload{ID: ent.ID, Parent: ent.Parent, Tags: ent.Tags})
		s.push(depth, s.root.ReduceEntityEvent(s.state, entity.RemovedEvent(se.Entity), s.env))

	case effect.OpMoveEntity:
		must(repo.Move(se.Entity, se.Parent))
		ent, _ := repo.Lookup(se.Entity)
		s.publish(bus.EntityMoved, bus.EntityPayload{ID: ent.ID, Parent: ent.Parent, Tags: ent.Tags})

	case effect.OpAddComponent:
		typ := se.Component.ID()
		if !s.registry.Has(typ) {
			fail("%w: %q on %s", component.ErrUnregisteredType, typ, se.Entity)
		}
		if !repo.Has(se.Entity) {
			fail("%w: component %q on %s", entity.ErrUnknownEntity, typ, se.Entity)
		}
		se.Component.InsertFor(se.Entity, s.state)
		s.publish(bus.ComponentAdded, bus.ComponentPayload{Entity: se.Entity, Type: typ})

	case effect.OpRemoveComponent:
		reg, ok := s.registry.Lookup(se.Type)
		if !ok {
			fail("%w: %q on %s", component.ErrUnregisteredType, se.Type, se.Entity)
		}
		reg.RemoveFor(se.Entity, s.state)
		s.publish(bus.ComponentRemoved, bus.ComponentPayload{Entity: se.Entity, Type: se.Type})

	default:
		fail("store: unknown system op %v", se.Op)
	}
}

func (s *Store[S, A, E]) publish(typ string, payload any) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(bus.NewEvent(typ, "store", payload)); err != nil {
		s.logger.Warn("lifecycle handler failed", log.String("event", typ), log.Error(err))
	}
}
