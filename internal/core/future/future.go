// Package future implements a single-fire asynchronous value used to bring
// long-running work (asset loads and the like) back into the effect channel.
//
// A Future completes exactly once, either with a value or with an error.
// Callbacks registered before completion run on the goroutine that completes
// the Promise; callbacks registered afterwards run immediately on the caller's
// goroutine. Callers that need a specific goroutine must hop themselves.
package future

import (
	"context"
	"errors"
	"sync"
)

var ErrAlreadyCompleted = errors.New("future: already completed")

type result[T any] struct {
	value T
	err   error
}

// Future is the read side of a single-fire value.
type Future[T any] struct {
	mu        sync.Mutex
	done      chan struct{}
	res       *result[T]
	callbacks []func(T, error)
}

// Promise is the write side of a Future.
type Promise[T any] struct {
	f *Future[T]
}

// New returns a pending Future and the Promise that completes it.
func New[T any]() (*Future[T], *Promise[T]) {
	f := &Future[T]{done: make(chan struct{})}
	return f, &Promise[T]{f: f}
}

// Resolved returns a Future already completed with v.
func Resolved[T any](v T) *Future[T] {
	f, p := New[T]()
	_ = p.Resolve(v)
	return f
}

// Failed returns a Future already completed with err.
func Failed[T any](err error) *Future[T] {
	f, p := New[T]()
	_ = p.Reject(err)
	return f
}

func (p *Promise[T]) Future() *Future[T] { return p.f }

// Resolve completes the future with v. Completing twice returns
// ErrAlreadyCompleted and leaves the first outcome in place.
func (p *Promise[T]) Resolve(v T) error {
	return p.f.complete(result[T]{value: v})
}

// Reject completes the future with err.
func (p *Promise[T]) Reject(err error) error {
	if err == nil {
		err = errors.New("future: rejected with nil error")
	}
	return p.f.complete(result[T]{err: err})
}

// Complete forwards a (value, error) pair.
func (p *Promise[T]) Complete(v T, err error) error {
	if err != nil {
		return p.Reject(err)
	}
	return p.Resolve(v)
}

func (f *Future[T]) complete(r result[T]) error {
	f.mu.Lock()
	if f.res != nil {
		f.mu.Unlock()
		return ErrAlreadyCompleted
	}
	f.res = &r
	callbacks := f.callbacks
	f.callbacks = nil
	close(f.done)
	f.mu.Unlock()

	for _, cb := range callbacks {
		cb(r.value, r.err)
	}
	return nil
}

// OnComplete registers fn to receive the outcome.
func (f *Future[T]) OnComplete(fn func(T, error)) {
	f.mu.Lock()
	if f.res == nil {
		f.callbacks = append(f.callbacks, fn)
		f.mu.Unlock()
		return
	}
	r := *f.res
	f.mu.Unlock()
	fn(r.value, r.err)
}

func (f *Future[T]) OnSuccess(fn func(T)) {
	f.OnComplete(func(v T, err error) {
		if err == nil {
			fn(v)
		}
	})
}

func (f *Future[T]) OnFailure(fn func(error)) {
	f.OnComplete(func(_ T, err error) {
		if err != nil {
			fn(err)
		}
	})
}

// Done is closed once the future completes.
func (f *Future[T]) Done() <-chan struct{} { return f.done }

// Ready reports whether the future has completed.
func (f *Future[T]) Ready() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.res != nil
}

func (f *Future[T]) outcome() (T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.res.value, f.res.err
}

// Await blocks until completion or until ctx is done.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.outcome()
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
