package future

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Map transforms a successful value; failures pass through.
func Map[T, R any](f *Future[T], fn func(T) R) *Future[R] {
	out, p := New[R]()
	f.OnComplete(func(v T, err error) {
		if err != nil {
			_ = p.Reject(err)
			return
		}
		_ = p.Resolve(fn(v))
	})
	return out
}

// FlatMap chains a second asynchronous step after a successful value.
func FlatMap[T, R any](f *Future[T], fn func(T) *Future[R]) *Future[R] {
	out, p := New[R]()
	f.OnComplete(func(v T, err error) {
		if err != nil {
			_ = p.Reject(err)
			return
		}
		fn(v).OnComplete(func(r R, err error) {
			_ = p.Complete(r, err)
		})
	})
	return out
}

// Recover turns a failure into a value.
func Recover[T any](f *Future[T], fn func(error) T) *Future[T] {
	out, p := New[T]()
	f.OnComplete(func(v T, err error) {
		if err != nil {
			v = fn(err)
		}
		_ = p.Resolve(v)
	})
	return out
}

// Zip resolves with every value in input order once all inputs succeed.
// The first failure wins; later outcomes are ignored.
func Zip[T any](fs ...*Future[T]) *Future[[]T] {
	out, p := New[[]T]()
	if len(fs) == 0 {
		_ = p.Resolve([]T{})
		return out
	}

	var (
		mu        sync.Mutex
		values    = make([]T, len(fs))
		remaining = len(fs)
		failed    bool
	)
	for i, f := range fs {
		f.OnComplete(func(v T, err error) {
			mu.Lock()
			if failed {
				mu.Unlock()
				return
			}
			if err != nil {
				failed = true
				mu.Unlock()
				_ = p.Reject(err)
				return
			}
			values[i] = v
			remaining--
			last := remaining == 0
			mu.Unlock()
			if last {
				_ = p.Resolve(values)
			}
		})
	}
	return out
}

// Async runs fn on its own goroutine.
func Async[T any](ctx context.Context, fn func(context.Context) (T, error)) *Future[T] {
	out, p := New[T]()
	go func() {
		_ = p.Complete(fn(ctx))
	}()
	return out
}

// Collect runs every loader with at most limit in flight (limit <= 0 means
// unbounded) and resolves with the results in input order. The first error
// cancels the context handed to the remaining loaders.
func Collect[T any](ctx context.Context, limit int, loaders ...func(context.Context) (T, error)) *Future[[]T] {
	out, p := New[[]T]()
	go func() {
		g, gctx := errgroup.WithContext(ctx)
		if limit > 0 {
			g.SetLimit(limit)
		}
		values := make([]T, len(loaders))
		for i, load := range loaders {
			g.Go(func() error {
				v, err := load(gctx)
				if err != nil {
					return err
				}
				values[i] = v
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			_ = p.Reject(err)
			return
		}
		_ = p.Resolve(values)
	}()
	return out
}
