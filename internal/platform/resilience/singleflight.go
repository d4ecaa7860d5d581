package resilience

import (
	"context"
	"sync"
)

// SingleFlight deduplicates concurrent calls for the same key.
// Callers that join an in-flight call receive its result and shared=true.
type SingleFlight[T any] struct {
	mu    sync.Mutex
	calls map[string]*call[T]
}

type call[T any] struct {
	done chan struct{}
	val  T
	err  error
	dups int

	// waiting counts DoContext callers whose context is still live.
	waiting int
	cancel  context.CancelFunc
}

func (g *SingleFlight[T]) Do(key string, fn func() (T, error)) (T, error, bool) {
	g.mu.Lock()
	if g.calls == nil {
		g.calls = make(map[string]*call[T])
	}

	if c, ok := g.calls[key]; ok {
		c.dups++
		g.mu.Unlock()
		<-c.done
		return c.val, c.err, true
	}

	c := &call[T]{done: make(chan struct{})}
	g.calls[key] = c
	g.mu.Unlock()

	g.run(key, c, fn)

	g.mu.Lock()
	shared := c.dups > 0
	g.mu.Unlock()
	return c.val, c.err, shared
}

// DoContext is Do for work that takes a context. fn receives a context that
// carries the first caller's values but is canceled only once every caller
// waiting on key has had its own context canceled. A joining caller whose
// context ends returns ctx.Err() without waiting for the shared result.
func (g *SingleFlight[T]) DoContext(ctx context.Context, key string, fn func(context.Context) (T, error)) (T, error, bool) {
	g.mu.Lock()
	if g.calls == nil {
		g.calls = make(map[string]*call[T])
	}

	if c, ok := g.calls[key]; ok {
		c.dups++
		c.waiting++
		g.mu.Unlock()

		stop := context.AfterFunc(ctx, func() { g.release(c) })
		defer stop()

		select {
		case <-c.done:
			return c.val, c.err, true
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err(), true
		}
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	c := &call[T]{done: make(chan struct{}), waiting: 1, cancel: cancel}
	g.calls[key] = c
	g.mu.Unlock()

	stop := func() bool { return false }
	if ctx.Err() != nil {
		g.release(c)
	} else {
		stop = context.AfterFunc(ctx, func() { g.release(c) })
	}

	g.run(key, c, func() (T, error) {
		defer cancel()
		defer stop()
		return fn(runCtx)
	})

	g.mu.Lock()
	shared := c.dups > 0
	g.mu.Unlock()
	return c.val, c.err, shared
}

func (g *SingleFlight[T]) run(key string, c *call[T], fn func() (T, error)) {
	defer func() {
		g.mu.Lock()
		delete(g.calls, key)
		g.mu.Unlock()
		close(c.done)
	}()
	c.val, c.err = fn()
}

func (g *SingleFlight[T]) release(c *call[T]) {
	g.mu.Lock()
	c.waiting--
	last := c.waiting == 0
	g.mu.Unlock()
	if last && c.cancel != nil {
		c.cancel()
	}
}

// InFlight reports whether a call for key is currently running.
func (g *SingleFlight[T]) InFlight(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.calls[key]
	return ok
}

func (g *SingleFlight[T]) waiters(key string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	if c, ok := g.calls[key]; ok {
		return c.waiting
	}
	return 0
}
