package ybengine

import (
	"context"
	"fmt"
)

type task struct {
	ctx  context.Context
	fn   func(context.Context) error
	done chan error
}

// runWorker is the engine's background loop. Each accepted task runs in its
// own goroutine so independent callers overlap; the pool bounds how many of
// them hold a connection at once.
func (e *Engine) runWorker() {
	defer close(e.stopped)
	for {
		select {
		case <-e.shutdown:
			return
		case t := <-e.tasks:
			e.inflight.Add(1)
			go func() {
				defer e.inflight.Done()
				t.done <- e.execute(t)
			}()
		}
	}
}

func (e *Engine) execute(t task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("ybengine: operation panicked: %v", r)
		}
	}()
	if err := t.ctx.Err(); err != nil {
		return err
	}
	return t.fn(t.ctx)
}

func (e *Engine) submit(ctx context.Context, fn func(context.Context) error) (<-chan error, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.closed.Load() {
		return nil, ErrEngineClosed
	}

	done := make(chan error, 1)
	select {
	case e.tasks <- task{ctx: ctx, fn: fn, done: done}:
		return done, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// RunSync drives fn to completion on the engine's background worker and
// blocks until it finishes. It is the entry point for callers that do not
// manage their own goroutines.
func (e *Engine) RunSync(ctx context.Context, fn func(context.Context) error) error {
	done, err := e.submit(ctx, fn)
	if err != nil {
		return err
	}
	return <-done
}

// RunAsync schedules fn on the background worker and returns a channel that
// receives its result exactly once.
func (e *Engine) RunAsync(ctx context.Context, fn func(context.Context) error) <-chan error {
	done, err := e.submit(ctx, fn)
	if err != nil {
		failed := make(chan error, 1)
		failed <- err
		return failed
	}
	return done
}
