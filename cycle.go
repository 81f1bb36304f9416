package folio

import (
	"context"
	"sync"
)

// coalescer runs at most one cycle at a time. Requests arriving while a cycle
// runs share a single follow-up cycle, started once the running one is done,
// so that a result is never older than the request that asked for it.
type coalescer[T any] struct {
	run func(ctx context.Context) T

	mu      sync.Mutex
	running bool
	waiters []chan T
	latest  context.Context // context of the newest waiting request
}

// Do runs a cycle, or waits for the next one if a cycle is already running.
func (c *coalescer[T]) Do(ctx context.Context) (T, error) {
	c.mu.Lock()
	if c.running {
		ch := make(chan T, 1)
		c.waiters = append(c.waiters, ch)
		c.latest = ctx
		c.mu.Unlock()
		select {
		case v := <-ch:
			return v, nil
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		}
	}
	c.running = true
	c.mu.Unlock()

	v := c.run(ctx)
	c.next()
	if err := ctx.Err(); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// next releases the slot, or hands it to a follow-up cycle if requests queued up.
func (c *coalescer[T]) next() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.waiters) == 0 {
		c.running = false
		return
	}
	go c.drain()
}

func (c *coalescer[T]) drain() {
	for {
		c.mu.Lock()
		if len(c.waiters) == 0 {
			c.running = false
			c.mu.Unlock()
			return
		}
		waiters, ctx := c.waiters, c.latest
		c.waiters, c.latest = nil, nil
		c.mu.Unlock()

		// waiters may give up, the cycle must not.
		v := c.run(context.WithoutCancel(ctx))
		for _, w := range waiters {
			w <- v
		}
	}
}
