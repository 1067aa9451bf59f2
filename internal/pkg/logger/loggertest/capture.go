// Package loggertest provides an in-memory logger.Emitter for tests.
package loggertest

import (
	"context"
	"sync"

	"github.com/V4T54L/leatherstore/internal/pkg/logger"
)

// Capture records every emitted event after request enrichment.
type Capture struct {
	mu     sync.Mutex
	events []logger.Event
}

func (c *Capture) Emit(ctx context.Context, e logger.Event) {
	e.Enrich(ctx)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
}

// Events returns a copy of everything captured so far.
func (c *Capture) Events() []logger.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]logger.Event(nil), c.events...)
}

// Channel returns the captured events routed to ch.
func (c *Capture) Channel(ch logger.Channel) []logger.Event {
	var out []logger.Event
	for _, e := range c.Events() {
		if e.Channel == ch {
			out = append(out, e)
		}
	}
	return out
}

// Reset discards captured events.
func (c *Capture) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = nil
}
