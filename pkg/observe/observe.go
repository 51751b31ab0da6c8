// Package observe carries the side channel of traced agents.
//
// A traced agent reports every transition it runs as an Event. Observers receive
// copies of the positions involved, so nothing an observer does can reach the
// agent's own state.
package observe

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aretw0/weave/pkg/poly"
)

// EventType defines the category of the event.
type EventType string

const (
	EventTransition EventType = "transition" // the transition ran and produced an output
	EventViolation  EventType = "violation"  // an input was outside directions(position)
	EventFailure    EventType = "failure"    // the transition returned an error
)

// Event describes one observed transition.
type Event struct {
	ID        string        `json:"id"`
	Timestamp time.Time     `json:"timestamp"`
	Type      EventType     `json:"type"`
	Agent     string        `json:"agent"`
	Before    poly.Position `json:"-"`
	After     poly.Position `json:"-"`
	Input     any           `json:"input,omitempty"`
	Output    any           `json:"output,omitempty"`
	Err       error         `json:"-"`
	Duration  time.Duration `json:"duration"`
}

// Classify maps a transition error to its event type.
func Classify(err error) EventType {
	switch {
	case err == nil:
		return EventTransition
	case errors.Is(err, poly.ErrDirectionViolation):
		return EventViolation
	default:
		return EventFailure
	}
}

// Observer receives trace events.
type Observer interface {
	Observe(ctx context.Context, e Event)
}

// Func adapts a function to Observer.
type Func func(ctx context.Context, e Event)

// Observe implements Observer.
func (f Func) Observe(ctx context.Context, e Event) { f(ctx, e) }

// Multi fans events out to every observer, in order.
func Multi(observers ...Observer) Observer {
	return Func(func(ctx context.Context, e Event) {
		for _, o := range observers {
			o.Observe(ctx, e)
		}
	})
}

// Nop discards events.
func Nop() Observer { return Func(func(context.Context, Event) {}) }

// Channel delivers events on a buffered channel. Sends never block: when the
// buffer is full the event is dropped and counted, so a slow consumer cannot
// stall the agent it watches.
type Channel struct {
	ch      chan Event
	dropped atomic.Uint64
	mu      sync.RWMutex
	closed  bool
}

// NewChannel creates a channel observer with the given buffer size.
func NewChannel(buffer int) *Channel {
	return &Channel{ch: make(chan Event, buffer)}
}

// Observe implements Observer.
func (c *Channel) Observe(_ context.Context, e Event) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		c.dropped.Add(1)
		return
	}
	select {
	case c.ch <- e:
	default:
		c.dropped.Add(1)
	}
}

// Events returns the receive side.
func (c *Channel) Events() <-chan Event { return c.ch }

// Dropped returns how many events did not fit in the buffer.
func (c *Channel) Dropped() uint64 { return c.dropped.Load() }

// Close closes the event channel. Later events are counted as dropped.
func (c *Channel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.ch)
	}
}
