// Package resize redraws an engine when its host element changes size.
//
// A Coordinator watches one host through a platform Observer and turns every
// notification batch into a debounced redraw of whatever engine is current at
// the time the redraw fires.
package resize

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/recera/visgraph/pkg/debounce"
	"github.com/recera/visgraph/pkg/engine"
	"github.com/recera/visgraph/pkg/logging"
)

const (
	DefaultWait    = 30 * time.Millisecond
	DefaultMaxWait = 60 * time.Millisecond
)

// Entry reports the new content size of an observed element.
type Entry struct {
	Target engine.Element
	Width  float64
	Height float64
}

// Callback receives one batch of size notifications.
type Callback func([]Entry)

// Observer is the platform size-observation primitive.
type Observer interface {
	Observe(el engine.Element)
	Unobserve(el engine.Element)
	Disconnect()
}

// ObserverFactory builds an observer delivering batches to cb.
type ObserverFactory func(cb Callback) Observer

// Redrawer is the part of an engine the coordinator needs.
type Redrawer interface {
	Redraw()
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithWait overrides the debounce window.
func WithWait(wait, maxWait time.Duration) Option {
	return func(c *Coordinator) {
		c.wait, c.maxWait = wait, maxWait
	}
}

// WithRedrawHook calls fn after every redraw the coordinator issues.
func WithRedrawHook(fn func()) Option {
	return func(c *Coordinator) { c.onRedraw = fn }
}

// Coordinator owns one observer and one debounced redraw.
type Coordinator struct {
	target   func() Redrawer
	wait     time.Duration
	maxWait  time.Duration
	onRedraw func()
	log      *log.Logger

	mu     sync.Mutex
	obs    Observer
	host   engine.Element
	closed bool
	redraw *debounce.Debouncer
}

// NewCoordinator creates a coordinator. target is consulted each time a
// redraw fires and may return nil while no engine exists.
func NewCoordinator(newObserver ObserverFactory, target func() Redrawer, opts ...Option) *Coordinator {
	c := &Coordinator{
		target:  target,
		wait:    DefaultWait,
		maxWait: DefaultMaxWait,
		log:     logging.For("resize"),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.redraw = debounce.New(c.fire, c.wait, c.maxWait)
	c.obs = newObserver(c.notify)
	return c
}

// SetHost moves observation to el. Passing nil stops observing. Any redraw
// pending for the previous host is dropped.
func (c *Coordinator) SetHost(el engine.Element) {
	c.mu.Lock()
	if c.closed || sameElement(c.host, el) {
		c.mu.Unlock()
		return
	}
	prev := c.host
	c.host = el
	obs := c.obs
	c.mu.Unlock()

	c.redraw.Cancel()
	if prev != nil {
		obs.Unobserve(prev)
	}
	if el != nil {
		obs.Observe(el)
		c.log.Debug("observing", "host", el.ID())
	}
}

// Host returns the observed element, or nil.
func (c *Coordinator) Host() engine.Element {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.host
}

// Close disconnects the observer and cancels any pending redraw, waiting for
// one already in progress. Further notifications are ignored.
func (c *Coordinator) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.host = nil
	obs := c.obs
	c.mu.Unlock()

	c.redraw.Stop()
	obs.Disconnect()
}

func (c *Coordinator) notify(entries []Entry) {
	c.mu.Lock()
	skip := c.closed || c.host == nil
	c.mu.Unlock()
	if skip || len(entries) == 0 {
		return
	}
	c.redraw.Trigger()
}

func (c *Coordinator) fire() {
	c.mu.Lock()
	skip := c.closed || c.host == nil
	c.mu.Unlock()
	if skip {
		return
	}
	r := c.target()
	if r == nil {
		return
	}
	r.Redraw()
	if c.onRedraw != nil {
		c.onRedraw()
	}
}

// sameElement compares by Same when the element offers it, by ID otherwise.
func sameElement(a, b engine.Element) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if s, ok := a.(interface{ Same(engine.Element) bool }); ok {
		return s.Same(b)
	}
	return a.ID() == b.ID()
}
