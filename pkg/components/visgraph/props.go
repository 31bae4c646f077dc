package visgraph

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/recera/visgraph/pkg/engine"
	"github.com/recera/visgraph/pkg/graph"
	"github.com/recera/visgraph/pkg/options"
	"github.com/recera/visgraph/pkg/resize"
)

// Props are the declarative inputs of a graph component.
//
// Options and Events are compared by reference between updates: pass the same
// map to leave the engine alone, a new one to re-apply it. Graph is compared
// by value.
type Props struct {
	Graph   graph.Data
	Options options.Options
	Events  engine.Events
	// ZoomKey, when set, requires the modifier for scroll-to-zoom.
	ZoomKey engine.ZoomKey

	// Container attributes.
	ID    string
	Style string
	Class string
	Attrs map[string]any

	// NetworkRef receives the engine after mount and nil after unmount.
	NetworkRef any
	// ContainerRef receives the host element after mount and nil after unmount.
	ContainerRef any
}

// Telemetry receives component activity. *metrics.Registry implements it.
type Telemetry interface {
	ObserveReconcile(collection string, added, updated, removed int, d time.Duration)
	ObserveReconcileSkipped(collection string)
	ObserveOptionError()
	ObserveEvent(name string)
	ObserveRedraw()
}

type noTelemetry struct{}

func (noTelemetry) ObserveReconcile(string, int, int, int, time.Duration) {}
func (noTelemetry) ObserveReconcileSkipped(string)                       {}
func (noTelemetry) ObserveOptionError()                                  {}
func (noTelemetry) ObserveEvent(string)                                  {}
func (noTelemetry) ObserveRedraw()                                       {}

type config struct {
	tel     Telemetry
	log     *log.Logger
	observe resize.ObserverFactory
	wait    time.Duration
	maxWait time.Duration
}

// Option configures a component.
type Option func(*config)

// WithTelemetry reports activity to t.
func WithTelemetry(t Telemetry) Option {
	return func(c *config) {
		if t != nil {
			c.tel = t
		}
	}
}

// WithLogger overrides the component logger.
func WithLogger(l *log.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.log = l
		}
	}
}

// WithObserver sets the size observer used by Responsive.
func WithObserver(f resize.ObserverFactory) Option {
	return func(c *config) { c.observe = f }
}

// WithResizeWait overrides the redraw debounce window used by Responsive.
func WithResizeWait(wait, maxWait time.Duration) Option {
	return func(c *config) { c.wait, c.maxWait = wait, maxWait }
}
