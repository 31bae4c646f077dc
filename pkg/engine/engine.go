// Package engine describes the drawing engine the visgraph component drives.
//
// Layout, physics, hit-testing and rendering all live behind this contract.
// The component only constructs an engine over two live datasets, pushes
// option changes, (de)registers event listeners, requests redraws and finally
// destroys it. Adapters: engine/vis binds vis-network in the browser, and
// pkg/live drives a browser-side vis-network from the server.
package engine

import (
	"errors"

	"github.com/recera/visgraph/pkg/dataset"
	"github.com/recera/visgraph/pkg/graph"
	"github.com/recera/visgraph/pkg/options"
)

var (
	// ErrUnsupported is returned by adapters that cannot run on this platform.
	ErrUnsupported = errors.New("engine: not supported on this platform")
	// ErrDestroyed is returned by calls made after Destroy.
	ErrDestroyed = errors.New("engine: destroyed")
)

// Element is the host container an engine draws into.
type Element interface {
	// ID identifies the element among its siblings, e.g. a DOM id.
	ID() string
}

// ListenerID identifies one registered listener for Off.
type ListenerID uint64

// Engine is a constructed drawing engine instance.
type Engine interface {
	// SetOptions applies a (partial) option tree.
	SetOptions(o options.Options) error
	// On registers h for the named event.
	On(name EventName, h Handler) ListenerID
	// Off removes a listener previously returned by On.
	Off(name EventName, id ListenerID)
	// Redraw repaints the canvas at its current container size.
	Redraw()
	// Destroy releases the canvas and all listeners.
	Destroy()
}

// OptionsReporter is implemented by engines that learn about rejected
// options only after SetOptions returned, such as engines in another process.
type OptionsReporter interface {
	OnOptionsRejected(fn func(error))
}

// Factory constructs an engine over the live datasets with merged options.
type Factory func(host Element, nodes *dataset.DataSet[graph.Node], edges *dataset.DataSet[graph.Edge], o options.Options) (Engine, error)
