// Package enginetest provides an in-memory engine that records every call the
// component makes, for use in tests.
package enginetest

import (
	"fmt"
	"sync"

	"github.com/recera/visgraph/pkg/dataset"
	"github.com/recera/visgraph/pkg/engine"
	"github.com/recera/visgraph/pkg/graph"
	"github.com/recera/visgraph/pkg/options"
)

// Element is a named host element.
type Element string

// ID returns the element name.
func (e Element) ID() string { return string(e) }

// Engine records calls and lets tests dispatch events and wheel input.
type Engine struct {
	mu        sync.Mutex
	host      engine.Element
	nodes     *dataset.DataSet[graph.Node]
	edges     *dataset.DataSet[graph.Edge]
	options   []options.Options
	listeners map[engine.EventName]map[engine.ListenerID]engine.Handler
	nextID    engine.ListenerID
	redraws   int
	destroyed bool
	wheel     engine.WheelHandler
	zooms     []engine.WheelEvent
	changes   []string

	rejected  func(error)

	// SetOptionsErr, when set, is returned by SetOptions.
	SetOptionsErr error
}

// New creates a recording engine. Its wheel handler counts zoom events.
func New(host engine.Element, nodes *dataset.DataSet[graph.Node], edges *dataset.DataSet[graph.Edge], o options.Options) *Engine {
	e := &Engine{
		host:      host,
		nodes:     nodes,
		edges:     edges,
		options:   []options.Options{o},
		listeners: make(map[engine.EventName]map[engine.ListenerID]engine.Handler),
	}
	e.wheel = func(ev engine.WheelEvent) {
		e.mu.Lock()
		e.zooms = append(e.zooms, ev)
		e.mu.Unlock()
	}
	if nodes != nil {
		nodes.On(func(c dataset.Change[graph.Node]) { e.record("nodes", c.Op, c.Keys) })
	}
	if edges != nil {
		edges.On(func(c dataset.Change[graph.Edge]) { e.record("edges", c.Op, c.Keys) })
	}
	return e
}

// Recorder is an engine.Factory that remembers every engine it builds.
type Recorder struct {
	mu      sync.Mutex
	Engines []*Engine
	// Err, when set, makes construction fail.
	Err error
}

// Factory returns the recorder's engine.Factory.
func (r *Recorder) Factory() engine.Factory {
	return func(host engine.Element, nodes *dataset.DataSet[graph.Node], edges *dataset.DataSet[graph.Edge], o options.Options) (engine.Engine, error) {
		if r.Err != nil {
			return nil, r.Err
		}
		e := New(host, nodes, edges, o)
		r.mu.Lock()
		r.Engines = append(r.Engines, e)
		r.mu.Unlock()
		return e, nil
	}
}

// Last returns the most recently built engine, or nil.
func (r *Recorder) Last() *Engine {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Engines) == 0 {
		return nil
	}
	return r.Engines[len(r.Engines)-1]
}

func (e *Engine) record(collection string, op dataset.Op, keys []string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.changes = append(e.changes, fmt.Sprintf("%s.%s%v", collection, op, keys))
}

// SetOptions records o.
func (e *Engine) SetOptions(o options.Options) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.SetOptionsErr != nil {
		return e.SetOptionsErr
	}
	e.options = append(e.options, o)
	return nil
}

// OnOptionsRejected stores fn for Reject.
func (e *Engine) OnOptionsRejected(fn func(error)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rejected = fn
}

// Reject reports err as a late option rejection.
func (e *Engine) Reject(err error) {
	e.mu.Lock()
	fn := e.rejected
	e.mu.Unlock()
	if fn != nil {
		fn(err)
	}
}

// On registers h.
func (e *Engine) On(name engine.EventName, h engine.Handler) engine.ListenerID {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.nextID++
	if e.listeners[name] == nil {
		e.listeners[name] = make(map[engine.ListenerID]engine.Handler)
	}
	e.listeners[name][e.nextID] = h
	return e.nextID
}

// Off removes a listener.
func (e *Engine) Off(name engine.EventName, id engine.ListenerID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.listeners[name], id)
}

// Redraw counts redraws.
func (e *Engine) Redraw() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.redraws++
}

// Destroy marks the engine destroyed and drops listeners.
func (e *Engine) Destroy() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.destroyed = true
	e.listeners = map[engine.EventName]map[engine.ListenerID]engine.Handler{}
}

// WheelHandler returns the installed wheel handler.
func (e *Engine) WheelHandler() engine.WheelHandler {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.wheel
}

// SetWheelHandler replaces the wheel handler.
func (e *Engine) SetWheelHandler(h engine.WheelHandler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.wheel = h
}

// Dispatch invokes every listener registered for name.
func (e *Engine) Dispatch(name engine.EventName, p engine.Params) {
	e.mu.Lock()
	hs := make([]engine.Handler, 0, len(e.listeners[name]))
	for _, h := range e.listeners[name] {
		hs = append(hs, h)
	}
	e.mu.Unlock()
	p.Event = name
	for _, h := range hs {
		h(p)
	}
}

// Wheel feeds ev through the current wheel handler.
func (e *Engine) Wheel(ev engine.WheelEvent) {
	if h := e.WheelHandler(); h != nil {
		h(ev)
	}
}

// Host returns the construction host.
func (e *Engine) Host() engine.Element { return e.host }

// Options returns the construction options followed by every SetOptions call.
func (e *Engine) Options() []options.Options {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]options.Options(nil), e.options...)
}

// Listeners returns the number of listeners registered for name.
func (e *Engine) Listeners(name engine.EventName) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.listeners[name])
}

// Redraws returns the redraw count.
func (e *Engine) Redraws() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.redraws
}

// Destroyed reports whether Destroy ran.
func (e *Engine) Destroyed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.destroyed
}

// Zooms returns the wheel events that reached the zoom handler.
func (e *Engine) Zooms() []engine.WheelEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]engine.WheelEvent(nil), e.zooms...)
}

// Changes returns dataset mutations as "nodes.add[a b]" strings.
func (e *Engine) Changes() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.changes...)
}

var (
	_ engine.Engine          = (*Engine)(nil)
	_ engine.Wheel           = (*Engine)(nil)
	_ engine.OptionsReporter = (*Engine)(nil)
)
