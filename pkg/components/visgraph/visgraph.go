// Package visgraph is the graph-visualization component.
//
// A Graph owns two live datasets and one engine instance. Declarative props go
// in through New and Update; the component turns them into the minimal set of
// dataset mutations, option updates and listener changes. Rendering, layout
// and interaction stay inside the engine.
package visgraph

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/recera/visgraph/pkg/dataset"
	"github.com/recera/visgraph/pkg/engine"
	"github.com/recera/visgraph/pkg/env"
	"github.com/recera/visgraph/pkg/graph"
	"github.com/recera/visgraph/pkg/logging"
	"github.com/recera/visgraph/pkg/options"
	"github.com/recera/visgraph/pkg/ref"
	"github.com/recera/visgraph/pkg/vango/vdom"
	"github.com/recera/visgraph/pkg/vex/builder"
)

// ContainerStyle is always applied to the container before caller styles.
const ContainerStyle = "width:100%;height:100%"

type binding struct {
	name engine.EventName
	id   engine.ListenerID
}

// Graph is one component instance.
type Graph struct {
	factory engine.Factory
	cfg     config

	mu        sync.Mutex
	props     Props
	nodes     *dataset.Syncer[graph.Node]
	edges     *dataset.Syncer[graph.Edge]
	merged    options.Options
	initial   options.Options
	host      engine.Element
	eng       engine.Engine
	bindings  []binding
	wheel     engine.WheelHandler
	destroyed bool
	// rejected holds late option rejections until the next Update.
	rejected error
}

// New seals the datasets from props.Graph and merges props.Options over the
// defaults. The engine is built by factory on Mount.
func New(props Props, factory engine.Factory, opts ...Option) (*Graph, error) {
	cfg := config{tel: noTelemetry{}, log: logging.For("visgraph")}
	for _, opt := range opts {
		opt(&cfg)
	}
	nodes, err := dataset.NewSyncer(props.Graph.Nodes)
	if err != nil {
		return nil, fmt.Errorf("nodes: %w", err)
	}
	edges, err := dataset.NewSyncer(props.Graph.Edges)
	if err != nil {
		return nil, fmt.Errorf("edges: %w", err)
	}
	return &Graph{
		factory: factory,
		cfg:     cfg,
		props:   props,
		nodes:   nodes,
		edges:   edges,
		merged:  options.Merge(props.Options, options.Defaults()),
		initial: props.Options,
	}, nil
}

// Render returns the container element. Its ref mounts the component once the
// platform has created the element.
func (g *Graph) Render() *vdom.VNode {
	g.mu.Lock()
	p := g.props
	g.mu.Unlock()

	return builder.Div().
		Attrs(p.Attrs).
		ID(p.ID).
		Style(ContainerStyle).
		Style(p.Style).
		Class(p.Class).
		Ref(func(el engine.Element) {
			if err := g.Mount(el); err != nil {
				g.cfg.log.Error("mount failed", "err", err)
			}
		}).
		Build()
}

// Mount builds the engine inside host, assigns the refs and binds events and
// zoom gating. Options changed by Update before Mount are applied to the new
// engine. Mounting twice, after Unmount, or with a nil host does nothing.
func (g *Graph) Mount(host engine.Element) error {
	g.mu.Lock()
	if g.destroyed || g.eng != nil || host == nil {
		g.mu.Unlock()
		return nil
	}
	eng, err := g.factory(host, g.nodes.DataSet(), g.edges.DataSet(), options.Clone(g.merged))
	if err != nil {
		g.mu.Unlock()
		return fmt.Errorf("create engine: %w", err)
	}
	g.host = host
	g.eng = eng
	if r, ok := eng.(engine.OptionsReporter); ok {
		r.OnOptionsRejected(g.optionsRejected)
	}
	var optErr error
	if !ref.Same(g.initial, g.props.Options) {
		optErr = g.applyOptions(g.props.Options)
	}
	g.bindEvents(g.props.Events)
	g.gateZoom(g.props.ZoomKey)
	p := g.props
	g.mu.Unlock()

	g.cfg.log.Debug("mounted", "host", host.ID(), "nodes", g.nodes.DataSet().Len(), "edges", g.edges.DataSet().Len())
	return errors.Join(
		optErr,
		ref.Assign(p.ContainerRef, host),
		ref.Assign(p.NetworkRef, eng),
	)
}

// Update reconciles the component with next.
//
// Nodes then edges are synced to the live datasets. Options are re-applied
// when the map reference changed; an engine rejection is logged and swallowed
// in development and returned otherwise, including rejections the engine
// reported since the previous Update. Events are rebound on reference
// change, zoom gating on selector change, and the network ref is reassigned
// when its target changed. After Unmount, Update does nothing.
func (g *Graph) Update(next Props) error {
	g.mu.Lock()
	if g.destroyed {
		g.mu.Unlock()
		return nil
	}
	prev := g.props
	var errs []error
	if g.rejected != nil {
		errs = append(errs, g.rejected)
		g.rejected = nil
	}

	if err := g.syncNodes(next.Graph.Nodes); err != nil {
		errs = append(errs, err)
	}
	if err := g.syncEdges(next.Graph.Edges); err != nil {
		errs = append(errs, err)
	}

	if g.eng != nil && !ref.Same(prev.Options, next.Options) {
		if err := g.applyOptions(next.Options); err != nil {
			errs = append(errs, err)
		}
	}
	if g.eng != nil && !ref.Same(prev.Events, next.Events) {
		g.unbindEvents()
		g.bindEvents(next.Events)
	}
	if g.eng != nil && prev.ZoomKey != next.ZoomKey {
		g.gateZoom(next.ZoomKey)
	}
	g.props = next
	eng := g.eng
	g.mu.Unlock()

	if eng != nil && !ref.Same(prev.NetworkRef, next.NetworkRef) {
		errs = append(errs, ref.Assign(next.NetworkRef, eng))
	}
	return errors.Join(errs...)
}

// Unmount unbinds events, restores the wheel handler, destroys the engine and
// clears the refs. The component cannot be mounted again.
func (g *Graph) Unmount() {
	g.mu.Lock()
	if g.destroyed {
		g.mu.Unlock()
		return
	}
	g.destroyed = true
	eng := g.eng
	p := g.props
	if eng != nil {
		g.unbindEvents()
		g.gateZoom(engine.ZoomKeyNone)
		eng.Destroy()
	}
	g.eng = nil
	g.host = nil
	g.mu.Unlock()

	if eng == nil {
		return
	}
	if err := ref.Assign[engine.Engine](p.NetworkRef, nil); err != nil {
		g.cfg.log.Warn("clear network ref", "err", err)
	}
	if err := ref.Assign[engine.Element](p.ContainerRef, nil); err != nil {
		g.cfg.log.Warn("clear container ref", "err", err)
	}
}

// Network returns the engine, or nil when not mounted.
func (g *Graph) Network() engine.Engine {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.eng
}

// Host returns the mounted host element, or nil.
func (g *Graph) Host() engine.Element {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.host
}

// Nodes returns the live node dataset.
func (g *Graph) Nodes() *dataset.DataSet[graph.Node] { return g.nodes.DataSet() }

// Edges returns the live edge dataset.
func (g *Graph) Edges() *dataset.DataSet[graph.Edge] { return g.edges.DataSet() }

// Options returns a copy of the options the engine was constructed with.
func (g *Graph) Options() options.Options {
	g.mu.Lock()
	defer g.mu.Unlock()
	return options.Clone(g.merged)
}

// applyOptions passes o to the engine. A rejection is logged and swallowed in
// development and returned otherwise. g.mu is held.
func (g *Graph) applyOptions(o options.Options) error {
	err := g.eng.SetOptions(o)
	if err == nil {
		return nil
	}
	g.cfg.tel.ObserveOptionError()
	if env.IsDevelopment() {
		g.cfg.log.Warn("engine rejected options", "err", err)
		return nil
	}
	return fmt.Errorf("set options: %w", err)
}

// optionsRejected applies the same policy as applyOptions to a rejection the
// engine reports late. Outside development the error is returned by the next
// Update.
func (g *Graph) optionsRejected(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.destroyed {
		return
	}
	g.cfg.tel.ObserveOptionError()
	if env.IsDevelopment() {
		g.cfg.log.Warn("engine rejected options", "err", err)
		return
	}
	g.cfg.log.Error("engine rejected options", "err", err)
	g.rejected = errors.Join(g.rejected, fmt.Errorf("set options: %w", err))
}

func (g *Graph) syncNodes(next []graph.Node) error {
	start := time.Now()
	d, err := g.nodes.Sync(next)
	g.observe("nodes", d.Empty(), len(d.Added), len(d.Updated), len(d.Removed), time.Since(start))
	if err != nil {
		return fmt.Errorf("sync nodes: %w", err)
	}
	return nil
}

func (g *Graph) syncEdges(next []graph.Edge) error {
	start := time.Now()
	d, err := g.edges.Sync(next)
	g.observe("edges", d.Empty(), len(d.Added), len(d.Updated), len(d.Removed), time.Since(start))
	if err != nil {
		return fmt.Errorf("sync edges: %w", err)
	}
	return nil
}

func (g *Graph) observe(collection string, empty bool, added, updated, removed int, d time.Duration) {
	if empty {
		g.cfg.tel.ObserveReconcileSkipped(collection)
		return
	}
	g.cfg.tel.ObserveReconcile(collection, added, updated, removed, d)
	g.cfg.log.Debug("reconciled", "collection", collection, "added", added, "updated", updated, "removed", removed)
}

// bindEvents registers events in name order. g.mu is held.
func (g *Graph) bindEvents(events engine.Events) {
	names := make([]engine.EventName, 0, len(events))
	for name := range events {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		h := events[name]
		if h == nil {
			continue
		}
		if _, err := engine.ParseEventName(string(name)); err != nil {
			g.cfg.log.Warn("skipping event", "err", err)
			continue
		}
		tel := g.cfg.tel
		id := g.eng.On(name, func(p engine.Params) {
			tel.ObserveEvent(string(name))
			h(p)
		})
		g.bindings = append(g.bindings, binding{name: name, id: id})
	}
}

// unbindEvents removes every listener bindEvents registered. g.mu is held.
func (g *Graph) unbindEvents() {
	for _, b := range g.bindings {
		g.eng.Off(b.name, b.id)
	}
	g.bindings = nil
}

// gateZoom restores the original wheel handler and, for a non-empty key,
// installs a gate in front of it. g.mu is held.
func (g *Graph) gateZoom(k engine.ZoomKey) {
	if zg, ok := g.eng.(engine.ZoomGater); ok {
		zg.SetZoomKey(k)
		return
	}
	w, ok := g.eng.(engine.Wheel)
	if !ok {
		return
	}
	if g.wheel != nil {
		w.SetWheelHandler(g.wheel)
		g.wheel = nil
	}
	if k == engine.ZoomKeyNone {
		return
	}
	orig := w.WheelHandler()
	if orig == nil {
		return
	}
	g.wheel = orig
	w.SetWheelHandler(engine.GateWheel(orig, k))
}
