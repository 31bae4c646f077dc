//go:build js && wasm

// Package vis adapts the browser vis-network library to engine.Engine.
package vis

import (
	"encoding/json"
	"fmt"
	"sync"
	"syscall/js"

	"github.com/charmbracelet/log"

	"github.com/recera/visgraph/pkg/dataset"
	"github.com/recera/visgraph/pkg/engine"
	"github.com/recera/visgraph/pkg/graph"
	"github.com/recera/visgraph/pkg/logging"
	"github.com/recera/visgraph/pkg/options"
	"github.com/recera/visgraph/pkg/renderer/dom"
)

type listener struct {
	h  engine.Handler
	fn js.Func
}

// Network is a vis.Network bound to the live datasets.
type Network struct {
	net     js.Value
	jsNodes js.Value
	jsEdges js.Value
	nodes   *dataset.DataSet[graph.Node]
	edges   *dataset.DataSet[graph.Edge]
	subs    [2]int
	log     *log.Logger

	mu        sync.Mutex
	listeners map[engine.EventName]map[engine.ListenerID]*listener
	nextID    engine.ListenerID
	wheelFn   js.Func
	hasWheel  bool
	destroyed bool
}

var (
	_ engine.Engine = (*Network)(nil)
	_ engine.Wheel  = (*Network)(nil)
)

// New is an engine.Factory. host must be a dom.Element and the vis global
// must be loaded.
func New(host engine.Element, nodes *dataset.DataSet[graph.Node], edges *dataset.DataSet[graph.Edge], o options.Options) (engine.Engine, error) {
	el, ok := host.(dom.Element)
	if !ok {
		return nil, fmt.Errorf("vis: host %T is not a DOM element", host)
	}
	lib := js.Global().Get("vis")
	if lib.IsUndefined() {
		return nil, fmt.Errorf("vis: library not loaded: %w", engine.ErrUnsupported)
	}
	jsNodes, err := toJS(records(nodes.Get()))
	if err != nil {
		return nil, fmt.Errorf("vis: nodes: %w", err)
	}
	jsEdges, err := toJS(records(edges.Get()))
	if err != nil {
		return nil, fmt.Errorf("vis: edges: %w", err)
	}
	jsOpts, err := toJS(o)
	if err != nil {
		return nil, fmt.Errorf("vis: options: %w", err)
	}

	n := &Network{
		jsNodes:   lib.Get("DataSet").New(jsNodes),
		jsEdges:   lib.Get("DataSet").New(jsEdges),
		nodes:     nodes,
		edges:     edges,
		log:       logging.For("vis"),
		listeners: make(map[engine.EventName]map[engine.ListenerID]*listener),
	}
	data := js.Global().Get("Object").New()
	data.Set("nodes", n.jsNodes)
	data.Set("edges", n.jsEdges)
	n.net = lib.Get("Network").New(el.Value(), data, jsOpts)

	n.subs[0] = nodes.On(func(c dataset.Change[graph.Node]) {
		n.apply(n.jsNodes, c.Op, c.Keys, records(c.Items))
	})
	n.subs[1] = edges.On(func(c dataset.Change[graph.Edge]) {
		n.apply(n.jsEdges, c.Op, c.Keys, records(c.Items))
	})
	return n, nil
}

func (n *Network) apply(ds js.Value, op dataset.Op, keys []string, items []map[string]any) {
	if n.isDestroyed() {
		return
	}
	var arg any = items
	method := op.String()
	if op == dataset.OpRemove {
		arg = keys
	}
	v, err := toJS(arg)
	if err != nil {
		n.log.Warn("dataset change dropped", "op", op, "err", err)
		return
	}
	ds.Call(method, v)
}

// SetOptions forwards o to network.setOptions. Exceptions thrown by vis
// become errors.
func (n *Network) SetOptions(o options.Options) (err error) {
	if n.isDestroyed() {
		return engine.ErrDestroyed
	}
	v, err := toJS(o)
	if err != nil {
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("vis: setOptions: %v", r)
		}
	}()
	n.net.Call("setOptions", v)
	return nil
}

// On registers h with network.on.
func (n *Network) On(name engine.EventName, h engine.Handler) engine.ListenerID {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.nextID++
	id := n.nextID
	if n.destroyed {
		return id
	}
	fn := js.FuncOf(func(_ js.Value, args []js.Value) any {
		var raw map[string]any
		if len(args) > 0 {
			raw = fromJS(args[0])
		}
		h(engine.DecodeParams(name, raw))
		return nil
	})
	set, ok := n.listeners[name]
	if !ok {
		set = make(map[engine.ListenerID]*listener)
		n.listeners[name] = set
	}
	set[id] = &listener{h: h, fn: fn}
	n.net.Call("on", string(name), fn)
	return id
}

// Off removes a listener registered with On.
func (n *Network) Off(name engine.EventName, id engine.ListenerID) {
	n.mu.Lock()
	defer n.mu.Unlock()
	l, ok := n.listeners[name][id]
	if !ok {
		return
	}
	delete(n.listeners[name], id)
	if !n.destroyed {
		n.net.Call("off", string(name), l.fn)
	}
	l.fn.Release()
}

func (n *Network) Redraw() {
	if n.isDestroyed() {
		return
	}
	n.net.Call("redraw")
}

// Destroy detaches from the datasets, releases callbacks and destroys the
// network.
func (n *Network) Destroy() {
	n.mu.Lock()
	if n.destroyed {
		n.mu.Unlock()
		return
	}
	n.destroyed = true
	for _, set := range n.listeners {
		for _, l := range set {
			l.fn.Release()
		}
	}
	n.listeners = nil
	if n.hasWheel {
		n.wheelFn.Release()
		n.hasWheel = false
	}
	n.mu.Unlock()

	n.nodes.Off(n.subs[0])
	n.edges.Off(n.subs[1])
	n.net.Call("destroy")
}

func (n *Network) bodyListeners() js.Value {
	return n.net.Get("interactionHandler").Get("body").Get("eventListeners")
}

// WheelHandler returns the current scroll-to-zoom handler.
func (n *Network) WheelHandler() engine.WheelHandler {
	if n.isDestroyed() {
		return nil
	}
	fn := n.bodyListeners().Get("onMouseWheel")
	if fn.Type() != js.TypeFunction {
		return nil
	}
	return func(ev engine.WheelEvent) {
		if native, ok := ev.Native.(js.Value); ok {
			fn.Invoke(native)
		}
	}
}

// SetWheelHandler installs h as the scroll-to-zoom handler.
func (n *Network) SetWheelHandler(h engine.WheelHandler) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.destroyed || h == nil {
		return
	}
	if n.hasWheel {
		n.wheelFn.Release()
	}
	n.wheelFn = js.FuncOf(func(_ js.Value, args []js.Value) any {
		if len(args) == 0 {
			return nil
		}
		ev := args[0]
		h(engine.WheelEvent{
			DeltaX:   ev.Get("deltaX").Float(),
			DeltaY:   ev.Get("deltaY").Float(),
			CtrlKey:  ev.Get("ctrlKey").Bool(),
			ShiftKey: ev.Get("shiftKey").Bool(),
			AltKey:   ev.Get("altKey").Bool(),
			Native:   ev,
		})
		return nil
	})
	n.hasWheel = true
	n.bodyListeners().Set("onMouseWheel", n.wheelFn)
}

func (n *Network) isDestroyed() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.destroyed
}

// toJS converts v through JSON so nested maps and slices of any element type
// arrive as plain objects and arrays.
func toJS(v any) (js.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return js.Undefined(), err
	}
	return js.Global().Get("JSON").Call("parse", string(b)), nil
}

var stripDOM = js.FuncOf(func(_ js.Value, args []js.Value) any {
	if len(args) > 0 && (args[0].String() == "event" || args[0].String() == "srcEvent") {
		return js.Undefined()
	}
	return args[1]
})

// fromJS decodes event params. DOM events do not survive JSON and are dropped.
func fromJS(v js.Value) map[string]any {
	s := js.Global().Get("JSON").Call("stringify", v, stripDOM)
	if s.Type() != js.TypeString {
		return nil
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(s.String()), &out); err != nil {
		return nil
	}
	return out
}

type recorder interface {
	Record() map[string]any
}

func records[T recorder](items []T) []map[string]any {
	out := make([]map[string]any, len(items))
	for i, it := range items {
		out[i] = it.Record()
	}
	return out
}
