package live

import (
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/recera/visgraph/pkg/dataset"
	"github.com/recera/visgraph/pkg/engine"
	"github.com/recera/visgraph/pkg/graph"
	"github.com/recera/visgraph/pkg/logging"
	"github.com/recera/visgraph/pkg/options"
)

// Host is a container element on the client, named by its DOM id.
type Host string

// ID returns the DOM id.
func (h Host) ID() string { return string(h) }

// RemoteEngine drives a vis-network instance living in the browser. Every
// dataset mutation, option change and listener change becomes a command on
// the session; events flow back through Dispatch.
type RemoteEngine struct {
	id    string
	out   Sender
	log   *log.Logger
	nodes *dataset.DataSet[graph.Node]
	edges *dataset.DataSet[graph.Edge]
	subs  [2]int

	mu        sync.Mutex
	listeners map[engine.EventName]map[engine.ListenerID]engine.Handler
	nextID    engine.ListenerID
	destroyed bool
	detach    func()
	optRef    uint64
	rejected  func(error)
}

var (
	_ engine.Engine          = (*RemoteEngine)(nil)
	_ engine.ZoomGater       = (*RemoteEngine)(nil)
	_ engine.OptionsReporter = (*RemoteEngine)(nil)
)

// NewRemoteEngine sends a create command for host with the current dataset
// contents and starts forwarding dataset changes.
func NewRemoteEngine(out Sender, host engine.Element, nodes *dataset.DataSet[graph.Node], edges *dataset.DataSet[graph.Edge], o options.Options) (*RemoteEngine, error) {
	e := &RemoteEngine{
		id:        uuid.NewString(),
		out:       out,
		nodes:     nodes,
		edges:     edges,
		listeners: make(map[engine.EventName]map[engine.ListenerID]engine.Handler),
	}
	e.log = logging.For("live").With("network", e.id)

	err := out.Send(Command{
		Op:      OpCreate,
		Network: e.id,
		Host:    host.ID(),
		Nodes:   records(nodes.Get()),
		Edges:   records(edges.Get()),
		Options: o,
	})
	if err != nil {
		return nil, fmt.Errorf("create network: %w", err)
	}
	e.subs[0] = nodes.On(func(c dataset.Change[graph.Node]) {
		e.forward(CollectionNodes, c.Op, c.Keys, records(c.Items))
	})
	e.subs[1] = edges.On(func(c dataset.Change[graph.Edge]) {
		e.forward(CollectionEdges, c.Op, c.Keys, records(c.Items))
	})
	return e, nil
}

// NewFactory returns an engine.Factory whose engines live on conn's client.
func NewFactory(conn Conn) engine.Factory {
	return func(host engine.Element, nodes *dataset.DataSet[graph.Node], edges *dataset.DataSet[graph.Edge], o options.Options) (engine.Engine, error) {
		e, err := NewRemoteEngine(conn, host, nodes, edges, o)
		if err != nil {
			return nil, err
		}
		e.detach = conn.Subscribe(e.Dispatch)
		return e, nil
	}
}

// ID returns the network identifier shared with the client.
func (e *RemoteEngine) ID() string { return e.id }

func (e *RemoteEngine) forward(coll Collection, op dataset.Op, keys []string, items []map[string]any) {
	if e.isDestroyed() {
		return
	}
	cmd := Command{Network: e.id, Collection: coll}
	switch op {
	case dataset.OpAdd:
		cmd.Op, cmd.Items = OpAdd, items
	case dataset.OpUpdate:
		cmd.Op, cmd.Items = OpUpdate, items
	case dataset.OpRemove:
		cmd.Op, cmd.Keys = OpRemove, keys
	default:
		return
	}
	e.send(cmd)
}

// SetOptions sends o to the client. Only transport failures are returned;
// a rejection by the client arrives later through OnOptionsRejected.
func (e *RemoteEngine) SetOptions(o options.Options) error {
	e.mu.Lock()
	if e.destroyed {
		e.mu.Unlock()
		return engine.ErrDestroyed
	}
	e.optRef++
	ref := e.optRef
	e.mu.Unlock()
	return e.out.Send(Command{Op: OpOptions, Network: e.id, Options: o, Ref: ref})
}

// OnOptionsRejected registers fn for client rejections of the most recent
// options command. Rejections of superseded commands are dropped.
func (e *RemoteEngine) OnOptionsRejected(fn func(error)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rejected = fn
}

// On registers h. The client starts forwarding the event with the first
// listener.
func (e *RemoteEngine) On(name engine.EventName, h engine.Handler) engine.ListenerID {
	e.mu.Lock()
	e.nextID++
	id := e.nextID
	if e.destroyed {
		e.mu.Unlock()
		return id
	}
	set, ok := e.listeners[name]
	if !ok {
		set = make(map[engine.ListenerID]engine.Handler)
		e.listeners[name] = set
	}
	set[id] = h
	first := len(set) == 1
	e.mu.Unlock()

	if first {
		e.send(Command{Op: OpListen, Network: e.id, Event: string(name)})
	}
	return id
}

// Off removes a listener. The client stops forwarding with the last one.
func (e *RemoteEngine) Off(name engine.EventName, id engine.ListenerID) {
	e.mu.Lock()
	set, ok := e.listeners[name]
	if !ok {
		e.mu.Unlock()
		return
	}
	if _, ok := set[id]; !ok {
		e.mu.Unlock()
		return
	}
	delete(set, id)
	last := len(set) == 0
	if last {
		delete(e.listeners, name)
	}
	e.mu.Unlock()

	if last {
		e.send(Command{Op: OpUnlisten, Network: e.id, Event: string(name)})
	}
}

// SetZoomKey installs wheel gating on the client.
func (e *RemoteEngine) SetZoomKey(k engine.ZoomKey) {
	if e.isDestroyed() {
		return
	}
	e.send(Command{Op: OpZoomKey, Network: e.id, ZoomKey: string(k)})
}

// Redraw asks the client to repaint.
func (e *RemoteEngine) Redraw() {
	if e.isDestroyed() {
		return
	}
	e.send(Command{Op: OpRedraw, Network: e.id})
}

// Destroy detaches from the datasets and the connection and tells the client
// to release the network.
func (e *RemoteEngine) Destroy() {
	e.mu.Lock()
	if e.destroyed {
		e.mu.Unlock()
		return
	}
	e.destroyed = true
	e.listeners = nil
	detach := e.detach
	e.mu.Unlock()

	e.nodes.Off(e.subs[0])
	e.edges.Off(e.subs[1])
	if detach != nil {
		detach()
	}
	e.send(Command{Op: OpDestroy, Network: e.id})
}

// Dispatch delivers an event or error message addressed to this network.
func (e *RemoteEngine) Dispatch(msg Message) {
	if msg.Network != e.id {
		return
	}
	switch msg.Kind {
	case KindEvent:
		e.dispatchEvent(msg)
	case KindError:
		e.dispatchError(msg)
	}
}

func (e *RemoteEngine) dispatchError(msg Message) {
	if msg.Op != OpOptions {
		e.log.Warn("client command failed", "op", msg.Op, "err", msg.Error)
		return
	}
	e.mu.Lock()
	current := !e.destroyed && msg.Ref == e.optRef
	fn := e.rejected
	e.mu.Unlock()
	if !current {
		e.log.Debug("stale options rejection", "ref", msg.Ref)
		return
	}
	err := fmt.Errorf("%w: %s", ErrRejected, msg.Error)
	if fn == nil {
		e.log.Warn("options rejected", "err", err)
		return
	}
	fn(err)
}

func (e *RemoteEngine) dispatchEvent(msg Message) {
	name := engine.EventName(msg.Event)
	e.mu.Lock()
	handlers := make([]engine.Handler, 0, len(e.listeners[name]))
	for _, h := range e.listeners[name] {
		handlers = append(handlers, h)
	}
	e.mu.Unlock()

	if len(handlers) == 0 {
		return
	}
	p := engine.DecodeParams(name, msg.Params)
	for _, h := range handlers {
		h(p)
	}
}

func (e *RemoteEngine) isDestroyed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.destroyed
}

// send logs failures. A closed session is expected during teardown.
func (e *RemoteEngine) send(cmd Command) {
	err := e.out.Send(cmd)
	switch {
	case err == nil:
	case errors.Is(err, ErrClosed):
		e.log.Debug("command dropped, session closed", "op", cmd.Op)
	default:
		e.log.Warn("command not sent", "op", cmd.Op, "err", err)
	}
}

type recorder interface {
	Record() map[string]any
}

func records[T recorder](items []T) []map[string]any {
	if len(items) == 0 {
		return nil
	}
	out := make([]map[string]any, len(items))
	for i, it := range items {
		out[i] = it.Record()
	}
	return out
}
