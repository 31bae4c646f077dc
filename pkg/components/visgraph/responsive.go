package visgraph

import (
	"errors"
	"sync"

	"github.com/recera/visgraph/pkg/engine"
	"github.com/recera/visgraph/pkg/ref"
	"github.com/recera/visgraph/pkg/resize"
	"github.com/recera/visgraph/pkg/vango/vdom"
)

// Responsive is a Graph that redraws its engine whenever the container
// changes size.
type Responsive struct {
	*Graph

	network   ref.Object[engine.Engine]
	container ref.Object[engine.Element]
	coord     *resize.Coordinator

	mu         sync.Mutex
	callerNet  any
	callerHost any
	chainNet   ref.Func[engine.Engine]
	chainHost  ref.Func[engine.Element]
}

// NewResponsive creates a responsive graph. The size observer defaults to
// resize.NewJSObserver; WithObserver replaces it.
func NewResponsive(props Props, factory engine.Factory, opts ...Option) (*Responsive, error) {
	cfg := config{observe: resize.NewJSObserver, wait: resize.DefaultWait, maxWait: resize.DefaultMaxWait}
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := checkRefs(props); err != nil {
		return nil, err
	}
	r := &Responsive{}
	g, err := New(r.wrap(props), factory, opts...)
	if err != nil {
		return nil, err
	}
	r.Graph = g
	r.coord = resize.NewCoordinator(cfg.observe, r.redrawTarget,
		resize.WithWait(cfg.wait, cfg.maxWait),
		resize.WithRedrawHook(func() { g.cfg.tel.ObserveRedraw() }),
	)
	return r, nil
}

// Render returns the container element; its ref mounts the component.
func (r *Responsive) Render() *vdom.VNode {
	n := r.Graph.Render()
	n.Props["ref"] = func(el engine.Element) {
		if err := r.Mount(el); err != nil {
			r.cfg.log.Error("mount failed", "err", err)
		}
	}
	return n
}

// Mount mounts the graph and starts observing host.
func (r *Responsive) Mount(host engine.Element) error {
	err := r.Graph.Mount(host)
	if el := r.container.Current(); el != nil {
		r.coord.SetHost(el)
	}
	return err
}

// Update forwards next to the graph.
func (r *Responsive) Update(next Props) error {
	if err := checkRefs(next); err != nil {
		return err
	}
	return r.Graph.Update(r.wrap(next))
}

// Unmount stops observing and unmounts the graph.
func (r *Responsive) Unmount() {
	r.coord.Close()
	r.Graph.Unmount()
}

func (r *Responsive) redrawTarget() resize.Redrawer {
	if e := r.network.Current(); e != nil {
		return e
	}
	return nil
}

// wrap chains the inner refs in front of the caller's. Chains are rebuilt
// only when the caller's target changes so the graph sees a stable ref.
func (r *Responsive) wrap(p Props) Props {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.chainNet == nil || !ref.Same(r.callerNet, p.NetworkRef) {
		r.callerNet = p.NetworkRef
		r.chainNet = ref.Chain[engine.Engine](&r.network, p.NetworkRef)
	}
	if r.chainHost == nil || !ref.Same(r.callerHost, p.ContainerRef) {
		r.callerHost = p.ContainerRef
		r.chainHost = ref.Chain[engine.Element](&r.container, p.ContainerRef)
	}
	p.NetworkRef = r.chainNet
	p.ContainerRef = r.chainHost
	return p
}

// checkRefs surfaces invalid caller refs that the chains would otherwise hide.
func checkRefs(p Props) error {
	return errors.Join(ref.Check(p.NetworkRef), ref.Check(p.ContainerRef))
}
