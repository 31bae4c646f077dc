package resize

import (
	"sync"

	"github.com/recera/visgraph/pkg/engine"
)

// Manual is an Observer fed by explicit Notify calls. Remote clients and tests
// use it where no platform observer exists.
type Manual struct {
	cb Callback

	mu           sync.Mutex
	observed     map[string]engine.Element
	disconnected bool
}

// NewManual is an ObserverFactory for Manual observers.
func NewManual(cb Callback) *Manual {
	return &Manual{cb: cb, observed: make(map[string]engine.Element)}
}

// ManualFactory adapts NewManual to ObserverFactory and reports each observer built.
func ManualFactory(built func(*Manual)) ObserverFactory {
	return func(cb Callback) Observer {
		m := NewManual(cb)
		if built != nil {
			built(m)
		}
		return m
	}
}

func (m *Manual) Observe(el engine.Element) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.disconnected {
		return
	}
	m.observed[el.ID()] = el
}

func (m *Manual) Unobserve(el engine.Element) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.observed, el.ID())
}

func (m *Manual) Disconnect() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.disconnected = true
	clear(m.observed)
}

// Observing reports whether an element with the given id is observed.
func (m *Manual) Observing(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.observed[id]
	return ok
}

// Notify delivers a size change for the element with the given id. Sizes for
// elements that are not observed are dropped.
func (m *Manual) Notify(id string, width, height float64) {
	m.mu.Lock()
	el, ok := m.observed[id]
	m.mu.Unlock()
	if !ok {
		return
	}
	m.cb([]Entry{{Target: el, Width: width, Height: height}})
}
