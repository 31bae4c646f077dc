//go:build js && wasm

package resize

import (
	"sync"
	"syscall/js"

	"github.com/recera/visgraph/pkg/engine"
	"github.com/recera/visgraph/pkg/renderer/dom"
)

type jsObserver struct {
	mu       sync.Mutex
	obs      js.Value
	callback js.Func
	observed []dom.Element
}

// NewJSObserver wraps the browser ResizeObserver. Elements that are not
// dom.Element values are ignored.
func NewJSObserver(cb Callback) Observer {
	o := &jsObserver{}
	o.callback = js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) == 0 {
			return nil
		}
		list := args[0]
		entries := make([]Entry, 0, list.Length())
		for i := 0; i < list.Length(); i++ {
			e := list.Index(i)
			rect := e.Get("contentRect")
			entries = append(entries, Entry{
				Target: dom.Wrap(e.Get("target")),
				Width:  rect.Get("width").Float(),
				Height: rect.Get("height").Float(),
			})
		}
		cb(entries)
		return nil
	})
	o.obs = js.Global().Get("ResizeObserver").New(o.callback)
	return o
}

func (o *jsObserver) Observe(el engine.Element) {
	d, ok := el.(dom.Element)
	if !ok {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.obs.Call("observe", d.Value())
	o.observed = append(o.observed, d)
}

func (o *jsObserver) Unobserve(el engine.Element) {
	d, ok := el.(dom.Element)
	if !ok {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.obs.Call("unobserve", d.Value())
	for i, cur := range o.observed {
		if cur.Same(d) {
			o.observed = append(o.observed[:i], o.observed[i+1:]...)
			break
		}
	}
}

func (o *jsObserver) Disconnect() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.obs.Call("disconnect")
	o.observed = nil
	o.callback.Release()
}
