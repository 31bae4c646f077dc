//go:build js && wasm

package dom

import (
	"syscall/js"

	"github.com/recera/visgraph/pkg/engine"
	"github.com/recera/visgraph/pkg/vango/vdom"
)

// Element is a DOM element usable as an engine host.
type Element struct {
	v js.Value
}

// Wrap wraps a DOM element value.
func Wrap(v js.Value) Element {
	return Element{v: v}
}

// ByID looks up an element in the document.
func ByID(id string) (Element, bool) {
	v := js.Global().Get("document").Call("getElementById", id)
	if v.IsNull() || v.IsUndefined() {
		return Element{}, false
	}
	return Wrap(v), true
}

// ID returns the element's id attribute.
func (e Element) ID() string {
	if e.v.IsUndefined() || e.v.IsNull() {
		return ""
	}
	return e.v.Get("id").String()
}

// Value returns the wrapped DOM value.
func (e Element) Value() js.Value { return e.v }

// Same reports whether other wraps the same DOM node.
func (e Element) Same(other engine.Element) bool {
	o, ok := other.(Element)
	return ok && e.v.Equal(o.v)
}

// DOMApplier builds and patches the DOM for virtual nodes.
type DOMApplier struct {
	document js.Value
}

// NewDOMApplier creates a new DOM applier
func NewDOMApplier() *DOMApplier {
	return &DOMApplier{document: js.Global().Get("document")}
}

// Mount creates n under parent and returns the created root. Ref callbacks
// run once the whole tree is attached.
func (a *DOMApplier) Mount(parent js.Value, n *vdom.VNode) js.Value {
	var refs []func()
	root := a.create(n, &refs)
	if !root.IsUndefined() {
		parent.Call("appendChild", root)
	}
	for _, fn := range refs {
		fn()
	}
	return root
}

func (a *DOMApplier) create(n *vdom.VNode, refs *[]func()) js.Value {
	if n == nil {
		return js.Undefined()
	}
	switch n.Kind {
	case vdom.KindText:
		return a.document.Call("createTextNode", n.Text)
	case vdom.KindElement:
		elem := a.document.Call("createElement", n.Tag)
		for key, value := range n.Props {
			if vdom.IsSpecialProp(key) {
				continue
			}
			setAttribute(elem, key, vdom.PropString(value))
		}
		if fn, ok := n.Props["ref"].(func(engine.Element)); ok {
			*refs = append(*refs, func() { fn(Wrap(elem)) })
		}
		for i := range n.Kids {
			if child := a.create(&n.Kids[i], refs); !child.IsUndefined() {
				elem.Call("appendChild", child)
			}
		}
		return elem
	case vdom.KindFragment:
		frag := a.document.Call("createDocumentFragment")
		for i := range n.Kids {
			if child := a.create(&n.Kids[i], refs); !child.IsUndefined() {
				frag.Call("appendChild", child)
			}
		}
		return frag
	default:
		return js.Undefined()
	}
}

// Apply applies attribute patches to el.
func (a *DOMApplier) Apply(el Element, patches []vdom.Patch) {
	for _, p := range patches {
		switch p.Op {
		case vdom.OpSetAttribute:
			setAttribute(el.v, p.Key, p.Value)
		case vdom.OpRemoveAttribute:
			if p.Key == "class" {
				el.v.Set("className", "")
				continue
			}
			el.v.Call("removeAttribute", p.Key)
		}
	}
}

func setAttribute(node js.Value, key, value string) {
	switch key {
	case "class":
		node.Set("className", value)
	default:
		node.Call("setAttribute", key, value)
	}
}
