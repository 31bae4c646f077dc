// Package builder offers a fluent way to assemble vdom element nodes.
package builder

import (
	"strings"

	"github.com/recera/visgraph/pkg/vango/vdom"
)

// ElementBuilder accumulates the tag, props and children of one element.
type ElementBuilder struct {
	tag      string
	props    vdom.Props
	children []*vdom.VNode
}

// El starts a builder for tag.
func El(tag string) *ElementBuilder {
	return &ElementBuilder{tag: tag, props: vdom.Props{}}
}

// Div starts a div builder.
func Div() *ElementBuilder { return El("div") }

// Children appends child nodes; nils are skipped.
func (b *ElementBuilder) Children(kids ...*vdom.VNode) *ElementBuilder {
	for _, k := range kids {
		if k != nil {
			b.children = append(b.children, k)
		}
	}
	return b
}

// Text appends a text child.
func (b *ElementBuilder) Text(s string) *ElementBuilder {
	b.children = append(b.children, vdom.NewText(s))
	return b
}

// Build returns the element node. The builder may be reused afterwards
// without affecting the returned node.
func (b *ElementBuilder) Build() *vdom.VNode {
	props := make(vdom.Props, len(b.props))
	for k, v := range b.props {
		props[k] = v
	}
	kids := append([]*vdom.VNode(nil), b.children...)
	return vdom.NewElement(b.tag, props, kids...)
}

func appendSep(cur, add, sep string) string {
	cur = strings.TrimSpace(cur)
	add = strings.TrimSpace(add)
	switch {
	case add == "":
		return cur
	case cur == "":
		return add
	default:
		return cur + sep + add
	}
}
