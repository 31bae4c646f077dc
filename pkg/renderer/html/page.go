package html

import (
	"io"

	"github.com/recera/visgraph/pkg/vango/vdom"
)

// Page describes the document served around a server-driven component.
type Page struct {
	Title string
	// Scripts are loaded in order at the end of the body.
	Scripts []string
	// Boot is inline script run after Scripts.
	Boot string
	Body *vdom.VNode
}

// Node builds the document tree.
func (p Page) Node() *vdom.VNode {
	body := []*vdom.VNode{p.Body}
	for _, src := range p.Scripts {
		body = append(body, vdom.NewElement("script", vdom.Props{"src": src}))
	}
	if p.Boot != "" {
		body = append(body, vdom.NewElement("script", nil, vdom.NewText(p.Boot)))
	}
	return vdom.NewElement("html", nil,
		vdom.NewElement("head", nil,
			vdom.NewElement("meta", vdom.Props{"charset": "utf-8"}),
			vdom.NewElement("title", nil, vdom.NewText(p.Title)),
			vdom.NewElement("style", nil, vdom.NewText("html,body{margin:0;height:100%}")),
		),
		vdom.NewElement("body", nil, body...),
	)
}

// Write renders the page with its doctype.
func (p Page) Write(w io.Writer) error {
	if _, err := io.WriteString(w, "<!DOCTYPE html>"); err != nil {
		return err
	}
	return NewHTMLApplier(w).Apply(nil, p.Node())
}
