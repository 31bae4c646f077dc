//go:build js && wasm

// Command client mounts the graph component in the browser.
//
// The page provides the graph as JSON in <script id="visgraph-data"> and,
// optionally, engine options in <script id="visgraph-options">. The global
// visgraphUpdate(graphJSON, optionsJSON) re-renders with new data.
package main

import (
	"syscall/js"

	"github.com/recera/visgraph/pkg/components/visgraph"
	"github.com/recera/visgraph/pkg/engine/vis"
	"github.com/recera/visgraph/pkg/graph"
	"github.com/recera/visgraph/pkg/logging"
	"github.com/recera/visgraph/pkg/options"
	"github.com/recera/visgraph/pkg/renderer/dom"
	"github.com/recera/visgraph/pkg/vango/vdom"
)

var log = logging.For("client")

func main() {
	document := js.Global().Get("document")
	if document.Get("readyState").String() != "loading" {
		start()
	} else {
		var onReady js.Func
		onReady = js.FuncOf(func(js.Value, []js.Value) any {
			start()
			onReady.Release()
			return nil
		})
		document.Call("addEventListener", "DOMContentLoaded", onReady)
	}

	// Keep the WASM runtime alive
	select {}
}

func start() {
	root, ok := dom.ByID("app")
	if !ok {
		log.Error("could not find #app element")
		return
	}
	d, err := readGraph(scriptText("visgraph-data"))
	if err != nil {
		log.Error("graph data", "err", err)
		return
	}
	o, err := readOptions(scriptText("visgraph-options"))
	if err != nil {
		log.Error("options", "err", err)
		return
	}

	props := visgraph.Props{Graph: d, Options: o, ID: "graph"}
	c, err := visgraph.NewResponsive(props, vis.New)
	if err != nil {
		log.Error("create component", "err", err)
		return
	}

	applier := dom.NewDOMApplier()
	rendered := c.Render()
	applier.Mount(root.Value(), rendered)

	js.Global().Set("visgraphUpdate", js.FuncOf(func(_ js.Value, args []js.Value) any {
		if len(args) == 0 {
			return nil
		}
		next := props
		if next.Graph, err = readGraph(args[0].String()); err != nil {
			log.Error("graph data", "err", err)
			return nil
		}
		if len(args) > 1 && args[1].Type() == js.TypeString {
			if next.Options, err = readOptions(args[1].String()); err != nil {
				log.Error("options", "err", err)
				return nil
			}
		}
		if err := c.Update(next); err != nil {
			log.Error("update", "err", err)
		}
		if host, ok := c.Host().(dom.Element); ok {
			after := c.Render()
			applier.Apply(host, vdom.DiffProps(rendered.Props, after.Props))
			rendered = after
		}
		props = next
		return nil
	}))
}

func scriptText(id string) string {
	el, ok := dom.ByID(id)
	if !ok {
		return ""
	}
	return el.Value().Get("textContent").String()
}

func readGraph(s string) (graph.Data, error) {
	if s == "" {
		return graph.Data{}, nil
	}
	return graph.Parse([]byte(s), "json")
}

func readOptions(s string) (options.Options, error) {
	if s == "" {
		return nil, nil
	}
	return options.Parse([]byte(s), "json")
}
