// Package graph defines the declarative graph records handed to the
// visualization component: nodes, edges and the Data pair that holds them.
//
// Records are flat attribute maps on the wire, the same shape the drawing
// engine expects. Well-known attributes get typed fields; anything else is kept
// verbatim in Attrs and written back inline.
package graph

import (
	"errors"
	"fmt"
)

// ErrInvalid is returned when a record or a graph fails validation.
var ErrInvalid = errors.New("graph: invalid")

// Node is a vertex record. ID is the identifier the live dataset is keyed on.
type Node struct {
	ID    string
	Label string
	Title string
	Group string
	Shape string
	Color string
	Size  float64
	// X and Y are nil when the engine should place the node itself.
	X *float64
	Y *float64
	// Attrs holds every other engine attribute, e.g. "font" or "physics".
	Attrs map[string]any
}

// Edge is a link record. It is keyed on ID when present, otherwise on the
// from/to pair.
type Edge struct {
	ID     string
	From   string
	To     string
	Label  string
	Title  string
	Color  string
	Width  float64
	Arrows string
	Attrs  map[string]any
}

// Data is the declarative graph: ordered node and edge sequences.
type Data struct {
	Nodes []Node `json:"nodes" yaml:"nodes"`
	Edges []Edge `json:"edges" yaml:"edges"`
}

// Key returns the node identifier.
func (n Node) Key() string { return n.ID }

// Key returns the edge identifier: ID, or "from->to" when ID is empty.
func (e Edge) Key() string {
	if e.ID != "" {
		return e.ID
	}
	return e.From + "->" + e.To
}

// Clone returns a shallow copy: Attrs and the position pointers are copied one
// level deep so later changes to the original do not leak into the copy.
func (n Node) Clone() Node {
	c := n
	c.X = cloneFloat(n.X)
	c.Y = cloneFloat(n.Y)
	c.Attrs = cloneAttrs(n.Attrs)
	return c
}

// Clone returns a shallow copy of the edge.
func (e Edge) Clone() Edge {
	c := e
	c.Attrs = cloneAttrs(e.Attrs)
	return c
}

// Record returns the engine-facing attribute map. The id is always present.
func (n Node) Record() map[string]any {
	r := n.fields()
	r["id"] = n.ID
	return r
}

// Record returns the engine-facing attribute map. Edges without an ID carry
// their derived key as id so both sides agree on identity.
func (e Edge) Record() map[string]any {
	r := e.fields()
	r["id"] = e.Key()
	return r
}

func (n Node) fields() map[string]any {
	r := make(map[string]any, len(n.Attrs)+8)
	for k, v := range n.Attrs {
		r[k] = v
	}
	if n.ID != "" {
		r["id"] = n.ID
	}
	putString(r, "label", n.Label)
	putString(r, "title", n.Title)
	putString(r, "group", n.Group)
	putString(r, "shape", n.Shape)
	putString(r, "color", n.Color)
	if n.Size != 0 {
		r["size"] = n.Size
	}
	if n.X != nil {
		r["x"] = *n.X
	}
	if n.Y != nil {
		r["y"] = *n.Y
	}
	return r
}

func (e Edge) fields() map[string]any {
	r := make(map[string]any, len(e.Attrs)+8)
	for k, v := range e.Attrs {
		r[k] = v
	}
	putString(r, "id", e.ID)
	r["from"] = e.From
	r["to"] = e.To
	putString(r, "label", e.Label)
	putString(r, "title", e.Title)
	putString(r, "color", e.Color)
	putString(r, "arrows", e.Arrows)
	if e.Width != 0 {
		r["width"] = e.Width
	}
	return r
}

// Validate checks identifiers: node ids must be present and unique, edges must
// name both endpoints and edge keys must be unique.
func (d Data) Validate() error {
	nodes := make(map[string]struct{}, len(d.Nodes))
	for i, n := range d.Nodes {
		if n.ID == "" {
			return fmt.Errorf("%w: node %d has no id", ErrInvalid, i)
		}
		if _, dup := nodes[n.ID]; dup {
			return fmt.Errorf("%w: duplicate node id %q", ErrInvalid, n.ID)
		}
		nodes[n.ID] = struct{}{}
	}
	edges := make(map[string]struct{}, len(d.Edges))
	for i, e := range d.Edges {
		if e.From == "" || e.To == "" {
			return fmt.Errorf("%w: edge %d needs from and to", ErrInvalid, i)
		}
		k := e.Key()
		if _, dup := edges[k]; dup {
			return fmt.Errorf("%w: duplicate edge %q", ErrInvalid, k)
		}
		edges[k] = struct{}{}
	}
	return nil
}

// Clone deep-copies the node and edge slices (records are cloned shallowly).
func (d Data) Clone() Data {
	c := Data{
		Nodes: make([]Node, len(d.Nodes)),
		Edges: make([]Edge, len(d.Edges)),
	}
	for i, n := range d.Nodes {
		c.Nodes[i] = n.Clone()
	}
	for i, e := range d.Edges {
		c.Edges[i] = e.Clone()
	}
	return c
}

// Float returns a pointer to v, for populating Node.X and Node.Y.
func Float(v float64) *float64 { return &v }

func putString(r map[string]any, key, v string) {
	if v != "" {
		r[key] = v
	}
}

func cloneFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneAttrs(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	c := make(map[string]any, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
