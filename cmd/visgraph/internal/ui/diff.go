package ui

import (
	"fmt"
	"strings"

	"github.com/recera/visgraph/pkg/dataset"
	"github.com/recera/visgraph/pkg/graph"
)

// GraphDiff is the reconciliation plan between two graphs.
type GraphDiff struct {
	Nodes dataset.Delta[graph.Node]
	Edges dataset.Delta[graph.Edge]
}

// Diff classifies the records of two graphs.
func Diff(from, to graph.Data) GraphDiff {
	return GraphDiff{
		Nodes: dataset.Diff(from.Nodes, to.Nodes),
		Edges: dataset.Diff(from.Edges, to.Edges),
	}
}

// Empty reports whether applying the diff would mutate nothing.
func (d GraphDiff) Empty() bool {
	return d.Nodes.Empty() && d.Edges.Empty()
}

// Summary is a one-line count of the changes.
func (d GraphDiff) Summary() string {
	if d.Empty() {
		return "no changes"
	}
	return fmt.Sprintf("nodes +%d ~%d -%d, edges +%d ~%d -%d",
		len(d.Nodes.Added), len(d.Nodes.Updated), len(d.Nodes.Removed),
		len(d.Edges.Added), len(d.Edges.Updated), len(d.Edges.Removed))
}

// Render lists every change in the order the reconciler applies them.
func (d GraphDiff) Render() string {
	if d.Empty() {
		return mutedStyle.Render("no changes")
	}
	var b strings.Builder
	renderSection(&b, "nodes", d.Nodes, func(n graph.Node) string {
		if n.Label != "" && n.Label != n.ID {
			return fmt.Sprintf("%s (%s)", n.ID, n.Label)
		}
		return n.ID
	})
	renderSection(&b, "edges", d.Edges, func(e graph.Edge) string {
		if e.ID != "" {
			return fmt.Sprintf("%s (%s -> %s)", e.ID, e.From, e.To)
		}
		return e.Key()
	})
	b.WriteString(mutedStyle.Render(d.Summary()))
	return b.String()
}

func renderSection[T dataset.Item[T]](b *strings.Builder, name string, d dataset.Delta[T], label func(T) string) {
	if d.Empty() {
		return
	}
	b.WriteString(sectionStyle.Render(name))
	b.WriteByte('\n')
	for _, it := range d.Removed {
		b.WriteString(removeStyle.Render("- " + label(it)))
		b.WriteByte('\n')
	}
	for _, it := range d.Added {
		b.WriteString(addStyle.Render("+ " + label(it)))
		b.WriteByte('\n')
	}
	for _, it := range d.Updated {
		b.WriteString(updateStyle.Render("~ " + label(it)))
		b.WriteByte('\n')
	}
}
