// Package snapshot renders a static SVG picture of a graph with Graphviz.
//
// It is the no-JavaScript fallback for the component and backs the CLI
// render command. Layout is Graphviz's, not the interactive engine's, so the
// picture shows structure rather than the exact on-screen arrangement.
package snapshot

import (
	"bytes"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/recera/visgraph/pkg/graph"
)

// Options configures DOT generation.
type Options struct {
	// RankDir is the Graphviz rank direction: TB, LR, BT or RL. Empty means TB.
	RankDir string
	// Detailed appends node titles and groups to labels.
	Detailed bool
}

// shapes maps engine node shapes to Graphviz shapes.
var shapes = map[string]string{
	"box":      "box",
	"square":   "square",
	"circle":   "circle",
	"ellipse":  "ellipse",
	"dot":      "point",
	"diamond":  "diamond",
	"star":     "star",
	"triangle": "triangle",
	"database": "cylinder",
	"text":     "plaintext",
}

// ToDOT converts d to a Graphviz digraph. Output is deterministic for a given
// input: nodes and edges keep their order and attributes are sorted.
func ToDOT(d graph.Data, o Options) string {
	rankdir := strings.ToUpper(o.RankDir)
	if rankdir == "" {
		rankdir = "TB"
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", rankdir)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=ellipse, style=\"filled\", fillcolor=\"#97C2FC\", color=\"#2B7CE9\", fontname=\"Helvetica\"];\n")
	buf.WriteString("  edge [color=\"#000000\", penwidth=0.5, arrowsize=0.5, fontname=\"Helvetica\"];\n")
	buf.WriteString("\n")

	for _, n := range d.Nodes {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, joinAttrs(nodeAttrs(n, o.Detailed)))
	}

	buf.WriteString("\n")
	for _, e := range d.Edges {
		attrs := edgeAttrs(e)
		if len(attrs) == 0 {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.From, e.To, joinAttrs(attrs))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n graph.Node, detailed bool) map[string]string {
	label := n.Label
	if label == "" {
		label = n.ID
	}
	if detailed {
		var extra []string
		if n.Title != "" {
			extra = append(extra, n.Title)
		}
		if n.Group != "" {
			extra = append(extra, "group: "+n.Group)
		}
		if len(extra) > 0 {
			label += "\n" + strings.Join(extra, "\n")
		}
	}

	attrs := map[string]string{"label": label}
	if n.Title != "" {
		attrs["tooltip"] = n.Title
	}
	if s, ok := shapes[n.Shape]; ok {
		attrs["shape"] = s
	}
	if n.Color != "" {
		attrs["fillcolor"] = n.Color
	}
	if n.Size > 0 {
		// Engine sizes are pixels; Graphviz wants inches at 72dpi.
		attrs["width"] = fmt.Sprintf("%.2f", n.Size*2/72)
	}
	return attrs
}

func edgeAttrs(e graph.Edge) map[string]string {
	attrs := map[string]string{}
	if e.Label != "" {
		attrs["label"] = e.Label
	}
	if e.Title != "" {
		attrs["tooltip"] = e.Title
	}
	if e.Color != "" {
		attrs["color"] = e.Color
	}
	if e.Width > 0 {
		attrs["penwidth"] = fmt.Sprintf("%g", e.Width)
	}
	if dir := arrowDir(e.Arrows); dir != "" {
		attrs["dir"] = dir
	}
	return attrs
}

// arrowDir maps the engine's "to", "from", "to, from" and "middle" arrow
// lists to a Graphviz dir.
func arrowDir(arrows string) string {
	if arrows == "" {
		return ""
	}
	var to, from bool
	for _, a := range strings.FieldsFunc(arrows, func(r rune) bool { return r == ',' || r == ' ' }) {
		switch a {
		case "to":
			to = true
		case "from":
			from = true
		}
	}
	switch {
	case to && from:
		return "both"
	case from:
		return "back"
	case to:
		return "forward"
	default:
		return "none"
	}
}

func joinAttrs(attrs map[string]string) string {
	parts := make([]string, 0, len(attrs))
	for _, k := range slices.Sorted(maps.Keys(attrs)) {
		parts = append(parts, fmt.Sprintf("%s=%q", k, attrs[k]))
	}
	return strings.Join(parts, ", ")
}
