package graph

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEdgeKey(t *testing.T) {
	assert.Equal(t, "e1", Edge{ID: "e1", From: "a", To: "b"}.Key())
	assert.Equal(t, "a->b", Edge{From: "a", To: "b"}.Key())
}

func TestNodeCloneIsIndependent(t *testing.T) {
	n := Node{ID: "1", X: Float(3), Attrs: map[string]any{"font": "12px"}}
	c := n.Clone()

	*n.X = 9
	n.Attrs["font"] = "20px"

	assert.Equal(t, 3.0, *c.X)
	assert.Equal(t, "12px", c.Attrs["font"])
}

func TestParseJSONFlattensAttrs(t *testing.T) {
	src := `{
		"nodes": [
			{"id": 1, "label": "A", "x": 10, "font": {"size": 14}},
			{"id": "two", "color": {"background": "red"}}
		],
		"edges": [
			{"from": 1, "to": "two", "arrows": "to", "dashes": true}
		]
	}`
	d, err := Parse([]byte(src), "json")
	require.NoError(t, err)
	require.Len(t, d.Nodes, 2)

	a := d.Nodes[0]
	assert.Equal(t, "1", a.ID)
	assert.Equal(t, "A", a.Label)
	require.NotNil(t, a.X)
	assert.Equal(t, 10.0, *a.X)
	assert.Nil(t, a.Y)
	assert.Equal(t, map[string]any{"size": 14.0}, a.Attrs["font"])

	// Non-string colors stay as raw attributes.
	b := d.Nodes[1]
	assert.Empty(t, b.Color)
	assert.Equal(t, map[string]any{"background": "red"}, b.Attrs["color"])

	e := d.Edges[0]
	assert.Equal(t, "1->two", e.Key())
	assert.Equal(t, "to", e.Arrows)
	assert.Equal(t, true, e.Attrs["dashes"])
}

func TestParseYAML(t *testing.T) {
	src := `
nodes:
  - id: a
    label: Alpha
    size: 20
  - id: 2
edges:
  - id: e
    from: a
    to: 2
    width: 2
`
	d, err := Parse([]byte(src), "yaml")
	require.NoError(t, err)
	assert.Equal(t, "2", d.Nodes[1].ID)
	assert.Equal(t, 20.0, d.Nodes[0].Size)
	assert.Equal(t, Edge{ID: "e", From: "a", To: "2", Width: 2}, d.Edges[0])
}

func TestJSONRoundTripPreservesRecords(t *testing.T) {
	in := Data{
		Nodes: []Node{{ID: "a", Label: "A", X: Float(1), Y: Float(2), Attrs: map[string]any{"mass": 2.0}}},
		Edges: []Edge{{From: "a", To: "a", Label: "self"}},
	}
	b, err := json.Marshal(in)
	require.NoError(t, err)

	out, err := Parse(b, "json")
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		data Data
		ok   bool
	}{
		{"empty", Data{}, true},
		{"missing id", Data{Nodes: []Node{{Label: "x"}}}, false},
		{"duplicate node", Data{Nodes: []Node{{ID: "a"}, {ID: "a"}}}, false},
		{"edge without endpoint", Data{Edges: []Edge{{From: "a"}}}, false},
		{"parallel edges need ids", Data{Edges: []Edge{{From: "a", To: "b"}, {From: "a", To: "b"}}}, false},
		{"parallel edges with ids", Data{Edges: []Edge{{ID: "1", From: "a", To: "b"}, {ID: "2", From: "a", To: "b"}}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.data.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalid)
			}
		})
	}
}

func TestLoadByExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "g.yml")
	require.NoError(t, os.WriteFile(path, []byte("nodes:\n  - id: a\nedges: []\n"), 0o644))

	d, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []Node{{ID: "a"}}, d.Nodes)

	_, err = Load(filepath.Join(dir, "g.txt"))
	assert.Error(t, err)
}

func TestRecordCarriesIdentity(t *testing.T) {
	r := Edge{From: "a", To: "b"}.Record()
	assert.Equal(t, "a->b", r["id"])
	assert.Equal(t, "a", r["from"])
}
