package graph

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// MarshalJSON writes the node as a flat attribute object.
func (n Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.fields())
}

// UnmarshalJSON reads a flat attribute object.
func (n *Node) UnmarshalJSON(b []byte) error {
	var r map[string]any
	if err := json.Unmarshal(b, &r); err != nil {
		return err
	}
	v, err := nodeFromRecord(r)
	if err != nil {
		return err
	}
	*n = v
	return nil
}

// MarshalYAML writes the node as a flat mapping.
func (n Node) MarshalYAML() (any, error) {
	return n.fields(), nil
}

// UnmarshalYAML reads a flat mapping.
func (n *Node) UnmarshalYAML(value *yaml.Node) error {
	var r map[string]any
	if err := value.Decode(&r); err != nil {
		return err
	}
	v, err := nodeFromRecord(r)
	if err != nil {
		return err
	}
	*n = v
	return nil
}

// MarshalJSON writes the edge as a flat attribute object.
func (e Edge) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.fields())
}

// UnmarshalJSON reads a flat attribute object.
func (e *Edge) UnmarshalJSON(b []byte) error {
	var r map[string]any
	if err := json.Unmarshal(b, &r); err != nil {
		return err
	}
	v, err := edgeFromRecord(r)
	if err != nil {
		return err
	}
	*e = v
	return nil
}

// MarshalYAML writes the edge as a flat mapping.
func (e Edge) MarshalYAML() (any, error) {
	return e.fields(), nil
}

// UnmarshalYAML reads a flat mapping.
func (e *Edge) UnmarshalYAML(value *yaml.Node) error {
	var r map[string]any
	if err := value.Decode(&r); err != nil {
		return err
	}
	v, err := edgeFromRecord(r)
	if err != nil {
		return err
	}
	*e = v
	return nil
}

// Parse decodes graph data. format is "json" or "yaml".
func Parse(b []byte, format string) (Data, error) {
	var d Data
	switch strings.ToLower(format) {
	case "json":
		if err := json.Unmarshal(b, &d); err != nil {
			return Data{}, fmt.Errorf("decode json graph: %w", err)
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(b, &d); err != nil {
			return Data{}, fmt.Errorf("decode yaml graph: %w", err)
		}
	default:
		return Data{}, fmt.Errorf("unsupported graph format %q", format)
	}
	if err := d.Validate(); err != nil {
		return Data{}, err
	}
	return d, nil
}

// Load reads and validates a graph file; the format follows the extension.
func Load(path string) (Data, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Data{}, fmt.Errorf("read graph: %w", err)
	}
	d, err := Parse(b, strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return Data{}, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

func nodeFromRecord(r map[string]any) (Node, error) {
	var n Node
	raw, ok := r["id"]
	if !ok {
		return Node{}, fmt.Errorf("%w: node without id", ErrInvalid)
	}
	id, err := idString(raw)
	if err != nil {
		return Node{}, err
	}
	n.ID = id
	for k, v := range r {
		switch k {
		case "id":
			continue
		case "label":
			if takeString(v, &n.Label) {
				continue
			}
		case "title":
			if takeString(v, &n.Title) {
				continue
			}
		case "group":
			if takeString(v, &n.Group) {
				continue
			}
		case "shape":
			if takeString(v, &n.Shape) {
				continue
			}
		case "color":
			if takeString(v, &n.Color) {
				continue
			}
		case "size":
			if f, ok := toFloat(v); ok {
				n.Size = f
				continue
			}
		case "x":
			if f, ok := toFloat(v); ok {
				n.X = Float(f)
				continue
			}
		case "y":
			if f, ok := toFloat(v); ok {
				n.Y = Float(f)
				continue
			}
		}
		if n.Attrs == nil {
			n.Attrs = make(map[string]any)
		}
		n.Attrs[k] = v
	}
	return n, nil
}

func edgeFromRecord(r map[string]any) (Edge, error) {
	var e Edge
	for k, v := range r {
		switch k {
		case "id", "from", "to":
			s, err := idString(v)
			if err != nil {
				return Edge{}, err
			}
			switch k {
			case "id":
				e.ID = s
			case "from":
				e.From = s
			default:
				e.To = s
			}
			continue
		case "label":
			if takeString(v, &e.Label) {
				continue
			}
		case "title":
			if takeString(v, &e.Title) {
				continue
			}
		case "color":
			if takeString(v, &e.Color) {
				continue
			}
		case "arrows":
			if takeString(v, &e.Arrows) {
				continue
			}
		case "width":
			if f, ok := toFloat(v); ok {
				e.Width = f
				continue
			}
		}
		if e.Attrs == nil {
			e.Attrs = make(map[string]any)
		}
		e.Attrs[k] = v
	}
	return e, nil
}

// idString accepts string and numeric identifiers.
func idString(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case json.Number:
		return t.String(), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(t), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case uint64:
		return strconv.FormatUint(t, 10), nil
	default:
		return "", fmt.Errorf("%w: identifier of type %T", ErrInvalid, v)
	}
}

func takeString(v any, dst *string) bool {
	s, ok := v.(string)
	if ok {
		*dst = s
	}
	return ok
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
