// Package options holds the engine configuration record and its defaults.
//
// Options is the nested attribute tree the drawing engine accepts ("physics",
// "edges", "interaction", ...). The component merges caller options over
// Defaults exactly once, when it is created.
package options

// Options is a nested configuration record. Nested sections are
// map[string]any values.
type Options map[string]any

// Defaults returns the default configuration: no automatic stabilization, no
// engine-driven auto resize, thin black straight edges with small arrows.
// Each call returns a fresh tree.
func Defaults() Options {
	return Options{
		"physics": map[string]any{
			"stabilization": false,
		},
		"autoResize": false,
		"edges": map[string]any{
			"smooth": false,
			"color":  "#000000",
			"width":  0.5,
			"arrows": map[string]any{
				"to": map[string]any{
					"enabled":     true,
					"scaleFactor": 0.5,
				},
			},
		},
	}
}

// Merge returns a deep copy of user with every key it lacks filled in from
// defaults, recursively. Caller keys win at every level; when a key holds a
// section on one side and a scalar on the other, the caller value is kept
// whole. Neither argument is modified.
func Merge(user, defaults Options) Options {
	out := Clone(user)
	if out == nil {
		out = Options{}
	}
	fill(out, defaults)
	return out
}

func fill(dst, src map[string]any) {
	for k, dv := range src {
		uv, ok := dst[k]
		if !ok {
			dst[k] = cloneValue(dv)
			continue
		}
		um, uIsMap := asMap(uv)
		dm, dIsMap := asMap(dv)
		if uIsMap && dIsMap {
			fill(um, dm)
		}
	}
}

// Clone deep-copies o. Nested maps and slices are copied; other values are
// shared.
func Clone(o Options) Options {
	if o == nil {
		return nil
	}
	return Options(cloneMap(o))
}

// Get walks a dotted path ("edges.arrows.to.enabled") and returns the value.
func (o Options) Get(path ...string) (any, bool) {
	var cur any = map[string]any(o)
	for _, p := range path {
		m, ok := asMap(cur)
		if !ok {
			return nil, false
		}
		if cur, ok = m[p]; !ok {
			return nil, false
		}
	}
	return cur, true
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case Options:
		return cloneMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

func asMap(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case Options:
		return t, true
	default:
		return nil, false
	}
}
