package snapshot

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/recera/visgraph/pkg/graph"
)

// Renderer turns graphs into SVG, reusing results for identical DOT input.
type Renderer struct {
	opts  Options
	cache *Cache
}

// NewRenderer creates a renderer. A nil cache disables caching.
func NewRenderer(o Options, cache *Cache) *Renderer {
	return &Renderer{opts: o, cache: cache}
}

// Render returns the SVG picture of d.
func (r *Renderer) Render(ctx context.Context, d graph.Data) ([]byte, error) {
	dot := ToDOT(d, r.opts)
	if r.cache == nil {
		return RenderSVG(ctx, dot)
	}
	key := Key(dot)
	if svg, ok := r.cache.Get(key); ok {
		return svg, nil
	}
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	r.cache.Put(key, svg)
	return svg, nil
}

// Stats returns cache statistics, or zero values without a cache.
func (r *Renderer) Stats() Stats {
	if r.cache == nil {
		return Stats{}
	}
	return r.cache.Stats()
}

// RenderSVG lays out and renders a DOT graph.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
