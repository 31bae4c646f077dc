//go:build !js || !wasm

package vis

import (
	"github.com/recera/visgraph/pkg/dataset"
	"github.com/recera/visgraph/pkg/engine"
	"github.com/recera/visgraph/pkg/graph"
	"github.com/recera/visgraph/pkg/options"
)

// New reports engine.ErrUnsupported outside the browser. Servers drive a
// browser-side network through live.NewFactory instead.
func New(engine.Element, *dataset.DataSet[graph.Node], *dataset.DataSet[graph.Edge], options.Options) (engine.Engine, error) {
	return nil, engine.ErrUnsupported
}
