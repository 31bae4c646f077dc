//go:build !js || !wasm

package vis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/recera/visgraph/pkg/engine"
	"github.com/recera/visgraph/pkg/engine/enginetest"
)

func TestNew_Unsupported(t *testing.T) {
	e, err := New(enginetest.Element("graph"), nil, nil, nil)
	assert.Nil(t, e)
	assert.ErrorIs(t, err, engine.ErrUnsupported)
}
