package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEventName(t *testing.T) {
	n, err := ParseEventName("selectNode")
	require.NoError(t, err)
	assert.Equal(t, EventSelectNode, n)
	assert.True(t, n.HasPointer())

	_, err = ParseEventName("mouseover")
	assert.ErrorIs(t, err, ErrUnknownEvent)

	assert.Len(t, AllEvents(), 32)
	assert.False(t, EventStabilized.HasPointer())
}

func TestParseZoomKey(t *testing.T) {
	tests := map[string]ZoomKey{
		"":         ZoomKeyNone,
		"ctrlKey":  ZoomKeyCtrl,
		"ctrl":     ZoomKeyCtrl,
		"SHIFTKEY": ZoomKeyShift,
		"alt":      ZoomKeyAlt,
	}
	for in, want := range tests {
		got, err := ParseZoomKey(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseZoomKey("meta")
	assert.Error(t, err)
}

func TestGateWheel(t *testing.T) {
	var seen []WheelEvent
	h := func(e WheelEvent) { seen = append(seen, e) }

	gated := GateWheel(h, ZoomKeyCtrl)
	gated(WheelEvent{DeltaY: 1})
	gated(WheelEvent{DeltaY: 2, CtrlKey: true})
	gated(WheelEvent{DeltaY: 3, ShiftKey: true})

	require.Len(t, seen, 1)
	assert.Equal(t, 2.0, seen[0].DeltaY)

	assert.Nil(t, GateWheel(nil, ZoomKeyAlt))
}

func TestDecodeParams(t *testing.T) {
	raw := map[string]any{
		"nodes": []any{"a", 2.0},
		"edges": []any{"a->b"},
		"items": []any{map[string]any{"nodeId": "a"}},
		"pointer": map[string]any{
			"DOM":    map[string]any{"x": 10.0, "y": 20.0},
			"canvas": map[string]any{"x": -1.5, "y": 3.0},
		},
	}
	p := DecodeParams(EventClick, raw)

	assert.Equal(t, EventClick, p.Event)
	assert.Equal(t, []string{"a", "2"}, p.Nodes)
	assert.Equal(t, []string{"a->b"}, p.Edges)
	assert.Len(t, p.Items, 1)
	assert.Equal(t, Pointer{DOM: Position{10, 20}, Canvas: Position{-1.5, 3}}, p.Pointer)

	empty := DecodeParams(EventZoom, nil)
	assert.Nil(t, empty.Nodes)
}
