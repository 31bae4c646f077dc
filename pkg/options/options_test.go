package options

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge_NestedOverrideKeepsSiblings(t *testing.T) {
	user := Options{
		"edges": map[string]any{
			"color": "#ff0000",
		},
	}
	merged := Merge(user, Defaults())

	color, _ := merged.Get("edges", "color")
	width, _ := merged.Get("edges", "width")
	enabled, _ := merged.Get("edges", "arrows", "to", "enabled")
	stab, _ := merged.Get("physics", "stabilization")

	assert.Equal(t, "#ff0000", color)
	assert.Equal(t, 0.5, width)
	assert.Equal(t, true, enabled)
	assert.Equal(t, false, stab)
}

func TestMerge_DoesNotMutateInputs(t *testing.T) {
	user := Options{
		"edges":   map[string]any{"color": "#ff0000"},
		"physics": map[string]any{"enabled": true},
	}
	defaults := Defaults()

	merged := Merge(user, defaults)
	merged["edges"].(map[string]any)["width"] = 9.0

	assert.Equal(t, Options{
		"edges":   map[string]any{"color": "#ff0000"},
		"physics": map[string]any{"enabled": true},
	}, user)
	assert.Equal(t, Defaults(), defaults)
}

func TestMerge_ScalarOverridesSection(t *testing.T) {
	merged := Merge(Options{"physics": false}, Defaults())
	assert.Equal(t, false, merged["physics"])
}

func TestMerge_NilUser(t *testing.T) {
	merged := Merge(nil, Defaults())
	assert.Equal(t, Defaults(), merged)
}

func TestMerge_DeepLevels(t *testing.T) {
	user := Options{"edges": map[string]any{"arrows": map[string]any{"to": map[string]any{"scaleFactor": 2.0}}}}
	merged := Merge(user, Defaults())

	sf, _ := merged.Get("edges", "arrows", "to", "scaleFactor")
	en, _ := merged.Get("edges", "arrows", "to", "enabled")
	assert.Equal(t, 2.0, sf)
	assert.Equal(t, true, en)
}

func TestGetMissing(t *testing.T) {
	_, ok := Defaults().Get("edges", "nope")
	assert.False(t, ok)
	_, ok = Defaults().Get("autoResize", "deeper")
	assert.False(t, ok)
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		format string
		src    string
	}{
		{"json", `{"physics": {"enabled": false}}`},
		{"yaml", "physics:\n  enabled: false\n"},
		{"toml", "[physics]\nenabled = false\n"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			o, err := Parse([]byte(tt.src), tt.format)
			require.NoError(t, err)
			v, ok := o.Get("physics", "enabled")
			require.True(t, ok)
			assert.Equal(t, false, v)
		})
	}

	_, err := Parse([]byte("x"), "ini")
	assert.Error(t, err)
}
