package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Formats(t *testing.T) {
	inputs := map[string]string{
		"yaml": "graph: g.yaml\nzoomKey: ctrl\nserver:\n  port: 9000\nresize:\n  wait: 20ms\n  maxWait: 80ms\n",
		"toml": "graph = \"g.yaml\"\nzoomKey = \"ctrl\"\n[server]\nport = 9000\n[resize]\nwait = \"20ms\"\nmaxWait = \"80ms\"\n",
		"json": `{"graph":"g.yaml","zoomKey":"ctrl","server":{"port":9000},"resize":{"wait":"20ms","maxWait":"80ms"}}`,
	}
	for format, in := range inputs {
		t.Run(format, func(t *testing.T) {
			cfg, err := Parse([]byte(in), format)
			require.NoError(t, err)
			assert.Equal(t, "g.yaml", cfg.Graph)
			assert.Equal(t, "ctrl", cfg.ZoomKey)
			assert.Equal(t, 9000, cfg.Server.Port)
			assert.Equal(t, "localhost", cfg.Server.Host, "default filled")
			assert.Equal(t, Duration(20*time.Millisecond), cfg.Resize.Wait)
			assert.Equal(t, Duration(80*time.Millisecond), cfg.Resize.MaxWait)
			assert.Equal(t, "TB", cfg.Snapshot.RankDir)
			assert.Equal(t, "localhost:9000", cfg.Addr())
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := map[string]string{
		"zoom key":  "zoomKey: meta\n",
		"port":      "server:\n  port: 70000\n",
		"rank dir":  "snapshot:\n  rankDir: diagonal\n",
		"max wait":  "resize:\n  wait: 50ms\n  maxWait: 10ms\n",
		"vis url":   "server:\n  visURL: not a url\n",
		"bad value": "resize:\n  wait: soon\n",
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(in), "yaml")
			assert.Error(t, err)
		})
	}

	_, err := Parse([]byte("{}"), "ini")
	assert.ErrorContains(t, err, "unsupported")
}

func TestLoad_ResolvesRelativePaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "visgraph.yaml")
	require.NoError(t, os.WriteFile(path, []byte("graph: data/g.json\noptions: opts.toml\n"), 0o644))

	assert.Equal(t, path, Find(dir))
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "data", "g.json"), cfg.Graph)
	assert.Equal(t, filepath.Join(dir, "opts.toml"), cfg.Options)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
	assert.Equal(t, "", Find(t.TempDir()))
}

func TestDefaultConfig_Valid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}
