package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recera/visgraph/cmd/visgraph/internal/config"
	"github.com/recera/visgraph/cmd/visgraph/internal/source"
	"github.com/recera/visgraph/pkg/graph"
	"github.com/recera/visgraph/pkg/live"
	"github.com/recera/visgraph/pkg/metrics"
)

const sampleYAML = `nodes:
  - id: a
    label: Alpha
  - id: b
edges:
  - from: a
    to: b
`

func newTestApp(t *testing.T) (*app, *httptest.Server) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "graph.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o644))

	cfg := config.DefaultConfig()
	cfg.Graph = path
	cfg.ZoomKey = "ctrl"
	a, err := newApp(cfg, metrics.NewRegistry())
	require.NoError(t, err)
	ts := httptest.NewServer(a.routes())
	t.Cleanup(func() {
		a.close()
		ts.Close()
	})
	return a, ts
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(b)
}

func TestServe_Page(t *testing.T) {
	_, ts := newTestApp(t)
	status, body := get(t, ts.URL+"/")
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, strings.HasPrefix(body, "<!DOCTYPE html>"))
	assert.Contains(t, body, `id="graph"`)
	assert.Contains(t, body, "width:100%;height:100%")
	assert.Contains(t, body, `src="/client.js"`)
	assert.Contains(t, body, `/live/`)
	assert.Contains(t, body, `src="/snapshot.svg"`)
}

func TestServe_SnapshotHealthAndMetrics(t *testing.T) {
	_, ts := newTestApp(t)

	status, body := get(t, ts.URL+"/snapshot.svg")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "<svg")

	status, body = get(t, ts.URL+"/healthz")
	assert.Equal(t, http.StatusOK, status)
	var health map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &health))
	assert.Equal(t, "ok", health["status"])

	status, body = get(t, ts.URL+"/client.js")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "visgraphLive")

	status, body = get(t, ts.URL+"/metrics")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `visgraph_http_requests_total{method="GET",route="/snapshot.svg",status="200"} 1`)
	assert.Contains(t, body, "visgraph_snapshot_renders_total")
}

func readCommand(t *testing.T, c *websocket.Conn) live.Command {
	t.Helper()
	for {
		require.NoError(t, c.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, data, err := c.ReadMessage()
		require.NoError(t, err)
		f, err := live.DecodeFrame(data)
		require.NoError(t, err)
		if f.Type != live.FrameCommand {
			continue
		}
		cmd, err := live.DecodeCommand(data)
		require.NoError(t, err)
		return cmd
	}
}

func TestServe_LiveSessionFollowsReload(t *testing.T) {
	a, ts := newTestApp(t)
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/live/" + live.NewSessionID()
	c, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer c.Close()

	create := readCommand(t, c)
	require.Equal(t, live.OpCreate, create.Op)
	assert.Equal(t, containerID, create.Host)
	assert.Len(t, create.Nodes, 2)

	// Four events are bound, then the zoom gate.
	for range 4 {
		assert.Equal(t, live.OpListen, readCommand(t, c).Op)
	}
	zk := readCommand(t, c)
	assert.Equal(t, live.OpZoomKey, zk.Op)
	assert.Equal(t, "ctrlKey", zk.ZoomKey)

	snap := a.src.Load()
	require.NoError(t, snap.Err)
	snap.Data.Nodes = append(snap.Data.Nodes, graph.Node{ID: "c"})
	a.reload(snap)

	add := readCommand(t, c)
	assert.Equal(t, live.OpAdd, add.Op)
	assert.Equal(t, live.CollectionNodes, add.Collection)
	require.Len(t, add.Items, 1)
	assert.Equal(t, "c", add.Items[0]["id"])

	a.reload(source.Snapshot{Err: assert.AnError})
	assert.Len(t, a.props().Graph.Nodes, 3, "failed reload keeps the graph")

	require.NoError(t, c.Close())
	assert.Eventually(t, func() bool {
		a.mu.Lock()
		defer a.mu.Unlock()
		return len(a.components) == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestDiffCommand(t *testing.T) {
	dir := t.TempDir()
	from := filepath.Join(dir, "from.yaml")
	to := filepath.Join(dir, "to.json")
	require.NoError(t, os.WriteFile(from, []byte(sampleYAML), 0o644))
	require.NoError(t, os.WriteFile(to, []byte(`{"nodes":[{"id":"a","label":"Alpha"},{"id":"c"}],"edges":[]}`), 0o644))

	var out strings.Builder
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"diff", "--summary", from, to})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "nodes +1 ~0 -1, edges +0 ~0 -1\n", out.String())
}

func TestRenderCommand_DOT(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "g.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o644))

	var out strings.Builder
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"render", "--dot", "--rankdir", "LR", path})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "rankdir=LR;")
	assert.Contains(t, out.String(), `"a" -> "b";`)
}
