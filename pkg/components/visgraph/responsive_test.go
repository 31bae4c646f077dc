package visgraph

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recera/visgraph/pkg/engine"
	"github.com/recera/visgraph/pkg/engine/enginetest"
	"github.com/recera/visgraph/pkg/env"
	"github.com/recera/visgraph/pkg/ref"
	"github.com/recera/visgraph/pkg/resize"
)

func newResponsive(t *testing.T, p Props, opts ...Option) (*Responsive, *resize.Manual, *enginetest.Recorder) {
	t.Helper()
	rec := &enginetest.Recorder{}
	var obs *resize.Manual
	opts = append([]Option{
		WithObserver(resize.ManualFactory(func(m *resize.Manual) { obs = m })),
		WithResizeWait(10*time.Millisecond, 40*time.Millisecond),
	}, opts...)
	r, err := NewResponsive(p, rec.Factory(), opts...)
	require.NoError(t, err)
	require.NotNil(t, obs)
	return r, obs, rec
}

func TestResponsive_RedrawsOnResize(t *testing.T) {
	tel := &telemetry{}
	r, obs, rec := newResponsive(t, Props{Graph: sample()}, WithTelemetry(tel))
	defer r.Unmount()
	require.NoError(t, r.Mount(enginetest.Element("graph")))
	require.True(t, obs.Observing("graph"))

	for i := 0; i < 5; i++ {
		obs.Notify("graph", float64(300+i), 200)
	}
	e := rec.Last()
	require.Eventually(t, func() bool { return e.Redraws() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, e.Redraws())
	assert.Equal(t, 1, tel.redrawCount())
}

func TestResponsive_NoRedrawAfterUnmount(t *testing.T) {
	r, obs, rec := newResponsive(t, Props{})
	require.NoError(t, r.Mount(enginetest.Element("graph")))
	e := rec.Last()

	obs.Notify("graph", 10, 10)
	r.Unmount()
	obs.Notify("graph", 20, 20)
	time.Sleep(60 * time.Millisecond)

	assert.Equal(t, 0, e.Redraws())
	assert.False(t, obs.Observing("graph"))
	assert.True(t, e.Destroyed())
}

func TestResponsive_ChainsCallerRefs(t *testing.T) {
	netRef := &ref.Object[engine.Engine]{}
	var host engine.Element
	p := Props{NetworkRef: netRef, ContainerRef: func(el engine.Element) { host = el }}
	r, _, rec := newResponsive(t, p)
	defer r.Unmount()
	require.NoError(t, r.Mount(enginetest.Element("graph")))

	assert.Same(t, rec.Last(), netRef.Current())
	assert.Equal(t, enginetest.Element("graph"), host)

	require.NoError(t, r.Update(p))
	assert.Same(t, rec.Last(), netRef.Current())

	other := &ref.Object[engine.Engine]{}
	p.NetworkRef = other
	require.NoError(t, r.Update(p))
	assert.Same(t, rec.Last(), other.Current())
}

func TestResponsive_StringRefRejected(t *testing.T) {
	prev := env.Set(env.Development)
	defer env.Set(prev)

	_, err := NewResponsive(Props{NetworkRef: "net"}, (&enginetest.Recorder{}).Factory(),
		WithObserver(resize.ManualFactory(nil)))
	assert.ErrorIs(t, err, ref.ErrStringRef)
}

func TestResponsive_RenderMountsAndObserves(t *testing.T) {
	r, obs, _ := newResponsive(t, Props{ID: "graph"})
	defer r.Unmount()

	n := r.Render()
	mount, ok := n.Props["ref"].(func(engine.Element))
	require.True(t, ok)
	mount(enginetest.Element("graph"))

	assert.NotNil(t, r.Network())
	assert.True(t, obs.Observing("graph"))
}
