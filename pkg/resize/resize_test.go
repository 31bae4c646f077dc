package resize

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recera/visgraph/pkg/engine/enginetest"
)

type counter struct{ n atomic.Int32 }

func (c *counter) Redraw() { c.n.Add(1) }

func newTestCoordinator(t *testing.T, target func() Redrawer) (*Coordinator, *Manual) {
	t.Helper()
	var obs *Manual
	c := NewCoordinator(ManualFactory(func(m *Manual) { obs = m }), target,
		WithWait(20*time.Millisecond, 200*time.Millisecond))
	require.NotNil(t, obs)
	t.Cleanup(c.Close)
	return c, obs
}

func TestCoordinator_BurstRedrawsOnce(t *testing.T) {
	r := &counter{}
	c, obs := newTestCoordinator(t, func() Redrawer { return r })
	c.SetHost(enginetest.Element("g"))

	for i := 0; i < 10; i++ {
		obs.Notify("g", float64(100+i), 50)
	}
	time.Sleep(120 * time.Millisecond)
	assert.Equal(t, int32(1), r.n.Load())
}

func TestCoordinator_NoRedrawAfterClose(t *testing.T) {
	r := &counter{}
	c, obs := newTestCoordinator(t, func() Redrawer { return r })
	c.SetHost(enginetest.Element("g"))

	obs.Notify("g", 10, 10)
	c.Close()
	obs.Notify("g", 20, 20)
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, int32(0), r.n.Load())
	assert.False(t, obs.Observing("g"))
}

func TestCoordinator_SetHostMovesObservation(t *testing.T) {
	r := &counter{}
	c, obs := newTestCoordinator(t, func() Redrawer { return r })

	c.SetHost(enginetest.Element("a"))
	obs.Notify("a", 10, 10)
	c.SetHost(enginetest.Element("b"))

	assert.False(t, obs.Observing("a"))
	assert.True(t, obs.Observing("b"))

	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, int32(0), r.n.Load(), "pending redraw for the old host must be dropped")

	obs.Notify("a", 10, 10)
	obs.Notify("b", 10, 10)
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, int32(1), r.n.Load())
}

func TestCoordinator_SkipsWithoutEngine(t *testing.T) {
	var mu sync.Mutex
	var target Redrawer
	c, obs := newTestCoordinator(t, func() Redrawer {
		mu.Lock()
		defer mu.Unlock()
		return target
	})
	c.SetHost(enginetest.Element("g"))

	obs.Notify("g", 10, 10)
	time.Sleep(60 * time.Millisecond)

	r := &counter{}
	mu.Lock()
	target = r
	mu.Unlock()
	obs.Notify("g", 10, 10)
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(1), r.n.Load())
}

func TestCoordinator_SkipsWithoutHost(t *testing.T) {
	r := &counter{}
	c, obs := newTestCoordinator(t, func() Redrawer { return r })
	c.SetHost(enginetest.Element("g"))
	c.SetHost(nil)

	obs.Notify("g", 10, 10)
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(0), r.n.Load())
	assert.Nil(t, c.Host())
}

func TestCoordinator_RedrawHook(t *testing.T) {
	r := &counter{}
	var hooked atomic.Int32
	var obs *Manual
	c := NewCoordinator(ManualFactory(func(m *Manual) { obs = m }), func() Redrawer { return r },
		WithWait(5*time.Millisecond, 10*time.Millisecond),
		WithRedrawHook(func() { hooked.Add(1) }))
	defer c.Close()
	c.SetHost(enginetest.Element("g"))
	obs.Notify("g", 1, 1)

	require.Eventually(t, func() bool { return hooked.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(1), r.n.Load())
}

type blockingRedrawer struct {
	entered chan struct{}
	release chan struct{}
	n       atomic.Int32
}

func (b *blockingRedrawer) Redraw() {
	if b.n.Add(1) == 1 {
		close(b.entered)
	}
	<-b.release
}

func TestCoordinator_CloseWaitsForRedrawInFlight(t *testing.T) {
	r := &blockingRedrawer{entered: make(chan struct{}), release: make(chan struct{})}
	c, obs := newTestCoordinator(t, func() Redrawer { return r })
	c.SetHost(enginetest.Element("g"))

	obs.Notify("g", 10, 10)
	<-r.entered

	closed := make(chan struct{})
	go func() {
		c.Close()
		close(closed)
	}()
	select {
	case <-closed:
		t.Fatal("Close returned during a redraw")
	case <-time.After(30 * time.Millisecond):
	}
	close(r.release)
	<-closed

	obs.Notify("g", 20, 20)
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(1), r.n.Load())
}
