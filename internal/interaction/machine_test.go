package interaction

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netmap/internal/graph"
)

type point struct{ x, y float64 }

type fakeTarget struct {
	nodes  map[string]point
	radius float64
	pins   map[string]point
	heat   []float64
}

func newFakeTarget() *fakeTarget {
	return &fakeTarget{
		nodes:  map[string]point{"a": {100, 100}, "b": {300, 100}},
		radius: 10,
		pins:   make(map[string]point),
	}
}

func (f *fakeTarget) NodeAt(x, y float64) (string, bool) {
	for id, p := range f.nodes {
		if math.Hypot(p.x-x, p.y-y) <= f.radius {
			return id, true
		}
	}
	return "", false
}

func (f *fakeTarget) NodePosition(id string) (float64, float64, bool) {
	p, ok := f.nodes[id]
	return p.x, p.y, ok
}

func (f *fakeTarget) PinNode(id string, x, y float64) {
	f.pins[id] = point{x, y}
	f.nodes[id] = point{x, y}
}

func (f *fakeTarget) UnpinNode(id string) {
	delete(f.pins, id)
}

func (f *fakeTarget) Heat(alphaTarget float64) {
	f.heat = append(f.heat, alphaTarget)
}

func newMachine(t *testing.T) (*Machine, *fakeTarget) {
	t.Helper()
	target := newFakeTarget()
	return New(target, NewViewport(0.1, 4), DefaultConfig()), target
}

func TestClick(t *testing.T) {
	m, target := newMachine(t)

	m.PointerDown(100, 100)
	assert.Equal(t, StatePointerDown, m.State())
	assert.Contains(t, target.pins, "a", "press pins the node")
	assert.Equal(t, []float64{0.3}, target.heat)

	m.PointerMove(101, 101)
	assert.Equal(t, StatePointerDown, m.State(), "travel under threshold stays a press")

	ev := m.PointerUp(101, 101)
	assert.Equal(t, Event{Kind: EventClick, NodeID: "a"}, ev)
	assert.Equal(t, StateIdle, m.State())
	assert.Empty(t, target.pins)
	assert.Equal(t, []float64{0.3, 0}, target.heat)
}

func TestDrag(t *testing.T) {
	m, target := newMachine(t)

	m.PointerDown(102, 100)
	m.PointerMove(104, 100)
	assert.Equal(t, StatePointerDown, m.State())
	m.PointerMove(106, 100)
	require.Equal(t, StateDragging, m.State(), "cumulative travel past 3px starts a drag")

	// The press offset is preserved while following the pointer.
	assert.Equal(t, point{104, 100}, target.pins["a"])

	m.PointerMove(152, 150)
	assert.Equal(t, point{150, 150}, target.pins["a"])

	ev := m.PointerUp(162, 160)
	assert.Equal(t, Event{Kind: EventDragEnd, NodeID: "a"}, ev, "drag never selects")
	assert.Empty(t, target.pins)
	assert.Equal(t, point{160, 160}, target.nodes["a"], "node stays at release position")
	assert.Equal(t, 0.0, target.heat[len(target.heat)-1])
}

func TestDragThresholdIsCumulative(t *testing.T) {
	m, _ := newMachine(t)

	m.PointerDown(100, 100)
	m.PointerMove(102, 100)
	m.PointerMove(100, 100)
	assert.Equal(t, StatePointerDown, m.State())
	m.PointerMove(102, 100)
	assert.Equal(t, StateDragging, m.State(), "back and forth travel adds up")
}

func TestDragUsesWorldCoordinates(t *testing.T) {
	m, target := newMachine(t)
	m.Viewport().SetTransform(Transform{X: 50, Y: 0, K: 2})

	// world (100,100) is screen (250,200)
	m.PointerDown(250, 200)
	require.Equal(t, StatePointerDown, m.State())
	m.PointerMove(270, 200)
	require.Equal(t, StateDragging, m.State())

	assert.Equal(t, point{110, 100}, target.pins["a"])
}

func TestBackgroundPan(t *testing.T) {
	m, target := newMachine(t)

	m.PointerDown(500, 500)
	assert.Equal(t, StatePanning, m.State())
	m.PointerMove(520, 490)
	m.PointerMove(530, 480)

	ev := m.PointerUp(530, 480)
	assert.Equal(t, EventPanEnd, ev.Kind)
	assert.Equal(t, Transform{X: 30, Y: -20, K: 1}, m.Viewport().Transform())
	assert.Empty(t, target.heat, "panning never touches the simulation")
	assert.Empty(t, target.pins)
}

func TestCancelActsAsRelease(t *testing.T) {
	t.Run("during press", func(t *testing.T) {
		m, target := newMachine(t)
		m.PointerDown(100, 100)

		ev := m.Cancel()
		assert.Equal(t, EventClick, ev.Kind)
		assert.Empty(t, target.pins)
	})

	t.Run("during drag", func(t *testing.T) {
		m, target := newMachine(t)
		m.PointerDown(100, 100)
		m.PointerMove(120, 100)

		ev := m.Cancel()
		assert.Equal(t, EventDragEnd, ev.Kind)
		assert.Empty(t, target.pins)
		assert.Equal(t, point{120, 100}, target.nodes["a"])
	})

	t.Run("idle", func(t *testing.T) {
		m, _ := newMachine(t)
		assert.Equal(t, Event{}, m.Cancel())
		assert.Equal(t, Event{}, m.PointerUp(0, 0))
	})
}

func TestPointerDownWhileActiveReleasesFirst(t *testing.T) {
	m, target := newMachine(t)
	m.PointerDown(100, 100)
	m.PointerDown(300, 100)

	assert.NotContains(t, target.pins, "a")
	assert.Contains(t, target.pins, "b")
	id, ok := m.HeldNode()
	assert.True(t, ok)
	assert.Equal(t, "b", id)
}

func TestWheel(t *testing.T) {
	m, _ := newMachine(t)

	m.Wheel(100, 100, -500)
	tr := m.Viewport().Transform()
	assert.InDelta(t, 2, tr.K, 1e-9)

	// the world point under the pointer stays put
	wx, wy := tr.Invert(100, 100)
	assert.InDelta(t, 100, wx, 1e-9)
	assert.InDelta(t, 100, wy, 1e-9)

	for i := 0; i < 20; i++ {
		m.Wheel(0, 0, -500)
	}
	assert.Equal(t, 4.0, m.Viewport().Transform().K, "zoom is clamped")

	for i := 0; i < 40; i++ {
		m.Wheel(0, 0, 500)
	}
	assert.Equal(t, 0.1, m.Viewport().Transform().K)
}

func TestViewportFit(t *testing.T) {
	v := NewViewport(0.1, 4)
	bounds := graph.Rect{MinX: 0, MinY: 0, MaxX: 200, MaxY: 100}

	require.True(t, v.Fit(bounds, 560, 360, 40))
	first := v.Transform()
	assert.InDelta(t, 2, first.K, 1e-9)

	// the box center maps to the pane center
	sx, sy := first.Apply(100, 50)
	assert.InDelta(t, 280, sx, 1e-9)
	assert.InDelta(t, 180, sy, 1e-9)

	require.True(t, v.Fit(bounds, 560, 360, 40))
	assert.Equal(t, first, v.Transform(), "fit is idempotent")

	assert.False(t, v.Fit(graph.Rect{MaxX: 100}, 560, 360, 40), "zero height is a no-op")
	assert.Equal(t, first, v.Transform())
}

func TestViewportScaleBounds(t *testing.T) {
	v := NewViewport(0.5, 3)
	v.SetTransform(Transform{K: 10})
	assert.Equal(t, 3.0, v.Transform().K)

	v.Fit(graph.Rect{MaxX: 10000, MaxY: 10000}, 100, 100, 0)
	assert.Equal(t, 0.5, v.Transform().K)

	lo, hi := v.ScaleBounds()
	assert.Equal(t, 0.5, lo)
	assert.Equal(t, 3.0, hi)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "dragging", StateDragging.String())
}
