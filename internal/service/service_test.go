package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netmap/internal/config"
	"netmap/internal/domain"
	"netmap/internal/hub"
	"netmap/internal/interaction"
	"netmap/internal/metrics"
	"netmap/internal/table"
	"netmap/internal/view"
)

func testCatalog() *domain.Catalog {
	return &domain.Catalog{Datasets: []domain.Dataset{
		{Name: "floor1", Devices: []domain.Device{
			{ID: "gw1", Name: "Gateway", Tags: []string{domain.TagGateway}, Status: domain.StatusOnline, ConnectedTo: []string{"sw1"}},
			{ID: "sw1", Name: "Switch", Tags: []string{domain.TagSwitch}, Status: domain.StatusOnline, ConnectedTo: []string{"pc1"}},
			{ID: "pc1", Name: "PC", Tags: []string{domain.TagDevice}, Status: domain.StatusOffline},
		}},
		{Name: "floor2", Devices: []domain.Device{
			{ID: "pc2", Name: "Laptop", Tags: []string{domain.TagDevice}},
		}},
	}}
}

func newManager(t *testing.T, maxSessions int) (*Manager, *EventBus) {
	t.Helper()
	bus := NewEventBus()
	m := NewManager(testCatalog(), bus, Options{
		Renderer:      view.DefaultOptions(),
		FrameInterval: 5 * time.Millisecond,
		MaxSessions:   maxSessions,
		Metrics:       metrics.NewRegistry(),
		Logger:        zerolog.Nop(),
	})
	t.Cleanup(func() { _ = m.Shutdown(context.Background()) })
	return m, bus
}

func TestManagerOpenClose(t *testing.T) {
	m, bus := newManager(t, 0)
	events := make(chan Event, 16)
	bus.Subscribe(events)

	s, err := m.Open()
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID())
	assert.Equal(t, []string{s.ID()}, m.List())

	got, err := m.Get(s.ID())
	require.NoError(t, err)
	assert.Same(t, s, got)

	require.NoError(t, m.Close(s.ID()))
	select {
	case <-s.Done():
	case <-time.After(time.Second):
		t.Fatal("session loops did not stop")
	}

	_, err = m.Get(s.ID())
	assert.True(t, errors.Is(err, ErrSessionNotFound))
	assert.True(t, errors.Is(m.Close(s.ID()), ErrSessionNotFound))

	assert.Equal(t, EventSessionOpened, (<-events).Type)
	assert.Equal(t, EventSessionClosed, (<-events).Type)
}

func TestManagerLimit(t *testing.T) {
	m, _ := newManager(t, 1)

	_, err := m.Open()
	require.NoError(t, err)
	_, err = m.Open()
	assert.True(t, errors.Is(err, ErrTooManySessions))
}

func TestManagerShutdown(t *testing.T) {
	m, _ := newManager(t, 0)
	s, err := m.Open()
	require.NoError(t, err)

	require.NoError(t, m.Shutdown(context.Background()))
	<-s.Done()
	assert.Empty(t, m.List())

	_, err = m.Open()
	assert.True(t, errors.Is(err, ErrShutdown))
}

func TestSessionSelectionStreams(t *testing.T) {
	m, bus := newManager(t, 0)
	events := make(chan Event, 16)
	s, err := m.Open()
	require.NoError(t, err)
	bus.Subscribe(events)

	client, ok := s.Hub().Subscribe()
	require.True(t, ok)
	defer s.Hub().Unsubscribe(client)

	require.NoError(t, s.Select("sw1"))

	sel, ok := s.Selection()
	require.True(t, ok)
	assert.Equal(t, "sw1", sel.ID)
	assert.NotEmpty(t, sel.Details)

	deadline := time.After(2 * time.Second)
	for {
		select {
		case msg := <-client.Events():
			if msg.Type != hub.EventSelection {
				continue
			}
			var payload Selection
			require.NoError(t, json.Unmarshal(msg.Data, &payload))
			assert.Equal(t, "sw1", payload.ID)
			assert.Equal(t, EventSelectionChanged, (<-events).Type)
			return
		case <-deadline:
			t.Fatal("no selection event")
		}
	}
}

func TestSessionFramesPublished(t *testing.T) {
	m, _ := newManager(t, 0)
	s, err := m.Open()
	require.NoError(t, err)

	client, ok := s.Hub().Subscribe()
	require.True(t, ok)
	defer s.Hub().Unsubscribe(client)

	select {
	case msg := <-client.Events():
		assert.Equal(t, hub.EventFrame, msg.Type)
		var f view.Frame
		require.NoError(t, json.Unmarshal(msg.Data, &f))
		assert.Equal(t, domain.ScopeAll, f.Scope)
	case <-time.After(2 * time.Second):
		t.Fatal("no frame published")
	}
}

func TestSessionTableOpenSelects(t *testing.T) {
	m, _ := newManager(t, 0)
	s, err := m.Open()
	require.NoError(t, err)

	require.NoError(t, s.Table(func(e *table.Engine) error {
		if err := e.SetDataset("floor1"); err != nil {
			return err
		}
		return e.Open("pc1")
	}))

	sel, ok := s.Selection()
	require.True(t, ok)
	assert.Equal(t, "pc1", sel.ID)

	err = s.Table(func(e *table.Engine) error { return e.Open("pc2") })
	assert.True(t, errors.Is(err, table.ErrUnknownRow), "pc2 is not on floor1")

	st := s.TableState()
	assert.Equal(t, "floor1", st.Dataset)
	assert.Equal(t, 3, st.Page.TotalRows)
}

func TestSessionPointer(t *testing.T) {
	m, _ := newManager(t, 0)
	s, err := m.Open()
	require.NoError(t, err)

	_, err = s.Pointer(PointerInput{Type: "press", Pane: view.PaneMain})
	assert.True(t, errors.Is(err, ErrInvalidInput))

	_, err = s.Pointer(PointerInput{Type: PointerDown, Pane: "overlay"})
	assert.True(t, errors.Is(err, view.ErrUnknownPane))

	// A press and release on empty canvas is a pan with no travel
	_, err = s.Pointer(PointerInput{Type: PointerDown, Pane: view.PaneMain, X: -5000, Y: -5000})
	require.NoError(t, err)
	ev, err := s.Pointer(PointerInput{Type: PointerUp, Pane: view.PaneMain, X: -5000, Y: -5000})
	require.NoError(t, err)
	assert.NotEqual(t, interaction.EventClick, ev.Kind)

	_, err = s.Pointer(PointerInput{Type: PointerWheel, Pane: view.PaneMain, X: 10, Y: 10, DeltaY: -120})
	require.NoError(t, err)
}

func TestSessionScopeAndResize(t *testing.T) {
	m, bus := newManager(t, 0)
	events := make(chan Event, 16)
	s, err := m.Open()
	require.NoError(t, err)
	bus.Subscribe(events)

	require.NoError(t, s.SetScope("floor2"))
	assert.Equal(t, "floor2", s.Frame().Scope)
	assert.Equal(t, EventScopeChanged, (<-events).Type)
	assert.True(t, errors.Is(s.SetScope("roof"), view.ErrUnknownScope))

	assert.True(t, errors.Is(s.Resize(ResizeInput{Pane: view.PaneMain}), ErrInvalidInput))
	require.NoError(t, s.Resize(ResizeInput{Pane: view.PaneMain, Width: 800, Height: 500}))
	f := s.Frame()
	assert.Equal(t, 800.0, f.Main.Width)

	s.SetDark(true)
	assert.True(t, s.Frame().Dark)

	assert.True(t, errors.Is(s.FitView(view.PaneSidebar), view.ErrPaneClosed))
	require.NoError(t, s.FitView(view.PaneMain))
}

func TestRendererOptions(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Theme.Dark = true
	cfg.Interaction.DragThreshold = 8

	opts, err := RendererOptions(cfg)
	require.NoError(t, err)
	assert.True(t, opts.Theme.Dark())
	assert.Equal(t, 8.0, opts.Interaction.DragThreshold)
	assert.Len(t, opts.Presets, 3)
}
