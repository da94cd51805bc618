package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netmap/internal/domain"
	"netmap/internal/metrics"
	"netmap/internal/service"
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

func newModel(t *testing.T, opts Options) (Model, *service.Session) {
	t.Helper()
	mgr := service.NewManager(testCatalog(), nil, service.Options{
		Renderer:      view.DefaultOptions(),
		FrameInterval: 5 * time.Millisecond,
		Metrics:       metrics.NewRegistry(),
		Logger:        zerolog.Nop(),
	})
	t.Cleanup(func() { _ = mgr.Shutdown(context.Background()) })

	s, err := mgr.Open()
	require.NoError(t, err)
	opts.Logger = zerolog.Nop()
	m, err := New(s, opts)
	require.NoError(t, err)
	t.Cleanup(m.Close)

	next, _ := m.Update(tea.WindowSizeMsg{Width: 90, Height: 30})
	return next.(Model), s
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func TestModelResizesPanes(t *testing.T) {
	_, s := newModel(t, Options{})

	f := s.Frame()
	l := layout{mainW: 58, sideW: 28, paneH: 24, sideCanvasH: 12}
	assert.Equal(t, float64(l.mainW)*CellWidth, f.Main.Width)
	assert.Equal(t, float64(l.paneH)*CellHeight, f.Main.Height)
}

func TestModelTabs(t *testing.T) {
	m, _ := newModel(t, Options{})
	assert.Equal(t, mapTab, m.tab)
	m = press(t, m, "tab")
	assert.Equal(t, tableTab, m.tab)
	assert.Contains(t, m.View(), "dataset: all")
	m = press(t, m, "tab")
	assert.Equal(t, mapTab, m.tab)
	assert.Contains(t, m.View(), "Click a node")
}

func TestModelTheme(t *testing.T) {
	var saved []bool
	m, s := newModel(t, Options{OnTheme: func(dark bool) error {
		saved = append(saved, dark)
		return nil
	}})
	assert.False(t, s.Frame().Dark)

	m = press(t, m, "t")
	assert.True(t, m.dark)
	assert.True(t, s.Frame().Dark)
	m = press(t, m, "t")
	assert.False(t, s.Frame().Dark)
	assert.Equal(t, []bool{true, false}, saved)
}

func TestModelScopes(t *testing.T) {
	m, s := newModel(t, Options{})
	m = press(t, m, "s")
	assert.Equal(t, "floor1", s.Frame().Scope)
	m = press(t, m, "s")
	assert.Equal(t, "floor2", s.Frame().Scope)
	m = press(t, m, "s")
	assert.Equal(t, domain.ScopeAll, s.Frame().Scope)
	press(t, m, "S")
	assert.Equal(t, "floor2", s.Frame().Scope)
}

func TestModelOpenRowSelects(t *testing.T) {
	m, s := newModel(t, Options{})
	m = press(t, m, "tab", "enter")
	assert.Equal(t, mapTab, m.tab)

	sel, ok := s.Selection()
	require.True(t, ok)
	assert.Equal(t, "gw1", sel.ID)

	m = press(t, m, "esc")
	_, ok = s.Selection()
	assert.False(t, ok)
	assert.Nil(t, m.selection)
}

func TestModelTableFilters(t *testing.T) {
	m, _ := newModel(t, Options{})
	m = press(t, m, "tab")
	assert.Equal(t, 4, m.state.Page.TotalRows)

	m = press(t, m, "x")
	require.Len(t, m.state.Filters, 1)
	assert.Equal(t, domain.FieldID, m.state.Filters[0].Field)
	assert.Equal(t, "gw1", m.state.Filters[0].Value)
	assert.Equal(t, 1, m.state.Page.TotalRows)

	m = press(t, m, "X")
	assert.Empty(t, m.state.Filters)
	assert.Equal(t, 4, m.state.Page.TotalRows)

	m = press(t, m, "/", "p", "c", "enter")
	assert.False(t, m.searching)
	assert.Equal(t, "pc", m.state.Search)
	assert.Equal(t, 2, m.state.Page.TotalRows)
}

func TestModelTableColumnsAndSort(t *testing.T) {
	m, _ := newModel(t, Options{})
	m = press(t, m, "tab", "right")
	assert.Equal(t, 1, m.column)

	field := m.visibleColumns()[1].Field
	m = press(t, m, "o")
	assert.Equal(t, field, m.state.Sort.Field)
	assert.False(t, m.state.Sort.Desc)
	m = press(t, m, "o")
	assert.True(t, m.state.Sort.Desc)
	m = press(t, m, "o")
	assert.Empty(t, m.state.Sort.Field)

	before := len(m.visibleColumns())
	m = press(t, m, "c")
	assert.Len(t, m.visibleColumns(), before-1)
	for _, c := range m.visibleColumns() {
		assert.NotEqual(t, field, c.Field)
	}
}

func TestModelTablePaging(t *testing.T) {
	m, _ := newModel(t, Options{})
	m = press(t, m, "tab", "z")
	assert.Equal(t, 25, m.state.Page.Size)

	m = press(t, m, "]")
	assert.Equal(t, "floor1", m.state.Dataset)
	assert.Equal(t, 3, m.state.Page.TotalRows)
	m = press(t, m, "[", "[")
	assert.Equal(t, "floor2", m.state.Dataset)
}

func TestModelWheelZooms(t *testing.T) {
	m, s := newModel(t, Options{})
	before := s.Frame().Main.Transform.K

	next, _ := m.Update(tea.MouseMsg{X: 10, Y: 10, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp})
	m = next.(Model)
	assert.Greater(t, s.Frame().Main.Transform.K, before)
	assert.NoError(t, m.err)
}

func TestModelPaneAt(t *testing.T) {
	m, _ := newModel(t, Options{})

	pane, col, row, ok := m.paneAt(1, headerLines+1)
	require.True(t, ok)
	assert.Equal(t, view.PaneMain, pane)
	assert.Equal(t, 0, col)
	assert.Equal(t, 0, row)

	pane, col, _, ok = m.paneAt(58+3, headerLines+1)
	require.True(t, ok)
	assert.Equal(t, view.PaneSidebar, pane)
	assert.Equal(t, 0, col)

	_, _, _, ok = m.paneAt(58+3, headerLines+1+12)
	assert.False(t, ok)
	_, _, _, ok = m.paneAt(0, 0)
	assert.False(t, ok)
}

func TestModelClosedQuits(t *testing.T) {
	m, _ := newModel(t, Options{})
	_, cmd := m.Update(closedMsg{})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
